// Seed creates a demo user and a handful of posts for local development.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"feedhub/internal/config"
	"feedhub/internal/db"
	"feedhub/internal/model"
	"feedhub/internal/repository"
)

const (
	demoEmail    = "demo@feedhub.local"
	demoPassword = "secret"
)

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	posts := repository.NewPostRepository(gormDB)

	user, err := users.FindByEmail(ctx, demoEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up demo user: %v", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user = &model.User{
			ID:           uuid.New(),
			Email:        demoEmail,
			PasswordHash: string(hashed),
			Name:         "Demo Author",
			Status:       model.DefaultStatus,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s (password %q)", demoEmail, demoPassword)
	} else {
		log.Printf("Demo user %s already exists", demoEmail)
	}

	count, err := posts.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count posts: %v", err)
	}
	if count > 0 {
		log.Printf("Posts already present (%d), skipping post seed", count)
		return
	}

	for i := 1; i <= 5; i++ {
		post := &model.Post{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Demo post #%d", i),
			Content:   fmt.Sprintf("This is the body of demo post number %d.", i),
			ImageURL:  fmt.Sprintf("images/demo-%d.png", i),
			CreatorID: user.ID,
		}
		if err := posts.Create(ctx, post); err != nil {
			log.Fatalf("Failed to create demo post %d: %v", i, err)
		}
	}
	log.Println("Seeded 5 demo posts")
}
