package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedhub/internal/cache"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/repository"
	"feedhub/internal/storage"
)

const (
	// DefaultPageSize is the number of posts per feed page.
	DefaultPageSize = 2

	postCacheTTL = 5 * time.Minute

	minTitleLength   = 5
	minContentLength = 5
)

// PostInput carries the mutable fields of a post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PostService handles post CRUD, enforcing validation and ownership. Updates
// and deletes succeed only for the post's creator; everyone else gets
// Forbidden. Deleting a post releases its image and removes it from the
// creator's post set.
type PostService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input PostInput) (*model.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context, page int) ([]model.Post, int64, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Post, error)
	Update(ctx context.Context, userID, postID uuid.UUID, input PostInput) (*model.Post, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
}

type postService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	images   storage.ImageStore
	cache    *cache.Client
	log      *zap.SugaredLogger
	pageSize int
}

// NewPostService creates a new post service. pageSize < 1 falls back to DefaultPageSize.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	images storage.ImageStore,
	cache *cache.Client,
	log *zap.SugaredLogger,
	pageSize int,
) PostService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &postService{
		posts:    posts,
		users:    users,
		images:   images,
		cache:    cache,
		log:      log,
		pageSize: pageSize,
	}
}

func (s *postService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id.String())
}

func validatePostInput(input PostInput) []apperrors.FieldError {
	var data []apperrors.FieldError
	if len(strings.TrimSpace(input.Title)) < minTitleLength {
		data = append(data, apperrors.FieldError{Field: "title", Message: "Title needs 5 min length."})
	}
	if len(strings.TrimSpace(input.Content)) < minContentLength {
		data = append(data, apperrors.FieldError{Field: "content", Message: "Content needs 5 min length."})
	}
	return data
}

// Create validates the input and stores a new post for creatorID. An image
// reference is mandatory on creation.
func (s *postService) Create(ctx context.Context, creatorID uuid.UUID, input PostInput) (*model.Post, error) {
	if data := validatePostInput(input); len(data) > 0 {
		return nil, apperrors.ValidationFailed("Validation Failed!", data...)
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, apperrors.ValidationFailed("No image provided.")
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("Invalid user.")
		}
		return nil, fmt.Errorf("find creator: %w", err)
	}

	post := &model.Post{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		ImageURL:  input.ImageURL,
		CreatorID: creator.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	post.Creator = creator
	return post, nil
}

// Get retrieves a post by id with caching.
func (s *postService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Could not find post.")
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	if payload, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, postCacheTTL)
	}

	return post, nil
}

// List returns the requested feed page, newest first, together with the
// total unpaginated count.
func (s *postService) List(ctx context.Context, page int) ([]model.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts, err := s.posts.List(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	return posts, total, nil
}

func (s *postService) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Post, error) {
	posts, err := s.posts.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by creator: %w", err)
	}
	return posts, nil
}

// Update mutates a post after checking that userID is its creator. When no
// image reference is supplied the existing one is carried over; a replaced
// image is released.
func (s *postService) Update(ctx context.Context, userID, postID uuid.UUID, input PostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Could not find post.")
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	if post.CreatorID != userID {
		return nil, apperrors.Forbidden("Not Authorized.")
	}

	if data := validatePostInput(input); len(data) > 0 {
		return nil, apperrors.ValidationFailed("Validation Failed!", data...)
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = post.ImageURL
	}
	if imageURL != post.ImageURL {
		s.releaseImage(ctx, post.ImageURL)
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Content = strings.TrimSpace(input.Content)
	post.ImageURL = imageURL
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(postID))
	return post, nil
}

// Delete removes a post after checking that userID is its creator. The
// image is released exactly once; deleting the row removes the post from
// the creator's post set.
func (s *postService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Could not find post.")
		}
		return fmt.Errorf("find post: %w", err)
	}

	if post.CreatorID != userID {
		return apperrors.Forbidden("Not Authorized.")
	}

	s.releaseImage(ctx, post.ImageURL)

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(postID))
	return nil
}

// releaseImage is fire-and-forget: a failed delete is logged, never surfaced.
func (s *postService) releaseImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil {
		s.log.Warnw("release image", "path", path, "error", err)
	}
}
