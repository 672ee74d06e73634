package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/service"
)

// Resolver implements the schema's field resolvers on top of the services.
type Resolver struct {
	auth  service.AuthService
	users service.UserService
	posts service.PostService
}

// AuthPayload is the login result.
type AuthPayload struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// PostsPayload is one page of the feed.
type PostsPayload struct {
	Posts      []model.Post `json:"posts"`
	TotalPosts int64        `json:"totalPosts"`
}

// identity returns the authenticated caller or an Unauthenticated error.
func identity(ctx context.Context) (auth.Identity, error) {
	id := auth.IdentityFromContext(ctx)
	if !id.IsAuth {
		return auth.Identity{}, apperrors.Unauthenticated("User is not authenticated.")
	}
	return id, nil
}

func strArg(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func idArg(p graphql.ResolveParams) (uuid.UUID, error) {
	raw, _ := p.Args["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NotFound("Could not find post.")
	}
	return id, nil
}

func postInputArg(p graphql.ResolveParams) service.PostInput {
	input, _ := p.Args["postInput"].(map[string]interface{})
	return service.PostInput{
		Title:    strArg(input, "title"),
		Content:  strArg(input, "content"),
		ImageURL: strArg(input, "imageUrl"),
	}
}

// CreateUser resolves the createUser mutation. It is the only mutation open
// to anonymous callers.
func (r *Resolver) CreateUser(p graphql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["userInput"].(map[string]interface{})
	return r.auth.Signup(p.Context,
		strArg(input, "email"),
		strArg(input, "password"),
		strArg(input, "name"),
	)
}

// Login resolves the login query, returning a token valid for one hour.
func (r *Resolver) Login(p graphql.ResolveParams) (interface{}, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	token, user, err := r.auth.Login(p.Context, email, password)
	if err != nil {
		return nil, err
	}
	return AuthPayload{Token: token, UserID: user.ID.String()}, nil
}

// Posts resolves the paginated feed query.
func (r *Resolver) Posts(p graphql.ResolveParams) (interface{}, error) {
	if _, err := identity(p.Context); err != nil {
		return nil, err
	}

	page, _ := p.Args["page"].(int)
	posts, total, err := r.posts.List(p.Context, page)
	if err != nil {
		return nil, err
	}
	return PostsPayload{Posts: posts, TotalPosts: total}, nil
}

// Post resolves a single post by id.
func (r *Resolver) Post(p graphql.ResolveParams) (interface{}, error) {
	if _, err := identity(p.Context); err != nil {
		return nil, err
	}

	id, err := idArg(p)
	if err != nil {
		return nil, err
	}
	return r.posts.Get(p.Context, id)
}

// CreatePost resolves the createPost mutation.
func (r *Resolver) CreatePost(p graphql.ResolveParams) (interface{}, error) {
	caller, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	return r.posts.Create(p.Context, caller.UserID, postInputArg(p))
}

// UpdatePost resolves the updatePost mutation; only the creator succeeds.
func (r *Resolver) UpdatePost(p graphql.ResolveParams) (interface{}, error) {
	caller, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	id, err := idArg(p)
	if err != nil {
		return nil, err
	}
	return r.posts.Update(p.Context, caller.UserID, id, postInputArg(p))
}

// DeletePost resolves the deletePost mutation; only the creator succeeds.
func (r *Resolver) DeletePost(p graphql.ResolveParams) (interface{}, error) {
	caller, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	id, err := idArg(p)
	if err != nil {
		return nil, err
	}
	if err := r.posts.Delete(p.Context, caller.UserID, id); err != nil {
		return nil, err
	}
	return true, nil
}

// User resolves the authenticated caller's own record.
func (r *Resolver) User(p graphql.ResolveParams) (interface{}, error) {
	caller, err := identity(p.Context)
	if err != nil {
		return nil, err
	}
	return r.users.Get(p.Context, caller.UserID)
}

// UpdateStatus resolves the updateStatus mutation.
func (r *Resolver) UpdateStatus(p graphql.ResolveParams) (interface{}, error) {
	caller, err := identity(p.Context)
	if err != nil {
		return nil, err
	}

	status, _ := p.Args["status"].(string)
	return r.users.UpdateStatus(p.Context, caller.UserID, status)
}

func (r *Resolver) resolveUserPosts(p graphql.ResolveParams) (interface{}, error) {
	user, ok := userFrom(p.Source)
	if !ok {
		return []model.Post{}, nil
	}
	return r.posts.ListByCreator(p.Context, user.ID)
}

func (r *Resolver) resolvePostCreator(p graphql.ResolveParams) (interface{}, error) {
	post, ok := postFrom(p.Source)
	if !ok {
		return nil, apperrors.Internal("internal server error")
	}
	if post.Creator != nil {
		return post.Creator, nil
	}
	return r.users.Get(p.Context, post.CreatorID)
}

func resolveUserID(p graphql.ResolveParams) (interface{}, error) {
	user, ok := userFrom(p.Source)
	if !ok {
		return nil, apperrors.Internal("internal server error")
	}
	return user.ID.String(), nil
}

func resolvePostID(p graphql.ResolveParams) (interface{}, error) {
	post, ok := postFrom(p.Source)
	if !ok {
		return nil, apperrors.Internal("internal server error")
	}
	return post.ID.String(), nil
}

func resolvePostCreatedAt(p graphql.ResolveParams) (interface{}, error) {
	post, ok := postFrom(p.Source)
	if !ok {
		return nil, apperrors.Internal("internal server error")
	}
	return post.CreatedAt.Format(time.RFC3339), nil
}

func resolvePostUpdatedAt(p graphql.ResolveParams) (interface{}, error) {
	post, ok := postFrom(p.Source)
	if !ok {
		return nil, apperrors.Internal("internal server error")
	}
	return post.UpdatedAt.Format(time.RFC3339), nil
}

func userFrom(src interface{}) (*model.User, bool) {
	switch u := src.(type) {
	case *model.User:
		return u, true
	case model.User:
		return &u, true
	}
	return nil, false
}

func postFrom(src interface{}) (*model.Post, bool) {
	switch p := src.(type) {
	case *model.Post:
		return p, true
	case model.Post:
		return &p, true
	}
	return nil, false
}
