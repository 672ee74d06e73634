package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"feedhub/internal/auth"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/service"
)

// PostHandler handles the feed endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRequest represents a post create or update payload. The image is
// uploaded beforehand via PUT /image and referenced by the returned path.
type PostRequest struct {
	Title    string `json:"title" validate:"required,min=5"`
	Content  string `json:"content" validate:"required,min=5"`
	ImageURL string `json:"imageUrl"`
}

// PostsResponse represents one feed page.
type PostsResponse struct {
	Message    string       `json:"message"`
	Posts      []model.Post `json:"posts"`
	TotalItems int64        `json:"totalItems"`
}

// PostResponse wraps a single post.
type PostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

// CreatorRef identifies the creator in a create response.
type CreatorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatePostResponse represents a successful post creation.
type CreatePostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
	Creator CreatorRef  `json:"creator"`
}

func postID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound("Could not find post.")
	}
	return id, nil
}

// List godoc
// @Summary List feed posts, newest first
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} PostsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	posts, total, err := h.postService.List(c.Request().Context(), page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PostsResponse{
		Message:    "Fetched posts.",
		Posts:      posts,
		TotalItems: total,
	})
}

// Create godoc
// @Summary Create a post
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post payload"
// @Success 201 {object} CreatePostResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity := auth.IdentityFrom(c)
	post, err := h.postService.Create(c.Request().Context(), identity.UserID, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatePostResponse{
		Message: "Created Successfully!",
		Post:    post,
		Creator: CreatorRef{ID: post.Creator.ID.String(), Name: post.Creator.Name},
	})
}

// Get godoc
// @Summary Fetch a single post
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PostResponse{
		Message: "Post fetched.",
		Post:    post,
	})
}

// Update godoc
// @Summary Update an owned post
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body PostRequest true "Post payload"
// @Success 200 {object} PostResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity := auth.IdentityFrom(c)
	post, err := h.postService.Update(c.Request().Context(), identity.UserID, id, service.PostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PostResponse{
		Message: "Post updated successfully!",
		Post:    post,
	})
}

// Delete godoc
// @Summary Delete an owned post
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	identity := auth.IdentityFrom(c)
	if err := h.postService.Delete(c.Request().Context(), identity.UserID, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Deleted post.",
	})
}
