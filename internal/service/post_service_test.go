package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
)

func newPostService(posts *MockPostRepository, users *MockUserRepository, images *fakeImageStore) PostService {
	return NewPostService(posts, users, images, nil, zap.NewNop().Sugar(), DefaultPageSize)
}

func TestPostService_Create(t *testing.T) {
	creatorID := uuid.New()
	creator := &model.User{ID: creatorID, Name: "Author", Email: "a@b.com"}

	tests := []struct {
		name        string
		input       PostInput
		setupMock   func(*MockPostRepository, *MockUserRepository)
		wantStatus  int
		wantMessage string
	}{
		{
			name:  "successful create",
			input: PostInput{Title: "Hello World", Content: "Hello World body", ImageURL: "images/pic.png"},
			setupMock: func(p *MockPostRepository, u *MockUserRepository) {
				u.On("FindByID", mock.Anything, creatorID).Return(creator, nil)
				p.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
		},
		{
			name:        "missing image",
			input:       PostInput{Title: "Hello World", Content: "Hello World body"},
			setupMock:   func(p *MockPostRepository, u *MockUserRepository) {},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "No image provided.",
		},
		{
			name:       "short title",
			input:      PostInput{Title: "Hi", Content: "Hello World body", ImageURL: "images/pic.png"},
			setupMock:  func(p *MockPostRepository, u *MockUserRepository) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "whitespace-padded short content",
			input:      PostInput{Title: "Hello World", Content: "  ab  ", ImageURL: "images/pic.png"},
			setupMock:  func(p *MockPostRepository, u *MockUserRepository) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:  "unknown creator",
			input: PostInput{Title: "Hello World", Content: "Hello World body", ImageURL: "images/pic.png"},
			setupMock: func(p *MockPostRepository, u *MockUserRepository) {
				u.On("FindByID", mock.Anything, creatorID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := new(MockPostRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMock(mockPosts, mockUsers)

			svc := newPostService(mockPosts, mockUsers, &fakeImageStore{})
			post, err := svc.Create(context.Background(), creatorID, tt.input)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				appErr := apperrors.From(err)
				assert.Equal(t, tt.wantStatus, appErr.StatusCode)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, appErr.Message)
				}
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				require.NotNil(t, post)
				assert.Equal(t, creatorID, post.CreatorID)
				assert.Equal(t, creator, post.Creator)
				assert.NotEqual(t, uuid.Nil, post.ID)
			}

			mockPosts.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestPostService_List(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	stored := []model.Post{{Title: "third"}, {Title: "second"}}

	mockPosts.On("Count", mock.Anything).Return(int64(5), nil)
	// page 2 with page size 2 covers posts [2, 4)
	mockPosts.On("List", mock.Anything, 2, 2).Return(stored, nil)

	svc := newPostService(mockPosts, mockUsers, &fakeImageStore{})
	posts, total, err := svc.List(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, stored, posts)
	mockPosts.AssertExpectations(t)
}

func TestPostService_List_ClampsPage(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockPosts.On("Count", mock.Anything).Return(int64(1), nil)
	mockPosts.On("List", mock.Anything, 0, 2).Return([]model.Post{{Title: "only"}}, nil)

	svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
	_, _, err := svc.List(context.Background(), 0)

	require.NoError(t, err)
	mockPosts.AssertExpectations(t)
}

func TestPostService_Update(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	postID := uuid.New()

	existing := func() *model.Post {
		return &model.Post{
			ID:        postID,
			Title:     "Old title",
			Content:   "Old content",
			ImageURL:  "images/old.png",
			CreatorID: ownerID,
		}
	}

	t.Run("owner updates, image carried over", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		images := &fakeImageStore{}
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockPosts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		svc := newPostService(mockPosts, new(MockUserRepository), images)
		post, err := svc.Update(context.Background(), ownerID, postID, PostInput{
			Title:   "New title",
			Content: "New content",
		})

		require.NoError(t, err)
		assert.Equal(t, "images/old.png", post.ImageURL)
		assert.Empty(t, images.removedPaths())
	})

	t.Run("replacing image releases the old one", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		images := &fakeImageStore{}
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockPosts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		svc := newPostService(mockPosts, new(MockUserRepository), images)
		post, err := svc.Update(context.Background(), ownerID, postID, PostInput{
			Title:    "New title",
			Content:  "New content",
			ImageURL: "images/new.png",
		})

		require.NoError(t, err)
		assert.Equal(t, "images/new.png", post.ImageURL)
		assert.Equal(t, []string{"images/old.png"}, images.removedPaths())
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)

		svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
		post, err := svc.Update(context.Background(), strangerID, postID, PostInput{
			Title:   "New title",
			Content: "New content",
		})

		require.Error(t, err)
		appErr := apperrors.From(err)
		assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
		assert.Equal(t, "Not Authorized.", appErr.Message)
		assert.Nil(t, post)
	})

	t.Run("missing post", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		mockPosts.On("FindByID", mock.Anything, postID).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
		_, err := svc.Update(context.Background(), ownerID, postID, PostInput{
			Title:   "New title",
			Content: "New content",
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperrors.From(err).StatusCode)
	})
}

func TestPostService_Delete(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	postID := uuid.New()

	existing := func() *model.Post {
		return &model.Post{
			ID:        postID,
			Title:     "Hello World",
			Content:   "Hello World body",
			ImageURL:  "images/pic.png",
			CreatorID: ownerID,
		}
	}

	t.Run("owner deletes, image released exactly once", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		images := &fakeImageStore{}
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockPosts.On("Delete", mock.Anything, postID).Return(nil)

		svc := newPostService(mockPosts, new(MockUserRepository), images)
		err := svc.Delete(context.Background(), ownerID, postID)

		require.NoError(t, err)
		assert.Equal(t, []string{"images/pic.png"}, images.removedPaths())
		mockPosts.AssertExpectations(t)
	})

	t.Run("failed image release does not fail the delete", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		images := &fakeImageStore{removeErr: assert.AnError}
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)
		mockPosts.On("Delete", mock.Anything, postID).Return(nil)

		svc := newPostService(mockPosts, new(MockUserRepository), images)
		err := svc.Delete(context.Background(), ownerID, postID)

		require.NoError(t, err)
	})

	t.Run("non-owner is forbidden and nothing is released", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		images := &fakeImageStore{}
		mockPosts.On("FindByID", mock.Anything, postID).Return(existing(), nil)

		svc := newPostService(mockPosts, new(MockUserRepository), images)
		err := svc.Delete(context.Background(), strangerID, postID)

		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, apperrors.From(err).StatusCode)
		assert.Empty(t, images.removedPaths())
		mockPosts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		mockPosts.On("FindByID", mock.Anything, postID).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
		err := svc.Delete(context.Background(), ownerID, postID)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperrors.From(err).StatusCode)
	})
}

func TestPostService_Get(t *testing.T) {
	postID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		stored := &model.Post{ID: postID, Title: "Hello World"}
		mockPosts.On("FindByID", mock.Anything, postID).Return(stored, nil)

		svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
		post, err := svc.Get(context.Background(), postID)

		require.NoError(t, err)
		assert.Equal(t, stored, post)
	})

	t.Run("missing", func(t *testing.T) {
		mockPosts := new(MockPostRepository)
		mockPosts.On("FindByID", mock.Anything, postID).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockPosts, new(MockUserRepository), &fakeImageStore{})
		_, err := svc.Get(context.Background(), postID)

		require.Error(t, err)
		appErr := apperrors.From(err)
		assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
		assert.Equal(t, "Could not find post.", appErr.Message)
	})
}
