package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"moviehub/internal/handler"
	"moviehub/internal/models"
	"moviehub/internal/service"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListForMovie(ctx context.Context, movieID string) ([]models.Comment, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) Add(ctx context.Context, movieID string, author *models.User, body string) (*models.Comment, error) {
	args := m.Called(ctx, movieID, author, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func setupCommentRouter(mockService *MockCommentService, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCommentHandler(mockService)
	h.RegisterRoutes(r.Group("/api/v1/movies"), mockAuthMiddleware(user))
	return r
}

func TestCommentHandler_List(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService, user)

		comments := []models.Comment{
			{
				ID:        1,
				MovieID:   "tt1",
				Body:      "Loved the <twist> at the end!",
				CreatedAt: time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC),
				User:      models.User{Username: "bob"},
			},
		}
		mockService.On("ListForMovie", mock.Anything, "tt1").Return(comments, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/movies/tt1/comments", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<comments movieId="tt1">`)
		assert.Contains(t, body, "<author>bob</author>")
		// The body must survive as character data, markup intact.
		assert.Contains(t, body, "<![CDATA[Loved the <twist> at the end!]]>")
	})

	t.Run("MovieNotFound", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService, user)

		mockService.On("ListForMovie", mock.Anything, "nope").
			Return(nil, service.ErrMovieNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/movies/nope/comments", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCommentHandler_Add(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService, user)

		stored := &models.Comment{
			ID:        9,
			MovieID:   "tt1",
			UserID:    "u-1",
			Body:      "Great film",
			CreatedAt: time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC),
			User:      *user,
		}
		mockService.On("Add", mock.Anything, "tt1", user, "Great film").Return(stored, nil).Once()

		w := postXML(r, "/api/v1/movies/tt1/comments", `<comment><body>Great film</body></comment>`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "<author>alice</author>")
		mockService.AssertExpectations(t)
	})

	t.Run("MissingBody", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService, user)

		w := postXML(r, "/api/v1/movies/tt1/comments", `<comment></comment>`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Add")
	})

	t.Run("MovieNotFound", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService, user)

		mockService.On("Add", mock.Anything, "nope", user, "hi").
			Return(nil, service.ErrMovieNotFound).Once()

		w := postXML(r, "/api/v1/movies/nope/comments", `<comment><body>hi</body></comment>`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
