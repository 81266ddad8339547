package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"moviehub/internal/handler"
	"moviehub/internal/models"
	"moviehub/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, string, error) {
	args := m.Called(ctx, username, password, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, password string) (*models.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	registerDoc := `<user><username>alice</username><email>alice@example.com</email><password>s3cret-pass</password></user>`

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		user := &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}
		mockService.On("Register", mock.Anything, "alice", "s3cret-pass", "alice@example.com").
			Return(user, "token-abc", nil).Once()

		w := postXML(r, "/api/v1/register", registerDoc)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<username>alice</username>")
		assert.Contains(t, body, "<token>token-abc</token>")
		assert.NotContains(t, body, "s3cret-pass")
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		mockService.On("Register", mock.Anything, "alice", "s3cret-pass", "alice@example.com").
			Return(nil, "", service.ErrNameInUse).Once()

		w := postXML(r, "/api/v1/register", registerDoc)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "username")
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		w := postXML(r, "/api/v1/register", `<user><username>alice</username></user>`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Register")
	})

	t.Run("WrongContentType", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewBufferString(registerDoc))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestAuthHandler_Token(t *testing.T) {
	credsDoc := `<auth><username>alice</username><password>s3cret-pass</password></auth>`

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		user := &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}
		mockService.On("IssueToken", mock.Anything, "alice", "s3cret-pass").
			Return(user, "token-abc", nil).Once()

		w := postXML(r, "/api/v1/auth/token", credsDoc)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<token>token-abc</token>")
	})

	t.Run("BadCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		mockService.On("IssueToken", mock.Anything, "alice", "s3cret-pass").
			Return(nil, "", service.ErrInvalidCredentials).Once()

		w := postXML(r, "/api/v1/auth/token", credsDoc)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingPassword", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthRouter(mockService)

		w := postXML(r, "/api/v1/auth/token", `<auth><username>alice</username></auth>`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "IssueToken")
	})
}
