package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"moviehub/internal/models"
	"moviehub/internal/service"
	"moviehub/internal/xmlcodec"
)

const userContextKey = "currentUser"

// AuthMiddleware is a Gin middleware for token authentication of API requests.
// It checks for the presence and validity of a bearer token in the
// Authorization header and resolves it to a user.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		// Set user info in context for handlers to use
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireStaff gates write access to the movie catalogue. It must run
// after AuthMiddleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if !user.IsStaff {
			abortWithError(c, http.StatusForbidden, "staff access required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func abortWithError(c *gin.Context, status int, message string) {
	c.Data(status, "application/xml", xmlcodec.Document(xmlcodec.EncodeError(message)))
	c.Abort()
}
