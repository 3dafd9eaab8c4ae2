package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-api/internal/auth"
	"blog-api/internal/domain"
	"blog-api/internal/metrics"
)

const currentUserKey = "currentUser"

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Infof("incoming request: %s %s", c.Request.Method, c.Request.URL.RequestURI())
		c.Next()
	}
}

func metricsMiddleware(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// authenticate resolves the bearer token to the live user record and stores
// it on the context for requireRole and the handlers.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
			c.Next()
		case errors.Is(err, auth.ErrAccessDenied):
			h.metrics.RecordAuthOutcome("authenticate", "access_denied")
			abortWithError(c, http.StatusUnauthorized, "Access denied")
		case errors.Is(err, auth.ErrInvalidToken):
			h.metrics.RecordAuthOutcome("authenticate", "invalid_token")
			abortWithError(c, http.StatusForbidden, "Invalid token")
		case errors.Is(err, auth.ErrUserNotFound):
			h.metrics.RecordAuthOutcome("authenticate", "user_not_found")
			abortWithError(c, http.StatusNotFound, "User not found")
		default:
			h.logger.Errorf("Error finding user: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
		}
	}
}

// requireRole must run after authenticate.
func (h *Handler) requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := currentUser(c)
		err := auth.Authorize(user, role)
		switch {
		case err == nil:
			h.logger.Infof("User with role %s authorized for route requiring %s role.", user.Role, role)
			c.Next()
		case errors.Is(err, auth.ErrNoIdentity):
			h.logger.Errorf("role check for %s on %s ran without an authenticated user", role, c.FullPath())
			abortWithError(c, http.StatusInternalServerError, "Internal server error")
		default:
			h.metrics.RecordAuthOutcome("authorize", "unauthorized")
			h.logger.Warnf("Unauthorized access attempt by user with role %s", user.Role)
			abortWithError(c, http.StatusForbidden, "Unauthorized")
		}
	}
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
