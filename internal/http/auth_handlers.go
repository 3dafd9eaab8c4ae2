package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"blog-api/internal/auth"
	"blog-api/internal/service"
)

func (h *Handler) signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	_, err := h.auth.Signup(c.Request.Context(), req, h.baseURL(c))
	var verr *service.ValidationError
	switch {
	case err == nil:
		h.metrics.RecordAuthOutcome("signup", "success")
		c.JSON(http.StatusCreated, gin.H{"message": "User created. Verify your email."})
	case errors.As(err, &verr):
		h.metrics.RecordAuthOutcome("signup", "invalid_input")
		c.JSON(http.StatusBadRequest, validationBody(verr))
	case errors.Is(err, service.ErrDuplicateEmail):
		h.metrics.RecordAuthOutcome("signup", "duplicate_email")
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	default:
		h.metrics.RecordAuthOutcome("signup", "error")
		h.logger.Errorf("Error signing up user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user."})
	}
}

func (h *Handler) verify(c *gin.Context) {
	_, err := h.auth.Verify(c.Request.Context(), c.Param("token"))
	switch {
	case err == nil:
		h.metrics.RecordAuthOutcome("verify", "success")
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully. You can now sign in."})
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		h.metrics.RecordAuthOutcome("verify", "invalid_token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token."})
	default:
		h.metrics.RecordAuthOutcome("verify", "error")
		h.logger.Errorf("Error verifying email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying email."})
	}
}

func (h *Handler) signinUser(c *gin.Context) {
	var req service.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.auth.SigninUser(c.Request.Context(), req)
	switch {
	case err == nil:
		h.metrics.RecordAuthOutcome("signin_user", "success")
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, service.ErrInvalidCredentials):
		h.metrics.RecordAuthOutcome("signin_user", "invalid_credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrEmailNotVerified):
		h.metrics.RecordAuthOutcome("signin_user", "email_not_verified")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please verify your email before signing in."})
	default:
		h.metrics.RecordAuthOutcome("signin_user", "error")
		h.logger.Errorf("Error during sign-in: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error signing in user."})
	}
}

func (h *Handler) signinAdmin(c *gin.Context) {
	var req service.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.auth.SigninAdmin(c.Request.Context(), req)
	switch {
	case err == nil:
		h.metrics.RecordAuthOutcome("signin_admin", "success")
		c.JSON(http.StatusOK, gin.H{"message": "signin successful", "token": token})
	case errors.Is(err, service.ErrInvalidCredentials):
		h.metrics.RecordAuthOutcome("signin_admin", "invalid_credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		h.metrics.RecordAuthOutcome("signin_admin", "error")
		h.logger.Errorf("Error during signin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error during signin"})
	}
}

func (h *Handler) createAdmin(c *gin.Context) {
	var req service.CreateAdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caller, _ := currentUser(c)
	admin, err := h.auth.CreateAdmin(c.Request.Context(), caller, req)
	var verr *service.ValidationError
	switch {
	case err == nil:
		h.metrics.RecordAuthOutcome("create_admin", "success")
		c.JSON(http.StatusCreated, gin.H{"message": "Admin created successfully", "admin": userToResponse(*admin)})
	case errors.As(err, &verr):
		h.metrics.RecordAuthOutcome("create_admin", "invalid_input")
		c.JSON(http.StatusBadRequest, validationBody(verr))
	case errors.Is(err, service.ErrDuplicateEmail):
		h.metrics.RecordAuthOutcome("create_admin", "duplicate_email")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	default:
		h.metrics.RecordAuthOutcome("create_admin", "error")
		h.logger.Errorf("Error creating admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating admin"})
	}
}

func validationBody(verr *service.ValidationError) gin.H {
	body := gin.H{"error": "Invalid input"}
	if fields, ok := verr.Err.(validation.Errors); ok {
		body["fields"] = fields
	}
	return body
}
