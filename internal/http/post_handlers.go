package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/internal/domain"
	"blog-api/internal/service"
)

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req service.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caller, _ := currentUser(c)
	post, err := h.posts.Create(c.Request.Context(), caller, req)
	var verr *service.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": postToResponse(*post)})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, validationBody(verr))
	default:
		h.logger.Errorf("Error creating post for user %s: %v", callerID(caller), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post"})
	}
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, postToResponse(*post))
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	default:
		h.logger.Errorf("Error fetching post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching post"})
	}
}

func (h *Handler) updatePost(c *gin.Context) {
	var req service.PostUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caller, _ := currentUser(c)
	post, err := h.posts.Update(c.Request.Context(), caller, c.Param("id"), req)
	var verr *service.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": postToResponse(*post)})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, validationBody(verr))
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or unauthorized"})
	default:
		h.logger.Errorf("Error updating post %s for user %s: %v", c.Param("id"), callerID(caller), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
	}
}

func (h *Handler) deletePost(c *gin.Context) {
	caller, _ := currentUser(c)
	err := h.posts.Delete(c.Request.Context(), caller, c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or unauthorized"})
	default:
		h.logger.Errorf("Error deleting post %s for user %s: %v", c.Param("id"), callerID(caller), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post"})
	}
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caller, _ := currentUser(c)
	post, err := h.posts.AddComment(c.Request.Context(), caller, c.Param("id"), req.Comment)
	var verr *service.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "post": postToResponse(*post)})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, validationBody(verr))
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	default:
		h.logger.Errorf("Error adding comment to post %s for user %s: %v", c.Param("id"), callerID(caller), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding comment"})
	}
}

func callerID(user *domain.User) string {
	if user == nil {
		return "<none>"
	}
	return user.ID
}
