package http

import (
	"time"

	"blog-api/internal/domain"
)

type UserResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
	Name       string      `json:"name"`
	FirstName  string      `json:"firstName"`
	Country    string      `json:"country"`
	CreatedAt  string      `json:"createdAt"`
	UpdatedAt  string      `json:"updatedAt"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

type PostResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		Name:       user.Name,
		FirstName:  user.FirstName,
		Country:    user.Country,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
}

func postToResponse(post domain.Post) PostResponse {
	resp := PostResponse{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Content:   post.Content,
		Comments:  make([]CommentResponse, len(post.Comments)),
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		UpdatedAt: post.UpdatedAt.Format(time.RFC3339),
	}
	for i := range post.Comments {
		resp.Comments[i] = CommentResponse{
			ID:        post.Comments[i].ID,
			UserID:    post.Comments[i].UserID,
			Comment:   post.Comments[i].Comment,
			CreatedAt: post.Comments[i].CreatedAt.Format(time.RFC3339),
		}
	}
	return resp
}
