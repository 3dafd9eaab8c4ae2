package repository

import (
	"context"

	"blog-api/internal/domain"
)

// PostRepository exposes persistence operations for posts and their comments.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id string) (*domain.Post, error)
	// UpdateOwned and DeleteOwned only touch a post authored by userID;
	// anything else is ErrNotFound. Nil fields are left unchanged.
	UpdateOwned(ctx context.Context, id, userID string, title, content *string) (*domain.Post, error)
	DeleteOwned(ctx context.Context, id, userID string) error
	AddComment(ctx context.Context, postID string, comment *domain.Comment) (*domain.Post, error)
}
