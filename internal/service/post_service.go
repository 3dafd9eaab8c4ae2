package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/sirupsen/logrus"

	"blog-api/internal/auth"
	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

// PostService manages posts and their comments on behalf of authenticated users.
type PostService interface {
	Create(ctx context.Context, caller *domain.User, in PostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, caller *domain.User, id string, in PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
	AddComment(ctx context.Context, caller *domain.User, postID, comment string) (*domain.Post, error)
}

type postService struct {
	posts  repository.PostRepository
	logger *logrus.Logger
}

func NewPostService(posts repository.PostRepository, logger *logrus.Logger) PostService {
	return &postService{posts: posts, logger: logger}
}

func (s *postService) Create(ctx context.Context, caller *domain.User, in PostInput) (*domain.Post, error) {
	if caller == nil {
		return nil, auth.ErrNoIdentity
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	post := &domain.Post{
		UserID:  caller.ID,
		Title:   in.Title,
		Content: in.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Infof("New post created by user %s: %s", caller.ID, post.ID)
	return post, nil
}

func (s *postService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, caller *domain.User, id string, in PostUpdate) (*domain.Post, error) {
	if caller == nil {
		return nil, auth.ErrNoIdentity
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	post, err := s.posts.UpdateOwned(ctx, id, caller.ID, in.Title, in.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Failed update attempt by user %s for post %s: Post not found or unauthorized", caller.ID, id)
		}
		return nil, notFound(err)
	}

	s.logger.Infof("Post %s updated by user %s", post.ID, caller.ID)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if caller == nil {
		return auth.ErrNoIdentity
	}

	if err := s.posts.DeleteOwned(ctx, id, caller.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Failed delete attempt by user %s for post %s: Post not found or unauthorized", caller.ID, id)
		}
		return notFound(err)
	}

	s.logger.Infof("Post %s deleted by user %s", id, caller.ID)
	return nil
}

func (s *postService) AddComment(ctx context.Context, caller *domain.User, postID, comment string) (*domain.Post, error) {
	if caller == nil {
		return nil, auth.ErrNoIdentity
	}
	comment = strings.TrimSpace(comment)
	if err := validation.Validate(comment, validation.Required, validation.Length(1, 2000)); err != nil {
		return nil, invalid(validation.Errors{"comment": err})
	}

	post, err := s.posts.AddComment(ctx, postID, &domain.Comment{UserID: caller.ID, Comment: comment})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warnf("Failed comment attempt by user %s for post %s: Post not found", caller.ID, postID)
		}
		return nil, notFound(err)
	}

	s.logger.Infof("Comment added to post %s by user %s", post.ID, caller.ID)
	return post, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
