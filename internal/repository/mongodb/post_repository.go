package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-api/internal/domain"
	"blog-api/internal/repository"
)

type commentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"createdAt"`
}

type postDocument struct {
	ID        string            `bson:"_id"`
	UserID    string            `bson:"userId"`
	Title     string            `bson:"title"`
	Content   string            `bson:"content"`
	Comments  []commentDocument `bson:"comments"`
	CreatedAt time.Time         `bson:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) repository.PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

func (r *PostRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("idx_user_id"),
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Comments = []domain.Comment{}

	doc := postDocument{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Content:   post.Content,
		Comments:  []commentDocument{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id string) (*domain.Post, error) {
	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) UpdateOwned(ctx context.Context, id, userID string, title, content *string) (*domain.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if title != nil {
		set["title"] = *title
	}
	if content != nil {
		set["content"] = *content
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set})
}

func (r *PostRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, comment *domain.Comment) (*domain.Post, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.PostID = postID
	comment.CreatedAt = time.Now().UTC()

	update := bson.M{
		"$push": bson.M{"comments": commentDocument{
			ID:        comment.ID,
			UserID:    comment.UserID,
			Comment:   comment.Comment,
			CreatedAt: comment.CreatedAt,
		}},
		"$set": bson.M{"updatedAt": comment.CreatedAt},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": postID}, update)
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return doc.toDomain(), nil
}

func (d postDocument) toDomain() *domain.Post {
	post := &domain.Post{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Comments:  make([]domain.Comment, len(d.Comments)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for i, c := range d.Comments {
		post.Comments[i] = domain.Comment{
			ID:        c.ID,
			PostID:    d.ID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		}
	}
	return post
}
