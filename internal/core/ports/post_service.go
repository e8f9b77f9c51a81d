package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// CreatePostInput carries the fields accepted by post creation.
type CreatePostInput struct {
	Title      string
	Body       string
	Author     primitive.ObjectID
	Club       primitive.ObjectID
	Flairs     []string
	Attachment *domain.Attachment
}

// UpdatePostInput carries a partial post update; nil means unchanged.
type UpdatePostInput struct {
	Author     primitive.ObjectID
	Title      *string
	Body       *string
	Flairs     *[]string
	Attachment *domain.Attachment
}

// PostService defines use-case operations for posts.
type PostService interface {
	Create(ctx context.Context, actor domain.Principal, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)
	Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Post, error)

	Like(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error)
	Unlike(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error)
	Favourite(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error)
	Unfavourite(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error)

	Comments(ctx context.Context, postID primitive.ObjectID) ([]*domain.Comment, error)
}
