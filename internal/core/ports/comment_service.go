package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// CreateCommentInput carries the fields accepted by comment creation.
type CreateCommentInput struct {
	Author primitive.ObjectID
	Post   primitive.ObjectID
	Body   string
	Parent *primitive.ObjectID // optional reply target
}

// CommentService defines use-case operations for comments.
type CommentService interface {
	Create(ctx context.Context, actor domain.Principal, input CreateCommentInput) (*domain.Comment, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	List(ctx context.Context, filter domain.CommentFilter) ([]*domain.Comment, error)
	Update(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID, body string) (*domain.Comment, error)
	// Delete replaces the body with domain.Tombstone; the document stays.
	Delete(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Comment, error)

	Like(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID) (*domain.Comment, *domain.User, error)
	Unlike(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID) (*domain.Comment, *domain.User, error)
}
