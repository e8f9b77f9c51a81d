package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// SetUpdate describes a single atomic add/remove on an array field.
type SetUpdate struct {
	Field string
	Value any
	// Exclusive makes a duplicate add fail with domain.ErrAlreadyInSet and a
	// missing remove fail with domain.ErrNotInSet instead of being a no-op.
	Exclusive bool
	// Counter, when set, names a numeric field incremented/decremented in the
	// same update, only when the set actually changed.
	Counter string
}

// FindMany implementations return an empty result for an empty id list.

// SetStore mutates array fields of one collection without read-modify-write.
type SetStore interface {
	AddToSet(ctx context.Context, id primitive.ObjectID, u SetUpdate) error
	RemoveFromSet(ctx context.Context, id primitive.ObjectID, u SetUpdate) error
}

// UserRepository persists user documents.
type UserRepository interface {
	SetStore
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ClubRepository persists club documents. Name and slug are unique.
type ClubRepository interface {
	SetStore
	Create(ctx context.Context, c *domain.Club) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Club, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Club, error)
	FindByName(ctx context.Context, name string) (*domain.Club, error)
	List(ctx context.Context) ([]*domain.Club, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Club, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domain.ClubPatch) (*domain.Club, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Club, error)
}

// PostRepository persists post documents. Slug is unique.
type PostRepository interface {
	SetStore
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Post, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
}

// CommentRepository persists comment documents.
type CommentRepository interface {
	SetStore
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	List(ctx context.Context, filter domain.CommentFilter) ([]*domain.Comment, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Comment, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domain.CommentPatch) (*domain.Comment, error)
}
