package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted by user creation.
type CreateUserInput struct {
	Email       string
	AccountType string // optional; must agree with the email domain
	ProfilePic  string
}

// UpdateUserInput carries a partial user update; nil means unchanged.
type UpdateUserInput struct {
	ProfilePic  *string
	AccountType *string
}

// FavouritesResult lists a user's favourited clubs and posts.
type FavouritesResult struct {
	Clubs []*domain.Club
	Posts []*domain.Post
}

// LikedResult lists the posts and comments a user has liked.
type LikedResult struct {
	Posts    []*domain.Post
	Comments []*domain.Comment
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	SignIn(ctx context.Context, actor domain.Principal) (*domain.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error)
	DeleteByEmail(ctx context.Context, actor domain.Principal, email string) (*domain.User, error)
	Posts(ctx context.Context, id primitive.ObjectID) ([]*domain.Post, error)
	Comments(ctx context.Context, id primitive.ObjectID) ([]*domain.Comment, error)
	Clubs(ctx context.Context, id primitive.ObjectID) ([]*domain.Club, error)
	// Favourites accepts kind "", "clubs" or "posts".
	Favourites(ctx context.Context, id primitive.ObjectID, kind string) (*FavouritesResult, error)
	// Liked accepts kind "", "posts" or "comments".
	Liked(ctx context.Context, id primitive.ObjectID, kind string) (*LikedResult, error)
}
