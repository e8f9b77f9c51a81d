package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// CreateClubInput carries the fields accepted by club creation.
type CreateClubInput struct {
	Name         string
	Description  string
	Teacher      primitive.ObjectID
	Socials      domain.Socials
	ClubfestLink string
	Flairs       []string
}

// UpdateClubInput carries a partial club update; nil means unchanged.
type UpdateClubInput struct {
	Name                *string
	Description         *string
	Instagram           *string
	GoogleClassroomCode *string
	SignupLink          *string
	ClubfestLink        *string
}

// ClubService defines use-case operations for clubs.
type ClubService interface {
	Create(ctx context.Context, actor domain.Principal, input CreateClubInput) (*domain.Club, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Club, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Club, error)
	List(ctx context.Context) ([]*domain.Club, error)
	Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, input UpdateClubInput) (*domain.Club, error)
	Delete(ctx context.Context, actor domain.Principal, id primitive.ObjectID) (*domain.Club, error)
	DeleteBySlug(ctx context.Context, actor domain.Principal, slug string) (*domain.Club, error)

	AddExecutive(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error)
	RemoveExecutive(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error)
	AddFlair(ctx context.Context, actor domain.Principal, clubID primitive.ObjectID, flair string) (*domain.Club, error)
	RemoveFlair(ctx context.Context, actor domain.Principal, clubID primitive.ObjectID, flair string) (*domain.Club, error)
	AddMember(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error)
	RemoveMember(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error)
	Follow(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error)
	Unfollow(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error)
	Favourite(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error)
	Unfavourite(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error)

	Posts(ctx context.Context, clubID primitive.ObjectID) ([]*domain.Post, error)
	Members(ctx context.Context, clubID primitive.ObjectID) ([]*domain.User, error)
}
