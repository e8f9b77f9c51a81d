package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

var (
	errInvalidEmail       = domain.BadRequest("invalid_email", "Email must belong to a student or teacher account")
	errAccountTypeInvalid = domain.BadRequest("account_type_mismatch", "Account type does not match the email domain")
	errImmutableField     = domain.BadRequest("immutable_field", "Field account_type cannot be changed")
	errServiceSignIn      = domain.Forbidden("service_account", "Server Error: Could not process because service callers have no user")
	errBadKind            = domain.BadRequest("bad_parameter", "Invalid parameter: type")
)

type UserService struct {
	users    ports.UserRepository
	clubs    ports.ClubRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	actors   actors
	policy   domain.EmailPolicy
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, clubs ports.ClubRepository, posts ports.PostRepository, comments ports.CommentRepository, policy domain.EmailPolicy, logger zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		clubs:    clubs,
		posts:    posts,
		comments: comments,
		actors:   actors{users: users},
		policy:   policy,
		logger:   logger,
	}
}

// Create registers an account. The role always comes from the email domain;
// an explicit account_type must agree with it.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return nil, missingField("email")
	}
	role, ok := s.policy.Classify(email)
	if !ok {
		return nil, errInvalidEmail
	}
	if in.AccountType != "" && domain.Role(strings.ToLower(in.AccountType)) != role {
		return nil, errAccountTypeInvalid
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:          email,
		Role:           role,
		ProfilePic:     in.ProfilePic,
		Clubs:          []primitive.ObjectID{},
		FavouriteClubs: []primitive.ObjectID{},
		Posts:          []primitive.ObjectID{},
		Comments:       []primitive.ObjectID{},
		FavouritePosts: []primitive.ObjectID{},
		Liked:          []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	s.logger.Info().Str("user", user.ID.Hex()).Str("role", string(role)).Msg("user created")
	return user, nil
}

// SignIn returns the principal's user, creating it on first sign-in.
func (s *UserService) SignIn(ctx context.Context, actor domain.Principal) (*domain.User, error) {
	if actor.IsService() {
		return nil, errServiceSignIn
	}
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(actor.Email))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	user, err = s.Create(ctx, ports.CreateUserInput{Email: actor.Email})
	if errors.Is(err, domain.ErrUserExists) {
		// lost a race with a concurrent first sign-in
		return s.users.FindByEmail(ctx, domain.NormalizeEmail(actor.Email))
	}
	return user, err
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.actors.actingAs(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.AccountType != nil && domain.Role(strings.ToLower(*in.AccountType)) != user.Role {
		return nil, errImmutableField
	}
	return s.users.Update(ctx, id, domain.UserPatch{ProfilePic: in.ProfilePic})
}

// DeleteByEmail removes an account. Users may only delete themselves.
func (s *UserService) DeleteByEmail(ctx context.Context, actor domain.Principal, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, missingField("email")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !actor.IsService() && domain.NormalizeEmail(actor.Email) != email {
		return nil, errActorMismatch
	}
	deleted, err := s.users.Delete(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user", user.ID.Hex()).Msg("user deleted")
	return deleted, nil
}

func (s *UserService) Posts(ctx context.Context, id primitive.ObjectID) ([]*domain.Post, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.posts.FindMany(ctx, user.Posts)
}

func (s *UserService) Comments(ctx context.Context, id primitive.ObjectID) ([]*domain.Comment, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.comments.FindMany(ctx, user.Comments)
}

func (s *UserService) Clubs(ctx context.Context, id primitive.ObjectID) ([]*domain.Club, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.clubs.FindMany(ctx, user.Clubs)
}

func (s *UserService) Favourites(ctx context.Context, id primitive.ObjectID, kind string) (*ports.FavouritesResult, error) {
	if kind != "" && kind != "clubs" && kind != "posts" {
		return nil, errBadKind
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &ports.FavouritesResult{Clubs: []*domain.Club{}, Posts: []*domain.Post{}}
	if kind != "posts" {
		if res.Clubs, err = s.clubs.FindMany(ctx, user.FavouriteClubs); err != nil {
			return nil, err
		}
	}
	if kind != "clubs" {
		if res.Posts, err = s.posts.FindMany(ctx, user.FavouritePosts); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Liked resolves user.liked, which holds both post and comment ids.
func (s *UserService) Liked(ctx context.Context, id primitive.ObjectID, kind string) (*ports.LikedResult, error) {
	if kind != "" && kind != "posts" && kind != "comments" {
		return nil, errBadKind
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &ports.LikedResult{Posts: []*domain.Post{}, Comments: []*domain.Comment{}}
	if kind != "comments" {
		if res.Posts, err = s.posts.FindMany(ctx, user.Liked); err != nil {
			return nil, err
		}
	}
	if kind != "posts" {
		if res.Comments, err = s.comments.FindMany(ctx, user.Liked); err != nil {
			return nil, err
		}
	}
	return res, nil
}
