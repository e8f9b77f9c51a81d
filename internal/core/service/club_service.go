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
	errSlugTaken        = domain.Conflict("slug_taken", "A club with the same slug already exists")
	errInvalidTeacher   = domain.BadRequest("invalid_teacher", "Referenced user is not a teacher")
	errAlreadyFollowing = domain.Conflict("already_following", "User is already a member of this club")
	errNotFollowing     = domain.Conflict("not_following", "User is not a member of this club")
	errClubFavourited   = domain.Conflict("already_favourited", "User has already favourited this club")
	errClubNotFavourite = domain.Conflict("not_favourited", "User has not favourited this club")
)

type ClubService struct {
	clubs  ports.ClubRepository
	users  ports.UserRepository
	posts  ports.PostRepository
	actors actors
	limits domain.Limits
	logger zerolog.Logger
}

func NewClubService(clubs ports.ClubRepository, users ports.UserRepository, posts ports.PostRepository, limits domain.Limits, logger zerolog.Logger) *ClubService {
	return &ClubService{
		clubs:  clubs,
		users:  users,
		posts:  posts,
		actors: actors{users: users},
		limits: limits,
		logger: logger,
	}
}

// Create validates the input, checks name/slug uniqueness and inserts the club.
// The owning teacher must be the principal unless a service creates it on
// their behalf.
func (s *ClubService) Create(ctx context.Context, actor domain.Principal, in ports.CreateClubInput) (*domain.Club, error) {
	name := strings.TrimSpace(in.Name)
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Teacher.IsZero() {
		missing = append(missing, "teacher")
	}
	if len(missing) > 0 {
		return nil, missingField(missing...)
	}
	if err := s.limits.ClubName.Check("name", name); err != nil {
		return nil, err
	}
	if err := s.limits.ClubDescription.Check("description", in.Description); err != nil {
		return nil, err
	}
	flairs, err := normalizeFlairs(in.Flairs, s.limits.Flair)
	if err != nil {
		return nil, err
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return nil, domain.BadRequest("invalid_name", "Club name must contain letters or digits")
	}

	teacher, err := s.users.FindByID(ctx, in.Teacher)
	if err != nil {
		return nil, refOr(err, domain.ErrUserNotFound, "teacher", in.Teacher)
	}
	if teacher.Role != domain.RoleTeacher {
		return nil, errInvalidTeacher
	}
	if !actor.IsService() && teacher.Email != domain.NormalizeEmail(actor.Email) {
		return nil, errActorMismatch
	}
	if err := s.ensureUnique(ctx, primitive.NilObjectID, name, slug); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	club := &domain.Club{
		Name:         name,
		Slug:         slug,
		Description:  in.Description,
		Teacher:      teacher.ID,
		Executives:   []primitive.ObjectID{},
		Members:      []primitive.ObjectID{},
		Favourites:   []primitive.ObjectID{},
		Flairs:       flairs,
		Socials:      in.Socials,
		ClubfestLink: in.ClubfestLink,
		Posts:        []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create club")
		return nil, err
	}

	if err := s.users.AddToSet(ctx, teacher.ID, ports.SetUpdate{Field: domain.UserClubs, Value: club.ID}); err != nil {
		s.logger.Warn().Err(err).Str("club", club.ID.Hex()).Str("teacher", teacher.ID.Hex()).Msg("failed to link club to teacher")
	}

	s.logger.Info().Str("club", club.ID.Hex()).Str("slug", slug).Str("teacher", teacher.ID.Hex()).Msg("club created")
	return club, nil
}

// ensureUnique rejects a name or slug already used by a club other than self.
func (s *ClubService) ensureUnique(ctx context.Context, self primitive.ObjectID, name, slug string) error {
	existing, err := s.clubs.FindByName(ctx, name)
	switch {
	case err == nil && existing.ID != self:
		return domain.ErrClubNameTaken
	case err != nil && !errors.Is(err, domain.ErrClubNotFound):
		return err
	}
	existing, err = s.clubs.FindBySlug(ctx, slug)
	switch {
	case err == nil && existing.ID != self:
		return errSlugTaken
	case err != nil && !errors.Is(err, domain.ErrClubNotFound):
		return err
	}
	return nil
}

func (s *ClubService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Club, error) {
	return s.clubs.FindByID(ctx, id)
}

func (s *ClubService) GetBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	return s.clubs.FindBySlug(ctx, slug)
}

func (s *ClubService) List(ctx context.Context) ([]*domain.Club, error) {
	return s.clubs.List(ctx)
}

// Update applies a partial update. Renaming regenerates the slug.
func (s *ClubService) Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, in ports.UpdateClubInput) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.actors.authorizeStaff(ctx, actor, club); err != nil {
		return nil, err
	}

	var patch domain.ClubPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := s.limits.ClubName.Check("name", name); err != nil {
			return nil, err
		}
		if name != club.Name {
			slug := domain.Slugify(name)
			if slug == "" {
				return nil, domain.BadRequest("invalid_name", "Club name must contain letters or digits")
			}
			if err := s.ensureUnique(ctx, club.ID, name, slug); err != nil {
				return nil, err
			}
			patch.Name, patch.Slug = &name, &slug
		}
	}
	if in.Description != nil {
		if err := s.limits.ClubDescription.Check("description", *in.Description); err != nil {
			return nil, err
		}
		patch.Description = in.Description
	}
	if in.Instagram != nil || in.GoogleClassroomCode != nil || in.SignupLink != nil {
		socials := club.Socials
		if in.Instagram != nil {
			socials.Instagram = *in.Instagram
		}
		if in.GoogleClassroomCode != nil {
			socials.GoogleClassroomCode = *in.GoogleClassroomCode
		}
		if in.SignupLink != nil {
			socials.SignupLink = *in.SignupLink
		}
		patch.Socials = &socials
	}
	patch.ClubfestLink = in.ClubfestLink

	return s.clubs.Update(ctx, id, patch)
}

func (s *ClubService) Delete(ctx context.Context, actor domain.Principal, id primitive.ObjectID) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.delete(ctx, actor, club)
}

func (s *ClubService) DeleteBySlug(ctx context.Context, actor domain.Principal, slug string) (*domain.Club, error) {
	club, err := s.clubs.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.delete(ctx, actor, club)
}

func (s *ClubService) delete(ctx context.Context, actor domain.Principal, club *domain.Club) (*domain.Club, error) {
	if err := s.actors.authorizeTeacher(ctx, actor, club); err != nil {
		return nil, err
	}
	deleted, err := s.clubs.Delete(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("club", club.ID.Hex()).Msg("club deleted")
	return deleted, nil
}

// membership links club.members and user.clubs. The club's teacher keeps the
// user.clubs reference through ownership, so unlinking the teacher only
// touches members.
func (s *ClubService) membership(club *domain.Club, userID primitive.ObjectID, exclusive bool) relation {
	return relation{
		name:           "club_membership",
		primary:        side{store: s.clubs, id: club.ID, set: ports.SetUpdate{Field: domain.ClubMembers, Value: userID, Exclusive: exclusive}},
		reciprocal:     side{store: s.users, id: userID, set: ports.SetUpdate{Field: domain.UserClubs, Value: club.ID}},
		onDuplicate:    errAlreadyFollowing,
		onMissing:      errNotFollowing,
		keepReciprocal: club.Teacher == userID,
	}
}

// favourite links user.favourite_clubs and club.favourites.
func (s *ClubService) favourite(clubID, userID primitive.ObjectID) relation {
	return relation{
		name:        "club_favourite",
		primary:     side{store: s.users, id: userID, set: ports.SetUpdate{Field: domain.UserFavouriteClubs, Value: clubID, Exclusive: true}},
		reciprocal:  side{store: s.clubs, id: clubID, set: ports.SetUpdate{Field: domain.ClubFavourites, Value: userID}},
		onDuplicate: errClubFavourited,
		onMissing:   errClubNotFavourite,
	}
}

// AddExecutive makes the user a member and an executive. Adding an existing
// executive is a no-op.
func (s *ClubService) AddExecutive(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.actors.authorizeStaff(ctx, actor, club); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.membership(club, userID, false).link(ctx, s.logger); err != nil {
		return nil, err
	}
	if err := s.clubs.AddToSet(ctx, clubID, ports.SetUpdate{Field: domain.ClubExecutives, Value: userID}); err != nil {
		return nil, err
	}
	return s.clubs.FindByID(ctx, clubID)
}

// RemoveExecutive demotes the user; membership is kept.
func (s *ClubService) RemoveExecutive(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.actors.authorizeStaff(ctx, actor, club); err != nil {
		return nil, err
	}
	if err := s.clubs.RemoveFromSet(ctx, clubID, ports.SetUpdate{Field: domain.ClubExecutives, Value: userID}); err != nil {
		return nil, err
	}
	return s.clubs.FindByID(ctx, clubID)
}

func (s *ClubService) AddFlair(ctx context.Context, actor domain.Principal, clubID primitive.ObjectID, flair string) (*domain.Club, error) {
	return s.updateFlair(ctx, actor, clubID, flair, true)
}

func (s *ClubService) RemoveFlair(ctx context.Context, actor domain.Principal, clubID primitive.ObjectID, flair string) (*domain.Club, error) {
	return s.updateFlair(ctx, actor, clubID, flair, false)
}

func (s *ClubService) updateFlair(ctx context.Context, actor domain.Principal, clubID primitive.ObjectID, flair string, add bool) (*domain.Club, error) {
	flair = strings.TrimSpace(flair)
	if flair == "" {
		return nil, missingField("flair")
	}
	if err := s.limits.Flair.Check("flair", flair); err != nil {
		return nil, err
	}
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.actors.authorizeStaff(ctx, actor, club); err != nil {
		return nil, err
	}
	u := ports.SetUpdate{Field: domain.ClubFlairs, Value: flair}
	if add {
		err = s.clubs.AddToSet(ctx, clubID, u)
	} else {
		err = s.clubs.RemoveFromSet(ctx, clubID, u)
	}
	if err != nil {
		return nil, err
	}
	return s.clubs.FindByID(ctx, clubID)
}

// AddMember is allowed for club staff and for the user themself; it is
// idempotent.
func (s *ClubService) AddMember(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error) {
	club, err := s.authorizeMemberEdit(ctx, actor, clubID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.membership(club, userID, false).link(ctx, s.logger); err != nil {
		return nil, err
	}
	return s.clubs.FindByID(ctx, clubID)
}

// RemoveMember drops the user from members and executives; it is idempotent.
func (s *ClubService) RemoveMember(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error) {
	club, err := s.authorizeMemberEdit(ctx, actor, clubID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.leave(ctx, club, userID, false); err != nil {
		return nil, err
	}
	return s.clubs.FindByID(ctx, clubID)
}

// leave unlinks the membership and then drops any executive entry, so a
// former member keeps no posting rights.
func (s *ClubService) leave(ctx context.Context, club *domain.Club, userID primitive.ObjectID, exclusive bool) error {
	if err := s.membership(club, userID, exclusive).unlink(ctx, s.logger); err != nil {
		return err
	}
	return s.clubs.RemoveFromSet(ctx, club.ID, ports.SetUpdate{Field: domain.ClubExecutives, Value: userID})
}

func (s *ClubService) authorizeMemberEdit(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.IsService() && user.Email == domain.NormalizeEmail(actor.Email) {
		return club, nil
	}
	if err := s.actors.authorizeStaff(ctx, actor, club); err != nil {
		return nil, err
	}
	return club, nil
}

// Follow joins the club as the acting user; joining twice is a Conflict.
func (s *ClubService) Follow(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error) {
	return s.toggle(ctx, actor, clubID, userID, func(ctx context.Context, club *domain.Club) error {
		return s.membership(club, userID, true).link(ctx, s.logger)
	})
}

// Unfollow leaves the club, executive seat included; leaving a club the user
// is not a member of is a Conflict.
func (s *ClubService) Unfollow(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error) {
	return s.toggle(ctx, actor, clubID, userID, func(ctx context.Context, club *domain.Club) error {
		return s.leave(ctx, club, userID, true)
	})
}

func (s *ClubService) Favourite(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error) {
	return s.toggle(ctx, actor, clubID, userID, func(ctx context.Context, _ *domain.Club) error {
		return s.favourite(clubID, userID).link(ctx, s.logger)
	})
}

func (s *ClubService) Unfavourite(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error) {
	return s.toggle(ctx, actor, clubID, userID, func(ctx context.Context, _ *domain.Club) error {
		return s.favourite(clubID, userID).unlink(ctx, s.logger)
	})
}

// toggle runs a self-service relation change and returns both fresh documents.
func (s *ClubService) toggle(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID, apply func(context.Context, *domain.Club) error) (*domain.Club, *domain.User, error) {
	if _, err := s.actors.actingAs(ctx, actor, userID); err != nil {
		return nil, nil, err
	}
	current, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, nil, err
	}
	if err := apply(ctx, current); err != nil {
		return nil, nil, err
	}
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return club, user, nil
}

func (s *ClubService) Posts(ctx context.Context, clubID primitive.ObjectID) ([]*domain.Post, error) {
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.posts.List(ctx, domain.PostFilter{Club: clubID})
}

func (s *ClubService) Members(ctx context.Context, clubID primitive.ObjectID) ([]*domain.User, error) {
	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return s.users.FindMany(ctx, club.Members)
}
