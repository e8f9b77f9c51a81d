package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

var (
	errNotAMember         = domain.Forbidden("not_a_member", "Server Error: Could not process because the author is not a member of the club")
	errNotAuthor          = domain.Forbidden("not_author", "Server Error: Could not process because the user is not the author")
	errInvalidAttachment  = domain.BadRequest("invalid_attachment", "Attachment must have a url")
	errAlreadyLiked       = domain.Conflict("already_liked", "User has already liked this")
	errNotLiked           = domain.Conflict("not_liked", "User has not liked this")
	errPostFavourited     = domain.Conflict("already_favourited", "User has already favourited this post")
	errPostNotFavourited  = domain.Conflict("not_favourited", "User has not favourited this post")
	errSlugAttemptsFailed = domain.General("slug_unavailable", "Could not allocate a unique slug")
)

const maxSlugAttempts = 5

type PostService struct {
	posts    ports.PostRepository
	clubs    ports.ClubRepository
	users    ports.UserRepository
	comments ports.CommentRepository
	actors   actors
	limits   domain.Limits
	logger   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, clubs ports.ClubRepository, users ports.UserRepository, comments ports.CommentRepository, limits domain.Limits, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		clubs:    clubs,
		users:    users,
		comments: comments,
		actors:   actors{users: users},
		limits:   limits,
		logger:   logger,
	}
}

// Create publishes a post in a club the author belongs to and links it from
// the club and the author.
func (s *PostService) Create(ctx context.Context, actor domain.Principal, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if in.Body == "" {
		missing = append(missing, "body")
	}
	if in.Author.IsZero() {
		missing = append(missing, "author")
	}
	if in.Club.IsZero() {
		missing = append(missing, "club")
	}
	if len(missing) > 0 {
		return nil, missingField(missing...)
	}
	if err := s.limits.PostTitle.Check("title", title); err != nil {
		return nil, err
	}
	if err := s.limits.PostBody.Check("body", in.Body); err != nil {
		return nil, err
	}
	flairs, err := normalizeFlairs(in.Flairs, s.limits.Flair)
	if err != nil {
		return nil, err
	}
	if in.Attachment != nil && strings.TrimSpace(in.Attachment.URL) == "" {
		return nil, errInvalidAttachment
	}

	author, err := s.actors.actingAs(ctx, actor, in.Author)
	if err != nil {
		return nil, refOr(err, domain.ErrUserNotFound, "author", in.Author)
	}
	club, err := s.clubs.FindByID(ctx, in.Club)
	if err != nil {
		return nil, err
	}
	if !club.IsMember(author.ID) {
		return nil, errNotAMember
	}
	slug, err := s.uniqueSlug(ctx, primitive.NilObjectID, title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:      title,
		Slug:       slug,
		Body:       in.Body,
		Author:     author.ID,
		Club:       club.ID,
		LikedBy:    []primitive.ObjectID{},
		Favourites: []primitive.ObjectID{},
		Flairs:     flairs,
		Attachment: in.Attachment,
		Comments:   []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("club", club.ID.Hex()).Msg("failed to create post")
		return nil, err
	}

	if err := s.clubs.AddToSet(ctx, club.ID, ports.SetUpdate{Field: domain.ClubPosts, Value: post.ID, Counter: domain.ClubPostCount}); err != nil {
		s.logger.Warn().Err(err).Str("post", post.ID.Hex()).Str("club", club.ID.Hex()).Msg("failed to link post to club")
	}
	if err := s.users.AddToSet(ctx, author.ID, ports.SetUpdate{Field: domain.UserPosts, Value: post.ID}); err != nil {
		s.logger.Warn().Err(err).Str("post", post.ID.Hex()).Str("author", author.ID.Hex()).Msg("failed to link post to author")
	}

	s.logger.Info().Str("post", post.ID.Hex()).Str("slug", slug).Str("club", club.ID.Hex()).Msg("post created")
	return post, nil
}

// uniqueSlug derives a slug from title, suffixing a short random token when
// another post already holds it.
func (s *PostService) uniqueSlug(ctx context.Context, self primitive.ObjectID, title string) (string, error) {
	base := domain.Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 0; i < maxSlugAttempts; i++ {
		existing, err := s.posts.FindBySlug(ctx, slug)
		if errors.Is(err, domain.ErrPostNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == self {
			return slug, nil
		}
		slug = base + "-" + uuid.NewString()[:8]
	}
	return "", errSlugAttemptsFailed
}

func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	return s.posts.List(ctx, filter)
}

// authorOf loads the post and checks that author wrote it and that actor may
// act as author.
func (s *PostService) authorOf(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Post, error) {
	if author.IsZero() {
		return nil, missingField("author")
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != author {
		return nil, errNotAuthor
	}
	if _, err := s.actors.actingAs(ctx, actor, author); err != nil {
		return nil, refOr(err, domain.ErrUserNotFound, "author", author)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor domain.Principal, id primitive.ObjectID, in ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.authorOf(ctx, actor, id, in.Author)
	if err != nil {
		return nil, err
	}

	var patch domain.PostPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := s.limits.PostTitle.Check("title", title); err != nil {
			return nil, err
		}
		if title != post.Title {
			slug, err := s.uniqueSlug(ctx, post.ID, title)
			if err != nil {
				return nil, err
			}
			patch.Title, patch.Slug = &title, &slug
		}
	}
	if in.Body != nil {
		if err := s.limits.PostBody.Check("body", *in.Body); err != nil {
			return nil, err
		}
		patch.Body = in.Body
	}
	if in.Flairs != nil {
		flairs, err := normalizeFlairs(*in.Flairs, s.limits.Flair)
		if err != nil {
			return nil, err
		}
		patch.Flairs = &flairs
	}
	if in.Attachment != nil {
		if strings.TrimSpace(in.Attachment.URL) == "" {
			return nil, errInvalidAttachment
		}
		patch.Attachment = in.Attachment
	}
	return s.posts.Update(ctx, id, patch)
}

// Delete removes the post and unlinks it from its club and author. Comments
// are left in place.
func (s *PostService) Delete(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Post, error) {
	post, err := s.authorOf(ctx, actor, id, author)
	if err != nil {
		return nil, err
	}
	deleted, err := s.posts.Delete(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if err := s.clubs.RemoveFromSet(ctx, post.Club, ports.SetUpdate{Field: domain.ClubPosts, Value: post.ID, Counter: domain.ClubPostCount}); err != nil && !errors.Is(err, domain.ErrClubNotFound) {
		s.logger.Warn().Err(err).Str("post", post.ID.Hex()).Msg("failed to unlink post from club")
	}
	if err := s.users.RemoveFromSet(ctx, post.Author, ports.SetUpdate{Field: domain.UserPosts, Value: post.ID}); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn().Err(err).Str("post", post.ID.Hex()).Msg("failed to unlink post from author")
	}
	s.logger.Info().Str("post", post.ID.Hex()).Msg("post deleted")
	return deleted, nil
}

// like links post.liked_by (with the likes counter) and user.liked.
func (s *PostService) like(postID, userID primitive.ObjectID) relation {
	return relation{
		name:        "post_like",
		primary:     side{store: s.posts, id: postID, set: ports.SetUpdate{Field: domain.PostLikedBy, Value: userID, Exclusive: true, Counter: domain.PostLikes}},
		reciprocal:  side{store: s.users, id: userID, set: ports.SetUpdate{Field: domain.UserLiked, Value: postID}},
		onDuplicate: errAlreadyLiked,
		onMissing:   errNotLiked,
	}
}

// favourite links user.fav_posts and post.favourites.
func (s *PostService) favourite(postID, userID primitive.ObjectID) relation {
	return relation{
		name:        "post_favourite",
		primary:     side{store: s.users, id: userID, set: ports.SetUpdate{Field: domain.UserFavouritePosts, Value: postID, Exclusive: true}},
		reciprocal:  side{store: s.posts, id: postID, set: ports.SetUpdate{Field: domain.PostFavourites, Value: userID}},
		onDuplicate: errPostFavourited,
		onMissing:   errPostNotFavourited,
	}
}

func (s *PostService) Like(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error) {
	return s.toggle(ctx, actor, postID, userID, func(ctx context.Context) error {
		return s.like(postID, userID).link(ctx, s.logger)
	})
}

func (s *PostService) Unlike(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error) {
	return s.toggle(ctx, actor, postID, userID, func(ctx context.Context) error {
		return s.like(postID, userID).unlink(ctx, s.logger)
	})
}

func (s *PostService) Favourite(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error) {
	return s.toggle(ctx, actor, postID, userID, func(ctx context.Context) error {
		return s.favourite(postID, userID).link(ctx, s.logger)
	})
}

func (s *PostService) Unfavourite(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error) {
	return s.toggle(ctx, actor, postID, userID, func(ctx context.Context) error {
		return s.favourite(postID, userID).unlink(ctx, s.logger)
	})
}

func (s *PostService) toggle(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID, apply func(context.Context) error) (*domain.Post, *domain.User, error) {
	if _, err := s.actors.actingAs(ctx, actor, userID); err != nil {
		return nil, nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, nil, err
	}
	if err := apply(ctx); err != nil {
		return nil, nil, err
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return post, user, nil
}

func (s *PostService) Comments(ctx context.Context, postID primitive.ObjectID) ([]*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.List(ctx, domain.CommentFilter{Post: postID})
}
