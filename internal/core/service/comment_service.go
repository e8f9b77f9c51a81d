package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

var (
	errParentMismatch = domain.BadRequest("parent_mismatch", "Parent comment belongs to a different post")
	errCommentDeleted = domain.Conflict("comment_deleted", "Comment has been deleted")
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	users    ports.UserRepository
	actors   actors
	limits   domain.Limits
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, users ports.UserRepository, limits domain.Limits, logger zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		actors:   actors{users: users},
		limits:   limits,
		logger:   logger,
	}
}

// Create adds a comment or a reply and links it from the post, the parent and
// the author.
func (s *CommentService) Create(ctx context.Context, actor domain.Principal, in ports.CreateCommentInput) (*domain.Comment, error) {
	var missing []string
	if in.Author.IsZero() {
		missing = append(missing, "author")
	}
	if in.Post.IsZero() {
		missing = append(missing, "post")
	}
	if in.Body == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return nil, missingField(missing...)
	}
	if err := s.limits.CommentBody.Check("body", in.Body); err != nil {
		return nil, err
	}

	author, err := s.actors.actingAs(ctx, actor, in.Author)
	if err != nil {
		return nil, refOr(err, domain.ErrUserNotFound, "author", in.Author)
	}
	post, err := s.posts.FindByID(ctx, in.Post)
	if err != nil {
		return nil, err
	}
	var parent *domain.Comment
	if in.Parent != nil && !in.Parent.IsZero() {
		parent, err = s.comments.FindByID(ctx, *in.Parent)
		if err != nil {
			return nil, refOr(err, domain.ErrCommentNotFound, "parent", *in.Parent)
		}
		if parent.Post != post.ID {
			return nil, errParentMismatch
		}
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		Post:      post.ID,
		Children:  []primitive.ObjectID{},
		Author:    author.ID,
		Body:      in.Body,
		LikedBy:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent != nil {
		comment.Parent = &parent.ID
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("post", post.ID.Hex()).Msg("failed to create comment")
		return nil, err
	}

	if err := s.posts.AddToSet(ctx, post.ID, ports.SetUpdate{Field: domain.PostComments, Value: comment.ID}); err != nil {
		s.logger.Warn().Err(err).Str("comment", comment.ID.Hex()).Msg("failed to link comment to post")
	}
	if parent != nil {
		if err := s.comments.AddToSet(ctx, parent.ID, ports.SetUpdate{Field: domain.CommentChildren, Value: comment.ID}); err != nil {
			s.logger.Warn().Err(err).Str("comment", comment.ID.Hex()).Msg("failed to link reply to parent")
		}
	}
	if err := s.users.AddToSet(ctx, author.ID, ports.SetUpdate{Field: domain.UserComments, Value: comment.ID}); err != nil {
		s.logger.Warn().Err(err).Str("comment", comment.ID.Hex()).Msg("failed to link comment to author")
	}

	s.logger.Info().Str("comment", comment.ID.Hex()).Str("post", post.ID.Hex()).Msg("comment created")
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	return s.comments.FindByID(ctx, id)
}

func (s *CommentService) List(ctx context.Context, filter domain.CommentFilter) ([]*domain.Comment, error) {
	return s.comments.List(ctx, filter)
}

func (s *CommentService) authorOf(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Comment, error) {
	if author.IsZero() {
		return nil, missingField("author")
	}
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Author != author {
		return nil, errNotAuthor
	}
	if _, err := s.actors.actingAs(ctx, actor, author); err != nil {
		return nil, refOr(err, domain.ErrUserNotFound, "author", author)
	}
	if comment.Deleted {
		return nil, errCommentDeleted
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, missingField("body")
	}
	if err := s.limits.CommentBody.Check("body", body); err != nil {
		return nil, err
	}
	if _, err := s.authorOf(ctx, actor, id, author); err != nil {
		return nil, err
	}
	return s.comments.Update(ctx, id, domain.CommentPatch{Body: &body})
}

// Delete tombstones the comment so replies keep their parent.
func (s *CommentService) Delete(ctx context.Context, actor domain.Principal, id, author primitive.ObjectID) (*domain.Comment, error) {
	comment, err := s.authorOf(ctx, actor, id, author)
	if err != nil {
		return nil, err
	}
	body, deleted, original := domain.Tombstone, true, comment.Body
	updated, err := s.comments.Update(ctx, id, domain.CommentPatch{Body: &body, Deleted: &deleted, OriginalBody: &original})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("comment", id.Hex()).Msg("comment deleted")
	return updated, nil
}

// like links comment.liked_by (with the likes counter) and user.liked.
func (s *CommentService) like(commentID, userID primitive.ObjectID) relation {
	return relation{
		name:        "comment_like",
		primary:     side{store: s.comments, id: commentID, set: ports.SetUpdate{Field: domain.CommentLikedBy, Value: userID, Exclusive: true, Counter: domain.CommentLikes}},
		reciprocal:  side{store: s.users, id: userID, set: ports.SetUpdate{Field: domain.UserLiked, Value: commentID}},
		onDuplicate: errAlreadyLiked,
		onMissing:   errNotLiked,
	}
}

func (s *CommentService) Like(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID) (*domain.Comment, *domain.User, error) {
	return s.toggle(ctx, actor, commentID, userID, func(ctx context.Context) error {
		return s.like(commentID, userID).link(ctx, s.logger)
	})
}

func (s *CommentService) Unlike(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID) (*domain.Comment, *domain.User, error) {
	return s.toggle(ctx, actor, commentID, userID, func(ctx context.Context) error {
		return s.like(commentID, userID).unlink(ctx, s.logger)
	})
}

func (s *CommentService) toggle(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID, apply func(context.Context) error) (*domain.Comment, *domain.User, error) {
	if _, err := s.actors.actingAs(ctx, actor, userID); err != nil {
		return nil, nil, err
	}
	current, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	if current.Deleted {
		return nil, nil, errCommentDeleted
	}
	if err := apply(ctx); err != nil {
		return nil, nil, err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return comment, user, nil
}
