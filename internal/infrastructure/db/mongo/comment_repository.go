package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

const collectionComments = "comments"

type CommentRepository struct {
	documents
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{documents{col: db.Collection(collectionComments), notFound: domain.ErrCommentNotFound}}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return r.insert(ctx, &c.ID, c)
}

func (r *CommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var c domain.Comment
	if err := r.findOne(ctx, bson.M{"_id": id}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) List(ctx context.Context, f domain.CommentFilter) ([]*domain.Comment, error) {
	filter := bson.M{}
	if !f.Post.IsZero() {
		filter["post"] = f.Post
	}
	if !f.Author.IsZero() {
		filter["author"] = f.Author
	}
	return findAll[domain.Comment](ctx, r.col, filter)
}

func (r *CommentRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return []*domain.Comment{}, nil
	}
	return findAll[domain.Comment](ctx, r.col, byIDs(ids))
}

// Update sets the given fields. Deletion is a tombstone written through here.
func (r *CommentRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.CommentPatch) (*domain.Comment, error) {
	fields := bson.M{}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}
	if patch.Deleted != nil {
		fields["deleted"] = *patch.Deleted
	}
	if patch.OriginalBody != nil {
		fields["original_body"] = *patch.OriginalBody
	}
	var c domain.Comment
	if err := r.set(ctx, id, fields, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// EnsureIndexes creates necessary indexes on the comments collection.
func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
