package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

const collectionPosts = "posts"

type PostRepository struct {
	documents
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{documents{col: db.Collection(collectionPosts), notFound: domain.ErrPostNotFound}}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	return r.insert(ctx, &p.ID, p)
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	if err := r.findOne(ctx, bson.M{"_id": id}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	var p domain.Post
	if err := r.findOne(ctx, bson.M{"slug": slug}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, error) {
	filter := bson.M{}
	if !f.Club.IsZero() {
		filter["club"] = f.Club
	}
	if !f.Author.IsZero() {
		filter["author"] = f.Author
	}
	return findAll[domain.Post](ctx, r.col, filter)
}

func (r *PostRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Post, error) {
	if len(ids) == 0 {
		return []*domain.Post{}, nil
	}
	return findAll[domain.Post](ctx, r.col, byIDs(ids))
}

func (r *PostRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.PostPatch) (*domain.Post, error) {
	fields := bson.M{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Slug != nil {
		fields["slug"] = *patch.Slug
	}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}
	if patch.Flairs != nil {
		fields["flairs"] = *patch.Flairs
	}
	if patch.Attachment != nil {
		fields["attachment"] = patch.Attachment
	}
	var p domain.Post
	if err := r.set(ctx, id, fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	if err := r.delete(ctx, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		uniqueIndex("slug"),
		{Keys: bson.D{{Key: "club", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
