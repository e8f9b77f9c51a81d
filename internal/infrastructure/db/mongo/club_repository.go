package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

const collectionClubs = "clubs"

type ClubRepository struct {
	documents
}

func NewClubRepository(db *mongo.Database) *ClubRepository {
	return &ClubRepository{documents{col: db.Collection(collectionClubs), notFound: domain.ErrClubNotFound}}
}

func (r *ClubRepository) Create(ctx context.Context, c *domain.Club) error {
	return r.insert(ctx, &c.ID, c)
}

func (r *ClubRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Club, error) {
	return r.findBy(ctx, bson.M{"_id": id})
}

func (r *ClubRepository) FindBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	return r.findBy(ctx, bson.M{"slug": slug})
}

func (r *ClubRepository) FindByName(ctx context.Context, name string) (*domain.Club, error) {
	return r.findBy(ctx, bson.M{"name": name})
}

func (r *ClubRepository) findBy(ctx context.Context, filter bson.M) (*domain.Club, error) {
	var c domain.Club
	if err := r.findOne(ctx, filter, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]*domain.Club, error) {
	return findAll[domain.Club](ctx, r.col, bson.M{})
}

func (r *ClubRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Club, error) {
	if len(ids) == 0 {
		return []*domain.Club{}, nil
	}
	return findAll[domain.Club](ctx, r.col, byIDs(ids))
}

func (r *ClubRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.ClubPatch) (*domain.Club, error) {
	fields := bson.M{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Slug != nil {
		fields["slug"] = *patch.Slug
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Socials != nil {
		fields["socials"] = *patch.Socials
	}
	if patch.ClubfestLink != nil {
		fields["clubfest_link"] = *patch.ClubfestLink
	}
	var c domain.Club
	if err := r.set(ctx, id, fields, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Club, error) {
	var c domain.Club
	if err := r.delete(ctx, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// EnsureIndexes creates necessary indexes on the clubs collection.
func (r *ClubRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		uniqueIndex("name"),
		uniqueIndex("slug"),
		{Keys: bson.D{{Key: "teacher", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
