package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	documents
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{documents{col: db.Collection(collectionUsers), notFound: domain.ErrUserNotFound}}
}

// Create inserts a new user. A taken email surfaces as domain.ErrDuplicateEntry.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.insert(ctx, &u.ID, u)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.findOne(ctx, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.findOne(ctx, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return findAll[domain.User](ctx, r.col, bson.M{})
}

func (r *UserRepository) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return findAll[domain.User](ctx, r.col, byIDs(ids))
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, patch domain.UserPatch) (*domain.User, error) {
	fields := bson.M{}
	if patch.ProfilePic != nil {
		fields["profile_pic"] = *patch.ProfilePic
	}
	var u domain.User
	if err := r.set(ctx, id, fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.delete(ctx, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{uniqueIndex("email")})
	return err
}
