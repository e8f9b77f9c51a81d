package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// documents holds the operations shared by every entity collection. notFound
// is the entity's sentinel returned for mongo.ErrNoDocuments.
type documents struct {
	col      *mongo.Collection
	notFound error
}

func (d documents) insert(ctx context.Context, id *primitive.ObjectID, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if _, err := d.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("insert %s: %w", d.col.Name(), err)
	}
	return nil
}

func (d documents) findOne(ctx context.Context, filter bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := d.col.FindOne(ctx, filter).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return d.notFound
		}
		return fmt.Errorf("find %s: %w", d.col.Name(), err)
	}
	return nil
}

// set applies a $set and returns the updated document.
func (d documents) set(ctx context.Context, id primitive.ObjectID, fields bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := d.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(out)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return d.notFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicateEntry
	default:
		return fmt.Errorf("update %s: %w", d.col.Name(), err)
	}
}

func (d documents) delete(ctx context.Context, id primitive.ObjectID, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := d.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return d.notFound
		}
		return fmt.Errorf("delete %s: %w", d.col.Name(), err)
	}
	return nil
}

// AddToSet runs $addToSet on one array field. With Exclusive or Counter set
// the filter also requires the value to be absent, so the counter moves only
// when the set changes and a duplicate is detectable from MatchedCount.
func (d documents) AddToSet(ctx context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	filter := bson.M{"_id": id}
	if u.Exclusive || u.Counter != "" {
		filter[u.Field] = bson.M{"$ne": u.Value}
	}
	update := bson.M{
		"$addToSet": bson.M{u.Field: u.Value},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	if u.Counter != "" {
		update["$inc"] = bson.M{u.Counter: 1}
	}
	return d.updateSet(ctx, id, filter, update, u.Exclusive, domain.ErrAlreadyInSet)
}

// RemoveFromSet runs $pull on one array field, mirroring AddToSet.
func (d documents) RemoveFromSet(ctx context.Context, id primitive.ObjectID, u ports.SetUpdate) error {
	filter := bson.M{"_id": id}
	if u.Exclusive || u.Counter != "" {
		filter[u.Field] = u.Value
	}
	update := bson.M{
		"$pull": bson.M{u.Field: u.Value},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if u.Counter != "" {
		update["$inc"] = bson.M{u.Counter: -1}
	}
	return d.updateSet(ctx, id, filter, update, u.Exclusive, domain.ErrNotInSet)
}

func (d documents) updateSet(ctx context.Context, id primitive.ObjectID, filter, update bson.M, exclusive bool, unchanged error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := d.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update %s set: %w", d.col.Name(), err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the document is gone or the set guard failed.
	n, err := d.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count %s: %w", d.col.Name(), err)
	}
	if n == 0 {
		return d.notFound
	}
	if exclusive {
		return unchanged
	}
	return nil
}

// findAll decodes every document matching filter, oldest first.
func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return out, nil
}

func byIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}
