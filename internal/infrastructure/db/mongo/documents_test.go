package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

func updateReply(matched int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

// countReply answers the aggregate behind CountDocuments.
func countReply(mt *mtest.T, n int32) bson.D {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func TestUpdateSet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	id := primitive.NewObjectID()
	user := primitive.NewObjectID()
	liked := ports.SetUpdate{Field: domain.PostLikedBy, Value: user, Exclusive: true, Counter: domain.PostLikes}
	member := ports.SetUpdate{Field: domain.ClubMembers, Value: user}

	tests := []struct {
		name    string
		add     bool
		update  ports.SetUpdate
		replies func(mt *mtest.T) []bson.D
		want    error
	}{
		{
			name:    "add applied",
			add:     true,
			update:  liked,
			replies: func(*mtest.T) []bson.D { return []bson.D{updateReply(1)} },
		},
		{
			name:    "add guarded by existing value",
			add:     true,
			update:  liked,
			replies: func(mt *mtest.T) []bson.D { return []bson.D{updateReply(0), countReply(mt, 1)} },
			want:    domain.ErrAlreadyInSet,
		},
		{
			name:    "remove guarded by missing value",
			update:  liked,
			replies: func(mt *mtest.T) []bson.D { return []bson.D{updateReply(0), countReply(mt, 1)} },
			want:    domain.ErrNotInSet,
		},
		{
			name:    "document gone",
			add:     true,
			update:  liked,
			replies: func(mt *mtest.T) []bson.D { return []bson.D{updateReply(0), countReply(mt, 0)} },
			want:    domain.ErrPostNotFound,
		},
		{
			name:    "idempotent remove",
			update:  member,
			replies: func(mt *mtest.T) []bson.D { return []bson.D{updateReply(0), countReply(mt, 1)} },
		},
	}
	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			mt.AddMockResponses(tt.replies(mt)...)
			d := documents{col: mt.Coll, notFound: domain.ErrPostNotFound}

			var err error
			if tt.add {
				err = d.AddToSet(context.Background(), id, tt.update)
			} else {
				err = d.RemoveFromSet(context.Background(), id, tt.update)
			}
			if tt.want == nil && err != nil {
				mt.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				mt.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdateSet_GuardsExclusiveFilter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("add", func(mt *mtest.T) {
		mt.AddMockResponses(updateReply(1))
		d := documents{col: mt.Coll, notFound: domain.ErrPostNotFound}
		u := ports.SetUpdate{Field: domain.PostLikedBy, Value: primitive.NewObjectID(), Exclusive: true, Counter: domain.PostLikes}
		if err := d.AddToSet(context.Background(), primitive.NewObjectID(), u); err != nil {
			mt.Fatalf("add: %v", err)
		}

		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("updates", "0", "q", domain.PostLikedBy, "$ne"); err != nil {
			mt.Fatalf("filter has no $ne guard: %s", cmd)
		}
		if _, err := cmd.LookupErr("updates", "0", "u", "$inc", domain.PostLikes); err != nil {
			mt.Fatalf("counter not incremented with the set: %s", cmd)
		}
	})
}
