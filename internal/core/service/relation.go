package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// side is one half of a two-sided reference.
type side struct {
	store ports.SetStore
	id    primitive.ObjectID
	set   ports.SetUpdate
}

// relation keeps a pair of reciprocal set fields in step. The primary side
// carries the conflict policy and is written first, so a rejected change
// leaves both documents untouched. The reciprocal write is idempotent; when it
// fails after the primary write the pair is left uneven and logged.
type relation struct {
	name       string
	primary    side
	reciprocal side
	// onDuplicate / onMissing replace ErrAlreadyInSet / ErrNotInSet from an
	// exclusive primary update.
	onDuplicate error
	onMissing   error
	// keepReciprocal leaves the reciprocal reference in place on unlink.
	keepReciprocal bool
}

func (r relation) link(ctx context.Context, log zerolog.Logger) error {
	if err := r.primary.store.AddToSet(ctx, r.primary.id, r.primary.set); err != nil {
		if errors.Is(err, domain.ErrAlreadyInSet) && r.onDuplicate != nil {
			return r.onDuplicate
		}
		return fmt.Errorf("%s: %w", r.name, err)
	}
	rec := r.reciprocal.set
	rec.Exclusive = false
	if err := r.reciprocal.store.AddToSet(ctx, r.reciprocal.id, rec); err != nil {
		log.Warn().Err(err).Str("relation", r.name).Str("id", r.reciprocal.id.Hex()).Msg("reciprocal update failed after primary write")
		return fmt.Errorf("%s: reciprocal: %w", r.name, err)
	}
	return nil
}

func (r relation) unlink(ctx context.Context, log zerolog.Logger) error {
	if err := r.primary.store.RemoveFromSet(ctx, r.primary.id, r.primary.set); err != nil {
		if errors.Is(err, domain.ErrNotInSet) && r.onMissing != nil {
			return r.onMissing
		}
		return fmt.Errorf("%s: %w", r.name, err)
	}
	if r.keepReciprocal {
		return nil
	}
	rec := r.reciprocal.set
	rec.Exclusive = false
	if err := r.reciprocal.store.RemoveFromSet(ctx, r.reciprocal.id, rec); err != nil {
		log.Warn().Err(err).Str("relation", r.name).Str("id", r.reciprocal.id.Hex()).Msg("reciprocal update failed after primary write")
		return fmt.Errorf("%s: reciprocal: %w", r.name, err)
	}
	return nil
}
