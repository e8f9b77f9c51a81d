package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

var (
	errActorMismatch = domain.Forbidden("actor_mismatch",
		"Server Error: Could not process because the request acts on behalf of another user")
	errNotRegistered = domain.Forbidden("user_not_registered",
		"Server Error: Could not process because the signed-in user has no account")
)

// actors resolves who a request acts as. Ids are compared raw; the acting
// user must be the authenticated principal unless the caller is a service.
type actors struct {
	users ports.UserRepository
}

// actingAs loads the user with the given id and checks actor may act as it.
func (a actors) actingAs(ctx context.Context, actor domain.Principal, id primitive.ObjectID) (*domain.User, error) {
	u, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsService() {
		return u, nil
	}
	if u.Email != domain.NormalizeEmail(actor.Email) {
		return nil, errActorMismatch
	}
	return u, nil
}

// principalUser returns the user document of the signed-in principal.
func (a actors) principalUser(ctx context.Context, actor domain.Principal) (*domain.User, error) {
	u, err := a.users.FindByEmail(ctx, domain.NormalizeEmail(actor.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, errNotRegistered
	}
	return u, err
}

// authorizeStaff allows services and the club's teacher or executives.
func (a actors) authorizeStaff(ctx context.Context, actor domain.Principal, club *domain.Club) error {
	if actor.IsService() {
		return nil
	}
	u, err := a.principalUser(ctx, actor)
	if err != nil {
		return err
	}
	if !club.IsStaff(u.ID) {
		return domain.ErrForbidden
	}
	return nil
}

// authorizeTeacher allows services and the club's teacher.
func (a actors) authorizeTeacher(ctx context.Context, actor domain.Principal, club *domain.Club) error {
	if actor.IsService() {
		return nil
	}
	u, err := a.principalUser(ctx, actor)
	if err != nil {
		return err
	}
	if club.Teacher != u.ID {
		return domain.ErrForbidden
	}
	return nil
}

func missingField(names ...string) error {
	return domain.BadRequest("missing_field", "Missing parameters: "+strings.Join(names, ", "))
}

// normalizeFlairs trims, bounds-checks and de-duplicates flairs, keeping order.
func normalizeFlairs(flairs []string, b domain.Bounds) ([]string, error) {
	out := make([]string, 0, len(flairs))
	seen := make(map[string]struct{}, len(flairs))
	for _, f := range flairs {
		f = strings.TrimSpace(f)
		if err := b.Check("flair", f); err != nil {
			return nil, err
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

func notFoundRef(kind string, id primitive.ObjectID) error {
	return domain.NotFound(kind+"_not_found", fmt.Sprintf("%s not found: %s", strings.ToUpper(kind[:1])+kind[1:], id.Hex()))
}

// refOr maps an entity's own not-found sentinel to a reference-specific one.
func refOr(err, sentinel error, kind string, id primitive.ObjectID) error {
	if errors.Is(err, sentinel) {
		return notFoundRef(kind, id)
	}
	return err
}
