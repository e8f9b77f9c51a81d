package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
	"github.com/clubhub/clubhub-api/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Fixture: all four services over one in-memory store
// ---------------------------------------------------------------------------

type fixture struct {
	store    *memory.Store
	users    *UserService
	clubs    *ClubService
	posts    *PostService
	comments *CommentService
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := zerolog.Nop()
	return &fixture{
		store:    store,
		users:    NewUserService(store.Users, store.Clubs, store.Posts, store.Comments, domain.DefaultEmailPolicy, log),
		clubs:    NewClubService(store.Clubs, store.Users, store.Posts, domain.DefaultLimits, log),
		posts:    NewPostService(store.Posts, store.Clubs, store.Users, store.Comments, domain.DefaultLimits, log),
		comments: NewCommentService(store.Comments, store.Posts, store.Users, domain.DefaultLimits, log),
	}
}

func as(email string) domain.Principal {
	role, _ := domain.DefaultEmailPolicy.Classify(email)
	return domain.Principal{UID: "uid-" + email, Email: email, Role: role}
}

var serviceActor = domain.Principal{UID: "service", Role: domain.RoleService}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), ports.CreateUserInput{Email: email})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) club(t *testing.T, teacher *domain.User, name string) *domain.Club {
	t.Helper()
	c, err := f.clubs.Create(context.Background(), as(teacher.Email), ports.CreateClubInput{
		Name:        name,
		Description: "A club for " + name,
		Teacher:     teacher.ID,
	})
	if err != nil {
		t.Fatalf("create club %s: %v", name, err)
	}
	return c
}

func (f *fixture) post(t *testing.T, author *domain.User, club *domain.Club, title string) *domain.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), as(author.Email), ports.CreatePostInput{
		Title:  title,
		Body:   "Body of " + title,
		Author: author.ID,
		Club:   club.ID,
	})
	if err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return p
}

func errName(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Name
	}
	return ""
}

func wantErr(t *testing.T, err error, name string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", name)
	}
	if got := errName(err); got != name {
		t.Fatalf("expected %s, got %q (%v)", name, got, err)
	}
}

func countID[T comparable](list []T, v T) int {
	n := 0
	for _, x := range list {
		if x == v {
			n++
		}
	}
	return n
}
