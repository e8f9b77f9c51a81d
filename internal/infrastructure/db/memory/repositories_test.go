package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

func newClub(name, slug string) *domain.Club {
	return &domain.Club{
		Name:       name,
		Slug:       slug,
		Teacher:    primitive.NewObjectID(),
		Executives: []primitive.ObjectID{},
		Members:    []primitive.ObjectID{},
		Posts:      []primitive.ObjectID{},
	}
}

func TestCreateAssignsIDAndRoundTrips(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	c := newClub("Chess", "chess")
	c.Socials = domain.Socials{Instagram: "@chess"}
	if err := s.Clubs.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID.IsZero() {
		t.Fatal("expected an id to be assigned")
	}

	got, err := s.Clubs.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "Chess" || got.Socials.Instagram != "@chess" || got.Teacher != c.Teacher {
		t.Errorf("unexpected club: %+v", got)
	}
}

func TestUniqueFields(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Clubs.Create(ctx, newClub("Chess", "chess")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Clubs.Create(ctx, newClub("Chess", "chess-2")); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Errorf("duplicate name: expected ErrDuplicateEntry, got %v", err)
	}
	if err := s.Clubs.Create(ctx, newClub("Chess Club", "chess")); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Errorf("duplicate slug: expected ErrDuplicateEntry, got %v", err)
	}

	other := newClub("Debate", "debate")
	if err := s.Clubs.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}
	name := "Chess"
	if _, err := s.Clubs.Update(ctx, other.ID, domain.ClubPatch{Name: &name}); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Errorf("rename onto existing: expected ErrDuplicateEntry, got %v", err)
	}
}

func TestNotFoundSentinels(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id := primitive.NewObjectID()

	if _, err := s.Users.FindByID(ctx, id); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("users: got %v", err)
	}
	if _, err := s.Clubs.FindBySlug(ctx, "nope"); !errors.Is(err, domain.ErrClubNotFound) {
		t.Errorf("clubs: got %v", err)
	}
	if _, err := s.Posts.Delete(ctx, id); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("posts: got %v", err)
	}
	if err := s.Comments.AddToSet(ctx, id, ports.SetUpdate{Field: domain.CommentLikedBy, Value: id}); !errors.Is(err, domain.ErrCommentNotFound) {
		t.Errorf("comments: got %v", err)
	}
}

func TestAddToSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := newClub("Chess", "chess")
	if err := s.Clubs.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	user := primitive.NewObjectID()

	tests := []struct {
		name    string
		update  ports.SetUpdate
		wantErr error
	}{
		{"first add", ports.SetUpdate{Field: domain.ClubExecutives, Value: user}, nil},
		{"idempotent add", ports.SetUpdate{Field: domain.ClubExecutives, Value: user}, nil},
		{"exclusive duplicate", ports.SetUpdate{Field: domain.ClubExecutives, Value: user, Exclusive: true}, domain.ErrAlreadyInSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Clubs.AddToSet(ctx, c.ID, tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	got, _ := s.Clubs.FindByID(ctx, c.ID)
	if len(got.Executives) != 1 || got.Executives[0] != user {
		t.Errorf("expected executives == [%s], got %v", user.Hex(), got.Executives)
	}
}

func TestRemoveFromSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := newClub("Chess", "chess")
	c.Flairs = []string{"events"}
	if err := s.Clubs.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Clubs.RemoveFromSet(ctx, c.ID, ports.SetUpdate{Field: domain.ClubFlairs, Value: "missing"}); err != nil {
		t.Errorf("non-exclusive missing remove: %v", err)
	}
	if err := s.Clubs.RemoveFromSet(ctx, c.ID, ports.SetUpdate{Field: domain.ClubFlairs, Value: "missing", Exclusive: true}); !errors.Is(err, domain.ErrNotInSet) {
		t.Errorf("exclusive missing remove: expected ErrNotInSet, got %v", err)
	}
	if err := s.Clubs.RemoveFromSet(ctx, c.ID, ports.SetUpdate{Field: domain.ClubFlairs, Value: "events"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := s.Clubs.FindByID(ctx, c.ID)
	if len(got.Flairs) != 0 {
		t.Errorf("expected no flairs, got %v", got.Flairs)
	}
}

func TestCounterMovesWithSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := &domain.Post{Title: "Hello", Slug: "hello", LikedBy: []primitive.ObjectID{}}
	if err := s.Posts.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	user := primitive.NewObjectID()
	like := ports.SetUpdate{Field: domain.PostLikedBy, Value: user, Counter: domain.PostLikes}

	for i := 0; i < 3; i++ {
		if err := s.Posts.AddToSet(ctx, p.ID, like); err != nil {
			t.Fatalf("AddToSet: %v", err)
		}
	}
	got, _ := s.Posts.FindByID(ctx, p.ID)
	if got.Likes != 1 || len(got.LikedBy) != 1 {
		t.Fatalf("expected 1 like after repeated adds, got likes=%d liked_by=%v", got.Likes, got.LikedBy)
	}

	for i := 0; i < 2; i++ {
		if err := s.Posts.RemoveFromSet(ctx, p.ID, like); err != nil {
			t.Fatalf("RemoveFromSet: %v", err)
		}
	}
	got, _ = s.Posts.FindByID(ctx, p.ID)
	if got.Likes != 0 || len(got.LikedBy) != 0 {
		t.Errorf("expected 0 likes, got likes=%d liked_by=%v", got.Likes, got.LikedBy)
	}
}

func TestConcurrentExclusiveAdd(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	p := &domain.Post{Title: "Hello", Slug: "hello"}
	if err := s.Posts.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	user := primitive.NewObjectID()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Posts.AddToSet(ctx, p.ID, ports.SetUpdate{Field: domain.PostLikedBy, Value: user, Exclusive: true, Counter: domain.PostLikes})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Errorf("expected exactly one winning add, got %d", success)
	}
	got, _ := s.Posts.FindByID(ctx, p.ID)
	if got.Likes != 1 {
		t.Errorf("expected likes == 1, got %d", got.Likes)
	}
}

func TestListFiltersAndFindMany(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	clubA, clubB := primitive.NewObjectID(), primitive.NewObjectID()
	author := primitive.NewObjectID()

	posts := []*domain.Post{
		{Title: "one", Slug: "one", Club: clubA, Author: author},
		{Title: "two", Slug: "two", Club: clubA},
		{Title: "three", Slug: "three", Club: clubB, Author: author},
	}
	for _, p := range posts {
		if err := s.Posts.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	byClub, _ := s.Posts.List(ctx, domain.PostFilter{Club: clubA})
	if len(byClub) != 2 || byClub[0].Slug != "one" || byClub[1].Slug != "two" {
		t.Errorf("club filter: got %d posts", len(byClub))
	}
	byBoth, _ := s.Posts.List(ctx, domain.PostFilter{Club: clubA, Author: author})
	if len(byBoth) != 1 || byBoth[0].Slug != "one" {
		t.Errorf("club+author filter: got %d posts", len(byBoth))
	}
	everything, _ := s.Posts.List(ctx, domain.PostFilter{})
	if len(everything) != 3 {
		t.Errorf("empty filter: expected 3 posts, got %d", len(everything))
	}

	none, err := s.Posts.FindMany(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Errorf("FindMany(nil): expected empty, got %d (%v)", len(none), err)
	}
	some, _ := s.Posts.FindMany(ctx, []primitive.ObjectID{posts[2].ID, primitive.NewObjectID()})
	if len(some) != 1 || some[0].ID != posts[2].ID {
		t.Errorf("FindMany: unexpected result %v", some)
	}
}

func TestDeleteReturnsDocument(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u := &domain.User{Email: "a@student.tdsb.on.ca", Role: domain.RoleStudent}
	if err := s.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	deleted, err := s.Users.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Email != u.Email {
		t.Errorf("expected deleted user %s, got %s", u.Email, deleted.Email)
	}
	if _, err := s.Users.FindByEmail(ctx, u.Email); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
	// the email is free again
	if err := s.Users.Create(ctx, &domain.User{Email: u.Email}); err != nil {
		t.Errorf("re-create: %v", err)
	}
}
