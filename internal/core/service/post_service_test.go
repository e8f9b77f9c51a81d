package service

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

func TestPostService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	post, err := f.posts.Create(ctx, as(teacher.Email), ports.CreatePostInput{
		Title:      "Tournament Friday",
		Body:       "Bring a board",
		Author:     teacher.ID,
		Club:       club.ID,
		Flairs:     []string{"event"},
		Attachment: &domain.Attachment{URL: "https://example.com/poster.png", MimeType: "image/png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Slug != "tournament-friday" || post.Attachment == nil {
		t.Fatalf("unexpected post: %+v", post)
	}

	c, _ := f.clubs.Get(ctx, club.ID)
	if countID(c.Posts, post.ID) != 1 || c.PostCount != 1 {
		t.Fatalf("club not linked: posts=%v count=%d", c.Posts, c.PostCount)
	}
	u, _ := f.users.Get(ctx, teacher.ID)
	if countID(u.Posts, post.ID) != 1 {
		t.Fatalf("author not linked: %v", u.Posts)
	}
}

func TestPostService_CreateRejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	outsider := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	tests := []struct {
		name  string
		actor domain.Principal
		in    ports.CreatePostInput
		want  string
	}{
		{"missing fields", as(teacher.Email), ports.CreatePostInput{}, "missing_field"},
		{"title too short", as(teacher.Email), ports.CreatePostInput{Title: "Hi", Body: "b", Author: teacher.ID, Club: club.ID}, "length_exceeded"},
		{"body too long", as(teacher.Email), ports.CreatePostInput{Title: "Hello", Body: strings.Repeat("b", 501), Author: teacher.ID, Club: club.ID}, "length_exceeded"},
		{"empty attachment", as(teacher.Email), ports.CreatePostInput{Title: "Hello", Body: "b", Author: teacher.ID, Club: club.ID, Attachment: &domain.Attachment{}}, "invalid_attachment"},
		{"not a member", as(outsider.Email), ports.CreatePostInput{Title: "Hello", Body: "b", Author: outsider.ID, Club: club.ID}, "not_a_member"},
		{"acting as another", as(outsider.Email), ports.CreatePostInput{Title: "Hello", Body: "b", Author: teacher.ID, Club: club.ID}, "actor_mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.Create(ctx, tt.actor, tt.in)
			wantErr(t, err, tt.want)
		})
	}
}

func TestPostService_SlugCollision(t *testing.T) {
	f := newFixture()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	first := f.post(t, teacher, club, "Weekly meeting")
	second := f.post(t, teacher, club, "Weekly Meeting!")

	if first.Slug != "weekly-meeting" {
		t.Fatalf("unexpected first slug %q", first.Slug)
	}
	if second.Slug == first.Slug || !strings.HasPrefix(second.Slug, "weekly-meeting-") {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestPostService_UpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	post := f.post(t, teacher, club, "Weekly meeting")

	title := "Meeting moved"
	_, err := f.posts.Update(ctx, as(kid.Email), post.ID, ports.UpdatePostInput{Author: kid.ID, Title: &title})
	wantErr(t, err, "not_author")

	updated, err := f.posts.Update(ctx, as(teacher.Email), post.ID, ports.UpdatePostInput{Author: teacher.ID, Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.Slug != "meeting-moved" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	_, err = f.posts.Delete(ctx, as(teacher.Email), post.ID, primitive.NilObjectID)
	wantErr(t, err, "missing_field")

	if _, err := f.posts.Delete(ctx, as(teacher.Email), post.ID, teacher.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.posts.Get(ctx, post.ID)
	wantErr(t, err, "post_not_found")

	c, _ := f.clubs.Get(ctx, club.ID)
	if len(c.Posts) != 0 || c.PostCount != 0 {
		t.Fatalf("club still references post: posts=%v count=%d", c.Posts, c.PostCount)
	}
	u, _ := f.users.Get(ctx, teacher.ID)
	if len(u.Posts) != 0 {
		t.Fatalf("author still references post: %v", u.Posts)
	}
}

func TestPostService_LikeCountsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	post := f.post(t, teacher, club, "Weekly meeting")

	p, u, err := f.posts.Like(ctx, as(kid.Email), post.ID, kid.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if p.Likes != 1 || countID(p.LikedBy, kid.ID) != 1 || countID(u.Liked, post.ID) != 1 {
		t.Fatalf("like not applied: %+v / %v", p, u.Liked)
	}

	_, _, err = f.posts.Like(ctx, as(kid.Email), post.ID, kid.ID)
	wantErr(t, err, "already_liked")

	p, _ = f.posts.Get(ctx, post.ID)
	if p.Likes != 1 {
		t.Fatalf("repeated like changed the counter: %d", p.Likes)
	}

	p, u, err = f.posts.Unlike(ctx, as(kid.Email), post.ID, kid.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if p.Likes != 0 || len(p.LikedBy) != 0 || len(u.Liked) != 0 {
		t.Fatalf("unlike not applied: %+v / %v", p, u.Liked)
	}
	_, _, err = f.posts.Unlike(ctx, as(kid.Email), post.ID, kid.ID)
	wantErr(t, err, "not_liked")
}

func TestPostService_FavouriteConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	post := f.post(t, teacher, club, "Weekly meeting")

	if _, _, err := f.posts.Favourite(ctx, as(kid.Email), post.ID, kid.ID); err != nil {
		t.Fatalf("favourite: %v", err)
	}
	_, _, err := f.posts.Favourite(ctx, as(kid.Email), post.ID, kid.ID)
	wantErr(t, err, "already_favourited")

	if _, _, err := f.posts.Unfavourite(ctx, as(kid.Email), post.ID, kid.ID); err != nil {
		t.Fatalf("unfavourite: %v", err)
	}
	_, _, err = f.posts.Unfavourite(ctx, as(kid.Email), post.ID, kid.ID)
	wantErr(t, err, "not_favourited")
}

func TestPostService_ListAndComments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	chess := f.club(t, teacher, "Chess")
	drama := f.club(t, teacher, "Drama")
	post := f.post(t, teacher, chess, "Weekly meeting")
	f.post(t, teacher, drama, "Auditions")

	all, _ := f.posts.List(ctx, domain.PostFilter{})
	inChess, _ := f.posts.List(ctx, domain.PostFilter{Club: chess.ID})
	if len(all) != 2 || len(inChess) != 1 || inChess[0].ID != post.ID {
		t.Fatalf("unexpected listings: all=%d chess=%d", len(all), len(inChess))
	}

	if _, err := f.comments.Create(ctx, as(teacher.Email), ports.CreateCommentInput{Author: teacher.ID, Post: post.ID, Body: "See you"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	comments, err := f.posts.Comments(ctx, post.ID)
	if err != nil || len(comments) != 1 {
		t.Fatalf("expected one comment, got %d (%v)", len(comments), err)
	}
}
