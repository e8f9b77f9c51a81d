package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

type commentFixture struct {
	*fixture
	teacher *domain.User
	kid     *domain.User
	thread  *domain.Post
}

func newCommentFixture(t *testing.T) commentFixture {
	f := newFixture()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	return commentFixture{fixture: f, teacher: teacher, kid: kid, thread: f.post(t, teacher, club, "Weekly meeting")}
}

func (f commentFixture) comment(t *testing.T, author *domain.User, body string, parent *primitive.ObjectID) *domain.Comment {
	t.Helper()
	c, err := f.comments.Create(context.Background(), as(author.Email), ports.CreateCommentInput{
		Author: author.ID, Post: f.thread.ID, Body: body, Parent: parent,
	})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func TestCommentService_CreateLinksEverySide(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root := f.comment(t, f.kid, "Can I come?", nil)
	reply := f.comment(t, f.teacher, "Yes", &root.ID)

	if reply.Parent == nil || *reply.Parent != root.ID {
		t.Fatalf("reply parent not set: %+v", reply)
	}
	parent, _ := f.comments.Get(ctx, root.ID)
	if countID(parent.Children, reply.ID) != 1 {
		t.Fatalf("parent children not linked: %v", parent.Children)
	}
	post, _ := f.posts.Get(ctx, f.thread.ID)
	if countID(post.Comments, root.ID) != 1 || countID(post.Comments, reply.ID) != 1 {
		t.Fatalf("post comments not linked: %v", post.Comments)
	}
	kid, _ := f.users.Get(ctx, f.kid.ID)
	if countID(kid.Comments, root.ID) != 1 {
		t.Fatalf("author comments not linked: %v", kid.Comments)
	}
}

func TestCommentService_CreateRejects(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	otherClub := f.club(t, f.teacher, "Drama")
	otherPost := f.fixture.post(t, f.teacher, otherClub, "Auditions")
	foreign, err := f.comments.Create(ctx, as(f.teacher.Email), ports.CreateCommentInput{Author: f.teacher.ID, Post: otherPost.ID, Body: "x"})
	if err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	missingParent := primitive.NewObjectID()

	tests := []struct {
		name string
		in   ports.CreateCommentInput
		want string
	}{
		{"missing fields", ports.CreateCommentInput{}, "missing_field"},
		{"unknown post", ports.CreateCommentInput{Author: f.kid.ID, Post: primitive.NewObjectID(), Body: "x"}, "post_not_found"},
		{"unknown parent", ports.CreateCommentInput{Author: f.kid.ID, Post: f.thread.ID, Body: "x", Parent: &missingParent}, "parent_not_found"},
		{"parent on other post", ports.CreateCommentInput{Author: f.kid.ID, Post: f.thread.ID, Body: "x", Parent: &foreign.ID}, "parent_mismatch"},
		{"acting as another", ports.CreateCommentInput{Author: f.teacher.ID, Post: f.thread.ID, Body: "x"}, "actor_mismatch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.Create(ctx, as(f.kid.Email), tt.in)
			wantErr(t, err, tt.want)
		})
	}
}

func TestCommentService_Update(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.kid, "Can I come?", nil)

	_, err := f.comments.Update(ctx, as(f.teacher.Email), c.ID, f.teacher.ID, "edited")
	wantErr(t, err, "not_author")

	updated, err := f.comments.Update(ctx, as(f.kid.Email), c.ID, f.kid.ID, "Can I bring a friend?")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Body != "Can I bring a friend?" {
		t.Fatalf("body not updated: %q", updated.Body)
	}
}

func TestCommentService_DeleteTombstones(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.kid, "Can I come?", nil)

	deleted, err := f.comments.Delete(ctx, as(f.kid.Email), c.ID, f.kid.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted.Deleted || deleted.Body != domain.Tombstone || deleted.OriginalBody != "Can I come?" {
		t.Fatalf("unexpected tombstone: %+v", deleted)
	}

	stored, err := f.comments.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("document should remain: %v", err)
	}
	if stored.Body != domain.Tombstone {
		t.Fatalf("stored body not tombstoned: %q", stored.Body)
	}

	_, err = f.comments.Update(ctx, as(f.kid.Email), c.ID, f.kid.ID, "again")
	wantErr(t, err, "comment_deleted")
	_, err = f.comments.Delete(ctx, as(f.kid.Email), c.ID, f.kid.ID)
	wantErr(t, err, "comment_deleted")
	_, _, err = f.comments.Like(ctx, as(f.teacher.Email), c.ID, f.teacher.ID)
	wantErr(t, err, "comment_deleted")

	stored, _ = f.comments.Get(ctx, c.ID)
	teacher, _ := f.users.Get(ctx, f.teacher.ID)
	if stored.Likes != 0 || countID(teacher.Liked, c.ID) != 0 {
		t.Fatalf("rejected like changed state: likes=%d liked=%v", stored.Likes, teacher.Liked)
	}
}

func TestCommentService_Likes(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	c := f.comment(t, f.kid, "Can I come?", nil)

	liked, u, err := f.comments.Like(ctx, as(f.teacher.Email), c.ID, f.teacher.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if liked.Likes != 1 || countID(u.Liked, c.ID) != 1 {
		t.Fatalf("like not applied: %+v / %v", liked, u.Liked)
	}
	_, _, err = f.comments.Like(ctx, as(f.teacher.Email), c.ID, f.teacher.ID)
	wantErr(t, err, "already_liked")

	unliked, _, err := f.comments.Unlike(ctx, as(f.teacher.Email), c.ID, f.teacher.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if unliked.Likes != 0 {
		t.Fatalf("expected 0 likes, got %d", unliked.Likes)
	}
	_, _, err = f.comments.Unlike(ctx, as(f.teacher.Email), c.ID, f.teacher.ID)
	wantErr(t, err, "not_liked")
}

func TestCommentService_List(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	f.comment(t, f.kid, "one", nil)
	f.comment(t, f.teacher, "two", nil)

	byKid, err := f.comments.List(ctx, domain.CommentFilter{Author: f.kid.ID})
	if err != nil || len(byKid) != 1 {
		t.Fatalf("expected one comment by kid, got %d (%v)", len(byKid), err)
	}
	onPost, _ := f.comments.List(ctx, domain.CommentFilter{Post: f.thread.ID})
	if len(onPost) != 2 {
		t.Fatalf("expected two comments on post, got %d", len(onPost))
	}
}
