package service

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

func TestClubService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacherOne@tdsb.on.ca")

	club, err := f.clubs.Create(ctx, as(teacher.Email), ports.CreateClubInput{
		Name:        "  Robotics Club ",
		Description: "We build robots",
		Teacher:     teacher.ID,
		Socials:     domain.Socials{Instagram: "@robots"},
		Flairs:      []string{"stem", " stem ", "build"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if club.Name != "Robotics Club" || club.Slug != "robotics-club" {
		t.Fatalf("unexpected name/slug: %q %q", club.Name, club.Slug)
	}
	if club.Socials.Instagram != "@robots" {
		t.Fatalf("socials not kept: %+v", club.Socials)
	}
	if len(club.Flairs) != 2 {
		t.Fatalf("expected de-duplicated flairs, got %v", club.Flairs)
	}

	got, err := f.clubs.Get(ctx, club.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != club.Name || got.Description != club.Description || got.Teacher != teacher.ID {
		t.Fatalf("stored club differs: %+v", got)
	}

	u, _ := f.users.Get(ctx, teacher.ID)
	if countID(u.Clubs, club.ID) != 1 {
		t.Fatalf("teacher not linked to club: %v", u.Clubs)
	}
}

func TestClubService_CreateRejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	other := f.user(t, "other@tdsb.on.ca")
	student := f.user(t, "kid@student.tdsb.on.ca")
	f.club(t, teacher, "Chess")

	tests := []struct {
		name  string
		actor domain.Principal
		in    ports.CreateClubInput
		want  string
	}{
		{"missing fields", as(teacher.Email), ports.CreateClubInput{}, "missing_field"},
		{"description too long", as(teacher.Email), ports.CreateClubInput{Name: "Art", Description: strings.Repeat("x", 501), Teacher: teacher.ID}, "length_exceeded"},
		{"unknown teacher", as(teacher.Email), ports.CreateClubInput{Name: "Art", Description: "d", Teacher: primitive.NewObjectID()}, "teacher_not_found"},
		{"student as teacher", as(student.Email), ports.CreateClubInput{Name: "Art", Description: "d", Teacher: student.ID}, "invalid_teacher"},
		{"other teacher", as(other.Email), ports.CreateClubInput{Name: "Art", Description: "d", Teacher: teacher.ID}, "actor_mismatch"},
		{"duplicate name", as(teacher.Email), ports.CreateClubInput{Name: "Chess", Description: "d", Teacher: teacher.ID}, "name_taken"},
		{"duplicate slug", as(teacher.Email), ports.CreateClubInput{Name: "chess!", Description: "d", Teacher: teacher.ID}, "slug_taken"},
		{"no letters", as(teacher.Email), ports.CreateClubInput{Name: "!!!", Description: "d", Teacher: teacher.ID}, "invalid_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.clubs.Create(ctx, tt.actor, tt.in)
			wantErr(t, err, tt.want)
		})
	}
}

func TestClubService_ServiceCreatesForTeacher(t *testing.T) {
	f := newFixture()
	teacher := f.user(t, "teacher@tdsb.on.ca")

	_, err := f.clubs.Create(context.Background(), serviceActor, ports.CreateClubInput{
		Name: "Drama", Description: "Plays", Teacher: teacher.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClubService_UpdateRegeneratesSlug(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	name, insta := "Chess & Go", "@chessgo"
	updated, err := f.clubs.Update(ctx, as(teacher.Email), club.ID, ports.UpdateClubInput{Name: &name, Instagram: &insta})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != domain.Slugify(name) || updated.Socials.Instagram != insta {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if _, err := f.clubs.GetBySlug(ctx, updated.Slug); err != nil {
		t.Fatalf("lookup by new slug: %v", err)
	}
}

func TestClubService_UpdateRequiresStaff(t *testing.T) {
	f := newFixture()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	student := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	desc := "hijacked"
	_, err := f.clubs.Update(context.Background(), as(student.Email), club.ID, ports.UpdateClubInput{Description: &desc})
	wantErr(t, err, "access_denied")
}

func TestClubService_AddExecutiveIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	student := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	for i := 0; i < 2; i++ {
		if _, err := f.clubs.AddExecutive(ctx, as(teacher.Email), club.ID, student.ID); err != nil {
			t.Fatalf("add #%d: %v", i+1, err)
		}
	}

	got, _ := f.clubs.Get(ctx, club.ID)
	if len(got.Executives) != 1 || got.Executives[0] != student.ID {
		t.Fatalf("expected executives == [student], got %v", got.Executives)
	}
	if countID(got.Members, student.ID) != 1 {
		t.Fatalf("executive should also be a member: %v", got.Members)
	}
	u, _ := f.users.Get(ctx, student.ID)
	if countID(u.Clubs, club.ID) != 1 {
		t.Fatalf("student not linked to club: %v", u.Clubs)
	}

	// Executives can now edit the club.
	if _, err := f.clubs.AddFlair(ctx, as(student.Email), club.ID, "board-games"); err != nil {
		t.Fatalf("executive add flair: %v", err)
	}

	got, err := f.clubs.RemoveExecutive(ctx, as(teacher.Email), club.ID, student.ID)
	if err != nil {
		t.Fatalf("remove executive: %v", err)
	}
	if len(got.Executives) != 0 || countID(got.Members, student.ID) != 1 {
		t.Fatalf("remove executive should keep membership: %+v", got)
	}
}

func TestClubService_Flairs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	for i := 0; i < 2; i++ {
		if _, err := f.clubs.AddFlair(ctx, as(teacher.Email), club.ID, "strategy"); err != nil {
			t.Fatalf("add flair: %v", err)
		}
	}
	got, _ := f.clubs.Get(ctx, club.ID)
	if countID(got.Flairs, "strategy") != 1 {
		t.Fatalf("expected one flair, got %v", got.Flairs)
	}

	got, err := f.clubs.RemoveFlair(ctx, as(teacher.Email), club.ID, "strategy")
	if err != nil {
		t.Fatalf("remove flair: %v", err)
	}
	if len(got.Flairs) != 0 {
		t.Fatalf("expected no flairs, got %v", got.Flairs)
	}
	if _, err := f.clubs.RemoveFlair(ctx, as(teacher.Email), club.ID, "strategy"); err != nil {
		t.Fatalf("removing a missing flair should be a no-op: %v", err)
	}

	_, err = f.clubs.AddFlair(ctx, as(teacher.Email), club.ID, " ")
	wantErr(t, err, "missing_field")
}

func TestClubService_Members(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	other := f.user(t, "other@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	// Self-service add is allowed, adding someone else is not.
	if _, err := f.clubs.AddMember(ctx, as(kid.Email), club.ID, kid.ID); err != nil {
		t.Fatalf("self add: %v", err)
	}
	_, err := f.clubs.AddMember(ctx, as(kid.Email), club.ID, other.ID)
	wantErr(t, err, "access_denied")

	if _, err := f.clubs.AddMember(ctx, as(teacher.Email), club.ID, other.ID); err != nil {
		t.Fatalf("staff add: %v", err)
	}
	members, err := f.clubs.Members(ctx, club.ID)
	if err != nil || len(members) != 2 {
		t.Fatalf("expected two members, got %d (%v)", len(members), err)
	}

	got, err := f.clubs.RemoveMember(ctx, as(kid.Email), club.ID, kid.ID)
	if err != nil {
		t.Fatalf("self remove: %v", err)
	}
	if countID(got.Members, kid.ID) != 0 {
		t.Fatalf("kid still a member: %v", got.Members)
	}
	u, _ := f.users.Get(ctx, kid.ID)
	if countID(u.Clubs, club.ID) != 0 {
		t.Fatalf("club still on user: %v", u.Clubs)
	}
}

func TestClubService_FollowConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	club2, user, err := f.clubs.Follow(ctx, as(kid.Email), club.ID, kid.ID)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if countID(club2.Members, kid.ID) != 1 || countID(user.Clubs, club.ID) != 1 {
		t.Fatalf("follow not applied: %v %v", club2.Members, user.Clubs)
	}
	_, _, err = f.clubs.Follow(ctx, as(kid.Email), club.ID, kid.ID)
	wantErr(t, err, "already_following")

	if _, _, err := f.clubs.Unfollow(ctx, as(kid.Email), club.ID, kid.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	_, _, err = f.clubs.Unfollow(ctx, as(kid.Email), club.ID, kid.ID)
	wantErr(t, err, "not_following")
}

func TestClubService_FavouriteConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	_, _, err := f.clubs.Unfavourite(ctx, as(kid.Email), club.ID, kid.ID)
	wantErr(t, err, "not_favourited")

	c, u, err := f.clubs.Favourite(ctx, as(kid.Email), club.ID, kid.ID)
	if err != nil {
		t.Fatalf("favourite: %v", err)
	}
	if countID(c.Favourites, kid.ID) != 1 || countID(u.FavouriteClubs, club.ID) != 1 {
		t.Fatalf("favourite not applied on both sides: %v %v", c.Favourites, u.FavouriteClubs)
	}

	_, _, err = f.clubs.Favourite(ctx, as(kid.Email), club.ID, kid.ID)
	wantErr(t, err, "already_favourited")

	c, _ = f.clubs.Get(ctx, club.ID)
	if countID(c.Favourites, kid.ID) != 1 {
		t.Fatalf("repeated favourite duplicated the reference: %v", c.Favourites)
	}
}

func TestClubService_ToggleActsOnlyAsSelf(t *testing.T) {
	f := newFixture()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	other := f.user(t, "other@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	_, _, err := f.clubs.Favourite(context.Background(), as(other.Email), club.ID, kid.ID)
	wantErr(t, err, "actor_mismatch")
}

func TestClubService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	f.club(t, teacher, "Go")

	if _, err := f.clubs.AddExecutive(ctx, as(teacher.Email), club.ID, kid.ID); err != nil {
		t.Fatalf("add executive: %v", err)
	}
	_, err := f.clubs.Delete(ctx, as(kid.Email), club.ID)
	wantErr(t, err, "access_denied")

	if _, err := f.clubs.Delete(ctx, as(teacher.Email), club.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = f.clubs.Get(ctx, club.ID)
	wantErr(t, err, "club_not_found")

	if _, err := f.clubs.DeleteBySlug(ctx, serviceActor, "go"); err != nil {
		t.Fatalf("delete by slug: %v", err)
	}
	clubs, _ := f.clubs.List(ctx)
	if len(clubs) != 0 {
		t.Fatalf("expected no clubs, got %d", len(clubs))
	}
}

func TestClubService_Posts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")
	f.post(t, teacher, club, "Meeting today")

	posts, err := f.clubs.Posts(ctx, club.ID)
	if err != nil || len(posts) != 1 {
		t.Fatalf("expected one post, got %d (%v)", len(posts), err)
	}
	_, err = f.clubs.Posts(ctx, primitive.NewObjectID())
	wantErr(t, err, "club_not_found")
}

func TestClubService_RejectedUnfollowKeepsOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	_, _, err := f.clubs.Unfollow(ctx, as(teacher.Email), club.ID, teacher.ID)
	wantErr(t, err, "not_following")

	u, _ := f.users.Get(ctx, teacher.ID)
	if countID(u.Clubs, club.ID) != 1 {
		t.Fatalf("conflict changed teacher clubs: %v", u.Clubs)
	}

	// Staff removing the teacher as a member leaves the ownership link too.
	if _, err := f.clubs.RemoveMember(ctx, as(teacher.Email), club.ID, teacher.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	u, _ = f.users.Get(ctx, teacher.ID)
	if countID(u.Clubs, club.ID) != 1 {
		t.Fatalf("ownership link dropped: %v", u.Clubs)
	}
}

func TestClubService_UnfollowDropsExecutive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	teacher := f.user(t, "teacher@tdsb.on.ca")
	kid := f.user(t, "kid@student.tdsb.on.ca")
	club := f.club(t, teacher, "Chess")

	if _, err := f.clubs.AddExecutive(ctx, as(teacher.Email), club.ID, kid.ID); err != nil {
		t.Fatalf("add executive: %v", err)
	}
	got, u, err := f.clubs.Unfollow(ctx, as(kid.Email), club.ID, kid.ID)
	if err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if countID(got.Members, kid.ID) != 0 || countID(got.Executives, kid.ID) != 0 || countID(u.Clubs, club.ID) != 0 {
		t.Fatalf("unfollow left references: members=%v executives=%v clubs=%v", got.Members, got.Executives, u.Clubs)
	}
	if got.IsMember(kid.ID) {
		t.Fatal("former executive can still post")
	}

	_, err = f.posts.Create(ctx, as(kid.Email), ports.CreatePostInput{Title: "Hello", Body: "b", Author: kid.ID, Club: club.ID})
	wantErr(t, err, "not_a_member")
}
