package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set fields and counters on the club document.
const (
	ClubExecutives = "executives"
	ClubMembers    = "members"
	ClubFavourites = "favourites"
	ClubFlairs     = "flairs"
	ClubPosts      = "posts"
	ClubPostCount  = "post_count"
)

// Socials holds a club's optional outside links.
type Socials struct {
	Instagram           string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	GoogleClassroomCode string `json:"google_classroom_code,omitempty" bson:"google_classroom_code,omitempty"`
	SignupLink          string `json:"signup_link,omitempty" bson:"signup_link,omitempty"`
}

// Club is owned by a teacher and run by its executives.
type Club struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty" swaggertype:"string"`
	Name         string               `json:"name" bson:"name"`
	Slug         string               `json:"slug" bson:"slug"`
	Description  string               `json:"description" bson:"description"`
	Teacher      primitive.ObjectID   `json:"teacher" bson:"teacher" swaggertype:"string"`
	Executives   []primitive.ObjectID `json:"executives" bson:"executives" swaggertype:"array,string"`
	Members      []primitive.ObjectID `json:"members" bson:"members" swaggertype:"array,string"`
	Favourites   []primitive.ObjectID `json:"favourites" bson:"favourites" swaggertype:"array,string"`
	Flairs       []string             `json:"flairs" bson:"flairs"`
	Socials      Socials              `json:"socials" bson:"socials"`
	ClubfestLink string               `json:"clubfest_link,omitempty" bson:"clubfest_link,omitempty"`
	Posts        []primitive.ObjectID `json:"posts" bson:"posts" swaggertype:"array,string"`
	PostCount    int                  `json:"post_count" bson:"post_count"`
	EventCount   int                  `json:"event_count" bson:"event_count"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// IsStaff reports whether user is the club's teacher or one of its executives.
func (c *Club) IsStaff(user primitive.ObjectID) bool {
	return c.Teacher == user || containsID(c.Executives, user)
}

// IsMember reports whether user may post in the club.
func (c *Club) IsMember(user primitive.ObjectID) bool {
	return c.IsStaff(user) || containsID(c.Members, user)
}

// ClubPatch carries the mutable club fields; nil means unchanged.
// Slug is derived from Name by the service.
type ClubPatch struct {
	Name         *string
	Slug         *string
	Description  *string
	Socials      *Socials
	ClubfestLink *string
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
