package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set fields on the user document.
const (
	UserClubs          = "clubs"
	UserFavouriteClubs = "favourite_clubs"
	UserPosts          = "posts"
	UserComments       = "comments"
	UserFavouritePosts = "fav_posts"
	UserLiked          = "liked"
)

// User is a student or teacher account, created on first sign-in.
type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty" swaggertype:"string"`
	Email          string               `json:"email" bson:"email"`
	Role           Role                 `json:"account_type" bson:"account_type"`
	ProfilePic     string               `json:"profile_pic,omitempty" bson:"profile_pic,omitempty"`
	Clubs          []primitive.ObjectID `json:"clubs" bson:"clubs" swaggertype:"array,string"`
	FavouriteClubs []primitive.ObjectID `json:"favourite_clubs" bson:"favourite_clubs" swaggertype:"array,string"`
	Posts          []primitive.ObjectID `json:"posts" bson:"posts" swaggertype:"array,string"`
	Comments       []primitive.ObjectID `json:"comments" bson:"comments" swaggertype:"array,string"`
	FavouritePosts []primitive.ObjectID `json:"fav_posts" bson:"fav_posts" swaggertype:"array,string"`
	Liked          []primitive.ObjectID `json:"liked" bson:"liked" swaggertype:"array,string"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserPatch carries the mutable user fields; nil means unchanged.
type UserPatch struct {
	ProfilePic *string
}
