package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set fields and counters on the post document.
const (
	PostLikedBy    = "liked_by"
	PostLikes      = "likes"
	PostFavourites = "favourites"
	PostComments   = "comments"
)

// Attachment references an uploaded file; the bytes live elsewhere.
type Attachment struct {
	URL      string `json:"url" bson:"url"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty" bson:"mime_type,omitempty"`
}

type Post struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty" swaggertype:"string"`
	Title      string               `json:"title" bson:"title"`
	Slug       string               `json:"slug" bson:"slug"`
	Body       string               `json:"body" bson:"body"`
	Author     primitive.ObjectID   `json:"author" bson:"author" swaggertype:"string"`
	Club       primitive.ObjectID   `json:"club" bson:"club" swaggertype:"string"`
	Likes      int                  `json:"likes" bson:"likes"`
	LikedBy    []primitive.ObjectID `json:"liked_by" bson:"liked_by" swaggertype:"array,string"`
	Favourites []primitive.ObjectID `json:"favourites" bson:"favourites" swaggertype:"array,string"`
	Flairs     []string             `json:"flairs" bson:"flairs"`
	Attachment *Attachment          `json:"attachment,omitempty" bson:"attachment,omitempty"`
	Comments   []primitive.ObjectID `json:"comments" bson:"comments" swaggertype:"array,string"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// PostPatch carries the mutable post fields; nil means unchanged.
type PostPatch struct {
	Title      *string
	Slug       *string
	Body       *string
	Flairs     *[]string
	Attachment *Attachment
}

// PostFilter narrows post listings. Zero values match everything.
type PostFilter struct {
	Club   primitive.ObjectID
	Author primitive.ObjectID
}
