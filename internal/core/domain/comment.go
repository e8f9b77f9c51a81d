package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tombstone replaces the body of a deleted comment.
const Tombstone = "This comment has been deleted"

// Set fields and counters on the comment document.
const (
	CommentChildren = "children"
	CommentLikedBy  = "liked_by"
	CommentLikes    = "likes"
)

// Comment belongs to a post and optionally replies to another comment.
type Comment struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty" swaggertype:"string"`
	Post         primitive.ObjectID   `json:"post" bson:"post" swaggertype:"string"`
	Parent       *primitive.ObjectID  `json:"parent,omitempty" bson:"parent,omitempty" swaggertype:"string"`
	Children     []primitive.ObjectID `json:"children" bson:"children" swaggertype:"array,string"`
	Author       primitive.ObjectID   `json:"author" bson:"author" swaggertype:"string"`
	Body         string               `json:"body" bson:"body"`
	Likes        int                  `json:"likes" bson:"likes"`
	LikedBy      []primitive.ObjectID `json:"liked_by" bson:"liked_by" swaggertype:"array,string"`
	Deleted      bool                 `json:"deleted" bson:"deleted"`
	OriginalBody string               `json:"original_body,omitempty" bson:"original_body,omitempty"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// CommentPatch carries the mutable comment fields; nil means unchanged.
type CommentPatch struct {
	Body         *string
	Deleted      *bool
	OriginalBody *string
}

// CommentFilter narrows comment listings. Zero values match everything.
type CommentFilter struct {
	Post   primitive.ObjectID
	Author primitive.ObjectID
}
