package domain

import (
	"fmt"
	"unicode/utf8"
)

// Bounds is an inclusive character-count range. Max <= 0 means unbounded.
type Bounds struct {
	Min int
	Max int
}

// Limits holds the configured length bounds for free-text fields.
type Limits struct {
	ClubName        Bounds
	ClubDescription Bounds
	PostTitle       Bounds
	PostBody        Bounds
	CommentBody     Bounds
	Flair           Bounds
}

// DefaultLimits mirrors the document schema bounds.
var DefaultLimits = Limits{
	ClubName:        Bounds{Min: 1, Max: 100},
	ClubDescription: Bounds{Min: 1, Max: 500},
	PostTitle:       Bounds{Min: 3, Max: 30},
	PostBody:        Bounds{Min: 1, Max: 500},
	CommentBody:     Bounds{Min: 1, Max: 500},
	Flair:           Bounds{Min: 1, Max: 32},
}

// Check returns a BadRequest when value's length falls outside b.
func (b Bounds) Check(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < b.Min || (b.Max > 0 && n > b.Max) {
		return BadRequest("length_exceeded",
			fmt.Sprintf("%s must be between %d and %d characters long", field, b.Min, b.Max))
	}
	return nil
}
