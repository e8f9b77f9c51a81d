package domain

import (
	"errors"
	"net/http"
)

// Kind classifies an Error and decides its HTTP status.
type Kind int

const (
	KindGeneral Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error every layer returns for expected failures.
// Name is a stable machine-readable code, Description is for humans.
type Error struct {
	Kind        Kind
	Name        string
	Description string
}

func (e *Error) Error() string {
	return e.Name + ": " + e.Description
}

func BadRequest(name, description string) *Error {
	return &Error{Kind: KindBadRequest, Name: name, Description: description}
}

func Unauthorized(name, description string) *Error {
	return &Error{Kind: KindUnauthorized, Name: name, Description: description}
}

func Forbidden(name, description string) *Error {
	return &Error{Kind: KindForbidden, Name: name, Description: description}
}

func NotFound(name, description string) *Error {
	return &Error{Kind: KindNotFound, Name: name, Description: description}
}

func Conflict(name, description string) *Error {
	return &Error{Kind: KindConflict, Name: name, Description: description}
}

func TooManyRequests(name, description string) *Error {
	return &Error{Kind: KindTooManyRequests, Name: name, Description: description}
}

func General(name, description string) *Error {
	return &Error{Kind: KindGeneral, Name: name, Description: description}
}

var (
	ErrUserNotFound    = NotFound("user_not_found", "User not found")
	ErrClubNotFound    = NotFound("club_not_found", "Club not found")
	ErrPostNotFound    = NotFound("post_not_found", "Post not found")
	ErrCommentNotFound = NotFound("comment_not_found", "Comment not found")

	ErrUserExists     = Conflict("email_taken", "A user with this email already exists")
	ErrClubNameTaken  = Conflict("name_taken", "A club with this name already exists")
	ErrDuplicateEntry = Conflict("duplicate_entry", "A document with the same unique key already exists")

	// ErrAlreadyInSet and ErrNotInSet are returned by exclusive set updates.
	ErrAlreadyInSet = Conflict("parameter_taken", "Value is already present")
	ErrNotInSet     = Conflict("parameter_missing", "Value is not present")

	ErrForbidden = Forbidden("access_denied", "Server Error: Could not process because the user is not authorized")
)

// AsError extracts the typed error from err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
