package handler

import "github.com/clubhub/clubhub-api/internal/core/domain"

// ErrorResponse is the envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	OK          bool   `json:"ok"`
	ErrorID     int    `json:"error_id"`
	ErrorName   string `json:"error_name"`
	Description string `json:"description"`
}

// --- Club requests ---

type createClubRequest struct {
	Name                string   `json:"name"                  validate:"required"`
	Description         string   `json:"description"           validate:"required"`
	Teacher             string   `json:"teacher"               validate:"required,mongodb"`
	Instagram           string   `json:"instagram"`
	GoogleClassroomCode string   `json:"google_classroom_code"`
	SignupLink          string   `json:"signup_link"           validate:"omitempty,url"`
	ClubfestLink        string   `json:"clubfest_link"         validate:"omitempty,url"`
	Flairs              []string `json:"flairs"`
}

type updateClubRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	Instagram           *string `json:"instagram"`
	GoogleClassroomCode *string `json:"google_classroom_code"`
	SignupLink          *string `json:"signup_link"   validate:"omitempty,url"`
	ClubfestLink        *string `json:"clubfest_link" validate:"omitempty,url"`
}

// userRefRequest names the user an executive, member, follow or favourite
// update applies to.
type userRefRequest struct {
	ID string `json:"id" validate:"required,mongodb"`
}

type flairRequest struct {
	Flair string `json:"flair" validate:"required"`
}

// --- Post requests ---

type attachmentRequest struct {
	URL      string `json:"url"       validate:"required,url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

type createPostRequest struct {
	Title      string             `json:"title"  validate:"required"`
	Body       string             `json:"body"   validate:"required"`
	Author     string             `json:"author" validate:"required,mongodb"`
	Club       string             `json:"club"   validate:"required,mongodb"`
	Flairs     []string           `json:"flairs"`
	Attachment *attachmentRequest `json:"attachment"`
}

type updatePostRequest struct {
	Author     string             `json:"author" validate:"required,mongodb"`
	Title      *string            `json:"title"`
	Body       *string            `json:"body"`
	Flairs     *[]string          `json:"flairs"`
	Attachment *attachmentRequest `json:"attachment"`
}

type authorRequest struct {
	Author string `json:"author" validate:"required,mongodb"`
}

// actingUserRequest names the user liking or favouriting.
type actingUserRequest struct {
	User string `json:"user" validate:"required,mongodb"`
}

type listPostsQuery struct {
	Club   string `query:"club"   validate:"omitempty,mongodb"`
	Author string `query:"author" validate:"omitempty,mongodb"`
}

// --- Comment requests ---

type createCommentRequest struct {
	Author string `json:"author" validate:"required,mongodb"`
	Post   string `json:"post"   validate:"required,mongodb"`
	Body   string `json:"body"   validate:"required"`
	Parent string `json:"parent" validate:"omitempty,mongodb"`
}

type updateCommentRequest struct {
	Author string `json:"author" validate:"required,mongodb"`
	Body   string `json:"body"   validate:"required"`
}

type deleteCommentRequest struct {
	UserID  string `json:"user_id" validate:"required,mongodb"`
	Comment string `json:"comment" validate:"required,mongodb"`
}

type listCommentsQuery struct {
	Post   string `query:"post"   validate:"omitempty,mongodb"`
	Author string `query:"author" validate:"omitempty,mongodb"`
}

// --- User requests ---

type createUserRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	AccountType string `json:"account_type" validate:"omitempty,oneof=student teacher"`
	ProfilePic  string `json:"profile_pic"  validate:"omitempty,url"`
}

type updateUserRequest struct {
	ProfilePic  *string `json:"profile_pic"  validate:"omitempty,url"`
	AccountType *string `json:"account_type"`
}

type deleteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type kindQuery struct {
	Type string `query:"type"`
}

// --- Responses ---

type clubResponse struct {
	OK   bool         `json:"ok"`
	Club *domain.Club `json:"club"`
}

type updatedClubResponse struct {
	OK          bool         `json:"ok"`
	UpdatedClub *domain.Club `json:"updatedClub"`
}

type clubUserResponse struct {
	OK          bool         `json:"ok"`
	UpdatedClub *domain.Club `json:"updatedClub"`
	User        *domain.User `json:"user"`
}

type clubsResponse struct {
	OK    bool           `json:"ok"`
	Clubs []*domain.Club `json:"clubs"`
}

type membersResponse struct {
	OK      bool           `json:"ok"`
	Members []*domain.User `json:"members"`
}

type postResponse struct {
	OK   bool         `json:"ok"`
	Post *domain.Post `json:"post"`
}

type postsResponse struct {
	OK    bool           `json:"ok"`
	Posts []*domain.Post `json:"posts"`
}

type postUserResponse struct {
	OK   bool         `json:"ok"`
	Post *domain.Post `json:"post"`
	User *domain.User `json:"user"`
}

type commentResponse struct {
	OK      bool            `json:"ok"`
	Comment *domain.Comment `json:"comment"`
}

type commentsResponse struct {
	OK       bool              `json:"ok"`
	Comments []*domain.Comment `json:"comments"`
}

type commentUserResponse struct {
	OK      bool            `json:"ok"`
	Comment *domain.Comment `json:"comment"`
	User    *domain.User    `json:"user"`
}

type userResponse struct {
	OK   bool         `json:"ok"`
	User *domain.User `json:"user"`
}

type usersResponse struct {
	OK    bool           `json:"ok"`
	Users []*domain.User `json:"users"`
}

type favouritesResponse struct {
	OK    bool           `json:"ok"`
	Clubs []*domain.Club `json:"clubs"`
	Posts []*domain.Post `json:"posts"`
}

type likedResponse struct {
	OK       bool              `json:"ok"`
	Comments []*domain.Comment `json:"comments"`
	Posts    []*domain.Post    `json:"posts"`
}
