package handler

import (
	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateClubInput(req createClubRequest) ports.CreateClubInput {
	return ports.CreateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Teacher:     mustID(req.Teacher),
		Socials: domain.Socials{
			Instagram:           req.Instagram,
			GoogleClassroomCode: req.GoogleClassroomCode,
			SignupLink:          req.SignupLink,
		},
		ClubfestLink: req.ClubfestLink,
		Flairs:       req.Flairs,
	}
}

func toUpdateClubInput(req updateClubRequest) ports.UpdateClubInput {
	return ports.UpdateClubInput{
		Name:                req.Name,
		Description:         req.Description,
		Instagram:           req.Instagram,
		GoogleClassroomCode: req.GoogleClassroomCode,
		SignupLink:          req.SignupLink,
		ClubfestLink:        req.ClubfestLink,
	}
}

func toAttachment(a *attachmentRequest) *domain.Attachment {
	if a == nil {
		return nil
	}
	return &domain.Attachment{URL: a.URL, Name: a.Name, MimeType: a.MimeType}
}

func toCreatePostInput(req createPostRequest) ports.CreatePostInput {
	return ports.CreatePostInput{
		Title:      req.Title,
		Body:       req.Body,
		Author:     mustID(req.Author),
		Club:       mustID(req.Club),
		Flairs:     req.Flairs,
		Attachment: toAttachment(req.Attachment),
	}
}

func toUpdatePostInput(req updatePostRequest) ports.UpdatePostInput {
	return ports.UpdatePostInput{
		Author:     mustID(req.Author),
		Title:      req.Title,
		Body:       req.Body,
		Flairs:     req.Flairs,
		Attachment: toAttachment(req.Attachment),
	}
}

func toCreateCommentInput(req createCommentRequest) ports.CreateCommentInput {
	in := ports.CreateCommentInput{
		Author: mustID(req.Author),
		Post:   mustID(req.Post),
		Body:   req.Body,
	}
	if req.Parent != "" {
		parent := mustID(req.Parent)
		in.Parent = &parent
	}
	return in
}

func toCreateUserInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:       req.Email,
		AccountType: req.AccountType,
		ProfilePic:  req.ProfilePic,
	}
}
