package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /post.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        club    query     string  false  "Only posts of this club"
// @Param        author  query     string  false  "Only posts by this user"
// @Success      200     {object}  postsResponse
// @Failure      400     {object}  ErrorResponse
// @Router       /post [get]
func (h *PostHandler) List(c echo.Context) error {
	var q listPostsQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	club, err := optionalID("club", q.Club)
	if err != nil {
		return err
	}
	author, err := optionalID("author", q.Author)
	if err != nil {
		return err
	}

	posts, err := h.service.List(c.Request().Context(), domain.PostFilter{Club: club, Author: author})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{OK: true, Posts: posts})
}

// Get handles GET /post/:id and returns the post document.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create handles POST /post/create.
//
// @Summary      Create a post
// @Description  The author must be a member of the club.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /post/create [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), actor, toCreatePostInput(req))
	if err != nil {
		return err
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("post").Inc()
	return c.JSON(http.StatusCreated, postResponse{OK: true, Post: post})
}

// Update handles PUT /post/:id/update.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /post/{id}/update [put]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), actor, id, toUpdatePostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{OK: true, Post: post})
}

// Delete handles DELETE /post/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Post id"
// @Param        body  body      authorRequest  true  "Author"
// @Success      200   {object}  postResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /post/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req authorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.service.Delete(c.Request().Context(), actor, id, mustID(req.Author))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{OK: true, Post: post})
}

type postToggle func(ctx context.Context, actor domain.Principal, postID, userID primitive.ObjectID) (*domain.Post, *domain.User, error)

func (h *PostHandler) toggle(c echo.Context, relation, action string, fn postToggle) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req actingUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, user, err := fn(c.Request().Context(), actor, id, mustID(req.User))
	recordRelation(relation, action, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postUserResponse{OK: true, Post: post, User: user})
}

// Like handles PUT /post/:id/like.
//
// @Summary      Like a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  postUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /post/{id}/like [put]
func (h *PostHandler) Like(c echo.Context) error {
	return h.toggle(c, "post_like", "add", h.service.Like)
}

// Unlike handles PUT /post/:id/unlike.
//
// @Summary      Remove a like from a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  postUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /post/{id}/unlike [put]
func (h *PostHandler) Unlike(c echo.Context) error {
	return h.toggle(c, "post_like", "remove", h.service.Unlike)
}

// Favourite handles PUT /post/:id/favourite.
//
// @Summary      Favourite a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  postUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /post/{id}/favourite [put]
func (h *PostHandler) Favourite(c echo.Context) error {
	return h.toggle(c, "post_favourite", "add", h.service.Favourite)
}

// Unfavourite handles PUT /post/:id/unfavourite.
//
// @Summary      Unfavourite a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  postUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /post/{id}/unfavourite [put]
func (h *PostHandler) Unfavourite(c echo.Context) error {
	return h.toggle(c, "post_favourite", "remove", h.service.Unfavourite)
}

// Comments handles GET /post/:id/comments.
//
// @Summary      List a post's comments
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  commentsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /post/{id}/comments [get]
func (h *PostHandler) Comments(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsResponse{OK: true, Comments: comments})
}
