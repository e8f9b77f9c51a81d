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

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /comment.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        post    query     string  false  "Only comments on this post"
// @Param        author  query     string  false  "Only comments by this user"
// @Success      200     {object}  commentsResponse
// @Failure      400     {object}  ErrorResponse
// @Router       /comment [get]
func (h *CommentHandler) List(c echo.Context) error {
	var q listCommentsQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	post, err := optionalID("post", q.Post)
	if err != nil {
		return err
	}
	author, err := optionalID("author", q.Author)
	if err != nil {
		return err
	}

	comments, err := h.service.List(c.Request().Context(), domain.CommentFilter{Post: post, Author: author})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsResponse{OK: true, Comments: comments})
}

// Get handles GET /comment/:id and returns the comment document.
//
// @Summary      Get a comment by id
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  domain.Comment
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /comment/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	comment, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Create handles POST /comment/create.
//
// @Summary      Comment on a post
// @Description  Set parent to reply to another comment on the same post.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /comment/create [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Create(c.Request().Context(), actor, toCreateCommentInput(req))
	if err != nil {
		return err
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("comment").Inc()
	return c.JSON(http.StatusCreated, commentResponse{OK: true, Comment: comment})
}

// Update handles PUT /comment/:id/update.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment id"
// @Param        body  body      updateCommentRequest  true  "New body"
// @Success      200   {object}  commentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /comment/{id}/update [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.Request().Context(), actor, id, mustID(req.Author), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponse{OK: true, Comment: comment})
}

// Delete handles DELETE /comment/delete. The comment is tombstoned, not removed.
//
// @Summary      Delete a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteCommentRequest  true  "Comment and author"
// @Success      200   {object}  commentResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /comment/delete [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req deleteCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Delete(c.Request().Context(), actor, mustID(req.Comment), mustID(req.UserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentResponse{OK: true, Comment: comment})
}

type commentToggle func(ctx context.Context, actor domain.Principal, commentID, userID primitive.ObjectID) (*domain.Comment, *domain.User, error)

func (h *CommentHandler) toggle(c echo.Context, action string, fn commentToggle) error {
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

	comment, user, err := fn(c.Request().Context(), actor, id, mustID(req.User))
	recordRelation("comment_like", action, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentUserResponse{OK: true, Comment: comment, User: user})
}

// Like handles PUT /comment/:id/like.
//
// @Summary      Like a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Comment id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  commentUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /comment/{id}/like [put]
func (h *CommentHandler) Like(c echo.Context) error {
	return h.toggle(c, "add", h.service.Like)
}

// Unlike handles PUT /comment/:id/unlike.
//
// @Summary      Remove a like from a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Comment id"
// @Param        body  body      actingUserRequest  true  "Acting user"
// @Success      200   {object}  commentUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /comment/{id}/unlike [put]
func (h *CommentHandler) Unlike(c echo.Context) error {
	return h.toggle(c, "remove", h.service.Unlike)
}
