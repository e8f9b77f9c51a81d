package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{OK: true, Users: users})
}

// Me handles GET /user/me. The caller's user is created on first sign-in.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.SignIn(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// Create handles POST /user/create.
//
// @Summary      Create a user
// @Description  The account type is derived from the email domain.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), toCreateUserInput(req))
	if err != nil {
		return err
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("user").Inc()
	return c.JSON(http.StatusCreated, userResponse{OK: true, User: user})
}

// Get handles GET /user/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// Update handles PUT /user/:id/update.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /user/{id}/update [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), actor, id, ports.UpdateUserInput{
		ProfilePic:  req.ProfilePic,
		AccountType: req.AccountType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// Delete handles DELETE /user/delete.
//
// @Summary      Delete a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deleteUserRequest  true  "Email of the user"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /user/delete [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req deleteUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.DeleteByEmail(c.Request().Context(), actor, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{OK: true, User: user})
}

// Posts handles GET /user/:id/posts.
//
// @Summary      List a user's posts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  postsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/{id}/posts [get]
func (h *UserHandler) Posts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	posts, err := h.service.Posts(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{OK: true, Posts: posts})
}

// Comments handles GET /user/:id/comments.
//
// @Summary      List a user's comments
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  commentsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/{id}/comments [get]
func (h *UserHandler) Comments(c echo.Context) error {
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

// Clubs handles GET /user/:id/clubs.
//
// @Summary      List the clubs a user belongs to
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  clubsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /user/{id}/clubs [get]
func (h *UserHandler) Clubs(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	clubs, err := h.service.Clubs(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubsResponse{OK: true, Clubs: clubs})
}

// Favourites handles GET /user/:id/favourites.
//
// @Summary      List a user's favourites
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "User id"
// @Param        type  query     string  false  "clubs or posts"
// @Success      200   {object}  favouritesResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /user/{id}/favourites [get]
func (h *UserHandler) Favourites(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q kindQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	res, err := h.service.Favourites(c.Request().Context(), id, q.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favouritesResponse{OK: true, Clubs: res.Clubs, Posts: res.Posts})
}

// Liked handles GET /user/:id/liked.
//
// @Summary      List what a user has liked
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "User id"
// @Param        type  query     string  false  "posts or comments"
// @Success      200   {object}  likedResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /user/{id}/liked [get]
func (h *UserHandler) Liked(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q kindQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	res, err := h.service.Liked(c.Request().Context(), id, q.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likedResponse{OK: true, Comments: res.Comments, Posts: res.Posts})
}
