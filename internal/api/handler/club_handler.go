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

// ClubHandler handles HTTP requests for club operations.
type ClubHandler struct {
	service ports.ClubService
}

func NewClubHandler(service ports.ClubService) *ClubHandler {
	return &ClubHandler{service: service}
}

// recordRelation counts a relationship update by outcome.
func recordRelation(relation, action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if de, ok := domain.AsError(err); ok {
			result = de.Name
		}
	}
	metrics.RelationUpdatesTotal.WithLabelValues(relation, action, result).Inc()
}

// List handles GET /club.
//
// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clubsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /club [get]
func (h *ClubHandler) List(c echo.Context) error {
	clubs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubsResponse{OK: true, Clubs: clubs})
}

// Get handles GET /club/:id and returns the club document.
//
// @Summary      Get a club by id
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Club id"
// @Success      200  {object}  domain.Club
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /club/{id} [get]
func (h *ClubHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	club, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

// GetBySlug handles GET /club/slug/:slug.
//
// @Summary      Get a club by slug
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Club slug"
// @Success      200   {object}  domain.Club
// @Failure      404   {object}  ErrorResponse
// @Router       /club/slug/{slug} [get]
func (h *ClubHandler) GetBySlug(c echo.Context) error {
	club, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

// Create handles POST /club/create.
//
// @Summary      Create a club
// @Description  Teachers create clubs they own; API-key callers may create them for a teacher.
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClubRequest  true  "Club"
// @Success      201   {object}  clubResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/create [post]
func (h *ClubHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req createClubRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	club, err := h.service.Create(c.Request().Context(), actor, toCreateClubInput(req))
	if err != nil {
		return err
	}
	metrics.EntitiesCreatedTotal.WithLabelValues("club").Inc()
	return c.JSON(http.StatusCreated, clubResponse{OK: true, Club: club})
}

// Update handles PUT /club/:id/update.
//
// @Summary      Update a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Club id"
// @Param        body  body      updateClubRequest  true  "Fields to change"
// @Success      200   {object}  updatedClubResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/{id}/update [put]
func (h *ClubHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateClubRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	club, err := h.service.Update(c.Request().Context(), actor, id, toUpdateClubInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedClubResponse{OK: true, UpdatedClub: club})
}

// Delete handles DELETE /club/:id.
//
// @Summary      Delete a club
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Club id"
// @Success      200  {object}  clubResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /club/{id} [delete]
func (h *ClubHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	club, err := h.service.Delete(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubResponse{OK: true, Club: club})
}

// DeleteBySlug handles DELETE /club/slug/:slug.
//
// @Summary      Delete a club by slug
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Club slug"
// @Success      200   {object}  clubResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /club/slug/{slug} [delete]
func (h *ClubHandler) DeleteBySlug(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	club, err := h.service.DeleteBySlug(c.Request().Context(), actor, c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubResponse{OK: true, Club: club})
}

type clubUserEdit func(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, error)

// editUsers runs an executive or member update named by an {id} body.
func (h *ClubHandler) editUsers(c echo.Context, relation, action string, fn clubUserEdit) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	clubID, err := pathID(c)
	if err != nil {
		return err
	}
	var req userRefRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	club, err := fn(c.Request().Context(), actor, clubID, mustID(req.ID))
	recordRelation(relation, action, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedClubResponse{OK: true, UpdatedClub: club})
}

// AddExecutive handles PUT /club/:id/executives/new.
//
// @Summary      Add an executive
// @Description  Adds the user to the club's executives and members. Repeating the call is a no-op.
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "User"
// @Success      200   {object}  updatedClubResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /club/{id}/executives/new [put]
func (h *ClubHandler) AddExecutive(c echo.Context) error {
	return h.editUsers(c, "club_executive", "add", h.service.AddExecutive)
}

// RemoveExecutive handles PUT /club/:id/executives/delete.
//
// @Summary      Remove an executive
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "User"
// @Success      200   {object}  updatedClubResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /club/{id}/executives/delete [put]
func (h *ClubHandler) RemoveExecutive(c echo.Context) error {
	return h.editUsers(c, "club_executive", "remove", h.service.RemoveExecutive)
}

// AddMember handles PUT /club/:id/members/add.
//
// @Summary      Add a member
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "User"
// @Success      200   {object}  updatedClubResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /club/{id}/members/add [put]
func (h *ClubHandler) AddMember(c echo.Context) error {
	return h.editUsers(c, "club_member", "add", h.service.AddMember)
}

// RemoveMember handles PUT /club/:id/members/delete.
//
// @Summary      Remove a member
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "User"
// @Success      200   {object}  updatedClubResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /club/{id}/members/delete [put]
func (h *ClubHandler) RemoveMember(c echo.Context) error {
	return h.editUsers(c, "club_member", "remove", h.service.RemoveMember)
}

func (h *ClubHandler) editFlair(c echo.Context, action string, fn func(context.Context, domain.Principal, primitive.ObjectID, string) (*domain.Club, error)) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	clubID, err := pathID(c)
	if err != nil {
		return err
	}
	var req flairRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	club, err := fn(c.Request().Context(), actor, clubID, req.Flair)
	recordRelation("club_flair", action, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedClubResponse{OK: true, UpdatedClub: club})
}

// AddFlair handles PUT /club/:id/flairs/new.
//
// @Summary      Add a flair
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Club id"
// @Param        body  body      flairRequest  true  "Flair"
// @Success      200   {object}  updatedClubResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /club/{id}/flairs/new [put]
func (h *ClubHandler) AddFlair(c echo.Context) error {
	return h.editFlair(c, "add", h.service.AddFlair)
}

// RemoveFlair handles PUT /club/:id/flairs/delete.
//
// @Summary      Remove a flair
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Club id"
// @Param        body  body      flairRequest  true  "Flair"
// @Success      200   {object}  updatedClubResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /club/{id}/flairs/delete [put]
func (h *ClubHandler) RemoveFlair(c echo.Context) error {
	return h.editFlair(c, "remove", h.service.RemoveFlair)
}

type clubToggle func(ctx context.Context, actor domain.Principal, clubID, userID primitive.ObjectID) (*domain.Club, *domain.User, error)

func (h *ClubHandler) toggle(c echo.Context, relation, action string, fn clubToggle) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	clubID, err := pathID(c)
	if err != nil {
		return err
	}
	var req userRefRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	club, user, err := fn(c.Request().Context(), actor, clubID, mustID(req.ID))
	recordRelation(relation, action, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubUserResponse{OK: true, UpdatedClub: club, User: user})
}

// Follow handles PUT /club/:id/follow.
//
// @Summary      Join a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "Acting user"
// @Success      200   {object}  clubUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/{id}/follow [put]
func (h *ClubHandler) Follow(c echo.Context) error {
	return h.toggle(c, "club_follow", "add", h.service.Follow)
}

// Unfollow handles PUT /club/:id/unfollow.
//
// @Summary      Leave a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "Acting user"
// @Success      200   {object}  clubUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/{id}/unfollow [put]
func (h *ClubHandler) Unfollow(c echo.Context) error {
	return h.toggle(c, "club_follow", "remove", h.service.Unfollow)
}

// Favourite handles PUT /club/:id/favourite.
//
// @Summary      Favourite a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "Acting user"
// @Success      200   {object}  clubUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/{id}/favourite [put]
func (h *ClubHandler) Favourite(c echo.Context) error {
	return h.toggle(c, "club_favourite", "add", h.service.Favourite)
}

// Unfavourite handles PUT /club/:id/unfavourite.
//
// @Summary      Unfavourite a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Club id"
// @Param        body  body      userRefRequest  true  "Acting user"
// @Success      200   {object}  clubUserResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /club/{id}/unfavourite [put]
func (h *ClubHandler) Unfavourite(c echo.Context) error {
	return h.toggle(c, "club_favourite", "remove", h.service.Unfavourite)
}

// Posts handles GET /club/:id/posts.
//
// @Summary      List a club's posts
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Club id"
// @Success      200  {object}  postsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /club/{id}/posts [get]
func (h *ClubHandler) Posts(c echo.Context) error {
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

// Members handles GET /club/:id/members.
//
// @Summary      List a club's members
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Club id"
// @Success      200  {object}  membersResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /club/{id}/members [get]
func (h *ClubHandler) Members(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	members, err := h.service.Members(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membersResponse{OK: true, Members: members})
}
