package handler

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

var (
	errNoPrincipal = domain.Unauthorized("access_token_required",
		"Server Error: Could not process because no access token was provided")
	errInvalidBody = domain.BadRequest("invalid_body", "Request body could not be parsed")
)

// principal returns the caller stored by the Authenticate middleware.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.Principal{}, errNoPrincipal
	}
	return p, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (primitive.ObjectID, error) {
	return parseID("id", c.Param("id"))
}

func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.BadRequest("invalid_id", "Invalid id: "+field)
	}
	return id, nil
}

// optionalID parses hex when present; an empty string is the zero id.
func optionalID(field, hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, nil
	}
	return parseID(field, hex)
}

// bind decodes the request into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}

// mustID is used after validation has checked the mongodb tag.
func mustID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}
