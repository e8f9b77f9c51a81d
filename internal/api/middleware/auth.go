package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

var (
	errTokenRequired = domain.Unauthorized("access_token_required",
		"Server Error: Could not process because no access token was provided")
	errTokenInvalid = domain.Unauthorized("access_token_invalid",
		"Server Error: Could not process because the access token is invalid")
	errDomainNotAllowed = domain.Forbidden("email_domain_not_allowed",
		"Server Error: Could not process because the email domain is not allowed")
)

// servicePrincipal is the caller authenticated by API key.
var servicePrincipal = domain.Principal{UID: "service", Role: domain.RoleService}

// Authenticate resolves the Authorization header to a principal and stores it
// in the request context. "Bearer <token>" is checked with verifier and the
// email domain decides the role. Any other value is compared against
// apiKeyHash when one is configured.
func Authenticate(verifier ports.TokenVerifier, policy domain.EmailPolicy, apiKeyHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return reject("missing", errTokenRequired)
			}

			scheme, token, isBearer := strings.Cut(header, " ")
			if !isBearer || !strings.EqualFold(scheme, "bearer") {
				if apiKeyHash != "" && bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(header)) == nil {
					return serve(c, next, servicePrincipal)
				}
				return reject("invalid", errTokenInvalid)
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return reject("missing", errTokenRequired)
			}
			verified, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return reject("invalid", errTokenInvalid)
			}

			role, ok := policy.Classify(verified.Email)
			if !ok {
				return reject("domain_not_allowed", errDomainNotAllowed)
			}
			return serve(c, next, domain.Principal{
				UID:   verified.UID,
				Email: domain.NormalizeEmail(verified.Email),
				Role:  role,
			})
		}
	}
}

func serve(c echo.Context, next echo.HandlerFunc, p domain.Principal) error {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
	return next(c)
}

func reject(reason string, err error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	return err
}
