// Package auth holds the access guard: authentication of inbound
// requests and the self-only ownership check for user-scoped routes.
package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moviesuggest/movie_system/internal/tokens"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

type Guard struct {
	Tokens *tokens.Service
}

func NewGuard(t *tokens.Service) *Guard {
	return &Guard{Tokens: t}
}

// RequireAuth rejects requests without a valid bearer token. Missing,
// malformed, badly signed and expired tokens all get the same
// response.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		userID, username, err := g.Tokens.Verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUsername, username)
		return next(c)
	}
}

// RequireSelf lets the request through only when the :id path parameter
// names the authenticated user. The response is the same whether the
// target exists or not, so foreign ids cannot be probed.
func (g *Guard) RequireSelf(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		callerID, ok := c.Get(CtxUserID).(uint)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		target, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || uint(target) != callerID {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}

		return next(c)
	}
}

// UserID returns the verified subject stashed by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserID).(uint)
	return id, ok
}
