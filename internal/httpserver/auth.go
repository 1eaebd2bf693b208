package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviesuggest/movie_system/internal/common"
	"github.com/moviesuggest/movie_system/internal/logging"
	"github.com/moviesuggest/movie_system/internal/mykafka"
	"github.com/moviesuggest/movie_system/internal/service"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

// httpError converts a service error into its one status/message pair.
func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(common.HTTPStatusFromError(err), common.ClientMessage(err))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userID, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, "user_events", fmt.Sprint(userID), echo.Map{
		"type":     "user_registered",
		"user_id":  userID,
		"username": req.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered successfully",
		"user_id": userID,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, "user_events", fmt.Sprint(res.User.ID), echo.Map{
		"type":     "user_logged_in",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged in successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

// GetProfile runs behind RequireAuth and RequireSelf; the :id parameter
// is already known to name the caller.
func (h *AuthHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	user, err := h.Svc.GetProfile(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	upd := service.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.Svc.UpdateProfile(ctx, uint(id), upd); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

func (h *AuthHTTP) publish(c echo.Context, topic, key string, event echo.Map) {
	if h.Producer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "topic", topic, "error", err)
	}
}
