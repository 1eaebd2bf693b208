package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviesuggest/movie_system/internal/common"
	"github.com/moviesuggest/movie_system/internal/logging"
	authmw "github.com/moviesuggest/movie_system/internal/middleware/auth"
	"github.com/moviesuggest/movie_system/internal/mykafka"
	"github.com/moviesuggest/movie_system/internal/service"
)

type WatchlistHTTP struct {
	Svc      *service.WatchlistService
	Producer *mykafka.Producer
}

func (h *WatchlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "watchlist_add")

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	var req struct {
		MovieAPIID int64  `json:"movie_api_id"`
		MediaType  string `json:"media_type"`
		Title      string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("watchlist_add_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Add(ctx, userID, req.MovieAPIID, req.MediaType, req.Title)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(userID), echo.Map{
		"type":         "watchlist_item_added",
		"user_id":      userID,
		"item_id":      item.ID,
		"movie_api_id": item.MovieAPIID,
	})

	return c.JSON(http.StatusCreated, item)
}

// List serves GET /api/watchlist/users/:id; RequireSelf has already
// matched :id against the token subject.
func (h *WatchlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	items, err := h.Svc.List(ctx, uint(id))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *WatchlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return httpError(common.ErrNotFound)
	}

	if err := h.Svc.Remove(ctx, userID, uint(itemID)); err != nil {
		return httpError(err)
	}

	h.publish(c, fmt.Sprint(userID), echo.Map{
		"type":    "watchlist_item_removed",
		"user_id": userID,
		"item_id": itemID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "removed from watchlist"})
}

func (h *WatchlistHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := authmw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	docs, err := h.Svc.Search(ctx, userID, c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"hits": docs})
}

func (h *WatchlistHTTP) publish(c echo.Context, key string, event echo.Map) {
	if h.Producer == nil {
		return
	}

	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, "watchlist_events", key, event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "topic", "watchlist_events", "error", err)
	}
}
