package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moviesuggest/movie_system/internal/moviedata"
)

// MovieHTTP relays discovery calls to the external movie database.
type MovieHTTP struct {
	Client *moviedata.Client
}

func (h *MovieHTTP) Genres(c echo.Context) error {
	body, err := h.Client.Genres(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return relayJSON(c, body)
}

func (h *MovieHTTP) Search(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title query parameter is required")
	}

	body, err := h.Client.SearchByTitle(c.Request().Context(), title)
	if err != nil {
		return httpError(err)
	}
	return relayJSON(c, body)
}

func (h *MovieHTTP) Discover(c echo.Context) error {
	genreID := c.QueryParam("genre_id")
	if genreID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "genre_id query parameter is required")
	}

	body, err := h.Client.Discover(c.Request().Context(), genreID)
	if err != nil {
		return httpError(err)
	}
	return relayJSON(c, body)
}

func (h *MovieHTTP) Details(c echo.Context) error {
	body, err := h.Client.Details(c.Request().Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return relayJSON(c, body)
}

func relayJSON(c echo.Context, body json.RawMessage) error {
	return c.JSONBlob(http.StatusOK, body)
}
