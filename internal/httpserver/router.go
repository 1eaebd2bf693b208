package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/moviesuggest/movie_system/internal/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Watchlist *WatchlistHTTP
	Movies    *MovieHTTP
	Guard     *authmw.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/register", d.Auth.Register)
	users.POST("/login", d.Auth.Login)

	profile := users.Group("/:id", d.Guard.RequireAuth, d.Guard.RequireSelf)
	profile.GET("", d.Auth.GetProfile)
	profile.PUT("", d.Auth.UpdateProfile)

	movies := api.Group("/external-movies", d.Guard.RequireAuth)
	movies.GET("/genres", d.Movies.Genres)
	movies.GET("/search", d.Movies.Search)
	movies.GET("/discover", d.Movies.Discover)
	movies.GET("/:kind/:id", d.Movies.Details)

	wl := api.Group("/watchlist", d.Guard.RequireAuth)
	wl.POST("", d.Watchlist.Add)
	wl.GET("/search", d.Watchlist.Search)
	wl.GET("/users/:id", d.Watchlist.List, d.Guard.RequireSelf)
	wl.DELETE("/:id", d.Watchlist.Remove)
}
