package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authmw "github.com/moviesuggest/movie_system/internal/middleware/auth"
	"github.com/moviesuggest/movie_system/internal/models"
	"github.com/moviesuggest/movie_system/internal/moviedata"
	"github.com/moviesuggest/movie_system/internal/mykafka"
	"github.com/moviesuggest/movie_system/internal/repo"
	"github.com/moviesuggest/movie_system/internal/service"
	"github.com/moviesuggest/movie_system/internal/tokens"
)

type testEnv struct {
	e  *echo.Echo
	db *gorm.DB
}

// newTestEnv wires the full router over an in-memory database so
// requests pass through the real middleware chain. movieBaseURL points
// the provider client at a fake upstream; tests that never call the
// movie routes pass "".
func newTestEnv(t *testing.T, movieBaseURL string) *testEnv {
	t.Helper()

	return newTestEnvWithProducer(t, movieBaseURL, nil)
}

func newTestEnvWithProducer(t *testing.T, movieBaseURL string, producer *mykafka.Producer) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.WatchlistItem{}))

	if movieBaseURL == "" {
		movieBaseURL = "http://127.0.0.1:1"
	}

	tokenSvc := tokens.New([]byte("test-jwt-secret"), time.Hour)
	gormRepo := repo.GormRepo{DB: db}

	deps := Deps{
		Auth: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:   gormRepo,
				Tokens: tokenSvc,
				Rules:  service.DefaultValidation(),
			},
			Producer: producer,
		},
		Watchlist: &WatchlistHTTP{
			Svc:      &service.WatchlistService{Repo: gormRepo},
			Producer: producer,
		},
		Movies: &MovieHTTP{
			Client: moviedata.NewClient(movieBaseURL, "test-key"),
		},
		Guard: authmw.NewGuard(tokenSvc),
	}

	e := echo.New()
	Register(e, &deps)

	return &testEnv{e: e, db: db}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

// registerAndLogin creates a user and returns its id and a fresh token.
func (env *testEnv) registerAndLogin(t *testing.T, username, email, password string) (uint, string) {
	t.Helper()

	rec := env.do(t, "POST", "/api/users/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	userID := uint(decodeJSON(t, rec)["user_id"].(float64))

	rec = env.do(t, "POST", "/api/users/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	token := decodeJSON(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	return userID, token
}
