package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider imitates the upstream movie database.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":550,"title":"Fight Club"}]}`))
	})
	mux.HandleFunc("/movie/550", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":550,"title":"Fight Club"}`))
	})
	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestExternalMovies_Genres_PassThrough(t *testing.T) {
	t.Parallel()

	provider := fakeProvider(t)
	env := newTestEnv(t, provider.URL)
	_, token := env.registerAndLogin(t, "alice", "alice@x.com", "secret1")

	rec := env.do(t, "GET", "/api/external-movies/genres", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Action"`)
}

func TestExternalMovies_Search(t *testing.T) {
	t.Parallel()

	provider := fakeProvider(t)
	env := newTestEnv(t, provider.URL)
	_, token := env.registerAndLogin(t, "alice", "alice@x.com", "secret1")

	rec := env.do(t, "GET", "/api/external-movies/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, "GET", "/api/external-movies/search?title=fight+club", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Fight Club")
}

func TestExternalMovies_Details(t *testing.T) {
	t.Parallel()

	provider := fakeProvider(t)
	env := newTestEnv(t, provider.URL)
	_, token := env.registerAndLogin(t, "alice", "alice@x.com", "secret1")

	rec := env.do(t, "GET", "/api/external-movies/movie/550", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Fight Club")

	rec = env.do(t, "GET", "/api/external-movies/book/550", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExternalMovies_UpstreamFailure_BadGateway(t *testing.T) {
	t.Parallel()

	provider := fakeProvider(t)
	env := newTestEnv(t, provider.URL)
	_, token := env.registerAndLogin(t, "alice", "alice@x.com", "secret1")

	rec := env.do(t, "GET", "/api/external-movies/discover?genre_id=28", token, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	// Upstream detail stays server-side.
	assert.NotContains(t, rec.Body.String(), "500")
}

func TestExternalMovies_RequireToken(t *testing.T) {
	t.Parallel()

	provider := fakeProvider(t)
	env := newTestEnv(t, provider.URL)

	rec := env.do(t, "GET", "/api/external-movies/genres", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
