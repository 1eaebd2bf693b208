package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moviesuggest/movie_system/internal/mykafka"
)

// Event publishing is best-effort: a dead broker must never leak into
// the client response.
func TestEvents_BrokerDownDoesNotAffectResponses(t *testing.T) {
	t.Parallel()

	producer := mykafka.NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { producer.Close() })

	env := newTestEnvWithProducer(t, "", producer)

	rec := env.do(t, "POST", "/api/users/register", "", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, "POST", "/api/users/login", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeJSON(t, rec)["token"].(string)

	rec = env.do(t, "POST", "/api/watchlist", token, map[string]any{
		"movie_api_id": 550,
		"media_type":   "movie",
		"title":        "Fight Club",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
