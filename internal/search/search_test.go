package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviesuggest/movie_system/internal/models"
)

// fakeES stands in for an Elasticsearch node. The product header is
// required or the client refuses to talk to the server.
func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *Index {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIndex(client, "watchlist")
}

func TestIndexItem_DocumentShape(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotDoc Doc
	ix := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotDoc))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	})

	item := models.WatchlistItem{UserID: 7, MovieAPIID: 550, MediaType: "movie", Title: "Fight Club"}
	item.ID = 42

	require.NoError(t, ix.IndexItem(context.Background(), &item))
	assert.Equal(t, "/watchlist/_doc/42", gotPath)
	assert.Equal(t, Doc{WatchlistID: 42, UserID: 7, MovieAPIID: 550, MediaType: "movie", Title: "Fight Club"}, gotDoc)
}

func TestIndexItem_ServerError(t *testing.T) {
	t.Parallel()

	ix := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	item := models.WatchlistItem{UserID: 7, MovieAPIID: 550, MediaType: "movie", Title: "Fight Club"}
	item.ID = 42

	assert.Error(t, ix.IndexItem(context.Background(), &item))
}

func TestDeleteItem_MissingDocIsFine(t *testing.T) {
	t.Parallel()

	ix := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, ix.DeleteItem(context.Background(), 42))
}

func TestSearch_ScopesToOwnerAndDecodesHits(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]any
	ix := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/watchlist/_search", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotQuery))
		w.Write([]byte(`{
			"hits": {"hits": [
				{"_source": {"watchlist_id": 42, "user_id": 7, "movie_api_id": 550, "media_type": "movie", "title": "Fight Club"}}
			]}
		}`))
	})

	docs, err := ix.Search(context.Background(), 7, "fight")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, Doc{WatchlistID: 42, UserID: 7, MovieAPIID: 550, MediaType: "movie", Title: "Fight Club"}, docs[0])

	// The owner filter has to ride in the query itself.
	filter := gotQuery["query"].(map[string]any)["bool"].(map[string]any)["filter"].(map[string]any)
	assert.Equal(t, float64(7), filter["term"].(map[string]any)["user_id"])
}

func TestSearch_ServerError(t *testing.T) {
	t.Parallel()

	ix := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := ix.Search(context.Background(), 7, "fight")
	assert.Error(t, err)
}
