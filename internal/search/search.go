// Package search maintains the Elasticsearch index behind watchlist
// title search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/moviesuggest/movie_system/internal/models"
)

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

func NewIndex(es *elasticsearch.Client, name string) *Index {
	return &Index{ES: es, Name: name}
}

// Doc is the indexed projection of a watchlist item.
type Doc struct {
	WatchlistID uint   `json:"watchlist_id"`
	UserID      uint   `json:"user_id"`
	MovieAPIID  int64  `json:"movie_api_id"`
	MediaType   string `json:"media_type"`
	Title       string `json:"title"`
}

func (ix *Index) IndexItem(ctx context.Context, item *models.WatchlistItem) error {
	doc := Doc{
		WatchlistID: item.ID,
		UserID:      item.UserID,
		MovieAPIID:  item.MovieAPIID,
		MediaType:   item.MediaType,
		Title:       item.Title,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index: marshal failed: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Name,
		bytes.NewReader(body),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index: %s", res.Status())
	}
	return nil
}

func (ix *Index) DeleteItem(ctx context.Context, itemID uint) error {
	res, err := ix.ES.Delete(
		ix.Name,
		strconv.FormatUint(uint64(itemID), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("deindex: %w", err)
	}
	defer res.Body.Close()

	// A document that was never indexed is fine to "delete".
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deindex: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy title match scoped to one owner.
func (ix *Index) Search(ctx context.Context, userID uint, query string) ([]Doc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"title^2", "media_type"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"user_id": userID},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode failed: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source Doc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: decode failed: %w", err)
	}

	docs := make([]Doc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return docs, nil
}
