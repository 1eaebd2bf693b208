// Package moviedata proxies read-only calls to a TMDB-compatible movie
// database. Responses are relayed as-is: one upstream call per request,
// no retries, provider paging passed through untouched.
package moviedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/moviesuggest/movie_system/internal/common"
)

const maxResponseBytes = 4 << 20

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Transport: transport, Timeout: 15 * time.Second},
	}
}

func (c *Client) Genres(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/genre/movie/list", nil)
}

func (c *Client) SearchByTitle(ctx context.Context, title string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", title)
	return c.get(ctx, "/search/movie", params)
}

func (c *Client) Discover(ctx context.Context, genreID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("with_genres", genreID)
	return c.get(ctx, "/discover/movie", params)
}

// Details fetches one title; mediaType is "movie" or "tv".
func (c *Client) Details(ctx context.Context, mediaType, id string) (json.RawMessage, error) {
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("%w: media type must be movie or tv", common.ErrValidation)
	}
	return c.get(ctx, "/"+mediaType+"/"+url.PathEscape(id), nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", common.ErrUpstream, res.StatusCode)
	}
	// Relaying a truncated body would hand the caller broken JSON.
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("%w: response body too large", common.ErrUpstream)
	}

	return json.RawMessage(body), nil
}
