package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/moviesuggest/movie_system/internal/common"
	"github.com/moviesuggest/movie_system/internal/logging"
	"github.com/moviesuggest/movie_system/internal/models"
	"github.com/moviesuggest/movie_system/internal/repo"
	"github.com/moviesuggest/movie_system/internal/search"
)

// WatchlistService manages a user's saved movie references. Index is
// optional; the store row is the source of truth and index failures
// only degrade search.
type WatchlistService struct {
	Repo  repo.GormRepo
	Index *search.Index
}

func (s *WatchlistService) Add(ctx context.Context, userID uint, movieAPIID int64, mediaType, title string) (*models.WatchlistItem, error) {
	l := logging.FromContext(ctx).With("svc", "watchlist.add", "user_id", userID)

	if movieAPIID <= 0 {
		return nil, fmt.Errorf("%w: movie_api_id is required", common.ErrValidation)
	}
	if mediaType != "movie" && mediaType != "tv" {
		return nil, fmt.Errorf("%w: media_type must be movie or tv", common.ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	item := models.WatchlistItem{
		UserID:     userID,
		MovieAPIID: movieAPIID,
		MediaType:  mediaType,
		Title:      title,
	}
	if err := s.Repo.AddWatchlistItem(ctx, &item); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: already in watchlist", common.ErrConflict)
		}
		l.Error("watchlist_add_failed", "error", err)
		return nil, common.ErrInternal
	}

	if s.Index != nil {
		if err := s.Index.IndexItem(ctx, &item); err != nil {
			l.Warn("watchlist_index_failed", "item_id", item.ID, "error", err)
		}
	}

	l.Info("watchlist_item_added", "item_id", item.ID)
	return &item, nil
}

func (s *WatchlistService) List(ctx context.Context, userID uint) ([]models.WatchlistItem, error) {
	items, err := s.Repo.ListWatchlist(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("watchlist_list_failed", "user_id", userID, "error", err)
		return nil, common.ErrInternal
	}
	return items, nil
}

func (s *WatchlistService) Remove(ctx context.Context, userID, itemID uint) error {
	l := logging.FromContext(ctx).With("svc", "watchlist.remove", "user_id", userID, "item_id", itemID)

	if err := s.Repo.DeleteWatchlistItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		l.Error("watchlist_remove_failed", "error", err)
		return common.ErrInternal
	}

	if s.Index != nil {
		if err := s.Index.DeleteItem(ctx, itemID); err != nil {
			l.Warn("watchlist_deindex_failed", "error", err)
		}
	}

	l.Info("watchlist_item_removed")
	return nil
}

// Search queries the caller's indexed watchlist by title.
func (s *WatchlistService) Search(ctx context.Context, userID uint, query string) ([]search.Doc, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", common.ErrValidation)
	}
	if s.Index == nil {
		return nil, fmt.Errorf("%w: search index not configured", common.ErrUnavailable)
	}

	docs, err := s.Index.Search(ctx, userID, query)
	if err != nil {
		logging.FromContext(ctx).Error("watchlist_search_failed", "user_id", userID, "error", err)
		return nil, common.ErrInternal
	}
	return docs, nil
}
