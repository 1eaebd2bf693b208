package repo

import (
	"context"

	"github.com/moviesuggest/movie_system/internal/common"
	"github.com/moviesuggest/movie_system/internal/models"
)

func (r *GormRepo) AddWatchlistItem(ctx context.Context, item *models.WatchlistItem) error {
	return translate(r.DB.WithContext(ctx).Create(item).Error)
}

func (r *GormRepo) ListWatchlist(ctx context.Context, userID uint) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// DeleteWatchlistItem removes one of the caller's own items. The query
// is scoped to userID, so a foreign row and a missing row are
// indistinguishable to the caller.
func (r *GormRepo) DeleteWatchlistItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.WatchlistItem{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
