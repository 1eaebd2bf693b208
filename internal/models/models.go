package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type WatchlistItem struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID     uint   `gorm:"not null;index;uniqueIndex:idx_watchlist_entry" json:"user_id"`
	MovieAPIID int64  `gorm:"not null;uniqueIndex:idx_watchlist_entry"       json:"movie_api_id"`
	MediaType  string `gorm:"not null;uniqueIndex:idx_watchlist_entry"       json:"media_type"`
	Title      string `gorm:"not null"                                       json:"title"`
}
