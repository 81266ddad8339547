package models

import "time"

// WatchedMovie records that a user has seen a movie. The composite unique
// index keeps at most one entry per (user, movie) pair; a duplicate insert
// fails at the database instead of overwriting.
type WatchedMovie struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_watched_user_movie" json:"user_id"`
	MovieID     string    `gorm:"size:50;not null;index;uniqueIndex:idx_watched_user_movie" json:"movie_id"`
	WatchedDate time.Time `gorm:"autoCreateTime" json:"watched_date"`
	UserRating  *float64  `gorm:"type:decimal(3,1)" json:"user_rating,omitempty"`

	// Associations
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Movie Movie `gorm:"foreignKey:MovieID;references:MovieID;constraint:OnDelete:CASCADE;" json:"movie,omitempty"`
}

func (WatchedMovie) TableName() string {
	return "watched_movies"
}
