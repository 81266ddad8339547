package models

// Movie is the root aggregate. The identifier is assigned by the caller
// (catalog id, "tmdb_123", ...) and is immutable once the row exists.
type Movie struct {
	MovieID   string   `json:"movie_id" gorm:"primaryKey;size:50"`
	Title     string   `json:"title" gorm:"not null;size:255"`
	Year      *int     `json:"year,omitempty"`
	Director  *string  `json:"director,omitempty" gorm:"size:255"`
	Plot      *string  `json:"plot,omitempty" gorm:"type:text"`
	PosterURL *string  `json:"poster_url,omitempty" gorm:"size:500"`
	Rating    *float64 `json:"rating,omitempty" gorm:"type:decimal(3,1)"`
}

func (Movie) TableName() string {
	return "movies"
}
