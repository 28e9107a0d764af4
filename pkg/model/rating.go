package model

import "gorm.io/gorm"

// Rating is one user's score for one beer. The composite unique index is the
// storage-level guarantee that a user rates a beer at most once.
type Rating struct {
	gorm.Model
	BeerID  uint    `gorm:"uniqueIndex:idx_rating_beer_user" json:"beerId"`
	UserID  uint    `gorm:"uniqueIndex:idx_rating_beer_user" json:"-"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`

	// Beer is serialized when preloaded so listings and stats carry the
	// resolved beer, not just its id. It stays nil in cyclic contexts.
	Beer *Beer `gorm:"foreignKey:BeerID" json:"beer,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
