package model

import "gorm.io/gorm"

// Tasting is a curated session of beers. AverageBeerRating is derived from the
// member beers' AverageRating; the session reviews are an independent statistic.
type Tasting struct {
	gorm.Model
	Name              string  `gorm:"uniqueIndex" json:"name"`
	Description       string  `json:"description"`
	AverageBeerRating float64 `gorm:"default:0"   json:"averageBeerRating"`

	Beers     []Beer          `gorm:"many2many:tasting_members;"   json:"beers"`
	Attendees []User          `gorm:"many2many:tasting_attendees;" json:"users"`
	Reviews   []TastingReview `gorm:"foreignKey:TastingID"         json:"reviews"`
}

type TastingReview struct {
	gorm.Model
	TastingID uint    `json:"-"`
	UserID    uint    `json:"user"`
	Score     float64 `json:"score"`
	Comment   string  `json:"comment,omitempty"`
}
