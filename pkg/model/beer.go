package model

import "gorm.io/gorm"

type BeerType struct {
	gorm.Model
	Name string `gorm:"uniqueIndex" json:"name"`
}

type Beer struct {
	gorm.Model
	Name          string   `gorm:"uniqueIndex" json:"name"`
	Brewery       *string  `json:"brewery,omitempty"`
	ABV           *float64 `json:"abv,omitempty"`
	AverageRating float64  `gorm:"default:0"   json:"averageRating"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`

	// set only on candidates imported from an external catalog
	ExternalID     *uint64  `json:"externalId,omitempty"`
	ExternalRating *float64 `json:"externalRating,omitempty"`
	ExternalSource *string  `json:"externalSource,omitempty"`

	Styles   []BeerType `gorm:"many2many:beer_styles;"     json:"type"`
	Ratings  []Rating   `gorm:"foreignKey:BeerID"          json:"reviews,omitempty"`
	Tastings []*Tasting `gorm:"many2many:tasting_members;" json:"tasting,omitempty"`
}

// TastingBeer is a separate catalog for beers encountered during tastings.
// It shares the style vocabulary with Beer but has its own lifecycle.
type TastingBeer struct {
	gorm.Model
	Name    string     `gorm:"uniqueIndex"                    json:"name"`
	Styles  []BeerType `gorm:"many2many:tasting_beer_styles;" json:"type"`
	Link    string     `json:"link"`
	Comment string     `json:"comment,omitempty"`
}
