package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var ErrBeerNotFound = errors.New("beer not found")

// BeerFilter carries the recognized catalog query options. Styles must already be
// intersected against the registry; unknown sort fields must already be rejected.
type BeerFilter struct {
	Styles    []string
	Breweries []string
	Query     string
	AbvMin    float64
	AbvMax    float64
	SortField string
	SortOrder int
	Page      int
	Limit     int
}

var beerSortColumns = map[string]string{
	"averageRating": "average_rating",
	"name":          "name",
	"abv":           "abv",
	"brewery":       "brewery",
	"createdAt":     "created_at",
}

// BeerSortColumn maps an API sort field to its column, reporting whether the
// field is recognized.
func BeerSortColumn(field string) (string, bool) {
	column, ok := beerSortColumns[field]

	return column, ok
}

func (r *Repository) AddBeer(ctx context.Context, beer model.Beer) (*model.Beer, error) {
	if result := r.DB.WithContext(ctx).Create(&beer); result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) GetBeerByID(ctx context.Context, beerID uint) (*model.Beer, error) {
	var beer model.Beer

	result := r.DB.WithContext(ctx).
		Preload("Styles").
		Preload("Ratings").
		Preload("Ratings.User").
		Preload("Tastings").
		First(&beer, beerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}

		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) UpdateBeer(ctx context.Context, beer *model.Beer) (*model.Beer, error) {
	err := r.DB.WithContext(ctx).Model(beer).Association("Styles").Replace(beer.Styles)
	if err != nil {
		return nil, err
	}

	if result := r.DB.WithContext(ctx).Save(beer); result.Error != nil {
		return nil, result.Error
	}

	return beer, nil
}

// DeleteBeer removes a beer together with its ratings and tasting memberships.
func (r *Repository) DeleteBeer(ctx context.Context, beerID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		beer := model.Beer{Model: gorm.Model{ID: beerID}}

		if err := tx.Model(&beer).Association("Tastings").Clear(); err != nil {
			return err
		}

		if result := tx.Where("beer_id = ?", beerID).Delete(&model.Rating{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&model.Beer{}, beerID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrBeerNotFound
		}

		return nil
	})
}

func (r *Repository) FindBeers(ctx context.Context, filter BeerFilter) (*Page[model.Beer], error) {
	var (
		beers []model.Beer
		total int64
	)

	counter := r.DB.WithContext(ctx).Model(&model.Beer{})
	applyBeerFilter(counter, filter)

	if result := counter.Distinct("beers.id").Count(&total); result.Error != nil {
		return nil, result.Error
	}

	order := "desc"
	if filter.SortOrder > 0 {
		order = "asc"
	}

	query := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Preload("Styles").
		Preload("Ratings").
		Preload("Ratings.User").
		Preload("Tastings").
		Order("beers." + filter.SortField + " " + order).
		Limit(filter.Limit).
		Offset(offsetFor(filter.Page, filter.Limit))
	applyBeerFilter(query, filter)

	if result := query.Distinct("beers.*").Find(&beers); result.Error != nil {
		return nil, result.Error
	}

	return NewPage(beers, total, filter.Page, filter.Limit), nil
}

func applyBeerFilter(query *gorm.DB, filter BeerFilter) {
	if len(filter.Styles) > 0 {
		query.Joins("INNER JOIN beer_styles bs ON bs.beer_id = beers.id").
			Joins("INNER JOIN beer_types bt ON bt.id = bs.beer_type_id").
			Where("bt.name IN ?", filter.Styles)
	}

	if len(filter.Breweries) > 0 {
		query.Where("beers.brewery IN ?", filter.Breweries)
	}

	if len(filter.Query) > 0 {
		query.Where("beers.name ILIKE ?", "%"+filter.Query+"%")
	}

	if filter.AbvMin > 0 {
		query.Where("beers.abv >= ?", filter.AbvMin)
	}

	if filter.AbvMax < 100 {
		query.Where("beers.abv <= ?", filter.AbvMax)
	}
}

// GetStylesByNames returns the subset of names registered as beer types.
func (r *Repository) GetStylesByNames(ctx context.Context, names []string) ([]model.BeerType, error) {
	var styles []model.BeerType

	if len(names) == 0 {
		return styles, nil
	}

	if result := r.DB.WithContext(ctx).Where("name IN ?", names).Find(&styles); result.Error != nil {
		return nil, result.Error
	}

	return styles, nil
}

func (r *Repository) GetAllStyles(ctx context.Context) ([]model.BeerType, error) {
	var styles []model.BeerType

	if result := r.DB.WithContext(ctx).Order("name asc").Find(&styles); result.Error != nil {
		return nil, result.Error
	}

	return styles, nil
}

func (r *Repository) AddStyle(ctx context.Context, name string) (*model.BeerType, error) {
	style := model.BeerType{Name: name}

	if result := r.DB.WithContext(ctx).Create(&style); result.Error != nil {
		return nil, result.Error
	}

	return &style, nil
}

func (r *Repository) DeleteStyle(ctx context.Context, styleID uint) (*model.BeerType, error) {
	var style model.BeerType

	if result := r.DB.WithContext(ctx).First(&style, styleID); result.Error != nil {
		return nil, result.Error
	}

	if result := r.DB.WithContext(ctx).Delete(&style); result.Error != nil {
		return nil, result.Error
	}

	return &style, nil
}

// GetBreweries lists the distinct breweries currently in use, for filter UIs.
func (r *Repository) GetBreweries(ctx context.Context) ([]string, error) {
	var breweries []string

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Where("brewery IS NOT NULL").
		Distinct("brewery").
		Order("brewery asc").
		Pluck("brewery", &breweries)
	if result.Error != nil {
		return nil, result.Error
	}

	return breweries, nil
}
