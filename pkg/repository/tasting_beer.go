package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var ErrTastingBeerNotFound = errors.New("tasting beer not found")

func (r *Repository) AddTastingBeer(ctx context.Context, beer model.TastingBeer) (*model.TastingBeer, error) {
	if result := r.DB.WithContext(ctx).Create(&beer); result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) GetTastingBeerByID(ctx context.Context, beerID uint) (*model.TastingBeer, error) {
	var beer model.TastingBeer

	result := r.DB.WithContext(ctx).Preload("Styles").First(&beer, beerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTastingBeerNotFound
		}

		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) UpdateTastingBeer(ctx context.Context, beer *model.TastingBeer) (*model.TastingBeer, error) {
	err := r.DB.WithContext(ctx).Model(beer).Association("Styles").Replace(beer.Styles)
	if err != nil {
		return nil, err
	}

	if result := r.DB.WithContext(ctx).Save(beer); result.Error != nil {
		return nil, result.Error
	}

	return beer, nil
}

func (r *Repository) DeleteTastingBeer(ctx context.Context, beerID uint) (*model.TastingBeer, error) {
	beer, err := r.GetTastingBeerByID(ctx, beerID)
	if err != nil {
		return nil, err
	}

	if result := r.DB.WithContext(ctx).Delete(&model.TastingBeer{}, beerID); result.Error != nil {
		return nil, result.Error
	}

	return beer, nil
}

func (r *Repository) FindTastingBeers(ctx context.Context, filter BeerFilter) (*Page[model.TastingBeer], error) {
	var (
		beers []model.TastingBeer
		total int64
	)

	counter := r.DB.WithContext(ctx).Model(&model.TastingBeer{})
	applyTastingBeerFilter(counter, filter)

	if result := counter.Distinct("tasting_beers.id").Count(&total); result.Error != nil {
		return nil, result.Error
	}

	order := "desc"
	if filter.SortOrder > 0 {
		order = "asc"
	}

	query := r.DB.WithContext(ctx).Model(&model.TastingBeer{}).
		Preload("Styles").
		Order("tasting_beers." + filter.SortField + " " + order).
		Limit(filter.Limit).
		Offset(offsetFor(filter.Page, filter.Limit))
	applyTastingBeerFilter(query, filter)

	if result := query.Distinct("tasting_beers.*").Find(&beers); result.Error != nil {
		return nil, result.Error
	}

	return NewPage(beers, total, filter.Page, filter.Limit), nil
}

func applyTastingBeerFilter(query *gorm.DB, filter BeerFilter) {
	if len(filter.Styles) > 0 {
		query.Joins("INNER JOIN tasting_beer_styles tbs ON tbs.tasting_beer_id = tasting_beers.id").
			Joins("INNER JOIN beer_types bt ON bt.id = tbs.beer_type_id").
			Where("bt.name IN ?", filter.Styles)
	}

	if len(filter.Query) > 0 {
		query.Where("tasting_beers.name ILIKE ?", "%"+filter.Query+"%")
	}
}
