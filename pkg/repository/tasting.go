package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var ErrTastingNotFound = errors.New("tasting not found")

func (r *Repository) AddTasting(ctx context.Context, tasting model.Tasting) (*model.Tasting, error) {
	if result := r.DB.WithContext(ctx).Create(&tasting); result.Error != nil {
		return nil, result.Error
	}

	return &tasting, nil
}

func (r *Repository) GetTastingByID(ctx context.Context, tastingID uint) (*model.Tasting, error) {
	var tasting model.Tasting

	result := r.DB.WithContext(ctx).
		Preload("Beers").
		Preload("Beers.Styles").
		Preload("Attendees").
		Preload("Reviews").
		First(&tasting, tastingID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTastingNotFound
		}

		return nil, result.Error
	}

	return &tasting, nil
}

func (r *Repository) FindTastings(ctx context.Context, nameQuery string, page int, limit int) (*Page[model.Tasting], error) {
	var (
		tastings []model.Tasting
		total    int64
	)

	counter := r.DB.WithContext(ctx).Model(&model.Tasting{})
	if len(nameQuery) > 0 {
		counter = counter.Where("name ILIKE ?", "%"+nameQuery+"%")
	}

	if result := counter.Count(&total); result.Error != nil {
		return nil, result.Error
	}

	query := r.DB.WithContext(ctx).
		Preload("Beers").
		Preload("Attendees").
		Preload("Reviews").
		Limit(limit).
		Offset(offsetFor(page, limit))

	if len(nameQuery) > 0 {
		query = query.Where("name ILIKE ?", "%"+nameQuery+"%")
	}

	if result := query.Find(&tastings); result.Error != nil {
		return nil, result.Error
	}

	return NewPage(tastings, total, page, limit), nil
}

func (r *Repository) UpdateTasting(ctx context.Context, tasting *model.Tasting) (*model.Tasting, error) {
	err := r.DB.WithContext(ctx).Model(tasting).Association("Beers").Replace(tasting.Beers)
	if err != nil {
		return nil, err
	}

	if result := r.DB.WithContext(ctx).Save(tasting); result.Error != nil {
		return nil, result.Error
	}

	return tasting, nil
}

func (r *Repository) DeleteTasting(ctx context.Context, tastingID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasting := model.Tasting{Model: gorm.Model{ID: tastingID}}

		if err := tx.Model(&tasting).Association("Beers").Clear(); err != nil {
			return err
		}

		if err := tx.Model(&tasting).Association("Attendees").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&model.Tasting{}, tastingID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrTastingNotFound
		}

		return nil
	})
}

func (r *Repository) AddBeerToTasting(ctx context.Context, tasting *model.Tasting, beer *model.Beer) error {
	return r.DB.WithContext(ctx).Model(tasting).Association("Beers").Append(beer)
}

func (r *Repository) RemoveBeerFromTasting(ctx context.Context, tasting *model.Tasting, beer *model.Beer) error {
	return r.DB.WithContext(ctx).Model(tasting).Association("Beers").Delete(beer)
}

func (r *Repository) AddAttendee(ctx context.Context, tasting *model.Tasting, user *model.User) error {
	return r.DB.WithContext(ctx).Model(tasting).Association("Attendees").Append(user)
}

func (r *Repository) AddTastingReview(ctx context.Context, review model.TastingReview) (*model.TastingReview, error) {
	if result := r.DB.WithContext(ctx).Create(&review); result.Error != nil {
		return nil, result.Error
	}

	return &review, nil
}

// TastingsContainingBeer lists the tastings a beer belongs to, for aggregate
// propagation after the beer's average changes.
func (r *Repository) TastingsContainingBeer(ctx context.Context, beerID uint) ([]*model.Tasting, error) {
	var tastings []*model.Tasting

	result := r.DB.WithContext(ctx).
		Joins("INNER JOIN tasting_members tm ON tm.tasting_id = tastings.id").
		Where("tm.beer_id = ?", beerID).
		Find(&tastings)
	if result.Error != nil {
		return nil, result.Error
	}

	return tastings, nil
}

// AverageBeerRatingForTasting computes the mean of the member beers' averages
// server-side, 0 for an empty tasting.
func (r *Repository) AverageBeerRatingForTasting(ctx context.Context, tastingID uint) (float64, error) {
	var average float64

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Joins("INNER JOIN tasting_members tm ON tm.beer_id = beers.id").
		Where("tm.tasting_id = ?", tastingID).
		Select("COALESCE(AVG(average_rating), 0)").
		Scan(&average)
	if result.Error != nil {
		return 0, result.Error
	}

	return average, nil
}

func (r *Repository) SetTastingAverageBeerRating(ctx context.Context, tastingID uint, average float64) error {
	result := r.DB.WithContext(ctx).Model(&model.Tasting{}).
		Where("id = ?", tastingID).
		Update("average_beer_rating", average)

	return result.Error
}
