package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var ErrRatingNotFound = errors.New("rating not found")

func (r *Repository) AddRating(ctx context.Context, rating model.Rating) (*model.Rating, error) {
	if result := r.DB.WithContext(ctx).Create(&rating); result.Error != nil {
		return nil, result.Error
	}

	return &rating, nil
}

func (r *Repository) GetRatingByID(ctx context.Context, ratingID uint) (*model.Rating, error) {
	var rating model.Rating

	result := r.DB.WithContext(ctx).First(&rating, ratingID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}

		return nil, result.Error
	}

	return &rating, nil
}

// GetRatingForBeerAndUser returns nil without error when no rating exists;
// callers use it as the duplicate pre-check.
func (r *Repository) GetRatingForBeerAndUser(ctx context.Context, beerID uint, userID uint) (*model.Rating, error) {
	var rating model.Rating

	result := r.DB.WithContext(ctx).
		Where("beer_id = ? AND user_id = ?", beerID, userID).
		First(&rating)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, result.Error
	}

	return &rating, nil
}

func (r *Repository) UpdateRating(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	if result := r.DB.WithContext(ctx).Save(rating); result.Error != nil {
		return nil, result.Error
	}

	return rating, nil
}

func (r *Repository) DeleteRating(ctx context.Context, ratingID uint) error {
	result := r.DB.WithContext(ctx).Delete(&model.Rating{}, ratingID)

	return result.Error
}

// AverageScoreForBeer computes the mean score server-side, 0 when unrated.
func (r *Repository) AverageScoreForBeer(ctx context.Context, beerID uint) (float64, error) {
	var average float64

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Where("beer_id = ?", beerID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&average)
	if result.Error != nil {
		return 0, result.Error
	}

	return average, nil
}

func (r *Repository) SetBeerAverageRating(ctx context.Context, beerID uint, average float64) error {
	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Where("id = ?", beerID).
		Update("average_rating", average)

	return result.Error
}

func (r *Repository) GetRatingsForUser(ctx context.Context, userID uint, beerID *uint) ([]model.Rating, error) {
	var ratings []model.Rating

	query := r.DB.WithContext(ctx).
		Preload("Beer").
		Preload("Beer.Styles").
		Where("user_id = ?", userID)

	if beerID != nil {
		query = query.Where("beer_id = ?", *beerID)
	}

	if result := query.Find(&ratings); result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}

// GetUnratedBeers pages through the beers the user has not rated yet.
func (r *Repository) GetUnratedBeers(ctx context.Context, userID uint, page int, limit int) (*Page[model.Beer], error) {
	return r.findBeersByRatedState(ctx, userID, false, page, limit)
}

// GetRatedBeers pages through the beers the user has already rated.
func (r *Repository) GetRatedBeers(ctx context.Context, userID uint, page int, limit int) (*Page[model.Beer], error) {
	return r.findBeersByRatedState(ctx, userID, true, page, limit)
}

func (r *Repository) findBeersByRatedState(ctx context.Context, userID uint, rated bool, page int, limit int) (*Page[model.Beer], error) {
	var (
		beers []model.Beer
		total int64
	)

	condition := "beers.id IN (?)"
	if !rated {
		condition = "beers.id NOT IN (?)"
	}

	ratedIDs := r.DB.Model(&model.Rating{}).Select("beer_id").Where("user_id = ?", userID)

	counter := r.DB.WithContext(ctx).Model(&model.Beer{}).Where(condition, ratedIDs)
	if result := counter.Count(&total); result.Error != nil {
		return nil, result.Error
	}

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).
		Preload("Styles").
		Where(condition, ratedIDs).
		Order("beers.name asc").
		Limit(limit).
		Offset(offsetFor(page, limit)).
		Find(&beers)
	if result.Error != nil {
		return nil, result.Error
	}

	return NewPage(beers, total, page, limit), nil
}
