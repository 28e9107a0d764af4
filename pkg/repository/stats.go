package repository

import (
	"context"

	"brygghaus.dev/BeerLedger/pkg/model"
)

// StyleStat is one row of the per-style rating breakdown. A beer with N styles
// contributes its ratings to N rows.
type StyleStat struct {
	Style        string
	Count        int64
	AverageScore float64
}

const styleStatSelect = "bt.name as style, count(*) as count, avg(ratings.score) as average_score"

func (r *Repository) UserStyleStats(ctx context.Context, userID uint) ([]StyleStat, error) {
	var stats []StyleStat

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Select(styleStatSelect).
		Joins("INNER JOIN beer_styles bs ON bs.beer_id = ratings.beer_id").
		Joins("INNER JOIN beer_types bt ON bt.id = bs.beer_type_id").
		Where("ratings.user_id = ?", userID).
		Group("bt.name").
		Scan(&stats)
	if result.Error != nil {
		return nil, result.Error
	}

	return stats, nil
}

// GlobalStyleStats aggregates every user's ratings for the named styles.
func (r *Repository) GlobalStyleStats(ctx context.Context, styles []string) ([]StyleStat, error) {
	var stats []StyleStat

	if len(styles) == 0 {
		return stats, nil
	}

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Select(styleStatSelect).
		Joins("INNER JOIN beer_styles bs ON bs.beer_id = ratings.beer_id").
		Joins("INNER JOIN beer_types bt ON bt.id = bs.beer_type_id").
		Where("bt.name IN ?", styles).
		Group("bt.name").
		Scan(&stats)
	if result.Error != nil {
		return nil, result.Error
	}

	return stats, nil
}

func (r *Repository) CountRatingsForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (r *Repository) AverageScoreForUser(ctx context.Context, userID uint) (float64, error) {
	var average float64

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&average)
	if result.Error != nil {
		return 0, result.Error
	}

	return average, nil
}

func (r *Repository) AverageScoreAllUsers(ctx context.Context) (float64, error) {
	var average float64

	result := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0)").
		Scan(&average)
	if result.Error != nil {
		return 0, result.Error
	}

	return average, nil
}

// TopRatedBeersForUser returns the user's highest-scored ratings with their
// beers resolved, ties left in storage order.
func (r *Repository) TopRatedBeersForUser(ctx context.Context, userID uint, limit int) ([]model.Rating, error) {
	var ratings []model.Rating

	result := r.DB.WithContext(ctx).
		Preload("Beer").
		Preload("Beer.Styles").
		Preload("Beer.Tastings").
		Where("user_id = ?", userID).
		Order("score desc").
		Limit(limit).
		Find(&ratings)
	if result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}
