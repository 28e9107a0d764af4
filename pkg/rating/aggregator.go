// Package rating keeps the derived rating aggregates consistent. Every mutation
// of a beer's rating set goes through the Aggregator, which recomputes the
// beer's average and propagates it to every tasting containing the beer.
package rating

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var (
	ErrBeerNotFound     = errors.New("beer not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrTastingNotFound  = errors.New("tasting not found")
	ErrDuplicateRating  = errors.New("already rated")
	ErrNotRatingOwner   = errors.New("rating belongs to another user")
	ErrInvalidScore     = errors.New("score must be between 0 and 5")
	ErrBeerNotInTasting = errors.New("beer not part of tasting")
	ErrDuplicateCheckIn = errors.New("user already checked in")
)

const (
	minScore = 0
	maxScore = 5
)

type beerRepository interface {
	GetBeerByID(ctx context.Context, beerID uint) (*model.Beer, error)
}

type ratingRepository interface {
	AddRating(ctx context.Context, rating model.Rating) (*model.Rating, error)
	GetRatingByID(ctx context.Context, ratingID uint) (*model.Rating, error)
	GetRatingForBeerAndUser(ctx context.Context, beerID uint, userID uint) (*model.Rating, error)
	UpdateRating(ctx context.Context, rating *model.Rating) (*model.Rating, error)
	DeleteRating(ctx context.Context, ratingID uint) error
	AverageScoreForBeer(ctx context.Context, beerID uint) (float64, error)
	SetBeerAverageRating(ctx context.Context, beerID uint, average float64) error
}

type tastingRepository interface {
	GetTastingByID(ctx context.Context, tastingID uint) (*model.Tasting, error)
	AddBeerToTasting(ctx context.Context, tasting *model.Tasting, beer *model.Beer) error
	RemoveBeerFromTasting(ctx context.Context, tasting *model.Tasting, beer *model.Beer) error
	AddAttendee(ctx context.Context, tasting *model.Tasting, user *model.User) error
	AddTastingReview(ctx context.Context, review model.TastingReview) (*model.TastingReview, error)
	TastingsContainingBeer(ctx context.Context, beerID uint) ([]*model.Tasting, error)
	AverageBeerRatingForTasting(ctx context.Context, tastingID uint) (float64, error)
	SetTastingAverageBeerRating(ctx context.Context, tastingID uint, average float64) error
}

type Aggregator struct {
	beers    beerRepository
	ratings  ratingRepository
	tastings tastingRepository
	logger   *zap.Logger
}

func NewAggregator(beers beerRepository, ratings ratingRepository, tastings tastingRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{beers: beers, ratings: ratings, tastings: tastings, logger: logger}
}

// Round2 rounds half-up to two decimal places. Applied after the mean, never before.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func validScore(score float64) bool {
	return score >= minScore && score <= maxScore
}

func (a *Aggregator) AddRating(ctx context.Context, beerID uint, userID uint, score float64, comment string) (*model.Rating, error) {
	if !validScore(score) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidScore, score)
	}

	if _, err := a.beers.GetBeerByID(ctx, beerID); err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrBeerNotFound, beerID)
	}

	existing, err := a.ratings.GetRatingForBeerAndUser(ctx, beerID, userID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, fmt.Errorf("%w: beer %d", ErrDuplicateRating, beerID)
	}

	rating, err := a.ratings.AddRating(ctx, model.Rating{
		BeerID:  beerID,
		UserID:  userID,
		Score:   score,
		Comment: comment,
	})
	if err != nil {
		return nil, err
	}

	if err := a.recomputeBeer(ctx, beerID); err != nil {
		return nil, err
	}

	return rating, nil
}

func (a *Aggregator) UpdateRating(ctx context.Context, ratingID uint, userID uint, score float64, comment string) (*model.Rating, error) {
	if !validScore(score) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidScore, score)
	}

	rating, err := a.ownedRating(ctx, ratingID, userID)
	if err != nil {
		return nil, err
	}

	rating.Score = score
	rating.Comment = comment

	updated, err := a.ratings.UpdateRating(ctx, rating)
	if err != nil {
		return nil, err
	}

	if err := a.recomputeBeer(ctx, rating.BeerID); err != nil {
		return nil, err
	}

	return updated, nil
}

func (a *Aggregator) DeleteRating(ctx context.Context, ratingID uint, userID uint) error {
	rating, err := a.ownedRating(ctx, ratingID, userID)
	if err != nil {
		return err
	}

	if err := a.ratings.DeleteRating(ctx, ratingID); err != nil {
		return err
	}

	return a.recomputeBeer(ctx, rating.BeerID)
}

func (a *Aggregator) ownedRating(ctx context.Context, ratingID uint, userID uint) (*model.Rating, error) {
	rating, err := a.ratings.GetRatingByID(ctx, ratingID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrRatingNotFound, ratingID)
	}

	if rating.UserID != userID {
		return nil, fmt.Errorf("%w: id %d", ErrNotRatingOwner, ratingID)
	}

	return rating, nil
}

// BatchEntry is one candidate rating in a batch submission.
type BatchEntry struct {
	BeerID  uint    `json:"beerId"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// AddBatchRatings processes entries independently. Entries referencing a missing
// beer or an already-rated beer are skipped without error; the result reports
// only the ratings actually created.
func (a *Aggregator) AddBatchRatings(ctx context.Context, userID uint, entries []BatchEntry) ([]*model.Rating, error) {
	created := make([]*model.Rating, 0, len(entries))

	for _, entry := range entries {
		rating, err := a.AddRating(ctx, entry.BeerID, userID, entry.Score, entry.Comment)
		if err != nil {
			if errors.Is(err, ErrBeerNotFound) || errors.Is(err, ErrDuplicateRating) || errors.Is(err, ErrInvalidScore) {
				a.logger.Info("skipping batch rating entry",
					zap.Uint("beer_id", entry.BeerID), zap.Uint("user_id", userID), zap.Error(err))

				continue
			}

			return nil, err
		}

		created = append(created, rating)
	}

	return created, nil
}

// AddTastingReview records a user's review of the tasting itself. The review
// score is independent of AverageBeerRating, which is refreshed from the member
// beers on the same call.
func (a *Aggregator) AddTastingReview(ctx context.Context, tastingID uint, userID uint, score float64, comment string) (*model.Tasting, error) {
	if !validScore(score) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidScore, score)
	}

	tasting, err := a.tastings.GetTastingByID(ctx, tastingID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrTastingNotFound, tastingID)
	}

	for _, review := range tasting.Reviews {
		if review.UserID == userID {
			return nil, fmt.Errorf("%w: tasting %d", ErrDuplicateRating, tastingID)
		}
	}

	review, err := a.tastings.AddTastingReview(ctx, model.TastingReview{
		TastingID: tastingID,
		UserID:    userID,
		Score:     score,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}

	tasting.Reviews = append(tasting.Reviews, *review)

	if err := a.recomputeTasting(ctx, tastingID); err != nil {
		return nil, err
	}

	return tasting, nil
}

func (a *Aggregator) AddBeerToTasting(ctx context.Context, tastingID uint, beerID uint) (*model.Tasting, error) {
	tasting, err := a.tastings.GetTastingByID(ctx, tastingID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrTastingNotFound, tastingID)
	}

	beer, err := a.beers.GetBeerByID(ctx, beerID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrBeerNotFound, beerID)
	}

	for _, member := range tasting.Beers {
		if member.ID == beerID {
			return tasting, nil
		}
	}

	if err := a.tastings.AddBeerToTasting(ctx, tasting, beer); err != nil {
		return nil, err
	}

	if err := a.recomputeTasting(ctx, tastingID); err != nil {
		return nil, err
	}

	return a.tastings.GetTastingByID(ctx, tastingID)
}

func (a *Aggregator) RemoveBeerFromTasting(ctx context.Context, tastingID uint, beerID uint) (*model.Tasting, error) {
	tasting, err := a.tastings.GetTastingByID(ctx, tastingID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrTastingNotFound, tastingID)
	}

	var member *model.Beer

	for index := range tasting.Beers {
		if tasting.Beers[index].ID == beerID {
			member = &tasting.Beers[index]

			break
		}
	}

	if member == nil {
		return nil, fmt.Errorf("%w: beer %d", ErrBeerNotInTasting, beerID)
	}

	if err := a.tastings.RemoveBeerFromTasting(ctx, tasting, member); err != nil {
		return nil, err
	}

	if err := a.recomputeTasting(ctx, tastingID); err != nil {
		return nil, err
	}

	return a.tastings.GetTastingByID(ctx, tastingID)
}

func (a *Aggregator) CheckIn(ctx context.Context, tastingID uint, user *model.User) (*model.Tasting, error) {
	tasting, err := a.tastings.GetTastingByID(ctx, tastingID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrTastingNotFound, tastingID)
	}

	for _, attendee := range tasting.Attendees {
		if attendee.ID == user.ID {
			return nil, fmt.Errorf("%w: tasting %d", ErrDuplicateCheckIn, tastingID)
		}
	}

	if err := a.tastings.AddAttendee(ctx, tasting, user); err != nil {
		return nil, err
	}

	return a.tastings.GetTastingByID(ctx, tastingID)
}

// RecomputeTasting refreshes a tasting's derived average after membership is
// changed outside the aggregator (create/update with an explicit beer set).
func (a *Aggregator) RecomputeTasting(ctx context.Context, tastingID uint) error {
	return a.recomputeTasting(ctx, tastingID)
}

func (a *Aggregator) recomputeBeer(ctx context.Context, beerID uint) error {
	average, err := a.ratings.AverageScoreForBeer(ctx, beerID)
	if err != nil {
		return err
	}

	if err := a.ratings.SetBeerAverageRating(ctx, beerID, Round2(average)); err != nil {
		return err
	}

	tastings, err := a.tastings.TastingsContainingBeer(ctx, beerID)
	if err != nil {
		return err
	}

	for _, tasting := range tastings {
		if err := a.recomputeTasting(ctx, tasting.ID); err != nil {
			return err
		}
	}

	return nil
}

func (a *Aggregator) recomputeTasting(ctx context.Context, tastingID uint) error {
	average, err := a.tastings.AverageBeerRatingForTasting(ctx, tastingID)
	if err != nil {
		return err
	}

	return a.tastings.SetTastingAverageBeerRating(ctx, tastingID, Round2(average))
}
