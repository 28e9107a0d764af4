// Package stats builds the per-user statistics report: membership tenure,
// rating counts and averages, top-rated beers, and the style breakdown that
// contrasts the user's palate with the whole community.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/rating"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

var ErrUserNotFound = errors.New("user not found")

const topBeerLimit = 10

type statsRepository interface {
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	CountRatingsForUser(ctx context.Context, userID uint) (int64, error)
	AverageScoreForUser(ctx context.Context, userID uint) (float64, error)
	AverageScoreAllUsers(ctx context.Context) (float64, error)
	TopRatedBeersForUser(ctx context.Context, userID uint, limit int) ([]model.Rating, error)
	UserStyleStats(ctx context.Context, userID uint) ([]repository.StyleStat, error)
	GlobalStyleStats(ctx context.Context, styles []string) ([]repository.StyleStat, error)
}

// StyleBreakdown pairs the user's numbers for one style with the community's.
type StyleBreakdown struct {
	BeerType           string  `json:"beerType"`
	UserCount          int64   `json:"userCount"`
	TotalCount         int64   `json:"totalCount"`
	AverageRating      float64 `json:"averageRating"`
	TotalAverageRating float64 `json:"totalAverageRating"`
}

type Report struct {
	Username              string           `json:"username"`
	DaysMember            int              `json:"daysMember"`
	TotalBeersRated       int64            `json:"totalBeersRated"`
	AverageRating         float64          `json:"averageRating"`
	AverageRatingAllUsers float64          `json:"averageRatingAllUsers"`
	TopTenBeers           []model.Rating   `json:"topTenBeers"`
	TopBeerTypes          []StyleBreakdown `json:"topBeerTypes"`
}

type Engine struct {
	repo   statsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(repo statsRepository, logger *zap.Logger) *Engine {
	return &Engine{repo: repo, logger: logger, now: time.Now}
}

// GetUserStats assembles the full report for one user. It reads but never
// writes, so calling it repeatedly yields the same answer until a rating
// changes.
func (e *Engine) GetUserStats(ctx context.Context, userID uint) (*Report, error) {
	user, err := e.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}

	count, err := e.repo.CountRatingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	userAverage, err := e.repo.AverageScoreForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	globalAverage, err := e.repo.AverageScoreAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	topBeers, err := e.repo.TopRatedBeersForUser(ctx, userID, topBeerLimit)
	if err != nil {
		return nil, err
	}

	breakdown, err := e.styleBreakdown(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Report{
		Username:              user.Username,
		DaysMember:            daysMember(user.CreatedAt, e.now()),
		TotalBeersRated:       count,
		AverageRating:         rating.Round2(userAverage),
		AverageRatingAllUsers: rating.Round2(globalAverage),
		TopTenBeers:           topBeers,
		TopBeerTypes:          breakdown,
	}, nil
}

// styleBreakdown merges the user's per-style aggregates with the community's
// for the same styles. Styles the user never rated are left out entirely.
func (e *Engine) styleBreakdown(ctx context.Context, userID uint) ([]StyleBreakdown, error) {
	userStats, err := e.repo.UserStyleStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(userStats) == 0 {
		return []StyleBreakdown{}, nil
	}

	styles := make([]string, 0, len(userStats))
	for _, stat := range userStats {
		styles = append(styles, stat.Style)
	}

	globalStats, err := e.repo.GlobalStyleStats(ctx, styles)
	if err != nil {
		return nil, err
	}

	globalByStyle := make(map[string]repository.StyleStat, len(globalStats))
	for _, stat := range globalStats {
		globalByStyle[stat.Style] = stat
	}

	breakdown := make([]StyleBreakdown, 0, len(userStats))

	for _, stat := range userStats {
		global := globalByStyle[stat.Style]

		breakdown = append(breakdown, StyleBreakdown{
			BeerType:           stat.Style,
			UserCount:          stat.Count,
			TotalCount:         global.Count,
			AverageRating:      rating.Round2(stat.AverageScore),
			TotalAverageRating: rating.Round2(global.AverageScore),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].UserCount != breakdown[j].UserCount {
			return breakdown[i].UserCount > breakdown[j].UserCount
		}

		return breakdown[i].AverageRating > breakdown[j].AverageRating
	})

	return breakdown, nil
}

// daysMember counts whole days since registration, rounding any partial day up.
// A user registered an hour ago has been a member for one day.
func daysMember(createdAt time.Time, now time.Time) int {
	elapsed := now.Sub(createdAt)
	if elapsed <= 0 {
		return 0
	}

	return int(math.Ceil(elapsed.Hours() / 24))
}
