package stats //nolint:testpackage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

type stubStatsRepo struct {
	user        *model.User
	count       int64
	userAvg     float64
	globalAvg   float64
	topBeers    []model.Rating
	userStyles  []repository.StyleStat
	styleTotals map[string]repository.StyleStat
}

func (s *stubStatsRepo) GetUserByID(_ context.Context, userID uint) (*model.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, fmt.Errorf("no user %d", userID)
	}

	return s.user, nil
}

func (s *stubStatsRepo) CountRatingsForUser(_ context.Context, _ uint) (int64, error) {
	return s.count, nil
}

func (s *stubStatsRepo) AverageScoreForUser(_ context.Context, _ uint) (float64, error) {
	return s.userAvg, nil
}

func (s *stubStatsRepo) AverageScoreAllUsers(_ context.Context) (float64, error) {
	return s.globalAvg, nil
}

func (s *stubStatsRepo) TopRatedBeersForUser(_ context.Context, _ uint, limit int) ([]model.Rating, error) {
	if len(s.topBeers) > limit {
		return s.topBeers[:limit], nil
	}

	return s.topBeers, nil
}

func (s *stubStatsRepo) UserStyleStats(_ context.Context, _ uint) ([]repository.StyleStat, error) {
	return s.userStyles, nil
}

func (s *stubStatsRepo) GlobalStyleStats(_ context.Context, styles []string) ([]repository.StyleStat, error) {
	var stats []repository.StyleStat

	for _, style := range styles {
		if total, ok := s.styleTotals[style]; ok {
			stats = append(stats, total)
		}
	}

	return stats, nil
}

type EngineSuite struct {
	suite.Suite
	repo   *stubStatsRepo
	engine *Engine
	ctx    context.Context
	now    time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	s.repo = &stubStatsRepo{styleTotals: map[string]repository.StyleStat{}}
	s.engine = NewEngine(s.repo, zap.NewNop())
	s.engine.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *EngineSuite) member(userID uint, username string, since time.Time) {
	user := &model.User{Username: username}
	user.ID = userID
	user.CreatedAt = since
	s.repo.user = user
}

func (s *EngineSuite) TestReportBasics() {
	s.member(10, "sven", s.now.AddDate(0, 0, -30))
	s.repo.count = 12
	s.repo.userAvg = 3.4166667
	s.repo.globalAvg = 3.0555555

	report, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Equal("sven", report.Username)
	s.Require().Equal(30, report.DaysMember)
	s.Require().Equal(int64(12), report.TotalBeersRated)
	s.Require().InDelta(3.42, report.AverageRating, 0.0001)
	s.Require().InDelta(3.06, report.AverageRatingAllUsers, 0.0001)
}

func (s *EngineSuite) TestPartialDayCountsAsFull() {
	s.member(10, "sven", s.now.Add(-90*time.Minute))

	report, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Equal(1, report.DaysMember)
}

func (s *EngineSuite) TestUnknownUser() {
	_, err := s.engine.GetUserStats(s.ctx, 99)
	s.Require().ErrorIs(err, ErrUserNotFound)
}

func (s *EngineSuite) TestStyleBreakdownSortedAndMerged() {
	s.member(10, "sven", s.now.AddDate(-1, 0, 0))
	s.repo.userStyles = []repository.StyleStat{
		{Style: "IPA", Count: 3, AverageScore: 4.1},
		{Style: "Stout", Count: 5, AverageScore: 3.2},
		{Style: "Lager", Count: 3, AverageScore: 4.5},
	}
	s.repo.styleTotals = map[string]repository.StyleStat{
		"IPA":   {Style: "IPA", Count: 20, AverageScore: 3.9},
		"Stout": {Style: "Stout", Count: 11, AverageScore: 3.5},
		"Lager": {Style: "Lager", Count: 8, AverageScore: 3.8},
	}

	report, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(report.TopBeerTypes, 3)

	// most-rated first, user's own average breaks ties
	s.Require().Equal("Stout", report.TopBeerTypes[0].BeerType)
	s.Require().Equal("Lager", report.TopBeerTypes[1].BeerType)
	s.Require().Equal("IPA", report.TopBeerTypes[2].BeerType)

	s.Require().Equal(int64(11), report.TopBeerTypes[0].TotalCount)
	s.Require().InDelta(3.5, report.TopBeerTypes[0].TotalAverageRating, 0.0001)
}

func (s *EngineSuite) TestNoRatingsYieldsEmptyBreakdown() {
	s.member(10, "sven", s.now.AddDate(0, 0, -2))

	report, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Empty(report.TopBeerTypes)
	s.Require().Empty(report.TopTenBeers)
	s.Require().Zero(report.AverageRating)
}

func (s *EngineSuite) TestReportIsIdempotent() {
	s.member(10, "sven", s.now.AddDate(0, 0, -7))
	s.repo.count = 3
	s.repo.userAvg = 4

	first, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)

	second, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Equal(first, second)
}

func (s *EngineSuite) TestTopBeersCappedAtTen() {
	s.member(10, "sven", s.now.AddDate(0, 0, -7))

	for index := range 12 {
		s.repo.topBeers = append(s.repo.topBeers, model.Rating{BeerID: uint(index + 1), UserID: 10, Score: 5})
	}

	report, err := s.engine.GetUserStats(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(report.TopTenBeers, 10)
}
