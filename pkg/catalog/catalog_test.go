package catalog //nolint:testpackage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

type stubCatalogRepo struct {
	styles     []model.BeerType
	breweries  []string
	lastFilter repository.BeerFilter
	beers      []model.Beer
}

func (s *stubCatalogRepo) FindBeers(_ context.Context, filter repository.BeerFilter) (*repository.Page[model.Beer], error) {
	s.lastFilter = filter

	return repository.NewPage(s.beers, int64(len(s.beers)), filter.Page, filter.Limit), nil
}

func (s *stubCatalogRepo) FindTastingBeers(_ context.Context, filter repository.BeerFilter) (*repository.Page[model.TastingBeer], error) {
	s.lastFilter = filter

	return repository.NewPage([]model.TastingBeer{}, 0, filter.Page, filter.Limit), nil
}

func (s *stubCatalogRepo) GetAllStyles(_ context.Context) ([]model.BeerType, error) {
	return s.styles, nil
}

func (s *stubCatalogRepo) GetBreweries(_ context.Context) ([]string, error) {
	return s.breweries, nil
}

type ServiceSuite struct {
	suite.Suite
	repo    *stubCatalogRepo
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.repo = &stubCatalogRepo{
		styles:    []model.BeerType{{Name: "IPA"}, {Name: "Stout"}, {Name: "Lager"}},
		breweries: []string{"Mikkeller", "Omnipollo"},
	}
	s.service = NewService(s.repo, zap.NewNop())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestDefaults() {
	page, err := s.service.ListBeers(s.ctx, Options{})
	s.Require().NoError(err)

	filter := s.repo.lastFilter
	s.Require().Equal(1, filter.Page)
	s.Require().Equal(10, filter.Limit)
	s.Require().Equal("average_rating", filter.SortField)
	s.Require().Equal(-1, filter.SortOrder)
	s.Require().InDelta(0.0, filter.AbvMin, 0.001)
	s.Require().InDelta(100.0, filter.AbvMax, 0.001)
	s.Require().Empty(filter.Styles)

	s.Require().Equal([]string{"IPA", "Stout", "Lager"}, page.ValidBeerTypes)
	s.Require().Equal([]string{"Mikkeller", "Omnipollo"}, page.Breweries)
}

func (s *ServiceSuite) TestUnknownStylesDropped() {
	_, err := s.service.ListBeers(s.ctx, Options{Styles: "IPA, Gruit ,Stout"})
	s.Require().NoError(err)
	s.Require().Equal([]string{"IPA", "Stout"}, s.repo.lastFilter.Styles)
}

func (s *ServiceSuite) TestUnknownSortFieldFallsBack() {
	_, err := s.service.ListBeers(s.ctx, Options{SortField: "price"})
	s.Require().NoError(err)
	s.Require().Equal("average_rating", s.repo.lastFilter.SortField)
}

func (s *ServiceSuite) TestSortFieldAndOrder() {
	_, err := s.service.ListBeers(s.ctx, Options{SortField: "name", SortOrder: "1"})
	s.Require().NoError(err)
	s.Require().Equal("name", s.repo.lastFilter.SortField)
	s.Require().Equal(1, s.repo.lastFilter.SortOrder)
}

func (s *ServiceSuite) TestAbvBoundsClamped() {
	_, err := s.service.ListBeers(s.ctx, Options{AbvMin: "-3", AbvMax: "250"})
	s.Require().NoError(err)
	s.Require().InDelta(0.0, s.repo.lastFilter.AbvMin, 0.001)
	s.Require().InDelta(100.0, s.repo.lastFilter.AbvMax, 0.001)
}

func (s *ServiceSuite) TestBadPagingFallsBack() {
	_, err := s.service.ListBeers(s.ctx, Options{Page: "0", Limit: "bananas"})
	s.Require().NoError(err)
	s.Require().Equal(1, s.repo.lastFilter.Page)
	s.Require().Equal(10, s.repo.lastFilter.Limit)
}

func (s *ServiceSuite) TestBreweryList() {
	_, err := s.service.ListBeers(s.ctx, Options{Breweries: "Mikkeller,, Omnipollo "})
	s.Require().NoError(err)
	s.Require().Equal([]string{"Mikkeller", "Omnipollo"}, s.repo.lastFilter.Breweries)
}

func (s *ServiceSuite) TestTastingBeerSortWhitelist() {
	_, err := s.service.ListTastingBeers(s.ctx, Options{SortField: "averageRating"})
	s.Require().NoError(err)
	s.Require().Equal("name", s.repo.lastFilter.SortField)

	_, err = s.service.ListTastingBeers(s.ctx, Options{SortField: "createdAt"})
	s.Require().NoError(err)
	s.Require().Equal("created_at", s.repo.lastFilter.SortField)
}
