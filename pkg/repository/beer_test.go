package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

type BeerTestSuite struct {
	RepositorySuite
}

func TestBeerTestSuite(t *testing.T) {
	suite.Run(t, new(BeerTestSuite))
}

func (suite *BeerTestSuite) TestAddBeer_AddsBeer() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beers" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(1)))
	suite.mock.ExpectCommit()

	beer, err := suite.repository.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	suite.Require().NoError(err)
	suite.Equal(uint(1), beer.ID)
	suite.Equal("Helles", beer.Name)
}

func (suite *BeerTestSuite) TestGetBeerByID_ReturnsErrorWhenMissing() {
	suite.mock.ExpectQuery("^SELECT (.+)").WillReturnError(gorm.ErrRecordNotFound)

	beer, err := suite.repository.GetBeerByID(context.Background(), 42)
	suite.Require().ErrorIs(err, repository.ErrBeerNotFound)
	suite.Nil(beer)
}

func (suite *BeerTestSuite) TestGetStylesByNames_EmptyInputSkipsQuery() {
	styles, err := suite.repository.GetStylesByNames(context.Background(), nil)
	suite.Require().NoError(err)
	suite.Empty(styles)
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *BeerTestSuite) TestGetStylesByNames_FindsKnownStyles() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beer_types" WHERE name IN (.+)`).
		WithArgs("IPA", "Gruit").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uint(1), "IPA"))

	styles, err := suite.repository.GetStylesByNames(context.Background(), []string{"IPA", "Gruit"})
	suite.Require().NoError(err)
	suite.Len(styles, 1)
	suite.Equal("IPA", styles[0].Name)
}

func (suite *BeerTestSuite) TestGetAllStyles_OrdersByName() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beer_types" (.+)ORDER BY name asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(uint(2), "IPA").AddRow(uint(1), "Lager"))

	styles, err := suite.repository.GetAllStyles(context.Background())
	suite.Require().NoError(err)
	suite.Len(styles, 2)
	suite.Equal("IPA", styles[0].Name)
}

func (suite *BeerTestSuite) TestAddStyle_AddsStyle() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beer_types" (.+)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "Gose").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(9)))
	suite.mock.ExpectCommit()

	style, err := suite.repository.AddStyle(context.Background(), "Gose")
	suite.Require().NoError(err)
	suite.Equal(uint(9), style.ID)
	suite.Equal("Gose", style.Name)
}

func (suite *BeerTestSuite) TestGetBreweries_ListsDistinct() {
	suite.mock.ExpectQuery(`^SELECT DISTINCT (.+) FROM "beers" WHERE brewery IS NOT NULL (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"brewery"}).AddRow("Mikkeller").AddRow("Omnipollo"))

	breweries, err := suite.repository.GetBreweries(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"Mikkeller", "Omnipollo"}, breweries)
}

func (suite *BeerTestSuite) TestBeerSortColumn() {
	column, ok := repository.BeerSortColumn("averageRating")
	suite.True(ok)
	suite.Equal("average_rating", column)

	_, ok = repository.BeerSortColumn("price")
	suite.False(ok)
}
