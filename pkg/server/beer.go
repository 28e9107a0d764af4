package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/catalog"
	"brygghaus.dev/BeerLedger/pkg/model"
)

func catalogOptions(c *gin.Context) catalog.Options {
	return catalog.Options{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Styles:    c.Query("styles"),
		Breweries: c.Query("breweries"),
		Query:     c.Query("q"),
		AbvMin:    c.Query("abvMin"),
		AbvMax:    c.Query("abvMax"),
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
	}
}

func (s *Server) handleListBeers(c *gin.Context) {
	page, err := s.catalog.ListBeers(c.Request.Context(), catalogOptions(c))
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer, err := s.beers.GetBeerByID(c.Request.Context(), beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, beer)
}

type beerRequest struct {
	Name        string   `binding:"required" json:"name"`
	Brewery     *string  `json:"brewery"`
	ABV         *float64 `binding:"omitempty,gte=0,lte=100" json:"abv"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Styles      []string `binding:"required,min=1"          json:"type"`
}

// resolveStyles maps requested style names onto registry entries. Creating a
// beer with only unknown styles is rejected rather than silently unstyled.
func (s *Server) resolveStyles(c *gin.Context, names []string) ([]model.BeerType, error) {
	styles, err := s.beers.GetStylesByNames(c.Request.Context(), names)
	if err != nil {
		return nil, err
	}

	if len(styles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidStyles, strings.Join(names, ", "))
	}

	return styles, nil
}

func (s *Server) handleCreateBeer(c *gin.Context) {
	var req beerRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	styles, err := s.resolveStyles(c, req.Styles)
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer, err := s.beers.AddBeer(c.Request.Context(), model.Beer{
		Name:        req.Name,
		Brewery:     req.Brewery,
		ABV:         req.ABV,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Styles:      styles,
	})
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, beer)
}

func (s *Server) handleUpdateBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req beerRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	beer, err := s.beers.GetBeerByID(c.Request.Context(), beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	styles, err := s.resolveStyles(c, req.Styles)
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer.Name = req.Name
	beer.Brewery = req.Brewery
	beer.ABV = req.ABV
	beer.Description = req.Description
	beer.ImageURL = req.ImageURL
	beer.Styles = styles

	updated, err := s.beers.UpdateBeer(c.Request.Context(), beer)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, updated)
}

// handleDeleteBeer removes a beer and its ratings, then refreshes every
// tasting the beer belonged to.
func (s *Server) handleDeleteBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	ctx := c.Request.Context()

	beer, err := s.beers.GetBeerByID(ctx, beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if err := s.beers.DeleteBeer(ctx, beerID); err != nil {
		s.respondError(c, err)

		return
	}

	for _, tasting := range beer.Tastings {
		if err := s.aggregator.RecomputeTasting(ctx, tasting.ID); err != nil {
			s.logger.Error("failed to refresh tasting after beer delete",
				zap.Uint("tasting_id", tasting.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "beer deleted"})
}

// handleSearchBeers queries the configured external catalogs for candidates.
func (s *Server) handleSearchBeers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		s.respondError(c, fmt.Errorf("%w: missing q", ErrInvalidBody))

		return
	}

	var (
		errs    error
		results []model.Beer
	)

	for _, integration := range s.integrations {
		found, err := integration.FindBeer(query)
		multierr.AppendInto(&errs, err)
		results = append(results, found...)
	}

	if len(results) == 0 && errs != nil {
		s.respondError(c, errs)

		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
