package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/model"
)

func (s *Server) handleListTastings(c *gin.Context) {
	page, err := s.tastings.FindTastings(c.Request.Context(), c.Query("q"), intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetTasting(c *gin.Context) {
	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	tasting, err := s.tastings.GetTastingByID(c.Request.Context(), tastingID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, tasting)
}

type tastingRequest struct {
	Name        string `binding:"required" json:"name"`
	Description string `json:"description"`
	BeerIDs     []uint `json:"beerIds"`
}

func (s *Server) handleCreateTasting(c *gin.Context) {
	var req tastingRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	ctx := c.Request.Context()

	tasting, err := s.tastings.AddTasting(ctx, model.Tasting{Name: req.Name, Description: req.Description})
	if err != nil {
		s.respondError(c, err)

		return
	}

	for _, beerID := range req.BeerIDs {
		if tasting, err = s.aggregator.AddBeerToTasting(ctx, tasting.ID, beerID); err != nil {
			s.respondError(c, err)

			return
		}
	}

	c.JSON(http.StatusCreated, tasting)
}

func (s *Server) handleUpdateTasting(c *gin.Context) {
	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req tastingRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	ctx := c.Request.Context()

	tasting, err := s.tastings.GetTastingByID(ctx, tastingID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	tasting.Name = req.Name
	tasting.Description = req.Description

	updated, err := s.tastings.UpdateTasting(ctx, tasting)
	if err != nil {
		s.respondError(c, err)

		return
	}

	// a request without beerIds leaves the membership alone
	if req.BeerIDs != nil {
		if updated, err = s.replaceTastingBeers(ctx, updated, req.BeerIDs); err != nil {
			s.respondError(c, err)

			return
		}
	}

	c.JSON(http.StatusOK, updated)
}

// replaceTastingBeers reconciles the tasting's members against beerIDs. Adds
// and removals go through the aggregator so the average follows the beer set.
func (s *Server) replaceTastingBeers(ctx context.Context, tasting *model.Tasting, beerIDs []uint) (*model.Tasting, error) {
	want := make(map[uint]bool, len(beerIDs))
	for _, beerID := range beerIDs {
		want[beerID] = true
	}

	currentIDs := make([]uint, 0, len(tasting.Beers))
	for _, beer := range tasting.Beers {
		currentIDs = append(currentIDs, beer.ID)
	}

	updated := tasting

	var err error

	for _, beerID := range currentIDs {
		if want[beerID] {
			continue
		}

		if updated, err = s.aggregator.RemoveBeerFromTasting(ctx, tasting.ID, beerID); err != nil {
			return nil, err
		}
	}

	current := make(map[uint]bool, len(currentIDs))
	for _, beerID := range currentIDs {
		current[beerID] = true
	}

	for _, beerID := range beerIDs {
		if current[beerID] {
			continue
		}

		if updated, err = s.aggregator.AddBeerToTasting(ctx, tasting.ID, beerID); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

func (s *Server) handleDeleteTasting(c *gin.Context) {
	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	if err := s.tastings.DeleteTasting(c.Request.Context(), tastingID); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tasting deleted"})
}

func (s *Server) handleAddBeerToTasting(c *gin.Context) {
	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	beerID, err := pathID(c, "beerId")
	if err != nil {
		s.respondError(c, err)

		return
	}

	tasting, err := s.aggregator.AddBeerToTasting(c.Request.Context(), tastingID, beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, tasting)
}

func (s *Server) handleRemoveBeerFromTasting(c *gin.Context) {
	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	beerID, err := pathID(c, "beerId")
	if err != nil {
		s.respondError(c, err)

		return
	}

	tasting, err := s.aggregator.RemoveBeerFromTasting(c.Request.Context(), tastingID, beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, tasting)
}

type tastingReviewRequest struct {
	Score   float64 `binding:"gte=0,lte=5" json:"score"`
	Comment string  `json:"comment"`
}

func (s *Server) handleAddTastingReview(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req tastingReviewRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	tasting, err := s.aggregator.AddTastingReview(c.Request.Context(), tastingID, user.ID, req.Score, req.Comment)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, tasting)
}

func (s *Server) handleCheckIn(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	tastingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	tasting, err := s.aggregator.CheckIn(c.Request.Context(), tastingID, user)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, tasting)
}
