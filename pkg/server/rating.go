package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/rating"
)

type ratingRequest struct {
	BeerID  uint    `binding:"required" json:"beerId"`
	Score   float64 `binding:"gte=0,lte=5" json:"score"`
	Comment string  `json:"comment"`
}

func (s *Server) handleAddRating(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req ratingRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	created, err := s.aggregator.AddRating(c.Request.Context(), req.BeerID, user.ID, req.Score, req.Comment)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, created)
}

type batchRequest struct {
	Ratings []rating.BatchEntry `binding:"required,min=1" json:"ratings"`
}

func (s *Server) handleAddBatchRatings(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req batchRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	created, err := s.aggregator.AddBatchRatings(c.Request.Context(), user.ID, req.Ratings)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created, "count": len(created)})
}

type ratingUpdateRequest struct {
	Score   float64 `binding:"gte=0,lte=5" json:"score"`
	Comment string  `json:"comment"`
}

func (s *Server) handleUpdateRating(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	ratingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req ratingUpdateRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	updated, err := s.aggregator.UpdateRating(c.Request.Context(), ratingID, user.ID, req.Score, req.Comment)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteRating(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	ratingID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	if err := s.aggregator.DeleteRating(c.Request.Context(), ratingID, user.ID); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

// handleUserRatings lists the caller's ratings, optionally narrowed to one beer.
func (s *Server) handleUserRatings(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	var beerID *uint

	if c.Param("beerId") != "" {
		parsed, err := pathID(c, "beerId")
		if err != nil {
			s.respondError(c, err)

			return
		}

		beerID = &parsed
	}

	ratings, err := s.ratings.GetRatingsForUser(c.Request.Context(), user.ID, beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, ratings)
}

func (s *Server) handleUnratedBeers(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	page, err := s.ratings.GetUnratedBeers(c.Request.Context(), user.ID, intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) handleRatedBeers(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	page, err := s.ratings.GetRatedBeers(c.Request.Context(), user.ID, intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}
