package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brygghaus.dev/BeerLedger/pkg/model"
)

func (s *Server) handleListTastingBeers(c *gin.Context) {
	page, err := s.catalog.ListTastingBeers(c.Request.Context(), catalogOptions(c))
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetTastingBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer, err := s.tastingBeers.GetTastingBeerByID(c.Request.Context(), beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, beer)
}

type tastingBeerRequest struct {
	Name    string   `binding:"required" json:"name"`
	Styles  []string `binding:"required,min=1" json:"type"`
	Link    string   `json:"link"`
	Comment string   `json:"comment"`
}

func (s *Server) handleCreateTastingBeer(c *gin.Context) {
	var req tastingBeerRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	styles, err := s.resolveStyles(c, req.Styles)
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer, err := s.tastingBeers.AddTastingBeer(c.Request.Context(), model.TastingBeer{
		Name:    req.Name,
		Styles:  styles,
		Link:    req.Link,
		Comment: req.Comment,
	})
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, beer)
}

func (s *Server) handleUpdateTastingBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req tastingBeerRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	beer, err := s.tastingBeers.GetTastingBeerByID(c.Request.Context(), beerID)
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
	beer.Styles = styles
	beer.Link = req.Link
	beer.Comment = req.Comment

	updated, err := s.tastingBeers.UpdateTastingBeer(c.Request.Context(), beer)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTastingBeer(c *gin.Context) {
	beerID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	deleted, err := s.tastingBeers.DeleteTastingBeer(c.Request.Context(), beerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, deleted)
}
