package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func (s *Server) handleListBeerTypes(c *gin.Context) {
	styles, err := s.beers.GetAllStyles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, styles)
}

type beerTypeRequest struct {
	Name string `binding:"required" json:"name"`
}

func (s *Server) handleAddBeerType(c *gin.Context) {
	var req beerTypeRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	style, err := s.beers.AddStyle(c.Request.Context(), req.Name)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, style)
}

func (s *Server) handleDeleteBeerType(c *gin.Context) {
	styleID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	deleted, err := s.beers.DeleteStyle(c.Request.Context(), styleID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, deleted)
}
