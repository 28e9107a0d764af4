package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func (s *Server) handleSheetBeers(c *gin.Context) {
	report, err := s.importer.GetBeers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, report)
}

type clearCacheRequest struct {
	CacheName string `binding:"required" json:"cacheName"`
}

func (s *Server) handleClearSheetCache(c *gin.Context) {
	var req clearCacheRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	if err := s.importer.ClearCache(c.Request.Context(), req.CacheName); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("cache %q cleared", req.CacheName)})
}
