package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brygghaus.dev/BeerLedger/pkg/auth"
)

// handleUserStats returns the caller's statistics snapshot.
func (s *Server) handleUserStats(c *gin.Context) {
	user, err := auth.UserFromContext(c)
	if err != nil {
		s.respondError(c, err)

		return
	}

	report, err := s.stats.GetUserStats(c.Request.Context(), user.ID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, report)
}
