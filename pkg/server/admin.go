package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brygghaus.dev/BeerLedger/pkg/model"
)

func (s *Server) handleListUsers(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	users, err := s.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, users)
}

type roleRequest struct {
	Role string `binding:"required" json:"role"`
}

func (s *Server) handleUpdateUserRole(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		s.respondError(c, err)

		return
	}

	var req roleRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	if !model.ValidRole(req.Role) {
		s.respondError(c, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role))

		return
	}

	user, err := s.users.UpdateUserRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, user)
}
