package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brygghaus.dev/BeerLedger/pkg/model"
)

type credentialsRequest struct {
	Username string `binding:"required,min=2" json:"username"`
	Password string `binding:"required,min=6" json:"password"`
}

type authResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// handleRegister creates a viewer account. An admin must promote it before it
// can write anything.
func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	ctx := c.Request.Context()

	if _, err := s.users.GetUserByName(ctx, req.Username); err == nil {
		s.respondError(c, fmt.Errorf("%w: %q", ErrUsernameTaken, req.Username))

		return
	}

	hash, err := s.authManager.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, err)

		return
	}

	user, err := s.users.AddUser(ctx, req.Username, hash, model.RoleViewer)
	if err != nil {
		s.respondError(c, err)

		return
	}

	token, err := s.authManager.GenerateToken(user)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, authResponse{ID: user.ID, Username: user.Username, Role: user.Role, Token: token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))

		return
	}

	token, user, err := s.authManager.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, authResponse{ID: user.ID, Username: user.Username, Role: user.Role, Token: token})
}

// pathID parses the named numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, c.Param(name))
	}

	return uint(value), nil
}

// intQuery parses a positive integer query value, falling back on anything else.
func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 1 {
		return fallback
	}

	return value
}
