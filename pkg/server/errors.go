package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/rating"
	"brygghaus.dev/BeerLedger/pkg/repository"
	"brygghaus.dev/BeerLedger/pkg/sheets"
	"brygghaus.dev/BeerLedger/pkg/stats"
)

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidBody   = errors.New("invalid request body")
	ErrNoValidStyles = errors.New("no valid beer styles given")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUsernameTaken = errors.New("username already taken")
)

var notFoundErrors = []error{
	repository.ErrBeerNotFound,
	repository.ErrUserNotFound,
	repository.ErrRatingNotFound,
	repository.ErrTastingNotFound,
	repository.ErrTastingBeerNotFound,
	rating.ErrBeerNotFound,
	rating.ErrRatingNotFound,
	rating.ErrTastingNotFound,
	stats.ErrUserNotFound,
	sheets.ErrUnknownCache,
}

var badRequestErrors = []error{
	rating.ErrDuplicateRating,
	rating.ErrDuplicateCheckIn,
	rating.ErrInvalidScore,
	rating.ErrBeerNotInTasting,
	ErrInvalidID,
	ErrInvalidBody,
	ErrNoValidStyles,
	ErrInvalidRole,
	ErrUsernameTaken,
}

var unauthorizedErrors = []error{
	auth.ErrWrongCredentials,
	auth.ErrAccountDisabled,
	auth.ErrInvalidToken,
	auth.ErrInsufficientRole,
	rating.ErrNotRatingOwner,
	auth.ErrNoUserInContext,
}

func statusFromError(err error) int {
	for _, candidate := range notFoundErrors {
		if errors.Is(err, candidate) {
			return http.StatusNotFound
		}
	}

	for _, candidate := range badRequestErrors {
		if errors.Is(err, candidate) {
			return http.StatusBadRequest
		}
	}

	for _, candidate := range unauthorizedErrors {
		if errors.Is(err, candidate) {
			return http.StatusUnauthorized
		}
	}

	return http.StatusInternalServerError
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
