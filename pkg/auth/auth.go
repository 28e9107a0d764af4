// Package auth issues and verifies the bearer tokens guarding the REST API,
// and enforces the role rules: disabled accounts are locked out, viewers may
// only read, admin-only routes require the admin role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/model"
)

var (
	ErrNoAuthHeader     = errors.New("authorization header not found")
	ErrBadAuthFormat    = errors.New("authorization format must be Bearer {token}")
	ErrInvalidToken     = errors.New("invalid token")
	ErrAccountDisabled  = errors.New("account is disabled")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrWrongCredentials = errors.New("wrong username or password")
	ErrNoUserInContext  = errors.New("no authenticated user in context")
)

const userContextKey = "authenticatedUser"

type userRepository interface {
	GetUserByName(ctx context.Context, username string) (*model.User, error)
}

type Manager struct {
	conf   *configs.Config
	repo   userRepository
	logger *zap.Logger
}

func NewAuthManager(conf *configs.Config, repo userRepository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, repo: repo, logger: logger}
}

func (a *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

func (a *Manager) CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login verifies the credentials and returns a signed token. Disabled accounts
// fail with ErrAccountDisabled regardless of password correctness.
func (a *Manager) Login(ctx context.Context, username string, password string) (string, *model.User, error) {
	user, err := a.repo.GetUserByName(ctx, username)
	if err != nil {
		return "", nil, ErrWrongCredentials
	}

	if !a.CheckPassword(user.Password, password) {
		return "", nil, ErrWrongCredentials
	}

	if user.Role == model.RoleDisabled {
		return "", nil, ErrAccountDisabled
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (a *Manager) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.UUID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Duration(a.conf.Auth.TokenTTLHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(a.conf.Auth.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (a *Manager) ParseToken(tokenString string) (jwt.MapClaims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}

		return []byte(a.conf.Auth.SecretKey), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, found := token.Claims.(jwt.MapClaims)
	if !found || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Middleware authenticates each request and loads the account into the gin
// context. With requireAdmin set, non-admins are rejected outright; otherwise
// viewers are limited to read-only methods and disabled accounts to nothing.
func (a *Manager) Middleware(requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractTokenFromHeader(c.Request.Header)
		if err != nil {
			a.abort(c, err)

			return
		}

		claims, err := a.ParseToken(tokenString)
		if err != nil {
			a.logger.Warn("rejected token", zap.Error(err))
			a.abort(c, err)

			return
		}

		username, found := claims["username"].(string)
		if !found {
			a.abort(c, ErrInvalidToken)

			return
		}

		user, err := a.repo.GetUserByName(c.Request.Context(), username)
		if err != nil {
			a.logger.Warn("token for unknown user", zap.String("username", username))
			a.abort(c, ErrInvalidToken)

			return
		}

		if user.Role == model.RoleDisabled {
			a.abort(c, ErrAccountDisabled)

			return
		}

		if requireAdmin && user.Role != model.RoleAdmin {
			a.abort(c, ErrInsufficientRole)

			return
		}

		if user.Role == model.RoleViewer && !readOnlyMethod(c.Request.Method) {
			a.abort(c, ErrInsufficientRole)

			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// UserFromContext returns the account Middleware stored for this request.
func UserFromContext(c *gin.Context) (*model.User, error) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, ErrNoUserInContext
	}

	user, ok := value.(*model.User)
	if !ok {
		return nil, ErrNoUserInContext
	}

	return user, nil
}

func (a *Manager) abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}

func readOnlyMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func extractTokenFromHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		return "", ErrNoAuthHeader
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return "", ErrBadAuthFormat
	}

	return token, nil
}
