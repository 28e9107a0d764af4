// Package server exposes the REST API: auth, catalog, ratings, tastings,
// stats, admin, and the spreadsheet import. Handlers translate wire requests
// into service calls and service errors into HTTP statuses.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/catalog"
	"brygghaus.dev/BeerLedger/pkg/integrations"
	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/rating"
	"brygghaus.dev/BeerLedger/pkg/repository"
	"brygghaus.dev/BeerLedger/pkg/sheets"
	"brygghaus.dev/BeerLedger/pkg/stats"
)

type userStore interface {
	AddUser(ctx context.Context, username string, passwordHash string, role string) (*model.User, error)
	GetUserByName(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, page int, limit int) (*repository.Page[model.User], error)
	UpdateUserRole(ctx context.Context, userID uint, role string) (*model.User, error)
}

type beerStore interface {
	AddBeer(ctx context.Context, beer model.Beer) (*model.Beer, error)
	GetBeerByID(ctx context.Context, beerID uint) (*model.Beer, error)
	UpdateBeer(ctx context.Context, beer *model.Beer) (*model.Beer, error)
	DeleteBeer(ctx context.Context, beerID uint) error
	GetStylesByNames(ctx context.Context, names []string) ([]model.BeerType, error)
	GetAllStyles(ctx context.Context) ([]model.BeerType, error)
	AddStyle(ctx context.Context, name string) (*model.BeerType, error)
	DeleteStyle(ctx context.Context, styleID uint) (*model.BeerType, error)
}

type ratingStore interface {
	GetRatingsForUser(ctx context.Context, userID uint, beerID *uint) ([]model.Rating, error)
	GetUnratedBeers(ctx context.Context, userID uint, page int, limit int) (*repository.Page[model.Beer], error)
	GetRatedBeers(ctx context.Context, userID uint, page int, limit int) (*repository.Page[model.Beer], error)
}

type tastingStore interface {
	AddTasting(ctx context.Context, tasting model.Tasting) (*model.Tasting, error)
	GetTastingByID(ctx context.Context, tastingID uint) (*model.Tasting, error)
	FindTastings(ctx context.Context, nameQuery string, page int, limit int) (*repository.Page[model.Tasting], error)
	UpdateTasting(ctx context.Context, tasting *model.Tasting) (*model.Tasting, error)
	DeleteTasting(ctx context.Context, tastingID uint) error
}

type tastingBeerStore interface {
	AddTastingBeer(ctx context.Context, beer model.TastingBeer) (*model.TastingBeer, error)
	GetTastingBeerByID(ctx context.Context, beerID uint) (*model.TastingBeer, error)
	UpdateTastingBeer(ctx context.Context, beer *model.TastingBeer) (*model.TastingBeer, error)
	DeleteTastingBeer(ctx context.Context, beerID uint) (*model.TastingBeer, error)
}

type ratingAggregator interface {
	AddRating(ctx context.Context, beerID uint, userID uint, score float64, comment string) (*model.Rating, error)
	UpdateRating(ctx context.Context, ratingID uint, userID uint, score float64, comment string) (*model.Rating, error)
	DeleteRating(ctx context.Context, ratingID uint, userID uint) error
	AddBatchRatings(ctx context.Context, userID uint, entries []rating.BatchEntry) ([]*model.Rating, error)
	AddTastingReview(ctx context.Context, tastingID uint, userID uint, score float64, comment string) (*model.Tasting, error)
	AddBeerToTasting(ctx context.Context, tastingID uint, beerID uint) (*model.Tasting, error)
	RemoveBeerFromTasting(ctx context.Context, tastingID uint, beerID uint) (*model.Tasting, error)
	CheckIn(ctx context.Context, tastingID uint, user *model.User) (*model.Tasting, error)
	RecomputeTasting(ctx context.Context, tastingID uint) error
}

type statsEngine interface {
	GetUserStats(ctx context.Context, userID uint) (*stats.Report, error)
}

type beerCatalog interface {
	ListBeers(ctx context.Context, options catalog.Options) (*catalog.BeerPage, error)
	ListTastingBeers(ctx context.Context, options catalog.Options) (*repository.Page[model.TastingBeer], error)
}

type sheetImporter interface {
	GetBeers(ctx context.Context) (*sheets.Report, error)
	ClearCache(ctx context.Context, cacheName string) error
}

type Server struct {
	conf         *configs.Config
	users        userStore
	beers        beerStore
	ratings      ratingStore
	tastings     tastingStore
	tastingBeers tastingBeerStore
	aggregator   ratingAggregator
	stats        statsEngine
	catalog      beerCatalog
	importer     sheetImporter
	authManager  *auth.Manager
	integrations []integrations.Integration
	logger       *zap.Logger
}

func NewServer(
	conf *configs.Config,
	repo *repository.Repository,
	authManager *auth.Manager,
	aggregator ratingAggregator,
	statsEngine statsEngine,
	beerCatalog beerCatalog,
	importer sheetImporter,
	logger *zap.Logger,
) *Server {
	server := &Server{
		conf:         conf,
		users:        repo,
		beers:        repo,
		ratings:      repo,
		tastings:     repo,
		tastingBeers: repo,
		aggregator:   aggregator,
		stats:        statsEngine,
		catalog:      beerCatalog,
		importer:     importer,
		authManager:  authManager,
		logger:       logger,
	}

	for _, name := range conf.Integrations.Beer {
		if integration := integrations.GetIntegration(name, logger); integration != nil {
			server.integrations = append(server.integrations, integration)
		}
	}

	return server
}

// Router builds the gin engine with every route mounted behind the right
// auth gate.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	protected := s.authManager.Middleware(false)
	adminOnly := s.authManager.Middleware(true)

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)

	// the catalog reads are anonymous, everything that writes is not
	beers := api.Group("/beers")
	beers.GET("", s.handleListBeers)
	beers.GET("/search", adminOnly, s.handleSearchBeers)
	beers.GET("/:id", s.handleGetBeer)
	beers.POST("", protected, s.handleCreateBeer)
	beers.PUT("/:id", protected, s.handleUpdateBeer)
	beers.DELETE("/:id", adminOnly, s.handleDeleteBeer)

	ratings := api.Group("/ratings", protected)
	ratings.POST("", s.handleAddRating)
	ratings.POST("/batch", s.handleAddBatchRatings)
	ratings.PUT("/:id", s.handleUpdateRating)
	ratings.DELETE("/:id", s.handleDeleteRating)
	ratings.GET("/user-ratings", s.handleUserRatings)
	ratings.GET("/user-ratings/:beerId", s.handleUserRatings)
	ratings.GET("/unrated", s.handleUnratedBeers)
	ratings.GET("/rated", s.handleRatedBeers)

	tastings := api.Group("/tastings", protected)
	tastings.GET("", s.handleListTastings)
	tastings.GET("/:id", s.handleGetTasting)
	tastings.POST("", s.handleCreateTasting)
	tastings.PUT("/:id", s.handleUpdateTasting)
	tastings.DELETE("/:id", adminOnly, s.handleDeleteTasting)
	tastings.POST("/:id/beers/:beerId", s.handleAddBeerToTasting)
	tastings.DELETE("/:id/beers/:beerId", s.handleRemoveBeerFromTasting)
	tastings.POST("/:id/ratings", s.handleAddTastingReview)
	tastings.POST("/:id/checkin", s.handleCheckIn)

	beerTypes := api.Group("/beer-types")
	beerTypes.GET("", s.handleListBeerTypes)
	beerTypes.POST("", adminOnly, s.handleAddBeerType)
	beerTypes.DELETE("/:id", adminOnly, s.handleDeleteBeerType)

	tastingBeers := api.Group("/tasting-beers", protected)
	tastingBeers.GET("", s.handleListTastingBeers)
	tastingBeers.GET("/:id", s.handleGetTastingBeer)
	tastingBeers.POST("", s.handleCreateTastingBeer)
	tastingBeers.PUT("/:id", s.handleUpdateTastingBeer)
	tastingBeers.DELETE("/:id", s.handleDeleteTastingBeer)

	api.GET("/stats", protected, s.handleUserStats)

	admin := api.Group("/admin", adminOnly)
	admin.GET("/users", s.handleListUsers)
	admin.PUT("/users/:id/role", s.handleUpdateUserRole)

	sheetGroup := api.Group("/sheets", protected)
	sheetGroup.GET("/beers", s.handleSheetBeers)
	sheetGroup.POST("/clear-cache", adminOnly, s.handleClearSheetCache)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
