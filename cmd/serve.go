package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/catalog"
	"brygghaus.dev/BeerLedger/pkg/rating"
	"brygghaus.dev/BeerLedger/pkg/repository"
	"brygghaus.dev/BeerLedger/pkg/server"
	"brygghaus.dev/BeerLedger/pkg/sheets"
	"brygghaus.dev/BeerLedger/pkg/stats"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".BeerLedger.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	defer redisClient.Close()

	authManager := auth.NewAuthManager(conf, repo, logger)
	aggregator := rating.NewAggregator(repo, repo, repo, logger)
	statsEngine := stats.NewEngine(repo, logger)
	catalogService := catalog.NewService(repo, logger)
	importer := sheets.NewImporter(conf, sheets.NewRedisCache(redisClient, logger), logger)

	api := server.NewServer(conf, repo, authManager, aggregator, statsEngine, catalogService, importer, logger)

	address := fmt.Sprintf(":%d", conf.Server.Port)
	handler := h2c.NewHandler(configureCORS(api.Router()), &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           handler,
	}

	logger.Info("starting server", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
		},
		MaxAge:             86400, // 24 hours
		OptionsPassthrough: false,
	})

	return corsOpts.Handler(handler)
}
