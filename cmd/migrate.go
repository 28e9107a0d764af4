package cmd

import (
	"context"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

type MigrateCmd struct {
	ConfigFile string `default:".BeerLedger.toml" help:"Path to config file" short:"c"`
}

func (m *MigrateCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(m.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Fatal("error connecting to database")
	}
	defer repo.Close()

	err = repo.DB.AutoMigrate(
		&model.BeerType{}, &model.Beer{}, &model.TastingBeer{},
		&model.User{}, &model.Rating{},
		&model.Tasting{}, &model.TastingReview{})
	if err != nil {
		return err
	}

	return repo.SeedStyles(context.Background())
}
