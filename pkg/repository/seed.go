package repository

import (
	"context"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
)

var defaultStyles = []string{
	"IPA", "Lager", "Stout", "Pilsner", "Ale", "Porter", "Wheat",
	"Saison", "Sour", "Hazy", "APA", "Cider", "Festbier", "Other",
}

// SeedStyles installs the default style vocabulary on an empty registry.
func (r *Repository) SeedStyles(ctx context.Context) error {
	var count int64

	if result := r.DB.WithContext(ctx).Model(&model.BeerType{}).Count(&count); result.Error != nil {
		return result.Error
	}

	if count > 0 {
		r.Logger.Info("beer types already exist, skipping seeding", zap.Int64("count", count))

		return nil
	}

	styles := make([]model.BeerType, 0, len(defaultStyles))
	for _, name := range defaultStyles {
		styles = append(styles, model.BeerType{Name: name})
	}

	if result := r.DB.WithContext(ctx).Create(&styles); result.Error != nil {
		return result.Error
	}

	r.Logger.Info("seeded default beer types", zap.Int("count", len(styles)))

	return nil
}
