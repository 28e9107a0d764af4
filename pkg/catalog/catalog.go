// Package catalog answers beer listing queries. It normalizes the raw query
// options into a repository filter, drops unknown styles and sort fields, and
// decorates each page with the side data the browse UI needs.
package catalog

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	minAbv       = 0
	maxAbv       = 100

	// sort fields shared with the repository's column whitelist
	defaultBeerSort        = "averageRating"
	defaultTastingBeerSort = "name"
)

var tastingBeerSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

type catalogRepository interface {
	FindBeers(ctx context.Context, filter repository.BeerFilter) (*repository.Page[model.Beer], error)
	FindTastingBeers(ctx context.Context, filter repository.BeerFilter) (*repository.Page[model.TastingBeer], error)
	GetAllStyles(ctx context.Context) ([]model.BeerType, error)
	GetBreweries(ctx context.Context) ([]string, error)
}

// Options holds the raw, untrusted query values as received on the wire.
// Zero values mean "not provided".
type Options struct {
	Page      string
	Limit     string
	Styles    string
	Breweries string
	Query     string
	AbvMin    string
	AbvMax    string
	SortField string
	SortOrder string
}

// BeerPage is one page of catalog results together with the filter
// vocabulary the client can use to refine the query.
type BeerPage struct {
	*repository.Page[model.Beer]
	ValidBeerTypes []string `json:"validBeerTypes"`
	Breweries      []string `json:"breweries"`
}

type Service struct {
	repo   catalogRepository
	logger *zap.Logger
}

func NewService(repo catalogRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListBeers runs one catalog query. Unknown styles and sort fields are
// silently dropped rather than rejected, so a stale client keeps working.
func (s *Service) ListBeers(ctx context.Context, options Options) (*BeerPage, error) {
	registry, err := s.repo.GetAllStyles(ctx)
	if err != nil {
		return nil, err
	}

	styleNames := make([]string, 0, len(registry))
	for _, style := range registry {
		styleNames = append(styleNames, style.Name)
	}

	filter := s.beerFilter(options, styleNames)

	page, err := s.repo.FindBeers(ctx, filter)
	if err != nil {
		return nil, err
	}

	breweries, err := s.repo.GetBreweries(ctx)
	if err != nil {
		return nil, err
	}

	return &BeerPage{Page: page, ValidBeerTypes: styleNames, Breweries: breweries}, nil
}

// ListTastingBeers pages through the tasting wishlist with the same option
// syntax as the main catalog, minus the rating sort.
func (s *Service) ListTastingBeers(ctx context.Context, options Options) (*repository.Page[model.TastingBeer], error) {
	registry, err := s.repo.GetAllStyles(ctx)
	if err != nil {
		return nil, err
	}

	styleNames := make([]string, 0, len(registry))
	for _, style := range registry {
		styleNames = append(styleNames, style.Name)
	}

	filter := s.beerFilter(options, styleNames)

	column, ok := tastingBeerSortColumns[options.SortField]
	if !ok {
		column = tastingBeerSortColumns[defaultTastingBeerSort]
	}

	filter.SortField = column

	return s.repo.FindTastingBeers(ctx, filter)
}

func (s *Service) beerFilter(options Options, registry []string) repository.BeerFilter {
	filter := repository.BeerFilter{
		Page:      positiveInt(options.Page, defaultPage),
		Limit:     positiveInt(options.Limit, defaultLimit),
		Query:     strings.TrimSpace(options.Query),
		Styles:    knownStyles(options.Styles, registry),
		Breweries: splitList(options.Breweries),
		AbvMin:    clampedFloat(options.AbvMin, minAbv),
		AbvMax:    clampedFloat(options.AbvMax, maxAbv),
		SortOrder: sortOrder(options.SortOrder),
	}

	column, ok := repository.BeerSortColumn(options.SortField)
	if !ok {
		if options.SortField != "" {
			s.logger.Debug("ignoring unknown sort field", zap.String("field", options.SortField))
		}

		column, _ = repository.BeerSortColumn(defaultBeerSort)
	}

	filter.SortField = column

	return filter
}

// knownStyles intersects the requested styles with the registry, preserving
// request order.
func knownStyles(raw string, registry []string) []string {
	requested := splitList(raw)
	if len(requested) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(registry))
	for _, name := range registry {
		known[name] = struct{}{}
	}

	kept := make([]string, 0, len(requested))

	for _, name := range requested {
		if _, ok := known[name]; ok {
			kept = append(kept, name)
		}
	}

	return kept
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

func positiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}

	return value
}

// clampedFloat parses an ABV bound, falling back and clamping to the legal
// 0..100 range.
func clampedFloat(raw string, fallback float64) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	if value < minAbv {
		return minAbv
	}

	if value > maxAbv {
		return maxAbv
	}

	return value
}

// sortOrder accepts 1 (ascending) or -1 (descending); anything else means
// descending.
func sortOrder(raw string) int {
	if raw == "1" {
		return 1
	}

	return -1
}
