// Package sheets imports the legacy beer list kept in a shared Google Sheet.
// Results are cached because the sheet changes rarely and the values API is
// slow and rate limited.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/rating"
)

var (
	ErrEmptySheet      = errors.New("no data found in sheet")
	ErrUnknownCache    = errors.New("unknown cache")
	ErrSheetUnreadable = errors.New("sheet fetch failed")
)

const (
	beersCacheKey = "sheets:beers"

	nameColumn   = 0
	styleColumn  = 1
	ratingColumn = 6
)

// valuesResponse is the shape of the Google Sheets values API payload.
type valuesResponse struct {
	Values [][]string `json:"values"`
}

// SheetBeer is the best-rated beer of one style, as found in the sheet.
type SheetBeer struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Style  string  `json:"style"`
}

// StyleSummary aggregates one style's rows.
type StyleSummary struct {
	Style              string    `json:"style"`
	Count              int       `json:"count"`
	TopBeer            SheetBeer `json:"topBeer"`
	AverageStyleRating float64   `json:"averageStyleRating"`
}

// Report is the full import result: the header row, the data rows sorted by
// rating, and the per-style rollup.
type Report struct {
	Headers []string       `json:"headers"`
	Data    [][]string     `json:"data"`
	Styles  []StyleSummary `json:"styleArray"`
}

type Importer struct {
	conf     *configs.Config
	client   *http.Client
	cache    Cache
	logger   *zap.Logger
	sheetURL func() string
}

func NewImporter(conf *configs.Config, cache Cache, logger *zap.Logger) *Importer {
	importer := &Importer{
		conf:   conf,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
		logger: logger,
	}
	importer.sheetURL = importer.valuesURL

	return importer
}

func (i *Importer) valuesURL() string {
	return fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?key=%s",
		url.PathEscape(i.conf.SheetImport.SpreadsheetID),
		url.PathEscape(i.conf.SheetImport.Range),
		url.QueryEscape(i.conf.SheetImport.APIKey))
}

// GetBeers returns the imported sheet, served from cache when fresh.
func (i *Importer) GetBeers(ctx context.Context) (*Report, error) {
	ttl := time.Duration(i.conf.SheetImport.CacheTTLHours) * time.Hour

	payload, err := i.cache.GetOrCompute(ctx, beersCacheKey, ttl, func(ctx context.Context) ([]byte, error) {
		report, err := i.fetch(ctx)
		if err != nil {
			return nil, err
		}

		return marshalCached(report)
	})
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decoding cached sheet: %w", err)
	}

	return &report, nil
}

// ClearCache drops one named cache so the next read refetches. Only the beers
// cache exists today.
func (i *Importer) ClearCache(ctx context.Context, cacheName string) error {
	if cacheName != "beers" {
		return fmt.Errorf("%w: %q", ErrUnknownCache, cacheName)
	}

	return i.cache.Delete(ctx, beersCacheKey)
}

func (i *Importer) fetch(ctx context.Context) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.sheetURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetUnreadable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSheetUnreadable, resp.StatusCode)
	}

	var values valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSheetUnreadable, err)
	}

	i.logger.Info("fetched sheet", zap.Int("rows", len(values.Values)))

	return buildReport(values.Values)
}

// buildReport turns raw sheet rows into the import report. The first row is
// the header; rows with a blank name are dropped; the rest sort by rating,
// best first.
func buildReport(rows [][]string) (*Report, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headers := rows[0]

	data := make([][]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[nameColumn]) == "" {
			continue
		}

		data = append(data, row)
	}

	sort.SliceStable(data, func(i, j int) bool {
		return rowRating(data[i]) > rowRating(data[j])
	})

	return &Report{Headers: headers, Data: data, Styles: styleSummaries(data)}, nil
}

func styleSummaries(data [][]string) []StyleSummary {
	byStyle := map[string]*StyleSummary{}

	var order []string

	for _, row := range data {
		style := cell(row, styleColumn)
		score := rowRating(row)

		summary, ok := byStyle[style]
		if !ok {
			summary = &StyleSummary{Style: style}
			byStyle[style] = summary
			order = append(order, style)
		}

		summary.Count++
		summary.AverageStyleRating += score

		// ties go to the later row, matching the sheet's manual ordering
		if rating.Round2(summary.TopBeer.Rating) <= rating.Round2(score) {
			summary.TopBeer = SheetBeer{Name: cell(row, nameColumn), Rating: rating.Round2(score), Style: style}
		}
	}

	summaries := make([]StyleSummary, 0, len(order))

	for _, style := range order {
		summary := byStyle[style]
		summary.AverageStyleRating = rating.Round2(summary.AverageStyleRating / float64(summary.Count))
		summaries = append(summaries, *summary)
	}

	return summaries
}

func rowRating(row []string) float64 {
	value, err := strconv.ParseFloat(cell(row, ratingColumn), 64)
	if err != nil {
		return 0
	}

	return value
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}

	return row[index]
}
