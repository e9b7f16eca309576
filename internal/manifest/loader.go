// Package manifest loads the spreadsheet export listing legacy pages to migrate.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"ezexport/internal/logger"
	"ezexport/internal/models"
)

// Manifest errors.
var (
	ErrMissingSheetURL  = errors.New("manifest sheet URL is not configured")
	ErrSheetUnavailable = errors.New("manifest sheet unavailable")
)

// Loader fetches and parses the manifest sheet on every call.
type Loader struct {
	client   *resty.Client
	sheetURL string
	parser   *Parser
	logger   *logger.Logger
}

// NewLoader creates a loader for the sheet at sheetURL.
func NewLoader(client *resty.Client, sheetURL string, parser *Parser, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}

	return &Loader{
		client:   client,
		sheetURL: sheetURL,
		parser:   parser,
		logger:   log,
	}
}

// Load downloads the sheet and returns its valid rows in sheet order.
func (l *Loader) Load(ctx context.Context) ([]models.PageRecord, error) {
	if l.sheetURL == "" {
		return nil, ErrMissingSheetURL
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(l.sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSheetUnavailable, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrSheetUnavailable, resp.StatusCode())
	}

	pages, err := l.parser.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}

	l.logger.Debug("manifest loaded", "pages", len(pages), "bytes", len(resp.Body()))

	return pages, nil
}

// Filter keeps pages of the given category and, when org is non-empty, organisation.
// CategoryAll matches every category.
func Filter(pages []models.PageRecord, category models.Category, org string) []models.PageRecord {
	filtered := make([]models.PageRecord, 0, len(pages))

	for _, page := range pages {
		if category != models.CategoryAll && page.Category != category {
			continue
		}

		if org != "" && page.Org != org {
			continue
		}

		filtered = append(filtered, page)
	}

	return filtered
}

// SelectURLs returns the pages whose path is in urls, keeping manifest order.
func SelectURLs(pages []models.PageRecord, urls []string) []models.PageRecord {
	wanted := make(map[string]bool, len(urls))
	for _, u := range urls {
		wanted[u] = true
	}

	selected := make([]models.PageRecord, 0, len(urls))

	for _, page := range pages {
		if wanted[page.URL] {
			selected = append(selected, page)
		}
	}

	return selected
}
