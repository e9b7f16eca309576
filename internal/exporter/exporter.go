// Package exporter runs one export request: manifest, legacy CMS, normalizer.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ezexport/internal/config"
	"ezexport/internal/ezpublish"
	"ezexport/internal/httpclient"
	"ezexport/internal/logger"
	"ezexport/internal/manifest"
	"ezexport/internal/models"
	"ezexport/internal/normalizer"
	"ezexport/internal/validator"
)

// Request errors.
var (
	ErrTypeMissing = errors.New("type missing")
	ErrURLsMissing = errors.New("urls missing")
)

// PageSource provides the manifest.
type PageSource interface {
	Load(ctx context.Context) ([]models.PageRecord, error)
}

// ContentSource provides legacy objects by node id.
type ContentSource interface {
	Fetch(ctx context.Context, ids []string) ([]models.LegacyObject, ezpublish.FetchStats, error)
}

// URLListing is the result of ListURLs. URLs holds paths, or full records in debug mode.
type URLListing struct {
	ContentType models.Category `json:"contentType"`
	URLs        any             `json:"urls"`
}

// Service runs export requests.
type Service struct {
	pages     PageSource
	content   ContentSource
	processor *normalizer.Processor
	logger    *logger.Logger
}

// New creates a service from its collaborators.
func New(pages PageSource, content ContentSource, processor *normalizer.Processor, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}

	return &Service{
		pages:     pages,
		content:   content,
		processor: processor,
		logger:    log,
	}
}

// NewFromConfig wires the HTTP-backed manifest loader and CMS client.
func NewFromConfig(cfg *config.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}

	client := httpclient.New(cfg.Retry, log)

	parser := manifest.NewParser(cfg.CMS.Domain, validator.New(), log.With("component", "manifest"))
	pages := manifest.NewLoader(client, cfg.Manifest.SheetURL, parser, log.With("component", "manifest"))

	content := ezpublish.NewClient(client, ezpublish.Options{
		ContentURL:           cfg.CMS.ContentURL,
		Secret:               cfg.CMS.Secret,
		Domain:               cfg.CMS.Domain,
		BatchSize:            cfg.CMS.BatchSize,
		MaxConcurrentBatches: cfg.CMS.MaxConcurrentBatches,
	}, log.With("component", "ezpublish"))

	processor := normalizer.NewProcessor(cfg.MetaDefaults(), log.With("component", "normalizer"))

	return New(pages, content, processor, log)
}

// Pages returns the manifest rows of category, optionally restricted to org.
func (s *Service) Pages(ctx context.Context, category models.Category, org string) ([]models.PageRecord, error) {
	if category == "" {
		return nil, ErrTypeMissing
	}

	pages, err := s.pages.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	return manifest.Filter(pages, category, org), nil
}

// ListURLs lists the paths of pages of category. With debug set the full
// manifest records are returned instead.
func (s *Service) ListURLs(ctx context.Context, category models.Category, org string, debug bool) (*URLListing, error) {
	pages, err := s.Pages(ctx, category, org)
	if err != nil {
		return nil, err
	}

	listing := &URLListing{ContentType: category}

	if debug {
		listing.URLs = pages
		return listing, nil
	}

	urls := make([]string, 0, len(pages))
	for _, page := range pages {
		urls = append(urls, page.URL)
	}

	listing.URLs = urls

	return listing, nil
}

// Content builds page envelopes for the requested paths in manifest order.
// Paths not in the manifest, objects the CMS did not return and pages
// rejected by the normalizer are left out.
func (s *Service) Content(ctx context.Context, urls []string) ([]models.PageEnvelope, error) {
	if len(urls) == 0 {
		return nil, ErrURLsMissing
	}

	start := time.Now()

	all, err := s.pages.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	pages := manifest.SelectURLs(all, urls)
	if len(pages) == 0 {
		s.logger.Info("no manifest pages match request", "urls", len(urls))
		return []models.PageEnvelope{}, nil
	}

	ids := nodeIDs(pages)
	if len(ids) == 0 {
		s.logger.Info("matched manifest pages have no node ids", "matched", len(pages))
		return []models.PageEnvelope{}, nil
	}

	objects, stats, err := s.content.Fetch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legacy content: %w", err)
	}

	envelopes := s.processor.BuildPages(pages, objects)

	s.logger.Info("content exported",
		"requested", len(urls),
		"matched", len(pages),
		"fetched", stats.Objects,
		"failed_batches", stats.FailedBatches,
		"exported", len(envelopes),
		"duration", time.Since(start),
	)

	return envelopes, nil
}

// nodeIDs returns the distinct non-empty node ids of pages in order.
func nodeIDs(pages []models.PageRecord) []string {
	seen := make(map[string]bool, len(pages))
	ids := make([]string, 0, len(pages))

	for _, page := range pages {
		if page.NodeID == "" || seen[page.NodeID] {
			continue
		}

		seen[page.NodeID] = true
		ids = append(ids, page.NodeID)
	}

	return ids
}
