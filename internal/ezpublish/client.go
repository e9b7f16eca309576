// Package ezpublish fetches content objects from the legacy eZ Publish export API.
package ezpublish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"ezexport/internal/logger"
	"ezexport/internal/models"
	"ezexport/pkg/utils"
)

// Client errors.
var (
	ErrMissingContentURL    = errors.New("legacy content URL is not configured")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const (
	defaultBatchSize     = 10
	defaultMaxConcurrent = 4
)

// Options configures the client.
type Options struct {
	ContentURL           string
	Secret               string
	Domain               string
	BatchSize            int
	MaxConcurrentBatches int
}

// Client posts node ids to the legacy export endpoint in batches.
type Client struct {
	http    *resty.Client
	opts    Options
	headers map[string]string
	logger  *logger.Logger
}

// FetchStats summarises one Fetch call.
type FetchStats struct {
	Batches       int
	FailedBatches int
	Objects       int
}

type contentRequest struct {
	IDs []string `json:"ids"`
}

type contentResponse struct {
	Data []models.LegacyObject `json:"data"`
}

// NewClient creates a client. Non-positive batch settings fall back to 10 ids
// per batch and 4 batches in flight.
func NewClient(httpClient *resty.Client, opts Options, log *logger.Logger) *Client {
	if opts.BatchSize < 1 {
		opts.BatchSize = defaultBatchSize
	}

	if opts.MaxConcurrentBatches < 1 {
		opts.MaxConcurrentBatches = defaultMaxConcurrent
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		http:    httpClient,
		opts:    opts,
		headers: utils.BuildHeaders(opts.Secret, nil),
		logger:  log,
	}
}

// FetchBatch requests a single batch of node ids.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]models.LegacyObject, error) {
	if c.opts.ContentURL == "" {
		return nil, ErrMissingContentURL
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers).
		SetBody(contentRequest{IDs: ids}).
		Post(c.opts.ContentURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode())
	}

	objects, err := DecodeObjects(resp.Body())
	if err != nil {
		return nil, err
	}

	AbsolutizeImages(objects, c.opts.Domain)

	return objects, nil
}

// Fetch requests all ids in bounded-concurrency batches. A batch that fails
// or returns no data is logged and contributes nothing; only a cancelled
// context makes Fetch itself fail. Objects come back in batch order.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]models.LegacyObject, FetchStats, error) {
	if c.opts.ContentURL == "" {
		return nil, FetchStats{}, ErrMissingContentURL
	}

	batches := chunk(ids, c.opts.BatchSize)
	results := make([][]models.LegacyObject, len(batches))
	stats := FetchStats{Batches: len(batches)}

	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.opts.MaxConcurrentBatches)

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			objects, err := c.FetchBatch(ctx, batch)
			if err != nil {
				c.logger.Error("legacy batch failed", "batch", i, "ids", len(batch), "error", err)

				mu.Lock()
				stats.FailedBatches++
				mu.Unlock()

				return nil
			}

			if len(objects) == 0 {
				c.logger.Warn("legacy batch returned no data", "batch", i, "ids", len(batch))
			}

			results[i] = objects

			return nil
		})
	}

	// Batch goroutines never return errors.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("legacy fetch cancelled: %w", err)
	}

	var objects []models.LegacyObject
	for _, batch := range results {
		objects = append(objects, batch...)
	}

	stats.Objects = len(objects)

	c.logger.Debug("legacy fetch complete", "batches", stats.Batches, "failed", stats.FailedBatches, "objects", stats.Objects)

	return objects, stats, nil
}

// DecodeObjects parses an export response body ({"data": [...]}) or a bare
// JSON array of objects, as found in saved dumps. A missing data key yields no objects.
func DecodeObjects(data []byte) ([]models.LegacyObject, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var objects []models.LegacyObject
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, fmt.Errorf("failed to parse objects: %w", err)
		}

		return objects, nil
	}

	var body contentResponse
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return body.Data, nil
}

// AbsolutizeImages prefixes image field values with the public domain, in place.
func AbsolutizeImages(objects []models.LegacyObject, domain string) {
	for i := range objects {
		fields := objects[i].Fields
		for j := range fields {
			if fields[j].IsImage() {
				fields[j].Value = models.Text(utils.JoinURL(domain, fields[j].Value.String()))
			}
		}
	}
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}

	return batches
}
