package search

import (
	"context"

	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/metrics"
)

// Searcher is the entry point: it runs a request through the driver and
// normalizes whatever comes back
type Searcher struct {
	driver     *Driver
	maxRetries int
	log        logger.Logger
}

// NewSearcher creates a searcher backed by provider
func NewSearcher(provider SessionProvider, opts Options) *Searcher {
	return &Searcher{
		driver:     NewDriver(provider, opts),
		maxRetries: opts.MaxRetries,
		log:        opts.logger(),
	}
}

// Search returns the normalized results for req. It never fails: when nothing
// could be retrieved the result is empty.
func (s *Searcher) Search(ctx context.Context, req Request) []Item {
	log := s.log.WithFields(map[string]interface{}{
		"query": req.Query,
		"mode":  req.Mode.String(),
	})
	log.InfoWithFields("Starting search", map[string]interface{}{
		"minimum_items": req.MinimumItems,
		"max_retries":   s.maxRetries,
	})

	items := Normalize(s.driver.Run(ctx, req, s.maxRetries))
	metrics.ItemsCollected.Observe(float64(len(items)))

	log.InfoWithFields("Search finished", map[string]interface{}{
		"items": len(items),
	})
	return items
}
