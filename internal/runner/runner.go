package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/search"
)

// Searcher runs a single search
type Searcher interface {
	Search(ctx context.Context, req search.Request) []search.Item
}

// Result is the outcome of one request
type Result struct {
	Request  search.Request `json:"-"`
	Query    string         `json:"query"`
	Mode     search.Mode    `json:"mode"`
	Items    []search.Item  `json:"items"`
	Duration time.Duration  `json:"-"`
}

// Runner executes several searches with a bounded number of workers. Each
// search owns its own sessions and attempt state.
type Runner struct {
	searcher    Searcher
	concurrency int
	logger      logger.Logger
}

// New creates a runner. concurrency below 1 is treated as 1.
func New(searcher Searcher, concurrency int, log logger.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		searcher:    searcher,
		concurrency: concurrency,
		logger:      log.WithField("component", "runner"),
	}
}

// Run searches every request and returns results in request order. It only
// fails when ctx ends before every request has started; results that
// completed are still returned.
func (r *Runner) Run(ctx context.Context, reqs []search.Request) ([]Result, error) {
	results := make([]Result, len(reqs))

	r.logger.InfoWithFields("Starting searches", map[string]interface{}{
		"requests":    len(reqs),
		"concurrency": r.concurrency,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, req := range reqs {
		i, req := i, req // per-iteration copies (go directive is 1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			items := r.searcher.Search(gctx, req)
			results[i] = Result{
				Request:  req,
				Query:    req.Query,
				Mode:     req.Mode,
				Items:    items,
				Duration: time.Since(start),
			}

			r.logger.DebugWithFields("Search completed", map[string]interface{}{
				"query":    req.Query,
				"items":    len(items),
				"duration": results[i].Duration,
			})
			return nil
		})
	}

	err := g.Wait()
	for i := range results {
		if results[i].Items == nil {
			results[i].Request = reqs[i]
			results[i].Query = reqs[i].Query
			results[i].Mode = reqs[i].Mode
			results[i].Items = []search.Item{}
		}
	}
	return results, err
}
