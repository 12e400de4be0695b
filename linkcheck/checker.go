package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"skillaudit/logging"
)

// DefaultArchiveEndpoint is the public wayback availability API.
const DefaultArchiveEndpoint = "https://archive.org/wayback/available"

// Config holds the checker's explicit configuration. There is no shared
// process-wide client; each Checker owns its own.
type Config struct {
	Concurrency     int           // worker pool width (default 10)
	Timeout         time.Duration // per-probe timeout (default 10s)
	UserAgent       string
	ArchiveEndpoint string // snapshot-archive lookup endpoint
}

// DefaultConfig returns a Config with the standard pool width and timeout.
func DefaultConfig() Config {
	return Config{
		Concurrency:     10,
		Timeout:         10 * time.Second,
		UserAgent:       "skillaudit/1.0 (link validation)",
		ArchiveEndpoint: DefaultArchiveEndpoint,
	}
}

// Checker probes unique URLs under a bounded worker pool.
type Checker struct {
	cfg    Config
	client *http.Client
	log    logging.Logger
	events chan<- Event
}

// NewChecker creates a Checker. The events channel is optional; pass nil to
// disable progress events.
func NewChecker(cfg Config, log logging.Logger, events chan<- Event) *Checker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.ArchiveEndpoint == "" {
		cfg.ArchiveEndpoint = DefaultArchiveEndpoint
	}
	if log == nil {
		log = logging.Discard()
	}
	// Per-probe deadlines come from request contexts; the client itself
	// carries no timeout so the two cannot fight.
	return &Checker{cfg: cfg, client: &http.Client{}, log: log, events: events}
}

// Check probes every URL exactly once and returns one outcome per URL.
// Workers drain a jobs channel; completions arrive in arbitrary order and
// the collector must not assume otherwise. A failure on one URL never
// aborts its siblings. The errgroup join barrier guarantees every
// dispatched probe is accounted for before Check returns.
func (c *Checker) Check(ctx context.Context, urls []string) (map[string]Outcome, error) {
	outcomes := make(map[string]Outcome, len(urls))
	if len(urls) == 0 {
		return outcomes, nil
	}

	jobs := make(chan string)
	results := make(chan Outcome)

	grp, grpCtx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		defer close(jobs)
		for _, url := range urls {
			select {
			case jobs <- url:
			case <-grpCtx.Done():
				return fmt.Errorf("dispatch probes: %w", grpCtx.Err())
			}
		}
		return nil
	})

	workers := min(c.cfg.Concurrency, len(urls))
	var workerGrp errgroup.Group
	for w := 0; w < workers; w++ {
		workerGrp.Go(func() error {
			for url := range jobs {
				results <- c.safeProbe(grpCtx, url)
			}
			return nil
		})
	}

	go func() {
		_ = workerGrp.Wait()
		close(results)
	}()

	checked, broken := 0, 0
	for out := range results {
		outcomes[out.URL] = out
		checked++
		if !out.Reachable {
			broken++
		}
		if c.events != nil {
			c.events <- Event{
				URL:     out.URL,
				Outcome: out,
				Checked: checked,
				Broken:  broken,
				Total:   len(urls),
			}
		}
		if checked%10 == 0 || checked == len(urls) {
			c.log.WithFields(logging.Fields{"checked": checked, "total": len(urls)}).
				Debug("probe progress")
		}
	}

	if err := grp.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
