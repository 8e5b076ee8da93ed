package collect

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"site-audit/internal/audit"
)

// Collector runs every probe for a URL and assembles the signal set.
// Probes that fail leave their group nil; the engine degrades to its
// fallbacks, so Collect itself only errors on a cancelled context.
type Collector struct {
	page      *PageCollector
	pagespeed *PageSpeedClient
	security  *SecurityProbe
	logger    *slog.Logger

	probeTimeout time.Duration
}

// Config tunes the collector. Zero values get sensible defaults.
type Config struct {
	PageTimeout  time.Duration
	ProbeTimeout time.Duration
	PageSpeed    PageSpeedConfig
	Logger       *slog.Logger
}

func NewCollector(cfg Config) *Collector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 60 * time.Second
	}
	return &Collector{
		page:         NewPageCollector(cfg.PageTimeout),
		pagespeed:    NewPageSpeedClient(cfg.PageSpeed),
		security:     NewSecurityProbe(cfg.PageTimeout),
		logger:       logger,
		probeTimeout: probeTimeout,
	}
}

// Collect gathers all signal groups for a URL. The page fetch runs
// first because the security probe consumes its response headers; the
// PageSpeed call runs concurrently with both.
func (c *Collector) Collect(ctx context.Context, rawURL string) (audit.RawSignals, error) {
	var signals audit.RawSignals

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		probeCtx, cancel := context.WithTimeout(groupCtx, c.probeTimeout)
		defer cancel()
		perf, err := c.pagespeed.Analyze(probeCtx, rawURL)
		if err != nil {
			c.logger.Warn("pagespeed probe failed", "url", rawURL, "error", err)
			return nil
		}
		signals.Performance = perf
		return nil
	})

	group.Go(func() error {
		probeCtx, cancel := context.WithTimeout(groupCtx, c.probeTimeout)
		defer cancel()

		page, err := c.page.Fetch(probeCtx, rawURL)
		if err != nil {
			c.logger.Warn("page probe failed", "url", rawURL, "error", err)
			return nil
		}
		signals.SEO = page.SEO
		signals.Mobile = page.Mobile
		signals.Content = page.Content
		signals.UIUX = page.UIUX
		signals.Platform = page.Platform

		security, err := c.security.Probe(probeCtx, page.FinalURL, page.Headers, page.MixedCount)
		if err != nil {
			c.logger.Warn("security probe failed", "url", rawURL, "error", err)
			return nil
		}
		signals.Security = security
		return nil
	})

	if err := group.Wait(); err != nil {
		return signals, err
	}
	if err := ctx.Err(); err != nil {
		return signals, err
	}
	return signals, nil
}
