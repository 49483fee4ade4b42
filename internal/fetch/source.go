package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/verity/internal/model"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrNoHeadline is returned when a page has no og:title, <title> or <h1>
var ErrNoHeadline = errors.New("no headline found")

// HostThrottler slows requests to a host down to at most one per interval
type HostThrottler interface {
	LimitHost(host string, interval time.Duration)
}

// PageSource turns article URLs into headlines for classification
type PageSource struct {
	fetcher *Fetcher
	robots  *RobotsChecker
	logger  *slog.Logger
}

// NewPageSource builds a PageSource from the outbound HTTP config.
// robots.txt is only consulted when cfg.RespectRobots is set.
func NewPageSource(cfg model.HTTPConfig, logger *slog.Logger) *PageSource {
	if logger == nil {
		logger = slog.Default()
	}

	s := &PageSource{
		fetcher: NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		logger:  logger,
	}
	if cfg.RespectRobots {
		s.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return s
}

// ThrottleWith applies robots.txt crawl delays to t as hosts are discovered.
// It has no effect when robots.txt is not consulted.
func (s *PageSource) ThrottleWith(t HostThrottler) {
	if s.robots == nil || t == nil {
		return
	}
	s.robots.OnCrawlDelay(func(host string, delay time.Duration) {
		s.logger.Debug("honouring robots.txt crawl delay", "host", host, "delay", delay)
		t.LimitHost(host, delay)
	})
}

// Headline fetches rawURL and returns its headline
func (s *PageSource) Headline(ctx context.Context, rawURL string) (string, error) {
	if s.robots != nil {
		allowed, _, err := s.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	page, err := s.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	headline, err := ExtractHeadline(strings.NewReader(page.HTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if headline == "" {
		return "", fmt.Errorf("%s: %w", rawURL, ErrNoHeadline)
	}

	s.logger.Debug("headline extracted", "url", page.FinalURL, "headline", headline)
	return headline, nil
}
