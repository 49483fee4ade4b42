package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// DelayFunc receives the crawl delay a host asks for. It is called at most
// once per host, when that host's robots.txt is first read.
type DelayFunc func(host string, delay time.Duration)

// hostRules is one host's robots.txt plus the group that applies to our agent
type hostRules struct {
	data  *robotstxt.RobotsData
	group *robotstxt.Group
}

func (h hostRules) allows(path, agent string) bool {
	return h.data.TestAgent(path, agent)
}

func (h hostRules) crawlDelay() time.Duration {
	if h.group == nil {
		return 0
	}
	return h.group.CrawlDelay
}

// RobotsChecker answers robots.txt questions for one user agent, reading each
// host's file once
type RobotsChecker struct {
	agent      string
	userAgent  string
	httpClient *http.Client

	mu      sync.Mutex
	hosts   map[string]hostRules
	onDelay DelayFunc
}

// NewRobotsChecker creates a new robots.txt checker
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		agent:      NormalizeUserAgent(userAgent),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		hosts:      make(map[string]hostRules),
	}
}

// OnCrawlDelay registers fn to be told about non-zero crawl delays
func (r *RobotsChecker) OnCrawlDelay(fn DelayFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelay = fn
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the site asks for.
// An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	rules, err := r.rulesFor(ctx, parsed)
	if err != nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return rules.allows(path, r.agent), rules.crawlDelay(), nil
}

func (r *RobotsChecker) rulesFor(ctx context.Context, target *url.URL) (hostRules, error) {
	r.mu.Lock()
	rules, ok := r.hosts[target.Host]
	r.mu.Unlock()
	if ok {
		return rules, nil
	}

	data, err := r.download(ctx, fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host))
	if err != nil {
		return hostRules{}, err
	}
	rules = hostRules{data: data, group: data.FindGroup(r.agent)}

	r.mu.Lock()
	_, raced := r.hosts[target.Host]
	r.hosts[target.Host] = rules
	onDelay := r.onDelay
	r.mu.Unlock()

	if !raced && onDelay != nil && rules.crawlDelay() > 0 {
		onDelay(target.Host, rules.crawlDelay())
	}
	return rules, nil
}

func (r *RobotsChecker) download(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 4xx means allow-all, 5xx disallow-all
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// Clear forgets every host's rules
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = make(map[string]hostRules)
}

// NormalizeUserAgent reduces a user agent string to its product token
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) > 0 {
		return strings.Split(parts[0], "/")[0]
	}
	return ua
}
