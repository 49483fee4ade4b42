package model

import (
	"path/filepath"
	"time"
)

// DefaultArtifactPath is where training writes the artifact unless told otherwise
var DefaultArtifactPath = filepath.Join("artifacts", "model.json")

// Config holds the complete verity configuration
type Config struct {
	Artifact     ArtifactConfig     `yaml:"artifact" mapstructure:"artifact"`
	Train        TrainConfig        `yaml:"train" mapstructure:"train"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Feed         FeedConfig         `yaml:"feed" mapstructure:"feed"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// ArtifactConfig controls where the model artifact lives
type ArtifactConfig struct {
	Path        string   `yaml:"path" mapstructure:"path"`                 // Explicit artifact path (empty = search)
	SearchPaths []string `yaml:"search_paths" mapstructure:"search_paths"` // Candidates tried in order when Path is empty
}

// TrainConfig controls model fitting
type TrainConfig struct {
	Backend        string  `yaml:"backend" mapstructure:"backend"` // auto, statistical, rules
	MaxIterations  int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Regularization float64 `yaml:"regularization" mapstructure:"regularization"` // Inverse L2 strength, like C in liblinear
}

// ServerConfig controls the HTTP transport
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
}

// HTTPConfig controls outbound fetches of feeds and article pages
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`   // Empty = use HTTP_PROXY env
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"` // Empty = use HTTPS_PROXY env
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ConcurrencyConfig controls batch fan-out
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig applies per host to outbound page fetches
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// FeedConfig controls feed scoring
type FeedConfig struct {
	Count   int               `yaml:"count" mapstructure:"count"`
	Presets map[string]string `yaml:"presets" mapstructure:"presets"`
}

// LogConfig controls slog output
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Artifact: ArtifactConfig{
			Path: "",
		},
		Train: TrainConfig{
			Backend:        "auto",
			MaxIterations:  1000,
			Regularization: 1.0,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Verity/0.1 (+https://github.com/ppiankov/verity)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Feed: FeedConfig{
			Count: 20,
			Presets: map[string]string{
				"hn":  "https://hnrss.org/newest",
				"tr":  "https://www.technologyreview.com/feed/",
				"bbc": "https://feeds.bbci.co.uk/news/rss.xml",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
