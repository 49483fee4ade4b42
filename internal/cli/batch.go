package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verity/internal/fetch"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/worker"
)

var (
	batchURLs        bool
	batchConcurrency int
	batchModel       string
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify every line of a file in parallel",
	Long: `Batch reads one text per line (blank lines are skipped), classifies
them concurrently and writes one JSON object per line to stdout, in input
order. Lines starting with # are classified like any other text.

With --urls each line is an article URL: the page is fetched (honouring
robots.txt, its Crawl-delay and the per-host rate limit) and its headline
is classified. In URL lists, # comment lines and duplicates are skipped.

Example:
  verity batch headlines.txt
  verity batch urls.txt --urls --concurrency 8
  verity batch headlines.txt --model /tmp/model.json > scored.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&batchURLs, "urls", false, "treat each line as an article URL and classify its headline")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "artifact path (default: artifact.path, then search paths)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

// scoredLine is one line of batch and feed output
type scoredLine struct {
	URL   string      `json:"url,omitempty"`
	Text  string      `json:"text"`
	Label model.Label `json:"label,omitempty"`
	Score *float64    `json:"score,omitempty"`
	Error string      `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	workers := batchConcurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	predictor := newPredictor()
	path := artifactPath(batchModel)

	// fail fast instead of reporting a missing artifact once per line
	if _, _, err := predictor.Load(path); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	opts := []worker.BatchOption{worker.WithArtifactPath(path)}
	if batchURLs {
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
		src := fetch.NewPageSource(cfg.HTTP, logger)
		src.ThrottleWith(limiter)
		opts = append(opts, worker.WithFetcher(src), worker.WithLimiter(limiter))
	}
	processor := worker.NewBatchProcessor(predictor, workers, opts...)

	logger.Debug("batch started", "file", file, "workers", workers, "urls", batchURLs)

	results, err := processor.ProcessFile(ctx, file, batchURLs)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	failures := 0
	for _, r := range results {
		line := scoredLine{URL: r.Source, Text: r.Text}
		if r.Error != nil {
			failures++
			line.Error = r.Error.Error()
		} else {
			score := r.Prediction.Score
			line.Label = r.Prediction.Label
			line.Score = &score
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Scored %d/%d lines (%d failed)\n", len(results)-failures, len(results), failures)
	return nil
}
