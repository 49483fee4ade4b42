package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verity/internal/feed"
)

var (
	feedCount int
	feedModel string
	feedJSON  bool
)

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed <url|preset>",
	Short: "Classify the latest items of an RSS/Atom feed",
	Long: `Feed fetches an RSS or Atom feed and classifies each item's title together
with its summary.

Presets are configured under feed.presets (built in: hn, tr, bbc).

Example:
  verity feed bbc
  verity feed https://hnrss.org/newest --count 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().IntVar(&feedCount, "count", 0, "max items to classify (default: feed.count)")
	feedCmd.Flags().StringVar(&feedModel, "model", "", "artifact path (default: artifact.path, then search paths)")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "write one JSON object per item")
}

func runFeed(cmd *cobra.Command, args []string) error {
	feedURL, err := feed.ResolveURL(args[0], cfg.Feed.Presets)
	if err != nil {
		return err
	}

	count := feedCount
	if count <= 0 {
		count = cfg.Feed.Count
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout)
	defer cancel()

	articles, err := feed.NewSource(cfg.HTTP.Timeout, cfg.HTTP.UserAgent).Fetch(ctx, feedURL, count)
	if err != nil {
		return err
	}
	logger.Debug("feed fetched", "url", feedURL, "items", len(articles))

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Text()
	}

	preds, err := newPredictor().PredictBatch(texts, artifactPath(feedModel))
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := cmd.OutOrStdout()
	if feedJSON {
		enc := json.NewEncoder(out)
		for i, a := range articles {
			score := preds[i].Score
			if err := enc.Encode(scoredLine{URL: a.URL, Text: a.Title, Label: preds[i].Label, Score: &score}); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, a := range articles {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\n", preds[i].Label, preds[i].Score, a.Title)
	}
	return tw.Flush()
}
