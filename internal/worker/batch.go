package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/verity/internal/model"
)

// Scorer classifies a single text against the artifact at path
type Scorer interface {
	Predict(text string, path string) (model.Prediction, error)
}

// HeadlineFetcher turns a page URL into the text to classify
type HeadlineFetcher interface {
	Headline(ctx context.Context, url string) (string, error)
}

// Item is one line of batch input
type Item struct {
	Index  int
	Source string // URL in URL mode, empty otherwise
	Text   string
}

// ScoreJob classifies one item, fetching its headline first in URL mode
type ScoreJob struct {
	Item         Item
	Scorer       Scorer
	Fetcher      HeadlineFetcher
	Limiter      *Limiter
	ArtifactPath string
}

// Execute runs the job
func (j *ScoreJob) Execute(ctx context.Context) Result {
	res := &ScoreResult{Index: j.Item.Index, Source: j.Item.Source, Text: j.Item.Text}

	if j.Item.Source != "" {
		if j.Fetcher == nil {
			res.Error = errors.New("no headline fetcher configured")
			return res
		}
		if j.Limiter != nil {
			if err := j.Limiter.Wait(ctx, j.Item.Source); err != nil {
				res.Error = fmt.Errorf("rate limit: %w", err)
				return res
			}
		}
		text, err := j.Fetcher.Headline(ctx, j.Item.Source)
		if err != nil {
			res.Error = fmt.Errorf("fetch headline: %w", err)
			return res
		}
		res.Text = text
	}

	if strings.TrimSpace(res.Text) == "" {
		res.Error = model.ErrInvalidInput
		return res
	}

	pred, err := j.Scorer.Predict(res.Text, j.ArtifactPath)
	if err != nil {
		res.Error = err
		return res
	}
	res.Prediction = &pred
	return res
}

// ScoreResult is the outcome of one ScoreJob
type ScoreResult struct {
	Index      int               `json:"-"`
	Source     string            `json:"url,omitempty"`
	Text       string            `json:"text"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
	Error      error             `json:"-"`
}

// Err returns the job error
func (r *ScoreResult) Err() error {
	return r.Error
}

// BatchProcessor scores many texts or URLs concurrently
type BatchProcessor struct {
	scorer       Scorer
	concurrency  int
	artifactPath string
	fetcher      HeadlineFetcher
	limiter      *Limiter
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithFetcher enables URL mode
func WithFetcher(f HeadlineFetcher) BatchOption {
	return func(b *BatchProcessor) { b.fetcher = f }
}

// WithLimiter throttles headline fetches per host
func WithLimiter(l *Limiter) BatchOption {
	return func(b *BatchProcessor) { b.limiter = l }
}

// WithArtifactPath pins the artifact used for every item
func WithArtifactPath(path string) BatchOption {
	return func(b *BatchProcessor) { b.artifactPath = path }
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scorer Scorer, concurrency int, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		scorer:      scorer,
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ScoreTexts classifies texts; results keep input order
func (b *BatchProcessor) ScoreTexts(ctx context.Context, texts []string) []*ScoreResult {
	items := make([]Item, len(texts))
	for i, text := range texts {
		items[i] = Item{Index: i, Text: text}
	}
	return b.process(ctx, items)
}

// ScoreURLs fetches each page headline and classifies it; results keep input order
func (b *BatchProcessor) ScoreURLs(ctx context.Context, urls []string) []*ScoreResult {
	items := make([]Item, len(urls))
	for i, u := range urls {
		items[i] = Item{Index: i, Source: u}
	}
	return b.process(ctx, items)
}

// ProcessFile reads one text (or URL, when urls is set) per line and scores them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, urls bool) ([]*ScoreResult, error) {
	lines, err := ReadLines(filePath, urls)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if urls {
		return b.ScoreURLs(ctx, lines), nil
	}
	return b.ScoreTexts(ctx, lines), nil
}

func (b *BatchProcessor) process(ctx context.Context, items []Item) []*ScoreResult {
	if len(items) == 0 {
		return []*ScoreResult{}
	}

	jobs := make([]Job, len(items))
	for i, item := range items {
		jobs[i] = &ScoreJob{
			Item:         item,
			Scorer:       b.scorer,
			Fetcher:      b.fetcher,
			Limiter:      b.limiter,
			ArtifactPath: b.artifactPath,
		}
	}

	results := NewPool(ctx, b.concurrency).Run(jobs)

	out := make([]*ScoreResult, len(items))
	for _, r := range results {
		sr := r.(*ScoreResult)
		out[sr.Index] = sr
	}

	// items never picked up before cancellation
	for i, item := range items {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &ScoreResult{Index: i, Source: item.Source, Text: item.Text, Error: err}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ReadLines reads the non-empty lines of a file. URL lists also skip # comments
// and drop duplicates; text lists keep every line, so a headline such as
// "#MeToo ..." survives.
func ReadLines(filePath string, urls bool) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if urls {
			if strings.HasPrefix(line, "#") {
				continue
			}
			if seen[line] {
				continue
			}
			seen[line] = true
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
