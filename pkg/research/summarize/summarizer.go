// Package summarize runs the pipeline's only concurrent stage: one
// summarization task per reconstructed document, fanned out over a
// bounded worker pool and merged into the shared accumulator.
package summarize

import (
	"context"
	"log"
	"time"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/prompt"
	"bill-research-be/pkg/research/state"
	"bill-research-be/pkg/structured"

	"github.com/sourcegraph/conc/pool"
)

const (
	// DefaultMaxChars is the per-document text budget entering the
	// summarization prompt. Truncation is a deliberate cost/latency
	// tradeoff, tunable through config.
	DefaultMaxChars = 10000

	// DefaultConcurrency bounds outstanding summarization calls to
	// protect provider rate limits.
	DefaultConcurrency = 4

	// DefaultTaskTimeout is the individual deadline for one task's
	// capability call.
	DefaultTaskTimeout = 60 * time.Second

	// FallbackSummaryText is recorded for a task whose capability call
	// failed or timed out.
	FallbackSummaryText = "Error during summarization."
)

type billSummaryLLM struct {
	SummaryText    string `json:"summary_text"`
	OneLineSummary string `json:"one_line_summary"`
}

// Summarizer is the stage-6 component.
type Summarizer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
	maxChars    int
	concurrency int
	taskTimeout time.Duration
}

func NewSummarizer(llmProvider llm.LLMProvider, logger *log.Logger, maxChars, concurrency int, taskTimeout time.Duration) *Summarizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}
	return &Summarizer{
		llmProvider: llmProvider,
		logger:      logger,
		maxChars:    maxChars,
		concurrency: concurrency,
		taskTimeout: taskTimeout,
	}
}

// SummarizeAll launches one task per document and joins them all before
// returning. Task failure never propagates: a failed or timed-out task
// records an error-flagged entry for its bill and its siblings proceed
// untouched. A task aborted by parent-context cancellation records
// nothing, so a cancelled run never leaves half-written entries behind.
func (s *Summarizer) SummarizeAll(ctx context.Context, canonicalQuery string, documents []state.Document, acc *state.SummaryAccumulator) error {
	if len(documents) == 0 {
		return nil
	}

	s.logger.Printf("[SUMMARIZE] Fanning out %d tasks (concurrency=%d)", len(documents), s.concurrency)

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(s.concurrency)

	for _, doc := range documents {
		doc := doc
		p.Go(func(taskCtx context.Context) error {
			s.summarizeOne(taskCtx, canonicalQuery, doc, acc)
			return nil // isolation: a task never fails the pool
		})
	}

	return p.Wait()
}

func (s *Summarizer) summarizeOne(ctx context.Context, canonicalQuery string, doc state.Document, acc *state.SummaryAccumulator) {
	if ctx.Err() != nil {
		return // run cancelled before the task started
	}

	text := doc.FullText
	if len(text) > s.maxChars {
		text = text[:s.maxChars]
	}

	taskCtx, cancel := context.WithTimeout(ctx, s.taskTimeout)
	defer cancel()

	result, err := structured.Generate[billSummaryLLM](
		taskCtx, s.llmProvider, prompt.SummarizeBill(canonicalQuery, doc.Title, text))
	if err != nil {
		if ctx.Err() != nil {
			// Parent cancellation, not a task failure: contribute nothing.
			return
		}
		s.logger.Printf("[ERROR] Summarization failed for bill %s (%s): %v", doc.BillID, doc.Title, err)
		acc.Add(state.Summary{
			BillID:      doc.BillID,
			Title:       doc.Title,
			SummaryText: FallbackSummaryText,
			Err:         err.Error(),
		})
		return
	}

	acc.Add(state.Summary{
		BillID:         doc.BillID,
		Title:          doc.Title,
		SummaryText:    result.SummaryText,
		OneLineSummary: result.OneLineSummary,
	})
}
