// Package filters derives structured retrieval constraints from the
// canonical query.
package filters

import (
	"context"
	"fmt"
	"log"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/prompt"
	"bill-research-be/pkg/research/state"
	"bill-research-be/pkg/structured"
)

// Extractor is the stage-2 adapter: one structured LLM call producing a
// FilterResult. An empty result means "no constraint", not a failure.
type Extractor struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (e *Extractor) Extract(ctx context.Context, canonicalQuery string) (*state.FilterResult, error) {
	result, err := structured.Generate[state.FilterResult](ctx, e.llmProvider, prompt.ExtractFilters(canonicalQuery))
	if err != nil {
		return nil, fmt.Errorf("extract filters: %w", err)
	}

	e.logger.Printf("[FILTERS] identifier=%q years=%v jurisdiction=%q",
		result.BillIdentifier, result.Years, result.Jurisdiction)
	return &result, nil
}
