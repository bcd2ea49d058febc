// Package report compiles the per-bill summaries into the final answer.
package report

import (
	"context"
	"log"
	"strings"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/prompt"
	"bill-research-be/pkg/research/state"
)

// EmptyReport is returned verbatim when no summaries survived the
// pipeline. It is emitted without any capability call.
const EmptyReport = "No relevant bill summaries were generated."

type Compiler struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewCompiler(llmProvider llm.LLMProvider, logger *log.Logger) *Compiler {
	return &Compiler{llmProvider: llmProvider, logger: logger}
}

// Compile merges the summaries into one coherent report. Error-flagged
// summaries are included as-is so the report can acknowledge partial
// coverage rather than silently dropping a bill.
func (c *Compiler) Compile(ctx context.Context, canonicalQuery string, summaries []state.Summary) (string, error) {
	if len(summaries) == 0 {
		c.logger.Printf("[REPORT] No summaries to compile, returning empty report")
		return EmptyReport, nil
	}

	c.logger.Printf("[REPORT] Compiling final report from %d summaries", len(summaries))

	var sb strings.Builder
	for _, s := range summaries {
		sb.WriteString("Title: ")
		sb.WriteString(s.Title)
		sb.WriteString("\nSummary:\n")
		sb.WriteString(s.SummaryText)
		sb.WriteString("\n---\n")
	}

	report, err := c.llmProvider.Generate(ctx,
		prompt.CompileReport(canonicalQuery, sb.String()),
		llm.WithTemperature(0.0))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(report), nil
}
