// Package query turns raw conversational input into one canonical
// retrieval query.
package query

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/prompt"
)

// Reformulator is the stage-1 adapter. It reads the conversation history
// and produces the canonical query every later stage works from.
type Reformulator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewReformulator(llmProvider llm.LLMProvider, logger *log.Logger) *Reformulator {
	return &Reformulator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// RawQuery extracts the research topic from the conversation: the latest
// user message, or a joined transcript when the user has sent several
// turns. Used directly as the fallback when reformulation fails.
func RawQuery(messages []llm.Message) string {
	var userTurns []string
	for _, m := range messages {
		if m.Role == "user" {
			userTurns = append(userTurns, m.Content)
		}
	}
	if len(userTurns) == 0 {
		return ""
	}
	if len(userTurns) == 1 {
		return userTurns[0]
	}
	return strings.Join(userTurns, "\n")
}

// Reformulate issues one LLM call to reshape the raw query. The caller
// treats an error as "use the raw query instead".
func (r *Reformulator) Reformulate(ctx context.Context, messages []llm.Message) (string, error) {
	raw := RawQuery(messages)
	if raw == "" {
		return "", fmt.Errorf("conversation contains no user message")
	}

	reformulated, err := r.llmProvider.Generate(ctx, prompt.ReformulateQuery(raw), llm.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("reformulate query: %w", err)
	}

	reformulated = strings.TrimSpace(reformulated)
	if reformulated == "" {
		return "", fmt.Errorf("reformulate query: model returned empty text")
	}

	r.logger.Printf("[QUERY] Reformulated %q -> %q", truncate(raw, 60), truncate(reformulated, 60))
	return reformulated, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
