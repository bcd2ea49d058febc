// Package structured turns free-text LLM output into typed records.
// Schema validation happens here, at the capability boundary: callers
// either get a valid value of T or an error, never a half-parsed one.
package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bill-research-be/pkg/llm"

	"github.com/kaptinlin/jsonrepair"
)

// Parse extracts and unmarshals a JSON value of type T from raw model
// output. Models wrap JSON in prose or markdown fences more often than
// not, so the payload is located first; if strict unmarshaling fails the
// payload is run through jsonrepair and retried once.
func Parse[T any](content string) (T, error) {
	var result T

	payload := extractJSON(content)
	if payload == "" {
		return result, fmt.Errorf("no JSON object found in model output")
	}

	if err := json.Unmarshal([]byte(payload), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(payload)
	if repairErr != nil {
		return result, fmt.Errorf("repair model JSON: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// Generate issues one prompt and parses the reply as T. Temperature
// defaults to 0 here; structured calls want deterministic output.
func Generate[T any](ctx context.Context, provider llm.LLMProvider, prompt string, opts ...llm.Option) (T, error) {
	options := append([]llm.Option{llm.WithTemperature(0.0)}, opts...)

	response, err := provider.Generate(ctx, prompt, options...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("structured generate: %w", err)
	}
	return Parse[T](response)
}

// extractJSON returns the outermost JSON object or array in s, tolerating
// markdown code fences and surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	var closing byte = '}'
	if s[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(s, closing)
	if end <= start {
		return ""
	}
	return s[start : end+1]
}
