package structured

import (
	"context"
	"errors"
	"testing"

	"bill-research-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grade struct {
	DocIndex   int    `json:"doc_index"`
	IsRelevant bool   `json:"is_relevant"`
	Reasoning  string `json:"reasoning"`
}

func TestParsePlainJSON(t *testing.T) {
	g, err := Parse[grade](`{"doc_index": 2, "is_relevant": true, "reasoning": "matches query"}`)
	require.NoError(t, err)
	assert.Equal(t, 2, g.DocIndex)
	assert.True(t, g.IsRelevant)
}

func TestParseMarkdownFenced(t *testing.T) {
	raw := "Here is the grading result:\n```json\n{\"doc_index\": 0, \"is_relevant\": false}\n```\nLet me know if you need anything else."
	g, err := Parse[grade](raw)
	require.NoError(t, err)
	assert.Equal(t, 0, g.DocIndex)
	assert.False(t, g.IsRelevant)
}

func TestParseRepairsSloppyJSON(t *testing.T) {
	// Single quotes and unquoted keys are common LLM mistakes
	g, err := Parse[grade](`{doc_index: 1, is_relevant: true, reasoning: 'close enough'}`)
	require.NoError(t, err)
	assert.Equal(t, 1, g.DocIndex)
	assert.Equal(t, "close enough", g.Reasoning)
}

func TestParseArray(t *testing.T) {
	grades, err := Parse[[]grade](`[{"doc_index":0,"is_relevant":true},{"doc_index":1,"is_relevant":false}]`)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.True(t, grades[0].IsRelevant)
}

func TestParseNoJSON(t *testing.T) {
	_, err := Parse[grade]("I could not produce a grading for this input.")
	assert.Error(t, err)
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestGenerateReturnsTypedResult(t *testing.T) {
	provider := &stubProvider{response: `{"doc_index": 3, "is_relevant": true}`}
	g, err := Generate[grade](context.Background(), provider, "grade this")
	require.NoError(t, err)
	assert.Equal(t, 3, g.DocIndex)
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	_, err := Generate[grade](context.Background(), provider, "grade this")
	assert.ErrorContains(t, err, "rate limited")
}
