package filters

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"bill-research-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func newTestExtractor(p llm.LLMProvider) *Extractor {
	return NewExtractor(p, log.New(io.Discard, "", 0))
}

func TestExtractParsesAllFields(t *testing.T) {
	provider := &stubProvider{response: `{"bill_identifier": "HB 101", "year": [2023, 2024], "state": "Texas"}`}
	e := newTestExtractor(provider)

	result, err := e.Extract(context.Background(), "texas HB 101 from 2023 and 2024")
	require.NoError(t, err)
	assert.Equal(t, "HB 101", result.BillIdentifier)
	assert.Equal(t, []int{2023, 2024}, result.Years)
	assert.Equal(t, "Texas", result.Jurisdiction)
	assert.False(t, result.IsZero())
}

func TestExtractEmptyObjectMeansNoConstraint(t *testing.T) {
	provider := &stubProvider{response: `{}`}
	e := newTestExtractor(provider)

	result, err := e.Extract(context.Background(), "any interesting bills lately?")
	require.NoError(t, err)
	assert.True(t, result.IsZero())
}

func TestExtractHandlesFencedOutput(t *testing.T) {
	provider := &stubProvider{response: "```json\n{\"state\": \"California\"}\n```"}
	e := newTestExtractor(provider)

	result, err := e.Extract(context.Background(), "california bills")
	require.NoError(t, err)
	assert.Equal(t, "California", result.Jurisdiction)
}

func TestExtractPropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider down")}
	e := newTestExtractor(provider)

	_, err := e.Extract(context.Background(), "query")
	require.Error(t, err)
}
