package report

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"testing"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls      int32
	response   string
	err        error
	lastPrompt string
}

func (p *countingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *countingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	p.lastPrompt = prompt
	return p.response, p.err
}

func newTestCompiler(p llm.LLMProvider) *Compiler {
	return NewCompiler(p, log.New(io.Discard, "", 0))
}

func TestCompileEmptySummariesReturnsSentinelWithoutCall(t *testing.T) {
	provider := &countingProvider{}
	c := newTestCompiler(provider)

	report, err := c.Compile(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Equal(t, EmptyReport, report)
	assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
}

func TestCompileIncludesEverySummaryInPrompt(t *testing.T) {
	provider := &countingProvider{response: "The final report."}
	c := newTestCompiler(provider)

	summaries := []state.Summary{
		{Title: "Clean Water Act Amendments", SummaryText: "Expands permitting."},
		{Title: "Rural Broadband Act", SummaryText: "Funds deployment."},
		{Title: "Failed Bill", SummaryText: "Error during summarization.", Err: "timeout"},
	}

	report, err := c.Compile(context.Background(), "query", summaries)
	require.NoError(t, err)
	assert.Equal(t, "The final report.", report)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))

	for _, s := range summaries {
		assert.True(t, strings.Contains(provider.lastPrompt, s.Title))
		assert.True(t, strings.Contains(provider.lastPrompt, s.SummaryText))
	}
}

func TestCompilePropagatesProviderError(t *testing.T) {
	provider := &countingProvider{err: errors.New("provider down")}
	c := newTestCompiler(provider)

	_, err := c.Compile(context.Background(), "query", []state.Summary{{Title: "A", SummaryText: "B"}})
	require.Error(t, err)
}
