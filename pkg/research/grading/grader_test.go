package grading

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls    int32
	response string
	err      error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.response, s.err
}

func newTestGrader(p llm.LLMProvider) *Grader {
	return NewGrader(p, log.New(io.Discard, "", 0))
}

func threeCandidates() []state.Candidate {
	return []state.Candidate{
		{BillID: uuid.New(), Title: "Water Bill", Content: "water rights", Score: 0.9},
		{BillID: uuid.New(), Title: "Broadband Bill", Content: "rural broadband", Score: 0.8},
		{BillID: uuid.New(), Title: "Tax Bill", Content: "franchise tax", Score: 0.4},
	}
}

func TestGradeKeepsOnlyRelevant(t *testing.T) {
	provider := &stubProvider{response: `{"grades": [
		{"doc_index": 0, "is_relevant": true, "reasoning": "on topic"},
		{"doc_index": 1, "is_relevant": true},
		{"doc_index": 2, "is_relevant": false, "reasoning": "off topic"}
	]}`}
	g := newTestGrader(provider)

	candidates := threeCandidates()
	graded, err := g.Grade(context.Background(), "water and broadband", candidates)
	require.NoError(t, err)

	require.Len(t, graded, 2)
	assert.Equal(t, 0, graded[0].CandidateIndex)
	assert.Equal(t, candidates[0].BillID, graded[0].Candidate.BillID)
	assert.Equal(t, "on topic", graded[0].Reasoning)
	assert.Equal(t, 1, graded[1].CandidateIndex)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestGradeDropsOutOfRangeIndices(t *testing.T) {
	provider := &stubProvider{response: `{"grades": [
		{"doc_index": -1, "is_relevant": true},
		{"doc_index": 7, "is_relevant": true},
		{"doc_index": 1, "is_relevant": true}
	]}`}
	g := newTestGrader(provider)

	graded, err := g.Grade(context.Background(), "query", threeCandidates())
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, 1, graded[0].CandidateIndex)
}

func TestGradeEmptyCandidatesSkipsCall(t *testing.T) {
	provider := &stubProvider{}
	g := newTestGrader(provider)

	graded, err := g.Grade(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Nil(t, graded)
	assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
}

func TestGradePropagatesProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider down")}
	g := newTestGrader(provider)

	_, err := g.Grade(context.Background(), "query", threeCandidates())
	require.Error(t, err)
}

func TestGradeAllIrrelevantReturnsEmpty(t *testing.T) {
	provider := &stubProvider{response: `{"grades": [
		{"doc_index": 0, "is_relevant": false},
		{"doc_index": 1, "is_relevant": false},
		{"doc_index": 2, "is_relevant": false}
	]}`}
	g := newTestGrader(provider)

	graded, err := g.Grade(context.Background(), "query", threeCandidates())
	require.NoError(t, err)
	assert.Empty(t, graded)
}
