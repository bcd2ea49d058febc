package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	calls int32
	// failFor marks titles whose generation should fail.
	failFor map[string]bool
	// blockFor marks titles whose generation blocks until the context ends.
	blockFor map[string]bool
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	for title := range p.blockFor {
		if strings.Contains(prompt, title) {
			<-ctx.Done()
			return "", ctx.Err()
		}
	}
	for title := range p.failFor {
		if strings.Contains(prompt, title) {
			return "", errors.New("provider unavailable")
		}
	}
	return `{"summary_text": "A detailed summary.", "one_line_summary": "One line."}`, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func makeDocs(n int) []state.Document {
	docs := make([]state.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, state.Document{
			BillID:   uuid.New(),
			Title:    fmt.Sprintf("Bill Number %d", i),
			FullText: strings.Repeat("text ", 50),
		})
	}
	return docs
}

func TestSummarizeAllProducesOneEntryPerDocument(t *testing.T) {
	provider := &scriptedProvider{}
	s := NewSummarizer(provider, discardLogger(), 0, 0, 0)

	docs := makeDocs(5)
	acc := state.NewSummaryAccumulator()

	err := s.SummarizeAll(context.Background(), "query", docs, acc)
	require.NoError(t, err)

	assert.Equal(t, 5, acc.Len())
	for _, doc := range docs {
		summary, ok := acc.Get(doc.BillID)
		require.True(t, ok)
		assert.Equal(t, "A detailed summary.", summary.SummaryText)
		assert.Equal(t, "One line.", summary.OneLineSummary)
		assert.Empty(t, summary.Err)
	}
}

func TestSummarizeAllIsolatesTaskFailure(t *testing.T) {
	docs := makeDocs(5)
	provider := &scriptedProvider{failFor: map[string]bool{docs[2].Title: true}}
	s := NewSummarizer(provider, discardLogger(), 0, 0, 0)

	acc := state.NewSummaryAccumulator()
	err := s.SummarizeAll(context.Background(), "query", docs, acc)
	require.NoError(t, err)

	assert.Equal(t, 5, acc.Len())

	failed, ok := acc.Get(docs[2].BillID)
	require.True(t, ok)
	assert.Equal(t, FallbackSummaryText, failed.SummaryText)
	assert.NotEmpty(t, failed.Err)

	for i, doc := range docs {
		if i == 2 {
			continue
		}
		summary, ok := acc.Get(doc.BillID)
		require.True(t, ok)
		assert.Empty(t, summary.Err)
	}
}

func TestSummarizeAllTaskTimeoutBecomesErrorEntry(t *testing.T) {
	docs := makeDocs(3)
	provider := &scriptedProvider{blockFor: map[string]bool{docs[1].Title: true}}
	s := NewSummarizer(provider, discardLogger(), 0, 0, 50*time.Millisecond)

	acc := state.NewSummaryAccumulator()
	err := s.SummarizeAll(context.Background(), "query", docs, acc)
	require.NoError(t, err)

	assert.Equal(t, 3, acc.Len())
	timedOut, ok := acc.Get(docs[1].BillID)
	require.True(t, ok)
	assert.Equal(t, FallbackSummaryText, timedOut.SummaryText)
	assert.NotEmpty(t, timedOut.Err)
}

func TestSummarizeAllNoDocumentsNoCalls(t *testing.T) {
	provider := &scriptedProvider{}
	s := NewSummarizer(provider, discardLogger(), 0, 0, 0)

	acc := state.NewSummaryAccumulator()
	err := s.SummarizeAll(context.Background(), "query", nil, acc)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Len())
	assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
}

func TestSummarizeAllParentCancellationLeavesNoEntry(t *testing.T) {
	docs := makeDocs(2)
	provider := &scriptedProvider{
		blockFor: map[string]bool{docs[0].Title: true, docs[1].Title: true},
	}
	s := NewSummarizer(provider, discardLogger(), 0, 0, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	acc := state.NewSummaryAccumulator()
	_ = s.SummarizeAll(ctx, "query", docs, acc)
	assert.Equal(t, 0, acc.Len())
}

func TestSummarizeTruncatesLongText(t *testing.T) {
	var seenLen int32
	provider := &lenCapturingProvider{captured: &seenLen}
	s := NewSummarizer(provider, discardLogger(), 100, 1, time.Minute)

	docs := []state.Document{{
		BillID:   uuid.New(),
		Title:    "Long Bill",
		FullText: strings.Repeat("a", 5000),
	}}
	acc := state.NewSummaryAccumulator()
	require.NoError(t, s.SummarizeAll(context.Background(), "query", docs, acc))

	// The prompt embeds the document text; a 5000-char body would push the
	// prompt well past this bound if truncation did not apply.
	assert.Less(t, atomic.LoadInt32(&seenLen), int32(2000))
}

type lenCapturingProvider struct {
	captured *int32
}

func (p *lenCapturingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (p *lenCapturingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	atomic.StoreInt32(p.captured, int32(len(prompt)))
	return `{"summary_text": "ok", "one_line_summary": "ok"}`, nil
}
