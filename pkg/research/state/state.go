// Package state defines the single mutable record threaded through one
// research pipeline run. A PipelineState is owned by exactly one run's
// executor; the only field written under concurrent access is the
// summary accumulator.
package state

import (
	"sync"

	"bill-research-be/pkg/llm"

	"github.com/google/uuid"
)

// FilterResult holds structured constraints extracted from the query.
// Zero-value fields mean "no constraint", which is a valid outcome.
type FilterResult struct {
	BillIdentifier string `json:"bill_identifier,omitempty"`
	Years          []int  `json:"year,omitempty"`
	Jurisdiction   string `json:"state,omitempty"`
}

func (f *FilterResult) IsZero() bool {
	return f == nil || (f.BillIdentifier == "" && len(f.Years) == 0 && f.Jurisdiction == "")
}

// Candidate is one retrieved passage with its similarity score,
// referencing the bill that owns it. Candidates keep retrieval-rank
// order; the grader addresses them by index.
type Candidate struct {
	BillID  uuid.UUID
	Title   string
	Content string
	Score   float64
}

// GradedCandidate is a candidate the judge model marked relevant.
// CandidateIndex is a validated 0-based index into the candidates slice.
type GradedCandidate struct {
	CandidateIndex int
	Candidate      Candidate
	Relevant       bool
	Reasoning      string
}

// Document is a fully reconstructed bill. BillID values are unique
// within a run's document set.
type Document struct {
	BillID            uuid.UUID
	Identifier        string
	Jurisdiction      string
	Year              int
	SessionIdentifier string
	Title             string
	Status            []string
	FullText          string
	SourceURL         string
	SimilarityScore   float64
}

// Summary is the result of one summarization task. A failed task still
// produces a Summary, with Err set and a fallback SummaryText.
type Summary struct {
	BillID         uuid.UUID
	Title          string
	SummaryText    string
	OneLineSummary string
	Err            string
}

// SummaryAccumulator collects fan-out results keyed by bill id.
//
// Merge law: keyed upsert. Add is safe for concurrent writers and is
// commutative and associative across distinct keys; within a run every
// task owns a distinct bill id, so the final contents are independent
// of task completion order.
type SummaryAccumulator struct {
	mu        sync.Mutex
	summaries map[uuid.UUID]Summary
}

func NewSummaryAccumulator() *SummaryAccumulator {
	return &SummaryAccumulator{
		summaries: make(map[uuid.UUID]Summary),
	}
}

// Add merges one summary into the accumulator.
func (a *SummaryAccumulator) Add(s Summary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.summaries[s.BillID] = s
}

func (a *SummaryAccumulator) Get(billID uuid.UUID) (Summary, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.summaries[billID]
	return s, ok
}

func (a *SummaryAccumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.summaries)
}

// Ordered returns summaries in the order of the given documents,
// skipping documents with no recorded summary. This gives the report
// compiler a stable iteration order regardless of completion order.
func (a *SummaryAccumulator) Ordered(docs []Document) []Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		if s, ok := a.summaries[d.BillID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// PipelineState accumulates the output of every stage of one run.
// Fields are populated monotonically: set once by their owning stage,
// never cleared.
type PipelineState struct {
	Messages       []llm.Message
	CanonicalQuery string
	Filters        *FilterResult
	Candidates     []Candidate
	Graded         []GradedCandidate
	Documents      []Document
	Summaries      *SummaryAccumulator
	FinalReport    string
}

func NewPipelineState(messages []llm.Message) *PipelineState {
	return &PipelineState{
		Messages:  messages,
		Summaries: NewSummaryAccumulator(),
	}
}
