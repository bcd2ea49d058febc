// Package grading classifies retrieved candidates as relevant or not
// with a single batched judge call.
package grading

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/prompt"
	"bill-research-be/pkg/research/state"
	"bill-research-be/pkg/structured"
)

// snippetLength bounds how much of each candidate passage enters the
// grading context.
const snippetLength = 500

type documentGrade struct {
	DocIndex   int    `json:"doc_index"`
	IsRelevant bool   `json:"is_relevant"`
	Reasoning  string `json:"reasoning,omitempty"`
}

type documentGrades struct {
	Grades []documentGrade `json:"grades"`
}

// Grader is the stage-4 adapter. One call covers all candidates, so the
// LLM call count stays constant no matter how large k is.
type Grader struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGrader(llmProvider llm.LLMProvider, logger *log.Logger) *Grader {
	return &Grader{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Grade returns only the candidates the judge marked relevant, each
// carrying its validated index into the input slice. Grades whose index
// falls outside the candidate list are dropped with a warning, never
// dereferenced.
func (g *Grader) Grade(ctx context.Context, canonicalQuery string, candidates []state.Candidate) ([]state.GradedCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	grades, err := structured.Generate[documentGrades](
		ctx, g.llmProvider, prompt.GradeDocuments(canonicalQuery, buildContext(candidates)))
	if err != nil {
		return nil, fmt.Errorf("grade candidates: %w", err)
	}

	var graded []state.GradedCandidate
	for _, grade := range grades.Grades {
		if grade.DocIndex < 0 || grade.DocIndex >= len(candidates) {
			g.logger.Printf("[WARN] Grader returned out-of-range doc_index %d (have %d candidates), dropping",
				grade.DocIndex, len(candidates))
			continue
		}
		if !grade.IsRelevant {
			continue
		}
		graded = append(graded, state.GradedCandidate{
			CandidateIndex: grade.DocIndex,
			Candidate:      candidates[grade.DocIndex],
			Relevant:       true,
			Reasoning:      grade.Reasoning,
		})
	}

	g.logger.Printf("[GRADE] %d/%d candidates relevant", len(graded), len(candidates))
	return graded, nil
}

// buildContext renders one snippet block per candidate, tagged with the
// index the judge must echo back.
func buildContext(candidates []state.Candidate) string {
	var b strings.Builder
	for idx, c := range candidates {
		snippet := c.Content
		if len(snippet) > snippetLength {
			snippet = snippet[:snippetLength]
		}
		fmt.Fprintf(&b, "Index: %d\nTitle: %s\nSnippet: %s\nScore: %.3f\n---\n", idx, c.Title, snippet, c.Score)
	}
	return b.String()
}
