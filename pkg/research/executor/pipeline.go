// Package executor sequences the research pipeline stages. Each stage
// is injected through a narrow interface so the sequencer can be tested
// against fakes without any provider or database.
package executor

import (
	"context"
	"log"
	"strings"

	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/query"
	"bill-research-be/pkg/research/report"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxBillCards caps the number of bill cards attached to a result.
const maxBillCards = 5

// QueryReformulator is the subset of the query stage the executor needs.
type QueryReformulator interface {
	Reformulate(ctx context.Context, messages []llm.Message) (string, error)
}

type FilterExtractor interface {
	Extract(ctx context.Context, canonicalQuery string) (*state.FilterResult, error)
}

type CandidateRetriever interface {
	Retrieve(ctx context.Context, canonicalQuery string, f *state.FilterResult) ([]state.Candidate, error)
}

type CandidateGrader interface {
	Grade(ctx context.Context, canonicalQuery string, candidates []state.Candidate) ([]state.GradedCandidate, error)
}

type DocumentReconstructor interface {
	Reconstruct(ctx context.Context, graded []state.GradedCandidate) ([]state.Document, error)
}

type DocumentSummarizer interface {
	SummarizeAll(ctx context.Context, canonicalQuery string, documents []state.Document, acc *state.SummaryAccumulator) error
}

type ReportCompiler interface {
	Compile(ctx context.Context, canonicalQuery string, summaries []state.Summary) (string, error)
}

// BillCard is a compact, citation-ready view of one researched bill,
// joined from its reconstructed document and its summary.
type BillCard struct {
	BillID          uuid.UUID `json:"bill_id"`
	Identifier      string    `json:"identifier"`
	Title           string    `json:"title"`
	Jurisdiction    string    `json:"jurisdiction"`
	OneLineSummary  string    `json:"one_line_summary"`
	SourceURL       string    `json:"source_url"`
	SimilarityScore float64   `json:"similarity_score"`
}

// Result is what a completed run hands back to the caller.
type Result struct {
	State     *state.PipelineState
	Report    string
	BillCards []BillCard
}

// Executor drives a conversation through all pipeline stages.
type Executor struct {
	reformulator  QueryReformulator
	extractor     FilterExtractor
	retriever     CandidateRetriever
	grader        CandidateGrader
	reconstructor DocumentReconstructor
	summarizer    DocumentSummarizer
	compiler      ReportCompiler
	logger        *log.Logger
}

func NewExecutor(
	reformulator QueryReformulator,
	extractor FilterExtractor,
	retriever CandidateRetriever,
	grader CandidateGrader,
	reconstructor DocumentReconstructor,
	summarizer DocumentSummarizer,
	compiler ReportCompiler,
	logger *log.Logger,
) *Executor {
	return &Executor{
		reformulator:  reformulator,
		extractor:     extractor,
		retriever:     retriever,
		grader:        grader,
		reconstructor: reconstructor,
		summarizer:    summarizer,
		compiler:      compiler,
		logger:        logger,
	}
}

// Run executes the full pipeline for one conversation. Stage failures
// never abort the run: a failed stage degrades to its empty value and
// the remaining stages operate on whatever survived, so Run always
// produces a final report. Only context cancellation is fatal.
func (e *Executor) Run(ctx context.Context, messages []llm.Message) (*Result, error) {
	tracer := otel.Tracer("research-pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.run")
	defer span.End()

	st := state.NewPipelineState(messages)

	// Stage 1: reformulate.
	canonical, err := e.stageString(ctx, tracer, "pipeline.reformulate", func(ctx context.Context) (string, error) {
		return e.reformulator.Reformulate(ctx, st.Messages)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Query reformulation failed, using raw query: %v", err)
		canonical = query.RawQuery(st.Messages)
	}
	st.CanonicalQuery = canonical

	// Stage 2: filter extraction.
	f, err := e.stageFilters(ctx, tracer, st.CanonicalQuery)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Filter extraction failed, proceeding unfiltered: %v", err)
		f = nil
	}
	st.Filters = f

	// Stage 3: retrieval.
	candidates, err := e.stageRetrieve(ctx, tracer, st.CanonicalQuery, st.Filters)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Retrieval failed, continuing with no candidates: %v", err)
		candidates = nil
	}
	st.Candidates = candidates

	// Stage 4: grading.
	graded, err := e.stageGrade(ctx, tracer, st.CanonicalQuery, st.Candidates)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Grading failed, continuing with no graded candidates: %v", err)
		graded = nil
	}
	st.Graded = graded

	// Stage 5: document reconstruction.
	documents, err := e.stageReconstruct(ctx, tracer, st.Graded)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Reconstruction failed, continuing with no documents: %v", err)
		documents = nil
	}
	st.Documents = documents

	// Stage 6: summarization fan-out. The summarizer isolates its own
	// task failures, so an error here is a pool-level fault.
	if err := e.stageSummarize(ctx, tracer, st); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Summarization pool failed: %v", err)
	}

	// Stage 7: report compilation.
	ordered := st.Summaries.Ordered(st.Documents)
	finalReport, err := e.stageCompile(ctx, tracer, st.CanonicalQuery, ordered)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Printf("[ERROR] Report compilation failed, using degraded report: %v", err)
		finalReport = degradedReport(ordered)
	}
	st.FinalReport = finalReport
	st.Messages = append(st.Messages, llm.Message{Role: "assistant", Content: finalReport})

	span.SetAttributes(
		attribute.Int("pipeline.candidates", len(st.Candidates)),
		attribute.Int("pipeline.documents", len(st.Documents)),
		attribute.Int("pipeline.summaries", st.Summaries.Len()),
	)

	return &Result{
		State:     st,
		Report:    finalReport,
		BillCards: buildBillCards(st.Documents, st.Summaries),
	}, nil
}

func (e *Executor) stageString(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) (string, error)) (string, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	return fn(ctx)
}

func (e *Executor) stageFilters(ctx context.Context, tracer trace.Tracer, canonical string) (*state.FilterResult, error) {
	ctx, span := tracer.Start(ctx, "pipeline.extract_filters")
	defer span.End()
	return e.extractor.Extract(ctx, canonical)
}

func (e *Executor) stageRetrieve(ctx context.Context, tracer trace.Tracer, canonical string, f *state.FilterResult) ([]state.Candidate, error) {
	ctx, span := tracer.Start(ctx, "pipeline.retrieve")
	defer span.End()
	return e.retriever.Retrieve(ctx, canonical, f)
}

func (e *Executor) stageGrade(ctx context.Context, tracer trace.Tracer, canonical string, candidates []state.Candidate) ([]state.GradedCandidate, error) {
	ctx, span := tracer.Start(ctx, "pipeline.grade")
	defer span.End()
	return e.grader.Grade(ctx, canonical, candidates)
}

func (e *Executor) stageReconstruct(ctx context.Context, tracer trace.Tracer, graded []state.GradedCandidate) ([]state.Document, error) {
	ctx, span := tracer.Start(ctx, "pipeline.reconstruct")
	defer span.End()
	return e.reconstructor.Reconstruct(ctx, graded)
}

func (e *Executor) stageSummarize(ctx context.Context, tracer trace.Tracer, st *state.PipelineState) error {
	ctx, span := tracer.Start(ctx, "pipeline.summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("pipeline.fanout_tasks", len(st.Documents)))
	return e.summarizer.SummarizeAll(ctx, st.CanonicalQuery, st.Documents, st.Summaries)
}

func (e *Executor) stageCompile(ctx context.Context, tracer trace.Tracer, canonical string, summaries []state.Summary) (string, error) {
	ctx, span := tracer.Start(ctx, "pipeline.compile_report")
	defer span.End()
	return e.compiler.Compile(ctx, canonical, summaries)
}

// degradedReport is the fallback when the compilation call itself fails:
// the raw summaries stitched together, so the user still sees what the
// pipeline found.
func degradedReport(summaries []state.Summary) string {
	if len(summaries) == 0 {
		return report.EmptyReport
	}
	var sb strings.Builder
	for i, s := range summaries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("### ")
		sb.WriteString(s.Title)
		sb.WriteString("\n")
		sb.WriteString(s.SummaryText)
	}
	return sb.String()
}

// buildBillCards joins documents with their summaries in rank order,
// skipping bills whose summarization failed.
func buildBillCards(documents []state.Document, acc *state.SummaryAccumulator) []BillCard {
	cards := make([]BillCard, 0, maxBillCards)
	for _, doc := range documents {
		if len(cards) == maxBillCards {
			break
		}
		summary, ok := acc.Get(doc.BillID)
		if !ok || summary.Err != "" {
			continue
		}
		cards = append(cards, BillCard{
			BillID:          doc.BillID,
			Identifier:      doc.Identifier,
			Title:           doc.Title,
			Jurisdiction:    doc.Jurisdiction,
			OneLineSummary:  summary.OneLineSummary,
			SourceURL:       doc.SourceURL,
			SimilarityScore: doc.SimilarityScore,
		})
	}
	return cards
}
