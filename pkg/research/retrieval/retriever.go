// Package retrieval queries the pgvector similarity index for candidate
// passages matching the canonical query and optional filters.
package retrieval

import (
	"context"
	"fmt"
	"log"

	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/pkg/embedding"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
)

// MaxCandidates caps k for any single similarity search, bounding the
// grading context size independent of configuration.
const MaxCandidates = 20

// Retriever is the stage-3 adapter: embed the query, run one similarity
// search, hydrate candidate titles from the bills table.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkRepo         contract.BillChunkRepository
	billRepo          contract.BillRepository
	topK              int
	logger            *log.Logger
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	chunkRepo contract.BillChunkRepository,
	billRepo contract.BillRepository,
	topK int,
	logger *log.Logger,
) *Retriever {
	if topK <= 0 || topK > MaxCandidates {
		topK = MaxCandidates
	}
	return &Retriever{
		embeddingProvider: embeddingProvider,
		chunkRepo:         chunkRepo,
		billRepo:          billRepo,
		topK:              topK,
		logger:            logger,
	}
}

// Retrieve returns candidates in retrieval-rank order. Filters are
// exact-match constraints; an empty result set is a valid outcome.
func (r *Retriever) Retrieve(ctx context.Context, canonicalQuery string, f *state.FilterResult) ([]state.Candidate, error) {
	embeddingRes, err := r.embeddingProvider.Generate(canonicalQuery, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var filter contract.ChunkSearchFilter
	if !f.IsZero() {
		filter = contract.ChunkSearchFilter{
			BillIdentifier: f.BillIdentifier,
			Years:          f.Years,
			Jurisdiction:   f.Jurisdiction,
		}
	}

	scored, err := r.chunkRepo.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, r.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	r.logger.Printf("[RETRIEVE] %d candidates (k=%d, filtered=%v)", len(scored), r.topK, !f.IsZero())

	candidates := make([]state.Candidate, 0, len(scored))
	for _, res := range scored {
		candidates = append(candidates, state.Candidate{
			BillID:  res.Chunk.BillId,
			Content: res.Chunk.ChunkText,
			Score:   res.Similarity,
		})
	}

	if err := r.hydrateTitles(ctx, candidates); err != nil {
		r.logger.Printf("[WARN] Failed to hydrate candidate titles: %v", err)
	}

	return candidates, nil
}

func (r *Retriever) hydrateTitles(ctx context.Context, candidates []state.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	billIds := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.BillID] {
			seen[c.BillID] = true
			billIds = append(billIds, c.BillID)
		}
	}

	bills, err := r.billRepo.FindAll(ctx, specification.ByIDs{IDs: billIds})
	if err != nil {
		return err
	}

	titleMap := make(map[uuid.UUID]string, len(bills))
	for _, b := range bills {
		titleMap[b.Id] = b.Title
	}

	for i := range candidates {
		if title, ok := titleMap[candidates[i].BillID]; ok {
			candidates[i].Title = title
		} else {
			candidates[i].Title = "Untitled Bill"
		}
	}

	return nil
}
