// Package reconstruct resolves graded candidates back into full bill
// documents from the chunk store.
package reconstruct

import (
	"context"
	"log"
	"strings"

	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
)

// Reconstructor is the stage-5 adapter. For every relevant candidate it
// fetches the owning bill's chunks in sequence order and its metadata
// record, emitting one document per distinct bill.
type Reconstructor struct {
	billRepo  contract.BillRepository
	chunkRepo contract.BillChunkRepository
	logger    *log.Logger
}

func NewReconstructor(billRepo contract.BillRepository, chunkRepo contract.BillChunkRepository, logger *log.Logger) *Reconstructor {
	return &Reconstructor{
		billRepo:  billRepo,
		chunkRepo: chunkRepo,
		logger:    logger,
	}
}

// Reconstruct builds the document set for summarization.
//
// Duplicate bill ids collapse to a single document, first-seen wins;
// graded candidates arrive in retrieval-rank order, so first-seen is
// also the highest-scoring occurrence.
func (r *Reconstructor) Reconstruct(ctx context.Context, graded []state.GradedCandidate) ([]state.Document, error) {
	if len(graded) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]bool)
	var documents []state.Document

	for _, gc := range graded {
		billId := gc.Candidate.BillID
		if billId == uuid.Nil {
			r.logger.Printf("[WARN] Graded candidate %d has no bill id, skipping", gc.CandidateIndex)
			continue
		}
		if seen[billId] {
			continue
		}
		seen[billId] = true

		chunks, err := r.chunkRepo.FindByBillIdOrdered(ctx, billId)
		if err != nil {
			r.logger.Printf("[ERROR] Fetching chunks for bill %s failed: %v", billId, err)
			continue
		}

		// Concatenation order must match chunk_index order exactly;
		// the repository guarantees the ordering.
		var text strings.Builder
		for _, chunk := range chunks {
			text.WriteString(chunk.ChunkText)
		}

		doc := state.Document{
			BillID:          billId,
			Title:           gc.Candidate.Title,
			FullText:        text.String(),
			SimilarityScore: gc.Candidate.Score,
		}

		// Missing metadata is non-fatal: the document stays in the set
		// with whatever the candidate carried and no source URL.
		bill, err := r.billRepo.FindOne(ctx, specification.ByID{ID: billId})
		if err != nil {
			r.logger.Printf("[WARN] Fetching metadata for bill %s failed: %v", billId, err)
		} else if bill == nil {
			r.logger.Printf("[WARN] No metadata record for bill %s", billId)
		} else {
			doc.Identifier = bill.Identifier
			doc.Jurisdiction = bill.Jurisdiction
			doc.Year = bill.Year
			doc.SessionIdentifier = bill.SessionIdentifier
			doc.Status = bill.Status
			doc.SourceURL = bill.FullTextURL
			if bill.Title != "" {
				doc.Title = bill.Title
			}
		}

		documents = append(documents, doc)
	}

	r.logger.Printf("[RECONSTRUCT] %d documents from %d graded candidates", len(documents), len(graded))
	return documents, nil
}
