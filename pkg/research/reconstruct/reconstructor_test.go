package reconstruct

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/pkg/research/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkRepo struct {
	contract.BillChunkRepository

	chunksByBill map[uuid.UUID][]*entity.BillChunk
	errByBill    map[uuid.UUID]error
}

func (f *fakeChunkRepo) FindByBillIdOrdered(ctx context.Context, billId uuid.UUID) ([]*entity.BillChunk, error) {
	if err, ok := f.errByBill[billId]; ok {
		return nil, err
	}
	return f.chunksByBill[billId], nil
}

type fakeBillRepo struct {
	contract.BillRepository

	billsByID map[uuid.UUID]*entity.Bill
	findErr   error
}

func (f *fakeBillRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bill, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.billsByID[byID.ID], nil
		}
	}
	return nil, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func gradedFor(billId uuid.UUID, title string, score float64) state.GradedCandidate {
	return state.GradedCandidate{
		Candidate: state.Candidate{BillID: billId, Title: title, Score: score},
		Relevant:  true,
	}
}

func TestReconstructConcatenatesChunksInIndexOrder(t *testing.T) {
	billA := uuid.New()
	chunkRepo := &fakeChunkRepo{chunksByBill: map[uuid.UUID][]*entity.BillChunk{
		billA: {
			{BillId: billA, ChunkIndex: 0, ChunkText: "Section 1. "},
			{BillId: billA, ChunkIndex: 1, ChunkText: "Section 2. "},
			{BillId: billA, ChunkIndex: 2, ChunkText: "Section 3."},
		},
	}}
	billRepo := &fakeBillRepo{billsByID: map[uuid.UUID]*entity.Bill{
		billA: {
			Id: billA, Identifier: "HB 101", Title: "Clean Water Act Amendments",
			Jurisdiction: "Texas", Year: 2024, FullTextURL: "https://example.org/hb101",
			Status: []string{"passed"},
		},
	}}

	r := NewReconstructor(billRepo, chunkRepo, testLogger())
	docs, err := r.Reconstruct(context.Background(), []state.GradedCandidate{gradedFor(billA, "candidate title", 0.9)})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "Section 1. Section 2. Section 3.", docs[0].FullText)
	assert.Equal(t, "HB 101", docs[0].Identifier)
	assert.Equal(t, "Clean Water Act Amendments", docs[0].Title)
	assert.Equal(t, "Texas", docs[0].Jurisdiction)
	assert.Equal(t, 2024, docs[0].Year)
	assert.Equal(t, "https://example.org/hb101", docs[0].SourceURL)
	assert.Equal(t, []string{"passed"}, docs[0].Status)
	assert.Equal(t, 0.9, docs[0].SimilarityScore)
}

func TestReconstructDeduplicatesFirstSeenWins(t *testing.T) {
	billA := uuid.New()
	chunkRepo := &fakeChunkRepo{chunksByBill: map[uuid.UUID][]*entity.BillChunk{
		billA: {{BillId: billA, ChunkText: "text"}},
	}}
	r := NewReconstructor(&fakeBillRepo{}, chunkRepo, testLogger())

	graded := []state.GradedCandidate{
		gradedFor(billA, "first occurrence", 0.95),
		gradedFor(billA, "second occurrence", 0.60),
	}
	docs, err := r.Reconstruct(context.Background(), graded)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "first occurrence", docs[0].Title)
	assert.Equal(t, 0.95, docs[0].SimilarityScore)
}

func TestReconstructMissingMetadataKeepsDocument(t *testing.T) {
	billA := uuid.New()
	chunkRepo := &fakeChunkRepo{chunksByBill: map[uuid.UUID][]*entity.BillChunk{
		billA: {{BillId: billA, ChunkText: "orphan text"}},
	}}
	r := NewReconstructor(&fakeBillRepo{}, chunkRepo, testLogger())

	docs, err := r.Reconstruct(context.Background(), []state.GradedCandidate{gradedFor(billA, "candidate title", 0.8)})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "candidate title", docs[0].Title)
	assert.Empty(t, docs[0].SourceURL)
	assert.Equal(t, "orphan text", docs[0].FullText)
}

func TestReconstructChunkFetchErrorSkipsBillOnly(t *testing.T) {
	billA, billB := uuid.New(), uuid.New()
	chunkRepo := &fakeChunkRepo{
		chunksByBill: map[uuid.UUID][]*entity.BillChunk{
			billB: {{BillId: billB, ChunkText: "good text"}},
		},
		errByBill: map[uuid.UUID]error{billA: errors.New("db down")},
	}
	r := NewReconstructor(&fakeBillRepo{}, chunkRepo, testLogger())

	graded := []state.GradedCandidate{
		gradedFor(billA, "broken", 0.9),
		gradedFor(billB, "working", 0.8),
	}
	docs, err := r.Reconstruct(context.Background(), graded)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, billB, docs[0].BillID)
}

func TestReconstructSkipsNilBillID(t *testing.T) {
	r := NewReconstructor(&fakeBillRepo{}, &fakeChunkRepo{}, testLogger())

	docs, err := r.Reconstruct(context.Background(), []state.GradedCandidate{gradedFor(uuid.Nil, "no id", 0.5)})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReconstructEmptyInput(t *testing.T) {
	r := NewReconstructor(&fakeBillRepo{}, &fakeChunkRepo{}, testLogger())
	docs, err := r.Reconstruct(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, docs)
}
