package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

type SendResearchRequest struct {
	ResearchSessionId uuid.UUID `json:"research_session_id" validate:"required"`
	Question          string    `json:"question" validate:"required,max=4000"`
}

// BillCardDTO is the compact citation attached to a research reply.
type BillCardDTO struct {
	BillId          uuid.UUID `json:"bill_id"`
	Identifier      string    `json:"identifier"`
	Title           string    `json:"title"`
	Jurisdiction    string    `json:"jurisdiction"`
	OneLineSummary  string    `json:"one_line_summary"`
	SourceURL       string    `json:"source_url,omitempty"`
	SimilarityScore float64   `json:"similarity_score"`
}

type SendResearchResponseChat struct {
	Id        uuid.UUID `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SendResearchResponse struct {
	ResearchSessionId uuid.UUID                 `json:"research_session_id"`
	Title             string                    `json:"title"`
	Sent              *SendResearchResponseChat `json:"sent"`
	Reply             *SendResearchResponseChat `json:"reply"`
	BillCards         []BillCardDTO             `json:"bill_cards,omitempty"`
}

type DeleteSessionRequest struct {
	ResearchSessionId uuid.UUID `json:"research_session_id" validate:"required"`
}
