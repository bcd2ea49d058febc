package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestBillRequest struct {
	Identifier        string   `json:"identifier" validate:"required"`
	Title             string   `json:"title" validate:"required"`
	Jurisdiction      string   `json:"jurisdiction" validate:"required"`
	Year              int      `json:"year" validate:"required,gte=1900"`
	SessionIdentifier string   `json:"session_identifier,omitempty"`
	Status            []string `json:"status,omitempty"`
	FullTextURL       string   `json:"full_text_url,omitempty" validate:"omitempty,url"`
	FullText          string   `json:"full_text" validate:"required"`
}

type IngestBillResponse struct {
	Id         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	ChunkCount int       `json:"chunk_count"`
}

type GetBillResponse struct {
	Id                uuid.UUID `json:"id"`
	Identifier        string    `json:"identifier"`
	Title             string    `json:"title"`
	Jurisdiction      string    `json:"jurisdiction"`
	Year              int       `json:"year"`
	SessionIdentifier string    `json:"session_identifier,omitempty"`
	Status            []string  `json:"status,omitempty"`
	FullTextURL       string    `json:"full_text_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
