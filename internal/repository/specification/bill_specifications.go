package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByBillID filters chunks by their owning bill
type ByBillID struct {
	BillID uuid.UUID
}

func (s ByBillID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bill_id = ?", s.BillID)
}

// ByJurisdiction filters bills by jurisdiction (state name or "Federal")
type ByJurisdiction struct {
	Jurisdiction string
}

func (s ByJurisdiction) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("jurisdiction = ?", s.Jurisdiction)
}

// ByYears filters bills by a set of years
type ByYears struct {
	Years []int
}

func (s ByYears) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year IN ?", s.Years)
}

// ByIdentifier filters bills by their legislative identifier (e.g. "H.B. 123")
type ByIdentifier struct {
	Identifier string
}

func (s ByIdentifier) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identifier = ?", s.Identifier)
}

// ByResearchSessionID filters chat messages by session
type ByResearchSessionID struct {
	ResearchSessionID uuid.UUID
}

func (s ByResearchSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("research_session_id = ?", s.ResearchSessionID)
}
