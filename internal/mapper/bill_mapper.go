package mapper

import (
	"encoding/json"
	"time"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/model"

	"gorm.io/datatypes"
)

type BillMapper struct{}

func NewBillMapper() *BillMapper {
	return &BillMapper{}
}

func (m *BillMapper) ToEntity(b *model.Bill) *entity.Bill {
	if b == nil {
		return nil
	}

	var deletedAt *time.Time
	if b.DeletedAt.Valid {
		t := b.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	var status []string
	if len(b.Status) > 0 {
		// Malformed status history is non-fatal, the bill is still usable
		_ = json.Unmarshal(b.Status, &status)
	}

	return &entity.Bill{
		Id:                b.Id,
		Identifier:        b.Identifier,
		Title:             b.Title,
		Jurisdiction:      b.Jurisdiction,
		Year:              b.Year,
		SessionIdentifier: b.SessionIdentifier,
		Status:            status,
		FullTextURL:       b.FullTextURL,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         b.DeletedAt.Valid,
	}
}

func (m *BillMapper) ToModel(b *entity.Bill) *model.Bill {
	if b == nil {
		return nil
	}

	var status datatypes.JSON
	if len(b.Status) > 0 {
		if raw, err := json.Marshal(b.Status); err == nil {
			status = raw
		}
	}

	mod := &model.Bill{
		Id:                b.Id,
		Identifier:        b.Identifier,
		Title:             b.Title,
		Jurisdiction:      b.Jurisdiction,
		Year:              b.Year,
		SessionIdentifier: b.SessionIdentifier,
		Status:            status,
		FullTextURL:       b.FullTextURL,
		CreatedAt:         b.CreatedAt,
	}
	if b.UpdatedAt != nil {
		mod.UpdatedAt = *b.UpdatedAt
	}
	return mod
}
