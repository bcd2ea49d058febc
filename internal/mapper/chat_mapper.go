package mapper

import (
	"time"

	"bill-research-be/internal/entity"
	"bill-research-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(s *model.ResearchSession) *entity.ResearchSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ResearchSession{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ResearchSession) *model.ResearchSession {
	if s == nil {
		return nil
	}

	mod := &model.ResearchSession{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		mod.UpdatedAt = *s.UpdatedAt
	}
	return mod
}

func (m *ChatMapper) MessageToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:                c.Id,
		Chat:              c.Chat,
		Role:              c.Role,
		ResearchSessionId: c.ResearchSessionId,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         c.DeletedAt.Valid,
	}
}

func (m *ChatMapper) MessageToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}

	mod := &model.ChatMessage{
		Id:                c.Id,
		Chat:              c.Chat,
		Role:              c.Role,
		ResearchSessionId: c.ResearchSessionId,
		CreatedAt:         c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		mod.UpdatedAt = *c.UpdatedAt
	}
	return mod
}
