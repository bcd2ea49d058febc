package service

import (
	"context"
	"sort"
	"testing"

	"bill-research-be/internal/constant"
	"bill-research-be/internal/dto"
	"bill-research-be/internal/entity"
	"bill-research-be/internal/repository/contract"
	"bill-research-be/internal/repository/specification"
	"bill-research-be/internal/repository/unitofwork"
	"bill-research-be/pkg/llm"
	"bill-research-be/pkg/research/executor"
	"bill-research-be/pkg/research/state"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	contract.ResearchSessionRepository

	sessions map[uuid.UUID]*entity.ResearchSession
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ResearchSession) error {
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ResearchSession) error {
	r.sessions[session.Id] = session
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.sessions[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchSession, error) {
	out := make([]*entity.ResearchSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository

	messages []*entity.ChatMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var sessionId uuid.UUID
	for _, spec := range specs {
		if bySession, ok := spec.(specification.ByResearchSessionID); ok {
			sessionId = bySession.ResearchSessionID
		}
	}

	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if sessionId == uuid.Nil || m.ResearchSessionId == sessionId {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ResearchSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type fakeUow struct {
	unitofwork.UnitOfWork

	sessionRepo *fakeSessionRepo
	messageRepo *fakeMessageRepo
	commits     int
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ResearchSessionRepository() contract.ResearchSessionRepository {
	return u.sessionRepo
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messageRepo
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePipeline struct {
	result   *executor.Result
	err      error
	gotInput []llm.Message
}

func (p *fakePipeline) Run(ctx context.Context, messages []llm.Message) (*executor.Result, error) {
	p.gotInput = messages
	return p.result, p.err
}

func newFixture() (*fakeFactory, *fakeUow) {
	uow := &fakeUow{
		sessionRepo: &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.ResearchSession)},
		messageRepo: &fakeMessageRepo{},
	}
	return &fakeFactory{uow: uow}, uow
}

func pipelineResult(report string, cards ...executor.BillCard) *executor.Result {
	return &executor.Result{
		State:     state.NewPipelineState(nil),
		Report:    report,
		BillCards: cards,
	}
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	factory, uow := newFixture()
	svc := NewResearchService(factory, &fakePipeline{})

	res, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	session := uow.sessionRepo.sessions[res.Id]
	require.NotNil(t, session)
	assert.Equal(t, constant.ResearchSessionDefaultTitle, session.Title)

	require.Len(t, uow.messageRepo.messages, 1)
	assert.Equal(t, constant.ChatMessageRoleModel, uow.messageRepo.messages[0].Role)
	assert.Equal(t, 1, uow.commits)
}

func TestSendResearchPersistsExchangeAndRenamesSession(t *testing.T) {
	factory, uow := newFixture()

	svc := NewResearchService(factory, &fakePipeline{})
	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	pipeline := &fakePipeline{result: pipelineResult("Here is the report.",
		executor.BillCard{Identifier: "HB 101", Title: "Clean Water Act Amendments"})}
	svc = NewResearchService(factory, pipeline)

	res, err := svc.SendResearch(context.Background(), &dto.SendResearchRequest{
		ResearchSessionId: created.Id,
		Question:          "what water bills passed?",
	})
	require.NoError(t, err)

	// Pipeline saw the greeting as assistant plus the new user turn.
	require.Len(t, pipeline.gotInput, 2)
	assert.Equal(t, "assistant", pipeline.gotInput[0].Role)
	assert.Equal(t, "user", pipeline.gotInput[1].Role)
	assert.Equal(t, "what water bills passed?", pipeline.gotInput[1].Content)

	assert.Equal(t, "Here is the report.", res.Reply.Chat)
	assert.Equal(t, constant.ChatMessageRoleModel, res.Reply.Role)
	assert.Equal(t, "what water bills passed?", res.Sent.Chat)
	require.Len(t, res.BillCards, 1)
	assert.Equal(t, "HB 101", res.BillCards[0].Identifier)

	// Greeting + question + reply persisted.
	assert.Len(t, uow.messageRepo.messages, 3)

	// First question names the session.
	assert.Equal(t, "what water bills passed?", res.Title)
	assert.Equal(t, "what water bills passed?", uow.sessionRepo.sessions[created.Id].Title)
}

func TestSendResearchUnknownSession(t *testing.T) {
	factory, _ := newFixture()
	svc := NewResearchService(factory, &fakePipeline{result: pipelineResult("r")})

	_, err := svc.SendResearch(context.Background(), &dto.SendResearchRequest{
		ResearchSessionId: uuid.New(),
		Question:          "anything",
	})
	require.Error(t, err)

	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestDeleteSessionRemovesMessages(t *testing.T) {
	factory, uow := newFixture()
	svc := NewResearchService(factory, &fakePipeline{})

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	err = svc.DeleteSession(context.Background(), &dto.DeleteSessionRequest{ResearchSessionId: created.Id})
	require.NoError(t, err)

	assert.Empty(t, uow.sessionRepo.sessions)
	assert.Empty(t, uow.messageRepo.messages)
}

func TestGetChatHistoryOrdersByCreation(t *testing.T) {
	factory, _ := newFixture()
	svc := NewResearchService(factory, &fakePipeline{result: pipelineResult("report one")})

	created, err := svc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = svc.SendResearch(context.Background(), &dto.SendResearchRequest{
		ResearchSessionId: created.Id,
		Question:          "first question",
	})
	require.NoError(t, err)

	history, err := svc.GetChatHistory(context.Background(), created.Id)
	require.NoError(t, err)

	require.Len(t, history, 3)
	assert.Equal(t, constant.ResearchGreeting, history[0].Chat)
	assert.Equal(t, "first question", history[1].Chat)
	assert.Equal(t, "report one", history[2].Chat)
}
