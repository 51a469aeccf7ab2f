package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/entity"
	"bolt-sync-be/internal/repository/specification"
	"bolt-sync-be/internal/repository/unitofwork"
	"bolt-sync-be/pkg/events"
	"bolt-sync-be/pkg/llm"
	pktNats "bolt-sync-be/pkg/nats"

	"github.com/google/uuid"
)

const codeAssistantSystemPrompt = "You are a coding assistant working inside a web project editor. " +
	"Answer with concrete code changes when asked, referencing project file paths."

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	History(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
	StreamPrompt(ctx context.Context, req *dto.StreamPromptRequest) (<-chan llm.Chunk, <-chan error, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	provider       llm.LLMProvider
	eventPublisher *pktNats.Publisher
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		provider:       provider,
		eventPublisher: eventPublisher,
	}
}

func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: req.ProjectId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %s not found", req.ProjectId)
	}

	title := req.Title
	if title == "" {
		title = "New chat"
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.SessionCreated, map[string]interface{}{
			"project_id": req.ProjectId.String(),
			"session_id": session.Id.String(),
		})
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) History(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ChatMessageView, len(messages))
	for i, m := range messages {
		views[i] = dto.ChatMessageView{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}

	return &dto.SessionHistoryResponse{
		SessionId: sessionId,
		Messages:  views,
	}, nil
}

// StreamPrompt persists the user message, streams the model response and
// persists the assembled assistant reply once the stream completes.
func (s *chatService) StreamPrompt(ctx context.Context, req *dto.StreamPromptRequest) (<-chan llm.Chunk, <-chan error, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("session %s not found", req.SessionId)
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySession{SessionID: req.SessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		Role:      entity.RoleUser,
		Content:   req.Prompt,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, nil, err
	}

	llmHistory := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		llmHistory = append(llmHistory, llm.Message{Role: m.Role, Content: m.Content})
	}
	llmHistory = append(llmHistory, llm.Message{Role: entity.RoleUser, Content: req.Prompt})

	opts := []llm.Option{llm.WithSystem(codeAssistantSystemPrompt)}
	model := req.Model
	if model == "" {
		// Fall back to the seeded default provider row, if any.
		if cfg, err := uow.ProviderConfigRepository().FindDefault(ctx); err == nil && cfg != nil {
			model = cfg.Model
		}
	}
	if model != "" {
		opts = append(opts, llm.WithModel(model))
	}

	chunks, errs := s.provider.ChatStream(ctx, llmHistory, opts...)

	out := make(chan llm.Chunk)
	outErrs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(outErrs)

		var sb strings.Builder
		for chunk := range chunks {
			sb.WriteString(chunk.Content)
			select {
			case out <- chunk:
			case <-ctx.Done():
				outErrs <- ctx.Err()
				return
			}
		}

		if err := <-errs; err != nil {
			outErrs <- err
			return
		}

		if sb.Len() > 0 {
			// Persist with a fresh context; the request context is tied to
			// the client connection and may already be gone.
			persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			assistantMsg := &entity.ChatMessage{
				Id:        uuid.New(),
				SessionId: req.SessionId,
				Role:      entity.RoleAssistant,
				Content:   sb.String(),
				CreatedAt: time.Now(),
			}
			persistUow := s.uowFactory.NewUnitOfWork(persistCtx)
			if err := persistUow.ChatMessageRepository().Create(persistCtx, assistantMsg); err != nil {
				outErrs <- err
			}
		}
	}()

	return out, outErrs, nil
}
