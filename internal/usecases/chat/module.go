package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/admin/astro-match/internal/pkg/ndjson"
	"github.com/admin/astro-match/internal/ports/repository"
	"github.com/admin/astro-match/internal/ports/service"
	"github.com/google/uuid"
)

// Service чат с астрологическим ассистентом и история сообщений
type Service struct {
	ChatRepo   repository.IChatMessageRepo
	LLMService service.ILLMService
	Log        *slog.Logger

	now func() time.Time
}

func New(chatRepo repository.IChatMessageRepo, llmService service.ILLMService, log *slog.Logger) *Service {
	return &Service{
		ChatRepo:   chatRepo,
		LLMService: llmService,
		Log:        log,
		now:        time.Now,
	}
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error) {
	messages, err := s.ChatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

// Send ответ целиком одним вызовом модели
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req domain.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}
	s.store(ctx, userID, req.Prompt, false)

	reply, err := s.LLMService.Complete(ctx, BuildMessages(req, s.now()))
	if err != nil {
		metrics.ChatStreams.WithLabelValues("single", "error").Inc()
		return "", fmt.Errorf("failed to get chat response: %w", err)
	}
	metrics.ChatStreams.WithLabelValues("single", "ok").Inc()

	s.store(ctx, userID, reply, true)
	return reply, nil
}

// Stream отдаёт фрагменты {delta, fullResponse} и завершающий {response, done}.
// Сбой после первого фрагмента уходит строкой {error}, до него только возвращается.
// Ответ ассистента сохраняется только после завершающего фрагмента
func (s *Service) Stream(ctx context.Context, userID uuid.UUID, req domain.ChatRequest, emit func(domain.ChatFragment) error) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.ErrEmptyPrompt
	}
	s.store(ctx, userID, req.Prompt, false)

	var acc ndjson.Accumulator
	sent := false
	err := s.LLMService.Stream(ctx, BuildMessages(req, s.now()), func(delta string) error {
		if _, err := acc.Feed(domain.ChatFragment{Delta: delta}); err != nil {
			return err
		}
		sent = true
		return emit(domain.ChatFragment{Delta: delta, FullResponse: acc.Text()})
	})
	if err != nil {
		metrics.ChatStreams.WithLabelValues("stream", "error").Inc()
		s.Log.Warn("chat stream failed", "error", err, "user_id", userID, "received", len(acc.Text()))
		if sent {
			if emitErr := emit(domain.ChatFragment{Error: err.Error()}); emitErr != nil {
				s.Log.Debug("failed to emit stream error", "error", emitErr)
			}
		}
		return fmt.Errorf("failed to stream chat response: %w", err)
	}

	reply := acc.Text()
	if err := emit(domain.ChatFragment{Response: reply, Done: true}); err != nil {
		metrics.ChatStreams.WithLabelValues("stream", "aborted").Inc()
		return fmt.Errorf("failed to emit final fragment: %w", err)
	}
	metrics.ChatStreams.WithLabelValues("stream", "ok").Inc()

	s.store(ctx, userID, reply, true)
	return nil
}

// store ошибка записи истории не мешает ответу
func (s *Service) store(ctx context.Context, userID uuid.UUID, text string, fromAI bool) {
	msg := &domain.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   text,
		IsFromAI:  fromAI,
		CreatedAt: s.now(),
	}
	if err := s.ChatRepo.Create(ctx, msg); err != nil {
		s.Log.Warn("failed to store chat message", "error", err, "user_id", userID, "is_from_ai", fromAI)
	}
}
