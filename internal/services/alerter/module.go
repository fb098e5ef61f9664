package alerter

import (
	"context"
	"log/slog"

	"github.com/admin/astro-match/internal/ports/service"
)

type sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service без настроенного клиента алерты только пишутся в лог
type Service struct {
	client sender
	log    *slog.Logger
}

func New(client sender, log *slog.Logger) service.IAlerterService {
	return &Service{
		client: client,
		log:    log,
	}
}

func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert dropped, alerter is not configured", "message", message)
		return nil
	}
	return s.client.SendAlert(ctx, message)
}
