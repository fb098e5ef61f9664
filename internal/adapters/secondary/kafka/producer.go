package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

// Producer синхронный producer событий прогрева карт
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := cfg.NewSaramaConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)

	return newProducer(producer, cfg, log), nil
}

func newProducer(producer sarama.SyncProducer, cfg *Config, log *slog.Logger) *Producer {
	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}
}

// SendChartWarmup ключ сообщения user_id, чтобы события одного пользователя шли в одну партицию
func (p *Producer) SendChartWarmup(ctx context.Context, userID uuid.UUID) error {
	value, err := json.Marshal(domain.ChartWarmupEvent{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to marshal chart warmup event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.cfg.Topic,
		Key:   sarama.StringEncoder(userID.String()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("action"), Value: []byte(domain.ChartWarmupAction)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed", "error", err, "topic", p.cfg.Topic, "key", userID)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.cfg.Topic, userID, err)
	}

	p.log.Debug("chart warmup sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"user_id", userID,
	)
	return nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
