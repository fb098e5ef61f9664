package kafka

import "context"

// MessageHandler обработчик сообщений одного топика; key это ключ партиционирования (user id)
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, value []byte) error
}
