package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// DefaultPublishTimeout ограничение на отправку одного события
const DefaultPublishTimeout = 3 * time.Second

// KafkaSink публикует события в Kafka в фоне
// Ошибки отправки только логируются: на ответ клиенту они не влияют
type KafkaSink struct {
	writer  messageWriter
	timeout time.Duration
	log     Logger
	wg      sync.WaitGroup

	// после Close новые события отбрасываются
	mu     sync.Mutex
	closed bool
}

// NewKafkaSink создает синк для топика topic
func NewKafkaSink(brokers []string, topic string, timeout time.Duration, log Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...interface{}) {}),
	}
	return newKafkaSink(writer, timeout, log)
}

func newKafkaSink(writer messageWriter, timeout time.Duration, log Logger) *KafkaSink {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &KafkaSink{
		writer:  writer,
		timeout: timeout,
		log:     log,
	}
}

// Track отправляет событие, не блокируя вызывающего
// Отправка не отменяется вместе с запросом, но ограничена таймаутом
func (s *KafkaSink) Track(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("Telemetry: failed to marshal event %s: %v", event.Name, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Name),
		Value: payload,
		Time:  event.OccurredAt,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("Telemetry: sink closed, dropping event %s id=%s", event.Name, event.ID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.writer.WriteMessages(publishCtx, msg); err != nil {
			s.log.Warn("Telemetry: failed to publish event %s id=%s: %v", event.Name, event.ID, err)
		}
	}()
}

// Close дожидается отправки событий в полете и закрывает writer
// Повторный вызов ничего не делает
func (s *KafkaSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	return s.writer.Close()
}

// NopSink синк для отключенной телеметрии
type NopSink struct{}

func (NopSink) Track(context.Context, Event) {}

func (NopSink) Close() error { return nil }
