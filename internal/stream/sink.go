// Package stream publishes panel events to a Redis stream for other home
// services to consume.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/notify"
)

const (
	publishTimeout = 500 * time.Millisecond
	maxStreamLen   = 10000
	defaultBuffer  = 256
)

// Message is one stream entry
type Message struct {
	ID         string
	Kind       string
	Controller string
	Data       string // JSON of the event
	Timestamp  time.Time
}

type pendingEvent struct {
	controller string
	event      notify.Event
	at         time.Time
}

// Sink appends events to a stream with XADD. Recorded events are queued and
// written by Run, so views never wait on Redis.
type Sink struct {
	client *redis.Client
	stream string
	queue  chan pendingEvent
	logger *zap.Logger
	now    func() time.Time
}

// NewSink creates a sink writing to stream, holding up to buffer queued
// events
func NewSink(client *redis.Client, stream string, buffer int, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Sink{
		client: client,
		stream: stream,
		queue:  make(chan pendingEvent, buffer),
		logger: logger,
		now:    time.Now,
	}
}

// Connect opens a client for addr and checks it with PING
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// Record queues e for Run; it implements notify.Recorder. A full queue
// drops the event.
func (s *Sink) Record(controllerName string, e notify.Event) {
	select {
	case s.queue <- pendingEvent{controller: controllerName, event: e, at: s.now()}:
	default:
		s.logger.Warn("Stream buffer full, dropping event",
			zap.String("stream", s.stream),
			zap.String("event", e.Kind()))
	}
}

// Run publishes queued events until ctx is cancelled, then flushes what is
// already queued
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return
		case p := <-s.queue:
			s.write(ctx, p)
		}
	}
}

func (s *Sink) flush() {
	for {
		select {
		case p := <-s.queue:
			s.write(context.Background(), p)
		default:
			return
		}
	}
}

func (s *Sink) write(ctx context.Context, p pendingEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if _, err := s.publish(ctx, p.controller, p.event, p.at); err != nil {
		s.logger.Warn("Failed to publish event to stream",
			zap.String("stream", s.stream),
			zap.String("event", p.event.Kind()),
			zap.Error(err))
	}
}

// Publish appends e and returns the entry id
func (s *Sink) Publish(ctx context.Context, controllerName string, e notify.Event) (string, error) {
	return s.publish(ctx, controllerName, e, s.now())
}

func (s *Sink) publish(ctx context.Context, controllerName string, e notify.Event, at time.Time) (string, error) {
	data, err := json.Marshal(controller.Redact(e))
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", e.Kind(), err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":       e.Kind(),
			"controller": controllerName,
			"data":       string(data),
			"timestamp":  at.Unix(),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return id, nil
}

// Recent returns up to n entries, newest first
func (s *Sink) Recent(ctx context.Context, n int64) ([]Message, error) {
	entries, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange %s: %w", s.stream, err)
	}

	out := make([]Message, 0, len(entries))
	for _, entry := range entries {
		msg := Message{
			ID:         entry.ID,
			Kind:       str(entry.Values["kind"]),
			Controller: str(entry.Values["controller"]),
			Data:       str(entry.Values["data"]),
		}
		if ts, err := strconv.ParseInt(str(entry.Values["timestamp"]), 10, 64); err == nil {
			msg.Timestamp = time.Unix(ts, 0)
		}
		out = append(out, msg)
	}
	return out, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
