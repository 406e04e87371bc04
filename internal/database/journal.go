package database

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/notify"
)

const (
	enqueueTimeout = 100 * time.Millisecond
	writeTimeout   = 5 * time.Second
)

// Store persists journal entries
type Store interface {
	SaveEvent(ctx context.Context, rec *EventRecord) error
	UpsertDevice(ctx context.Context, rec *DeviceRecord) error
}

type journalEntry struct {
	event  *EventRecord
	device *DeviceRecord
}

// Journal buffers controller events and writes them from a worker
// goroutine, so views never wait on the database
type Journal struct {
	store   Store
	entries chan journalEntry
	logger  *zap.Logger
	now     func() time.Time
}

// NewJournal creates a journal holding up to buffer pending entries
func NewJournal(store Store, buffer int, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &Journal{
		store:   store,
		entries: make(chan journalEntry, buffer),
		logger:  logger,
		now:     time.Now,
	}
}

// Record queues e; it implements notify.Recorder. Device events also queue
// a registry version.
func (j *Journal) Record(controllerName string, e notify.Event) {
	now := j.now().UTC()
	payload, err := json.Marshal(controller.Redact(e))
	if err != nil {
		j.logger.Warn("Failed to encode event", zap.String("event", e.Kind()), zap.Error(err))
		payload = []byte("{}")
	}

	entry := journalEntry{event: &EventRecord{
		Timestamp:  now,
		Controller: controllerName,
		Kind:       e.Kind(),
		Subject:    controller.Subject(e),
		Payload:    string(payload),
	}}
	switch ev := e.(type) {
	case controller.DeviceAdded:
		entry.device = &DeviceRecord{Device: ev.Device, UpdatedAt: now}
	case controller.DeviceUpdated:
		entry.device = &DeviceRecord{Device: ev.Device, UpdatedAt: now}
	case controller.DeviceDeleted:
		entry.device = &DeviceRecord{UpdatedAt: now, Deleted: true}
		entry.device.Device.ID = ev.DeviceID
	}

	select {
	case j.entries <- entry:
	case <-time.After(enqueueTimeout):
		j.logger.Warn("Journal buffer full, dropping event", zap.String("event", e.Kind()))
	}
}

// Run writes queued entries until ctx is cancelled, then flushes what is
// already buffered
func (j *Journal) Run(ctx context.Context) {
	j.logger.Info("Journal writer started")
	for {
		select {
		case <-ctx.Done():
			j.flush()
			j.logger.Info("Journal writer stopped")
			return
		case entry := <-j.entries:
			j.write(ctx, entry)
		}
	}
}

func (j *Journal) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	for {
		select {
		case entry := <-j.entries:
			j.write(ctx, entry)
		default:
			return
		}
	}
}

func (j *Journal) write(ctx context.Context, entry journalEntry) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := j.store.SaveEvent(ctx, entry.event); err != nil {
		j.logger.Error("Failed to save event", zap.String("event", entry.event.Kind), zap.Error(err))
	}
	if entry.device != nil {
		if err := j.store.UpsertDevice(ctx, entry.device); err != nil {
			j.logger.Error("Failed to save device version", zap.String("device_id", entry.device.Device.ID), zap.Error(err))
		}
	}
}
