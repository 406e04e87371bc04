package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/models"
)

const (
	publishTimeout = 2 * time.Second
	defaultBuffer  = 64
)

// DeviceState is the retained payload published for a device
type DeviceState struct {
	Event     string        `json:"event"`
	Device    models.Device `json:"device"`
	Timestamp time.Time     `json:"timestamp"`
}

type stateUpdate struct {
	event  string
	device models.Device
	clear  bool
	at     time.Time
}

// StatePublisher mirrors device registry changes to the broker. Added and
// updated devices are published retained; a deleted device gets an empty
// retained payload, which clears it on the broker. Update only queues;
// Run does the publishing.
type StatePublisher struct {
	broker Broker
	topic  string // e.g., "home/device/{device_id}/state"
	queue  chan stateUpdate
	logger *zap.Logger
	now    func() time.Time
}

// NewStatePublisher creates a publisher for topic holding up to buffer
// queued updates
func NewStatePublisher(broker Broker, topic string, buffer int, logger *zap.Logger) *StatePublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &StatePublisher{
		broker: broker,
		topic:  topic,
		queue:  make(chan stateUpdate, buffer),
		logger: logger,
		now:    time.Now,
	}
}

// Update queues device events; validation events are ignored. A full queue
// drops the update.
func (p *StatePublisher) Update(event controller.DeviceEvent) {
	u := stateUpdate{event: event.Kind(), at: p.now().UTC()}
	switch e := event.(type) {
	case controller.DeviceAdded:
		u.device = e.Device
	case controller.DeviceUpdated:
		u.device = e.Device
	case controller.DeviceDeleted:
		u.device.ID = e.DeviceID
		u.clear = true
	default:
		return
	}

	select {
	case p.queue <- u:
	default:
		p.logger.Warn("State queue full, dropping update",
			zap.String("event", u.event),
			zap.String("device_id", u.device.ID))
	}
}

// Run publishes queued updates in order until ctx is cancelled, then
// flushes what is already queued
func (p *StatePublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case u := <-p.queue:
					p.apply(u)
				default:
					return
				}
			}
		case u := <-p.queue:
			p.apply(u)
		}
	}
}

func (p *StatePublisher) apply(u stateUpdate) {
	var err error
	if u.clear {
		err = p.Clear(u.device.ID)
	} else {
		err = p.publishState(u.event, u.device, u.at)
	}
	if err != nil {
		p.logger.Warn("Failed to publish device state", zap.String("event", u.event), zap.Error(err))
	}
}

// PublishState publishes d as the retained state of its device
func (p *StatePublisher) PublishState(event string, d models.Device) error {
	return p.publishState(event, d, p.now().UTC())
}

func (p *StatePublisher) publishState(event string, d models.Device, at time.Time) error {
	payload, err := json.Marshal(DeviceState{Event: event, Device: d, Timestamp: at})
	if err != nil {
		return fmt.Errorf("failed to marshal device state: %w", err)
	}

	topic := formatTopic(p.topic, d.ID)
	if err := wait(p.broker.Publish(topic, 1, true, payload), publishTimeout); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("Published device state", zap.String("device_id", d.ID), zap.String("topic", topic))
	return nil
}

// Clear removes the retained state of a device
func (p *StatePublisher) Clear(deviceID string) error {
	topic := formatTopic(p.topic, deviceID)
	if err := wait(p.broker.Publish(topic, 1, true, []byte{}), publishTimeout); err != nil {
		return fmt.Errorf("failed to clear %s: %w", topic, err)
	}
	p.logger.Debug("Cleared device state", zap.String("device_id", deviceID), zap.String("topic", topic))
	return nil
}
