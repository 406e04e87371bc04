package mqtt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

const subscribeTimeout = 10 * time.Second

// AudioSubscriber decodes microphone chunks and writes them to AudioChan
type AudioSubscriber struct {
	broker Broker
	topic  string // e.g., "sensor/+/audio"
	logger *zap.Logger

	// Output channel (written by subscriber, read by the speech source)
	AudioChan chan *models.AudioRecording
}

// NewAudioSubscriber creates a subscriber writing to audioChan
func NewAudioSubscriber(broker Broker, topic string, audioChan chan *models.AudioRecording, logger *zap.Logger) *AudioSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioSubscriber{
		broker:    broker,
		topic:     topic,
		logger:    logger,
		AudioChan: audioChan,
	}
}

// Subscribe registers the audio handler on the broker
func (s *AudioSubscriber) Subscribe() error {
	if err := wait(s.broker.Subscribe(s.topic, 1, s.handleAudio), subscribeTimeout); err != nil {
		return fmt.Errorf("failed to subscribe to audio topic %s: %w", s.topic, err)
	}
	s.logger.Info("Subscribed to audio topic", zap.String("topic", s.topic))
	return nil
}

// Unsubscribe removes the audio handler
func (s *AudioSubscriber) Unsubscribe() error {
	return wait(s.broker.Unsubscribe(s.topic), subscribeTimeout)
}

// handleAudio processes audio messages and writes to channel
func (s *AudioSubscriber) handleAudio(_ mqtt.Client, msg mqtt.Message) {
	var payload models.AudioPayload

	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		s.logger.Warn("Error unmarshaling audio data", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	// Extract device ID from topic (sensor/{device_id}/audio)
	deviceID := extractDeviceID(msg.Topic())
	if deviceID == "" {
		s.logger.Warn("Could not extract device ID from topic", zap.String("topic", msg.Topic()))
		return
	}
	if len(payload.Data) == 0 {
		return
	}

	format := payload.Format
	if format == "" {
		format = "pcm"
	}

	recording := &models.AudioRecording{
		Timestamp:  time.Now(),
		DeviceID:   deviceID,
		Data:       payload.Data,
		DataBase64: base64.StdEncoding.EncodeToString(payload.Data),
		SampleRate: payload.SampleRate,
		Duration:   payload.Duration,
		Format:     format,
	}

	s.logger.Debug("Received audio",
		zap.String("device_id", deviceID),
		zap.Float64("duration", payload.Duration),
		zap.Int("sample_rate", payload.SampleRate))

	// Write to channel (non-blocking with timeout)
	select {
	case s.AudioChan <- recording:
	case <-time.After(2 * time.Second):
		s.logger.Warn("Audio channel full, dropping message", zap.String("device_id", deviceID))
	}
}
