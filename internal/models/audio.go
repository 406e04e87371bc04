package models

import "time"

// AudioRecording represents a microphone chunk captured by a room device
type AudioRecording struct {
	Timestamp  time.Time `json:"timestamp"`
	DeviceID   string    `json:"device_id"`
	Data       []byte    `json:"-"`           // Raw PCM bytes (not serialized in JSON)
	DataBase64 string    `json:"data"`        // Base64 encoded for transport
	SampleRate int       `json:"sample_rate"` // e.g., 16000 Hz
	Duration   float64   `json:"duration"`    // seconds
	Format     string    `json:"format"`      // "wav", "pcm"
}

// AudioPayload represents the incoming audio MQTT message structure
type AudioPayload struct {
	Data       []byte  `json:"data"` // base64 in JSON, decoded by json.Unmarshal
	SampleRate int     `json:"sample_rate"`
	Duration   float64 `json:"duration"`
	Format     string  `json:"format,omitempty"`
}
