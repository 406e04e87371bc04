// Package speech turns microphone audio into recognized phrases.
//
// A Listener runs one background goroutine that pulls phrases from an
// AudioSource, filters silence with an EnergyGate, sends the audio to a
// Recognizer and queues the text. Consumers poll the queue with NextPhrase.
// Source and recognizer failures are logged and yield no phrase.
package speech

import (
	"context"
	"errors"
	"time"

	"smarthome-panel/internal/models"
)

var (
	// ErrWaitTimeout means no speech started within the wait window
	ErrWaitTimeout = errors.New("speech: no phrase before timeout")
	// ErrUnknownValue means the service could not understand the audio
	ErrUnknownValue = errors.New("speech: audio not understood")
	// ErrUnavailable means the audio source or service cannot be used
	ErrUnavailable = errors.New("speech: recognition unavailable")
)

// ListenOptions bound a single Listen call
type ListenOptions struct {
	Wait        time.Duration // how long to wait for speech to start
	Pause       time.Duration // silence that ends a phrase
	PhraseLimit time.Duration // maximum phrase length
}

// AudioSource yields one phrase of audio per call
type AudioSource interface {
	Listen(ctx context.Context, opts ListenOptions) (*models.AudioRecording, error)
}

// Recognizer converts a phrase of audio to text
type Recognizer interface {
	Recognize(ctx context.Context, rec *models.AudioRecording) (string, error)
}

// Params tune recognition; zero fields passed to SetParameters are ignored
type Params struct {
	EnergyThreshold float64       // RMS amplitude that counts as speech
	PauseThreshold  time.Duration // silence that ends a phrase
	PhraseTimeLimit time.Duration // maximum phrase length
}

// DefaultParams mirror the panel's shipped settings
func DefaultParams() Params {
	return Params{
		EnergyThreshold: 300,
		PauseThreshold:  800 * time.Millisecond,
		PhraseTimeLimit: 5 * time.Second,
	}
}

// Entry is one recognized phrase
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}
