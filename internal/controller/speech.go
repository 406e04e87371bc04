package controller

import (
	"time"

	"go.uber.org/zap"

	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/speech"
)

// Listener is the voice capture backend driven by Speech
type Listener interface {
	Start() bool
	Stop()
	IsListening() bool
	NextPhrase(timeout time.Duration) (string, bool)
	History(limit int) []speech.Entry
	ClearHistory()
	SetParameters(p speech.Params)
}

// Speech exposes voice input to the panel
type Speech struct {
	*notify.Bus[SpeechEvent]
	listener Listener
	logger   *zap.Logger
}

// NewSpeech creates a speech controller. A nil listener disables voice
// input: StartListening always fails.
func NewSpeech(listener Listener, logger *zap.Logger) *Speech {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Speech{
		Bus:      notify.NewBus[SpeechEvent]("speech", logger),
		listener: listener,
		logger:   logger,
	}
}

// Available reports whether a listener is configured
func (c *Speech) Available() bool {
	return c.listener != nil
}

// StartListening starts background recognition
func (c *Speech) StartListening() bool {
	if c.listener == nil || !c.listener.Start() {
		return false
	}
	c.Notify(ListeningStarted{})
	return true
}

// StopListening asks background recognition to stop
func (c *Speech) StopListening() {
	if c.listener == nil || !c.listener.IsListening() {
		return
	}
	c.listener.Stop()
	c.Notify(ListeningStopped{})
}

// IsListening reports whether recognition is running
func (c *Speech) IsListening() bool {
	return c.listener != nil && c.listener.IsListening()
}

// NextPhrase waits up to timeout for a recognized phrase. It may be called
// from a polling goroutine; it does not notify views.
func (c *Speech) NextPhrase(timeout time.Duration) (string, bool) {
	if c.listener == nil {
		return "", false
	}
	return c.listener.NextPhrase(timeout)
}

// Deliver announces a phrase taken from NextPhrase to the views. Call it
// on the goroutine that owns the views.
func (c *Speech) Deliver(phrase string) {
	c.Notify(PhraseRecognized{Phrase: phrase})
}

// History returns up to limit recent phrases, oldest first
func (c *Speech) History(limit int) []speech.Entry {
	if c.listener == nil {
		return nil
	}
	return c.listener.History(limit)
}

// ClearHistory forgets recognized phrases
func (c *Speech) ClearHistory() {
	if c.listener != nil {
		c.listener.ClearHistory()
	}
}

// SetParameters retunes recognition; zero fields are left unchanged
func (c *Speech) SetParameters(p speech.Params) {
	if c.listener != nil {
		c.listener.SetParameters(p)
	}
}
