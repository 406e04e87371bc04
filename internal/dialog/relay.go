package dialog

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const phraseWait = 500 * time.Millisecond

// PhraseSource yields recognized phrases
type PhraseSource interface {
	NextPhrase(timeout time.Duration) (string, bool)
}

// VoiceRelay polls a PhraseSource while voice mode is on and hands each
// phrase to Dispatch. Dispatch runs on the relay goroutine; it should
// forward the phrase to the UI goroutine rather than touch UI state.
type VoiceRelay struct {
	source   PhraseSource
	dispatch func(string)
	interval time.Duration
	enabled  atomic.Bool
	logger   *zap.Logger
}

// NewVoiceRelay creates a disabled relay polling every interval
func NewVoiceRelay(source PhraseSource, interval time.Duration, dispatch func(string), logger *zap.Logger) *VoiceRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &VoiceRelay{
		source:   source,
		dispatch: dispatch,
		interval: interval,
		logger:   logger,
	}
}

// Enable turns voice mode on
func (r *VoiceRelay) Enable() { r.enabled.Store(true) }

// Disable turns voice mode off; queued phrases stay queued
func (r *VoiceRelay) Disable() { r.enabled.Store(false) }

// Enabled reports whether voice mode is on
func (r *VoiceRelay) Enabled() bool { return r.enabled.Load() }

// Run polls until ctx is cancelled
func (r *VoiceRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Voice relay started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Voice relay stopped")
			return
		case <-ticker.C:
			if !r.enabled.Load() {
				continue
			}
			phrase, ok := r.source.NextPhrase(phraseWait)
			if !ok || phrase == "" {
				continue
			}
			r.logger.Debug("Relaying phrase", zap.String("text", phrase))
			r.dispatch(phrase)
		}
	}
}
