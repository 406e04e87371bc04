package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

const (
	maxHistory   = 50
	queueSize    = 64
	listenWait   = time.Second
	errorBackoff = 500 * time.Millisecond
)

// Listener runs the background listen loop and queues recognized phrases
type Listener struct {
	source     AudioSource
	recognizer Recognizer
	logger     *zap.Logger

	listening atomic.Bool
	queue     chan string

	mu      sync.Mutex
	params  Params
	gate    *EnergyGate
	history []Entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewListener creates a stopped listener. A nil source or recognizer makes
// the listener unavailable: Start always returns false.
func NewListener(source AudioSource, recognizer Recognizer, params Params, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultParams()
	if params.EnergyThreshold <= 0 {
		params.EnergyThreshold = defaults.EnergyThreshold
	}
	if params.PauseThreshold <= 0 {
		params.PauseThreshold = defaults.PauseThreshold
	}
	if params.PhraseTimeLimit <= 0 {
		params.PhraseTimeLimit = defaults.PhraseTimeLimit
	}
	return &Listener{
		source:     source,
		recognizer: recognizer,
		logger:     logger,
		queue:      make(chan string, queueSize),
		params:     params,
		gate:       NewEnergyGate(params.EnergyThreshold),
	}
}

// Available reports whether the listener has a source and a recognizer
func (l *Listener) Available() bool {
	return l.source != nil && l.recognizer != nil
}

// Start launches the listen loop. It returns false if the listener is
// unavailable or already running.
func (l *Listener) Start() bool {
	return l.StartFor(0)
}

// StartFor is Start with a session length; zero means until stopped
func (l *Listener) StartFor(session time.Duration) bool {
	if !l.Available() {
		l.logger.Warn("Speech recognition unavailable")
		return false
	}
	if !l.listening.CompareAndSwap(false, true) {
		return false
	}

	l.mu.Lock()
	// A previous loop may still be finishing its last Listen call.
	prev := l.cancel
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()
	if prev != nil {
		prev()
	}

	var deadline time.Time
	if session > 0 {
		deadline = time.Now().Add(session)
	}

	l.wg.Add(1)
	go l.loop(ctx, deadline)
	l.logger.Info("Speech listening started")
	return true
}

// Stop asks the loop to exit after its current iteration
func (l *Listener) Stop() {
	if l.listening.CompareAndSwap(true, false) {
		l.logger.Info("Speech listening stopped")
	}
}

// Close stops the loop, interrupts any in-flight call and waits for exit
func (l *Listener) Close() {
	l.Stop()
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

// IsListening reports whether the loop is requested to run
func (l *Listener) IsListening() bool {
	return l.listening.Load()
}

// NextPhrase returns the oldest queued phrase, waiting up to timeout.
// A non-positive timeout does not block.
func (l *Listener) NextPhrase(timeout time.Duration) (string, bool) {
	if timeout <= 0 {
		select {
		case text := <-l.queue:
			return text, true
		default:
			return "", false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case text := <-l.queue:
		return text, true
	case <-timer.C:
		return "", false
	}
}

// History returns the last limit recognized phrases, oldest first.
// A non-positive limit returns the whole history.
func (l *Listener) History(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := 0
	if limit > 0 && limit < len(l.history) {
		start = len(l.history) - limit
	}
	out := make([]Entry, len(l.history)-start)
	copy(out, l.history[start:])
	return out
}

// ClearHistory forgets all recognized phrases
func (l *Listener) ClearHistory() {
	l.mu.Lock()
	l.history = nil
	l.mu.Unlock()
}

// Params returns the current recognition parameters
func (l *Listener) Params() Params {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

// SetParameters updates the non-zero fields of p
func (l *Listener) SetParameters(p Params) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.EnergyThreshold > 0 {
		l.params.EnergyThreshold = p.EnergyThreshold
		l.gate.Threshold = p.EnergyThreshold
	}
	if p.PauseThreshold > 0 {
		l.params.PauseThreshold = p.PauseThreshold
	}
	if p.PhraseTimeLimit > 0 {
		l.params.PhraseTimeLimit = p.PhraseTimeLimit
	}
	l.logger.Info("Speech parameters updated",
		zap.Float64("energy_threshold", l.params.EnergyThreshold),
		zap.Duration("pause_threshold", l.params.PauseThreshold),
		zap.Duration("phrase_time_limit", l.params.PhraseTimeLimit))
}

func (l *Listener) loop(ctx context.Context, deadline time.Time) {
	defer l.wg.Done()

	for l.listening.Load() && ctx.Err() == nil {
		if !deadline.IsZero() && time.Now().After(deadline) {
			l.listening.Store(false)
			l.logger.Info("Speech session ended")
			return
		}

		params := l.Params()
		rec, err := l.source.Listen(ctx, ListenOptions{
			Wait:        listenWait,
			Pause:       params.PauseThreshold,
			PhraseLimit: params.PhraseTimeLimit,
		})
		switch {
		case err == nil:
		case errors.Is(err, ErrWaitTimeout):
			continue
		case ctx.Err() != nil:
			return
		case errors.Is(err, ErrUnavailable):
			l.logger.Error("Audio source unavailable, listening stopped", zap.Error(err))
			l.listening.Store(false)
			return
		default:
			l.logger.Warn("Audio capture failed", zap.Error(err))
			if !sleepCtx(ctx, errorBackoff) {
				return
			}
			continue
		}

		if !l.admit(rec) {
			continue
		}

		text, err := l.recognizer.Recognize(ctx, rec)
		if err != nil {
			if errors.Is(err, ErrUnknownValue) {
				l.logger.Debug("Speech not understood", zap.String("device_id", rec.DeviceID))
			} else if ctx.Err() == nil {
				l.logger.Warn("Speech recognition failed", zap.Error(err))
			}
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		l.record(text)
		select {
		case l.queue <- text:
		case <-time.After(time.Second):
			l.logger.Warn("Phrase queue full, dropping phrase", zap.String("text", text))
		case <-ctx.Done():
			return
		}
	}
}

func (l *Listener) admit(rec *models.AudioRecording) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gate.Admit(rec) {
		return true
	}
	l.logger.Debug("Audio below energy threshold",
		zap.String("device_id", rec.DeviceID),
		zap.Float64("threshold", l.gate.Threshold))
	return false
}

func (l *Listener) record(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, Entry{Timestamp: time.Now(), Text: text})
	if len(l.history) > maxHistory {
		l.history = append([]Entry(nil), l.history[len(l.history)-maxHistory:]...)
	}
	l.logger.Info("Phrase recognized", zap.String("text", text))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
