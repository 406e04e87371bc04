package speech

import (
	"context"
	"encoding/base64"
	"time"

	"smarthome-panel/internal/models"
)

// ChannelSource assembles phrases from audio chunks arriving on a channel.
// A phrase starts with the first chunk and extends with chunks from the same
// device that arrive within the pause window, up to the phrase limit.
// A chunk from another device ends the phrase and starts the next one.
// Listen is called from a single goroutine.
type ChannelSource struct {
	chunks  <-chan *models.AudioRecording
	pending *models.AudioRecording
}

// NewChannelSource reads chunks from ch. Closing ch makes Listen return
// ErrUnavailable.
func NewChannelSource(ch <-chan *models.AudioRecording) *ChannelSource {
	return &ChannelSource{chunks: ch}
}

// Listen waits up to opts.Wait for the first chunk, then collects the phrase
func (s *ChannelSource) Listen(ctx context.Context, opts ListenOptions) (*models.AudioRecording, error) {
	wait := time.NewTimer(opts.Wait)
	defer wait.Stop()

	var phrase *models.AudioRecording
	if s.pending != nil {
		phrase, s.pending = s.pending, nil
	} else {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait.C:
			return nil, ErrWaitTimeout
		case chunk, ok := <-s.chunks:
			if !ok {
				return nil, ErrUnavailable
			}
			phrase = cloneRecording(chunk)
		}
	}

	limit := opts.PhraseLimit.Seconds()
	for limit <= 0 || phrase.Duration < limit {
		if opts.Pause <= 0 {
			break
		}
		pause := time.NewTimer(opts.Pause)
		select {
		case <-ctx.Done():
			pause.Stop()
			return finish(phrase, limit), nil
		case <-pause.C:
			return finish(phrase, limit), nil
		case chunk, ok := <-s.chunks:
			pause.Stop()
			if !ok {
				return finish(phrase, limit), nil
			}
			if chunk.DeviceID != phrase.DeviceID {
				s.pending = cloneRecording(chunk)
				return finish(phrase, limit), nil
			}
			phrase.Data = append(phrase.Data, chunk.Data...)
			phrase.Duration += chunk.Duration
		}
	}
	return finish(phrase, limit), nil
}

func cloneRecording(r *models.AudioRecording) *models.AudioRecording {
	c := *r
	c.Data = append([]byte(nil), r.Data...)
	return &c
}

func finish(phrase *models.AudioRecording, limit float64) *models.AudioRecording {
	trimToDuration(phrase, limit)
	phrase.DataBase64 = base64.StdEncoding.EncodeToString(phrase.Data)
	return phrase
}
