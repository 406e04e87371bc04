package speech

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarthome-panel/internal/models"
)

func chunk(device string, seconds float64) *models.AudioRecording {
	const rate = 100
	return &models.AudioRecording{
		DeviceID:   device,
		SampleRate: rate,
		Duration:   seconds,
		Format:     "pcm",
		Data:       pcm(2000, int(seconds*rate)),
	}
}

func TestChannelSourceWaitTimeout(t *testing.T) {
	src := NewChannelSource(make(chan *models.AudioRecording))
	_, err := src.Listen(context.Background(), ListenOptions{Wait: 10 * time.Millisecond})
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestChannelSourceClosed(t *testing.T) {
	ch := make(chan *models.AudioRecording)
	close(ch)
	_, err := NewChannelSource(ch).Listen(context.Background(), ListenOptions{Wait: time.Second})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChannelSourceJoinsChunks(t *testing.T) {
	ch := make(chan *models.AudioRecording, 4)
	ch <- chunk("kitchen", 1)
	ch <- chunk("kitchen", 1)
	ch <- chunk("hall", 1)

	src := NewChannelSource(ch)
	rec, err := src.Listen(context.Background(), ListenOptions{
		Wait:        time.Second,
		Pause:       50 * time.Millisecond,
		PhraseLimit: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", rec.DeviceID)
	assert.Equal(t, 2.0, rec.Duration)
	assert.Len(t, rec.Data, 400)
	assert.NotEmpty(t, rec.DataBase64)
}

func TestChannelSourceTrimsToLimit(t *testing.T) {
	ch := make(chan *models.AudioRecording, 4)
	ch <- chunk("kitchen", 2)
	ch <- chunk("kitchen", 2)

	rec, err := NewChannelSource(ch).Listen(context.Background(), ListenOptions{
		Wait:        time.Second,
		Pause:       50 * time.Millisecond,
		PhraseLimit: 3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.Duration)
	assert.Len(t, rec.Data, 600)
}

func TestChannelSourceDoesNotAliasChunk(t *testing.T) {
	ch := make(chan *models.AudioRecording, 1)
	c := chunk("kitchen", 1)
	ch <- c

	rec, err := NewChannelSource(ch).Listen(context.Background(), ListenOptions{Wait: time.Second})
	require.NoError(t, err)
	rec.Data[0] = 0xFF
	assert.NotEqual(t, byte(0xFF), c.Data[0])
}

func TestChannelSourceInterleavedDevices(t *testing.T) {
	ch := make(chan *models.AudioRecording, 4)
	ch <- chunk("kitchen", 1)
	ch <- chunk("hall", 1)
	ch <- chunk("hall", 1)
	ch <- chunk("kitchen", 1)

	src := NewChannelSource(ch)
	opts := ListenOptions{
		Wait:        time.Second,
		Pause:       50 * time.Millisecond,
		PhraseLimit: 5 * time.Second,
	}

	var got []string
	var durations []float64
	for i := 0; i < 3; i++ {
		rec, err := src.Listen(context.Background(), opts)
		require.NoError(t, err)
		got = append(got, rec.DeviceID)
		durations = append(durations, rec.Duration)
		assert.Len(t, rec.Data, int(rec.Duration*100)*2)
	}
	assert.Equal(t, []string{"kitchen", "hall", "kitchen"}, got)
	assert.Equal(t, []float64{1, 2, 1}, durations)

	_, err := src.Listen(context.Background(), ListenOptions{Wait: 10 * time.Millisecond})
	assert.ErrorIs(t, err, ErrWaitTimeout)
}
