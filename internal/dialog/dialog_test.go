package dialog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type session bool

func (s *session) IsAuthenticated() bool { return bool(*s) }

func TestChat(t *testing.T) {
	var loggedIn session
	c := NewChat(&loggedIn)
	c.now = func() time.Time { return time.Date(2026, 5, 1, 9, 30, 15, 0, time.UTC) }

	assert.ErrorIs(t, c.Send("hello"), ErrNotLoggedIn)
	assert.Empty(t, c.Messages())

	loggedIn = true
	assert.ErrorIs(t, c.Send("   "), ErrEmptyMessage)
	require.NoError(t, c.Send(" turn on the light "))
	require.NoError(t, c.SendVoice("включи свет"))
	c.System("Voice mode enabled")

	msgs := c.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "[09:30:15] You: turn on the light", msgs[0].String())
	assert.Equal(t, Message{Time: msgs[1].Time, Author: AuthorSystem, Text: AckText}, msgs[1])
	assert.Equal(t, AuthorVoice, msgs[2].Author)
	assert.Equal(t, "включи свет", msgs[2].Text)
	assert.Equal(t, "Voice mode enabled", msgs[4].Text)

	msgs[0].Text = "changed"
	assert.Equal(t, "turn on the light", c.Messages()[0].Text)

	c.Clear()
	assert.Empty(t, c.Messages())
}

type queue struct {
	mu      sync.Mutex
	phrases []string
}

func (q *queue) NextPhrase(time.Duration) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.phrases) == 0 {
		return "", false
	}
	p := q.phrases[0]
	q.phrases = q.phrases[1:]
	return p, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.phrases)
}

func TestVoiceRelay(t *testing.T) {
	q := &queue{phrases: []string{"one", "two"}}
	got := make(chan string, 4)
	r := NewVoiceRelay(q, 5*time.Millisecond, func(p string) { got <- p }, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// disabled: phrases stay queued
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2, q.len())
	assert.False(t, r.Enabled())

	r.Enable()
	assert.Equal(t, "one", <-got)
	assert.Equal(t, "two", <-got)

	r.Disable()
	cancel()
	<-done
}
