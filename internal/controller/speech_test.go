package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/speech"
)

type fakeListener struct {
	available bool
	listening bool
	phrases   []string
	history   []speech.Entry
	params    speech.Params
}

func (f *fakeListener) Start() bool {
	if !f.available || f.listening {
		return false
	}
	f.listening = true
	return true
}

func (f *fakeListener) Stop()             { f.listening = false }
func (f *fakeListener) IsListening() bool { return f.listening }

func (f *fakeListener) NextPhrase(time.Duration) (string, bool) {
	if len(f.phrases) == 0 {
		return "", false
	}
	p := f.phrases[0]
	f.phrases = f.phrases[1:]
	return p, true
}

func (f *fakeListener) History(limit int) []speech.Entry { return f.history }
func (f *fakeListener) ClearHistory()                    { f.history = nil }
func (f *fakeListener) SetParameters(p speech.Params)    { f.params = p }

func TestSpeech_StartStop(t *testing.T) {
	l := &fakeListener{available: true}
	c := NewSpeech(l, zap.NewNop())
	rec := &recorder[SpeechEvent]{}
	c.Subscribe(rec)

	require.True(t, c.StartListening())
	assert.True(t, c.IsListening())
	assert.False(t, c.StartListening())

	c.StopListening()
	c.StopListening()
	assert.False(t, c.IsListening())

	assert.Equal(t, []string{KindListeningStarted, KindListeningStopped}, rec.kinds())
}

func TestSpeech_Unavailable(t *testing.T) {
	c := NewSpeech(nil, zap.NewNop())
	assert.False(t, c.Available())
	assert.False(t, c.StartListening())
	assert.False(t, c.IsListening())
	_, ok := c.NextPhrase(time.Millisecond)
	assert.False(t, ok)
	assert.Nil(t, c.History(5))
	c.ClearHistory()
	c.SetParameters(speech.Params{EnergyThreshold: 1})

	c2 := NewSpeech(&fakeListener{}, zap.NewNop())
	assert.False(t, c2.StartListening())
}

func TestSpeech_PhrasesAndDeliver(t *testing.T) {
	l := &fakeListener{available: true, phrases: []string{"включи свет"}, history: []speech.Entry{{Text: "включи свет"}}}
	c := NewSpeech(l, zap.NewNop())
	rec := &recorder[SpeechEvent]{}
	c.Subscribe(rec)

	phrase, ok := c.NextPhrase(time.Second)
	require.True(t, ok)
	assert.Empty(t, rec.events, "polling does not notify")

	c.Deliver(phrase)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "включи свет", rec.events[0].(PhraseRecognized).Phrase)

	assert.Len(t, c.History(10), 1)
	c.ClearHistory()
	assert.Empty(t, c.History(10))

	c.SetParameters(speech.Params{EnergyThreshold: 400})
	assert.Equal(t, 400.0, l.params.EnergyThreshold)
}
