package controller

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/strategy"
)

func TestRequest_CreateRequest(t *testing.T) {
	sounds := repository.NewSoundRepository()
	sensors := repository.NewSensorDataRepository()
	c := NewRequest(sounds, sensors, zap.NewNop())
	rec := &recorder[RequestEvent]{}
	c.Subscribe(rec)

	_, ok := c.CurrentRequest()
	assert.False(t, ok)

	req := c.CreateRequest(models.Sound{ID: 1, Frequency: 440, NoiseLevel: "low"}, models.SensorData{ID: "s1", Purpose: "climate"})
	assert.True(t, strings.HasPrefix(req.ID, "req_"))
	assert.Equal(t, RequestLanguage, req.Language)
	assert.Equal(t, RequestPurpose, req.Purpose)
	assert.Equal(t, RequestAccuracy, req.RecognitionAccuracy)

	current, ok := c.CurrentRequest()
	require.True(t, ok)
	assert.Equal(t, req, current)
	assert.Equal(t, 1, sounds.Len())
	assert.Equal(t, 1, sensors.Len())

	other := c.CreateRequest(models.Sound{ID: 1, Frequency: 880}, models.SensorData{ID: "s1"})
	assert.NotEqual(t, req.ID, other.ID)
	assert.Equal(t, 1, sounds.Len(), "sound saved by id")
	assert.Equal(t, []string{KindRequestCreated, KindRequestCreated}, rec.kinds())
}

func newAnalysis() (*Analysis, *recorder[AnalysisEvent], *repository.Memory[string, models.Analysis]) {
	analyses := repository.NewAnalysisRepository()
	c := NewAnalysis(repository.NewRequestRepository(), analyses, nil, zap.NewNop())
	rec := &recorder[AnalysisEvent]{}
	c.Subscribe(rec)
	return c, rec, analyses
}

func TestAnalysis_StrategySwap(t *testing.T) {
	c, _, analyses := newAnalysis()
	assert.Equal(t, "ml", c.Strategy().Name())
	assert.Empty(t, c.Analytics())

	a := c.PerformAnalysis(models.Request{ID: "r1"})
	assert.Equal(t, models.Analysis{ID: "ml_1", Result: "ML Analysis Result", Confidence: 0.95}, a)

	c.SetStrategy(strategy.Statistical{})
	c.SetStrategy(nil)
	a = c.PerformAnalysis(models.Request{ID: "r1"})
	assert.Equal(t, "stat_1", a.ID)
	assert.Equal(t, []models.Analysis{a}, c.Analytics())
	assert.Equal(t, 2, analyses.Len())
	assert.Equal(t, []string{"perform_analysis", "perform_analysis"}, c.History())
}

func TestAnalysis_UndoRoundTrip(t *testing.T) {
	c, rec, _ := newAnalysis()

	// empty history is a no-op
	assert.False(t, c.Undo())
	_, ok := c.CurrentAnalysis()
	assert.False(t, ok)

	first := c.PerformAnalysis(models.Request{ID: "r1"})
	c.SetStrategy(strategy.Statistical{})
	second := c.PerformAnalysis(models.Request{ID: "r2"})

	cur, _ := c.CurrentAnalysis()
	assert.Equal(t, second, cur)

	require.True(t, c.Undo())
	cur, ok = c.CurrentAnalysis()
	require.True(t, ok)
	assert.Equal(t, first, cur)

	require.True(t, c.Undo())
	_, ok = c.CurrentAnalysis()
	assert.False(t, ok, "undo of the first command restores the empty slot")
	assert.False(t, c.Undo())

	assert.Equal(t, []string{
		KindAnalysisPerformed, KindAnalysisPerformed,
		KindAnalysisRestored, KindAnalysisRestored,
	}, rec.kinds())
	restored := rec.events[2].(AnalysisRestored)
	require.NotNil(t, restored.Current)
	assert.Equal(t, first, *restored.Current)
	assert.Nil(t, rec.events[3].(AnalysisRestored).Current)
}

func TestDecision_MakeAndUndo(t *testing.T) {
	decisions := repository.NewDecisionRepository()
	c := NewDecision(decisions, zap.NewNop())
	rec := &recorder[DecisionEvent]{}
	c.Subscribe(rec)

	assert.False(t, c.Undo())

	d := c.MakeDecision(models.Analysis{ID: "ml_1", Result: "ML Analysis Result"})
	assert.True(t, strings.HasPrefix(d.ID, "dec_"))
	assert.Equal(t, DecisionLanguage, d.Language)
	assert.Equal(t, "Decision based on analysis: ML Analysis Result", d.Message)

	cur, ok := c.CurrentDecision()
	require.True(t, ok)
	assert.Equal(t, d, cur)

	require.True(t, c.Undo())
	_, ok = c.CurrentDecision()
	assert.False(t, ok)
	assert.Equal(t, 1, decisions.Len(), "repository keeps every decision")
	assert.Equal(t, []string{KindDecisionMade, KindDecisionRestored}, rec.kinds())
	assert.Empty(t, c.History())
}

func TestResponse_GenerateAndUndo(t *testing.T) {
	c := NewResponse(repository.NewResponseRepository(), zap.NewNop())
	rec := &recorder[ResponseEvent]{}
	c.Subscribe(rec)

	first := c.GenerateResponse(models.Decision{ID: "dec_1", Language: "en", Message: "open the window"})
	assert.True(t, strings.HasPrefix(first.ID, "resp_"))
	assert.Equal(t, "en", first.Language)
	assert.Equal(t, "Response: open the window", first.Message)

	second := c.GenerateResponse(models.Decision{ID: "dec_2", Language: "ru", Message: "x"})
	require.True(t, c.Undo())
	cur, ok := c.CurrentResponse()
	require.True(t, ok)
	assert.Equal(t, first, cur)
	assert.NotEqual(t, second.ID, cur.ID)

	assert.Equal(t, []string{KindResponseGenerated, KindResponseGenerated, KindResponseRestored}, rec.kinds())
	assert.Equal(t, []string{"generate_response"}, c.History())
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	c := NewResponse(repository.NewResponseRepository(), zap.NewNop())
	a, b := &recorder[ResponseEvent]{}, &recorder[ResponseEvent]{}
	subA := c.Subscribe(a)
	c.Subscribe(b)

	c.GenerateResponse(models.Decision{Message: "1"})
	require.True(t, c.Unsubscribe(subA))
	c.GenerateResponse(models.Decision{Message: "2"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}
