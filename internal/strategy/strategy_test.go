package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarthome-panel/internal/models"
)

func TestStrategies_IgnoreInput(t *testing.T) {
	inputs := [][]any{nil, {}, {1, "two", 3.0}, {models.Sound{ID: 1}}}

	for _, in := range inputs {
		assert.Equal(t,
			models.Analysis{ID: "ml_1", Result: "ML Analysis Result", Confidence: 0.95},
			MachineLearning{}.AnalyzeData(in))
		assert.Equal(t,
			models.Analysis{ID: "stat_1", Result: "Statistical Analysis Result", Confidence: 0.88},
			Statistical{}.AnalyzeData(in))
	}
}

func TestByName(t *testing.T) {
	ml, err := ByName("ml")
	require.NoError(t, err)
	assert.Equal(t, MachineLearning{}, ml)

	stat, err := ByName("stat")
	require.NoError(t, err)
	assert.Equal(t, "stat", stat.Name())

	_, err = ByName("bayes")
	assert.ErrorContains(t, err, "bayes")

	assert.Equal(t, []string{"ml", "stat"}, Names())
}
