package strategy

import (
	"fmt"
	"sort"

	"smarthome-panel/internal/models"
)

// AnalysisStrategy turns collected data into an Analysis
type AnalysisStrategy interface {
	Name() string
	AnalyzeData(data []any) models.Analysis
}

// MachineLearning is the ML-backed analysis.
// Model scoring is not wired yet; it reports a fixed result.
type MachineLearning struct{}

func (MachineLearning) Name() string { return "ml" }

func (MachineLearning) AnalyzeData(_ []any) models.Analysis {
	return models.Analysis{ID: "ml_1", Result: "ML Analysis Result", Confidence: 0.95}
}

// Statistical is the statistics-based analysis. It reports a fixed result.
type Statistical struct{}

func (Statistical) Name() string { return "stat" }

func (Statistical) AnalyzeData(_ []any) models.Analysis {
	return models.Analysis{ID: "stat_1", Result: "Statistical Analysis Result", Confidence: 0.88}
}

var registry = map[string]AnalysisStrategy{
	MachineLearning{}.Name(): MachineLearning{},
	Statistical{}.Name():     Statistical{},
}

// ByName returns the strategy registered under name ("ml", "stat")
func ByName(name string) (AnalysisStrategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis strategy %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered strategy names
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
