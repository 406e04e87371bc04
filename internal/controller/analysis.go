package controller

import (
	"go.uber.org/zap"

	"smarthome-panel/internal/command"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/strategy"
)

// Analysis runs the configured strategy over requests
type Analysis struct {
	*notify.Bus[AnalysisEvent]
	requests repository.Repository[string, models.Request]
	analyses repository.Repository[string, models.Analysis]
	strategy strategy.AnalysisStrategy
	current  slot[models.Analysis]
	history  command.History
	logger   *zap.Logger
}

// NewAnalysis creates an analysis controller. A nil strategy defaults to
// machine learning.
func NewAnalysis(requests repository.Repository[string, models.Request], analyses repository.Repository[string, models.Analysis], s strategy.AnalysisStrategy, logger *zap.Logger) *Analysis {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s == nil {
		s = strategy.MachineLearning{}
	}
	return &Analysis{
		Bus:      notify.NewBus[AnalysisEvent]("analysis", logger),
		requests: requests,
		analyses: analyses,
		strategy: s,
		logger:   logger,
	}
}

// PerformAnalysis analyzes req as an undoable command
func (c *Analysis) PerformAnalysis(req models.Request) models.Analysis {
	c.requests.Save(req)
	a := runTracked(&c.history, &c.current, "perform_analysis", func() models.Analysis {
		result := c.strategy.AnalyzeData([]any{req})
		c.analyses.Save(result)
		return result
	})
	c.logger.Debug("Analysis performed",
		zap.String("request_id", req.ID),
		zap.String("strategy", c.strategy.Name()),
		zap.Float64("confidence", a.Confidence))
	c.Notify(AnalysisPerformed{Analysis: a})
	return a
}

// Analytics returns the current analysis as a list, empty if none
func (c *Analysis) Analytics() []models.Analysis {
	if a, ok := c.current.get(); ok {
		return []models.Analysis{a}
	}
	return []models.Analysis{}
}

// SetStrategy swaps the analysis algorithm; nil is ignored
func (c *Analysis) SetStrategy(s strategy.AnalysisStrategy) {
	if s == nil {
		return
	}
	c.strategy = s
	c.logger.Info("Analysis strategy changed", zap.String("strategy", s.Name()))
}

// Strategy returns the active algorithm
func (c *Analysis) Strategy() strategy.AnalysisStrategy {
	return c.strategy
}

// CurrentAnalysis returns the most recent analysis
func (c *Analysis) CurrentAnalysis() (models.Analysis, bool) {
	return c.current.get()
}

// Undo reverts the most recent analysis. It returns false on an empty
// history.
func (c *Analysis) Undo() bool {
	if !c.history.Undo() {
		return false
	}
	c.Notify(AnalysisRestored{Current: c.current.snapshot()})
	return true
}

// History lists executed commands, oldest first
func (c *Analysis) History() []string {
	return c.history.Names()
}
