package controller

import (
	"go.uber.org/zap"

	"smarthome-panel/internal/command"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
)

// DecisionLanguage is the language of generated decisions
const DecisionLanguage = "ru"

// Decision derives decisions from analyses
type Decision struct {
	*notify.Bus[DecisionEvent]
	decisions repository.Repository[string, models.Decision]
	current   slot[models.Decision]
	history   command.History
	logger    *zap.Logger
}

// NewDecision creates a decision controller
func NewDecision(decisions repository.Repository[string, models.Decision], logger *zap.Logger) *Decision {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decision{
		Bus:       notify.NewBus[DecisionEvent]("decision", logger),
		decisions: decisions,
		logger:    logger,
	}
}

// MakeDecision builds a decision from a as an undoable command
func (c *Decision) MakeDecision(a models.Analysis) models.Decision {
	d := runTracked(&c.history, &c.current, "make_decision", func() models.Decision {
		d := models.Decision{
			ID:       newID("dec"),
			Language: DecisionLanguage,
			Message:  "Decision based on analysis: " + a.Result,
		}
		c.decisions.Save(d)
		return d
	})
	c.logger.Debug("Decision made", zap.String("decision_id", d.ID), zap.String("analysis_id", a.ID))
	c.Notify(DecisionMade{Decision: d})
	return d
}

// CurrentDecision returns the most recent decision
func (c *Decision) CurrentDecision() (models.Decision, bool) {
	return c.current.get()
}

// Undo reverts the most recent decision
func (c *Decision) Undo() bool {
	if !c.history.Undo() {
		return false
	}
	c.Notify(DecisionRestored{Current: c.current.snapshot()})
	return true
}

// History lists executed commands, oldest first
func (c *Decision) History() []string {
	return c.history.Names()
}
