package controller

import (
	"go.uber.org/zap"

	"smarthome-panel/internal/command"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
)

// Response turns decisions into replies
type Response struct {
	*notify.Bus[ResponseEvent]
	responses repository.Repository[string, models.Response]
	current   slot[models.Response]
	history   command.History
	logger    *zap.Logger
}

// NewResponse creates a response controller
func NewResponse(responses repository.Repository[string, models.Response], logger *zap.Logger) *Response {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Response{
		Bus:       notify.NewBus[ResponseEvent]("response", logger),
		responses: responses,
		logger:    logger,
	}
}

// GenerateResponse replies to d in the decision's language
func (c *Response) GenerateResponse(d models.Decision) models.Response {
	r := runTracked(&c.history, &c.current, "generate_response", func() models.Response {
		r := models.Response{
			ID:       newID("resp"),
			Language: d.Language,
			Message:  "Response: " + d.Message,
		}
		c.responses.Save(r)
		return r
	})
	c.logger.Debug("Response generated", zap.String("response_id", r.ID), zap.String("decision_id", d.ID))
	c.Notify(ResponseGenerated{Response: r})
	return r
}

// CurrentResponse returns the most recent response
func (c *Response) CurrentResponse() (models.Response, bool) {
	return c.current.get()
}

// Undo reverts the most recent response
func (c *Response) Undo() bool {
	if !c.history.Undo() {
		return false
	}
	c.Notify(ResponseRestored{Current: c.current.snapshot()})
	return true
}

// History lists executed commands, oldest first
func (c *Response) History() []string {
	return c.history.Names()
}
