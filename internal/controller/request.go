package controller

import (
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
)

// Request parameters attached to every new request
const (
	RequestLanguage = "ru"
	RequestPurpose  = "Data analysis"
	RequestAccuracy = 95
)

// Request turns captured sound and sensor data into analysis requests
type Request struct {
	*notify.Bus[RequestEvent]
	sounds  repository.Repository[int, models.Sound]
	sensors repository.Repository[string, models.SensorData]
	current slot[models.Request]
	logger  *zap.Logger
}

// NewRequest creates a request controller
func NewRequest(sounds repository.Repository[int, models.Sound], sensors repository.Repository[string, models.SensorData], logger *zap.Logger) *Request {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Request{
		Bus:     notify.NewBus[RequestEvent]("request", logger),
		sounds:  sounds,
		sensors: sensors,
		logger:  logger,
	}
}

// CreateRequest stores the inputs and makes a new current request
func (c *Request) CreateRequest(sound models.Sound, sensor models.SensorData) models.Request {
	req := models.Request{
		ID:                  newID("req"),
		Language:            RequestLanguage,
		Purpose:             RequestPurpose,
		RecognitionAccuracy: RequestAccuracy,
	}
	c.sounds.Save(sound)
	c.sensors.Save(sensor)
	c.current.set(req)
	c.logger.Debug("Request created", zap.String("request_id", req.ID))
	c.Notify(RequestCreated{Request: req})
	return req
}

// CurrentRequest returns the most recent request
func (c *Request) CurrentRequest() (models.Request, bool) {
	return c.current.get()
}
