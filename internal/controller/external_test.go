package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smarthome-panel/internal/models"
)

func TestRedact(t *testing.T) {
	user := models.AuthUser{Username: "admin", Password: "admin123", Role: models.RoleAdmin}

	got := Redact(LoginSucceeded{User: user}).(LoginSucceeded)
	assert.Empty(t, got.User.Password)
	assert.Equal(t, "admin", got.User.Username)

	added := Redact(UserAdded{User: user}).(UserAdded)
	assert.Empty(t, added.User.Password)

	dev := DeviceAdded{Device: models.Device{ID: "d1"}}
	assert.Equal(t, dev, Redact(dev))
}

func TestSubject(t *testing.T) {
	a := models.Analysis{ID: "ml_1"}
	tests := []struct {
		event interface{ Kind() string }
		want  string
	}{
		{LoginSucceeded{User: models.AuthUser{Username: "admin"}}, "admin"},
		{LoginFailed{Message: "x"}, ""},
		{DeviceDeleted{DeviceID: "d1"}, "d1"},
		{DeviceUpdated{Device: models.Device{ID: "d2"}}, "d2"},
		{AnalysisRestored{Current: &a}, "ml_1"},
		{AnalysisRestored{}, ""},
		{ResponseGenerated{Response: models.Response{ID: "resp_1"}}, "resp_1"},
		{ListeningStarted{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.event.Kind(), func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.event))
		})
	}
}
