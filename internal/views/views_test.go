package views

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/speech"
	"smarthome-panel/internal/strategy"
)

func TestAuthView(t *testing.T) {
	repo := repository.NewAuthRepository(filepath.Join(t.TempDir(), "users.json"), zap.NewNop())
	c := controller.NewAuth(repo, zap.NewNop())
	v := NewAuthView(c)

	c.Login("admin", "nope")
	status, ok := v.Display()
	assert.False(t, ok)
	assert.Equal(t, "Invalid credentials", status)

	c.Login("admin", "admin123")
	status, ok = v.Display()
	assert.True(t, ok)
	assert.Equal(t, "Welcome, Administrator!", status)

	c.AddUser(models.AuthUser{Username: "admin", Password: "x"})
	status, _ = v.Display()
	assert.Equal(t, "User already exists", status)

	v.Detach()
	c.Logout()
	status, _ = v.Display()
	assert.Equal(t, "User already exists", status, "detached view no longer updates")
}

func TestDeviceView(t *testing.T) {
	repo := repository.NewDeviceRepository(filepath.Join(t.TempDir(), "devices.json"), zap.NewNop())
	repo.Save(models.Device{ID: "d0", Name: "Boiler", Type: "heater", Status: models.DeviceOnline})
	c := controller.NewDevice(repo, zap.NewNop())
	v := NewDeviceView(c)
	require.Len(t, v.Devices(), 1)

	c.AddDevice(models.Device{ID: "d1", Name: "Lamp", Type: "light", Status: models.DeviceOffline, ConnectionInfo: "wifi"})
	assert.Equal(t, "Device d1 added", v.Status())
	assert.Equal(t, "d0  Boiler  heater  online  \nd1  Lamp  light  offline  wifi", v.Display())

	c.AddDevice(models.Device{ID: "d1", Name: "Lamp", Status: models.DeviceOnline})
	assert.Equal(t, "A device with this ID already exists", v.Status())

	c.DeleteDevice("d0")
	c.DeleteDevice("d1")
	assert.Equal(t, "No devices", v.Display())
	assert.Equal(t, "Device d1 deleted", v.Status())
}

func TestWorkflowViews(t *testing.T) {
	analysis := controller.NewAnalysis(repository.NewRequestRepository(), repository.NewAnalysisRepository(), strategy.Statistical{}, zap.NewNop())
	decision := controller.NewDecision(repository.NewDecisionRepository(), zap.NewNop())
	response := controller.NewResponse(repository.NewResponseRepository(), zap.NewNop())
	av, dv, rv := NewAnalysisView(analysis), NewDecisionView(decision), NewResponseView(response)

	a := analysis.PerformAnalysis(models.Request{ID: "r1"})
	assert.Equal(t, "Analysis ID: stat_1\nResult: Statistical Analysis Result\nConfidence: 0.88", av.Display())

	d := decision.MakeDecision(a)
	assert.Contains(t, dv.Display(), "Message: Decision based on analysis: Statistical Analysis Result")
	assert.Contains(t, dv.Display(), "Language: ru")

	response.GenerateResponse(d)
	assert.Contains(t, rv.Display(), "Message: Response: Decision based on analysis")

	require.True(t, rv.Undo())
	assert.Empty(t, rv.Display())
	assert.False(t, rv.Undo())

	require.True(t, analysis.Undo())
	assert.Empty(t, av.Display())
}

type stubListener struct{ on bool }

func (s *stubListener) Start() bool                             { s.on = true; return true }
func (s *stubListener) Stop()                                   { s.on = false }
func (s *stubListener) IsListening() bool                       { return s.on }
func (s *stubListener) NextPhrase(time.Duration) (string, bool) { return "", false }
func (s *stubListener) History(int) []speech.Entry              { return nil }
func (s *stubListener) ClearHistory()                           {}
func (s *stubListener) SetParameters(speech.Params)             {}

func TestSpeechView(t *testing.T) {
	c := controller.NewSpeech(&stubListener{}, zap.NewNop())
	v := NewSpeechView(c)
	assert.Equal(t, "mic off", v.Display())

	require.True(t, c.StartListening())
	assert.Equal(t, "listening...", v.Display())
	c.Deliver("включи свет")
	assert.Equal(t, `listening, last: "включи свет"`, v.Display())

	c.StopListening()
	assert.Equal(t, "mic off", v.Display())
}
