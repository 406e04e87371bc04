// Package views renders controller state as text for the terminal panel.
// Every view subscribes to its controller when constructed and stays
// subscribed until Detach.
package views

import (
	"fmt"
	"strings"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
)

// AuthView shows the outcome of the last auth action
type AuthView struct {
	ctrl   *controller.Auth
	sub    notify.Subscription
	status string
	ok     bool
}

func NewAuthView(c *controller.Auth) *AuthView {
	v := &AuthView{ctrl: c}
	v.sub = c.Subscribe(v)
	return v
}

func (v *AuthView) Update(e controller.AuthEvent) {
	switch ev := e.(type) {
	case controller.LoginSucceeded:
		name := ev.User.FullName
		if name == "" {
			name = ev.User.Username
		}
		v.set(true, fmt.Sprintf("Welcome, %s!", name))
	case controller.LoginFailed:
		v.set(false, ev.Message)
	case controller.LoggedOut:
		v.set(true, "")
	case controller.UserAdded:
		v.set(true, fmt.Sprintf("User %s added", ev.User.Username))
	case controller.UserExists:
		v.set(false, ev.Message)
	case controller.UserInvalid:
		v.set(false, ev.Message)
	}
}

func (v *AuthView) set(ok bool, status string) {
	v.ok = ok
	v.status = status
}

// Display returns the status line and whether it reports success
func (v *AuthView) Display() (string, bool) {
	return v.status, v.ok
}

func (v *AuthView) Detach() { v.ctrl.Unsubscribe(v.sub) }

// DeviceView keeps a snapshot of the registry, refreshed on every change
type DeviceView struct {
	ctrl    *controller.Device
	sub     notify.Subscription
	devices []models.Device
	status  string
}

func NewDeviceView(c *controller.Device) *DeviceView {
	v := &DeviceView{ctrl: c}
	v.sub = c.Subscribe(v)
	v.refresh()
	return v
}

func (v *DeviceView) Update(e controller.DeviceEvent) {
	switch ev := e.(type) {
	case controller.DeviceAdded:
		v.status = fmt.Sprintf("Device %s added", ev.Device.ID)
		v.refresh()
	case controller.DeviceUpdated:
		v.status = fmt.Sprintf("Device %s updated", ev.Device.ID)
		v.refresh()
	case controller.DeviceDeleted:
		v.status = fmt.Sprintf("Device %s deleted", ev.DeviceID)
		v.refresh()
	case controller.DeviceExists:
		v.status = ev.Message
	case controller.DeviceInvalid:
		v.status = ev.Message
	}
}

func (v *DeviceView) refresh() {
	v.devices = v.ctrl.AllDevices()
}

// Devices returns the last snapshot
func (v *DeviceView) Devices() []models.Device {
	return v.devices
}

// Status returns the message of the last device event
func (v *DeviceView) Status() string {
	return v.status
}

// Display renders one line per device
func (v *DeviceView) Display() string {
	if len(v.devices) == 0 {
		return "No devices"
	}
	var b strings.Builder
	for _, d := range v.devices {
		fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n", d.ID, d.Name, d.Type, d.Status, d.ConnectionInfo)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *DeviceView) Detach() { v.ctrl.Unsubscribe(v.sub) }

// AnalysisView shows the current analysis
type AnalysisView struct {
	ctrl *controller.Analysis
	sub  notify.Subscription
	text string
}

func NewAnalysisView(c *controller.Analysis) *AnalysisView {
	v := &AnalysisView{ctrl: c}
	v.sub = c.Subscribe(v)
	return v
}

func (v *AnalysisView) Update(e controller.AnalysisEvent) {
	switch ev := e.(type) {
	case controller.AnalysisPerformed:
		v.show(&ev.Analysis)
	case controller.AnalysisRestored:
		v.show(ev.Current)
	}
}

func (v *AnalysisView) show(a *models.Analysis) {
	if a == nil {
		v.text = ""
		return
	}
	v.text = fmt.Sprintf("Analysis ID: %s\nResult: %s\nConfidence: %.2f", a.ID, a.Result, a.Confidence)
}

func (v *AnalysisView) Display() string { return v.text }
func (v *AnalysisView) Detach()         { v.ctrl.Unsubscribe(v.sub) }

// DecisionView shows the current decision
type DecisionView struct {
	ctrl *controller.Decision
	sub  notify.Subscription
	text string
}

func NewDecisionView(c *controller.Decision) *DecisionView {
	v := &DecisionView{ctrl: c}
	v.sub = c.Subscribe(v)
	return v
}

func (v *DecisionView) Update(e controller.DecisionEvent) {
	switch ev := e.(type) {
	case controller.DecisionMade:
		v.text = messageText("Decision", ev.Decision.ID, ev.Decision.Language, ev.Decision.Message)
	case controller.DecisionRestored:
		v.text = ""
		if d := ev.Current; d != nil {
			v.text = messageText("Decision", d.ID, d.Language, d.Message)
		}
	}
}

func (v *DecisionView) Display() string { return v.text }
func (v *DecisionView) Detach()         { v.ctrl.Unsubscribe(v.sub) }

// ResponseView shows the current response
type ResponseView struct {
	ctrl *controller.Response
	sub  notify.Subscription
	text string
}

func NewResponseView(c *controller.Response) *ResponseView {
	v := &ResponseView{ctrl: c}
	v.sub = c.Subscribe(v)
	return v
}

func (v *ResponseView) Update(e controller.ResponseEvent) {
	switch ev := e.(type) {
	case controller.ResponseGenerated:
		v.text = messageText("Response", ev.Response.ID, ev.Response.Language, ev.Response.Message)
	case controller.ResponseRestored:
		v.text = ""
		if r := ev.Current; r != nil {
			v.text = messageText("Response", r.ID, r.Language, r.Message)
		}
	}
}

func (v *ResponseView) Display() string { return v.text }

// Undo reverts the last response through the controller
func (v *ResponseView) Undo() bool { return v.ctrl.Undo() }

func (v *ResponseView) Detach() { v.ctrl.Unsubscribe(v.sub) }

// SpeechView tracks listening state and the last phrase
type SpeechView struct {
	ctrl      *controller.Speech
	sub       notify.Subscription
	listening bool
	last      string
}

func NewSpeechView(c *controller.Speech) *SpeechView {
	v := &SpeechView{ctrl: c}
	v.sub = c.Subscribe(v)
	return v
}

func (v *SpeechView) Update(e controller.SpeechEvent) {
	switch ev := e.(type) {
	case controller.ListeningStarted:
		v.listening = true
	case controller.ListeningStopped:
		v.listening = false
	case controller.PhraseRecognized:
		v.last = ev.Phrase
	}
}

// Display renders the microphone indicator
func (v *SpeechView) Display() string {
	if !v.listening {
		return "mic off"
	}
	if v.last == "" {
		return "listening..."
	}
	return fmt.Sprintf("listening, last: %q", v.last)
}

func (v *SpeechView) Detach() { v.ctrl.Unsubscribe(v.sub) }

func messageText(label, id, language, message string) string {
	return fmt.Sprintf("%s ID: %s\nLanguage: %s\nMessage: %s", label, id, language, message)
}
