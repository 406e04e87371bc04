package controller

import (
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
)

// Event kinds as they appear in logs and external sinks
const (
	KindLoginSuccess      = "login_success"
	KindLoginFailed       = "login_failed"
	KindLogout            = "logout"
	KindUserAdded         = "user_added"
	KindUserExists        = "user_exists"
	KindUserInvalid       = "user_invalid"
	KindDeviceAdded       = "device_added"
	KindDeviceExists      = "device_exists"
	KindDeviceInvalid     = "device_invalid"
	KindDeviceUpdated     = "device_updated"
	KindDeviceDeleted     = "device_deleted"
	KindRequestCreated    = "request_created"
	KindAnalysisPerformed = "analysis_performed"
	KindAnalysisRestored  = "analysis_restored"
	KindDecisionMade      = "decision_made"
	KindDecisionRestored  = "decision_restored"
	KindResponseGenerated = "response_generated"
	KindResponseRestored  = "response_restored"
	KindListeningStarted  = "listening_started"
	KindListeningStopped  = "listening_stopped"
	KindPhraseRecognized  = "phrase_recognized"
)

// AuthEvent is one of LoginSucceeded, LoginFailed, LoggedOut, UserAdded,
// UserExists, UserInvalid
type AuthEvent interface {
	notify.Event
	authEvent()
}

type LoginSucceeded struct{ User models.AuthUser }
type LoginFailed struct{ Message string }
type LoggedOut struct{}
type UserAdded struct{ User models.AuthUser }
type UserExists struct{ Message string }
type UserInvalid struct{ Message string }

func (LoginSucceeded) Kind() string { return KindLoginSuccess }
func (LoginFailed) Kind() string    { return KindLoginFailed }
func (LoggedOut) Kind() string      { return KindLogout }
func (UserAdded) Kind() string      { return KindUserAdded }
func (UserExists) Kind() string     { return KindUserExists }
func (UserInvalid) Kind() string    { return KindUserInvalid }

func (LoginSucceeded) authEvent() {}
func (LoginFailed) authEvent()    {}
func (LoggedOut) authEvent()      {}
func (UserAdded) authEvent()      {}
func (UserExists) authEvent()     {}
func (UserInvalid) authEvent()    {}

// DeviceEvent is one of DeviceAdded, DeviceExists, DeviceInvalid,
// DeviceUpdated, DeviceDeleted
type DeviceEvent interface {
	notify.Event
	deviceEvent()
}

type DeviceAdded struct{ Device models.Device }
type DeviceExists struct{ Message string }
type DeviceInvalid struct{ Message string }
type DeviceUpdated struct{ Device models.Device }
type DeviceDeleted struct{ DeviceID string }

func (DeviceAdded) Kind() string   { return KindDeviceAdded }
func (DeviceExists) Kind() string  { return KindDeviceExists }
func (DeviceInvalid) Kind() string { return KindDeviceInvalid }
func (DeviceUpdated) Kind() string { return KindDeviceUpdated }
func (DeviceDeleted) Kind() string { return KindDeviceDeleted }

func (DeviceAdded) deviceEvent()   {}
func (DeviceExists) deviceEvent()  {}
func (DeviceInvalid) deviceEvent() {}
func (DeviceUpdated) deviceEvent() {}
func (DeviceDeleted) deviceEvent() {}

// RequestEvent is RequestCreated
type RequestEvent interface {
	notify.Event
	requestEvent()
}

type RequestCreated struct{ Request models.Request }

func (RequestCreated) Kind() string { return KindRequestCreated }

func (RequestCreated) requestEvent() {}

// AnalysisEvent is AnalysisPerformed or AnalysisRestored.
// Restored carries the current value after undo; nil means no analysis.
type AnalysisEvent interface {
	notify.Event
	analysisEvent()
}

type AnalysisPerformed struct{ Analysis models.Analysis }
type AnalysisRestored struct{ Current *models.Analysis }

func (AnalysisPerformed) Kind() string { return KindAnalysisPerformed }
func (AnalysisRestored) Kind() string  { return KindAnalysisRestored }

func (AnalysisPerformed) analysisEvent() {}
func (AnalysisRestored) analysisEvent()  {}

// DecisionEvent is DecisionMade or DecisionRestored
type DecisionEvent interface {
	notify.Event
	decisionEvent()
}

type DecisionMade struct{ Decision models.Decision }
type DecisionRestored struct{ Current *models.Decision }

func (DecisionMade) Kind() string     { return KindDecisionMade }
func (DecisionRestored) Kind() string { return KindDecisionRestored }

func (DecisionMade) decisionEvent()     {}
func (DecisionRestored) decisionEvent() {}

// ResponseEvent is ResponseGenerated or ResponseRestored
type ResponseEvent interface {
	notify.Event
	responseEvent()
}

type ResponseGenerated struct{ Response models.Response }
type ResponseRestored struct{ Current *models.Response }

func (ResponseGenerated) Kind() string { return KindResponseGenerated }
func (ResponseRestored) Kind() string  { return KindResponseRestored }

func (ResponseGenerated) responseEvent() {}
func (ResponseRestored) responseEvent()  {}

// SpeechEvent is ListeningStarted, ListeningStopped or PhraseRecognized
type SpeechEvent interface {
	notify.Event
	speechEvent()
}

type ListeningStarted struct{}
type ListeningStopped struct{}
type PhraseRecognized struct{ Phrase string }

func (ListeningStarted) Kind() string { return KindListeningStarted }
func (ListeningStopped) Kind() string { return KindListeningStopped }
func (PhraseRecognized) Kind() string { return KindPhraseRecognized }

func (ListeningStarted) speechEvent() {}
func (ListeningStopped) speechEvent() {}
func (PhraseRecognized) speechEvent() {}
