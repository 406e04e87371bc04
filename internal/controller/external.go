package controller

import "smarthome-panel/internal/notify"

// Redact returns e with account passwords removed, for sinks outside the
// process
func Redact(e notify.Event) notify.Event {
	switch ev := e.(type) {
	case LoginSucceeded:
		ev.User = ev.User.Public()
		return ev
	case UserAdded:
		ev.User = ev.User.Public()
		return ev
	}
	return e
}

// Subject names the record an event is about: a username, a device id or a
// workflow result id. It is empty for events without one.
func Subject(e notify.Event) string {
	switch ev := e.(type) {
	case LoginSucceeded:
		return ev.User.Username
	case UserAdded:
		return ev.User.Username
	case DeviceAdded:
		return ev.Device.ID
	case DeviceUpdated:
		return ev.Device.ID
	case DeviceDeleted:
		return ev.DeviceID
	case RequestCreated:
		return ev.Request.ID
	case AnalysisPerformed:
		return ev.Analysis.ID
	case AnalysisRestored:
		if ev.Current != nil {
			return ev.Current.ID
		}
	case DecisionMade:
		return ev.Decision.ID
	case DecisionRestored:
		if ev.Current != nil {
			return ev.Current.ID
		}
	case ResponseGenerated:
		return ev.Response.ID
	case ResponseRestored:
		if ev.Current != nil {
			return ev.Current.ID
		}
	}
	return ""
}
