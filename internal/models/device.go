package models

// DeviceStatus is the operational state reported for a smart home device
type DeviceStatus string

const (
	DeviceOnline      DeviceStatus = "online"
	DeviceOffline     DeviceStatus = "offline"
	DeviceError       DeviceStatus = "error"
	DeviceMaintenance DeviceStatus = "maintenance"
)

// DeviceStatuses lists every accepted status in display order
var DeviceStatuses = []DeviceStatus{DeviceOnline, DeviceOffline, DeviceError, DeviceMaintenance}

// Valid reports whether s is one of the known statuses
func (s DeviceStatus) Valid() bool {
	for _, known := range DeviceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Device represents a smart home device managed from the panel
type Device struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           string       `json:"type"`   // "light", "thermostat", "window", ...
	Status         DeviceStatus `json:"status"` // online | offline | error | maintenance
	ConnectionInfo string       `json:"connection_info"`
}
