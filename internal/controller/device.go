package controller

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
)

const msgDeviceExists = "A device with this ID already exists"

// Device manages the device registry
type Device struct {
	*notify.Bus[DeviceEvent]
	devices DeviceStore
	logger  *zap.Logger
}

// NewDevice creates a device controller over devices
func NewDevice(devices DeviceStore, logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Device{
		Bus:     notify.NewBus[DeviceEvent]("device", logger),
		devices: devices,
		logger:  logger,
	}
}

// AllDevices lists devices in storage order
func (c *Device) AllDevices() []models.Device {
	return c.devices.GetAll()
}

// DeviceByID looks up one device
func (c *Device) DeviceByID(id string) (models.Device, bool) {
	return c.devices.GetByID(id)
}

// AddDevice stores a new device. A duplicate id emits DeviceExists and an
// incomplete device emits DeviceInvalid; both return false.
func (c *Device) AddDevice(d models.Device) bool {
	if msg := validateDevice(d); msg != "" {
		c.Notify(DeviceInvalid{Message: msg})
		return false
	}
	if _, exists := c.devices.GetByID(d.ID); exists {
		c.Notify(DeviceExists{Message: msgDeviceExists})
		return false
	}
	c.devices.Save(d)
	c.logger.Info("Device added", zap.String("device_id", d.ID), zap.String("type", d.Type))
	c.Notify(DeviceAdded{Device: d})
	return true
}

// UpdateDevice replaces an existing device. An unknown id returns false
// without an event.
func (c *Device) UpdateDevice(d models.Device) bool {
	if _, exists := c.devices.GetByID(d.ID); !exists {
		return false
	}
	if msg := validateDevice(d); msg != "" {
		c.Notify(DeviceInvalid{Message: msg})
		return false
	}
	c.devices.Save(d)
	c.logger.Info("Device updated", zap.String("device_id", d.ID), zap.String("status", string(d.Status)))
	c.Notify(DeviceUpdated{Device: d})
	return true
}

// DeleteDevice removes a device, emitting DeviceDeleted only on success
func (c *Device) DeleteDevice(id string) bool {
	if !c.devices.Delete(id) {
		return false
	}
	c.logger.Info("Device deleted", zap.String("device_id", id))
	c.Notify(DeviceDeleted{DeviceID: id})
	return true
}

func validateDevice(d models.Device) string {
	if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(d.Name) == "" {
		return "Device ID and name are required"
	}
	if !d.Status.Valid() {
		return fmt.Sprintf("Unknown device status %q", d.Status)
	}
	return ""
}
