package repository

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

// DeviceRepository is the durable device collection backed by devices.json
type DeviceRepository struct {
	devices *Memory[string, models.Device]
	file    jsonFile[models.Device]
	logger  *zap.Logger
}

// NewDeviceRepository loads path (best effort) and returns the repository
func NewDeviceRepository(path string, logger *zap.Logger) *DeviceRepository {
	r := &DeviceRepository{
		devices: NewMemory(func(d models.Device) string { return d.ID }),
		file:    jsonFile[models.Device]{path: path},
		logger:  logger,
	}
	r.Load()
	return r
}

// Load replaces the collection with the file contents. Read or parse
// failures leave the collection empty.
func (r *DeviceRepository) Load() {
	items, err := r.file.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Device store unreadable, starting empty",
				zap.String("path", r.file.path),
				zap.Error(err),
			)
		}
		items = nil
	}
	r.devices.Replace(items)
}

// Persist overwrites the file with the current collection
func (r *DeviceRepository) Persist() error {
	return r.file.write(r.devices.GetAll())
}

func (r *DeviceRepository) GetByID(id string) (models.Device, bool) {
	return r.devices.GetByID(id)
}

func (r *DeviceRepository) GetAll() []models.Device {
	return r.devices.GetAll()
}

// Save upserts the device and persists the collection
func (r *DeviceRepository) Save(item models.Device) {
	r.devices.Save(item)
	r.persist()
}

// Create is an alias for Save
func (r *DeviceRepository) Create(item models.Device) {
	r.Save(item)
}

// Delete removes the device and persists the collection
func (r *DeviceRepository) Delete(id string) bool {
	if !r.devices.Delete(id) {
		return false
	}
	r.persist()
	return true
}

func (r *DeviceRepository) persist() {
	if err := r.Persist(); err != nil {
		r.logger.Error("Failed to persist devices", zap.Error(err))
	}
}
