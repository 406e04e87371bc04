package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
	"smarthome-panel/internal/repository"
)

func lamp(id string, status models.DeviceStatus) models.Device {
	return models.Device{ID: id, Name: "Lamp " + id, Type: "light", Status: status, ConnectionInfo: "zigbee"}
}

func TestDevice_Matrix(t *testing.T) {
	tests := []struct {
		name   string
		op     func(c *Device) bool
		want   bool
		events []string
	}{
		{"add new id", func(c *Device) bool { return c.AddDevice(lamp("d2", models.DeviceOnline)) }, true, []string{KindDeviceAdded}},
		{"add duplicate id", func(c *Device) bool { return c.AddDevice(lamp("d1", models.DeviceOnline)) }, false, []string{KindDeviceExists}},
		{"update known id", func(c *Device) bool { return c.UpdateDevice(lamp("d1", models.DeviceOffline)) }, true, []string{KindDeviceUpdated}},
		{"update unknown id", func(c *Device) bool { return c.UpdateDevice(lamp("zz", models.DeviceOffline)) }, false, nil},
		{"delete known id", func(c *Device) bool { return c.DeleteDevice("d1") }, true, []string{KindDeviceDeleted}},
		{"delete unknown id", func(c *Device) bool { return c.DeleteDevice("zz") }, false, nil},
		{"add without name", func(c *Device) bool { return c.AddDevice(models.Device{ID: "d3", Status: models.DeviceOnline}) }, false, []string{KindDeviceInvalid}},
		{"update with bad status", func(c *Device) bool { return c.UpdateDevice(lamp("d1", "broken")) }, false, []string{KindDeviceInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, _ := newDevice(t)
			require.True(t, c.AddDevice(lamp("d1", models.DeviceOnline)))
			rec.events = nil

			assert.Equal(t, tt.want, tt.op(c))
			if tt.events == nil {
				assert.Empty(t, rec.events)
			} else {
				assert.Equal(t, tt.events, rec.kinds())
			}
		})
	}
}

func TestDevice_PersistsMutations(t *testing.T) {
	c, rec, path := newDevice(t)
	require.True(t, c.AddDevice(lamp("d1", models.DeviceOnline)))
	require.True(t, c.AddDevice(lamp("d2", models.DeviceOnline)))
	require.True(t, c.UpdateDevice(lamp("d1", models.DeviceMaintenance)))
	require.True(t, c.DeleteDevice("d2"))

	reloaded := repository.NewDeviceRepository(path, zap.NewNop())
	all := reloaded.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, models.DeviceMaintenance, all[0].Status)

	deleted := rec.events[len(rec.events)-1].(DeviceDeleted)
	assert.Equal(t, "d2", deleted.DeviceID)

	d, ok := c.DeviceByID("d1")
	require.True(t, ok)
	assert.Equal(t, "Lamp d1", d.Name)
	assert.Len(t, c.AllDevices(), 1)
}
