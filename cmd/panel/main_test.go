package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/stream"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PANEL_DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestUsersCommand(t *testing.T) {
	dataDir(t)

	out, err := run(t, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "Administrator")
	assert.NotContains(t, out, "admin123")
}

func TestDevicesCommand(t *testing.T) {
	dir := dataDir(t)

	repo := repository.NewDeviceRepository(filepath.Join(dir, "devices.json"), zap.NewNop())
	repo.Save(models.Device{ID: "thermo1", Name: "Hall", Type: "thermostat", Status: models.DeviceOnline, ConnectionInfo: "wifi"})
	require.NoError(t, repo.Persist())

	out, err := run(t, "devices")
	require.NoError(t, err)
	assert.Contains(t, out, "thermo1")
	assert.Contains(t, out, "thermostat")
}

func TestEventsCommand(t *testing.T) {
	dataDir(t)

	_, err := run(t, "events")
	assert.ErrorContains(t, err, "disabled")

	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REDIS_STREAM", "panel:test")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sink := stream.NewSink(client, "panel:test", 0, zap.NewNop())
	_, err = sink.Publish(context.Background(), "device", controller.DeviceDeleted{DeviceID: "lamp1"})
	require.NoError(t, err)

	out, err := run(t, "events", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "device_deleted")
	assert.Contains(t, out, "lamp1")

	_, err = run(t, "events", "zero")
	assert.Error(t, err)
}

func TestMissingEnvFile(t *testing.T) {
	dataDir(t)
	_, err := run(t, "--env", filepath.Join(t.TempDir(), "missing.env"), "users")
	assert.Error(t, err)
}
