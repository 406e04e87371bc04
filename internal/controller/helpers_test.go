package controller

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
)

// recorder collects every event it receives
type recorder[E notify.Event] struct {
	events []E
}

func (r *recorder[E]) Update(e E) { r.events = append(r.events, e) }

func (r *recorder[E]) kinds() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind()
	}
	return out
}

func newAuth(t *testing.T) (*Auth, *recorder[AuthEvent], *repository.AuthRepository) {
	t.Helper()
	repo := repository.NewAuthRepository(filepath.Join(t.TempDir(), "users.json"), zap.NewNop())
	c := NewAuth(repo, zap.NewNop())
	rec := &recorder[AuthEvent]{}
	c.Subscribe(rec)
	return c, rec, repo
}

func newDevice(t *testing.T) (*Device, *recorder[DeviceEvent], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.json")
	c := NewDevice(repository.NewDeviceRepository(path, zap.NewNop()), zap.NewNop())
	rec := &recorder[DeviceEvent]{}
	c.Subscribe(rec)
	return c, rec, path
}
