// Package controller holds the panel workflows. Each controller owns its
// repositories, keeps the last result of its workflow in an optional slot,
// and pushes a closed set of events to subscribed views through its
// embedded notify.Bus.
//
// Controllers are not safe for concurrent use; the host calls them from a
// single goroutine.
package controller

import (
	"github.com/google/uuid"

	"smarthome-panel/internal/command"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/repository"
)

// UserStore is the account storage used by Auth
type UserStore interface {
	repository.Repository[string, models.AuthUser]
	Authenticate(username, password string) (models.AuthUser, bool)
}

// DeviceStore is the device storage used by Device
type DeviceStore interface {
	repository.Repository[string, models.Device]
	Delete(id string) bool
}

// slot holds the most recent result of a workflow, or nothing
type slot[T any] struct {
	value *T
}

func (s *slot[T]) get() (T, bool) {
	if s.value == nil {
		var zero T
		return zero, false
	}
	return *s.value, true
}

func (s *slot[T]) set(v T) {
	s.value = &v
}

// snapshot copies the current value so later sets cannot reach it
func (s *slot[T]) snapshot() *T {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

func (s *slot[T]) restore(prev *T) {
	s.value = prev
}

// runTracked sets the slot to produce() inside an undoable command recorded
// on history, and returns the produced value.
func runTracked[T any](history *command.History, s *slot[T], name string, produce func() T) T {
	var out T
	cmd := command.New(name, s.snapshot, func() error {
		out = produce()
		s.set(out)
		return nil
	}, s.restore)
	// produce cannot fail, so Run always records the command.
	_ = history.Run(cmd)
	return out
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
