// Package command implements undoable actions and a per-owner undo stack.
package command

import "fmt"

// Command is an action that can be reverted once it has run
type Command interface {
	Name() string
	Execute() error
	// Undo reverts a previously executed command. It reports false and
	// changes nothing if the command never executed.
	Undo() bool
}

// Snapshot is a Command whose undo restores a value of type S captured
// immediately before the action ran
type Snapshot[S any] struct {
	name     string
	capture  func() S
	apply    func() error
	restore  func(S)
	before   S
	captured bool
}

// New builds a snapshot command. capture reads the state to preserve, apply
// performs the action, restore writes a captured state back.
func New[S any](name string, capture func() S, apply func() error, restore func(S)) *Snapshot[S] {
	return &Snapshot[S]{
		name:    name,
		capture: capture,
		apply:   apply,
		restore: restore,
	}
}

func (c *Snapshot[S]) Name() string { return c.name }

// Execute captures the current state and runs the action. A failed action
// restores the captured state and leaves the command unexecuted.
func (c *Snapshot[S]) Execute() error {
	before := c.capture()
	if err := c.apply(); err != nil {
		c.restore(before)
		return fmt.Errorf("%s: %w", c.name, err)
	}
	c.before = before
	c.captured = true
	return nil
}

// Undo restores the state captured by Execute, even when that state is
// empty: undoing the first command of a workflow clears the current result
// instead of leaving it in place. Undo without a prior Execute, or a second
// Undo, is a no-op that reports false.
func (c *Snapshot[S]) Undo() bool {
	if !c.captured {
		return false
	}
	c.restore(c.before)
	c.captured = false
	return true
}

// Before returns the captured pre-state and whether one exists
func (c *Snapshot[S]) Before() (S, bool) {
	return c.before, c.captured
}
