package command

// History is an append-only stack of executed commands. The last element
// is the most recently executed command. There is no redo.
type History struct {
	commands []Command
}

// Run executes cmd and records it on success
func (h *History) Run(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push records an already executed command
func (h *History) Push(cmd Command) {
	h.commands = append(h.commands, cmd)
}

// Pop removes and returns the most recent command
func (h *History) Pop() (Command, bool) {
	if len(h.commands) == 0 {
		return nil, false
	}
	last := h.commands[len(h.commands)-1]
	h.commands[len(h.commands)-1] = nil
	h.commands = h.commands[:len(h.commands)-1]
	return last, true
}

// Undo pops the most recent command and reverts it. An empty history is a
// no-op returning false.
func (h *History) Undo() bool {
	cmd, ok := h.Pop()
	if !ok {
		return false
	}
	return cmd.Undo()
}

// Len returns the number of recorded commands
func (h *History) Len() int {
	return len(h.commands)
}

// Names lists recorded commands, oldest first
func (h *History) Names() []string {
	names := make([]string, len(h.commands))
	for i, c := range h.commands {
		names[i] = c.Name()
	}
	return names
}

// Clear drops every recorded command without reverting it
func (h *History) Clear() {
	h.commands = nil
}
