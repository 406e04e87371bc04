package tui

import (
	"errors"
	"fmt"
	"strings"

	"smarthome-panel/internal/models"
)

const helpText = `Commands:
  /devices                                   list devices
  /add <id> <name> <type> <status> [conn]    add a device
  /update <id> <name> <type> <status> [conn] update a device
  /delete <id>                               delete a device
  /analyze [ml|stat]                         analyze the last message
  /decide                                    decide from the current analysis
  /respond                                   respond to the current decision
  /undo analysis|decision|response           revert the last step
  /voice                                     toggle voice input
  /heard [n]                                 recent recognized phrases
  /adduser <user> <password> [role] [name]   create an account
  /clear                                     clear the chat
  /logout                                    log out
  /quit                                      exit`

// command is one parsed slash command
type command struct {
	name string
	args []string
}

var errNotCommand = errors.New("not a command")

// parseCommand splits "/name arg..." into a command
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{}, errNotCommand
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return command{}, errors.New("empty command, try /help")
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

// parseDevice reads "<id> <name> <type> <status> [connection info...]"
func parseDevice(args []string) (models.Device, error) {
	if len(args) < 4 {
		return models.Device{}, errors.New("usage: <id> <name> <type> <status> [connection info]")
	}
	d := models.Device{
		ID:     args[0],
		Name:   args[1],
		Type:   args[2],
		Status: models.DeviceStatus(strings.ToLower(args[3])),
	}
	if len(args) > 4 {
		d.ConnectionInfo = strings.Join(args[4:], " ")
	}
	return d, nil
}

// parseUser reads "<user> <password> [role] [full name...]"
func parseUser(args []string) (models.AuthUser, error) {
	if len(args) < 2 {
		return models.AuthUser{}, errors.New("usage: /adduser <user> <password> [role] [full name]")
	}
	u := models.AuthUser{Username: args[0], Password: args[1], Role: models.RoleUser}
	if len(args) > 2 {
		u.Role = args[2]
	}
	u.FullName = u.Username
	if len(args) > 3 {
		u.FullName = strings.Join(args[3:], " ")
	}
	return u, nil
}

// exec runs cmd against the panel and returns lines for the chat log
func (m *Model) exec(cmd command) []string {
	a := m.app
	switch cmd.name {
	case "help", "?":
		return []string{helpText}

	case "devices":
		return []string{m.deviceView.Display()}

	case "add", "update":
		d, err := parseDevice(cmd.args)
		if err != nil {
			return []string{err.Error()}
		}
		if cmd.name == "add" {
			a.Device.AddDevice(d)
		} else if !a.Device.UpdateDevice(d) {
			if _, ok := a.Device.DeviceByID(d.ID); !ok {
				return []string{fmt.Sprintf("Device %s not found", d.ID)}
			}
		}
		return []string{m.deviceView.Status()}

	case "delete":
		if len(cmd.args) != 1 {
			return []string{"usage: /delete <id>"}
		}
		if !a.Device.DeleteDevice(cmd.args[0]) {
			return []string{fmt.Sprintf("Device %s not found", cmd.args[0])}
		}
		return []string{m.deviceView.Status()}

	case "analyze":
		name := ""
		if len(cmd.args) > 0 {
			name = cmd.args[0]
		}
		if _, err := a.Analyze(name, m.lastUserText()); err != nil {
			return []string{err.Error()}
		}
		return []string{m.analysisView.Display()}

	case "decide":
		if _, err := a.Decide(); err != nil {
			return []string{err.Error()}
		}
		return []string{m.decisionView.Display()}

	case "respond":
		if _, err := a.Respond(); err != nil {
			return []string{err.Error()}
		}
		return []string{m.responseView.Display()}

	case "undo":
		return []string{m.undo(cmd.args)}

	case "voice":
		on, err := a.ToggleVoice()
		if err != nil {
			return []string{err.Error()}
		}
		if on {
			return []string{"Voice input enabled. Speak, your words are sent to the chat."}
		}
		return []string{"Voice input disabled."}

	case "heard":
		limit := 10
		if len(cmd.args) > 0 {
			if _, err := fmt.Sscanf(cmd.args[0], "%d", &limit); err != nil {
				return []string{"usage: /heard [n]"}
			}
		}
		entries := a.Speech.History(limit)
		if len(entries) == 0 {
			return []string{"Nothing recognized yet"}
		}
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = fmt.Sprintf("[%s] %s", e.Timestamp.Format("15:04:05"), e.Text)
		}
		return []string{strings.Join(lines, "\n")}

	case "adduser":
		u, err := parseUser(cmd.args)
		if err != nil {
			return []string{err.Error()}
		}
		a.Auth.AddUser(u)
		status, _ := m.authView.Display()
		return []string{status}

	default:
		return []string{fmt.Sprintf("Unknown command /%s, try /help", cmd.name)}
	}
}

func (m *Model) undo(args []string) string {
	if len(args) != 1 {
		return "usage: /undo analysis|decision|response"
	}
	var ok bool
	var view string
	switch args[0] {
	case "analysis":
		ok, view = m.app.Analysis.Undo(), m.analysisView.Display()
	case "decision":
		ok, view = m.app.Decision.Undo(), m.decisionView.Display()
	case "response":
		ok, view = m.app.Response.Undo(), m.responseView.Display()
	default:
		return "usage: /undo analysis|decision|response"
	}
	if !ok {
		return "Nothing to undo"
	}
	if view == "" {
		return fmt.Sprintf("Undone, no current %s", args[0])
	}
	return "Undone, current:\n" + view
}
