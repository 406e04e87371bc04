// Package tui is the terminal front end of the panel: a login screen and a
// chat screen with a device table. Every controller call happens inside
// Update, on the bubbletea goroutine.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"smarthome-panel/internal/app"
	"smarthome-panel/internal/dialog"
	"smarthome-panel/internal/views"
)

type screen int

const (
	screenLogin screen = iota
	screenChat
)

const tableHeight = 6

// VoiceMsg carries a recognized phrase from the voice relay
type VoiceMsg struct {
	Text string
}

// Model is the root bubbletea model
type Model struct {
	app    *app.App
	styles Styles
	screen screen

	username textinput.Model
	password textinput.Model
	focus    int

	input       textinput.Model
	chat        viewport.Model
	devices     table.Model
	showDevices bool

	authView     *views.AuthView
	deviceView   *views.DeviceView
	analysisView *views.AnalysisView
	decisionView *views.DecisionView
	responseView *views.ResponseView
	speechView   *views.SpeechView

	width  int
	height int
}

// New builds the model and subscribes its views to the controllers
func New(a *app.App) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 30
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 30
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.CharLimit = 500

	devices := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 12},
			{Title: "Name", Width: 18},
			{Title: "Type", Width: 12},
			{Title: "Status", Width: 12},
			{Title: "Connection", Width: 24},
		}),
		table.WithHeight(tableHeight),
	)

	m := &Model{
		app:          a,
		styles:       DefaultStyles(),
		username:     username,
		password:     password,
		input:        input,
		chat:         viewport.New(80, 20),
		devices:      devices,
		authView:     views.NewAuthView(a.Auth),
		deviceView:   views.NewDeviceView(a.Device),
		analysisView: views.NewAnalysisView(a.Analysis),
		decisionView: views.NewDecisionView(a.Decision),
		responseView: views.NewResponseView(a.Response),
		speechView:   views.NewSpeechView(a.Speech),
	}
	m.refreshDevices()
	return m
}

// Run starts the program and the voice relay, blocking until the user quits
func Run(a *app.App) error {
	m := New(a)
	defer m.detach()

	p := tea.NewProgram(m, tea.WithAltScreen())
	a.StartVoiceRelay(func(text string) {
		p.Send(VoiceMsg{Text: text})
	})
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case VoiceMsg:
		m.voice(msg.Text)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.screen == screenLogin {
				return m, m.submitLogin()
			}
			return m, m.submitChat()
		case tea.KeyTab, tea.KeyShiftTab:
			if m.screen == screenLogin {
				m.toggleFocus()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.screen == screenLogin {
		if m.focus == 0 {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) toggleFocus() {
	m.focus = 1 - m.focus
	if m.focus == 0 {
		m.password.Blur()
		m.username.Focus()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}

func (m *Model) submitLogin() tea.Cmd {
	user := strings.TrimSpace(m.username.Value())
	if user == "" {
		return nil
	}
	if m.focus == 0 {
		m.toggleFocus()
		return nil
	}
	if _, ok := m.app.Auth.Login(user, m.password.Value()); !ok {
		m.password.SetValue("")
		return nil
	}
	m.password.SetValue("")
	m.screen = screenChat
	status, _ := m.authView.Display()
	m.app.Chat.System(status)
	m.refreshChat()
	return m.input.Focus()
}

func (m *Model) submitChat() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return nil
	}

	cmd, err := parseCommand(line)
	switch {
	case errors.Is(err, errNotCommand):
		if err := m.app.Chat.Send(line); err != nil {
			m.app.Chat.System(err.Error())
		}
	case err != nil:
		m.app.Chat.System(err.Error())
	default:
		switch cmd.name {
		case "quit", "exit":
			return tea.Quit
		case "logout":
			m.logout()
			return nil
		case "clear":
			m.app.Chat.Clear()
		case "devices":
			m.showDevices = !m.showDevices
			m.resize(m.width, m.height)
			fallthrough
		default:
			for _, line := range m.exec(cmd) {
				if line != "" {
					m.app.Chat.System(line)
				}
			}
		}
	}
	m.refreshDevices()
	m.refreshChat()
	return nil
}

// voice posts a phrase from the relay. Phrases that arrive while logged out
// are dropped.
func (m *Model) voice(text string) {
	m.app.Speech.Deliver(text)
	if err := m.app.Chat.SendVoice(text); err != nil {
		m.app.Logger.Debug("Voice phrase dropped", zap.String("phrase", text), zap.Error(err))
		return
	}
	m.refreshChat()
}

func (m *Model) logout() {
	if m.app.Speech.IsListening() {
		if _, err := m.app.ToggleVoice(); err != nil {
			m.app.Logger.Debug("Voice toggle on logout", zap.Error(err))
		}
	}
	m.app.Auth.Logout()
	m.app.Chat.Clear()
	m.screen = screenLogin
	m.focus = 1
	m.toggleFocus()
	m.input.Blur()
	m.refreshChat()
}

// lastUserText returns the newest message typed or spoken by the user
func (m *Model) lastUserText() string {
	msgs := m.app.Chat.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Author == dialog.AuthorUser || msgs[i].Author == dialog.AuthorVoice {
			return msgs[i].Text
		}
	}
	return ""
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(width-4, 10)
	m.devices.SetWidth(max(width-2, 20))

	reserved := 4
	if m.showDevices {
		reserved += tableHeight + 2
	}
	m.chat.Width = width
	m.chat.Height = max(height-reserved, 3)
	m.refreshChat()
}

func (m *Model) refreshDevices() {
	devices := m.deviceView.Devices()
	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		rows[i] = table.Row{d.ID, d.Name, d.Type, string(d.Status), d.ConnectionInfo}
	}
	m.devices.SetRows(rows)
}

func (m *Model) refreshChat() {
	var b strings.Builder
	for _, msg := range m.app.Chat.Messages() {
		stamp := m.styles.Muted.Render("[" + msg.Time.Format("15:04:05") + "]")
		switch msg.Author {
		case dialog.AuthorSystem:
			fmt.Fprintf(&b, "%s %s\n", stamp, m.styles.System.Render(msg.Author+": "+msg.Text))
		default:
			fmt.Fprintf(&b, "%s %s %s\n", stamp, m.styles.You.Render(msg.Author+":"), msg.Text)
		}
	}
	m.chat.SetContent(b.String())
	m.chat.GotoBottom()
}

func (m *Model) View() string {
	if m.screen == screenLogin {
		return m.loginView()
	}
	return m.chatView()
}

func (m *Model) loginView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Smart Home Control Panel"))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("User") + m.username.View() + "\n")
	b.WriteString(m.styles.Label.Render("Password") + m.password.View() + "\n\n")
	if status, ok := m.authView.Display(); status != "" {
		style := m.styles.Error
		if ok {
			style = m.styles.Success
		}
		b.WriteString(style.Render(status) + "\n")
	}
	b.WriteString(m.styles.Muted.Render("tab switch field • enter log in • ctrl+c quit"))

	box := m.styles.Box.Render(b.String())
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) chatView() string {
	user, _ := m.app.Auth.CurrentUser()
	name := user.FullName
	if name == "" {
		name = user.Username
	}

	mic := m.styles.MicOff.Render(m.speechView.Display())
	if m.app.Speech.IsListening() {
		mic = m.styles.MicOn.Render(m.speechView.Display())
	}
	header := m.styles.Header.Render(fmt.Sprintf("%s (%s)", name, user.Role)) + "  " + mic

	parts := []string{header, m.chat.View()}
	if m.showDevices {
		parts = append(parts, m.devices.View())
	}
	parts = append(parts, m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) detach() {
	m.authView.Detach()
	m.deviceView.Detach()
	m.analysisView.Detach()
	m.decisionView.Detach()
	m.responseView.Detach()
	m.speechView.Detach()
}
