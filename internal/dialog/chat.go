// Package dialog is the panel's chat: typed and spoken messages from the
// user plus system notes, and the relay that moves recognized phrases from
// the speech listener into the chat.
package dialog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Authors shown in the chat log
const (
	AuthorUser   = "You"
	AuthorVoice  = "You (voice)"
	AuthorSystem = "System"
)

// AckText is the system reply to every accepted message
const AckText = "Accepted for processing. Analyzing request..."

var (
	ErrNotLoggedIn  = errors.New("log in to send messages")
	ErrEmptyMessage = errors.New("message is empty")
)

// Message is one chat line
type Message struct {
	Time   time.Time
	Author string
	Text   string
}

// String renders the line as "[15:04:05] Author: text"
func (m Message) String() string {
	return fmt.Sprintf("[%s] %s: %s", m.Time.Format("15:04:05"), m.Author, m.Text)
}

// Session reports whether a user is logged in
type Session interface {
	IsAuthenticated() bool
}

// Chat is the message log. It is used from the UI goroutine only.
type Chat struct {
	session  Session
	messages []Message
	now      func() time.Time
}

// NewChat creates an empty chat gated by session
func NewChat(session Session) *Chat {
	return &Chat{session: session, now: time.Now}
}

// Send posts a typed message and the system acknowledgement
func (c *Chat) Send(text string) error {
	return c.post(AuthorUser, text)
}

// SendVoice posts a recognized phrase and the system acknowledgement
func (c *Chat) SendVoice(text string) error {
	return c.post(AuthorVoice, text)
}

func (c *Chat) post(author, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if !c.session.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	c.append(author, text)
	c.append(AuthorSystem, AckText)
	return nil
}

// System adds a system note
func (c *Chat) System(text string) {
	c.append(AuthorSystem, text)
}

// Messages returns the log, oldest first
func (c *Chat) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Clear empties the log
func (c *Chat) Clear() {
	c.messages = nil
}

func (c *Chat) append(author, text string) {
	c.messages = append(c.messages, Message{Time: c.now(), Author: author, Text: text})
}
