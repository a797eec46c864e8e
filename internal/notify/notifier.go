package notify

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"pomodesk/internal/core/engine"
)

// Message is a rendered desktop notification.
type Message struct {
	Title string
	Body  string
}

// SendFunc delivers one notification.
type SendFunc func(title, body string) error

// MessageFor returns the notification text for a completed session.
func MessageFor(kind engine.SessionKind) Message {
	if kind == engine.KindBreak {
		return Message{Title: "☕ Break finished", Body: "Ready to focus again?"}
	}
	return Message{Title: "🍅 Work session complete", Body: "Time to take a break."}
}

// Notifier turns session completions into desktop notifications.
type Notifier struct {
	send    SendFunc
	enabled atomic.Bool
	logger  *log.Logger
}

// New returns a Notifier that sends through beeep.
func New(enabled bool, logger *log.Logger) *Notifier {
	return NewWithSender(enabled, beeepSend, logger)
}

// NewWithSender returns a Notifier with a custom delivery function.
func NewWithSender(enabled bool, send SendFunc, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Default()
	}
	notifier := &Notifier{send: send, logger: logger}
	notifier.enabled.Store(enabled)
	return notifier
}

// SetEnabled switches notifications on or off.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled.Store(enabled)
}

// Enabled reports whether notifications are sent.
func (notifier *Notifier) Enabled() bool {
	return notifier.enabled.Load()
}

// SessionCompleted implements engine.CompletionHandler.
func (notifier *Notifier) SessionCompleted(completion engine.Completion) error {
	if !notifier.Enabled() {
		return nil
	}
	message := MessageFor(completion.Kind)
	if err := notifier.send(message.Title, message.Body); err != nil {
		return fmt.Errorf("send %s notification: %w", completion.Kind, err)
	}
	notifier.logger.Debug("notification sent", "kind", completion.Kind)
	return nil
}

func beeepSend(title, body string) error {
	return beeep.Notify(title, body, "")
}
