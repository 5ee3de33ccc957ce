package notification

import (
	"log"

	"fyne.io/fyne/v2"
)

// MaxLength caps the body of a desktop notification in characters.
const MaxLength = 200

const AppTitle = "Screen Annotate"

// Sender delivers desktop notifications. fyne.App satisfies it.
type Sender interface {
	SendNotification(n *fyne.Notification)
}

type Notifier struct {
	sender Sender
}

// New returns a notifier. A nil sender only logs.
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Startup tells the user the app is running in the tray.
func (n *Notifier) Startup() {
	log.Printf("notification: startup")
	n.send(AppTitle, "Started. Use the tray menu to open the screenshot tool.")
}

// Error reports a failure that happened outside any open window.
func (n *Notifier) Error(title, message string) {
	log.Printf("notification: %s: %s", title, message)
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n == nil || n.sender == nil {
		return
	}
	n.sender.SendNotification(fyne.NewNotification(title, Truncate(message)))
}

// Truncate shortens text to MaxLength characters, adding an ellipsis.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxLength {
		return text
	}
	return string(runes[:MaxLength]) + "..."
}
