package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/touchdraw/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when a drawing is written as PNG.
	EventSave Event = "save"
	// EventExport emits a notification when a drawing is written as PDF.
	EventExport Event = "export"
	// EventCopy emits a notification when a drawing is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "touchdraw",
		Events: map[Event]EventPreference{
			EventSave:   {Template: "Saved %s"},
			EventExport: {Template: "Exported %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("TOUCHDRAW_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("TOUCHDRAW_NOTIFY_SAVE_TEXT", EventSave)
	apply("TOUCHDRAW_NOTIFY_EXPORT_TEXT", EventExport)
	apply("TOUCHDRAW_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// Sender delivers a formatted notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends desktop notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(s Sender) *Notifier {
	if n != nil && s != nil {
		n.send = s
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Save announces a written PNG, using it as the icon when it exists.
func (n *Notifier) Save(path string) {
	n.file(EventSave, path, true)
}

// Export announces a written PDF.
func (n *Notifier) Export(path string) {
	n.file(EventExport, path, false)
}

func (n *Notifier) file(event Event, path string, icon bool) {
	if !n.enabledFor(event) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && icon {
			opts.IconPath = abs
		}
	}
	n.dispatch(event, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "drawing"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
