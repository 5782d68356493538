// Package avail tracks whether undo, redo and clear are possible and tells
// an observer when that changes.
package avail

// Kind names one availability flag.
type Kind int

const (
	Undo Kind = iota
	Redo
	Clear
)

func (k Kind) String() string {
	switch k {
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case Clear:
		return "clear"
	}
	return "unknown"
}

// Flags is the current availability of each action.
type Flags struct {
	Undo  bool
	Redo  bool
	Clear bool
}

// Observer receives availability transitions. Embed Nop to implement only
// the methods of interest.
type Observer interface {
	UndoEnabled()
	UndoDisabled()
	RedoEnabled()
	RedoDisabled()
	ClearEnabled()
	ClearDisabled()
}

// Nop ignores every notification. Embed it to implement only some methods.
type Nop struct{}

// Observer methods on Nop do nothing.
func (Nop) UndoEnabled()   {}
func (Nop) UndoDisabled()  {}
func (Nop) RedoEnabled()   {}
func (Nop) RedoDisabled()  {}
func (Nop) ClearEnabled()  {}
func (Nop) ClearDisabled() {}

// Func adapts a single callback to Observer.
type Func func(kind Kind, enabled bool)

// Observer methods on Func call f with the matching kind and state.
func (f Func) UndoEnabled()   { f(Undo, true) }
func (f Func) UndoDisabled()  { f(Undo, false) }
func (f Func) RedoEnabled()   { f(Redo, true) }
func (f Func) RedoDisabled()  { f(Redo, false) }
func (f Func) ClearEnabled()  { f(Clear, true) }
func (f Func) ClearDisabled() { f(Clear, false) }

// Tracker remembers the last published flags. The zero value starts with
// everything disabled and no observer.
type Tracker struct {
	flags    Flags
	observer Observer
}

// NewTracker returns a tracker publishing to obs, which may be nil.
func NewTracker(obs Observer) *Tracker {
	return &Tracker{observer: obs}
}

// SetObserver replaces the observer. Current flags are not replayed.
func (t *Tracker) SetObserver(obs Observer) {
	t.observer = obs
}

// Flags returns the last published state.
func (t *Tracker) Flags() Flags {
	return t.flags
}

// Update publishes only the flags that differ from the previous state.
func (t *Tracker) Update(next Flags) {
	prev := t.flags
	t.flags = next
	if t.observer == nil {
		return
	}
	if prev.Undo != next.Undo {
		if next.Undo {
			t.observer.UndoEnabled()
		} else {
			t.observer.UndoDisabled()
		}
	}
	if prev.Redo != next.Redo {
		if next.Redo {
			t.observer.RedoEnabled()
		} else {
			t.observer.RedoDisabled()
		}
	}
	if prev.Clear != next.Clear {
		if next.Clear {
			t.observer.ClearEnabled()
		} else {
			t.observer.ClearDisabled()
		}
	}
}
