// Package history keeps the ordered list of committed strokes. Only the
// tail is ever mutated.
package history

import (
	"errors"

	"github.com/example/touchdraw/internal/stroke"
)

// ErrEmpty is returned by Pop on an empty stack.
var ErrEmpty = errors.New("history is empty")

// Stack is the committed stroke list, oldest first.
type Stack struct {
	strokes []stroke.Stroke
}

// Push appends a copy of s.
func (h *Stack) Push(s stroke.Stroke) {
	h.strokes = append(h.strokes, s.Clone())
}

// Pop removes and returns the newest stroke.
func (h *Stack) Pop() (stroke.Stroke, error) {
	n := len(h.strokes)
	if n == 0 {
		return stroke.Stroke{}, ErrEmpty
	}
	s := h.strokes[n-1]
	h.strokes[n-1] = stroke.Stroke{}
	h.strokes = h.strokes[:n-1]
	return s, nil
}

// Last returns the newest stroke without removing it.
func (h *Stack) Last() (stroke.Stroke, bool) {
	if len(h.strokes) == 0 {
		return stroke.Stroke{}, false
	}
	return h.strokes[len(h.strokes)-1], true
}

// Clear empties the stack and returns what it held.
func (h *Stack) Clear() []stroke.Stroke {
	removed := h.strokes
	h.strokes = nil
	return removed
}

// Replace swaps the contents for copies of list.
func (h *Stack) Replace(list []stroke.Stroke) {
	h.strokes = stroke.CloneAll(list)
}

// Len is the number of strokes held.
func (h *Stack) Len() int {
	return len(h.strokes)
}

// Strokes returns a deep copy of the stack, oldest first.
func (h *Stack) Strokes() []stroke.Stroke {
	return stroke.CloneAll(h.strokes)
}

// Each calls fn for every stroke in order without copying.
func (h *Stack) Each(fn func(stroke.Stroke)) {
	for _, s := range h.strokes {
		fn(s)
	}
}
