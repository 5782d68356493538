// Package journal records reversible history commands on two stacks, one
// for undo and one for redo.
package journal

import (
	"fmt"

	"github.com/example/touchdraw/internal/stroke"
)

// Kind tags a Command.
type Kind int

const (
	// Push appends Stroke to the history.
	Push Kind = iota
	// Pop removes the newest stroke from the history.
	Pop
	// Clear empties the history. Snapshot holds what it removed.
	Clear
	// Restore pushes every stroke of Snapshot back.
	Restore
)

func (k Kind) String() string {
	switch k {
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Clear:
		return "clear"
	case Restore:
		return "restore"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is a single pending history operation.
type Command struct {
	Kind     Kind
	Stroke   stroke.Stroke
	Snapshot []stroke.Stroke
}

// Inverse returns the command that undoes c.
func (c Command) Inverse() Command {
	switch c.Kind {
	case Push:
		return Command{Kind: Pop, Stroke: c.Stroke}
	case Pop:
		return Command{Kind: Push, Stroke: c.Stroke}
	case Clear:
		return Command{Kind: Restore, Snapshot: c.Snapshot}
	case Restore:
		return Command{Kind: Clear, Snapshot: c.Snapshot}
	}
	return c
}

// Executor performs a command and returns the command that reverses it.
type Executor func(Command) Command

// Journal holds the undo and redo stacks.
type Journal struct {
	undo []Command
	redo []Command
}

// Record registers cmd as the way to undo the operation just performed.
// Any redo history is discarded.
func (j *Journal) Record(cmd Command) {
	j.undo = append(j.undo, cmd)
	j.redo = nil
}

// Undo runs the newest undo command through exec and files the result
// as redo. It reports false when there was nothing to undo.
func (j *Journal) Undo(exec Executor) bool {
	cmd, ok := pop(&j.undo)
	if !ok {
		return false
	}
	j.redo = append(j.redo, exec(cmd))
	return true
}

// Redo is the mirror of Undo.
func (j *Journal) Redo(exec Executor) bool {
	cmd, ok := pop(&j.redo)
	if !ok {
		return false
	}
	j.undo = append(j.undo, exec(cmd))
	return true
}

// Reset drops both stacks.
func (j *Journal) Reset() {
	j.undo = nil
	j.redo = nil
}

// CanUndo and CanRedo report whether a stack is non-empty; UndoDepth and
// RedoDepth give its size.
func (j *Journal) CanUndo() bool  { return len(j.undo) > 0 }
func (j *Journal) CanRedo() bool  { return len(j.redo) > 0 }
func (j *Journal) UndoDepth() int { return len(j.undo) }
func (j *Journal) RedoDepth() int { return len(j.redo) }

func pop(stack *[]Command) (Command, bool) {
	s := *stack
	if len(s) == 0 {
		return Command{}, false
	}
	cmd := s[len(s)-1]
	s[len(s)-1] = Command{}
	*stack = s[:len(s)-1]
	return cmd, true
}
