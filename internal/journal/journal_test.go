package journal

import (
	"testing"

	"github.com/example/touchdraw/internal/stroke"
)

// recorder executes commands against a slice of ids.
type recorder struct {
	ids []int
	ran []Kind
}

func (r *recorder) exec(cmd Command) Command {
	r.ran = append(r.ran, cmd.Kind)
	switch cmd.Kind {
	case Pop:
		r.ids = r.ids[:len(r.ids)-1]
	case Push:
		r.ids = append(r.ids, len(r.ids))
	}
	return cmd.Inverse()
}

func TestUndoRedo(t *testing.T) {
	var j Journal
	r := &recorder{}
	for i := 0; i < 3; i++ {
		r.ids = append(r.ids, i)
		j.Record(Command{Kind: Pop})
	}
	if !j.Undo(r.exec) || !j.Undo(r.exec) {
		t.Fatalf("undo failed")
	}
	if len(r.ids) != 1 || j.RedoDepth() != 2 || j.UndoDepth() != 1 {
		t.Fatalf("after two undos: ids=%v undo=%d redo=%d", r.ids, j.UndoDepth(), j.RedoDepth())
	}
	if !j.Redo(r.exec) {
		t.Fatalf("redo failed")
	}
	if len(r.ids) != 2 || !j.CanRedo() {
		t.Fatalf("after redo: ids=%v", r.ids)
	}
}

func TestRecordDropsRedo(t *testing.T) {
	var j Journal
	r := &recorder{ids: []int{0}}
	j.Record(Command{Kind: Pop})
	j.Undo(r.exec)
	if !j.CanRedo() {
		t.Fatalf("expected redo to be available")
	}
	j.Record(Command{Kind: Pop})
	if j.CanRedo() {
		t.Fatalf("record should drop redo history")
	}
	if j.Redo(r.exec) {
		t.Fatalf("redo should be a no-op")
	}
}

func TestEmptyStacks(t *testing.T) {
	var j Journal
	called := false
	exec := func(c Command) Command { called = true; return c }
	if j.Undo(exec) || j.Redo(exec) || called {
		t.Fatalf("empty journal ran a command")
	}
}

func TestInverse(t *testing.T) {
	snap := []stroke.Stroke{{Text: "a"}}
	pairs := map[Kind]Kind{Push: Pop, Pop: Push, Clear: Restore, Restore: Clear}
	for k, want := range pairs {
		inv := Command{Kind: k, Snapshot: snap}.Inverse()
		if inv.Kind != want {
			t.Errorf("%v inverse = %v, want %v", k, inv.Kind, want)
		}
	}
	if got := (Command{Kind: Clear, Snapshot: snap}).Inverse(); len(got.Snapshot) != 1 {
		t.Fatalf("snapshot lost across inverse")
	}
}
