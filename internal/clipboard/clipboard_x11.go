//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Without cgo the clipboard is served directly over the X11 protocol: the
// process owns the CLIPBOARD selection and answers requests for image/png
// until another client takes ownership.

var (
	initOnce sync.Once
	initErr  error
	owner    *x11Owner
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		o := &x11Owner{}
		if err := o.connect(); err != nil {
			initErr = err
			return
		}
		owner = o
	})
	return initErr
}

// WriteImage encodes img as PNG and takes ownership of the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encode(img)
	if err != nil {
		return err
	}
	return owner.publish(data)
}

type x11Owner struct {
	conn   *xgb.Conn
	window xproto.Window

	clipboard xproto.Atom
	targets   xproto.Atom
	png       xproto.Atom

	mu   sync.RWMutex
	data []byte
}

func (o *x11Owner) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		conn.Close()
		return err
	}
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD": &o.clipboard,
		"TARGETS":   &o.targets,
		"image/png": &o.png,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, window)
			conn.Close()
			return err
		}
		*dst = reply.Atom
	}
	o.conn = conn
	o.window = window
	go o.serve()
	return nil
}

func (o *x11Owner) publish(data []byte) error {
	o.mu.Lock()
	o.data = append([]byte(nil), data...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *x11Owner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.data = nil
			o.mu.Unlock()
		}
	}
}

func (o *x11Owner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	o.mu.RLock()
	data := o.data
	o.mu.RUnlock()

	switch {
	case e.Target == o.targets:
		atoms := []xproto.Atom{o.targets}
		if len(data) > 0 {
			atoms = append(atoms, o.png)
		}
		buf := make([]byte, len(atoms)*4)
		for i, a := range atoms {
			xgb.Put32(buf[i*4:], uint32(a))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property,
			xproto.AtomAtom, 32, uint32(len(atoms)), buf)
	case e.Target == o.png && len(data) > 0:
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property,
			o.png, 8, uint32(len(data)), data)
	default:
		property = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}
