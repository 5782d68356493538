// Package clipboard publishes rendered drawings to the system clipboard as
// PNG data.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
)

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
