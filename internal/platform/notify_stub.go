//go:build !linux

package platform

// Notify does nothing where no notification daemon is supported.
func Notify(title, body string, opts Options) error {
	return nil
}
