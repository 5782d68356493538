package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification daemon.
	AppName string
	// IconPath, when non-empty, points to an image shown with the notification.
	IconPath string
	// Timeout is the display time in milliseconds. Zero uses the default.
	Timeout int32
}

// DefaultTimeout is used when Options.Timeout is zero.
const DefaultTimeout int32 = 5000

func (o Options) appName() string {
	if o.AppName == "" {
		return "touchdraw"
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.Timeout == 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
