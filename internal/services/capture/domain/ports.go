package domain

// DeviceConfig configures an opened device session. A session's locale is
// immutable once opened; changing it means rebuilding the session
type DeviceConfig struct {
	Locale         string
	Continuous     bool
	InterimResults bool
}

// DeviceCallbacks are invoked by the device adapter as recognition progresses.
// Callbacks may fire from any goroutine, including synchronously from Stop/Abort
type DeviceCallbacks struct {
	OnResult func(Result)
	OnError  func(error)
	OnEnd    func()
}

// DeviceSession is an open device capture handle
type DeviceSession interface {
	// Stop asks the device to finalize; a final result (possibly empty) and
	// an end event follow
	Stop()
	// Abort tears the session down without waiting for a final result
	Abort()
}

// DevicePort is the platform speech-to-text surface. Devices without
// speech-capture capability return a capture-unsupported error from Open
type DevicePort interface {
	Open(cfg DeviceConfig, cb DeviceCallbacks) (DeviceSession, error)
}
