// Package domain holds the capture session types shared by the service and device adapters
package domain

// State is the capture session lifecycle state
type State string

const (
	// StateInactive means no device session is open
	StateInactive State = "inactive"
	// StateListening means a device session is open and accepting speech
	StateListening State = "listening"
	// StateProcessing means stop was requested and the final result is pending
	StateProcessing State = "processing"
	// StateError means the device reported a failure; recover by calling Start again
	StateError State = "error"
)

// Result is a single recognition result emitted by the device.
// Interim results are buffered for display only; only final results
// overwrite the session transcript
type Result struct {
	Text  string
	Final bool
}

// Snapshot is the externally observable session view at a point in time
type Snapshot struct {
	State      State
	Locale     string
	Transcript string
	Interim    string
}
