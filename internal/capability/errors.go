package capability

import (
	"errors"
	"fmt"
)

// ErrNoStreaming marks a translator that only supports whole-text calls.
var ErrNoStreaming = errors.New("streaming not supported")

// ProvisioningState classifies why a capability could not produce a session.
type ProvisioningState string

const (
	// StateUnavailable is terminal: no retry helps without user action
	// outside the app (enabling a flag, freeing storage).
	StateUnavailable ProvisioningState = "unavailable"
	// StateNeedsGesture is retryable from inside a user-gesture handler.
	StateNeedsGesture ProvisioningState = "needs-gesture"
	// StateNeedsDownload is retryable after the model download finishes.
	StateNeedsDownload ProvisioningState = "needs-download"
)

// ProvisioningError reports that a capability is absent or not yet usable,
// with enough detail for a user-actionable message.
type ProvisioningError struct {
	Kind  Kind
	State ProvisioningState
	Cause error
}

func (e *ProvisioningError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.State, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.State)
}

func (e *ProvisioningError) Unwrap() error { return e.Cause }

// Remediation is the user-facing instruction for this provisioning state.
func (e *ProvisioningError) Remediation() string {
	switch e.State {
	case StateNeedsGesture:
		return fmt.Sprintf("The %s capability needs a user gesture to start. Select the text again to begin initialization.", e.Kind)
	case StateNeedsDownload:
		return fmt.Sprintf("The %s model is still downloading. Try again in a moment.", e.Kind)
	default:
		return fmt.Sprintf("The %s capability is not available. Enable the on-device AI features and restart.", e.Kind)
	}
}

// CallError reports a runtime failure of an already-created session.
type CallError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
