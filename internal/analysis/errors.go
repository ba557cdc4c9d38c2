package analysis

import (
	"errors"
	"fmt"
)

// Operation names, used in errors and metrics.
const (
	OpAnalyze   = "analyze"
	OpSpamCheck = "spam_check"
	OpGenerate  = "generate"
	OpSave      = "save"
	OpGet       = "get"
)

var (
	// ErrRemote is the default cause of a RemoteError.
	ErrRemote = errors.New("remote call failed")
	// ErrSpamCheckFailed marks a spam-check response without success set.
	ErrSpamCheckFailed = errors.New("spam check failed")
	// ErrEmptyID is returned when a share ID is missing.
	ErrEmptyID = errors.New("analysis id is required")
)

// fallbackMessages are shown when the remote response carries no message.
var fallbackMessages = map[string]string{
	OpAnalyze:   "Failed to analyze text",
	OpSpamCheck: "Failed to check spam risk",
	OpGenerate:  "Failed to generate description",
	OpSave:      "Failed to save analysis",
	OpGet:       "Failed to load analysis",
}

// RemoteError describes a failed remote operation.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrRemote
}

// UserMessage returns the text to show inline for err.
func UserMessage(op string, err error) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

func newRemoteError(op string, status int, message string, cause error) *RemoteError {
	if message == "" {
		message = fallbackMessages[op]
	}
	return &RemoteError{Op: op, StatusCode: status, Message: message, Err: cause}
}
