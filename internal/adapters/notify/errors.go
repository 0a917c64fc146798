package notify

import "errors"

// Sentinel kinds for dispatch errors.
var (
	// ErrMessageTooLong marks a permanent rejection; retrying cannot help.
	ErrMessageTooLong = errors.New("message is too long")

	// ErrSendFailed marks a send that exhausted its retry budget.
	ErrSendFailed = errors.New("send failed")
)
