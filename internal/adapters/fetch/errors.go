package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	// ErrBadStatus marks a non-200 response.
	ErrBadStatus = errors.New("unexpected http status")
	// ErrBodyTooShort marks a suspiciously small body, usually an
	// anti-bot interstitial rather than the real page.
	ErrBodyTooShort = errors.New("body too short, possibly blocked")
)
