package internal

import "errors"

var (
	ErrPollerClosed   = errors.New("poller closed")
	errInvalidBackoff = errors.New("backoff minimum exceeds maximum")
)
