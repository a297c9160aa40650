package api

import "errors"

var (
	// ErrNetwork covers an unreachable backend, a timeout, or a response the
	// client could not decode. Safe to surface as a generic retryable message.
	ErrNetwork = errors.New("backend unreachable")

	// ErrInvalidCredentials is a structured 401 from the auth endpoints.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSubmissionRejected is a structured 4xx from the submit endpoint.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrNotFound means the referenced application does not exist or does
	// not belong to the caller.
	ErrNotFound = errors.New("application not found")

	// ErrAlreadyDecided means an approval was requested for an application
	// that is no longer pending.
	ErrAlreadyDecided = errors.New("application already decided")
)
