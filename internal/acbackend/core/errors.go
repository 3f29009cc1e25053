package core

import "errors"

var (
	// ErrAlreadyRunning is returned by Start while a session is live.
	ErrAlreadyRunning = errors.New("backend already running")

	// ErrBindFailure is returned when the management endpoint cannot be bound.
	ErrBindFailure = errors.New("cannot bind management endpoint")

	// ErrConfigurationInvalid is returned by Start for an incomplete or malformed configuration.
	ErrConfigurationInvalid = errors.New("invalid backend configuration")

	// ErrBackendNotRunning is returned when a notification arrives without a live session.
	ErrBackendNotRunning = errors.New("backend not running")

	// ErrSerializationFailure is returned when a notification cannot be encoded.
	ErrSerializationFailure = errors.New("notification serialization failed")

	// ErrTransportFailure is returned when the management layer did not accept a notification.
	ErrTransportFailure = errors.New("notification transport failed")

	// ErrHandleExpired is returned by a server handle that outlived its session.
	ErrHandleExpired = errors.New("server handle expired")

	// ErrImageNotFound is returned by an image store that has no object for an image.
	ErrImageNotFound = errors.New("startup image not found")
)
