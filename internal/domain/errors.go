package domain

import "errors"

var (
	// ErrValidation marks a client fault detected before rendering (missing refId, no labels).
	ErrValidation = errors.New("validation failed")
	// ErrConfiguration signals missing server-side settings or credentials.
	ErrConfiguration = errors.New("service misconfigured")
	// ErrUpload signals that an artifact could not be written to object storage.
	ErrUpload = errors.New("artifact upload failed")
	// ErrTooLarge signals an order or artifact above the configured limits.
	ErrTooLarge = errors.New("payload too large")
	// ErrNotification signals a failed or rejected webhook call. It is never returned to clients.
	ErrNotification = errors.New("notification failed")

	// ErrInvalidAPIKey signals that the provided API key is not known.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokenStoreNotReady signals that the API key store has not been loaded yet.
	ErrTokenStoreNotReady = errors.New("token store not ready")
)
