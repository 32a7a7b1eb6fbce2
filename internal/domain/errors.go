package domain

import "errors"

var (
	// ErrMissingServiceKey is returned when the data.go.kr service key is not configured
	ErrMissingServiceKey = errors.New("data.go.kr service key is not configured")

	// ErrMissingTelegramCreds is returned when telegram token or chat id is not configured
	ErrMissingTelegramCreds = errors.New("telegram credentials are not configured")

	// ErrEndpointFetch is returned when a single endpoint fetch fails mid-run
	ErrEndpointFetch = errors.New("bid endpoint fetch failed")

	// ErrNotificationFailed is returned when a telegram message cannot be delivered
	ErrNotificationFailed = errors.New("telegram delivery failed")
)
