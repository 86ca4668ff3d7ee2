package cache

import "errors"

var (
	// ErrFutureVersion indicates that the cached array was written by a newer
	// client and must not be modified
	ErrFutureVersion = errors.New("cache written by a newer client version")

	// ErrOffline indicates that the server is not reachable
	ErrOffline = errors.New("offline")
)
