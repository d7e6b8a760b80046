package backend

import "errors"

var (
	// ErrNetwork is returned when the request never produced a response
	// (connection failure, timeout, canceled context).
	ErrNetwork = errors.New("scheduling service unreachable")

	// ErrServer is returned for a non-2xx response, with status and any
	// server-provided message wrapped in.
	ErrServer = errors.New("scheduling service error")

	// ErrDecode is returned when a 2xx response body cannot be decoded.
	ErrDecode = errors.New("scheduling service returned an invalid response")
)
