package web

import "fmt"

// TransportError means the upstream host could not be reached, or the request
// was cancelled before a response arrived.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FetchError means upstream answered with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	// Status is the canonical text for StatusCode (http.StatusText), not the
	// reason phrase upstream sent.
	Status string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d %s", e.URL, e.StatusCode, e.Status)
}

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
