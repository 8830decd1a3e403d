package dhan

import "fmt"

// TransportError is a failure to complete the HTTP exchange: network
// error, timeout, body read failure, or a non-2xx response.
type TransportError struct {
	Op         string // request path
	StatusCode int    // 0 when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dhan %s: http %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("dhan %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a provider-level soft failure: the HTTP exchange
// succeeded but the payload reported a non-success status (bad scrip,
// bad expiry, expired token and so on).
type UpstreamError struct {
	Op        string
	Status    string
	ErrorCode string
	Message   string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dhan %s: upstream rejected: %s (%s)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("dhan %s: upstream rejected: status %q", e.Op, e.Status)
}
