package clients

import "fmt"

// NetworkError is a transport-level or non-2xx HTTP failure.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is a malformed response body.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DomainError is an application-level failure reported by the tracker service
// in the response body. The service may report these with HTTP 200, so status
// codes alone are not trusted.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }
