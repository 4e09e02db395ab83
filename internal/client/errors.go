package client

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindStatus means the server answered with a non-2xx status.
	KindStatus Kind = iota + 1
	// KindNetwork means the request never produced a response.
	KindNetwork
	// KindDecode means the body was not the expected JSON shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by every Client call that fails.
type FetchError struct {
	Kind     Kind
	Endpoint string
	// Status is set for KindStatus.
	Status int
	// Body holds the start of a non-2xx response body.
	Body string
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("GET %s: status %d: %s", e.Endpoint, e.Status, e.Body)
		}
		return fmt.Sprintf("GET %s: status %d", e.Endpoint, e.Status)
	case KindDecode:
		return fmt.Sprintf("GET %s: invalid response: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("GET %s: %v", e.Endpoint, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError unwraps err to a *FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsStatus reports whether err is a status failure with the given code.
func IsStatus(err error, code int) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == KindStatus && fe.Status == code
}
