package platform

import (
	"errors"
	"fmt"
)

// Kind classifies failures produced by a Service.
//
// Decode failures are not a Kind: they are returned exactly as the decoder
// produced them.
type Kind int

const (
	// KindUnknown is never produced; it is the zero value.
	KindUnknown Kind = iota

	// KindIO means a response arrived but its status was outside 200-299.
	KindIO

	// KindTransport means the request could not be sent or the response could
	// not be read: DNS, refused connections, TLS, resets, and context
	// cancellation all land here.
	KindTransport

	// KindRequest means no request could be built from the URL.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTransport:
		return "transport"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrIO        = &Error{Kind: KindIO}
	ErrTransport = &Error{Kind: KindTransport}
	ErrRequest   = &Error{Kind: KindRequest}
)

// Error is a failure raised while fetching a URL.
type Error struct {
	Kind Kind

	// URL is the requested URL.
	URL string

	// StatusCode and Status are set for KindIO only.
	StatusCode int
	Status     string

	// Err is the underlying cause, if any. Always nil for KindIO.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindIO:
		return fmt.Sprintf("failed to load %s: http status %s", e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("failed to load %s: %s error: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("failed to load %s: %s error", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind. This lets callers
// write errors.Is(err, platform.ErrIO) without caring about URL or status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
