package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindUnknown is reported for errors that did not come from this package.
	KindUnknown Kind = iota
	KindNotFound
	KindStoreUnavailable
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrConfiguration    = &Error{Kind: KindConfiguration}
)

// Error is a classified failure. Op names the operation, Key the object key
// when one applies, and Err the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessage(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key=%s)", msg, e.Key)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Key == "" && t.Err == nil && t.Message == "" && t.Kind == e.Kind
}

// NotFound builds a KindNotFound error.
func NotFound(op, key string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Key: key, Err: err}
}

// StoreUnavailable builds a KindStoreUnavailable error.
func StoreUnavailable(op, key string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Op: op, Key: key, Err: err}
}

// Configuration builds a KindConfiguration error with a descriptive message.
func Configuration(message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PublicMessage is the text safe to return to HTTP clients. Unclassified
// errors never leak their text.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal Server Error"
	}
	switch e.Kind {
	case KindNotFound:
		if e.Key != "" {
			return fmt.Sprintf("No document with the name %q was found", e.Key)
		}
		return defaultMessage(e.Kind)
	default:
		return "Internal Server Error"
	}
}

func defaultMessage(k Kind) string {
	switch k {
	case KindNotFound:
		return "document not found"
	case KindStoreUnavailable:
		return "object store unavailable"
	case KindConfiguration:
		return "invalid configuration"
	default:
		return "unknown error"
	}
}
