package email

import (
	"errors"
	"fmt"
)

// Kind classifies a delivery failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindConfiguration
	KindConnection
	KindAuthentication
	KindTransmission
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindAuthentication:
		return "authentication"
	case KindTransmission:
		return "transmission"
	default:
		return "unknown"
	}
}

// Error is returned by every delivery operation in this package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrInvalidArgument reports a caller passing an absent or malformed value.
func ErrInvalidArgument(reason string) error {
	return &Error{Kind: KindInvalidArgument, Msg: reason}
}

func configError(msg string) error {
	return &Error{Kind: KindConfiguration, Msg: msg}
}

func wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
