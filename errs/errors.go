package errs

import (
	"errors"
	"fmt"
)

// Kind identifies one member of the closed failure taxonomy
type Kind int

const (
	KindInvalidConfig Kind = iota + 1
	KindNoAvailableKeys
	KindUnsupportedProvider
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidConfig:
		return "invalid_config"
	case KindNoAvailableKeys:
		return "no_available_keys"
	case KindUnsupportedProvider:
		return "unsupported_provider"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by gatekeeper packages.
// Detail carries the reason, provider name or upstream message depending on Kind.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// Sentinels for errors.Is; matching compares Kind only.
var (
	ErrInvalidConfig       = &Error{Kind: KindInvalidConfig}
	ErrNoAvailableKeys     = &Error{Kind: KindNoAvailableKeys}
	ErrUnsupportedProvider = &Error{Kind: KindUnsupportedProvider}
	ErrUpstream            = &Error{Kind: KindUpstream}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInvalidConfig:
		msg = "invalid configuration: " + e.Detail
	case KindNoAvailableKeys:
		msg = "no available keys"
	case KindUnsupportedProvider:
		msg = "unsupported provider: " + e.Detail
	case KindUpstream:
		msg = "upstream error: " + e.Detail
	default:
		msg = "gatekeeper error: " + e.Detail
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidConfig reports a structurally or semantically invalid configuration
func InvalidConfig(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidConfig, Detail: fmt.Sprintf(format, args...)}
}

// UnsupportedProvider reports a key whose provider cannot be dispatched
func UnsupportedProvider(name string) error {
	return &Error{Kind: KindUnsupportedProvider, Detail: name}
}

// Upstream wraps a failure of the upstream call collaborator
func Upstream(msg string, cause error) error {
	return &Error{Kind: KindUpstream, Detail: msg, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
