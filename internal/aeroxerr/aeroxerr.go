// Package aeroxerr defines AeroX's tagged error taxonomy: every error
// that crosses a component boundary carries a Kind so callers can
// branch on category without string matching.
package aeroxerr

import (
	"errors"
	"fmt"
)

// Kind classifies an AeroX error.
type Kind int

const (
	Io Kind = iota
	Config
	Network
	Protocol
	Router
	Plugin
	Serialization
	Connection
	Timeout
	Unimplemented
	Validation
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case Config:
		return "config"
	case Network:
		return "network"
	case Protocol:
		return "protocol"
	case Router:
		return "router"
	case Plugin:
		return "plugin"
	case Serialization:
		return "serialization"
	case Connection:
		return "connection"
	case Timeout:
		return "timeout"
	case Unimplemented:
		return "unimplemented"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is an AeroX error: a Kind, a message, an optional cause, and
// optional key/value context attached by WithContext.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context []KV
}

// KV is one key/value context entry, or a freeform note when Key is empty.
type KV struct {
	Key   string
	Value string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	for _, kv := range e.Context {
		if kv.Key == "" {
			msg = fmt.Sprintf("%s (%s)", msg, kv.Value)
			continue
		}
		msg = fmt.Sprintf("%s (%s=%s)", msg, kv.Key, kv.Value)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, aeroxerr.ConnectionErr("")) matches any Connection-kind
// error regardless of message or cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ConfigErr(format string, args ...any) *Error        { return newErr(Config, format, args...) }
func NetworkErr(format string, args ...any) *Error       { return newErr(Network, format, args...) }
func ProtocolErr(format string, args ...any) *Error      { return newErr(Protocol, format, args...) }
func RouterErr(format string, args ...any) *Error        { return newErr(Router, format, args...) }
func PluginErr(format string, args ...any) *Error        { return newErr(Plugin, format, args...) }
func SerializationErr(format string, args ...any) *Error { return newErr(Serialization, format, args...) }
func ConnectionErr(format string, args ...any) *Error    { return newErr(Connection, format, args...) }
func TimeoutErr(format string, args ...any) *Error       { return newErr(Timeout, format, args...) }
func UnimplementedErr(format string, args ...any) *Error { return newErr(Unimplemented, format, args...) }
func ValidationErr(format string, args ...any) *Error    { return newErr(Validation, format, args...) }

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newErr(kind, format, args...)
	e.Cause = cause
	return e
}

// WithKV attaches key/value context to err, mirroring the original's
// WithContext(KeyValue(k,v)). If err is not an *Error, it is wrapped
// first as an Io-kind error whose message is err's text and whose
// cause is err.
func WithKV(err error, key, value string) *Error {
	e := asError(err)
	e.Context = append(e.Context, KV{Key: key, Value: value})
	return e
}

// WithNote attaches a freeform note, mirroring WithContext(Custom(msg)).
func WithNote(err error, note string) *Error {
	e := asError(err)
	e.Context = append(e.Context, KV{Value: note})
	return e
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		clone := *e
		clone.Context = append([]KV(nil), e.Context...)
		return &clone
	}
	return &Error{Kind: Io, Message: err.Error(), Cause: err}
}

// KindOf returns err's Kind, or false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
