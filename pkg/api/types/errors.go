package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures; the numeric value is the process exit code.
type ErrorKind int

const (
	ErrNone     ErrorKind = 0
	ErrGeneral  ErrorKind = 1
	ErrArgument ErrorKind = 2
	ErrConfig   ErrorKind = 3
	ErrHistory  ErrorKind = 4
	ErrDevice   ErrorKind = 5
	ErrSafety   ErrorKind = 6
)

// Exit code for a run cut short by SIGINT/SIGTERM
const ExitInterrupted = 130

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "ok"
	case ErrGeneral:
		return "general error"
	case ErrArgument:
		return "argument error"
	case ErrConfig:
		return "config error"
	case ErrHistory:
		return "history error"
	case ErrDevice:
		return "device error"
	case ErrSafety:
		return "safety error"
	}
	return fmt.Sprintf("error(%d)", int(k))
}

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg == "" {
			return e.Err.Error()
		}
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns a classified error with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError classifies err, prefixing msg. A nil err yields nil.
func WrapError(kind ErrorKind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the outermost classification in err's chain, ErrGeneral
// for an unclassified error and ErrNone for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrGeneral
}

func ExitCode(err error) int {
	return int(KindOf(err))
}
