package bot

import "errors"

// ErrConfiguration is the Cause of every error returned by ConfigError
var ErrConfiguration = errors.New("configuration error")

type Error struct {
	Func   string
	Action string
	Err    string
	Cause  error
}

func (e *Error) Error() string {
	return "bot." + e.Func + ":\n    error with: " + e.Action + "\n    because: " + e.Err
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func GenericSyntaxError(fn, input, reason string) *Error {
	return &Error{Func: fn, Action: "parsing \"" + input + "\"", Err: reason}
}

func SyntaxError(fn, input string) *Error {
	return GenericSyntaxError(fn, input, "invalid syntax")
}

func GenericError(fn, action, err string) *Error {
	return &Error{Func: fn, Action: action, Err: err}
}

// ConfigError is a GenericError that matches errors.Is(err, ErrConfiguration).
// These are fatal to the operation in progress and should reach an operator.
func ConfigError(fn, action, err string) *Error {
	return &Error{Func: fn, Action: action, Err: err, Cause: ErrConfiguration}
}
