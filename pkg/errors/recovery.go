package errors

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic converts a recovered panic value into a fatal app error
// carrying the stack trace.
func RecoverPanic(r interface{}) error {
	if r == nil {
		return nil
	}

	var err error
	switch v := r.(type) {
	case error:
		err = v
	case string:
		err = fmt.Errorf("panic: %s", v)
	default:
		err = fmt.Errorf("panic: %v", v)
	}

	stackTrace := string(debug.Stack())
	return ErrInternal.
		WithCause(err).
		WithDetail("panic", true).
		WithDetail("stack_trace", stackTrace).
		AsFatal()
}

// RecoverPanicWithCallback recovers from a panic and calls a callback with the error
func RecoverPanicWithCallback(r interface{}, callback func(error)) error {
	err := RecoverPanic(r)
	if err != nil && callback != nil {
		callback(err)
	}
	return err
}
