package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
)

var (
	// ErrRoutingRootUnavailable means no route catalog can be built; the run aborts.
	ErrRoutingRootUnavailable = errors.New("routing root unavailable")
	// ErrFileTooLarge is returned for files above the configured size ceiling.
	ErrFileTooLarge = errors.New("file exceeds size ceiling")
)

// New creates a new instance of the base error
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Wrap creates a new error of the wrapped error
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

// Is checks if the error is equal to the target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As returns the wrapped error
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

// Cause is the one-line reason behind err, without wrap messages or caller locations.
// It is what audit warnings show to the user.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	for _, sentinel := range []error{ErrFileTooLarge, ErrRoutingRootUnavailable} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " at "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), ":")
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
