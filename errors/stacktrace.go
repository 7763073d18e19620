package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Format prints the error message and, when %+v is used, the stack trace of
// the innermost wrap with frames of this package trimmed off.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' || !s.Flag('+') {
		fmt.Fprint(s, e.Error())
		return
	}
	fmt.Fprint(s, e.Error())
	for _, f := range trimInternal(stackTrace(e)) {
		io.WriteString(s, "\n")
		writeFrame(s, f)
	}
}

func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && matchesFunc(st[0], wrapperFuncs...) {
		st = st[1:]
	}
	for len(st) > 0 && matchesFunc(st[len(st)-1], "runtime.") {
		st = st[:len(st)-1]
	}
	return st
}

// wrapperFuncs are the functions of this package that create a stack trace.
// They are never interesting to the reader.
var wrapperFuncs = []string{
	"github.com/iov-one/quorum/errors.Wrap",
	"github.com/iov-one/quorum/errors.Wrapf",
	"github.com/iov-one/quorum/errors.(*Error).New",
	"github.com/iov-one/quorum/errors.(*Error).Newf",
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	name := fn.Name()
	for _, p := range prefixes {
		if name == p || (strings.HasSuffix(p, ".") && strings.HasPrefix(name, p)) {
			return true
		}
	}
	return false
}

func writeFrame(w io.Writer, f errors.Frame) {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		io.WriteString(w, "unknown")
		return
	}
	file, line := fn.FileLine(uintptr(f) - 1)
	fmt.Fprintf(w, "%s\n\t%s:%d", fn.Name(), file, line)
}
