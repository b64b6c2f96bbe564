package xpanic

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
)

// maximum depth of the stack trace.
const maxDepth = 32

// PrintStackTrace is used to print stack trace to a io.Writer,
// skip is the number of stack frames to skip before recording.
func PrintStackTrace(w io.Writer, skip int) {
	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return
	}
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(w, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			return
		}
	}
}

// Print is used to print panic and stack trace to a buffer.
func Print(panic interface{}, src string) *bytes.Buffer {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	_, _ = fmt.Fprintf(buf, "%s panic:\n%v\n\n", src, panic)
	PrintStackTrace(buf, 3)
	return buf
}

// Printf is used to print panic and stack trace to a buffer with format.
func Printf(panic interface{}, format string, v ...interface{}) *bytes.Buffer {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	src := fmt.Sprintf(format, v...)
	_, _ = fmt.Fprintf(buf, "%s panic:\n%v\n\n", src, panic)
	PrintStackTrace(buf, 3)
	return buf
}

// Error is used to create an error with panic and stack trace.
func Error(panic interface{}, src string) error {
	return fmt.Errorf("%s", Print(panic, src))
}
