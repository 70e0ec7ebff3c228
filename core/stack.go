package core

import (
	"runtime"
	"strconv"
	"strings"
)

const maxStackFrames = 32

// CaptureStackTrace formats the calling goroutine's stack, skipping skip
// frames above the caller of CaptureStackTrace. Runtime frames are left out.
func CaptureStackTrace(skip int) string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ErrorStackTrace prefixes a captured stack trace with the error text.
func ErrorStackTrace(err error, skip int) string {
	trace := CaptureStackTrace(skip + 1)
	if err == nil {
		return trace
	}
	return err.Error() + "\n" + trace
}
