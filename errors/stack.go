package errors

import (
	"fmt"
	"runtime"
)

const stackTraceSize = 10

// StackFrame is a single entry in a stack trace.
type StackFrame struct {
	Func string
	File string
	Line int
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack trace recorded when err was first wrapped,
// or nil if err was never wrapped by this package.
func Stack(err error) []StackFrame {
	if w, ok := err.(wrapperError); ok {
		return w.stack
	}
	return nil
}

// getStack returns at most size frames, skipping skip frames above
// its caller.
func getStack(skip int, size int) []StackFrame {
	pc := make([]uintptr, size)
	n := runtime.Callers(skip+1, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	var trace []StackFrame
	for {
		f, more := frames.Next()
		trace = append(trace, StackFrame{Func: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return trace
}
