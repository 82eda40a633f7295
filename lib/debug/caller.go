package debug

import (
	"runtime"
	"strings"
)

// GetFullCallerName returns the package-qualified name of the calling function,
// e.g. "emis.(*Client).Forward". It is used to name tracing spans after the
// function that starts them.
func GetFullCallerName(skip ...int) string {
	skipFrames := 1
	if len(skip) > 0 {
		skipFrames = skip[0]
	}

	pc, _, _, ok := runtime.Caller(skipFrames)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}

	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i != -1 {
		name = name[i+1:]
	}
	return name
}
