package docbind

import "fmt"

// Warning records a recoverable per-item problem encountered during a
// run: malformed frontmatter, a broken internal link, a missing
// image, a missing chapter source, an identity conflict. Warnings
// accumulate on the run result and never cross component boundaries
// as errors.
type Warning struct {
	// Code is one of the application error codes.
	Code string

	// Path is the source file the warning relates to, when known.
	Path string

	// Message is a human-readable description of the problem.
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %s", w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Path, w.Message)
}

// Warnf is a helper function to build a Warning with a formatted
// message.
func Warnf(code, path, format string, args ...any) Warning {
	return Warning{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}
