package lexgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/lexgen/registry"
)

// Issue codes reported by Generate.
const (
	CodeInvalidRef    = "invalid_ref"
	CodeNameCollision = "name_collision"
	CodeUnresolvedRef = "unresolved_ref"
)

var (
	// ErrNotADirectory is returned when the input path is not a directory.
	ErrNotADirectory = registry.ErrNotADirectory
	// ErrNameCollision wraps Issues for distinct definitions that map to the
	// same class name.
	ErrNameCollision = errors.New("class name collision")
	// ErrUnresolvedRef wraps Issues for references to definitions that are not
	// available in strict mode.
	ErrUnresolvedRef = errors.New("unresolved reference")
	// ErrInvalidRef wraps Issues for malformed reference strings.
	ErrInvalidRef = errors.New("invalid reference")
)

// Issue is a single generation problem.
type Issue struct {
	Path    string // Qualified location, e.g. com.example.foo#bar.field
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of generation problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unresolved_ref at com.example.foo#main.bar: ...
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }
