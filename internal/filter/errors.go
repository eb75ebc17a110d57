package filter

import "fmt"

// ValidationError reports a document or domain error raised during
// load, never during search (spec §4.3, "Validation failures"; spec
// §7, "Document errors" / "Domain errors"). Path is a human-readable
// pointer into the document, e.g. "must[2].antes".
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter: %s: %s", e.Path, e.Reason)
}

func errAt(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
