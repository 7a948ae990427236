package graph

import (
	"errors"
	"fmt"
)

// Common loader errors.
var (
	// ErrNoSources is returned when no ontology file matches the patterns.
	ErrNoSources = errors.New("no ontology sources matched")

	// ErrUnsupportedFormat is returned for files that are neither YAML nor N-Triples.
	ErrUnsupportedFormat = errors.New("unsupported ontology format")
)

// LoadError reports that the static ontology could not be loaded. It is fatal
// and only occurs at startup.
type LoadError struct {
	// Path is the offending source, empty when no source matched.
	Path string

	// Line is the 1-based line number for line-oriented formats, 0 otherwise.
	Line int

	Err error
}

func (e *LoadError) Error() string {
	switch {
	case e.Path == "":
		return fmt.Sprintf("load ontology: %v", e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load ontology %s:%d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load ontology %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
