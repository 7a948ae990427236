package assessment

import "errors"

var (
	// ErrNoOntology is returned when a Reasoner is built without an ontology.
	ErrNoOntology = errors.New("ontology is required")

	// ErrNoCatalog is returned when a Reasoner is built without a rule catalog.
	ErrNoCatalog = errors.New("rule catalog is required")

	// ErrInvalidSubmission wraps submission validation failures.
	ErrInvalidSubmission = errors.New("invalid submission")
)
