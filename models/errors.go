package models

import "errors"

var (
	// ErrDuplicateLabel A label type text collides with an existing one in
	// the same project and kind.
	ErrDuplicateLabel = errors.New("label type with this text already exists")

	// ErrMalformedInput A bulk import payload is not a parseable sequence
	// of label records, or a record fails validation.
	ErrMalformedInput = errors.New("malformed label import payload")

	// ErrNotAdmissible An annotation was rejected by the admissibility
	// rules. This is a normal outcome, not a failure.
	ErrNotAdmissible = errors.New("annotation is not admissible")

	// ErrNotFound The requested record does not exist in the current scope.
	ErrNotFound = errors.New("record not found")
)
