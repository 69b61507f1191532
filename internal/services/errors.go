package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all services. Handlers map these onto HTTP
// status codes; everything else surfaces as a 500.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidStatus = errors.New("invalid document status")
)

// ValidationError reports a rejected field before anything is committed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
