package models

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler boundary
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("record not found")
)

// ValidationError describes a malformed input field; mapped to 400
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataIntegrityWarning flags a stored value that failed a consistency check
// during aggregation. It is carried alongside results, never raised as an
// error: aggregation proceeds on the stored value.
type DataIntegrityWarning struct {
	Table    string
	RecordID string
	Detail   string
}

func (w DataIntegrityWarning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Table, w.RecordID, w.Detail)
}
