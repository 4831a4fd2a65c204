package record

import "fmt"

// RecordError reports an operation-time failure: a missing connection, a
// constraint violated at the field boundary, or an operation that
// returned or affected zero rows. Absence is always reported this way,
// never as an empty success.
type RecordError struct {
	// Op is the failing operation ("get", "find", "create", "save", "remove").
	Op string

	// Table is the entity's table name.
	Table string

	// Message describes the failure.
	Message string

	// OpID correlates the error with the statement traces logged for
	// the same operation.
	OpID string

	// Err is the underlying cause, if any.
	Err error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Table, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.OpID != "" {
		msg = fmt.Sprintf("%s (op %s)", msg, e.OpID)
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *RecordError) Unwrap() error {
	return e.Err
}
