package schema

import "fmt"

// DefinitionError reports an invalid entity declaration. It is raised
// during metadata derivation, before any database operation can run, and
// is fatal to using the offending type.
type DefinitionError struct {
	// Type is the entity type name the definition belongs to.
	Type string

	// Message describes the violation.
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid entity definition %s: %s", e.Type, e.Message)
}

func definitionErrorf(typeName, format string, args ...any) error {
	return &DefinitionError{Type: typeName, Message: fmt.Sprintf(format, args...)}
}

// ConstraintError reports a declared column constraint violated by an
// entity instance at read time (a null value in a not-null column, or a
// value exceeding the column's max length).
type ConstraintError struct {
	// Column is the SQL-facing column name.
	Column string

	// Message describes the violation.
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation on column %q: %s", e.Column, e.Message)
}
