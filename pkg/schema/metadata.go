// Package schema derives column metadata for entity types. An entity is a
// struct whose fields carry `dart` tags describing how they map to table
// columns. Derivation runs exactly once per type and produces an immutable
// Metadata value: the resolved table name, the identity column, and one
// Column descriptor per tagged field with bound read/write accessors.
package schema

import (
	"reflect"
)

// Tabler overrides the table name of an entity type. Without it the
// table name is the struct type name.
type Tabler interface {
	TableName() string
}

// Metadata is the derived, read-only description of one entity type.
type Metadata struct {
	// Table is the resolved table name.
	Table string

	// ID is the identity column name.
	ID string

	columns map[string]*Column
	order   []string
}

// Column returns the descriptor registered under a column name.
func (m *Metadata) Column(name string) (*Column, bool) {
	c, ok := m.columns[name]
	return c, ok
}

// Identity returns the identity column's descriptor.
func (m *Metadata) Identity() *Column {
	return m.columns[m.ID]
}

// Columns returns all column names in field declaration order.
func (m *Metadata) Columns() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of columns.
func (m *Metadata) Len() int {
	return len(m.order)
}

// derive builds the Metadata for a struct type by walking its tagged
// fields. Every declaration problem is a DefinitionError naming the type.
func derive(t reflect.Type) (*Metadata, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	typeName := t.Name()
	if typeName == "" {
		typeName = t.String()
	}
	if t.Kind() != reflect.Struct {
		return nil, definitionErrorf(typeName, "entity type must be a struct, got %s", t.Kind())
	}

	meta := &Metadata{
		Table:   typeName,
		columns: make(map[string]*Column),
	}
	if tabler, ok := reflect.New(t).Interface().(Tabler); ok {
		meta.Table = tabler.TableName()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup(TagKey)
		if !ok {
			continue
		}

		opts, err := parseTag(tag)
		if err != nil {
			return nil, definitionErrorf(typeName, "field %q: %v", field.Name, err)
		}
		if !opts.isID && !opts.hasColumn {
			return nil, definitionErrorf(typeName, "field %q carries dart options but no column or id marker", field.Name)
		}
		if field.Type.Kind() == reflect.Func {
			return nil, definitionErrorf(typeName, "field %q is callable and cannot be mapped as a column", field.Name)
		}
		if !field.IsExported() {
			return nil, definitionErrorf(typeName, "column field %q must be exported", field.Name)
		}

		name := opts.columnName
		if name == "" {
			name = field.Name
		}
		if _, exists := meta.columns[name]; exists {
			return nil, definitionErrorf(typeName, "duplicate column name %q", name)
		}

		if opts.isID {
			if meta.ID != "" {
				return nil, definitionErrorf(typeName, "duplicate identity column %q (identity already declared on %q)", name, meta.ID)
			}
			meta.ID = name
		}
		if opts.auto {
			if !opts.isID {
				return nil, definitionErrorf(typeName, "column %q: auto-increment is only valid on the identity column", name)
			}
			if !isNumericKind(field.Type.Kind()) {
				return nil, definitionErrorf(typeName, "column %q: auto-increment requires a numeric field, got %s", name, field.Type)
			}
		}

		meta.columns[name] = &Column{
			Name:          name,
			Field:         field.Name,
			IsID:          opts.isID,
			NotNull:       !opts.nullable,
			AutoIncrement: opts.auto,
			MaxLength:     opts.maxLength,
			index:         field.Index,
		}
		meta.order = append(meta.order, name)
	}

	if len(meta.order) == 0 {
		return nil, definitionErrorf(typeName, "entity type declares no columns")
	}
	if meta.ID == "" {
		return nil, definitionErrorf(typeName, "entity type declares no identity column")
	}
	return meta, nil
}
