package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Mihail-K/Dart/pkg/value"
)

var valueType = reflect.TypeOf(value.Value{})

// Column describes one entity field mapped to one table column, together
// with the bound accessors used to move values across the boundary. All
// field access in the lifecycle engine goes through Read and Write; no
// other code touches entity fields directly.
type Column struct {
	// Name is the SQL-facing column name.
	Name string

	// Field is the source struct field name.
	Field string

	// IsID marks the identity (primary key) column.
	IsID bool

	// NotNull enforces a non-null value at read time. Defaults to true
	// unless the field carries the nullable marker.
	NotNull bool

	// AutoIncrement marks a database-generated numeric identity.
	AutoIncrement bool

	// MaxLength bounds length-bearing field types. Zero means unbounded.
	MaxLength int

	index []int
}

// Read extracts the field value from an entity instance as a Value,
// enforcing the declared constraints. A nil value in a not-null column
// (other than an auto-increment identity, which the database fills in)
// and a length-bearing value exceeding MaxLength are ConstraintErrors.
func (c *Column) Read(entity any) (value.Value, error) {
	fv, err := c.fieldValue(entity)
	if err != nil {
		return value.Null(), err
	}

	v, err := value.FromAny(fv.Interface())
	if err != nil {
		return value.Null(), fmt.Errorf("column %q: %w", c.Name, err)
	}

	if v.IsNull() && c.NotNull && !c.AutoIncrement {
		return value.Null(), &ConstraintError{Column: c.Name, Message: "null value in not-null column"}
	}
	if c.MaxLength > 0 && !v.IsNull() {
		if n, err := v.Len(); err == nil && n > c.MaxLength {
			return value.Null(), &ConstraintError{
				Column:  c.Name,
				Message: fmt.Sprintf("length %d exceeds maximum %d", n, c.MaxLength),
			}
		}
	}
	return v, nil
}

// Write coerces a Value to the field's declared type and assigns it.
// Fields typed as value.Value receive the Value unchanged.
func (c *Column) Write(entity any, v value.Value) error {
	fv, err := c.fieldValue(entity)
	if err != nil {
		return err
	}
	if err := assign(fv, v); err != nil {
		return fmt.Errorf("column %q: %w", c.Name, err)
	}
	return nil
}

func (c *Column) fieldValue(entity any) (reflect.Value, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("column %q: nil entity", c.Name)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("column %q: entity is not a struct", c.Name)
	}
	return rv.FieldByIndex(c.index), nil
}

// assign writes v into the addressable field fv, coercing between kinds
// where the declared field type requires it.
func assign(fv reflect.Value, v value.Value) error {
	if !fv.CanSet() {
		return fmt.Errorf("field is not settable")
	}

	// Generic fields take the tagged value as-is.
	if fv.Type() == valueType {
		fv.Set(reflect.ValueOf(v))
		return nil
	}

	if fv.Kind() == reflect.Pointer {
		if v.IsNull() {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		elem := reflect.New(fv.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	// Null into a non-pointer field resets it to the zero value.
	if v.IsNull() {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := v.AsInt()
		if err != nil {
			return err
		}
		if fv.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, fv.Type())
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := v.AsInt()
		if err != nil {
			return err
		}
		if n < 0 || fv.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, fv.Type())
		}
		fv.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := v.AsFloat()
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.String:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		fv.SetString(s)
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			raw, err := v.AsBytes()
			if err != nil {
				return err
			}
			fv.SetBytes(raw)
			return nil
		}
		return fmt.Errorf("cannot assign %s to %s", v.Kind(), fv.Type())
	case reflect.Struct:
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			t, err := v.AsTime()
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		}
		return fmt.Errorf("cannot assign %s to %s", v.Kind(), fv.Type())
	default:
		return fmt.Errorf("cannot assign %s to %s", v.Kind(), fv.Type())
	}
	return nil
}

// isNumericKind reports whether a field kind is valid for auto-increment.
func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
