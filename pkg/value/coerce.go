package value

import (
	"fmt"
	"strconv"
	"time"
)

// AsInt coerces the Value to int64. Ints pass through, floats truncate,
// bools map to 0/1, and strings parse in base 10. Null does not coerce.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer: %w", v.s, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot coerce %s to int", v.kind)
	}
}

// AsFloat coerces the Value to float64. Ints widen, strings parse.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float: %w", v.s, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot coerce %s to float", v.kind)
	}
}

// AsString coerces the Value to a string. Numerics and bools format
// with strconv, bytes convert directly.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindBytes:
		return string(v.raw), nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	default:
		return "", fmt.Errorf("cannot coerce %s to string", v.kind)
	}
}

// AsBool coerces the Value to a boolean. Ints map non-zero to true,
// strings parse via strconv.ParseBool.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindString:
		b, err := strconv.ParseBool(v.s)
		if err != nil {
			return false, fmt.Errorf("cannot parse %q as bool: %w", v.s, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot coerce %s to bool", v.kind)
	}
}

// AsBytes coerces the Value to a byte slice. Strings convert directly.
func (v Value) AsBytes() ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return v.raw, nil
	case KindString:
		return []byte(v.s), nil
	default:
		return nil, fmt.Errorf("cannot coerce %s to bytes", v.kind)
	}
}

// AsTime coerces the Value to a timestamp. Strings parse as RFC 3339,
// ints are treated as Unix seconds.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindTime:
		return v.t, nil
	case KindString:
		t, err := time.Parse(time.RFC3339, v.s)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse %q as time: %w", v.s, err)
		}
		return t, nil
	case KindInt:
		return time.Unix(v.i, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cannot coerce %s to time", v.kind)
	}
}
