package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag key holding column markers.
const TagKey = "dart"

// tagOptions holds the parsed markers of one `dart` struct tag.
type tagOptions struct {
	isID       bool
	hasColumn  bool
	columnName string
	nullable   bool
	auto       bool
	maxLength  int
}

// parseTag parses a comma-separated `dart` tag value. Recognized options:
//
//	id              identity marker (implies column)
//	column          column marker, name defaults to the field name
//	column=name     column marker with explicit name
//	nullable        relax not-null enforcement
//	auto            auto-increment (numeric identity columns only)
//	maxLength=N     length bound for length-bearing field types
//
// Unknown options are rejected so that a typo never silently drops a
// constraint.
func parseTag(tag string) (tagOptions, error) {
	var opts tagOptions
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, arg, hasArg := strings.Cut(part, "=")
		switch key {
		case "id":
			opts.isID = true
		case "column":
			opts.hasColumn = true
			if hasArg {
				if arg == "" {
					return opts, fmt.Errorf("column option has an empty name")
				}
				opts.columnName = arg
			}
		case "nullable":
			opts.nullable = true
		case "auto":
			opts.auto = true
		case "maxLength":
			if !hasArg {
				return opts, fmt.Errorf("maxLength option requires a value")
			}
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return opts, fmt.Errorf("maxLength option requires a positive integer, got %q", arg)
			}
			opts.maxLength = n
		default:
			return opts, fmt.Errorf("unknown tag option %q", key)
		}
	}
	return opts, nil
}
