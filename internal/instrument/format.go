package instrument

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatArgs renders positional arguments the way they are logged to the
// inputs list: a parenthesized, comma-separated list. Strings are quoted with
// Go syntax, byte slices are shown as []byte("..."), everything else uses %v.
//
//	FormatArgs([]any{"foo", 12}) // ("foo", 12)
func FormatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatArg(arg)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatArg(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case []byte:
		return "[]byte(" + strconv.Quote(string(val)) + ")"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatResult renders a return value the way it is logged to the outputs
// list. Strings and byte slices are written verbatim; everything else uses %v.
func FormatResult(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
