// backend/src/parsers/fields.go
package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted in ledger files, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
}

// parseDate parses a ledger date. An unparseable date is an input fault and
// rejects the row, unlike numeric fields which coerce to zero.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// coerceFloat converts a numeric ledger field, coercing blanks and garbage
// to 0 rather than rejecting the row.
func coerceFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceOptionalInt parses an optional integer reference field, returning
// nil when absent or unparseable.
func coerceOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Tolerate "3.0" style values from spreadsheet exports.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nil
		}
		v = int(f)
	}
	return &v
}
