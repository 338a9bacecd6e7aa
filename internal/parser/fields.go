package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// fields gives positional access to a segment's elements. Position 0 is the
// tag, so positions match X12 element numbering (PO1-07 is get(7)).
type fields []string

// get returns the trimmed element at i, or def when i is out of range or
// the element is empty.
func (f fields) get(i int, def string) string {
	if i < 0 || i >= len(f) {
		return def
	}
	v := strings.TrimSpace(f[i])
	if v == "" {
		return def
	}
	return v
}

// lenientFloat coerces an optional numeric element. Empty or unparseable
// values become 0.
func lenientFloat(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// requiredInt parses a line number. An absent value is 0; anything present
// that is not an integer fails the segment.
func requiredInt(name, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, s)
	}
	return n, nil
}

// formatDate rewrites an 8-digit YYYYMMDD date as YYYY-MM-DD. Anything else
// is returned unchanged.
func formatDate(raw string) string {
	if len(raw) != 8 || !allDigits(raw) {
		return raw
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

// formatISADate expands the ISA's six-digit YYMMDD date. The interchange
// header has no century field; X12 envelopes in use are all 20xx.
func formatISADate(raw string) string {
	if len(raw) == 6 && allDigits(raw) {
		return "20" + raw[0:2] + "-" + raw[2:4] + "-" + raw[4:6]
	}
	return formatDate(raw)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
