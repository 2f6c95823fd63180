package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// InvoiceDocumentKind is the leading tag of invoice numbers.
	InvoiceDocumentKind = "INV"

	sequenceSeparator = "-"
	sequencePadding   = 3
)

// DocumentPrefix builds the per-day prefix, e.g. INV-171026 for 17 Oct 2026.
func DocumentPrefix(kind string, t time.Time) string {
	return kind + sequenceSeparator + t.Format("020106")
}

// FormatDocumentNumber renders prefix-NNN. Values above 999 simply widen.
func FormatDocumentNumber(prefix string, value int64) string {
	return fmt.Sprintf("%s%s%0*d", prefix, sequenceSeparator, sequencePadding, value)
}

// ParseDocumentSuffix extracts the numeric suffix of a number issued under prefix.
func ParseDocumentSuffix(prefix, number string) (int64, bool) {
	rest, found := strings.CutPrefix(number, prefix+sequenceSeparator)
	if !found || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MaxDocumentSuffix returns the highest numeric suffix among numbers issued under prefix.
// Numbers that do not parse are ignored.
func MaxDocumentSuffix(prefix string, numbers []string) int64 {
	var maxValue int64
	for _, n := range numbers {
		if v, ok := ParseDocumentSuffix(prefix, n); ok && v > maxValue {
			maxValue = v
		}
	}
	return maxValue
}
