package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentPrefix(t *testing.T) {
	ts := time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "INV-020126", DocumentPrefix(InvoiceDocumentKind, ts))
}

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "INV-020126-001", FormatDocumentNumber("INV-020126", 1))
	assert.Equal(t, "INV-020126-042", FormatDocumentNumber("INV-020126", 42))
	assert.Equal(t, "INV-020126-1000", FormatDocumentNumber("INV-020126", 1000))
}

func TestParseDocumentSuffix(t *testing.T) {
	v, ok := ParseDocumentSuffix("INV-020126", "INV-020126-005")
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)

	_, ok = ParseDocumentSuffix("INV-020126", "INV-030126-005")
	assert.False(t, ok)
	_, ok = ParseDocumentSuffix("INV-020126", "INV-020126-00A")
	assert.False(t, ok)
	_, ok = ParseDocumentSuffix("INV-020126", "INV-020126-")
	assert.False(t, ok)
}

func TestMaxDocumentSuffix(t *testing.T) {
	numbers := []string{"P-001", "P-005", "P-003", "P-manual", "Q-009"}
	assert.Equal(t, int64(5), MaxDocumentSuffix("P", numbers))
	assert.Equal(t, int64(0), MaxDocumentSuffix("P", nil))
}
