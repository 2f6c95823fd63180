package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLedgerEntry(t *testing.T) {
	before := testutil.ToFloat64(LedgerEntriesTotal.WithLabelValues("PURCHASE"))
	RecordLedgerEntry("PURCHASE")
	RecordLedgerEntry("PURCHASE")
	assert.Equal(t, before+2, testutil.ToFloat64(LedgerEntriesTotal.WithLabelValues("PURCHASE")))
}

func TestRecordSequenceRepair(t *testing.T) {
	before := testutil.ToFloat64(SequenceCollisionRepairsTotal)
	RecordSequenceRepair()
	assert.Equal(t, before+1, testutil.ToFloat64(SequenceCollisionRepairsTotal))
}

func TestRecordInvoiceTransition(t *testing.T) {
	before := testutil.ToFloat64(InvoiceTransitionsTotal.WithLabelValues("VOID"))
	RecordInvoiceTransition("VOID")
	assert.Equal(t, before+1, testutil.ToFloat64(InvoiceTransitionsTotal.WithLabelValues("VOID")))
}
