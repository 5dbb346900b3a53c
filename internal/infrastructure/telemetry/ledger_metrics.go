package telemetry

import (
	"context"

	"github.com/google/uuid"
	appfinance "github.com/pethotel/backend/internal/application/finance"
	appscheduling "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMeterName is the instrumentation scope of the ledger instruments
const LedgerMeterName = "pethotel/ledger"

// Currency buckets in reais
var amountBuckets = []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// LedgerMetrics records reconciliation, posting and credit activity as
// OpenTelemetry instruments
type LedgerMetrics struct {
	linksCreated        *Counter
	linksReversed       *Counter
	linkAmount          *Histogram
	invoicesSettled     *Counter
	expensesPosted      *Counter
	expenseAmount       *Histogram
	sweepRepairs        *Counter
	integrityViolations *Counter
	creditsGenerated    *Counter
}

// NewLedgerMetrics creates the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	counters := []struct {
		dst         **Counter
		name, descr string
	}{
		{&m.linksCreated, "ledger.links.created", "Transaction links created"},
		{&m.linksReversed, "ledger.links.reversed", "Transaction links removed"},
		{&m.invoicesSettled, "ledger.invoices.settled", "Invoices that reached settled"},
		{&m.expensesPosted, "ledger.expenses.posted", "Expenses written for settled invoices"},
		{&m.sweepRepairs, "ledger.sweep.repairs", "Postings completed by the recovery sweep"},
		{&m.integrityViolations, "ledger.integrity.violations", "Transactions whose running total disagrees with their links"},
		{&m.creditsGenerated, "scheduling.credits.generated", "Replacement credits generated"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.descr, "{count}")
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	if m.linkAmount, err = NewHistogram(meter, HistogramOpts{
		Name: "ledger.links.amount", Description: "Amount applied per link", Unit: "BRL", Boundaries: amountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.expenseAmount, err = NewHistogram(meter, HistogramOpts{
		Name: "ledger.expenses.amount", Description: "Amount paid per posted expense", Unit: "BRL", Boundaries: amountBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LedgerMetrics) RecordLinkCreated(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	m.linksCreated.Inc(ctx, AttrTenantID.String(tenantID.String()))
	m.linkAmount.Record(ctx, amount.InexactFloat64(), AttrTenantID.String(tenantID.String()))
}

func (m *LedgerMetrics) RecordLinkReversed(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	m.linksReversed.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

func (m *LedgerMetrics) RecordInvoiceSettled(ctx context.Context, tenantID uuid.UUID) {
	m.invoicesSettled.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordExpensePosted counts the posting; recovered postings also count
// as sweep repairs
func (m *LedgerMetrics) RecordExpensePosted(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, recovered bool) {
	tenant := AttrTenantID.String(tenantID.String())
	m.expensesPosted.Inc(ctx, tenant, AttrRecovered.Bool(recovered))
	m.expenseAmount.Record(ctx, amount.InexactFloat64(), tenant)
	if recovered {
		m.sweepRepairs.Inc(ctx, tenant)
	}
}

func (m *LedgerMetrics) RecordIntegrityViolations(ctx context.Context, count int) {
	if count > 0 {
		m.integrityViolations.Add(ctx, int64(count))
	}
}

func (m *LedgerMetrics) RecordCreditsGenerated(ctx context.Context, tenantID uuid.UUID, count int) {
	m.creditsGenerated.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

var (
	_ appfinance.LedgerMetrics    = (*LedgerMetrics)(nil)
	_ appscheduling.CreditMetrics = (*LedgerMetrics)(nil)
)
