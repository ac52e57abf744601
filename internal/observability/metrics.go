package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

const (
	metricInsertsTotal     = "redblack.inserts"
	metricFixupCasesTotal  = "redblack.fixup.cases"
	metricBatchDuration    = "redblack.batch.duration.seconds"
	metricTreeHeight       = "redblack.tree.height"
	metricTreeBlackHeight  = "redblack.tree.black_height"
	metricValidationsTotal = "redblack.validations"

	attrOutcome = "outcome"
	attrCase    = "case"
	attrStatus  = "status"

	statusOK    = "ok"
	statusError = "error"
)

// batchBucketBoundaries covers 10µs to 10s: a batch is one bench round or one
// command's inserts.
var batchBucketBoundaries = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10}

// metricBuilder accumulates OTel instrument creation errors,
// enabling batch construction with a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) gauge(name, desc, unit string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return g
}

// setErr records the first instrument creation error.
func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// TreeMetrics records tree activity as OTel instruments. It implements
// rbtree.Observer, so it can be installed with rbtree.WithObserver.
type TreeMetrics struct {
	insertsTotal     metric.Int64Counter
	fixupCasesTotal  metric.Int64Counter
	batchDuration    metric.Float64Histogram
	treeHeight       metric.Int64Gauge
	treeBlackHeight  metric.Int64Gauge
	validationsTotal metric.Int64Counter

	// Attribute sets are built once: Observe* runs on every insert.
	outcomeAttrs map[rbtree.InsertOutcome]metric.MeasurementOption
	caseAttrs    map[rbtree.FixupCase]metric.MeasurementOption
}

// NewTreeMetrics creates tree metric instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	b := newMetricBuilder(mt)

	tm := &TreeMetrics{
		insertsTotal:     b.counter(metricInsertsTotal, "Total number of insert calls", "{insert}"),
		fixupCasesTotal:  b.counter(metricFixupCasesTotal, "Total number of fixup steps by case", "{step}"),
		batchDuration:    b.histogram(metricBatchDuration, "Duration of an insert batch", "s", batchBucketBoundaries...),
		treeHeight:       b.gauge(metricTreeHeight, "Height of the last validated tree", "{node}"),
		treeBlackHeight:  b.gauge(metricTreeBlackHeight, "Black height of the last validated tree", "{node}"),
		validationsTotal: b.counter(metricValidationsTotal, "Total number of tree validations", "{validation}"),
		outcomeAttrs:     make(map[rbtree.InsertOutcome]metric.MeasurementOption),
		caseAttrs:        make(map[rbtree.FixupCase]metric.MeasurementOption),
	}

	if b.err != nil {
		return nil, b.err
	}

	for _, outcome := range []rbtree.InsertOutcome{rbtree.Inserted, rbtree.Updated} {
		tm.outcomeAttrs[outcome] = metric.WithAttributes(attribute.String(attrOutcome, outcome.String()))
	}

	for _, fixupCase := range rbtree.FixupCases {
		tm.caseAttrs[fixupCase] = metric.WithAttributes(attribute.String(attrCase, fixupCase.String()))
	}

	return tm, nil
}

// ObserveInsert implements rbtree.Observer.
func (tm *TreeMetrics) ObserveInsert(outcome rbtree.InsertOutcome) {
	tm.insertsTotal.Add(context.Background(), 1, tm.outcomeAttrs[outcome])
}

// ObserveFixup implements rbtree.Observer.
func (tm *TreeMetrics) ObserveFixup(fixupCase rbtree.FixupCase) {
	tm.fixupCasesTotal.Add(context.Background(), 1, tm.caseAttrs[fixupCase])
}

// RecordBatch records the duration of a batch of inserts.
func (tm *TreeMetrics) RecordBatch(ctx context.Context, duration time.Duration) {
	tm.batchDuration.Record(ctx, duration.Seconds())
}

// RecordValidation records the outcome of Tree.Validate.
func (tm *TreeMetrics) RecordValidation(ctx context.Context, stats rbtree.Stats, err error) {
	if err != nil {
		tm.validationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, statusError)))

		return
	}

	tm.validationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, statusOK)))
	tm.treeHeight.Record(ctx, int64(stats.Height))
	tm.treeBlackHeight.Record(ctx, int64(stats.BlackHeight))
}
