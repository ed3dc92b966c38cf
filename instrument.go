package datasetter

import (
	"context"
	"time"

	"github.com/hupe1980/datasetter/table"
)

type instrumented struct {
	ds      Dataset
	name    string
	logger  *Logger
	metrics MetricsCollector
}

// Instrument wraps ds so every query is timed, recorded to the configured
// MetricsCollector and logged. Results and errors pass through unchanged.
func Instrument(ds Dataset, optFns ...Option) Dataset {
	o := applyOptions(optFns)
	name := o.name
	if name == "" {
		name = ds.Metadata().Name
	}
	return &instrumented{
		ds:      ds,
		name:    name,
		logger:  o.logger.WithDataset(name),
		metrics: o.metricsCollector,
	}
}

func (d *instrumented) Metadata() Metadata {
	return d.ds.Metadata()
}

func (d *instrumented) Count(filters Filters) (int, error) {
	start := time.Now()
	n, err := d.ds.Count(filters)
	elapsed := time.Since(start)

	d.metrics.RecordCount(d.name, elapsed, err)
	d.logger.LogCount(context.Background(), filters, n, elapsed, err)
	return n, err
}

func (d *instrumented) CountBy(facet string, page Page, filters Filters) (Histogram, error) {
	start := time.Now()
	h, err := d.ds.CountBy(facet, page, filters)
	elapsed := time.Since(start)

	d.metrics.RecordCountBy(d.name, facet, elapsed, err)
	d.logger.LogCountBy(context.Background(), facet, page, filters, len(h), elapsed, err)
	return h, err
}

func (d *instrumented) Sample(page Page, filters Filters) ([]table.Record, error) {
	start := time.Now()
	rows, err := d.ds.Sample(page, filters)
	elapsed := time.Since(start)

	d.metrics.RecordSample(d.name, len(rows), elapsed, err)
	d.logger.LogSample(context.Background(), page, filters, len(rows), elapsed, err)
	return rows, err
}

// Schema forwards the wrapped dataset's schema so adapters can still coerce
// filter values.
func (d *instrumented) Schema() table.Schema {
	return SchemaOf(d.ds)
}
