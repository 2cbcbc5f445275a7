package otel

import (
	"context"
	"errors"
	"fmt"

	credstore "github.com/incidentmart/credstore"
	"github.com/incidentmart/credstore/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() credstore.MetricsSnapshot
	AuditDropped() uint64
}

// series pairs an Engine counter with the attribute set it is observed under.
type series struct {
	id   credstore.MetricID
	opts []metric.ObserveOption
}

type family struct {
	instrument metric.Int64ObservableCounter
	series     []series
}

// OTelExporter publishes an Engine snapshot through observable instruments.
// Each counter family is one instrument split by an "outcome" attribute.
// The latency histogram is a bucket gauge keyed by "le" plus a count gauge.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration

	families     []family
	bucket       metric.Int64ObservableGauge
	bucketOpts   [len(internaldefs.LatencyBounds)]metric.ObserveOption
	count        metric.Int64ObservableGauge
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers instruments on meter that read engine at collection time.
func NewOTelExporter(meter metric.Meter, engine *credstore.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:   source,
		families: make([]family, 0, len(internaldefs.Families)),
	}
	observables := make([]metric.Observable, 0, len(internaldefs.Families)+3)

	for _, def := range internaldefs.Families {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		f := family{instrument: ins, series: make([]series, 0, len(def.Series))}
		for _, s := range def.Series {
			var opts []metric.ObserveOption
			if s.Outcome != "" {
				opts = append(opts, metric.WithAttributes(attribute.String(internaldefs.OutcomeLabel, s.Outcome)))
			}
			f.series = append(f.series, series{id: s.ID, opts: opts})
		}
		e.families = append(e.families, f)
		observables = append(observables, ins)
	}

	bucketName := internaldefs.Latency.Name + "_bucket"
	bucket, err := meter.Int64ObservableGauge(bucketName, metric.WithDescription(internaldefs.Latency.Help))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", bucketName, err)
	}
	e.bucket = bucket
	for i, le := range internaldefs.LatencyBounds {
		e.bucketOpts[i] = metric.WithAttributes(attribute.String("le", le))
	}

	countName := internaldefs.Latency.Name + "_count"
	count, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Authenticate calls observed by the latency histogram."))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", countName, err)
	}
	e.count = count

	dropped, err := meter.Int64ObservableCounter(internaldefs.AuditDroppedName, metric.WithDescription(internaldefs.AuditDroppedHelp))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditDroppedName, err)
	}
	e.auditDropped = dropped
	observables = append(observables, bucket, count, dropped)

	registration, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

// observe skips engine counters and the histogram when the snapshot is empty,
// which is how a disabled metrics config presents itself.
func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()
	if len(snap.Counters) > 0 {
		for _, f := range e.families {
			for _, s := range f.series {
				o.ObserveInt64(f.instrument, int64(snap.Counters[s.id]), s.opts...)
			}
		}
	}
	if raw, ok := snap.Histograms[internaldefs.Latency.ID]; ok {
		cumulative := internaldefs.Cumulative(raw)
		for i, v := range cumulative {
			o.ObserveInt64(e.bucket, int64(v), e.bucketOpts[i])
		}
		o.ObserveInt64(e.count, int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback. Call it before Engine.Close so
// no collection reads a closed engine.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
