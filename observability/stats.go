package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xcoll/lib/infra"
)

const (
	statsMeterName      = "xcoll/observability"
	containerLengthName = "xcoll.container.length"
	containerCapName    = "xcoll.container.capacity"
)

// ContainerStats is sampled from the metric collection goroutine. The
// getters have to be safe to call concurrently with the container users,
// wrap the container by coll.NewSyncOrderedContainer or
// coll.NewSyncSequence if it is shared.
type ContainerStats struct {
	Name string
	Len  func() int64
	// Cap is optional.
	Cap func() int64
}

func OrderedStats(name string, c interface{ Len() int64 }) ContainerStats {
	return ContainerStats{
		Name: name,
		Len:  c.Len,
	}
}

func SequenceStats(name string, s interface {
	Len() int
	Cap() int
}) ContainerStats {
	return ContainerStats{
		Name: name,
		Len:  func() int64 { return int64(s.Len()) },
		Cap:  func() int64 { return int64(s.Cap()) },
	}
}

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(statsMeterName)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// RegisterContainerStats observes the length and the capacity of every
// container as gauges. The returned callback unregisters them.
func RegisterContainerStats(mp metric.MeterProvider, name string, stats ...ContainerStats) (func() error, error) {
	if mp == nil {
		return nil, infra.NewErrorStack("[observability] nil meter provider")
	}
	stats = lo.Filter(stats, func(s ContainerStats, _ int) bool {
		return s.Len != nil
	})

	meter := mp.Meter(
		meterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	length := lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		containerLengthName,
		metric.WithDescription("The number of elements stored in the container."),
		metric.WithUnit("{element}"),
	))
	capacity := lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		containerCapName,
		metric.WithDescription("The number of slots allocated by the container."),
		metric.WithUnit("{element}"),
	))

	reg, err := meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		for _, s := range stats {
			attrs := metric.WithAttributes(attribute.String("container", s.Name))
			ob.ObserveInt64(length, s.Len(), attrs)
			if s.Cap != nil {
				ob.ObserveInt64(capacity, s.Cap(), attrs)
			}
		}
		return nil
	}, length, capacity)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return reg.Unregister, nil
}

// InitRuntimeStats starts the otel go runtime metrics and the goroutines
// and processes gauges on mp.
func InitRuntimeStats(mp metric.MeterProvider, name string) error {
	if mp == nil {
		return infra.NewErrorStack("[observability] nil meter provider")
	}
	meter := mp.Meter(
		meterName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	))
	_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application processes' info.`),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(int64(runtime.GOMAXPROCS(0)))
			return nil
		}),
	))
	return otelruntime.Start(otelruntime.WithMeterProvider(mp))
}
