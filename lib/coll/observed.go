package coll

import (
	"context"
	"errors"
	"iter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/tree"
	"github.com/benz9527/xcoll/lib/xlog"
)

const (
	observedMeterName     = "xcoll/coll"
	observedOpsCounter    = "xcoll.container.operations"
	observedErrorsCounter = "xcoll.container.failures"
)

type observedCfg struct {
	name   string
	mp     metric.MeterProvider
	logger xlog.XLogger
}

type ObservedOption func(*observedCfg)

// WithObservedName sets the "container" attribute of the recorded metrics.
func WithObservedName(name string) ObservedOption {
	return func(cfg *observedCfg) {
		cfg.name = name
	}
}

// WithObservedMeterProvider defaults to the otel global provider.
func WithObservedMeterProvider(mp metric.MeterProvider) ObservedOption {
	return func(cfg *observedCfg) {
		cfg.mp = mp
	}
}

// WithObservedLogger enables the failure logs. Capacity failures are
// logged with their error stack at error level, the other failures at
// debug level.
func WithObservedLogger(logger xlog.XLogger) ObservedOption {
	return func(cfg *observedCfg) {
		cfg.logger = logger
	}
}

type observer struct {
	container attribute.KeyValue
	name      string
	ops       metric.Int64Counter
	errs      metric.Int64Counter
	logger    xlog.XLogger
}

func newObserver(kind string, opts ...ObservedOption) (*observer, error) {
	cfg := &observedCfg{name: kind}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.mp == nil {
		cfg.mp = otel.GetMeterProvider()
	}

	meter := cfg.mp.Meter(observedMeterName)
	ops, err := meter.Int64Counter(
		observedOpsCounter,
		metric.WithDescription("The container operations."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	errs, err := meter.Int64Counter(
		observedErrorsCounter,
		metric.WithDescription("The container operations returned with an error."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return &observer{
		container: attribute.String("container", cfg.name),
		name:      cfg.name,
		ops:       ops,
		errs:      errs,
		logger:    cfg.logger,
	}, nil
}

func (o *observer) record(op string, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(o.container, attribute.String("op", op))
	o.ops.Add(ctx, 1, attrs)
	if err == nil {
		return
	}
	o.errs.Add(ctx, 1, attrs)

	if o.logger == nil {
		return
	}
	if errors.Is(err, infra.ErrCapacity) {
		o.logger.ErrorStack(err, "[coll] container capacity exhausted",
			zap.String("container", o.name),
			zap.String("op", op),
		)
		return
	}
	o.logger.Debug("[coll] container operation failed",
		zap.String("container", o.name),
		zap.String("op", op),
		zap.Error(err),
	)
}

var (
	_ OrderedContainer[uint8, struct{}] = (*observedOrderedContainer[uint8, struct{}])(nil)
	_ Sequence[struct{}]                = (*observedSequence[struct{}])(nil)
)

type observedOrderedContainer[K any, V any] struct {
	*observer
	impl OrderedContainer[K, V]
}

func (c *observedOrderedContainer[K, V]) Len() int64 { return c.impl.Len() }

func (c *observedOrderedContainer[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	err := c.impl.Insert(key, val, ifNotPresent...)
	c.record("insert", err)
	return err
}

func (c *observedOrderedContainer[K, V]) Remove(key K) (tree.RBNode[K, V], error) {
	node, err := c.impl.Remove(key)
	c.record("remove", err)
	return node, err
}

func (c *observedOrderedContainer[K, V]) Find(key K) (V, bool) {
	v, ok := c.impl.Find(key)
	c.record("find", nil)
	return v, ok
}

func (c *observedOrderedContainer[K, V]) Min() (K, error) {
	k, err := c.impl.Min()
	c.record("min", err)
	return k, err
}

func (c *observedOrderedContainer[K, V]) Max() (K, error) {
	k, err := c.impl.Max()
	c.record("max", err)
	return k, err
}

func (c *observedOrderedContainer[K, V]) Successor(key K) (K, bool, error) {
	k, ok, err := c.impl.Successor(key)
	c.record("successor", err)
	return k, ok, err
}

func (c *observedOrderedContainer[K, V]) Predecessor(key K) (K, bool, error) {
	k, ok, err := c.impl.Predecessor(key)
	c.record("predecessor", err)
	return k, ok, err
}

// Traverse records one operation per range over the returned sequence.
func (c *observedOrderedContainer[K, V]) Traverse() iter.Seq2[K, V] {
	seq := c.impl.Traverse()
	return func(yield func(K, V) bool) {
		c.record("traverse", nil)
		for k, v := range seq {
			if !yield(k, v) {
				return
			}
		}
	}
}

func NewObservedOrderedContainer[K any, V any](
	impl OrderedContainer[K, V],
	opts ...ObservedOption,
) (OrderedContainer[K, V], error) {
	if impl == nil {
		return nil, infra.NewErrorStack("[coll] nil ordered container")
	}
	o, err := newObserver("ordered", opts...)
	if err != nil {
		return nil, err
	}
	return &observedOrderedContainer[K, V]{observer: o, impl: impl}, nil
}

type observedSequence[T any] struct {
	*observer
	impl Sequence[T]
}

func (s *observedSequence[T]) Len() int { return s.impl.Len() }
func (s *observedSequence[T]) Cap() int { return s.impl.Cap() }

func (s *observedSequence[T]) PushBack(v T) error {
	err := s.impl.PushBack(v)
	s.record("push_back", err)
	return err
}

func (s *observedSequence[T]) PushFront(v T) error {
	err := s.impl.PushFront(v)
	s.record("push_front", err)
	return err
}

func (s *observedSequence[T]) PopBack() (T, error) {
	v, err := s.impl.PopBack()
	s.record("pop_back", err)
	return v, err
}

func (s *observedSequence[T]) PopFront() (T, error) {
	v, err := s.impl.PopFront()
	s.record("pop_front", err)
	return v, err
}

func (s *observedSequence[T]) At(i int) (T, error) {
	v, err := s.impl.At(i)
	s.record("at", err)
	return v, err
}

func NewObservedSequence[T any](impl Sequence[T], opts ...ObservedOption) (Sequence[T], error) {
	if impl == nil {
		return nil, infra.NewErrorStack("[coll] nil sequence")
	}
	o, err := newObserver("sequence", opts...)
	if err != nil {
		return nil, err
	}
	return &observedSequence[T]{observer: o, impl: impl}, nil
}
