package operators

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/JackZhangqj/rxstream/internal/backpressure"
	"github.com/JackZhangqj/rxstream/internal/failure"
	"github.com/JackZhangqj/rxstream/streams"
)

var errNilIterator = errors.New("mapper returned a nil iterator")

// FlattenIterable bridges a single-value source into a demand-aware
// stream of elements. The source's value is expanded through mapper
// exactly once; the resulting sequence is emitted to the subscriber as
// demand arrives.
type FlattenIterable[T, R any] struct {
	source streams.SingleSource[T]
	mapper func(T) (streams.Iterator[R], error)
	cfg    config[R]
}

// NewFlattenIterable creates the operator. The mapper must be a pure
// function producing a finite, possibly empty, single-pass sequence.
func NewFlattenIterable[T, R any](source streams.SingleSource[T], mapper func(T) (streams.Iterator[R], error), opts ...Option[R]) *FlattenIterable[T, R] {
	cfg := config[R]{
		classifier: failure.DefaultClassifier{},
		validate:   ValidateElement[R],
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FlattenIterable[T, R]{
		source: source,
		mapper: mapper,
		cfg:    cfg,
	}
}

// Subscribe registers s as the consumer and subscribes to the upstream
// source. The subscription handed to s also implements
// streams.QueueSubscription[R] for consumers that negotiate fusion.
func (f *FlattenIterable[T, R]) Subscribe(s streams.FlowSubscriber[R]) {
	f.source.Subscribe(&flattenSubscriber[T, R]{
		actual: s,
		mapper: f.mapper,
		cfg:    f.cfg,
	})
}

// cursorHolder wraps the iterator so the in-progress sequence can live
// behind an atomic pointer.
type cursorHolder[R any] struct {
	it streams.Iterator[R]
}

type upstreamHolder struct {
	d streams.Disposable
}

// flattenSubscriber is the drain engine shared by the push and fused
// paths. The wip counter is the sole mutual-exclusion mechanism for
// emission: the goroutine whose increment starts from zero owns the
// loop, and every other increment is observed by the owner as one more
// pass, so no trigger is lost.
type flattenSubscriber[T, R any] struct {
	actual streams.FlowSubscriber[R]
	mapper func(T) (streams.Iterator[R], error)
	cfg    config[R]

	requested atomic.Uint64
	wip       atomic.Int32
	cancelled atomic.Bool
	fused     atomic.Bool
	upstream  atomic.Pointer[upstreamHolder]
	cursor    atomic.Pointer[cursorHolder[R]]
}

var (
	_ streams.SingleObserver[any]    = (*flattenSubscriber[any, any])(nil)
	_ streams.QueueSubscription[any] = (*flattenSubscriber[any, any])(nil)
)

// OnSubscribe stores the upstream cancellation handle and registers the
// engine as the subscriber's demand target. A second registration is a
// protocol violation; the extra handle is disposed.
func (s *flattenSubscriber[T, R]) OnSubscribe(d streams.Disposable) {
	if !s.upstream.CompareAndSwap(nil, &upstreamHolder{d: d}) {
		s.cfg.logger.Warn("duplicate upstream registration disposed")
		d.Dispose()
		return
	}
	if s.cancelled.Load() {
		d.Dispose()
		return
	}
	s.actual.OnSubscribe(s)
}

// OnSuccess expands the resolved value into a sequence, installs the
// cursor and triggers the drain loop. An empty sequence completes
// immediately; a mapping failure becomes the terminal error and no
// cursor is ever installed.
func (s *flattenSubscriber[T, R]) OnSuccess(v T) {
	it, err := s.applyMapper(v)
	if err != nil {
		s.actual.OnError(err)
		return
	}
	has, err := s.hasNext(it)
	if err != nil {
		s.actual.OnError(err)
		return
	}
	if !has {
		s.actual.OnComplete()
		return
	}
	s.cursor.Store(&cursorHolder[R]{it: it})
	s.drain()
}

// OnError forwards the upstream failure as the sole terminal signal.
func (s *flattenSubscriber[T, R]) OnError(err error) {
	s.actual.OnError(err)
}

// Request adds demand and triggers the drain loop. Requesting
// streams.UnboundedRequest switches to the unbounded fast path.
func (s *flattenSubscriber[T, R]) Request(n int64) {
	if !streams.ValidateRequest(n) {
		s.cfg.logger.Warn("ignoring non-positive request", "n", n)
		return
	}
	backpressure.Add(&s.requested, requestAmount(n))
	s.drain()
}

func requestAmount(n int64) uint64 {
	if n == streams.UnboundedRequest {
		return backpressure.Unbounded
	}
	return uint64(n)
}

// Cancel is idempotent. It marks the engine cancelled and disposes the
// upstream handle; the drain loop observes the flag at its next
// safepoint and exits without a terminal signal.
func (s *flattenSubscriber[T, R]) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	if h := s.upstream.Load(); h != nil {
		h.d.Dispose()
	}
}

// drain is the shared trigger routine. The pre-increment value decides
// ownership: only the goroutine that moves wip from zero emits, all
// others return immediately knowing the owner will observe their
// increment and loop again.
func (s *flattenSubscriber[T, R]) drain() {
	if s.wip.Add(1) != 1 {
		return
	}

	a := s.actual
	cur := s.cursor.Load()

	if s.fused.Load() && cur != nil {
		// Fused consumers pull through Poll; push a single readiness
		// marker and finish the push side.
		var ready R
		a.OnNext(ready)
		a.OnComplete()
		return
	}

	missed := int32(1)
	for {
		if cur != nil {
			r := s.requested.Load()

			if r == backpressure.Unbounded {
				s.drainAll(a, cur.it)
				return
			}

			var e uint64
			for e != r {
				if s.cancelled.Load() {
					return
				}
				v, err := s.next(cur.it)
				if err != nil {
					a.OnError(err)
					return
				}
				a.OnNext(v)
				if s.cancelled.Load() {
					return
				}
				e++
				has, err := s.hasNext(cur.it)
				if err != nil {
					a.OnError(err)
					return
				}
				if !has {
					a.OnComplete()
					return
				}
			}
			if e != 0 {
				backpressure.Produced(&s.requested, e)
			}
		}

		missed = s.wip.Add(-missed)
		if missed == 0 {
			return
		}
		if cur == nil {
			cur = s.cursor.Load()
		}
	}
}

// drainAll is the unbounded fast path. Unbounded demand never
// decreases, so no demand bookkeeping is performed.
func (s *flattenSubscriber[T, R]) drainAll(a streams.FlowSubscriber[R], it streams.Iterator[R]) {
	for {
		if s.cancelled.Load() {
			return
		}
		v, err := s.next(it)
		if err != nil {
			a.OnError(err)
			return
		}
		a.OnNext(v)
		if s.cancelled.Load() {
			return
		}
		has, err := s.hasNext(it)
		if err != nil {
			a.OnError(err)
			return
		}
		if !has {
			a.OnComplete()
			return
		}
	}
}

// RequestFusion accepts asynchronous fusion only. The element count is
// not known until the upstream resolves, so synchronous fusion is
// always declined.
func (s *flattenSubscriber[T, R]) RequestFusion(mode streams.FusionMode) streams.FusionMode {
	if mode&streams.FusionAsync != 0 {
		s.fused.Store(true)
		return streams.FusionAsync
	}
	return streams.FusionNone
}

// Poll fetches the next element of the installed sequence, clearing the
// cursor once the sequence is exhausted.
func (s *flattenSubscriber[T, R]) Poll() (R, bool, error) {
	var zero R
	cur := s.cursor.Load()
	if cur == nil {
		return zero, false, nil
	}
	v, err := s.next(cur.it)
	if err != nil {
		return zero, false, err
	}
	has, err := s.hasNext(cur.it)
	if err != nil {
		return zero, false, err
	}
	if !has {
		s.cursor.Store(nil)
	}
	return v, true, nil
}

// IsEmpty reports whether no sequence element is currently available.
func (s *flattenSubscriber[T, R]) IsEmpty() bool {
	return s.cursor.Load() == nil
}

// Clear discards the remaining sequence without emitting it.
func (s *flattenSubscriber[T, R]) Clear() {
	s.cursor.Store(nil)
}

func (s *flattenSubscriber[T, R]) applyMapper(v T) (streams.Iterator[R], error) {
	var it streams.Iterator[R]
	err := failure.Invoke(s.cfg.classifier, func() error {
		var merr error
		it, merr = s.mapper(v)
		return merr
	})
	if err != nil {
		return nil, &streams.MapperError{Err: err}
	}
	if it == nil {
		return nil, &streams.MapperError{Err: errNilIterator}
	}
	return it, nil
}

func (s *flattenSubscriber[T, R]) hasNext(it streams.Iterator[R]) (bool, error) {
	var has bool
	err := failure.Invoke(s.cfg.classifier, func() error {
		var herr error
		has, herr = it.HasNext()
		return herr
	})
	if err != nil {
		return false, &streams.SequenceError{Op: "hasnext", Err: err}
	}
	return has, nil
}

func (s *flattenSubscriber[T, R]) next(it streams.Iterator[R]) (R, error) {
	var v R
	err := failure.Invoke(s.cfg.classifier, func() error {
		var nerr error
		v, nerr = it.Next()
		return nerr
	})
	if err != nil {
		var zero R
		return zero, &streams.SequenceError{Op: "next", Err: err}
	}
	if verr := s.cfg.validate(v); verr != nil {
		var zero R
		return zero, verr
	}
	return v, nil
}
