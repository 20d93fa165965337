package streams

import "sync/atomic"

// Disposable is a handle to an in-flight upstream operation.
type Disposable interface {
	// Dispose cancels the operation. Idempotent.
	Dispose()
	// IsDisposed reports whether Dispose has been called.
	IsDisposed() bool
}

// SingleObserver receives the outcome of a single-value source: exactly
// one OnSuccess or one OnError, never both, preceded by OnSubscribe.
type SingleObserver[T any] interface {
	OnSubscribe(d Disposable)
	OnSuccess(v T)
	OnError(err error)
}

// SingleSource resolves exactly once with a value or a failure.
type SingleSource[T any] interface {
	Subscribe(o SingleObserver[T])
}

// BooleanDisposable is a dispose-once flag with an optional teardown
// callback, safe for concurrent use.
type BooleanDisposable struct {
	disposed  atomic.Bool
	onDispose func()
}

// NewDisposable creates a BooleanDisposable. onDispose may be nil; when
// set it runs exactly once, on the goroutine that wins Dispose.
func NewDisposable(onDispose func()) *BooleanDisposable {
	return &BooleanDisposable{onDispose: onDispose}
}

// Dispose implements Disposable.
func (d *BooleanDisposable) Dispose() {
	if d.disposed.CompareAndSwap(false, true) && d.onDispose != nil {
		d.onDispose()
	}
}

// IsDisposed implements Disposable.
func (d *BooleanDisposable) IsDisposed() bool {
	return d.disposed.Load()
}
