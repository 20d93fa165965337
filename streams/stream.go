package streams

import "math"

// UnboundedRequest is the demand amount that switches a subscription into
// unbounded mode. Once granted, unbounded demand never decreases.
const UnboundedRequest int64 = math.MaxInt64

// Subscription lets a subscriber control the flow of elements from a
// publisher.
type Subscription interface {
	// Request authorizes delivery of up to n more elements. n must be
	// strictly positive; non-positive amounts are a protocol violation
	// and are ignored. Requesting UnboundedRequest removes the demand
	// limit entirely.
	Request(n int64)

	// Cancel stops delivery and releases upstream resources. Idempotent
	// and safe to call from any goroutine. No terminal signal follows a
	// cancellation.
	Cancel()
}

// FlowSubscriber receives a demand-controlled stream of elements.
//
// The publisher guarantees OnSubscribe is called at most once, before
// any other signal, and that exactly one of OnError or OnComplete
// terminates the stream unless the subscriber cancels first.
type FlowSubscriber[T any] interface {
	OnSubscribe(s Subscription)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// ValidateRequest reports whether n is a legal demand amount.
func ValidateRequest(n int64) bool {
	return n > 0
}
