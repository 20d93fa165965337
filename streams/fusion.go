package streams

// FusionMode is a bitmask describing the pull-based delivery modes a
// subscriber can negotiate with a publisher before the first element is
// emitted.
type FusionMode int

const (
	// FusionNone declines fusion; elements are pushed.
	FusionNone FusionMode = 0
	// FusionSync requests synchronous fusion: the full sequence is
	// known up front and can be pulled without a readiness signal.
	FusionSync FusionMode = 1
	// FusionAsync requests asynchronous fusion: the publisher signals
	// readiness, then the subscriber pulls through Poll.
	FusionAsync FusionMode = 2
	// FusionAny accepts whichever fusion mode the publisher supports.
	FusionAny = FusionSync | FusionAsync
	// FusionBoundary marks the request as crossing an asynchronous
	// boundary, restricting which publishers may accept it.
	FusionBoundary FusionMode = 4
)

// QueueSubscription extends Subscription with the negotiated pull
// protocol.
//
// A subscriber that wants to pull calls RequestFusion before issuing any
// demand. If the publisher accepts FusionAsync, its push-side duty is
// reduced to a single readiness marker: one zero-value OnNext followed
// by OnComplete once elements become available. Actual elements are then
// fetched through Poll.
type QueueSubscription[T any] interface {
	Subscription

	// RequestFusion negotiates a fusion mode. The result is the mode
	// the publisher accepted, or FusionNone.
	RequestFusion(mode FusionMode) FusionMode

	// Poll fetches the next element. The second result is false when no
	// element is currently available. A non-nil error carries a fetch
	// failure or an invalid-element violation.
	Poll() (T, bool, error)

	// IsEmpty reports whether no element is currently available.
	IsEmpty() bool

	// Clear discards any remaining elements without emitting them.
	Clear()
}
