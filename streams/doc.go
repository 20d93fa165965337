// Package streams defines the contracts shared by every stage of an
// rxstream pipeline.
//
// This package contains interfaces and error types only:
//   - Subscription / FlowSubscriber: the demand-controlled push protocol
//   - SingleSource / SingleObserver / Disposable: the single-value
//     upstream protocol
//   - Iterator: a single forward pass over a finite sequence
//   - QueueSubscription / FusionMode: the negotiated pull protocol
//   - The error taxonomy delivered through terminal signals
//
// Demand semantics: a subscriber authorizes delivery by calling
// Request(n) with a strictly positive n. Demand accumulates and
// saturates; requesting UnboundedRequest switches the stream into
// unbounded mode, which is sticky. Cancel is idempotent and may be
// called from any goroutine; after it returns, the subscriber may still
// observe a small number of in-flight deliveries but no terminal signal.
//
// All implementations in this module are safe for concurrent use by the
// upstream resolver and the consumer, which may run on different
// goroutines.
package streams
