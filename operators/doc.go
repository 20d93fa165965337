// Package operators implements the stream operators of rxstream.
//
// The central operator is FlattenIterable, which bridges a single-value
// asynchronous source into a demand-aware element stream: the resolved
// value is expanded through a mapping function into a finite sequence,
// and a lock-free drain engine serializes emission of that sequence to
// the subscriber while tolerating concurrent demand signals,
// cancellation, and negotiated pull-based (fused) delivery.
//
// Key properties:
//   - Non-blocking: all shared state is held in atomics; no operation
//     blocks the calling goroutine.
//   - Serialized emission: a work-in-progress counter admits exactly one
//     emitting goroutine at a time and folds concurrent triggers into
//     additional loop passes, so no trigger is ever lost.
//   - Exactly one terminal signal per subscription, unless cancellation
//     pre-empts it.
//
// Failure handling follows a two-way classification: errors and
// recoverable panics from the mapping function or the sequence are
// delivered as the single terminal error, while fatal panics are
// re-raised to the calling goroutine.
package operators
