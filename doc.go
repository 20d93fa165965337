// Package rxstream bridges single-value asynchronous sources into
// demand-aware element streams.
//
// The entry points are:
//   - Single: a source that resolves exactly once with a value or an
//     error, built with Just, Error, FromFunc or FromSource
//   - FlattenAsFlowable: expands a Single's value through a mapping
//     function into a Flowable, a demand-controlled stream of elements
//
// Example usage:
//
//	single := rxstream.Just("a b c")
//	flow := rxstream.FlattenAsFlowable(single,
//		func(s string) (streams.Iterator[string], error) {
//			return streams.FromSlice(strings.Fields(s)), nil
//		})
//	flow.Subscribe(subscriber) // subscriber drives delivery via Request
//
// The contracts implemented by sources and subscribers live in the
// streams package; the drain engine behind FlattenAsFlowable lives in
// the operators package.
package rxstream
