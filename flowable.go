package rxstream

import (
	"github.com/JackZhangqj/rxstream/operators"
	"github.com/JackZhangqj/rxstream/streams"
)

// Flowable is a demand-controlled stream of elements.
type Flowable[T any] struct {
	subscribe func(streams.FlowSubscriber[T])
}

// Subscribe registers s as the stream's consumer. Delivery starts once s
// issues demand through the Subscription it receives in OnSubscribe.
func (f Flowable[T]) Subscribe(s streams.FlowSubscriber[T]) {
	f.subscribe(s)
}

// FlattenAsFlowable expands the value resolved by s through mapper into
// a Flowable. The mapper runs exactly once; its sequence is emitted in
// order as the subscriber requests elements. Subscribers may negotiate
// pull-based delivery through streams.QueueSubscription.
func FlattenAsFlowable[T, R any](s Single[T], mapper func(T) (streams.Iterator[R], error), opts ...operators.Option[R]) Flowable[R] {
	op := operators.NewFlattenIterable(s.source, mapper, opts...)
	return Flowable[R]{subscribe: op.Subscribe}
}
