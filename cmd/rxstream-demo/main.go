// Command rxstream-demo flattens a single value into a stream of words
// and prints each delivered element.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/JackZhangqj/rxstream"
	"github.com/JackZhangqj/rxstream/streams"
)

type printSubscriber struct {
	logger *slog.Logger
}

func (p *printSubscriber) OnSubscribe(s streams.Subscription) {
	s.Request(streams.UnboundedRequest)
}

func (p *printSubscriber) OnNext(v string) {
	p.logger.Info("element", "value", v)
}

func (p *printSubscriber) OnError(err error) {
	p.logger.Error("stream failed", "error", err)
	os.Exit(1)
}

func (p *printSubscriber) OnComplete() {
	p.logger.Info("complete")
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	single := rxstream.Just("the quick brown fox jumps over the lazy dog")
	flow := rxstream.FlattenAsFlowable(single, func(s string) (streams.Iterator[string], error) {
		return streams.FromSlice(strings.Fields(s)), nil
	})

	flow.Subscribe(&printSubscriber{logger: logger})
}
