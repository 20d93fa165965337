package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JackZhangqj/rxstream/streams"
)

// ErrConsumerClosed indicates the reply consumer channel closed before a
// matching reply arrived.
var ErrConsumerClosed = errors.New("reply consumer channel closed")

// Channel is the subset of *amqp091.Channel the reply source needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
}

// ReplySource resolves AMQP request/reply exchanges as single-value
// sources.
type ReplySource struct {
	ch         Channel
	exchange   string
	routingKey string
	replyQueue string
	timeout    time.Duration
	logger     *slog.Logger
}

// ReplySourceOption configures a ReplySource.
type ReplySourceOption func(*ReplySource)

// WithExchange sets the exchange requests are published to. Defaults to
// the default exchange.
func WithExchange(exchange string) ReplySourceOption {
	return func(s *ReplySource) {
		s.exchange = exchange
	}
}

// WithReplyQueue sets a custom reply queue name.
func WithReplyQueue(name string) ReplySourceOption {
	return func(s *ReplySource) {
		s.replyQueue = name
	}
}

// WithTimeout sets how long a subscription waits for a reply before
// failing.
func WithTimeout(d time.Duration) ReplySourceOption {
	return func(s *ReplySource) {
		s.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ReplySourceOption {
	return func(s *ReplySource) {
		s.logger = logger
	}
}

// NewReplySource creates a reply source publishing to routingKey.
func NewReplySource(ch Channel, routingKey string, opts ...ReplySourceOption) (*ReplySource, error) {
	if ch == nil {
		return nil, fmt.Errorf("channel cannot be nil")
	}
	s := &ReplySource{
		ch:         ch,
		routingKey: routingKey,
		replyQueue: fmt.Sprintf("rxstream.reply.%s", uuid.New().String()[:8]),
		timeout:    30 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request returns a single-value source that performs the exchange for
// req when subscribed. Each subscription publishes its own request with
// a fresh correlation ID and resolves at most once.
func (s *ReplySource) Request(req amqp.Publishing) streams.SingleSource[amqp.Delivery] {
	return &requestSource{src: s, req: req}
}

type requestSource struct {
	src *ReplySource
	req amqp.Publishing
}

func (r *requestSource) Subscribe(o streams.SingleObserver[amqp.Delivery]) {
	src := r.src
	correlationID := uuid.New().String()
	consumerTag := "rxstream-" + correlationID

	ctx, cancel := context.WithTimeout(context.Background(), src.timeout)
	d := streams.NewDisposable(cancel)
	o.OnSubscribe(d)
	if d.IsDisposed() {
		cancel()
		return
	}

	deliveries, err := src.ch.Consume(src.replyQueue, consumerTag, true, true, false, false, nil)
	if err != nil {
		cancel()
		o.OnError(&streams.UpstreamError{Err: fmt.Errorf("consume %s: %w", src.replyQueue, err)})
		return
	}

	req := r.req
	req.CorrelationId = correlationID
	req.ReplyTo = src.replyQueue
	if err := src.ch.PublishWithContext(ctx, src.exchange, src.routingKey, false, false, req); err != nil {
		cancel()
		if cerr := src.ch.Cancel(consumerTag, false); cerr != nil {
			src.logger.Warn("failed to cancel reply consumer", "consumerTag", consumerTag, "error", cerr)
		}
		o.OnError(&streams.UpstreamError{Err: fmt.Errorf("publish %s: %w", src.routingKey, err)})
		return
	}

	go func() {
		defer cancel()
		defer func() {
			if cerr := src.ch.Cancel(consumerTag, false); cerr != nil {
				src.logger.Warn("failed to cancel reply consumer", "consumerTag", consumerTag, "error", cerr)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				if !d.IsDisposed() {
					o.OnError(&streams.UpstreamError{Err: ctx.Err()})
				}
				return
			case msg, ok := <-deliveries:
				if !ok {
					if !d.IsDisposed() {
						o.OnError(&streams.UpstreamError{Err: ErrConsumerClosed})
					}
					return
				}
				if msg.CorrelationId != correlationID {
					src.logger.Debug("discarding reply with unknown correlation id",
						"correlationId", msg.CorrelationId)
					continue
				}
				if d.IsDisposed() {
					return
				}
				o.OnSuccess(msg)
				return
			}
		}
	}()
}
