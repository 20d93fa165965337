package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JackZhangqj/rxstream/streams"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *mockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	a := m.Called(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	if ch, ok := a.Get(0).(chan amqp.Delivery); ok {
		return ch, a.Error(1)
	}
	return nil, a.Error(1)
}

func (m *mockChannel) Cancel(consumer string, noWait bool) error {
	args := m.Called(consumer, noWait)
	return args.Error(0)
}

type recordObserver struct {
	mu     sync.Mutex
	d      streams.Disposable
	values []amqp.Delivery
	errs   []error
}

func (r *recordObserver) OnSubscribe(d streams.Disposable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.d = d
}

func (r *recordObserver) OnSuccess(v amqp.Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recordObserver) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordObserver) Values() []amqp.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]amqp.Delivery, len(r.values))
	copy(out, r.values)
	return out
}

func (r *recordObserver) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func TestNewReplySource(t *testing.T) {
	t.Run("requires a channel", func(t *testing.T) {
		_, err := NewReplySource(nil, "orders.lookup")
		assert.Error(t, err)
	})

	t.Run("applies options", func(t *testing.T) {
		ch := &mockChannel{}
		src, err := NewReplySource(ch, "orders.lookup",
			WithExchange("rpc"),
			WithReplyQueue("custom.reply"),
			WithTimeout(5*time.Second),
		)
		require.NoError(t, err)
		assert.Equal(t, "rpc", src.exchange)
		assert.Equal(t, "custom.reply", src.replyQueue)
		assert.Equal(t, 5*time.Second, src.timeout)
	})
}

func TestReplySourceResolution(t *testing.T) {
	t.Run("resolves with the matching reply and ignores others", func(t *testing.T) {
		ch := &mockChannel{}
		deliveries := make(chan amqp.Delivery, 2)

		ch.On("Consume", "custom.reply", mock.AnythingOfType("string"), true, true, false, false, amqp.Table(nil)).
			Return(deliveries, nil)
		ch.On("PublishWithContext", mock.Anything, "", "orders.lookup", false, false, mock.AnythingOfType("amqp091.Publishing")).
			Run(func(args mock.Arguments) {
				pub := args.Get(5).(amqp.Publishing)
				deliveries <- amqp.Delivery{CorrelationId: "someone-else", Body: []byte("stale")}
				deliveries <- amqp.Delivery{CorrelationId: pub.CorrelationId, Body: []byte("ok")}
			}).
			Return(nil)
		ch.On("Cancel", mock.AnythingOfType("string"), false).Return(nil)

		src, err := NewReplySource(ch, "orders.lookup", WithReplyQueue("custom.reply"))
		require.NoError(t, err)

		obs := &recordObserver{}
		src.Request(amqp.Publishing{Body: []byte("req")}).Subscribe(obs)

		assert.Eventually(t, func() bool {
			return len(obs.Values()) == 1
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []byte("ok"), obs.Values()[0].Body)
		assert.Empty(t, obs.Errors())
	})

	t.Run("publish failure fails the single", func(t *testing.T) {
		ch := &mockChannel{}
		deliveries := make(chan amqp.Delivery)

		ch.On("Consume", mock.Anything, mock.Anything, true, true, false, false, amqp.Table(nil)).
			Return(deliveries, nil)
		ch.On("PublishWithContext", mock.Anything, "", "orders.lookup", false, false, mock.Anything).
			Return(errors.New("broker unavailable"))
		ch.On("Cancel", mock.AnythingOfType("string"), false).Return(nil)

		src, err := NewReplySource(ch, "orders.lookup")
		require.NoError(t, err)

		obs := &recordObserver{}
		src.Request(amqp.Publishing{}).Subscribe(obs)

		require.Len(t, obs.Errors(), 1)
		var uerr *streams.UpstreamError
		assert.ErrorAs(t, obs.Errors()[0], &uerr)
		assert.Empty(t, obs.Values())
	})

	t.Run("consume failure fails the single", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("Consume", mock.Anything, mock.Anything, true, true, false, false, amqp.Table(nil)).
			Return(nil, errors.New("queue missing"))

		src, err := NewReplySource(ch, "orders.lookup")
		require.NoError(t, err)

		obs := &recordObserver{}
		src.Request(amqp.Publishing{}).Subscribe(obs)

		require.Len(t, obs.Errors(), 1)
		var uerr *streams.UpstreamError
		assert.ErrorAs(t, obs.Errors()[0], &uerr)
	})

	t.Run("times out when no reply arrives", func(t *testing.T) {
		ch := &mockChannel{}
		deliveries := make(chan amqp.Delivery)

		ch.On("Consume", mock.Anything, mock.Anything, true, true, false, false, amqp.Table(nil)).
			Return(deliveries, nil)
		ch.On("PublishWithContext", mock.Anything, "", "orders.lookup", false, false, mock.Anything).
			Return(nil)
		ch.On("Cancel", mock.AnythingOfType("string"), false).Return(nil)

		src, err := NewReplySource(ch, "orders.lookup", WithTimeout(20*time.Millisecond))
		require.NoError(t, err)

		obs := &recordObserver{}
		src.Request(amqp.Publishing{}).Subscribe(obs)

		assert.Eventually(t, func() bool {
			return len(obs.Errors()) == 1
		}, time.Second, 5*time.Millisecond)
		assert.ErrorIs(t, obs.Errors()[0], context.DeadlineExceeded)
		assert.Empty(t, obs.Values())
	})

	t.Run("dispose abandons the exchange without resolving", func(t *testing.T) {
		ch := &mockChannel{}
		deliveries := make(chan amqp.Delivery, 1)

		ch.On("Consume", mock.Anything, mock.Anything, true, true, false, false, amqp.Table(nil)).
			Return(deliveries, nil)
		ch.On("PublishWithContext", mock.Anything, "", "orders.lookup", false, false, mock.Anything).
			Return(nil)
		ch.On("Cancel", mock.AnythingOfType("string"), false).Return(nil)

		src, err := NewReplySource(ch, "orders.lookup", WithTimeout(50*time.Millisecond))
		require.NoError(t, err)

		obs := &recordObserver{}
		src.Request(amqp.Publishing{}).Subscribe(obs)
		obs.d.Dispose()

		time.Sleep(100 * time.Millisecond)
		assert.Empty(t, obs.Values())
		assert.Empty(t, obs.Errors())
	})
}
