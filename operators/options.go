package operators

import (
	"log/slog"
	"reflect"

	"github.com/JackZhangqj/rxstream/internal/failure"
	"github.com/JackZhangqj/rxstream/streams"
)

// Option configures a FlattenIterable operator.
type Option[R any] func(*config[R])

type config[R any] struct {
	classifier failure.Classifier
	validate   func(R) error
	logger     *slog.Logger
}

// WithClassifier sets the policy deciding which panics recovered from
// the mapper or the sequence are fatal.
func WithClassifier[R any](c failure.Classifier) Option[R] {
	return func(cfg *config[R]) {
		cfg.classifier = c
	}
}

// WithElementValidator replaces the element validation applied before
// each emission. The returned error becomes the terminal error.
func WithElementValidator[R any](validate func(R) error) Option[R] {
	return func(cfg *config[R]) {
		cfg.validate = validate
	}
}

// WithLogger sets the logger used for protocol violations.
func WithLogger[R any](logger *slog.Logger) Option[R] {
	return func(cfg *config[R]) {
		cfg.logger = logger
	}
}

// ValidateElement is the default element validator: it rejects nil
// pointer, interface, map, slice, function and channel values with
// streams.ErrInvalidElement.
func ValidateElement[R any](v R) error {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return streams.ErrInvalidElement
		}
	}
	return nil
}
