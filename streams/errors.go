package streams

import "errors"

// ErrInvalidElement is delivered as a terminal error when a sequence
// produces an element the protocol forbids, such as a nil pointer or nil
// interface value.
var ErrInvalidElement = errors.New("sequence produced an invalid element")

// ErrIteratorExhausted is returned by Next when the iterator has no
// further elements.
var ErrIteratorExhausted = errors.New("iterator exhausted")

// MapperError wraps a failure raised by a user-supplied mapping
// function.
type MapperError struct {
	Err error
}

func (e *MapperError) Error() string {
	return "mapper failed: " + e.Err.Error()
}

func (e *MapperError) Unwrap() error {
	return e.Err
}

// SequenceError wraps a failure raised while fetching from a sequence.
// Op is the operation that failed, "next" or "hasnext".
type SequenceError struct {
	Op  string
	Err error
}

func (e *SequenceError) Error() string {
	return "sequence " + e.Op + " failed: " + e.Err.Error()
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failure produced by a single-value source
// itself, as opposed to the mapping stage.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "upstream failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
