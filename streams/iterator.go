package streams

// Iterator is a single forward pass over a finite sequence of elements.
//
// Implementations must never report more elements than they can fetch:
// after HasNext returns true, the following Next must succeed unless the
// underlying fetch itself fails. Iterators are consumed by one
// goroutine at a time; they do not need to be safe for concurrent use.
type Iterator[T any] interface {
	// HasNext reports whether another element can be fetched.
	HasNext() (bool, error)
	// Next fetches the next element. Calling Next after HasNext
	// reported false returns ErrIteratorExhausted.
	Next() (T, error)
}

type sliceIterator[T any] struct {
	items []T
	pos   int
}

// FromSlice returns an Iterator over the given slice.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}

func (it *sliceIterator[T]) HasNext() (bool, error) {
	return it.pos < len(it.items), nil
}

func (it *sliceIterator[T]) Next() (T, error) {
	if it.pos >= len(it.items) {
		var zero T
		return zero, ErrIteratorExhausted
	}
	v := it.items[it.pos]
	it.pos++
	return v, nil
}
