// Package failure classifies panics recovered from user-supplied code
// into recoverable errors and fatal conditions that must be re-raised.
package failure

import (
	"fmt"
	"runtime"
)

// Classifier decides how a recovered panic value is handled.
type Classifier interface {
	// Classify converts a recovered panic value into an error. The
	// second result is false when the condition is fatal: it must not
	// travel through a stream's error channel and is re-raised instead.
	Classify(recovered any) (error, bool)
}

// DefaultClassifier treats runtime errors (nil dereference, index out
// of range, out of memory) as fatal, since they indicate the execution
// environment itself is compromised. Panics carrying an error value are
// recoverable as-is; any other panic value is wrapped.
type DefaultClassifier struct{}

// Classify implements Classifier.
func (DefaultClassifier) Classify(recovered any) (error, bool) {
	switch v := recovered.(type) {
	case runtime.Error:
		return nil, false
	case error:
		return v, true
	default:
		return fmt.Errorf("panic: %v", v), true
	}
}

// Invoke runs fn, converting recoverable panics into returned errors.
// Fatal panics propagate to the caller.
func Invoke(c Classifier, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cerr, recoverable := c.Classify(r)
			if !recoverable {
				panic(r)
			}
			err = cerr
		}
	}()
	return fn()
}
