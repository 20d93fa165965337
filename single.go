// Copyright 2025 Rxstream Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rxstream

import "github.com/JackZhangqj/rxstream/streams"

// Single is a source that resolves exactly once with a value or a
// failure.
type Single[T any] struct {
	source streams.SingleSource[T]
}

// FromSource wraps an existing SingleSource.
func FromSource[T any](source streams.SingleSource[T]) Single[T] {
	return Single[T]{source: source}
}

// Just returns a Single that resolves with v on subscription.
func Just[T any](v T) Single[T] {
	return FromSource[T](sourceFunc[T](func(o streams.SingleObserver[T]) {
		d := streams.NewDisposable(nil)
		o.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		o.OnSuccess(v)
	}))
}

// Error returns a Single that fails with err on subscription.
func Error[T any](err error) Single[T] {
	return FromSource[T](sourceFunc[T](func(o streams.SingleObserver[T]) {
		d := streams.NewDisposable(nil)
		o.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		o.OnError(err)
	}))
}

// FromFunc returns a Single that resolves by calling fn synchronously on
// subscription.
func FromFunc[T any](fn func() (T, error)) Single[T] {
	return FromSource[T](sourceFunc[T](func(o streams.SingleObserver[T]) {
		d := streams.NewDisposable(nil)
		o.OnSubscribe(d)
		if d.IsDisposed() {
			return
		}
		v, err := fn()
		if d.IsDisposed() {
			return
		}
		if err != nil {
			o.OnError(err)
			return
		}
		o.OnSuccess(v)
	}))
}

// Subscribe resolves the Single into the given observer.
func (s Single[T]) Subscribe(o streams.SingleObserver[T]) {
	s.source.Subscribe(o)
}

type sourceFunc[T any] func(o streams.SingleObserver[T])

func (f sourceFunc[T]) Subscribe(o streams.SingleObserver[T]) {
	f(o)
}
