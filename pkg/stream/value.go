// Package stream provides observable state cells. A Value holds a current
// value and fans every update out to subscribers in order, without the
// writer ever blocking on a slow consumer.
package stream

import (
	"context"
	"sync"
)

// Value is a single-writer, multi-reader observable cell. Subscribers first
// receive the value current at subscription time, then every subsequent
// update exactly once, in write order.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	subs   map[int]*subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	mu     sync.Mutex
	queue  []T
	wake   chan struct{}
	closed bool
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[int]*subscriber[T]),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set replaces the current value and queues it to every subscriber.
// It never blocks on subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.cur = val
	for _, s := range v.subs {
		s.push(val)
	}
	v.mu.Unlock()
}

// Update applies fn to the current value under the write lock and publishes
// the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.cur = fn(v.cur)
	val := v.cur
	for _, s := range v.subs {
		s.push(val)
	}
	v.mu.Unlock()
}

// Subscribe returns a channel delivering the current value followed by every
// update, in order. The subscription ends and the channel closes when ctx is
// canceled.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscriber[T]{wake: make(chan struct{}, 1)}

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = s
	s.queue = append(s.queue, v.cur)
	v.mu.Unlock()

	out := make(chan T)
	go func() {
		defer close(out)
		defer func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		}()
		for {
			s.mu.Lock()
			pending := s.queue
			s.queue = nil
			s.mu.Unlock()

			for _, val := range pending {
				select {
				case out <- val:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-s.wake:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *subscriber[T]) push(val T) {
	s.mu.Lock()
	s.queue = append(s.queue, val)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
