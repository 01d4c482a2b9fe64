// Package live turns store queries into push-based snapshot streams.
//
// Writers call Notifier.Notify after a successful mutation; every open
// Stream on that topic re-runs its query and delivers the new snapshot.
// Delivery is latest-wins: a slow reader sees the most recent snapshot and
// never an unbounded backlog.
package live

import (
	"context"
	"sync"
)

// Topic names a collection whose changes are observable.
type Topic string

const (
	TopicEntries Topic = "entries"
	TopicTrash   Topic = "trash"
	TopicLinks   Topic = "links"
)

// AllTopics is every topic, used when a change source cannot tell which
// collection moved.
var AllTopics = []Topic{TopicEntries, TopicTrash, TopicLinks}

// Notifier fans change signals out to subscribers. The zero value is not
// usable; call NewNotifier.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[Topic]map[int]chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Topic]map[int]chan struct{})}
}

// Notify signals every subscriber of the given topics. It never blocks.
// A nil Notifier ignores the call.
func (n *Notifier) Notify(topics ...Topic) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range topics {
		for _, ch := range n.subs[t] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// NotifyAll signals every topic.
func (n *Notifier) NotifyAll() {
	n.Notify(AllTopics...)
}

// Subscribe returns a signal channel for topic and a function that removes
// the subscription.
func (n *Notifier) Subscribe(topic Topic) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[int]chan struct{})
	}
	n.subs[topic][id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[topic], id)
	}
}

// Subscribers reports how many subscriptions topic has.
func (n *Notifier) Subscribers(topic Topic) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[topic])
}

// Snapshot is one result of a live query. Err is set when the query failed;
// the stream keeps running and retries on the next change.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Stream delivers snapshots on C until Close is called or the context
// passed to Observe is done; C is closed afterwards.
type Stream[T any] struct {
	C      <-chan Snapshot[T]
	cancel context.CancelFunc
	done   chan struct{}
}

// Close unsubscribes and waits for the stream goroutine to exit.
func (s *Stream[T]) Close() {
	s.cancel()
	<-s.done
}

// Observe runs query immediately and again after each notification on topic.
func Observe[T any](ctx context.Context, n *Notifier, topic Topic, query func(ctx context.Context) ([]T, error)) *Stream[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot[T], 1)
	done := make(chan struct{})
	signal, unsubscribe := n.Subscribe(topic)

	go func() {
		defer close(done)
		defer close(out)
		defer unsubscribe()

		for {
			items, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			publish(out, Snapshot[T]{Items: items, Err: err})

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()

	return &Stream[T]{C: out, cancel: cancel, done: done}
}

// publish replaces any unread snapshot with snap. Only the stream goroutine
// sends on out, so the second send cannot block.
func publish[T any](out chan Snapshot[T], snap Snapshot[T]) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- snap
}
