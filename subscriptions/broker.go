// Package subscriptions implements the change notification broker.
//
// The broker fans one published BOOK_ADDED event out to every
// currently-open subscription: each connected subscriber receives the
// event exactly once, in publish order, without the publisher blocking
// on any subscriber and without subscribers blocking each other.
// Delivery is transient - there is no buffering or replay across
// subscription boundaries, so a subscription opened after a publish
// never sees that publish.
package subscriptions

import (
	"sync"
	"sync/atomic"

	"github.com/booklore/catalog-go/catalog"
)

// TopicBookAdded is the single event topic published by the broker.
const TopicBookAdded = "BOOK_ADDED"

// subscription represents a single subscriber with its private mailbox.
//
// State machine: Open (registered) -> Delivering (pump draining the
// mailbox) -> Closed (cancel called or broker shut down). The pump
// goroutine owns the out channel and closes it exactly once.
type subscription struct {
	id     uint64
	out    chan catalog.Book
	wake   chan struct{}
	done   chan struct{}
	closed atomic.Bool

	mu      sync.Mutex
	mailbox []catalog.Book
}

// enqueue appends an event to the mailbox and signals the pump.
// It never blocks: the wake channel is 1-buffered and a pending signal
// already guarantees the pump will drain the mailbox.
func (s *subscription) enqueue(book catalog.Book) {
	if s.closed.Load() {
		return
	}

	s.mu.Lock()
	s.mailbox = append(s.mailbox, book)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest undelivered event from the mailbox.
func (s *subscription) next() (catalog.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.mailbox) == 0 {
		return catalog.Book{}, false
	}

	book := s.mailbox[0]
	s.mailbox = s.mailbox[1:]

	return book, true
}

// pump forwards mailbox events to the out channel in arrival order.
// It runs in its own goroutine so a slow subscriber only delays itself.
func (s *subscription) pump() {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return

		case <-s.wake:
			for {
				book, ok := s.next()
				if !ok {
					break
				}

				select {
				case s.out <- book:
				case <-s.done:
					return
				}
			}
		}
	}
}

// close transitions the subscription to Closed. Idempotent: redundant
// calls neither deliver further events nor error.
func (s *subscription) close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
	}
}

// Broker is the change notification broker. It maintains the registry
// of active subscriptions and guarantees at-most-once delivery per
// subscription per published event.
//
// A Broker is an explicit, injected component: created at server
// start, handed to the mutation pipeline, torn down with Close at
// shutdown. It holds no global state.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID atomic.Uint64
	down   bool

	logger catalog.Logger
}

// Option defines a functional option for configuring a Broker.
type Option func(*Broker)

// WithLogger sets the logger for the Broker.
func WithLogger(logger catalog.Logger) Option {
	return func(b *Broker) {
		b.logger = logger
	}
}

// NewBroker creates a new change notification broker.
func NewBroker(options ...Option) *Broker {
	b := &Broker{
		subs: make(map[uint64]*subscription),
	}

	for _, option := range options {
		option(b)
	}

	return b
}

// Subscribe registers a new subscription on the BOOK_ADDED topic and
// returns its delivery channel plus an idempotent cancel function.
// The channel is closed when the subscription ends, either through
// cancel or through Broker.Close.
//
// Subscribing on a closed broker yields an already-closed channel.
func (b *Broker) Subscribe() (<-chan catalog.Book, func()) {
	sub := &subscription{
		id:   b.nextID.Add(1),
		out:  make(chan catalog.Book),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.down {
		b.mu.Unlock()
		sub.close()
		close(sub.out)

		return sub.out, func() {}
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()

	go sub.pump()

	cancel := func() {
		b.unsubscribe(sub.id)
	}

	if b.logger != nil {
		b.logger.Debug("subscription opened", "topic", TopicBookAdded, "subscription_id", sub.id)
	}

	return sub.out, cancel
}

// Publish fans the event out to all currently-open subscriptions.
// It never blocks on a subscriber and never fails: publishing with
// zero subscribers is a no-op, and delivery outcome must not affect
// the mutation that triggered the publish.
func (b *Broker) Publish(book catalog.Book) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		sub.enqueue(book)
	}

	if b.logger != nil {
		b.logger.Debug("event published", "topic", TopicBookAdded, "title", book.Title, "subscribers", len(b.subs))
	}
}

// SubscriberCount returns the number of currently-open subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close tears the broker down, closing every open subscription.
// Idempotent; publishes after Close are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*subscription)
	b.down = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// unsubscribe removes a subscription from the registry and closes it.
func (b *Broker) unsubscribe(id uint64) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()

	if ok {
		sub.close()

		if b.logger != nil {
			b.logger.Debug("subscription closed", "topic", TopicBookAdded, "subscription_id", id)
		}
	}
}
