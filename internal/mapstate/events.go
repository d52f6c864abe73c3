package mapstate

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/locsim/internal/logging"
)

// Subscription is one listener attached to a Broadcaster. Values arrive on
// C. The channel is never closed; receivers should also select on Done.
type Subscription[T any] struct {
	ch    chan T
	done  chan struct{}
	once  sync.Once
	owner *Broadcaster[T]

	mu      sync.Mutex
	pending []T
	wake    chan struct{}
}

// C returns the receive channel for published values.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Done is closed once the subscription has been cancelled.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe detaches the listener. Deliveries still pending for it are
// abandoned. Safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.owner.remove(s)
		close(s.done)
	})
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if len(s.pending) == 0 {
		return zero, false
	}
	v := s.pending[0]
	s.pending[0] = zero
	s.pending = s.pending[1:]
	return v, true
}

// pump hands queued values to the receiver one at a time until the
// subscription or the session ends.
func (s *Subscription[T]) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			v, ok := s.pop()
			if !ok {
				break
			}
			select {
			case s.ch <- v:
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// Broadcaster is a multicast stream without replay. Publish captures the
// subscribers attached at that moment and queues the value for each of them.
// Every subscription has its own pump, so a listener that stops reading only
// holds back its own values. Each listener sees values in publish order.
type Broadcaster[T any] struct {
	name string
	ctx  context.Context

	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	closed bool
	pumps  sync.WaitGroup
}

// NewBroadcaster creates a broadcaster bound to ctx. Its pumps are waited
// for on g once ctx is cancelled.
func NewBroadcaster[T any](ctx context.Context, g *errgroup.Group, name string) *Broadcaster[T] {
	b := &Broadcaster[T]{
		name: name,
		ctx:  ctx,
		subs: make(map[*Subscription[T]]struct{}),
	}
	g.Go(b.run)
	return b
}

// Subscribe attaches a new listener. After the session has ended the
// listener never receives anything.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		ch:    make(chan T),
		done:  make(chan struct{}),
		wake:  make(chan struct{}, 1),
		owner: b,
	}

	b.mu.Lock()
	if !b.closed {
		b.subs[sub] = struct{}{}
		b.pumps.Add(1)
		go func() {
			defer b.pumps.Done()
			sub.pump(b.ctx)
		}()
	}
	count := len(b.subs)
	b.mu.Unlock()

	logging.Debug("Event subscriber attached",
		zap.String("stream", b.name),
		zap.Int("subscribers", count),
	)
	return sub
}

// Subscribers returns the number of attached listeners.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish queues v for every current subscriber and returns how many there
// were. It never blocks. With no subscribers, or after the session has
// ended, the value is dropped.
func (b *Broadcaster[T]) Publish(v T) int {
	b.mu.Lock()
	if b.closed || b.ctx.Err() != nil {
		b.mu.Unlock()
		logging.Debug("Event dropped, session closed", zap.String("stream", b.name))
		return 0
	}
	n := len(b.subs)
	for sub := range b.subs {
		sub.push(v)
	}
	b.mu.Unlock()

	logging.LogEventPublished(b.name, n)
	return n
}

func (b *Broadcaster[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	delete(b.subs, sub)
	count := len(b.subs)
	b.mu.Unlock()

	logging.Debug("Event subscriber detached",
		zap.String("stream", b.name),
		zap.Int("subscribers", count),
	)
}

// run waits for the session to end, then for every pump to return.
func (b *Broadcaster[T]) run() error {
	<-b.ctx.Done()

	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.pumps.Wait()
	return nil
}
