// Package notify delivers controller events to subscribed views.
//
// A Bus keeps its subscribers in subscription order and delivers each event
// synchronously, on the caller's goroutine, to every subscriber in that
// order. Each subscriber receives the identical event value. A subscriber
// that panics is logged and skipped; delivery continues with the next one.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Event is implemented by every controller event
type Event interface {
	// Kind is the stable wire name of the event ("login_success", ...)
	Kind() string
}

// View receives pushed events
type View[E Event] interface {
	Update(event E)
}

// ViewFunc adapts a function to View
type ViewFunc[E Event] func(event E)

func (f ViewFunc[E]) Update(event E) { f(event) }

// Subscription identifies one registration on a Bus
type Subscription struct {
	id uint64
}

type subscriber[E Event] struct {
	id   uint64
	view View[E]
}

// Bus is an ordered set of views for one event type.
// The zero value is not usable; create one with NewBus.
type Bus[E Event] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber[E]
	name   string
	logger *zap.Logger
}

// NewBus creates a bus. name labels log lines ("auth", "device", ...).
func NewBus[E Event](name string, logger *zap.Logger) *Bus[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus[E]{name: name, logger: logger}
}

// Name returns the label given at construction
func (b *Bus[E]) Name() string {
	return b.name
}

// Subscribe appends view to the delivery order. The same view may be
// subscribed more than once; each registration is delivered separately.
func (b *Bus[E]) Subscribe(view View[E]) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscriber[E]{id: b.nextID, view: view})
	return Subscription{id: b.nextID}
}

// Unsubscribe removes the registration. It reports whether it was present.
func (b *Bus[E]) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registrations
func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Notify delivers event to every subscriber in subscription order.
// Subscriptions changed during delivery take effect on the next event.
func (b *Bus[E]) Notify(event E) {
	b.mu.RLock()
	subs := make([]subscriber[E], len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, event)
	}
}

func (b *Bus[E]) deliver(s subscriber[E], event E) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("View panicked during update, skipping",
				zap.String("bus", b.name),
				zap.String("event", event.Kind()),
				zap.Uint64("subscription", s.id),
				zap.Any("panic", r),
			)
		}
	}()
	s.view.Update(event)
}

// Recorder accepts events from buses of any event type
type Recorder interface {
	Record(source string, event Event)
}

// Forward subscribes r to b. Events reach r labelled with the bus name.
func Forward[E Event](b *Bus[E], r Recorder) Subscription {
	return b.Subscribe(ViewFunc[E](func(event E) {
		r.Record(b.name, event)
	}))
}
