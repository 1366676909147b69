// Package notify keeps the transient notifications shown to the user after a
// search or booking finishes. Each notification owns one timer: it is visible
// for the dwell time, then fades for the grace time, then is removed.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const (
	DefaultDwell = 4700 * time.Millisecond
	DefaultGrace = 300 * time.Millisecond

	publishTimeout = 5 * time.Second
)

type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Kind        Kind      `json:"kind"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Publisher forwards enqueued notifications to other consumers.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type phase int

const (
	phaseVisible phase = iota
	phaseFading
)

type entry struct {
	n     Notification
	phase phase
	timer *clock.Timer
}

type Queue struct {
	mu      sync.Mutex
	clock   clock.Clock
	dwell   time.Duration
	grace   time.Duration
	entries map[string]*entry
	order   []string

	publisher Publisher
	topic     string
}

type Option func(*Queue)

func WithClock(c clock.Clock) Option {
	return func(q *Queue) {
		q.clock = c
	}
}

func WithDwell(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.dwell = d
		}
	}
}

func WithGrace(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.grace = d
		}
	}
}

func WithPublisher(p Publisher, topic string) Option {
	return func(q *Queue) {
		q.publisher = p
		q.topic = topic
	}
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:   clock.New(),
		dwell:   DefaultDwell,
		grace:   DefaultGrace,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue adds a visible notification and starts its dwell timer.
func (q *Queue) Enqueue(title, description string, kind Kind) string {
	n := Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Kind:        kind,
		Visible:     true,
		CreatedAt:   q.clock.Now(),
	}
	e := &entry{n: n}

	q.mu.Lock()
	q.entries[n.ID] = e
	q.order = append(q.order, n.ID)
	e.timer = q.clock.AfterFunc(q.dwell, func() { q.fade(n.ID, e) })
	q.mu.Unlock()

	if q.publisher != nil && q.topic != "" {
		go q.publish(n)
	}
	return n.ID
}

// Dismiss hides the notification now and removes it after the grace delay.
// Unknown ids and notifications that are already fading are left alone.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[id]
	if !ok || e.phase != phaseVisible {
		return
	}
	e.timer.Stop()
	q.startFading(id, e)
}

// Snapshot returns the live notifications in insertion order.
func (q *Queue) Snapshot() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.entries[id].n)
	}
	return out
}

func (q *Queue) Get(id string) (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[id]
	if !ok {
		return Notification{}, false
	}
	return e.n, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Close stops every pending timer and drops all notifications.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = make(map[string]*entry)
	q.order = nil
}

func (q *Queue) fade(id string, e *entry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.entries[id] != e || e.phase != phaseVisible {
		return
	}
	q.startFading(id, e)
}

// startFading must be called with q.mu held.
func (q *Queue) startFading(id string, e *entry) {
	e.phase = phaseFading
	e.n.Visible = false
	e.timer = q.clock.AfterFunc(q.grace, func() { q.remove(id, e) })
}

func (q *Queue) remove(id string, e *entry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.entries[id] != e {
		return
	}
	delete(q.entries, id)
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

func (q *Queue) publish(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := q.publisher.Publish(ctx, q.topic, n.ID, n); err != nil {
		log.Printf("WARNING: failed to publish notification %s: %v", n.ID, err)
	}
}
