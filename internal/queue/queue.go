// Package queue holds the toasts currently on screen.
package queue

import (
	"sync"
	"time"

	"github.com/go-scripts/scrapeview/pkg/controller"
)

// DefaultTTL is how long a toast stays visible
const DefaultTTL = 5 * time.Second

// Toast is one visible notification
type Toast struct {
	ID      int
	Level   controller.Level
	Message string
	Expires time.Time
}

// Queue is a thread-safe, self-expiring list of toasts, oldest first
type Queue struct {
	toasts []Toast
	ttl    time.Duration
	limit  int
	nextID int
	mu     sync.Mutex
}

// New creates a Queue whose toasts live for ttl. At most limit toasts are kept;
// zero means no limit.
func New(ttl time.Duration, limit int) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, limit: limit}
}

// TTL returns the lifetime of a toast
func (q *Queue) TTL() time.Duration {
	return q.ttl
}

// Push adds a toast that expires ttl after now and returns its id.
// When the queue is full the oldest toast is dropped.
func (q *Queue) Push(n controller.Notification, now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	q.toasts = append(q.toasts, Toast{
		ID:      q.nextID,
		Level:   n.Level,
		Message: n.Message,
		Expires: now.Add(q.ttl),
	})
	if q.limit > 0 && len(q.toasts) > q.limit {
		q.toasts = q.toasts[len(q.toasts)-q.limit:]
	}
	return q.nextID
}

// Dismiss removes the toast with id. It reports whether it was present.
func (q *Queue) Dismiss(id int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Expire drops every toast whose deadline is not after now and returns how
// many were dropped
func (q *Queue) Expire(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.Expires.After(now) {
			kept = append(kept, t)
		}
	}
	dropped := len(q.toasts) - len(kept)
	q.toasts = kept
	return dropped
}

// Toasts returns a copy of the visible toasts
func (q *Queue) Toasts() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Len returns the number of visible toasts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}
