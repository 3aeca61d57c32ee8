package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-scripts/scrapeview/pkg/controller"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func note(msg string) controller.Notification {
	return controller.Notification{Level: controller.LevelSuccess, Message: msg}
}

func TestPushAndExpire(t *testing.T) {
	q := New(5*time.Second, 0)
	q.Push(note("first"), t0)
	q.Push(note("second"), t0.Add(2*time.Second))

	assert.Equal(t, 0, q.Expire(t0.Add(4*time.Second)))
	assert.Equal(t, 1, q.Expire(t0.Add(5*time.Second)))

	toasts := q.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, "second", toasts[0].Message)
	assert.Equal(t, 1, q.Expire(t0.Add(time.Minute)))
	assert.Equal(t, 0, q.Len())
}

func TestDefaultTTL(t *testing.T) {
	q := New(0, 0)
	assert.Equal(t, DefaultTTL, q.TTL())
}

func TestDismiss(t *testing.T) {
	q := New(time.Second, 0)
	a := q.Push(note("a"), t0)
	b := q.Push(note("b"), t0)

	assert.True(t, q.Dismiss(a))
	assert.False(t, q.Dismiss(a))
	assert.Equal(t, b, q.Toasts()[0].ID)
	assert.True(t, q.Dismiss(b))
	assert.Zero(t, q.Len())
}

func TestMaxKeepsNewest(t *testing.T) {
	q := New(time.Second, 2)
	q.Push(note("a"), t0)
	q.Push(note("b"), t0)
	q.Push(note("c"), t0)

	toasts := q.Toasts()
	assert.Len(t, toasts, 2)
	assert.Equal(t, "b", toasts[0].Message)
	assert.Equal(t, "c", toasts[1].Message)
}

func TestToastsIsCopy(t *testing.T) {
	q := New(time.Second, 0)
	q.Push(note("a"), t0)
	toasts := q.Toasts()
	toasts[0].Message = "changed"
	assert.Equal(t, "a", q.Toasts()[0].Message)
}
