package resolver

import (
	"sync"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

// task runs fn at most once, on its own goroutine, the first time it is
// started or awaited.
type task[T any] struct {
	once sync.Once
	done chan struct{}
	fn   func() T
	val  T
}

func newTask[T any](fn func() T) *task[T] {
	return &task[T]{fn: fn, done: make(chan struct{})}
}

func (t *task[T]) start() {
	t.once.Do(func() {
		go func() {
			defer close(t.done)
			t.val = t.fn()
		}()
	})
}

// wait starts the task if needed and blocks until it finishes.
// Adapters honour context cancellation, so this never outlives the request.
func (t *task[T]) wait() T {
	t.start()
	<-t.done
	return t.val
}

// partialSender delivers at most one early result through a single-slot
// channel drained by a forwarding goroutine, so a slow consumer never
// stalls resolution.
type partialSender struct {
	ch   chan domain.TranslationResult
	done chan struct{}
	sent bool
}

func newPartialSender(fn PartialFunc) *partialSender {
	if fn == nil {
		return nil
	}
	p := &partialSender{
		ch:   make(chan domain.TranslationResult, 1),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		for res := range p.ch {
			fn(res)
		}
	}()
	return p
}

// send emits translation once. Empty translations are not emitted.
// Only the resolving goroutine calls send.
func (p *partialSender) send(translation string) {
	if p == nil || p.sent || translation == "" {
		return
	}
	p.sent = true
	p.ch <- domain.TranslationResult{Translation: domain.StringPtr(translation)}
}

// close waits for a pending delivery to finish.
func (p *partialSender) close() {
	if p == nil {
		return
	}
	close(p.ch)
	<-p.done
}
