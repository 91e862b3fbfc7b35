package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// eventHeap orders events by trigger time; ties keep scheduling order.
type eventHeap struct {
	events []Event
	seq    []uint64
}

func (h *eventHeap) Len() int { return len(h.events) }

func (h *eventHeap) Less(i, j int) bool {
	if h.events[i].At.Equal(h.events[j].At) {
		return h.seq[i] < h.seq[j]
	}
	return h.events[i].At.Before(h.events[j].At)
}

func (h *eventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
	h.seq[i], h.seq[j] = h.seq[j], h.seq[i]
}

func (h *eventHeap) Push(x any) {
	item := x.(sequenced)
	h.events = append(h.events, item.ev)
	h.seq = append(h.seq, item.n)
}

func (h *eventHeap) Pop() any {
	n := len(h.events) - 1
	item := sequenced{ev: h.events[n], n: h.seq[n]}
	h.events = h.events[:n]
	h.seq = h.seq[:n]
	return item
}

type sequenced struct {
	ev Event
	n  uint64
}

// Engine emits queued events on C when they fall due. Delivery never blocks:
// events that find the channel full are counted as dropped.
type Engine struct {
	mu      sync.Mutex
	queue   eventHeap
	nextSeq uint64
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop ends the loop and closes C. Queued events are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	running := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if running {
		<-e.doneCh
		return
	}
	close(e.out)
}

func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	e.push(ev)
	e.signal()
	return nil
}

// ReplaceDay drops every queued event of date's day and queues events in
// their place.
func (e *Engine) ReplaceDay(date time.Time, events []Event) error {
	for _, ev := range events {
		if ev.At.IsZero() {
			return ErrInvalidTriggerTime
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	kept := eventHeap{}
	for i, ev := range e.queue.events {
		if !sameDay(ev.Date, date) {
			kept.events = append(kept.events, ev)
			kept.seq = append(kept.seq, e.queue.seq[i])
		}
	}
	e.queue = kept
	heap.Init(&e.queue)
	for _, ev := range events {
		e.push(ev)
	}
	e.signal()
	return nil
}

// Pending reports how many events are still queued.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// push expects e.mu to be held.
func (e *Engine) push(ev Event) {
	e.nextSeq++
	heap.Push(&e.queue, sequenced{ev: ev, n: e.nextSeq})
}

func (e *Engine) signal() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if next, ok := e.peek(); ok {
			timer.Reset(max(time.Until(next), 0))
		}

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				e.deliver(ev)
			}
		case <-e.wakeup:
			timer.Stop()
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) deliver(ev Event) {
	select {
	case e.out <- ev:
	default:
		e.dropped.Add(1)
	}
}

func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queue.Len() == 0 {
		return time.Time{}, false
	}
	return e.queue.events[0].At, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []Event
	for e.queue.Len() > 0 && !e.queue.events[0].At.After(now) {
		due = append(due, heap.Pop(&e.queue).(sequenced).ev)
	}
	return due
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
