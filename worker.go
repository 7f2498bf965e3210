package libnioev

import (
	"container/heap"
	"sync"
	"time"
)

// EnqueueResult reports whether a task was accepted by a Runtime's
// admission hook.
type EnqueueResult int

const (
	EnqueueSuccess EnqueueResult = iota
	EnqueueRejected
)

// Handler bundles the capabilities a Runtime needs from its owner:
// whether to admit a task, how to process one, and lifecycle hooks
// run on the worker goroutine itself. Bundling these as plain fields
// rather than an interface lets a Runtime[T] be parameterized purely
// by its task payload type.
type Handler[T any] struct {
	// Admit is consulted under the queue lock before a task is
	// appended. A nil Admit always admits.
	Admit func(task T) bool
	// Handle processes one task with no lock held. Required.
	Handle func(task T)
	// HandleHoldingLock, if set, replaces Handle and runs with the
	// queue lock held, so the handler can atomically peek or mutate
	// the queue mid-task. Most handlers should leave this nil.
	HandleHoldingLock func(rt *Runtime[T], task T)
	// OnExit runs once on the worker goroutine right before it
	// returns, after Stop has been requested.
	OnExit func()
	// OnError receives a panic recovered from Handle/HandleHoldingLock
	// so a single bad task cannot kill the worker. If nil, the panic
	// is logged through the Runtime's Logger (see WithLogger).
	OnError func(recovered any)
}

type delayedTask[T any] struct {
	task     T
	deadline time.Time
	seq      uint64
}

type delayedHeap[T any] []delayedTask[T]

func (h delayedHeap[T]) Len() int { return len(h) }
func (h delayedHeap[T]) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h delayedHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *delayedHeap[T]) Push(x any)   { *h = append(*h, x.(delayedTask[T])) }
func (h *delayedHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Runtime is a serial task actor: one dedicated worker goroutine, a
// FIFO of immediate tasks and a min-heap of delayed ones, processed
// one at a time in the order spec'd by the worker loop contract.
type Runtime[T any] struct {
	handler Handler[T]
	logger  Logger

	cond      *sync.Cond
	immediate []T
	delayed   delayedHeap[T]
	delaySeq  uint64
	running   bool
	started   bool

	admitted Counter
	rejected Counter
	handled  Counter

	done chan struct{}
}

// RuntimeOption configures a Runtime at construction time.
type RuntimeOption[T any] func(*Runtime[T])

// WithLogger installs the error sink used for recovered handler
// panics. Defaults to NoOpLogger.
func WithLogger[T any](l Logger) RuntimeOption[T] {
	return func(rt *Runtime[T]) { rt.logger = l }
}

// WithCounters wires admitted/rejected/handled task counters, e.g.
// backed by process metrics.
func WithCounters[T any](admitted, rejected, handled Counter) RuntimeOption[T] {
	return func(rt *Runtime[T]) {
		if admitted != nil {
			rt.admitted = admitted
		}
		if rejected != nil {
			rt.rejected = rejected
		}
		if handled != nil {
			rt.handled = handled
		}
	}
}

// NewRuntime builds a Runtime around handler. Start must be called
// before any task is processed.
func NewRuntime[T any](handler Handler[T], opts ...RuntimeOption[T]) *Runtime[T] {
	rt := &Runtime[T]{
		handler:  handler,
		logger:   NoOpLogger{},
		cond:     sync.NewCond(&sync.Mutex{}),
		admitted: noopCounter{},
		rejected: noopCounter{},
		handled:  noopCounter{},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Start launches the worker goroutine. Calling Start twice is a no-op.
func (rt *Runtime[T]) Start() {
	rt.cond.L.Lock()
	if rt.started {
		rt.cond.L.Unlock()
		return
	}
	rt.started = true
	rt.running = true
	go rt.loop()
	rt.cond.L.Unlock()
}

// Stop requests the worker goroutine to exit and waits for it to do
// so. Any remaining immediate or delayed tasks are dropped. Calling
// Stop more than once, or before Start, is safe.
func (rt *Runtime[T]) Stop() {
	rt.cond.L.Lock()
	if !rt.started {
		rt.cond.L.Unlock()
		return
	}
	wasRunning := rt.running
	rt.running = false
	rt.cond.Signal()
	rt.cond.L.Unlock()

	if wasRunning {
		<-rt.done
	}
}

func (rt *Runtime[T]) admit(task T) bool {
	if rt.handler.Admit == nil {
		return true
	}
	return rt.handler.Admit(task)
}

// Enqueue admits and appends task to the immediate FIFO, waking the
// worker.
func (rt *Runtime[T]) Enqueue(task T) EnqueueResult {
	rt.cond.L.Lock()
	defer rt.cond.L.Unlock()

	if !rt.admit(task) {
		rt.rejected.Add(1)
		return EnqueueRejected
	}
	rt.immediate = append(rt.immediate, task)
	rt.admitted.Add(1)
	rt.cond.Signal()
	return EnqueueSuccess
}

// EnqueueDelayed admits and schedules task to run no earlier than
// delay from now.
func (rt *Runtime[T]) EnqueueDelayed(task T, delay time.Duration) EnqueueResult {
	rt.cond.L.Lock()
	defer rt.cond.L.Unlock()

	if !rt.admit(task) {
		rt.rejected.Add(1)
		return EnqueueRejected
	}
	rt.delaySeq++
	heap.Push(&rt.delayed, delayedTask[T]{task: task, deadline: time.Now().Add(delay), seq: rt.delaySeq})
	rt.admitted.Add(1)
	rt.cond.Signal()
	return EnqueueSuccess
}

// FilterDelayed atomically retains only the delayed tasks for which
// keep returns true, e.g. to cancel a superseded keep-alive timer.
func (rt *Runtime[T]) FilterDelayed(keep func(task T) bool) {
	rt.cond.L.Lock()
	defer rt.cond.L.Unlock()

	kept := rt.delayed[:0]
	for _, d := range rt.delayed {
		if keep(d.task) {
			kept = append(kept, d)
		}
	}
	rt.delayed = kept
	heap.Init(&rt.delayed)
}

func (rt *Runtime[T]) loop() {
	rt.cond.L.Lock()
	defer func() {
		rt.cond.L.Unlock()
		close(rt.done)
	}()

	for {
		for rt.running && len(rt.immediate) == 0 && rt.delayed.Len() == 0 {
			rt.cond.Wait()
		}
		if rt.running && len(rt.immediate) == 0 {
			wait := time.Until(rt.delayed[0].deadline)
			if wait > 0 {
				rt.waitWithTimeout(wait)
			}
		}

		if !rt.running {
			if rt.handler.OnExit != nil {
				rt.handler.OnExit()
			}
			return
		}

		batch := rt.immediate
		rt.immediate = nil
		for _, task := range batch {
			rt.runTask(task)
		}

		now := time.Now()
		for rt.delayed.Len() > 0 && !rt.delayed[0].deadline.After(now) {
			d := heap.Pop(&rt.delayed).(delayedTask[T])
			rt.runTask(d.task)
		}
	}
}

// waitWithTimeout wakes the loop after wait even without an explicit
// Signal, so a newly-due delayed task is not stuck behind an
// indefinite cond.Wait.
func (rt *Runtime[T]) waitWithTimeout(wait time.Duration) {
	timer := time.AfterFunc(wait, func() {
		rt.cond.L.Lock()
		rt.cond.Signal()
		rt.cond.L.Unlock()
	})
	defer timer.Stop()
	rt.cond.Wait()
}

func (rt *Runtime[T]) runTask(task T) {
	defer func() {
		if r := recover(); r != nil {
			if rt.handler.OnError != nil {
				rt.handler.OnError(r)
			} else {
				rt.logger.Error("worker task panicked", LogFields{"panic": r})
			}
		}
	}()

	rt.handled.Add(1)
	if rt.handler.HandleHoldingLock != nil {
		rt.handler.HandleHoldingLock(rt, task)
		return
	}
	rt.cond.L.Unlock()
	defer rt.cond.L.Lock()
	rt.handler.Handle(task)
}
