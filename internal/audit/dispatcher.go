package audit

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// dropLogEvery rate-limits the drop warning to one entry per this many drops.
const dropLogEvery = 100

// Dispatcher relays events from Engine operations to a Sink on one
// goroutine, so a slow sink never runs on the caller's path.
//
// Close stops intake, then delivers everything already queued before it
// returns. Engine.Close calls it, so events emitted by completed operations
// are never lost on shutdown.
type Dispatcher struct {
	sink       Sink
	log        *zap.Logger
	dropIfFull bool

	// mu guards closed and every send on queue; Close takes it exclusively
	// to close queue without racing a sender.
	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher starts a dispatcher, or returns nil when cfg is disabled. A
// nil sink falls back to a ZapSink on logger, or to NoOpSink without one.
func NewDispatcher(cfg Config, sink Sink, logger *zap.Logger) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		if logger.Core().Enabled(zap.InfoLevel) {
			sink = NewZapSink(logger)
		} else {
			sink = NoOpSink{}
		}
	}

	d := &Dispatcher{
		sink:       sink,
		log:        logger.Named("audit"),
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan Event, cfg.BufferSize),
		done:       make(chan struct{}),
	}
	go d.deliver()
	return d
}

func (d *Dispatcher) deliver() {
	defer close(d.done)
	for ev := range d.queue {
		d.sink.Emit(context.Background(), ev)
		d.delivered.Add(1)
	}
}

// Emit queues event. With DropIfFull a full queue drops the event; otherwise
// Emit waits for room until ctx is done, and a canceled wait also counts as
// a drop. Events emitted after Close are discarded silently.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		default:
			d.drop(event)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.drop(event)
	}
}

func (d *Dispatcher) drop(event Event) {
	n := d.dropped.Add(1)
	if n == 1 || n%dropLogEvery == 0 {
		d.log.Warn("audit events dropped",
			zap.String("event_type", event.EventType),
			zap.Uint64("dropped_total", n),
		)
	}
}

// Close stops intake and blocks until every queued event reached the sink.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

// Dropped returns the number of events discarded on a full queue.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Delivered returns the number of events handed to the sink.
func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}
