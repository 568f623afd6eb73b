package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"homekeep/internal/core"
	"homekeep/internal/kv"
	"homekeep/internal/log"
)

type write struct {
	value  []byte
	remove bool
}

// persister writes queued collection snapshots and change events on its own
// goroutine. Writes to the same key coalesce to the newest snapshot.
type persister struct {
	backend  kv.Writer
	notifier Notifier
	logger   *slog.Logger
	timeout  time.Duration

	mu        sync.Mutex
	pending   map[string]write
	order     []string
	events    []core.ChangeEvent
	failed    map[string]error // last error per key, cleared on success
	unflushed []error
	stopped   bool

	wake      chan struct{}
	flushReq  chan chan error
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newPersister(backend kv.Writer, notifier Notifier, logger *slog.Logger, timeout time.Duration) *persister {
	return &persister{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		timeout:  timeout,
		pending:  make(map[string]write),
		failed:   make(map[string]error),
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *persister) enqueueSet(key string, value []byte) {
	p.enqueue(key, write{value: value})
}

func (p *persister) enqueueRemove(key string) {
	p.enqueue(key, write{remove: true})
}

func (p *persister) enqueue(key string, w write) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Warn("Store closed, change kept in memory only", log.FieldKey, key)
		return
	}
	if _, queued := p.pending[key]; !queued {
		p.order = append(p.order, key)
	}
	p.pending[key] = w
	p.mu.Unlock()
	p.signal()
}

func (p *persister) enqueueEvent(ev core.ChangeEvent) {
	if p.notifier == nil {
		return
	}
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.events = append(p.events, ev)
	p.mu.Unlock()
	p.signal()
}

func (p *persister) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case reply := <-p.flushReq:
			p.drain()
			reply <- p.takeUnflushed()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

// drain writes until nothing is queued.
func (p *persister) drain() {
	for {
		p.mu.Lock()
		pending, order, events := p.pending, p.order, p.events
		p.pending, p.order, p.events = make(map[string]write), nil, nil
		p.mu.Unlock()

		if len(order) == 0 && len(events) == 0 {
			return
		}
		for _, key := range order {
			p.write(key, pending[key])
		}
		for _, ev := range events {
			p.notify(ev)
		}
	}
}

func (p *persister) write(key string, w write) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var err error
	if w.remove {
		err = p.backend.Remove(ctx, key)
	} else {
		err = p.backend.Set(ctx, key, w.value)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failed[key] = err
		p.unflushed = append(p.unflushed, err)
		p.logger.Error("Failed to persist collection, in-memory state kept",
			log.FieldOperation, log.OpPersist,
			log.FieldKey, key,
			log.FieldError, err)
		return
	}
	delete(p.failed, key)
}

func (p *persister) notify(ev core.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.notifier.Notify(ctx, ev); err != nil {
		p.logger.Warn("Failed to publish change event",
			log.FieldOperation, log.OpNotify,
			log.FieldCollection, ev.Collection,
			log.FieldID, ev.ID,
			log.FieldError, err)
	}
}

func (p *persister) takeUnflushed() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := errors.Join(p.unflushed...)
	p.unflushed = nil
	return err
}

func (p *persister) lastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	errs := make([]error, 0, len(p.failed))
	for _, err := range p.failed {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p *persister) flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case p.flushReq <- reply:
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.stop)
	})
	select {
	case <-p.done:
		return p.takeUnflushed()
	case <-ctx.Done():
		return ctx.Err()
	}
}
