package visitstore

import (
	"context"
	"sync"
	"time"

	apperrors "assistant-console/internal/common/errors"
	"assistant-console/internal/common/logger"
	"assistant-console/internal/common/metrics"
)

// persister owns the only goroutine that writes to the substrate. Scheduled
// snapshots replace any snapshot still waiting, so a burst of mutations costs
// one write and saves never interleave.
type persister struct {
	substrate Substrate
	key       string
	timeout   time.Duration
	logger    logger.Logger

	mu      sync.Mutex
	pending []byte
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newPersister(substrate Substrate, key string, timeout time.Duration, log logger.Logger) *persister {
	p := &persister{
		substrate: substrate,
		key:       key,
		timeout:   timeout,
		logger:    log,
		wake:      make(chan struct{}, 1),
		flush:     make(chan chan struct{}),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

// schedule queues snapshot for the writer. After close nothing is written, so the
// snapshot is dropped with a warning.
func (p *persister) schedule(snapshot []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		metrics.VisitStorePersistFailures.WithLabelValues("closed").Inc()
		p.logger.Warn("visit store is closed, snapshot not persisted", map[string]interface{}{
			"key":   p.key,
			"bytes": len(snapshot),
		})
		return
	}
	p.pending = snapshot
	p.mu.Unlock()

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
			p.writePending()
		case ack := <-p.flush:
			p.writePending()
			close(ack)
		case <-p.stop:
			p.writePending()
			return
		}
	}
}

func (p *persister) writePending() {
	p.mu.Lock()
	snapshot := p.pending
	p.pending = nil
	p.mu.Unlock()

	if snapshot == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.substrate.Save(ctx, p.key, snapshot); err != nil {
		metrics.VisitStorePersistFailures.WithLabelValues("save").Inc()
		p.logger.Error("failed to save visit snapshot", map[string]interface{}{
			"key":   p.key,
			"bytes": len(snapshot),
			"error": apperrors.NewPersistenceSaveFailedError(err),
		})
		return
	}
	p.logger.Debug("visit snapshot saved", map[string]interface{}{"key": p.key, "bytes": len(snapshot)})
}

// waitIdle blocks until every snapshot scheduled before the call has been written.
func (p *persister) waitIdle(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flush <- ack:
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) close(ctx context.Context) error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.stop)
	})
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
