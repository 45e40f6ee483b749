package plume

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ServicePool hands out Service instances for parallel exports. Each service
// owns its browser, so a pool of n can render n books at once. Services are
// built lazily on first acquire; an idle pool launches nothing.
type ServicePool struct {
	capacity int
	opts     []Option

	idle chan *Service

	mu     sync.Mutex
	all    []*Service
	built  int
	closed bool
}

// NewServicePool creates a pool with room for n services, each configured
// with the given options. n below 1 is raised to 1.
func NewServicePool(n int, opts ...Option) *ServicePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ServicePool{
		capacity: n,
		opts:     opts,
		idle:     make(chan *Service, n),
	}
}

// Acquire returns a service, building one while capacity remains and
// otherwise blocking until a Release. Returns ErrPoolClosed after Close.
func (p *ServicePool) Acquire() (*Service, error) {
	// An idle service is reused before anything new is built.
	select {
	case svc, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return svc, nil
	default:
	}

	svc, err := p.build()
	if err != nil {
		return nil, err
	}
	if svc != nil {
		return svc, nil
	}

	// Every slot is built and busy; wait for one to come back.
	svc, ok := <-p.idle
	if !ok {
		return nil, ErrPoolClosed
	}
	return svc, nil
}

// build creates a new service when a slot is free. A nil, nil return means
// the pool is already at capacity. The slot is reserved before New runs so
// concurrent acquires never overshoot, and returned on failure so a later
// Acquire can retry.
func (p *ServicePool) build() (*Service, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.built == p.capacity {
		p.mu.Unlock()
		return nil, nil
	}
	p.built++
	p.mu.Unlock()

	svc, err := New(p.opts...)
	if err != nil {
		p.mu.Lock()
		p.built--
		p.mu.Unlock()
		return nil, err
	}

	p.mu.Lock()
	p.all = append(p.all, svc)
	p.mu.Unlock()
	return svc, nil
}

// Release puts a service back for the next Acquire. Releasing nil or
// releasing into a closed pool is a no-op; Close already shut the service
// down.
func (p *ServicePool) Release(svc *Service) {
	if svc == nil {
		return
	}

	// The send stays under the lock: Close also takes it before closing the
	// channel, so the closed-check and the send cannot be split by a Close.
	// The channel holds capacity slots and at most capacity services exist,
	// so the send never blocks.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- svc
}

// Close shuts every built service down and rejects further acquires.
// Errors from individual services are joined.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	services := p.all
	p.mu.Unlock()

	var errs []error
	for _, svc := range services {
		if err := svc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.capacity
}

// ResolvePoolSize picks a pool size: an explicit positive worker count wins,
// otherwise half of GOMAXPROCS (automaxprocs keeps that honest in
// containers) clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
