package game

import "errors"

// ErrAlreadyReleased is returned when an object is handed back to a pool twice.
var ErrAlreadyReleased = errors.New("pool: object already released")

// Pool recycles high-churn entities (lasers, missiles, beams). An object is
// either outstanding (owned by a tracking collection) or free, never both.
type Pool[T any] struct {
	name   string
	newFn  func() *T
	reset  func(*T)
	free   []*T
	pooled map[*T]bool // true while the object sits in free

	allocated int
}

// NewPool creates a pool. reset is applied on release so reacquired objects
// never carry state from their previous life.
func NewPool[T any](name string, newFn func() *T, reset func(*T)) *Pool[T] {
	return &Pool[T]{
		name:   name,
		newFn:  newFn,
		reset:  reset,
		pooled: make(map[*T]bool),
	}
}

// Acquire returns a free object, allocating only when the pool is empty.
func (p *Pool[T]) Acquire() *T {
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.pooled[obj] = false
		return obj
	}
	obj := p.newFn()
	p.allocated++
	p.pooled[obj] = false
	return obj
}

// Release resets obj and returns it to the free list. Callers must remove obj
// from its tracking collection first.
func (p *Pool[T]) Release(obj *T) error {
	if obj == nil {
		return nil
	}
	if p.pooled[obj] {
		return ErrAlreadyReleased
	}
	if p.reset != nil {
		p.reset(obj)
	}
	p.pooled[obj] = true
	p.free = append(p.free, obj)
	return nil
}

// Contains reports whether obj is currently sitting in the free list.
func (p *Pool[T]) Contains(obj *T) bool {
	return p.pooled[obj]
}

// Free is the number of objects ready for reuse.
func (p *Pool[T]) Free() int { return len(p.free) }

// Outstanding is the number of acquired objects not yet released.
func (p *Pool[T]) Outstanding() int { return p.allocated - len(p.free) }

// Allocated is the number of objects ever created by this pool.
func (p *Pool[T]) Allocated() int { return p.allocated }

// Name labels the pool in logs and reports.
func (p *Pool[T]) Name() string { return p.name }
