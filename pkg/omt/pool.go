package omt

import (
	"sync"
)

// Pool tracks a set of containers so a host holding one OMT per storage
// node can park and wake the whole group together.
type Pool[T any] struct {
	containers []*OMT[T]
}

// NewPool creates a pool over the given containers, applying
// hibernationThreshold to each.
func NewPool[T any](hibernationThreshold int, containers ...*OMT[T]) *Pool[T] {
	for _, container := range containers {
		container.HibernationThreshold = hibernationThreshold
	}

	return &Pool[T]{containers: containers}
}

// Add registers another container with the pool. The pool does not adjust
// its threshold.
func (p *Pool[T]) Add(container *OMT[T]) {
	p.containers = append(p.containers, container)
}

// Containers returns all registered containers.
func (p *Pool[T]) Containers() []*OMT[T] {
	return p.containers
}

// Hibernate parks every registered container in parallel, regardless of
// individual thresholds.
func (p *Pool[T]) Hibernate() {
	wg := sync.WaitGroup{}
	wg.Add(len(p.containers))

	for _, container := range p.containers {
		go func(u *OMT[T]) {
			defer wg.Done()

			// Force hibernation even below threshold by temporarily zeroing it.
			originalThreshold := u.HibernationThreshold
			u.HibernationThreshold = 0
			u.Hibernate()
			u.HibernationThreshold = originalThreshold
		}(container)
	}

	wg.Wait()
}

// Boot wakes every registered container in parallel.
func (p *Pool[T]) Boot() {
	wg := sync.WaitGroup{}
	wg.Add(len(p.containers))

	for _, container := range p.containers {
		go func(u *OMT[T]) {
			defer wg.Done()

			u.Boot()
		}(container)
	}

	wg.Wait()
}
