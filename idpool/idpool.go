// Package idpool hands out identifiers from a fixed closed domain. The free
// set is tracked as disjoint ranges, so a pool's memory scales with how
// fragmented its allocations are rather than with the size of the domain or
// the number of identifiers handed out.
package idpool

import (
	"fmt"

	"github.com/garethgeorge/rangetree"
)

// Pool allocates identifiers of type T out of the domain [lo, hi].
// It is not thread-safe.
type Pool[T rangetree.Integer] struct {
	lo, hi   T
	capacity uint64

	free *rangetree.Tree[T]
}

// New returns a pool over the domain [lo, hi] with every identifier free.
// It returns rangetree.ErrInvalidRange if hi < lo.
func New[T rangetree.Integer](lo, hi T) (*Pool[T], error) {
	free := rangetree.New[T]()
	if err := free.AddRange(lo, hi); err != nil {
		return nil, err
	}
	return &Pool[T]{lo: lo, hi: hi, capacity: free.Size(), free: free}, nil
}

// Capacity returns the total number of identifiers in the domain.
func (p *Pool[T]) Capacity() uint64 {
	return p.capacity
}

// Free returns the number of identifiers currently available.
func (p *Pool[T]) Free() uint64 {
	return p.free.Size()
}

// Allocated returns the number of identifiers currently handed out.
func (p *Pool[T]) Allocated() uint64 {
	return p.capacity - p.free.Size()
}

// Allocate hands out the lowest free identifier. It returns ErrNoCapacity
// when the pool is exhausted.
func (p *Pool[T]) Allocate() (T, error) {
	v, ok := p.free.Lowest()
	if !ok {
		var zero T
		return zero, ErrNoCapacity
	}
	p.free.Remove(v)
	return v, nil
}

// AllocateRange hands out the lowest free run of at least n contiguous
// identifiers (first fit). It returns ErrNoCapacity if no free run is large
// enough, and rangetree.ErrInvalidRange for n == 0.
func (p *Pool[T]) AllocateRange(n uint64) (rangetree.Range[T], error) {
	if n == 0 {
		return rangetree.Range[T]{}, fmt.Errorf("%w: zero-length allocation", rangetree.ErrInvalidRange)
	}

	var got rangetree.Range[T]
	found := false
	for r := range p.free.Ranges() {
		if r.Size() >= n {
			got = rangetree.Range[T]{Low: r.Low, High: r.Low + T(n-1)}
			found = true
			break
		}
	}
	if !found {
		return rangetree.Range[T]{}, fmt.Errorf("%w: no free run of %d identifiers", ErrNoCapacity, n)
	}
	if _, err := p.free.RemoveRange(got.Low, got.High); err != nil {
		return rangetree.Range[T]{}, err
	}
	return got, nil
}

// Claim allocates the specific identifier v. See ClaimRange.
func (p *Pool[T]) Claim(v T) error {
	return p.ClaimRange(v, v)
}

// ClaimRange allocates the specific identifiers [low, high]. It returns
// ErrOutOfBounds if the range lies outside the pool's domain and
// ErrAlreadyAllocated if any identifier in it is already taken.
func (p *Pool[T]) ClaimRange(low, high T) error {
	if err := p.checkBounds(low, high); err != nil {
		return err
	}
	if !p.free.ContainsRange(low, high) {
		return fmt.Errorf("%w: [%v, %v]", ErrAlreadyAllocated, low, high)
	}
	_, err := p.free.RemoveRange(low, high)
	return err
}

// Release returns the identifier v to the pool. See ReleaseRange.
func (p *Pool[T]) Release(v T) error {
	return p.ReleaseRange(v, v)
}

// ReleaseRange returns the identifiers [low, high] to the pool. It returns
// ErrOutOfBounds if the range lies outside the pool's domain and
// ErrNotAllocated if any identifier in it is already free (double free).
func (p *Pool[T]) ReleaseRange(low, high T) error {
	if err := p.checkBounds(low, high); err != nil {
		return err
	}
	if p.free.OverlapsRange(low, high) {
		return fmt.Errorf("%w: [%v, %v] (double free?)", ErrNotAllocated, low, high)
	}
	return p.free.AddRange(low, high)
}

func (p *Pool[T]) checkBounds(low, high T) error {
	r, err := rangetree.NewRange(low, high)
	if err != nil {
		return err
	}
	if r.Low < p.lo || r.High > p.hi {
		return fmt.Errorf("%w: [%v, %v] outside [%v, %v]", ErrOutOfBounds, low, high, p.lo, p.hi)
	}
	return nil
}
