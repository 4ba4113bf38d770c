package rangetree

import (
	"fmt"
	"math"
)

// Integer is the set of element types a Tree can store: any fixed-width
// integer kind, signed or unsigned.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Range is the closed interval [Low, High]. Both endpoints are included.
// The zero Range is the valid single-element range at 0.
type Range[T Integer] struct {
	// The start of the range (inclusive)
	Low T
	// The end of the range (inclusive)
	High T
}

// NewRange returns the range [low, high]. It returns ErrInvalidRange if
// high < low.
func NewRange[T Integer](low, high T) (Range[T], error) {
	if high < low {
		return Range[T]{}, fmt.Errorf("%w: high %v < low %v", ErrInvalidRange, high, low)
	}
	return Range[T]{Low: low, High: high}, nil
}

// Size returns the number of values covered by r. A range covering the
// entire 64-bit domain holds 2^64 values; that one size saturates to
// math.MaxUint64.
func (r Range[T]) Size() uint64 {
	d := span(r.Low, r.High)
	if d == math.MaxUint64 {
		return math.MaxUint64
	}
	return d + 1
}

// Contains reports whether r fully contains other.
func (r Range[T]) Contains(other Range[T]) bool {
	return other.Low >= r.Low && other.High <= r.High
}

// ContainsValue reports whether v lies within r.
func (r Range[T]) ContainsValue(v T) bool {
	return v >= r.Low && v <= r.High
}

// Overlaps reports whether r and other share at least one value.
func (r Range[T]) Overlaps(other Range[T]) bool {
	return r.Low <= other.High && other.Low <= r.High
}

func (r Range[T]) String() string {
	return fmt.Sprintf("[%d, %d]", r.Low, r.High)
}

// span returns high - low as an unsigned 64-bit difference. Converting
// through uint64 sign-extends, so the result is exact for every Integer
// kind up to 64 bits, with no intermediate overflow near the domain limits.
func span[T Integer](low, high T) uint64 {
	return uint64(high) - uint64(low)
}

// touches reports whether a range ending at high overlaps or is adjacent to
// one starting at low. When low > high the subtraction yields the true gap
// width, so adjacency at the domain maximum does not wrap.
func touches[T Integer](high, low T) bool {
	return high >= low || span(high, low) == 1
}
