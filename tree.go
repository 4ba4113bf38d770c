// Package rangetree stores sets of integers as sorted, non-overlapping,
// non-adjacent closed ranges.
//
// Unlike an interval or segment tree, which store possibly-overlapping
// intervals and answer stabbing queries over them, a Tree keeps its contents
// in canonical, most-compacted form: inserting a range merges it with any
// stored ranges it overlaps or touches, and removing a range splits or
// truncates the stored ranges it intersects. Memory therefore scales with
// the number of gaps rather than with the number of covered values, which
// makes the tree a good fit for free-identifier pools, acknowledgement
// tracking, and sparse address-space bookkeeping.
package rangetree

import (
	"math"
	"strings"

	"github.com/google/btree"
)

// Tree is a set of values of type T stored as disjoint closed ranges,
// ordered by their low endpoints.
//
// Performance, with n the number of stored disjoint ranges:
//
//	AddRange     O(n) worst case (a range bridging every stored range)
//	RemoveRange  O(n) worst case (a range covering every stored range)
//	Contains     O(log n)
//	Size         O(n) on the first call after a mutation, then O(1)
//	RangeCount   O(1)
//
// It is not thread-safe. Size memoizes its result, so even read-only use
// must be serialized against a first Size call after a mutation.
type Tree[T Integer] struct {
	ranges *btree.BTreeG[Range[T]]

	// cachedSize memoizes Size between mutations.
	cachedSize  uint64
	sizeCacheOK bool
}

// New returns an empty Tree.
func New[T Integer]() *Tree[T] {
	return &Tree[T]{
		ranges: btree.NewG(32, func(a, b Range[T]) bool { return a.Low < b.Low }),
	}
}

// Empty reports whether the tree covers no values.
func (t *Tree[T]) Empty() bool {
	return t.ranges.Len() == 0
}

// RangeCount returns the number of disjoint stored ranges.
func (t *Tree[T]) RangeCount() int {
	return t.ranges.Len()
}

// Size returns the total number of values covered by all stored ranges.
// The first call after a mutation recomputes the total in O(n) and caches
// it; the cache refresh is the one way a query mutates internal state, so
// concurrent readers must not race with it. A tree covering the entire
// 64-bit domain reports math.MaxUint64.
func (t *Tree[T]) Size() uint64 {
	if t.sizeCacheOK {
		return t.cachedSize
	}

	var total uint64
	t.ranges.Ascend(func(r Range[T]) bool {
		sz := r.Size()
		if total > math.MaxUint64-sz {
			total = math.MaxUint64
			return false
		}
		total += sz
		return true
	})

	t.cachedSize = total
	t.sizeCacheOK = true
	return total
}

// Lowest returns the smallest covered value, or false if the tree is empty.
func (t *Tree[T]) Lowest() (T, bool) {
	r, ok := t.ranges.Min()
	return r.Low, ok
}

// Highest returns the largest covered value, or false if the tree is empty.
func (t *Tree[T]) Highest() (T, bool) {
	r, ok := t.ranges.Max()
	return r.High, ok
}

// Contains reports whether v is covered.
func (t *Tree[T]) Contains(v T) bool {
	return t.ContainsRange(v, v)
}

// ContainsRange reports whether [low, high] is covered in full. An inverted
// range is never covered.
func (t *Tree[T]) ContainsRange(low, high T) bool {
	if high < low {
		return false
	}

	// Stored ranges are disjoint, so only the greatest one starting at or
	// below low can possibly contain the query.
	var cand Range[T]
	var found bool
	t.ranges.DescendLessOrEqual(Range[T]{Low: low}, func(r Range[T]) bool {
		cand, found = r, true
		return false
	})
	return found && cand.Contains(Range[T]{Low: low, High: high})
}

// OverlapsRange reports whether any stored range shares at least one value
// with [low, high]. An inverted range overlaps nothing.
func (t *Tree[T]) OverlapsRange(low, high T) bool {
	if high < low {
		return false
	}

	// Disjoint ranges ordered by Low are ordered by High as well, so the
	// greatest range starting at or below high reaches furthest back; if
	// it misses the query, every earlier range does too.
	var cand Range[T]
	var found bool
	t.ranges.DescendLessOrEqual(Range[T]{Low: high}, func(r Range[T]) bool {
		cand, found = r, true
		return false
	})
	return found && cand.High >= low
}

// Add inserts the single value v. See AddRange.
func (t *Tree[T]) Add(v T) error {
	return t.AddRange(v, v)
}

// AddRange inserts the closed range [low, high], merging it with every
// stored range it overlaps or is adjacent to. Adding an already-covered
// range is a no-op. It returns ErrInvalidRange if high < low.
func (t *Tree[T]) AddRange(low, high T) error {
	r, err := NewRange(low, high)
	if err != nil {
		return err
	}

	cur, exists := t.ranges.Get(Range[T]{Low: r.Low})
	if exists {
		// A stored range already starts at r.Low. Nothing to do if it
		// covers r; otherwise extend its upper endpoint.
		if cur.High >= r.High {
			return nil
		}
		cur.High = r.High
	} else {
		cur = r
	}
	t.ranges.ReplaceOrInsert(cur)

	t.mergeFrom(cur)
	t.sizeCacheOK = false
	return nil
}

// mergeFrom re-establishes disjointness after cur was inserted or had its
// upper endpoint extended. If the stored range preceding cur overlaps or is
// adjacent to it, the scan folds back to start there; from the start it
// absorbs every following range into the running upper bound until the
// first gap, then erases the absorbed entries.
func (t *Tree[T]) mergeFrom(cur Range[T]) {
	start := cur
	t.ranges.DescendLessOrEqual(Range[T]{Low: cur.Low}, func(r Range[T]) bool {
		if r.Low == cur.Low {
			return true // cur itself, keep descending
		}
		if touches(r.High, cur.Low) {
			start = r
		}
		return false
	})

	high := max(start.High, cur.High)
	var absorbed []Range[T]
	t.ranges.AscendGreaterOrEqual(start, func(r Range[T]) bool {
		if r.Low == start.Low {
			return true // the scan anchor itself
		}
		if !touches(high, r.Low) {
			return false // first gap, nothing further can merge
		}
		high = max(high, r.High)
		absorbed = append(absorbed, r)
		return true
	})

	for _, r := range absorbed {
		t.ranges.Delete(r)
	}
	if high != start.High {
		start.High = high
		t.ranges.ReplaceOrInsert(start)
	}
}

// Remove removes the single value v. See RemoveRange.
func (t *Tree[T]) Remove(v T) bool {
	removed, _ := t.RemoveRange(v, v)
	return removed
}

// RemoveRange removes the closed range [low, high] from the covered set. A
// stored range identical to the target is erased; one strictly containing
// it is split in two; ranges it fully covers are erased; ranges overlapping
// one of its ends are truncated. It reports whether any stored range was
// erased or changed, and returns ErrInvalidRange if high < low.
func (t *Tree[T]) RemoveRange(low, high T) (bool, error) {
	x, err := NewRange(low, high)
	if err != nil {
		return false, err
	}
	t.sizeCacheOK = false

	// Start at the greatest stored range whose Low is at or below x.Low:
	// it is the only one that can begin before x and still reach into it.
	// If no range begins at or below x.Low, start at the first one.
	var start Range[T]
	var startOK bool
	t.ranges.DescendLessOrEqual(Range[T]{Low: x.Low}, func(r Range[T]) bool {
		start, startOK = r, true
		return false
	})
	if !startOK {
		start, startOK = t.ranges.Min()
		if !startOK {
			return false, nil
		}
	}

	// Classify each stored range from start forward, first matching case
	// wins. Mutations are planned during the scan and applied afterwards;
	// ranges fully covered by x accumulate in swallowed and are erased as
	// a batch rather than one at a time.
	var (
		swallowed []Range[T]
		erase     []Range[T]
		insert    []Range[T]
		removed   bool
	)
	t.ranges.AscendGreaterOrEqual(start, func(r Range[T]) bool {
		switch {
		case r == x:
			// Identical: erase r and stop. By disjointness no other
			// stored range can intersect x.
			erase = append(erase, r)
			removed = true
			return false

		case r.Contains(x):
			// x lies strictly inside r: erase r and reinsert the
			// fragments above and below x, splitting r in two when
			// both are non-empty. No other stored range can
			// intersect x.
			erase = append(erase, r)
			if r.High > x.High {
				insert = append(insert, Range[T]{Low: x.High + 1, High: r.High})
			}
			if x.Low > r.Low {
				insert = append(insert, Range[T]{Low: r.Low, High: x.Low - 1})
			}
			removed = true
			return false

		case x.Contains(r):
			// r is fully covered by x: batch it for erasure and keep
			// scanning.
			swallowed = append(swallowed, r)
			return true

		case x.High < r.Low:
			// Gap: r begins past the end of x, and so does everything
			// after it.
			return false

		case x.Low > r.High:
			// r lies entirely below x. Only possible for the first
			// visited range; drop it from the pending-erasure window.
			swallowed = swallowed[:0]
			return true

		case r.High < x.High:
			// x begins inside r and extends past it: trim off the
			// high end of r. Only possible at the first overlapping
			// range, so the pending window restarts after it.
			erase = append(erase, r)
			insert = append(insert, Range[T]{Low: r.Low, High: x.Low - 1})
			swallowed = swallowed[:0]
			removed = true
			return true

		default:
			// x ends inside r and began before it: trim off the low
			// end of r. Only possible at the last overlapping range,
			// which terminates the scan. The key itself changes, so
			// this is an erase-and-reinsert rather than an update.
			erase = append(erase, r)
			insert = append(insert, Range[T]{Low: x.High + 1, High: r.High})
			removed = true
			return false
		}
	})

	if len(swallowed) > 0 {
		removed = true
	}
	for _, r := range swallowed {
		t.ranges.Delete(r)
	}
	for _, r := range erase {
		t.ranges.Delete(r)
	}
	for _, r := range insert {
		t.ranges.ReplaceOrInsert(r)
	}
	return removed, nil
}

// Ranges returns an iterator over the stored ranges in ascending order. The
// tree must not be mutated during iteration.
func (t *Tree[T]) Ranges() func(yield func(Range[T]) bool) {
	return func(yield func(Range[T]) bool) {
		t.ranges.Ascend(func(r Range[T]) bool {
			return yield(r)
		})
	}
}

// String returns a human-readable dump of the stored ranges, for debugging.
func (t *Tree[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	t.ranges.Ascend(func(r Range[T]) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(r.String())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
