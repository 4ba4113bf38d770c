package rangetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FuzzTreeDifferential decodes the input as a stream of (op, a, b) triples
// applied to a Tree[uint8] and to a reference set of individual values. The
// uint8 domain keeps operations colliding constantly and makes the domain
// limits 0 and 255 easy for the fuzzer to reach. After every operation the
// tree must agree with the reference on size, membership of all 256 values,
// bounds, and its structural invariants.
func FuzzTreeDifferential(f *testing.F) {
	f.Add([]byte{0, 1, 4})
	f.Add([]byte{1, 5, 10, 1, 15, 20, 1, 11, 14})
	f.Add([]byte{1, 20, 27, 3, 23, 23})
	f.Add([]byte{1, 20, 27, 3, 15, 21, 3, 26, 30})
	f.Add([]byte{1, 0, 255, 2, 0, 0, 2, 255, 255, 3, 100, 200})
	f.Add([]byte{0, 0, 0, 0, 2, 0, 0, 4, 0, 1, 1, 3})

	f.Fuzz(func(t *testing.T, data []byte) {
		tr := New[uint8]()
		ref := make(map[uint8]struct{})

		for len(data) >= 3 {
			op, a, b := data[0]%4, data[1], data[2]
			data = data[3:]
			if b < a {
				a, b = b, a
			}

			switch op {
			case 0: // add single value
				require.NoError(t, tr.Add(a))
				ref[a] = struct{}{}
			case 1: // add range
				require.NoError(t, tr.AddRange(a, b))
				for v := int(a); v <= int(b); v++ {
					ref[uint8(v)] = struct{}{}
				}
			case 2: // remove single value
				_, present := ref[a]
				assert.Equal(t, present, tr.Remove(a))
				delete(ref, a)
			case 3: // remove range
				want := false
				for v := int(a); v <= int(b); v++ {
					if _, ok := ref[uint8(v)]; ok {
						want = true
					}
					delete(ref, uint8(v))
				}
				removed, err := tr.RemoveRange(a, b)
				require.NoError(t, err)
				assert.Equal(t, want, removed, "remove [%d, %d] on %v", a, b, tr)
			}

			require.Equal(t, uint64(len(ref)), tr.Size(), "after op %d [%d, %d]: %v", op, a, b, tr)
			for v := 0; v < 256; v++ {
				_, want := ref[uint8(v)]
				if got := tr.Contains(uint8(v)); got != want {
					t.Fatalf("contains(%d) = %v, want %v; tree %v", v, got, want, tr)
				}
			}

			wantLo, wantHi, any := refBounds(ref)
			lo, ok := tr.Lowest()
			require.Equal(t, any, ok)
			hi, _ := tr.Highest()
			if any {
				require.Equal(t, wantLo, lo)
				require.Equal(t, wantHi, hi)
			}

			checkInvariants(t, tr)
		}
	})
}
