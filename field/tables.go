package field

import (
	"fmt"
	"time"

	"galoisfield/prof"
)

// TableThreshold bounds the orders eligible for lookup tables. A table
// set costs 2*q*q + q uint64 entries, so the cap keeps the footprint
// near one megabyte.
const TableThreshold = 256

type lookupTables struct {
	add []uint64 // q*q, row-major
	mul []uint64 // q*q, row-major
	inv []uint64 // q entries; inv[0] is unused for fields
}

// HasTables reports whether lookup tables are active.
func (f *Field) HasTables() bool { return f.tab.Load() != nil }

// BuildTables precomputes addition, multiplication and inverse tables,
// making the binary operators O(1). Table generation is opt-in and only
// permitted for orders up to TableThreshold; groups mod n are refused
// because inverses do not exist for all elements. Concurrent calls are
// idempotent: the tables become visible only when fully populated.
func (f *Field) BuildTables() error {
	f.tabOnce.Do(func() {
		if !f.IsField() {
			f.tabErr = fmt.Errorf("%w: lookup tables require a field, not %s", ErrInvalidInput, f)
			return
		}
		if f.order > TableThreshold {
			f.tabErr = fmt.Errorf("%w: order %d exceeds table threshold %d", ErrInvalidInput, f.order, TableThreshold)
			return
		}
		defer prof.Track(time.Now(), fmt.Sprintf("tables(%s)", f))
		q := f.order
		t := &lookupTables{
			add: make([]uint64, q*q),
			mul: make([]uint64, q*q),
			inv: make([]uint64, q),
		}
		for a := uint64(0); a < q; a++ {
			for b := uint64(0); b < q; b++ {
				t.add[a*q+b] = f.Add(a, b)
				t.mul[a*q+b] = f.Mul(a, b)
			}
		}
		for a := uint64(1); a < q; a++ {
			inv, err := f.Inv(a)
			if err != nil {
				f.tabErr = fmt.Errorf("building inverse table for %s: %w", f, err)
				return
			}
			t.inv[a] = inv
		}
		dbg("tables built for %s (q=%d)\n", f, q)
		f.tab.Store(t)
	})
	return f.tabErr
}
