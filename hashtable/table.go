package hashtable

import (
	"math/bits"

	"github.com/consensys/groebner/monomial"
)

const defaultCapacity = 1 << 8

// Table is an open-addressed monomial -> MonomId map. A *primary* table is
// long-lived for the duration of one F4 run (basis monomials, all lcms); a
// *secondary* table is created fresh per iteration for symbolic
// preprocessing and discarded afterward. Secondary tables share the
// primary's HashVec and Ordering so hashes and comparisons stay
// cross-compatible, but MonomIds are never transferable between tables
// (§4.2).
type Table[M any] struct {
	ops      Ops[M]
	HashVec  []uint64
	NVars    int
	Ordering monomial.Ordering
	Weights  []int64
	DivMap   *monomial.DivMap

	monoms     []M
	hashvalues []Hashvalue
	index      []int32 // capacity-sized; 0 = empty slot, else MonomId+1
	load       int
	capacity   int
}

// NewTable builds a fresh primary table. hashVec must have length nvars; if
// nil, a deterministic pseudo-random vector is derived from seed.
func NewTable[M any](ops Ops[M], nvars int, ord monomial.Ordering, weights []int64, hashVec []uint64, seed uint64, capacityHint int) *Table[M] {
	if hashVec == nil {
		hashVec = deriveHashVector(nvars, seed)
	}
	cap := nextPow2(capacityHint)
	if cap < defaultCapacity {
		cap = defaultCapacity
	}
	t := &Table[M]{
		ops:      ops,
		HashVec:  hashVec,
		NVars:    nvars,
		Ordering: ord,
		Weights:  weights,
		DivMap:   monomial.NewDivMap(nvars, nil),
		capacity: cap,
		index:    make([]int32, cap),
	}
	return t
}

// NewSecondary builds a secondary table sharing the parent's hash vector,
// ordering and divmap. It starts empty: secondary tables are recreated
// every F4 iteration (§3 Lifecycles).
func NewSecondary[M any](parent *Table[M], capacityHint int) *Table[M] {
	cap := nextPow2(capacityHint)
	if cap < defaultCapacity {
		cap = defaultCapacity
	}
	return &Table[M]{
		ops:      parent.ops,
		HashVec:  parent.HashVec,
		NVars:    parent.NVars,
		Ordering: parent.Ordering,
		Weights:  parent.Weights,
		DivMap:   parent.DivMap,
		capacity: cap,
		index:    make([]int32, cap),
	}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func deriveHashVector(nvars int, seed uint64) []uint64 {
	hv := make([]uint64, nvars)
	state := seed*2685821657736338717 + 1
	for i := range hv {
		// xorshift64*; deterministic given seed, good enough dispersion for
		// a hash-vector (this is not used for anything security sensitive).
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		hv[i] = state * 2685821657736338717
		if hv[i] == 0 {
			hv[i] = 1
		}
	}
	return hv
}

// Load returns the number of distinct monomials inserted so far.
func (t *Table[M]) Load() int { return t.load }

// Capacity returns the current open-addressing table capacity.
func (t *Table[M]) Capacity() int { return t.capacity }

// Monom returns the exponent vector stored under id.
func (t *Table[M]) Monom(id MonomId) M { return t.monoms[id] }

// Value returns the Hashvalue record stored under id.
func (t *Table[M]) Value(id MonomId) Hashvalue { return t.hashvalues[id] }

// SetFlag updates the scratch flag used during symbolic preprocessing.
func (t *Table[M]) SetFlag(id MonomId, f Flag) { t.hashvalues[id].Flag = f }

// EnsureCapacity guarantees load+k <= capacity/2 before a batch insert,
// growing ahead of time as spec §4.2 requires ("before inserting a batch of
// k monomials, capacity must be ensured").
func (t *Table[M]) EnsureCapacity(k int) {
	for t.load+k > t.capacity/2 {
		t.grow()
	}
}

// Insert finds or creates the MonomId for m. After Insert, load is always
// strictly less than capacity (§4.2 invariant).
func (t *Table[M]) Insert(m M) MonomId {
	if t.load+1 > t.capacity/2 {
		t.grow()
	}
	h := t.ops.Hash(m, t.HashVec)
	return t.insertWithHash(m, h)
}

func (t *Table[M]) insertWithHash(m M, h uint64) MonomId {
	mask := uint64(t.capacity - 1)
	slot := h & mask
	for {
		cur := t.index[slot]
		if cur == 0 {
			id := MonomId(t.load)
			t.monoms = append(t.monoms, m)
			t.hashvalues = append(t.hashvalues, Hashvalue{
				Hash:    h,
				DivMask: t.ops.DivMaskOf(m, t.DivMap),
				Deg:     t.ops.TotalDeg(m),
				Flag:    UnknownPivotColumn,
			})
			t.index[slot] = int32(id) + 1
			t.load++
			return id
		}
		existing := MonomId(cur - 1)
		if t.hashvalues[existing].Hash == h && t.ops.Equal(t.monoms[existing], m) {
			return existing
		}
		slot = (slot + 1) & mask
	}
}

// InsertProduct inserts m*g without materializing g's factors separately:
// it still needs the actual product monomial (multiplier times generator),
// but computes its hash via HashProduct from the already-known hashes of
// the multiplier and g rather than re-deriving it from scratch.
func (t *Table[M]) InsertProduct(mult, g M, multHash, gHash uint64) (MonomId, error) {
	prod, err := t.ops.Product(mult, g)
	if err != nil {
		return 0, err
	}
	if t.load+1 > t.capacity/2 {
		t.grow()
	}
	h := monomial.HashProduct(multHash, gHash)
	return t.insertWithHash(prod, h), nil
}

// grow doubles capacity and rehashes every existing identifier using its
// already-stored Hashvalue.Hash -- no monomial recomputation needed,
// exactly the "cheap, no re-multiplication if hashes stored" growth path
// from §4.2.
func (t *Table[M]) grow() {
	t.capacity *= 2
	t.index = make([]int32, t.capacity)
	mask := uint64(t.capacity - 1)
	for id := 0; id < t.load; id++ {
		h := t.hashvalues[id].Hash
		slot := h & mask
		for t.index[slot] != 0 {
			slot = (slot + 1) & mask
		}
		t.index[slot] = int32(id) + 1
	}
}

// Find looks up m without inserting; returns (0, false) if absent.
func (t *Table[M]) Find(m M) (MonomId, bool) {
	h := t.ops.Hash(m, t.HashVec)
	mask := uint64(t.capacity - 1)
	slot := h & mask
	for {
		cur := t.index[slot]
		if cur == 0 {
			return 0, false
		}
		existing := MonomId(cur - 1)
		if t.hashvalues[existing].Hash == h && t.ops.Equal(t.monoms[existing], m) {
			return existing, true
		}
		slot = (slot + 1) & mask
	}
}

// IsDivisibleWith looks up whether g's monomial divides m's monomial using
// the underlying Ops, without needing the caller to know the concrete
// representation.
func (t *Table[M]) IsDivisibleWith(m, g M) (M, bool) {
	return t.ops.IsDivisibleWith(m, g)
}

// Less orders two monomials under the table's ordering.
func (t *Table[M]) Less(a, b M) bool {
	return t.ops.Less(a, b, t.Ordering, t.Weights)
}

// Ops exposes the underlying capability set, e.g. for computing a product
// ahead of insertion.
func (t *Table[M]) Ops() Ops[M] { return t.ops }
