package monomial

import (
	"github.com/bits-and-blooms/bitset"
)

// DivMaskBits is the fixed width of a divmask: a bit per (variable,
// threshold) bucket, packed into a single machine word-sized bitset so the
// "a.divmask AND NOT b.divmask == 0" test (§3 Divmask invariant) is one
// comparison rather than a loop over buckets.
const DivMaskBits = 32

// DivMask is a one-sided divisibility filter: if a divides b then
// a.AndNot(b) is empty. The converse does not hold -- a clear AndNot only
// means "a does not obviously fail to divide b"; callers must still run the
// real IsDivisible check.
type DivMask struct {
	bits *bitset.BitSet
}

// NewDivMask wraps a raw 32-bit word as a DivMask (used when deserializing
// or when comparing against a zero mask).
func NewDivMask(word uint32) DivMask {
	b := bitset.New(DivMaskBits)
	for i := uint(0); i < DivMaskBits; i++ {
		if word&(1<<i) != 0 {
			b.Set(i)
		}
	}
	return DivMask{bits: b}
}

// Word packs the DivMask back into a uint32 for cache-friendly storage in
// Basis.divmasks (§3 "divmasks[k]: leading-term divmask ... copy for cache
// locality").
func (d DivMask) Word() uint32 {
	var w uint32
	for i := uint(0); i < DivMaskBits; i++ {
		if d.bits.Test(i) {
			w |= 1 << i
		}
	}
	return w
}

// CanDivide is the one-sided filter test: false is a proof that a does NOT
// divide b; true means "maybe, check for real".
func (a DivMask) CanDivide(b DivMask) bool {
	diff := a.bits.Clone()
	diff.InPlaceIntersection(b.bits)
	// a can divide b only if every bucket bit set in a is also set in b,
	// i.e. a.bits is a subset of b.bits.
	return diff.Equal(a.bits)
}

// DivMap buckets each of the first ndivvars variables into ndivbits
// exponent thresholds; CreateDivMask looks a monomial's exponents up
// against these thresholds to build its DivMask.
type DivMap struct {
	NDivVars  int
	NDivBits  int
	Threshold [][]uint64 // Threshold[v][t], v < NDivVars, t < NDivBits
}

// NewDivMap builds thresholds that spread DivMaskBits bits across the first
// min(nvars, DivMaskBits) variables as evenly as possible, with per-variable
// thresholds set from observed maximum exponents (maxExpByVar), mirroring
// how a real run seeds the map from the first basis elements before any
// divmask is computed.
func NewDivMap(nvars int, maxExpByVar []uint64) *DivMap {
	ndivvars := nvars
	if ndivvars > DivMaskBits {
		ndivvars = DivMaskBits
	}
	ndivbits := 1
	if ndivvars > 0 {
		ndivbits = DivMaskBits / ndivvars
		if ndivbits < 1 {
			ndivbits = 1
		}
	}
	dm := &DivMap{NDivVars: ndivvars, NDivBits: ndivbits}
	dm.Threshold = make([][]uint64, ndivvars)
	for v := 0; v < ndivvars; v++ {
		maxExp := uint64(1)
		if v < len(maxExpByVar) && maxExpByVar[v] > 0 {
			maxExp = maxExpByVar[v]
		}
		dm.Threshold[v] = make([]uint64, ndivbits)
		for t := 0; t < ndivbits; t++ {
			// Thresholds 1, 2, ..., ndivbits spread over [1, maxExp].
			dm.Threshold[v][t] = 1 + (maxExp-1)*uint64(t)/uint64(maxGEQ(ndivbits-1, 1))
		}
	}
	return dm
}

func maxGEQ(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CreateDivMask sets bit (v,t) whenever exponent(v) >= Threshold[v][t].
func CreateDivMask(exps func(v int) uint64, dm *DivMap) DivMask {
	b := bitset.New(DivMaskBits)
	bit := uint(0)
	for v := 0; v < dm.NDivVars; v++ {
		ev := exps(v)
		for t := 0; t < dm.NDivBits; t++ {
			if ev >= dm.Threshold[v][t] {
				b.Set(bit)
			}
			bit++
		}
	}
	return DivMask{bits: b}
}
