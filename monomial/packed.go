package monomial

import (
	"github.com/consensys/groebner/groebnererr"
)

// Layout describes how a degrevlex-favourable packed monomial lays exponents
// across 64-bit words: the first slot of the first word is reserved for the
// total degree (§3 "packed variants ... the first component of the first
// word reserved for the total degree"); every other slot holds one
// variable's exponent, in variable order. Each slot reserves one guard bit
// above its data bits, which lets is_divisible and product/lcm run as plain
// word arithmetic (a SWAR trick: bias the minuend's guard bits to 1 before
// subtracting, then a surviving guard bit means no lane borrowed).
type Layout struct {
	NVars       int
	ExpBits     uint // data bits per exponent lane
	SlotBits    uint // ExpBits + 1 guard bit
	SlotsPerWord int
	NWords      int
	MaxExp      uint64
	MaxDeg      uint64
	guardMasks  []uint64 // one per word: OR of each lane's guard bit
	slotOfVar   []int    // which word a variable's exponent lives in
	shiftOfVar  []uint   // bit offset of that variable's exponent within its word
}

// NewLayout builds a packed Layout for nvars variables using expBits data
// bits per exponent (commonly 4, 8, 16 or 21 so that 2..4 words cover
// typical systems -- the "PackedTuple1..4" family from the spec collapses
// into "however many words NewLayout computes").
func NewLayout(nvars int, expBits uint) *Layout {
	if expBits == 0 || expBits >= 63 {
		panic("monomial: expBits out of range")
	}
	slotBits := expBits + 1
	slotsPerWord := 64 / int(slotBits)
	if slotsPerWord < 1 {
		slotsPerWord = 1
	}
	l := &Layout{
		NVars:        nvars,
		ExpBits:      expBits,
		SlotBits:     slotBits,
		SlotsPerWord: slotsPerWord,
		MaxExp:       (uint64(1) << expBits) - 1,
	}
	l.MaxDeg = l.MaxExp
	l.slotOfVar = make([]int, nvars)
	l.shiftOfVar = make([]uint, nvars)

	// word 0, slot 0 is the degree; variables start at word 0 slot 1.
	slot := 1
	word := 0
	for v := 0; v < nvars; v++ {
		if slot >= slotsPerWord {
			slot = 0
			word++
		}
		l.slotOfVar[v] = word
		l.shiftOfVar[v] = uint(slot) * slotBits
		slot++
	}
	l.NWords = word + 1
	l.guardMasks = make([]uint64, l.NWords)
	// degree guard bit, word 0 slot 0.
	l.guardMasks[0] |= uint64(1) << expBits
	for v := 0; v < nvars; v++ {
		l.guardMasks[l.slotOfVar[v]] |= uint64(1) << (l.shiftOfVar[v] + expBits)
	}
	return l
}

// Packed is a monomial packed according to a shared Layout. Two Packed
// values are only comparable/combinable if they share the same *Layout.
type Packed struct {
	Layout *Layout
	Words  []uint64
}

// NewPacked constructs a Packed monomial from a coefficient vector.
func NewPacked(l *Layout, e []uint64) (Packed, error) {
	if len(e) != l.NVars {
		return Packed{}, groebnererr.ErrArityMismatch
	}
	p := Packed{Layout: l, Words: make([]uint64, l.NWords)}
	var deg uint64
	for v, ev := range e {
		if ev > l.MaxExp {
			return Packed{}, groebnererr.ErrMonomialOverflow
		}
		newDeg := deg + ev
		if newDeg < deg || newDeg > l.MaxDeg {
			return Packed{}, groebnererr.ErrMonomialOverflow
		}
		deg = newDeg
		p.Words[l.slotOfVar[v]] |= ev << l.shiftOfVar[v]
	}
	p.Words[0] |= deg // degree occupies bits [0, ExpBits) of word 0
	return p, nil
}

// TotalDeg reads the reserved degree slot in O(1).
func (p Packed) TotalDeg() uint64 {
	return p.Words[0] & p.Layout.MaxExp
}

// At extracts the exponent of variable v.
func (p Packed) At(v int) uint64 {
	l := p.Layout
	return (p.Words[l.slotOfVar[v]] >> l.shiftOfVar[v]) & l.MaxExp
}

// Unpack materializes the full exponent vector, for use by the shared
// ordering/hash helpers and by the dense fallback path on overflow.
func (p Packed) Unpack() []uint64 {
	out := make([]uint64, p.Layout.NVars)
	for v := range out {
		out[v] = p.At(v)
	}
	return out
}

// Product computes a*b lane-by-lane, word at a time, detecting overflow via
// the guard bits: if adding sets any guard bit, some lane's data bits
// overflowed expBits.
func Product(a, b Packed) (Packed, error) {
	l := a.Layout
	out := Packed{Layout: l, Words: make([]uint64, l.NWords)}
	for w := 0; w < l.NWords; w++ {
		sum := a.Words[w] + b.Words[w]
		if sum&l.guardMasks[w] != 0 {
			return Packed{}, groebnererr.ErrMonomialOverflow
		}
		out.Words[w] = sum
	}
	return out, nil
}

// Quotient computes a/b lane-by-lane. The caller guarantees b divides a.
func Quotient(a, b Packed) Packed {
	l := a.Layout
	out := Packed{Layout: l, Words: make([]uint64, l.NWords)}
	for w := 0; w < l.NWords; w++ {
		out.Words[w] = a.Words[w] - b.Words[w]
	}
	return out
}

// LCM computes the componentwise max of a and b, one lane at a time. There
// is no single-word SWAR max trick as clean as the subtraction trick used
// by IsDivisible, so LCM unpacks, maxes, and repacks -- still O(nvars), just
// without the word-level shortcut.
func LCM(a, b Packed) (Packed, error) {
	l := a.Layout
	ea, eb := a.Unpack(), b.Unpack()
	e := make([]uint64, l.NVars)
	for i := range e {
		if ea[i] > eb[i] {
			e[i] = ea[i]
		} else {
			e[i] = eb[i]
		}
	}
	return NewPacked(l, e)
}

// isDivisibleWord tests one word of the SWAR divisibility check: bias a's
// guard bits to 1, subtract b, and see if every guard bit is still set (a
// cleared guard bit means that lane's subtraction borrowed, i.e. a_i < b_i).
func isDivisibleWord(aw, bw, guard uint64) bool {
	biased := aw | guard
	diff := biased - bw
	return diff&guard == guard
}

// IsDivisible reports whether b divides a (a_i >= b_i for all i), using the
// word-level SWAR test described on Layout.
func IsDivisible(a, b Packed) bool {
	l := a.Layout
	for w := 0; w < l.NWords; w++ {
		if !isDivisibleWord(a.Words[w], b.Words[w], l.guardMasks[w]) {
			return false
		}
	}
	return true
}

// IsDivisibleWith reports whether b divides a and, if so, also returns a/b.
func IsDivisibleWith(a, b Packed) (Packed, bool) {
	if !IsDivisible(a, b) {
		return Packed{}, false
	}
	return Quotient(a, b), true
}

// Hash computes the exponent/hash-vector inner product; packed monomials
// unpack first since the hash vector is indexed per variable, not per slot.
func (p Packed) Hash(hashVec []uint64) uint64 {
	return Hash(p.Unpack(), hashVec)
}

// Less reports whether a sorts strictly before b under degrevlex -- the
// only ordering a packed representation can carry.
func Less(a, b Packed) bool {
	da, db := a.TotalDeg(), b.TotalDeg()
	if da != db {
		return da < db
	}
	return compareExpsRevLex(a.Unpack(), b.Unpack()) < 0
}
