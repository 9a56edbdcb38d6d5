package monomial

import (
	"math/bits"

	"github.com/consensys/groebner/groebnererr"
)

// UintExp is the capability constraint for an exponent component's storage
// type, mirroring the teacher's constraint.Element generic split between
// narrow (U32) and wide (U64) field-element limbs: here it splits exponent
// storage by how many bits a single variable's exponent is allowed to need.
type UintExp interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// maxOf returns the maximum value representable by B.
func maxOf[B UintExp]() uint64 {
	var z B
	return uint64(1)<<(8*sizeOf(z)) - 1
}

func sizeOf[B UintExp](z B) uintptr {
	switch any(z).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// Dense is a straightforward exponent vector, one component per variable,
// supporting every ordering (Lex, DegLex, DegRevLex, Weighted). It is the
// fallback representation when monoms=dense is requested, or when a packed
// representation would overflow.
type Dense[B UintExp] struct {
	Exps []B
	Deg  uint64
}

// NewDense constructs a Dense monomial from a coefficient vector, checking
// that every component fits in B and that the total degree does not
// overflow a uint64.
func NewDense[B UintExp](e []uint64) (Dense[B], error) {
	maxComp := maxOf[B]()
	out := Dense[B]{Exps: make([]B, len(e))}
	var deg uint64
	for i, ei := range e {
		if ei > maxComp {
			return Dense[B]{}, groebnererr.ErrMonomialOverflow
		}
		newDeg := deg + ei
		if newDeg < deg {
			return Dense[B]{}, groebnererr.ErrMonomialOverflow
		}
		deg = newDeg
		out.Exps[i] = B(ei)
	}
	out.Deg = deg
	return out, nil
}

// TotalDeg returns the cached total degree in O(1).
func (d Dense[B]) TotalDeg() uint64 { return d.Deg }

// NVars returns the number of variables.
func (d Dense[B]) NVars() int { return len(d.Exps) }

// At returns the exponent of variable i.
func (d Dense[B]) At(i int) uint64 { return uint64(d.Exps[i]) }

// ExpVector materializes the exponent vector as []uint64, for use by the
// shared ordering/hash helpers.
func (d Dense[B]) ExpVector() []uint64 {
	out := make([]uint64, len(d.Exps))
	for i, e := range d.Exps {
		out[i] = uint64(e)
	}
	return out
}

// Product computes a*b componentwise, checking for per-component and
// degree overflow.
func Product[B UintExp](a, b Dense[B]) (Dense[B], error) {
	maxComp := maxOf[B]()
	out := Dense[B]{Exps: make([]B, len(a.Exps))}
	for i := range a.Exps {
		s := uint64(a.Exps[i]) + uint64(b.Exps[i])
		if s > maxComp {
			return Dense[B]{}, groebnererr.ErrMonomialOverflow
		}
		out.Exps[i] = B(s)
	}
	deg := a.Deg + b.Deg
	if deg < a.Deg {
		return Dense[B]{}, groebnererr.ErrMonomialOverflow
	}
	out.Deg = deg
	return out, nil
}

// Quotient computes a/b componentwise. The caller guarantees b divides a;
// this function does not re-check divisibility.
func Quotient[B UintExp](a, b Dense[B]) Dense[B] {
	out := Dense[B]{Exps: make([]B, len(a.Exps)), Deg: a.Deg - b.Deg}
	for i := range a.Exps {
		out.Exps[i] = a.Exps[i] - b.Exps[i]
	}
	return out
}

// LCM computes the componentwise max of a and b, checking for overflow.
func LCM[B UintExp](a, b Dense[B]) (Dense[B], error) {
	maxComp := maxOf[B]()
	out := Dense[B]{Exps: make([]B, len(a.Exps))}
	var deg uint64
	for i := range a.Exps {
		m := a.Exps[i]
		if b.Exps[i] > m {
			m = b.Exps[i]
		}
		if uint64(m) > maxComp {
			return Dense[B]{}, groebnererr.ErrMonomialOverflow
		}
		out.Exps[i] = m
		deg += uint64(m)
	}
	out.Deg = deg
	return out, nil
}

// IsDivisible reports whether b divides a, i.e. a_i >= b_i for every i.
func IsDivisible[B UintExp](a, b Dense[B]) bool {
	if a.Deg < b.Deg {
		return false
	}
	for i := range a.Exps {
		if a.Exps[i] < b.Exps[i] {
			return false
		}
	}
	return true
}

// IsDivisibleWith reports whether b divides a and, if so, also returns a/b.
func IsDivisibleWith[B UintExp](a, b Dense[B]) (Dense[B], bool) {
	if !IsDivisible(a, b) {
		return Dense[B]{}, false
	}
	return Quotient(a, b), true
}

// Hash computes the inner product of the exponent vector with hashVec,
// wrapping modulo 2^64. This satisfies hash(a*b) = hash(a)+hash(b) because
// addition mod 2^64 is exactly what Go's uint64 arithmetic already does.
func Hash(e []uint64, hashVec []uint64) uint64 {
	var h uint64
	for i, ei := range e {
		h += ei * hashVec[i]
	}
	return h
}

// HashProduct computes the hash of a product monomial from the hashes of
// its factors, without materializing the product.
func HashProduct(ha, hb uint64) uint64 { return ha + hb }

// Less reports whether a sorts strictly before b under ord.
func Less[B UintExp](a, b Dense[B], ord Ordering, weights []int64) bool {
	return Compare(ord, a.ExpVector(), b.ExpVector(), a.Deg, b.Deg, weights) < 0
}

// bitLen is a small wrapper around bits.Len64; nothing in the package
// calls it at present.
func bitLen(x uint64) int { return bits.Len64(x) }
