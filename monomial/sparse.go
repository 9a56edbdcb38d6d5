package monomial

import (
	"sort"

	"github.com/consensys/groebner/groebnererr"
)

// Term is one (variable, exponent) pair of a Sparse monomial.
type Term struct {
	Var int
	Exp uint64
}

// Sparse represents a monomial as a sorted list of (variable, exponent)
// pairs with all-zero variables omitted. It is used only off the F4 hot
// path, for monoms=sparse / very-high-variable-count configurations where a
// dense or packed vector would waste memory.
type Sparse struct {
	NVars int
	Terms []Term // sorted by Var ascending
	Deg   uint64
}

// NewSparse constructs a Sparse monomial from a coefficient vector.
func NewSparse(e []uint64) (Sparse, error) {
	s := Sparse{NVars: len(e)}
	var deg uint64
	for v, ev := range e {
		if ev == 0 {
			continue
		}
		newDeg := deg + ev
		if newDeg < deg {
			return Sparse{}, groebnererr.ErrMonomialOverflow
		}
		deg = newDeg
		s.Terms = append(s.Terms, Term{Var: v, Exp: ev})
	}
	s.Deg = deg
	return s, nil
}

// TotalDeg returns the cached total degree.
func (s Sparse) TotalDeg() uint64 { return s.Deg }

// At returns the exponent of variable v, 0 if absent.
func (s Sparse) At(v int) uint64 {
	i := sort.Search(len(s.Terms), func(i int) bool { return s.Terms[i].Var >= v })
	if i < len(s.Terms) && s.Terms[i].Var == v {
		return s.Terms[i].Exp
	}
	return 0
}

// ExpVector expands to a dense []uint64, for use by the shared comparison
// helpers; sparse representations trade this O(nvars) expansion for a much
// smaller resting memory footprint.
func (s Sparse) ExpVector() []uint64 {
	out := make([]uint64, s.NVars)
	for _, t := range s.Terms {
		out[t.Var] = t.Exp
	}
	return out
}

// mergeTerms merges two sorted term lists applying combine to overlapping
// exponents and keeping non-overlapping ones as-is (with the identity
// supplied for the side that's missing).
func mergeTerms(a, b []Term, combine func(ea, eb uint64) (uint64, error)) ([]Term, error) {
	out := make([]Term, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Var < b[j].Var:
			e, err := combine(a[i].Exp, 0)
			if err != nil {
				return nil, err
			}
			if e != 0 {
				out = append(out, Term{Var: a[i].Var, Exp: e})
			}
			i++
		case a[i].Var > b[j].Var:
			e, err := combine(0, b[j].Exp)
			if err != nil {
				return nil, err
			}
			if e != 0 {
				out = append(out, Term{Var: b[j].Var, Exp: e})
			}
			j++
		default:
			e, err := combine(a[i].Exp, b[j].Exp)
			if err != nil {
				return nil, err
			}
			if e != 0 {
				out = append(out, Term{Var: a[i].Var, Exp: e})
			}
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		e, err := combine(a[i].Exp, 0)
		if err != nil {
			return nil, err
		}
		if e != 0 {
			out = append(out, Term{Var: a[i].Var, Exp: e})
		}
	}
	for ; j < len(b); j++ {
		e, err := combine(0, b[j].Exp)
		if err != nil {
			return nil, err
		}
		if e != 0 {
			out = append(out, Term{Var: b[j].Var, Exp: e})
		}
	}
	return out, nil
}

// SparseProduct computes a*b, checking for overflow.
func SparseProduct(a, b Sparse) (Sparse, error) {
	terms, err := mergeTerms(a.Terms, b.Terms, func(ea, eb uint64) (uint64, error) {
		s := ea + eb
		if s < ea {
			return 0, groebnererr.ErrMonomialOverflow
		}
		return s, nil
	})
	if err != nil {
		return Sparse{}, err
	}
	deg := a.Deg + b.Deg
	if deg < a.Deg {
		return Sparse{}, groebnererr.ErrMonomialOverflow
	}
	return Sparse{NVars: a.NVars, Terms: terms, Deg: deg}, nil
}

// SparseLCM computes the componentwise max of a and b.
func SparseLCM(a, b Sparse) (Sparse, error) {
	terms, err := mergeTerms(a.Terms, b.Terms, func(ea, eb uint64) (uint64, error) {
		if ea > eb {
			return ea, nil
		}
		return eb, nil
	})
	if err != nil {
		return Sparse{}, err
	}
	var deg uint64
	for _, t := range terms {
		deg += t.Exp
	}
	return Sparse{NVars: a.NVars, Terms: terms, Deg: deg}, nil
}

// SparseQuotient computes a/b. The caller guarantees b divides a.
func SparseQuotient(a, b Sparse) Sparse {
	terms, _ := mergeTerms(a.Terms, b.Terms, func(ea, eb uint64) (uint64, error) {
		return ea - eb, nil
	})
	return Sparse{NVars: a.NVars, Terms: terms, Deg: a.Deg - b.Deg}
}

// SparseIsDivisible reports whether b divides a.
func SparseIsDivisible(a, b Sparse) bool {
	if a.Deg < b.Deg {
		return false
	}
	for _, t := range b.Terms {
		if a.At(t.Var) < t.Exp {
			return false
		}
	}
	return true
}

// SparseIsDivisibleWith reports whether b divides a and, if so, also
// returns a/b.
func SparseIsDivisibleWith(a, b Sparse) (Sparse, bool) {
	if !SparseIsDivisible(a, b) {
		return Sparse{}, false
	}
	return SparseQuotient(a, b), true
}

// Hash computes the exponent/hash-vector inner product over the nonzero terms only.
func (s Sparse) Hash(hashVec []uint64) uint64 {
	var h uint64
	for _, t := range s.Terms {
		h += t.Exp * hashVec[t.Var]
	}
	return h
}

// SparseLess reports whether a sorts strictly before b under ord.
func SparseLess(a, b Sparse, ord Ordering, weights []int64) bool {
	return Compare(ord, a.ExpVector(), b.ExpVector(), a.Deg, b.Deg, weights) < 0
}
