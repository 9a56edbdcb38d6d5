package monomial

// Ordering identifies a monomial ordering. Packed representations only ever
// carry DegRevLex; Dense and Sparse representations support the full set.
type Ordering int

const (
	// DegRevLex is the graded reverse-lexicographic order: compare total
	// degree first, then break ties reverse-lexicographically (the last
	// variable in which the exponents differ decides, and the monomial with
	// the *smaller* exponent there is the greater one).
	DegRevLex Ordering = iota
	// Lex is plain lexicographic order on the exponent vector.
	Lex
	// DegLex is graded lexicographic: compare total degree first, then break
	// ties lexicographically (first differing variable, larger exponent wins).
	DegLex
	// Weighted is a product/weighted order: compare a weighted sum of
	// exponents first, then break ties by Lex. Requires non-nil Weights.
	Weighted
)

func (o Ordering) String() string {
	switch o {
	case DegRevLex:
		return "degrevlex"
	case Lex:
		return "lex"
	case DegLex:
		return "deglex"
	case Weighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// SupportsPacked reports whether a packed monomial representation can carry
// this ordering. Per spec only degrevlex is packed-representable; everything
// else needs a dense or sparse exponent vector.
func (o Ordering) SupportsPacked() bool {
	return o == DegRevLex
}

// compareExpsLex compares two exponent vectors component by component,
// first difference decides. Returns -1, 0, +1 like bytes.Compare.
func compareExpsLex(a, b []uint64) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// compareExpsRevLex compares two exponent vectors from the last component
// backward; at the first differing component, the vector with the *smaller*
// exponent there compares greater (this is the reverse-lex tie-break used
// after degree comparison in degrevlex).
func compareExpsRevLex(a, b []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// compareExpsWeighted compares by a weighted sum of exponents, then falls
// back to Lex on ties.
func compareExpsWeighted(a, b []uint64, weights []int64) int {
	var wa, wb int64
	for i := range a {
		wa += int64(a[i]) * weights[i]
		wb += int64(b[i]) * weights[i]
	}
	if wa != wb {
		if wa < wb {
			return -1
		}
		return 1
	}
	return compareExpsLex(a, b)
}

// Compare orders two exponent vectors of equal length (with precomputed
// total degrees dega, degb) according to ord. Weighted orderings consult
// weights, which may be nil for every other ordering.
func Compare(ord Ordering, a, b []uint64, dega, degb uint64, weights []int64) int {
	switch ord {
	case Lex:
		return compareExpsLex(a, b)
	case DegLex:
		if dega != degb {
			if dega < degb {
				return -1
			}
			return 1
		}
		return compareExpsLex(a, b)
	case DegRevLex:
		if dega != degb {
			if dega < degb {
				return -1
			}
			return 1
		}
		return compareExpsRevLex(a, b)
	case Weighted:
		return compareExpsWeighted(a, b, weights)
	default:
		panic("monomial: unknown ordering")
	}
}
