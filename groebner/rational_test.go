package groebner

import (
	"math/big"
	"testing"

	"github.com/consensys/groebner/f4"
	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/monomial"
)

func rc(num, den int64) RationalCoeff {
	return RationalCoeff{Num: big.NewInt(num), Den: big.NewInt(den)}
}

// rationalLinearSystem is the ideal <x - 1/2, y - 1/3>, already its own
// reduced lex Groebner basis (two independent linear generators), chosen to
// exercise denominator clearing (2 and 3) and rational reconstruction with
// an easily hand-verified answer.
func rationalLinearSystem() []RationalPoly {
	return []RationalPoly{
		{Monoms: [][]uint64{{1, 0}, {0, 0}}, Coeffs: []RationalCoeff{rc(1, 1), rc(-1, 2)}}, // x - 1/2
		{Monoms: [][]uint64{{0, 1}, {0, 0}}, Coeffs: []RationalCoeff{rc(1, 1), rc(-1, 3)}}, // y - 1/3
	}
}

func findRationalByLead(t *testing.T, b RationalBasis, lead []uint64) RationalPoly {
	t.Helper()
	for _, p := range b.Polys {
		if len(p.Monoms[0]) != len(lead) {
			continue
		}
		match := true
		for i := range lead {
			if p.Monoms[0][i] != lead[i] {
				match = false
				break
			}
		}
		if match {
			return p
		}
	}
	t.Fatalf("no rational basis polynomial with leading monomial %v found in %+v", lead, b.Polys)
	return RationalPoly{}
}

func TestGroebnerQRecoversRationalCoefficients(t *testing.T) {
	opts := NewOptions(f4.WithOrdering(monomial.Lex), f4.WithThreaded(false))
	b, err := GroebnerQ(rationalLinearSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Polys) != 2 {
		t.Fatalf("expected 2 basis elements, got %d", len(b.Polys))
	}

	px := findRationalByLead(t, b, []uint64{1, 0})
	if px.Coeffs[1].Num.Cmp(big.NewInt(-1)) != 0 || px.Coeffs[1].Den.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("x term's constant coefficient = %s/%s, want -1/2", px.Coeffs[1].Num, px.Coeffs[1].Den)
	}

	py := findRationalByLead(t, b, []uint64{0, 1})
	if py.Coeffs[1].Num.Cmp(big.NewInt(-1)) != 0 || py.Coeffs[1].Den.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("y term's constant coefficient = %s/%s, want -1/3", py.Coeffs[1].Num, py.Coeffs[1].Den)
	}
}

func TestGroebnerQLearnAndApplyStrategy(t *testing.T) {
	opts := NewOptions(f4.WithOrdering(monomial.Lex), f4.WithThreaded(false)).WithModularStrategy(LearnAndApply)
	b, err := GroebnerQ(rationalLinearSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Polys) != 2 {
		t.Fatalf("expected 2 basis elements under the learn-and-apply strategy, got %d", len(b.Polys))
	}
}

func TestGroebnerQEmptyInputError(t *testing.T) {
	_, err := GroebnerQ(nil, NewOptions())
	if err != groebnererr.ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestGroebnerQArityMismatchError(t *testing.T) {
	polys := []RationalPoly{
		{Monoms: [][]uint64{{1, 0}}, Coeffs: []RationalCoeff{rc(1, 1)}},
		{Monoms: [][]uint64{{1, 0, 0}}, Coeffs: []RationalCoeff{rc(1, 1)}},
	}
	_, err := GroebnerQ(polys, NewOptions())
	if err != groebnererr.ErrArityMismatch {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestClearDenominatorsProducesCoprimeIntegerCoefficients(t *testing.T) {
	intPolys, excluded := clearDenominators(rationalLinearSystem())
	if len(intPolys) != 2 {
		t.Fatalf("expected 2 integer polynomials, got %d", len(intPolys))
	}
	// x - 1/2 clears to 2x - 1.
	if intPolys[0].Coeffs[0].Cmp(big.NewInt(2)) != 0 || intPolys[0].Coeffs[1].Cmp(big.NewInt(-1)) != 0 {
		t.Fatalf("x-1/2 cleared = %v, want [2 -1]", intPolys[0].Coeffs)
	}
	// y - 1/3 clears to 3y - 1.
	if intPolys[1].Coeffs[0].Cmp(big.NewInt(3)) != 0 || intPolys[1].Coeffs[1].Cmp(big.NewInt(-1)) != 0 {
		t.Fatalf("y-1/3 cleared = %v, want [3 -1]", intPolys[1].Coeffs)
	}
	if len(excluded) != 2 {
		t.Fatalf("expected one excluded leading coefficient per polynomial, got %d", len(excluded))
	}
}

func TestReduceModPrime(t *testing.T) {
	intPolys, _ := clearDenominators(rationalLinearSystem())
	reduced := reduceModPrime(intPolys, 7)
	// 2x - 1 mod 7 -> coefficients {2, 6}.
	if reduced[0].Coeffs[0] != 2 || reduced[0].Coeffs[1] != 6 {
		t.Fatalf("2x-1 mod 7 = %v, want [2 6]", reduced[0].Coeffs)
	}
	// 3y - 1 mod 7 -> coefficients {3, 6}.
	if reduced[1].Coeffs[0] != 3 || reduced[1].Coeffs[1] != 6 {
		t.Fatalf("3y-1 mod 7 = %v, want [3 6]", reduced[1].Coeffs)
	}
}
