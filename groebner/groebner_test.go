package groebner

import (
	"testing"

	"github.com/consensys/groebner/f4"
	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/monomial"
)

// lexSystem is the classic ideal <x^2 - y, xy - 1> over F7 whose reduced
// lex Groebner basis is {x - y^2, y^3 - 1}.
func lexSystem() []Poly {
	return []Poly{
		{Monoms: [][]uint64{{2, 0}, {0, 1}}, Coeffs: []uint64{1, 6}}, // x^2 - y
		{Monoms: [][]uint64{{1, 1}, {0, 0}}, Coeffs: []uint64{1, 6}}, // xy - 1
	}
}

func lexOptions() Options {
	return NewOptions(f4.WithOrdering(monomial.Lex), f4.WithThreaded(false)).WithPrime(7)
}

func findByLead(t *testing.T, b Basis, lead []uint64) Poly {
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
	t.Fatalf("no basis polynomial with leading monomial %v found in %+v", lead, b.Polys)
	return Poly{}
}

func TestGroebnerKnownLexBasis(t *testing.T) {
	b, err := Groebner(lexSystem(), lexOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Polys) != 2 {
		t.Fatalf("expected 2 basis elements, got %d", len(b.Polys))
	}
	findByLead(t, b, []uint64{1, 0}) // x - y^2
	findByLead(t, b, []uint64{0, 3}) // y^3 - 1
}

func TestIsGroebnerTrueOnComputedBasis(t *testing.T) {
	opts := lexOptions()
	b, err := Groebner(lexSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := IsGroebner(b.Polys, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected the computed basis to report true from IsGroebner")
	}
}

func TestIsGroebnerFalseOnRawGenerators(t *testing.T) {
	ok, err := IsGroebner(lexSystem(), lexOptions())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected raw, un-completed generators to not be a Groebner basis")
	}
}

func TestNormalFormReducesMemberToZero(t *testing.T) {
	opts := lexOptions()
	b, err := Groebner(lexSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}
	reduced, err := NormalForm([]Poly{lexSystem()[0]}, b, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(reduced[0].Monoms) != 0 {
		t.Fatalf("expected x^2-y to reduce to zero against the computed basis, got %+v", reduced[0])
	}
}

func TestGroebnerLearnThenApply(t *testing.T) {
	opts := lexOptions()
	tr, learned, err := GroebnerLearn(lexSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}

	ok, applied, err := GroebnerApply(tr, lexSystem(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected Apply to succeed replaying the identical system")
	}
	if len(applied.Polys) != len(learned.Polys) {
		t.Fatalf("Apply basis has %d polys, Learn basis has %d", len(applied.Polys), len(learned.Polys))
	}
}

func TestGroebnerEmptyInputError(t *testing.T) {
	_, err := Groebner(nil, lexOptions())
	if err != groebnererr.ErrEmptyInput {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestGroebnerArityMismatchError(t *testing.T) {
	polys := []Poly{
		{Monoms: [][]uint64{{1, 0}}, Coeffs: []uint64{1}},
		{Monoms: [][]uint64{{1, 0, 0}}, Coeffs: []uint64{1}},
	}
	_, err := Groebner(polys, lexOptions())
	if err != groebnererr.ErrArityMismatch {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestGroebnerUnsupportedOrderingForPacked(t *testing.T) {
	opts := NewOptions(f4.WithOrdering(monomial.Lex), f4.WithMonoms(f4.MonomPacked)).WithPrime(7)
	_, err := Groebner(lexSystem(), opts)
	if err != groebnererr.ErrUnsupportedOrdering {
		t.Fatalf("expected ErrUnsupportedOrdering, got %v", err)
	}
}

func TestGroebnerDegRevLexUsesPackedByDefault(t *testing.T) {
	opts := NewOptions().WithPrime(7)
	if kind, err := dispatchMonoms(opts); err != nil || kind != f4.MonomPacked {
		t.Fatalf("expected default DegRevLex options to dispatch to packed monomials, got %v (err %v)", kind, err)
	}
	polys := []Poly{
		{Monoms: [][]uint64{{1, 0}, {0, 0}}, Coeffs: []uint64{1, 6}}, // x - 1
		{Monoms: [][]uint64{{0, 1}, {0, 0}}, Coeffs: []uint64{1, 6}}, // y - 1
	}
	b, err := Groebner(polys, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Polys) != 2 {
		t.Fatalf("expected 2 basis elements for two coprime linear generators, got %d", len(b.Polys))
	}
}
