package monomial

import (
	"errors"
	"testing"

	"github.com/consensys/groebner/groebnererr"
)

func TestPackedProductQuotientRoundTrip(t *testing.T) {
	l := NewLayout(3, 8)
	a, err := NewPacked(l, []uint64{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewPacked(l, []uint64{0, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	prod, err := Product(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{1, 3, 3}
	got := prod.Unpack()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("product = %v, want %v", got, want)
		}
	}
	if prod.TotalDeg() != a.TotalDeg()+b.TotalDeg() {
		t.Fatalf("degree not additive")
	}
	q := Quotient(prod, a)
	qExp := q.Unpack()
	bExp := b.Unpack()
	for i := range qExp {
		if qExp[i] != bExp[i] {
			t.Fatalf("quotient did not recover b: %v vs %v", qExp, bExp)
		}
	}
}

func TestPackedIsDivisibleWith(t *testing.T) {
	l := NewLayout(2, 8)
	a, _ := NewPacked(l, []uint64{3, 2})
	b, _ := NewPacked(l, []uint64{1, 2})
	q, ok := IsDivisibleWith(a, b)
	if !ok {
		t.Fatalf("expected b to divide a")
	}
	got := q.Unpack()
	if got[0] != 2 || got[1] != 0 {
		t.Fatalf("unexpected quotient %v", got)
	}

	c, _ := NewPacked(l, []uint64{0, 5})
	if _, ok := IsDivisibleWith(a, c); ok {
		t.Fatalf("expected c not to divide a")
	}
}

func TestPackedLCM(t *testing.T) {
	l := NewLayout(3, 8)
	a, _ := NewPacked(l, []uint64{3, 0, 1})
	b, _ := NewPacked(l, []uint64{1, 2, 1})
	lcm, err := LCM(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{3, 2, 1}
	got := lcm.Unpack()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LCM = %v, want %v", got, want)
		}
	}
}

func TestPackedOverflow(t *testing.T) {
	l := NewLayout(1, 4) // max exponent 15
	if _, err := NewPacked(l, []uint64{16}); !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}

	l2 := NewLayout(2, 4)
	a, _ := NewPacked(l2, []uint64{10, 0})
	b, _ := NewPacked(l2, []uint64{10, 0})
	if _, err := Product(a, b); !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		t.Fatalf("expected guard-bit overflow on product, got %v", err)
	}
}

func TestPackedLess(t *testing.T) {
	l := NewLayout(2, 8)
	x2, _ := NewPacked(l, []uint64{2, 0})
	xy, _ := NewPacked(l, []uint64{1, 1})
	if Less(x2, xy) {
		t.Fatalf("expected x^2 > xy under degrevlex")
	}
	if !Less(xy, x2) {
		t.Fatalf("expected xy < x^2 under degrevlex")
	}
}

func TestPackedArityMismatch(t *testing.T) {
	l := NewLayout(2, 8)
	if _, err := NewPacked(l, []uint64{1, 2, 3}); !errors.Is(err, groebnererr.ErrArityMismatch) {
		t.Fatalf("expected arity mismatch error, got %v", err)
	}
}
