package monomial

import (
	"errors"
	"testing"

	"github.com/consensys/groebner/groebnererr"
)

func TestDenseProductQuotientRoundTrip(t *testing.T) {
	a, err := NewDense[uint8]([]uint64{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewDense[uint8]([]uint64{0, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	prod, err := Product(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if prod.ExpVector()[0] != 1 || prod.ExpVector()[1] != 3 || prod.ExpVector()[2] != 3 {
		t.Fatalf("unexpected product %v", prod.ExpVector())
	}
	if prod.TotalDeg() != a.TotalDeg()+b.TotalDeg() {
		t.Fatalf("degree not additive over product")
	}
	q := Quotient(prod, a)
	if q.ExpVector()[0] != b.ExpVector()[0] || q.ExpVector()[1] != b.ExpVector()[1] || q.ExpVector()[2] != b.ExpVector()[2] {
		t.Fatalf("quotient did not recover b: got %v want %v", q.ExpVector(), b.ExpVector())
	}
}

func TestDenseIsDivisibleWith(t *testing.T) {
	a, _ := NewDense[uint16]([]uint64{3, 2})
	b, _ := NewDense[uint16]([]uint64{1, 2})
	q, ok := IsDivisibleWith(a, b)
	if !ok {
		t.Fatalf("expected b to divide a")
	}
	if q.ExpVector()[0] != 2 || q.ExpVector()[1] != 0 {
		t.Fatalf("unexpected quotient %v", q.ExpVector())
	}

	c, _ := NewDense[uint16]([]uint64{0, 5})
	if _, ok := IsDivisibleWith(a, c); ok {
		t.Fatalf("expected c not to divide a")
	}
}

func TestDenseLCM(t *testing.T) {
	a, _ := NewDense[uint8]([]uint64{3, 0, 1})
	b, _ := NewDense[uint8]([]uint64{1, 2, 1})
	l, err := LCM(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{3, 2, 1}
	got := l.ExpVector()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LCM = %v, want %v", got, want)
		}
	}
}

func TestDenseOverflow(t *testing.T) {
	_, err := NewDense[uint8]([]uint64{256})
	if !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}

	a, _ := NewDense[uint8]([]uint64{200})
	b, _ := NewDense[uint8]([]uint64{100})
	if _, err := Product(a, b); !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		t.Fatalf("expected product overflow error, got %v", err)
	}
}

func TestDenseHashAdditiveOverProduct(t *testing.T) {
	hashVec := []uint64{7, 13, 101}
	a, _ := NewDense[uint16]([]uint64{1, 0, 2})
	b, _ := NewDense[uint16]([]uint64{2, 1, 0})
	prod, err := Product(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ha := Hash(a.ExpVector(), hashVec)
	hb := Hash(b.ExpVector(), hashVec)
	hp := Hash(prod.ExpVector(), hashVec)
	if hp != HashProduct(ha, hb) {
		t.Fatalf("hash not additive over product: hp=%d, ha+hb=%d", hp, ha+hb)
	}
}

func TestDenseLess(t *testing.T) {
	a, _ := NewDense[uint8]([]uint64{1, 0})
	b, _ := NewDense[uint8]([]uint64{0, 2})
	if !Less(a, b, DegRevLex, nil) {
		t.Fatalf("expected a < b under degrevlex by degree")
	}
}
