package monomial

import "testing"

func TestCompareLex(t *testing.T) {
	a := []uint64{1, 0, 2}
	b := []uint64{1, 1, 0}
	if Compare(Lex, a, b, 3, 2, nil) >= 0 {
		t.Fatalf("expected a < b under lex")
	}
	if Compare(Lex, a, a, 3, 3, nil) != 0 {
		t.Fatalf("expected equal monomial to compare 0")
	}
}

func TestCompareDegLex(t *testing.T) {
	a := []uint64{0, 3}
	b := []uint64{2, 0}
	if Compare(DegLex, a, b, 3, 2, nil) <= 0 {
		t.Fatalf("expected higher degree to win regardless of lex order")
	}
}

func TestCompareDegRevLex(t *testing.T) {
	// x^2 vs x*y at degree 2, 2 vars: degrevlex picks the monomial whose
	// last-differing exponent is smaller as the greater one.
	x2 := []uint64{2, 0}
	xy := []uint64{1, 1}
	if Compare(DegRevLex, x2, xy, 2, 2, nil) <= 0 {
		t.Fatalf("expected x^2 > xy under degrevlex")
	}
}

func TestCompareWeighted(t *testing.T) {
	weights := []int64{1, 10}
	a := []uint64{5, 0}
	b := []uint64{0, 1}
	if Compare(Weighted, a, b, 5, 1, weights) >= 0 {
		t.Fatalf("expected a < b under these weights")
	}
}

func TestSupportsPacked(t *testing.T) {
	if !DegRevLex.SupportsPacked() {
		t.Fatalf("degrevlex must support packed")
	}
	for _, ord := range []Ordering{Lex, DegLex, Weighted} {
		if ord.SupportsPacked() {
			t.Fatalf("%v must not support packed", ord)
		}
	}
}

func TestOrderingString(t *testing.T) {
	cases := map[Ordering]string{
		DegRevLex: "degrevlex",
		Lex:       "lex",
		DegLex:    "deglex",
		Weighted:  "weighted",
	}
	for ord, want := range cases {
		if got := ord.String(); got != want {
			t.Fatalf("Ordering(%d).String() = %q, want %q", ord, got, want)
		}
	}
}
