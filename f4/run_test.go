package f4

import (
	"testing"

	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/monomial"
	"github.com/consensys/groebner/pairset"
)

// newTestSystem builds the classic ideal <x^2 - y, xy - 1> over F7, under
// lex order with x > y (component 0 = x, component 1 = y), returning a
// basis seeded with the two generators and the pairset folded from them.
// Its reduced lex Groebner basis is {x - y^2, y^3 - 1} (Cox-Little-O'Shea).
func newTestSystem(t *testing.T) (*basis.Basis[monomial.Dense[uint32]], *pairset.Pairset, field.Arithmetic, Options) {
	t.Helper()
	table := hashtable.NewTable[monomial.Dense[uint32]](hashtable.DenseOps[uint32]{}, 2, monomial.Lex, nil, nil, 1, 8)
	b := basis.New[monomial.Dense[uint32]](table)

	mustInsert := func(e []uint64) hashtable.MonomId {
		m, err := monomial.NewDense[uint32](e)
		if err != nil {
			t.Fatal(err)
		}
		return table.Insert(m)
	}

	x2 := mustInsert([]uint64{2, 0})
	y := mustInsert([]uint64{0, 1})
	b.Add([]hashtable.MonomId{x2, y}, []uint64{1, 6}) // x^2 - y

	xy := mustInsert([]uint64{1, 1})
	one := mustInsert([]uint64{0, 0})
	b.Add([]hashtable.MonomId{xy, one}, []uint64{1, 6}) // xy - 1

	b.RebuildNonRedundant()
	ps := &pairset.Pairset{}
	pairset.Update(ps, b, []int{0, 1})

	fa := field.New(field.KindUnsigned, 7)
	opts := New(WithOrdering(monomial.Lex), WithThreaded(false))
	return b, ps, fa, opts
}

func TestRunAndFinishProducesKnownGroebnerBasis(t *testing.T) {
	b, ps, fa, opts := newTestSystem(t)

	if err := Run(b, ps, fa, opts); err != nil {
		t.Fatal(err)
	}
	Finish(b, fa, opts)

	if len(b.NonRedundant) != 2 {
		t.Fatalf("expected 2 basis elements, got %d: %v", len(b.NonRedundant), b.NonRedundant)
	}

	// Standardize sorted ascending by leading monomial under lex, so y^3-1
	// (lead y^3, x-component 0) comes before x-y^2 (lead x, x-component 1).
	first := b.Table.Monom(b.LeadingMonom(0)).ExpVector()
	second := b.Table.Monom(b.LeadingMonom(1)).ExpVector()
	if first[0] != 0 || first[1] != 3 {
		t.Fatalf("expected first basis element's lead to be y^3, got %v", first)
	}
	if second[0] != 1 || second[1] != 0 {
		t.Fatalf("expected second basis element's lead to be x, got %v", second)
	}
	if b.Coeffs[0][0] != 1 || b.Coeffs[1][0] != 1 {
		t.Fatalf("expected both leading coefficients monic")
	}
}

func TestIsGroebnerOnFinishedBasis(t *testing.T) {
	b, ps, fa, opts := newTestSystem(t)
	if err := Run(b, ps, fa, opts); err != nil {
		t.Fatal(err)
	}
	Finish(b, fa, opts)

	if !IsGroebner(b, fa, opts) {
		t.Fatalf("expected the finished basis to already be a Groebner basis")
	}
}

func TestIsGroebnerOnRawGeneratorsIsFalse(t *testing.T) {
	table := hashtable.NewTable[monomial.Dense[uint32]](hashtable.DenseOps[uint32]{}, 2, monomial.Lex, nil, nil, 1, 8)
	b := basis.New[monomial.Dense[uint32]](table)
	mustInsert := func(e []uint64) hashtable.MonomId {
		m, err := monomial.NewDense[uint32](e)
		if err != nil {
			t.Fatal(err)
		}
		return table.Insert(m)
	}
	x2 := mustInsert([]uint64{2, 0})
	y := mustInsert([]uint64{0, 1})
	b.Add([]hashtable.MonomId{x2, y}, []uint64{1, 6})
	xy := mustInsert([]uint64{1, 1})
	one := mustInsert([]uint64{0, 0})
	b.Add([]hashtable.MonomId{xy, one}, []uint64{1, 6})
	b.RebuildNonRedundant()

	fa := field.New(field.KindUnsigned, 7)
	opts := New(WithOrdering(monomial.Lex))
	if IsGroebner(b, fa, opts) {
		t.Fatalf("expected the raw, un-completed generators not to already be a Groebner basis")
	}
}

func TestNormalFormReducesToZeroAfterCompletion(t *testing.T) {
	b, ps, fa, opts := newTestSystem(t)
	if err := Run(b, ps, fa, opts); err != nil {
		t.Fatal(err)
	}
	Finish(b, fa, opts)

	// The original generator x^2 - y is in the ideal, so it must reduce to
	// zero against the completed basis.
	mX2, err := monomial.NewDense[uint32]([]uint64{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	mY, err := monomial.NewDense[uint32]([]uint64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	idX2 := b.Table.Insert(mX2)
	idY := b.Table.Insert(mY)

	redMonoms, _ := NormalForm(b, fa, [][]hashtable.MonomId{{idX2, idY}}, [][]uint64{{1, 6}})
	if redMonoms[0] != nil {
		t.Fatalf("expected x^2-y to reduce to zero, got %v", redMonoms[0])
	}
}

func TestLearnThenApplyReproducesBasis(t *testing.T) {
	b, ps, fa, opts := newTestSystem(t)
	tr, err := Learn(b, ps, fa, opts)
	if err != nil {
		t.Fatal(err)
	}
	Finish(b, fa, opts)
	wantLead0 := append([]uint64(nil), b.Table.Monom(b.LeadingMonom(b.NonRedundant[0])).ExpVector()...)

	// Replay against a structurally identical (same monomial structure,
	// different but still valid coefficients) system over the same prime.
	table2 := hashtable.NewTable[monomial.Dense[uint32]](hashtable.DenseOps[uint32]{}, 2, monomial.Lex, nil, nil, 1, 8)
	b2 := basis.New[monomial.Dense[uint32]](table2)
	mustInsert := func(e []uint64) hashtable.MonomId {
		m, err := monomial.NewDense[uint32](e)
		if err != nil {
			t.Fatal(err)
		}
		return table2.Insert(m)
	}
	x2 := mustInsert([]uint64{2, 0})
	y := mustInsert([]uint64{0, 1})
	b2.Add([]hashtable.MonomId{x2, y}, []uint64{1, 6})
	xy := mustInsert([]uint64{1, 1})
	one := mustInsert([]uint64{0, 0})
	b2.Add([]hashtable.MonomId{xy, one}, []uint64{1, 6})
	b2.RebuildNonRedundant()
	ps2 := &pairset.Pairset{}
	pairset.Update(ps2, b2, []int{0, 1})

	ok, err := Apply(b2, ps2, fa, opts, tr)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected Apply to succeed replaying against a structurally identical system")
	}
	Finish(b2, fa, opts)

	gotLead0 := b2.Table.Monom(b2.LeadingMonom(b2.NonRedundant[0])).ExpVector()
	for i := range wantLead0 {
		if wantLead0[i] != gotLead0[i] {
			t.Fatalf("Apply-replayed basis lead %v differs from Learn's %v", gotLead0, wantLead0)
		}
	}
}
