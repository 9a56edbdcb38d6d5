package matrix

import (
	"testing"

	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/monomial"
	"github.com/consensys/groebner/selection"
)

// buildSimpleBasis sets up f1 = x - 1, f2 = y - 1 over F7, in 2 variables,
// and returns the basis together with its primary table and packed layout.
func buildSimpleBasis(t *testing.T) (*basis.Basis[monomial.Packed], *hashtable.Table[monomial.Packed], *monomial.Layout) {
	t.Helper()
	layout := monomial.NewLayout(2, 8)
	table := hashtable.NewTable[monomial.Packed](hashtable.PackedOps{}, 2, monomial.DegRevLex, nil, nil, 1, 8)
	b := basis.New[monomial.Packed](table)

	mustInsert := func(e []uint64) hashtable.MonomId {
		m, err := monomial.NewPacked(layout, e)
		if err != nil {
			t.Fatal(err)
		}
		return table.Insert(m)
	}

	x := mustInsert([]uint64{1, 0})
	one := mustInsert([]uint64{0, 0})
	y := mustInsert([]uint64{0, 1})

	b.Add([]hashtable.MonomId{x, one}, []uint64{1, 6})  // x - 1 over F7
	b.Add([]hashtable.MonomId{y, one}, []uint64{1, 6})  // y - 1 over F7
	b.RebuildNonRedundant()
	return b, table, layout
}

func TestBuildRowsFromRawPolynomials(t *testing.T) {
	b, table, layout := buildSimpleBasis(t)

	xy, err := monomial.NewPacked(layout, []uint64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	xyID := table.Insert(xy)
	one, err := monomial.NewPacked(layout, []uint64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	oneID := table.Insert(one)

	// xy - 1: reduces against both basis elements.
	mx := BuildRows(b, [][]hashtable.MonomId{{xyID, oneID}}, [][]uint64{{1, 6}})

	if mx.NCols() == 0 {
		t.Fatalf("expected at least one column")
	}
	if len(mx.Lower) != 1 {
		t.Fatalf("expected exactly one lower row, got %d", len(mx.Lower))
	}
	// xy should have found a reducer (x or y), contributing an upper row.
	if len(mx.Upper) == 0 {
		t.Fatalf("expected symbolic preprocessing to discover at least one reducer row")
	}
}

func TestReduceEliminatesKnownFactor(t *testing.T) {
	b, table, layout := buildSimpleBasis(t)
	fa := field.New(field.KindUnsigned, 7)

	xID, err := monomial.NewPacked(layout, []uint64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	xid := table.Insert(xID)
	oneMonom, _ := monomial.NewPacked(layout, []uint64{0, 0})
	oneID := table.Insert(oneMonom)

	// Reduce x - 1 itself against the basis: should vanish entirely, since
	// x - 1 is already basis element 0.
	mx := BuildRows(b, [][]hashtable.MonomId{{xid, oneID}}, [][]uint64{{1, 6}})
	out := Reduce(mx, Deterministic, fa, 1)
	if len(out) != 0 {
		t.Fatalf("expected x-1 to reduce to zero against itself, got %d residual rows", len(out))
	}
}

func TestReduceIsGroebnerShortCircuits(t *testing.T) {
	b, table, layout := buildSimpleBasis(t)
	fa := field.New(field.KindUnsigned, 7)

	// x + 1 does NOT reduce to zero against {x-1, y-1}: leaves a nonzero
	// constant remainder, exercising the IsGroebner early-return.
	xID, _ := monomial.NewPacked(layout, []uint64{1, 0})
	xid := table.Insert(xID)
	oneMonom, _ := monomial.NewPacked(layout, []uint64{0, 0})
	oneID := table.Insert(oneMonom)

	mx := BuildRows(b, [][]hashtable.MonomId{{xid, oneID}}, [][]uint64{{1, 1}})
	out := Reduce(mx, IsGroebner, fa, 1)
	if len(out) == 0 {
		t.Fatalf("expected a nonzero remainder to be reported")
	}
}

// TestBuildFromChoicesUsesRecordedReducerNotLowestIndex is a regression
// test for the trace-replay path: BuildFromChoices must reuse the exact
// basis index a discovery names, never re-derive one via FindReducer
// (which always prefers the lowest non-redundant index). Two basis
// elements share the same leading monomial x (x-1 at index 0, x-2 at
// index 1), so a real search always finds index 0 first; a discovery that
// deliberately names index 1 must still surface index 1's own
// coefficients in the replayed row.
func TestBuildFromChoicesUsesRecordedReducerNotLowestIndex(t *testing.T) {
	table := hashtable.NewTable[monomial.Dense[uint32]](hashtable.DenseOps[uint32]{}, 1, monomial.Lex, nil, nil, 1, 8)
	b := basis.New[monomial.Dense[uint32]](table)

	mustInsert := func(e []uint64) hashtable.MonomId {
		m, err := monomial.NewDense[uint32](e)
		if err != nil {
			t.Fatal(err)
		}
		return table.Insert(m)
	}

	x := mustInsert([]uint64{1})
	one := mustInsert([]uint64{0})
	b.Add([]hashtable.MonomId{x, one}, []uint64{1, 6}) // basis[0]: x - 1 over F7
	b.Add([]hashtable.MonomId{x, one}, []uint64{1, 5}) // basis[1]: x - 2 over F7
	b.RebuildNonRedundant()

	x2 := mustInsert([]uint64{2})
	block := selection.Block{Pairs: []selection.Selected{{Poly1: 0, Poly2: 1, Lcm: x2}}}

	// A real search discovers the non-leading "x" term's reducer via
	// FindReducer, which always returns the lowest-index match: basis[0].
	built := Build(b, block)
	if len(built.Upper) != 2 || built.Upper[1].PolyIdx != 0 {
		t.Fatalf("expected symbolic preprocessing's own search to pick basis[0], got Upper=%+v", built.Upper)
	}

	// Replay from a discovery that deliberately names basis[1] instead.
	discoveries := []Discovery{{Pos: 1, BasisIdx: 1}}
	columns := append([]hashtable.MonomId(nil), built.Columns...)
	mx, ok := BuildFromChoices(b, block, discoveries, columns)
	if !ok {
		t.Fatalf("expected BuildFromChoices to succeed replaying against the recorded structure")
	}
	if len(mx.Upper) != 2 || mx.Upper[1].PolyIdx != 1 {
		t.Fatalf("expected the replayed upper row to use the recorded basis index 1, got Upper=%+v", mx.Upper)
	}
	// basis[1] is x - 2 over F7 (constant coefficient 5); basis[0] is x - 1
	// (constant coefficient 6). Seeing 5 here proves the row came from the
	// recorded discovery, not from FindReducer re-searching and picking
	// basis[0] again.
	if mx.Upper[1].Coeffs[1] != 5 {
		t.Fatalf("expected the replayed row's constant coefficient to be basis[1]'s (5), got %d", mx.Upper[1].Coeffs[1])
	}
}

func TestColumnsDescendingByOrdering(t *testing.T) {
	b, table, layout := buildSimpleBasis(t)

	xy, err := monomial.NewPacked(layout, []uint64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	xyID := table.Insert(xy)
	one, _ := monomial.NewPacked(layout, []uint64{0, 0})
	oneID := table.Insert(one)

	mx := BuildRows(b, [][]hashtable.MonomId{{xyID, oneID}}, [][]uint64{{1, 6}})
	if mx.NCols() < 2 {
		t.Fatalf("expected at least 2 columns, got %d", mx.NCols())
	}
	for i := 1; i < mx.NCols(); i++ {
		prev := mx.ColumnMonom(i - 1)
		cur := mx.ColumnMonom(i)
		if mx.SymbolHt.Less(prev, cur) {
			t.Fatalf("columns not in descending order at index %d", i)
		}
	}
}
