package matrix

import (
	"sort"

	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/internal/algo_utils"
	"github.com/consensys/groebner/selection"
)

// Matrix is one F4 iteration's Macaulay matrix: an upper half with known
// pivots (one per distinct column, leading term = that column) and a lower
// half still to be reduced, plus the secondary hashtable (symbol_ht) that
// owns every monomial appearing in either half, and the column
// enumeration built from it (§3 MacaulayMatrix, §4.6).
type Matrix[M any] struct {
	SymbolHt *hashtable.Table[M]

	Upper []Row
	Lower []Row

	// Columns[c] is the MonomId (in SymbolHt) occupying column c; Columns
	// is sorted by the monomial ordering descending, so column 0 is the
	// largest monomial appearing anywhere in the matrix.
	Columns []hashtable.MonomId
	colOf   map[hashtable.MonomId]int
}

// Build constructs the matrix for one F4 iteration from a selected block of
// critical pairs: for each distinct lcm, the lowest-indexed generator whose
// lead divides it becomes an upper (pivot-known) row, and every other
// generator referenced by a pair sharing that lcm becomes a lower row
// (§4.4 step 4). Symbolic preprocessing (§4.5) then finds reducers for
// every other monomial that appears, and column enumeration (§4.6) fixes
// the final column order.
func Build[M any](b *basis.Basis[M], block selection.Block) *Matrix[M] {
	primary := b.Table
	sht := hashtable.NewSecondary(primary, 1024)
	mx := &Matrix[M]{SymbolHt: sht}
	if !buildBlockRows(sht, primary, b, mx, block) {
		panic("matrix: selected pair's reducer does not divide its own lcm")
	}
	_ = symbolicPreprocess(sht, b, mx)
	enumerateColumns(sht, mx)
	return mx
}

// Discovery records one symbolic-preprocessing reducer choice: the
// secondary-table position that needed a reducer (before columns are
// enumerated), and which basis index was found to supply it. A trace
// iteration's recorded ReducerChoices are exactly a Discovery list
// (trace.ReducerChoice mirrors this shape); matrix does not import trace to
// keep that dependency one-directional.
type Discovery struct {
	Pos      int
	BasisIdx int
}

// BuildLogged behaves exactly like Build, but also returns, in discovery
// order, every symbolic-preprocessing reducer choice it made. Learn uses
// this to record a replay path that lets a later Apply skip FindReducer
// entirely (§4.11).
func BuildLogged[M any](b *basis.Basis[M], block selection.Block) (*Matrix[M], []Discovery) {
	primary := b.Table
	sht := hashtable.NewSecondary(primary, 1024)
	mx := &Matrix[M]{SymbolHt: sht}
	if !buildBlockRows(sht, primary, b, mx, block) {
		panic("matrix: selected pair's reducer does not divide its own lcm")
	}
	discoveries := symbolicPreprocess(sht, b, mx)
	enumerateColumns(sht, mx)
	return mx, discoveries
}

// BuildFromChoices reconstructs the matrix for a trace iteration without
// any basis search (§4.11 Apply): block rows come from the recorded block
// exactly as Build would produce them, the upper rows symbolic
// preprocessing would have discovered are rebuilt directly from the
// recorded discoveries (each already naming its basis index, so only a
// direct divisibility check -- not a FindReducer scan -- is needed to
// recover the multiplier), and columns are installed in the recorded fixed
// order rather than re-sorted. Returns ok=false whenever the replay
// structurally disagrees with what was recorded, which Apply treats as an
// unlucky specialization rather than a hard error.
func BuildFromChoices[M any](b *basis.Basis[M], block selection.Block, discoveries []Discovery, fixedColumns []hashtable.MonomId) (mx *Matrix[M], ok bool) {
	primary := b.Table
	sht := hashtable.NewSecondary(primary, 1024)
	mx = &Matrix[M]{SymbolHt: sht}
	if !buildBlockRows(sht, primary, b, mx, block) {
		return nil, false
	}

	for _, d := range discoveries {
		if d.Pos < 0 || d.Pos >= sht.Load() {
			return nil, false
		}
		id := hashtable.MonomId(d.Pos)
		if sht.Value(id).Flag != hashtable.UnknownPivotColumn {
			return nil, false
		}
		if d.BasisIdx < 0 || d.BasisIdx >= b.NFilled() || b.IsRedundant[d.BasisIdx] {
			return nil, false
		}

		target := sht.Monom(id)
		mult, divides := primary.IsDivisibleWith(target, primary.Monom(b.LeadingMonom(d.BasisIdx)))
		if !divides {
			return nil, false
		}
		sht.SetFlag(id, hashtable.PivotColumn)

		row := Row{
			Cols:    make([]hashtable.MonomId, len(b.Monoms[d.BasisIdx])),
			Coeffs:  append([]uint64(nil), b.Coeffs[d.BasisIdx]...),
			PolyIdx: d.BasisIdx,
		}
		ops := sht.Ops()
		for k, mid := range b.Monoms[d.BasisIdx] {
			term, err := ops.Product(mult, primary.Monom(mid))
			if err != nil {
				return nil, false
			}
			row.Cols[k] = sht.Insert(term)
		}
		mx.Upper = append(mx.Upper, row)
	}

	if !enumerateColumnsFixed(sht, mx, fixedColumns) {
		return nil, false
	}
	return mx, true
}

// buildBlockRows appends the per-distinct-lcm upper/lower rows for block
// into mx, exactly as Build's first pass (§4.4 step 4): the lowest-indexed
// generator dividing each distinct lcm becomes the upper row, every other
// generator referenced by a pair on that lcm becomes a lower row. Returns
// false if some pair's reducer no longer divides its own lcm against the
// current basis -- which only happens replaying a trace against a basis
// that diverged from the one that produced the block.
func buildBlockRows[M any](sht *hashtable.Table[M], primary *hashtable.Table[M], b *basis.Basis[M], mx *Matrix[M], block selection.Block) bool {
	i := 0
	for i < len(block.Pairs) {
		j := i + 1
		lcm := block.Pairs[i].Lcm
		for j < len(block.Pairs) && block.Pairs[j].Lcm == lcm {
			j++
		}
		group := block.Pairs[i:j]
		i = j

		polySet := map[int]struct{}{}
		for _, p := range group {
			polySet[p.Poly1] = struct{}{}
			polySet[p.Poly2] = struct{}{}
		}
		g := -1
		for p := range polySet {
			if g == -1 || p < g {
				g = p
			}
		}

		lcmMonom := primary.Monom(lcm)
		multG, ok := primary.IsDivisibleWith(lcmMonom, primary.Monom(b.LeadingMonom(g)))
		if !ok {
			return false
		}
		mx.Upper = append(mx.Upper, buildRow(sht, primary, b, g, multG, true))

		for p := range polySet {
			if p == g {
				continue
			}
			multP, ok := primary.IsDivisibleWith(lcmMonom, primary.Monom(b.LeadingMonom(p)))
			if !ok {
				return false
			}
			mx.Lower = append(mx.Lower, buildRow(sht, primary, b, p, multP, false))
		}
	}
	return true
}

// buildRow multiplies basis polynomial g by mult, inserting every resulting
// term into sht. When markPivot is set, the row's own leading column is
// flagged PivotColumn immediately (it's already known to be a reducer);
// otherwise it's left at the default UnknownPivotColumn so symbolic
// preprocessing's search loop decides its fate.
func buildRow[M any](sht *hashtable.Table[M], primary *hashtable.Table[M], b *basis.Basis[M], g int, mult M, markPivot bool) Row {
	monoms := b.Monoms[g]
	coeffs := b.Coeffs[g]
	row := Row{
		Cols:    make([]hashtable.MonomId, len(monoms)),
		Coeffs:  append([]uint64(nil), coeffs...),
		PolyIdx: g,
	}
	ops := sht.Ops()
	for k, mid := range monoms {
		term, err := ops.Product(mult, primary.Monom(mid))
		if err != nil {
			panic(err) // basis leads were already validated; a term product overflowing here is a bug
		}
		colId := sht.Insert(term)
		row.Cols[k] = colId
		if k == 0 && markPivot {
			sht.SetFlag(colId, hashtable.PivotColumn)
		}
	}
	return row
}

// symbolicPreprocess is §4.5: walk symbol_ht in insertion order (which
// grows as new upper rows are appended), and for every UnknownPivotColumn
// identifier, search the basis for a reducer. Returns every (position,
// basis index) choice it made, in discovery order, so Learn can record a
// replay path that lets a later Apply skip this search (§4.11).
func symbolicPreprocess[M any](sht *hashtable.Table[M], b *basis.Basis[M], mx *Matrix[M]) []Discovery {
	primary := b.Table
	var discoveries []Discovery
	for pos := 0; pos < sht.Load(); pos++ {
		id := hashtable.MonomId(pos)
		v := sht.Value(id)
		if v.Flag != hashtable.UnknownPivotColumn {
			continue
		}
		target := sht.Monom(id)
		gIdx, mult, ok := b.FindReducer(target, v.DivMask)
		if !ok {
			continue // stays UnknownPivotColumn -> a non-pivot column after linear algebra
		}
		sht.SetFlag(id, hashtable.PivotColumn)
		discoveries = append(discoveries, Discovery{Pos: pos, BasisIdx: gIdx})

		row := Row{
			Cols:    make([]hashtable.MonomId, len(b.Monoms[gIdx])),
			Coeffs:  append([]uint64(nil), b.Coeffs[gIdx]...),
			PolyIdx: gIdx,
		}
		ops := sht.Ops()
		for k, mid := range b.Monoms[gIdx] {
			term, err := ops.Product(mult, primary.Monom(mid))
			if err != nil {
				panic(err)
			}
			row.Cols[k] = sht.Insert(term)
		}
		mx.Upper = append(mx.Upper, row)
	}
	return discoveries
}

// enumerateColumns sorts every monomial touched by the matrix by the
// ordering, descending (column 0 = largest), and rewrites every row's Cols
// from raw MonomIds to column indices, re-sorted ascending by column index
// so Cols[0] stays the leading term (§4.6).
func enumerateColumns[M any](sht *hashtable.Table[M], mx *Matrix[M]) {
	n := sht.Load()
	cols := make([]hashtable.MonomId, n)
	for i := range cols {
		cols[i] = hashtable.MonomId(i)
	}
	sort.Slice(cols, func(i, j int) bool {
		return sht.Less(sht.Monom(cols[i]), sht.Monom(cols[j]))
	})
	// sht.Less is ascending; we want column 0 = largest monomial, so reverse.
	for l, r := 0, len(cols)-1; l < r; l, r = l+1, r-1 {
		cols[l], cols[r] = cols[r], cols[l]
	}
	installColumns(sht, mx, cols)
}

// enumerateColumnsFixed installs a caller-supplied column order instead of
// sorting one out (§4.11 Apply): a trace already recorded the exact order
// Learn settled on, and replaying it must reuse that order verbatim rather
// than re-deriving it. Returns false if cols isn't
// a bijection onto every monomial this build actually touched.
func enumerateColumnsFixed[M any](sht *hashtable.Table[M], mx *Matrix[M], cols []hashtable.MonomId) bool {
	n := sht.Load()
	if len(cols) != n {
		return false
	}
	seen := make([]bool, n)
	for _, id := range cols {
		if int(id) < 0 || int(id) >= n || seen[id] {
			return false
		}
		seen[id] = true
	}
	installColumns(sht, mx, append([]hashtable.MonomId(nil), cols...))
	return true
}

// installColumns records cols as mx.Columns and rewrites every row's Cols
// from raw SymbolHt MonomIds to column indices, re-sorted ascending by
// column index so Cols[0] stays the leading term (§4.6).
func installColumns[M any](sht *hashtable.Table[M], mx *Matrix[M], cols []hashtable.MonomId) {
	mx.Columns = cols
	mx.colOf = make(map[hashtable.MonomId]int, len(cols))
	for c, id := range cols {
		mx.colOf[id] = c
	}

	remap := func(rows []Row) {
		for ri := range rows {
			r := &rows[ri]
			newCols := algo_utils.Map(r.Cols, func(id hashtable.MonomId) hashtable.MonomId {
				return hashtable.MonomId(mx.colOf[id])
			})
			// sort ascending by new column index, carrying Coeffs along with the
			// same permutation so Cols[k]/Coeffs[k] stay paired.
			order := algo_utils.MapRange(0, len(newCols), func(i int) int { return i })
			sort.Slice(order, func(i, j int) bool { return newCols[order[i]] < newCols[order[j]] })
			perm := algo_utils.InvertPermutation(order)
			algo_utils.Permute(newCols, append([]int(nil), perm...))
			algo_utils.Permute(r.Coeffs, perm)
			r.Cols = newCols
		}
	}
	remap(mx.Upper)
	remap(mx.Lower)
}

// NCols returns the number of distinct columns in the matrix.
func (mx *Matrix[M]) NCols() int { return len(mx.Columns) }

// ColumnMonom returns the monomial occupying column c, looked up in the
// matrix's own symbol hashtable (valid only before the Matrix is
// discarded).
func (mx *Matrix[M]) ColumnMonom(c int) M { return mx.SymbolHt.Monom(mx.Columns[c]) }

// SeedRow inserts every term of a polynomial already expressed in terms of
// primary-table MonomIds into sht, producing a Row of (not yet enumerated)
// secondary-table ids. Used to seed matrix construction from rows that
// don't come from multiplying a basis polynomial by a critical-pair
// multiplier (normal-form reduction, autoreduction).
func SeedRow[M any](sht *hashtable.Table[M], primary *hashtable.Table[M], monoms []hashtable.MonomId, coeffs []uint64, polyIdx int) Row {
	cols := make([]hashtable.MonomId, len(monoms))
	for k, id := range monoms {
		cols[k] = sht.Insert(primary.Monom(id))
	}
	return Row{Cols: cols, Coeffs: append([]uint64(nil), coeffs...), PolyIdx: polyIdx}
}

// BuildRows constructs a Matrix directly from raw polynomials (expressed as
// primary-table MonomId/coeff pairs) rather than from a selected block of
// critical pairs: every polynomial becomes a Lower row, symbolic
// preprocessing discovers Upper rows for every reducible term exactly as
// in Build, and columns are enumerated the same way. Used by normal-form
// reduction (§4.9) and autoreduction, where there is no pair/lcm structure
// to seed from.
func BuildRows[M any](b *basis.Basis[M], monomsList [][]hashtable.MonomId, coeffsList [][]uint64) *Matrix[M] {
	primary := b.Table
	sht := hashtable.NewSecondary(primary, 1024)
	mx := &Matrix[M]{SymbolHt: sht}
	for i := range monomsList {
		mx.Lower = append(mx.Lower, SeedRow(sht, primary, monomsList[i], coeffsList[i], i))
	}
	_ = symbolicPreprocess(sht, b, mx)
	enumerateColumns(sht, mx)
	return mx
}
