package matrix

import (
	"sort"

	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
)

// batchLowerRow packs one Lower row position's shared column structure with
// all four lanes' coefficients at that position, for lockstep elimination.
type batchLowerRow struct {
	cols    []hashtable.MonomId
	coeffs  []field.Quad
	polyIdx int
	mult    hashtable.MonomId
	leadCol hashtable.MonomId
}

// equalCols reports whether a and b name the same columns in the same
// order.
func equalCols(a, b []hashtable.MonomId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameStructure reports whether mxs are identical lane to lane in every
// way that doesn't depend on coefficient values: column count, row counts,
// and each row's Cols. This is ReduceBatched's precondition -- it's exactly
// what four primes of the same trace replay are guaranteed to share
// whenever all four are lucky, and exactly what diverges the moment one of
// them isn't.
func sameStructure[M any](mxs [4]*Matrix[M]) bool {
	ncols := mxs[0].NCols()
	for lane := 1; lane < 4; lane++ {
		if mxs[lane].NCols() != ncols {
			return false
		}
		if len(mxs[lane].Upper) != len(mxs[0].Upper) || len(mxs[lane].Lower) != len(mxs[0].Lower) {
			return false
		}
	}
	for i := range mxs[0].Upper {
		for lane := 1; lane < 4; lane++ {
			if !equalCols(mxs[0].Upper[i].Cols, mxs[lane].Upper[i].Cols) {
				return false
			}
		}
	}
	for i := range mxs[0].Lower {
		for lane := 1; lane < 4; lane++ {
			if !equalCols(mxs[0].Lower[i].Cols, mxs[lane].Lower[i].Cols) {
				return false
			}
		}
	}
	return true
}

// packLower collects mxs' Lower rows into lane-packed form, sorted
// ascending by (shared) leading column, mirroring sortedByLeadCol.
func packLower[M any](mxs [4]*Matrix[M]) []batchLowerRow {
	n := len(mxs[0].Lower)
	out := make([]batchLowerRow, 0, n)
	for i := 0; i < n; i++ {
		r0 := mxs[0].Lower[i]
		if r0.IsZero() {
			continue
		}
		coeffs := make([]field.Quad, len(r0.Cols))
		for k := range coeffs {
			for lane := 0; lane < 4; lane++ {
				coeffs[k][lane] = mxs[lane].Lower[i].Coeffs[k]
			}
		}
		out = append(out, batchLowerRow{
			cols:    r0.Cols,
			coeffs:  coeffs,
			polyIdx: r0.PolyIdx,
			mult:    r0.Mult,
			leadCol: r0.LeadCol(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].leadCol < out[j].leadCol })
	return out
}

func densifyBatch(cols []hashtable.MonomId, coeffs []field.Quad, ncols int) []field.Quad {
	dense := make([]field.Quad, ncols)
	for k, c := range cols {
		dense[c] = coeffs[k]
	}
	return dense
}

func quadAnyZero(q field.Quad) bool {
	for _, x := range q {
		if x == 0 {
			return true
		}
	}
	return false
}

// reduceBatchRow is reduceRow generalized to four packed lanes. It returns
// false the instant any column holds a value that's zero in some lanes but
// not others -- the four primes have stopped agreeing on the matrix's
// structure, and the caller must fall back to reducing each lane on its
// own rather than trust a pivot decision only some lanes actually have.
func reduceBatchRow(dense []field.Quad, pivots [4][]*Row, c *field.Composite4) bool {
	for col := range dense {
		v := dense[col]
		if v == (field.Quad{}) {
			continue
		}
		if quadAnyZero(v) {
			return false
		}
		piv0 := pivots[0][col]
		if piv0 == nil {
			continue
		}
		var lead field.Quad
		for lane := 0; lane < 4; lane++ {
			lead[lane] = pivots[lane][col].Coeffs[0]
		}
		factor := v
		if lead != (field.Quad{1, 1, 1, 1}) {
			factor = c.Mul(v, c.Inv(lead))
		}
		for k := range piv0.Cols {
			pc := piv0.Cols[k]
			var pcoef field.Quad
			for lane := 0; lane < 4; lane++ {
				pcoef[lane] = pivots[lane][col].Coeffs[k]
			}
			dense[pc] = c.Sub(dense[pc], c.Mul(factor, pcoef))
		}
	}
	return true
}

// sparsifyBatchStrict is sparsify generalized to four packed lanes, failing
// closed the same way reduceBatchRow does: any column that's zero in one
// lane and not another means this batch can no longer be trusted.
func sparsifyBatchStrict(dense []field.Quad) (cols []hashtable.MonomId, coeffs []field.Quad, ok bool) {
	for c, v := range dense {
		if v == (field.Quad{}) {
			continue
		}
		if quadAnyZero(v) {
			return nil, nil, false
		}
		cols = append(cols, hashtable.MonomId(c))
		coeffs = append(coeffs, v)
	}
	return cols, coeffs, true
}

// ReduceBatched runs Deterministic-mode elimination (§4.7) across four
// structurally identical matrices at once, interleaving all four primes'
// scalar arithmetic through c instead of calling Reduce four times. It only
// covers Deterministic, the mode a trace replay (§4.11 Apply) always uses:
// Randomized's row-combining step exists to cut work when many
// S-polynomials collide on a pivot column, a decision already baked into
// the recorded trace, so there's nothing left for it to save here.
//
// ok is false whenever mxs fail sameStructure or whenever elimination
// surfaces a lane disagreement partway through; either way the caller
// should fall back to four independent Reduce calls rather than trust a
// partially-computed batch.
func ReduceBatched[M any](mxs [4]*Matrix[M], c *field.Composite4) (out [4][]Row, ok bool) {
	if !sameStructure(mxs) {
		return out, false
	}
	ncols := mxs[0].NCols()

	var pivots [4][]*Row
	for lane := 0; lane < 4; lane++ {
		pivots[lane] = pivotTable(mxs[lane].Upper, ncols)
	}

	lower := packLower(mxs)
	for lane := range out {
		out[lane] = make([]Row, 0, len(lower))
	}

	for _, row := range lower {
		dense := densifyBatch(row.cols, row.coeffs, ncols)
		if !reduceBatchRow(dense, pivots, c) {
			return [4][]Row{}, false
		}
		cols, coeffs, sok := sparsifyBatchStrict(dense)
		if !sok {
			return [4][]Row{}, false
		}
		if len(cols) == 0 {
			continue
		}

		if coeffs[0] != (field.Quad{1, 1, 1, 1}) {
			inv := c.Inv(coeffs[0])
			for k := range coeffs {
				coeffs[k] = c.Mul(coeffs[k], inv)
			}
		}

		for lane := 0; lane < 4; lane++ {
			laneCoeffs := make([]uint64, len(coeffs))
			for k, q := range coeffs {
				laneCoeffs[k] = q[lane]
			}
			out[lane] = append(out[lane], Row{Cols: cols, Coeffs: laneCoeffs, PolyIdx: row.polyIdx, Mult: row.mult})
			if pivots[lane][cols[0]] == nil {
				pivots[lane][cols[0]] = &out[lane][len(out[lane])-1]
			}
		}
	}
	return out, true
}
