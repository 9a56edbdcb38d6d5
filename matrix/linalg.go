package matrix

import (
	"sort"

	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
)

// LinAlg selects a linear-algebra backend for reducing a Matrix (§4.7).
type LinAlg int

const (
	// Deterministic reduces Lower rows against Upper one at a time, in a
	// fixed order, matching the straightforward row-echelon sweep.
	Deterministic LinAlg = iota
	// Randomized combines Lower rows sharing a pivot column into random
	// linear combinations before reduction, cutting the row count that
	// needs full elimination when many S-polynomials collide on a column.
	Randomized
	// NormalForm only reduces Lower against Upper and returns the
	// remainders, without requiring the result to become part of a basis
	// (used by the public NormalForm operation, §4.9).
	NormalForm
	// IsGroebner is NormalForm followed by an all-zero check, short
	// circuiting as soon as a nonzero remainder is found (§4.10).
	IsGroebner
)

// densify expands a sparse Row into a full-width coefficient array over
// [0, ncols), to make elimination arithmetic a straight array walk.
func densify(r Row, ncols int) []uint64 {
	dense := make([]uint64, ncols)
	for k, c := range r.Cols {
		dense[c] = r.Coeffs[k]
	}
	return dense
}

// sparsify collects the nonzero entries of a dense row back into parallel
// Cols/Coeffs slices, ascending by column.
func sparsify(dense []uint64) (cols []hashtable.MonomId, coeffs []uint64) {
	for c, v := range dense {
		if v != 0 {
			cols = append(cols, hashtable.MonomId(c))
			coeffs = append(coeffs, v)
		}
	}
	return
}

// reduceRow eliminates dense's leading nonzero entries using pivots, an
// array indexed by column holding the Upper row that pivots there (nil if
// none). f supplies the field's arithmetic.
func reduceRow(dense []uint64, pivots []*Row, f field.Arithmetic) {
	for c := range dense {
		v := dense[c]
		if v == 0 {
			continue
		}
		piv := pivots[c]
		if piv == nil {
			continue
		}
		// eliminate column c by subtracting (v / lead(piv)) * piv from dense.
		// Rows promoted by Reduce are monic, but Upper rows taken from basis
		// polynomials need not be.
		factor := v
		if piv.Coeffs[0] != 1 {
			factor = f.Mul(v, f.Inv(piv.Coeffs[0]))
		}
		for k, pc := range piv.Cols {
			dense[pc] = f.Sub(dense[pc], f.Mul(factor, piv.Coeffs[k]))
		}
	}
}

// pivotTable builds a column -> *Row lookup for every Upper row, indexed by
// its own leading column.
func pivotTable(upper []Row, ncols int) []*Row {
	pivots := make([]*Row, ncols)
	for i := range upper {
		pivots[upper[i].LeadCol()] = &upper[i]
	}
	return pivots
}

// sortedByLeadCol returns the nonzero rows of lower sorted ascending by
// their pre-reduction leading column, stably (ties keep Build's original
// order). §4.7's deterministic/randomized modes require processing in
// ascending pivot-column order so that a row promoted to a pivot is always
// installed before any later row that might need to reduce against it.
func sortedByLeadCol(lower []Row) []Row {
	out := make([]Row, 0, len(lower))
	for _, r := range lower {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LeadCol() < out[j].LeadCol() })
	return out
}

// Reduce runs the chosen backend over mx's Lower half against its Upper
// half, returning the nonzero remainders (new pivot candidates for
// Deterministic/Randomized, or residues for NormalForm/IsGroebner).
// Coefficients are taken as already living in F_p; Reduce does not itself
// validate that f.Prime() matches what produced them.
func Reduce[M any](mx *Matrix[M], mode LinAlg, f field.Arithmetic, seed uint64) []Row {
	ncols := mx.NCols()
	pivots := pivotTable(mx.Upper, ncols)

	lower := mx.Lower
	if mode == Randomized {
		lower = combineByPivotColumn(mx.Lower, ncols, f, seed)
	}

	// Deterministic/Randomized promote a freshly-reduced row to a pivot for
	// subsequent rows in this same call, so that two lower rows colliding on
	// the same leading column are cross-eliminated against each other rather
	// than both surviving as separate, spuriously "redundant" basis
	// candidates (§4.7). NormalForm/IsGroebner must not promote: they report
	// remainders against the fixed input basis, never against each other.
	promote := mode == Deterministic || mode == Randomized
	if promote {
		lower = sortedByLeadCol(lower)
	}

	// out is preallocated to its maximum possible size (one row in, at most
	// one row out) so pivots can safely hold pointers into it: appends below
	// never trigger a reallocation that would dangle an already-installed
	// pivot pointer.
	out := make([]Row, 0, len(lower))
	for _, row := range lower {
		dense := densify(row, ncols)
		reduceRow(dense, pivots, f)
		cols, coeffs := sparsify(dense)
		if len(cols) == 0 {
			continue
		}
		if coeffs[0] != 1 {
			inv := f.Inv(coeffs[0])
			for k := range coeffs {
				coeffs[k] = f.Mul(coeffs[k], inv)
			}
		}
		out = append(out, Row{Cols: cols, Coeffs: coeffs, PolyIdx: row.PolyIdx, Mult: row.Mult})
		if mode == IsGroebner {
			return out // caller only needs to know a nonzero remainder exists
		}
		if promote && pivots[cols[0]] == nil {
			pivots[cols[0]] = &out[len(out)-1]
		}
	}
	return out
}

// combineByPivotColumn groups Lower rows by their (pre-reduction) leading
// column and replaces each group of size > 1 with random F_p-linear
// combinations of its members, cutting elimination work when many
// S-polynomials would otherwise fight over the same pivot. Coefficients are
// drawn from a splitmix64 stream seeded from seed, not crypto/rand: this is
// load-shedding for linear algebra, not a security boundary.
func combineByPivotColumn(rows []Row, ncols int, f field.Arithmetic, seed uint64) []Row {
	groups := map[hashtable.MonomId][]int{}
	for i, r := range rows {
		if r.IsZero() {
			continue
		}
		lc := r.LeadCol()
		groups[lc] = append(groups[lc], i)
	}

	state := seed | 1
	nextRand := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}

	// visit groups in ascending leading-column order so the draws from the
	// seeded stream land on the same groups on every run.
	leads := make([]hashtable.MonomId, 0, len(groups))
	for lc := range groups {
		leads = append(leads, lc)
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i] < leads[j] })

	out := make([]Row, 0, len(rows))
	for _, lc := range leads {
		members := groups[lc]
		if len(members) == 1 {
			out = append(out, rows[members[0]])
			continue
		}
		dense := make([]uint64, ncols)
		for _, idx := range members {
			coeff := nextRand()%(f.Prime()-1) + 1 // nonzero
			r := rows[idx]
			for k, c := range r.Cols {
				dense[c] = f.Add(dense[c], f.Mul(coeff, r.Coeffs[k]))
			}
		}
		cols, coeffs := sparsify(dense)
		if len(cols) > 0 {
			out = append(out, Row{Cols: cols, Coeffs: coeffs, PolyIdx: -1})
		}
	}
	return out
}
