package f4

import (
	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/logger"
	"github.com/consensys/groebner/matrix"
	"github.com/consensys/groebner/pairset"
	"github.com/consensys/groebner/selection"
	"github.com/consensys/groebner/trace"
)

// maxIterations is spec.md §4.8's hard cap, guarding against an algorithm
// bug rather than any expected workload.
const maxIterations = 10000

var log = logger.Logger().With().Str("component", "f4").Logger()

// Run drives b and ps to fixpoint: select, build the matrix, reduce, fold
// results back into the basis, repeat. The basis is left with every
// surviving polynomial flagged redundant or not, but not yet standardized
// (callers that want the §4.8 postconditions call b.Standardize after Run
// returns).
func Run[M any](b *basis.Basis[M], ps *pairset.Pairset, fa field.Arithmetic, opts Options) error {
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return groebnererr.ErrIterationCapExceeded
		}
		if ps.Empty() {
			return nil
		}
		block := selection.Select(opts.Selection, ps, b, opts.MaxPairs)
		if len(block.Pairs) == 0 {
			return nil
		}
		log.Debug().Int("iter", iter).Int("npairs", len(block.Pairs)).Uint64("deg", block.Deg).Msg("selected")

		mx := matrix.Build(b, block)
		reduced := matrix.Reduce(mx, opts.Linalg, fa, opts.Seed+uint64(iter))
		log.Debug().Int("iter", iter).Int("nup", len(mx.Upper)).Int("nlow", len(mx.Lower)).Int("ncols", mx.NCols()).Int("nnew", len(reduced)).Msg("reduced")

		newIdx := foldRows(b, mx, reduced)
		pairset.Update(ps, b, newIdx)
	}
}

// foldRows converts reduced rows (column-index space) back into
// primary-table MonomId polynomials and appends them to b, returning the
// new indices in ascending order.
func foldRows[M any](b *basis.Basis[M], mx *matrix.Matrix[M], rows []matrix.Row) []int {
	primary := b.Table
	newIdx := make([]int, 0, len(rows))
	for _, row := range rows {
		if row.IsZero() {
			continue
		}
		monoms := make([]hashtable.MonomId, len(row.Cols))
		for k, c := range row.Cols {
			monoms[k] = primary.Insert(mx.ColumnMonom(int(c)))
		}
		newIdx = append(newIdx, b.Add(monoms, row.Coeffs))
	}
	return newIdx
}

// Finish runs the §4.8 postprocessing: optional redundancy sweep, optional
// autoreduction, then standardization to the final sorted, monic, compacted
// basis shape.
func Finish[M any](b *basis.Basis[M], fa field.Arithmetic, opts Options) {
	if opts.Sweep {
		b.Sweep()
	}
	if opts.Reduced {
		Autoreduce(b, fa)
	}
	b.Standardize(fa)
}

// Autoreduce mutually reduces every non-redundant basis polynomial's
// non-leading terms against the rest of the basis, one polynomial at a
// time, until no further reduction applies anywhere (spec.md §4.8
// "autoreduce"). It reuses the same matrix/symbolic-preprocessing
// machinery as normal-form reduction (§4.9), treating all other
// non-redundant polynomials as the reducing basis.
func Autoreduce[M any](b *basis.Basis[M], fa field.Arithmetic) {
	changed := true
	for changed {
		changed = false
		for _, i := range append([]int(nil), b.NonRedundant...) {
			if b.IsRedundant[i] {
				continue
			}
			reducedMonoms, reducedCoeffs, ok := reduceOneAgainstRest(b, fa, i)
			if !ok {
				continue
			}
			b.Monoms[i] = reducedMonoms
			b.Coeffs[i] = reducedCoeffs
			b.MakeMonic(i, fa)
			changed = true
		}
	}
}

// reduceOneAgainstRest computes the normal form of basis polynomial i
// against every other non-redundant polynomial, returning (monoms, coeffs,
// true) only if the result actually differs from i's current terms.
func reduceOneAgainstRest[M any](b *basis.Basis[M], fa field.Arithmetic, i int) ([]hashtable.MonomId, []uint64, bool) {
	excluded := b.IsRedundant[i]
	b.IsRedundant[i] = true
	b.RebuildNonRedundant()
	reducedMonoms, reducedCoeffs := reduceAgainstBasis(b, fa, [][]hashtable.MonomId{b.Monoms[i]}, [][]uint64{b.Coeffs[i]})
	b.IsRedundant[i] = excluded
	b.RebuildNonRedundant()

	rm, rc := reducedMonoms[0], reducedCoeffs[0]
	if sameTerms(b.Monoms[i], b.Coeffs[i], rm, rc) {
		return nil, nil, false
	}
	return rm, rc, true
}

func sameTerms(am []hashtable.MonomId, ac []uint64, bm []hashtable.MonomId, bc []uint64) bool {
	if len(am) != len(bm) {
		return false
	}
	for k := range am {
		if am[k] != bm[k] || ac[k] != bc[k] {
			return false
		}
	}
	return true
}

// reduceAgainstBasis is the shared engine behind NormalForm (§4.9) and
// Autoreduce: build a matrix directly from the given polynomials (as Lower
// rows, no pair/lcm structure), run normal-form-mode linear algebra, and
// convert remainders back to primary-table terms. A polynomial that
// reduces to zero comes back as an empty (nil, nil) pair.
func reduceAgainstBasis[M any](b *basis.Basis[M], fa field.Arithmetic, monomsList [][]hashtable.MonomId, coeffsList [][]uint64) ([][]hashtable.MonomId, [][]uint64) {
	mx := matrix.BuildRows(b, monomsList, coeffsList)
	reduced := matrix.Reduce(mx, matrix.NormalForm, fa, 1)

	byPoly := make(map[int]matrix.Row, len(reduced))
	for _, row := range reduced {
		byPoly[row.PolyIdx] = row
	}

	outMonoms := make([][]hashtable.MonomId, len(monomsList))
	outCoeffs := make([][]uint64, len(coeffsList))
	for i := range monomsList {
		row, ok := byPoly[i]
		if !ok {
			continue // reduced to zero
		}
		monoms := make([]hashtable.MonomId, len(row.Cols))
		for k, c := range row.Cols {
			monoms[k] = b.Table.Insert(mx.ColumnMonom(int(c)))
		}
		outMonoms[i] = monoms
		outCoeffs[i] = row.Coeffs
	}
	return outMonoms, outCoeffs
}

// NormalForm implements spec.md §4.9: reduce every polynomial in
// monomsList/coeffsList against b, returning canonical residues (nil slice
// at position i means the i-th input reduces to zero).
func NormalForm[M any](b *basis.Basis[M], fa field.Arithmetic, monomsList [][]hashtable.MonomId, coeffsList [][]uint64) ([][]hashtable.MonomId, [][]uint64) {
	return reduceAgainstBasis(b, fa, monomsList, coeffsList)
}

// IsGroebner implements spec.md §4.10: form the pairset from the input
// basis and run one pass of is-groebner-mode linear algebra per iteration,
// returning false as soon as any S-polynomial leaves a nonzero residue.
func IsGroebner[M any](b *basis.Basis[M], fa field.Arithmetic, opts Options) bool {
	ps := &pairset.Pairset{}
	all := make([]int, len(b.Monoms))
	for i := range all {
		all[i] = i
	}
	b.RebuildNonRedundant()
	pairset.Update(ps, b, all)

	for iter := 0; iter < maxIterations; iter++ {
		if ps.Empty() {
			return true
		}
		block := selection.Select(opts.Selection, ps, b, 0)
		if len(block.Pairs) == 0 {
			return true
		}
		mx := matrix.Build(b, block)
		reduced := matrix.Reduce(mx, matrix.IsGroebner, fa, opts.Seed+uint64(iter))
		if len(reduced) > 0 {
			return false
		}
	}
	return true
}

// Learn runs Run while recording a trace.Trace of every iteration's
// decisions, for later replay via Apply (§4.11).
func Learn[M any](b *basis.Basis[M], ps *pairset.Pairset, fa field.Arithmetic, opts Options) (*trace.Trace, error) {
	tr := trace.New(b.Table.NVars)
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return tr, groebnererr.ErrIterationCapExceeded
		}
		if ps.Empty() {
			return tr, nil
		}
		block := selection.Select(opts.Selection, ps, b, opts.MaxPairs)
		if len(block.Pairs) == 0 {
			return tr, nil
		}

		mx, discoveries := matrix.BuildLogged(b, block)
		reduced := matrix.Reduce(mx, opts.Linalg, fa, opts.Seed+uint64(iter))

		choices := make([]trace.ReducerChoice, len(discoveries))
		for i, d := range discoveries {
			choices[i] = trace.ReducerChoice{Position: d.Pos, BasisIdx: d.BasisIdx}
		}

		it := trace.Iteration{
			Block:          block,
			ReducerChoices: choices,
			Columns:        append([]hashtable.MonomId(nil), mx.Columns...),
			Shape:          trace.Shape{NUpper: len(mx.Upper), NLower: len(mx.Lower), NCols: mx.NCols()},
			Empty:          len(reduced) == 0,
		}
		for ri, row := range reduced {
			if !row.IsZero() {
				it.UsefulRows = append(it.UsefulRows, ri)
			}
		}
		tr.Append(it)

		newIdx := foldRows(b, mx, reduced)
		pairset.Update(ps, b, newIdx)
	}
}

// Apply replays a trace recorded by Learn against a structurally identical
// input b/ps (same monomial structure, same variable count, same
// ordering; coefficients may differ). Per the trace replay algorithm it
// must skip discovery work entirely: matrix.BuildFromChoices rebuilds each
// iteration's matrix straight from the recorded block, reducer choices,
// and fixed column order -- no FindReducer scan over the basis, no
// re-sorting columns -- leaving only the linear-algebra reduction itself
// to run against the new coefficients. It returns (false, nil) the moment
// a recorded reducer index no longer exists in the new basis or the
// replay structurally disagrees with what was recorded, both signaling an
// unlucky specialization that the multi-modular driver should discard.
func Apply[M any](b *basis.Basis[M], ps *pairset.Pairset, fa field.Arithmetic, opts Options, tr *trace.Trace) (bool, error) {
	if tr.NVars != b.Table.NVars {
		return false, groebnererr.ErrTraceMismatch
	}
	for _, it := range tr.Iterations {
		if ps.Empty() {
			return false, groebnererr.ErrTraceMismatch
		}
		for _, c := range it.ReducerChoices {
			if c.BasisIdx >= b.NFilled() || b.IsRedundant[c.BasisIdx] {
				return false, nil // unlucky specialization, not a hard error
			}
		}

		discoveries := make([]matrix.Discovery, len(it.ReducerChoices))
		for i, c := range it.ReducerChoices {
			discoveries[i] = matrix.Discovery{Pos: c.Position, BasisIdx: c.BasisIdx}
		}

		mx, ok := matrix.BuildFromChoices(b, it.Block, discoveries, it.Columns)
		if !ok || mx.NCols() != it.Shape.NCols || len(mx.Upper) != it.Shape.NUpper {
			return false, nil
		}
		reduced := matrix.Reduce(mx, opts.Linalg, fa, opts.Seed)
		if len(reduced) != len(it.UsefulRows) {
			return false, nil
		}

		newIdx := foldRows(b, mx, reduced)
		pairset.Update(ps, b, newIdx)
	}
	return true, nil
}
