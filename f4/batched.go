package f4

import (
	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/matrix"
	"github.com/consensys/groebner/pairset"
	"github.com/consensys/groebner/trace"
)

// ApplyBatched4 is Apply run across four lanes at once, wiring the
// "batched" option (composite batch mode): each lane replays the same
// trace against its own basis/pairset/prime, and whenever all four lanes'
// matrices still agree structurally at some iteration, matrix.ReduceBatched
// interleaves their scalar elimination into one pass instead of four. A
// lane that falls out of step with the trace -- the same kind of unlucky
// specialization Apply itself reports via its bool return -- simply stops
// advancing for the rest of the call: its entry in the returned [4]bool
// goes false and every later iteration skips it, rather than failing the
// whole batch the way a single Apply call would fail on one lane's bad
// luck.
//
// Batching only ever applies to Deterministic-mode elimination; any other
// opts.Linalg falls back to four independent matrix.Reduce calls every
// iteration, equivalent to (but cheaper to drive than) calling Apply four
// times.
func ApplyBatched4[M any](bases [4]*basis.Basis[M], pss [4]*pairset.Pairset, fas [4]field.Arithmetic, opts Options, tr *trace.Trace) ([4]bool, error) {
	var alive [4]bool
	for lane := range alive {
		if tr.NVars != bases[lane].Table.NVars {
			return [4]bool{}, groebnererr.ErrTraceMismatch
		}
		alive[lane] = true
	}

	composite := field.NewComposite4FromArithmetic(fas)

	for _, it := range tr.Iterations {
		if !anyAlive(alive) {
			break
		}

		for lane := 0; lane < 4; lane++ {
			if !alive[lane] {
				continue
			}
			if pss[lane].Empty() {
				alive[lane] = false
				continue
			}
			for _, c := range it.ReducerChoices {
				if c.BasisIdx >= bases[lane].NFilled() || bases[lane].IsRedundant[c.BasisIdx] {
					alive[lane] = false
					break
				}
			}
		}
		if !anyAlive(alive) {
			break
		}

		discoveries := make([]matrix.Discovery, len(it.ReducerChoices))
		for i, c := range it.ReducerChoices {
			discoveries[i] = matrix.Discovery{Pos: c.Position, BasisIdx: c.BasisIdx}
		}

		var mxs [4]*matrix.Matrix[M]
		for lane := 0; lane < 4; lane++ {
			if !alive[lane] {
				continue
			}
			mx, ok := matrix.BuildFromChoices(bases[lane], it.Block, discoveries, it.Columns)
			if !ok || mx.NCols() != it.Shape.NCols || len(mx.Upper) != it.Shape.NUpper {
				alive[lane] = false
				continue
			}
			mxs[lane] = mx
		}
		if !anyAlive(alive) {
			break
		}

		reduced, batchedOK := tryBatchedReduce(mxs, alive, composite, opts.Linalg)
		for lane := 0; lane < 4; lane++ {
			if !alive[lane] {
				continue
			}
			var rows []matrix.Row
			if batchedOK {
				rows = reduced[lane]
			} else {
				rows = matrix.Reduce(mxs[lane], opts.Linalg, fas[lane], opts.Seed)
			}
			if len(rows) != len(it.UsefulRows) {
				alive[lane] = false
				continue
			}
			newIdx := foldRows(bases[lane], mxs[lane], rows)
			pairset.Update(pss[lane], bases[lane], newIdx)
		}
	}
	return alive, nil
}

func anyAlive(alive [4]bool) bool {
	for _, a := range alive {
		if a {
			return true
		}
	}
	return false
}

func allAlive(alive [4]bool) bool {
	for _, a := range alive {
		if !a {
			return false
		}
	}
	return true
}

// tryBatchedReduce attempts matrix.ReduceBatched across all four lanes. It
// only ever tries when every lane is still alive (ReduceBatched has no
// notion of "only 3 of these matter") and mode is Deterministic; any other
// case is reported as a clean miss so the caller falls back to scalar
// Reduce per lane.
func tryBatchedReduce[M any](mxs [4]*matrix.Matrix[M], alive [4]bool, c *field.Composite4, mode matrix.LinAlg) ([4][]matrix.Row, bool) {
	if mode != matrix.Deterministic || !allAlive(alive) {
		return [4][]matrix.Row{}, false
	}
	return matrix.ReduceBatched(mxs, c)
}
