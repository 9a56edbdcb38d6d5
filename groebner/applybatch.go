package groebner

import (
	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/f4"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/monomial"
	"github.com/consensys/groebner/pairset"
	"github.com/consensys/groebner/trace"
)

// computeApplyBatch4 is compute's modeApply case run across four lanes at
// once via f4.ApplyBatched4, backing GroebnerQ's "batched" option. Each
// lane gets its own basis/pairset/prime built from genPolysPerLane[lane]
// (the same integer generators, reduced mod that lane's own prime) through
// the same buildBasis every other entry point uses; all four lanes share
// one monomial representation M, since f4.ApplyBatched4 needs that to pack
// coefficients lane-wise.
func computeApplyBatch4[M any](ops hashtable.Ops[M], nvars int, construct func([]uint64) (M, error), opts Options, primes [4]uint64, genPolysPerLane [4][]Poly, tr *trace.Trace) ([4]Basis, [4]bool, error) {
	var bases [4]*basis.Basis[M]
	var pss [4]*pairset.Pairset
	var fas [4]field.Arithmetic

	for lane := 0; lane < 4; lane++ {
		b, ps, err := buildBasis(ops, nvars, construct, opts, genPolysPerLane[lane])
		if err != nil {
			return [4]Basis{}, [4]bool{}, err
		}
		bases[lane] = b
		pss[lane] = ps
		fas[lane] = newArithmetic(opts, primes[lane])
	}

	oks, err := f4.ApplyBatched4(bases, pss, fas, opts.Options, tr)
	if err != nil {
		return [4]Basis{}, [4]bool{}, err
	}

	var out [4]Basis
	for lane := 0; lane < 4; lane++ {
		if !oks[lane] {
			continue
		}
		f4.Finish(bases[lane], fas[lane], opts.Options)
		out[lane] = extractBasis(bases[lane])
	}
	return out, oks, nil
}

// runDispatchApplyBatch4 mirrors runDispatch's representation switch for
// computeApplyBatch4: the monomial representation must be resolved once,
// not once per lane, since every lane has to share it.
func runDispatchApplyBatch4(nvars int, opts Options, primes [4]uint64, genPolysPerLane [4][]Poly, tr *trace.Trace) ([4]Basis, [4]bool, error) {
	kind, err := dispatchMonoms(opts)
	if err != nil {
		return [4]Basis{}, [4]bool{}, err
	}

	switch kind {
	case f4.MonomPacked:
		layout := monomial.NewLayout(nvars, 31)
		construct := func(e []uint64) (monomial.Packed, error) { return monomial.NewPacked(layout, e) }
		return computeApplyBatch4(hashtable.PackedOps{}, nvars, construct, opts, primes, genPolysPerLane, tr)
	case f4.MonomSparse:
		construct := func(e []uint64) (monomial.Sparse, error) { return monomial.NewSparse(e) }
		return computeApplyBatch4(hashtable.SparseOps{}, nvars, construct, opts, primes, genPolysPerLane, tr)
	default:
		construct := func(e []uint64) (monomial.Dense[uint32], error) { return monomial.NewDense[uint32](e) }
		return computeApplyBatch4(hashtable.DenseOps[uint32]{}, nvars, construct, opts, primes, genPolysPerLane, tr)
	}
}
