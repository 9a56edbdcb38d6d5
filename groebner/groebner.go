package groebner

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/f4"
	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/logger"
	"github.com/consensys/groebner/monomial"
	"github.com/consensys/groebner/pairset"
	"github.com/consensys/groebner/trace"
)

var log = logger.Logger().With().Str("component", "groebner").Logger()

// Poly is one input/output polynomial over a prime field: exponent vectors
// (one component per variable, input order descending per spec.md §6) and
// the corresponding coefficients reduced mod the field's characteristic.
// len(Monoms) == len(Coeffs); the caller guarantees no zero coefficient.
type Poly struct {
	Monoms [][]uint64
	Coeffs []uint64
}

// Basis is a computed Gröbner basis, sorted ascending by leading monomial
// under the ordering it was computed with (spec.md §8 property 4).
type Basis struct {
	Polys []Poly
}

// ---- monomial-representation dispatch ----

// dispatchMonoms resolves MonomAuto against the requested ordering and
// validates the combination (§7 "unsupported ordering for chosen monomial
// representation").
func dispatchMonoms(opts Options) (f4.MonomKind, error) {
	kind := opts.Monoms
	if kind == f4.MonomAuto {
		if opts.Ordering == monomial.DegRevLex {
			kind = f4.MonomPacked
		} else {
			kind = f4.MonomDense
		}
	}
	if kind == f4.MonomPacked && !opts.Ordering.SupportsPacked() {
		return 0, groebnererr.ErrUnsupportedOrdering
	}
	return kind, nil
}

func arithKindOf(k f4.ArithKind) field.Kind {
	switch k {
	case f4.ArithSigned:
		return field.KindSigned
	case f4.ArithUnsigned:
		return field.KindUnsigned
	case f4.ArithFloating:
		return field.KindFloating
	default:
		return field.KindAuto
	}
}

// newArithmetic builds the field backend for p, downgrading an explicit
// Floating request that the prime is too large for (§4.7's float64 fast
// path is only exact under 2^25) rather than erroring -- spec.md §7 doesn't
// name this as a distinct failure condition.
func newArithmetic(opts Options, p uint64) field.Arithmetic {
	kind := arithKindOf(opts.Arithmetic)
	if kind == field.KindFloating && p >= (1<<25) {
		log.Warn().Uint64("prime", p).Msg("floating arithmetic unsafe for this prime, downgrading to unsigned")
		kind = field.KindUnsigned
	}
	return field.New(kind, p)
}

func polyArity(polys []Poly) (int, error) {
	if len(polys) == 0 {
		return 0, groebnererr.ErrEmptyInput
	}
	nvars := -1
	for _, p := range polys {
		for _, e := range p.Monoms {
			if nvars == -1 {
				nvars = len(e)
			} else if len(e) != nvars {
				return 0, groebnererr.ErrArityMismatch
			}
		}
	}
	if nvars == -1 {
		return 0, groebnererr.ErrZeroGenerators
	}
	return nvars, nil
}

// ---- generic engine glue ----

// buildBasis materializes polys into a fresh primary table/basis and the
// pairset produced by folding every polynomial in as an initial generator
// (§4.3's Update applied to the whole input at once).
func buildBasis[M any](ops hashtable.Ops[M], nvars int, construct func([]uint64) (M, error), opts Options, polys []Poly) (*basis.Basis[M], *pairset.Pairset, error) {
	table := hashtable.NewTable[M](ops, nvars, opts.Ordering, opts.Weights, nil, opts.Seed, 1024)
	b := basis.New[M](table)
	for pi, p := range polys {
		monoms := make([]hashtable.MonomId, len(p.Monoms))
		for k, e := range p.Monoms {
			m, err := construct(e)
			if err != nil {
				return nil, nil, pkgerrors.Wrapf(err, "polynomial %d term %d", pi, k)
			}
			monoms[k] = table.Insert(m)
		}
		if len(monoms) > 0 {
			b.Add(monoms, append([]uint64(nil), p.Coeffs...))
		}
	}

	ps := &pairset.Pairset{}
	all := make([]int, b.NFilled())
	for i := range all {
		all[i] = i
	}
	b.RebuildNonRedundant()
	pairset.Update(ps, b, all)
	return b, ps, nil
}

// expVectorOf unpacks any concrete monomial representation back to a plain
// exponent vector. hashtable.Ops deliberately doesn't expose this (it isn't
// needed on the hot path), so this falls back to an interface assertion
// that every representation in this package happens to satisfy.
func expVectorOf[M any](m M) []uint64 {
	switch v := any(m).(type) {
	case monomial.Packed:
		return v.Unpack()
	case monomial.Sparse:
		return v.ExpVector()
	default:
		if ev, ok := any(m).(interface{ ExpVector() []uint64 }); ok {
			return ev.ExpVector()
		}
		panic("groebner: monomial representation has no ExpVector")
	}
}

func extractBasis[M any](b *basis.Basis[M]) Basis {
	out := Basis{Polys: make([]Poly, len(b.NonRedundant))}
	for oi, idx := range b.NonRedundant {
		monoms := b.Monoms[idx]
		exps := make([][]uint64, len(monoms))
		for k, mid := range monoms {
			exps[k] = expVectorOf(b.Table.Monom(mid))
		}
		out.Polys[oi] = Poly{Monoms: exps, Coeffs: append([]uint64(nil), b.Coeffs[idx]...)}
	}
	return out
}

// opMode selects which of the five §6 core operations compute runs, so the
// representation-dispatch switch (below) is written once rather than once
// per operation.
type opMode int

const (
	modeGroebner opMode = iota
	modeNormalForm
	modeIsGroebner
	modeLearn
	modeApply
)

// opResult carries whichever of its fields the requested opMode populates;
// ok doubles as the IsGroebner boolean and the Apply success flag, since the
// two are never requested in the same call.
type opResult struct {
	basis      Basis
	ok         bool
	normalForm []Poly
	tr         *trace.Trace
}

// compute runs one of the five core operations against the concrete
// representation M. genPolys are the polynomials that seed the basis
// (the input system for groebner/learn/apply, the candidate basis for
// is_groebner and normal_form); target is only consulted by modeNormalForm.
func compute[M any](ops hashtable.Ops[M], nvars int, construct func([]uint64) (M, error), opts Options, fa field.Arithmetic, mode opMode, genPolys []Poly, target []Poly, inTrace *trace.Trace) (opResult, error) {
	b, ps, err := buildBasis(ops, nvars, construct, opts, genPolys)
	if err != nil {
		return opResult{}, err
	}

	switch mode {
	case modeGroebner:
		if err := f4.Run(b, ps, fa, opts.Options); err != nil {
			return opResult{}, err
		}
		f4.Finish(b, fa, opts.Options)
		return opResult{basis: extractBasis(b)}, nil

	case modeIsGroebner:
		return opResult{ok: f4.IsGroebner(b, fa, opts.Options)}, nil

	case modeNormalForm:
		if opts.Check && !f4.IsGroebner(b, fa, opts.Options) {
			return opResult{}, groebnererr.ErrNotGroebner
		}
		monomsList := make([][]hashtable.MonomId, len(target))
		coeffsList := make([][]uint64, len(target))
		for i, p := range target {
			ids := make([]hashtable.MonomId, len(p.Monoms))
			for k, e := range p.Monoms {
				m, err := construct(e)
				if err != nil {
					return opResult{}, pkgerrors.Wrapf(err, "target polynomial %d term %d", i, k)
				}
				ids[k] = b.Table.Insert(m)
			}
			monomsList[i] = ids
			coeffsList[i] = append([]uint64(nil), p.Coeffs...)
		}
		redMonoms, redCoeffs := f4.NormalForm(b, fa, monomsList, coeffsList)
		out := make([]Poly, len(target))
		for i := range target {
			if redMonoms[i] == nil {
				continue // reduces to zero; leave Poly{} at position i
			}
			exps := make([][]uint64, len(redMonoms[i]))
			for k, mid := range redMonoms[i] {
				exps[k] = expVectorOf(b.Table.Monom(mid))
			}
			out[i] = Poly{Monoms: exps, Coeffs: redCoeffs[i]}
		}
		return opResult{normalForm: out}, nil

	case modeLearn:
		tr, err := f4.Learn(b, ps, fa, opts.Options)
		if err != nil {
			return opResult{}, err
		}
		f4.Finish(b, fa, opts.Options)
		return opResult{basis: extractBasis(b), tr: tr}, nil

	case modeApply:
		ok, err := f4.Apply(b, ps, fa, opts.Options, inTrace)
		if err != nil {
			return opResult{}, err
		}
		if !ok {
			return opResult{ok: false}, nil
		}
		f4.Finish(b, fa, opts.Options)
		return opResult{ok: true, basis: extractBasis(b)}, nil
	}
	panic("groebner: unknown opMode")
}

// runDispatch resolves the monomial representation once and runs compute
// against it, with no monomial-overflow retry: used by every operation
// except the main Groebner entry point, since normal_form/is_groebner/
// learn/apply always see monomials that either already fit (they came out
// of a prior successful groebner call) or are small pre-vetted inputs.
func runDispatch(nvars int, opts Options, mode opMode, genPolys []Poly, target []Poly, inTrace *trace.Trace) (opResult, error) {
	kind, err := dispatchMonoms(opts)
	if err != nil {
		return opResult{}, err
	}
	fa := newArithmetic(opts, opts.Prime)

	switch kind {
	case f4.MonomPacked:
		layout := monomial.NewLayout(nvars, 31)
		construct := func(e []uint64) (monomial.Packed, error) { return monomial.NewPacked(layout, e) }
		return compute(hashtable.PackedOps{}, nvars, construct, opts, fa, mode, genPolys, target, inTrace)
	case f4.MonomSparse:
		construct := func(e []uint64) (monomial.Sparse, error) { return monomial.NewSparse(e) }
		return compute(hashtable.SparseOps{}, nvars, construct, opts, fa, mode, genPolys, target, inTrace)
	default:
		construct := func(e []uint64) (monomial.Dense[uint32], error) { return monomial.NewDense[uint32](e) }
		return compute(hashtable.DenseOps[uint32]{}, nvars, construct, opts, fa, mode, genPolys, target, inTrace)
	}
}

// packedWidths is the packed lane-width ladder of the §7 "restart with a
// wider representation" overflow-recovery policy: Groebner widens the packed
// lane width first (cheapest), then runGroebnerWithRetry falls back to Dense
// with uint8, uint16, uint32 and uint64 components in turn.
var packedWidths = []uint{16, 24, 31}

// runGroebnerWithRetry implements §7's MonomialDegreeOverflow recovery: on
// overflow, retry with the next wider representation before giving up.
func runGroebnerWithRetry(nvars int, opts Options, genPolys []Poly) (opResult, error) {
	kind, err := dispatchMonoms(opts)
	if err != nil {
		return opResult{}, err
	}
	fa := newArithmetic(opts, opts.Prime)

	if kind == f4.MonomSparse {
		construct := func(e []uint64) (monomial.Sparse, error) { return monomial.NewSparse(e) }
		return compute(hashtable.SparseOps{}, nvars, construct, opts, fa, modeGroebner, genPolys, nil, nil)
	}

	if kind == f4.MonomPacked {
		for _, bits := range packedWidths {
			layout := monomial.NewLayout(nvars, bits)
			construct := func(e []uint64) (monomial.Packed, error) { return monomial.NewPacked(layout, e) }
			res, err := compute(hashtable.PackedOps{}, nvars, construct, opts, fa, modeGroebner, genPolys, nil, nil)
			if err == nil {
				return res, nil
			}
			if !errors.Is(err, groebnererr.ErrMonomialOverflow) {
				return opResult{}, err
			}
			log.Debug().Uint("expbits", bits).Msg("packed representation overflowed, widening")
		}
		log.Debug().Msg("packed widening exhausted, falling back to dense")
	}

	if res, err := computeDense[uint8](nvars, opts, fa, genPolys); err == nil || !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		return res, err
	}
	if res, err := computeDense[uint16](nvars, opts, fa, genPolys); err == nil || !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		return res, err
	}
	if res, err := computeDense[uint32](nvars, opts, fa, genPolys); err == nil || !errors.Is(err, groebnererr.ErrMonomialOverflow) {
		return res, err
	}
	return computeDense[uint64](nvars, opts, fa, genPolys)
}

func computeDense[B monomial.UintExp](nvars int, opts Options, fa field.Arithmetic, genPolys []Poly) (opResult, error) {
	construct := func(e []uint64) (monomial.Dense[B], error) { return monomial.NewDense[B](e) }
	return compute(hashtable.DenseOps[B]{}, nvars, construct, opts, fa, modeGroebner, genPolys, nil, nil)
}

// ---- public API (spec.md §6 Core operations) ----

// Groebner implements `groebner(polys, options) -> basis`.
func Groebner(polys []Poly, opts Options) (Basis, error) {
	nvars, err := polyArity(polys)
	if err != nil {
		return Basis{}, err
	}
	res, err := runGroebnerWithRetry(nvars, opts, polys)
	if err != nil {
		return Basis{}, err
	}
	return res.basis, nil
}

// NormalForm implements `normal_form(polys, basis, options) -> reduced_polys`.
func NormalForm(polys []Poly, bas Basis, opts Options) ([]Poly, error) {
	nvars, err := polyArity(bas.Polys)
	if err != nil {
		return nil, err
	}
	res, err := runDispatch(nvars, opts, modeNormalForm, bas.Polys, polys, nil)
	if err != nil {
		return nil, err
	}
	return res.normalForm, nil
}

// IsGroebner implements `is_groebner(polys, options) -> bool`.
func IsGroebner(polys []Poly, opts Options) (bool, error) {
	nvars, err := polyArity(polys)
	if err != nil {
		return false, err
	}
	res, err := runDispatch(nvars, opts, modeIsGroebner, polys, nil, nil)
	if err != nil {
		return false, err
	}
	return res.ok, nil
}

// GroebnerLearn implements `groebner_learn(polys, options) -> (trace, basis)`.
func GroebnerLearn(polys []Poly, opts Options) (*trace.Trace, Basis, error) {
	nvars, err := polyArity(polys)
	if err != nil {
		return nil, Basis{}, err
	}
	res, err := runDispatch(nvars, opts, modeLearn, polys, nil, nil)
	if err != nil {
		return nil, Basis{}, err
	}
	return res.tr, res.basis, nil
}

// GroebnerApply implements `groebner_apply(trace, polys, options) -> (ok, basis)`.
func GroebnerApply(tr *trace.Trace, polys []Poly, opts Options) (bool, Basis, error) {
	nvars, err := polyArity(polys)
	if err != nil {
		return false, Basis{}, err
	}
	res, err := runDispatch(nvars, opts, modeApply, polys, nil, tr)
	if err != nil {
		return false, Basis{}, err
	}
	return res.ok, res.basis, nil
}
