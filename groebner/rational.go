package groebner

import (
	"math/big"

	"github.com/consensys/groebner/groebnererr"
	"github.com/consensys/groebner/internal/rational"
	"github.com/consensys/groebner/modular"
	"github.com/consensys/groebner/trace"
)

// RationalCoeff is a coefficient over ℚ as a reduced numerator/denominator
// pair, denominator positive (spec.md §6 Polynomial I/O format).
type RationalCoeff struct {
	Num *big.Int
	Den *big.Int
}

// RationalPoly is one input/output polynomial over ℚ.
type RationalPoly struct {
	Monoms [][]uint64
	Coeffs []RationalCoeff
}

// RationalBasis is a computed Gröbner basis over ℚ.
type RationalBasis struct {
	Polys []RationalPoly
}

func rationalArity(polys []RationalPoly) (int, error) {
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

// integerPoly is an intermediate representation used only inside GroebnerQ:
// monomials plus big.Int coefficients after per-polynomial denominator
// clearing, not yet reduced modulo any particular prime.
type integerPoly struct {
	Monoms [][]uint64
	Coeffs []*big.Int
}

// clearDenominators converts each RationalPoly independently, using its own
// common denominator (§4.12's "clear denominators" step): clearing one
// global denominator across every polynomial would also be correct but
// needlessly inflates the magnitude of unrelated polynomials' coefficients.
func clearDenominators(polys []RationalPoly) ([]integerPoly, []*big.Int) {
	out := make([]integerPoly, len(polys))
	var excluded []*big.Int
	for i, p := range polys {
		rs := make([]rational.Rational, len(p.Coeffs))
		for k, c := range p.Coeffs {
			rs[k] = rational.New(c.Num, c.Den)
		}
		d := rational.LCMDenominators(rs)
		ints := rational.ClearDenominators(rs, d)
		out[i] = integerPoly{Monoms: p.Monoms, Coeffs: ints}
		if len(ints) > 0 {
			excluded = append(excluded, ints[0])
		}
	}
	return out, excluded
}

func reduceModPrime(polys []integerPoly, p uint64) []Poly {
	pBig := new(big.Int).SetUint64(p)
	out := make([]Poly, len(polys))
	for i, ip := range polys {
		coeffs := make([]uint64, len(ip.Coeffs))
		for k, c := range ip.Coeffs {
			coeffs[k] = new(big.Int).Mod(c, pBig).Uint64()
		}
		out[i] = Poly{Monoms: ip.Monoms, Coeffs: coeffs}
	}
	return out
}

func toBasisResult(b Basis) modular.BasisResult {
	out := modular.BasisResult{Exps: make([][][]uint64, len(b.Polys)), Coeffs: make([][]uint64, len(b.Polys))}
	for i, p := range b.Polys {
		out.Exps[i] = p.Monoms
		out.Coeffs[i] = p.Coeffs
	}
	return out
}

// GroebnerQ drives the ℚ path (§4.12): clear denominators once, then reduce
// and compute modulo a growing batch of lucky primes, voting on basis
// shape, CRT-combining surviving residues and rational-reconstructing.
func GroebnerQ(polys []RationalPoly, opts Options) (RationalBasis, error) {
	nvars, err := rationalArity(polys)
	if err != nil {
		return RationalBasis{}, err
	}
	intPolys, excluded := clearDenominators(polys)

	run := func(p uint64, tr *trace.Trace) (modular.BasisResult, *trace.Trace, error) {
		reduced := reduceModPrime(intPolys, p)
		primeOpts := opts
		primeOpts.Prime = p

		if opts.ModularStrategy == LearnAndApply && tr != nil {
			res, err := runDispatch(nvars, primeOpts, modeApply, reduced, nil, tr)
			if err == nil && res.ok {
				return toBasisResult(res.basis), tr, nil
			}
			// apply failed (unlucky specialization): fall through to a full
			// run below, which also refreshes the trace for later primes.
		}

		mode := modeGroebner
		if opts.ModularStrategy == LearnAndApply {
			mode = modeLearn
		}
		res, err := runDispatch(nvars, primeOpts, mode, reduced, nil, nil)
		if err != nil {
			return modular.BasisResult{}, nil, err
		}
		return toBasisResult(res.basis), res.tr, nil
	}

	cfg := modular.DefaultConfig()
	cfg.Threaded = opts.Threaded
	cfg.Certify = opts.Certify
	cfg.Batched = opts.Batched
	cfg.Run4 = func(primes [4]uint64, tr *trace.Trace) ([4]modular.BasisResult, [4]bool, error) {
		var genPolysPerLane [4][]Poly
		for lane, p := range primes {
			genPolysPerLane[lane] = reduceModPrime(intPolys, p)
		}
		bases4, oks, err := runDispatchApplyBatch4(nvars, opts, primes, genPolysPerLane, tr)
		if err != nil {
			return [4]modular.BasisResult{}, [4]bool{}, err
		}
		var results [4]modular.BasisResult
		for lane := 0; lane < 4; lane++ {
			if oks[lane] {
				results[lane] = toBasisResult(bases4[lane])
			}
		}
		return results, oks, nil
	}

	refExps, coeffs, err := modular.Run(run, excluded, cfg)
	if err != nil {
		return RationalBasis{}, err
	}

	out := RationalBasis{Polys: make([]RationalPoly, len(refExps))}
	pos := 0
	for i, terms := range refExps {
		cs := make([]RationalCoeff, len(terms))
		for k := range terms {
			r := coeffs[pos]
			pos++
			cs[k] = RationalCoeff{Num: r.Num, Den: r.Den}
		}
		out.Polys[i] = RationalPoly{Monoms: terms, Coeffs: cs}
	}
	return out, nil
}
