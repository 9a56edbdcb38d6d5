// Package modular implements the multi-modular driver for rational-
// coefficient input (spec.md §4.12): reduce modulo a growing batch of
// lucky primes, run F4 (or trace replay) modulo each, vote on leading-
// monomial shape, CRT-combine surviving bases, and rational-reconstruct.
package modular

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/consensys/groebner/internal/rational"
	"github.com/consensys/groebner/logger"
	"github.com/consensys/groebner/trace"
)

var log = logger.Logger().With().Str("component", "modular").Logger()

// BasisResult is a representation-independent snapshot of a Gröbner basis
// computed modulo one prime: for each polynomial, its term exponent
// vectors (identical across lucky primes, by definition of "lucky") and
// the coefficients reduced mod that prime.
type BasisResult struct {
	Exps   [][][]uint64
	Coeffs [][]uint64
}

// RunFunc computes a Gröbner basis of the driver's fixed input modulo
// prime p. If tr is non-nil, the implementation should attempt
// groebner_apply against it first and fall back to a full run (returning a
// fresh trace) if apply fails -- the driver only cares about the result
// and, optionally, a trace to offer on the next call.
type RunFunc func(p uint64, tr *trace.Trace) (BasisResult, *trace.Trace, error)

// RunFunc4 computes Gröbner bases for four primes at once via the
// "batched" composite path (spec.md line 146), given an existing trace tr
// to replay (never called with tr == nil: the very first batch of any run
// has no trace yet to replay, so it always goes through RunFunc). oks[i]
// reports whether lane i's batched replay actually stayed in lockstep with
// the others for its whole run; a false lane's BasisResult is meaningless
// and the caller retries that one prime through RunFunc instead.
type RunFunc4 func(primes [4]uint64, tr *trace.Trace) (results [4]BasisResult, oks [4]bool, err error)

// Config collects the driver's tunables (subset of f4.Options relevant to
// the ℚ layer).
type Config struct {
	Threaded     bool
	Certify      bool
	Batched      bool
	Run4         RunFunc4
	BatchStart   int
	BatchGrowth  float64
	StartCeiling uint64
}

// DefaultConfig mirrors spec.md §4.12's "start 1, geometric growth ≈×2"
// and uses 2^31-1 (the Mersenne prime already used in spec.md's own worked
// examples) as the starting search ceiling.
func DefaultConfig() Config {
	return Config{
		Threaded:     true,
		Certify:      false,
		Batched:      false,
		BatchStart:   1,
		BatchGrowth:  2.0,
		StartCeiling: (1 << 31) - 1,
	}
}

// Run drives the multi-modular loop to completion: reduce, vote, CRT,
// reconstruct, verify, repeat with a larger batch until reconstruction
// succeeds and passes its correctness checks. excludedLeadCoeffs are the
// leading coefficients of the integer basis (after clearing denominators);
// primes dividing any of them are skipped outright (step 3a).
func Run(run RunFunc, excludedLeadCoeffs []*big.Int, cfg Config) ([][][]uint64, []rational.Rational, error) {
	stream := newPrimeStream(cfg.StartCeiling, excludedLeadCoeffs)
	acc := newAccumulator()

	var refExps [][][]uint64
	var refOrder []string // LeadKey per polynomial, in the reference's original order
	var lastTrace *trace.Trace

	batchSize := cfg.BatchStart
	if batchSize < 1 {
		batchSize = 1
	}

	for {
		primes := stream.NextBatch(batchSize)
		results, err := runBatch(run, cfg.Run4, cfg.Batched, primes, lastTrace, cfg.Threaded)
		if err != nil {
			return nil, nil, err
		}

		var refSig string
		if refOrder != nil {
			refSig = strings.Join(refOrder, "|")
		}
		accepted, majorityExps, majorityOrder := voteShape(results, refSig)
		log.Debug().Int("batch", batchSize).Int("accepted", len(accepted)).Int("total", len(primes)).Msg("shape vote")
		if refExps == nil && len(accepted) > 0 {
			refExps, refOrder = majorityExps, majorityOrder
		}

		for i, p := range primes {
			if accepted[i] {
				acc.Combine(results[i].res, p)
				if lastTrace == nil && results[i].tr != nil {
					lastTrace = results[i].tr
				}
			}
		}

		if refExps != nil {
			coeffsOK, reconstructed := tryReconstruct(acc, refOrder)
			if coeffsOK {
				if ok := verify(run, stream, reconstructed, refOrder, acc.modulus, cfg); ok {
					return refExps, flatten(reconstructed, refOrder), nil
				}
			}
		}

		batchSize = int(float64(batchSize) * cfg.BatchGrowth)
		if batchSize < 1 {
			batchSize = 1
		}
	}
}

type batchResult struct {
	res BasisResult
	tr  *trace.Trace
	err error
}

// primeGroup is four primes batched into one RunFunc4 call, carrying the
// indices into the caller's primes/out slices they came from.
type primeGroup struct {
	idxs   [4]int
	primes [4]uint64
}

// groupPrimes splits primes into groups of four (for RunFunc4) plus
// whatever's left over as singles (for RunFunc), in original order.
// Batching is only attempted when enabled and there's an existing trace to
// replay -- the first batch of any run never has one.
func groupPrimes(primes []uint64, enabled bool) (groups []primeGroup, singles []int) {
	if !enabled {
		singles = make([]int, len(primes))
		for i := range singles {
			singles[i] = i
		}
		return nil, singles
	}
	i := 0
	for ; i+4 <= len(primes); i += 4 {
		var g primeGroup
		for k := 0; k < 4; k++ {
			g.idxs[k] = i + k
			g.primes[k] = primes[i+k]
		}
		groups = append(groups, g)
	}
	for ; i < len(primes); i++ {
		singles = append(singles, i)
	}
	return groups, singles
}

func runBatch(run RunFunc, run4 RunFunc4, batched bool, primes []uint64, tr *trace.Trace, threaded bool) ([]batchResult, error) {
	out := make([]batchResult, len(primes))

	runOne := func(i int, p uint64) {
		res, t, err := run(p, tr)
		out[i] = batchResult{res: res, tr: t, err: err}
	}
	// runGroup drives one RunFunc4 call and falls any lane that didn't stay
	// in lockstep (oks[k] == false) back to a scalar run, so an unlucky
	// prime inside an otherwise-successful group doesn't just vanish.
	runGroup := func(grp primeGroup) {
		results, oks, err := run4(grp.primes, tr)
		if err != nil {
			for _, i := range grp.idxs {
				out[i] = batchResult{err: err}
			}
			return
		}
		for k, i := range grp.idxs {
			if !oks[k] {
				runOne(i, grp.primes[k])
				continue
			}
			out[i] = batchResult{res: results[k], tr: tr}
		}
	}

	groups, singles := groupPrimes(primes, batched && run4 != nil && tr != nil)

	if !threaded {
		for _, grp := range groups {
			runGroup(grp)
		}
		for _, i := range singles {
			runOne(i, primes[i])
		}
		return out, firstErr(out)
	}

	var g errgroup.Group
	for _, grp := range groups {
		grp := grp
		g.Go(func() error { runGroup(grp); return nil })
	}
	for _, i := range singles {
		i, p := i, primes[i]
		g.Go(func() error { runOne(i, p); return nil })
	}
	_ = g.Wait()
	return out, firstErr(out)
}

func firstErr(out []batchResult) error {
	for _, r := range out {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// voteShape implements the majority_vote! fix called out in spec.md §9:
// group results by a canonical signature of their full term structure,
// and accept only the primes whose result matches whichever signature has
// strictly more votes than any other (a real majority, not "always true").
// Once a reference shape has been established by an earlier batch (refSig
// non-empty), that shape is authoritative: later batches vote only to
// decide whether *this batch's* primes match it, never to replace it --
// otherwise CRT combination across batches could silently combine
// residues of differently-shaped bases.
func voteShape(results []batchResult, refSig string) (accepted []bool, majorityExps [][][]uint64, majorityOrder []string) {
	accepted = make([]bool, len(results))
	sigOf := make([]string, len(results))
	for i, r := range results {
		if r.err != nil {
			continue
		}
		sigOf[i] = basisSignature(r.res)
	}

	best := refSig
	if best == "" {
		counts := map[string]int{}
		for _, sig := range sigOf {
			if sig != "" {
				counts[sig]++
			}
		}
		bestCount, tied := 0, false
		for sig, c := range counts {
			if c > bestCount {
				best, bestCount, tied = sig, c, false
			} else if c == bestCount {
				tied = true
			}
		}
		if bestCount == 0 || tied {
			return accepted, nil, nil
		}
	}

	for i, r := range results {
		if r.err == nil && sigOf[i] == best {
			accepted[i] = true
			if majorityExps == nil {
				majorityExps, majorityOrder = r.res.Exps, leadKeys(r.res)
			}
		}
	}
	return accepted, majorityExps, majorityOrder
}

func leadKeys(r BasisResult) []string {
	keys := make([]string, len(r.Exps))
	for i, terms := range r.Exps {
		keys[i] = polySignature(terms)
	}
	return keys
}

func basisSignature(r BasisResult) string {
	return strings.Join(leadKeys(r), "|")
}

func polySignature(terms [][]uint64) string {
	var b strings.Builder
	for _, t := range terms {
		for _, e := range t {
			fmt.Fprintf(&b, "%d,", e)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// tryReconstruct attempts full rational reconstruction of every
// accumulated coefficient. bound = floor(sqrt(modulus/2)) per spec.md
// §4.12 step d.
func tryReconstruct(acc *accumulator, order []string) (bool, map[string][]rational.Rational) {
	if acc.modulus.Cmp(big.NewInt(1)) <= 0 {
		return false, nil
	}
	bound := new(big.Int).Sqrt(new(big.Int).Rsh(acc.modulus, 1))
	if bound.Sign() == 0 {
		bound.SetInt64(1)
	}

	out := map[string][]rational.Rational{}
	for _, key := range order {
		residues, ok := acc.values[key]
		if !ok {
			return false, nil
		}
		rs := make([]rational.Rational, len(residues))
		for k, res := range residues {
			r, ok := rational.Reconstruct(res, acc.modulus, bound)
			if !ok {
				return false, nil
			}
			rs[k] = r
		}
		out[key] = rs
	}
	return true, out
}

// certifyExtraPrimes is how many additional independent randomized checks
// "certify" buys beyond the one spec.md §4.12 step e-ii already requires.
// There is no separate exact-rational certification code path in this
// tree (it would need its own arbitrary-precision Gröbner engine); instead
// certification is realized as enough extra fresh-prime agreements to
// drive the probability of an undetected wrong reconstruction down by
// roughly the same margin an exact check would, at the cost of more F4
// runs rather than a second arithmetic stack.
const certifyExtraPrimes = 7

// verify runs the heuristic, randomized, and (when cfg.Certify is set)
// certification correctness checks from spec.md §4.12 step e.
func verify(run RunFunc, stream *primeStream, reconstructed map[string][]rational.Rational, order []string, modulus *big.Int, cfg Config) bool {
	const heuristicFactor = 4 // C in "bit-size of numer+denom < C·bit-size of M"
	modBits := modulus.BitLen()
	for _, key := range order {
		for _, r := range reconstructed[key] {
			if r.Num.BitLen()+r.Den.BitLen() >= heuristicFactor*modBits {
				return false
			}
		}
	}

	checks := 1
	if cfg.Certify {
		checks += certifyExtraPrimes
	}
	for i := 0; i < checks; i++ {
		if !randomizedCheck(run, reconstructed, order, stream.Next()) {
			return false
		}
	}
	return true
}

// randomizedCheck implements spec.md §4.12 step e-ii: recompute a Gröbner
// basis of the driver's input modulo a fresh prime q via run (a full run,
// tr=nil, never an apply against a trace from a different prime), then
// compare it against the candidate reconstructed basis reduced mod q.
// run's own output is already standardized (monic, canonically ordered),
// so exact coefficient equality after reduction is both necessary and
// sufficient for the candidate to be a Gröbner basis containing the input
// mod q -- it doubles as that check without a separate normal-form pass.
func randomizedCheck(run RunFunc, reconstructed map[string][]rational.Rational, order []string, q uint64) bool {
	fresh, _, err := run(q, nil)
	if err != nil {
		return false
	}
	freshKeys := leadKeys(fresh)
	idxOf := make(map[string]int, len(freshKeys))
	for i, k := range freshKeys {
		idxOf[k] = i
	}
	for _, key := range order {
		idx, ok := idxOf[key]
		if !ok {
			return false
		}
		want := fresh.Coeffs[idx]
		residues := reconstructed[key]
		if len(residues) != len(want) {
			return false
		}
		for k, r := range residues {
			if rational.ModPrime(r, q) != want[k] {
				return false
			}
		}
	}
	return true
}

func flatten(reconstructed map[string][]rational.Rational, order []string) []rational.Rational {
	var out []rational.Rational
	for _, key := range order {
		out = append(out, reconstructed[key]...)
	}
	return out
}
