// Package groebner is the public entry point described in spec.md §6: the
// five core operations (groebner, normal_form, is_groebner, groebner_learn,
// groebner_apply), dispatching each call to a concrete monomial
// representation (monomial.Dense[B] / monomial.Packed / monomial.Sparse)
// chosen from Options, and driving the ℚ path through package modular when
// the caller supplies rational coefficients.
package groebner

import "github.com/consensys/groebner/f4"

// ModularStrategy selects the §6 `modular` option: reduce-and-recompute
// every prime from scratch, or learn a trace once and replay it.
type ModularStrategy int

const (
	ClassicModular ModularStrategy = iota
	LearnAndApply
)

// Options collects every knob from spec.md §6. It embeds f4.Options (the
// finite-field engine's tunables, already following the teacher's
// functional-options idiom) and adds the two concerns that only make sense
// above the field boundary: which characteristic a prime-field call runs
// over, and how the ℚ driver behaves.
type Options struct {
	f4.Options

	// Prime is the field characteristic for Groebner/NormalForm/IsGroebner/
	// GroebnerLearn/GroebnerApply calls on Poly input. Ignored by GroebnerQ,
	// which works entirely in terms of primes chosen by the multi-modular
	// driver.
	Prime uint64

	// ModularStrategy is the §6 `modular` key, consulted only by GroebnerQ.
	ModularStrategy ModularStrategy

	// Check enables normal_form's `options.check` Gröbner-basis
	// precondition (§6 Core operations).
	Check bool
}

// NewOptions builds an Options with spec.md §6's defaults (via f4.New),
// Prime left at 0 (the caller sets it with WithPrime for prime-field calls).
func NewOptions(fns ...f4.OptionFunc) Options {
	return Options{Options: f4.New(fns...)}
}

func (o Options) WithPrime(p uint64) Options {
	o.Prime = p
	return o
}

func (o Options) WithModularStrategy(s ModularStrategy) Options {
	o.ModularStrategy = s
	return o
}

func (o Options) WithCheck(b bool) Options {
	o.Check = b
	return o
}
