// Package f4 implements the main Gröbner-basis driver loop: pair selection,
// matrix construction, linear algebra, and the basis/pairset update, run to
// fixpoint (spec.md §4.8), plus normal-form reduction and the is-Gröbner
// test that reuse the same iteration machinery (§4.9, §4.10).
package f4

import (
	"os"

	"github.com/consensys/groebner/matrix"
	"github.com/consensys/groebner/monomial"
	"github.com/consensys/groebner/selection"
)

// Ordering, MonomKind, Arithmetic selection, and Linalg selection mirror
// the `options` table in spec.md §6; each is re-exported here as the
// concrete enum f4 and its callers actually switch on, rather than parsing
// strings at every call site.

type MonomKind int

const (
	MonomAuto MonomKind = iota
	MonomDense
	MonomPacked
	MonomSparse
)

type ArithKind int

const (
	ArithAuto ArithKind = iota
	ArithSigned
	ArithUnsigned
	ArithFloating
)

type Homogenize int

const (
	HomogenizeAuto Homogenize = iota
	HomogenizeYes
	HomogenizeNo
)

// Options collects every knob from spec.md §6's options table. Zero value
// is not meaningful on its own; use New to get defaults, then apply
// OptionFuncs.
type Options struct {
	Ordering    monomial.Ordering
	Weights     []int64
	Reduced     bool
	Monoms      MonomKind
	Arithmetic  ArithKind
	Linalg      matrix.LinAlg
	MaxPairs    int
	Selection   selection.Strategy
	Homogenize  Homogenize
	Batched     bool
	Threaded    bool
	Certify     bool
	Seed        uint64
	Sweep       bool

	// DisableThreading mirrors spec.md §9's "disable threading" global
	// knob: read once here from GROEBNER_DISABLE_THREADING at
	// construction time instead of consulted later from a package-level
	// variable, so Options stays the single source of truth for a given
	// run.
	DisableThreading bool
}

// OptionFunc mutates an Options value in place, following the teacher's
// functional-options idiom.
type OptionFunc func(*Options)

// New builds an Options with spec.md §6's defaults, then applies fns.
func New(fns ...OptionFunc) Options {
	o := Options{
		Ordering:         monomial.DegRevLex,
		Reduced:          true,
		Monoms:           MonomAuto,
		Arithmetic:       ArithAuto,
		Linalg:           matrix.Deterministic,
		MaxPairs:         0,
		Selection:        selection.Normal,
		Homogenize:       HomogenizeAuto,
		Batched:          false,
		Threaded:         true,
		Certify:          false,
		Seed:             1,
		Sweep:            true,
		DisableThreading: os.Getenv("GROEBNER_DISABLE_THREADING") != "",
	}
	for _, fn := range fns {
		fn(&o)
	}
	if o.DisableThreading {
		o.Threaded = false
	}
	return o
}

func WithOrdering(ord monomial.Ordering) OptionFunc {
	return func(o *Options) { o.Ordering = ord }
}

func WithWeights(w []int64) OptionFunc { return func(o *Options) { o.Weights = w } }

func WithReduced(reduced bool) OptionFunc { return func(o *Options) { o.Reduced = reduced } }

func WithMonoms(k MonomKind) OptionFunc { return func(o *Options) { o.Monoms = k } }

func WithArithmetic(k ArithKind) OptionFunc { return func(o *Options) { o.Arithmetic = k } }

func WithLinalg(l matrix.LinAlg) OptionFunc { return func(o *Options) { o.Linalg = l } }

func WithMaxPairs(n int) OptionFunc { return func(o *Options) { o.MaxPairs = n } }

func WithSelection(s selection.Strategy) OptionFunc {
	return func(o *Options) { o.Selection = s }
}

func WithHomogenize(h Homogenize) OptionFunc { return func(o *Options) { o.Homogenize = h } }

func WithBatched(b bool) OptionFunc { return func(o *Options) { o.Batched = b } }

func WithThreaded(b bool) OptionFunc { return func(o *Options) { o.Threaded = b } }

func WithCertify(b bool) OptionFunc { return func(o *Options) { o.Certify = b } }

func WithSeed(seed uint64) OptionFunc { return func(o *Options) { o.Seed = seed } }

func WithSweep(b bool) OptionFunc { return func(o *Options) { o.Sweep = b } }
