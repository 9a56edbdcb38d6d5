// Package groebnererr defines the typed failures surfaced by the core API.
//
// Every recoverable error is a sentinel comparable with errors.Is; callers
// that need to distinguish input mistakes from internal retries should match
// on these values rather than on error strings.
package groebnererr

import "errors"

var (
	// ErrEmptyInput is returned when the generator list is empty.
	ErrEmptyInput = errors.New("groebner: empty polynomial list")

	// ErrZeroGenerators is returned when every generator is the zero polynomial.
	ErrZeroGenerators = errors.New("groebner: all generators are zero")

	// ErrArityMismatch is returned when the generators disagree on the number of variables.
	ErrArityMismatch = errors.New("groebner: inconsistent number of variables")

	// ErrUnsupportedOrdering is returned when a monomial representation cannot express the requested ordering.
	ErrUnsupportedOrdering = errors.New("groebner: ordering unsupported by monomial representation")

	// ErrMonomialOverflow is returned when a monomial component or total degree exceeds the
	// representation's bit budget. The top-level driver catches this and retries with a wider
	// representation; it should not normally reach a caller of the public API.
	ErrMonomialOverflow = errors.New("groebner: monomial degree overflow")

	// ErrUnluckyPrime is internal: a prime reduction changed the leading-monomial shape.
	// It is always caught by the multi-modular driver and never surfaces from the public API.
	ErrUnluckyPrime = errors.New("groebner: unlucky prime")

	// ErrNotGroebner is returned by NormalForm when options.Check is set and the supplied
	// basis is not actually a Gröbner basis.
	ErrNotGroebner = errors.New("groebner: supplied basis is not a Gröbner basis")

	// ErrIterationCapExceeded signals a bug: the F4 loop ran past its hard iteration cap.
	ErrIterationCapExceeded = errors.New("groebner: F4 iteration cap exceeded")

	// ErrTraceMismatch is returned by Apply when the replayed structure doesn't match the trace.
	ErrTraceMismatch = errors.New("groebner: trace does not match input structure")

	// ErrReconstructionFailed is internal to the multi-modular driver: rational reconstruction
	// did not converge with the current modulus and more primes are needed.
	ErrReconstructionFailed = errors.New("groebner: rational reconstruction failed")
)
