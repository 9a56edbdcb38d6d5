// Package field implements the Z/pZ arithmetic backends used by the
// Macaulay matrix reducer (§4.7). The inner F4 engine always works over a
// finite field; ℚ is handled only at the multi-modular driver level
// (package modular).
package field

import (
	"math/big"
	"math/bits"
)

// Kind selects an arithmetic backend, mirroring the `arithmetic` option
// (auto/signed/unsigned/floating).
type Kind int

const (
	KindAuto Kind = iota
	KindUnsigned
	KindSigned
	KindFloating
)

// Arithmetic is the capability set the linear-algebra backend needs over a
// chosen prime field: modular add/sub/mul/neg/inverse. Unsigned and
// Floating keep elements as the canonical representative in [0, p); Signed
// keeps them centered (see Signed).
type Arithmetic interface {
	Prime() uint64
	Add(a, b uint64) uint64
	Sub(a, b uint64) uint64
	Mul(a, b uint64) uint64
	Neg(a uint64) uint64
	Inv(a uint64) uint64
	// Reduce maps a to the backend's own representative: a mod p in [0, p)
	// for Unsigned and Floating; Signed takes a canonical value or a
	// wrapped centered one and returns the centered representative.
	Reduce(a uint64) uint64
}

// New builds an Arithmetic backend for prime p. KindAuto downgrades to
// KindFloating for primes under 2^25 (exact in float64 without a wide
// multiply), otherwise KindUnsigned. New does not check an explicit
// KindFloating against the prime; groebner's newArithmetic downgrades such a
// request to KindUnsigned for primes of 2^25 and above.
func New(kind Kind, p uint64) Arithmetic {
	switch kind {
	case KindSigned:
		return &Signed{p: p}
	case KindFloating:
		return &Floating{p: p, pf: float64(p), pinv: 1.0 / float64(p)}
	case KindUnsigned, KindAuto:
		fallthrough
	default:
		if kind == KindAuto && p < (1<<25) {
			return &Floating{p: p, pf: float64(p), pinv: 1.0 / float64(p)}
		}
		return &Unsigned{p: p}
	}
}

// modInverse runs the extended Euclidean algorithm; shared by every
// backend since none of them gain anything representation-specific here.
func modInverse(a, p uint64) uint64 {
	// a is assumed already reduced into [0, p) and nonzero.
	var g = new(big.Int).SetUint64(p)
	var x = new(big.Int).SetUint64(a)
	inv := new(big.Int).ModInverse(x, g)
	if inv == nil {
		panic("field: element not invertible (prime is not actually prime, or a == 0)")
	}
	return inv.Uint64()
}

// ---- Unsigned: canonical representative in [0, p), deferred-reduction
// multiply via a 128-bit intermediate (math/bits.Mul64 + Div64). This is
// the "deferred reduction with wider accumulator" option named in §4.7,
// chosen as the default over a Barrett/Shoup precomputed-reciprocal
// multiply because it needs no per-field setup step and is exact for any
// prime up to 63 bits, which covers every characteristic this engine is
// asked to run over.

type Unsigned struct{ p uint64 }

func (u *Unsigned) Prime() uint64 { return u.p }
func (u *Unsigned) Reduce(a uint64) uint64 { return a % u.p }
func (u *Unsigned) Add(a, b uint64) uint64 {
	s := a + b
	if s >= u.p || s < a {
		s -= u.p
	}
	return s
}
func (u *Unsigned) Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return u.p - (b - a)
}
func (u *Unsigned) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, u.p)
	return rem
}
func (u *Unsigned) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return u.p - a
}
func (u *Unsigned) Inv(a uint64) uint64 { return modInverse(a, u.p) }

// ---- Signed: same residues mod p, but Reduce and every field operation
// return the centered representative in [-(p-1)/2, (p-1)/2], a negative
// value represented as a uint64 via two's-complement wraparound, so that
// coefficient magnitudes stay roughly half as large as the unsigned
// representative. Operands may be canonical or centered.

type Signed struct{ p uint64 }

func (s *Signed) Prime() uint64 { return s.p }

// canonical un-centers x back into [0, p): a fresh coefficient coming from
// storage is already canonical (and always < p), while a value produced by
// one of this type's own ops is either in [0, p/2] or the two's-complement
// wraparound of a negative centered value, i.e. 2^64-k for some k in
// [1, p/2]. Since p is at most 63 bits, that wraparound is always >= p, so
// checking x < p reliably tells the two cases apart. Every op must run its
// operands through this before combining them mod p -- feeding a wrapped
// negative straight into unsigned %/arithmetic silently corrupts the result
// whenever 2^64 mod p != 0.
func (s *Signed) canonical(x uint64) uint64 {
	if x < s.p {
		return x
	}
	k := -x // uint64 wraparound negation recovers the magnitude k
	return s.p - k
}
func (s *Signed) center(x uint64) uint64 {
	if x > s.p/2 {
		x -= s.p // wraps to a uint64 representing a negative centered value
	}
	return x
}
func (s *Signed) Reduce(a uint64) uint64 { return s.center(s.canonical(a)) }
func (s *Signed) Add(a, b uint64) uint64 {
	return s.center((s.canonical(a) + s.canonical(b)) % s.p)
}
func (s *Signed) Sub(a, b uint64) uint64 {
	return s.center((s.canonical(a) - s.canonical(b) + s.p) % s.p)
}
func (s *Signed) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(s.canonical(a), s.canonical(b))
	_, rem := bits.Div64(hi, lo, s.p)
	return s.center(rem)
}
func (s *Signed) Neg(a uint64) uint64 { return s.center(s.p - s.canonical(a)) }
func (s *Signed) Inv(a uint64) uint64 { return s.center(modInverse(s.canonical(a), s.p)) }

// ---- Floating: valid only for primes p < 2^25, where products of two
// reduced elements fit exactly in a float64's 53-bit mantissa, so
// multiplication can use hardware floating-point instead of a 128-bit
// integer multiply -- the classic small-prime speed trick. The driver
// (§4.7 "auto-downgrades") must not select this backend for larger primes;
// New only picks it automatically under that threshold.

type Floating struct {
	p    uint64
	pf   float64
	pinv float64
}

func (f *Floating) Prime() uint64      { return f.p }
func (f *Floating) Reduce(a uint64) uint64 { return a % f.p }
func (f *Floating) Add(a, b uint64) uint64 {
	s := a + b
	if s >= f.p {
		s -= f.p
	}
	return s
}
func (f *Floating) Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return f.p - (b - a)
}
func (f *Floating) Mul(a, b uint64) uint64 {
	af, bf := float64(a), float64(b)
	prod := af * bf
	q := prod * f.pinv
	qi := uint64(q)
	r := int64(prod) - int64(qi)*int64(f.p)
	for r < 0 {
		r += int64(f.p)
	}
	for uint64(r) >= f.p {
		r -= int64(f.p)
	}
	return uint64(r)
}
func (f *Floating) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return f.p - a
}
func (f *Floating) Inv(a uint64) uint64 { return modInverse(a, f.p) }
