// Package rational implements a small rational-number type backed by
// math/big, used by the multi-modular driver for denominator clearing and
// rational reconstruction (spec.md §4.12). There is no retrieval-pack
// source for this package; it is a fresh implementation sized to exactly
// what the driver needs, not a general-purpose big.Rat replacement.
package rational

import "math/big"

// Rational is a reduced fraction numerator/denominator, denominator always
// positive, gcd(numerator, denominator) == 1.
type Rational struct {
	Num *big.Int
	Den *big.Int
}

// New builds a reduced Rational from num/den. den must be nonzero; a
// negative den is normalized by flipping both signs.
func New(num, den *big.Int) Rational {
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() == 0 {
		panic("rational: zero denominator")
	}
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		n.Quo(n, g)
		d.Quo(d, g)
	}
	return Rational{Num: n, Den: d}
}

// FromInt64 builds an integer-valued Rational.
func FromInt64(n int64) Rational { return Rational{Num: big.NewInt(n), Den: big.NewInt(1)} }

// Sign returns -1, 0 or 1.
func (r Rational) Sign() int { return r.Num.Sign() }

// Cmp compares r to s.
func (r Rational) Cmp(s Rational) int {
	lhs := new(big.Int).Mul(r.Num, s.Den)
	rhs := new(big.Int).Mul(s.Num, r.Den)
	return lhs.Cmp(rhs)
}

// Add returns r+s, reduced.
func (r Rational) Add(s Rational) Rational {
	num := new(big.Int).Add(new(big.Int).Mul(r.Num, s.Den), new(big.Int).Mul(s.Num, r.Den))
	den := new(big.Int).Mul(r.Den, s.Den)
	return New(num, den)
}

// Mul returns r*s, reduced.
func (r Rational) Mul(s Rational) Rational {
	return New(new(big.Int).Mul(r.Num, s.Num), new(big.Int).Mul(r.Den, s.Den))
}

// LCMDenominators returns the least common multiple of the denominators of
// rs, i.e. the smallest integer D such that every r in rs times D is an
// integer -- the "clear denominators" step of §4.12.
func LCMDenominators(rs []Rational) *big.Int {
	lcm := big.NewInt(1)
	for _, r := range rs {
		g := new(big.Int).GCD(nil, nil, lcm, r.Den)
		next := new(big.Int).Mul(lcm, new(big.Int).Quo(r.Den, g))
		lcm = next
	}
	return lcm
}

// ClearDenominators scales every rs[i] by D (the common denominator) and
// returns the resulting integer coefficients; every entry is exact when D
// is an actual common multiple of the denominators (e.g. LCMDenominators's
// output).
func ClearDenominators(rs []Rational, d *big.Int) []*big.Int {
	out := make([]*big.Int, len(rs))
	for i, r := range rs {
		mult, rem := new(big.Int).QuoRem(d, r.Den, new(big.Int))
		if rem.Sign() != 0 {
			panic("rational: denominator did not divide D, D was not a common multiple")
		}
		out[i] = new(big.Int).Mul(r.Num, mult)
	}
	return out
}

// ModPrime reduces r modulo the prime p as num * inverse(den mod p) mod p.
// den must not be divisible by p; callers reducing a multi-modular driver's
// reconstructed coefficients already restrict q to primes that don't
// divide any basis leading coefficient, which in particular keeps
// denominators invertible here.
func ModPrime(r Rational, p uint64) uint64 {
	pBig := new(big.Int).SetUint64(p)
	den := new(big.Int).Mod(r.Den, pBig)
	inv := new(big.Int).ModInverse(den, pBig)
	if inv == nil {
		panic("rational: denominator not invertible mod p")
	}
	num := new(big.Int).Mod(r.Num, pBig)
	return new(big.Int).Mod(new(big.Int).Mul(num, inv), pBig).Uint64()
}

// Reconstruct implements extended-Euclidean rational reconstruction: given
// a residue a mod m, find (num, den) with |num|, |den| <= bound and
// num ≡ a*den (mod m). Returns (Rational{}, false) if no such pair exists
// within bound (§4.12 step d).
func Reconstruct(a, m, bound *big.Int) (Rational, bool) {
	// Standard half-gcd style extended Euclidean reconstruction.
	r0, r1 := new(big.Int).Set(m), new(big.Int).Mod(a, m)
	t0, t1 := big.NewInt(0), big.NewInt(1)

	for r1.CmpAbs(bound) > 0 {
		if r1.Sign() == 0 {
			return Rational{}, false
		}
		q := new(big.Int).Quo(r0, r1)
		r0, r1 = r1, new(big.Int).Sub(r0, new(big.Int).Mul(q, r1))
		t0, t1 = t1, new(big.Int).Sub(t0, new(big.Int).Mul(q, t1))
	}
	if t1.Sign() == 0 {
		return Rational{}, false
	}
	den := new(big.Int).Abs(t1)
	if den.Cmp(bound) > 0 {
		return Rational{}, false
	}
	num := r1
	if t1.Sign() < 0 {
		num.Neg(num)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		num.Quo(num, g)
		den.Quo(den, g)
	}
	return Rational{Num: num, Den: den}, true
}
