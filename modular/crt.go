package modular

import "math/big"

// accumulator holds the CRT-combined state across an ℚ driver run: a
// growing modulus and, for every coefficient position ever seen, its
// residue mod that modulus.
type accumulator struct {
	modulus *big.Int
	values  map[string][]*big.Int // LeadKey -> per-term combined residues
}

func newAccumulator() *accumulator {
	return &accumulator{modulus: big.NewInt(1), values: map[string][]*big.Int{}}
}

// Combine folds one more prime's basis into the accumulator via CRT,
// advancing modulus to modulus*p. The very first prime just seeds values
// directly (CRT with modulus 1 is the identity).
func (a *accumulator) Combine(res BasisResult, p uint64) {
	pBig := new(big.Int).SetUint64(p)
	first := a.modulus.Cmp(big.NewInt(1)) == 0

	for i, key := range leadKeys(res) {
		coeffs := res.Coeffs[i]
		cur, ok := a.values[key]
		if !ok || first {
			cur = make([]*big.Int, len(coeffs))
			for k, c := range coeffs {
				cur[k] = centeredResidue(c, p)
			}
			a.values[key] = cur
			continue
		}
		for k, c := range coeffs {
			if k >= len(cur) {
				cur = append(cur, big.NewInt(0))
			}
			cur[k] = crtCombine(cur[k], a.modulus, centeredResidue(c, p), pBig)
		}
		a.values[key] = cur
	}
	a.modulus = new(big.Int).Mul(a.modulus, pBig)
}

// centeredResidue lifts a field element (canonical [0,p)) to the integer
// in (-p/2, p/2] it represents, matching field.Signed's convention so CRT
// accumulation sees small-magnitude values.
func centeredResidue(c uint64, p uint64) *big.Int {
	v := new(big.Int).SetUint64(c)
	half := new(big.Int).Rsh(new(big.Int).SetUint64(p), 1)
	if v.Cmp(half) > 0 {
		v.Sub(v, new(big.Int).SetUint64(p))
	}
	return v
}

// crtCombine solves x ≡ a (mod m), x ≡ b (mod n) for x in [0, m*n), given
// coprime m, n.
func crtCombine(a, m, b, n *big.Int) *big.Int {
	mInv := new(big.Int).ModInverse(m, n)
	if mInv == nil {
		panic("modular: CRT moduli are not coprime (duplicate lucky prime reused)")
	}
	mn := new(big.Int).Mul(m, n)
	t := new(big.Int).Mod(new(big.Int).Mul(new(big.Int).Sub(b, a), mInv), n)
	x := new(big.Int).Add(a, new(big.Int).Mul(m, t))
	return x.Mod(x, mn)
}
