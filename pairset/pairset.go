// Package pairset implements the SPair type and the Gebauer-Möller update
// pass described in spec §3 and §4.3.
package pairset

import (
	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/hashtable"
)

// DroppedLcm marks a pair as pruned. Spec §3 literally says "an lcm of 0
// marks a pair to be discarded", which assumes MonomId 0 is never a real
// lcm; rather than lean on "the identity monomial happens to be inserted
// first", we use an explicit out-of-band sentinel so the invariant holds
// regardless of insertion order.
const DroppedLcm hashtable.MonomId = -1

// SPair is a critical pair as described in spec §3.
type SPair struct {
	Poly1, Poly2 int
	Lcm          hashtable.MonomId
	Deg          uint64
}

// Dropped reports whether this pair has been pruned.
func (p SPair) Dropped() bool { return p.Lcm == DroppedLcm }

// Pairset holds the current set of live critical pairs.
type Pairset struct {
	Pairs []SPair
}

// Compact removes dropped pairs, preserving relative order.
func (ps *Pairset) Compact() {
	out := ps.Pairs[:0]
	for _, p := range ps.Pairs {
		if !p.Dropped() {
			out = append(out, p)
		}
	}
	ps.Pairs = out
}

// Empty reports whether every live pair has been consumed.
func (ps *Pairset) Empty() bool {
	for _, p := range ps.Pairs {
		if !p.Dropped() {
			return false
		}
	}
	return true
}

// Update folds newly-added basis polynomials (indices in newIdx, in
// ascending order) into the basis's redundancy state and this pairset,
// applying the Gebauer-Möller pruning criteria from spec §4.3.
func Update[M any](ps *Pairset, b *basis.Basis[M], newIdx []int) {
	table := b.Table
	for _, i := range newIdx {
		liI := b.LeadingMonom(i)
		lmI := table.Monom(liI)
		maskI := table.Value(liI).DivMask
		degI := table.Value(liI).Deg

		// Step 1: redundancy test against the *current* non-redundant set.
		redundant := false
		for _, j := range b.NonRedundant {
			if j == i {
				continue
			}
			ljL := b.LeadingMonom(j)
			lmJ := table.Monom(ljL)
			if _, ok := table.IsDivisibleWith(lmI, lmJ); ok {
				redundant = true
				break
			}
		}
		if redundant {
			b.MarkRedundant(i)
			continue
		}

		// Step 2: candidate pairs (j, i) for every other non-redundant j.
		type candidate struct {
			j          int
			lcm        hashtable.MonomId
			deg        uint64
			coprime    bool
		}
		cands := make([]candidate, 0, len(b.NonRedundant))
		for _, j := range b.NonRedundant {
			if j == i {
				continue
			}
			ljL := b.LeadingMonom(j)
			lmJ := table.Monom(ljL)
			degJ := table.Value(ljL).Deg
			lcmId, lcmDeg := lcmOf(table, lmI, lmJ)
			cands = append(cands, candidate{
				j:       j,
				lcm:     lcmId,
				deg:     lcmDeg,
				coprime: lcmDeg == degI+degJ,
			})
		}

		// Step 3a: relatively-prime criterion -- drop coprime pairs outright.
		// This is the standard simplification of the M/F criterion: when
		// lm_i and lm_j share no variable, spoly(i,j) always reduces to 0
		// modulo {i, j} alone, so keeping the pair can never be required.
		for k := range cands {
			if cands[k].coprime {
				cands[k].lcm = DroppedLcm
			}
		}

		// Step 3b: among surviving candidates with equal lcm, keep only the
		// one with the smallest (poly1, poly2) -- tie-break rule from §4.3.
		bestForLcm := map[hashtable.MonomId]int{}
		for k := range cands {
			if cands[k].lcm == DroppedLcm {
				continue
			}
			if cur, ok := bestForLcm[cands[k].lcm]; ok {
				if cands[k].j < cands[cur].j {
					cands[cur].lcm = DroppedLcm
					bestForLcm[cands[k].lcm] = k
				} else {
					cands[k].lcm = DroppedLcm
				}
			} else {
				bestForLcm[cands[k].lcm] = k
			}
		}

		// Step 3c (the standard M/F criterion): among surviving candidates,
		// drop any whose lcm is a strict multiple of another surviving
		// candidate's lcm. Equal lcms are already resolved above; when
		// lcm(m) properly divides lcm(k), keeping (j_k,i) adds nothing
		// spoly(j_m,i) doesn't already cover, since m's lcm is no larger.
		for k := range cands {
			if cands[k].lcm == DroppedLcm {
				continue
			}
			lcmK := table.Monom(cands[k].lcm)
			for m := range cands {
				if m == k || cands[m].lcm == DroppedLcm || cands[m].lcm == cands[k].lcm {
					continue
				}
				lcmM := table.Monom(cands[m].lcm)
				if _, ok := table.IsDivisibleWith(lcmK, lcmM); ok {
					cands[k].lcm = DroppedLcm
					break
				}
			}
		}

		for _, c := range cands {
			if c.lcm == DroppedLcm {
				continue
			}
			ps.Pairs = append(ps.Pairs, SPair{Poly1: c.j, Poly2: i, Lcm: c.lcm, Deg: c.deg})
		}

		// Step 3d (Buchberger's LCM criterion): drop any existing pair
		// (a,b) whose lcm is divisible by lm_i and whose degree exceeds
		// max(deg(lcm(a,i)), deg(lcm(b,i))).
		for idx := range ps.Pairs {
			p := &ps.Pairs[idx]
			if p.Dropped() || p.Poly1 == i || p.Poly2 == i {
				continue
			}
			pm := table.Monom(p.Lcm)
			if _, ok := table.IsDivisibleWith(pm, lmI); !ok {
				continue
			}
			_, degAI := lcmOf(table, table.Monom(b.LeadingMonom(p.Poly1)), lmI)
			_, degBI := lcmOf(table, table.Monom(b.LeadingMonom(p.Poly2)), lmI)
			bound := degAI
			if degBI > bound {
				bound = degBI
			}
			if p.Deg > bound {
				p.Lcm = DroppedLcm
			}
		}

		// Step 4: any old non-redundant poly whose lead becomes divisible
		// by lm_i is now redundant.
		for _, j := range b.NonRedundant {
			if j == i || b.IsRedundant[j] {
				continue
			}
			ljL := b.LeadingMonom(j)
			lmJ := table.Monom(ljL)
			if !maskI.CanDivide(table.Value(ljL).DivMask) {
				continue
			}
			if _, ok := table.IsDivisibleWith(lmJ, lmI); ok {
				b.MarkRedundant(j)
			}
		}

		b.RebuildNonRedundant()
	}

	ps.Compact()
}

// lcmOf computes lcm(a,b) via the table's Ops, inserting the result (id 0
// is a legitimate id here; DroppedLcm is a separate, impossible sentinel).
func lcmOf[M any](table *hashtable.Table[M], a, b M) (hashtable.MonomId, uint64) {
	lcm, err := table.Ops().LCM(a, b)
	if err != nil {
		panic(err) // overflow here is a caller bug: basis leads are already validated
	}
	id := table.Insert(lcm)
	return id, table.Value(id).Deg
}
