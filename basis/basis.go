// Package basis implements the Basis type from spec §3 and its
// post-processing (standardization, making polynomials monic).
package basis

import (
	"sort"

	"github.com/consensys/groebner/field"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/monomial"
)

// Basis stores polynomials as parallel vectors of (MonomId list, coefficient
// list), as described in spec §3. Indices are 0-based Go slice indices;
// spec's "1..nfilled" numbering is a 1-indexed description of the same
// invariant.
type Basis[M any] struct {
	Table *hashtable.Table[M]

	Monoms      [][]hashtable.MonomId // Monoms[i][0] is the leading term
	Coeffs      [][]uint64
	IsRedundant []bool

	NonRedundant []int // indices into Monoms/Coeffs, non-redundant only
	DivMasks     []monomial.DivMask // parallel to NonRedundant: leading-term divmask, cached for locality

	NProcessed    int // polynomials already folded into Pairset by Update
	NNonRedundant int
}

// New creates an empty basis bound to table.
func New[M any](table *hashtable.Table[M]) *Basis[M] {
	return &Basis[M]{Table: table}
}

// NFilled returns the number of polynomials ever added (redundant or not).
func (b *Basis[M]) NFilled() int { return len(b.Monoms) }

// Add appends a new polynomial and returns its index. The invariant
// len(monoms) == len(coeffs) and a nonzero leading coefficient are the
// caller's responsibility -- the symbolic-preprocessing/linear-algebra
// pipeline only ever calls Add with already-validated rows.
func (b *Basis[M]) Add(monoms []hashtable.MonomId, coeffs []uint64) int {
	b.Monoms = append(b.Monoms, monoms)
	b.Coeffs = append(b.Coeffs, coeffs)
	b.IsRedundant = append(b.IsRedundant, false)
	return len(b.Monoms) - 1
}

// LeadingMonom returns the leading MonomId of polynomial i.
func (b *Basis[M]) LeadingMonom(i int) hashtable.MonomId { return b.Monoms[i][0] }

// MarkRedundant flags polynomial i as redundant; it stays in Monoms/Coeffs
// but is skipped by everything downstream of NonRedundant.
func (b *Basis[M]) MarkRedundant(i int) { b.IsRedundant[i] = true }

// RebuildNonRedundant recomputes NonRedundant and DivMasks from
// IsRedundant. Called after the Gebauer-Möller update pass may have marked
// additional elements redundant.
func (b *Basis[M]) RebuildNonRedundant() {
	b.NonRedundant = b.NonRedundant[:0]
	b.DivMasks = b.DivMasks[:0]
	for i := range b.Monoms {
		if b.IsRedundant[i] {
			continue
		}
		b.NonRedundant = append(b.NonRedundant, i)
		lead := b.LeadingMonom(i)
		b.DivMasks = append(b.DivMasks, b.Table.Value(lead).DivMask)
	}
	b.NNonRedundant = len(b.NonRedundant)
}

// FindReducer searches the non-redundant basis for a polynomial whose
// leading monomial divides target, filtering candidates first by divmask
// (§3 Divmask, §4.5). It returns the lowest basis index among matches along
// with the multiplier target/lead(g), or (-1, zero, false) if none divide.
func (b *Basis[M]) FindReducer(target M, targetMask monomial.DivMask) (int, M, bool) {
	for k, idx := range b.NonRedundant {
		if !b.DivMasks[k].CanDivide(targetMask) {
			continue
		}
		lead := b.Table.Monom(b.LeadingMonom(idx))
		if mult, ok := b.Table.IsDivisibleWith(target, lead); ok {
			return idx, mult, true
		}
	}
	var zero M
	return -1, zero, false
}

// Sweep runs one extra O(k²) redundancy pass over NonRedundant, catching
// any cross-redundancy the incremental Gebauer–Möller update (pairset.Update)
// didn't need to resolve because it only compares each new element against
// the basis as it stood at insertion time. A no-op if the basis is already
// free of redundancy, which is the common case after a normal run.
func (b *Basis[M]) Sweep() {
	changed := true
	for changed {
		changed = false
		for _, i := range b.NonRedundant {
			if b.IsRedundant[i] {
				continue
			}
			liI := b.LeadingMonom(i)
			lmI := b.Table.Monom(liI)
			for _, j := range b.NonRedundant {
				if j == i || b.IsRedundant[j] {
					continue
				}
				lmJ := b.Table.Monom(b.LeadingMonom(j))
				if _, ok := b.Table.IsDivisibleWith(lmI, lmJ); ok {
					b.MarkRedundant(i)
					changed = true
					break
				}
			}
		}
		if changed {
			b.RebuildNonRedundant()
		}
	}
}

// MakeMonic scales polynomial i so its leading coefficient becomes 1.
func (b *Basis[M]) MakeMonic(i int, f field.Arithmetic) {
	lead := b.Coeffs[i][0]
	if lead == 1 {
		return
	}
	inv := f.Inv(lead)
	for j, c := range b.Coeffs[i] {
		b.Coeffs[i][j] = f.Mul(c, inv)
	}
}

// Standardize compacts non-redundant entries into contiguous positions
// 0..k-1, sorts by increasing leading monomial, and makes every polynomial
// monic (§4.8 postconditions).
func (b *Basis[M]) Standardize(f field.Arithmetic) {
	b.RebuildNonRedundant()
	order := make([]int, len(b.NonRedundant))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool {
		lx := b.Table.Monom(b.LeadingMonom(b.NonRedundant[order[x]]))
		ly := b.Table.Monom(b.LeadingMonom(b.NonRedundant[order[y]]))
		return b.Table.Less(lx, ly)
	})

	newMonoms := make([][]hashtable.MonomId, len(order))
	newCoeffs := make([][]uint64, len(order))
	for newIdx, oldOrderIdx := range order {
		oldIdx := b.NonRedundant[oldOrderIdx]
		newMonoms[newIdx] = b.Monoms[oldIdx]
		newCoeffs[newIdx] = b.Coeffs[oldIdx]
	}
	b.Monoms = newMonoms
	b.Coeffs = newCoeffs
	b.IsRedundant = make([]bool, len(newMonoms))
	b.NProcessed = len(newMonoms)

	for i := range b.Monoms {
		b.MakeMonic(i, f)
	}
	b.RebuildNonRedundant()
}
