package hashtable

import "github.com/consensys/groebner/monomial"

// Ops is the capability set a concrete monomial representation must supply
// to be stored in a Table -- the "tagged-union of capabilities" from spec
// §9, expressed as a small interface rather than a closed union so new
// representations can be added without touching Table itself.
type Ops[M any] interface {
	Hash(m M, hashVec []uint64) uint64
	Equal(a, b M) bool
	TotalDeg(m M) uint64
	DivMaskOf(m M, dm *monomial.DivMap) monomial.DivMask
	Product(a, b M) (M, error)
	Quotient(a, b M) M
	LCM(a, b M) (M, error)
	IsDivisibleWith(a, b M) (M, bool)
	Less(a, b M, ord monomial.Ordering, weights []int64) bool
}

// PackedOps implements Ops for monomial.Packed.
type PackedOps struct{}

func (PackedOps) Hash(m monomial.Packed, hashVec []uint64) uint64 { return m.Hash(hashVec) }
func (PackedOps) Equal(a, b monomial.Packed) bool {
	if len(a.Words) != len(b.Words) {
		return false
	}
	for i := range a.Words {
		if a.Words[i] != b.Words[i] {
			return false
		}
	}
	return true
}
func (PackedOps) TotalDeg(m monomial.Packed) uint64 { return m.TotalDeg() }
func (PackedOps) DivMaskOf(m monomial.Packed, dm *monomial.DivMap) monomial.DivMask {
	return monomial.CreateDivMask(m.At, dm)
}
func (PackedOps) Product(a, b monomial.Packed) (monomial.Packed, error) { return monomial.Product(a, b) }
func (PackedOps) Quotient(a, b monomial.Packed) monomial.Packed         { return monomial.Quotient(a, b) }
func (PackedOps) LCM(a, b monomial.Packed) (monomial.Packed, error)    { return monomial.LCM(a, b) }
func (PackedOps) IsDivisibleWith(a, b monomial.Packed) (monomial.Packed, bool) {
	return monomial.IsDivisibleWith(a, b)
}
func (PackedOps) Less(a, b monomial.Packed, _ monomial.Ordering, _ []int64) bool {
	return monomial.Less(a, b)
}

// DenseOps implements Ops for monomial.Dense[B].
type DenseOps[B monomial.UintExp] struct{}

func (DenseOps[B]) Hash(m monomial.Dense[B], hashVec []uint64) uint64 {
	return monomial.Hash(m.ExpVector(), hashVec)
}
func (DenseOps[B]) Equal(a, b monomial.Dense[B]) bool {
	if len(a.Exps) != len(b.Exps) {
		return false
	}
	for i := range a.Exps {
		if a.Exps[i] != b.Exps[i] {
			return false
		}
	}
	return true
}
func (DenseOps[B]) TotalDeg(m monomial.Dense[B]) uint64 { return m.TotalDeg() }
func (DenseOps[B]) DivMaskOf(m monomial.Dense[B], dm *monomial.DivMap) monomial.DivMask {
	return monomial.CreateDivMask(m.At, dm)
}
func (DenseOps[B]) Product(a, b monomial.Dense[B]) (monomial.Dense[B], error) {
	return monomial.Product(a, b)
}
func (DenseOps[B]) Quotient(a, b monomial.Dense[B]) monomial.Dense[B] { return monomial.Quotient(a, b) }
func (DenseOps[B]) LCM(a, b monomial.Dense[B]) (monomial.Dense[B], error) { return monomial.LCM(a, b) }
func (DenseOps[B]) IsDivisibleWith(a, b monomial.Dense[B]) (monomial.Dense[B], bool) {
	return monomial.IsDivisibleWith(a, b)
}
func (DenseOps[B]) Less(a, b monomial.Dense[B], ord monomial.Ordering, weights []int64) bool {
	return monomial.Less(a, b, ord, weights)
}

// SparseOps implements Ops for monomial.Sparse.
type SparseOps struct{}

func (SparseOps) Hash(m monomial.Sparse, hashVec []uint64) uint64 { return m.Hash(hashVec) }
func (SparseOps) Equal(a, b monomial.Sparse) bool {
	if len(a.Terms) != len(b.Terms) {
		return false
	}
	for i := range a.Terms {
		if a.Terms[i] != b.Terms[i] {
			return false
		}
	}
	return true
}
func (SparseOps) TotalDeg(m monomial.Sparse) uint64 { return m.TotalDeg() }
func (SparseOps) DivMaskOf(m monomial.Sparse, dm *monomial.DivMap) monomial.DivMask {
	return monomial.CreateDivMask(m.At, dm)
}
func (SparseOps) Product(a, b monomial.Sparse) (monomial.Sparse, error) {
	return monomial.SparseProduct(a, b)
}
func (SparseOps) Quotient(a, b monomial.Sparse) monomial.Sparse { return monomial.SparseQuotient(a, b) }
func (SparseOps) LCM(a, b monomial.Sparse) (monomial.Sparse, error) { return monomial.SparseLCM(a, b) }
func (SparseOps) IsDivisibleWith(a, b monomial.Sparse) (monomial.Sparse, bool) {
	return monomial.SparseIsDivisibleWith(a, b)
}
func (SparseOps) Less(a, b monomial.Sparse, ord monomial.Ordering, weights []int64) bool {
	return monomial.SparseLess(a, b, ord, weights)
}
