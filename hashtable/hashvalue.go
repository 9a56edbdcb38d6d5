// Package hashtable implements the monomial hashtable: an open-addressed
// map from monomial to a stable small integer identifier (MonomId), as
// described in spec §3 and §4.2.
package hashtable

import "github.com/consensys/groebner/monomial"

// MonomId is a stable small integer identifier assigned on first insertion
// and never reused during the lifetime of a table.
type MonomId int32

// Flag is scratch state used only during symbolic preprocessing (§4.5).
type Flag uint8

const (
	// NonPivotColumn marks an identifier that will not become a matrix
	// pivot column; skipped outright during symbolic preprocessing.
	NonPivotColumn Flag = iota
	// UnknownPivotColumn marks an identifier whose reducer has not been
	// found yet; becomes a non-pivot column if it stays unresolved.
	UnknownPivotColumn
	// PivotColumn marks an identifier for which a reducer row has been
	// registered in the matrix.
	PivotColumn
)

// Hashvalue is the per-identifier record described in spec §3.
type Hashvalue struct {
	Hash    uint64
	DivMask monomial.DivMask
	Deg     uint64
	Flag    Flag
}
