// Package matrix implements the Macaulay matrix: symbolic preprocessing,
// column enumeration, and the linear-algebra backends that turn selected
// critical pairs into new basis candidates (§4.5-§4.7).
package matrix

import "github.com/consensys/groebner/hashtable"

// Row is one sparse matrix row. Before column enumeration, Cols holds raw
// MonomIds into the matrix's symbol hashtable; after enumeration it holds
// column indices, sorted ascending so Cols[0] is always the leading
// (largest-monomial) term.
type Row struct {
	Cols   []hashtable.MonomId
	Coeffs []uint64

	// PolyIdx identifies the basis polynomial this row is sourced from (for
	// provenance / trace recording); for a Lower row built by BuildRows it is
	// the row's index in BuildRows' input list instead. -1 for rows that do
	// not map back to a single source, such as Randomized mode's combined
	// rows.
	PolyIdx int
	// Mult is carried through Reduce and ReduceBatched unchanged; none of
	// this package's row builders set it, so it is always zero.
	Mult hashtable.MonomId
}

// LeadCol returns the row's current leading column (or leading MonomId,
// before enumeration), i.e. Cols[0]. Panics on an empty row -- an empty row
// should have already been dropped by the caller.
func (r Row) LeadCol() hashtable.MonomId { return r.Cols[0] }

func (r Row) IsZero() bool { return len(r.Cols) == 0 }
