// Package trace implements the learn/apply mechanism (spec.md §4.11):
// recording the discrete decisions one F4 run makes so a later run on a
// structurally identical input can skip discovery and pay only for linear
// algebra.
package trace

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/selection"
)

// ReducerChoice records one symbolic-preprocessing decision: the
// secondary-table position that needed a reducer, and which basis index
// was chosen to supply it.
type ReducerChoice struct {
	Position int
	BasisIdx int
}

// Shape is one iteration's matrix dimensions, recorded so Apply can sanity
// check a replay without re-deriving them.
type Shape struct {
	NUpper, NLower, NCols int
}

// Iteration is everything Learn records about a single F4 iteration.
type Iteration struct {
	Block          selection.Block
	ReducerChoices []ReducerChoice
	Columns        []hashtable.MonomId
	Shape          Shape
	UsefulRows     []int // indices into Lower that produced a nonzero pivot
	Empty          bool
}

// Trace is the opaque, caller-owned record of one Learn run. Per spec.md
// §9, it is never serialized across versions; MarshalBinary exists purely
// for debug/golden-file inspection of a single run.
type Trace struct {
	NVars    int
	Iterations []Iteration
}

// New creates an empty trace ready to have iterations appended by Learn.
func New(nvars int) *Trace { return &Trace{NVars: nvars} }

// Append records one more iteration.
func (t *Trace) Append(it Iteration) { t.Iterations = append(t.Iterations, it) }

// Len returns the number of recorded iterations.
func (t *Trace) Len() int { return len(t.Iterations) }

// debugDump is the cbor-encodable projection of a Trace used by
// MarshalBinary. hashtable.MonomId is already a plain int32, selection and
// reducer-choice types are plain structs, so the projection is the trace
// itself; kept as a separate type so adding genuinely non-serializable
// fields to Trace later (pointers, function values) doesn't silently break
// the debug dump.
type debugDump struct {
	NVars      int
	Iterations []Iteration
}

// MarshalBinary produces an opaque cbor blob for debugging and golden-file
// tests. It is not a stable wire format: do not round-trip this across
// builds of this module, only within one test run.
func (t *Trace) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(debugDump{NVars: t.NVars, Iterations: t.Iterations})
}

// WriteTo writes the same debug cbor blob as MarshalBinary, satisfying
// io.WriterTo for golden-file / round-trip test helpers.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	data, err := t.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom decodes a blob written by WriteTo/MarshalBinary, replacing t's
// contents in place. Satisfies io.ReaderFrom for the same test helpers.
func (t *Trace) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	var dump debugDump
	if err := cbor.Unmarshal(data, &dump); err != nil {
		return 0, err
	}
	t.NVars = dump.NVars
	t.Iterations = dump.Iterations
	return int64(len(data)), nil
}
