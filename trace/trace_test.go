package trace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/internal/utils/test_utils"
	"github.com/consensys/groebner/selection"
)

func sampleTrace() *Trace {
	tr := New(3)
	tr.Append(Iteration{
		Block: selection.Block{
			Pairs: []selection.Selected{{Poly1: 0, Poly2: 1, Lcm: 5}},
			Deg:   2,
		},
		ReducerChoices: []ReducerChoice{{Position: 0, BasisIdx: 1}},
		Columns:        []hashtable.MonomId{5, 4, 1},
		Shape:          Shape{NUpper: 2, NLower: 1, NCols: 3},
		UsefulRows:     []int{0},
	})
	tr.Append(Iteration{Empty: true})
	return tr
}

func TestTraceRoundTrip(t *testing.T) {
	tr := sampleTrace()
	var out Trace
	test_utils.CopyThruSerialization(t, &out, tr)

	require.Equal(t, tr.NVars, out.NVars)
	require.Equal(t, tr.Iterations, out.Iterations)
}

func TestTraceLenAndAppend(t *testing.T) {
	tr := New(2)
	require.Equal(t, 0, tr.Len())
	tr.Append(Iteration{Empty: true})
	require.Equal(t, 1, tr.Len())
}

func TestTraceMarshalBinaryNonEmpty(t *testing.T) {
	tr := sampleTrace()
	data, err := tr.MarshalBinary()
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
