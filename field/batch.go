package field

// Composite4 packs four independent prime fields into one lane-parallel
// value, the "batched" option from the options table: each of four lucky
// primes is reduced in lockstep so one matrix pass serves four primes. Go
// has no portable SIMD intrinsics, so "lane-parallel" here means "the four
// scalar reductions are interleaved in the same loop body", which still
// wins by sharing loop/row-iteration overhead across the four primes.
type Composite4 struct {
	lanes [4]Arithmetic
}

// NewComposite4 builds a 4-lane batch from four (already distinct) primes.
func NewComposite4(kind Kind, primes [4]uint64) *Composite4 {
	c := &Composite4{}
	for i, p := range primes {
		c.lanes[i] = New(kind, p)
	}
	return c
}

// NewComposite4FromArithmetic builds a 4-lane batch from four already-built
// backends, e.g. ones a caller built per-prime for reasons of its own
// (different prime each lane needs, same Kind). Unlike NewComposite4 this
// does not re-select a backend by Kind; lanes are used exactly as given.
func NewComposite4FromArithmetic(lanes [4]Arithmetic) *Composite4 {
	return &Composite4{lanes: lanes}
}

// Quad is a value living in all four lanes simultaneously.
type Quad [4]uint64

func (c *Composite4) Add(a, b Quad) Quad {
	var r Quad
	for i := 0; i < 4; i++ {
		r[i] = c.lanes[i].Add(a[i], b[i])
	}
	return r
}

func (c *Composite4) Sub(a, b Quad) Quad {
	var r Quad
	for i := 0; i < 4; i++ {
		r[i] = c.lanes[i].Sub(a[i], b[i])
	}
	return r
}

func (c *Composite4) Mul(a, b Quad) Quad {
	var r Quad
	for i := 0; i < 4; i++ {
		r[i] = c.lanes[i].Mul(a[i], b[i])
	}
	return r
}

// MulAdd computes r += a*b lane-by-lane, the hot operation in row
// elimination (§4.7 "a scalar multiply-add per non-zero in u").
func (c *Composite4) MulAdd(r, a, b Quad) Quad {
	var out Quad
	for i := 0; i < 4; i++ {
		out[i] = c.lanes[i].Add(r[i], c.lanes[i].Mul(a[i], b[i]))
	}
	return out
}

// Inv inverts every lane independently. Every lane must be nonzero; callers
// batching a matrix-reduction pivot normalization only ever call this once
// every lane has already been confirmed nonzero at that column (otherwise
// the underlying per-lane Inv panics, same as a single Arithmetic would).
func (c *Composite4) Inv(a Quad) Quad {
	var r Quad
	for i := 0; i < 4; i++ {
		r[i] = c.lanes[i].Inv(a[i])
	}
	return r
}

// Primes returns the four primes backing this batch, in lane order.
func (c *Composite4) Primes() [4]uint64 {
	var p [4]uint64
	for i, l := range c.lanes {
		p[i] = l.Prime()
	}
	return p
}
