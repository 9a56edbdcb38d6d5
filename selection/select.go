// Package selection implements critical-pair selection (§4.4). Only the
// "normal" strategy is implemented; "sugar" is declared in configuration
// but explicitly falls back to normal rather than silently aliasing it
// (spec §9 Open Questions / REDESIGN FLAGS).
package selection

import (
	"sort"

	"github.com/consensys/groebner/basis"
	"github.com/consensys/groebner/hashtable"
	"github.com/consensys/groebner/pairset"
)

// Strategy identifies a critical-pair selection strategy.
type Strategy int

const (
	Normal Strategy = iota
	Sugar
)

// Selected is one chosen critical pair, still carrying both generators so
// symbolic preprocessing can build both an upper (reducer) and a lower
// (to-be-reduced) row for it.
type Selected struct {
	Poly1, Poly2 int
	Lcm          hashtable.MonomId
}

// Block is the outcome of one selection round: every chosen pair, sorted so
// that pairs sharing an Lcm are contiguous (the first occurrence of each
// distinct Lcm is the one that gets an upper/reducer row; the rest become
// lower rows per §4.4 step 4).
type Block struct {
	Pairs []Selected
	Deg   uint64
}

// Select runs the mandatory "normal" strategy regardless of the requested
// one, since Sugar is declared-but-unimplemented (§1 Non-goals, §9): the
// caller is expected to have already logged that downgrade once, at
// Options-construction time, rather than here on every iteration.
func Select[M any](strategy Strategy, ps *pairset.Pairset, b *basis.Basis[M], maxPairs int) Block {
	table := b.Table

	live := make([]pairset.SPair, 0, len(ps.Pairs))
	liveIdx := make([]int, 0, len(ps.Pairs))
	for i, p := range ps.Pairs {
		if !p.Dropped() {
			live = append(live, p)
			liveIdx = append(liveIdx, i)
		}
	}
	if len(live) == 0 {
		return Block{}
	}

	minDeg := live[0].Deg
	for _, p := range live {
		if p.Deg < minDeg {
			minDeg = p.Deg
		}
	}

	type indexed struct {
		pair pairset.SPair
		idx  int
	}
	var block []indexed
	for k, p := range live {
		if p.Deg == minDeg {
			block = append(block, indexed{pair: p, idx: liveIdx[k]})
		}
	}

	// stable sort by (lcm, poly1, poly2) ascending -- the deterministic
	// tie-break spec §9 calls for.
	sort.SliceStable(block, func(x, y int) bool {
		lx, ly := table.Monom(block[x].pair.Lcm), table.Monom(block[y].pair.Lcm)
		if table.Less(lx, ly) {
			return true
		}
		if table.Less(ly, lx) {
			return false
		}
		if block[x].pair.Poly1 != block[y].pair.Poly1 {
			return block[x].pair.Poly1 < block[y].pair.Poly1
		}
		return block[x].pair.Poly2 < block[y].pair.Poly2
	})

	if maxPairs > 0 && len(block) > maxPairs {
		cut := maxPairs - 1
		lastLcm := block[cut].pair.Lcm
		end := cut + 1
		for end < len(block) && block[end].pair.Lcm == lastLcm {
			end++
		}
		block = block[:end]
	}

	out := Block{Deg: minDeg, Pairs: make([]Selected, len(block))}
	toDrop := make(map[int]bool, len(block))
	for i, e := range block {
		out.Pairs[i] = Selected{Poly1: e.pair.Poly1, Poly2: e.pair.Poly2, Lcm: e.pair.Lcm}
		toDrop[e.idx] = true
	}
	for idx := range ps.Pairs {
		if toDrop[idx] {
			ps.Pairs[idx].Lcm = pairset.DroppedLcm
		}
	}
	ps.Compact()

	return out
}
