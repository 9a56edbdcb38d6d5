package modular

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// primeStream hands out a strictly descending sequence of primes below an
// initial ceiling, skipping any prime that divides one of the excluded
// values (leading coefficients of the integer basis, per spec.md §4.12
// step 3a). The search itself is serialized under mu, since advancing the
// shared ceiling is inherently sequential. Searches are keyed by slot
// through a singleflight.Group, which only merges calls for the same slot
// that are in flight at the same time; Next always takes a fresh slot, and a
// call for a slot whose search already finished searches again and yields a
// new prime.
type primeStream struct {
	mu       sync.Mutex
	ceiling  *big.Int
	excluded []*big.Int

	slot  atomic.Int64
	group singleflight.Group
}

func newPrimeStream(ceiling uint64, excluded []*big.Int) *primeStream {
	return &primeStream{ceiling: new(big.Int).SetUint64(ceiling), excluded: excluded}
}

// Next assigns the caller the next slot and returns its prime.
func (s *primeStream) Next() uint64 {
	slot := s.slot.Add(1)
	return s.primeForSlot(slot)
}

func (s *primeStream) primeForSlot(slot int64) uint64 {
	v, _, _ := s.group.Do(fmt.Sprintf("slot-%d", slot), func() (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for {
			s.ceiling.Sub(s.ceiling, big.NewInt(1))
			if s.ceiling.Sign() <= 1 {
				panic("modular: exhausted the prime stream, lost too many primes to unluckiness")
			}
			if !s.ceiling.ProbablyPrime(20) {
				continue
			}
			excludedHere := false
			for _, e := range s.excluded {
				if new(big.Int).Mod(e, s.ceiling).Sign() == 0 {
					excludedHere = true
					break
				}
			}
			if excludedHere {
				continue
			}
			return new(big.Int).Set(s.ceiling).Uint64(), nil
		}
	})
	return v.(uint64)
}

// NextBatch returns n primes, each strictly less than the previous.
func (s *primeStream) NextBatch(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}
