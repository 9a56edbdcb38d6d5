package field

import "testing"

func TestComposite4LaneIndependence(t *testing.T) {
	primes := [4]uint64{3, 5, 7, 13}
	c := NewComposite4(KindUnsigned, primes)

	a := Quad{2, 4, 6, 10}
	b := Quad{2, 2, 2, 2}

	sum := c.Add(a, b)
	for i := range sum {
		want := (a[i] + b[i]) % primes[i]
		if sum[i] != want {
			t.Fatalf("lane %d Add = %d, want %d", i, sum[i], want)
		}
	}

	prod := c.Mul(a, b)
	for i := range prod {
		want := (a[i] * b[i]) % primes[i]
		if prod[i] != want {
			t.Fatalf("lane %d Mul = %d, want %d", i, prod[i], want)
		}
	}
}

func TestComposite4MulAddMatchesScalarPerLane(t *testing.T) {
	primes := [4]uint64{3, 5, 7, 13}
	c := NewComposite4(KindUnsigned, primes)

	r := Quad{1, 1, 1, 1}
	a := Quad{2, 2, 2, 2}
	b := Quad{5, 5, 5, 5}

	got := c.MulAdd(r, a, b)
	for i := range got {
		want := (r[i] + a[i]*b[i]) % primes[i]
		if got[i] != want {
			t.Fatalf("lane %d MulAdd = %d, want %d", i, got[i], want)
		}
	}
}

func TestComposite4PrimesRoundTrip(t *testing.T) {
	primes := [4]uint64{3, 5, 7, 13}
	c := NewComposite4(KindUnsigned, primes)
	if got := c.Primes(); got != primes {
		t.Fatalf("Primes() = %v, want %v", got, primes)
	}
}
