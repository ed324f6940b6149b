package intmod

import (
	"errors"
	"math/big"
	"testing"
)

func sievePrimes(limit uint64) map[uint64]bool {
	composite := make([]bool, limit+1)
	out := make(map[uint64]bool)
	for i := uint64(2); i <= limit; i++ {
		if composite[i] {
			continue
		}
		out[i] = true
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return out
}

func TestIsPrimeAgainstSieve(t *testing.T) {
	primes := sievePrimes(2000)
	for n := uint64(2); n <= 2000; n++ {
		got, err := IsPrime(n)
		if err != nil {
			t.Fatalf("IsPrime(%d): %v", n, err)
		}
		if got != primes[n] {
			t.Fatalf("IsPrime(%d) = %v, want %v", n, got, primes[n])
		}
	}
}

func TestIsPrimeInvalid(t *testing.T) {
	for _, n := range []uint64{0, 1} {
		if _, err := IsPrime(n); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("IsPrime(%d): want ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestIsPrimeLarge(t *testing.T) {
	cases := []struct {
		n    uint64
		want bool
	}{
		{2305843009213693951, true},  // 2^61 - 1, Mersenne prime
		{4611686018427387905, false}, // 2^62 + 1, composite
		{18446744073709551557, true}, // largest uint64 prime
		{18446744073709551615, false},
	}
	for _, c := range cases {
		got, err := IsPrime(c.n)
		if err != nil {
			t.Fatalf("IsPrime(%d): %v", c.n, err)
		}
		if got != c.want {
			t.Fatalf("IsPrime(%d) = %v, want %v", c.n, got, c.want)
		}
	}
}

func TestIsProbablePrimeAgreesWithDeterministic(t *testing.T) {
	for n := uint64(2); n < 500; n++ {
		want, _ := IsPrime(n)
		got, err := IsProbablePrime(n, 8, nil)
		if err != nil {
			t.Fatalf("IsProbablePrime(%d): %v", n, err)
		}
		// A probabilistic "true" on a composite is possible in theory but
		// with 8 witnesses the chance over this range is negligible.
		if got != want {
			t.Fatalf("IsProbablePrime(%d) = %v, deterministic says %v", n, got, want)
		}
	}
}

func TestFactorize(t *testing.T) {
	cases := []struct {
		n    uint64
		want []PrimePower
	}{
		{2, []PrimePower{{2, 1}}},
		{12, []PrimePower{{2, 2}, {3, 1}}},
		{360, []PrimePower{{2, 3}, {3, 2}, {5, 1}}},
		{1 << 20, []PrimePower{{2, 20}}},
		{999983, []PrimePower{{999983, 1}}},
		{1000003 * 1000033, []PrimePower{{1000003, 1}, {1000033, 1}}},
	}
	for _, c := range cases {
		got, err := Factorize(c.n)
		if err != nil {
			t.Fatalf("Factorize(%d): %v", c.n, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("Factorize(%d) = %v, want %v", c.n, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("Factorize(%d)[%d] = %v, want %v", c.n, i, got[i], c.want[i])
			}
		}
	}
	if _, err := Factorize(1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Factorize(1): want ErrInvalidInput, got %v", err)
	}
}

func TestIsPrimePower(t *testing.T) {
	if p, k, ok := IsPrimePower(243); !ok || p != 3 || k != 5 {
		t.Fatalf("IsPrimePower(243) = (%d,%d,%v), want (3,5,true)", p, k, ok)
	}
	if p, k, ok := IsPrimePower(1024); !ok || p != 2 || k != 10 {
		t.Fatalf("IsPrimePower(1024) = (%d,%d,%v), want (2,10,true)", p, k, ok)
	}
	for _, n := range []uint64{0, 1, 6, 12, 100} {
		if _, _, ok := IsPrimePower(n); ok {
			t.Fatalf("IsPrimePower(%d): want false", n)
		}
	}
}

func TestModExp(t *testing.T) {
	cases := []struct{ a, e, n, want uint64 }{
		{2, 10, 1000, 24},
		{3, 0, 7, 1},
		{0, 5, 7, 0},
		{2, 61, 2305843009213693951, 1}, // Fermat on 2^61-1
	}
	for _, c := range cases {
		if got := ModExp(c.a, c.e, c.n); got != c.want {
			t.Fatalf("ModExp(%d,%d,%d) = %d, want %d", c.a, c.e, c.n, got, c.want)
		}
	}
	// wide modulus falls back to the 128-bit path
	big64 := uint64(18446744073709551557)
	if got := ModExp(2, big64-1, big64); got != 1 {
		t.Fatalf("Fermat check mod largest prime failed: got %d", got)
	}
}

func TestExtGCD(t *testing.T) {
	cases := [][2]int64{{240, 46}, {1, 1}, {17, 0}, {0, 5}, {35, 64}}
	for _, c := range cases {
		g, x, y := ExtGCD(c[0], c[1])
		if int64(GCD(uint64(abs64(c[0])), uint64(abs64(c[1])))) != g {
			t.Fatalf("ExtGCD(%d,%d): gcd = %d", c[0], c[1], g)
		}
		if c[0]*x+c[1]*y != g {
			t.Fatalf("ExtGCD(%d,%d): Bezout %d*%d + %d*%d != %d", c[0], c[1], c[0], x, c[1], y, g)
		}
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestInvMod(t *testing.T) {
	for a := uint64(1); a < 30; a++ {
		inv, ok := InvMod(a, 30)
		if GCD(a, 30) != 1 {
			if ok {
				t.Fatalf("InvMod(%d, 30): expected failure", a)
			}
			continue
		}
		if !ok || (a*inv)%30 != 1 {
			t.Fatalf("InvMod(%d, 30) = %d, ok=%v", a, inv, ok)
		}
	}
}

func TestCRT(t *testing.T) {
	x, err := CRT([]uint64{2, 3, 2}, []uint64{3, 5, 7})
	if err != nil {
		t.Fatalf("CRT: %v", err)
	}
	if x.Cmp(big.NewInt(23)) != 0 {
		t.Fatalf("CRT = %s, want 23", x.String())
	}
	if _, err := CRT([]uint64{1, 2}, []uint64{4, 6}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CRT with non-coprime moduli: want ErrInvalidInput, got %v", err)
	}
	if _, err := CRT(nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("CRT with empty input: want ErrInvalidInput, got %v", err)
	}
}

func TestEulerPhi(t *testing.T) {
	cases := []struct{ n, want uint64 }{{1, 1}, {2, 1}, {9, 6}, {10, 4}, {12, 4}, {97, 96}}
	for _, c := range cases {
		got, err := EulerPhi(c.n)
		if err != nil {
			t.Fatalf("EulerPhi(%d): %v", c.n, err)
		}
		if got != c.want {
			t.Fatalf("EulerPhi(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestPrimitiveRoot(t *testing.T) {
	cases := []struct{ n, want uint64 }{
		{3, 2}, {5, 2}, {7, 3}, {9, 2}, {11, 2}, {13, 2}, {23, 5}, {31, 3},
	}
	for _, c := range cases {
		got, err := PrimitiveRoot(c.n)
		if err != nil {
			t.Fatalf("PrimitiveRoot(%d): %v", c.n, err)
		}
		if got != c.want {
			t.Fatalf("PrimitiveRoot(%d) = %d, want %d", c.n, got, c.want)
		}
	}
	for _, n := range []uint64{8, 12, 15, 16} {
		if _, err := PrimitiveRoot(n); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("PrimitiveRoot(%d): want ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestPrimitiveRootGeneratesGroup(t *testing.T) {
	n := uint64(97)
	g, err := PrimitiveRoot(n)
	if err != nil {
		t.Fatalf("PrimitiveRoot(97): %v", err)
	}
	seen := make(map[uint64]bool)
	x := uint64(1)
	for i := uint64(0); i < n-1; i++ {
		seen[x] = true
		x = x * g % n
	}
	if len(seen) != 96 {
		t.Fatalf("generator %d reaches %d elements, want 96", g, len(seen))
	}
}
