// Package intmod implements the integer number-theory routines backing
// field and group construction: primality testing, integer factorization,
// modular exponentiation, extended GCD, Chinese remaindering and
// primitive-root search. All arithmetic is exact over uint64.
package intmod

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/bits"
	"sort"

	"github.com/tuneinsight/lattigo/v4/ring"
)

var (
	ErrInvalidInput    = errors.New("intmod: invalid input")
	ErrSearchExhausted = errors.New("intmod: search exhausted")
)

// PrimePower is one (prime, exponent) entry of a factorization.
type PrimePower struct {
	Prime    uint64
	Exponent int
}

// mulMod computes a*b mod q without overflow for any uint64 modulus.
func mulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a%q, b%q)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

// powMod computes a^e mod q for any uint64 modulus.
func powMod(a, e, q uint64) uint64 {
	if q == 1 {
		return 0
	}
	result := uint64(1)
	base := a % q
	for e > 0 {
		if e&1 == 1 {
			result = mulMod(result, base, q)
		}
		e >>= 1
		if e > 0 {
			base = mulMod(base, base, q)
		}
	}
	return result
}

// ModExp returns a^e mod n. Moduli small enough for Barrett reduction are
// delegated to lattigo; wider moduli use the 128-bit division path.
func ModExp(a, e, n uint64) uint64 {
	if n == 0 {
		panic("intmod: zero modulus")
	}
	if n == 1 {
		return 0
	}
	if bits.Len64(n) <= 61 {
		return ring.ModExp(a%n, e, n)
	}
	return powMod(a, e, n)
}

// millerRabinWitness returns false if a proves n composite.
// n must be odd and > 2, with n-1 = d * 2^r.
func millerRabinWitness(a, d uint64, r int, n uint64) bool {
	x := powMod(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for i := 0; i < r-1; i++ {
		x = mulMod(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}

// mrBases is sufficient for a deterministic Miller-Rabin test on all uint64.
var mrBases = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// IsPrime reports whether n is prime using a Miller-Rabin test that is
// deterministic over the full uint64 range. It fails for n < 2.
func IsPrime(n uint64) (bool, error) {
	if n < 2 {
		return false, fmt.Errorf("%w: IsPrime requires n >= 2, got %d", ErrInvalidInput, n)
	}
	if n < 4 {
		return true, nil
	}
	if n&1 == 0 {
		return false, nil
	}
	d := n - 1
	r := 0
	for d&1 == 0 {
		d >>= 1
		r++
	}
	for _, a := range mrBases {
		if a%n == 0 {
			continue
		}
		if !millerRabinWitness(a, d, r, n) {
			return false, nil
		}
	}
	return true, nil
}

// IsProbablePrime runs Miller-Rabin with the given number of uniformly
// random witnesses drawn from rnd (crypto/rand when rnd is nil). A false
// result is always correct; a true result errs with probability at most
// 4^-witnesses. Field construction must use IsPrime instead.
func IsProbablePrime(n uint64, witnesses int, rnd io.Reader) (bool, error) {
	if n < 2 {
		return false, fmt.Errorf("%w: IsProbablePrime requires n >= 2, got %d", ErrInvalidInput, n)
	}
	if witnesses < 1 {
		return false, fmt.Errorf("%w: witness count must be positive", ErrInvalidInput)
	}
	if n < 4 {
		return true, nil
	}
	if n&1 == 0 {
		return false, nil
	}
	if rnd == nil {
		rnd = rand.Reader
	}
	d := n - 1
	r := 0
	for d&1 == 0 {
		d >>= 1
		r++
	}
	for i := 0; i < witnesses; i++ {
		a := 2 + randU64(rnd)%(n-3)
		if !millerRabinWitness(a, d, r, n) {
			return false, nil
		}
	}
	return true, nil
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ExtGCD returns (g, x, y) with a*x + b*y = g = gcd(a, b).
func ExtGCD(a, b int64) (g, x, y int64) {
	x0, x1 := int64(1), int64(0)
	y0, y1 := int64(0), int64(1)
	for b != 0 {
		q := a / b
		a, b = b, a-q*b
		x0, x1 = x1, x0-q*x1
		y0, y1 = y1, y0-q*y1
	}
	if a < 0 {
		return -a, -x0, -y0
	}
	return a, x0, y0
}

// InvMod returns the inverse of a modulo n, or false when gcd(a, n) != 1.
func InvMod(a, n uint64) (uint64, bool) {
	if n == 0 {
		return 0, false
	}
	if n == 1 {
		return 0, true
	}
	g, x, _ := ExtGCD(int64(a%n), int64(n))
	if g != 1 {
		return 0, false
	}
	if x < 0 {
		x += int64(n)
	}
	return uint64(x), true
}

// pollardRho finds a nontrivial factor of an odd composite n.
func pollardRho(n uint64) uint64 {
	if n%2 == 0 {
		return 2
	}
	for c := uint64(1); ; c++ {
		x := uint64(2)
		y := uint64(2)
		d := uint64(1)
		f := func(v uint64) uint64 { return (mulMod(v, v, n) + c) % n }
		for d == 1 {
			x = f(x)
			y = f(f(y))
			diff := x - y
			if x < y {
				diff = y - x
			}
			if diff == 0 {
				break
			}
			d = GCD(diff, n)
		}
		if d != 1 && d != n {
			return d
		}
	}
}

// Factorize returns the full prime factorization of n > 1, sorted by prime.
func Factorize(n uint64) ([]PrimePower, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: Factorize requires n >= 2, got %d", ErrInvalidInput, n)
	}
	counts := make(map[uint64]int)
	factorInto(n, counts)
	primes := make([]uint64, 0, len(counts))
	for p := range counts {
		primes = append(primes, p)
	}
	sort.Slice(primes, func(i, j int) bool { return primes[i] < primes[j] })
	out := make([]PrimePower, len(primes))
	for i, p := range primes {
		out[i] = PrimePower{Prime: p, Exponent: counts[p]}
	}
	return out, nil
}

func factorInto(n uint64, counts map[uint64]int) {
	for n%2 == 0 {
		counts[2]++
		n /= 2
	}
	// small trial division clears the easy cases before rho
	for _, p := range []uint64{3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37} {
		for n%p == 0 {
			counts[p]++
			n /= p
		}
	}
	if n == 1 {
		return
	}
	if prime, _ := IsPrime(n); prime {
		counts[n]++
		return
	}
	d := pollardRho(n)
	factorInto(d, counts)
	factorInto(n/d, counts)
}

// IsPrimePower reports whether n = p^k for a prime p, returning p and k.
func IsPrimePower(n uint64) (p uint64, k int, ok bool) {
	if n < 2 {
		return 0, 0, false
	}
	factors, err := Factorize(n)
	if err != nil || len(factors) != 1 {
		return 0, 0, false
	}
	return factors[0].Prime, factors[0].Exponent, true
}

// EulerPhi returns Euler's totient of n >= 1.
func EulerPhi(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: EulerPhi requires n >= 1", ErrInvalidInput)
	}
	if n == 1 {
		return 1, nil
	}
	factors, err := Factorize(n)
	if err != nil {
		return 0, err
	}
	phi := n
	for _, pp := range factors {
		phi = phi / pp.Prime * (pp.Prime - 1)
	}
	return phi, nil
}

// CRT solves x = residues[i] (mod moduli[i]) by Garner recomposition.
// The moduli must be pairwise coprime; the solution is returned modulo
// the product of the moduli.
func CRT(residues, moduli []uint64) (*big.Int, error) {
	if len(residues) == 0 || len(residues) != len(moduli) {
		return nil, fmt.Errorf("%w: CRT needs equal, non-empty residue and modulus lists", ErrInvalidInput)
	}
	for i := range moduli {
		if moduli[i] == 0 {
			return nil, fmt.Errorf("%w: CRT modulus must be positive", ErrInvalidInput)
		}
		for j := i + 1; j < len(moduli); j++ {
			if GCD(moduli[i], moduli[j]) != 1 {
				return nil, fmt.Errorf("%w: CRT moduli %d and %d are not coprime", ErrInvalidInput, moduli[i], moduli[j])
			}
		}
	}
	x := new(big.Int).SetUint64(residues[0] % moduli[0])
	M := new(big.Int).SetUint64(moduli[0])
	for i := 1; i < len(residues); i++ {
		mi := new(big.Int).SetUint64(moduli[i])
		t := new(big.Int).SetUint64(residues[i] % moduli[i])
		t.Sub(t, new(big.Int).Mod(x, mi))
		t.Mod(t, mi)
		inv := new(big.Int).ModInverse(new(big.Int).Mod(M, mi), mi)
		t.Mul(t, inv)
		t.Mod(t, mi)
		x.Add(x, new(big.Int).Mul(t, M))
		M.Mul(M, mi)
	}
	x.Mod(x, M)
	return x, nil
}

// HasPrimitiveRoot reports whether (Z/nZ)* is cyclic,
// i.e. n is 1, 2, 4, p^k or 2p^k for an odd prime p.
func HasPrimitiveRoot(n uint64) bool {
	if n == 0 {
		return false
	}
	if n <= 4 {
		return true
	}
	m := n
	if m%2 == 0 {
		m /= 2
		if m%2 == 0 {
			return false
		}
	}
	p, _, ok := IsPrimePower(m)
	return ok && p != 2
}

// PrimitiveRoot returns the smallest generator of (Z/nZ)*. Candidates are
// tried in ascending order so the result is stable across runs. It fails
// with ErrInvalidInput when the group is not cyclic.
func PrimitiveRoot(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: PrimitiveRoot requires n >= 1", ErrInvalidInput)
	}
	if n == 1 || n == 2 {
		return n - 1, nil
	}
	if !HasPrimitiveRoot(n) {
		return 0, fmt.Errorf("%w: no primitive root modulo %d", ErrInvalidInput, n)
	}
	phi, err := EulerPhi(n)
	if err != nil {
		return 0, err
	}
	phiFactors, err := Factorize(phi)
	if err != nil {
		return 0, err
	}
	for g := uint64(2); g < n; g++ {
		if GCD(g, n) != 1 {
			continue
		}
		ok := true
		for _, pp := range phiFactors {
			if ModExp(g, phi/pp.Prime, n) == 1 {
				ok = false
				break
			}
		}
		if ok {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: primitive root modulo %d", ErrSearchExhausted, n)
}

// randU64 reads 8 random bytes and returns them as a little-endian uint64.
func randU64(r io.Reader) uint64 {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		panic(err)
	}
	return uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
		uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
}
