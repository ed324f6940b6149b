package field

// Internal polynomial arithmetic over GF(p) used for irreducibility
// testing and extension-field inversion. Polynomials are ascending
// coefficient slices trimmed to {0} for the zero polynomial.

func fpolyTrim(a []uint64, p uint64) []uint64 {
	if len(a) == 0 {
		return []uint64{0}
	}
	idx := len(a) - 1
	for idx > 0 && a[idx]%p == 0 {
		idx--
	}
	out := make([]uint64, idx+1)
	for i := range out {
		out[i] = a[i] % p
	}
	return out
}

func fpolyIsZero(a []uint64) bool {
	return len(a) == 1 && a[0] == 0
}

func fpolyAdd(a, b []uint64, p uint64) []uint64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		var ai, bi uint64
		if i < len(a) {
			ai = a[i] % p
		}
		if i < len(b) {
			bi = b[i] % p
		}
		s := ai + bi
		if s >= p {
			s -= p
		}
		out[i] = s
	}
	return fpolyTrim(out, p)
}

func fpolySub(a, b []uint64, p uint64) []uint64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		var ai, bi uint64
		if i < len(a) {
			ai = a[i] % p
		}
		if i < len(b) {
			bi = b[i] % p
		}
		if ai >= bi {
			out[i] = ai - bi
		} else {
			out[i] = ai + p - bi
		}
	}
	return fpolyTrim(out, p)
}

func fpolyMul(a, b []uint64, p uint64) []uint64 {
	if fpolyIsZero(a) || fpolyIsZero(b) {
		return []uint64{0}
	}
	out := make([]uint64, len(a)+len(b)-1)
	for i := range a {
		if a[i]%p == 0 {
			continue
		}
		for j := range b {
			if b[j]%p == 0 {
				continue
			}
			out[i+j] = (out[i+j] + mulMod(a[i], b[j], p)) % p
		}
	}
	return fpolyTrim(out, p)
}

// fpolyDivMod returns (quotient, remainder) of a by b over GF(p).
// b must be nonzero.
func fpolyDivMod(a, b []uint64, p uint64) ([]uint64, []uint64) {
	A := fpolyTrim(a, p)
	B := fpolyTrim(b, p)
	if fpolyIsZero(B) {
		panic("field: fpoly division by zero polynomial")
	}
	if len(A) < len(B) {
		return []uint64{0}, A
	}
	rem := make([]uint64, len(A))
	copy(rem, A)
	quot := make([]uint64, len(A)-len(B)+1)
	invLead := fpInv(B[len(B)-1], p)
	for i := len(A) - 1; i >= len(B)-1; i-- {
		coeff := rem[i]
		if coeff != 0 {
			coeff = mulMod(coeff, invLead, p)
			quot[i-(len(B)-1)] = coeff
			for j := 0; j < len(B); j++ {
				idx := i - j
				sub := mulMod(coeff, B[len(B)-1-j], p)
				if rem[idx] >= sub {
					rem[idx] -= sub
				} else {
					rem[idx] += p - sub
				}
			}
		}
	}
	return fpolyTrim(quot, p), fpolyTrim(rem[:len(B)-1], p)
}

func fpolyMod(a, b []uint64, p uint64) []uint64 {
	_, r := fpolyDivMod(a, b, p)
	return r
}

// fpolyGCD returns the monic GCD of a and b over GF(p).
func fpolyGCD(a, b []uint64, p uint64) []uint64 {
	A := fpolyTrim(a, p)
	B := fpolyTrim(b, p)
	for !fpolyIsZero(B) {
		_, r := fpolyDivMod(A, B, p)
		A, B = B, r
	}
	if fpolyIsZero(A) {
		return A
	}
	inv := fpInv(A[len(A)-1], p)
	for i := range A {
		A[i] = mulMod(A[i], inv, p)
	}
	return A
}

// fpolyInvMod returns the inverse of a modulo chi over GF(p) via the
// extended Euclidean algorithm, or false when gcd(a, chi) != 1.
func fpolyInvMod(a, chi []uint64, p uint64) ([]uint64, bool) {
	r0 := fpolyTrim(chi, p)
	r1 := fpolyMod(a, chi, p)
	if fpolyIsZero(r1) {
		return nil, false
	}
	t0 := []uint64{0}
	t1 := []uint64{1}
	for !fpolyIsZero(r1) {
		q, r := fpolyDivMod(r0, r1, p)
		r0, r1 = r1, r
		t0, t1 = t1, fpolySub(t0, fpolyMul(q, t1, p), p)
	}
	if len(r0) != 1 {
		return nil, false
	}
	// scale so the gcd becomes exactly 1
	inv := fpInv(r0[0], p)
	out := make([]uint64, len(t0))
	for i := range t0 {
		out[i] = mulMod(t0[i], inv, p)
	}
	return fpolyTrim(out, p), true
}

func fpolyPowMod(base []uint64, exp uint64, modulus []uint64, p uint64) []uint64 {
	result := []uint64{1}
	b := fpolyMod(base, modulus, p)
	for exp > 0 {
		if exp&1 == 1 {
			result = fpolyMod(fpolyMul(result, b, p), modulus, p)
		}
		exp >>= 1
		if exp > 0 {
			b = fpolyMod(fpolyMul(b, b, p), modulus, p)
		}
	}
	return result
}

// fpolyIrreducible implements the Ben-Or irreducibility test: f of
// degree n is irreducible over GF(p) iff gcd(x^(p^i) - x, f) is trivial
// for i <= n/2 and x^(p^n) = x mod f.
func fpolyIrreducible(f []uint64, p uint64) bool {
	f = fpolyTrim(f, p)
	if len(f) <= 1 {
		return false
	}
	n := len(f) - 1
	x := []uint64{0, 1}
	if n == 1 {
		return true
	}
	xp := []uint64{0, 1}
	for i := 1; i <= n/2; i++ {
		xp = fpolyPowMod(xp, p, f, p)
		g := fpolyGCD(fpolySub(xp, x, p), f, p)
		if len(g) > 1 {
			return false
		}
	}
	xp = []uint64{0, 1}
	for i := 0; i < n; i++ {
		xp = fpolyPowMod(xp, p, f, p)
	}
	diff := fpolySub(xp, x, p)
	return fpolyIsZero(diff)
}

// fpInv inverts a nonzero scalar mod p (p prime) by Fermat.
func fpInv(a, p uint64) uint64 {
	if a%p == 0 {
		panic("field: scalar inverse of zero")
	}
	return fpPow(a, p-2, p)
}

func fpPow(a, e, p uint64) uint64 {
	result := uint64(1)
	base := a % p
	for e > 0 {
		if e&1 == 1 {
			result = mulMod(result, base, p)
		}
		e >>= 1
		if e > 0 {
			base = mulMod(base, base, p)
		}
	}
	return result
}
