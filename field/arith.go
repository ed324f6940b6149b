package field

import (
	"fmt"
	"math/bits"

	"galoisfield/intmod"
)

// The six operators below are total on [0, Order()) except where noted;
// operands outside the range are reduced modulo the order first.
// Prime fields and groups reduce directly mod p or n; extension fields
// decode codes into base-p coefficient vectors, operate on them, and
// re-encode. When lookup tables have been built (see tables.go) the
// binary operators become single indexed loads.

// mulMod computes a*b mod q via a 128-bit intermediate product.
func mulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a%q, b%q)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

// Add returns a + b.
func (f *Field) Add(a, b uint64) uint64 {
	a, b = a%f.order, b%f.order
	if t := f.tab.Load(); t != nil {
		return t.add[a*f.order+b]
	}
	if f.kind == KindExtension {
		return f.encode(limbAdd(f.decode(a), f.decode(b), f.char))
	}
	sum := a + b
	if sum >= f.order || sum < a {
		sum -= f.order
	}
	return sum
}

// Sub returns a - b.
func (f *Field) Sub(a, b uint64) uint64 {
	a, b = a%f.order, b%f.order
	if f.kind == KindExtension {
		return f.encode(limbSub(f.decode(a), f.decode(b), f.char))
	}
	if a >= b {
		return a - b
	}
	return a + f.order - b
}

// Neg returns the additive inverse of a.
func (f *Field) Neg(a uint64) uint64 {
	return f.Sub(0, a)
}

// Mul returns a * b.
func (f *Field) Mul(a, b uint64) uint64 {
	a, b = a%f.order, b%f.order
	if t := f.tab.Load(); t != nil {
		return t.mul[a*f.order+b]
	}
	if f.kind == KindExtension {
		return f.encode(f.limbMul(f.decode(a), f.decode(b)))
	}
	return mulMod(a, b, f.order)
}

// Inv returns the multiplicative inverse of a. It fails with
// ErrDivisionByZero when a is zero in a field, and with ErrNotInvertible
// when a is not a unit of a group mod n.
func (f *Field) Inv(a uint64) (uint64, error) {
	a %= f.order
	switch f.kind {
	case KindPrime:
		if a == 0 {
			return 0, fmt.Errorf("%w: inverse of zero in %s", ErrDivisionByZero, f)
		}
		if t := f.tab.Load(); t != nil {
			return t.inv[a], nil
		}
		// Fermat: a^(p-2) mod p
		return intmod.ModExp(a, f.char-2, f.char), nil
	case KindExtension:
		if a == 0 {
			return 0, fmt.Errorf("%w: inverse of zero in %s", ErrDivisionByZero, f)
		}
		if t := f.tab.Load(); t != nil {
			return t.inv[a], nil
		}
		inv, ok := fpolyInvMod(f.decode(a), f.chi, f.char)
		if !ok {
			// chi is irreducible, so every nonzero residue is a unit
			return 0, fmt.Errorf("%w: inverse of %d in %s", ErrDivisionByZero, a, f)
		}
		return f.encode(inv), nil
	default:
		inv, ok := intmod.InvMod(a, f.char)
		if !ok {
			return 0, fmt.Errorf("%w: gcd(%d, %d) != 1", ErrNotInvertible, a, f.char)
		}
		return inv, nil
	}
}

// Div returns a / b, failing exactly when Inv(b) fails.
func (f *Field) Div(a, b uint64) (uint64, error) {
	invB, err := f.Inv(b)
	if err != nil {
		return 0, err
	}
	return f.Mul(a, invB), nil
}

// Pow returns a^e by square-and-multiply, with a^0 = 1 for all a.
func (f *Field) Pow(a, e uint64) uint64 {
	result := f.One()
	base := a % f.order
	for e > 0 {
		if e&1 == 1 {
			result = f.Mul(result, base)
		}
		e >>= 1
		if e > 0 {
			base = f.Mul(base, base)
		}
	}
	return result
}

// decode expands an element code into its deg base-p coefficients,
// least significant first.
func (f *Field) decode(a uint64) []uint64 {
	limbs := make([]uint64, f.deg)
	for i := 0; i < f.deg; i++ {
		limbs[i] = a % f.char
		a /= f.char
	}
	return limbs
}

// encode packs base-p coefficients back into an element code.
func (f *Field) encode(limbs []uint64) uint64 {
	var code uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		code = code*f.char + limbs[i]%f.char
	}
	return code
}

func limbAdd(a, b []uint64, p uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		s := a[i] + b[i]
		if s >= p {
			s -= p
		}
		out[i] = s
	}
	return out
}

func limbSub(a, b []uint64, p uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i] - b[i]
		} else {
			out[i] = a[i] + p - b[i]
		}
	}
	return out
}

// limbMul multiplies two coefficient vectors and reduces modulo chi.
func (f *Field) limbMul(a, b []uint64) []uint64 {
	deg := f.deg
	p := f.char
	tmp := make([]uint64, 2*deg)
	for i := 0; i < deg; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < deg; j++ {
			if b[j] == 0 {
				continue
			}
			idx := i + j
			tmp[idx] = (tmp[idx] + mulMod(a[i], b[j], p)) % p
		}
	}
	// reduce x^k for k >= deg using x^deg = -chi[0..deg-1]
	for k := len(tmp) - 1; k >= deg; k-- {
		coeff := tmp[k]
		if coeff == 0 {
			continue
		}
		tmp[k] = 0
		base := k - deg
		for j := 0; j < deg; j++ {
			sub := mulMod(coeff, f.chi[j], p)
			if tmp[base+j] >= sub {
				tmp[base+j] -= sub
			} else {
				tmp[base+j] += p - sub
			}
		}
	}
	return tmp[:deg]
}
