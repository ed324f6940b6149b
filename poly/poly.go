// Package poly implements dense univariate polynomials with coefficients
// in a finite field or group descriptor from package field. Polynomials
// are immutable value types: every operation allocates its result and
// performs all coefficient arithmetic through the descriptor's operators.
package poly

import (
	"errors"
	"fmt"
	"math/big"

	"galoisfield/field"
)

var (
	ErrInvalidInput        = errors.New("poly: invalid input")
	ErrDivisionByZero      = errors.New("poly: division by zero polynomial")
	ErrMalformedPolynomial = errors.New("poly: malformed polynomial")
	ErrSearchExhausted     = errors.New("poly: search exhausted")
)

// Poly is a polynomial over one field descriptor. The zero polynomial
// has an empty coefficient slice and degree -1; otherwise the leading
// coefficient is nonzero. Coefficients are stored in ascending degree
// order: c[i] is the coefficient of x^i.
type Poly struct {
	f *field.Field
	c []uint64
}

// New builds a polynomial from ascending coefficients, reducing each
// into the field and trimming leading zeros.
func New(f *field.Field, coeffs ...uint64) *Poly {
	c := make([]uint64, len(coeffs))
	for i, v := range coeffs {
		c[i] = v % f.Order()
	}
	return &Poly{f: f, c: trim(c)}
}

// FromInt builds the degree-0 polynomial whose constant term is v
// coerced into the field.
func FromInt(f *field.Field, v uint64) *Poly {
	return New(f, v)
}

// Zero returns the zero polynomial over f.
func Zero(f *field.Field) *Poly { return &Poly{f: f} }

// One returns the constant polynomial 1 over f.
func One(f *field.Field) *Poly { return New(f, f.One()) }

// X returns the monomial x over f.
func X(f *field.Field) *Poly { return New(f, 0, 1) }

// Monomial returns coeff * x^deg over f.
func Monomial(f *field.Field, coeff uint64, deg int) *Poly {
	c := make([]uint64, deg+1)
	c[deg] = coeff % f.Order()
	return &Poly{f: f, c: trim(c)}
}

func trim(c []uint64) []uint64 {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	return c[:n]
}

// Field returns the descriptor the coefficients belong to.
func (p *Poly) Field() *field.Field { return p.f }

// Degree returns the degree, with -1 for the zero polynomial.
func (p *Poly) Degree() int { return len(p.c) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Poly) IsZero() bool { return len(p.c) == 0 }

// IsOne reports whether p is the constant polynomial 1.
func (p *Poly) IsOne() bool { return len(p.c) == 1 && p.c[0] == p.f.One() }

// Coeff returns the coefficient of x^i (zero beyond the degree).
func (p *Poly) Coeff(i int) uint64 {
	if i < 0 || i >= len(p.c) {
		return 0
	}
	return p.c[i]
}

// Coeffs returns a copy of the ascending coefficient slice.
func (p *Poly) Coeffs() []uint64 {
	out := make([]uint64, len(p.c))
	copy(out, p.c)
	return out
}

// Lead returns the leading coefficient (zero for the zero polynomial).
func (p *Poly) Lead() uint64 {
	if len(p.c) == 0 {
		return 0
	}
	return p.c[len(p.c)-1]
}

// Equal reports whether p and q are the same polynomial over the same
// descriptor.
func (p *Poly) Equal(q *Poly) bool {
	if p.f != q.f || len(p.c) != len(q.c) {
		return false
	}
	for i := range p.c {
		if p.c[i] != q.c[i] {
			return false
		}
	}
	return true
}

// sameField panics when operands belong to different descriptors.
// Mixing descriptors is a programming error, not a data error.
func (p *Poly) sameField(q *Poly) {
	if p.f != q.f {
		panic(fmt.Sprintf("poly: mixed descriptors %s and %s", p.f, q.f))
	}
}

// Add returns p + q.
func (p *Poly) Add(q *Poly) *Poly {
	p.sameField(q)
	n := len(p.c)
	if len(q.c) > n {
		n = len(q.c)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = p.f.Add(p.Coeff(i), q.Coeff(i))
	}
	return &Poly{f: p.f, c: trim(out)}
}

// Sub returns p - q.
func (p *Poly) Sub(q *Poly) *Poly {
	p.sameField(q)
	n := len(p.c)
	if len(q.c) > n {
		n = len(q.c)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = p.f.Sub(p.Coeff(i), q.Coeff(i))
	}
	return &Poly{f: p.f, c: trim(out)}
}

// Neg returns -p.
func (p *Poly) Neg() *Poly {
	out := make([]uint64, len(p.c))
	for i := range p.c {
		out[i] = p.f.Neg(p.c[i])
	}
	return &Poly{f: p.f, c: trim(out)}
}

// Mul returns p * q by schoolbook convolution.
func (p *Poly) Mul(q *Poly) *Poly {
	p.sameField(q)
	if p.IsZero() || q.IsZero() {
		return Zero(p.f)
	}
	out := make([]uint64, len(p.c)+len(q.c)-1)
	for i, a := range p.c {
		if a == 0 {
			continue
		}
		for j, b := range q.c {
			if b == 0 {
				continue
			}
			out[i+j] = p.f.Add(out[i+j], p.f.Mul(a, b))
		}
	}
	return &Poly{f: p.f, c: trim(out)}
}

// ScalarMul returns p scaled by the field element s.
func (p *Poly) ScalarMul(s uint64) *Poly {
	out := make([]uint64, len(p.c))
	for i := range p.c {
		out[i] = p.f.Mul(p.c[i], s)
	}
	return &Poly{f: p.f, c: trim(out)}
}

// DivMod returns (quotient, remainder) of polynomial long division with
// deg(remainder) < deg(divisor). It fails with ErrDivisionByZero when
// the divisor is the zero polynomial, and propagates ErrNotInvertible
// when the divisor's leading coefficient is not a unit of a group.
func (p *Poly) DivMod(b *Poly) (*Poly, *Poly, error) {
	p.sameField(b)
	if b.IsZero() {
		return nil, nil, fmt.Errorf("%w: DivMod", ErrDivisionByZero)
	}
	if p.Degree() < b.Degree() {
		return Zero(p.f), &Poly{f: p.f, c: p.Coeffs()}, nil
	}
	invLead, err := p.f.Inv(b.Lead())
	if err != nil {
		return nil, nil, fmt.Errorf("DivMod by %v: %w", b, err)
	}
	f := p.f
	rem := p.Coeffs()
	quot := make([]uint64, p.Degree()-b.Degree()+1)
	db := b.Degree()
	for i := len(rem) - 1; i >= db; i-- {
		coeff := rem[i]
		if coeff == 0 {
			continue
		}
		coeff = f.Mul(coeff, invLead)
		quot[i-db] = coeff
		for j := 0; j <= db; j++ {
			rem[i-db+j] = f.Sub(rem[i-db+j], f.Mul(coeff, b.c[j]))
		}
	}
	return &Poly{f: f, c: trim(quot)}, &Poly{f: f, c: trim(rem[:db])}, nil
}

// Mod returns the remainder of p modulo b.
func (p *Poly) Mod(b *Poly) (*Poly, error) {
	_, r, err := p.DivMod(b)
	return r, err
}

// Monic returns p scaled so its leading coefficient is 1, along with
// the scalar that was stripped. The zero polynomial is returned as is
// with scalar 0.
func (p *Poly) Monic() (*Poly, uint64, error) {
	if p.IsZero() {
		return p, 0, nil
	}
	lead := p.Lead()
	if lead == p.f.One() {
		return p, lead, nil
	}
	inv, err := p.f.Inv(lead)
	if err != nil {
		return nil, 0, fmt.Errorf("normalizing to monic: %w", err)
	}
	return p.ScalarMul(inv), lead, nil
}

// GCD returns the monic greatest common divisor of p and q by the
// Euclidean algorithm. The monic normalization makes the result unique
// rather than defined only up to a nonzero scalar. GCD(0, 0) is 0.
func GCD(p, q *Poly) (*Poly, error) {
	p.sameField(q)
	a := &Poly{f: p.f, c: p.Coeffs()}
	b := &Poly{f: q.f, c: q.Coeffs()}
	for !b.IsZero() {
		_, r, err := a.DivMod(b)
		if err != nil {
			return nil, err
		}
		a, b = b, r
	}
	monic, _, err := a.Monic()
	if err != nil {
		return nil, err
	}
	return monic, nil
}

// ExtGCD returns (g, s, t) with s*p + t*q = g = GCD(p, q), g monic.
func ExtGCD(p, q *Poly) (g, s, t *Poly, err error) {
	p.sameField(q)
	f := p.f
	r0, r1 := &Poly{f: f, c: p.Coeffs()}, &Poly{f: f, c: q.Coeffs()}
	s0, s1 := One(f), Zero(f)
	t0, t1 := Zero(f), One(f)
	for !r1.IsZero() {
		quot, rem, err := r0.DivMod(r1)
		if err != nil {
			return nil, nil, nil, err
		}
		r0, r1 = r1, rem
		s0, s1 = s1, s0.Sub(quot.Mul(s1))
		t0, t1 = t1, t0.Sub(quot.Mul(t1))
	}
	if r0.IsZero() {
		return r0, s0, t0, nil
	}
	inv, err := f.Inv(r0.Lead())
	if err != nil {
		return nil, nil, nil, err
	}
	return r0.ScalarMul(inv), s0.ScalarMul(inv), t0.ScalarMul(inv), nil
}

// PowMod returns base^exp modulo modulus by repeated squaring. The
// exponent may exceed uint64; factorization relies on that.
func PowMod(base *Poly, exp *big.Int, modulus *Poly) (*Poly, error) {
	base.sameField(modulus)
	if modulus.IsZero() {
		return nil, fmt.Errorf("%w: PowMod modulus", ErrDivisionByZero)
	}
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative exponent", ErrInvalidInput)
	}
	f := base.f
	result := One(f)
	b, err := base.Mod(modulus)
	if err != nil {
		return nil, err
	}
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = result.Mul(result)
		if result, err = result.Mod(modulus); err != nil {
			return nil, err
		}
		if exp.Bit(i) == 1 {
			result = result.Mul(b)
			if result, err = result.Mod(modulus); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// PowModU64 is PowMod with a machine-word exponent.
func PowModU64(base *Poly, exp uint64, modulus *Poly) (*Poly, error) {
	return PowMod(base, new(big.Int).SetUint64(exp), modulus)
}

// Eval evaluates p at the field element x by Horner's rule.
func (p *Poly) Eval(x uint64) uint64 {
	var acc uint64
	for i := len(p.c) - 1; i >= 0; i-- {
		acc = p.f.Add(p.f.Mul(acc, x), p.c[i])
	}
	return acc
}

// Derivative returns the formal derivative of p. In characteristic p
// the terms whose exponent is a multiple of p vanish.
func (p *Poly) Derivative() *Poly {
	if p.Degree() < 1 {
		return Zero(p.f)
	}
	out := make([]uint64, len(p.c)-1)
	for i := 1; i < len(p.c); i++ {
		// i * c[i] computed as repeated addition folded to i mod char
		scale := uint64(i) % p.f.Characteristic()
		out[i-1] = p.f.Mul(p.c[i], scale)
	}
	return &Poly{f: p.f, c: trim(out)}
}

// Interpolate returns the unique polynomial of degree < len(xs) passing
// through the points (xs[i], ys[i]), by Lagrange interpolation. The xs
// must be distinct.
func Interpolate(f *field.Field, xs, ys []uint64) (*Poly, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: Interpolate needs equal, non-empty point lists", ErrInvalidInput)
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i]%f.Order() == xs[j]%f.Order() {
				return nil, fmt.Errorf("%w: duplicate interpolation node %d", ErrInvalidInput, xs[i])
			}
		}
	}
	acc := Zero(f)
	for i := range xs {
		// numerator prod_{j != i} (x - xs[j]), denominator prod (xs[i] - xs[j])
		num := One(f)
		denom := f.One()
		for j := range xs {
			if j == i {
				continue
			}
			num = num.Mul(New(f, f.Neg(xs[j]), 1))
			denom = f.Mul(denom, f.Sub(xs[i], xs[j]))
		}
		scale, err := f.Div(ys[i], denom)
		if err != nil {
			return nil, fmt.Errorf("Interpolate: %w", err)
		}
		acc = acc.Add(num.ScalarMul(scale))
	}
	return acc, nil
}
