package poly

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"

	"galoisfield/field"
	"galoisfield/prof"
)

// FactorPair is one irreducible factor with its multiplicity.
type FactorPair struct {
	Poly         *Poly
	Multiplicity int
}

// Factorization is the complete factorization of a polynomial: the
// product of Factors[i].Poly^Multiplicity scaled by Scalar reconstructs
// the input exactly.
type Factorization struct {
	Scalar  uint64
	Factors []FactorPair
}

// Reconstruct multiplies the factorization back together.
func (fz *Factorization) Reconstruct(f *field.Field) *Poly {
	acc := FromInt(f, fz.Scalar)
	for _, pair := range fz.Factors {
		for i := 0; i < pair.Multiplicity; i++ {
			acc = acc.Mul(pair.Poly)
		}
	}
	return acc
}

type factorConfig struct {
	seed    []byte
	retries int
}

// FactorOption adjusts the randomized stages of Factor.
type FactorOption func(*factorConfig)

// WithSeed fixes the randomness so repeated runs split factors along the
// same path. Randomness only chooses the path, never the result set.
func WithSeed(seed []byte) FactorOption {
	return func(c *factorConfig) {
		c.seed = append([]byte(nil), seed...)
	}
}

// WithRetries bounds the random splitting attempts per stage before
// Factor gives up with ErrSearchExhausted.
func WithRetries(n int) FactorOption {
	return func(c *factorConfig) { c.retries = n }
}

const defaultRetries = 64

// splitSource derives one independent PRNG per splitting attempt by
// expanding the base seed with SHAKE-128, so a fixed seed reproduces the
// whole factorization path.
type splitSource struct {
	seed    []byte
	counter uint64
}

func newSplitSource(seed []byte) (*splitSource, error) {
	if seed == nil {
		prng, err := utils.NewPRNG()
		if err != nil {
			return nil, fmt.Errorf("poly: seeding factorization: %w", err)
		}
		seed = make([]byte, 32)
		if _, err := io.ReadFull(prng, seed); err != nil {
			return nil, fmt.Errorf("poly: seeding factorization: %w", err)
		}
	}
	return &splitSource{seed: seed}, nil
}

func (s *splitSource) next() (utils.PRNG, error) {
	h := sha3.NewShake128()
	h.Write(s.seed)
	var ctr [8]byte
	for i := 0; i < 8; i++ {
		ctr[i] = byte(s.counter >> (8 * i))
	}
	s.counter++
	h.Write(ctr[:])
	key := make([]byte, 64)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return utils.NewKeyedPRNG(key)
}

// randPolyBelow draws a uniform nonzero polynomial of degree < bound.
func randPolyBelow(f *field.Field, bound int, rnd io.Reader) (*Poly, error) {
	for {
		c := make([]uint64, bound)
		var buf [8]byte
		for i := range c {
			if _, err := io.ReadFull(rnd, buf[:]); err != nil {
				return nil, err
			}
			v := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
				uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
			c[i] = v % f.Order()
		}
		p := &Poly{f: f, c: trim(c)}
		if !p.IsZero() {
			return p, nil
		}
	}
}

// Factor computes the complete factorization of p into monic
// irreducibles: strip the leading scalar, split square-free parts, sort
// the square-free parts into distinct-degree buckets, then split each
// bucket into individual irreducibles (Cantor-Zassenhaus). The zero
// polynomial is rejected; a nonzero constant yields no factors and the
// constant as scalar.
func (p *Poly) Factor(opts ...FactorOption) (*Factorization, error) {
	if !p.f.IsField() {
		return nil, fmt.Errorf("%w: factorization requires field coefficients, not %s", ErrInvalidInput, p.f)
	}
	if p.IsZero() {
		return nil, fmt.Errorf("%w: cannot factor the zero polynomial", ErrInvalidInput)
	}
	defer prof.Track(time.Now(), fmt.Sprintf("factor(%s)", p.f))

	cfg := factorConfig{retries: defaultRetries}
	for _, opt := range opts {
		opt(&cfg)
	}
	src, err := newSplitSource(cfg.seed)
	if err != nil {
		return nil, err
	}

	monic, scalar, err := p.Monic()
	if err != nil {
		return nil, err
	}
	result := &Factorization{Scalar: scalar}
	if monic.Degree() == 0 {
		return result, nil
	}

	sqfree, err := squareFree(monic)
	if err != nil {
		return nil, err
	}
	for _, part := range sqfree {
		buckets, err := distinctDegree(part.Poly)
		if err != nil {
			return nil, err
		}
		for _, bucket := range buckets {
			irreducibles, err := equalDegreeSplit(bucket.Poly, bucket.Multiplicity, src, cfg.retries)
			if err != nil {
				return nil, err
			}
			for _, irr := range irreducibles {
				result.Factors = append(result.Factors, FactorPair{Poly: irr, Multiplicity: part.Multiplicity})
			}
		}
	}
	sortFactors(result.Factors)
	return result, nil
}

// sortFactors orders factors by degree, then lexicographically by
// descending-degree coefficients, so the factor list is canonical no
// matter which random path found it.
func sortFactors(fs []FactorPair) {
	sort.Slice(fs, func(i, j int) bool {
		a, b := fs[i].Poly, fs[j].Poly
		if a.Degree() != b.Degree() {
			return a.Degree() < b.Degree()
		}
		for k := a.Degree(); k >= 0; k-- {
			if a.Coeff(k) != b.Coeff(k) {
				return a.Coeff(k) < b.Coeff(k)
			}
		}
		return false
	})
}

// squareFree performs Yun-style square-free decomposition of a monic
// non-constant polynomial, with the characteristic-p correction: when
// the derivative vanishes the polynomial is a p-th power and recursion
// continues on its p-th root with multiplicities scaled by p.
func squareFree(f *Poly) ([]FactorPair, error) {
	fld := f.f
	charP := fld.Characteristic()
	var out []FactorPair

	deriv := f.Derivative()
	if deriv.IsZero() {
		root, err := pthRoot(f)
		if err != nil {
			return nil, err
		}
		inner, err := squareFree(root)
		if err != nil {
			return nil, err
		}
		for _, pair := range inner {
			out = append(out, FactorPair{Poly: pair.Poly, Multiplicity: pair.Multiplicity * int(charP)})
		}
		return out, nil
	}

	c, err := GCD(f, deriv)
	if err != nil {
		return nil, err
	}
	w, _, err := f.DivMod(c)
	if err != nil {
		return nil, err
	}
	for i := 1; !w.IsOne(); i++ {
		y, err := GCD(w, c)
		if err != nil {
			return nil, err
		}
		z, _, err := w.DivMod(y)
		if err != nil {
			return nil, err
		}
		if z.Degree() > 0 {
			out = append(out, FactorPair{Poly: z, Multiplicity: i})
		}
		w = y
		if c, _, err = c.DivMod(y); err != nil {
			return nil, err
		}
	}
	if c.Degree() > 0 {
		root, err := pthRoot(c)
		if err != nil {
			return nil, err
		}
		inner, err := squareFree(root)
		if err != nil {
			return nil, err
		}
		for _, pair := range inner {
			out = append(out, FactorPair{Poly: pair.Poly, Multiplicity: pair.Multiplicity * int(charP)})
		}
	}
	return out, nil
}

// pthRoot inverts the Frobenius on a polynomial whose nonzero terms all
// have exponents divisible by the characteristic: coefficient a of
// x^(p*j) maps to a^(q/p) at x^j.
func pthRoot(f *Poly) (*Poly, error) {
	fld := f.f
	charP := fld.Characteristic()
	if charP == 0 || uint64(f.Degree())%charP != 0 {
		return nil, fmt.Errorf("%w: not a %d-th power", ErrInvalidInput, charP)
	}
	coeffRootExp := fld.Order() / charP // a^(p^(m-1)) is the p-th root of a
	out := make([]uint64, uint64(f.Degree())/charP+1)
	for i := 0; i <= f.Degree(); i++ {
		coeff := f.Coeff(i)
		if coeff == 0 {
			continue
		}
		if uint64(i)%charP != 0 {
			return nil, fmt.Errorf("%w: stray exponent %d in %d-th power", ErrInvalidInput, i, charP)
		}
		out[uint64(i)/charP] = fld.Pow(coeff, coeffRootExp)
	}
	return &Poly{f: fld, c: trim(out)}, nil
}

// distinctDegree partitions a monic square-free polynomial into buckets
// whose irreducible factors all share one degree; the bucket degree is
// reported in the Multiplicity slot of each pair.
func distinctDegree(f *Poly) ([]FactorPair, error) {
	fld := f.f
	q := fld.Order()
	var out []FactorPair
	x := X(fld)
	h := x
	remaining := f
	for d := 1; remaining.Degree() >= 2*d; d++ {
		var err error
		h, err = PowModU64(h, q, remaining)
		if err != nil {
			return nil, err
		}
		g, err := GCD(h.Sub(x), remaining)
		if err != nil {
			return nil, err
		}
		if g.Degree() > 0 {
			out = append(out, FactorPair{Poly: g, Multiplicity: d})
			if remaining, _, err = remaining.DivMod(g); err != nil {
				return nil, err
			}
			if h, err = h.Mod(remaining); err != nil {
				return nil, err
			}
		}
	}
	if remaining.Degree() > 0 {
		out = append(out, FactorPair{Poly: remaining, Multiplicity: remaining.Degree()})
	}
	return out, nil
}

// equalDegreeSplit splits a monic product of irreducibles that all have
// degree d into the individual factors, retrying random splitting
// polynomials up to the configured bound.
func equalDegreeSplit(f *Poly, d int, src *splitSource, retries int) ([]*Poly, error) {
	if f.Degree() == d {
		return []*Poly{f}, nil
	}
	fld := f.f
	q := fld.Order()

	// exponent (q^d - 1) / 2 for odd q; char-2 fields use the trace sum
	for attempt := 0; attempt < retries; attempt++ {
		prng, err := src.next()
		if err != nil {
			return nil, err
		}
		h, err := randPolyBelow(fld, f.Degree(), prng)
		if err != nil {
			return nil, err
		}
		g, err := GCD(h, f)
		if err != nil {
			return nil, err
		}
		if g.Degree() == 0 {
			if fld.Characteristic() == 2 {
				g, err = traceSplit(h, f, d)
			} else {
				g, err = powSplit(h, f, d, q)
			}
			if err != nil {
				return nil, err
			}
		}
		if g.Degree() <= 0 || g.Degree() >= f.Degree() {
			continue
		}
		rest, _, err := f.DivMod(g)
		if err != nil {
			return nil, err
		}
		left, err := equalDegreeSplit(g, d, src, retries)
		if err != nil {
			return nil, err
		}
		right, err := equalDegreeSplit(rest, d, src, retries)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	return nil, fmt.Errorf("%w: equal-degree splitting of degree-%d bucket", ErrSearchExhausted, f.Degree())
}

// powSplit computes gcd(h^((q^d-1)/2) - 1, f) for odd q.
func powSplit(h, f *Poly, d int, q uint64) (*Poly, error) {
	exp := new(big.Int).Exp(new(big.Int).SetUint64(q), big.NewInt(int64(d)), nil)
	exp.Sub(exp, big.NewInt(1))
	exp.Rsh(exp, 1)
	hp, err := PowMod(h, exp, f)
	if err != nil {
		return nil, err
	}
	return GCD(hp.Sub(One(f.f)), f)
}

// traceSplit computes gcd(T(h), f) with the char-2 trace polynomial
// T(h) = h + h^2 + h^4 + ... + h^(2^(k*d-1)) where q = 2^k.
func traceSplit(h, f *Poly, d int) (*Poly, error) {
	fld := f.f
	k := fld.Degree() // q = 2^k since characteristic is 2
	acc := Zero(fld)
	term := h
	var err error
	for i := 0; i < k*d; i++ {
		acc = acc.Add(term)
		term = term.Mul(term)
		if term, err = term.Mod(f); err != nil {
			return nil, err
		}
	}
	if acc, err = acc.Mod(f); err != nil {
		return nil, err
	}
	return GCD(acc, f)
}

// Roots returns the roots of p in its own field with multiplicities,
// derived from the degree-1 factors of the full factorization.
func (p *Poly) Roots(opts ...FactorOption) ([]Root, error) {
	fz, err := p.Factor(opts...)
	if err != nil {
		return nil, err
	}
	var out []Root
	for _, pair := range fz.Factors {
		if pair.Poly.Degree() != 1 {
			continue
		}
		// monic x + c vanishes at -c
		out = append(out, Root{
			Value:        p.f.Neg(pair.Poly.Coeff(0)),
			Multiplicity: pair.Multiplicity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

// Root is one root of a polynomial with its multiplicity.
type Root struct {
	Value        uint64
	Multiplicity int
}

// IsIrreducible reports whether p is irreducible over its field, using
// the Ben-Or criterion extended to GF(q). Constants and the zero
// polynomial are not irreducible.
func (p *Poly) IsIrreducible() (bool, error) {
	if !p.f.IsField() {
		return false, fmt.Errorf("%w: irreducibility requires field coefficients", ErrInvalidInput)
	}
	n := p.Degree()
	if n < 1 {
		return false, nil
	}
	if n == 1 {
		return true, nil
	}
	fld := p.f
	q := fld.Order()
	x := X(fld)
	xq := x
	var err error
	for i := 1; i <= n/2; i++ {
		if xq, err = PowModU64(xq, q, p); err != nil {
			return false, err
		}
		g, err := GCD(xq.Sub(x), p)
		if err != nil {
			return false, err
		}
		if g.Degree() > 0 {
			return false, nil
		}
	}
	xq = x
	for i := 0; i < n; i++ {
		if xq, err = PowModU64(xq, q, p); err != nil {
			return false, err
		}
	}
	return xq.Sub(x).IsZero(), nil
}
