// Package field implements finite fields GF(p^m) and integer groups Z/nZ
// with exact uint64 element arithmetic. A Field value is an immutable
// descriptor constructed once per parameter set and cached process-wide;
// the polynomial and matrix packages perform all of their arithmetic
// through its operator methods and never touch raw modular computation.
package field

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"galoisfield/intmod"
)

var (
	ErrInvalidField    = errors.New("field: invalid field parameters")
	ErrInvalidGroup    = errors.New("field: invalid group parameters")
	ErrInvalidInput    = errors.New("field: invalid input")
	ErrDivisionByZero  = errors.New("field: division by zero")
	ErrNotInvertible   = errors.New("field: element not invertible")
	ErrSearchExhausted = errors.New("field: search exhausted")
)

// Kind discriminates the three descriptor variants. Arithmetic dispatches
// on it exactly once per operation; callers should use the Is* predicates
// instead of inspecting parameters.
type Kind int

const (
	KindPrime Kind = iota
	KindExtension
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindPrime:
		return "prime field"
	case KindExtension:
		return "extension field"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Field describes one finite field GF(p^m) or one group Z/nZ. Elements
// are uint64 codes in [0, Order()); extension-field codes encode the
// polynomial basis coefficients in base p, least significant first.
type Field struct {
	kind     Kind
	char     uint64   // characteristic p, or the modulus n for groups
	deg      int      // extension degree m (1 for prime fields and groups)
	order    uint64   // p^m, or n
	chi      []uint64 // monic irreducible of degree m, ascending; nil unless extension
	alpha    uint64   // primitive element, valid only when hasAlpha
	hasAlpha bool

	tabOnce sync.Once
	tabErr  error
	tab     atomic.Pointer[lookupTables]
}

var (
	regMu    sync.Mutex
	registry = make(map[string]*Field)
)

func regKey(kind Kind, char uint64, deg int, chi []uint64) string {
	return fmt.Sprintf("%d/%d/%d/%v", kind, char, deg, chi)
}

// intern publishes f in the registry, returning the canonical descriptor
// for its parameters. Identical requests yield identity-equal fields.
func intern(f *Field) *Field {
	k := regKey(f.kind, f.char, f.deg, f.chi)
	regMu.Lock()
	defer regMu.Unlock()
	if prev, ok := registry[k]; ok {
		return prev
	}
	registry[k] = f
	return f
}

// Prime constructs (or fetches) the prime field GF(p).
func Prime(p uint64) (*Field, error) {
	prime, err := intmod.IsPrime(p)
	if err != nil || !prime {
		return nil, fmt.Errorf("%w: characteristic %d is not prime", ErrInvalidField, p)
	}
	alpha, err := intmod.PrimitiveRoot(p)
	if err != nil {
		return nil, fmt.Errorf("constructing GF(%d): %w", p, err)
	}
	return intern(&Field{
		kind:     KindPrime,
		char:     p,
		deg:      1,
		order:    p,
		alpha:    alpha,
		hasAlpha: true,
	}), nil
}

// Extension constructs (or fetches) GF(p^m), deriving the lexically
// smallest monic irreducible polynomial of degree m over GF(p).
func Extension(p uint64, m int) (*Field, error) {
	if m == 1 {
		return Prime(p)
	}
	chi, err := FindIrreducible(p, m)
	if err != nil {
		return nil, err
	}
	return ExtensionWithPoly(p, m, chi)
}

// ExtensionWithPoly constructs GF(p^m) with an explicit defining
// polynomial, given as ascending coefficients of length m+1. The
// polynomial must be monic and irreducible over GF(p); a reducible
// polynomial is rejected rather than trusted.
func ExtensionWithPoly(p uint64, m int, chi []uint64) (*Field, error) {
	prime, err := intmod.IsPrime(p)
	if err != nil || !prime {
		return nil, fmt.Errorf("%w: characteristic %d is not prime", ErrInvalidField, p)
	}
	if m < 2 {
		return nil, fmt.Errorf("%w: extension degree must be >= 2, got %d", ErrInvalidField, m)
	}
	order, ok := powCheck(p, m)
	if !ok {
		return nil, fmt.Errorf("%w: order %d^%d exceeds uint64", ErrInvalidField, p, m)
	}
	if len(chi) != m+1 {
		return nil, fmt.Errorf("%w: defining polynomial must have degree %d", ErrInvalidField, m)
	}
	norm := make([]uint64, len(chi))
	for i, c := range chi {
		norm[i] = c % p
	}
	if norm[m] != 1 {
		return nil, fmt.Errorf("%w: defining polynomial must be monic", ErrInvalidField)
	}
	if !fpolyIrreducible(norm, p) {
		return nil, fmt.Errorf("%w: defining polynomial is reducible over GF(%d)", ErrInvalidField, p)
	}
	f := &Field{
		kind:  KindExtension,
		char:  p,
		deg:   m,
		order: order,
		chi:   norm,
	}
	alpha, err := f.findPrimitiveElement()
	if err != nil {
		return nil, err
	}
	f.alpha = alpha
	f.hasAlpha = true
	return intern(f), nil
}

// GroupModN constructs (or fetches) the group of integers modulo n.
func GroupModN(n uint64) (*Field, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: modulus must be >= 1, got %d", ErrInvalidGroup, n)
	}
	g := &Field{
		kind:  KindGroup,
		char:  n,
		deg:   1,
		order: n,
	}
	if intmod.HasPrimitiveRoot(n) {
		alpha, err := intmod.PrimitiveRoot(n)
		if err == nil {
			g.alpha = alpha
			g.hasAlpha = true
		}
	}
	return intern(g), nil
}

// powCheck returns p^m, reporting overflow.
func powCheck(p uint64, m int) (uint64, bool) {
	order := uint64(1)
	for i := 0; i < m; i++ {
		hi, lo := bits.Mul64(order, p)
		if hi != 0 {
			return 0, false
		}
		order = lo
	}
	return order, true
}

// IsField reports whether every nonzero element has an inverse.
func (f *Field) IsField() bool { return f.kind == KindPrime || f.kind == KindExtension }

func (f *Field) IsPrimeField() bool     { return f.kind == KindPrime }
func (f *Field) IsExtensionField() bool { return f.kind == KindExtension }
func (f *Field) IsGroup() bool          { return f.kind == KindGroup }

func (f *Field) Kind() Kind { return f.kind }

// Order returns the number of elements.
func (f *Field) Order() uint64 { return f.order }

// Characteristic returns p for fields and the modulus n for groups.
func (f *Field) Characteristic() uint64 { return f.char }

// Degree returns the extension degree m (1 for prime fields and groups).
func (f *Field) Degree() int { return f.deg }

// IrreduciblePoly returns a copy of the defining polynomial in ascending
// coefficient order, or nil for prime fields and groups.
func (f *Field) IrreduciblePoly() []uint64 {
	if f.chi == nil {
		return nil
	}
	out := make([]uint64, len(f.chi))
	copy(out, f.chi)
	return out
}

// PrimitiveElement returns a generator of the multiplicative group. It
// fails for groups mod n whose unit group is not cyclic.
func (f *Field) PrimitiveElement() (uint64, error) {
	if !f.hasAlpha {
		return 0, fmt.Errorf("%w: no primitive element modulo %d", ErrInvalidInput, f.order)
	}
	return f.alpha, nil
}

// One returns the multiplicative identity element code.
func (f *Field) One() uint64 {
	if f.order == 1 {
		return 0
	}
	return 1
}

func (f *Field) String() string {
	switch f.kind {
	case KindPrime:
		return fmt.Sprintf("GF(%d)", f.char)
	case KindExtension:
		return fmt.Sprintf("GF(%d^%d)", f.char, f.deg)
	default:
		return fmt.Sprintf("Z/%d", f.char)
	}
}

// findPrimitiveElement searches element codes in ascending order for a
// generator of the multiplicative group of an extension field.
func (f *Field) findPrimitiveElement() (uint64, error) {
	if f.order == 2 {
		return 1, nil
	}
	groupOrder := f.order - 1
	factors, err := intmod.Factorize(groupOrder)
	if err != nil {
		return 0, fmt.Errorf("sizing multiplicative group of %s: %w", f, err)
	}
	for a := uint64(2); a < f.order; a++ {
		generator := true
		for _, pp := range factors {
			if f.Pow(a, groupOrder/pp.Prime) == f.One() {
				generator = false
				break
			}
		}
		if generator {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: primitive element of %s", ErrSearchExhausted, f)
}

// ElementOrder returns the multiplicative order of a nonzero element.
func (f *Field) ElementOrder(a uint64) (uint64, error) {
	a %= f.order
	if a == 0 {
		return 0, fmt.Errorf("%w: additive identity has no multiplicative order", ErrInvalidInput)
	}
	if f.kind == KindGroup && intmod.GCD(a, f.char) != 1 {
		return 0, fmt.Errorf("%w: %d mod %d", ErrNotInvertible, a, f.char)
	}
	groupOrder := f.order - 1
	if f.kind == KindGroup {
		phi, err := intmod.EulerPhi(f.char)
		if err != nil {
			return 0, err
		}
		groupOrder = phi
	}
	if groupOrder <= 1 {
		return 1, nil
	}
	factors, err := intmod.Factorize(groupOrder)
	if err != nil {
		return 0, err
	}
	ord := groupOrder
	for _, pp := range factors {
		for i := 0; i < pp.Exponent; i++ {
			if f.Pow(a, ord/pp.Prime) == f.One() {
				ord /= pp.Prime
			} else {
				break
			}
		}
	}
	return ord, nil
}

// FindIrreducible returns the monic irreducible polynomial of degree m
// over GF(p) with the smallest integer encoding, as ascending
// coefficients. The candidate order is deterministic, so repeated runs
// derive the same field representation.
func FindIrreducible(p uint64, m int) ([]uint64, error) {
	prime, err := intmod.IsPrime(p)
	if err != nil || !prime {
		return nil, fmt.Errorf("%w: characteristic %d is not prime", ErrInvalidField, p)
	}
	if m < 1 {
		return nil, fmt.Errorf("%w: degree must be >= 1, got %d", ErrInvalidField, m)
	}
	span, ok := powCheck(p, m)
	if !ok {
		return nil, fmt.Errorf("%w: search space %d^%d exceeds uint64", ErrInvalidField, p, m)
	}
	chi := make([]uint64, m+1)
	chi[m] = 1
	for lower := uint64(0); lower < span; lower++ {
		v := lower
		for i := 0; i < m; i++ {
			chi[i] = v % p
			v /= p
		}
		if fpolyIrreducible(chi, p) {
			out := make([]uint64, m+1)
			copy(out, chi)
			return out, nil
		}
	}
	// Irreducible polynomials of every degree exist over every finite
	// field, so reaching this point means the search was misconfigured.
	return nil, fmt.Errorf("%w: no irreducible polynomial of degree %d over GF(%d)", ErrSearchExhausted, m, p)
}
