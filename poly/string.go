package poly

import (
	"fmt"
	"strconv"
	"strings"

	"galoisfield/field"
)

// String renders the canonical textual form: terms in descending degree,
// coefficients other than 1 written explicitly, zero terms omitted, and
// the zero polynomial written "0". Parse round-trips this form exactly.
func (p *Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	first := true
	for i := len(p.c) - 1; i >= 0; i-- {
		coeff := p.c[i]
		if coeff == 0 {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		switch {
		case i == 0:
			b.WriteString(strconv.FormatUint(coeff, 10))
		case coeff == 1:
			b.WriteString("x")
		default:
			b.WriteString(strconv.FormatUint(coeff, 10))
			b.WriteString("x")
		}
		if i > 1 {
			b.WriteString("^")
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}

// Parse reads the canonical textual form back into a polynomial over f.
// Whitespace is ignored; repeated terms of the same degree accumulate.
// Failures report ErrMalformedPolynomial.
func Parse(f *field.Field, s string) (*Poly, error) {
	compact := strings.ReplaceAll(s, " ", "")
	if compact == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPolynomial)
	}
	coeffs := make(map[int]uint64)
	maxDeg := 0
	for _, term := range strings.Split(compact, "+") {
		if term == "" {
			return nil, fmt.Errorf("%w: empty term in %q", ErrMalformedPolynomial, s)
		}
		deg, coeff, err := parseTerm(f, term)
		if err != nil {
			return nil, err
		}
		coeffs[deg] = f.Add(coeffs[deg], coeff)
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	out := make([]uint64, maxDeg+1)
	for deg, coeff := range coeffs {
		out[deg] = coeff
	}
	return &Poly{f: f, c: trim(out)}, nil
}

// parseTerm decodes one "<coeff>", "<coeff>x", "x^<e>" or "<coeff>x^<e>".
func parseTerm(f *field.Field, term string) (int, uint64, error) {
	xIdx := strings.IndexByte(term, 'x')
	if xIdx < 0 {
		v, err := strconv.ParseUint(term, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: bad constant %q", ErrMalformedPolynomial, term)
		}
		return 0, v % f.Order(), nil
	}
	coeff := uint64(1)
	if xIdx > 0 {
		v, err := strconv.ParseUint(term[:xIdx], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: bad coefficient %q", ErrMalformedPolynomial, term)
		}
		coeff = v
	}
	rest := term[xIdx+1:]
	deg := 1
	if rest != "" {
		if !strings.HasPrefix(rest, "^") {
			return 0, 0, fmt.Errorf("%w: bad term %q", ErrMalformedPolynomial, term)
		}
		e, err := strconv.Atoi(rest[1:])
		if err != nil || e < 0 {
			return 0, 0, fmt.Errorf("%w: bad exponent %q", ErrMalformedPolynomial, term)
		}
		deg = e
	}
	return deg, coeff % f.Order(), nil
}
