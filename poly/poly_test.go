package poly

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"galoisfield/field"
)

func gf(t *testing.T, p uint64, m int) *field.Field {
	t.Helper()
	var f *field.Field
	var err error
	if m == 1 {
		f, err = field.Prime(p)
	} else {
		f, err = field.Extension(p, m)
	}
	if err != nil {
		t.Fatalf("construct GF(%d^%d): %v", p, m, err)
	}
	return f
}

func randPoly(f *field.Field, maxDeg int, r *rand.Rand) *Poly {
	deg := r.Intn(maxDeg + 1)
	c := make([]uint64, deg+1)
	for i := range c {
		c[i] = uint64(r.Int63()) % f.Order()
	}
	return New(f, c...)
}

func TestConstantFromIntOverBinaryField(t *testing.T) {
	f := gf(t, 2, 1)
	p := FromInt(f, 1)
	if p.Degree() != 0 || p.Coeff(0) != 1 {
		t.Fatalf("FromInt(GF(2), 1) = %v, want the constant 1", p)
	}
	if p.String() != "1" {
		t.Fatalf("String = %q, want \"1\"", p.String())
	}
}

func TestScalarMulScenarioGF3(t *testing.T) {
	f := gf(t, 3, 1)
	// x^2 + 2x scaled by 2 is 2x^2 + x
	p := New(f, 0, 2, 1)
	got := p.ScalarMul(2)
	want := New(f, 0, 1, 2)
	if !got.Equal(want) {
		t.Fatalf("(x^2+2x)*2 = %v, want %v", got, want)
	}
}

func TestAddSubDegreeRecompute(t *testing.T) {
	f := gf(t, 5, 1)
	a := New(f, 1, 0, 3) // 3x^2 + 1
	b := New(f, 2, 0, 2) // 2x^2 + 2
	sum := a.Add(b)
	if sum.Degree() != 0 || sum.Coeff(0) != 3 {
		t.Fatalf("leading terms should cancel: got %v", sum)
	}
	if diff := a.Sub(a); !diff.IsZero() {
		t.Fatalf("a - a = %v, want 0", diff)
	}
}

func TestDivModProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, params := range [][2]uint64{{7, 1}, {2, 2}, {3, 2}} {
		f := gf(t, params[0], int(params[1]))
		for trial := 0; trial < 200; trial++ {
			a := randPoly(f, 8, r)
			b := randPoly(f, 5, r)
			if b.IsZero() {
				continue
			}
			q, rem, err := a.DivMod(b)
			if err != nil {
				t.Fatalf("DivMod: %v", err)
			}
			if rem.Degree() >= b.Degree() {
				t.Fatalf("deg(rem)=%d not < deg(b)=%d", rem.Degree(), b.Degree())
			}
			if !q.Mul(b).Add(rem).Equal(a) {
				t.Fatalf("a != q*b + r for a=%v b=%v", a, b)
			}
		}
	}
}

func TestDivModByZero(t *testing.T) {
	f := gf(t, 5, 1)
	if _, _, err := New(f, 1, 1).DivMod(Zero(f)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero, got %v", err)
	}
}

func TestGCDMonicNormalization(t *testing.T) {
	f := gf(t, 5, 1)
	// both multiples of (x + 1) with non-monic leading scalars
	a := New(f, 2, 2) // 2x + 2
	b := New(f, 4, 4) // 4x + 4
	g, err := GCD(a, b)
	if err != nil {
		t.Fatalf("GCD: %v", err)
	}
	if !g.Equal(New(f, 1, 1)) {
		t.Fatalf("GCD = %v, want x + 1 (monic)", g)
	}
}

func TestGCDDividesBoth(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	f := gf(t, 7, 1)
	for trial := 0; trial < 100; trial++ {
		common := randPoly(f, 3, r)
		if common.IsZero() {
			continue
		}
		a := common.Mul(randPoly(f, 3, r))
		b := common.Mul(randPoly(f, 3, r))
		if a.IsZero() || b.IsZero() {
			continue
		}
		g, err := GCD(a, b)
		if err != nil {
			t.Fatalf("GCD: %v", err)
		}
		if g.Lead() != 1 {
			t.Fatalf("GCD %v is not monic", g)
		}
		if g.Degree() < common.Degree() {
			t.Fatalf("GCD %v lost the common factor %v", g, common)
		}
		for _, operand := range []*Poly{a, b} {
			_, rem, err := operand.DivMod(g)
			if err != nil || !rem.IsZero() {
				t.Fatalf("GCD %v does not divide %v (rem %v, err %v)", g, operand, rem, err)
			}
		}
	}
}

func TestExtGCDBezout(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	f := gf(t, 5, 1)
	for trial := 0; trial < 50; trial++ {
		a := randPoly(f, 5, r)
		b := randPoly(f, 5, r)
		if a.IsZero() && b.IsZero() {
			continue
		}
		g, s, tt, err := ExtGCD(a, b)
		if err != nil {
			t.Fatalf("ExtGCD: %v", err)
		}
		if !s.Mul(a).Add(tt.Mul(b)).Equal(g) {
			t.Fatalf("Bezout identity fails: s*a + t*b != g")
		}
	}
}

func TestPowMod(t *testing.T) {
	f := gf(t, 3, 1)
	// x^2 = -1 mod (x^2+1), so x^10 = (-1)^5 = 2
	mod := New(f, 1, 0, 1)
	got, err := PowMod(X(f), big.NewInt(10), mod)
	if err != nil {
		t.Fatalf("PowMod: %v", err)
	}
	if !got.Equal(New(f, 2)) {
		t.Fatalf("x^10 mod (x^2+1) = %v, want 2", got)
	}
	if _, err := PowMod(X(f), big.NewInt(3), Zero(f)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("zero modulus: want ErrDivisionByZero, got %v", err)
	}
}

func TestEval(t *testing.T) {
	f := gf(t, 7, 1)
	p := New(f, 1, 2, 3) // 3x^2 + 2x + 1
	for x := uint64(0); x < 7; x++ {
		want := (3*x*x + 2*x + 1) % 7
		if got := p.Eval(x); got != want {
			t.Fatalf("p(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestDerivativeCharP(t *testing.T) {
	f := gf(t, 3, 1)
	// d/dx (x^3 + x + 1) = 3x^2 + 1 = 1 in characteristic 3
	p := New(f, 1, 1, 0, 1)
	if got := p.Derivative(); !got.Equal(One(f)) {
		t.Fatalf("derivative = %v, want 1", got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	f := gf(t, 7, 1)
	cases := []*Poly{
		Zero(f),
		One(f),
		New(f, 5),
		X(f),
		New(f, 0, 2),       // 2x
		New(f, 1, 1, 1),    // x^2 + x + 1
		New(f, 3, 0, 0, 6), // 6x^3 + 3
		Monomial(f, 4, 9),
	}
	for _, p := range cases {
		back, err := Parse(f, p.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", p.String(), err)
		}
		if !back.Equal(p) {
			t.Fatalf("round trip %q -> %v", p.String(), back)
		}
	}
}

func TestStringForms(t *testing.T) {
	f := gf(t, 7, 1)
	cases := []struct {
		p    *Poly
		want string
	}{
		{Zero(f), "0"},
		{New(f, 4), "4"},
		{X(f), "x"},
		{New(f, 0, 1, 2), "2x^2 + x"},
		{New(f, 1, 0, 1), "x^2 + 1"},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Fatalf("String = %q, want %q", got, c.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	f := gf(t, 7, 1)
	for _, s := range []string{"", "x^", "x^-1", "y+1", "2*x", "x^2^3", "+x", "3..1"} {
		if _, err := Parse(f, s); !errors.Is(err, ErrMalformedPolynomial) {
			t.Fatalf("Parse(%q): want ErrMalformedPolynomial, got %v", s, err)
		}
	}
}

func TestInterpolate(t *testing.T) {
	f := gf(t, 11, 1)
	p := New(f, 3, 0, 5) // 5x^2 + 3
	xs := []uint64{0, 1, 2}
	ys := make([]uint64, len(xs))
	for i, x := range xs {
		ys[i] = p.Eval(x)
	}
	got, err := Interpolate(f, xs, ys)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("Interpolate = %v, want %v", got, p)
	}
	if _, err := Interpolate(f, []uint64{1, 1}, []uint64{2, 3}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("duplicate nodes: want ErrInvalidInput, got %v", err)
	}
}
