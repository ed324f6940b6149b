package array

import (
	"errors"
	"testing"

	"galoisfield/field"
	"galoisfield/poly"
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

func TestNewRejectsOutOfRange(t *testing.T) {
	f := gf(t, 5, 1)
	if _, err := New(f, []int{2}, []uint64{1, 7}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("element 7 in GF(5): want ErrInvalidInput, got %v", err)
	}
	if _, err := New(f, []int{2, 2}, []uint64{1, 2, 3}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("3 elements for 2x2: want ErrShapeMismatch, got %v", err)
	}
}

func TestElementwiseSameShape(t *testing.T) {
	f := gf(t, 7, 1)
	a, _ := New(f, []int{2, 2}, []uint64{1, 2, 3, 4})
	b, _ := New(f, []int{2, 2}, []uint64{6, 6, 6, 6})
	got, err := Elementwise(AddOp(f), a, b)
	if err != nil {
		t.Fatalf("Elementwise: %v", err)
	}
	want, _ := New(f, []int{2, 2}, []uint64{0, 1, 2, 3})
	if !got.Equal(want) {
		t.Fatalf("sum = %v", got.Data())
	}
}

func TestElementwiseBroadcast(t *testing.T) {
	f := gf(t, 5, 1)
	// 2x3 plus a length-3 row vector
	a, _ := New(f, []int{2, 3}, []uint64{0, 1, 2, 3, 4, 0})
	row, _ := New(f, []int{3}, []uint64{1, 1, 1})
	got, err := Elementwise(AddOp(f), a, row)
	if err != nil {
		t.Fatalf("broadcast row: %v", err)
	}
	want, _ := New(f, []int{2, 3}, []uint64{1, 2, 3, 4, 0, 1})
	if !got.Equal(want) {
		t.Fatalf("row broadcast = %v", got.Data())
	}

	// 2x1 column against 2x3
	col, _ := New(f, []int{2, 1}, []uint64{2, 3})
	got, err = Elementwise(MulOp(f), a, col)
	if err != nil {
		t.Fatalf("broadcast column: %v", err)
	}
	want, _ = New(f, []int{2, 3}, []uint64{0, 2, 4, 4, 2, 0})
	if !got.Equal(want) {
		t.Fatalf("column broadcast = %v", got.Data())
	}

	// scalar against anything
	s, _ := New(f, nil, []uint64{4})
	got, err = Elementwise(MulOp(f), a, s)
	if err != nil {
		t.Fatalf("broadcast scalar: %v", err)
	}
	want, _ = New(f, []int{2, 3}, []uint64{0, 4, 3, 2, 1, 0})
	if !got.Equal(want) {
		t.Fatalf("scalar broadcast = %v", got.Data())
	}
}

func TestElementwiseIncompatibleShapes(t *testing.T) {
	f := gf(t, 5, 1)
	a, _ := New(f, []int{2, 3}, make([]uint64, 6))
	b, _ := New(f, []int{2, 2}, make([]uint64, 4))
	if _, err := Elementwise(AddOp(f), a, b); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("2x3 against 2x2: want ErrShapeMismatch, got %v", err)
	}
	g := gf(t, 7, 1)
	c, _ := New(g, []int{2, 3}, make([]uint64, 6))
	if _, err := Elementwise(AddOp(f), a, c); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("mixed descriptors: want ErrInvalidInput, got %v", err)
	}
}

func TestMapAndOps(t *testing.T) {
	f := gf(t, 5, 1)
	a, _ := New(f, []int{4}, []uint64{0, 1, 2, 3})
	neg, err := Map(NegOp(f), a)
	if err != nil {
		t.Fatalf("Map neg: %v", err)
	}
	want, _ := New(f, []int{4}, []uint64{0, 4, 3, 2})
	if !neg.Equal(want) {
		t.Fatalf("neg = %v", neg.Data())
	}
	if _, err := Map(InvOp(f), a); !errors.Is(err, field.ErrDivisionByZero) {
		t.Fatalf("inverting a slice holding 0: got %v", err)
	}
	nz, _ := New(f, []int{3}, []uint64{1, 2, 3})
	inv, err := Map(InvOp(f), nz)
	if err != nil {
		t.Fatalf("Map inv: %v", err)
	}
	want, _ = New(f, []int{3}, []uint64{1, 3, 2})
	if !inv.Equal(want) {
		t.Fatalf("inv = %v", inv.Data())
	}
}

func TestReduce(t *testing.T) {
	f := gf(t, 7, 1)
	a, _ := New(f, []int{5}, []uint64{1, 2, 3, 4, 5})
	sum, err := Reduce(AddOp(f), a)
	if err != nil {
		t.Fatalf("Reduce add: %v", err)
	}
	if sum != 1 {
		t.Fatalf("sum = %d, want 1", sum)
	}
	prod, err := Reduce(MulOp(f), a)
	if err != nil {
		t.Fatalf("Reduce mul: %v", err)
	}
	// 120 mod 7 = 1
	if prod != 1 {
		t.Fatalf("product = %d, want 1", prod)
	}
}

func TestDot(t *testing.T) {
	f := gf(t, 5, 1)
	got, err := Dot(f, []uint64{1, 2, 3}, []uint64{4, 4, 4})
	if err != nil {
		t.Fatalf("Dot: %v", err)
	}
	// 4 + 8 + 12 = 24 = 4 mod 5
	if got != 4 {
		t.Fatalf("dot = %d, want 4", got)
	}
	if _, err := Dot(f, []uint64{1}, []uint64{1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("length mismatch: want ErrShapeMismatch, got %v", err)
	}
}

func TestConvolveMatchesPolynomialProduct(t *testing.T) {
	for _, params := range [][2]uint64{{2, 1}, {5, 1}, {2, 2}, {3, 2}} {
		f := gf(t, params[0], int(params[1]))
		a := []uint64{1, 0, 2 % f.Order(), 1}
		b := []uint64{1, 1, 1}
		got, err := Convolve(f, a, b)
		if err != nil {
			t.Fatalf("%s: Convolve: %v", f, err)
		}
		prod := poly.New(f, a...).Mul(poly.New(f, b...))
		for i, c := range got {
			if prod.Coeff(i) != c {
				t.Fatalf("%s: coefficient %d is %d, product has %d", f, i, c, prod.Coeff(i))
			}
		}
	}
}
