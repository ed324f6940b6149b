// Package array applies a bound field's operators across bulk element
// data. It carries flat element slices plus shape metadata and folds the
// field's add/mul into elementwise, reduction, and convolution templates
// so callers never touch modular arithmetic directly.
package array

import (
	"errors"
	"fmt"

	"galoisfield/field"
)

var (
	ErrInvalidInput  = errors.New("array: invalid input")
	ErrShapeMismatch = errors.New("array: shape mismatch")
)

// BinaryOp is a pure binary operator over a field's element codes.
type BinaryOp func(a, b uint64) (uint64, error)

// UnaryOp is a pure unary operator over a field's element codes.
type UnaryOp func(a uint64) (uint64, error)

// AddOp binds a descriptor's addition as a BinaryOp.
func AddOp(f *field.Field) BinaryOp {
	return func(a, b uint64) (uint64, error) { return f.Add(a, b), nil }
}

// SubOp binds a descriptor's subtraction as a BinaryOp.
func SubOp(f *field.Field) BinaryOp {
	return func(a, b uint64) (uint64, error) { return f.Sub(a, b), nil }
}

// MulOp binds a descriptor's multiplication as a BinaryOp.
func MulOp(f *field.Field) BinaryOp {
	return func(a, b uint64) (uint64, error) { return f.Mul(a, b), nil }
}

// DivOp binds a descriptor's division as a BinaryOp. Division by the
// additive identity surfaces the backend's error.
func DivOp(f *field.Field) BinaryOp {
	return func(a, b uint64) (uint64, error) { return f.Div(a, b) }
}

// NegOp binds a descriptor's negation as a UnaryOp.
func NegOp(f *field.Field) UnaryOp {
	return func(a uint64) (uint64, error) { return f.Neg(a), nil }
}

// InvOp binds a descriptor's multiplicative inverse as a UnaryOp.
func InvOp(f *field.Field) UnaryOp {
	return func(a uint64) (uint64, error) { return f.Inv(a) }
}

// Array is a dense n-dimensional block of field element codes in
// row-major order. The zero value is not usable; build one with New.
type Array struct {
	f     *field.Field
	shape []int
	data  []uint64
}

// New builds an array with the given shape from row-major data. A nil
// shape yields a scalar holding exactly one element.
func New(f *field.Field, shape []int, data []uint64) (*Array, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil field", ErrInvalidInput)
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("%w: dimension %d", ErrInvalidInput, d)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: shape wants %d elements, got %d", ErrShapeMismatch, n, len(data))
	}
	for _, v := range data {
		if v >= f.Order() {
			return nil, fmt.Errorf("%w: element %d outside %s", ErrInvalidInput, v, f)
		}
	}
	a := &Array{f: f, shape: append([]int(nil), shape...), data: append([]uint64(nil), data...)}
	return a, nil
}

// Field returns the descriptor the array's elements live in.
func (a *Array) Field() *field.Field { return a.f }

// Shape returns a copy of the array's dimensions.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Data returns a copy of the flat row-major element codes.
func (a *Array) Data() []uint64 { return append([]uint64(nil), a.data...) }

// Len returns the total element count.
func (a *Array) Len() int { return len(a.data) }

// Equal reports elementwise equality over the same descriptor and shape.
func (a *Array) Equal(b *Array) bool {
	if a.f != b.f || len(a.shape) != len(b.shape) {
		return false
	}
	for i, d := range a.shape {
		if b.shape[i] != d {
			return false
		}
	}
	for i, v := range a.data {
		if b.data[i] != v {
			return false
		}
	}
	return true
}

// broadcastShape resolves the common shape of two operand shapes under
// standard broadcasting: trailing dimensions must match or be 1.
func broadcastShape(x, y []int) ([]int, error) {
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	out := make([]int, n)
	for i := 1; i <= n; i++ {
		dx, dy := 1, 1
		if i <= len(x) {
			dx = x[len(x)-i]
		}
		if i <= len(y) {
			dy = y[len(y)-i]
		}
		switch {
		case dx == dy:
			out[n-i] = dx
		case dx == 1:
			out[n-i] = dy
		case dy == 1:
			out[n-i] = dx
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v with %v", ErrShapeMismatch, x, y)
		}
	}
	return out, nil
}

// strides computes row-major strides, with stride 0 on broadcast
// dimensions so the same source element is reused along them.
func strides(shape, out []int) []int {
	st := make([]int, len(out))
	acc := 1
	off := len(out) - len(shape)
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] == out[off+i] {
			st[off+i] = acc
		}
		acc *= shape[i]
	}
	return st
}

// Elementwise applies op across two arrays under broadcasting. Both
// operands must be bound to the same descriptor.
func Elementwise(op BinaryOp, a, b *Array) (*Array, error) {
	if a.f != b.f {
		return nil, fmt.Errorf("%w: operands bound to %s and %s", ErrInvalidInput, a.f, b.f)
	}
	shape, err := broadcastShape(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	sa := strides(a.shape, shape)
	sb := strides(b.shape, shape)
	idx := make([]int, len(shape))
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		oa, ob := 0, 0
		for d := range shape {
			oa += idx[d] * sa[d]
			ob += idx[d] * sb[d]
		}
		v, err := op(a.data[oa], b.data[ob])
		if err != nil {
			return nil, err
		}
		out[i] = v
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return &Array{f: a.f, shape: shape, data: out}, nil
}

// Map applies op to every element, preserving shape.
func Map(op UnaryOp, a *Array) (*Array, error) {
	out := make([]uint64, len(a.data))
	for i, v := range a.data {
		r, err := op(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &Array{f: a.f, shape: append([]int(nil), a.shape...), data: out}, nil
}

// Reduce folds op left to right across the flat element sequence.
// Reducing an empty array is an error since fields carry no universal
// neutral element for an arbitrary op.
func Reduce(op BinaryOp, a *Array) (uint64, error) {
	if len(a.data) == 0 {
		return 0, fmt.Errorf("%w: reduce of empty array", ErrInvalidInput)
	}
	acc := a.data[0]
	for _, v := range a.data[1:] {
		r, err := op(acc, v)
		if err != nil {
			return 0, err
		}
		acc = r
	}
	return acc, nil
}

// Dot computes the inner product of two equal-length vectors by folding
// the field's add over pairwise products.
func Dot(f *field.Field, a, b []uint64) (uint64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector lengths %d and %d", ErrShapeMismatch, len(a), len(b))
	}
	acc := uint64(0)
	for i := range a {
		if a[i] >= f.Order() || b[i] >= f.Order() {
			return 0, fmt.Errorf("%w: element outside %s", ErrInvalidInput, f)
		}
		acc = f.Add(acc, f.Mul(a[i], b[i]))
	}
	return acc, nil
}

// Convolve computes the full linear convolution of two coefficient
// vectors, length len(a)+len(b)-1, accumulating through the field ops.
func Convolve(f *field.Field, a, b []uint64) ([]uint64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: empty operand", ErrInvalidInput)
	}
	out := make([]uint64, len(a)+len(b)-1)
	for i, ai := range a {
		if ai >= f.Order() {
			return nil, fmt.Errorf("%w: element outside %s", ErrInvalidInput, f)
		}
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj >= f.Order() {
				return nil, fmt.Errorf("%w: element outside %s", ErrInvalidInput, f)
			}
			out[i+j] = f.Add(out[i+j], f.Mul(ai, bj))
		}
	}
	return out, nil
}
