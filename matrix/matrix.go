// Package matrix implements exact linear algebra over finite fields.
// Every elementary operation goes through the bound field descriptor's
// operators; pivoting needs no numerical heuristic because any nonzero
// pivot is exact.
package matrix

import (
	"errors"
	"fmt"

	"galoisfield/field"
)

var (
	ErrInvalidInput  = errors.New("matrix: invalid input")
	ErrShapeMismatch = errors.New("matrix: shape mismatch")
	ErrSingular      = errors.New("matrix: singular matrix")
)

// Matrix is a dense rows x cols matrix of field element codes, stored
// row-major. Operations return fresh matrices and never mutate operands.
type Matrix struct {
	f    *field.Field
	rows int
	cols int
	data []uint64
}

// New returns the zero matrix of the given shape over f.
func New(f *field.Field, rows, cols int) (*Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: shape %dx%d", ErrInvalidInput, rows, cols)
	}
	return &Matrix{f: f, rows: rows, cols: cols, data: make([]uint64, rows*cols)}, nil
}

// FromRows builds a matrix from row slices, which must all share one
// length. Entries are reduced into the field.
func FromRows(f *field.Field, rows [][]uint64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidInput)
	}
	cols := len(rows[0])
	m := &Matrix{f: f, rows: len(rows), cols: cols, data: make([]uint64, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: ragged row %d has %d entries, want %d", ErrInvalidInput, i, len(row), cols)
		}
		for j, v := range row {
			m.data[i*cols+j] = v % f.Order()
		}
	}
	return m, nil
}

// Identity returns the n x n identity matrix over f.
func Identity(f *field.Field, n int) (*Matrix, error) {
	m, err := New(f, n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = f.One()
	}
	return m, nil
}

// Field returns the bound descriptor.
func (m *Matrix) Field() *field.Field { return m.f }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) uint64 { return m.data[i*m.cols+j] }

// Set writes the entry at row i, column j, reduced into the field.
func (m *Matrix) Set(i, j int, v uint64) { m.data[i*m.cols+j] = v % m.f.Order() }

func (m *Matrix) clone() *Matrix {
	out := &Matrix{f: m.f, rows: m.rows, cols: m.cols, data: make([]uint64, len(m.data))}
	copy(out.data, m.data)
	return out
}

// Equal reports entry-wise equality over the same descriptor.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.f != o.f || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (m *Matrix) sameField(o *Matrix) {
	if m.f != o.f {
		panic(fmt.Sprintf("matrix: mixed descriptors %s and %s", m.f, o.f))
	}
}

// Add returns m + o elementwise.
func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	m.sameField(o)
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("%w: %dx%d + %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}
	out := m.clone()
	for i := range out.data {
		out.data[i] = m.f.Add(m.data[i], o.data[i])
	}
	return out, nil
}

// Sub returns m - o elementwise.
func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	m.sameField(o)
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("%w: %dx%d - %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}
	out := m.clone()
	for i := range out.data {
		out.data[i] = m.f.Sub(m.data[i], o.data[i])
	}
	return out, nil
}

// Mul returns the matrix product m * o.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	m.sameField(o)
	if m.cols != o.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrShapeMismatch, m.rows, m.cols, o.rows, o.cols)
	}
	out, _ := New(m.f, m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < o.cols; j++ {
				idx := i*o.cols + j
				out.data[idx] = m.f.Add(out.data[idx], m.f.Mul(a, o.data[k*o.cols+j]))
			}
		}
	}
	return out, nil
}

// ScalarMul scales every entry by the field element s.
func (m *Matrix) ScalarMul(s uint64) *Matrix {
	out := m.clone()
	for i := range out.data {
		out.data[i] = m.f.Mul(out.data[i], s)
	}
	return out
}

// Transpose returns the transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	out := &Matrix{f: m.f, rows: m.cols, cols: m.rows, data: make([]uint64, len(m.data))}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// RowReduce returns the reduced row-echelon form of m and its rank.
// Any nonzero entry is a valid pivot since the arithmetic is exact.
func (m *Matrix) RowReduce() (*Matrix, int, error) {
	out := m.clone()
	f := m.f
	pivotRow := 0
	for col := 0; col < out.cols && pivotRow < out.rows; col++ {
		sel := -1
		for r := pivotRow; r < out.rows; r++ {
			if out.data[r*out.cols+col] != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		out.swapRows(sel, pivotRow)
		inv, err := f.Inv(out.data[pivotRow*out.cols+col])
		if err != nil {
			return nil, 0, fmt.Errorf("row reduction pivot at (%d,%d): %w", pivotRow, col, err)
		}
		out.scaleRow(pivotRow, inv)
		for r := 0; r < out.rows; r++ {
			if r == pivotRow {
				continue
			}
			factor := out.data[r*out.cols+col]
			if factor != 0 {
				out.addScaledRow(r, pivotRow, f.Neg(factor))
			}
		}
		pivotRow++
	}
	return out, pivotRow, nil
}

func (m *Matrix) swapRows(a, b int) {
	if a == b {
		return
	}
	for j := 0; j < m.cols; j++ {
		m.data[a*m.cols+j], m.data[b*m.cols+j] = m.data[b*m.cols+j], m.data[a*m.cols+j]
	}
}

func (m *Matrix) scaleRow(r int, s uint64) {
	for j := 0; j < m.cols; j++ {
		m.data[r*m.cols+j] = m.f.Mul(m.data[r*m.cols+j], s)
	}
}

// addScaledRow adds s times row src to row dst.
func (m *Matrix) addScaledRow(dst, src int, s uint64) {
	for j := 0; j < m.cols; j++ {
		m.data[dst*m.cols+j] = m.f.Add(m.data[dst*m.cols+j], m.f.Mul(m.data[src*m.cols+j], s))
	}
}

// Rank returns the rank of m.
func (m *Matrix) Rank() (int, error) {
	_, rank, err := m.RowReduce()
	return rank, err
}

// Det returns the determinant of a square matrix by Gaussian
// elimination to upper-triangular form.
func (m *Matrix) Det() (uint64, error) {
	if m.rows != m.cols {
		return 0, fmt.Errorf("%w: determinant of %dx%d", ErrShapeMismatch, m.rows, m.cols)
	}
	f := m.f
	work := m.clone()
	n := m.rows
	det := f.One()
	for col := 0; col < n; col++ {
		sel := -1
		for r := col; r < n; r++ {
			if work.data[r*n+col] != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			return 0, nil
		}
		if sel != col {
			work.swapRows(sel, col)
			det = f.Neg(det)
		}
		pivot := work.data[col*n+col]
		det = f.Mul(det, pivot)
		inv, err := f.Inv(pivot)
		if err != nil {
			return 0, err
		}
		for r := col + 1; r < n; r++ {
			factor := work.data[r*n+col]
			if factor == 0 {
				continue
			}
			scale := f.Neg(f.Mul(factor, inv))
			work.addScaledRow(r, col, scale)
		}
	}
	return det, nil
}

// Inverse returns the multiplicative inverse of a square matrix by
// row-reducing [m | I]. It fails with ErrSingular when the determinant
// is the additive identity.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: inverse of %dx%d", ErrShapeMismatch, m.rows, m.cols)
	}
	n := m.rows
	aug := &Matrix{f: m.f, rows: n, cols: 2 * n, data: make([]uint64, n*2*n)}
	for i := 0; i < n; i++ {
		copy(aug.data[i*2*n:i*2*n+n], m.data[i*n:(i+1)*n])
		aug.data[i*2*n+n+i] = m.f.One()
	}
	reduced, rank, err := aug.RowReduce()
	if err != nil {
		return nil, err
	}
	if rank < n {
		return nil, fmt.Errorf("%w: rank %d < %d", ErrSingular, rank, n)
	}
	out, _ := New(m.f, n, n)
	for i := 0; i < n; i++ {
		copy(out.data[i*n:(i+1)*n], reduced.data[i*2*n+n:(i+1)*2*n])
	}
	return out, nil
}

// NullSpace returns a matrix whose rows form a basis of the right null
// space of m, or nil when the null space is trivial.
func (m *Matrix) NullSpace() (*Matrix, error) {
	reduced, rank, err := m.RowReduce()
	if err != nil {
		return nil, err
	}
	free := m.cols - rank
	if free == 0 {
		return nil, nil
	}
	// locate the pivot column of each reduced row
	pivotCol := make([]int, 0, rank)
	isPivot := make([]bool, m.cols)
	for r := 0; r < rank; r++ {
		for c := 0; c < m.cols; c++ {
			if reduced.data[r*m.cols+c] != 0 {
				pivotCol = append(pivotCol, c)
				isPivot[c] = true
				break
			}
		}
	}
	out := &Matrix{f: m.f, rows: free, cols: m.cols, data: make([]uint64, free*m.cols)}
	row := 0
	for c := 0; c < m.cols; c++ {
		if isPivot[c] {
			continue
		}
		out.data[row*m.cols+c] = m.f.One()
		for r, pc := range pivotCol {
			out.data[row*m.cols+pc] = m.f.Neg(reduced.data[r*m.cols+c])
		}
		row++
	}
	return out, nil
}

// LU returns a decomposition P*m = L*U with P a permutation matrix,
// L unit lower triangular and U upper triangular.
func (m *Matrix) LU() (p, l, u *Matrix, err error) {
	if m.rows != m.cols {
		return nil, nil, nil, fmt.Errorf("%w: LU of %dx%d", ErrShapeMismatch, m.rows, m.cols)
	}
	f := m.f
	n := m.rows
	work := m.clone()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	l, _ = Identity(f, n)
	for col := 0; col < n; col++ {
		sel := -1
		for r := col; r < n; r++ {
			if work.data[r*n+col] != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		if sel != col {
			work.swapRows(sel, col)
			perm[sel], perm[col] = perm[col], perm[sel]
			// swap the already-filled part of L below the diagonal
			for j := 0; j < col; j++ {
				l.data[sel*n+j], l.data[col*n+j] = l.data[col*n+j], l.data[sel*n+j]
			}
		}
		inv, err := f.Inv(work.data[col*n+col])
		if err != nil {
			return nil, nil, nil, err
		}
		for r := col + 1; r < n; r++ {
			factor := work.data[r*n+col]
			if factor == 0 {
				continue
			}
			mult := f.Mul(factor, inv)
			l.data[r*n+col] = mult
			work.addScaledRow(r, col, f.Neg(mult))
		}
	}
	p, _ = New(f, n, n)
	for i, src := range perm {
		p.data[i*n+src] = f.One()
	}
	return p, l, work, nil
}
