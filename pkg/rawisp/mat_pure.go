//go:build purego || js

package rawisp

// Mat is a pure Go 2D float32 matrix.
type Mat struct {
	data []float32
	rows int
	cols int
}

func NewMat() Mat { return Mat{} }

func NewMatWithSize(rows, cols int) Mat {
	return Mat{
		data: make([]float32, rows*cols),
		rows: rows,
		cols: cols,
	}
}

func (m Mat) Rows() int   { return m.rows }
func (m Mat) Cols() int   { return m.cols }
func (m Mat) Empty() bool { return m.data == nil || m.rows == 0 || m.cols == 0 }

func (m Mat) Clone() Mat {
	out := NewMatWithSize(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

func (m *Mat) Close() {
	m.data = nil
	m.rows = 0
	m.cols = 0
}

// DataFloat32 returns the backing float32 slice, row-major.
func (m Mat) DataFloat32() []float32 {
	return m.data
}

func (m *Mat) SetToZero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

func CopyMatTo(src Mat, dst *Mat) {
	if dst.rows != src.rows || dst.cols != src.cols || dst.data == nil {
		*dst = NewMatWithSize(src.rows, src.cols)
	}
	copy(dst.data, src.data)
}

// --- Pure Go CV operations ---

// boxSum3x3 writes the 3x3 neighborhood sum of src into dst.
// Out-of-image neighbors contribute zero.
func boxSum3x3(src Mat, dst *Mat) {
	rows, cols := src.rows, src.cols
	if dst.rows != rows || dst.cols != cols || dst.data == nil {
		*dst = NewMatWithSize(rows, cols)
	}
	sd := src.DataFloat32()
	dd := dst.DataFloat32()
	for r := 0; r < rows; r++ {
		r0, r2 := r-1, r+1
		for c := 0; c < cols; c++ {
			var sum float32
			for rr := r0; rr <= r2; rr++ {
				if rr < 0 || rr >= rows {
					continue
				}
				off := rr * cols
				for cc := c - 1; cc <= c+1; cc++ {
					if cc < 0 || cc >= cols {
						continue
					}
					sum += sd[off+cc]
				}
			}
			dd[r*cols+c] = sum
		}
	}
}

func matMax(src Mat) float32 {
	data := src.DataFloat32()
	if len(data) == 0 {
		return 0
	}
	maxVal := data[0]
	for _, v := range data[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func matMean(src Mat) float64 {
	data := src.DataFloat32()
	n := src.rows * src.cols
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(data[i])
	}
	return sum / float64(n)
}
