//go:build !purego && !js

package rawisp

import (
	"image"

	"gocv.io/x/gocv"
)

// Mat wraps gocv.Mat for the native OpenCV backend.
type Mat struct {
	m gocv.Mat
}

func NewMat() Mat { return Mat{m: gocv.NewMat()} }

func NewMatWithSize(rows, cols int) Mat {
	return Mat{m: gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)}
}

func (mat Mat) Rows() int   { return mat.m.Rows() }
func (mat Mat) Cols() int   { return mat.m.Cols() }
func (mat Mat) Empty() bool { return mat.m.Empty() }
func (mat Mat) Clone() Mat  { return Mat{m: mat.m.Clone()} }
func (mat *Mat) Close()     { mat.m.Close() }

func (mat Mat) DataFloat32() []float32 {
	data, _ := mat.m.DataPtrFloat32()
	return data
}

func (mat *Mat) SetToZero() {
	mat.m.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

func CopyMatTo(src Mat, dst *Mat) {
	src.m.CopyTo(&dst.m)
}

// --- CV operations ---

// boxSum3x3 writes the 3x3 neighborhood sum of src into dst.
// Out-of-image neighbors contribute zero.
func boxSum3x3(src Mat, dst *Mat) {
	kernel := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(1, 0, 0, 0), 3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	gocv.Filter2D(src.m, &dst.m, gocv.MatTypeCV32F, kernel, image.Pt(-1, -1), 0, gocv.BorderConstant)
}

func matMax(src Mat) float32 {
	_, maxVal, _, _ := gocv.MinMaxLoc(src.m)
	return maxVal
}

func matMean(src Mat) float64 {
	return src.m.Mean().Val1
}
