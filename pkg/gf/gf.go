// Package gf defines the fixed-shape compound value kinds that arrays can
// hold: vectors, square matrices, quaternions, dual quaternions and ranges.
//
// Every compound type is a Go array of components, laid out exactly as it is
// exchanged with foreign multi-dimensional arrays:
//
//   - VecN: N components.
//   - MatrixN: N*N components in row-major order.
//   - Quat: the imaginary part i, j, k followed by the real part.
//   - DualQuat: the real quaternion followed by the dual quaternion.
//   - RangeN: the N minimum components followed by the N maximum components.
//
// Arithmetic on these types is done componentwise by package vt; this package
// only supplies the types and a few constructors.
package gf

import "github.com/x448/float16"

// Half is an IEEE 754 binary16 floating point number.
type Half = float16.Float16

type (
	Vec2h [2]Half
	Vec2f [2]float32
	Vec2d [2]float64
	Vec2i [2]int32
	Vec3h [3]Half
	Vec3f [3]float32
	Vec3d [3]float64
	Vec3i [3]int32
	Vec4h [4]Half
	Vec4f [4]float32
	Vec4d [4]float64
	Vec4i [4]int32
)

type (
	Matrix2f [4]float32
	Matrix2d [4]float64
	Matrix3f [9]float32
	Matrix3d [9]float64
	Matrix4f [16]float32
	Matrix4d [16]float64
)

type (
	Quath [4]Half
	Quatf [4]float32
	Quatd [4]float64
)

type (
	DualQuath [8]Half
	DualQuatf [8]float32
	DualQuatd [8]float64
)

type (
	Range1f [2]float32
	Range1d [2]float64
	Range2f [4]float32
	Range2d [4]float64
	Range3f [6]float32
	Range3d [6]float64
)

// NewQuath returns the quaternion real + img.
func NewQuath(real Half, img Vec3h) Quath { return Quath{img[0], img[1], img[2], real} }

// NewQuatf returns the quaternion real + img.
func NewQuatf(real float32, img Vec3f) Quatf { return Quatf{img[0], img[1], img[2], real} }

// NewQuatd returns the quaternion real + img.
func NewQuatd(real float64, img Vec3d) Quatd { return Quatd{img[0], img[1], img[2], real} }

func (q Quath) Real() Half { return q[3] }
func (q Quatf) Real() float32 { return q[3] }
func (q Quatd) Real() float64 { return q[3] }
func (q Quath) Imaginary() Vec3h { return Vec3h{q[0], q[1], q[2]} }
func (q Quatf) Imaginary() Vec3f { return Vec3f{q[0], q[1], q[2]} }
func (q Quatd) Imaginary() Vec3d { return Vec3d{q[0], q[1], q[2]} }

// NewDualQuath returns the dual quaternion real + ε dual.
func NewDualQuath(real, dual Quath) DualQuath {
	var d DualQuath
	copy(d[:4], real[:])
	copy(d[4:], dual[:])
	return d
}

// NewDualQuatf returns the dual quaternion real + ε dual.
func NewDualQuatf(real, dual Quatf) DualQuatf {
	var d DualQuatf
	copy(d[:4], real[:])
	copy(d[4:], dual[:])
	return d
}

// NewDualQuatd returns the dual quaternion real + ε dual.
func NewDualQuatd(real, dual Quatd) DualQuatd {
	var d DualQuatd
	copy(d[:4], real[:])
	copy(d[4:], dual[:])
	return d
}

func NewRange1f(min, max float32) Range1f { return Range1f{min, max} }
func NewRange1d(min, max float64) Range1d { return Range1d{min, max} }
func NewRange2f(min, max Vec2f) Range2f { return Range2f{min[0], min[1], max[0], max[1]} }
func NewRange2d(min, max Vec2d) Range2d { return Range2d{min[0], min[1], max[0], max[1]} }

func NewRange3f(min, max Vec3f) Range3f {
	return Range3f{min[0], min[1], min[2], max[0], max[1], max[2]}
}

func NewRange3d(min, max Vec3d) Range3d {
	return Range3d{min[0], min[1], min[2], max[0], max[1], max[2]}
}
