// Package kind is the registry of element kinds an array can hold.
//
// The set of kinds is closed: it is exactly the set of types in the Elem
// constraint, and every one of them has a descriptor in this package. A kind
// describes the component scalar type, the fixed component shape, the default
// value and the arithmetic class of its elements.
package kind

import (
	"fmt"
	"math"
	"reflect"

	"github.com/x448/float16"
	"src.vt.sh/pkg/gf"
)

// Elem is the constraint satisfied by all element types.
type Elem interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		gf.Half | float32 | float64 | string |
		gf.Vec2h | gf.Vec2f | gf.Vec2d | gf.Vec2i |
		gf.Vec3h | gf.Vec3f | gf.Vec3d | gf.Vec3i |
		gf.Vec4h | gf.Vec4f | gf.Vec4d | gf.Vec4i |
		gf.Matrix2f | gf.Matrix2d | gf.Matrix3f | gf.Matrix3d | gf.Matrix4f | gf.Matrix4d |
		gf.Quath | gf.Quatf | gf.Quatd |
		gf.DualQuath | gf.DualQuatf | gf.DualQuatd |
		gf.Range1f | gf.Range1d | gf.Range2f | gf.Range2d | gf.Range3f | gf.Range3d
}

// Family groups kinds by the kind of value they hold.
type Family uint8

const (
	ScalarFamily Family = iota
	VecFamily
	MatrixFamily
	QuatFamily
	DualQuatFamily
	RangeFamily
)

// Class is the arithmetic class of a kind.
type Class uint8

const (
	// NoArith kinds do not support arithmetic.
	NoArith Class = iota
	// IntegerArith kinds accept integer scalars only, and divide with
	// truncation.
	IntegerArith
	// RealArith kinds accept integer and floating scalars, and divide with
	// real division.
	RealArith
)

// ID identifies a kind.
type ID uint8

// Kind IDs.
const (
	Bool ID = iota
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Int64
	UInt64
	Half
	Float
	Double
	String

	Vec2h
	Vec2f
	Vec2d
	Vec2i
	Vec3h
	Vec3f
	Vec3d
	Vec3i
	Vec4h
	Vec4f
	Vec4d
	Vec4i

	Matrix2f
	Matrix2d
	Matrix3f
	Matrix3d
	Matrix4f
	Matrix4d

	Quath
	Quatf
	Quatd

	DualQuath
	DualQuatf
	DualQuatd

	Range1f
	Range1d
	Range2f
	Range2d
	Range3f
	Range3d

	numKinds
)

// Kind describes an element kind.
type Kind struct {
	ID     ID
	Name   string
	Family Family
	// Scalar is the type of each component.
	Scalar Scalar
	// Shape is the fixed component shape of one element; nil for scalar kinds.
	Shape []int
	// Components is the number of components of one element; 1 for scalar
	// kinds.
	Components int

	typ  reflect.Type
	zero any
}

// IsCompound reports whether elements of the kind have more than one
// component.
func (k *Kind) IsCompound() bool { return k.Family != ScalarFamily }

// Arith returns the arithmetic class of the kind.
func (k *Kind) Arith() Class {
	switch {
	case k.Scalar == ScalarBool || k.Scalar == ScalarString:
		return NoArith
	case k.Scalar.IsInteger():
		return IntegerArith
	default:
		return RealArith
	}
}

// ElemSize returns the size of one element in bytes.
func (k *Kind) ElemSize() int { return int(k.typ.Size()) }

// Type returns the Go type of elements.
func (k *Kind) Type() reflect.Type { return k.typ }

func (k *Kind) String() string { return k.Name }

// Default returns the default value of kind E: zero for numbers and vectors,
// false, the empty string, identity for matrices and quaternions, and the
// empty range for ranges.
func Default[E Elem]() E {
	return Of[E]().zero.(E)
}

var (
	kinds  [numKinds]*Kind
	byType = map[reflect.Type]*Kind{}
	byName = map[string]*Kind{}
)

func def[E Elem](id ID, name string, family Family, scalar Scalar, shape []int, zero E) {
	components := 1
	for _, d := range shape {
		components *= d
	}
	k := &Kind{ID: id, Name: name, Family: family, Scalar: scalar,
		Shape: shape, Components: components,
		typ: reflect.TypeOf(zero), zero: zero}
	if uintptr(components)*scalar.size() != k.typ.Size() {
		panic(fmt.Sprintf("kind %s: %d components of %s do not make up %v",
			name, components, scalar, k.typ))
	}
	kinds[id] = k
	byType[k.typ] = k
	byName[name] = k
}

// Of returns the descriptor of element type E.
func Of[E Elem]() *Kind {
	return byType[reflect.TypeOf((*E)(nil)).Elem()]
}

// ByID returns the kind with the given ID.
func ByID(id ID) *Kind {
	if id >= numKinds {
		return nil
	}
	return kinds[id]
}

// ByName returns the kind with the given name.
func ByName(name string) (*Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// All returns all kinds, ordered by ID.
func All() []*Kind {
	return append([]*Kind(nil), kinds[:]...)
}

func init() {
	def(Bool, "bool", ScalarFamily, ScalarBool, nil, false)
	def(Char, "char", ScalarFamily, ScalarInt8, nil, int8(0))
	def(UChar, "uchar", ScalarFamily, ScalarUint8, nil, uint8(0))
	def(Short, "short", ScalarFamily, ScalarInt16, nil, int16(0))
	def(UShort, "ushort", ScalarFamily, ScalarUint16, nil, uint16(0))
	def(Int, "int", ScalarFamily, ScalarInt32, nil, int32(0))
	def(UInt, "uint", ScalarFamily, ScalarUint32, nil, uint32(0))
	def(Int64, "int64", ScalarFamily, ScalarInt64, nil, int64(0))
	def(UInt64, "uint64", ScalarFamily, ScalarUint64, nil, uint64(0))
	def(Half, "half", ScalarFamily, ScalarHalf, nil, float16.Float16(0))
	def(Float, "float", ScalarFamily, ScalarFloat32, nil, float32(0))
	def(Double, "double", ScalarFamily, ScalarFloat64, nil, float64(0))
	def(String, "string", ScalarFamily, ScalarString, nil, "")

	def(Vec2h, "vec2h", VecFamily, ScalarHalf, []int{2}, gf.Vec2h{})
	def(Vec2f, "vec2f", VecFamily, ScalarFloat32, []int{2}, gf.Vec2f{})
	def(Vec2d, "vec2d", VecFamily, ScalarFloat64, []int{2}, gf.Vec2d{})
	def(Vec2i, "vec2i", VecFamily, ScalarInt32, []int{2}, gf.Vec2i{})
	def(Vec3h, "vec3h", VecFamily, ScalarHalf, []int{3}, gf.Vec3h{})
	def(Vec3f, "vec3f", VecFamily, ScalarFloat32, []int{3}, gf.Vec3f{})
	def(Vec3d, "vec3d", VecFamily, ScalarFloat64, []int{3}, gf.Vec3d{})
	def(Vec3i, "vec3i", VecFamily, ScalarInt32, []int{3}, gf.Vec3i{})
	def(Vec4h, "vec4h", VecFamily, ScalarHalf, []int{4}, gf.Vec4h{})
	def(Vec4f, "vec4f", VecFamily, ScalarFloat32, []int{4}, gf.Vec4f{})
	def(Vec4d, "vec4d", VecFamily, ScalarFloat64, []int{4}, gf.Vec4d{})
	def(Vec4i, "vec4i", VecFamily, ScalarInt32, []int{4}, gf.Vec4i{})

	def(Matrix2f, "matrix2f", MatrixFamily, ScalarFloat32, []int{2, 2}, gf.Matrix2f(identity[float32](2)))
	def(Matrix2d, "matrix2d", MatrixFamily, ScalarFloat64, []int{2, 2}, gf.Matrix2d(identity[float64](2)))
	def(Matrix3f, "matrix3f", MatrixFamily, ScalarFloat32, []int{3, 3}, gf.Matrix3f(identity[float32](3)))
	def(Matrix3d, "matrix3d", MatrixFamily, ScalarFloat64, []int{3, 3}, gf.Matrix3d(identity[float64](3)))
	def(Matrix4f, "matrix4f", MatrixFamily, ScalarFloat32, []int{4, 4}, gf.Matrix4f(identity[float32](4)))
	def(Matrix4d, "matrix4d", MatrixFamily, ScalarFloat64, []int{4, 4}, gf.Matrix4d(identity[float64](4)))

	one := float16.Fromfloat32(1)
	def(Quath, "quath", QuatFamily, ScalarHalf, []int{4}, gf.Quath{3: one})
	def(Quatf, "quatf", QuatFamily, ScalarFloat32, []int{4}, gf.Quatf{3: 1})
	def(Quatd, "quatd", QuatFamily, ScalarFloat64, []int{4}, gf.Quatd{3: 1})

	def(DualQuath, "dualquath", DualQuatFamily, ScalarHalf, []int{8}, gf.DualQuath{3: one})
	def(DualQuatf, "dualquatf", DualQuatFamily, ScalarFloat32, []int{8}, gf.DualQuatf{3: 1})
	def(DualQuatd, "dualquatd", DualQuatFamily, ScalarFloat64, []int{8}, gf.DualQuatd{3: 1})

	const f32, f64 = math.MaxFloat32, math.MaxFloat64
	def(Range1f, "range1f", RangeFamily, ScalarFloat32, []int{2}, gf.Range1f{f32, -f32})
	def(Range1d, "range1d", RangeFamily, ScalarFloat64, []int{2}, gf.Range1d{f64, -f64})
	def(Range2f, "range2f", RangeFamily, ScalarFloat32, []int{4}, gf.Range2f{f32, f32, -f32, -f32})
	def(Range2d, "range2d", RangeFamily, ScalarFloat64, []int{4}, gf.Range2d{f64, f64, -f64, -f64})
	def(Range3f, "range3f", RangeFamily, ScalarFloat32, []int{6}, gf.Range3f{f32, f32, f32, -f32, -f32, -f32})
	def(Range3d, "range3d", RangeFamily, ScalarFloat64, []int{6}, gf.Range3d{f64, f64, f64, -f64, -f64, -f64})

	for id, k := range kinds {
		if k == nil {
			panic(fmt.Sprintf("kind ID %d has no descriptor", id))
		}
	}
}

// identity returns the components of the k×k identity matrix.
func identity[T float32 | float64](k int) []T {
	m := make([]T, k*k)
	for i := 0; i < k; i++ {
		m[i*k+i] = 1
	}
	return m
}
