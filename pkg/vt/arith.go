package vt

import (
	"strconv"
	"unsafe"

	"github.com/x448/float16"
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt/errs"
)

type opcode uint8

const (
	opAdd opcode = iota
	opSub
	opMul
	opDiv
	// scalar / element
	opRDiv
	opNeg
)

var opNames = [...]string{
	opAdd: "+", opSub: "-", opMul: "*", opDiv: "/", opRDiv: "/", opNeg: "-",
}

// Add returns the elementwise sum of a and b, which must have the same length.
func (a *Array[E]) Add(b *Array[E]) (*Array[E], error) { return arrayOp(opAdd, a, b) }

// Sub returns the elementwise difference of a and b, which must have the same
// length.
func (a *Array[E]) Sub(b *Array[E]) (*Array[E], error) { return arrayOp(opSub, a, b) }

// Mul returns the elementwise product of a and b. Only scalar kinds support
// it.
func (a *Array[E]) Mul(b *Array[E]) (*Array[E], error) { return arrayOp(opMul, a, b) }

// Div returns the elementwise quotient of a and b. Only scalar kinds support
// it.
func (a *Array[E]) Div(b *Array[E]) (*Array[E], error) { return arrayOp(opDiv, a, b) }

// Neg returns the elementwise negation of a.
func (a *Array[E]) Neg() (*Array[E], error) {
	k := kind.Of[E]()
	if err := checkArith(k, opNeg); err != nil {
		return nil, err
	}
	x := a.data()
	dst := make([]E, len(x))
	if err := kernel(k.Scalar, opNeg, dst, x, nil, nil); err != nil {
		return nil, err
	}
	return wrap(dst), nil
}

// MulScalar returns a with every component multiplied by the scalar s. Integer
// kinds accept integer scalars only.
func (a *Array[E]) MulScalar(s any) (*Array[E], error) { return scalarOp(opMul, a, s) }

// DivScalar returns a with every component divided by the scalar s. Integer
// kinds accept integer scalars only, and divide with truncation.
func (a *Array[E]) DivScalar(s any) (*Array[E], error) { return scalarOp(opDiv, a, s) }

// RDivScalar returns the scalar s divided by each element of a. Only scalar
// kinds support it.
func (a *Array[E]) RDivScalar(s any) (*Array[E], error) { return scalarOp(opRDiv, a, s) }

// AddAssign adds b to a in place.
func (a *Array[E]) AddAssign(b *Array[E]) error { return a.assign(a.Add(b)) }

// SubAssign subtracts b from a in place.
func (a *Array[E]) SubAssign(b *Array[E]) error { return a.assign(a.Sub(b)) }

// MulAssign multiplies a by the scalar s in place.
func (a *Array[E]) MulAssign(s any) error { return a.assign(a.MulScalar(s)) }

// DivAssign divides a by the scalar s in place.
func (a *Array[E]) DivAssign(s any) error { return a.assign(a.DivScalar(s)) }

func (a *Array[E]) assign(r *Array[E], err error) error {
	if err != nil {
		return err
	}
	a.replace(r.buf.data)
	return nil
}

func checkArith(k *kind.Kind, op opcode) error {
	if k.Arith() == kind.NoArith {
		return errs.Type{What: "operand of " + opNames[op],
			Valid: "array of numbers", Actual: k.Name + " array"}
	}
	if k.IsCompound() && (op == opRDiv || op == opDiv || op == opMul) {
		return errs.Type{What: "operand of " + opNames[op],
			Valid: "array of scalars", Actual: k.Name + " array"}
	}
	return nil
}

func arrayOp[E kind.Elem](op opcode, a, b *Array[E]) (*Array[E], error) {
	k := kind.Of[E]()
	if err := checkArith(k, op); err != nil {
		return nil, err
	}
	x, y := a.data(), b.data()
	if len(x) != len(y) {
		return nil, errs.Value{What: "length of right operand of " + opNames[op],
			Valid: strconv.Itoa(len(x)), Actual: strconv.Itoa(len(y))}
	}
	dst := make([]E, len(x))
	if err := kernel(k.Scalar, op, dst, x, y, nil); err != nil {
		return nil, err
	}
	return wrap(dst), nil
}

func scalarOp[E kind.Elem](op opcode, a *Array[E], s any) (*Array[E], error) {
	k := kind.Of[E]()
	if k.Arith() == kind.NoArith || (op == opRDiv && k.IsCompound()) {
		return nil, checkArith(k, op)
	}
	// The scalar is converted to the component type, which needs at most 8
	// bytes.
	var scalar uint64
	if err := setScalar(k, unsafe.Pointer(&scalar), s); err != nil {
		return nil, err
	}
	x := a.data()
	dst := make([]E, len(x))
	if err := kernel(k.Scalar, op, dst, x, nil, unsafe.Pointer(&scalar)); err != nil {
		return nil, err
	}
	return wrap(dst), nil
}

// setScalar converts an arithmetic scalar operand to the component type of k.
func setScalar(k *kind.Kind, p unsafe.Pointer, s any) error {
	if _, ok := toFloat(s); !ok {
		return errs.Type{What: "scalar operand for " + k.Name + " array",
			Valid: "number", Actual: typeName(s)}
	}
	if k.Arith() == kind.IntegerArith {
		if _, ok := toInt(s); !ok {
			return errs.Type{What: "scalar operand for " + k.Name + " array",
				Valid: "integer", Actual: typeName(s)}
		}
	}
	return setComponent(k, p, s)
}

// kernel computes dst = x op y componentwise. The right operand is either the
// array y or, if y is nil, the single component at scalar.
func kernel[E kind.Elem](s kind.Scalar, op opcode, dst, x, y []E, scalar unsafe.Pointer) error {
	switch s {
	case kind.ScalarInt8:
		return intKernel(op, flat[E, int8](dst), flat[E, int8](x), rhs[E, int8](y, scalar))
	case kind.ScalarUint8:
		return intKernel(op, flat[E, uint8](dst), flat[E, uint8](x), rhs[E, uint8](y, scalar))
	case kind.ScalarInt16:
		return intKernel(op, flat[E, int16](dst), flat[E, int16](x), rhs[E, int16](y, scalar))
	case kind.ScalarUint16:
		return intKernel(op, flat[E, uint16](dst), flat[E, uint16](x), rhs[E, uint16](y, scalar))
	case kind.ScalarInt32:
		return intKernel(op, flat[E, int32](dst), flat[E, int32](x), rhs[E, int32](y, scalar))
	case kind.ScalarUint32:
		return intKernel(op, flat[E, uint32](dst), flat[E, uint32](x), rhs[E, uint32](y, scalar))
	case kind.ScalarInt64:
		return intKernel(op, flat[E, int64](dst), flat[E, int64](x), rhs[E, int64](y, scalar))
	case kind.ScalarUint64:
		return intKernel(op, flat[E, uint64](dst), flat[E, uint64](x), rhs[E, uint64](y, scalar))
	case kind.ScalarFloat32:
		floatKernel(op, flat[E, float32](dst), flat[E, float32](x), rhs[E, float32](y, scalar))
	case kind.ScalarFloat64:
		floatKernel(op, flat[E, float64](dst), flat[E, float64](x), rhs[E, float64](y, scalar))
	case kind.ScalarHalf:
		halfKernel(op, flat[E, float16.Float16](dst), flat[E, float16.Float16](x),
			rhs[E, float16.Float16](y, scalar))
	}
	return nil
}

func rhs[E kind.Elem, C any](y []E, scalar unsafe.Pointer) []C {
	if scalar != nil {
		return unsafe.Slice((*C)(scalar), 1)
	}
	return flat[E, C](y)
}

type integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

type float interface{ ~float32 | ~float64 }

// intKernel computes dst = x op y with the semantics of Go integer
// arithmetic. If y has one element, it is broadcast.
func intKernel[C integer](op opcode, dst, x, y []C) error {
	if len(dst) == 0 {
		return nil
	}
	switch op {
	case opDiv:
		for _, d := range y {
			if d == 0 {
				return errs.DivisionByZero{}
			}
		}
	case opRDiv:
		for _, d := range x {
			if d == 0 {
				return errs.DivisionByZero{}
			}
		}
	}
	for i := range dst {
		var b C
		if op != opNeg {
			b = y[0]
			if len(y) > 1 {
				b = y[i]
			}
		}
		dst[i] = arith(op, x[i], b)
	}
	return nil
}

func floatKernel[C float](op opcode, dst, x, y []C) {
	for i := range dst {
		var b C
		if op != opNeg {
			b = y[0]
			if len(y) > 1 {
				b = y[i]
			}
		}
		dst[i] = arith(op, x[i], b)
	}
}

// halfKernel computes in float32, rounding each result to half precision.
func halfKernel(op opcode, dst, x, y []float16.Float16) {
	toF32 := func(hs []float16.Float16) []float32 {
		fs := make([]float32, len(hs))
		for i, h := range hs {
			fs[i] = h.Float32()
		}
		return fs
	}
	out := make([]float32, len(dst))
	floatKernel(op, out, toF32(x), toF32(y))
	for i, f := range out {
		dst[i] = float16.Fromfloat32(f)
	}
}

func arith[C integer | float](op opcode, a, b C) C {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	case opRDiv:
		return b / a
	case opNeg:
		return -a
	}
	panic("unreachable")
}
