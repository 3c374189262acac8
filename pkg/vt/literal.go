package vt

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/x448/float16"
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt/errs"
)

// Inclusive bounds of integer scalars, indexed by kind.Scalar.
var (
	intMin [kind.ScalarString + 1]int64
	intMax [kind.ScalarString + 1]uint64
)

func init() {
	for s := kind.ScalarBool; s <= kind.ScalarString; s++ {
		if s.IsInteger() {
			intMin[s] = s.TypeMin().Int64()
			intMax[s] = s.TypeMax().Uint64()
		}
	}
}

// ConvertLiteral converts a dynamically typed literal to an element of kind E.
//
// A literal of type E is returned as is. For scalar kinds, the literal may be
// any Go integer type or *big.Int for integer kinds, any Go number type or
// *big.Int for floating point kinds, a bool for the bool kind and a string for
// the string kind. For compound kinds, the literal must be a slice or array
// holding exactly one element's worth of such component literals.
//
// Integers outside the range of the component type are rejected with an
// errs.Overflow; all other incompatible literals are rejected with an
// errs.Type.
func ConvertLiteral[E kind.Elem](v any) (E, error) {
	if e, ok := v.(E); ok {
		return e, nil
	}
	var e E
	k := kind.Of[E]()
	p := unsafe.Pointer(&e)
	if !k.IsCompound() {
		if err := setComponent(k, p, v); err != nil {
			return *new(E), err
		}
		return e, nil
	}
	comps, ok := tuple(v)
	if !ok {
		return e, errs.Type{What: "literal for " + k.Name,
			Valid:  fmt.Sprintf("tuple of %d components", k.Components),
			Actual: typeName(v)}
	}
	if len(comps) != k.Components {
		return e, errs.Type{What: "literal for " + k.Name,
			Valid:  fmt.Sprintf("tuple of %d components", k.Components),
			Actual: fmt.Sprintf("tuple of %d components", len(comps))}
	}
	for i, c := range comps {
		if err := setComponent(k, component(k.Scalar, p, i), c); err != nil {
			return *new(E), err
		}
	}
	return e, nil
}

// ConvertLiterals converts each of the literals with ConvertLiteral.
func ConvertLiterals[E kind.Elem](vs []any) ([]E, error) {
	out := make([]E, len(vs))
	for i, v := range vs {
		e, err := ConvertLiteral[E](v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// NewFill returns an array of n elements filled from src, a list of literals
// accepted by ConvertLiteral. It accepts exactly n literals, exactly one
// literal to broadcast, or, for compound kinds, exactly one element's worth of
// scalar component literals to broadcast. Other lengths are rejected with an
// errs.Construction.
func NewFill[E kind.Elem](n int, src ...any) (*Array[E], error) {
	k := kind.Of[E]()
	if n < 0 {
		return nil, errs.Construction{Kind: k.Name, Reason: "negative length " + strconv.Itoa(n)}
	}
	if k.IsCompound() && len(src) == k.Components && allScalars(src) {
		e, err := ConvertLiteral[E](src)
		if err != nil {
			return nil, err
		}
		return broadcast(n, e), nil
	}
	switch len(src) {
	case n:
		data, err := ConvertLiterals[E](src)
		if err != nil {
			return nil, err
		}
		return wrap(data), nil
	case 1:
		e, err := ConvertLiteral[E](src[0])
		if err != nil {
			return nil, err
		}
		return broadcast(n, e), nil
	}
	return nil, errs.Construction{Kind: k.Name, Reason: fmt.Sprintf(
		"cannot fill %d elements from a source of %d values", n, len(src))}
}

func broadcast[E kind.Elem](n int, e E) *Array[E] {
	data := make([]E, n)
	for i := range data {
		data[i] = e
	}
	return wrap(data)
}

func allScalars(vs []any) bool {
	for _, v := range vs {
		if _, ok := tuple(v); ok {
			return false
		}
	}
	return true
}

// tuple returns the components of a tuple literal: a slice or array that is
// not a string.
func tuple(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = rv.Index(i).Interface()
	}
	return vs, true
}

// setComponent converts a scalar literal and stores it in the component at p,
// whose type is the component scalar of k.
func setComponent(k *kind.Kind, p unsafe.Pointer, v any) error {
	s := k.Scalar
	switch {
	case s == kind.ScalarBool:
		b, ok := v.(bool)
		if !ok {
			return wrongLiteral(k, "bool", v)
		}
		*(*bool)(p) = b
	case s == kind.ScalarString:
		str, ok := v.(string)
		if !ok {
			return wrongLiteral(k, "string", v)
		}
		*(*string)(p) = str
	case s.IsInteger():
		return setInt(k, p, v)
	default:
		f, ok := toFloat(v)
		if !ok {
			return wrongLiteral(k, "number", v)
		}
		storeFloat(s, p, f)
	}
	return nil
}

func setInt(k *kind.Kind, p unsafe.Pointer, v any) error {
	switch v := v.(type) {
	case int:
		return setSigned(k, p, int64(v))
	case int8:
		return setSigned(k, p, int64(v))
	case int16:
		return setSigned(k, p, int64(v))
	case int32:
		return setSigned(k, p, int64(v))
	case int64:
		return setSigned(k, p, v)
	case uint:
		return setUnsigned(k, p, uint64(v))
	case uint8:
		return setUnsigned(k, p, uint64(v))
	case uint16:
		return setUnsigned(k, p, uint64(v))
	case uint32:
		return setUnsigned(k, p, uint64(v))
	case uint64:
		return setUnsigned(k, p, v)
	case *big.Int:
		switch {
		case v.IsInt64():
			return setSigned(k, p, v.Int64())
		case v.IsUint64():
			return setUnsigned(k, p, v.Uint64())
		}
		return overflow(k, v.String())
	}
	return wrongLiteral(k, "integer", v)
}

func setSigned(k *kind.Kind, p unsafe.Pointer, i int64) error {
	s := k.Scalar
	if i < intMin[s] || (i > 0 && uint64(i) > intMax[s]) {
		return overflow(k, strconv.FormatInt(i, 10))
	}
	storeBits(s, p, uint64(i))
	return nil
}

func setUnsigned(k *kind.Kind, p unsafe.Pointer, u uint64) error {
	if u > intMax[k.Scalar] {
		return overflow(k, strconv.FormatUint(u, 10))
	}
	storeBits(k.Scalar, p, u)
	return nil
}

func overflow(k *kind.Kind, actual string) error {
	return errs.Overflow{Kind: k.Name,
		ValidLow:  k.Scalar.TypeMin().String(),
		ValidHigh: k.Scalar.TypeMax().String(),
		Actual:    actual}
}

func wrongLiteral(k *kind.Kind, valid string, v any) error {
	return errs.Type{What: "literal for " + k.Name, Valid: valid, Actual: typeName(v)}
}

// toFloat converts a number literal to a float64.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case float16.Float16:
		return float64(v.Float32()), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, true
	}
	if i, ok := toInt(v); ok {
		f, _ := new(big.Float).SetInt(i).Float64()
		return f, true
	}
	return math.NaN(), false
}

// toInt converts an integer literal to a *big.Int.
func toInt(v any) (*big.Int, bool) {
	switch v := v.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case *big.Int:
		return v, true
	}
	return nil, false
}

func typeName(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float16.Float16:
		return "half"
	case Value:
		return v.Kind().Name + " array"
	}
	return fmt.Sprintf("%T", v)
}
