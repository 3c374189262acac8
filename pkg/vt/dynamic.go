package vt

import (
	"src.vt.sh/pkg/gf"
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/ndarray"
)

// kindOps holds the operations on arrays of one kind whose kind is only known
// at run time.
type kindOps struct {
	parse  func(*parser) (Value, error)
	make   func(n int) Value
	fromND func(ndarray.Descriptor) (Value, error)
}

var dynamic = map[kind.ID]kindOps{}

func register[E kind.Elem]() {
	dynamic[kind.Of[E]().ID] = kindOps{
		parse: func(ps *parser) (Value, error) {
			a, err := parseElems[E](ps)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		make: func(n int) Value { return New[E](n) },
		fromND: func(d ndarray.Descriptor) (Value, error) {
			a, err := FromND[E](d)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
	}
}

func init() {
	register[bool]()
	register[int8]()
	register[uint8]()
	register[int16]()
	register[uint16]()
	register[int32]()
	register[uint32]()
	register[int64]()
	register[uint64]()
	register[gf.Half]()
	register[float32]()
	register[float64]()
	register[string]()

	register[gf.Vec2h]()
	register[gf.Vec2f]()
	register[gf.Vec2d]()
	register[gf.Vec2i]()
	register[gf.Vec3h]()
	register[gf.Vec3f]()
	register[gf.Vec3d]()
	register[gf.Vec3i]()
	register[gf.Vec4h]()
	register[gf.Vec4f]()
	register[gf.Vec4d]()
	register[gf.Vec4i]()

	register[gf.Matrix2f]()
	register[gf.Matrix2d]()
	register[gf.Matrix3f]()
	register[gf.Matrix3d]()
	register[gf.Matrix4f]()
	register[gf.Matrix4d]()

	register[gf.Quath]()
	register[gf.Quatf]()
	register[gf.Quatd]()

	register[gf.DualQuath]()
	register[gf.DualQuatf]()
	register[gf.DualQuatd]()

	register[gf.Range1f]()
	register[gf.Range1d]()
	register[gf.Range2f]()
	register[gf.Range2d]()
	register[gf.Range3f]()
	register[gf.Range3d]()

	for _, k := range kind.All() {
		if _, ok := dynamic[k.ID]; !ok {
			panic("no array operations registered for kind " + k.Name)
		}
	}
}

// NewOf returns an array of n default values of kind k.
func NewOf(k *kind.Kind, n int) Value {
	return dynamic[k.ID].make(n)
}

// FromNDOf imports a foreign array as an array of kind k, like FromND.
func FromNDOf(k *kind.Kind, d ndarray.Descriptor) (Value, error) {
	return dynamic[k.ID].fromND(d)
}
