package edit

import (
	"strconv"

	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt"
	"src.vt.sh/pkg/vt/errs"
)

// Builder builds a one-stage Script. Literal arguments are converted to
// elements of kind E with vt.ConvertLiteral when the method is called; the
// first failure is kept and returned by FinalizeAndReset, and the methods do
// nothing after it.
//
// Indices refer to the elements of the array the script is applied to, by
// their original position; negative indices count from its end.
type Builder[E kind.Elem] struct {
	literals []E
	index    map[E]int64
	ins      []instr
	err      error
}

// NewBuilder returns a new Builder.
func NewBuilder[E kind.Elem]() *Builder[E] {
	return &Builder[E]{}
}

// Write overwrites the element at index dst with v.
func (b *Builder[E]) Write(v any, dst int64) *Builder[E] {
	if lit, ok := b.literal(OpWrite, v); ok {
		b.add(instr{OpWrite, lit, dst})
	}
	return b
}

// WriteRef overwrites the element at index dst with the element at index
// from. The value written is the one the input had at from, even if an
// earlier instruction of the same script overwrote or erased it.
func (b *Builder[E]) WriteRef(from, dst int64) *Builder[E] {
	return b.add(instr{OpWriteRef, from, dst})
}

// Prepend inserts v at the front.
func (b *Builder[E]) Prepend(v any) *Builder[E] {
	if lit, ok := b.literal(OpPrepend, v); ok {
		b.add(instr{op: OpPrepend, a1: lit})
	}
	return b
}

// PrependRef inserts the element at index from at the front.
func (b *Builder[E]) PrependRef(from int64) *Builder[E] {
	return b.add(instr{op: OpPrependRef, a1: from})
}

// Append inserts v at the back.
func (b *Builder[E]) Append(v any) *Builder[E] {
	if lit, ok := b.literal(OpAppend, v); ok {
		b.add(instr{op: OpAppend, a1: lit})
	}
	return b
}

// AppendRef inserts the element at index from at the back.
func (b *Builder[E]) AppendRef(from int64) *Builder[E] {
	return b.add(instr{op: OpAppendRef, a1: from})
}

// Insert inserts v just before the element at index dst, after anything
// inserted there before. A dst equal to the length of the input, or EndIndex,
// inserts at the back like Append.
func (b *Builder[E]) Insert(v any, dst int64) *Builder[E] {
	if lit, ok := b.literal(OpInsert, v); ok {
		b.add(instr{OpInsert, lit, dst})
	}
	return b
}

// InsertRef inserts the element at index from just before the element at
// index dst, like Insert.
func (b *Builder[E]) InsertRef(from, dst int64) *Builder[E] {
	return b.add(instr{OpInsertRef, from, dst})
}

// EraseRef erases the element at index i.
func (b *Builder[E]) EraseRef(i int64) *Builder[E] {
	return b.add(instr{op: OpEraseRef, a1: i})
}

// MinSize pads the result to at least n elements, with fill if given or the
// default value of E otherwise.
func (b *Builder[E]) MinSize(n int64, fill ...any) *Builder[E] {
	return b.size(OpMinSize, OpMinSizeFill, n, fill)
}

// MaxSize truncates the result to at most n elements.
func (b *Builder[E]) MaxSize(n int64) *Builder[E] {
	return b.size(OpMaxSize, OpMaxSize, n, nil)
}

// SetSize pads or truncates the result to exactly n elements, padding with
// fill if given or the default value of E otherwise.
func (b *Builder[E]) SetSize(n int64, fill ...any) *Builder[E] {
	return b.size(OpSetSize, OpSetSizeFill, n, fill)
}

// Size instructions are applied after all the others, in the order MinSize,
// MaxSize, SetSize. A later call replaces an earlier one of the same kind.
func (b *Builder[E]) size(op, fillOp Op, n int64, fill []any) *Builder[E] {
	if b.err != nil {
		return b
	}
	if n < 0 {
		b.err = errs.EditBuild{Op: op.String(),
			Err: errs.OutOfRange{What: "size", Valid: "non-negative", Actual: strconv.FormatInt(n, 10)}}
		return b
	}
	if limit := maxLen[E](); op != OpMaxSize && n > limit {
		b.err = errs.EditBuild{Op: op.String(),
			Err: errs.OutOfRange{What: "size", ValidLow: 0, ValidHigh: int(limit), Actual: strconv.FormatInt(n, 10)}}
		return b
	}
	in := instr{op: op, a1: n}
	switch len(fill) {
	case 0:
	case 1:
		lit, ok := b.literal(op, fill[0])
		if !ok {
			return b
		}
		in = instr{fillOp, n, lit}
	default:
		b.err = errs.EditBuild{Op: op.String(), Err: errs.Value{What: "fill",
			Valid: "at most one value", Actual: strconv.Itoa(len(fill)) + " values"}}
		return b
	}
	class := op.sizeClass()
	kept := b.ins[:0]
	for _, old := range b.ins {
		if old.op.sizeClass() != class {
			kept = append(kept, old)
		}
	}
	b.ins = append(kept, in)
	return b
}

func (b *Builder[E]) add(in instr) *Builder[E] {
	if b.err == nil {
		b.ins = append(b.ins, in)
	}
	return b
}

// literal converts v and returns its index in the literal table, adding it if
// needed.
func (b *Builder[E]) literal(op Op, v any) (int64, bool) {
	if b.err != nil {
		return 0, false
	}
	e, err := vt.ConvertLiteral[E](v)
	if err != nil {
		b.err = errs.EditBuild{Op: op.String(), Err: err}
		return 0, false
	}
	if i, ok := b.index[e]; ok {
		return i, true
	}
	if b.index == nil {
		b.index = map[E]int64{}
	}
	i := int64(len(b.literals))
	b.index[e] = i
	b.literals = append(b.literals, e)
	return i, true
}

// Err returns the first error encountered since the last FinalizeAndReset.
func (b *Builder[E]) Err() error { return b.err }

// FinalizeAndReset returns the script built so far, or the first error
// encountered, and resets the builder.
func (b *Builder[E]) FinalizeAndReset() (Script[E], error) {
	literals, ins, err := b.literals, b.ins, b.err
	*b = Builder[E]{}
	if err != nil {
		return Script[E]{}, err
	}
	if len(ins) == 0 {
		return Script[E]{}, nil
	}
	return Script[E]{literals, [][]instr{ins}}, nil
}
