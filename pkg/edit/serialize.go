package edit

import (
	"fmt"

	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt"
	"src.vt.sh/pkg/vt/errs"
)

// Instructions are serialized as a sequence of int64 words. A run of
// instructions with the same op is written as a header word holding the
// count of the run in the low 56 bits and the op in the high 8 bits, followed
// by the arguments of each instruction. Stages are separated by a header word
// with op opStage and count 0.
//
// For example, the stage
//
//	write <literal 0> to [2]; write <literal 1> to [4]; erase-ref [9]
//
// is serialized as [2 OpWrite] [0] [2] [1] [4] [1 OpEraseRef] [9].

const countMask = 1<<56 - 1

func header(op Op, count int) int64 {
	return int64(uint64(op)<<56 | uint64(count)&countMask)
}

func splitHeader(w int64) (Op, int64) {
	return Op(uint64(w) >> 56), w & countMask
}

// SerializationData returns the data from which FromSerializationData
// rebuilds e. For a dense edit, values is the array and indexes is nil. For a
// script, values holds its literals and indexes its instructions.
func (e Edit[E]) SerializationData() (values *vt.Array[E], indexes []int64, isDense bool) {
	if e.dense {
		return e.array.Copy(), nil, true
	}
	s := e.script
	if s.IsIdentity() {
		return vt.New[E](0), nil, false
	}
	for i, st := range s.stages {
		if i > 0 {
			indexes = append(indexes, header(opStage, 0))
		}
		for j := 0; j < len(st); {
			op := st[j].op
			k := j
			for k < len(st) && st[k].op == op {
				k++
			}
			indexes = append(indexes, header(op, k-j))
			for _, in := range st[j:k] {
				indexes = append(indexes, in.a1)
				if op.arity() == 2 {
					indexes = append(indexes, in.a2)
				}
			}
			j = k
		}
	}
	return vt.FromSlice(s.literals), indexes, false
}

// FromSerializationData rebuilds an edit from the data returned by
// SerializationData. Malformed data is rejected with an errs.Construction.
func FromSerializationData[E kind.Elem](values *vt.Array[E], indexes []int64, isDense bool) (Edit[E], error) {
	if isDense {
		if len(indexes) > 0 {
			return Edit[E]{}, malformed[E]("dense edit has %d instruction words", len(indexes))
		}
		return Dense(values), nil
	}
	literals := values.Values()
	nlit := int64(len(literals))
	stages := [][]instr{nil}
	for pos := 0; pos < len(indexes); {
		op, count := splitHeader(indexes[pos])
		pos++
		if op == opStage {
			if count != 0 {
				return Edit[E]{}, malformed[E]("stage separator at word %d has count %d", pos-1, count)
			}
			stages = append(stages, nil)
			continue
		}
		if !op.valid() {
			return Edit[E]{}, malformed[E]("word %d has invalid op %d", pos-1, uint8(op))
		}
		arity := op.arity()
		if need := count * int64(arity); int64(len(indexes)-pos) < need {
			return Edit[E]{}, malformed[E]("%d %s instructions at word %d need %d words, but %d remain",
				count, op, pos-1, need, len(indexes)-pos)
		}
		st := &stages[len(stages)-1]
		for ; count > 0; count-- {
			in := instr{op: op, a1: indexes[pos]}
			if arity == 2 {
				in.a2 = indexes[pos+1]
			}
			if lit, ok := in.literal(); ok && (lit < 0 || lit >= nlit) {
				return Edit[E]{}, malformed[E]("literal index %d at word %d out of range for %d literals",
					lit, pos, nlit)
			}
			if op.sizeClass() != noSize && in.a1 < 0 {
				return Edit[E]{}, malformed[E]("negative size %d at word %d", in.a1, pos)
			}
			if limit := maxLen[E](); op.sizeClass() != noSize && op != OpMaxSize && in.a1 > limit {
				return Edit[E]{}, malformed[E]("size %d at word %d exceeds %d", in.a1, pos, limit)
			}
			*st = append(*st, in)
			pos += arity
		}
	}
	s := Script[E]{literals: literals, stages: stages}
	if s.IsIdentity() {
		return Edit[E]{}, nil
	}
	return s.Edit(), nil
}

func malformed[E kind.Elem](format string, args ...any) error {
	return errs.Construction{Kind: kind.Of[E]().Name,
		Reason: "malformed edit data: " + fmt.Sprintf(format, args...)}
}
