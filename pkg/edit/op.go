package edit

import (
	"fmt"
	"math"
)

// Op is the operation of one instruction of an edit.
type Op uint8

// Operations. The values are part of the serialization format.
const (
	// Write literal a1 over the element originally at index a2.
	OpWrite Op = iota
	// Write the element originally at index a1 over the element originally at
	// index a2.
	OpWriteRef
	// Insert literal a1 at the front.
	OpPrepend
	// Insert the element originally at index a1 at the front.
	OpPrependRef
	// Insert literal a1 at the back.
	OpAppend
	// Insert the element originally at index a1 at the back.
	OpAppendRef
	// Erase the element originally at index a1.
	OpEraseRef
	// Pad to at least a1 elements with the default value.
	OpMinSize
	// Pad to at least a1 elements with literal a2.
	OpMinSizeFill
	// Truncate to at most a1 elements.
	OpMaxSize
	// Pad or truncate to exactly a1 elements, padding with the default value.
	OpSetSize
	// Pad or truncate to exactly a1 elements, padding with literal a2.
	OpSetSizeFill
	// Insert literal a1 before the element originally at index a2, or at the
	// back if a2 is the length of the input or EndIndex.
	OpInsert
	// Insert the element originally at index a1 before the element originally
	// at index a2, or at the back if a2 is the length of the input or
	// EndIndex.
	OpInsertRef
	numOps
)

// EndIndex is an insertion index that always means the back of the input,
// whatever its length.
const EndIndex int64 = math.MinInt64

// opStage separates stages in serialized instructions. It is never the op of
// an instruction.
const opStage Op = 0xff

var opNames = [...]string{
	OpWrite:       "write",
	OpWriteRef:    "write-ref",
	OpPrepend:     "prepend",
	OpPrependRef:  "prepend-ref",
	OpAppend:      "append",
	OpAppendRef:   "append-ref",
	OpEraseRef:    "erase-ref",
	OpMinSize:     "min-size",
	OpMinSizeFill: "min-size",
	OpMaxSize:     "max-size",
	OpSetSize:     "set-size",
	OpSetSizeFill: "set-size",
	OpInsert:      "insert",
	OpInsertRef:   "insert-ref",
}

func (op Op) String() string {
	if op < numOps {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

func (op Op) valid() bool { return op < numOps }

// arity returns the number of arguments of op.
func (op Op) arity() int {
	switch op {
	case OpWrite, OpWriteRef, OpMinSizeFill, OpSetSizeFill, OpInsert, OpInsertRef:
		return 2
	}
	return 1
}

// literalArg returns which argument of op is a literal index, or 0 if none is.
func (op Op) literalArg() int {
	switch op {
	case OpWrite, OpPrepend, OpAppend, OpInsert:
		return 1
	case OpMinSizeFill, OpSetSizeFill:
		return 2
	}
	return 0
}

// isRef reports whether op refers to elements of its input by index.
func (op Op) isRef() bool {
	switch op {
	case OpWrite, OpWriteRef, OpPrependRef, OpAppendRef, OpEraseRef, OpInsert, OpInsertRef:
		return true
	}
	return false
}

type sizeClass uint8

const (
	noSize sizeClass = iota
	minSize
	maxSize
	setSize
)

func (op Op) sizeClass() sizeClass {
	switch op {
	case OpMinSize, OpMinSizeFill:
		return minSize
	case OpMaxSize:
		return maxSize
	case OpSetSize, OpSetSizeFill:
		return setSize
	}
	return noSize
}

// instr is one instruction. Arguments not used by the op are zero.
type instr struct {
	op     Op
	a1, a2 int64
}

func (in instr) literal() (int64, bool) {
	switch in.op.literalArg() {
	case 1:
		return in.a1, true
	case 2:
		return in.a2, true
	}
	return 0, false
}

func (in *instr) setLiteral(i int64) {
	switch in.op.literalArg() {
	case 1:
		in.a1 = i
	case 2:
		in.a2 = i
	}
}
