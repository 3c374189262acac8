package edit

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"src.vt.sh/pkg/hash"
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/logutil"
	"src.vt.sh/pkg/vt"
)

var logger = logutil.GetLogger("[edit] ")

// Script is an immutable sequence of edit instructions over arrays of kind E,
// built with a Builder or by composing other scripts. The zero value is the
// identity script.
//
// A script is made of stages. Each stage resolves its references against the
// original indices of its own input, which is the output of the previous
// stage.
type Script[E kind.Elem] struct {
	literals []E
	stages   [][]instr
}

// IsIdentity reports whether the script makes no edits.
func (s Script[E]) IsIdentity() bool {
	for _, st := range s.stages {
		if len(st) > 0 {
			return false
		}
	}
	return true
}

// Stages returns the number of stages.
func (s Script[E]) Stages() int { return len(s.stages) }

// Edit returns the script as an Edit.
func (s Script[E]) Edit() Edit[E] { return Edit[E]{script: s} }

// Apply applies the script to a and returns the result. The argument is not
// modified.
func (s Script[E]) Apply(a *vt.Array[E]) *vt.Array[E] {
	if a == nil {
		a = vt.New[E](0)
	}
	if s.IsIdentity() {
		return a.Copy()
	}
	data := a.Values()
	for _, st := range s.stages {
		data = applyStage(st, s.literals, data)
	}
	return vt.FromSlice(data)
}

// ComposeOver returns the edit that applies weaker and then s. If weaker is
// dense, the result is dense.
func (s Script[E]) ComposeOver(weaker Edit[E]) Edit[E] {
	switch {
	case s.IsIdentity():
		return weaker
	case weaker.dense:
		return Dense(s.Apply(weaker.array))
	default:
		return s.ComposeOverScript(weaker.script).Edit()
	}
}

// ComposeOverScript returns the script that applies weaker and then s.
func (s Script[E]) ComposeOverScript(weaker Script[E]) Script[E] {
	if s.IsIdentity() {
		return weaker
	}
	if weaker.IsIdentity() {
		return s
	}
	offset := int64(len(weaker.literals))
	result := Script[E]{
		literals: append(slices.Clip(weaker.literals), s.literals...),
		stages:   slices.Clone(weaker.stages),
	}
	for i, st := range s.stages {
		st = shiftLiterals(st, offset)
		if last := len(result.stages) - 1; i == 0 && last >= 0 && fusable(result.stages[last], st) {
			result.stages[last] = append(slices.Clip(result.stages[last]), st...)
			continue
		}
		result.stages = append(result.stages, st)
	}
	return result
}

// fusable reports whether the stages weak and strong, applied in that order,
// can be replaced by one stage holding the instructions of both. This is the
// case when strong never refers to the elements of its input and nothing
// in weak reshapes its output after the element operations.
func fusable(weak, strong []instr) bool {
	for _, in := range weak {
		if in.op.sizeClass() != noSize {
			return false
		}
	}
	for _, in := range strong {
		if in.op.isRef() {
			return false
		}
	}
	return true
}

func shiftLiterals(st []instr, offset int64) []instr {
	out := slices.Clone(st)
	for i := range out {
		if lit, ok := out[i].literal(); ok {
			out[i].setLiteral(lit + offset)
		}
	}
	return out
}

// applyStage runs the instructions of one stage over src.
//
// Elements of src keep their original index for as long as they are present,
// and inserted elements go to either end or just before an original element.
// So the working sequence is kept as the inserted fronts in reverse, the
// original elements with erasure marks and the elements inserted before each
// of them, and the inserted backs.
func applyStage[E kind.Elem](ins []instr, literals, src []E) []E {
	n := int64(len(src))
	middle := slices.Clone(src)
	erased := make([]bool, n)
	var front, back []E
	var before [][]E
	var sizes [setSize + 1]*instr

	outOfRange := func(op Op, i int64) {
		if logutil.Enabled(logutil.EditBounds) {
			logger.Printf("%s: index %d out of range for %d elements, ignored", op, i, n)
		}
	}
	ref := func(op Op, i int64) (int64, bool) {
		j := i
		if j < 0 {
			j += n
		}
		if 0 <= j && j < n {
			return j, true
		}
		outOfRange(op, i)
		return 0, false
	}
	writable := func(op Op, i int64) (int64, bool) {
		j, ok := ref(op, i)
		return j, ok && !erased[j]
	}
	insert := func(op Op, v E, i int64) {
		j := i
		if j == EndIndex {
			j = n
		} else if j < 0 {
			j += n
		}
		switch {
		case j == n:
			back = append(back, v)
		case 0 <= j && j < n:
			if before == nil {
				before = make([][]E, n)
			}
			before[j] = append(before[j], v)
		default:
			outOfRange(op, i)
		}
	}

	for i := range ins {
		in := &ins[i]
		switch in.op {
		case OpWrite:
			if dst, ok := writable(in.op, in.a2); ok {
				middle[dst] = literals[in.a1]
			}
		case OpWriteRef:
			if from, ok := ref(in.op, in.a1); ok {
				if dst, ok := writable(in.op, in.a2); ok {
					middle[dst] = src[from]
				}
			}
		case OpPrepend:
			front = append(front, literals[in.a1])
		case OpPrependRef:
			if from, ok := ref(in.op, in.a1); ok {
				front = append(front, src[from])
			}
		case OpAppend:
			back = append(back, literals[in.a1])
		case OpAppendRef:
			if from, ok := ref(in.op, in.a1); ok {
				back = append(back, src[from])
			}
		case OpInsert:
			insert(in.op, literals[in.a1], in.a2)
		case OpInsertRef:
			if from, ok := ref(in.op, in.a1); ok {
				insert(in.op, src[from], in.a2)
			}
		case OpEraseRef:
			if j, ok := ref(in.op, in.a1); ok {
				erased[j] = true
			}
		default:
			sizes[in.op.sizeClass()] = in
		}
	}

	out := make([]E, 0, len(front)+len(middle)+len(back))
	for i := len(front) - 1; i >= 0; i-- {
		out = append(out, front[i])
	}
	for i, v := range middle {
		if before != nil {
			out = append(out, before[i]...)
		}
		if !erased[i] {
			out = append(out, v)
		}
	}
	out = append(out, back...)

	if in := sizes[minSize]; in != nil && int64(len(out)) < in.a1 {
		out = resize(out, in.a1, fill(in, literals))
	}
	if in := sizes[maxSize]; in != nil && int64(len(out)) > in.a1 {
		out = out[:in.a1]
	}
	if in := sizes[setSize]; in != nil {
		out = resize(out, in.a1, fill(in, literals))
	}
	return out
}

// maxLen is the largest size that MinSize and SetSize may pad to. Arrays any
// longer cannot be allocated.
func maxLen[E kind.Elem]() int64 {
	return int64(min(uint64(math.MaxInt), 1<<47) / uint64(kind.Of[E]().ElemSize()))
}

func fill[E kind.Elem](in *instr, literals []E) E {
	if in.op == OpMinSizeFill || in.op == OpSetSizeFill {
		return literals[in.a2]
	}
	return kind.Default[E]()
}

func resize[E any](s []E, n int64, fill E) []E {
	if n <= int64(len(s)) {
		return s[:n]
	}
	s = slices.Grow(s, int(n)-len(s))
	for int64(len(s)) < n {
		s = append(s, fill)
	}
	return s
}

// Equal reports whether other is a Script with the same literals and
// instructions.
func (s Script[E]) Equal(other any) bool {
	t, ok := other.(Script[E])
	if !ok {
		return false
	}
	if s.IsIdentity() || t.IsIdentity() {
		return s.IsIdentity() && t.IsIdentity()
	}
	return vt.FromSlice(s.literals).Equal(vt.FromSlice(t.literals)) &&
		slices.EqualFunc(s.stages, t.stages, slices.Equal[[]instr])
}

// Hash returns a hash consistent with Equal.
func (s Script[E]) Hash() uint32 {
	if s.IsIdentity() {
		return hash.DJBInit
	}
	h := hash.DJB(vt.FromSlice(s.literals).Hash(), uint32(len(s.stages)))
	for _, st := range s.stages {
		h = hash.DJBCombine(h, uint32(len(st)))
		for _, in := range st {
			h = hash.DJB(h, uint32(in.op), hash.Int64(in.a1), hash.Int64(in.a2))
		}
	}
	return h
}

// String returns a human-readable form of the script, such as
// "edit[erase-ref 0 | prepend 1]".
func (s Script[E]) String() string {
	var sb strings.Builder
	sb.WriteString("edit[")
	for i, st := range s.stages {
		if i > 0 {
			sb.WriteString(" | ")
		}
		for j, in := range st {
			if j > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(in.op.String())
			sb.WriteByte(' ')
			sb.WriteString(s.formatArgs(in))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (s Script[E]) formatArgs(in instr) string {
	lit := func(i int64) string {
		str := vt.Of(s.literals[i]).String()
		return str[1 : len(str)-1]
	}
	itoa := func(i int64) string { return strconv.FormatInt(i, 10) }
	switch in.op {
	case OpWrite:
		return lit(in.a1) + " " + itoa(in.a2)
	case OpPrepend, OpAppend:
		return lit(in.a1)
	case OpWriteRef:
		return itoa(in.a1) + " " + itoa(in.a2)
	case OpInsert:
		return lit(in.a1) + " " + insertIndex(in.a2)
	case OpInsertRef:
		return itoa(in.a1) + " " + insertIndex(in.a2)
	case OpMinSizeFill, OpSetSizeFill:
		return itoa(in.a1) + " " + lit(in.a2)
	}
	return itoa(in.a1)
}

func insertIndex(i int64) string {
	if i == EndIndex {
		return "end"
	}
	return strconv.FormatInt(i, 10)
}
