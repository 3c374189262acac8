// Package edit implements composable edits of arrays.
//
// An Edit is either a dense array, which replaces whatever it is composed
// over, or a Script of instructions that insert, overwrite and erase elements
// by their index in the array the script is applied to, and clamp its size.
// Edits form a monoid under ComposeOver, with the zero Edit as the identity.
//
// References that fall outside the array an edit is applied to are ignored.
// This lets one script be applied to arrays of any length.
package edit

import (
	"src.vt.sh/pkg/hash"
	"src.vt.sh/pkg/kind"
	"src.vt.sh/pkg/vt"
)

// Edit is either a dense array or a Script. The zero value is the identity
// edit.
type Edit[E kind.Elem] struct {
	dense  bool
	array  *vt.Array[E]
	script Script[E]
}

// Dense returns an edit that replaces anything it is composed over with a. A
// nil a is taken as an empty array.
func Dense[E kind.Elem](a *vt.Array[E]) Edit[E] {
	if a == nil {
		a = vt.New[E](0)
	}
	return Edit[E]{dense: true, array: a.Copy()}
}

// IsDense reports whether e is a dense array.
func (e Edit[E]) IsDense() bool { return e.dense }

// IsIdentity reports whether e makes no edits.
func (e Edit[E]) IsIdentity() bool { return !e.dense && e.script.IsIdentity() }

// DenseArray returns the array of a dense edit.
func (e Edit[E]) DenseArray() (*vt.Array[E], bool) {
	if !e.dense {
		return nil, false
	}
	return e.array.Copy(), true
}

// Script returns the script of an edit that is not dense.
func (e Edit[E]) Script() (Script[E], bool) {
	return e.script, !e.dense
}

// ComposeOver returns the edit that applies weaker and then e. A dense e
// composes over anything as itself.
func (e Edit[E]) ComposeOver(weaker Edit[E]) Edit[E] {
	if e.dense {
		return e
	}
	return e.script.ComposeOver(weaker)
}

// Apply applies e to a. A dense e returns its own array.
func (e Edit[E]) Apply(a *vt.Array[E]) *vt.Array[E] {
	if e.dense {
		return e.array.Copy()
	}
	return e.script.Apply(a)
}

// Equal reports whether other is an Edit of the same form with equal contents.
func (e Edit[E]) Equal(other any) bool {
	f, ok := other.(Edit[E])
	if !ok || e.dense != f.dense {
		return false
	}
	if e.dense {
		return e.array.Equal(f.array)
	}
	return e.script.Equal(f.script)
}

// Hash returns a hash consistent with Equal.
func (e Edit[E]) Hash() uint32 {
	if e.dense {
		return hash.DJB(hash.Bool(true), e.array.Hash())
	}
	return hash.DJB(hash.Bool(false), e.script.Hash())
}

func (e Edit[E]) String() string {
	if e.dense {
		return e.array.Repr()
	}
	return e.script.String()
}

// Optimize returns an edit equivalent to e with fewer stages, instructions or
// literals where possible: empty stages are dropped, neighbouring stages are
// fused where that does not change the result, size instructions overridden
// within their stage are dropped, and literals are deduplicated, with
// unreferenced ones removed.
func Optimize[E kind.Elem](e Edit[E]) Edit[E] {
	if e.dense || e.IsIdentity() {
		return e
	}
	s := e.script
	var stages [][]instr
	for _, st := range s.stages {
		st = dropOverriddenSizes(st)
		if len(st) == 0 {
			continue
		}
		if last := len(stages) - 1; last >= 0 && fusable(stages[last], st) {
			stages[last] = append(stages[last], st...)
			continue
		}
		stages = append(stages, st)
	}

	var literals []E
	index := map[E]int64{}
	for _, st := range stages {
		for i := range st {
			lit, ok := st[i].literal()
			if !ok {
				continue
			}
			v := s.literals[lit]
			j, seen := index[v]
			if !seen {
				j = int64(len(literals))
				index[v] = j
				literals = append(literals, v)
			}
			st[i].setLiteral(j)
		}
	}
	return Script[E]{literals, stages}.Edit()
}

// dropOverriddenSizes returns a copy of st without the size instructions that
// are followed by another one of the same class.
func dropOverriddenSizes(st []instr) []instr {
	var last [setSize + 1]int
	for i, in := range st {
		last[in.op.sizeClass()] = i
	}
	out := make([]instr, 0, len(st))
	for i, in := range st {
		if c := in.op.sizeClass(); c == noSize || last[c] == i {
			out = append(out, in)
		}
	}
	return out
}
