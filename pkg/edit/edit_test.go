package edit

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"pgregory.net/rapid"
	"src.vt.sh/pkg/logutil"
	. "src.vt.sh/pkg/tt"
	"src.vt.sh/pkg/vt"
	"src.vt.sh/pkg/vt/errs"
)

func ints(vs ...int32) Edit[int32] { return Dense(vt.Of(vs...)) }

func repeat(v int32, n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// over returns the result of composing e over the dense array xs.
func over(e Edit[int32], xs ...int32) []int32 {
	a, ok := e.ComposeOver(ints(xs...)).DenseArray()
	if !ok {
		panic("composing over a dense array gave a script")
	}
	return a.Values()
}

func mustBuild(s Script[int32], err error) Script[int32] {
	if err != nil {
		panic(err)
	}
	return s
}

func TestIdentity(t *testing.T) {
	var ident Edit[int32]
	one23 := ints(1, 2, 3)

	if !ident.ComposeOver(ident).IsIdentity() {
		t.Errorf("identity over identity is not identity")
	}
	Test(t, Fn("ComposeOver", ident.ComposeOver), Table{
		Args(ident).Rets(ident),
		Args(ints()).Rets(ints()),
		Args(one23).Rets(one23),
	})
	if ident.Hash() != (Edit[int32]{}).Hash() {
		t.Errorf("identity edits hash differently")
	}
	if ints().Hash() != Dense(vt.New[int32](0)).Hash() {
		t.Errorf("empty dense edits hash differently")
	}
	if one23.Hash() != ints(1, 2, 3).Hash() {
		t.Errorf("equal dense edits hash differently")
	}
	if ident.Equal(ints()) || ints().Equal(ident) {
		t.Errorf("identity equals empty dense edit")
	}
	if s := mustBuild(NewBuilder[int32]().FinalizeAndReset()); !s.Edit().Equal(ident) {
		t.Errorf("empty builder gives %v", s)
	}
}

func TestBuilderAndComposition(t *testing.T) {
	b := NewBuilder[int32]()
	zeroNine := mustBuild(b.Prepend(0).Append(9).FinalizeAndReset()).Edit()

	zero09Nine := zeroNine.ComposeOver(zeroNine)

	mixAndTrim := mustBuild(b.
		WriteRef(-1, 2).
		WriteRef(0, 4).
		EraseRef(-1).
		EraseRef(0).
		FinalizeAndReset()).Edit()
	zeroNineMixAndTrim := mixAndTrim.ComposeOver(zeroNine)

	minSize10 := mustBuild(b.MinSize(10).FinalizeAndReset()).Edit()
	minSize10Fill9 := mustBuild(b.MinSize(10, 9).FinalizeAndReset()).Edit()
	maxSize15 := mustBuild(b.MaxSize(15).FinalizeAndReset()).Edit()
	size10to15 := maxSize15.ComposeOver(minSize10)
	size7 := mustBuild(b.SetSize(7).FinalizeAndReset()).Edit()
	size7Fill3 := mustBuild(b.SetSize(7, 3).FinalizeAndReset()).Edit()

	Test(t, Fn("over", over), Table{
		Args(zeroNine).Rets([]int32{0, 9}),
		Args(zeroNine, int32(5)).Rets([]int32{0, 5, 9}),

		Args(zero09Nine).Rets([]int32{0, 0, 9, 9}),
		Args(zero09Nine, int32(3), int32(4), int32(5)).Rets([]int32{0, 0, 3, 4, 5, 9, 9}),

		Args(mixAndTrim, int32(0), int32(0), int32(3), int32(4), int32(5), int32(9), int32(9)).
			Rets([]int32{0, 9, 4, 0, 9}),
		// Out-of-range references are ignored.
		Args(mixAndTrim, int32(4), int32(5), int32(6), int32(7)).Rets([]int32{5, 7}),

		Args(zeroNineMixAndTrim, int32(1), int32(2), int32(3), int32(4), int32(5), int32(6), int32(7)).
			Rets([]int32{1, 9, 3, 0, 5, 6, 7}),
		Args(zeroNineMixAndTrim, int32(4), int32(5)).Rets([]int32{4, 9}),
	})

	Test(t, Fn("over", func(e Edit[int32], xs []int32) []int32 { return over(e, xs...) }), Table{
		Args(minSize10, []int32{}).Rets(repeat(0, 10)),
		Args(minSize10, repeat(7, 15)).Rets(repeat(7, 15)),
		Args(minSize10Fill9, []int32{}).Rets(repeat(9, 10)),
		Args(minSize10Fill9, repeat(7, 15)).Rets(repeat(7, 15)),
		Args(maxSize15, []int32{}).Rets([]int32{}),
		Args(maxSize15, repeat(2, 20)).Rets(repeat(2, 15)),

		Args(size10to15, repeat(1, 7)).Rets([]int32{1, 1, 1, 1, 1, 1, 1, 0, 0, 0}),
		Args(size10to15, repeat(2, 20)).Rets(repeat(2, 15)),
		Args(size10to15, repeat(3, 13)).Rets(repeat(3, 13)),

		Args(size7, repeat(1, 7)).Rets(repeat(1, 7)),
		Args(size7, []int32{}).Rets(repeat(0, 7)),
		Args(size7, repeat(9, 27)).Rets(repeat(9, 7)),
		Args(size7Fill3, repeat(1, 7)).Rets(repeat(1, 7)),
		Args(size7Fill3, []int32{}).Rets(repeat(3, 7)),
		Args(size7Fill3, repeat(9, 27)).Rets(repeat(9, 7)),
	})
}

func TestApply_MoreOps(t *testing.T) {
	b := NewBuilder[int32]()
	build := func(b *Builder[int32]) Edit[int32] { return mustBuild(b.FinalizeAndReset()).Edit() }
	Test(t, Fn("over", func(e Edit[int32], xs []int32) []int32 { return over(e, xs...) }), Table{
		Args(build(b.Write(7, 1)), []int32{1, 2, 3}).Rets([]int32{1, 7, 3}),
		Args(build(b.Write(7, -1)), []int32{1, 2, 3}).Rets([]int32{1, 2, 7}),
		Args(build(b.Write(7, 3)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		Args(build(b.Write(7, -4)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		Args(build(b.PrependRef(-1).AppendRef(0)), []int32{1, 2, 3}).Rets([]int32{3, 1, 2, 3, 1}),
		Args(build(b.PrependRef(3).AppendRef(-4)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		// Prepends stack up at the front.
		Args(build(b.Prepend(1).Prepend(2)), []int32{}).Rets([]int32{2, 1}),
		// References resolve against the input, not the edited sequence.
		Args(build(b.Prepend(0).EraseRef(0)), []int32{1, 2}).Rets([]int32{0, 2}),
		Args(build(b.WriteRef(0, 1).WriteRef(1, 0)), []int32{1, 2}).Rets([]int32{2, 1}),
		// Writes to erased elements are no-ops.
		Args(build(b.EraseRef(1).Write(5, 1)), []int32{1, 2, 3}).Rets([]int32{1, 3}),
		Args(build(b.EraseRef(1).EraseRef(1)), []int32{1, 2, 3}).Rets([]int32{1, 3}),
		// Size instructions apply last, in the order min, max, set.
		Args(build(b.SetSize(2).Append(9)), []int32{1, 2, 3}).Rets([]int32{1, 2}),
		Args(build(b.MaxSize(2).MinSize(4)), []int32{}).Rets([]int32{0, 0}),
		Args(build(b.MinSize(4, 5).MaxSize(6)), []int32{1}).Rets([]int32{1, 5, 5, 5}),
		// A repeated size instruction replaces the earlier one.
		Args(build(b.MinSize(10).MinSize(3)), []int32{}).Rets([]int32{0, 0, 0}),
		Args(build(b.SetSize(1).MaxSize(5).SetSize(4, 8)), []int32{1}).Rets([]int32{1, 8, 8, 8}),
		// WriteRef reads the input, so chained copies do not cascade.
		Args(build(b.WriteRef(0, 1).WriteRef(1, 2)), []int32{1, 2, 3}).Rets([]int32{1, 1, 2}),
	})
}

func TestApply_Insert(t *testing.T) {
	b := NewBuilder[int32]()
	build := func(b *Builder[int32]) Edit[int32] { return mustBuild(b.FinalizeAndReset()).Edit() }
	Test(t, Fn("over", func(e Edit[int32], xs []int32) []int32 { return over(e, xs...) }), Table{
		Args(build(b.Insert(9, 1)), []int32{1, 2, 3}).Rets([]int32{1, 9, 2, 3}),
		Args(build(b.Insert(9, -1)), []int32{1, 2, 3}).Rets([]int32{1, 2, 9, 3}),
		Args(build(b.Insert(9, 0)), []int32{}).Rets([]int32{9}),
		// Inserting at the length or at EndIndex appends.
		Args(build(b.Insert(9, 3)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3, 9}),
		Args(build(b.Insert(9, EndIndex)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3, 9}),
		Args(build(b.Append(7).Insert(8, EndIndex).Append(9)), []int32{1}).Rets([]int32{1, 7, 8, 9}),
		// Out-of-range indices are ignored.
		Args(build(b.Insert(9, 4)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		Args(build(b.Insert(9, -4)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		Args(build(b.InsertRef(3, 0)), []int32{1, 2, 3}).Rets([]int32{1, 2, 3}),
		// Later inserts at the same index go after earlier ones.
		Args(build(b.Insert(7, 1).Insert(8, 1)), []int32{1, 2, 3}).Rets([]int32{1, 7, 8, 2, 3}),
		Args(build(b.InsertRef(0, 2)), []int32{1, 2, 3}).Rets([]int32{1, 2, 1, 3}),
		Args(build(b.InsertRef(-1, 0)), []int32{1, 2, 3}).Rets([]int32{3, 1, 2, 3}),
		// An insert survives the erasure of the element it precedes.
		Args(build(b.EraseRef(1).Insert(9, 1)), []int32{1, 2, 3}).Rets([]int32{1, 9, 3}),
		Args(build(b.Insert(9, 1).EraseRef(1)), []int32{1, 2, 3}).Rets([]int32{1, 9, 3}),
		// Inserting before the first element keeps prepends in front.
		Args(build(b.Insert(9, 0).Prepend(0)), []int32{1, 2}).Rets([]int32{0, 9, 1, 2}),
		// Writes address input elements, not inserted ones.
		Args(build(b.Insert(9, 1).Write(5, 1)), []int32{1, 2, 3}).Rets([]int32{1, 9, 5, 3}),
		Args(build(b.Insert(9, 0).SetSize(2)), []int32{1, 2, 3}).Rets([]int32{9, 1}),
	})
}

func TestComposeOver_InsertStagesDoNotFuse(t *testing.T) {
	b := NewBuilder[int32]()
	weak := mustBuild(b.Append(1).FinalizeAndReset())
	strong := mustBuild(b.Insert(9, 0).FinalizeAndReset())
	composed := strong.ComposeOverScript(weak)
	if composed.Stages() != 2 {
		t.Errorf("composed script has %d stages, want 2", composed.Stages())
	}
	if got := composed.Edit().String(); got != "edit[append 1 | insert 9 0]" {
		t.Errorf("composed script is %q", got)
	}
	if got := over(composed.Edit()); len(got) != 2 || got[0] != 9 || got[1] != 1 {
		t.Errorf("composed output is %v, want [9 1]", got)
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	a := vt.Of[int32](1, 2, 3)
	s := mustBuild(NewBuilder[int32]().Write(0, 0).EraseRef(1).FinalizeAndReset())
	s.Apply(a)
	if got := a.Values(); got[0] != 1 || len(got) != 3 {
		t.Errorf("Apply modified its input: %v", got)
	}
	if s.Apply(nil).Len() != 0 {
		t.Errorf("Apply(nil) is not empty")
	}
}

var (
	errEditBuild = ErrorAs(new(errs.EditBuild))
	errOverflow  = ErrorAs(new(errs.Overflow))
	errType      = ErrorAs(new(errs.Type))
	errRange     = ErrorAs(new(errs.OutOfRange))
	errValue     = ErrorAs(new(errs.Value))
	errConstruct = ErrorAs(new(errs.Construction))
)

func TestBuilder_Errors(t *testing.T) {
	finalize := func(b *Builder[int32]) error {
		_, err := b.FinalizeAndReset()
		return err
	}
	b := NewBuilder[int32]
	Test(t, Fn("FinalizeAndReset", finalize), Table{
		Args(b().Prepend("x")).Rets(errEditBuild),
		Args(b().Append(1.5)).Rets(errType),
		Args(b().Write(int64(1)<<40, 0)).Rets(errOverflow),
		Args(b().MinSize(3, "x")).Rets(errType),
		Args(b().SetSize(-1)).Rets(errRange),
		Args(b().MaxSize(-1)).Rets(errEditBuild),
		Args(b().SetSize(1, 2, 3)).Rets(errValue),
		Args(b().Insert("x", 0)).Rets(errEditBuild),
		// Sizes that could never be allocated are rejected.
		Args(b().SetSize(1 << 62)).Rets(errRange),
		Args(b().MinSize(1 << 62, 0)).Rets(errRange),
		Args(b().MaxSize(1 << 62)).Rets(nil),
		// Calls after a failure are ignored.
		Args(b().Prepend("x").Append(1)).Rets(errType),
		Args(b().Append(1)).Rets(nil),
	})
}

func TestBuilder_Reset(t *testing.T) {
	b := NewBuilder[int32]()
	b.Prepend("x")
	if b.Err() == nil {
		t.Fatalf("no error after bad literal")
	}
	b.FinalizeAndReset()
	s, err := b.Append(1).FinalizeAndReset()
	if err != nil {
		t.Fatalf("error after reset: %v", err)
	}
	if got := over(s.Edit(), 0); len(got) != 2 || got[1] != 1 {
		t.Errorf("edit built after reset gives %v", got)
	}
}

func TestBuilder_DeduplicatesLiterals(t *testing.T) {
	s := mustBuild(NewBuilder[int32]().Prepend(0).Append(0).Write(0, 2).SetSize(5, 1).FinalizeAndReset())
	if len(s.literals) != 2 {
		t.Errorf("got %d literals, want 2", len(s.literals))
	}
}

func TestComposeOver_Stages(t *testing.T) {
	b := NewBuilder[int32]()
	zeroNine := mustBuild(b.Prepend(0).Append(9).FinalizeAndReset())
	mixAndTrim := mustBuild(b.WriteRef(-1, 2).EraseRef(0).FinalizeAndReset())
	minSize := mustBuild(b.MinSize(10).FinalizeAndReset())
	maxSize := mustBuild(b.MaxSize(15).FinalizeAndReset())

	Test(t, Fn("Stages", Script[int32].Stages), Table{
		Args(zeroNine.ComposeOverScript(zeroNine)).Rets(1),
		Args(maxSize.ComposeOverScript(zeroNine)).Rets(1),
		Args(zeroNine.ComposeOverScript(mixAndTrim)).Rets(1),
		Args(mixAndTrim.ComposeOverScript(zeroNine)).Rets(2),
		Args(maxSize.ComposeOverScript(minSize)).Rets(2),
		Args(zeroNine.ComposeOverScript(Script[int32]{})).Rets(1),
	})
}

func TestComposeOver_DenseIsStrongest(t *testing.T) {
	s := mustBuild(NewBuilder[int32]().Append(1).FinalizeAndReset()).Edit()
	d := ints(5, 6)
	if got := d.ComposeOver(s); !got.Equal(d) {
		t.Errorf("dense over script -> %v", got)
	}
	if got := d.ComposeOver(ints(1)); !got.Equal(d) {
		t.Errorf("dense over dense -> %v", got)
	}
	if got := over(s.ComposeOver(d)); len(got) != 3 || got[2] != 1 {
		t.Errorf("script over dense -> %v", got)
	}
}

// drawScript draws a random script over int32 arrays.
func drawScript(t *rapid.T, label string) Script[int32] {
	b := NewBuilder[int32]()
	idx := rapid.Int64Range(-6, 6)
	lit := rapid.Int32Range(0, 9)
	size := rapid.Int64Range(0, 8)
	at := rapid.OneOf(idx, rapid.Just(EndIndex))
	for i, n := 0, rapid.IntRange(0, 6).Draw(t, label+" length"); i < n; i++ {
		switch rapid.IntRange(0, 12).Draw(t, label+" op") {
		case 0:
			b.Write(lit.Draw(t, "literal"), idx.Draw(t, "dst"))
		case 1:
			b.WriteRef(idx.Draw(t, "from"), idx.Draw(t, "dst"))
		case 2:
			b.Prepend(lit.Draw(t, "literal"))
		case 3:
			b.PrependRef(idx.Draw(t, "from"))
		case 4:
			b.Append(lit.Draw(t, "literal"))
		case 5:
			b.AppendRef(idx.Draw(t, "from"))
		case 6:
			b.EraseRef(idx.Draw(t, "index"))
		case 7:
			b.MinSize(size.Draw(t, "size"), lit.Draw(t, "fill"))
		case 8:
			b.MaxSize(size.Draw(t, "size"))
		case 9:
			b.SetSize(size.Draw(t, "size"))
		case 10:
			b.SetSize(size.Draw(t, "size"), lit.Draw(t, "fill"))
		case 11:
			b.Insert(lit.Draw(t, "literal"), at.Draw(t, "dst"))
		case 12:
			b.InsertRef(idx.Draw(t, "from"), at.Draw(t, "dst"))
		}
	}
	s, err := b.FinalizeAndReset()
	if err != nil {
		t.Fatalf("building %s: %v", label, err)
	}
	return s
}

func TestComposeOver_Associative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawScript(t, "a").Edit()
		b := drawScript(t, "b").Edit()
		c := drawScript(t, "c").Edit()
		x := ints(rapid.SliceOfN(rapid.Int32Range(10, 99), 0, 8).Draw(t, "x")...)

		ab := a.ComposeOver(b)
		if got, want := ab.ComposeOver(x), a.ComposeOver(b.ComposeOver(x)); !got.Equal(want) {
			t.Fatalf("(%v . %v) . %v = %v, but %v . (%v . %v) = %v", a, b, x, got, a, b, x, want)
		}
		left := ab.ComposeOver(c).ComposeOver(x)
		right := a.ComposeOver(b.ComposeOver(c)).ComposeOver(x)
		if !left.Equal(right) {
			t.Fatalf("((a . b) . c) . x = %v, but (a . (b . c)) . x = %v", left, right)
		}
		var ident Edit[int32]
		if got, want := ident.ComposeOver(ab).ComposeOver(x), ab.ComposeOver(x); !got.Equal(want) {
			t.Fatalf("identity on the left changes the result: %v vs %v", got, want)
		}
		if got, want := ab.ComposeOver(ident).ComposeOver(x), ab.ComposeOver(x); !got.Equal(want) {
			t.Fatalf("identity on the right changes the result: %v vs %v", got, want)
		}
	})
}

func TestOptimize_PreservesResult(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := drawScript(t, "a").Edit().ComposeOver(drawScript(t, "b").Edit()).ComposeOver(drawScript(t, "c").Edit())
		x := ints(rapid.SliceOfN(rapid.Int32Range(10, 99), 0, 8).Draw(t, "x")...)
		opt := Optimize(e)
		if got, want := opt.ComposeOver(x), e.ComposeOver(x); !got.Equal(want) {
			t.Fatalf("Optimize(%v) = %v gives %v, want %v", e, opt, got, want)
		}
		s, _ := e.Script()
		o, _ := opt.Script()
		if o.Stages() > s.Stages() || len(o.literals) > len(s.literals) {
			t.Fatalf("Optimize(%v) = %v is larger", e, opt)
		}
	})
}

func TestOptimize(t *testing.T) {
	b := NewBuilder[int32]()
	// The fill literal 7 is left unreferenced by the second MinSize.
	s := mustBuild(b.MinSize(3, 7).MinSize(4).Append(1).FinalizeAndReset())
	o, _ := Optimize(s.Edit()).Script()
	if len(o.literals) != 1 || o.literals[0] != 1 {
		t.Errorf("Optimize kept literals %v", o.literals)
	}

	// Rebuilt from data, a script can keep overridden sizes and empty stages.
	e, err := FromSerializationData(vt.Of[int32](5, 5), []int64{
		header(OpPrepend, 2), 0, 1,
		header(opStage, 0),
		header(opStage, 0),
		header(OpMaxSize, 2), 9, 3,
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	o, _ = Optimize(e).Script()
	want := Script[int32]{[]int32{5}, [][]instr{{{OpPrepend, 0, 0}, {OpPrepend, 0, 0}, {OpMaxSize, 3, 0}}}}
	if !o.Equal(want) {
		t.Errorf("Optimize -> %v, want %v", o, want)
	}
	if got := over(Optimize(e), 1, 2, 3, 4); len(got) != 3 || got[0] != 5 || got[2] != 1 {
		t.Errorf("optimized edit gives %v", got)
	}

	d := ints(1)
	if got := Optimize(d); !got.Equal(d) {
		t.Errorf("Optimize(dense) -> %v", got)
	}
}

func TestString(t *testing.T) {
	b := NewBuilder[int32]()
	zeroNine := mustBuild(b.Prepend(0).Append(9).FinalizeAndReset())
	sizes := mustBuild(b.MaxSize(15).FinalizeAndReset()).ComposeOverScript(
		mustBuild(b.MinSize(10, 2).WriteRef(-1, 0).FinalizeAndReset()))
	Test(t, Fn("String", Edit[int32].String), Table{
		Args(Edit[int32]{}).Rets("edit[]"),
		Args(zeroNine.Edit()).Rets("edit[prepend 0; append 9]"),
		Args(mustBuild(b.Insert(9, EndIndex).InsertRef(-1, 2).FinalizeAndReset()).Edit()).
			Rets("edit[insert 9 end; insert-ref -1 2]"),
		Args(sizes.Edit()).Rets("edit[min-size 10 2; write-ref -1 0 | max-size 15]"),
		Args(ints(1, 2)).Rets("int[1 2]"),
	})
}

func TestApply_LogsOutOfRangeReferences(t *testing.T) {
	var buf bytes.Buffer
	logutil.SetOutput(&buf)
	logutil.Enable(logutil.EditBounds, true)
	t.Cleanup(func() {
		logutil.Enable(logutil.EditBounds, false)
		logutil.SetOutput(io.Discard)
	})

	s := mustBuild(NewBuilder[int32]().WriteRef(0, 4).EraseRef(-1).FinalizeAndReset())
	s.Apply(vt.Of[int32](4, 5, 6, 7))
	if !strings.Contains(buf.String(), "write-ref: index 4 out of range for 4 elements") {
		t.Errorf("log output %q does not mention the out-of-range write", buf.String())
	}
	if strings.Contains(buf.String(), "erase-ref") {
		t.Errorf("log output %q mentions an in-range erase", buf.String())
	}
}
