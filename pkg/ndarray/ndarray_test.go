package ndarray

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "src.vt.sh/pkg/tt"
)

func TestParseDType(t *testing.T) {
	Test(t, Fn("ParseDType", ParseDType), Table{
		Args("f").Rets(Float32, nil),
		Args("=d").Rets(Float64, nil),
		Args(string(nativeOrderMark)+"e").Rets(Float16, nil),
		Args("?").Rets(Bool, nil),
		Args("Q").Rets(Uint64, nil),
		Args("x").Rets(Invalid, Any),
		Args("").Rets(Invalid, Any),
	})
}

func TestDType_Size(t *testing.T) {
	Test(t, Fn("Size", DType.Size), Table{
		Args(Bool).Rets(1),
		Args(Float16).Rets(2),
		Args(Uint32).Rets(4),
		Args(Float64).Rets(8),
		Args(Invalid).Rets(0),
	})
}

var validateTests = []struct {
	name    string
	d       Descriptor
	wantErr bool
}{
	{"contiguous", Contiguous(make([]byte, 24), Float64, 3), false},
	{"2-D", Contiguous(make([]byte, 24), Float32, 2, 3), false},
	{"too short", Contiguous(make([]byte, 23), Float64, 3), true},
	{"empty", Contiguous(nil, Float64, 0, 4), false},
	{"no dims", Descriptor{DType: Float64}, true},
	{"bad dtype", Descriptor{Data: make([]byte, 8), Shape: []int{1}}, true},
	{"negative extent", Contiguous(nil, Float64, -1), true},
	{"stride count", Descriptor{Data: make([]byte, 8), DType: Uint8, Shape: []int{2}, Strides: []int{1, 1}}, true},
	{"negative stride",
		Descriptor{Data: make([]byte, 24), Offset: 16, DType: Float64, Shape: []int{3}, Strides: []int{-8}}, false},
	{"negative stride before start",
		Descriptor{Data: make([]byte, 24), Offset: 8, DType: Float64, Shape: []int{3}, Strides: []int{-8}}, true},
	{"every fourth",
		Descriptor{Data: make([]byte, 33*4), DType: Float32, Shape: []int{9}, Strides: []int{16}}, false},
}

func TestValidate(t *testing.T) {
	for _, test := range validateTests {
		t.Run(test.name, func(t *testing.T) {
			err := test.d.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("got error %v, want error %v", err, test.wantErr)
			}
		})
	}
}

func TestIsContiguous(t *testing.T) {
	Test(t, Fn("IsContiguous", Descriptor.IsContiguous), Table{
		Args(Contiguous(nil, Float32, 2, 3)).Rets(true),
		Args(Descriptor{DType: Float32, Shape: []int{2, 3}, Strides: []int{12, 4}}).Rets(true),
		Args(Descriptor{DType: Float32, Shape: []int{2, 3}, Strides: []int{24, 4}}).Rets(false),
		Args(Descriptor{DType: Float32, Shape: []int{1, 3}, Strides: []int{99, 4}}).Rets(true),
	})
}

func TestWalk(t *testing.T) {
	var offs []int
	d := Descriptor{Data: make([]byte, 64), Offset: 40, DType: Uint8,
		Shape: []int{2, 3}, Strides: []int{-20, 4}}
	d.Walk(func(off int) { offs = append(offs, off) })
	want := []int{40, 44, 48, 20, 24, 28}
	if diff := cmp.Diff(want, offs); diff != "" {
		t.Errorf("Walk (-want +got):\n%s", diff)
	}

	called := false
	Contiguous(nil, Float64, 0, 3).Walk(func(int) { called = true })
	if called {
		t.Errorf("Walk called f for empty array")
	}
}

func TestFloat64At(t *testing.T) {
	b := make([]byte, 8)
	b[0] = 0xff
	Test(t, Fn("Float64At", DType.Float64At), Table{
		Args(Int8, b, 0).Rets(-1.0),
		Args(Uint8, b, 0).Rets(255.0),
		Args(Bool, b, 0).Rets(1.0),
		Args(Bool, b, 1).Rets(0.0),
	})
}

func TestExported_Release(t *testing.T) {
	n := 0
	e := NewExported(Contiguous(nil, Float64, 0), func() { n++ })
	e.Release()
	e.Release()
	if n != 1 {
		t.Errorf("release called %d times, want 1", n)
	}
}

func TestMapFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data")
	content := []byte{1, 0, 2, 0, 3, 0, 9}
	if err := os.WriteFile(name, content, 0600); err != nil {
		t.Fatal(err)
	}
	m, err := MapFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(content, m.Bytes()); diff != "" {
		t.Errorf("Bytes (-want +got):\n%s", diff)
	}
	d := m.Descriptor(Uint16)
	if d.Len() != 3 || d.Validate() != nil {
		t.Errorf("Descriptor(Uint16) has %d values, Validate -> %v", d.Len(), d.Validate())
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close -> %v", err)
	}
	if m.Bytes() != nil {
		t.Errorf("Bytes after Close is not nil")
	}
}

func TestMapFile_Empty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(name, nil, 0600); err != nil {
		t.Fatal(err)
	}
	m, err := MapFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Bytes()) != 0 {
		t.Errorf("got %d bytes", len(m.Bytes()))
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close -> %v", err)
	}
}

func TestMapFile_NonExistent(t *testing.T) {
	_, err := MapFile(filepath.Join(t.TempDir(), "nope"))
	if !os.IsNotExist(err) {
		t.Errorf("got error %v, want not-exist", err)
	}
}
