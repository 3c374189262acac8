// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.vt.sh/pkg/gf"
	"src.vt.sh/pkg/store/storedefs"
	"src.vt.sh/pkg/vt"
)

// TestArrays tests the array functionality of a Store.
func TestArrays(t *testing.T, store storedefs.Store) {
	arrays := map[string]vt.Value{
		"ints":    vt.Of[int32](1, -2, 3),
		"empty":   vt.New[float64](0),
		"strings": vt.Of("a", "b\n\"c\""),
		"vecs":    vt.Of(gf.Vec3f{1, 0.5, -2}),
	}
	for name, v := range arrays {
		if err := store.PutArray(name, v); err != nil {
			t.Errorf("PutArray(%q) -> error %v", name, err)
		}
	}
	for name, want := range arrays {
		got, err := store.Array(name)
		if err != nil {
			t.Errorf("Array(%q) -> error %v", name, err)
		} else if !got.Equal(want) {
			t.Errorf("Array(%q) -> %s, want %s", name, got.Repr(), want.Repr())
		}
	}

	names, err := store.ArrayNames()
	wantNames := []string{"empty", "ints", "strings", "vecs"}
	if err != nil || !cmp.Equal(names, wantNames) {
		t.Errorf("ArrayNames() -> (%v, %v), want (%v, nil)", names, err, wantNames)
	}

	replacement := vt.Of[uint8](7)
	if err := store.PutArray("ints", replacement); err != nil {
		t.Errorf("PutArray replacing -> error %v", err)
	}
	if got, err := store.Array("ints"); err != nil || !got.Equal(replacement) {
		t.Errorf("Array after replacing -> (%v, %v), want (%v, nil)", got, err, replacement)
	}

	if err := store.DelArray("ints"); err != nil {
		t.Errorf("DelArray -> error %v", err)
	}
	if _, err := store.Array("ints"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("Array of deleted array -> error %v, want ErrNotFound", err)
	}
	if err := store.DelArray("ints"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("DelArray of deleted array -> error %v, want ErrNotFound", err)
	}
}

// TestEditRecords tests the edit functionality of a Store.
func TestEditRecords(t *testing.T, store storedefs.Store) {
	records := map[string]storedefs.EditRecord{
		"dense":  {Values: "int[1 2]", Dense: true},
		"script": {Values: "double[0.5]", Indexes: []int64{1 << 56, 0, -1, 1 << 62}},
		"empty":  {Values: "string[]"},
	}
	for name, r := range records {
		if err := store.PutEditRecord(name, r); err != nil {
			t.Errorf("PutEditRecord(%q) -> error %v", name, err)
		}
	}
	for name, want := range records {
		got, err := store.EditRecord(name)
		if err != nil {
			t.Errorf("EditRecord(%q) -> error %v", name, err)
		} else if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("EditRecord(%q) (-want +got):\n%s", name, diff)
		}
	}

	names, err := store.EditNames()
	wantNames := []string{"dense", "empty", "script"}
	if err != nil || !cmp.Equal(names, wantNames) {
		t.Errorf("EditNames() -> (%v, %v), want (%v, nil)", names, err, wantNames)
	}

	if err := store.DelEdit("dense"); err != nil {
		t.Errorf("DelEdit -> error %v", err)
	}
	if _, err := store.EditRecord("dense"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("EditRecord of deleted edit -> error %v, want ErrNotFound", err)
	}
	if err := store.DelEdit("missing"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("DelEdit of missing edit -> error %v, want ErrNotFound", err)
	}
}
