package store

import (
	"path/filepath"

	"src.vt.sh/pkg/must"
	"src.vt.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file, which is closed
// and removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	st := must.OK1(NewStore(filepath.Join(testutil.TempDir(c), "db")))
	c.Cleanup(func() { st.Close() })
	return st
}
