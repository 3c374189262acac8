package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.vt.sh/pkg/env"
	"src.vt.sh/pkg/logutil"
	"src.vt.sh/pkg/must"
	"src.vt.sh/pkg/store"
	"src.vt.sh/pkg/testutil"
	"src.vt.sh/pkg/vt"
)

func TestRead(t *testing.T) {
	testutil.Unsetenv(t, env.VT_DEBUG)
	c, err := Read(strings.NewReader(`
store:
  path: /tmp/vt.db
  timeout: 2s
log:
  file: /tmp/vt.log
  debug: [edit-bounds]
`))
	if err != nil {
		t.Fatalf("Read -> error %v", err)
	}
	want := Config{
		Store: Store{Path: "/tmp/vt.db", Timeout: 2 * time.Second},
		Log:   Log{File: "/tmp/vt.log", Debug: []string{"edit-bounds"}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Read (-want +got):\n%s", diff)
	}
}

func TestRead_KeepsDefaults(t *testing.T) {
	testutil.Unsetenv(t, env.VT_DEBUG)
	c, err := Read(strings.NewReader("store:\n  path: db\n"))
	if err != nil {
		t.Fatalf("Read -> error %v", err)
	}
	if c.Store.Path != "db" || c.Store.Timeout != store.DefaultTimeout {
		t.Errorf("Read -> %+v, want path db and default timeout", c.Store)
	}

	c, err = Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read of empty input -> error %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Read of empty input (-want +got):\n%s", diff)
	}
}

func TestRead_DebugFromEnv(t *testing.T) {
	testutil.Setenv(t, env.VT_DEBUG, "cow, edit-bounds")
	c, err := Read(strings.NewReader("log:\n  debug: [cow]\n"))
	if err != nil {
		t.Fatalf("Read -> error %v", err)
	}
	wantCodes := []logutil.DebugCode{logutil.COW, logutil.EditBounds}
	if diff := cmp.Diff(wantCodes, c.DebugCodes()); diff != "" {
		t.Errorf("DebugCodes (-want +got):\n%s", diff)
	}
}

func TestRead_Errors(t *testing.T) {
	testutil.Unsetenv(t, env.VT_DEBUG)
	for _, text := range []string{
		"stor:\n  path: x\n",
		"store:\n  timeout: -1s\n",
		"store:\n  timeout: soon\n",
		"log:\n  debug: [nope]\n",
		"log: [1, 2]\n",
	} {
		if _, err := Read(strings.NewReader(text)); err == nil {
			t.Errorf("Read(%q) -> no error", text)
		}
	}

	testutil.Setenv(t, env.VT_DEBUG, "bogus")
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Errorf("Read with unknown code in %s -> no error", env.VT_DEBUG)
	}
}

func TestLoad(t *testing.T) {
	testutil.Unsetenv(t, env.VT_DEBUG)
	dir := testutil.TempDir(t)
	p := filepath.Join(dir, "config.yaml")
	must.WriteFile(p, "store:\n  path: "+filepath.Join(dir, "db")+"\n")

	c, err := Load(p)
	if err != nil || c.Store.Path != filepath.Join(dir, "db") {
		t.Errorf("Load -> (%+v, %v)", c, err)
	}

	must.WriteFile(p, "store: [\n")
	_, err = Load(p)
	if err == nil || !strings.HasPrefix(err.Error(), p+": ") {
		t.Errorf("Load of bad file -> error %v, want one prefixed with the path", err)
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load of missing file -> error %v, want os.ErrNotExist", err)
	}
}

func TestLoadDefault(t *testing.T) {
	testutil.Unsetenv(t, env.VT_DEBUG)
	dir := testutil.TempDir(t)
	p := filepath.Join(dir, "vt.yaml")
	testutil.Setenv(t, env.VT_CONFIG, p)

	c, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault without file -> error %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("LoadDefault without file (-want +got):\n%s", diff)
	}

	must.WriteFile(p, "log:\n  debug: [cow]\n")
	c, err = LoadDefault()
	if err != nil || !cmp.Equal(c.Log.Debug, []string{"cow"}) {
		t.Errorf("LoadDefault -> (%+v, %v)", c, err)
	}
}

func TestApply(t *testing.T) {
	logFile := filepath.Join(testutil.TempDir(t), "vt.log")
	t.Cleanup(func() {
		logutil.SetOutput(io.Discard)
		logutil.Enable(logutil.EditBounds, false)
	})
	c := Config{Log: Log{File: logFile, Debug: []string{"edit-bounds"}}}
	if err := c.Apply(); err != nil {
		t.Fatalf("Apply -> error %v", err)
	}
	if !logutil.Enabled(logutil.EditBounds) {
		t.Errorf("edit-bounds not enabled after Apply")
	}
	logutil.GetLogger("[config-test] ").Println("hello")
	if got := must.ReadFileString(logFile); !strings.Contains(got, "[config-test] ") {
		t.Errorf("log file contains %q, want the logged line", got)
	}
}

func TestOpenStore(t *testing.T) {
	dir := testutil.TempDir(t)
	c := Config{Store: Store{Path: filepath.Join(dir, "sub", "db"), Timeout: time.Second}}
	st, err := c.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore -> error %v", err)
	}
	defer st.Close()
	must.OK(st.PutArray("a", vt.Of[int32](1)))
	if names, _ := st.ArrayNames(); !cmp.Equal(names, []string{"a"}) {
		t.Errorf("ArrayNames -> %v", names)
	}

	if _, err := (Config{}).OpenStore(); err == nil {
		t.Errorf("OpenStore without path -> no error")
	}
}
