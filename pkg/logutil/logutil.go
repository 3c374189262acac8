// Package logutil provides logging utilities.
//
// All loggers obtained with GetLogger share one output, which is discarded
// until SetOutput or SetOutputFile is called. Debug codes gate logging that is
// too chatty to do unconditionally.
package logutil

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	outFile *os.File
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to the
// new io.Writer. If the old output was a file opened by SetOutputFile, it is
// closed.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(newout)
	if outFile != nil && outFile != newout {
		outFile.Close()
		outFile = nil
	}
}

func setOutput(newout io.Writer) {
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file, which is opened for appending. If fname is empty, it
// discards the output instead.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	mu.Lock()
	outFile = file
	mu.Unlock()
	return nil
}

// DebugCode names a class of debug logging.
type DebugCode string

// Debug codes.
const (
	// EditBounds logs edit references that fall outside the array an edit is
	// applied to.
	EditBounds DebugCode = "edit-bounds"
	// COW logs storage forks caused by writes to shared arrays.
	COW DebugCode = "cow"
)

// KnownDebugCodes lists all debug codes.
var KnownDebugCodes = []DebugCode{EditBounds, COW}

var enabled sync.Map // DebugCode -> *atomic.Bool

func flag(code DebugCode) *atomic.Bool {
	v, _ := enabled.LoadOrStore(code, new(atomic.Bool))
	return v.(*atomic.Bool)
}

// Enable turns a debug code on or off.
func Enable(code DebugCode, on bool) {
	flag(code).Store(on)
}

// Enabled reports whether a debug code is on.
func Enabled(code DebugCode) bool {
	return flag(code).Load()
}

// ParseDebugCodes parses a comma- or space-separated list of debug codes, as
// found in the VT_DEBUG environment variable. Unknown codes are returned
// separately.
func ParseDebugCodes(s string) (codes []DebugCode, unknown []string) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		known := false
		for _, code := range KnownDebugCodes {
			if string(code) == f {
				codes = append(codes, code)
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, f)
		}
	}
	return codes, unknown
}
