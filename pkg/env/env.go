// Package env keeps names of environment variables with special significance to
// vt.
package env

// Environment variables with special significance to vt.
const (
	// Path of the configuration file, overriding the default location.
	VT_CONFIG = "VT_CONFIG"
	// Comma- or space-separated debug codes to enable, in addition to those
	// in the configuration file.
	VT_DEBUG = "VT_DEBUG"
)
