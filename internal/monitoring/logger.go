// Package monitoring holds the diagnostic logger shared by the solver packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. The solver reports per-iteration progress through
// it, so tests and quiet CLI runs mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects Logf into a slice until the returned restore func is
// called. Each entry is the format string followed by its arguments.
func Capture() (entries *[][]interface{}, restore func()) {
	original := Logf
	var got [][]interface{}
	Logf = func(format string, v ...interface{}) {
		got = append(got, append([]interface{}{format}, v...))
	}
	return &got, func() { Logf = original }
}
