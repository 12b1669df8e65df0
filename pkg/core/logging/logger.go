// Package logging holds the process-wide diagnostic logger.
// Components prefix their messages with a bracketed tag, e.g. "[LOADER]".
package logging

import "log"

// Logf defaults to log.Printf. Tests mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
