//go:build !dkassert

package dkerr

// Assert is a no-op in release builds.
func Assert(cond bool, format string, args ...any) {}

// Checked reports whether assertions are compiled into this build.
func Checked() bool { return false }
