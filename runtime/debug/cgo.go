//go:build cgosymbolizer
// +build cgosymbolizer

package debug

// This import installs a C symbolizer so that runtime profiles resolve
// cgo frames from the BLS libraries. Requires cgo and the build tag.
import (
	_ "github.com/ianlancetaylor/cgosymbolizer"
)
