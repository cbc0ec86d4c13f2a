package shapefile

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// isMacOSXPath reports whether p is inside a __MACOSX resource fork
// directory, as found in zip archives created on macOS. Zip entry names
// always use forward slashes.
func isMacOSXPath(p string) bool {
	for elem := range strings.SplitSeq(p, "/") {
		if elem == "__MACOSX" {
			return true
		}
	}
	return false
}

func maxOf[T constraints.Ordered](x ...T) T {
	var r T
	for i := range x {
		if r < x[i] {
			r = x[i]
		}
	}
	return r
}
