package sqlitefile

import "unsafe"

// BuffersOverlap reports whether a and b share any backing memory. Used
// by the payload assembler to reject a Load destination that aliases a
// pinned page buffer — in Go, unlike languages with copy-on-slice
// semantics, two []byte values can share an underlying array, and
// copying a page's own bytes into itself through such an alias would
// corrupt the copy the same way it would in a language with raw
// pointers.
func BuffersOverlap(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	return aStart < bEnd && bStart < aEnd
}
