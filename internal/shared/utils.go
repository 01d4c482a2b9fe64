// Package shared provides helpers for handling secret material.
package shared

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it to drop signing secrets read from a terminal once they are used.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
