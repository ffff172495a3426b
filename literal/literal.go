// Package literal provides a small byte-sequence type used by the
// predictor to describe the fixed prefix (if any) a compiled pattern
// requires.
//
// This compiler never executes a match, so only the plain
// byte-sequence shape and the prefix helpers are needed; the
// AST-walking Extractor and the multi-literal Seq machinery it fed
// (Minimize, cross-product expansion) belong to the out-of-scope runtime
// matcher and are not carried over.
package literal

import "bytes"

// Prefix is a literal byte sequence a compiled pattern is known to start
// with, together with whether it is the pattern's entire match (Complete)
// or merely a required prefix of a longer one.
type Prefix struct {
	Bytes    []byte
	Complete bool
}

// New returns a Prefix over b, copying it so later mutation of the
// caller's slice can't alias the Prefix.
func New(b []byte, complete bool) Prefix {
	out := make([]byte, len(b))
	copy(out, b)
	return Prefix{Bytes: out, Complete: complete}
}

// Len returns the number of bytes in the prefix.
func (p Prefix) Len() int {
	return len(p.Bytes)
}

// IsEmpty reports whether p has no bytes.
func (p Prefix) IsEmpty() bool {
	return len(p.Bytes) == 0
}

// String renders p for diagnostics.
func (p Prefix) String() string {
	complete := "false"
	if p.Complete {
		complete = "true"
	}
	return "literal{" + string(p.Bytes) + ", complete=" + complete + "}"
}

// CommonPrefix returns the longest common prefix of a and b.
func CommonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// HasPrefix reports whether p's bytes begin with prefix.
func (p Prefix) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(p.Bytes, prefix)
}
