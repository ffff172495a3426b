// Package limits centralizes the internal field-width limits the
// compiler enforces.
package limits

// MaxIter bounds the iteration field ({n,m} repeat counts).
const MaxIter uint16 = 0xFFFF

// MaxIndex bounds a Position's regex-index field.
const MaxIndex uint32 = 0xFFFFFFFF

// Opcode-encoding limits: these exist to preserve the GOTO-vs-other
// instruction-kind invariant described in the encoder package (byte3 >=
// byte4 iff the word is a GOTO).
const (
	GotoMaxIdx      uint32 = 0xFEFFFF
	AcceptMax       uint32 = 0xFDFFFF
	LookaheadMaxIdx uint32 = 0xFAFFFF
)

// HashMaxIdx is the size of the predictor's match-hash array (4096).
const HashMaxIdx = 0x1000
