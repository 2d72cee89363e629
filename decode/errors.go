package decode

import "fmt"

// DecodeError reports malformed bytes, a truncated stream, an invalid
// instruction-group sub-encoding, or an unknown mnemonic. It is always
// recovered locally: Decode returns (nil, err) and the block driver ends
// the block without raising (spec.md §4.3, §7).
type DecodeError struct {
	Pos    int
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: at byte %d: %s", e.Pos, e.Detail)
}

func decodeErrorf(pos int, format string, args ...interface{}) error {
	return &DecodeError{Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
