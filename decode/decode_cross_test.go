package decode

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

// TestCrossValidateLength checks this decoder's reported instruction
// length against golang.org/x/arch/x86/x86asm's independent decoder, for
// every encoding this package claims to support. A length mismatch means
// one of the two decoders is wrong about how many bytes the instruction
// occupies; x86asm is never consulted by the production decode path, only
// by this test.
func TestCrossValidateLength(t *testing.T) {
	cases := [][]byte{
		{0x89, 0xD8},                               // mov eax, ebx
		{0x48, 0x01, 0xD8},                         // add rax, rbx
		{0x8B, 0x05, 0x10, 0x00, 0x00, 0x00},       // mov eax, [rip+0x10]
		{0x8B, 0x04, 0x25, 0x78, 0x56, 0x34, 0x12}, // mov eax, [0x12345678]
		{0x83, 0xC0, 0x01},                         // add eax, 1
		{0x74, 0x05},                               // je +5
		{0xE8, 0x00, 0x00, 0x00, 0x00},             // call rel32
		{0xE9, 0x00, 0x00, 0x00, 0x00},             // jmp rel32
		{0x41, 0x50},                               // push r8
		{0xC3},                                     // ret
		{0x90},                                     // nop
		{0x0F, 0xB6, 0xC0},                         // movzx eax, al
		{0x0F, 0x84, 0x10, 0x00, 0x00, 0x00},       // je near +0x10
		{0x0F, 0x1F, 0x00},                         // multi-byte NOP Ev, out of this decoder's scope
	}

	for _, enc := range cases {
		want, wantErr := x86asm.Decode(enc, 64)
		got, gotErr := Decode(enc, 0)

		if wantErr != nil {
			// x86asm rejects the encoding; nothing to cross-check.
			continue
		}
		if gotErr != nil {
			// This decoder doesn't claim every encoding x86asm accepts
			// (e.g. the multi-byte NOP form, spec.md §9's scoping); skip
			// rather than fail.
			continue
		}
		assert(t, got.Length == want.Len, "length mismatch for % x: got %d, x86asm %d", enc, got.Length, want.Len)
	}
}
