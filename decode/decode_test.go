package decode

import "testing"

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode(nil, 0)
	assert(t, err != nil, "expected error decoding empty input")
	_, ok := err.(*DecodeError)
	assert(t, ok, "expected *DecodeError, got %T", err)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	// 0x0F 0xFF is not a recognized two-byte opcode cell.
	_, err := Decode([]byte{0x0F, 0xFF}, 0)
	assert(t, err != nil, "expected error for unknown two-byte opcode")
}

func TestDecodeMovRegReg(t *testing.T) {
	// 89 D8: mov eax, ebx (Ev,Gv form, reg=011 ebx, rm=000 eax, mod=11).
	d, err := Decode([]byte{0x89, 0xD8}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnMOV, "want MOV, got %v", d.Mnemonic)
	assert(t, d.Length == 2, "want length 2, got %d", d.Length)
	assert(t, len(d.Args) == 2, "want 2 args, got %d", len(d.Args))
	assert(t, d.Args[0].Kind == OperandRegister && d.Args[0].Reg == "eax", "want dst eax, got %+v", d.Args[0])
	assert(t, d.Args[1].Kind == OperandRegister && d.Args[1].Reg == "ebx", "want src ebx, got %+v", d.Args[1])
}

func TestDecodeRexW64BitAdd(t *testing.T) {
	// 48 01 D8: add rax, rbx (REX.W, 01 /r).
	d, err := Decode([]byte{0x48, 0x01, 0xD8}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnADD, "want ADD, got %v", d.Mnemonic)
	assert(t, d.OperandSizeBits == 64, "want 64-bit operand size, got %d", d.OperandSizeBits)
	assert(t, d.Length == 3, "want length 3, got %d", d.Length)
}

func TestDecodeRipRelativeLoad(t *testing.T) {
	// 8B 05 10 00 00 00: mov eax, [rip+0x10]
	d, err := Decode([]byte{0x8B, 0x05, 0x10, 0x00, 0x00, 0x00}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.UsesRipRelative, "expected RIP-relative addressing")
	assert(t, d.Length == 6, "want length 6, got %d", d.Length)
	mem := d.Args[1]
	assert(t, mem.Kind == OperandMemory, "want memory operand, got %v", mem.Kind)
	assert(t, mem.Disp == 0x10, "want disp 0x10, got %d", mem.Disp)
}

func TestDecodeSIBNoIndexNoBase(t *testing.T) {
	// 8B 04 25 78 56 34 12: mov eax, [0x12345678] (mod=00 rm=100, SIB with
	// index=100 "none" and base=101 "none", disp32 follows).
	d, err := Decode([]byte{0x8B, 0x04, 0x25, 0x78, 0x56, 0x34, 0x12}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Length == 7, "want length 7, got %d", d.Length)
	mem := d.Args[1]
	assert(t, mem.Base == "", "want no base register, got %q", mem.Base)
	assert(t, mem.Index == "", "want no index register, got %q", mem.Index)
	assert(t, mem.Disp == 0x12345678, "want disp 0x12345678, got %#x", mem.Disp)
}

func TestDecodeSIBWithScaledIndex(t *testing.T) {
	// 8B 04 8D 00 00 00 00: mov eax, [rcx*4] (mod=00 rm=100, SIB
	// scale=10 index=001 rcx base=101 "none", disp32=0).
	d, err := Decode([]byte{0x8B, 0x04, 0x8D, 0x00, 0x00, 0x00, 0x00}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	mem := d.Args[1]
	assert(t, mem.Index == "rcx", "want index rcx, got %q", mem.Index)
	assert(t, mem.Scale == 4, "want scale 4, got %d", mem.Scale)
}

func TestDecodeJccRel8(t *testing.T) {
	// 74 05: je +5
	d, err := Decode([]byte{0x74, 0x05}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnJCC, "want JCC, got %v", d.Mnemonic)
	assert(t, d.Cond == CC_E, "want CC_E, got %v", d.Cond)
	assert(t, d.Args[0].RelValue == 5, "want rel 5, got %d", d.Args[0].RelValue)
}

func TestDecodeGroup1ImmByte(t *testing.T) {
	// 83 C0 01: add eax, 1 (Group1 /0, sign-extended imm8).
	d, err := Decode([]byte{0x83, 0xC0, 0x01}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnADD, "want ADD, got %v", d.Mnemonic)
	assert(t, d.Args[1].ImmValue == 1, "want imm 1, got %d", d.Args[1].ImmValue)
}

func TestDecodePushR8Extended(t *testing.T) {
	// 41 50: push r8 (REX.B extends the embedded register number).
	d, err := Decode([]byte{0x41, 0x50}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnPUSH, "want PUSH, got %v", d.Mnemonic)
	assert(t, d.Args[0].Reg == "r8", "want r8, got %q", d.Args[0].Reg)
}

func TestDecodeHighByteRegisterNoRex(t *testing.T) {
	// 80 F4 01: xor ah, 1 (Group1 over ah, no REX present).
	d, err := Decode([]byte{0x80, 0xF4, 0x01}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Args[0].Reg == "ah", "want ah, got %q", d.Args[0].Reg)
}

func TestDecodeSplByteRegisterWithRex(t *testing.T) {
	// 40 80 F4 01: xor spl, 1 (REX present selects spl over ah for rm=4).
	d, err := Decode([]byte{0x40, 0x80, 0xF4, 0x01}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Args[0].Reg == "spl", "want spl, got %q", d.Args[0].Reg)
}

func TestDecodeTwoByteSyscall(t *testing.T) {
	d, err := Decode([]byte{0x0F, 0x05}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnSYSCALL, "want SYSCALL, got %v", d.Mnemonic)
	assert(t, d.IsArchSpecific, "expected IsArchSpecific set")
}

func TestDecodeTwoByteMovzx(t *testing.T) {
	// 0F B6 C0: movzx eax, al
	d, err := Decode([]byte{0x0F, 0xB6, 0xC0}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnMOVZX, "want MOVZX, got %v", d.Mnemonic)
	assert(t, d.Args[1].RegWidth == 8, "want 8-bit source, got %d", d.Args[1].RegWidth)
}

func TestDecodeTwoByteJccRel32(t *testing.T) {
	// 0F 84 10 00 00 00: je +0x10
	d, err := Decode([]byte{0x0F, 0x84, 0x10, 0x00, 0x00, 0x00}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnJCC, "want JCC, got %v", d.Mnemonic)
	assert(t, d.Cond == CC_E, "want CC_E, got %v", d.Cond)
	assert(t, d.Args[0].RelValue == 0x10, "want rel 0x10, got %d", d.Args[0].RelValue)
}

func TestDecodeVexAddpsSelectsVectorWidth(t *testing.T) {
	// C5 F8 58 C1: vaddps xmm0, xmm0, xmm1 (2-byte VEX, L=0, pp=0).
	d, err := Decode([]byte{0xC5, 0xF8, 0x58, 0xC1}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Mnemonic == MnADDPS, "want ADDPS, got %v", d.Mnemonic)
}

func TestDecodeTruncatedModRM(t *testing.T) {
	_, err := Decode([]byte{0x89}, 0)
	assert(t, err != nil, "expected error for truncated ModR/M")
}

func TestDecodeTruncatedSIB(t *testing.T) {
	_, err := Decode([]byte{0x8B, 0x04}, 0)
	assert(t, err != nil, "expected error for truncated SIB byte")
}

func TestDecodeDuplicateSegmentPrefix(t *testing.T) {
	_, err := Decode([]byte{0x64, 0x65, 0x89, 0xD8}, 0)
	assert(t, err != nil, "expected error for duplicate segment override")
}

func TestDecodeLockAdd(t *testing.T) {
	// F0 01 D8: lock add eax, ebx
	d, err := Decode([]byte{0xF0, 0x01, 0xD8}, 0)
	assert(t, err == nil, "unexpected error: %v", err)
	assert(t, d.Lock, "expected Lock set")
}
