package decode

// arithFamily maps the three-bit "arithmetic group" selector (bits 3-5 of
// opcodes 00-3D, i.e. (opcode>>3)&0x7) to its mnemonic, covering the eight
// classic ALU groups (spec.md §4.3 step 4, "arithmetic groups").
var arithFamily = [8]Mnemonic{MnADD, MnOR, MnADC, MnSBB, MnAND, MnSUB, MnXOR, MnCMP}

// group1 (opcodes 80/81/83) ModR/M.reg selects the ALU op.
var group1 = [8]Mnemonic{MnADD, MnOR, MnADC, MnSBB, MnAND, MnSUB, MnXOR, MnCMP}

// group2 (opcodes C0/C1/D0-D3) ModR/M.reg selects the shift/rotate op.
var group2 = [8]Mnemonic{MnROL, MnROR, MnRCL, MnRCR, MnSHL, MnSHR, MnSHL, MnSAR}

// group3 (opcodes F6/F7) ModR/M.reg selects among TEST/NOT/NEG/MUL/IMUL/
// DIV/IDIV.
var group3 = [8]Mnemonic{MnTEST, MnTEST, MnNOT, MnNEG, MnMUL, MnIMUL, MnDIV, MnIDIV}

func decodeOneByteMap(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	if op <= 0x3D && isArithOpcodeByte(op) {
		return decodeArithFamily(buf, pos, op, p, d)
	}

	switch op {
	case 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57:
		d.Mnemonic = MnPUSH
		regNum := int(op-0x50) | boolBit(p.rexB)<<3
		d.Args = []Operand{regOperand(regName(regNum, 64, p.hasREX), 64)}
		return pos, nil
	case 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F:
		d.Mnemonic = MnPOP
		regNum := int(op-0x58) | boolBit(p.rexB)<<3
		d.Args = []Operand{regOperand(regName(regNum, 64, p.hasREX), 64)}
		return pos, nil

	case 0x68:
		imm, next, err := readImm(buf, pos, 32)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnPUSH
		d.Args = []Operand{immOperand(signExtend(imm, 32), 32)}
		return next, nil
	case 0x6A:
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnPUSH
		d.Args = []Operand{immOperand(signExtend(imm, 8), 8)}
		return next, nil

	case 0x69, 0x6B:
		immWidth := 32
		if op == 0x6B {
			immWidth = 8
		}
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, d.OperandSizeBits)
		if err != nil {
			return pos, err
		}
		imm, next2, err := readImm(buf, next, immWidth)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnIMUL
		d.Args = []Operand{regOp, rmOp, immOperand(signExtend(imm, immWidth), immWidth)}
		return next2, nil

	}

	if op >= 0x70 && op <= 0x7F {
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnJCC
		d.Cond = CondCode(op - 0x70)
		d.Args = []Operand{relOperand(int64(int8(imm)))}
		return next, nil
	}

	switch op {
	case 0x80, 0x81, 0x83:
		return decodeGroup1(buf, pos, op, p, d)

	case 0x84, 0x85:
		width := 8
		if op == 0x85 {
			width = d.OperandSizeBits
		}
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, width)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnTEST
		d.Args = []Operand{rmOp, regOp}
		return next, nil

	case 0x88, 0x89, 0x8A, 0x8B:
		width := d.OperandSizeBits
		if op == 0x88 || op == 0x8A {
			width = 8
		}
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, width)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnMOV
		if op == 0x88 || op == 0x89 {
			d.Args = []Operand{rmOp, regOp} // dst=E, src=G
		} else {
			d.Args = []Operand{regOp, rmOp} // dst=G, src=E
		}
		return next, nil

	case 0x8D:
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, d.OperandSizeBits)
		if err != nil {
			return pos, err
		}
		if rmOp.Kind != OperandMemory {
			return pos, decodeErrorf(pos, "lea requires a memory operand")
		}
		d.Mnemonic = MnLEA
		d.Args = []Operand{regOp, rmOp}
		return next, nil

	case 0x90:
		d.Mnemonic = MnNOP
		return pos, nil

	case 0xA8:
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnTEST
		d.Args = []Operand{regOperand("al", 8), immOperand(imm, 8)}
		return next, nil
	case 0xA9:
		imm, next, err := readImm(buf, pos, 32)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnTEST
		d.Args = []Operand{regOperand(regName(0, d.OperandSizeBits, p.hasREX), d.OperandSizeBits), immOperand(signExtend(imm, 32), 32)}
		return next, nil

	}

	if op >= 0xB0 && op <= 0xB7 {
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		regNum := int(op-0xB0) | boolBit(p.rexB)<<3
		d.Mnemonic = MnMOV
		d.Args = []Operand{regOperand(regName(regNum, 8, p.hasREX), 8), immOperand(imm, 8)}
		return next, nil
	}

	if op >= 0xB8 && op <= 0xBF {
		width := d.OperandSizeBits
		if width == 16 {
			// narrow immediate still
		}
		immWidth := 32
		if width == 64 {
			immWidth = 64
		} else if width == 16 {
			immWidth = 16
		}
		imm, next, err := readImm(buf, pos, immWidth)
		if err != nil {
			return pos, err
		}
		regNum := int(op-0xB8) | boolBit(p.rexB)<<3
		d.Mnemonic = MnMOV
		d.Args = []Operand{regOperand(regName(regNum, width, p.hasREX), width), immOperand(imm, immWidth)}
		return next, nil
	}

	switch op {
	case 0xC0, 0xC1:
		return decodeGroup2Imm8(buf, pos, op, p, d)
	case 0xD0, 0xD1:
		return decodeGroup2ShiftBy1(buf, pos, op, p, d)
	case 0xD2, 0xD3:
		return decodeGroup2ShiftByCL(buf, pos, op, p, d)

	case 0xC2:
		imm, next, err := readImm(buf, pos, 16)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnRET
		d.Args = []Operand{immOperand(imm, 16)}
		return next, nil
	case 0xC3:
		d.Mnemonic = MnRET
		return pos, nil

	case 0xC6, 0xC7:
		return decodeGroup11(buf, pos, op, p, d)

	case 0xCC:
		d.Mnemonic = MnINT3
		return pos, nil
	case 0xCD:
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnINTn
		d.Args = []Operand{immOperand(imm, 8)}
		return next, nil
	case 0xCE:
		d.Mnemonic = MnINTO
		return pos, nil

	case 0xE8:
		imm, next, err := readImm(buf, pos, 32)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnCALL
		d.Args = []Operand{relOperand(int64(int32(imm)))}
		return next, nil
	case 0xE9:
		imm, next, err := readImm(buf, pos, 32)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnJMP
		d.Args = []Operand{relOperand(int64(int32(imm)))}
		return next, nil
	case 0xEB:
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = MnJMP
		d.Args = []Operand{relOperand(int64(int8(imm)))}
		return next, nil

	case 0xF4:
		d.Mnemonic = MnHLT
		return pos, nil
	case 0xF5:
		return pos, decodeErrorf(pos, "CMC not in scope")
	case 0xF6, 0xF7:
		return decodeGroup3(buf, pos, op, p, d)

	case 0xFA:
		d.Mnemonic = MnCLI
		d.IsArchSpecific = true
		return pos, nil
	case 0xFB:
		d.Mnemonic = MnSTI
		d.IsArchSpecific = true
		return pos, nil
	case 0xFC:
		d.Mnemonic = MnCLD
		return pos, nil
	case 0xFD:
		d.Mnemonic = MnSTD
		return pos, nil

	case 0xFE:
		return decodeGroup4(buf, pos, p, d)
	case 0xFF:
		return decodeGroup5(buf, pos, p, d)
	}

	return pos, decodeErrorf(pos-1, "unsupported one-byte opcode 0x%02X", op)
}

func isArithOpcodeByte(op byte) bool {
	lo := op & 0x07
	return lo <= 5
}

func decodeArithFamily(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	family := arithFamily[(op>>3)&0x7]
	lo := op & 0x07
	switch lo {
	case 0, 1: // Eb,Gb / Ev,Gv
		width := d.OperandSizeBits
		if lo == 0 {
			width = 8
		}
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, width)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = family
		d.Args = []Operand{rmOp, regOp}
		return next, nil
	case 2, 3: // Gb,Eb / Gv,Ev
		width := d.OperandSizeBits
		if lo == 2 {
			width = 8
		}
		regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, width)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = family
		d.Args = []Operand{regOp, rmOp}
		return next, nil
	case 4: // AL,Ib
		imm, next, err := readImm(buf, pos, 8)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = family
		d.Args = []Operand{regOperand("al", 8), immOperand(imm, 8)}
		return next, nil
	case 5: // eAX,Iz
		width := d.OperandSizeBits
		immWidth := 32
		if width == 16 {
			immWidth = 16
		}
		imm, next, err := readImm(buf, pos, immWidth)
		if err != nil {
			return pos, err
		}
		d.Mnemonic = family
		d.Args = []Operand{regOperand(regName(0, width, p.hasREX), width), immOperand(signExtend(imm, immWidth), immWidth)}
		return next, nil
	default:
		return pos, decodeErrorf(pos, "unsupported arithmetic-family opcode 0x%02X", op)
	}
}

func decodeGroup1(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0x80 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	mnem := group1[reg&0x7]
	var rmOp Operand
	modBits := buf[pos]
	if modBits>>6 == 3 {
		rmOp = regOperand(regName(rm, width, p.hasREX), width)
	} else {
		rmOp = memOperandToOperand(mem, width)
	}
	immWidth := width
	if op == 0x80 || op == 0x83 {
		immWidth = 8
	} else if width == 16 {
		immWidth = 16
	} else {
		immWidth = 32
	}
	imm, next2, err := readImm(buf, next, immWidth)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = mnem
	d.Args = []Operand{rmOp, immOperand(signExtend(imm, immWidth), immWidth)}
	return next2, nil
}

func decodeGroup2Imm8(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0xC0 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)
	imm, next2, err := readImm(buf, next, 8)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = group2[reg&0x7]
	d.Args = []Operand{rmOp, immOperand(imm, 8)}
	return next2, nil
}

func decodeGroup2ShiftBy1(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0xD0 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)
	d.Mnemonic = group2[reg&0x7]
	d.Args = []Operand{rmOp, immOperand(1, 8)}
	return next, nil
}

func decodeGroup2ShiftByCL(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0xD2 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)
	d.Mnemonic = group2[reg&0x7]
	d.Args = []Operand{rmOp, regOperand("cl", 8)}
	return next, nil
}

func decodeGroup3(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0xF6 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)
	mnem := group3[reg&0x7]
	d.Mnemonic = mnem
	if mnem == MnTEST {
		immWidth := width
		if op == 0xF6 {
			immWidth = 8
		} else if width == 16 {
			immWidth = 16
		} else {
			immWidth = 32
		}
		imm, next2, err := readImm(buf, next, immWidth)
		if err != nil {
			return pos, err
		}
		d.Args = []Operand{rmOp, immOperand(signExtend(imm, immWidth), immWidth)}
		return next2, nil
	}
	d.Args = []Operand{rmOp}
	return next, nil
}

func decodeGroup4(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, 8, p.hasREX)
	switch reg & 0x7 {
	case 0:
		d.Mnemonic = MnINC
	case 1:
		d.Mnemonic = MnDEC
	default:
		return pos, decodeErrorf(pos, "invalid group4 sub-encoding %d", reg&0x7)
	}
	d.Args = []Operand{rmOp}
	return next, nil
}

func decodeGroup5(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	switch reg & 0x7 {
	case 0:
		d.Mnemonic = MnINC
		d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)}
	case 1:
		d.Mnemonic = MnDEC
		d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)}
	case 2:
		d.Mnemonic = MnCALL
		d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, 64, p.hasREX)}
	case 4:
		d.Mnemonic = MnJMP
		d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, 64, p.hasREX)}
	case 6:
		d.Mnemonic = MnPUSH
		d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, 64, p.hasREX)}
	default:
		return pos, decodeErrorf(pos, "invalid or unsupported group5 sub-encoding %d", reg&0x7)
	}
	return next, nil
}

func decodeGroup11(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	width := d.OperandSizeBits
	if op == 0xC6 {
		width = 8
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	if reg&0x7 != 0 {
		return pos, decodeErrorf(pos, "invalid group11 sub-encoding %d", reg&0x7)
	}
	rmOp := rmOperandFrom(buf, pos, rm, mem, width, p.hasREX)
	immWidth := width
	if op == 0xC6 {
		immWidth = 8
	} else if width == 16 {
		immWidth = 16
	} else {
		immWidth = 32
	}
	imm, next2, err := readImm(buf, next, immWidth)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnMOV
	d.Args = []Operand{rmOp, immOperand(signExtend(imm, immWidth), immWidth)}
	return next2, nil
}

// rmOperandFrom builds the rm-field Operand given the already-parsed
// rm/mem pair; it re-reads the ModR/M byte at pos only to recover mod,
// which parseModRM does return but most call sites discard.
func rmOperandFrom(buf []byte, modrmPos int, rm int, mem memOperand, width int, hasREX bool) Operand {
	mod := buf[modrmPos] >> 6
	if mod == 3 {
		return regOperand(regName(rm, width, hasREX), width)
	}
	return memOperandToOperand(mem, width)
}
