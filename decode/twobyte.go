package decode

// decodeTwoByteMap decodes the 0x0F-prefixed opcode map (spec.md §4.3 step
//3): condition-code families (Jcc/SETcc/CMOVcc rel32/Eb/Ev), privileged and
// system-transition forms, and the SSE2 lanewise subset selected by
// SPEC_FULL.md §4 (MOVAPS/MOVUPS/MOVDQA/MOVDQU/MOVQ/PXOR/PADD*/ADDP*/SUBP*/
// ANDPS/ORPS/XORPS). Any other two-byte opcode returns a DecodeError.
func decodeTwoByteMap(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	if pos >= len(buf) {
		return pos, decodeErrorf(pos, "truncated stream reading two-byte opcode")
	}
	op := buf[pos]
	pos++

	switch {
	case op >= 0x80 && op <= 0x8F:
		return decodeJccRel32(buf, pos, op, d)
	case op >= 0x90 && op <= 0x9F:
		return decodeSetcc(buf, pos, op, p, d)
	case op >= 0x40 && op <= 0x4F:
		return decodeCmovcc(buf, pos, op, p, d)
	}

	switch op {
	case 0x05:
		d.Mnemonic = MnSYSCALL
		d.IsArchSpecific = true
		return pos, nil
	case 0x07:
		d.Mnemonic = MnSYSRET
		d.IsArchSpecific = true
		return pos, nil
	case 0x0B:
		d.Mnemonic = MnUD2
		return pos, nil
	case 0x34:
		d.Mnemonic = MnSYSENTER
		d.IsArchSpecific = true
		return pos, nil
	case 0x35:
		d.Mnemonic = MnSYSEXIT
		d.IsArchSpecific = true
		return pos, nil
	case 0xA2:
		d.Mnemonic = MnCPUID
		return pos, nil
	case 0xAF:
		return decodeIMULGvEv(buf, pos, p, d)
	case 0xB6, 0xB7:
		return decodeMOVZX(buf, pos, op, p, d)
	case 0xBE, 0xBF:
		return decodeMOVSX(buf, pos, op, p, d)
	case 0x01:
		return decodeGroupSevenOrSwapgs(buf, pos, p, d)
	case 0x10, 0x11:
		return decodeMOVUPS(buf, pos, op, p, d)
	case 0x28, 0x29:
		return decodeMOVAPS(buf, pos, op, p, d)
	case 0x6F, 0x7F:
		return decodeMOVDQ(buf, pos, op, p, d)
	case 0xD6:
		return decodeMOVQ(buf, pos, p, d)
	case 0xEF:
		return decodeVectorRRM(buf, pos, p, d, MnPXOR, 128)
	case 0xFC:
		return decodeVectorRRM(buf, pos, p, d, MnPADDB, 128)
	case 0xFD:
		return decodeVectorRRM(buf, pos, p, d, MnPADDW, 128)
	case 0xFE:
		return decodeVectorRRM(buf, pos, p, d, MnPADDD, 128)
	case 0xD4:
		return decodeVectorRRM(buf, pos, p, d, MnPADDQ, 128)
	case 0x58:
		if p.opSizeOverride || (p.vecPresent() && p.pp == 1) {
			return decodeVectorRRM(buf, pos, p, d, MnADDPD, 128)
		}
		return decodeVectorRRM(buf, pos, p, d, MnADDPS, 128)
	case 0x5C:
		if p.opSizeOverride || (p.vecPresent() && p.pp == 1) {
			return decodeVectorRRM(buf, pos, p, d, MnSUBPD, 128)
		}
		return decodeVectorRRM(buf, pos, p, d, MnSUBPS, 128)
	case 0x54:
		return decodeVectorRRM(buf, pos, p, d, MnANDPS, 128)
	case 0x56:
		return decodeVectorRRM(buf, pos, p, d, MnORPS, 128)
	case 0x57:
		return decodeVectorRRM(buf, pos, p, d, MnXORPS, 128)
	}

	return pos, decodeErrorf(pos, "unsupported two-byte opcode 0F %02X", op)
}

func decodeJccRel32(buf []byte, pos int, op byte, d *DecodedInstr) (int, error) {
	rel, next, err := readImm(buf, pos, 32)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnJCC
	d.Cond = CondCode(op & 0x0F)
	d.Args = []Operand{relOperand(int64(int32(rel)))}
	return next, nil
}

func decodeSetcc(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	_, _, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnSETCC
	d.Cond = CondCode(op & 0x0F)
	d.Args = []Operand{rmOperandFrom(buf, pos, rm, mem, 8, p.hasREX)}
	return next, nil
}

func decodeCmovcc(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, d.OperandSizeBits)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnCMOVCC
	d.Cond = CondCode(op & 0x0F)
	d.Args = []Operand{regOp, rmOp}
	return next, nil
}

func decodeIMULGvEv(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	regOp, rmOp, next, err := decodeModRMOperands(buf, pos, p, d.OperandSizeBits)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnIMUL
	d.Args = []Operand{regOp, rmOp}
	return next, nil
}

// decodeMOVZX and decodeMOVSX decode Gv,Eb and Gv,Ew forms: the source
// width is fixed by the low opcode bit, the destination width by the
// operand-size prefix state, never equal to the source.
func decodeMOVZX(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	srcWidth := 8
	if op == 0xB7 {
		srcWidth = 16
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnMOVZX
	d.Args = []Operand{
		regOperand(regName(reg, d.OperandSizeBits, p.hasREX), d.OperandSizeBits),
		rmOperandFrom(buf, pos, rm, mem, srcWidth, p.hasREX),
	}
	return next, nil
}

func decodeMOVSX(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	srcWidth := 8
	if op == 0xBF {
		srcWidth = 16
	}
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnMOVSX
	d.Args = []Operand{
		regOperand(regName(reg, d.OperandSizeBits, p.hasREX), d.OperandSizeBits),
		rmOperandFrom(buf, pos, rm, mem, srcWidth, p.hasREX),
	}
	return next, nil
}

// decodeGroupSevenOrSwapgs handles 0F 01: SWAPGS is the ModR/M=F8 (mod=3,
// reg=7, rm=0) sub-encoding; every other Group 7 sub-encoding (SGDT/SIDT/
// INVLPG/etc.) is out of scope and reported unsupported.
func decodeGroupSevenOrSwapgs(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	if pos >= len(buf) {
		return pos, decodeErrorf(pos, "truncated stream reading group 7 ModR/M byte")
	}
	if buf[pos] == 0xF8 {
		d.Mnemonic = MnSWAPGS
		d.IsArchSpecific = true
		return pos + 1, nil
	}
	return pos, decodeErrorf(pos, "unsupported group7 sub-encoding (modrm=%02X)", buf[pos])
}

// decodeMOVUPS decodes 0F 10/11 (MOVUPS/MOVSS/MOVSD variants collapsed to
// MOVUPS, per SPEC_FULL.md §4's vector scope).
func decodeMOVUPS(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	return decodeVectorMove(buf, pos, op, p, d, MnMOVUPS)
}

// decodeMOVAPS decodes 0F 28/29.
func decodeMOVAPS(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	return decodeVectorMove(buf, pos, op, p, d, MnMOVAPS)
}

// decodeMOVDQ decodes 0F 6F/7F: MOVDQA when pp=66, MOVDQU when pp=F3.
func decodeMOVDQ(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr) (int, error) {
	mnem := MnMOVDQA
	if p.rep || (p.vecPresent() && p.pp == 2) {
		mnem = MnMOVDQU
	}
	return decodeVectorMove(buf, pos, op, p, d, mnem)
}

// decodeVectorMove shares the load/store-direction logic common to the
// move-class vector opcodes: 0F 10/28/6F load into the reg field and
// 0F 11/29/7F store from it, all at 128 bits (SSE2 scope).
func decodeVectorMove(buf []byte, pos int, op byte, p *prefixes, d *DecodedInstr, mnem Mnemonic) (int, error) {
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	regOp := regOperand(regName(reg, 128, p.hasREX), 128)
	rmOp := rmOperandFrom(buf, pos, rm, mem, 128, p.hasREX)
	d.Mnemonic = mnem
	if op&1 == 0 || op == 0x6F {
		d.Args = []Operand{regOp, rmOp}
	} else {
		d.Args = []Operand{rmOp, regOp}
	}
	return next, nil
}

// decodeMOVQ decodes 0F D6 (MOVQ Wq,Vq: store the low quadword of an XMM
// register, the only direction this decoder's scope requires).
func decodeMOVQ(buf []byte, pos int, p *prefixes, d *DecodedInstr) (int, error) {
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = MnMOVQ
	d.Args = []Operand{
		rmOperandFrom(buf, pos, rm, mem, 64, p.hasREX),
		regOperand(regName(reg, 128, p.hasREX), 128),
	}
	return next, nil
}

// decodeVectorRRM decodes the common Vx,Vx,Wx lanewise form: reg field is
// destination and first source, rm field is second source.
func decodeVectorRRM(buf []byte, pos int, p *prefixes, d *DecodedInstr, mnem Mnemonic, width int) (int, error) {
	_, reg, rm, mem, next, err := parseModRM(buf, pos, !p.addrSizeOverride, p.rexR, p.rexX, p.rexB)
	if err != nil {
		return pos, err
	}
	d.Mnemonic = mnem
	d.Args = []Operand{
		regOperand(regName(reg, width, p.hasREX), width),
		rmOperandFrom(buf, pos, rm, mem, width, p.hasREX),
	}
	return next, nil
}
