package decode

// prefixes holds the decoded prefix state for one instruction (spec.md
// §4.3 step 1). At most one prefix from each legacy group is consumed;
// VEX/EVEX, when present, replace the legacy operand-size/REX slots and
// carry their equivalents in the pp/mmmmm fields.
type prefixes struct {
	lock          bool
	rep           bool // F3
	repne         bool // F2
	segment       string // "", "es","cs","ss","ds","fs","gs"
	opSizeOverride  bool // 0x66 seen (and not absorbed by VEX/EVEX pp)
	addrSizeOverride bool // 0x67 seen

	hasREX bool
	rexW, rexR, rexX, rexB bool

	hasVEX  bool
	vexIs3Byte bool
	vecL       bool // L/LL: 256-bit (VEX) or per EVEX.L'L, simplified to one bit
	vecR, vecX, vecB, vecW bool
	vvvv       byte // 4-bit NDS/NDD register specifier, one's-complement encoded
	pp         byte // 0=none 1=66 2=F3 3=F2
	mmmmm      byte // 1=0F 2=0F38 3=0F3A

	hasEVEX bool
}

var segOverrideByte = map[byte]string{
	0x2E: "cs", 0x36: "ss", 0x3E: "ds", 0x26: "es", 0x64: "fs", 0x65: "gs",
}

// parsePrefixes consumes legacy prefixes, then VEX/EVEX or REX, from
// buf[pos:], returning the parsed state and the position of the first
// opcode byte. It never reads past len(buf).
func parsePrefixes(buf []byte, pos int) (*prefixes, int, error) {
	p := &prefixes{}
	start := pos
	for {
		if pos >= len(buf) {
			return nil, pos, decodeErrorf(start, "truncated stream while scanning prefixes")
		}
		b := buf[pos]
		switch {
		case b == 0xF0:
			if p.lock {
				return nil, pos, decodeErrorf(pos, "duplicate LOCK prefix")
			}
			p.lock = true
			pos++
		case b == 0xF2:
			if p.rep || p.repne {
				return nil, pos, decodeErrorf(pos, "duplicate REP/REPNE prefix")
			}
			p.repne = true
			pos++
		case b == 0xF3:
			if p.rep || p.repne {
				return nil, pos, decodeErrorf(pos, "duplicate REP/REPNE prefix")
			}
			p.rep = true
			pos++
		case segOverrideByte[b] != "":
			if p.segment != "" {
				return nil, pos, decodeErrorf(pos, "duplicate segment override prefix")
			}
			p.segment = segOverrideByte[b]
			pos++
		case b == 0x66:
			if p.opSizeOverride {
				return nil, pos, decodeErrorf(pos, "duplicate operand-size prefix")
			}
			p.opSizeOverride = true
			pos++
		case b == 0x67:
			if p.addrSizeOverride {
				return nil, pos, decodeErrorf(pos, "duplicate address-size prefix")
			}
			p.addrSizeOverride = true
			pos++
		default:
			goto doneLegacy
		}
	}
doneLegacy:

	if pos >= len(buf) {
		return nil, pos, decodeErrorf(start, "truncated stream after legacy prefixes")
	}

	switch buf[pos] {
	case 0xC5: // two-byte VEX
		if pos+1 >= len(buf) {
			return nil, pos, decodeErrorf(pos, "truncated two-byte VEX prefix")
		}
		b1 := buf[pos+1]
		p.hasVEX = true
		p.vexIs3Byte = false
		p.vecR = b1&0x80 == 0
		p.vecX, p.vecB, p.vecW = true, true, false // not encodable in 2-byte form
		p.vvvv = (b1 >> 3) & 0xF
		p.vecL = b1&0x4 != 0
		p.pp = b1 & 0x3
		p.mmmmm = 1 // implied 0F map
		pos += 2
	case 0xC4: // three-byte VEX
		if pos+2 >= len(buf) {
			return nil, pos, decodeErrorf(pos, "truncated three-byte VEX prefix")
		}
		b1, b2 := buf[pos+1], buf[pos+2]
		p.hasVEX = true
		p.vexIs3Byte = true
		p.vecR = b1&0x80 == 0
		p.vecX = b1&0x40 == 0
		p.vecB = b1&0x20 == 0
		p.mmmmm = b1 & 0x1F
		p.vecW = b2&0x80 != 0
		p.vvvv = (b2 >> 3) & 0xF
		p.vecL = b2&0x4 != 0
		p.pp = b2 & 0x3
		pos += 3
	case 0x62: // EVEX, only when the following byte's low two bits are 00
		if pos+3 >= len(buf) {
			return nil, pos, decodeErrorf(pos, "truncated EVEX prefix")
		}
		b1 := buf[pos+1]
		if b1&0x03 == 0 {
			b2, b3 := buf[pos+2], buf[pos+3]
			p.hasEVEX = true
			p.vecR = b1&0x80 == 0
			p.vecX = b1&0x40 == 0
			p.vecB = b1&0x20 == 0
			p.mmmmm = b1 & 0x3
			p.vecW = b2&0x80 != 0
			p.vvvv = (b2 >> 3) & 0xF
			p.pp = b2 & 0x3
			p.vecL = b3&0x20 != 0 // L' L, simplified to one width bit
			pos += 4
		}
	}

	if !p.hasVEX && !p.hasEVEX && pos < len(buf) && buf[pos] >= 0x40 && buf[pos] <= 0x4F {
		b := buf[pos]
		p.hasREX = true
		p.rexW = b&0x08 != 0
		p.rexR = b&0x04 != 0
		p.rexX = b&0x02 != 0
		p.rexB = b&0x01 != 0
		pos++
	}

	return p, pos, nil
}

// vecPresent reports whether a VEX or EVEX prefix was consumed; when it
// was, p.pp holds the legacy-prefix equivalent (1=66, 2=F3, 3=F2).
func (p *prefixes) vecPresent() bool { return p.hasVEX || p.hasEVEX }
