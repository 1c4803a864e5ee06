package isa

// decodeCompressed classifies a 16-bit "C" extension instruction. One
// quadrant-1 encoding aliases between RV32 and RV64: opcode 0b01/funct3=001
// is C.JAL on RV32 (rv32 only defines it; rd=x1 implicit) and C.ADDIW on
// RV64/RV128 (not a control-flow instruction). Every other Kind this package
// tracks decodes identically regardless of XLen.
func decodeCompressed(raw16 uint16, xlen int) Instruction {
	inst := Instruction{Raw: uint32(raw16), Size: 2, Kind: KindUnknown, RS1: RegNone, RD: RegNone, XLen: xlen}

	quadrant := raw16 & 0x3
	funct3 := (raw16 >> 13) & 0x7

	switch quadrant {
	case 0x1:
		switch funct3 {
		case 0x5: // C.J
			inst.Kind = KindCJ
			inst.Imm = signExtend(cjImm(raw16), 12)
			return inst

		case 0x1: // C.JAL (RV32 only); C.ADDIW on RV64/128
			if xlen == 32 {
				inst.Kind = KindCJAL
				inst.RD = RegRA
				inst.Imm = signExtend(cjImm(raw16), 12)
			}
			return inst

		case 0x6: // C.BEQZ
			inst.Kind = KindCBEQZ
			inst.RS1 = compressedReg((raw16 >> 7) & 0x7)
			inst.Imm = signExtend(cbImm(raw16), 9)
			return inst

		case 0x7: // C.BNEZ
			inst.Kind = KindCBNEZ
			inst.RS1 = compressedReg((raw16 >> 7) & 0x7)
			inst.Imm = signExtend(cbImm(raw16), 9)
			return inst
		}

	case 0x2:
		if funct3 != 0x4 {
			return inst
		}
		bit12 := (raw16 >> 12) & 0x1
		rdrs1 := Reg((raw16 >> 7) & 0x1f)
		rs2 := Reg((raw16 >> 2) & 0x1f)

		switch {
		case bit12 == 0 && rs2 == 0 && rdrs1 != 0: // C.JR
			inst.Kind = KindCJR
			inst.RS1 = rdrs1
		case bit12 == 1 && rdrs1 == 0 && rs2 == 0: // C.EBREAK
			inst.Kind = KindCEBREAK
		case bit12 == 1 && rs2 == 0 && rdrs1 != 0: // C.JALR
			inst.Kind = KindCJALR
			inst.RS1 = rdrs1
			inst.RD = RegRA
		}
		return inst
	}

	return inst
}

// cjImm reassembles the CJ-type immediate (C.J / C.JAL):
// imm[11|4|9:8|10|6|7|3:1|5] at bits 12, 11, 10:9, 8, 7, 6, 5:3, 2.
func cjImm(raw16 uint16) int64 {
	b := func(bit uint) uint16 { return (raw16 >> bit) & 0x1 }
	bits := func(hi, lo uint) uint16 { return (raw16 >> lo) & ((1 << (hi - lo + 1)) - 1) }

	bit11 := b(12)
	bit4 := b(11)
	bits9_8 := bits(10, 9)
	bit10 := b(8)
	bit6 := b(7)
	bit7 := b(6)
	bits3_1 := bits(5, 3)
	bit5 := b(2)

	var v uint32
	v |= uint32(bit11) << 11
	v |= uint32(bit10) << 10
	v |= uint32(bits9_8) << 8
	v |= uint32(bit7) << 7
	v |= uint32(bit6) << 6
	v |= uint32(bit5) << 5
	v |= uint32(bit4) << 4
	v |= uint32(bits3_1) << 1
	return int64(v)
}

// cbImm reassembles the CB-type branch immediate (C.BEQZ / C.BNEZ):
// imm[8|4:3|7:6|2:1|5] at bits 12, 11:10, 6:5, 4:3, 2.
func cbImm(raw16 uint16) int64 {
	b := func(bit uint) uint16 { return (raw16 >> bit) & 0x1 }
	bits := func(hi, lo uint) uint16 { return (raw16 >> lo) & ((1 << (hi - lo + 1)) - 1) }

	bit8 := b(12)
	bits4_3 := bits(11, 10)
	bits7_6 := bits(6, 5)
	bits2_1 := bits(4, 3)
	bit5 := b(2)

	var v uint32
	v |= uint32(bit8) << 8
	v |= uint32(bits7_6) << 6
	v |= uint32(bit5) << 5
	v |= uint32(bits4_3) << 3
	v |= uint32(bits2_1) << 1
	return int64(v)
}

// compressedReg expands a 3-bit compressed register field (x8-x15) to its
// full 5-bit index, per RVC's register-compression scheme (spec 16.2).
func compressedReg(field uint16) Reg {
	return Reg(field + 8)
}
