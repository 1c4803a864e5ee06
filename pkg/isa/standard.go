package isa

// decodeStandard classifies a 32-bit standard-width instruction. The
// encoding is identical across RV32I and RV64I for every Kind this package
// tracks (JAL/JALR/branches/ECALL/EBREAK/xRET); XLen only matters for the
// handful of compressed aliases handled in compressed.go.
func decodeStandard(raw uint32, xlen int) Instruction {
	opcode := raw & 0x7f
	funct3 := (raw >> 12) & 0x7
	rd := Reg((raw >> 7) & 0x1f)
	rs1 := Reg((raw >> 15) & 0x1f)

	inst := Instruction{Raw: raw, Size: 4, Kind: KindUnknown, RS1: RegNone, RD: RegNone, XLen: xlen}

	switch opcode {
	case 0x6f: // JAL
		inst.Kind = KindJAL
		inst.RD = rd
		inst.Imm = signExtend(jalImm(raw), 21)
		return inst

	case 0x67: // JALR
		if funct3 != 0 {
			return inst
		}
		inst.Kind = KindJALR
		inst.RD = rd
		inst.RS1 = rs1
		inst.Imm = signExtend(int64(raw)>>20, 12)
		return inst

	case 0x63: // branches
		switch funct3 {
		case 0x0:
			inst.Kind = KindBEQ
		case 0x1:
			inst.Kind = KindBNE
		case 0x4:
			inst.Kind = KindBLT
		case 0x5:
			inst.Kind = KindBGE
		case 0x6:
			inst.Kind = KindBLTU
		case 0x7:
			inst.Kind = KindBGEU
		default:
			return inst
		}
		inst.RS1 = rs1
		inst.Imm = signExtend(bImm(raw), 13)
		return inst

	case 0x73: // SYSTEM
		if funct3 != 0 {
			return inst
		}
		imm := (raw >> 20) & 0xfff
		switch imm {
		case 0x000:
			inst.Kind = KindECALL
		case 0x001:
			inst.Kind = KindEBREAK
		case 0x302:
			inst.Kind = KindMRET
		case 0x102:
			inst.Kind = KindSRET
		case 0x002:
			inst.Kind = KindURET
		}
		return inst
	}

	return inst
}

// jalImm extracts and reassembles the JAL immediate (scaled to bytes, not
// yet sign-extended): imm[20|10:1|11|19:12] at bits 31, 30:21, 20, 19:12.
func jalImm(raw uint32) int64 {
	bit20 := (raw >> 31) & 0x1
	bits10_1 := (raw >> 21) & 0x3ff
	bit11 := (raw >> 20) & 0x1
	bits19_12 := (raw >> 12) & 0xff
	return int64(bit20<<20 | bits19_12<<12 | bit11<<11 | bits10_1<<1)
}

// bImm extracts and reassembles the branch-type immediate:
// imm[12|10:5|4:1|11] at bits 31, 30:25, 11:8, 7.
func bImm(raw uint32) int64 {
	bit12 := (raw >> 31) & 0x1
	bits10_5 := (raw >> 25) & 0x3f
	bits4_1 := (raw >> 8) & 0xf
	bit11 := (raw >> 7) & 0x1
	return int64(bit12<<12 | bit11<<11 | bits10_5<<5 | bits4_1<<1)
}

// signExtend sign-extends the low `bits` bits of v.
func signExtend(v int64, bits uint) int64 {
	shift := 64 - bits
	return (v << shift) >> shift
}
