// Package isa classifies RISC-V RV32/RV64 instructions (standard + compressed
// "C" extension) for trace reconstruction. It answers exactly one question:
// given the raw bits at a retired PC, what size was the instruction, what
// control-flow kind is it, and what are the operands the state machine needs
// (rs1, rd, sign-extended immediate)?
//
// This package has no notion of memory, registers, or execution; it is pure
// decode, grounded on the RISC-V unprivileged ISA manual, chapters 2 (RV32I),
// 4 (RV64I) and 16 (RVC).
package isa

// Kind identifies the control-flow shape of a decoded instruction. Only the
// instructions the reconstruction state machine must special-case get their
// own Kind; everything else decodes as KindUnknown (a "scalar" instruction
// that falls through to pc+size).
type Kind int

const (
	KindUnknown Kind = iota
	KindJAL
	KindJALR
	KindBEQ
	KindBNE
	KindBLT
	KindBGE
	KindBLTU
	KindBGEU
	KindCJ
	KindCJAL
	KindCJR
	KindCJALR
	KindCBEQZ
	KindCBNEZ
	KindEBREAK
	KindCEBREAK
	KindECALL
	KindMRET
	KindSRET
	KindURET
)

//go:generate stringer -type=Kind

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindJAL:
		return "jal"
	case KindJALR:
		return "jalr"
	case KindBEQ:
		return "beq"
	case KindBNE:
		return "bne"
	case KindBLT:
		return "blt"
	case KindBGE:
		return "bge"
	case KindBLTU:
		return "bltu"
	case KindBGEU:
		return "bgeu"
	case KindCJ:
		return "c.j"
	case KindCJAL:
		return "c.jal"
	case KindCJR:
		return "c.jr"
	case KindCJALR:
		return "c.jalr"
	case KindCBEQZ:
		return "c.beqz"
	case KindCBNEZ:
		return "c.bnez"
	case KindEBREAK:
		return "ebreak"
	case KindCEBREAK:
		return "c.ebreak"
	case KindECALL:
		return "ecall"
	case KindMRET:
		return "mret"
	case KindSRET:
		return "sret"
	case KindURET:
		return "uret"
	default:
		return "unknown"
	}
}

// IsBranch reports whether the instruction is a conditional branch whose
// direction is governed by history/taken/not-taken counts rather than a
// statically-known target.
func (k Kind) IsBranch() bool {
	switch k {
	case KindBEQ, KindBNE, KindBLT, KindBGE, KindBLTU, KindBGEU, KindCBEQZ, KindCBNEZ:
		return true
	default:
		return false
	}
}

// IsUncondDirect reports whether the instruction is an unconditional jump
// to a statically-known (PC-relative) target: jal, c.j, c.jal.
func (k Kind) IsUncondDirect() bool {
	switch k {
	case KindJAL, KindCJ, KindCJAL:
		return true
	default:
		return false
	}
}

// IsIndirect reports whether the instruction's target comes from a
// register and is therefore only known from the trace stream: jalr, c.jr,
// c.jalr.
func (k Kind) IsIndirect() bool {
	switch k {
	case KindJALR, KindCJR, KindCJALR:
		return true
	default:
		return false
	}
}

// Reg holds a 5-bit RISC-V register index. RegNone marks "not applicable"
// (e.g. rs1 on an instruction that has none).
type Reg int8

const RegNone Reg = -1

// Link registers per the RISC-V calling convention: x1 (ra) and x5 (t0) are
// the two registers the ABI permits JALR/JAL call/return inference to use
// (RISC-V unprivileged spec, 2.5.1 "Unconditional Jumps").
const (
	RegRA Reg = 1
	RegT0 Reg = 5
)

// IsLink reports whether r is one of the two link registers recognized by
// the return-address predictor.
func (r Reg) IsLink() bool {
	return r == RegRA || r == RegT0
}

// Instruction is the fully decoded result the state machine consumes.
type Instruction struct {
	Raw   uint32 // raw instruction bits as fetched (16 or 32 significant bits)
	Size  int    // instruction size in bytes: 2 (compressed) or 4 (standard)
	Kind  Kind
	RS1   Reg
	RD    Reg
	Imm   int64 // sign-extended, already scaled to bytes (not instruction units)
	XLen  int   // 32 or 64, the table this instruction was decoded against
}
