package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStandard(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint32
		xlen     int
		wantKind Kind
		wantRS1  Reg
		wantRD   Reg
		wantImm  int64
	}{
		{
			name:     "JAL ra, +0x100",
			raw:      encodeJAL(RegRA, 0x100),
			xlen:     64,
			wantKind: KindJAL,
			wantRS1:  RegNone,
			wantRD:   RegRA,
			wantImm:  0x100,
		},
		{
			name:     "JALR ra, 0(t0)",
			raw:      encodeJALR(RegRA, RegT0, 0),
			xlen:     64,
			wantKind: KindJALR,
			wantRS1:  RegT0,
			wantRD:   RegRA,
			wantImm:  0,
		},
		{
			name:     "JALR x0, 0(ra) - return",
			raw:      encodeJALR(0, RegRA, 0),
			xlen:     32,
			wantKind: KindJALR,
			wantRS1:  RegRA,
			wantRD:   0,
			wantImm:  0,
		},
		{
			name:     "BEQ x1, x2, +16",
			raw:      encodeBranch(0x0, 1, 2, 16),
			xlen:     32,
			wantKind: KindBEQ,
			wantRS1:  1,
			wantImm:  16,
		},
		{
			name:     "BNE negative offset",
			raw:      encodeBranch(0x1, 3, 4, -8),
			xlen:     32,
			wantKind: KindBNE,
			wantRS1:  3,
			wantImm:  -8,
		},
		{
			name:     "ECALL",
			raw:      0x00000073,
			xlen:     64,
			wantKind: KindECALL,
		},
		{
			name:     "EBREAK",
			raw:      0x00100073,
			xlen:     64,
			wantKind: KindEBREAK,
		},
		{
			name:     "MRET",
			raw:      0x30200073,
			xlen:     64,
			wantKind: KindMRET,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Decode(tt.raw, tt.xlen)
			require.Equal(t, tt.wantKind, inst.Kind)
			assert.Equal(t, 4, inst.Size)
			if tt.wantRS1 != 0 || tt.wantKind == KindBEQ || tt.wantKind == KindBNE {
				assert.Equal(t, tt.wantRS1, inst.RS1)
			}
			assert.Equal(t, tt.wantImm, inst.Imm)
		})
	}
}

func TestDecodeCompressed(t *testing.T) {
	tests := []struct {
		name     string
		raw16    uint16
		xlen     int
		wantKind Kind
	}{
		{"C.J", 0xa001, 64, KindCJ},
		{"C.JAL on RV32", 0x2001, 32, KindCJAL},
		{"C.JAL alias is C.ADDIW on RV64", 0x2001, 64, KindUnknown},
		{"C.JR ra", 0x8082, 64, KindCJR},
		{"C.JALR ra", 0x9082, 64, KindCJALR},
		{"C.EBREAK", 0x9002, 64, KindCEBREAK},
		{"C.BEQZ", 0xc781, 32, KindCBEQZ},
		{"C.BNEZ", 0xe781, 32, KindCBNEZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := Decode(uint32(tt.raw16), tt.xlen)
			require.Equal(t, tt.wantKind, inst.Kind)
			assert.Equal(t, 2, inst.Size)
		})
	}
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed(0x0001))
	assert.True(t, IsCompressed(0xa001))
	assert.False(t, IsCompressed(0x0003))
	assert.False(t, IsCompressed(0x006f))
}

func TestKindIsBranch(t *testing.T) {
	assert.True(t, KindBEQ.IsBranch())
	assert.True(t, KindCBEQZ.IsBranch())
	assert.False(t, KindJAL.IsBranch())
	assert.False(t, KindUnknown.IsBranch())
}

// --- test-only encoders, mirroring the bit layouts in standard.go ---

func encodeJAL(rd Reg, imm int32) uint32 {
	u := uint32(imm)
	bit20 := (u >> 20) & 0x1
	bits10_1 := (u >> 1) & 0x3ff
	bit11 := (u >> 11) & 0x1
	bits19_12 := (u >> 12) & 0xff
	return bit20<<31 | bits10_1<<21 | bit11<<20 | bits19_12<<12 | uint32(rd)<<7 | 0x6f
}

func encodeJALR(rd, rs1 Reg, imm int32) uint32 {
	return uint32(imm)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | 0x67
}

func encodeBranch(funct3 uint32, rs1, rs2 Reg, imm int32) uint32 {
	u := uint32(imm)
	bit12 := (u >> 12) & 0x1
	bits10_5 := (u >> 5) & 0x3f
	bits4_1 := (u >> 1) & 0xf
	bit11 := (u >> 11) & 0x1
	return bit12<<31 | bits10_5<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | bits4_1<<8 | bit11<<7 | 0x63
}
