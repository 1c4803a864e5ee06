package isa

// Decode classifies the instruction whose first 16 bits are low16 and, if
// the instruction is standard-width (quadrant != 0b11 in the low two bits
// means compressed; 0b11 means standard 32-bit), whose full 32 bits are
// raw32. xlen must be 32 or 64 and selects the table used to resolve the
// handful of RV32/RV64 compressed aliases (see compressed.go).
//
// Callers that only have 16 bits available (e.g. peeking at an instruction
// boundary) should call DecodeSize first to know whether a second halfword
// must be fetched.
func Decode(raw32 uint32, xlen int) Instruction {
	low16 := uint16(raw32)
	if IsCompressed(low16) {
		return decodeCompressed(low16, xlen)
	}
	return decodeStandard(raw32, xlen)
}

// IsCompressed reports whether the 16-bit value's quadrant bits indicate a
// compressed (2-byte) instruction. Per the RVC spec, quadrant 0b11 is
// reserved for standard-width instructions; all other quadrants are
// compressed.
func IsCompressed(low16 uint16) bool {
	return low16&0x3 != 0x3
}

// SizeOf returns the instruction size (2 or 4 bytes) given only the first
// 16 bits, without fully decoding.
func SizeOf(low16 uint16) int {
	if IsCompressed(low16) {
		return 2
	}
	return 4
}
