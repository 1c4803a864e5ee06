package trace

import (
	"testing"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/elf"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/engine"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/nexus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nop is addi x0, x0, 0.
const nop = 0x00000013

func putWord(img []byte, off int, w uint32) {
	img[off] = byte(w)
	img[off+1] = byte(w >> 8)
	img[off+2] = byte(w >> 16)
	img[off+3] = byte(w >> 24)
}

func TestCoreDirectBranchRun(t *testing.T) {
	// 0x1000: nop; 0x1004: nop; 0x1008: jal x0, +0x100 (-> 0x1108)
	img := make([]byte, 0x10)
	putWord(img, 0x00, nop)
	putWord(img, 0x04, nop)
	putWord(img, 0x08, 0x1000006f)
	disasm := elf.NewMemoryDisassembler(0x1000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)

	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x1000})
	require.NoError(t, err)
	assert.Equal(t, StateGetMsgWithCount, c.State())

	retired, err := c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 3})
	require.NoError(t, err)
	require.Len(t, retired, 3)
	assert.Equal(t, uint64(0x1000), retired[0].PC)
	assert.Equal(t, uint64(0x1004), retired[1].PC)
	assert.Equal(t, uint64(0x1008), retired[2].PC)
	assert.Equal(t, uint64(0x1108), c.pc)
	assert.Equal(t, StateGetMsgWithCount, c.State())
}

func TestCoreIndirectBranchResolvesViaUAddrXOR(t *testing.T) {
	img := make([]byte, 0x10)
	// jalr x0, ra, 0 at the sync anchor address.
	putWord(img, 0x00, 0x00008067)
	disasm := elf.NewMemoryDisassembler(0x2000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x2000})
	require.NoError(t, err)

	// target 0x3000 = lastFullAddr(0x2000) ^ (uaddr<<1) => uaddr = 0x800
	retired, err := c.Apply(nexus.Message{
		TCode: nexus.TCodeIndirectBranch, HasICnt: true, ICnt: 1,
		HasUAddr: true, UAddr: 0x800,
	})
	require.NoError(t, err)
	require.Len(t, retired, 1)
	assert.Equal(t, uint64(0x3000), c.pc)
	assert.Equal(t, uint64(0x3000), c.lastFullAddr)
}

func TestCoreDropsMessagesBeforeFirstSync(t *testing.T) {
	disasm := elf.NewMemoryDisassembler(0x1000, make([]byte, 4), 32)
	c := NewCore(0, disasm, engine.New(), 0, 40)

	retired, err := c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	assert.NoError(t, err)
	assert.Nil(t, retired)
	assert.Equal(t, StateSyncCate, c.State())
}

func TestCoreErrorThenResync(t *testing.T) {
	img := make([]byte, 0x10)
	putWord(img, 0x00, nop)
	disasm := elf.NewMemoryDisassembler(0x1000, img, 32)
	c := NewCore(0, disasm, engine.New(), 0, 40)

	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x1000})
	require.NoError(t, err)

	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeError, EVCode: 7})
	require.Error(t, err)
	assert.Equal(t, StateError, c.State())

	// Further non-sync messages are dropped while unanchored.
	retired, err := c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	assert.NoError(t, err)
	assert.Nil(t, retired)

	// A fresh Sync re-anchors the core.
	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x1000})
	require.NoError(t, err)
	assert.Equal(t, StateGetMsgWithCount, c.State())
}

func TestCoreReturnViaDirectBranchResolvesFromStack(t *testing.T) {
	// 0x4000: jal ra, +0x100 (call, pushes 0x4004); 0x4100: jalr x0, ra, 0
	// (return). Both retire under plain DirectBranch messages that carry
	// no u_addr at all, since a predictable return needs none.
	img := make([]byte, 0x200)
	putWord(img, 0x000, 0x100000ef)
	putWord(img, 0x100, 0x00008067)
	disasm := elf.NewMemoryDisassembler(0x4000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x4000})
	require.NoError(t, err)

	retired, err := c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	require.NoError(t, err)
	require.Len(t, retired, 1)
	assert.Equal(t, uint64(0x4100), c.pc)

	retired, err = c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	require.NoError(t, err)
	require.Len(t, retired, 1)
	assert.Equal(t, uint64(0x4004), c.pc)
}

func TestCoreSwapResolvesFromStack(t *testing.T) {
	// 0x5000: jalr t0, ra, 0 -- rd and rs1 both link registers, but
	// different ones: pop the old return slot for the target, then push a
	// new one at the swap site.
	img := make([]byte, 0x10)
	putWord(img, 0x00, 0x000082e7) // jalr t0, ra, 0 (rd=x5=t0, rs1=x1=ra)
	disasm := elf.NewMemoryDisassembler(0x5000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x5000})
	require.NoError(t, err)
	c.stack.Push(0x9000)

	retired, err := c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	require.NoError(t, err)
	require.Len(t, retired, 1)
	assert.Equal(t, uint64(0x9000), c.pc)

	addr, ok := c.stack.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(0x5004), addr)
}

func TestCoreResourceFullICntDrainsImmediately(t *testing.T) {
	// 0x6000: nop; 0x6004: jal x0, +0x100 (-> 0x6104). The Resource-Full
	// message must retire both instructions itself, not merely load the
	// count for some later message to consume.
	img := make([]byte, 0x10)
	putWord(img, 0x00, nop)
	putWord(img, 0x04, 0x1000006f)
	disasm := elf.NewMemoryDisassembler(0x6000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x6000})
	require.NoError(t, err)

	retired, err := c.Apply(nexus.Message{
		TCode: nexus.TCodeResourceFull, RCode: nexus.RCodeICnt, HasICnt: true, ICnt: 2,
	})
	require.NoError(t, err)
	require.Len(t, retired, 2)
	assert.Equal(t, uint64(0x6104), c.pc)
	assert.Equal(t, StateGetMsgWithCount, c.State())
}

func TestCoreResourceFullTakenDrivesConditionalBranches(t *testing.T) {
	// 0x7000: jal ra, +0x100 (call, pushes 0x7004) -> 0x7100: beq x1, x2,
	// +16 -> 0x7110: jalr x0, ra, 0 (return, pops 0x7004). A Resource-Full
	// taken=1 message must resolve the beq as taken and then the return
	// from the stack, all within the same Apply call.
	img := make([]byte, 0x200)
	putWord(img, 0x000, 0x100000ef)
	putWord(img, 0x100, 0x00208863) // beq x1, x2, +16
	putWord(img, 0x110, 0x00008067) // jalr x0, ra, 0
	disasm := elf.NewMemoryDisassembler(0x7000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x7000})
	require.NoError(t, err)

	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7100), c.pc)

	retired, err := c.Apply(nexus.Message{
		TCode: nexus.TCodeResourceFull, RCode: nexus.RCodeTaken, HasTaken: true, Taken: 1,
	})
	require.NoError(t, err)
	require.Len(t, retired, 2)
	assert.Equal(t, uint64(0x7004), c.pc)
}

func TestCoreResourceFullNotTakenFallsThrough(t *testing.T) {
	// Same shape as the taken case, but not_taken=1 must fall through the
	// beq instead of branching, landing on the jalr at 0x7104 (not 0x7110).
	img := make([]byte, 0x200)
	putWord(img, 0x000, 0x100000ef)
	putWord(img, 0x100, 0x00208863) // beq x1, x2, +16
	putWord(img, 0x104, 0x00008067) // jalr x0, ra, 0
	disasm := elf.NewMemoryDisassembler(0x7000, img, 32)

	c := NewCore(0, disasm, engine.New(), 0, 40)
	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x7000})
	require.NoError(t, err)

	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeDirectBranch, HasICnt: true, ICnt: 1})
	require.NoError(t, err)

	retired, err := c.Apply(nexus.Message{
		TCode: nexus.TCodeResourceFull, RCode: nexus.RCodeNotTaken, HasNotTaken: true, NotTaken: 1,
	})
	require.NoError(t, err)
	require.Len(t, retired, 2)
	assert.Equal(t, uint64(0x7004), c.pc)
}

func TestCoreTimestampReconstructionRelativeAndWrap(t *testing.T) {
	disasm := elf.NewMemoryDisassembler(0x1000, make([]byte, 4), 32)
	c := NewCore(0, disasm, engine.New(), 0, 4) // 4-bit ts field: wraps at 16

	_, err := c.Apply(nexus.Message{TCode: nexus.TCodeSync, HasFAddr: true, FAddr: 0x1000, HaveTS: true, TSFull: true, TStamp: 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.LastTime())

	// Relative delta: last_time(5) XOR 3 = 6, no wrap. TCodeOwnershipTrace
	// carries no count, so it only exercises timestamp reconstruction.
	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeOwnershipTrace, HaveTS: true, TSFull: false, TStamp: 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), c.LastTime())

	// A relative delta that XORs back below the current value is treated as
	// a wrap of the 4-bit timestamp field: last_time(6) XOR raw(4) = 2,
	// which is < 6, so 1<<4 is added back in.
	_, err = c.Apply(nexus.Message{TCode: nexus.TCodeOwnershipTrace, HaveTS: true, TSFull: false, TStamp: 6 ^ 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(18), c.LastTime())
}
