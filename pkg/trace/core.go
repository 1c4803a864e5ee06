package trace

import (
	"fmt"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/elf"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/engine"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/isa"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/nexus"
)

// maxReplaySteps bounds a single message's instruction replay so a
// corrupted or misconfigured trace can never spin the decoder forever
// (spec §9, "bounded replay").
const maxReplaySteps = 1 << 20

// RetiredInstruction is emitted once per instruction the replay walks
// over, in program order, for histogram aggregation.
type RetiredInstruction struct {
	CoreID int
	PC     uint64
	Kind   isa.Kind
}

// Core is the per-hardware-core reconstruction state machine. It owns no
// goroutine or channel of its own; Decoder drives it message by message.
type Core struct {
	id    int
	state State

	disasm elf.Disassembler
	counts *engine.Engine
	stack  *engine.ReturnStack

	pc           uint64
	lastFullAddr uint64

	lastTS uint64
	haveTS bool
	tsBits int
}

// NewCore creates a core that fetches instructions from disasm and shares
// the count engine counts (indexed by id) with its siblings. tsBits is the
// configured timestamp field width (spec §4.5's wrap-detection mask); 0 or
// values >= 64 disable wrap adjustment: full timestamps are taken verbatim
// and relative ones are XORed in with no wrap correction.
func NewCore(id int, disasm elf.Disassembler, counts *engine.Engine, stackCapacity, tsBits int) *Core {
	return &Core{
		id:     id,
		state:  StateSyncCate,
		disasm: disasm,
		counts: counts,
		stack:  engine.NewReturnStack(stackCapacity),
		tsBits: tsBits,
	}
}

// LastTime reports the core's most recently reconstructed timestamp (spec
// §3 per-core state, `last_time`).
func (c *Core) LastTime() uint64 {
	return c.lastTS
}

// applyTimestamp reconstructs last_time from a message's raw timestamp
// field per spec §4.5: a full timestamp replaces the low tsBits bits of
// last_time and preserves the high bits; a relative timestamp XORs the
// delta in. Either way, if the result appears to have gone backwards the
// high-order bit above tsBits is assumed to have wrapped and is added back
// in (monotonic reconstruction, spec P5).
func (c *Core) applyTimestamp(msg nexus.Message) {
	if !msg.HaveTS {
		return
	}
	if !c.haveTS {
		c.lastTS = msg.TStamp
		c.haveTS = true
		return
	}

	var next uint64
	if c.tsBits <= 0 || c.tsBits >= 64 {
		if msg.TSFull {
			next = msg.TStamp
		} else {
			next = c.lastTS ^ msg.TStamp
		}
		c.lastTS = next
		return
	}

	mask := uint64(1)<<uint(c.tsBits) - 1
	if msg.TSFull {
		next = (msg.TStamp & mask) | (c.lastTS &^ mask)
	} else {
		next = c.lastTS ^ msg.TStamp
	}
	if next < c.lastTS {
		next += uint64(1) << uint(c.tsBits)
	}
	c.lastTS = next
}

// State reports the core's current reconstruction state.
func (c *Core) State() State {
	return c.state
}

// Apply feeds one decoded message to the core. It returns the instructions
// retired while processing it, in program order, and any error. On error
// the core transitions to StateError; every subsequent non-sync Apply call
// then returns (nil, nil) and retires nothing until a Sync/`_WS` message
// re-anchors it (spec §7, §9 "lenient re-anchor").
func (c *Core) Apply(msg nexus.Message) ([]RetiredInstruction, error) {
	c.applyTimestamp(msg)

	if msg.TCode.IsWS() || msg.TCode == nexus.TCodeSync {
		return c.applySync(msg)
	}

	switch c.state {
	case StateSyncCate, StateGetFirstSyncMsg, StateError:
		// Anything other than a sync-class message is dropped silently
		// while unanchored; this is normal stream startup, not an error.
		return nil, nil
	}

	switch msg.TCode {
	case nexus.TCodeDirectBranch, nexus.TCodeRepeatBranch, nexus.TCodeRepeatInstruction,
		nexus.TCodeCorrelationMsg:
		return c.replayICntRun(msg, nil)

	case nexus.TCodeIndirectBranch:
		return c.replayICntRun(msg, &msg)

	case nexus.TCodeIndirectBranchHistory:
		return c.replayHistoryRun(msg, &msg)

	case nexus.TCodeResourceFull:
		return c.applyResourceFull(msg)

	case nexus.TCodeError:
		c.state = StateError
		return nil, fmt.Errorf("trace: core %d: device reported error 0x%02x", c.id, msg.EVCode)

	default:
		// Data/aux/watchpoint/portreplacement/ICT messages don't move the
		// PC (spec Non-goals); nothing to retire.
		return nil, nil
	}
}

func (c *Core) applySync(msg nexus.Message) ([]RetiredInstruction, error) {
	c.counts.Reset(c.id)
	c.stack.Clear()

	if msg.HasFAddr {
		c.pc = msg.FAddr
		c.lastFullAddr = msg.FAddr
	}

	if msg.TCode == nexus.TCodeIndirectBranchHistoryWS && msg.HasHistory {
		if err := c.counts.LoadHistory(c.id, msg.History, msg.HistBits); err != nil {
			return nil, err
		}
	}

	c.state = StateGetMsgWithCount
	return nil, nil
}

// replayICntRun retires instructions until the message's i_cnt is
// exhausted at a branch-class instruction, then resolves the new PC:
// statically for a direct branch, from the return stack for a
// decoder-predictable return/swap jalr, or from indirectMsg.UAddr for any
// other indirect one. Non-taken conditional branches are folded
// transparently into the run (BTM semantics, spec §4.4).
func (c *Core) replayICntRun(msg nexus.Message, indirectMsg *nexus.Message) ([]RetiredInstruction, error) {
	if !msg.HasICnt {
		c.state = StateError
		return nil, fmt.Errorf("%w: core %d tcode %s missing i_cnt", ErrUnexpectedMessage, c.id, msg.TCode)
	}
	if err := c.counts.LoadICnt(c.id, msg.ICnt); err != nil {
		return nil, err
	}

	var retired []RetiredInstruction
	for steps := 0; steps < maxReplaySteps; steps++ {
		inst, err := c.fetch(c.pc)
		if err != nil {
			c.state = StateError
			return retired, err
		}
		retired = append(retired, RetiredInstruction{CoreID: c.id, PC: c.pc, Kind: inst.Kind})
		resolvedPC, resolved := c.trackCallReturn(inst)

		remaining, err := c.counts.ConsumeICnt(c.id, 1)
		if err != nil {
			c.state = StateError
			return retired, err
		}

		branching := inst.Kind.IsBranch() || inst.Kind.IsUncondDirect() || inst.Kind.IsIndirect()
		if remaining > 0 || !branching {
			c.pc += uint64(inst.Size)
			continue
		}

		// remaining == 0 at a branch-class instruction: this is the
		// event the message reports.
		switch {
		case inst.Kind.IsIndirect():
			switch {
			case resolved:
				c.pc = resolvedPC
			case indirectMsg != nil && indirectMsg.HasUAddr:
				c.pc = c.lastFullAddr ^ (indirectMsg.UAddr << 1)
			default:
				c.state = StateError
				return retired, fmt.Errorf("%w: core %d indirect branch without u_addr", ErrUnexpectedMessage, c.id)
			}
			c.lastFullAddr = c.pc
		case inst.Kind.IsUncondDirect(), inst.Kind.IsBranch():
			c.pc = uint64(int64(c.pc) + inst.Imm)
		}
		c.state = StateGetMsgWithCount
		return retired, nil
	}
	c.state = StateError
	return retired, fmt.Errorf("%w: core %d", ErrNoBranchAtCount, c.id)
}

// replayHistoryRun is the HTM counterpart of replayICntRun: it has no
// bounded i_cnt, instead consuming one count per conditional branch
// encountered (from whichever of history/taken/not_taken is currently
// loaded, spec §4.3) until it reaches the indirect branch that ends the
// message. indirectMsg supplies the message's u_addr when one is
// available; a Resource-Full-sourced run passes nil, since that TCODE
// carries no address at all — an indirect branch it reaches can only be
// resolved here if it is a decoder-predictable return or swap.
func (c *Core) replayHistoryRun(msg nexus.Message, indirectMsg *nexus.Message) ([]RetiredInstruction, error) {
	if msg.HasHistory {
		if err := c.counts.LoadHistory(c.id, msg.History, msg.HistBits); err != nil {
			return nil, err
		}
	}

	var retired []RetiredInstruction
	for steps := 0; steps < maxReplaySteps; steps++ {
		inst, err := c.fetch(c.pc)
		if err != nil {
			c.state = StateError
			return retired, err
		}
		retired = append(retired, RetiredInstruction{CoreID: c.id, PC: c.pc, Kind: inst.Kind})
		resolvedPC, resolved := c.trackCallReturn(inst)

		switch {
		case inst.Kind.IsIndirect():
			switch {
			case resolved:
				c.pc = resolvedPC
			case indirectMsg != nil && indirectMsg.HasUAddr:
				c.pc = c.lastFullAddr ^ (indirectMsg.UAddr << 1)
			default:
				c.state = StateError
				return retired, fmt.Errorf("%w: core %d indirect-branch-history without u_addr", ErrUnexpectedMessage, c.id)
			}
			c.lastFullAddr = c.pc
			c.state = StateGetMsgWithCount
			return retired, nil

		case inst.Kind.IsBranch():
			taken, err := c.consumeBranchDirection()
			if err != nil {
				c.state = StateError
				return retired, err
			}
			if taken {
				c.pc = uint64(int64(c.pc) + inst.Imm)
			} else {
				c.pc += uint64(inst.Size)
			}

		case inst.Kind.IsUncondDirect():
			c.pc = uint64(int64(c.pc) + inst.Imm)

		default:
			c.pc += uint64(inst.Size)
		}
	}
	c.state = StateError
	return retired, fmt.Errorf("%w: core %d", ErrNoBranchAtCount, c.id)
}

// consumeBranchDirection resolves one conditional branch's direction from
// whichever count kind is currently loaded for the core: history is
// consumed per-bit, while a Resource-Full-sourced taken/not_taken run
// resolves every branch to the same fixed direction until its count is
// exhausted (spec §4.3; original_source COUNTTYPE_taken/COUNTTYPE_notTaken).
func (c *Core) consumeBranchDirection() (bool, error) {
	kind, err := c.counts.CurrentKind(c.id)
	if err != nil {
		return false, err
	}
	switch kind {
	case engine.KindHistory:
		return c.counts.ConsumeHistory(c.id)
	case engine.KindTaken:
		if err := c.counts.ConsumeTaken(c.id); err != nil {
			return false, err
		}
		return true, nil
	case engine.KindNotTaken:
		if err := c.counts.ConsumeNotTaken(c.id); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: core %d: conditional branch with no history/taken/not_taken count loaded", ErrUnexpectedMessage, c.id)
	}
}

// applyResourceFull drains the count a Resource-Full message carries
// through the same replay loops any other count-bearing message uses,
// rather than merely loading it: Resource-Full is a first-class count
// source (spec §4.5, "GetMsgWithCount ... load counts from the next
// count-bearing message ... → GetNextInstruction"), and a count left
// sitting unconsumed would be silently clobbered by the next message's own
// Load call.
func (c *Core) applyResourceFull(msg nexus.Message) ([]RetiredInstruction, error) {
	switch msg.RCode {
	case nexus.RCodeICnt:
		return c.replayICntRun(msg, nil)
	case nexus.RCodeHistory:
		return c.replayHistoryRun(msg, nil)
	case nexus.RCodeTaken:
		if err := c.counts.LoadTaken(c.id, msg.Taken); err != nil {
			return nil, err
		}
		return c.replayHistoryRun(nexus.Message{}, nil)
	case nexus.RCodeNotTaken:
		if err := c.counts.LoadNotTaken(c.id, msg.NotTaken); err != nil {
			return nil, err
		}
		return c.replayHistoryRun(nexus.Message{}, nil)
	}
	return nil, nil
}

func (c *Core) fetch(pc uint64) (isa.Instruction, error) {
	raw, err := c.disasm.FetchRaw(pc)
	if err != nil {
		return isa.Instruction{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return isa.Decode(raw, c.disasm.XLen()), nil
}

// trackCallReturn maintains the return-address predictor and, for
// return/swap-shaped indirect jumps, resolves the next PC directly from the
// stack rather than from any trace message's address field: per
// original_source's nextAddr() (INST_JALR), `pc = counts->pop(core)` drives
// those two cases unconditionally, with no reference to the retiring
// message at all. ok reports whether resolved is such a decoder-predicted
// value; callers must fall back to the message's u_addr only when ok is
// false — the two call shapes a return-address stack cannot predict
// (rd a link register, with rs1 not a link register, or rd == rs1).
func (c *Core) trackCallReturn(inst isa.Instruction) (resolved uint64, ok bool) {
	if !inst.Kind.IsIndirect() {
		if inst.RD.IsLink() {
			c.stack.Push(c.pc + uint64(inst.Size))
		}
		return 0, false
	}

	switch {
	case inst.RD.IsLink() && inst.RS1.IsLink() && inst.RD != inst.RS1:
		// swap: jalr rd,rs1 with rd and rs1 both link registers, but
		// different ones — resolve via pop, then push the new return slot.
		addr, popped := c.stack.Pop()
		c.stack.Push(c.pc + uint64(inst.Size))
		return addr, popped
	case !inst.RD.IsLink() && inst.RS1.IsLink():
		// return: jalr x0,rs1 (or c.jr rs1) with rs1 a link register.
		return c.stack.Pop()
	case inst.RD.IsLink():
		// call: rd a link register, with rs1 not a link register (or
		// rd == rs1) — not predictable from the stack alone.
		c.stack.Push(c.pc + uint64(inst.Size))
	}
	return 0, false
}
