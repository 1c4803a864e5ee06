// Package nexus decodes a Nexus (IEEE-ISTO 5001 class) trace byte stream
// into structured messages. Framing and per-TCODE field layout follow
// spec §4.2; the TCODE enumeration itself follows the reference decoder's
// TraceDqrProfiler::TCodeType (see original_source/include/dqr_profiler.h).
package nexus

// TCODE is the 6-bit message type discriminator that opens every Nexus
// message.
type TCODE uint8

const (
	TCodeDebugStatus              TCODE = 0
	TCodeDeviceID                 TCODE = 1
	TCodeOwnershipTrace           TCODE = 2
	TCodeDirectBranch             TCODE = 3
	TCodeIndirectBranch           TCODE = 4
	TCodeDataWrite                TCODE = 5
	TCodeDataRead                 TCODE = 6
	TCodeDataAcquisition          TCODE = 7
	TCodeError                    TCODE = 8
	TCodeSync                     TCODE = 9
	TCodeCorrelation              TCODE = 10
	TCodeDirectBranchWS           TCODE = 11
	TCodeIndirectBranchWS         TCODE = 12
	TCodeDataWriteWS              TCODE = 13
	TCodeDataReadWS               TCODE = 14
	TCodeWatchpoint               TCODE = 15
	TCodeOutputPortReplacement    TCODE = 20
	TCodeInputPortReplacement     TCODE = 21
	TCodeAuxAccessRead            TCODE = 22
	TCodeAuxAccessWrite           TCODE = 23
	TCodeAuxAccessReadNext        TCODE = 24
	TCodeAuxAccessWriteNext       TCODE = 25
	TCodeAuxAccessResponse        TCODE = 26
	TCodeResourceFull             TCODE = 27
	TCodeIndirectBranchHistory    TCODE = 28
	TCodeIndirectBranchHistoryWS  TCODE = 29
	TCodeRepeatBranch             TCODE = 30
	TCodeRepeatInstruction        TCODE = 31
	TCodeRepeatInstructionWS      TCODE = 32
	TCodeCorrelationMsg           TCODE = 33 // "Correlation" per spec §3; distinct slot from TCodeCorrelation (10), which the reference enum reserves but does not emit
	TCodeInCircuitTrace           TCODE = 34
	TCodeInCircuitTraceWS         TCODE = 35
	tcodeUndefined                TCODE = 63
)

func (t TCODE) String() string {
	switch t {
	case TCodeDebugStatus:
		return "DEBUG_STATUS"
	case TCodeDeviceID:
		return "DEVICE_ID"
	case TCodeOwnershipTrace:
		return "OWNERSHIP_TRACE"
	case TCodeDirectBranch:
		return "DIRECT_BRANCH"
	case TCodeIndirectBranch:
		return "INDIRECT_BRANCH"
	case TCodeDataWrite:
		return "DATA_WRITE"
	case TCodeDataRead:
		return "DATA_READ"
	case TCodeDataAcquisition:
		return "DATA_ACQUISITION"
	case TCodeError:
		return "ERROR"
	case TCodeSync:
		return "SYNC"
	case TCodeCorrelation:
		return "CORRECTION"
	case TCodeDirectBranchWS:
		return "DIRECT_BRANCH_WS"
	case TCodeIndirectBranchWS:
		return "INDIRECT_BRANCH_WS"
	case TCodeDataWriteWS:
		return "DATA_WRITE_WS"
	case TCodeDataReadWS:
		return "DATA_READ_WS"
	case TCodeWatchpoint:
		return "WATCHPOINT"
	case TCodeOutputPortReplacement:
		return "OUTPUT_PORTREPLACEMENT"
	case TCodeInputPortReplacement:
		return "INPUT_PORTREPLACEMENT"
	case TCodeAuxAccessRead:
		return "AUXACCESS_READ"
	case TCodeAuxAccessWrite:
		return "AUXACCESS_WRITE"
	case TCodeAuxAccessReadNext:
		return "AUXACCESS_READNEXT"
	case TCodeAuxAccessWriteNext:
		return "AUXACCESS_WRITENEXT"
	case TCodeAuxAccessResponse:
		return "AUXACCESS_RESPONSE"
	case TCodeResourceFull:
		return "RESOURCEFULL"
	case TCodeIndirectBranchHistory:
		return "INDIRECTBRANCHHISTORY"
	case TCodeIndirectBranchHistoryWS:
		return "INDIRECTBRANCHHISTORY_WS"
	case TCodeRepeatBranch:
		return "REPEATBRANCH"
	case TCodeRepeatInstruction:
		return "REPEATINSTRUCTION"
	case TCodeRepeatInstructionWS:
		return "REPEATINSTRUCTION_WS"
	case TCodeCorrelationMsg:
		return "CORRELATION"
	case TCodeInCircuitTrace:
		return "INCIRCUITTRACE"
	case TCodeInCircuitTraceWS:
		return "INCIRCUITTRACE_WS"
	default:
		return "UNDEFINED"
	}
}

// IsWS reports whether t is a "with sync" variant, which resets per-core
// count state and the return stack (spec §3 invariants).
func (t TCODE) IsWS() bool {
	switch t {
	case TCodeDirectBranchWS, TCodeIndirectBranchWS, TCodeDataWriteWS, TCodeDataReadWS,
		TCodeIndirectBranchHistoryWS, TCodeRepeatInstructionWS, TCodeInCircuitTraceWS:
		return true
	default:
		return false
	}
}

// SyncReason is the reason code carried by Sync and `_WS` messages.
type SyncReason uint8

const (
	SyncEVTI               SyncReason = 0
	SyncExitReset          SyncReason = 1
	SyncTCnt               SyncReason = 2
	SyncExitDebug          SyncReason = 3
	SyncICntOverflow       SyncReason = 4
	SyncTraceEnable        SyncReason = 5
	SyncWatchpoint         SyncReason = 6
	SyncFIFOOverrun        SyncReason = 7
	SyncExitPowerdown      SyncReason = 9
	SyncMessageContention  SyncReason = 11
	SyncPCSample           SyncReason = 15
	SyncNone               SyncReason = 255
)

func (r SyncReason) String() string {
	switch r {
	case SyncEVTI:
		return "EVTI"
	case SyncExitReset:
		return "EXIT_RESET"
	case SyncTCnt:
		return "T_CNT"
	case SyncExitDebug:
		return "EXIT_DEBUG"
	case SyncICntOverflow:
		return "I_CNT_OVERFLOW"
	case SyncTraceEnable:
		return "TRACE_ENABLE"
	case SyncWatchpoint:
		return "WATCHPOINT"
	case SyncFIFOOverrun:
		return "FIFO_OVERRUN"
	case SyncExitPowerdown:
		return "EXIT_POWERDOWN"
	case SyncMessageContention:
		return "MESSAGE_CONTENTION"
	case SyncPCSample:
		return "PC_SAMPLE"
	default:
		return "NONE"
	}
}

// BType discriminates the kind of indirect branch (spec §3).
type BType uint8

const (
	BTypeIndirect  BType = 0
	BTypeException BType = 1
	BTypeHardware  BType = 2
)

func (b BType) String() string {
	switch b {
	case BTypeIndirect:
		return "indirect"
	case BTypeException:
		return "exception"
	case BTypeHardware:
		return "hardware"
	default:
		return "undefined"
	}
}

// RCode selects which count field a Resource-Full message populates
// (spec §3, "Resource-Full").
type RCode uint8

const (
	RCodeICnt     RCode = 0
	RCodeHistory  RCode = 1
	RCodeTaken    RCode = 2
	RCodeNotTaken RCode = 3
)

// ICTReason discriminates the kind of In-Circuit-Trace event.
type ICTReason uint8

const (
	ICTControl      ICTReason = 0
	ICTExtTrig      ICTReason = 8
	ICTInferableCall ICTReason = 9
	ICTException    ICTReason = 10
	ICTInterrupt    ICTReason = 11
	ICTContext      ICTReason = 13
	ICTWatchpoint   ICTReason = 14
	ICTPCSample     ICTReason = 15
)
