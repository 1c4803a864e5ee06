package nexus

// decode parses one fully-buffered wire message (raw, trailer bits still
// present, last byte's trailer is mseoMsgEnd) into a Message. Field layout
// per TCODE follows spec §4.2/§4.3; srcBits is the configured width of the
// core-id field (spec §4.4, multi-core routing).
func decode(raw []byte, srcBits int) (Message, error) {
	c := newBitCursor(raw)

	tcodeVal, err := c.readFixed(6)
	if err != nil {
		return Message{}, err
	}
	tcode := TCODE(tcodeVal)

	msg := Message{TCode: tcode, WireBytes: len(raw)}

	if srcBits > 0 {
		switch tcode {
		case TCodeDebugStatus, TCodeError:
			// not source-routed
		default:
			src, err := c.readFixed(srcBits)
			if err != nil {
				return Message{}, err
			}
			msg.SrcID = int(src)
		}
	}

	switch tcode {
	case TCodeSync, TCodeDirectBranchWS, TCodeIndirectBranchWS,
		TCodeIndirectBranchHistoryWS, TCodeRepeatInstructionWS, TCodeInCircuitTraceWS:
		if err := decodeSyncClass(c, tcode, &msg); err != nil {
			return Message{}, err
		}

	case TCodeDirectBranch:
		trailer, err := decodeICnt(c, &msg)
		if err != nil {
			return Message{}, err
		}
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeIndirectBranch:
		if _, err := decodeICnt(c, &msg); err != nil {
			return Message{}, err
		}
		bt, err := c.readFixed(2)
		if err != nil {
			return Message{}, err
		}
		msg.BType = BType(bt)
		uaddr, trailer, err := c.readVar()
		if err != nil {
			return Message{}, err
		}
		msg.HasUAddr = true
		msg.UAddr = uaddr
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeIndirectBranchHistory:
		bt, err := c.readFixed(2)
		if err != nil {
			return Message{}, err
		}
		msg.BType = BType(bt)
		uaddr, _, err := c.readVar()
		if err != nil {
			return Message{}, err
		}
		msg.HasUAddr = true
		msg.UAddr = uaddr
		hist, histBits, trailer, err := decodeHistory(c)
		if err != nil {
			return Message{}, err
		}
		msg.HasHistory = true
		msg.History = hist
		msg.HistBits = histBits
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeResourceFull:
		rcode, err := c.readFixed(2)
		if err != nil {
			return Message{}, err
		}
		msg.RCode = RCode(rcode)
		val, trailer, err := c.readVar()
		if err != nil {
			return Message{}, err
		}
		switch msg.RCode {
		case RCodeICnt:
			msg.HasICnt = true
			msg.ICnt = uint32(val)
		case RCodeHistory:
			msg.HasHistory = true
			msg.History = val
			msg.HistBits = 64
		case RCodeTaken:
			msg.HasTaken = true
			msg.Taken = uint32(val)
		case RCodeNotTaken:
			msg.HasNotTaken = true
			msg.NotTaken = uint32(val)
		}
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeError:
		etype, trailer, err := c.readVar()
		if err != nil {
			return Message{}, err
		}
		msg.EVCode = uint8(etype)
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeCorrelationMsg:
		trailer, err := decodeICnt(c, &msg)
		if err != nil {
			return Message{}, err
		}
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeRepeatBranch, TCodeRepeatInstruction:
		trailer, err := decodeICnt(c, &msg)
		if err != nil {
			return Message{}, err
		}
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeInCircuitTrace:
		ict, err := c.readFixed(4)
		if err != nil {
			return Message{}, err
		}
		msg.ICTReason = ICTReason(ict)
		_, trailer, err := c.readVar() // ICT payload, not interpreted (spec non-goal)
		if err != nil {
			return Message{}, err
		}
		if err := readOptionalTimestamp(c, trailer, &msg); err != nil {
			return Message{}, err
		}

	case TCodeDebugStatus, TCodeDeviceID, TCodeOwnershipTrace,
		TCodeDataWrite, TCodeDataRead, TCodeDataAcquisition,
		TCodeDataWriteWS, TCodeDataReadWS, TCodeWatchpoint,
		TCodeOutputPortReplacement, TCodeInputPortReplacement,
		TCodeAuxAccessRead, TCodeAuxAccessWrite, TCodeAuxAccessReadNext,
		TCodeAuxAccessWriteNext, TCodeAuxAccessResponse:
		// Framed but not interpreted: these never mutate PC, count, or
		// timestamp state (spec Non-goals). We still have to consume
		// their variable payload so the cursor lands on the message's
		// trailing MSEO_END and the caller can detect trailing garbage.
		if !c.atMsgEnd() {
			if _, _, err := c.readVar(); err != nil {
				return Message{}, err
			}
		}

	default:
		return Message{}, ErrMalformed
	}

	if !c.atMsgEnd() {
		return Message{}, ErrMalformed
	}
	return msg, nil
}

// decodeICnt reads the i_cnt field common to most instruction-tracing
// TCODEs: a variable-width half-instruction count. It returns the trailer
// byte that ended the field, so the caller can tell whether an optional
// timestamp field follows (mseoVarEnd) or the message is already complete
// (mseoMsgEnd).
func decodeICnt(c *bitCursor, msg *Message) (byte, error) {
	val, trailer, err := c.readVar()
	if err != nil {
		return 0, err
	}
	msg.HasICnt = true
	msg.ICnt = uint32(val)
	return trailer, nil
}

// decodeHistory reads a variable-width history bit-vector preceded by its
// significant-bit count (spec §4.3), returning the trailer that ended the
// bit-vector field for the same reason decodeICnt does.
func decodeHistory(c *bitCursor) (history uint64, bits int, trailer byte, err error) {
	n, err := c.readFixed(6)
	if err != nil {
		return 0, 0, 0, err
	}
	val, trailer, err := c.readVar()
	if err != nil {
		return 0, 0, 0, err
	}
	return val, int(n), trailer, nil
}

// readOptionalTimestamp reads the trailing relative timestamp field most
// TCODEs carry (spec §4.2's "optional ts(var)"). trailer is the MSEO byte
// that ended the preceding field: mseoVarEnd means more payload follows
// (the timestamp), mseoMsgEnd means the message ended without one.
func readOptionalTimestamp(c *bitCursor, trailer byte, msg *Message) error {
	if trailer != mseoVarEnd {
		return nil
	}
	ts, _, err := c.readVar()
	if err != nil {
		return err
	}
	msg.HaveTS = true
	msg.TSFull = false
	msg.TStamp = ts
	return nil
}

// decodeSyncClass handles Sync and every `_WS` TCODE: sync reason, full
// address, optional timestamp (spec §4.2/§4.4).
func decodeSyncClass(c *bitCursor, tcode TCODE, msg *Message) error {
	reason, err := c.readFixed(4)
	if err != nil {
		return err
	}
	msg.SyncReason = SyncReason(reason)

	if tcode == TCodeIndirectBranchWS || tcode == TCodeIndirectBranchHistoryWS {
		bt, err := c.readFixed(2)
		if err != nil {
			return err
		}
		msg.BType = BType(bt)
	}

	faddr, _, err := c.readVar()
	if err != nil {
		return err
	}
	msg.HasFAddr = true
	msg.FAddr = faddr << 1

	if tcode == TCodeIndirectBranchHistoryWS {
		hist, histBits, _, err := decodeHistory(c)
		if err != nil {
			return err
		}
		msg.HasHistory = true
		msg.History = hist
		msg.HistBits = histBits
	}

	haveTS, err := c.readFixed(1)
	if err != nil {
		return err
	}
	if haveTS != 0 {
		ts, _, err := c.readVar()
		if err != nil {
			return err
		}
		msg.HaveTS = true
		msg.TSFull = true
		msg.TStamp = ts
	}
	return nil
}
