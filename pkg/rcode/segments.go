package rcode

import (
	"io"

	"github.com/riverside-software/rcode/pkg/rcode/breader"
	"github.com/riverside-software/rcode/pkg/rcode/diag"
)

const (
	segOffInitValOffset = 0
	segOffActionOffset  = 4
	segOffEcodeOffset   = 8
	segOffDebugOffset   = 12
	segOffInitValSize   = 16
	segOffActionSize    = 20
	segOffEcodeSize     = 24
	segOffDebugSize     = 28
	segOffIpacsSize     = 32
	segOffFrameSize     = 34
	segOffTextSize      = 36
)

// SegmentRef is a signed offset / unsigned size pair into the rcode body.
type SegmentRef struct {
	Offset int32
	Size   uint32
}

// OffsetsTable is the decoded segment table: where each of the
// initial-value, action, ecode and debug segments lives within the rcode
// body, plus the three auxiliary sub-table sizes.
type OffsetsTable struct {
	InitialValue SegmentRef
	Action       SegmentRef
	Ecode        SegmentRef
	Debug        SegmentRef

	IpacsTableSize        uint16
	FrameSegmentTableSize uint16
	TextSegmentTableSize  uint16
}

func decodeSegmentTable(r io.Reader, hdr *HeaderInfo, sink diag.Sink) (*OffsetsTable, error) {
	buf := make([]byte, hdr.SegmentTableSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, shortRead("segment-table", err)
	}

	br := breader.New(buf, hdr.Order)
	readRef := func(offOffset, sizeOffset int) (SegmentRef, error) {
		off, err := br.I32("segment-table", offOffset)
		if err != nil {
			return SegmentRef{}, wrap(err)
		}
		size, err := br.U32("segment-table", sizeOffset)
		if err != nil {
			return SegmentRef{}, wrap(err)
		}
		return SegmentRef{Offset: off, Size: size}, nil
	}

	initVal, err := readRef(segOffInitValOffset, segOffInitValSize)
	if err != nil {
		return nil, err
	}
	action, err := readRef(segOffActionOffset, segOffActionSize)
	if err != nil {
		return nil, err
	}
	ecode, err := readRef(segOffEcodeOffset, segOffEcodeSize)
	if err != nil {
		return nil, err
	}
	debug, err := readRef(segOffDebugOffset, segOffDebugSize)
	if err != nil {
		return nil, err
	}
	ipacs, err := br.U16("segment-table", segOffIpacsSize)
	if err != nil {
		return nil, wrap(err)
	}
	frame, err := br.U16("segment-table", segOffFrameSize)
	if err != nil {
		return nil, wrap(err)
	}
	text, err := br.U16("segment-table", segOffTextSize)
	if err != nil {
		return nil, wrap(err)
	}

	tbl := &OffsetsTable{
		InitialValue:          initVal,
		Action:                action,
		Ecode:                 ecode,
		Debug:                 debug,
		IpacsTableSize:        ipacs,
		FrameSegmentTableSize: frame,
		TextSegmentTableSize:  text,
	}

	sink.SegmentTableDecoded(diag.SegmentTableEvent{
		InitialValue: diag.SegmentRefEvent{Offset: tbl.InitialValue.Offset, Size: tbl.InitialValue.Size},
		Action:       diag.SegmentRefEvent{Offset: tbl.Action.Offset, Size: tbl.Action.Size},
		Ecode:        diag.SegmentRefEvent{Offset: tbl.Ecode.Offset, Size: tbl.Ecode.Size},
		Debug:        diag.SegmentRefEvent{Offset: tbl.Debug.Offset, Size: tbl.Debug.Size},
	}, buf)

	return tbl, nil
}

// SegmentVisitor is the extension point for the four body segments. A
// production implementation that wants to decode the debug line table, for
// instance, supplies DebugSegment; every other callback stays nil and is
// skipped. This replaces the source pattern of overriding a no-op method
// per segment with a value carrying optional callbacks.
type SegmentVisitor struct {
	InitialValueSegment func(data []byte) error
	ActionSegment       func(data []byte) error
	EcodeSegment        func(data []byte) error
	DebugSegment        func(data []byte) error
}

func visitSegments(body []byte, tbl *OffsetsTable, visitor SegmentVisitor) error {
	visit := func(name string, ref SegmentRef, requireStrictlyPositive bool, fn func([]byte) error) error {
		offsetOK := ref.Offset >= 0
		if requireStrictlyPositive {
			offsetOK = ref.Offset > 0
		}
		if !offsetOK || ref.Size == 0 {
			return nil
		}
		start := int(ref.Offset)
		end := start + int(ref.Size)
		if start < 0 || end > len(body) {
			return invalidFormat(name+" segment out of bounds", nil)
		}
		slice := body[start:end]
		if fn == nil {
			return nil
		}
		return fn(slice)
	}

	if err := visit("initial-value", tbl.InitialValue, false, visitor.InitialValueSegment); err != nil {
		return err
	}
	if err := visit("action", tbl.Action, false, visitor.ActionSegment); err != nil {
		return err
	}
	if err := visit("ecode", tbl.Ecode, false, visitor.EcodeSegment); err != nil {
		return err
	}
	if err := visit("debug", tbl.Debug, true, visitor.DebugSegment); err != nil {
		return err
	}
	return nil
}
