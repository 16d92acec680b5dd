package rcode

import "encoding/binary"

// fixtureHeader holds the fields encodeHeader needs; zero values are
// filled in with sane defaults by newFixtureHeader.
type fixtureHeader struct {
	order            binary.ByteOrder
	version          uint16
	timestamp        uint32
	digestOffset     uint16
	segmentTableSize uint16
	signatureSize    uint32
	typeBlockSize    uint32
	rcodeSize        uint32
}

func newFixtureHeader(order binary.ByteOrder, version uint16) fixtureHeader {
	return fixtureHeader{order: order, version: version}
}

// encodeHeader writes the exact inverse of decodeHeader's layout: the
// 68-byte primary header, plus — for version_major >= 1200 — the 16-byte
// v12 tail. This is the test-only fixture encoder described as the
// mirror image of the decoder.
func encodeHeader(h fixtureHeader) []byte {
	buf := make([]byte, headerSize)
	if h.order == binary.BigEndian {
		binary.BigEndian.PutUint32(buf[offMagic:], magicBigEndian)
	} else {
		binary.BigEndian.PutUint32(buf[offMagic:], magicLittleEndian)
	}
	h.order.PutUint16(buf[offVersion:], h.version)
	h.order.PutUint32(buf[offTimestamp:], h.timestamp)
	h.order.PutUint16(buf[offSegmentTblSize:], h.segmentTableSize)
	h.order.PutUint32(buf[offSignatureSize:], h.signatureSize)
	h.order.PutUint32(buf[offTypeBlockSize:], h.typeBlockSize)

	versionMajor := h.version & versionMajorMask
	if versionMajor >= v12VersionThreshold {
		h.order.PutUint16(buf[offDigestV12:], h.digestOffset)
		tail := make([]byte, v12TailSize)
		h.order.PutUint32(tail[offRcodeSizeV12Tail:], h.rcodeSize)
		return append(buf, tail...)
	}
	h.order.PutUint16(buf[offDigestV11:], h.digestOffset)
	h.order.PutUint32(buf[offRcodeSizeV11:], h.rcodeSize)
	return buf
}

// encodeSegmentTable writes the exact inverse of decodeSegmentTable's
// layout.
func encodeSegmentTable(order binary.ByteOrder, tbl OffsetsTable) []byte {
	buf := make([]byte, 38)
	order.PutUint32(buf[segOffInitValOffset:], uint32(tbl.InitialValue.Offset))
	order.PutUint32(buf[segOffInitValSize:], tbl.InitialValue.Size)
	order.PutUint32(buf[segOffActionOffset:], uint32(tbl.Action.Offset))
	order.PutUint32(buf[segOffActionSize:], tbl.Action.Size)
	order.PutUint32(buf[segOffEcodeOffset:], uint32(tbl.Ecode.Offset))
	order.PutUint32(buf[segOffEcodeSize:], tbl.Ecode.Size)
	order.PutUint32(buf[segOffDebugOffset:], uint32(tbl.Debug.Offset))
	order.PutUint32(buf[segOffDebugSize:], tbl.Debug.Size)
	order.PutUint16(buf[segOffIpacsSize:], tbl.IpacsTableSize)
	order.PutUint16(buf[segOffFrameSize:], tbl.FrameSegmentTableSize)
	order.PutUint16(buf[segOffTextSize:], tbl.TextSegmentTableSize)
	return buf
}

// encodeSignatureBlock writes a minimal signature block: an empty
// preamble and zero records, which is all decodeSignatureBlock requires
// to succeed.
func encodeSignatureBlock(order binary.ByteOrder) []byte {
	buf := make([]byte, 16)
	copy(buf[0:4], []byte("0000"))
	copy(buf[4:8], []byte("0000"))
	copy(buf[8:12], []byte("0000"))
	// offset 12: null-terminated encoding name, left empty (just a NUL).
	return buf
}
