package rcode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/riverside-software/rcode/pkg/rcode/breader"
	"github.com/riverside-software/rcode/pkg/rcode/diag"
)

const (
	magicBigEndian    uint32 = 0x56CED309
	magicLittleEndian uint32 = 0x09D3CE56

	headerSize  = 68
	v12TailSize = 16

	versionMajorMask    = 0x3FFF
	sixtyFourBitFlag    = 0x4000
	minSupportedVersion = 1100
	v12VersionThreshold = 1200
)

const (
	offMagic            = 0
	offTimestamp        = 4
	offDigestV11        = 10
	offVersion          = 14
	offDigestV12        = 22
	offSegmentTblSize   = 0x1E
	offSignatureSize    = 56
	offTypeBlockSize    = 60
	offRcodeSizeV11     = 64
	offRcodeSizeV12Tail = 0x0c
)

// HeaderInfo is the decoded fixed-size prefix of an r-code artifact.
type HeaderInfo struct {
	Order            binary.ByteOrder
	Version          uint16
	VersionMajor     uint16
	Is64Bit          bool
	TimeStamp        int64
	DigestOffset     uint16
	SegmentTableSize uint16
	SignatureSize    uint32
	TypeBlockSize    uint32
	RCodeSize        uint32
}

// decodeHeader reads and interprets the header section: the
// 68-byte primary header, plus — for version_major >= 1200 — the 16-byte
// v12 tail that carries the rcode body size.
func decodeHeader(r io.Reader, opts Options, sink diag.Sink) (*HeaderInfo, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, shortRead("header", err)
	}

	// The magic is always read big-endian; its value (not the read
	// itself) tells us the byte order for every field that follows.
	rawMagic := binary.BigEndian.Uint32(buf[offMagic:])

	var order binary.ByteOrder
	switch rawMagic {
	case magicBigEndian:
		order = binary.BigEndian
	case magicLittleEndian:
		order = binary.LittleEndian
	default:
		return nil, invalidFormat("magic", nil)
	}

	br := breader.New(buf, order)

	version, err := br.U16("header", offVersion)
	if err != nil {
		return nil, wrap(err)
	}
	versionMajor := version & versionMajorMask
	is64Bit := version&sixtyFourBitFlag != 0

	info := &HeaderInfo{
		Order:        order,
		Version:      version,
		VersionMajor: versionMajor,
		Is64Bit:      is64Bit,
	}

	switch {
	case versionMajor >= v12VersionThreshold:
		tail := make([]byte, v12TailSize)
		if _, err := io.ReadFull(r, tail); err != nil {
			return nil, shortRead("v12-tail", err)
		}
		tbr := breader.New(tail, order)

		ts, err := br.U32("header", offTimestamp)
		if err != nil {
			return nil, wrap(err)
		}
		digest, err := br.U16("header", offDigestV12)
		if err != nil {
			return nil, wrap(err)
		}
		segTbl, err := br.U16("header", offSegmentTblSize)
		if err != nil {
			return nil, wrap(err)
		}
		sig, err := br.U32("header", offSignatureSize)
		if err != nil {
			return nil, wrap(err)
		}
		tb, err := br.U32("header", offTypeBlockSize)
		if err != nil {
			return nil, wrap(err)
		}
		rcodeSz, err := tbr.U32("v12-tail", offRcodeSizeV12Tail)
		if err != nil {
			return nil, wrap(err)
		}

		info.TimeStamp = int64(ts)
		info.DigestOffset = digest
		info.SegmentTableSize = segTbl
		info.SignatureSize = sig
		info.TypeBlockSize = tb
		info.RCodeSize = rcodeSz

	case versionMajor >= minSupportedVersion:
		ts, err := br.U32("header", offTimestamp)
		if err != nil {
			return nil, wrap(err)
		}
		digest, err := br.U16("header", offDigestV11)
		if err != nil {
			return nil, wrap(err)
		}
		segTbl, err := br.U16("header", offSegmentTblSize)
		if err != nil {
			return nil, wrap(err)
		}
		sig, err := br.U32("header", offSignatureSize)
		if err != nil {
			return nil, wrap(err)
		}
		tb, err := br.U32("header", offTypeBlockSize)
		if err != nil {
			return nil, wrap(err)
		}
		rcodeSz, err := br.U32("header", offRcodeSizeV11)
		if err != nil {
			return nil, wrap(err)
		}

		info.TimeStamp = int64(ts)
		info.DigestOffset = digest
		info.SegmentTableSize = segTbl
		info.SignatureSize = sig
		info.TypeBlockSize = tb
		info.RCodeSize = rcodeSz

	default:
		return nil, unsupportedVersion(version)
	}

	if err := checkSize(opts, "signature", int64(info.SignatureSize)); err != nil {
		return nil, err
	}
	if err := checkSize(opts, "segment-table", int64(info.SegmentTableSize)); err != nil {
		return nil, err
	}
	if err := checkSize(opts, "type-block", int64(info.TypeBlockSize)); err != nil {
		return nil, err
	}
	if err := checkSize(opts, "body", int64(info.RCodeSize)); err != nil {
		return nil, err
	}

	sink.HeaderDecoded(diag.HeaderEvent{
		Order:            orderName(order),
		Version:          info.Version,
		VersionMajor:     info.VersionMajor,
		Is64Bit:          info.Is64Bit,
		TimeStamp:        info.TimeStamp,
		SignatureSize:    info.SignatureSize,
		SegmentTableSize: info.SegmentTableSize,
		TypeBlockSize:    info.TypeBlockSize,
		RCodeSize:        info.RCodeSize,
	}, buf)

	return info, nil
}

func orderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

func checkSize(opts Options, what string, size int64) error {
	if size < 0 {
		return invalidFormat(what+" size is negative", nil)
	}
	if size > opts.MaxSegmentSize {
		return invalidFormat("oversize", fmt.Errorf("%s size %d exceeds configured maximum %d", what, size, opts.MaxSegmentSize))
	}
	return nil
}
