// Package rcode decodes the compiled-artifact binary format emitted by the
// OpenEdge/Progress ABL compiler: the fixed header, the segment table, the
// signature block, the four body segments, and — for class artifacts — the
// type-information block describing the class's declared surface.
//
// Decoding is purely sequential and single-threaded per call to Decode; a
// decoded RCodeInfo is immutable afterwards and safe to share for read
// across goroutines. See the batch package for running many decodes
// concurrently over disjoint files.
package rcode

import (
	"io"

	"github.com/riverside-software/rcode/pkg/rcode/charset"
	"github.com/riverside-software/rcode/pkg/rcode/diag"
	"github.com/riverside-software/rcode/pkg/rcode/elements"
	"github.com/riverside-software/rcode/pkg/rcode/typeblock"
)

// DefaultMaxSegmentSize bounds any single section's declared size, to
// prevent a hostile or corrupt header from causing an allocation blowup.
const DefaultMaxSegmentSize = 64 * 1024 * 1024

// Options configures a Decode call.
type Options struct {
	// MaxSegmentSize bounds the signature, segment-table, body and
	// type-block sizes declared in the header. Zero means
	// DefaultMaxSegmentSize.
	MaxSegmentSize int64
	// Charset decodes null-terminated strings in the type block's string
	// pool. Zero value means UTF-8. Signature-block records are always
	// read as UTF-8, whatever this is set to.
	Charset charset.Charset
	// Sink receives diagnostic events in decode order. Nil means no
	// diagnostics are collected.
	Sink diag.Sink
	// Segments supplies optional processors for the four body segments.
	// All are no-ops by default.
	Segments SegmentVisitor
}

func (o Options) normalized() Options {
	if o.MaxSegmentSize <= 0 {
		o.MaxSegmentSize = DefaultMaxSegmentSize
	}
	if o.Charset.Name == "" {
		o.Charset = charset.UTF8
	}
	if o.Sink == nil {
		o.Sink = diag.Noop{}
	}
	return o
}

// RCodeInfo is the decoded shape of one r-code artifact.
type RCodeInfo struct {
	header   *HeaderInfo
	offsets  *OffsetsTable
	typeInfo *elements.ITypeInfo
	isClass  bool
}

// TypeInfo returns the decoded type information, or nil when the artifact
// is a procedure rather than a class.
func (ri *RCodeInfo) TypeInfo() *elements.ITypeInfo { return ri.typeInfo }

// Version returns the raw r-code version word (major version in the low
// 14 bits, 64-bit flag in bit 14).
func (ri *RCodeInfo) Version() uint16 { return ri.header.Version }

// VersionMajor returns the r-code major version (1100, 1200, …).
func (ri *RCodeInfo) VersionMajor() uint16 { return ri.header.VersionMajor }

// TimeStamp returns the raw header timestamp, in seconds since epoch as
// produced by the compiler. Callers convert to wall-clock as they see fit.
func (ri *RCodeInfo) TimeStamp() int64 { return ri.header.TimeStamp }

// Is64Bit reports whether the artifact targets a 64-bit runtime.
func (ri *RCodeInfo) Is64Bit() bool { return ri.header.Is64Bit }

// IsClass reports whether the artifact is a class (true iff a non-empty
// type block was decoded).
func (ri *RCodeInfo) IsClass() bool { return ri.isClass }

// Offsets returns the decoded segment table.
func (ri *RCodeInfo) Offsets() *OffsetsTable { return ri.offsets }

// Decode reads one r-code artifact from r, strictly forward, and returns
// its decoded shape. The stream is never sought; the caller owns it and is
// responsible for closing it. On any error, no partial RCodeInfo is
// returned.
func Decode(r io.Reader, opts Options) (*RCodeInfo, error) {
	opts = opts.normalized()

	hdr, err := decodeHeader(r, opts, opts.Sink)
	if err != nil {
		return nil, err
	}

	if err := decodeSignatureBlock(r, hdr, opts.Sink); err != nil {
		return nil, err
	}

	offsets, err := decodeSegmentTable(r, hdr, opts.Sink)
	if err != nil {
		return nil, err
	}

	body := make([]byte, hdr.RCodeSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, shortRead("body", err)
	}
	opts.Sink.BodyDecoded(diag.BodyEvent{Size: len(body)}, body)

	if err := visitSegments(body, offsets, opts.Segments); err != nil {
		return nil, err
	}

	ri := &RCodeInfo{header: hdr, offsets: offsets}

	if hdr.TypeBlockSize > 0 {
		block := make([]byte, hdr.TypeBlockSize)
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, shortRead("type-block", err)
		}
		opts.Sink.TypeBlockDecoded(diag.TypeBlockEvent{Size: len(block)}, block)

		ti, err := typeblock.Decode(block, hdr.Order, hdr.VersionMajor, hdr.Is64Bit, opts.Charset)
		if err != nil {
			return nil, wrap(err)
		}
		ri.typeInfo = ti
		ri.isClass = true
	}

	return ri, nil
}
