package rcode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// minimalV11TypeBlock builds a type block with a named class and no
// members, matching the leading-record layout typeblock.decodeV11 reads.
func minimalV11TypeBlock(order binary.ByteOrder, typeName string) []byte {
	buf := make([]byte, 32)
	order.PutUint32(buf[0:], 32) // typeNameOffset: right after the fixed section
	// parentNameOffset, packageNameOffset: 0 (empty)
	// interfaceCount..tableCount: 0
	// flags: 0
	// runtimeSlot: 0
	pool := append([]byte(typeName), 0)
	return append(buf, pool...)
}

func TestDecodeProcedureArtifact(t *testing.T) {
	order := binary.BigEndian
	fh := newFixtureHeader(order, 1145)
	fh.segmentTableSize = 38
	fh.signatureSize = 16
	fh.typeBlockSize = 0
	fh.rcodeSize = 8

	var stream bytes.Buffer
	stream.Write(encodeHeader(fh))
	stream.Write(encodeSignatureBlock(order))
	stream.Write(encodeSegmentTable(order, OffsetsTable{}))
	stream.Write(make([]byte, fh.rcodeSize)) // body

	info, err := Decode(&stream, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.IsClass() {
		t.Error("expected IsClass() = false for a procedure artifact")
	}
	if info.TypeInfo() != nil {
		t.Error("expected nil TypeInfo for a procedure artifact")
	}
	if info.VersionMajor() != 1145 {
		t.Errorf("VersionMajor = %d", info.VersionMajor())
	}
}

func TestDecodeClassArtifact(t *testing.T) {
	order := binary.LittleEndian
	block := minimalV11TypeBlock(order, "acme.Widget")

	fh := newFixtureHeader(order, 1145)
	fh.segmentTableSize = 38
	fh.signatureSize = 16
	fh.typeBlockSize = uint32(len(block))
	fh.rcodeSize = 8

	var stream bytes.Buffer
	stream.Write(encodeHeader(fh))
	stream.Write(encodeSignatureBlock(order))
	stream.Write(encodeSegmentTable(order, OffsetsTable{}))
	stream.Write(make([]byte, fh.rcodeSize))
	stream.Write(block)

	info, err := Decode(&stream, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !info.IsClass() {
		t.Fatal("expected IsClass() = true")
	}
	ti := info.TypeInfo()
	if ti == nil {
		t.Fatal("expected non-nil TypeInfo")
	}
	if ti.Name() != "acme.Widget" {
		t.Errorf("TypeName = %q", ti.Name())
	}
}

func TestDecodeWrapsTypeBlockErrorAsRCodeError(t *testing.T) {
	order := binary.BigEndian
	// Leading record whose typeNameOffset points past the (empty) string
	// pool: the type-block decoder must fail, and Decode must surface it
	// as *rcode.Error rather than a raw breader error.
	block := make([]byte, 32)
	order.PutUint32(block[0:], 9999)

	fh := newFixtureHeader(order, 1145)
	fh.segmentTableSize = 38
	fh.signatureSize = 16
	fh.typeBlockSize = uint32(len(block))
	fh.rcodeSize = 4

	var stream bytes.Buffer
	stream.Write(encodeHeader(fh))
	stream.Write(encodeSignatureBlock(order))
	stream.Write(encodeSegmentTable(order, OffsetsTable{}))
	stream.Write(make([]byte, fh.rcodeSize))
	stream.Write(block)

	_, err := Decode(&stream, Options{})
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v (%T), want *rcode.Error", err, err)
	}
	if rerr.Kind != KindInvalidFormat {
		t.Errorf("Kind = %v, want KindInvalidFormat", rerr.Kind)
	}
}

func TestDecodeStopsAtOversizeBody(t *testing.T) {
	order := binary.BigEndian
	fh := newFixtureHeader(order, 1145)
	fh.segmentTableSize = 38
	fh.signatureSize = 16
	fh.rcodeSize = 1 << 28

	opts := Options{MaxSegmentSize: 1024}
	_, err := Decode(bytes.NewReader(encodeHeader(fh)), opts)
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Kind != KindInvalidFormat {
		t.Fatalf("got %v, want InvalidFormat(oversize)", err)
	}
}
