package typeblock

import (
	"bytes"
	"encoding/binary"

	"github.com/riverside-software/rcode/pkg/rcode/elements"
)

// The fixtures below describe a type block's logical contents independently
// of byte order or word width, then encodeTypeBlockV11/encodeTypeBlockV12
// lay them out exactly as decodeV11/decodeV12 expect to read them back.
// Every record shape here is the mechanical inverse of the matching
// decode* function in typeblock.go.

type paramFixture struct {
	name   string
	typ    elements.DataType
	mode   elements.ParameterMode
	extent int16
}

type methodFixture struct {
	name        string
	accessFlags elements.AccessFlags
	returnType  elements.DataType
	params      []paramFixture
	position    uint16
	sourceLine  uint32 // only written when encoding v12; decoder discards it
}

type propertyFixture struct {
	name        string
	accessFlags elements.AccessFlags
	typ         elements.DataType
	extent      int16
	position    uint16
	getterFlags *elements.AccessFlags // nil means no getter
	setterFlags *elements.AccessFlags
}

type variableFixture struct {
	name        string
	accessFlags elements.AccessFlags
	typ         elements.DataType
	extent      int16
	position    uint16
}

type eventFixture struct {
	name        string
	accessFlags elements.AccessFlags
	params      []paramFixture
	position    uint16
}

type fieldFixture struct {
	name         string
	typ          elements.DataType
	extent       int16
	label        string
	initialValue string
}

type indexComponentFixture struct {
	fieldPosition uint16
	ascending     bool
}

type indexFixture struct {
	name       string
	flags      elements.IndexFlags
	components []indexComponentFixture
}

type tableFixture struct {
	name        string
	accessFlags elements.AccessFlags
	bufferName  string
	position    uint16
	fields      []fieldFixture
	indexes     []indexFixture
}

type typeBlockContent struct {
	typeName    string
	parentName  string
	packageName string
	interfaces  []string
	flags       elements.TypeFlags
	digest      uint32 // only written when encoding v12
	methods     []methodFixture
	properties  []propertyFixture
	variables   []variableFixture
	events      []eventFixture
	tables      []tableFixture
}

// strPatch records where a string-reference placeholder was written so its
// final absolute offset can be filled in once the body length is known.
type strPatch struct {
	pos int
	s   string
}

// blockBuilder assembles the cursor-sequential body of a type block (the
// leading record and every member/nested record, in the order a cursor
// would read them) and the trailing string pool it references by absolute
// offset, mirroring typeblock.cursor and resolveString in reverse.
type blockBuilder struct {
	order      binary.ByteOrder
	body       bytes.Buffer
	strPatches []strPatch
}

func (b *blockBuilder) u8(v uint8) { b.body.WriteByte(v) }

func (b *blockBuilder) u16(v uint16) {
	var t [2]byte
	b.order.PutUint16(t[:], v)
	b.body.Write(t[:])
}

func (b *blockBuilder) i16(v int16) { b.u16(uint16(v)) }

func (b *blockBuilder) u32(v uint32) {
	var t [4]byte
	b.order.PutUint32(t[:], v)
	b.body.Write(t[:])
}

func (b *blockBuilder) word(v uint64, is64Bit bool) {
	if !is64Bit {
		b.u32(uint32(v))
		return
	}
	var t [8]byte
	b.order.PutUint64(t[:], v)
	b.body.Write(t[:])
}

// str writes a 4-byte placeholder and defers the real offset until finish,
// since the pool doesn't exist yet. An empty string is left as offset 0,
// matching resolveString's "offset 0 means empty" rule.
func (b *blockBuilder) str(s string) {
	pos := b.body.Len()
	b.u32(0)
	if s != "" {
		b.strPatches = append(b.strPatches, strPatch{pos: pos, s: s})
	}
}

func (b *blockBuilder) dataType(dt elements.DataType) {
	b.u16(uint16(dt.Primitive))
	b.str(dt.ClassName)
}

func (b *blockBuilder) param(p paramFixture) {
	b.str(p.name)
	b.dataType(p.typ)
	b.u8(uint8(p.mode))
	b.i16(p.extent)
}

func (b *blockBuilder) leadingRecord(is64Bit, hasDigest bool, c typeBlockContent) {
	b.str(c.typeName)
	b.str(c.parentName)
	b.str(c.packageName)
	b.u16(uint16(len(c.interfaces)))
	b.u16(uint16(len(c.methods)))
	b.u16(uint16(len(c.properties)))
	b.u16(uint16(len(c.variables)))
	b.u16(uint16(len(c.events)))
	b.u16(uint16(len(c.tables)))
	b.u32(uint32(c.flags))
	b.word(0, is64Bit)
	if hasDigest {
		b.u32(c.digest)
	}
}

func (b *blockBuilder) method(m methodFixture, hasSourceLine bool) {
	b.str(m.name)
	b.u16(uint16(m.accessFlags))
	b.dataType(m.returnType)
	b.u16(uint16(len(m.params)))
	b.u16(m.position)
	if hasSourceLine {
		b.u32(m.sourceLine)
	}
	for _, p := range m.params {
		b.param(p)
	}
}

func (b *blockBuilder) property(p propertyFixture) {
	b.str(p.name)
	b.u16(uint16(p.accessFlags))
	b.dataType(p.typ)
	b.i16(p.extent)
	b.u16(p.position)
	if p.getterFlags != nil {
		b.u8(1)
		b.u16(uint16(*p.getterFlags))
	} else {
		b.u8(0)
		b.u16(0)
	}
	if p.setterFlags != nil {
		b.u8(1)
		b.u16(uint16(*p.setterFlags))
	} else {
		b.u8(0)
		b.u16(0)
	}
}

func (b *blockBuilder) variable(v variableFixture) {
	b.str(v.name)
	b.u16(uint16(v.accessFlags))
	b.dataType(v.typ)
	b.i16(v.extent)
	b.u16(v.position)
}

func (b *blockBuilder) event(e eventFixture) {
	b.str(e.name)
	b.u16(uint16(e.accessFlags))
	b.u16(uint16(len(e.params)))
	b.u16(e.position)
	for _, p := range e.params {
		b.param(p)
	}
}

func (b *blockBuilder) field(f fieldFixture) {
	b.str(f.name)
	b.dataType(f.typ)
	b.i16(f.extent)
	b.str(f.label)
	b.str(f.initialValue)
}

func (b *blockBuilder) index(idx indexFixture) {
	b.str(idx.name)
	b.u16(uint16(idx.flags))
	b.u16(uint16(len(idx.components)))
	for _, comp := range idx.components {
		b.u16(comp.fieldPosition)
		if comp.ascending {
			b.u8(1)
		} else {
			b.u8(0)
		}
	}
}

func (b *blockBuilder) table(t tableFixture) {
	b.str(t.name)
	b.u16(uint16(t.accessFlags))
	b.str(t.bufferName)
	b.u16(t.position)
	b.u16(uint16(len(t.fields)))
	b.u16(uint16(len(t.indexes)))
	for _, f := range t.fields {
		b.field(f)
	}
	for _, idx := range t.indexes {
		b.index(idx)
	}
}

// finish appends the string pool after the body, patching every deferred
// placeholder with its final absolute offset from the block start.
func (b *blockBuilder) finish() []byte {
	bodyLen := uint32(b.body.Len())
	raw := b.body.Bytes()
	var pool bytes.Buffer
	for _, p := range b.strPatches {
		off := bodyLen + uint32(pool.Len())
		var t [4]byte
		b.order.PutUint32(t[:], off)
		copy(raw[p.pos:], t[:])
		pool.WriteString(p.s)
		pool.WriteByte(0)
	}
	return append(raw, pool.Bytes()...)
}

// encodeTypeBlockV11 lays out c exactly as decodeV11 reads it back: no
// leading-record digest, no per-method source line, members in
// methods/properties/variables/events/tables order.
func encodeTypeBlockV11(order binary.ByteOrder, is64Bit bool, c typeBlockContent) []byte {
	b := &blockBuilder{order: order}
	b.leadingRecord(is64Bit, false, c)
	for _, iface := range c.interfaces {
		b.str(iface)
	}
	for _, m := range c.methods {
		b.method(m, false)
	}
	for _, p := range c.properties {
		b.property(p)
	}
	for _, v := range c.variables {
		b.variable(v)
	}
	for _, e := range c.events {
		b.event(e)
	}
	for _, t := range c.tables {
		b.table(t)
	}
	return b.finish()
}

// encodeTypeBlockV12 lays out c exactly as decodeV12 reads it back: adds
// the leading-record digest and per-method source line, and declares
// properties before methods.
func encodeTypeBlockV12(order binary.ByteOrder, is64Bit bool, c typeBlockContent) []byte {
	b := &blockBuilder{order: order}
	b.leadingRecord(is64Bit, true, c)
	for _, iface := range c.interfaces {
		b.str(iface)
	}
	for _, p := range c.properties {
		b.property(p)
	}
	for _, m := range c.methods {
		b.method(m, true)
	}
	for _, v := range c.variables {
		b.variable(v)
	}
	for _, e := range c.events {
		b.event(e)
	}
	for _, t := range c.tables {
		b.table(t)
	}
	return b.finish()
}
