// Package typeblock decodes the type-information block: the
// class-metadata payload that follows the four body segments when an
// r-code artifact describes a class rather than a procedure.
//
// Errors returned from this package are breader's low-level
// ErrShortRead/ErrInvalidFormat, not rcode.Error — the rcode package
// imports typeblock, so typeblock cannot import rcode back to wrap them
// itself. Decode's caller is expected to convert them at the boundary.
package typeblock

import (
	"encoding/binary"
	"fmt"

	"github.com/riverside-software/rcode/pkg/rcode/breader"
	"github.com/riverside-software/rcode/pkg/rcode/charset"
	"github.com/riverside-software/rcode/pkg/rcode/elements"
)

const v12VersionThreshold = 1200

// Decode dispatches to the v11 or v12 layout by versionMajor and returns the
// shared ITypeInfo shape either produces.
func Decode(block []byte, order binary.ByteOrder, versionMajor uint16, is64Bit bool, cs charset.Charset) (*elements.ITypeInfo, error) {
	r := breader.New(block, order)
	if versionMajor >= v12VersionThreshold {
		return decodeV12(r, is64Bit, cs)
	}
	return decodeV11(r, is64Bit, cs)
}

// cursor is a sequential, forward-only view over a breader.Reader. The
// leading record and the fixed-stride member records that follow are all
// read in the order they occur in the block, which is why a cursor is
// simpler here than repeated absolute offsets; string references are the
// one place the block is addressed absolutely, via resolveString.
type cursor struct {
	r   *breader.Reader
	pos int
}

func (c *cursor) u16() (uint16, error) {
	v, err := c.r.U16("type-block", c.pos)
	c.pos += 2
	return v, err
}

func (c *cursor) i16() (int16, error) {
	v, err := c.r.I16("type-block", c.pos)
	c.pos += 2
	return v, err
}

func (c *cursor) u32() (uint32, error) {
	v, err := c.r.U32("type-block", c.pos)
	c.pos += 4
	return v, err
}

func (c *cursor) u8() (uint8, error) {
	buf := c.r.Bytes()
	if c.pos >= len(buf) {
		return 0, &breader.ErrShortRead{Section: "type-block", Offset: c.pos, Width: 1, Len: len(buf)}
	}
	b := buf[c.pos]
	c.pos++
	return b, nil
}

// word reads a pointer-sized field: 4 bytes, or 8 when is64Bit, widened to
// uint64.
func (c *cursor) word(is64Bit bool) (uint64, error) {
	v, err := c.r.Word("type-block", c.pos, is64Bit)
	if is64Bit {
		c.pos += 8
	} else {
		c.pos += 4
	}
	return v, err
}

func resolveString(r *breader.Reader, cs charset.Charset, offset uint32) (string, error) {
	if offset == 0 {
		return "", nil
	}
	if int(offset) >= r.Len() {
		return "", &breader.ErrInvalidFormat{Reason: fmt.Sprintf("string offset %d out of bounds (block size %d)", offset, r.Len())}
	}
	s, _, err := r.ReadCString(int(offset), &cs)
	return s, err
}

func resolveDataType(r *breader.Reader, cs charset.Charset, primitive uint16, classNameOffset uint32) (elements.DataType, error) {
	dt := elements.DataType{Primitive: elements.PrimitiveDataType(primitive)}
	if dt.Primitive == elements.Class {
		name, err := resolveString(r, cs, classNameOffset)
		if err != nil {
			return elements.DataType{}, err
		}
		dt.ClassName = name
	}
	return dt, nil
}

// leadingRecord is the fixed header of the type block shared by v11 and
// v12, plus the one v12-only field (a per-class digest).
type leadingRecord struct {
	typeNameOffset    uint32
	parentNameOffset  uint32
	packageNameOffset uint32
	interfaceCount    uint16
	methodCount       uint16
	propertyCount     uint16
	variableCount     uint16
	eventCount        uint16
	tableCount        uint16
	flags             uint32
	runtimeSlot       uint64 // widened per is_64_bit; reserved, not surfaced
	digest            uint32 // v12 only
}

func decodeLeadingRecord(c *cursor, is64Bit, hasDigest bool) (leadingRecord, error) {
	var lr leadingRecord
	var err error
	if lr.typeNameOffset, err = c.u32(); err != nil {
		return lr, err
	}
	if lr.parentNameOffset, err = c.u32(); err != nil {
		return lr, err
	}
	if lr.packageNameOffset, err = c.u32(); err != nil {
		return lr, err
	}
	if lr.interfaceCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.methodCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.propertyCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.variableCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.eventCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.tableCount, err = c.u16(); err != nil {
		return lr, err
	}
	if lr.flags, err = c.u32(); err != nil {
		return lr, err
	}
	if lr.runtimeSlot, err = c.word(is64Bit); err != nil {
		return lr, err
	}
	if hasDigest {
		if lr.digest, err = c.u32(); err != nil {
			return lr, err
		}
	}
	return lr, nil
}

func decodeInterfaces(c *cursor, r *breader.Reader, cs charset.Charset, count uint16) ([]string, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]string, 0, count)
	for i := uint16(0); i < count; i++ {
		off, err := c.u32()
		if err != nil {
			return nil, err
		}
		name, err := resolveString(r, cs, off)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func decodeParameters(c *cursor, r *breader.Reader, cs charset.Charset, count uint16) ([]elements.ParameterElement, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]elements.ParameterElement, 0, count)
	for i := uint16(0); i < count; i++ {
		nameOff, err := c.u32()
		if err != nil {
			return nil, err
		}
		primitive, err := c.u16()
		if err != nil {
			return nil, err
		}
		classOff, err := c.u32()
		if err != nil {
			return nil, err
		}
		mode, err := c.u8()
		if err != nil {
			return nil, err
		}
		extent, err := c.i16()
		if err != nil {
			return nil, err
		}
		name, err := resolveString(r, cs, nameOff)
		if err != nil {
			return nil, err
		}
		dt, err := resolveDataType(r, cs, primitive, classOff)
		if err != nil {
			return nil, err
		}
		out = append(out, elements.ParameterElement{
			Name:   name,
			Type:   dt,
			Mode:   elements.ParameterMode(mode),
			Extent: extent,
		})
	}
	return out, nil
}

// decodeMethod decodes one method's fixed-stride record, including its
// trailing variable-stride parameter list. hasSourceLine is true for v12,
// which adds a per-method source-position field the v11 layout lacks.
func decodeMethod(c *cursor, r *breader.Reader, cs charset.Charset, hasSourceLine bool) (elements.MethodElement, error) {
	var m elements.MethodElement
	nameOff, err := c.u32()
	if err != nil {
		return m, err
	}
	accessFlags, err := c.u16()
	if err != nil {
		return m, err
	}
	retPrimitive, err := c.u16()
	if err != nil {
		return m, err
	}
	retClassOff, err := c.u32()
	if err != nil {
		return m, err
	}
	paramCount, err := c.u16()
	if err != nil {
		return m, err
	}
	position, err := c.u16()
	if err != nil {
		return m, err
	}
	if hasSourceLine {
		if _, err := c.u32(); err != nil {
			return m, err
		}
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return m, err
	}
	retType, err := resolveDataType(r, cs, retPrimitive, retClassOff)
	if err != nil {
		return m, err
	}
	params, err := decodeParameters(c, r, cs, paramCount)
	if err != nil {
		return m, err
	}

	m.Name = name
	m.AccessFlags = elements.AccessFlags(accessFlags)
	m.ReturnType = retType
	m.Parameters = params
	m.Position = int(position)
	return m, nil
}

func decodeProperty(c *cursor, r *breader.Reader, cs charset.Charset) (elements.PropertyElement, error) {
	var p elements.PropertyElement
	nameOff, err := c.u32()
	if err != nil {
		return p, err
	}
	accessFlags, err := c.u16()
	if err != nil {
		return p, err
	}
	primitive, err := c.u16()
	if err != nil {
		return p, err
	}
	classOff, err := c.u32()
	if err != nil {
		return p, err
	}
	extent, err := c.i16()
	if err != nil {
		return p, err
	}
	position, err := c.u16()
	if err != nil {
		return p, err
	}
	hasGetter, err := c.u8()
	if err != nil {
		return p, err
	}
	getterFlags, err := c.u16()
	if err != nil {
		return p, err
	}
	hasSetter, err := c.u8()
	if err != nil {
		return p, err
	}
	setterFlags, err := c.u16()
	if err != nil {
		return p, err
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return p, err
	}
	dt, err := resolveDataType(r, cs, primitive, classOff)
	if err != nil {
		return p, err
	}

	p.Name = name
	p.AccessFlags = elements.AccessFlags(accessFlags)
	p.Type = dt
	p.Extent = extent
	p.Position = int(position)
	if hasGetter != 0 {
		p.Getter = &elements.PropertyAccessor{AccessFlags: elements.AccessFlags(getterFlags)}
	}
	if hasSetter != 0 {
		p.Setter = &elements.PropertyAccessor{AccessFlags: elements.AccessFlags(setterFlags)}
	}
	return p, nil
}

func decodeVariable(c *cursor, r *breader.Reader, cs charset.Charset) (elements.VariableElement, error) {
	var v elements.VariableElement
	nameOff, err := c.u32()
	if err != nil {
		return v, err
	}
	accessFlags, err := c.u16()
	if err != nil {
		return v, err
	}
	primitive, err := c.u16()
	if err != nil {
		return v, err
	}
	classOff, err := c.u32()
	if err != nil {
		return v, err
	}
	extent, err := c.i16()
	if err != nil {
		return v, err
	}
	position, err := c.u16()
	if err != nil {
		return v, err
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return v, err
	}
	dt, err := resolveDataType(r, cs, primitive, classOff)
	if err != nil {
		return v, err
	}

	v.Name = name
	v.AccessFlags = elements.AccessFlags(accessFlags)
	v.Type = dt
	v.Extent = extent
	v.Position = int(position)
	return v, nil
}

func decodeEvent(c *cursor, r *breader.Reader, cs charset.Charset) (elements.EventElement, error) {
	var e elements.EventElement
	nameOff, err := c.u32()
	if err != nil {
		return e, err
	}
	accessFlags, err := c.u16()
	if err != nil {
		return e, err
	}
	paramCount, err := c.u16()
	if err != nil {
		return e, err
	}
	position, err := c.u16()
	if err != nil {
		return e, err
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return e, err
	}
	params, err := decodeParameters(c, r, cs, paramCount)
	if err != nil {
		return e, err
	}

	e.Name = name
	e.AccessFlags = elements.AccessFlags(accessFlags)
	e.Parameters = params
	e.Position = int(position)
	return e, nil
}

func decodeField(c *cursor, r *breader.Reader, cs charset.Charset) (elements.FieldElement, error) {
	var f elements.FieldElement
	nameOff, err := c.u32()
	if err != nil {
		return f, err
	}
	primitive, err := c.u16()
	if err != nil {
		return f, err
	}
	classOff, err := c.u32()
	if err != nil {
		return f, err
	}
	extent, err := c.i16()
	if err != nil {
		return f, err
	}
	labelOff, err := c.u32()
	if err != nil {
		return f, err
	}
	initOff, err := c.u32()
	if err != nil {
		return f, err
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return f, err
	}
	dt, err := resolveDataType(r, cs, primitive, classOff)
	if err != nil {
		return f, err
	}
	label, err := resolveString(r, cs, labelOff)
	if err != nil {
		return f, err
	}
	initial, err := resolveString(r, cs, initOff)
	if err != nil {
		return f, err
	}

	f.Name = name
	f.Type = dt
	f.Extent = extent
	f.Label = label
	f.InitialValue = initial
	return f, nil
}

func decodeIndex(c *cursor) (elements.IndexElement, uint32, error) {
	var idx elements.IndexElement
	nameOff, err := c.u32()
	if err != nil {
		return idx, 0, err
	}
	flags, err := c.u16()
	if err != nil {
		return idx, 0, err
	}
	compCount, err := c.u16()
	if err != nil {
		return idx, 0, err
	}
	comps := make([]elements.IndexComponent, 0, compCount)
	for i := uint16(0); i < compCount; i++ {
		fieldPos, err := c.u16()
		if err != nil {
			return idx, 0, err
		}
		ascending, err := c.u8()
		if err != nil {
			return idx, 0, err
		}
		comps = append(comps, elements.IndexComponent{
			FieldPosition: int(fieldPos),
			Ascending:     ascending != 0,
		})
	}
	idx.Flags = elements.IndexFlags(flags)
	idx.Components = comps
	return idx, nameOff, nil
}

func decodeTable(c *cursor, r *breader.Reader, cs charset.Charset) (elements.TableElement, error) {
	var t elements.TableElement
	nameOff, err := c.u32()
	if err != nil {
		return t, err
	}
	accessFlags, err := c.u16()
	if err != nil {
		return t, err
	}
	bufferOff, err := c.u32()
	if err != nil {
		return t, err
	}
	position, err := c.u16()
	if err != nil {
		return t, err
	}
	fieldCount, err := c.u16()
	if err != nil {
		return t, err
	}
	indexCount, err := c.u16()
	if err != nil {
		return t, err
	}

	name, err := resolveString(r, cs, nameOff)
	if err != nil {
		return t, err
	}
	bufferName, err := resolveString(r, cs, bufferOff)
	if err != nil {
		return t, err
	}

	fields := make([]elements.FieldElement, 0, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		f, err := decodeField(c, r, cs)
		if err != nil {
			return t, err
		}
		fields = append(fields, f)
	}

	indexes := make([]elements.IndexElement, 0, indexCount)
	for i := uint16(0); i < indexCount; i++ {
		idx, nameOff, err := decodeIndex(c)
		if err != nil {
			return t, err
		}
		idx.Name, err = resolveString(r, cs, nameOff)
		if err != nil {
			return t, err
		}
		indexes = append(indexes, idx)
	}

	t.Name = name
	t.AccessFlags = elements.AccessFlags(accessFlags)
	t.BufferName = bufferName
	t.Fields = fields
	t.Indexes = indexes
	t.Position = int(position)
	return t, nil
}
