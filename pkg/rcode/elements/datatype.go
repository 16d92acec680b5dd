// Package elements is the public data model decoded out of a class
// artifact's type block: class/interface shape, members, and their types.
// Every value here is an owned copy, constructed once and immutable
// thereafter — none of it holds a reference back into the raw r-code bytes.
package elements

import "fmt"

// PrimitiveDataType enumerates the ABL built-in types, plus the CLASS
// pseudo-primitive (which carries an additional class name) and the
// NOT_COMPUTED sentinel for "unresolved".
type PrimitiveDataType uint16

const (
	NotComputed PrimitiveDataType = iota
	Character
	Integer
	Int64
	Decimal
	Logical
	Date
	DateTime
	DateTimeTZ
	Handle
	MemPtr
	LongChar
	Raw
	RowID
	RecID
	Blob
	Clob
	Byte
	Short
	UnsignedShort
	UnsignedInteger
	UnsignedInt64
	Class
	Unknown
)

var primitiveNames = map[PrimitiveDataType]string{
	NotComputed:     "NOT_COMPUTED",
	Character:       "CHARACTER",
	Integer:         "INTEGER",
	Int64:           "INT64",
	Decimal:         "DECIMAL",
	Logical:         "LOGICAL",
	Date:            "DATE",
	DateTime:        "DATETIME",
	DateTimeTZ:      "DATETIME-TZ",
	Handle:          "HANDLE",
	MemPtr:          "MEMPTR",
	LongChar:        "LONGCHAR",
	Raw:             "RAW",
	RowID:           "ROWID",
	RecID:           "RECID",
	Blob:            "BLOB",
	Clob:            "CLOB",
	Byte:            "BYTE",
	Short:           "SHORT",
	UnsignedShort:   "UNSIGNED-SHORT",
	UnsignedInteger: "UNSIGNED-INTEGER",
	UnsignedInt64:   "UNSIGNED-INT64",
	Class:           "CLASS",
	Unknown:         "UNKNOWN",
}

func (p PrimitiveDataType) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PRIMITIVE(0x%04x)", uint16(p))
}

// DataType is either a plain PrimitiveDataType, or — when Primitive is
// Class — also carries the fully qualified class name.
type DataType struct {
	Primitive PrimitiveDataType `json:"primitive"`
	ClassName string            `json:"className,omitempty"` // only meaningful when Primitive == Class
}

func (d DataType) String() string {
	if d.Primitive == Class && d.ClassName != "" {
		return d.ClassName
	}
	return d.Primitive.String()
}

// Extent sentinels. 0 means scalar, >0 a fixed-length array, and
// UndeterminedExtent an array whose length is not fixed at compile time.
const UndeterminedExtent int16 = -32767

// AccessFlags is a bitset combining visibility with modifiers.
type AccessFlags uint16

const (
	Public AccessFlags = 1 << iota
	Protected
	Private
	Static
	Abstract
	Override
	Final
)

// HasFlag reports whether flag is set.
func (a AccessFlags) HasFlag(flag AccessFlags) bool {
	return a&flag != 0
}

func (a AccessFlags) String() string {
	names := []struct {
		flag AccessFlags
		name string
	}{
		{Public, "PUBLIC"}, {Protected, "PROTECTED"}, {Private, "PRIVATE"},
		{Static, "STATIC"}, {Abstract, "ABSTRACT"}, {Override, "OVERRIDE"}, {Final, "FINAL"},
	}
	s := ""
	for _, n := range names {
		if a.HasFlag(n.flag) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "0"
	}
	return s
}

// TypeFlags is the class-level bitset (ABSTRACT, FINAL, SERIALIZABLE,
// …). Unknown bits are preserved but not interpreted.
type TypeFlags uint32

const (
	FlagAbstract TypeFlags = 1 << iota
	FlagFinal
	FlagSerializable
	FlagInterface
	FlagBuiltin
	FlagUseWidgetPool
)

// HasFlag reports whether flag is set.
func (t TypeFlags) HasFlag(flag TypeFlags) bool {
	return t&flag != 0
}

// ParameterMode is the calling convention of a method or event parameter.
type ParameterMode uint8

const (
	ModeInput ParameterMode = iota
	ModeOutput
	ModeInputOutput
	ModeBuffer
	ModeReturn
)

func (m ParameterMode) String() string {
	switch m {
	case ModeInput:
		return "INPUT"
	case ModeOutput:
		return "OUTPUT"
	case ModeInputOutput:
		return "INPUT-OUTPUT"
	case ModeBuffer:
		return "BUFFER"
	case ModeReturn:
		return "RETURN"
	default:
		return fmt.Sprintf("MODE(%d)", uint8(m))
	}
}
