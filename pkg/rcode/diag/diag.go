// Package diag defines the diagnostic sink r-code decode steps report to.
// It is a strict debug aid: the format of what it carries is unspecified
// and may change freely.
package diag

import (
	"fmt"
	"strings"
)

// HeaderEvent carries the fields decoded out of the fixed header.
type HeaderEvent struct {
	Order            string
	Version          uint16
	VersionMajor     uint16
	Is64Bit          bool
	TimeStamp        int64
	SignatureSize    uint32
	SegmentTableSize uint16
	TypeBlockSize    uint32
	RCodeSize        uint32
}

// SignatureEvent carries the signature block's preamble fields.
type SignatureEvent struct {
	PreambleSize uint32
	NumElements  uint32
}

// SegmentRefEvent is one offset/size pair out of the segment table.
type SegmentRefEvent struct {
	Offset int32
	Size   uint32
}

// SegmentTableEvent carries the decoded segment table.
type SegmentTableEvent struct {
	InitialValue SegmentRefEvent
	Action       SegmentRefEvent
	Ecode        SegmentRefEvent
	Debug        SegmentRefEvent
}

// BodyEvent carries the size of the four-segment rcode body just consumed.
type BodyEvent struct {
	Size int
}

// TypeBlockEvent carries the size of the type-information block just
// consumed, for class artifacts.
type TypeBlockEvent struct {
	Size int
}

// Sink receives one call per decode step, in the order those steps run.
// Each method's second argument is the exact bytes consumed by that step,
// for implementations that want a hex dump (see HexDump) without the
// decoder computing one eagerly on every call. A nil Sink is never passed
// to decode steps; callers that want no diagnostics get Noop{}.
type Sink interface {
	HeaderDecoded(event HeaderEvent, raw []byte)
	SignatureConsumed(event SignatureEvent, raw []byte)
	SegmentTableDecoded(event SegmentTableEvent, raw []byte)
	BodyDecoded(event BodyEvent, raw []byte)
	TypeBlockDecoded(event TypeBlockEvent, raw []byte)
}

// Noop discards every event. It is the default Sink.
type Noop struct{}

func (Noop) HeaderDecoded(HeaderEvent, []byte)             {}
func (Noop) SignatureConsumed(SignatureEvent, []byte)      {}
func (Noop) SegmentTableDecoded(SegmentTableEvent, []byte) {}
func (Noop) BodyDecoded(BodyEvent, []byte)                 {}
func (Noop) TypeBlockDecoded(TypeBlockEvent, []byte)       {}

// HexDump renders data as a classic 16-bytes-per-line hex + ASCII dump,
// the same shape the original decoder printed for each consumed block.
func HexDump(data []byte) string {
	var b strings.Builder
	for pos := 0; pos < len(data); pos += 16 {
		end := pos + 16
		if end > len(data) {
			end = len(data)
		}
		line := data[pos:end]
		fmt.Fprintf(&b, "%08X | ", pos)
		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&b, "%02X ", line[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("| ")
		for _, c := range line {
			if c < 0x20 || c > 0x7e {
				b.WriteByte('.')
			} else {
				b.WriteByte(c)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
