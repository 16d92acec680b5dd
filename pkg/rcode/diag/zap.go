package diag

import "go.uber.org/zap"

// ZapSink adapts Sink to a structured zap.Logger, at Debug level — decoding
// thousands of r-code files should not itself be noisy at Info and above.
type ZapSink struct {
	Logger *zap.Logger
}

// NewZapSink wraps logger as a Sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{Logger: logger}
}

func (z *ZapSink) log(name string, raw []byte, fields ...zap.Field) {
	if z == nil || z.Logger == nil {
		return
	}
	fields = append(fields, zap.String("hexdump", HexDump(raw)))
	z.Logger.Debug(name, fields...)
}

func (z *ZapSink) HeaderDecoded(event HeaderEvent, raw []byte) {
	z.log("header",
		raw,
		zap.String("order", event.Order),
		zap.Uint16("version", event.Version),
		zap.Uint16("versionMajor", event.VersionMajor),
		zap.Bool("is64Bit", event.Is64Bit),
		zap.Int64("timestamp", event.TimeStamp),
		zap.Uint32("signatureSize", event.SignatureSize),
		zap.Uint16("segmentTableSize", event.SegmentTableSize),
		zap.Uint32("typeBlockSize", event.TypeBlockSize),
		zap.Uint32("rcodeSize", event.RCodeSize),
	)
}

func (z *ZapSink) SignatureConsumed(event SignatureEvent, raw []byte) {
	z.log("signature",
		raw,
		zap.Uint32("preambleSize", event.PreambleSize),
		zap.Uint32("numElements", event.NumElements),
	)
}

func (z *ZapSink) SegmentTableDecoded(event SegmentTableEvent, raw []byte) {
	z.log("segment-table",
		raw,
		zap.Any("initialValue", event.InitialValue),
		zap.Any("action", event.Action),
		zap.Any("ecode", event.Ecode),
		zap.Any("debug", event.Debug),
	)
}

func (z *ZapSink) BodyDecoded(event BodyEvent, raw []byte) {
	z.log("body", raw, zap.Int("size", event.Size))
}

func (z *ZapSink) TypeBlockDecoded(event TypeBlockEvent, raw []byte) {
	z.log("type-block", raw, zap.Int("size", event.Size))
}
