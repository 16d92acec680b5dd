package rcode

import (
	"io"
	"strings"

	"github.com/riverside-software/rcode/pkg/rcode/breader"
	"github.com/riverside-software/rcode/pkg/rcode/charset"
	"github.com/riverside-software/rcode/pkg/rcode/diag"
)

// decodeSignatureBlock reads exactly hdr.SignatureSize bytes and walks its
// records. The decoder keeps only the fact of having consumed them;
// dataset and temp-table descriptors (prefix DSET/TTAB) are skipped
// entirely, and every other record is consumed but otherwise ignored —
// this layer has no use for procedure/function signatures.
func decodeSignatureBlock(r io.Reader, hdr *HeaderInfo, sink diag.Sink) error {
	buf := make([]byte, hdr.SignatureSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return shortRead("signature", err)
	}

	br := breader.New(buf, hdr.Order)

	preambleSize, err := br.ReadAsciiHex(0, 4)
	if err != nil {
		return wrap(err)
	}
	numElements, err := br.ReadAsciiHex(4, 4)
	if err != nil {
		return wrap(err)
	}
	// Offset 8: signature block version (4 bytes). Offset 12: encoding
	// name, null-terminated. Both informational; not used by this layer.

	pos := int(preambleSize)
	cs := charset.UTF8
	for i := uint32(0); i < numElements; i++ {
		str, consumed, err := br.ReadCString(pos, &cs)
		if err != nil {
			return wrap(err)
		}
		if consumed == 0 {
			break
		}
		pos += consumed

		if strings.HasPrefix(str, "DSET") || strings.HasPrefix(str, "TTAB") {
			continue
		}
		// Every other record (function/procedure signatures) is
		// consumed and otherwise ignored at this layer.
	}

	sink.SignatureConsumed(diag.SignatureEvent{
		PreambleSize: preambleSize,
		NumElements:  numElements,
	}, buf)

	return nil
}
