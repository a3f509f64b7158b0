package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/ardent-devices/scanlink/lib/protocol"
	"github.com/klauspost/compress/zlib"
)

// Compression levels accepted by Pack.
const (
	MinCompressionLevel = 1
	MaxCompressionLevel = 9

	// DefaultCompressionLevel balances encode time against QR density.
	DefaultCompressionLevel = 6
)

// headerSize is the size of the original-size prefix in the text form.
const headerSize = 4

// --------------------------------------------------------------------------
// Compressed Payload
// --------------------------------------------------------------------------

// Payload is a compressed byte sequence together with the size of the
// data it was compressed from. The original size travels with the
// compressed bytes so Unpack can verify that decompression reproduced
// exactly that many bytes.
type Payload struct {
	OriginalSize uint32
	Compressed   []byte
}

// Pack compresses data at the given zlib level (1-9). The output is
// deterministic for a given level; higher levels trade encode time for
// smaller output.
func Pack(data []byte, level int) (Payload, error) {
	if level < MinCompressionLevel || level > MaxCompressionLevel {
		return Payload{}, protocol.NewError(protocol.ErrCInvalidParameter,
			"compression level must be %d-%d, got %d", MinCompressionLevel, MaxCompressionLevel, level)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return Payload{}, protocol.NewError(protocol.ErrCInvalidParameter,
			"compression level %d rejected: %v", level, err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return Payload{}, protocol.NewError(protocol.ErrCDecompressionFailed,
			"compressing %d bytes: %v", len(data), err)
	}
	if err := zw.Close(); err != nil {
		return Payload{}, protocol.NewError(protocol.ErrCDecompressionFailed,
			"finalizing zlib stream: %v", err)
	}

	return Payload{
		OriginalSize: uint32(len(data)),
		Compressed:   buf.Bytes(),
	}, nil
}

// Unpack decompresses a payload and validates the result against the
// recorded original size. The size check runs unconditionally.
func Unpack(p Payload) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(p.Compressed))
	if err != nil {
		return nil, protocol.NewError(protocol.ErrCDecompressionFailed,
			"not a valid zlib stream: %v", err)
	}
	defer zr.Close()

	// Read at most one byte past the recorded size so oversized output is
	// detected without buffering an unbounded stream. When the stream holds
	// more than OriginalSize+1 bytes the limit cuts off the read before the
	// trailing adler32 checksum, so such payloads fail with SizeMismatch
	// without the checksum ever being verified.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, int64(p.OriginalSize)+1))
	if err != nil {
		return nil, protocol.NewError(protocol.ErrCDecompressionFailed,
			"zlib stream corrupt after %d bytes: %v", n, err)
	}
	if n != int64(p.OriginalSize) {
		return nil, protocol.NewError(protocol.ErrCSizeMismatch,
			"expected %d decompressed bytes, got %d", p.OriginalSize, n)
	}
	return buf.Bytes(), nil
}

// --------------------------------------------------------------------------
// Text-Safe Encoding
// --------------------------------------------------------------------------

// EncodeText renders a payload as scannable text: base64 over the
// original-size header and the zlib stream.
func EncodeText(p Payload) string {
	raw := make([]byte, headerSize+len(p.Compressed))
	binary.BigEndian.PutUint32(raw[:headerSize], p.OriginalSize)
	copy(raw[headerSize:], p.Compressed)
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeText parses the text form back into a payload.
func DecodeText(text string) (Payload, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Payload{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"payload body is not valid base64: %v", err)
	}
	if len(raw) < headerSize {
		return Payload{}, protocol.NewError(protocol.ErrCMalformedPayload,
			"payload body too short for size header: %d bytes", len(raw))
	}
	return Payload{
		OriginalSize: binary.BigEndian.Uint32(raw[:headerSize]),
		Compressed:   raw[headerSize:],
	}, nil
}

// PackText compresses data and returns its text form in one step.
func PackText(data []byte, level int) (string, error) {
	p, err := Pack(data, level)
	if err != nil {
		return "", err
	}
	return EncodeText(p), nil
}

// UnpackText parses and decompresses a text-form payload in one step.
func UnpackText(text string) ([]byte, error) {
	p, err := DecodeText(text)
	if err != nil {
		return nil, err
	}
	return Unpack(p)
}
