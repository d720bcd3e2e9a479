// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Method identifies the compression algorithm applied to a container
// payload. The byte value is stored in the header. These values are
// protocol constants — changing them breaks container compatibility.
type Method uint8

const (
	// MethodNone stores the canonical payload uncompressed.
	MethodNone Method = 0

	// MethodGzip is gzip (DEFLATE) compression. The default: broadly
	// supported and effective on text-heavy configuration payloads.
	MethodGzip Method = 1

	// MethodBrotli is brotli compression. Better ratios than gzip on
	// small text payloads at slightly higher CPU cost.
	MethodBrotli Method = 2

	// MethodZstd is zstd compression at the default level.
	MethodZstd Method = 3

	// MethodLZ4 is LZ4 frame compression. Fastest decode of the set.
	MethodLZ4 Method = 4
)

// String returns the selector name of a compression method.
func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodGzip:
		return "gzip"
	case MethodBrotli:
		return "brotli"
	case MethodZstd:
		return "zstd"
	case MethodLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// ParseMethod parses a compression selector string. An unrecognized
// selector is a caller mistake and returns ErrUnknownMethod.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "none":
		return MethodNone, nil
	case "gzip":
		return MethodGzip, nil
	case "brotli":
		return MethodBrotli, nil
	case "zstd":
		return MethodZstd, nil
	case "lz4":
		return MethodLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("container: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("container: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress compresses data with the given method. For MethodNone the
// input is returned unchanged (no copy). All methods use framed
// formats, so decompress(compress(b)) == b holds for every input,
// including incompressible data.
func Compress(data []byte, method Method) ([]byte, error) {
	switch method {
	case MethodNone:
		return data, nil

	case MethodGzip:
		var buf bytes.Buffer
		writer := gzip.NewWriter(&buf)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		return buf.Bytes(), nil

	case MethodBrotli:
		var buf bytes.Buffer
		writer := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("brotli compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("brotli compress: %w", err)
		}
		return buf.Bytes(), nil

	case MethodZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case MethodLZ4:
		var buf bytes.Buffer
		writer := lz4.NewWriter(&buf)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, method)
	}
}

// Decompress reverses Compress. originalSize must match the
// uncompressed length exactly — it comes from the container header and
// a mismatch is reported as an error. An unrecognized method byte
// returns ErrUnsupportedMethod: the file declares an algorithm this
// implementation cannot decode.
func Decompress(data []byte, method Method, originalSize int) ([]byte, error) {
	switch method {
	case MethodNone:
		if len(data) != originalSize {
			return nil, fmt.Errorf("uncompressed payload is %d bytes, header declares %d", len(data), originalSize)
		}
		return data, nil

	case MethodGzip:
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip decompress: %w", err)
		}
		return readExpected(reader, originalSize, "gzip")

	case MethodBrotli:
		return readExpected(brotli.NewReader(bytes.NewReader(data)), originalSize, "brotli")

	case MethodZstd:
		result, err := zstdDecoder.DecodeAll(data, make([]byte, 0, originalSize))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != originalSize {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), originalSize)
		}
		return result, nil

	case MethodLZ4:
		return readExpected(lz4.NewReader(bytes.NewReader(data)), originalSize, "lz4")

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, method)
	}
}

// readExpected drains a decompression stream and verifies it yields
// exactly originalSize bytes.
func readExpected(r io.Reader, originalSize int, name string) ([]byte, error) {
	result, err := io.ReadAll(io.LimitReader(r, int64(originalSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", name, err)
	}
	if len(result) != originalSize {
		return nil, fmt.Errorf("%s decompress: got %d bytes, expected %d", name, len(result), originalSize)
	}
	return result, nil
}
