// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// FormatVersion is the container format revision this
	// implementation writes, and the newest it can read.
	FormatVersion = 1

	// HeaderSize is the fixed header length in bytes: 4 magic +
	// 4 version + 1 method + 4 original size + 4 compressed size +
	// 8 timestamp + 64 checksum + 32 reserved.
	HeaderSize = 121

	// Extension is the file extension of compiled containers.
	Extension = ".pnt"

	reservedSize = 32
)

// magic is the 4-byte container file signature.
var magic = [4]byte{'P', 'N', 'T', 0}

// Header is the fixed-size container header. All multi-byte fields
// are little-endian on disk.
type Header struct {
	// FormatVersion is the container format revision.
	FormatVersion uint32

	// Method is the compression algorithm applied to the payload.
	Method Method

	// OriginalSize is the byte length of the canonical payload before
	// compression.
	OriginalSize uint32

	// CompressedSize is the byte length of the stored payload — the
	// exact bytes following the header, and the bytes the checksum
	// was computed over.
	CompressedSize uint32

	// CreatedAt is the creation time as Unix seconds.
	CreatedAt int64

	// Checksum is the hex BLAKE3-256 digest of the stored payload, or
	// "" when the container was written without a checksum (the field
	// is zero-filled on disk and verification is skipped on load).
	Checksum string
}

// marshalHeader renders a header into its fixed on-disk form.
func marshalHeader(h Header) ([]byte, error) {
	if h.Checksum != "" && len(h.Checksum) != ChecksumSize {
		return nil, fmt.Errorf("header checksum is %d characters, want %d", len(h.Checksum), ChecksumSize)
	}

	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.FormatVersion)
	buf[8] = byte(h.Method)
	binary.LittleEndian.PutUint32(buf[9:13], h.OriginalSize)
	binary.LittleEndian.PutUint32(buf[13:17], h.CompressedSize)
	binary.LittleEndian.PutUint64(buf[17:25], uint64(h.CreatedAt))
	copy(buf[25:89], h.Checksum)
	// buf[89:121] stays zero: reserved.
	return buf, nil
}

// unmarshalHeader parses and validates a fixed header. Magic and
// format version are checked before any other field is trusted.
func unmarshalHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d header bytes, want %d", ErrTruncated, len(buf), HeaderSize)
	}

	if !bytes.Equal(buf[0:4], magic[:]) {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, buf[0:4])
	}

	version := binary.LittleEndian.Uint32(buf[4:8])
	if version == 0 || version > FormatVersion {
		return Header{}, fmt.Errorf("%w: version %d (supported up to %d)", ErrUnsupportedVersion, version, FormatVersion)
	}

	var h Header
	h.FormatVersion = version
	h.Method = Method(buf[8])
	h.OriginalSize = binary.LittleEndian.Uint32(buf[9:13])
	h.CompressedSize = binary.LittleEndian.Uint32(buf[13:17])
	h.CreatedAt = int64(binary.LittleEndian.Uint64(buf[17:25]))

	checksum, err := parseChecksumField(buf[25:89])
	if err != nil {
		return Header{}, err
	}
	h.Checksum = checksum

	for _, b := range buf[89:HeaderSize] {
		if b != 0 {
			return Header{}, fmt.Errorf("%w: non-zero reserved header bytes", ErrInvalidFormat)
		}
	}

	return h, nil
}

// parseChecksumField interprets the 64-byte checksum field: all zero
// bytes mean no checksum was recorded; otherwise the field must be 64
// lowercase hex characters.
func parseChecksumField(field []byte) (string, error) {
	empty := true
	for _, b := range field {
		if b != 0 {
			empty = false
			break
		}
	}
	if empty {
		return "", nil
	}
	for _, b := range field {
		isHex := (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f')
		if !isHex {
			return "", fmt.Errorf("%w: checksum field is not lowercase hex", ErrInvalidFormat)
		}
	}
	return string(field), nil
}
