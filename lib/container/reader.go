// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Read opens the container at path, validates the header, reads
// exactly the declared payload, and verifies the checksum when one is
// recorded. It returns the parsed header and the stored (still
// compressed) payload bytes.
//
// Validation order: magic and format version first, then payload
// length against the file, then the checksum. Only after all checks
// pass should the caller hand the payload to Decompress.
func Read(path string) (Header, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer file.Close()

	headerBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, fmt.Errorf("%w: file shorter than %d-byte header", ErrTruncated, HeaderSize)
		}
		return Header{}, nil, fmt.Errorf("reading container header: %w", err)
	}

	header, err := unmarshalHeader(headerBytes)
	if err != nil {
		return Header{}, nil, err
	}

	payload := make([]byte, header.CompressedSize)
	if _, err := io.ReadFull(file, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, fmt.Errorf("%w: header declares %d payload bytes, file has fewer",
				ErrTruncated, header.CompressedSize)
		}
		return Header{}, nil, fmt.Errorf("reading container payload: %w", err)
	}

	if header.Checksum != "" && !Verify(payload, header.Checksum) {
		return Header{}, nil, fmt.Errorf("%w: stored %s, computed %s",
			ErrChecksumMismatch, header.Checksum, Digest(payload))
	}

	return header, payload, nil
}

// ReadHeader reads and validates only the fixed header. The payload is
// not read and the checksum is not verified; use this for inspection
// tooling that reports container metadata without loading it.
func ReadHeader(path string) (Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer file.Close()

	headerBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: file shorter than %d-byte header", ErrTruncated, HeaderSize)
		}
		return Header{}, fmt.Errorf("reading container header: %w", err)
	}

	return unmarshalHeader(headerBytes)
}
