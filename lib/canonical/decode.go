// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// ParseError reports a malformed canonical payload. Offset is the byte
// position at which the problem was detected.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("canonical: %s at offset %d", e.Msg, e.Offset)
}

func parseErr(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Decode parses canonical bytes back into a configuration value. The
// entire input must be consumed: trailing bytes after the root value
// are rejected. Truncation, unknown tags, duplicate map keys, and
// nesting beyond MaxDepth all return a *ParseError.
func Decode(data []byte) (configtree.Value, error) {
	v, off, err := decodeOne(data, 0, 0)
	if err != nil {
		return nil, err
	}
	if off != len(data) {
		return nil, parseErr(off, "%d trailing bytes after value", len(data)-off)
	}
	return v, nil
}

func decodeOne(data []byte, off, depth int) (configtree.Value, int, error) {
	if off >= len(data) {
		return nil, off, parseErr(off, "truncated value tag")
	}
	tag := data[off]
	off++

	switch tag {
	case tagNull:
		return configtree.Null{}, off, nil

	case tagBool:
		if off >= len(data) {
			return nil, off, parseErr(off, "truncated bool")
		}
		switch data[off] {
		case 0x00:
			return configtree.Bool(false), off + 1, nil
		case 0x01:
			return configtree.Bool(true), off + 1, nil
		}
		return nil, off, parseErr(off, "invalid bool byte 0x%02x", data[off])

	case tagInt:
		if off+8 > len(data) {
			return nil, off, parseErr(off, "truncated int")
		}
		v := configtree.Int(binary.LittleEndian.Uint64(data[off:]))
		return v, off + 8, nil

	case tagFloat:
		if off+8 > len(data) {
			return nil, off, parseErr(off, "truncated float")
		}
		bits := binary.LittleEndian.Uint64(data[off:])
		return configtree.Float(math.Float64frombits(bits)), off + 8, nil

	case tagString:
		raw, newOff, err := readLengthPrefixed(data, off, "string")
		if err != nil {
			return nil, off, err
		}
		return configtree.String(raw), newOff, nil

	case tagList:
		if depth+1 > MaxDepth {
			return nil, off, parseErr(off-1, "list nesting exceeds depth limit %d", MaxDepth)
		}
		count, newOff, err := readCount(data, off, "list")
		if err != nil {
			return nil, off, err
		}
		off = newOff
		list := make(configtree.List, 0, count)
		for i := uint32(0); i < count; i++ {
			item, itemOff, err := decodeOne(data, off, depth+1)
			if err != nil {
				return nil, off, err
			}
			off = itemOff
			list = append(list, item)
		}
		return list, off, nil

	case tagMap:
		if depth+1 > MaxDepth {
			return nil, off, parseErr(off-1, "map nesting exceeds depth limit %d", MaxDepth)
		}
		count, newOff, err := readCount(data, off, "map")
		if err != nil {
			return nil, off, err
		}
		off = newOff
		m := configtree.NewMap()
		for i := uint32(0); i < count; i++ {
			keyOff := off
			raw, afterKey, err := readLengthPrefixed(data, off, "map key")
			if err != nil {
				return nil, off, err
			}
			key := string(raw)
			if _, exists := m.Get(key); exists {
				return nil, off, parseErr(keyOff, "duplicate map key %q", key)
			}
			value, afterValue, err := decodeOne(data, afterKey, depth+1)
			if err != nil {
				return nil, off, err
			}
			m.Set(key, value)
			off = afterValue
		}
		return m, off, nil
	}
	return nil, off, parseErr(off-1, "unknown value tag 0x%02x", tag)
}

// readLengthPrefixed reads a u32 length followed by that many bytes.
// The length is checked against the remaining input before allocation,
// so a corrupt length cannot trigger a huge allocation.
func readLengthPrefixed(data []byte, off int, what string) ([]byte, int, error) {
	if off+4 > len(data) {
		return nil, off, parseErr(off, "truncated %s length", what)
	}
	n := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if uint64(off)+uint64(n) > uint64(len(data)) {
		return nil, off, parseErr(off, "%s length %d exceeds remaining %d bytes", what, n, len(data)-off)
	}
	return data[off : off+int(n)], off + int(n), nil
}

// readCount reads a u32 element count and sanity-checks it against the
// remaining input (every element occupies at least one tag byte).
func readCount(data []byte, off int, what string) (uint32, int, error) {
	if off+4 > len(data) {
		return 0, off, parseErr(off, "truncated %s count", what)
	}
	count := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if uint64(count) > uint64(len(data)-off) {
		return 0, off, parseErr(off, "%s count %d exceeds remaining %d bytes", what, count, len(data)-off)
	}
	return count, off, nil
}
