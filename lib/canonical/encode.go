// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// Value tags. Protocol constants — changing them breaks payload
// compatibility with every existing container.
const (
	tagNull   = 0x00
	tagBool   = 0x01
	tagInt    = 0x02
	tagFloat  = 0x03
	tagString = 0x04
	tagList   = 0x05
	tagMap    = 0x06
)

// MaxDepth is the maximum container nesting depth accepted by both
// encoder and decoder. Scalars do not count toward depth.
const MaxDepth = 64

// Encode serializes a configuration value to canonical bytes. It
// fails on trees deeper than MaxDepth, on maps with duplicate keys,
// and on strings or containers whose size exceeds the u32 framing.
func Encode(v configtree.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTo(buf *bytes.Buffer, v configtree.Value, depth int) error {
	switch val := v.(type) {
	case configtree.Null:
		buf.WriteByte(tagNull)

	case configtree.Bool:
		buf.WriteByte(tagBool)
		if val {
			buf.WriteByte(0x01)
		} else {
			buf.WriteByte(0x00)
		}

	case configtree.Int:
		buf.WriteByte(tagInt)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(val))
		buf.Write(b[:])

	case configtree.Float:
		buf.WriteByte(tagFloat)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(float64(val)))
		buf.Write(b[:])

	case configtree.String:
		if err := writeString(buf, string(val)); err != nil {
			return err
		}

	case configtree.List:
		if depth+1 > MaxDepth {
			return fmt.Errorf("canonical: list nesting exceeds depth limit %d", MaxDepth)
		}
		if err := writeCount(buf, tagList, len(val)); err != nil {
			return err
		}
		for _, item := range val {
			if err := encodeTo(buf, item, depth+1); err != nil {
				return err
			}
		}

	case *configtree.Map:
		if depth+1 > MaxDepth {
			return fmt.Errorf("canonical: map nesting exceeds depth limit %d", MaxDepth)
		}
		if err := writeCount(buf, tagMap, val.Len()); err != nil {
			return err
		}
		for i := 0; i < val.Len(); i++ {
			key, value := val.At(i)
			if err := writeLengthPrefixed(buf, key); err != nil {
				return err
			}
			if err := encodeTo(buf, value, depth+1); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("canonical: unsupported value type %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	buf.WriteByte(tagString)
	return writeLengthPrefixedBytes(buf, []byte(s), "string")
}

func writeLengthPrefixed(buf *bytes.Buffer, key string) error {
	return writeLengthPrefixedBytes(buf, []byte(key), "map key")
}

func writeLengthPrefixedBytes(buf *bytes.Buffer, raw []byte, what string) error {
	if len(raw) > math.MaxUint32 {
		return fmt.Errorf("canonical: %s length %d exceeds u32 framing", what, len(raw))
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(raw)))
	buf.Write(b[:])
	buf.Write(raw)
	return nil
}

func writeCount(buf *bytes.Buffer, tag byte, count int) error {
	if count > math.MaxUint32 {
		return fmt.Errorf("canonical: element count %d exceeds u32 framing", count)
	}
	buf.WriteByte(tag)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(count))
	buf.Write(b[:])
	return nil
}
