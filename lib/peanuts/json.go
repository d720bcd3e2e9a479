// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package peanuts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// ParseJSON parses JSON configuration source into a tree. Comments
// and trailing commas are accepted (JSONC); the root must be an
// object. Object key order is preserved, which encoding/json's map
// unmarshaling would lose — hence the token-level walk.
func ParseJSON(source []byte) (*configtree.Map, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(source)))
	decoder.UseNumber()

	value, err := decodeJSONValue(decoder)
	if err != nil {
		return nil, &ParseError{Msg: "json: " + err.Error()}
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Msg: "json: trailing data after document"}
	}

	root, ok := value.(*configtree.Map)
	if !ok {
		return nil, &ParseError{Msg: fmt.Sprintf("json: root must be an object, got %T", value)}
	}
	return root, nil
}

func decodeJSONValue(decoder *json.Decoder) (configtree.Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(decoder, token)
}

func decodeJSONToken(decoder *json.Decoder, token json.Token) (configtree.Value, error) {
	switch tok := token.(type) {
	case json.Delim:
		switch tok {
		case '{':
			m := configtree.NewMap()
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyToken)
				}
				value, err := decodeJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			// Consume the closing brace.
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return m, nil

		case '[':
			var list configtree.List
			for decoder.More() {
				value, err := decodeJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				list = append(list, value)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			if list == nil {
				list = configtree.List{}
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)

	case string:
		return configtree.String(tok), nil

	case bool:
		return configtree.Bool(tok), nil

	case json.Number:
		if n, err := strconv.ParseInt(tok.String(), 10, 64); err == nil {
			return configtree.Int(n), nil
		}
		f, err := tok.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", tok.String())
		}
		return configtree.Float(f), nil

	case nil:
		return configtree.Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", token)
}
