// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package peanuts

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// ParseYAML parses YAML configuration source into a tree. The root
// must be a mapping. Decoding goes through yaml.Node rather than
// map[string]any so mapping key order survives.
func ParseYAML(source []byte) (*configtree.Map, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(source, &document); err != nil {
		return nil, &ParseError{Msg: "yaml: " + err.Error()}
	}

	if document.Kind == 0 || len(document.Content) == 0 {
		// Empty document: an empty configuration.
		return configtree.NewMap(), nil
	}

	value, err := yamlNodeValue(document.Content[0])
	if err != nil {
		return nil, err
	}
	root, ok := value.(*configtree.Map)
	if !ok {
		return nil, &ParseError{Msg: fmt.Sprintf("yaml: root must be a mapping, got %T", value)}
	}
	return root, nil
}

func yamlNodeValue(node *yaml.Node) (configtree.Value, error) {
	switch node.Kind {
	case yaml.MappingNode:
		m := configtree.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &ParseError{Line: keyNode.Line, Msg: "yaml: mapping key must be a scalar"}
			}
			value, err := yamlNodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, value)
		}
		return m, nil

	case yaml.SequenceNode:
		list := make(configtree.List, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlNodeValue(child)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil

	case yaml.ScalarNode:
		return yamlScalar(node)

	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)
	}
	return nil, &ParseError{Line: node.Line, Msg: fmt.Sprintf("yaml: unsupported node kind %d", node.Kind)}
}

func yamlScalar(node *yaml.Node) (configtree.Value, error) {
	switch node.Tag {
	case "!!null":
		return configtree.Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, &ParseError{Line: node.Line, Msg: fmt.Sprintf("yaml: invalid bool %q", node.Value)}
		}
		return configtree.Bool(b), nil
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, &ParseError{Line: node.Line, Msg: fmt.Sprintf("yaml: invalid integer %q", node.Value)}
		}
		return configtree.Int(n), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, &ParseError{Line: node.Line, Msg: fmt.Sprintf("yaml: invalid float %q", node.Value)}
		}
		return configtree.Float(f), nil
	default:
		return configtree.String(node.Value), nil
	}
}
