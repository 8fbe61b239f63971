package doc

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML builds a block tree from a YAML document, preserving mapping key
// order. The top-level node must be a mapping.
func FromYAML(data []byte) (*Block, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty yaml document")
	}
	val, err := yamlToValue(root.Content[0])
	if err != nil {
		return nil, err
	}
	b, ok := val.(*Block)
	if !ok {
		return nil, fmt.Errorf("yaml document root is not a mapping")
	}
	return b, nil
}

func yamlToValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		b := NewBlock()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := yamlToValue(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			b.Set(key, v)
		}
		return b, nil
	case yaml.SequenceNode:
		arr := make(ArrayValue, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlToValue(c)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.AliasNode:
		return yamlToValue(n.Alias)
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!null":
		return NullValue{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("bool scalar %q: %w", n.Value, err)
		}
		return BoolValue(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("int scalar %q: %w", n.Value, err)
		}
		return IntValue(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("float scalar %q: %w", n.Value, err)
		}
		return FloatValue(f), nil
	default:
		return StringValue(n.Value), nil
	}
}
