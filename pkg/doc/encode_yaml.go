package doc

import (
	"time"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// encodeYAML renders an ordered map through the yaml.v3 node API, which
// keeps mapping keys in the order they are appended.
func encodeYAML(m *OrderedMap, canonical bool) ([]byte, error) {
	node, err := yamlMapNode(m, canonical)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, &EncodeError{Encoding: YAML, Err: err}
	}
	return out, nil
}

func yamlMapNode(m *OrderedMap, canonical bool) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys() {
		key := k
		if canonical {
			key = norm.NFC.String(key)
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		v, _ := m.Get(k)
		valNode, err := yamlValueNode(v, canonical)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func yamlValueNode(v any, canonical bool) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		if canonical {
			val = norm.NFC.String(val)
		}
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, &EncodeError{Encoding: YAML, Err: err}
		}
		return node, nil
	case TimeValue:
		node := &yaml.Node{}
		if err := node.Encode(time.Time(val).Format(time.RFC3339Nano)); err != nil {
			return nil, &EncodeError{Encoding: YAML, Err: err}
		}
		return node, nil
	case RawValue:
		node := &yaml.Node{}
		if err := node.Encode(val.V); err != nil {
			return nil, &UnsupportedValueError{Value: val.V}
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range val {
			en, err := yamlValueNode(elem, canonical)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, en)
		}
		return node, nil
	case *OrderedMap:
		return yamlMapNode(val, canonical)
	case bool, int64, float64:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, &EncodeError{Encoding: YAML, Err: err}
		}
		return node, nil
	default:
		return nil, &UnsupportedValueError{Value: v}
	}
}
