package source

import (
	"encoding/base64"
	"math/big"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

// DecodeYAML decodes the first document of data. Mappings become
// value.Dict in document order, !!binary scalars become []byte and
// timestamps become time.Time.
func DecodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.InvalidInput(errors.PhaseInput, "yaml", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, errors.InvalidInput(errors.PhaseInput, "yaml: empty document", nil)
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil, errors.InvalidInput(errors.PhaseInput, "yaml: empty document", nil)
	}
	d := &yamlDecoder{expanding: make(map[*yaml.Node]bool)}
	return d.node(node)
}

// maxAliasNodes caps the nodes produced by alias expansion.
const maxAliasNodes = 1 << 20

type yamlDecoder struct {
	expanding map[*yaml.Node]bool
	aliased   int
}

func (d *yamlDecoder) node(node *yaml.Node) (any, error) {
	if len(d.expanding) > 0 {
		d.aliased++
		if d.aliased > maxAliasNodes {
			return nil, errors.New(errors.PhaseInput, errors.KindInvalidInput).
				Detail("yaml line %d: aliases expand to more than %d nodes", node.Line, maxAliasNodes).
				Build()
		}
	}

	switch node.Kind {
	case yaml.MappingNode:
		entries := make(value.Dict, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := d.node(node.Content[i])
			if err != nil {
				return nil, err
			}
			val, err := d.node(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.Pair{Key: key, Value: val})
		}
		return entries, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := d.node(child)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return d.alias(node)
	default:
		return decodeYAMLScalar(node)
	}
}

func (d *yamlDecoder) alias(node *yaml.Node) (any, error) {
	target := node.Alias
	if target == nil {
		return nil, nil
	}
	if d.expanding[target] {
		return nil, errors.New(errors.PhaseInput, errors.KindInvalidInput).
			Value(node.Value).
			Detail("yaml line %d: alias *%s refers to itself", node.Line, node.Value).
			Build()
	}
	d.expanding[target] = true
	defer delete(d.expanding, target)
	return d.node(target)
}

func decodeYAMLScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(node.Value), ""))
		if err != nil {
			return nil, yamlError(node, err)
		}
		return b, nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return nil, yamlError(node, err)
		}
		return t, nil
	case "!!str":
		return node.Value, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return i, nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return u, nil
		}
		if b, ok := new(big.Int).SetString(strings.ReplaceAll(node.Value, "_", ""), 0); ok {
			return b, nil
		}
		return nil, yamlError(node, nil)
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, yamlError(node, err)
	}
	return v, nil
}

func yamlError(node *yaml.Node, cause error) error {
	return errors.New(errors.PhaseInput, errors.KindInvalidInput).
		Value(node.Value).
		Detail("yaml line %d: cannot decode %s scalar", node.Line, node.ShortTag()).
		Cause(cause).
		Build()
}
