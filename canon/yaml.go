package canon

import (
	"math/big"

	"gopkg.in/yaml.v3"

	"github.com/forestrie/verifiable-ledger/limits"
	"github.com/forestrie/verifiable-ledger/xerrors"
)

// YAMLToCanonical parses text as YAML and canonicalizes the result,
// treating the parse as a pure "parse-then-canonize" step.
// Duplicate mapping keys, which YAML permits but the canonical form
// forbids, are rejected here rather than silently resolved last-write-wins.
func YAMLToCanonical(text string, lim limits.Limits) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return nil, xerrors.ErrNonCanonicalizable
	}
	if len(node.Content) == 0 {
		return Canonize(Null(), lim)
	}
	v, err := nodeToValue(node.Content[0], 0, lim)
	if err != nil {
		return nil, err
	}
	return Canonize(v, lim)
}

// nodeToValue walks the YAML node tree, converting it to a Value. depth
// bounds the walk the same way Canonize bounds its own recursion: a YAML
// anchor aliasing an ancestor of itself (e.g. "a: &x [*x]") would otherwise
// recurse through AliasNode/SequenceNode forever and overflow the stack.
func nodeToValue(n *yaml.Node, depth int, lim limits.Limits) (Value, error) {
	if depth > lim.CanonMaxDepth {
		return Value{}, xerrors.ErrNonCanonicalizable
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return nodeToValue(n.Content[0], depth+1, lim)
	case yaml.ScalarNode:
		return scalarToValue(n)
	case yaml.SequenceNode:
		arr := make([]Value, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeToValue(c, depth+1, lim)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case yaml.MappingNode:
		if len(n.Content)%2 != 0 {
			return Value{}, xerrors.ErrNonCanonicalizable
		}
		seen := make(map[string]bool, len(n.Content)/2)
		m := make(map[string]Value, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, xerrors.ErrNonCanonicalizable
			}
			key := keyNode.Value
			if seen[key] {
				return Value{}, xerrors.ErrNonCanonicalizable
			}
			seen[key] = true
			v, err := nodeToValue(n.Content[i+1], depth+1, lim)
			if err != nil {
				return Value{}, err
			}
			m[key] = v
		}
		return Map(m), nil
	case yaml.AliasNode:
		return nodeToValue(n.Alias, depth+1, lim)
	default:
		return Value{}, xerrors.ErrNonCanonicalizable
	}
}

func scalarToValue(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, xerrors.ErrNonCanonicalizable
		}
		return Bool(b), nil
	case "!!int":
		i, ok := new(big.Int).SetString(n.Value, 10)
		if !ok {
			return Value{}, xerrors.ErrNonCanonicalizable
		}
		return Int(i), nil
	case "!!float":
		// The canonical form bans floats outright.
		return Value{}, xerrors.ErrNonCanonicalizable
	default:
		return String(n.Value), nil
	}
}
