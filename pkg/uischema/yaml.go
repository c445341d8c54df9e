package uischema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML encodes v as JSON and re-emits it as block-style YAML, keeping the
// key order produced by the JSON encoders in this package.
func ToYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("uischema: encode json: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("uischema: parse json as yaml: %w", err)
	}
	resetStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("uischema: encode yaml: %w", err)
	}
	return out, nil
}

func resetStyle(node *yaml.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		node.Style = 0
	case yaml.ScalarNode:
		if node.Tag == "!!str" {
			node.Style = 0
		}
	}
	for _, child := range node.Content {
		resetStyle(child)
	}
}
