// Package yml assembles yaml documents whose mapping keys keep insertion
// order; marshalling a plain Go map would shuffle the stage keys of a route
// sheet.
package yml

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Node yaml.Node

// NewDocument returns an empty document node
func NewDocument() *Node {
	return &Node{Kind: yaml.DocumentNode}
}

// NewMap returns an empty ordered mapping node
func NewMap() *Node {
	return &Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// NewSlice returns an empty sequence node
func NewSlice() *Node {
	return &Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// Put appends a key value pair after the pairs already present
func (n *Node) Put(key string, value interface{}) *Node {
	if n.Kind != yaml.MappingNode { //sanity check
		panic("not a map node")
	}
	n.Content = append(n.Content, scalar(key), valueNode(value))
	return n
}

// Append adds an item to a sequence or document node
func (n *Node) Append(value interface{}) *Node {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
	default:
		panic("not a sequence node")
	}
	n.Content = append(n.Content, valueNode(value))
	return n
}

// Marshal renders the node as a yaml document
func (n *Node) Marshal() ([]byte, error) {
	return yaml.Marshal((*yaml.Node)(n))
}

func valueNode(value interface{}) *yaml.Node {
	switch actual := value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	case *Node:
		return (*yaml.Node)(actual)
	case *yaml.Node:
		return actual
	case string:
		return scalar(actual)
	case []string:
		seq := NewSlice()
		for _, item := range actual {
			seq.Append(item)
		}
		return (*yaml.Node)(seq)
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(actual)}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(actual)}
	default:
		panic(fmt.Sprintf("unsupported yaml node value %T", value))
	}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
