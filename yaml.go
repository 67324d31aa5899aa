package proptext

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlOpen is an open container while folding properties into a node tree.
type yamlOpen struct {
	seg  Segment
	node *yaml.Node
}

func writeYAML(w io.Writer, props []Property, cfg config) error {
	if len(props) == 0 {
		return nil
	}
	root, err := yamlTree(props)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(len(cfg.indent))
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

// yamlTree folds ordered properties into a mapping or sequence node, reusing
// open containers the same way [Writer] does.
func yamlTree(props []Property) (*yaml.Node, error) {
	var root *yaml.Node
	var open []yamlOpen
	var prev []Segment
	for _, p := range props {
		segs, err := p.Segments()
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = newContainer(segs[0])
		}
		leaf := len(segs) - 1
		common := 0
		for common < leaf && common < len(open) && open[common].seg == segs[common] {
			common++
		}
		open = open[:common]
		if seg := segs[common]; seg.Kind == IndexSegment && common < len(prev) && prev[common] == seg {
			return nil, fmt.Errorf("%w: %q", ErrReopenedItem, p.Path)
		}
		prev = segs

		parent := root
		if common > 0 {
			parent = open[common-1].node
		}
		for i := common; i <= leaf; i++ {
			seg := segs[i]
			if err := checkContainer(parent, seg, p.Path); err != nil {
				return nil, err
			}
			var child *yaml.Node
			if i == leaf {
				child = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Value}
			} else {
				child = newContainer(segs[i+1])
			}
			if seg.Kind == NameSegment {
				key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: seg.Name}
				parent.Content = append(parent.Content, key, child)
			} else {
				parent.Content = append(parent.Content, child)
			}
			if i < leaf {
				open = append(open, yamlOpen{seg: seg, node: child})
				parent = child
			}
		}
	}
	return root, nil
}

func newContainer(first Segment) *yaml.Node {
	if first.Kind == IndexSegment {
		return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func checkContainer(parent *yaml.Node, seg Segment, path string) error {
	want := yaml.MappingNode
	if seg.Kind == IndexSegment {
		want = yaml.SequenceNode
	}
	if parent.Kind != want {
		return fmt.Errorf("%w: %q mixes list items and keys", ErrInvalidOrdering, path)
	}
	return nil
}

func readYAML(r io.Reader) ([]Property, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	var props []Property
	if err := flattenYAML(&doc, "", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// flattenYAML walks n depth-first, appending one property per scalar.
func flattenYAML(n *yaml.Node, prefix string, props *[]Property) error {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := flattenYAML(c, prefix, props); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return flattenYAML(n.Alias, prefix, props)
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := flattenYAML(n.Content[i+1], join(n.Content[i].Value), props); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if err := flattenYAML(c, join(strconv.Itoa(i)), props); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("%w: scalar document", ErrMalformedPath)
		}
		value := n.Value
		if n.ShortTag() == "!!null" {
			value = ""
		}
		*props = append(*props, Property{Path: prefix, Value: value})
	}
	return nil
}
