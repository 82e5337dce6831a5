package siteconfig

import "gopkg.in/yaml.v3"

// lookup returns the value node of key in mapping m.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// setScalar sets key in mapping m to a plain scalar, appending the key when
// it is missing (or prepending when first is set).
func setScalar(m *yaml.Node, key, value, tag string, first bool) {
	if v := lookup(m, key); v != nil {
		*v = yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, LineComment: v.LineComment}
		return
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	v := &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	if first {
		m.Content = append([]*yaml.Node{k, v}, m.Content...)
		return
	}
	m.Content = append(m.Content, k, v)
}

func clone(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = clone(child)
	}
	if n.Alias != nil {
		c.Alias = clone(n.Alias)
	}
	return &c
}
