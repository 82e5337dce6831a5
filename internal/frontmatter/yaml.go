package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode unmarshals the front matter into v. Empty front matter leaves v untouched.
func (d Document) Decode(v any) error {
	if len(bytes.TrimSpace(d.Front)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(d.Front, v); err != nil {
		return fmt.Errorf("decode front matter: %w", err)
	}
	return nil
}

// Node parses the front matter as a YAML mapping node, keeping key order and comments.
func (d Document) Node() (*yaml.Node, error) {
	if len(bytes.TrimSpace(d.Front)) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(d.Front, &root); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter is not a mapping")
	}
	return root.Content[0], nil
}

// SetNode replaces the front matter with the encoding of node.
func (d *Document) SetNode(node *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	out := buf.Bytes()
	if d.Style.Newline == "\r\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	d.Front = out
	d.Had = true
	return nil
}
