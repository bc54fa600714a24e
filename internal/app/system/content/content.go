// Package content inspects serialized editor state trees.
//
// A tree looks like {"root": {"children": [...]}} where every node carries a
// "type" and text nodes carry "text". The package never interprets node
// semantics beyond that; it only answers whether a tree carries anything a
// user would consider content, and produces a canonical string form for
// change detection.
package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TextNodeType is the type discriminator of inline text nodes.
const TextNodeType = "text"

// IsEmpty reports whether raw carries no user-visible content.
//
// nil, JSON null, unparseable input and trees without a root or without
// top-level children are all empty. Otherwise the tree is empty unless some
// top-level child has content:
//   - a text node has content iff its trimmed text is non-empty
//   - a node with a children array has content iff any child does
//   - any other node with a type (an embedded widget, a rule, an equation)
//     is content on its own
//
// A text node whose "text" is set to something other than a string makes the
// whole tree empty, unless content was already found earlier in document order.
func IsEmpty(raw json.RawMessage) bool {
	tree, ok := decode(raw)
	if !ok {
		return true
	}
	root, _ := tree["root"].(map[string]any)
	children, _ := root["children"].([]any)
	if len(children) == 0 {
		return true
	}
	for _, child := range children {
		found, malformed := hasContent(child)
		if malformed {
			return true
		}
		if found {
			return false
		}
	}
	return true
}

// Normalize returns nil when raw is empty, otherwise raw itself.
// The result is what gets persisted: an empty tree is always stored as null.
func Normalize(raw json.RawMessage) json.RawMessage {
	if IsEmpty(raw) {
		return nil
	}
	return raw
}

// Canonical returns a stable string form of raw: object keys sorted and
// insignificant whitespace removed. Two trees that differ only in key order
// or formatting share a canonical form. nil and null both map to "null".
func Canonical(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null", nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decode(raw json.RawMessage) (map[string]any, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil || tree == nil {
		return nil, false
	}
	return tree, true
}

// hasContent walks n depth first and stops at the first node with content.
// malformed is set when it meets a text node it cannot read.
func hasContent(n any) (found, malformed bool) {
	node, ok := n.(map[string]any)
	if !ok {
		return false, false
	}
	nodeType, _ := node["type"].(string)

	if nodeType == TextNodeType {
		switch text := node["text"].(type) {
		case string:
			return strings.TrimSpace(text) != "", false
		case nil, bool:
			// Absent, null and false carry no text; true is unreadable.
			return false, text == true
		case float64:
			return false, text != 0
		default:
			return false, true
		}
	}

	if children, ok := node["children"].([]any); ok {
		for _, child := range children {
			if found, malformed := hasContent(child); found || malformed {
				return found, malformed
			}
		}
		return false, false
	}

	return nodeType != "", false
}
