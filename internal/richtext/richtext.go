// Package richtext handles the values stored in line item names and
// descriptions. A value is either a JSON string (plain text) or a structured
// editor document:
//
//	{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"..."}]}]}
//
// Values are opaque to schema migration. Converting plain-text names into
// structured documents is a separate upgrade path, see UpgradeLineItemNames.
package richtext

import (
	"bytes"
	"encoding/json"
	"strings"

	"invoicer/pkg/models"
)

// Node is one node of a structured document.
type Node struct {
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Marks   json.RawMessage `json:"marks,omitempty"`
	Attrs   json.RawMessage `json:"attrs,omitempty"`
	Content []Node          `json:"content,omitempty"`
}

var blockTypes = map[string]bool{
	"paragraph":   true,
	"heading":     true,
	"listItem":    true,
	"blockquote":  true,
	"codeBlock":   true,
	"bulletList":  false,
	"orderedList": false,
}

// IsEmpty reports whether v holds no value at all.
func IsEmpty(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// IsStructured reports whether v is a structured document rather than plain
// text.
func IsStructured(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var node Node
	return json.Unmarshal(trimmed, &node) == nil && node.Type == "doc"
}

// PlainText renders v as plain text. Block nodes are separated by newlines,
// hard breaks become newlines. Values that are neither strings nor documents
// render as their raw JSON.
func PlainText(v json.RawMessage) string {
	if IsEmpty(v) {
		return ""
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}

	var node Node
	if err := json.Unmarshal(v, &node); err != nil || node.Type == "" {
		return string(bytes.TrimSpace(v))
	}

	var blocks []string
	collectBlocks(node, &blocks)
	return strings.Join(blocks, "\n")
}

func collectBlocks(n Node, blocks *[]string) {
	if isBlock, known := blockTypes[n.Type]; known && isBlock {
		var b strings.Builder
		writeInline(n, &b)
		*blocks = append(*blocks, b.String())
		return
	}
	for _, child := range n.Content {
		collectBlocks(child, blocks)
	}
	if n.Type == "text" {
		*blocks = append(*blocks, n.Text)
	}
}

func writeInline(n Node, b *strings.Builder) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
	case "hardBreak":
		b.WriteByte('\n')
	}
	for _, child := range n.Content {
		writeInline(child, b)
	}
}

// FromPlainText builds a structured document with one paragraph per line.
func FromPlainText(s string) json.RawMessage {
	doc := Node{Type: "doc"}
	for _, line := range strings.Split(s, "\n") {
		para := Node{Type: "paragraph"}
		if line != "" {
			para.Content = []Node{{Type: "text", Text: line}}
		}
		doc.Content = append(doc.Content, para)
	}

	data, _ := json.Marshal(doc)
	return data
}

// Text encodes s as a plain-text value.
func Text(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}

// UpgradeLineItemNames returns a copy of items where every plain-text name is
// replaced by an equivalent structured document. The input is not modified.
// It returns the number of names converted.
func UpgradeLineItemNames(items []models.LineItem) ([]models.LineItem, int) {
	out := make([]models.LineItem, len(items))
	converted := 0
	for i, item := range items {
		out[i] = item
		if IsEmpty(item.Name) || IsStructured(item.Name) {
			continue
		}
		var s string
		if err := json.Unmarshal(item.Name, &s); err != nil {
			continue
		}
		out[i].Name = FromPlainText(s)
		converted++
	}
	return out, converted
}
