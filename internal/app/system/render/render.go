// Package render converts a stored editor tree to sanitized HTML for the
// read-only page snapshot.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/AashishRichhariya/openleaf/internal/app/system/htmlsanitize"
)

// Text format bits as stored on text nodes.
const (
	FormatBold = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
)

// formatTags is applied outermost first.
var formatTags = []struct {
	bit int
	tag string
}{
	{FormatBold, "strong"},
	{FormatItalic, "em"},
	{FormatStrikethrough, "s"},
	{FormatUnderline, "u"},
	{FormatSubscript, "sub"},
	{FormatSuperscript, "sup"},
	{FormatCode, "code"},
}

type node = map[string]any

// HTML renders raw to sanitized HTML. Empty or null content renders as "".
func HTML(raw json.RawMessage) (template.HTML, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", nil
	}
	var doc struct {
		Root node `json:"root"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	var b strings.Builder
	writeChildren(&b, doc.Root)
	return htmlsanitize.SanitizeToHTML(b.String()), nil
}

func children(n node) []node {
	list, _ := n["children"].([]any)
	out := make([]node, 0, len(list))
	for _, c := range list {
		if m, ok := c.(node); ok {
			out = append(out, m)
		}
	}
	return out
}

func str(n node, key string) string {
	s, _ := n[key].(string)
	return s
}

func num(n node, key string) int {
	f, _ := n[key].(float64)
	return int(f)
}

func writeChildren(b *strings.Builder, n node) {
	for _, c := range children(n) {
		writeNode(b, c)
	}
}

func writeNode(b *strings.Builder, n node) {
	switch str(n, "type") {
	case "text", "code-highlight":
		writeText(b, n)
	case "paragraph":
		if len(children(n)) == 0 {
			b.WriteString("<p><br></p>")
			return
		}
		wrap(b, "p", n)
	case "heading":
		tag := str(n, "tag")
		if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
			tag = "h1"
		}
		wrap(b, tag, n)
	case "quote":
		wrap(b, "blockquote", n)
	case "list":
		writeList(b, n)
	case "listitem":
		b.WriteString("<li>")
		writeChildren(b, n)
		b.WriteString("</li>")
	case "code":
		b.WriteString("<pre><code")
		if lang := str(n, "language"); lang != "" {
			fmt.Fprintf(b, ` data-language="%s"`, html.EscapeString(lang))
		}
		b.WriteString(">")
		writeChildren(b, n)
		b.WriteString("</code></pre>")
	case "link", "autolink":
		fmt.Fprintf(b, `<a href="%s">`, html.EscapeString(str(n, "url")))
		writeChildren(b, n)
		b.WriteString("</a>")
	case "table":
		b.WriteString("<table><tbody>")
		writeChildren(b, n)
		b.WriteString("</tbody></table>")
	case "tablerow":
		wrap(b, "tr", n)
	case "tablecell":
		writeCell(b, n)
	case "linebreak":
		b.WriteString("<br>")
	case "tab":
		b.WriteString("\t")
	case "horizontalrule":
		b.WriteString("<hr>")
	case "equation":
		fmt.Fprintf(b, `<span class="equation">%s</span>`, html.EscapeString(str(n, "equation")))
	default:
		// Unknown containers still show their text; unknown leaves are dropped.
		writeChildren(b, n)
	}
}

func wrap(b *strings.Builder, tag string, n node) {
	b.WriteString("<" + tag + ">")
	writeChildren(b, n)
	b.WriteString("</" + tag + ">")
}

func writeText(b *strings.Builder, n node) {
	text := html.EscapeString(str(n, "text"))
	format := num(n, "format")
	var closers []string
	for _, f := range formatTags {
		if format&f.bit != 0 {
			b.WriteString("<" + f.tag + ">")
			closers = append(closers, "</"+f.tag+">")
		}
	}
	b.WriteString(text)
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
}

func writeList(b *strings.Builder, n node) {
	listType := str(n, "listType")
	tag := "ul"
	if listType == "number" || str(n, "tag") == "ol" {
		tag = "ol"
	}
	b.WriteString("<" + tag)
	if listType == "check" {
		b.WriteString(` class="checklist"`)
	}
	if start := num(n, "start"); tag == "ol" && start > 1 {
		b.WriteString(` start="` + strconv.Itoa(start) + `"`)
	}
	b.WriteString(">")
	for _, item := range children(n) {
		if listType == "check" && str(item, "type") == "listitem" {
			checked, _ := item["checked"].(bool)
			fmt.Fprintf(b, `<li role="checkbox" aria-checked="%t">`, checked)
			writeChildren(b, item)
			b.WriteString("</li>")
			continue
		}
		writeNode(b, item)
	}
	b.WriteString("</" + tag + ">")
}

func writeCell(b *strings.Builder, n node) {
	tag := "td"
	if num(n, "headerState") != 0 {
		tag = "th"
	}
	b.WriteString("<" + tag)
	if span := num(n, "colSpan"); span > 1 {
		b.WriteString(` colspan="` + strconv.Itoa(span) + `"`)
	}
	if span := num(n, "rowSpan"); span > 1 {
		b.WriteString(` rowspan="` + strconv.Itoa(span) + `"`)
	}
	b.WriteString(">")
	writeChildren(b, n)
	b.WriteString("</" + tag + ">")
}

// PlainText returns the document's text with blocks separated by newlines.
// It feeds page descriptions.
func PlainText(raw json.RawMessage) string {
	var doc struct {
		Root node `json:"root"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Root == nil {
		return ""
	}
	var parts []string
	for _, block := range children(doc.Root) {
		var b strings.Builder
		collectText(&b, block)
		if s := strings.TrimSpace(b.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func collectText(b *strings.Builder, n node) {
	switch str(n, "type") {
	case "text", "code-highlight":
		b.WriteString(str(n, "text"))
	case "linebreak":
		b.WriteString(" ")
	case "equation":
		b.WriteString(str(n, "equation"))
	}
	for _, c := range children(n) {
		collectText(b, c)
	}
}
