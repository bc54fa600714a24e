package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:  "empty string",
			input: "",
		},
		{
			name:     "safe HTML preserved",
			input:    "<p>Hello <strong>World</strong></p>",
			contains: []string{"<p>", "<strong>", "Hello", "World"},
		},
		{
			name:     "script tag removed",
			input:    "<p>Hello</p><script>alert('xss')</script>",
			contains: []string{"<p>Hello</p>"},
			excludes: []string{"<script>", "alert"},
		},
		{
			name:     "onclick removed",
			input:    `<p onclick="alert('xss')">Click me</p>`,
			contains: []string{"<p>", "Click me"},
			excludes: []string{"onclick"},
		},
		{
			name:     "javascript URL removed",
			input:    `<a href="javascript:alert('xss')">Link</a>`,
			contains: []string{"Link"},
			excludes: []string{"javascript:"},
		},
		{
			name:     "safe link preserved",
			input:    `<a href="https://example.com">Link</a>`,
			contains: []string{"<a", "https://example.com", "Link"},
		},
		{
			name:     "table cells with spans",
			input:    `<table><tr><th colspan="2">Head</th></tr><tr><td rowspan="1">Cell</td></tr></table>`,
			contains: []string{"<table>", `colspan="2"`, `rowspan="1"`, "Cell"},
		},
		{
			name:     "check list attributes kept",
			input:    `<ul class="checklist"><li role="checkbox" aria-checked="true">done</li></ul>`,
			contains: []string{`role="checkbox"`, `aria-checked="true"`, `class="checklist"`},
		},
		{
			name:     "formatting elements kept",
			input:    "<p><u>u</u><s>s</s><sub>2</sub><sup>3</sup><code>x</code></p>",
			contains: []string{"<u>", "<s>", "<sub>", "<sup>", "<code>"},
		},
		{
			name:     "iframe removed",
			input:    `<iframe src="https://evil.com"></iframe><p>Content</p>`,
			contains: []string{"<p>Content</p>"},
			excludes: []string{"<iframe", "evil.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() = %q, should contain %q", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	in := `<p>Hi <a href="https://example.com">there</a></p><script>x()</script>`
	once := Sanitize(in)
	if twice := Sanitize(once); twice != once {
		t.Errorf("Sanitize not idempotent: %q vs %q", once, twice)
	}
}

func TestSanitizeToHTML(t *testing.T) {
	if got := string(SanitizeToHTML("<b>ok</b><script></script>")); got != "<b>ok</b>" {
		t.Errorf("SanitizeToHTML() = %q, want %q", got, "<b>ok</b>")
	}
}
