// Package htmlsanitize cleans rendered document HTML before it is served.
// It uses bluemonday to strip dangerous markup while keeping the elements
// the renderer emits.
package htmlsanitize

import (
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		// Tables
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

		// Text formats the editor supports
		policy.AllowElements("u", "s", "sub", "sup", "mark", "span")
		policy.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")

		// Check lists and element classes (equation, code language, alignment)
		policy.AllowAttrs("role", "aria-checked").OnElements("li")
		policy.AllowAttrs("class").OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6",
			"ul", "ol", "li", "span", "code", "pre", "blockquote", "table", "tr", "th", "td")
		policy.AllowDataAttributes()
	})
	return policy
}

// Sanitize cleans HTML, removing scripts, event handlers and unsafe URLs.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes html and returns it as template.HTML, which
// templates render without escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}
