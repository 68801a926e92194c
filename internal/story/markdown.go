package story

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders localized body text to sanitized HTML. Results are
// memoized per source string since dictionaries never change at runtime.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  sync.Map // string -> template.HTML
}

// NewMarkdown configures goldmark with typographic quotes and links.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Typographer, extension.Linkify),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts src, falling back to the escaped text if conversion fails.
func (m *Markdown) Render(src string) template.HTML {
	if v, ok := m.cache.Load(src); ok {
		return v.(template.HTML)
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
	m.cache.Store(src, out)
	return out
}
