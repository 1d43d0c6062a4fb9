// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page's
// <head> element.  It is scoped to a single request (or render call).
// The enqueue resolver pushes stylesheet attachments into the builder,
// then the layout decides where to emit each slice.
//
// Features
// --------
//   - SetTitle    – single <title> tag (last call wins).
//   - Stylesheet  – resolved attachment → versioned <link> tag.
//   - Meta, Link  – arbitrary tags with deduplication.
//   - Render helpers – concat methods that return template.HTML.
package head

import (
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/yanizio/cascade/internal/enqueue"
)

// Builder is not safe for concurrent writes from multiple goroutines,
// but typical use is one goroutine per request, so a simple mutex is
// enough.
type Builder struct {
	mu sync.Mutex

	title string

	metas []string
	links []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(b.title)
	return template.HTML("<title>" + escaped + "</title>")
}

// Stylesheet emits one resolved attachment as a cache-busted <link>
// tag.  Attachments are deduplicated per handle, so a stylesheet that
// matches several overlapping rules still renders once.
func (b *Builder) Stylesheet(att enqueue.Attachment) {
	tag := fmt.Sprintf(
		`<link rel="stylesheet" id="%s-css" href="%s?ver=%d" media="all">`,
		template.HTMLEscapeString(att.Handle),
		template.HTMLEscapeString(att.URL),
		att.Version,
	)
	b.add("style:"+att.Handle, &b.links, tag)
}

func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// Rendering helpers called from layout templates.

func (b *Builder) Metas() template.HTML { return concat(b.metas) }
func (b *Builder) Links() template.HTML { return concat(b.links) }

// concat joins pre-escaped tags with newlines.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, "\n"))
}
