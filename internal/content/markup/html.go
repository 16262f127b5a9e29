package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
)

// HTMLOptions configures RenderHTML.
type HTMLOptions struct {
	Highlight HighlightSettings
	// Models are the legacy end-of-section models, appended after the content.
	Models []chapter.Model
	// HideDiagnostics suppresses the missing-glossary panel.
	HideDiagnostics bool
}

// RenderHTML writes doc as an HTML fragment. The output is built as a node tree, so text
// from the document is always escaped and cannot become markup.
func RenderHTML(w io.Writer, doc *Document, media []chapter.MediaEmbed, opts HTMLOptions) error {
	if opts.Highlight == (HighlightSettings{}) {
		opts.Highlight = DefaultHighlightSettings()
	}
	hr := htmlRenderer{media: media, opts: opts}
	return html.Render(w, hr.document(doc))
}

// HTML is RenderHTML into a string.
func HTML(doc *Document, media []chapter.MediaEmbed, opts HTMLOptions) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc, media, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type htmlRenderer struct {
	media []chapter.MediaEmbed
	opts  HTMLOptions
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// customElement is for tags without an atom, such as <model-viewer>.
func customElement(tag string, attrs ...string) *html.Node {
	n := element(0, attrs...)
	n.Data = tag
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

func (r htmlRenderer) document(doc *Document) *html.Node {
	root := element(atom.Article, "class", "section-content")
	if doc == nil {
		return root
	}
	for _, b := range doc.Blocks {
		appendAll(root, r.block(b))
	}
	for _, m := range r.opts.Models {
		appendAll(root, r.legacyModel(m))
	}
	if !r.opts.HideDiagnostics && len(doc.MissingGlossaryTerms) > 0 {
		appendAll(root, diagnostics(doc.MissingGlossaryTerms))
	}
	return root
}

func (r htmlRenderer) block(b Block) *html.Node {
	switch v := b.(type) {
	case Paragraph:
		return r.spans(element(atom.P), v.Spans)
	case Heading:
		return r.spans(element(atom.H3), v.Spans)
	case List:
		tag := atom.Ul
		if v.Ordered {
			tag = atom.Ol
		}
		list := element(tag)
		for _, item := range v.Items {
			list.AppendChild(r.spans(element(atom.Li), item))
		}
		return list
	case Table:
		return r.table(v)
	case NoteBox:
		return r.spans(element(atom.Aside, "class", "note-box"), v.Body)
	case MediaBlock:
		return r.mediaNode(v.MediaIndex)
	default:
		return nil
	}
}

func (r htmlRenderer) table(t Table) *html.Node {
	table := element(atom.Table)
	if len(t.Header) > 0 {
		tr := element(atom.Tr)
		for _, c := range t.Header {
			tr.AppendChild(r.spans(element(atom.Th), c.Spans))
		}
		table.AppendChild(appendAll(element(atom.Thead), tr))
	}
	body := element(atom.Tbody)
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, c := range row {
			tag := atom.Td
			if c.IsHeader {
				tag = atom.Th
			}
			tr.AppendChild(r.spans(element(tag), c.Spans))
		}
		body.AppendChild(tr)
	}
	return appendAll(table, body)
}

func (r htmlRenderer) spans(parent *html.Node, spans []Span) *html.Node {
	for _, s := range spans {
		switch v := s.(type) {
		case Text:
			parent.AppendChild(formatted(v))
		case LineBreak:
			parent.AppendChild(element(atom.Br))
		case GlossaryRef:
			parent.AppendChild(r.glossary(v))
		case MediaRef:
			appendAll(parent, r.mediaNode(v.MediaIndex))
		}
	}
	return parent
}

var formatTags = []struct {
	f Format
	a atom.Atom
}{
	{Bold, atom.Strong},
	{Italic, atom.Em},
	{Subscript, atom.Sub},
	{Superscript, atom.Sup},
}

// formatted wraps the text in one element per active format, outermost first.
func formatted(t Text) *html.Node {
	var outer, inner *html.Node
	for _, ft := range formatTags {
		if !t.Format.Has(ft.f) {
			continue
		}
		n := element(ft.a)
		if outer == nil {
			outer = n
		} else {
			inner.AppendChild(n)
		}
		inner = n
	}
	if outer == nil {
		return textNode(t.Text)
	}
	inner.AppendChild(textNode(t.Text))
	return outer
}

func (r htmlRenderer) glossary(g GlossaryRef) *html.Node {
	class := r.opts.Highlight.classes(g.Index)
	if !g.Found {
		class += " glossary-missing"
	}
	n := element(atom.Span,
		"class", class,
		"data-ref-index", strconv.Itoa(g.Index),
		"data-definition", g.Definition,
		"tabindex", "0",
	)
	n.AppendChild(textNode(g.Display))
	return n
}

func (r htmlRenderer) mediaNode(index int) *html.Node {
	if index < 0 || index >= len(r.media) {
		return nil
	}
	m := r.media[index]
	width := m.Width
	if width == "" {
		width = chapter.WidthMedium
	}
	fig := element(atom.Figure,
		"class", fmt.Sprintf("media media-%s width-%s", m.Type, width),
		"data-media-index", strconv.Itoa(index),
	)
	switch m.Type {
	case chapter.MediaImage:
		fig.AppendChild(element(atom.Img, "src", m.Path, "alt", m.Title, "loading", "lazy"))
	case chapter.MediaVideo:
		attrs := []string{"src", m.Path, "controls", "", "playsinline", ""}
		if m.Loop {
			attrs = append(attrs, "loop", "")
		}
		if m.Autoplay {
			attrs = append(attrs, "autoplay", "")
		}
		if m.Muted {
			attrs = append(attrs, "muted", "")
		}
		fig.AppendChild(element(atom.Video, attrs...))
	case chapter.MediaModel:
		fig.AppendChild(modelViewer(m.Path, m.Title, m.Annotations))
	}
	appendAll(fig, caption(m.Title, m.Description))
	return fig
}

func (r htmlRenderer) legacyModel(m chapter.Model) *html.Node {
	fig := element(atom.Figure, "class", "media media-model width-full")
	fig.AppendChild(modelViewer(m.Path, m.Title, m.Annotations))
	return appendAll(fig, caption(m.Title, m.Description))
}

func modelViewer(path, title string, annotations []chapter.Annotation) *html.Node {
	attrs := []string{"src", path, "alt", title, "camera-controls", ""}
	if len(annotations) > 0 {
		raw, err := json.Marshal(annotations)
		if err == nil {
			attrs = append(attrs, "data-annotations", string(raw))
		}
	}
	mv := customElement("model-viewer", attrs...)
	for i, a := range annotations {
		pos := make([]string, len(a.Position))
		for k, p := range a.Position {
			pos[k] = strconv.FormatFloat(p, 'f', -1, 64)
		}
		hs := element(atom.Button,
			"class", "hotspot",
			"slot", "hotspot-"+strconv.Itoa(i),
			"data-position", strings.Join(pos, " "),
			"title", a.Description,
		)
		hs.AppendChild(textNode(a.Label))
		mv.AppendChild(hs)
	}
	return mv
}

func caption(title, description string) *html.Node {
	if title == "" && description == "" {
		return nil
	}
	fc := element(atom.Figcaption)
	if title != "" {
		t := element(atom.Strong)
		t.AppendChild(textNode(title))
		fc.AppendChild(t)
	}
	if description != "" {
		if title != "" {
			fc.AppendChild(textNode(" "))
		}
		fc.AppendChild(textNode(description))
	}
	return fc
}

func diagnostics(terms []string) *html.Node {
	div := element(atom.Div, "class", "glossary-diagnostics", "role", "note")
	head := element(atom.P)
	noun := "definitions"
	if len(terms) == 1 {
		noun = "definition"
	}
	head.AppendChild(textNode(fmt.Sprintf("%d missing glossary %s", len(terms), noun)))
	div.AppendChild(head)
	ul := element(atom.Ul)
	for _, t := range terms {
		ul.AppendChild(appendAll(element(atom.Li), textNode(t)))
	}
	div.AppendChild(ul)
	return div
}
