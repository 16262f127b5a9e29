package markup

import (
	"encoding/json"
	"strings"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
)

// FallbackDefinition is shown for glossary references whose term is not in the glossary.
const FallbackDefinition = "Definition not found."

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockList      BlockKind = "list"
	BlockTable     BlockKind = "table"
	BlockNoteBox   BlockKind = "note"
	BlockMedia     BlockKind = "media"
)

type SpanKind string

const (
	SpanText      SpanKind = "text"
	SpanLineBreak SpanKind = "line_break"
	SpanGlossary  SpanKind = "glossary"
	SpanMedia     SpanKind = "media"
)

// Document is the result of rendering one section's content string.
type Document struct {
	Blocks               []Block        `json:"blocks"`
	MissingGlossaryTerms []string       `json:"missing_glossary_terms"`
	GlossaryRefs         int            `json:"glossary_refs"`
	DroppedMedia         []DroppedMedia `json:"dropped_media,omitempty"`
}

// DroppedMedia records a placeholder that named a missing or differently typed media
// entry, or that appeared in a table cell or heading.
type DroppedMedia struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

type Block interface {
	Kind() BlockKind
}

type Span interface {
	Kind() SpanKind
}

type Paragraph struct {
	Spans []Span `json:"spans"`
}

type Heading struct {
	Level int    `json:"level"`
	Spans []Span `json:"spans"`
}

type List struct {
	Ordered bool     `json:"ordered"`
	Items   [][]Span `json:"items"`
}

type Cell struct {
	Spans    []Span `json:"spans"`
	IsHeader bool   `json:"is_header"`
}

type Table struct {
	Header []Cell   `json:"header"`
	Rows   [][]Cell `json:"rows"`
}

// NoteBox body alternates text spans and MediaRef spans in source order.
type NoteBox struct {
	Body []Span `json:"body"`
}

type MediaBlock struct {
	MediaIndex int               `json:"media_index"`
	MediaType  chapter.MediaType `json:"media_type"`
}

func (Paragraph) Kind() BlockKind  { return BlockParagraph }
func (Heading) Kind() BlockKind    { return BlockHeading }
func (List) Kind() BlockKind       { return BlockList }
func (Table) Kind() BlockKind      { return BlockTable }
func (NoteBox) Kind() BlockKind    { return BlockNoteBox }
func (MediaBlock) Kind() BlockKind { return BlockMedia }

type Format uint8

const (
	Bold Format = 1 << iota
	Italic
	Subscript
	Superscript
)

var formatNames = []struct {
	f    Format
	name string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Subscript, "sub"},
	{Superscript, "sup"},
}

func (f Format) Has(x Format) bool { return f&x != 0 }

func (f Format) Names() []string {
	out := make([]string, 0, 4)
	for _, n := range formatNames {
		if f.Has(n.f) {
			out = append(out, n.name)
		}
	}
	return out
}

func (f Format) String() string { return strings.Join(f.Names(), "+") }

func (f Format) MarshalJSON() ([]byte, error) { return json.Marshal(f.Names()) }

// Text holds raw, unescaped characters; renderers escape it.
type Text struct {
	Text   string `json:"text"`
	Format Format `json:"format,omitempty"`
}

type LineBreak struct{}

type GlossaryRef struct {
	Display    string `json:"display"`
	Definition string `json:"definition"`
	Found      bool   `json:"found"`
	Index      int    `json:"index"`
}

type MediaRef struct {
	MediaIndex int               `json:"media_index"`
	MediaType  chapter.MediaType `json:"media_type"`
}

func (Text) Kind() SpanKind        { return SpanText }
func (LineBreak) Kind() SpanKind   { return SpanLineBreak }
func (GlossaryRef) Kind() SpanKind { return SpanGlossary }
func (MediaRef) Kind() SpanKind    { return SpanMedia }

func (p Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{p.Kind(), alias(p)})
}

func (h Heading) MarshalJSON() ([]byte, error) {
	type alias Heading
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{h.Kind(), alias(h)})
}

func (l List) MarshalJSON() ([]byte, error) {
	type alias List
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{l.Kind(), alias(l)})
}

func (t Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{t.Kind(), alias(t)})
}

func (n NoteBox) MarshalJSON() ([]byte, error) {
	type alias NoteBox
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{n.Kind(), alias(n)})
}

func (m MediaBlock) MarshalJSON() ([]byte, error) {
	type alias MediaBlock
	return json.Marshal(struct {
		Type BlockKind `json:"type"`
		alias
	}{m.Kind(), alias(m)})
}

func (t Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type SpanKind `json:"type"`
		alias
	}{t.Kind(), alias(t)})
}

func (b LineBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type SpanKind `json:"type"`
	}{b.Kind()})
}

func (g GlossaryRef) MarshalJSON() ([]byte, error) {
	type alias GlossaryRef
	return json.Marshal(struct {
		Type SpanKind `json:"type"`
		alias
	}{g.Kind(), alias(g)})
}

func (m MediaRef) MarshalJSON() ([]byte, error) {
	type alias MediaRef
	return json.Marshal(struct {
		Type SpanKind `json:"type"`
		alias
	}{m.Kind(), alias(m)})
}

// PlainText flattens spans into their visible characters; line breaks become "\n".
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch v := s.(type) {
		case Text:
			b.WriteString(v.Text)
		case LineBreak:
			b.WriteByte('\n')
		case GlossaryRef:
			b.WriteString(v.Display)
		}
	}
	return b.String()
}
