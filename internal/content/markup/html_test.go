package markup

import (
	"strings"
	"testing"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
)

func renderHTML(t *testing.T, content string, media []chapter.MediaEmbed, g Glossary, opts HTMLOptions) string {
	t.Helper()
	out, err := HTML(Render(content, media, g), media, opts)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	return out
}

func TestHTMLEscapesAuthoredMarkup(t *testing.T) {
	out := renderHTML(t, `<script>alert("x")</script> and [[<b>]]`, nil, nil, HTMLOptions{})
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Fatalf("authored markup leaked: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag: %s", out)
	}
}

func TestHTMLStructure(t *testing.T) {
	media := []chapter.MediaEmbed{
		{Type: chapter.MediaImage, Path: "/a.png", Title: "Cell", Width: chapter.WidthSmall},
		{Type: chapter.MediaVideo, Path: "/b.mp4", Loop: true, Muted: true},
		{Type: chapter.MediaModel, Path: "/c.glb", Annotations: []chapter.Annotation{{Position: [3]float64{0, 1.5, 0}, Label: "Top"}}},
	}
	content := "### Title\n\n**b** *i* H~2~O x^2^\n\n- one\n\n1. first\n\n| h |\n|---|\n| c |\n\n:::note\nsee {{video:1}}\n:::\n\n{{image:0}}\n\n{{model:2}}"
	out := renderHTML(t, content, media, nil, HTMLOptions{})
	for _, want := range []string{
		`<article class="section-content">`,
		"<h3>Title</h3>",
		"<strong>b</strong>",
		"<em>i</em>",
		"H<sub>2</sub>O",
		"x<sup>2</sup>",
		"<ul><li>one</li></ul>",
		"<ol><li>first</li></ol>",
		"<thead><tr><th>h</th></tr></thead><tbody><tr><td>c</td></tr></tbody>",
		`<aside class="note-box">see <figure class="media media-video width-medium"`,
		`loop=""`,
		`muted=""`,
		`<img src="/a.png" alt="Cell"`,
		`class="media media-image width-small"`,
		`<model-viewer src="/c.glb"`,
		`data-position="0 1.5 0"`,
		`<figcaption><strong>Cell</strong></figcaption>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "autoplay") {
		t.Fatalf("autoplay must only appear when set: %s", out)
	}
}

func TestHTMLGlossaryAndDiagnostics(t *testing.T) {
	g := NewGlossary(map[string]string{"cell": "a \"unit\" of life"})
	out := renderHTML(t, "[[Cell]] and [[nucleus]]", nil, g, HTMLOptions{
		Highlight: HighlightSettings{Density: DensityMedium, Underline: UnderlineDotted, Color: ColorBlue},
	})
	for _, want := range []string{
		`class="glossary-term highlight highlight-blue underline-dotted" data-ref-index="0" data-definition="a &#34;unit&#34; of life"`,
		`class="glossary-term highlight highlight-blue underline-dotted glossary-missing" data-ref-index="1" data-definition="Definition not found."`,
		`<div class="glossary-diagnostics" role="note"><p>1 missing glossary definition</p><ul><li>nucleus</li></ul></div>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	hidden := renderHTML(t, "[[nucleus]]", nil, g, HTMLOptions{HideDiagnostics: true})
	if strings.Contains(hidden, "glossary-diagnostics") {
		t.Fatalf("diagnostics should be hidden: %s", hidden)
	}
}

func TestHTMLLegacyModels(t *testing.T) {
	out := renderHTML(t, "text", nil, nil, HTMLOptions{Models: []chapter.Model{{Path: "/m.glb", Title: "Heart"}}})
	if !strings.Contains(out, `<figure class="media media-model width-full"><model-viewer src="/m.glb" alt="Heart"`) {
		t.Fatalf("legacy model missing: %s", out)
	}
}

func TestHTMLMediaIndexOutOfRange(t *testing.T) {
	media := []chapter.MediaEmbed{{Type: chapter.MediaImage, Path: "/a.png"}}
	doc := &Document{Blocks: []Block{
		MediaBlock{MediaIndex: 0, MediaType: chapter.MediaImage},
		MediaBlock{MediaIndex: 3, MediaType: chapter.MediaImage},
		Paragraph{Spans: []Span{MediaRef{MediaIndex: -1, MediaType: chapter.MediaImage}}},
	}}
	out, err := HTML(doc, media, HTMLOptions{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if n := strings.Count(out, "<figure"); n != 1 {
		t.Fatalf("figures = %d, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, `data-media-index="0"`) {
		t.Fatalf("expected index 0 figure: %s", out)
	}
}
