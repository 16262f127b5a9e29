// Package markup parses the chapter content dialect into a display tree.
//
// A content string is split into blocks on blank lines; each block is classified as a
// note box, table, heading, list or paragraph, and its text is resolved into spans
// (glossary references, media references and formatted text). Rendering is pure: the
// only state is the per-call renderState, so any number of renders may run at once.
package markup

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
)

var blankLinesRE = regexp.MustCompile(`\n{2,}`)

const headingPrefix = "### "

type renderState struct {
	media    []chapter.MediaEmbed
	glossary Glossary
	refIndex int
	missing  map[string]struct{}
	dropped  []DroppedMedia
}

func newRenderState(media []chapter.MediaEmbed, glossary Glossary) *renderState {
	if glossary == nil {
		glossary = emptyGlossary{}
	}
	return &renderState{
		media:    media,
		glossary: glossary,
		missing:  make(map[string]struct{}),
	}
}

// Render parses one section's content. It never fails: markup it cannot interpret is
// kept as literal text, and problems are reported on the returned Document.
func Render(content string, media []chapter.MediaEmbed, glossary Glossary) *Document {
	st := newRenderState(media, glossary)
	doc := &Document{Blocks: make([]Block, 0, 8)}
	for _, raw := range splitBlocks(content) {
		if b := st.block(raw); b != nil {
			doc.Blocks = append(doc.Blocks, b)
		}
	}
	doc.MissingGlossaryTerms = make([]string, 0, len(st.missing))
	for term := range st.missing {
		doc.MissingGlossaryTerms = append(doc.MissingGlossaryTerms, term)
	}
	sort.Strings(doc.MissingGlossaryTerms)
	doc.GlossaryRefs = st.refIndex
	doc.DroppedMedia = st.dropped
	return doc
}

// splitBlocks cuts content on blank lines. An unclosed note swallows the candidates that
// follow it until one carries the closing fence.
func splitBlocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var (
		out  []string
		note []string
	)
	for _, c := range blankLinesRE.Split(content, -1) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if note != nil {
			note = append(note, c)
			if strings.HasSuffix(c, noteSuffix) {
				out = append(out, strings.Join(note, "\n\n"))
				note = nil
			}
			continue
		}
		if isNoteStart(c) && !noteClosed(c) {
			note = []string{c}
			continue
		}
		out = append(out, c)
	}
	if note != nil {
		out = append(out, strings.Join(note, "\n\n"))
	}
	return out
}

// block classifies one candidate. Rules are tried in order and the first match wins.
func (st *renderState) block(raw string) Block {
	if isNoteStart(raw) {
		return st.note(raw)
	}
	if looksLikeTable(raw) {
		if t, ok := st.table(raw); ok {
			return t
		}
	}
	if strings.HasPrefix(raw, headingPrefix) {
		text := strings.TrimSpace(strings.TrimPrefix(raw, headingPrefix))
		return Heading{Level: 3, Spans: st.inline(text, headerInline)}
	}
	if isList(raw) {
		return st.list(raw)
	}
	return st.paragraph(raw)
}

func (st *renderState) paragraph(raw string) Block {
	if tok, ok := soleMediaToken(raw); ok {
		ref, honored := st.resolveMedia(tok)
		if !honored {
			return nil
		}
		return MediaBlock{MediaIndex: ref.MediaIndex, MediaType: ref.MediaType}
	}
	spans := st.inline(raw, bodyInline)
	if len(spans) == 0 {
		return nil
	}
	return Paragraph{Spans: spans}
}
