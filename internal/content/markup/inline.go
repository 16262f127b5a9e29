package markup

import (
	"strings"
)

const (
	glossaryOpen  = "[["
	glossaryClose = "]]"
)

type glossaryMode int

const (
	// glossaryInteractive turns [[term]] into GlossaryRef spans.
	glossaryInteractive glossaryMode = iota
	// glossaryStrip replaces [[term]] with its display text, for headings and header cells.
	glossaryStrip
)

type inlineOptions struct {
	glossary glossaryMode
	// media allows placeholders to embed. When false, well-formed placeholders are
	// dropped and reported instead of being left as raw tokens.
	media bool
}

var (
	bodyInline   = inlineOptions{glossary: glossaryInteractive, media: true}
	cellInline   = inlineOptions{glossary: glossaryInteractive}
	headerInline = inlineOptions{glossary: glossaryStrip}
)

type segmentKind int

const (
	segText segmentKind = iota
	segGlossary
	segMedia
)

type segment struct {
	kind  segmentKind
	text  string
	media MediaRef
}

type scanState int

const (
	statePlain scanState = iota
	stateGlossary
	stateMediaToken
)

// segments makes a single pass over a text run, splitting it at glossary references and
// media placeholders. Unterminated or malformed tokens fall back to literal text and the
// scan resumes inside the opening delimiter. A failed glossary scan records how far it
// got, and any "[[" before that point is literal without being scanned again.
func (st *renderState) segments(s string, opts inlineOptions) []segment {
	var (
		out   []segment
		buf   strings.Builder
		state = statePlain
		start int
		// a failed glossary scan found no "]]" before this offset
		failedUntil int
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, segment{kind: segText, text: buf.String()})
			buf.Reset()
		}
	}

	i := 0
	for {
		if i >= len(s) {
			if state != stateGlossary {
				break
			}
			// No closing delimiter: keep "[[" literal and rescan what followed it.
			failedUntil = i
			buf.WriteString(glossaryOpen)
			i = start + len(glossaryOpen)
			state = statePlain
			continue
		}
		switch state {
		case statePlain:
			switch {
			case i < failedUntil && strings.HasPrefix(s[i:], glossaryOpen):
				buf.WriteString(glossaryOpen)
				i += len(glossaryOpen)
			case strings.HasPrefix(s[i:], glossaryOpen):
				state, start = stateGlossary, i
				i += len(glossaryOpen)
			case strings.HasPrefix(s[i:], mediaOpen):
				state, start = stateMediaToken, i
			default:
				buf.WriteByte(s[i])
				i++
			}

		case stateGlossary:
			switch {
			case strings.HasPrefix(s[i:], glossaryClose):
				term := strings.TrimSpace(s[start+len(glossaryOpen) : i])
				i += len(glossaryClose)
				state = statePlain
				if term == "" {
					buf.WriteString(s[start:i])
					continue
				}
				if opts.glossary == glossaryStrip {
					buf.WriteString(term)
					continue
				}
				flush()
				out = append(out, segment{kind: segGlossary, text: term})
			case s[i] == '\n':
				failedUntil = i
				buf.WriteString(glossaryOpen)
				i = start + len(glossaryOpen)
				state = statePlain
			default:
				i++
			}

		case stateMediaToken:
			tok, end, ok := scanMediaToken(s, start)
			state = statePlain
			if !ok {
				// Keep one brace literal so a placeholder right after it is still found.
				buf.WriteByte(s[start])
				i = start + 1
				continue
			}
			i = end
			if !opts.media {
				st.dropped = append(st.dropped, DroppedMedia{Token: tok.raw, Reason: mediaPlacementReason})
				continue
			}
			ref, honored := st.resolveMedia(tok)
			if !honored {
				continue
			}
			flush()
			out = append(out, segment{kind: segMedia, media: ref})
		}
	}
	flush()
	return out
}

// inline resolves a text run into spans.
func (st *renderState) inline(s string, opts inlineOptions) []Span {
	spans := make([]Span, 0, 4)
	for _, seg := range st.segments(s, opts) {
		switch seg.kind {
		case segText:
			spans = append(spans, formatSpans(seg.text)...)
		case segGlossary:
			spans = append(spans, st.glossaryRef(seg.text))
		case segMedia:
			spans = append(spans, seg.media)
		}
	}
	return spans
}

func (st *renderState) glossaryRef(term string) GlossaryRef {
	def, found := st.glossary.Lookup(term)
	if !found {
		def = FallbackDefinition
		st.missing[NormalizeTerm(term)] = struct{}{}
	}
	ref := GlossaryRef{
		Display:    term,
		Definition: def,
		Found:      found,
		Index:      st.refIndex,
	}
	st.refIndex++
	return ref
}
