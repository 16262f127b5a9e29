package markup

import "strings"

type fmtTokenKind int

const (
	tokText fmtTokenKind = iota
	tokNewline
	tokStrong // **
	tokEm     // *
	tokSub    // ~
	tokSup    // ^
	numFmtTokenKinds
)

type fmtToken struct {
	kind fmtTokenKind
	text string
}

var markerFormat = [numFmtTokenKinds]Format{
	tokStrong: Bold,
	tokEm:     Italic,
	tokSub:    Subscript,
	tokSup:    Superscript,
}

// lexFormat splits a text segment into literal runs and formatting markers.
// A run of asterisks becomes as many "**" markers as fit, then at most one "*".
func lexFormat(s string) []fmtToken {
	toks := make([]fmtToken, 0, 8)
	textStart := 0
	emitText := func(end int) {
		if end > textStart {
			toks = append(toks, fmtToken{kind: tokText, text: s[textStart:end]})
		}
	}
	for i := 0; i < len(s); {
		switch s[i] {
		case '\n':
			emitText(i)
			toks = append(toks, fmtToken{kind: tokNewline, text: "\n"})
			i++
		case '~':
			emitText(i)
			toks = append(toks, fmtToken{kind: tokSub, text: "~"})
			i++
		case '^':
			emitText(i)
			toks = append(toks, fmtToken{kind: tokSup, text: "^"})
			i++
		case '*':
			emitText(i)
			j := i
			for j < len(s) && s[j] == '*' {
				j++
			}
			n := j - i
			for ; n >= 2; n -= 2 {
				toks = append(toks, fmtToken{kind: tokStrong, text: "**"})
			}
			if n == 1 {
				toks = append(toks, fmtToken{kind: tokEm, text: "*"})
			}
			i = j
		default:
			i++
			continue
		}
		textStart = i
	}
	emitText(len(s))
	return toks
}

// formatSpans runs the formatting automaton over one text segment. Each of bold, italic,
// subscript and superscript is its own two-state machine (outside/inside) sharing one
// token stream; an opener is taken only if the nearest later marker of the same kind
// exists and encloses at least one token, which gives non-greedy pairing and leaves
// unbalanced markers literal. Formats may overlap, so the output is flat spans tagged
// with the active format set.
func formatSpans(s string) []Span {
	toks := lexFormat(s)
	var (
		out     []Span
		buf     strings.Builder
		active  Format
		closeAt [numFmtTokenKinds]int
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, Text{Text: buf.String(), Format: active})
			buf.Reset()
		}
	}

	for k, t := range toks {
		switch t.kind {
		case tokText:
			buf.WriteString(t.text)
			continue
		case tokNewline:
			flush()
			out = append(out, LineBreak{})
			continue
		}

		f := markerFormat[t.kind]
		if active.Has(f) {
			if closeAt[t.kind] == k {
				flush()
				active &^= f
				continue
			}
		} else if m := nextMarker(toks, k); m > k+1 {
			flush()
			active |= f
			closeAt[t.kind] = m
			continue
		}
		buf.WriteString(t.text)
	}
	flush()
	return out
}

func nextMarker(toks []fmtToken, k int) int {
	for m := k + 1; m < len(toks); m++ {
		if toks[m].kind == toks[k].kind {
			return m
		}
	}
	return -1
}
