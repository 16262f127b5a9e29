package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
)

const (
	mediaOpen  = "{{"
	mediaClose = "}}"

	mediaPlacementReason = "media placeholders are only embedded in body text, not table cells or headings"
)

// mediaToken is a parsed {{type:N}} placeholder.
type mediaToken struct {
	mediaType chapter.MediaType
	index     int
	raw       string
}

// scanMediaToken reads a placeholder starting at s[start:], which must begin with "{{".
// It walks the token as a small state machine (type name, colon, digits, closing braces)
// and reports the token and the offset just past it.
func scanMediaToken(s string, start int) (mediaToken, int, bool) {
	const (
		inType = iota
		inIndex
		inClose
	)
	i := start + len(mediaOpen)
	state := inType
	typeStart, digitsStart := i, -1
	var tok mediaToken
	for i < len(s) {
		c := s[i]
		switch state {
		case inType:
			switch {
			case c >= 'a' && c <= 'z':
				i++
			case c == ':':
				tok.mediaType = chapter.MediaType(s[typeStart:i])
				if !tok.mediaType.Valid() {
					return mediaToken{}, 0, false
				}
				i++
				digitsStart = i
				state = inIndex
			default:
				return mediaToken{}, 0, false
			}
		case inIndex:
			switch {
			case c >= '0' && c <= '9':
				i++
			case c == '}' && i > digitsStart:
				n, err := strconv.Atoi(s[digitsStart:i])
				if err != nil {
					return mediaToken{}, 0, false
				}
				tok.index = n
				state = inClose
			default:
				return mediaToken{}, 0, false
			}
		case inClose:
			if !strings.HasPrefix(s[i:], mediaClose) {
				return mediaToken{}, 0, false
			}
			end := i + len(mediaClose)
			tok.raw = s[start:end]
			return tok, end, true
		}
	}
	return mediaToken{}, 0, false
}

// soleMediaToken reports whether block is exactly one well-formed placeholder.
func soleMediaToken(block string) (mediaToken, bool) {
	if !strings.HasPrefix(block, mediaOpen) {
		return mediaToken{}, false
	}
	tok, end, ok := scanMediaToken(block, 0)
	if !ok || end != len(block) {
		return mediaToken{}, false
	}
	return tok, true
}

// resolveMedia checks a token against the section's media list. A token is honored
// only when the index exists and the entry has the type the token names.
func (st *renderState) resolveMedia(tok mediaToken) (MediaRef, bool) {
	if tok.index < 0 || tok.index >= len(st.media) {
		st.dropped = append(st.dropped, DroppedMedia{
			Token:  tok.raw,
			Reason: fmt.Sprintf("index %d out of range (%d media entries)", tok.index, len(st.media)),
		})
		return MediaRef{}, false
	}
	if got := st.media[tok.index].Type; got != tok.mediaType {
		st.dropped = append(st.dropped, DroppedMedia{
			Token:  tok.raw,
			Reason: fmt.Sprintf("media %d is %q, not %q", tok.index, got, tok.mediaType),
		})
		return MediaRef{}, false
	}
	return MediaRef{MediaIndex: tok.index, MediaType: tok.mediaType}, true
}
