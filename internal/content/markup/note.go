package markup

import "strings"

const (
	notePrefix = ":::note"
	noteSuffix = ":::"
)

func isNoteStart(block string) bool {
	return strings.HasPrefix(block, notePrefix)
}

// noteClosed reports whether a note candidate carries its closing fence.
func noteClosed(block string) bool {
	return strings.HasSuffix(strings.TrimSpace(block[len(notePrefix):]), noteSuffix)
}

func noteBody(block string) string {
	body := strings.TrimSpace(strings.TrimPrefix(block, notePrefix))
	body = strings.TrimSuffix(body, noteSuffix)
	return strings.TrimSpace(body)
}

func (st *renderState) note(block string) Block {
	return NoteBox{Body: st.inline(noteBody(block), bodyInline)}
}
