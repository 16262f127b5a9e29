package markup

import (
	"regexp"
	"strings"
)

var (
	orderedStartRE = regexp.MustCompile(`^\d+\.`)
	orderedItemRE  = regexp.MustCompile(`^\d+\.\s+`)
	bulletMarkerRE = regexp.MustCompile(`^-(\s+|$)`)
)

func isList(block string) bool {
	return strings.HasPrefix(block, "- ") || orderedStartRE.MatchString(block)
}

// bulletItems makes every non-blank line its own item. Only a "- " marker is
// stripped, so "-5 degrees" and unmarked wrapped lines keep their text.
func bulletItems(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, bulletMarkerRE.ReplaceAllString(line, ""))
	}
	return items
}

// orderedItems starts an item at every "N. " line and folds any other line into the
// current item as a continuation.
func orderedItems(block string) []string {
	var (
		items []string
		cur   []string
	)
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		loc := orderedItemRE.FindStringIndex(line)
		if loc == nil && i == 0 {
			loc = orderedStartRE.FindStringIndex(line)
		}
		if loc != nil {
			if cur != nil {
				items = append(items, strings.Join(cur, "\n"))
			}
			cur = []string{line[loc[1]:]}
			continue
		}
		if cur != nil {
			cur = append(cur, line)
		}
	}
	if cur != nil {
		items = append(items, strings.Join(cur, "\n"))
	}
	return items
}

func (st *renderState) list(block string) Block {
	ordered := !strings.HasPrefix(block, "-")
	var raw []string
	if ordered {
		raw = orderedItems(block)
	} else {
		raw = bulletItems(block)
	}
	l := List{Ordered: ordered, Items: make([][]Span, 0, len(raw))}
	for _, item := range raw {
		spans := st.inline(strings.TrimSpace(item), bodyInline)
		if len(spans) == 0 {
			continue
		}
		l.Items = append(l.Items, spans)
	}
	return l
}
