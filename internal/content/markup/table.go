package markup

import (
	"regexp"
	"strings"
)

var separatorCellRE = regexp.MustCompile(`^[\s\-:]+$`)

type rawTable struct {
	header []string
	rows   [][]string
}

func pipeBounded(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 2 && line[0] == '|' && line[len(line)-1] == '|'
}

// splitCells drops the outer pipes and trims every cell.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// looksLikeTable is the block splitter's cheap test: pipe-bounded header followed by a
// pipe-bounded row made only of dashes, colons, spaces and pipes.
func looksLikeTable(block string) bool {
	lines := strings.SplitN(block, "\n", 3)
	if len(lines) < 2 || !pipeBounded(lines[0]) || !pipeBounded(lines[1]) {
		return false
	}
	for _, c := range strings.TrimSpace(lines[1]) {
		switch c {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// parseTable returns ok=false when the block is not a table, in which case the caller
// falls through to the next block rule. Ragged rows are kept as written.
func parseTable(block string) (rawTable, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 || !pipeBounded(lines[0]) || !pipeBounded(lines[1]) {
		return rawTable{}, false
	}
	for _, cell := range splitCells(lines[1]) {
		if !separatorCellRE.MatchString(cell) {
			return rawTable{}, false
		}
	}
	t := rawTable{header: splitCells(lines[0])}
	for _, line := range lines[2:] {
		if !pipeBounded(line) {
			continue
		}
		t.rows = append(t.rows, splitCells(line))
	}
	return t, true
}

func (st *renderState) table(block string) (Block, bool) {
	raw, ok := parseTable(block)
	if !ok {
		return nil, false
	}
	t := Table{
		Header: make([]Cell, 0, len(raw.header)),
		Rows:   make([][]Cell, 0, len(raw.rows)),
	}
	for _, h := range raw.header {
		t.Header = append(t.Header, Cell{Spans: st.inline(h, headerInline), IsHeader: true})
	}
	for _, r := range raw.rows {
		row := make([]Cell, 0, len(r))
		for _, c := range r {
			row = append(row, Cell{Spans: st.inline(c, cellInline)})
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}
