package markup

import (
	"reflect"
	"testing"
)

func TestParseTable(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		ok     bool
		header []string
		rows   [][]string
	}{
		{
			name:   "basic",
			in:     "| a | b |\n|---|---|\n| 1 | 2 |",
			ok:     true,
			header: []string{"a", "b"},
			rows:   [][]string{{"1", "2"}},
		},
		{
			name:   "ragged rows kept",
			in:     "|a|b|\n|-|-|\n|1|\n|2|3|4|",
			ok:     true,
			header: []string{"a", "b"},
			rows:   [][]string{{"1"}, {"2", "3", "4"}},
		},
		{
			name:   "non row lines skipped",
			in:     "|a|\n|:-:|\nnote\n|1|",
			ok:     true,
			header: []string{"a"},
			rows:   [][]string{{"1"}},
		},
		{name: "single line", in: "|a|b|"},
		{name: "header not bounded", in: "a|b|\n|-|-|"},
		{name: "bad separator cell", in: "|a|b|\n|-|x|"},
		{name: "empty separator cell", in: "|a|b|\n||-|"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTable(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got.header, tc.header) {
				t.Fatalf("header = %q, want %q", got.header, tc.header)
			}
			if !reflect.DeepEqual(got.rows, tc.rows) {
				t.Fatalf("rows = %q, want %q", got.rows, tc.rows)
			}
		})
	}
}

func TestBulletItemsAreLineBased(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"- a\n- b", []string{"a", "b"}},
		{"- Night temperature:\n-5 degrees\nwrapped note line", []string{"Night temperature:", "-5 degrees", "wrapped note line"}},
		{"- a\n  - b\n-c", []string{"a", "b", "-c"}},
		{"- a\n-\n- b", []string{"a", "", "b"}},
	}
	for _, tc := range cases {
		if got := bulletItems(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("bulletItems(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBulletListKeepsNegativeNumbers(t *testing.T) {
	doc := Render("- Night temperature:\n-5 degrees\nwrapped note line", nil, nil)
	l, ok := doc.Blocks[0].(List)
	if !ok || l.Ordered {
		t.Fatalf("block = %#v, want bullet list", doc.Blocks[0])
	}
	var got []string
	for _, item := range l.Items {
		got = append(got, item[0].(Text).Text)
	}
	want := []string{"Night temperature:", "-5 degrees", "wrapped note line"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %q, want %q", got, want)
	}
}

func TestOrderedItems(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"1. a\n2. b", []string{"a", "b"}},
		{"1. a\nmore\n\tindented\n2. b", []string{"a\nmore\nindented", "b"}},
		{"1.First", []string{"First"}},
		{"1. a\n2.b", []string{"a\n2.b"}},
		{"10. ten\n11. eleven", []string{"ten", "eleven"}},
	}
	for _, tc := range cases {
		got := orderedItems(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("orderedItems(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestListDropsEmptyItems(t *testing.T) {
	doc := Render("- a\n-\n- b", nil, nil)
	l := doc.Blocks[0].(List)
	if len(l.Items) != 2 {
		t.Fatalf("items = %d", len(l.Items))
	}
}

func TestSplitBlocks(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a\n\nb", []string{"a", "b"}},
		{"a\n\n\n\nb\n", []string{"a", "b"}},
		{"a\nb", []string{"a\nb"}},
		{"  a  \n\n  ", []string{"a"}},
		{":::note\nx\n:::\n\ny", []string{":::note\nx\n:::", "y"}},
		{":::note\nx\n\ny", []string{":::note\nx\n\ny"}},
	}
	for _, tc := range cases {
		got := splitBlocks(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitBlocks(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
