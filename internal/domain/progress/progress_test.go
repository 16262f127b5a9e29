package progress

import (
	"testing"
	"time"
)

func TestRollup(t *testing.T) {
	cases := []struct {
		name      string
		sections  map[int]Status
		total     int
		want      Status
		completed int
	}{
		{"nothing", nil, 3, StatusNotStarted, 0},
		{"all completed", map[int]Status{0: StatusCompleted, 1: StatusCompleted}, 2, StatusCompleted, 2},
		{"completed and skipped", map[int]Status{0: StatusCompleted, 1: StatusSkipped}, 2, StatusSkipped, 1},
		{"all skipped", map[int]Status{0: StatusSkipped, 1: StatusSkipped}, 2, StatusSkipped, 0},
		{"one in progress", map[int]Status{1: StatusInProgress}, 3, StatusInProgress, 0},
		{"partly completed", map[int]Status{0: StatusCompleted}, 3, StatusInProgress, 1},
		{"only skipped some", map[int]Status{0: StatusSkipped}, 3, StatusNotStarted, 0},
		{"beyond total ignored", map[int]Status{0: StatusCompleted, 5: StatusInProgress}, 1, StatusCompleted, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, completed := Rollup(tc.sections, tc.total)
			if got != tc.want || completed != tc.completed {
				t.Fatalf("Rollup = %s/%d, want %s/%d", got, completed, tc.want, tc.completed)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	o := Summarize(4, map[string]ChapterProgress{
		"a": {Status: StatusCompleted},
		"b": {Status: StatusInProgress},
		"c": {Status: StatusNotStarted},
	})
	if o.Completed != 1 || o.InProgress != 1 || o.Skipped != 0 || o.NotStarted != 2 || o.Percentage != 25 {
		t.Fatalf("overall = %#v", o)
	}
	if z := Summarize(0, nil); z.Percentage != 0 || z.NotStarted != 0 {
		t.Fatalf("empty overall = %#v", z)
	}
}

func TestKeys(t *testing.T) {
	if got := SectionKey("cells", 3); got != "section-progress-cells-3" {
		t.Fatalf("SectionKey = %q", got)
	}
	if slug, ok := SlugFromChapterKey(ChapterKey("cell-biology")); !ok || slug != "cell-biology" {
		t.Fatalf("slug = %q %v", slug, ok)
	}
	if _, ok := SlugFromChapterKey("section-progress-x-1"); ok {
		t.Fatalf("section key parsed as chapter key")
	}
}

func TestNewSectionProgress(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if sp := NewSectionProgress(1, StatusCompleted, now); sp.CompletedAt == nil || !sp.CompletedAt.Equal(now) {
		t.Fatalf("completed section = %#v", sp)
	}
	if sp := NewSectionProgress(1, StatusSkipped, now); sp.CompletedAt != nil {
		t.Fatalf("skipped section has completedAt")
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatalf("expected error")
	}
	if s, err := ParseStatus(" Completed "); err != nil || s != StatusCompleted {
		t.Fatalf("ParseStatus = %q %v", s, err)
	}
}
