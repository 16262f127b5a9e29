package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	apperr "github.com/yungbote/textbook-backend/internal/pkg/errors"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

const chaptersJSON = `[
  {"slug": "genetics", "title": "Genetics", "order": 2, "sections": [{"title": "DNA", "content": "Genes are made of DNA."}]},
  {"slug": "cells", "title": "Cells", "description": "The unit of life", "order": 1, "sections": [
    {"title": "Membranes", "content": "The membrane surrounds the cell."},
    {"title": "Organelles", "content": "Mitochondria make ATP."}
  ]},
  {"slug": "ecology", "title": "Ecology", "order": 3}
]`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestStoreLoadsSortedChapters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters", "chapters.json")
	writeFile(t, path, chaptersJSON)
	s := NewStore(path, newTestLogger(t))

	got := s.Chapters()
	var slugs []string
	for _, c := range got {
		slugs = append(slugs, c.Slug)
	}
	if strings.Join(slugs, ",") != "cells,genetics,ecology" {
		t.Fatalf("order = %v", slugs)
	}
	c, err := s.ChapterBySlug("genetics")
	if err != nil || c.Title != "Genetics" {
		t.Fatalf("ChapterBySlug = %#v %v", c, err)
	}
	if _, err := s.ChapterBySlug("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if s.Version() == "" {
		t.Fatalf("expected a content version")
	}
}

func TestStoreMissingOrBrokenFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	missing := NewStore(filepath.Join(dir, "none.json"), newTestLogger(t))
	if n := len(missing.Chapters()); n != 0 {
		t.Fatalf("missing file gave %d chapters", n)
	}

	path := filepath.Join(dir, "broken.json")
	writeFile(t, path, "{not json")
	broken := NewStore(path, newTestLogger(t))
	if n := len(broken.Chapters()); n != 0 {
		t.Fatalf("broken file gave %d chapters", n)
	}
}

func TestStoreReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters.json")
	writeFile(t, path, `[{"slug":"a","title":"A","order":1}]`)
	s := NewStore(path, newTestLogger(t))
	if n := len(s.Chapters()); n != 1 {
		t.Fatalf("initial = %d", n)
	}
	writeFile(t, path, `[{"slug":"a","title":"A","order":1},{"slug":"b","title":"B","order":2}]`)
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if n := len(s.Chapters()); n != 2 {
		t.Fatalf("after change = %d", n)
	}
}

func TestStoreNeighbors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters.json")
	writeFile(t, path, chaptersJSON)
	s := NewStore(path, newTestLogger(t))

	prev, next, err := s.Neighbors("genetics")
	if err != nil || prev == nil || next == nil || prev.Slug != "cells" || next.Slug != "ecology" {
		t.Fatalf("Neighbors(genetics) = %v %v %v", prev, next, err)
	}
	prev, _, _ = s.Neighbors("cells")
	if prev != nil {
		t.Fatalf("first chapter has no previous")
	}
	if _, _, err := s.Neighbors("x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chapters.json")
	s := NewStore(path, newTestLogger(t))
	err := s.Save([]chapter.Chapter{
		{Slug: "b", Title: "B", Order: 2},
		{Slug: "a", Title: "A", Order: 1},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "\n  {\n    \"slug\": \"a\"") {
		t.Fatalf("expected indented, sorted JSON:\n%s", raw)
	}
	if got := s.Chapters(); len(got) != 2 || got[0].Slug != "a" {
		t.Fatalf("snapshot after save = %#v", got)
	}
}

func TestSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters.json")
	writeFile(t, path, chaptersJSON)
	s := NewStore(path, newTestLogger(t))

	if r := s.Search("m"); r != nil {
		t.Fatalf("short query returned %v", r)
	}
	r := s.Search("MITO")
	if len(r) != 1 || r[0].Field != MatchSectionContent || r[0].SectionIndex == nil || *r[0].SectionIndex != 1 {
		t.Fatalf("Search(MITO) = %#v", r)
	}
	if r[0].Match != "Mitochondria make ATP." {
		t.Fatalf("snippet = %q", r[0].Match)
	}

	r = s.Search("cell")
	var fields []string
	for _, x := range r {
		fields = append(fields, string(x.Field))
	}
	if strings.Join(fields, ",") != "chapter_title,section_content" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestSearchSnippetAndLimit(t *testing.T) {
	long := strings.Repeat("a", 80) + "needle" + strings.Repeat("b", 80)
	var chapters []chapter.Chapter
	for i := 0; i < 12; i++ {
		chapters = append(chapters, chapter.Chapter{Slug: string(rune('a' + i)), Title: "T", Order: i, Sections: []chapter.Section{{Title: "S", Content: long}}})
	}
	s := NewStore(filepath.Join(t.TempDir(), "c.json"), newTestLogger(t))
	if err := s.Save(chapters); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r := s.Search("needle")
	if len(r) != maxResults {
		t.Fatalf("results = %d", len(r))
	}
	want := strings.Repeat("a", 50) + "needle" + strings.Repeat("b", 50)
	if r[0].Match != want {
		t.Fatalf("snippet = %q", r[0].Match)
	}
}

func TestGlossaryStore(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "glossary.json")
	writeFile(t, jsonPath, `{"Mitochondria": "The powerhouse of the cell."}`)
	g, version := NewGlossaryStore(jsonPath, newTestLogger(t)).Glossary()
	if def, ok := g.Lookup("mitochondria"); !ok || def != "The powerhouse of the cell." || version == "" {
		t.Fatalf("json glossary = %q %v %q", def, ok, version)
	}

	yamlPath := filepath.Join(dir, "glossary.yaml")
	writeFile(t, yamlPath, "ATP: adenosine triphosphate\nEnzyme: a catalyst\n")
	g, _ = NewGlossaryStore(yamlPath, newTestLogger(t)).Glossary()
	if g.Len() != 2 {
		t.Fatalf("yaml glossary len = %d", g.Len())
	}

	g, version = NewGlossaryStore(filepath.Join(dir, "missing.json"), newTestLogger(t)).Glossary()
	if g.Len() != 0 || version != "" {
		t.Fatalf("missing glossary = %d %q", g.Len(), version)
	}
}

// replaceFile swaps body in with a rename so readers never see a partial write.
func replaceFile(t *testing.T, path, body string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, body)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

// hammer calls read from several goroutines while write runs, then waits for them.
func hammer(read func(), write func()) {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					read()
				}
			}
		}()
	}
	write()
	close(stop)
	wg.Wait()
}

func TestStoreConcurrentReloadKeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chapters.json")
	body := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = fmt.Sprintf(`{"slug":"c%d","title":"C","order":%d}`, i, i)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	writeFile(t, path, body(1))
	s := NewStore(path, newTestLogger(t))

	const last = 60
	hammer(func() { s.Chapters() }, func() {
		for n := 2; n <= last; n++ {
			replaceFile(t, path, body(n))
		}
	})
	if got := len(s.Chapters()); got != last {
		t.Fatalf("chapters = %d, want %d", got, last)
	}
}

func TestGlossaryConcurrentReloadKeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.json")
	body := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = fmt.Sprintf(`"term%d":"def"`, i)
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	writeFile(t, path, body(1))
	g := NewGlossaryStore(path, newTestLogger(t))

	const last = 60
	hammer(func() { g.Glossary() }, func() {
		for n := 2; n <= last; n++ {
			replaceFile(t, path, body(n))
		}
	})
	if gl, _ := g.Glossary(); gl.Len() != last {
		t.Fatalf("terms = %d, want %d", gl.Len(), last)
	}
}
