package catalog

import (
	"unicode"
	"unicode/utf8"
)

const (
	minQueryRunes  = 2
	snippetContext = 50
	maxResults     = 10
)

type MatchField string

const (
	MatchChapterTitle       MatchField = "chapter_title"
	MatchChapterDescription MatchField = "chapter_description"
	MatchSectionTitle       MatchField = "section_title"
	MatchSectionContent     MatchField = "section_content"
)

type SearchResult struct {
	ChapterSlug  string     `json:"chapterSlug"`
	ChapterTitle string     `json:"chapterTitle"`
	SectionIndex *int       `json:"sectionIndex,omitempty"`
	SectionTitle string     `json:"sectionTitle,omitempty"`
	Field        MatchField `json:"field"`
	Match        string     `json:"match"`
}

// Search does a case-insensitive substring match over chapter titles and descriptions,
// then section titles and contents, in reading order. Content matches are cut down to a
// snippet around the first hit.
func (s *Store) Search(query string) []SearchResult {
	if utf8.RuneCountInString(query) < minQueryRunes {
		return nil
	}
	q := lowerRunes(query)
	results := make([]SearchResult, 0, maxResults)
	add := func(r SearchResult) bool {
		results = append(results, r)
		return len(results) >= maxResults
	}

	for _, c := range s.Chapters() {
		if indexRunes(lowerRunes(c.Title), q) >= 0 {
			if add(SearchResult{ChapterSlug: c.Slug, ChapterTitle: c.Title, Field: MatchChapterTitle, Match: c.Title}) {
				return results
			}
		}
		if c.Description != "" && indexRunes(lowerRunes(c.Description), q) >= 0 {
			if add(SearchResult{ChapterSlug: c.Slug, ChapterTitle: c.Title, Field: MatchChapterDescription, Match: c.Description}) {
				return results
			}
		}
		for i, sec := range c.Sections {
			idx := i
			if indexRunes(lowerRunes(sec.Title), q) >= 0 {
				if add(SearchResult{ChapterSlug: c.Slug, ChapterTitle: c.Title, SectionIndex: &idx, SectionTitle: sec.Title, Field: MatchSectionTitle, Match: sec.Title}) {
					return results
				}
			}
			if sec.Content == "" {
				continue
			}
			content := []rune(sec.Content)
			at := indexRunes(lowerRunes(sec.Content), q)
			if at < 0 {
				continue
			}
			start := max(0, at-snippetContext)
			end := min(len(content), at+len(q)+snippetContext)
			if add(SearchResult{ChapterSlug: c.Slug, ChapterTitle: c.Title, SectionIndex: &idx, SectionTitle: sec.Title, Field: MatchSectionContent, Match: string(content[start:end])}) {
				return results
			}
		}
	}
	return results
}

// lowerRunes lowers rune by rune so indexes line up with the original text.
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return r
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
