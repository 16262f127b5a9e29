package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/textbook-backend/internal/catalog"
	"github.com/yungbote/textbook-backend/internal/content/markup"
	"github.com/yungbote/textbook-backend/internal/domain/chapter"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
	"github.com/yungbote/textbook-backend/internal/services"
)

var errCheckFailed = errors.New("check found problems")

type Globals struct {
	Chapters string `help:"Chapters JSON file." default:"data/chapters/chapters.json" env:"CHAPTERS_PATH"`
	Glossary string `help:"Glossary file, JSON or YAML by extension." default:"data/glossary.json" env:"GLOSSARY_PATH"`
}

type CLI struct {
	Globals `embed:""`

	Check     CheckCmd     `cmd:"" help:"Render every section and report unknown glossary terms and dropped media."`
	Render    RenderCmd    `cmd:"" help:"Render one section to stdout."`
	Normalize NormalizeCmd `cmd:"" help:"Rewrite the chapters file sorted by order."`
	Import    ImportCmd    `cmd:"" help:"Merge chapters from a YAML file into the chapters file."`
}

// env is what every command runs against.
type env struct {
	log      *logger.Logger
	out      io.Writer
	store    *catalog.Store
	glossary *catalog.GlossaryStore
	reader   services.ReaderService
}

func run(args []string, stdout io.Writer, log *logger.Logger) error {
	var cli CLI
	parser, err := newParser(&cli, stdout)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	e := newEnv(cli.Globals, stdout, log)
	return kctx.Run(e)
}

func newEnv(g Globals, out io.Writer, log *logger.Logger) *env {
	store := catalog.NewStore(g.Chapters, log)
	glossary := catalog.NewGlossaryStore(g.Glossary, log)
	return &env{
		log:      log,
		out:      out,
		store:    store,
		glossary: glossary,
		reader:   services.NewReaderService(log, store, glossary, nil, 0, nil),
	}
}

type CheckCmd struct {
	Chapter string `help:"Only check this chapter slug."`
}

func (c *CheckCmd) Run(e *env) error {
	ctx := context.Background()
	chapters := e.store.Chapters()
	if c.Chapter != "" {
		ch, err := e.store.ChapterBySlug(c.Chapter)
		if err != nil {
			return err
		}
		chapters = []chapter.Chapter{*ch}
	}

	problems := 0
	sections := 0
	for _, ch := range chapters {
		rendered, err := e.reader.RenderChapter(ctx, ch.Slug, services.RenderOptions{Highlight: markup.DefaultHighlightSettings()})
		if err != nil {
			return fmt.Errorf("render %s: %w", ch.Slug, err)
		}
		for _, rs := range rendered {
			sections++
			for _, term := range rs.MissingGlossaryTerms {
				problems++
				fmt.Fprintf(e.out, "%s#%d\tmissing glossary term\t%s\n", ch.Slug, rs.Index, term)
			}
			for _, d := range rs.DroppedMedia {
				problems++
				fmt.Fprintf(e.out, "%s#%d\tdropped media\t%s (%s)\n", ch.Slug, rs.Index, d.Token, d.Reason)
			}
		}
	}
	fmt.Fprintf(e.out, "%d chapters, %d sections, %d problems\n", len(chapters), sections, problems)
	if problems > 0 {
		return errCheckFailed
	}
	return nil
}

type RenderCmd struct {
	Chapter   string `required:"" help:"Chapter slug."`
	Section   int    `default:"0" help:"Zero-based section index."`
	Format    string `enum:"html,json" default:"html" help:"Output format (html or json)."`
	Density   string `help:"Highlight density: none, low or medium."`
	Underline string `help:"Underline style: solid, dotted, dashed or none."`
	Color     string `help:"Highlight color or random."`
}

func (c *RenderCmd) Run(e *env) error {
	highlight, err := markup.ParseHighlightSettings(c.Density, c.Underline, c.Color)
	if err != nil {
		return err
	}
	rs, err := e.reader.RenderSection(context.Background(), c.Chapter, c.Section, services.RenderOptions{Highlight: highlight})
	if err != nil {
		return err
	}
	if c.Format == "json" {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rs)
	}
	_, err = io.WriteString(e.out, rs.HTML+"\n")
	return err
}

type NormalizeCmd struct{}

func (c *NormalizeCmd) Run(e *env) error {
	if e.store.Version() == "" {
		return fmt.Errorf("no chapters loaded from %s", e.store.Path())
	}
	chapters := e.store.Chapters()
	if err := e.store.Save(chapters); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "wrote %d chapters to %s\n", len(chapters), e.store.Path())
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML file holding a list of chapters."`
}

func (c *ImportCmd) Run(e *env) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var incoming []chapter.Chapter
	if err := yaml.Unmarshal(raw, &incoming); err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}
	seen := map[string]struct{}{}
	for _, ch := range incoming {
		slug := strings.TrimSpace(ch.Slug)
		if slug == "" {
			return fmt.Errorf("chapter %q has no slug", ch.Title)
		}
		if _, dup := seen[slug]; dup {
			return fmt.Errorf("duplicate slug %q in %s", slug, c.File)
		}
		seen[slug] = struct{}{}
	}

	merged := mergeChapters(e.store.Chapters(), incoming)
	if err := e.store.Save(merged); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "imported %d chapters, %d total\n", len(incoming), len(merged))
	return nil
}

// mergeChapters replaces existing chapters by slug and appends new ones.
func mergeChapters(existing, incoming []chapter.Chapter) []chapter.Chapter {
	bySlug := make(map[string]chapter.Chapter, len(existing)+len(incoming))
	for _, ch := range existing {
		bySlug[ch.Slug] = ch
	}
	for _, ch := range incoming {
		ch.Slug = strings.TrimSpace(ch.Slug)
		bySlug[ch.Slug] = ch
	}
	out := make([]chapter.Chapter, 0, len(bySlug))
	for _, ch := range bySlug {
		out = append(out, ch)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}
