package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/textbook-backend/internal/content/markup"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

// GlossaryStore serves the term table from a JSON or YAML file (chosen by extension),
// reloading it when the file changes.
type GlossaryStore struct {
	log       *logger.Logger
	file      *watchedFile
	refreshMu sync.Mutex // held across poll and swap

	mu       sync.RWMutex
	glossary *markup.MapGlossary
	version  string
}

func NewGlossaryStore(path string, baseLog *logger.Logger) *GlossaryStore {
	return &GlossaryStore{
		log:      baseLog.With("service", "GlossaryStore", "path", path),
		file:     &watchedFile{path: path},
		glossary: markup.NewGlossary(nil),
	}
}

// ParseGlossary decodes a term to definition map.
func ParseGlossary(path string, data []byte) (map[string]string, error) {
	terms := map[string]string{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &terms); err != nil {
			return nil, fmt.Errorf("decode glossary yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &terms); err != nil {
			return nil, fmt.Errorf("decode glossary json: %w", err)
		}
	}
	return terms, nil
}

func (g *GlossaryStore) refresh() {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	st, err := g.file.poll()
	if err != nil {
		g.log.Warn("Could not read glossary file", "error", err)
		return
	}
	if !st.changed {
		return
	}
	terms := map[string]string{}
	version := ""
	if st.missing {
		g.log.Warn("Glossary file not found; every term will be reported missing")
	} else if parsed, err := ParseGlossary(g.file.path, st.data); err != nil {
		g.log.Warn("Could not parse glossary file; every term will be reported missing", "error", err)
	} else {
		terms = parsed
		version = digest(st.data)
	}
	gl := markup.NewGlossary(terms)

	g.mu.Lock()
	g.glossary, g.version = gl, version
	g.mu.Unlock()
	g.log.Info("Glossary loaded", "terms", gl.Len(), "version", version)
}

// Glossary returns the current term table and its content version.
func (g *GlossaryStore) Glossary() (*markup.MapGlossary, string) {
	g.refresh()
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.glossary, g.version
}
