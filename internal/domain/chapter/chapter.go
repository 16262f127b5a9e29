package chapter

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaModel MediaType = "model"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaImage, MediaVideo, MediaModel:
		return true
	default:
		return false
	}
}

type MediaWidth string

const (
	WidthSmall  MediaWidth = "small"
	WidthMedium MediaWidth = "medium"
	WidthLarge  MediaWidth = "large"
	WidthFull   MediaWidth = "full"
)

// Annotation pins a label to a point on a 3D model.
type Annotation struct {
	Position    [3]float64 `json:"position" yaml:"position"`
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// MediaEmbed is referenced positionally from section text via {{type:index}}.
type MediaEmbed struct {
	Type        MediaType    `json:"type" yaml:"type"`
	Path        string       `json:"path" yaml:"path"`
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Width       MediaWidth   `json:"width,omitempty" yaml:"width,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Loop        bool         `json:"loop,omitempty" yaml:"loop,omitempty"`
	Autoplay    bool         `json:"autoplay,omitempty" yaml:"autoplay,omitempty"`
	Muted       bool         `json:"muted,omitempty" yaml:"muted,omitempty"`
}

// Model is the legacy end-of-section 3D model list.
type Model struct {
	Path        string       `json:"path" yaml:"path"`
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type Section struct {
	Title   string       `json:"title" yaml:"title"`
	Content string       `json:"content,omitempty" yaml:"content,omitempty"`
	Models  []Model      `json:"models,omitempty" yaml:"models,omitempty"`
	Media   []MediaEmbed `json:"media,omitempty" yaml:"media,omitempty"`
}

type Chapter struct {
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int       `json:"order" yaml:"order"`
	Sections    []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
}

func (c *Chapter) Section(index int) (*Section, bool) {
	if c == nil || index < 0 || index >= len(c.Sections) {
		return nil, false
	}
	return &c.Sections[index], true
}

// Summary strips section bodies, leaving the navigation skeleton.
type Summary struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Order         int      `json:"order"`
	SectionTitles []string `json:"section_titles"`
}

func (c Chapter) Summary() Summary {
	titles := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		titles = append(titles, s.Title)
	}
	return Summary{
		Slug:          c.Slug,
		Title:         c.Title,
		Description:   c.Description,
		Order:         c.Order,
		SectionTitles: titles,
	}
}
