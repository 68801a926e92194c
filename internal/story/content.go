package story

import "fmt"

// Visualization identifies which static dataset a section draws.
type Visualization string

const (
	VisNone     Visualization = "none"
	VisBar      Visualization = "bar"
	VisLine     Visualization = "line"
	VisPie      Visualization = "pie"
	VisTimeline Visualization = "timeline"
)

// Image is a decorative asset shown next to a section's text.
type Image struct {
	Src    string
	AltKey string
}

// Section is one scroll-addressable narrative unit.
// All text fields are key paths into the locale dictionaries.
type Section struct {
	Index         int
	Key           string
	TitleKey      string
	BodyKeys      []string
	FactKeys      []string
	Image         *Image
	Visualization Visualization
}

// Anchor is the fragment id used for the section's container element.
func (s Section) Anchor() string { return "step-" + s.Key }

// Content is the ordered, immutable list of sections plus their datasets.
type Content struct {
	sections []Section
	Datasets Datasets
}

// NewContent validates and indexes sections. Indices are assigned from order.
func NewContent(sections []Section, ds Datasets) (*Content, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("story: no sections")
	}
	seen := map[string]struct{}{}
	out := make([]Section, len(sections))
	for i, s := range sections {
		if s.Key == "" || s.TitleKey == "" || len(s.BodyKeys) == 0 {
			return nil, fmt.Errorf("story: section %d is missing key, title or body", i)
		}
		if _, dup := seen[s.Key]; dup {
			return nil, fmt.Errorf("story: duplicate section key %q", s.Key)
		}
		seen[s.Key] = struct{}{}
		if s.Visualization == "" {
			s.Visualization = VisNone
		}
		s.Index = i
		out[i] = s
	}
	return &Content{sections: out, Datasets: ds}, nil
}

// Len returns the number of sections.
func (c *Content) Len() int { return len(c.sections) }

// Sections returns a copy of the ordered sections.
func (c *Content) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Clamp maps any index onto the nearest valid section index.
func (c *Content) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(c.sections) {
		return len(c.sections) - 1
	}
	return i
}

// Section returns the section at the clamped index.
func (c *Content) Section(i int) Section { return c.sections[c.Clamp(i)] }

// IndexOf returns the index of the first section drawing v.
func (c *Content) IndexOf(v Visualization) (int, bool) {
	for _, s := range c.sections {
		if s.Visualization == v {
			return s.Index, true
		}
	}
	return 0, false
}

// Keys lists every key path that content and dataset labels reference.
func (c *Content) Keys() []string {
	keys := []string{"pageTitle", "meta.description", "meta.datasetName", "meta.datasetDescription",
		"ui.languageLabel", "ui.languageToggle", "ui.contents", "ui.stageHint", "ui.sourcesHint",
		"ui.closeDetails", "quickFacts.title"}
	for _, s := range c.sections {
		keys = append(keys, s.TitleKey)
		keys = append(keys, s.BodyKeys...)
		keys = append(keys, s.FactKeys...)
		if s.Image != nil {
			keys = append(keys, s.Image.AltKey)
		}
	}
	return append(keys, c.Datasets.Keys()...)
}

func paragraphs(key string) []string {
	return []string{key + ".paragraph1", key + ".paragraph2"}
}

func image(name, key string) *Image {
	return &Image{Src: "/assets/img/" + name, AltKey: key + ".imageAlt"}
}

// Medellin returns the shipped story.
func Medellin() *Content {
	c, err := NewContent([]Section{
		{
			Key:      "intro",
			TitleKey: "intro.title",
			BodyKeys: paragraphs("intro"),
			FactKeys: []string{"quickFacts.fact1", "quickFacts.fact2", "quickFacts.fact3",
				"quickFacts.fact4", "quickFacts.fact5", "quickFacts.fact6"},
			Image: image("medellin.svg", "intro"),
		},
		{
			Key:      "airQualityMonitoring",
			TitleKey: "airQualityMonitoring.title",
			BodyKeys: paragraphs("airQualityMonitoring"),
			Image:    image("data_analysis_pipeline.svg", "airQualityMonitoring"),
		},
		{
			Key:           "currentLevels",
			TitleKey:      "currentLevels.title",
			BodyKeys:      paragraphs("currentLevels"),
			Visualization: VisBar,
		},
		{
			Key:           "airQualityTrends",
			TitleKey:      "airQualityTrends.title",
			BodyKeys:      paragraphs("airQualityTrends"),
			Visualization: VisLine,
		},
		{
			Key:           "pollutionSources",
			TitleKey:      "pollutionSources.title",
			BodyKeys:      paragraphs("pollutionSources"),
			Visualization: VisPie,
		},
		{
			Key:      "bicycleInfrastructure",
			TitleKey: "bicycleInfrastructure.title",
			BodyKeys: paragraphs("bicycleInfrastructure"),
			Image:    image("bike_lane.svg", "bicycleInfrastructure"),
		},
		{
			Key:      "citizenScience",
			TitleKey: "citizenScience.title",
			BodyKeys: paragraphs("citizenScience"),
			Image:    image("evidence_cocreation.svg", "citizenScience"),
		},
		{
			Key:      "digitalLiteracy",
			TitleKey: "digitalLiteracy.title",
			BodyKeys: paragraphs("digitalLiteracy"),
			Image:    image("digital_literacy.svg", "digitalLiteracy"),
		},
		{
			Key:           "timeline",
			TitleKey:      "timeline.title",
			BodyKeys:      []string{"timeline.paragraph1"},
			Visualization: VisTimeline,
		},
	}, MedellinDatasets())
	if err != nil {
		panic(err)
	}
	return c
}
