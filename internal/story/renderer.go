package story

import (
	"html/template"

	"finitefield.org/aire-web/internal/format"
)

// Translator resolves key paths in the active locale.
type Translator interface {
	Translate(key string) string
	Has(key string) bool
	Locale() string
}

// PageView is the whole story resolved for one locale.
type PageView struct {
	Lang        string
	Title       string
	Description string
	Sections    []SectionView
	Active      SectionView
	ActiveIndex int
	Count       int
}

// SectionView is one section with every string resolved.
type SectionView struct {
	Index         int
	Key           string
	Anchor        string
	Title         string
	Body          []template.HTML
	FactsTitle    string
	Facts         []string
	Image         *ImageView
	Visualization Visualization
	Active        bool

	Bar      *BarView
	Line     *LineView
	Pie      *PieView
	Timeline []MilestoneView
	// ChartError is set when the SVG could not be drawn; templates fall
	// back to the data table.
	ChartError string
}

// ImageView is a resolved decorative image.
type ImageView struct {
	Src string
	Alt string
}

// BarView backs the per-location bar chart.
type BarView struct {
	Name      string
	AxisLabel string
	Bars      []BarCell
	SVG       template.HTML
}

// BarCell is one location's bar.
type BarCell struct {
	Label      string
	Value      int
	ValueLabel string
	AQI        int
	Color      string
}

// LineView backs the monthly trend chart.
type LineView struct {
	LeftLabel  string
	RightLabel string
	LeftName   string
	RightName  string
	Points     []LinePoint
	SVG        template.HTML
}

// LinePoint is one month: Left is PM2.5, Right is AQI.
type LinePoint struct {
	Category string
	Label    string
	Left     int
	Right    int
}

// PieView backs the pollution-source chart and its detail panel.
type PieView struct {
	Slices     []SliceView
	Detail     *DetailView
	Hint       string
	CloseLabel string
	SVG        template.HTML
}

// SliceView is one source slice.
type SliceView struct {
	Category     Category
	Label        string
	Value        int
	Percent      int
	PercentLabel string
	Color        string
	Opacity      float64
	Dimmed       bool
	Expanded     bool
}

// DetailView is the expanded source's explanation.
type DetailView struct {
	Category Category
	Title    string
	Text     string
}

// MilestoneView is one resolved timeline entry.
type MilestoneView struct {
	Year        string
	Title       string
	Description string
}

// Renderer composes content, locale, active index and expanded category
// into view models.
type Renderer struct {
	content *Content
	charts  ChartRenderer
	md      *Markdown
}

// NewRenderer wires the content with chart and markdown renderers.
func NewRenderer(c *Content, charts ChartRenderer, md *Markdown) *Renderer {
	if md == nil {
		md = NewMarkdown()
	}
	return &Renderer{content: c, charts: charts, md: md}
}

// Content returns the rendered content model.
func (r *Renderer) Content() *Content { return r.content }

// Page renders every section and marks the active one. An out-of-range
// active index is clamped.
func (r *Renderer) Page(tr Translator, active int, expanded Category) PageView {
	active = r.content.Clamp(active)
	pv := PageView{
		Lang:        tr.Locale(),
		Title:       tr.Translate("pageTitle"),
		Description: tr.Translate("meta.description"),
		ActiveIndex: active,
		Count:       r.content.Len(),
	}
	for _, s := range r.content.sections {
		sv := r.section(tr, s, expanded)
		sv.Active = s.Index == active
		pv.Sections = append(pv.Sections, sv)
	}
	pv.Active = pv.Sections[active]
	return pv
}

// Section renders the section at index i, clamped to the valid range.
func (r *Renderer) Section(tr Translator, i int, expanded Category) SectionView {
	sv := r.section(tr, r.content.Section(i), expanded)
	sv.Active = true
	return sv
}

func (r *Renderer) section(tr Translator, s Section, expanded Category) SectionView {
	sv := SectionView{
		Index:         s.Index,
		Key:           s.Key,
		Anchor:        s.Anchor(),
		Title:         tr.Translate(s.TitleKey),
		Visualization: s.Visualization,
	}
	for _, k := range s.BodyKeys {
		sv.Body = append(sv.Body, r.md.Render(tr.Translate(k)))
	}
	if len(s.FactKeys) > 0 {
		sv.FactsTitle = tr.Translate("quickFacts.title")
		for _, k := range s.FactKeys {
			sv.Facts = append(sv.Facts, tr.Translate(k))
		}
	}
	if s.Image != nil {
		sv.Image = &ImageView{Src: s.Image.Src, Alt: tr.Translate(s.Image.AltKey)}
	}

	var err error
	ds := r.content.Datasets
	switch s.Visualization {
	case VisBar:
		sv.Bar = r.barView(tr, ds)
		sv.Bar.SVG, err = r.charts.Bar(sv.Bar)
	case VisLine:
		sv.Line = r.lineView(tr, ds)
		sv.Line.SVG, err = r.charts.Line(sv.Line)
	case VisPie:
		sv.Pie = r.pieView(tr, ds, expanded)
		sv.Pie.SVG, err = r.charts.Pie(sv.Pie)
	case VisTimeline:
		for _, m := range ds.Timeline {
			sv.Timeline = append(sv.Timeline, MilestoneView{
				Year:        m.Year,
				Title:       tr.Translate(m.TitleKey()),
				Description: tr.Translate(m.DescriptionKey()),
			})
		}
	}
	if err != nil {
		sv.ChartError = err.Error()
	}
	return sv
}

func (r *Renderer) barView(tr Translator, ds Datasets) *BarView {
	bv := &BarView{
		Name:      tr.Translate("currentLevels.barName"),
		AxisLabel: tr.Translate("currentLevels.yAxisLabel"),
	}
	for _, l := range ds.Locations {
		col := barLowColor
		if l.PM25 > barHighThreshold {
			col = barHighColor
		}
		bv.Bars = append(bv.Bars, BarCell{
			Label:      l.Location,
			Value:      l.PM25,
			ValueLabel: format.Concentration(l.PM25, tr.Locale()),
			AQI:        l.AQI,
			Color:      col,
		})
	}
	return bv
}

func (r *Renderer) lineView(tr Translator, ds Datasets) *LineView {
	lv := &LineView{
		LeftLabel:  tr.Translate("airQualityTrends.yAxisLabelLeft"),
		RightLabel: tr.Translate("airQualityTrends.yAxisLabelRight"),
		LeftName:   tr.Translate("airQualityTrends.lineName1"),
		RightName:  tr.Translate("airQualityTrends.lineName2"),
	}
	for _, m := range ds.Trends {
		lv.Points = append(lv.Points, LinePoint{
			Category: m.Month,
			Label:    tr.Translate(m.MonthKey()),
			Left:     m.PM25,
			Right:    m.AQI,
		})
	}
	return lv
}

func (r *Renderer) pieView(tr Translator, ds Datasets, expanded Category) *PieView {
	pv := &PieView{
		Hint:       tr.Translate("ui.sourcesHint"),
		CloseLabel: tr.Translate("ui.closeDetails"),
	}
	pct := Percentages(ds.Sources)
	for i, s := range ds.Sources {
		dimmed := expanded != CategoryNone && expanded != s.Category
		opacity := 1.0
		if dimmed {
			opacity = 0.5
		}
		pv.Slices = append(pv.Slices, SliceView{
			Category:     s.Category,
			Label:        tr.Translate(s.Category.LabelKey()),
			Value:        s.Value,
			Percent:      pct[i],
			PercentLabel: format.Percent(pct[i], tr.Locale()),
			Color:        SliceColors[i%len(SliceColors)],
			Opacity:      opacity,
			Dimmed:       dimmed,
			Expanded:     s.Category == expanded,
		})
	}
	if expanded != CategoryNone {
		text := tr.Translate("pollutionSources.noDetails")
		if tr.Has(expanded.DetailKey()) {
			text = tr.Translate(expanded.DetailKey())
		}
		pv.Detail = &DetailView{
			Category: expanded,
			Title:    tr.Translate(expanded.LabelKey()),
			Text:     text,
		}
	}
	return pv
}
