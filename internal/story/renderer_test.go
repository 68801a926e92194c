package story

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finitefield.org/aire-web/internal/i18n"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load("../../locales", "en", []string{"en", "es"})
	require.NoError(t, err)
	return b
}

func testRenderer() *Renderer {
	return NewRenderer(Medellin(), DefaultCharts(), NewMarkdown())
}

func TestEverySectionResolvesInBothLocales(t *testing.T) {
	b := testBundle(t)
	r := testRenderer()
	for _, lang := range b.Supported() {
		tr := i18n.NewStore(b, lang)
		for i := 0; i < r.Content().Len(); i++ {
			sv := r.Section(tr, i, CategoryNone)
			assert.NotEmpty(t, sv.Title, "%s section %d", lang, i)
			assert.NotContains(t, sv.Title, "[[")
			require.NotEmpty(t, sv.Body, "%s section %d", lang, i)
			for _, p := range sv.Body {
				assert.NotEmpty(t, strings.TrimSpace(string(p)))
				assert.NotContains(t, string(p), "[[")
			}
		}
	}
}

func TestLocaleKeysAreComplete(t *testing.T) {
	b := testBundle(t)
	assert.Empty(t, b.MissingKeys(Medellin().Keys()))
}

func TestSectionIndexClamps(t *testing.T) {
	b := testBundle(t)
	r := testRenderer()
	tr := i18n.NewStore(b, "en")
	assert.Equal(t, 0, r.Section(tr, -3, CategoryNone).Index)
	assert.Equal(t, r.Content().Len()-1, r.Section(tr, 99, CategoryNone).Index)

	pv := r.Page(tr, 42, CategoryNone)
	assert.Equal(t, r.Content().Len()-1, pv.ActiveIndex)
	assert.True(t, pv.Sections[pv.ActiveIndex].Active)
}

func TestLocaleRoundTripRendersIdentically(t *testing.T) {
	b := testBundle(t)
	r := testRenderer()
	tr := i18n.NewStore(b, "en")
	before := r.Page(tr, 3, VehicleEmissions)

	require.NoError(t, tr.SetLocale("es"))
	es := r.Page(tr, 3, VehicleEmissions)
	assert.NotEqual(t, before.Sections[1].Title, es.Sections[1].Title)
	require.NoError(t, tr.SetLocale("en"))

	assert.Equal(t, before, r.Page(tr, 3, VehicleEmissions))
}

func TestTrendChartPlotsBothAxes(t *testing.T) {
	b := testBundle(t)
	sv := testRenderer().Section(i18n.NewStore(b, "en"), 3, CategoryNone)
	require.NotNil(t, sv.Line)
	var mar *LinePoint
	for i := range sv.Line.Points {
		if sv.Line.Points[i].Category == "Mar" {
			mar = &sv.Line.Points[i]
		}
	}
	require.NotNil(t, mar)
	assert.Equal(t, 20, mar.Left)
	assert.Equal(t, 68, mar.Right)
	assert.Equal(t, "PM2.5 (μg/m³)", sv.Line.LeftLabel)
	assert.Equal(t, "AQI", sv.Line.RightLabel)
}

func TestBarColorsFollowThreshold(t *testing.T) {
	b := testBundle(t)
	sv := testRenderer().Section(i18n.NewStore(b, "en"), 2, CategoryNone)
	require.NotNil(t, sv.Bar)
	colors := map[string]string{}
	for _, c := range sv.Bar.Bars {
		colors[c.Label] = c.Color
	}
	assert.Equal(t, "#FF4136", colors["La Candelaria"])
	// 20 is not above the threshold
	assert.Equal(t, "#0074D9", colors["Robledo"])
	assert.Equal(t, "#0074D9", colors["El Poblado"])
}

func TestPieDetailAndDimming(t *testing.T) {
	b := testBundle(t)
	r := testRenderer()
	tr := i18n.NewStore(b, "es")

	sv := r.Section(tr, 4, CategoryNone)
	require.NotNil(t, sv.Pie)
	assert.Nil(t, sv.Pie.Detail)
	sum := 0
	for i, s := range sv.Pie.Slices {
		assert.False(t, s.Dimmed)
		assert.Equal(t, SliceColors[i], s.Color)
		sum += s.Percent
	}
	assert.Equal(t, 100, sum)
	assert.Equal(t, "45 %", sv.Pie.Slices[0].PercentLabel)

	sv = r.Section(tr, 4, Residential)
	require.NotNil(t, sv.Pie.Detail)
	assert.Equal(t, Residential, sv.Pie.Detail.Category)
	assert.NotContains(t, sv.Pie.Detail.Text, "[[")
	for _, s := range sv.Pie.Slices {
		assert.Equal(t, s.Category != Residential, s.Dimmed)
		if s.Dimmed {
			assert.Equal(t, 0.5, s.Opacity)
		}
	}
}

func TestMissingDetailFallsBack(t *testing.T) {
	b := testBundle(t)
	r := NewRenderer(Medellin(), DefaultCharts(), nil)
	tr := i18n.NewStore(b, "en")
	pv := r.pieView(tr, r.Content().Datasets, Category("Volcanoes"))
	require.NotNil(t, pv.Detail)
	assert.Equal(t, tr.Translate("pollutionSources.noDetails"), pv.Detail.Text)
}

func TestChartsRenderSVG(t *testing.T) {
	b := testBundle(t)
	pv := testRenderer().Page(i18n.NewStore(b, "en"), 0, IndustrialActivity)
	for _, sv := range pv.Sections {
		assert.Empty(t, sv.ChartError, sv.Key)
		var svg string
		switch sv.Visualization {
		case VisBar:
			svg = string(sv.Bar.SVG)
		case VisLine:
			svg = string(sv.Line.SVG)
		case VisPie:
			svg = string(sv.Pie.SVG)
		default:
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Find("svg").Length(), sv.Key)
		assert.Positive(t, doc.Find("path").Length(), sv.Key)
	}
}

func TestIntroMarkdownIsRendered(t *testing.T) {
	b := testBundle(t)
	sv := testRenderer().Section(i18n.NewStore(b, "en"), 0, CategoryNone)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(sv.Body[0])))
	require.NoError(t, err)
	assert.Equal(t, "PM2.5", doc.Find("strong").First().Text())
	assert.Len(t, sv.Facts, 6)
	require.NotNil(t, sv.Image)
	assert.Equal(t, "/assets/img/medellin.svg", sv.Image.Src)
}

func TestTimelineMilestones(t *testing.T) {
	b := testBundle(t)
	sv := testRenderer().Section(i18n.NewStore(b, "es"), 8, CategoryNone)
	require.Len(t, sv.Timeline, 4)
	assert.Equal(t, "2007", sv.Timeline[0].Year)
	assert.NotEmpty(t, sv.Timeline[3].Description)
}

func TestMarkdownSanitizes(t *testing.T) {
	out := string(NewMarkdown().Render(`Hi <script>alert(1)</script> **there**`))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<strong>there</strong>")
}
