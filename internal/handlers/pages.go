package handlers

import (
	"finitefield.org/aire-web/internal/nav"
	"finitefield.org/aire-web/internal/seo"
	"finitefield.org/aire-web/internal/story"
)

// PageData is the view model for the story layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Contents  []nav.RenderedItem
	Locales   []LocaleOption
	CSRFToken string
	// Static pages are exported without htmx; every step carries its own
	// visualization.
	Static bool

	Story story.PageView
	UI    UIText
	// Datasets advertises the JSON dataset API in the page head.
	Datasets bool
}

// LocaleOption is one entry of the language toggle.
type LocaleOption struct {
	Code    string
	Label   string
	Href    string
	Current bool
}

// UIText is the chrome copy resolved for the active locale.
type UIText struct {
	LanguageLabel  string
	LanguageToggle string
	Contents       string
	StageHint      string
}

// StoryInput is what a page render needs beyond the story itself.
type StoryInput struct {
	Translator story.Translator
	Renderer   *story.Renderer
	Active     int
	Expanded   story.Category
	Locales    []string
	Fallback   string
	BaseURL    string
	Analytics  Analytics
	CSRFToken  string
	Static     bool
	// LocaleHref builds the toggle link for a locale.
	LocaleHref func(lang string) string
}

// BuildStoryData composes the full page view model.
func BuildStoryData(in StoryInput) PageData {
	tr := in.Translator
	pv := in.Renderer.Page(tr, in.Active, in.Expanded)
	lang := tr.Locale()

	meta := seo.Build(pv.Title, pv.Description, in.BaseURL, lang, in.Locales, in.Fallback)
	api := ""
	if !in.Static {
		api = "/api/v1/datasets"
	}
	meta.JSONLD = append(meta.JSONLD,
		seo.JSON(seo.WebSite(pv.Title, in.BaseURL, lang)),
		seo.JSON(seo.Dataset(
			tr.Translate("meta.datasetName"),
			tr.Translate("meta.datasetDescription"),
			meta.Canonical, api, lang,
			[]seo.Variable{{Name: "PM2.5", UnitText: "μg/m³"}, {Name: "AQI"}},
		)),
	)

	href := in.LocaleHref
	if href == nil {
		href = func(l string) string { return seo.LocalizedURL("", l) }
	}
	locales := make([]LocaleOption, 0, len(in.Locales))
	for _, l := range in.Locales {
		locales = append(locales, LocaleOption{
			Code:    l,
			Label:   tr.Translate("languages." + l),
			Href:    href(l),
			Current: l == lang,
		})
	}

	return PageData{
		Title:     pv.Title,
		Lang:      lang,
		SEO:       meta,
		Analytics: in.Analytics,
		Contents:  nav.Build(nav.Items(in.Renderer.Content()), pv.ActiveIndex, tr.Translate),
		Locales:   locales,
		CSRFToken: in.CSRFToken,
		Static:    in.Static,
		Story:     pv,
		UI: UIText{
			LanguageLabel:  tr.Translate("ui.languageLabel"),
			LanguageToggle: tr.Translate("ui.languageToggle"),
			Contents:       tr.Translate("ui.contents"),
			StageHint:      tr.Translate("ui.stageHint"),
		},
		Datasets: !in.Static,
	}
}

// VisData is what the stage and the inline static visualizations render.
type VisData struct {
	Section   story.SectionView
	Static    bool
	StageHint string
}

// Vis wraps sv for the visualization templates.
func (p PageData) Vis(sv story.SectionView) VisData {
	return VisData{Section: sv, Static: p.Static, StageHint: p.UI.StageHint}
}

// IsPie reports whether sv shows the pollution-source chart.
func (v VisData) IsPie() bool { return v.Section.Visualization == story.VisPie }
