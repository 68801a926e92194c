package nav

import "finitefield.org/aire-web/internal/story"

// Item is one table-of-contents entry pointing at a story step.
type Item struct {
    Anchor   string // e.g. "step-intro"
    LabelKey string // i18n key, e.g. "intro.title"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
    Index  int
    Href   string
    Label  string
    Active bool
}

// Items lists the contents entries for c in section order.
func Items(c *story.Content) []Item {
    secs := c.Sections()
    items := make([]Item, 0, len(secs))
    for _, s := range secs {
        items = append(items, Item{Anchor: s.Anchor(), LabelKey: s.TitleKey})
    }
    return items
}

// Build renders contents entries with the active section highlighted.
// Labels are resolved through translate.
func Build(items []Item, active int, translate func(string) string) []RenderedItem {
    out := make([]RenderedItem, 0, len(items))
    for i, it := range items {
        out = append(out, RenderedItem{
            Index:  i,
            Href:   "#" + it.Anchor,
            Label:  translate(it.LabelKey),
            Active: i == active,
        })
    }
    return out
}
