package seo

import (
    "net/url"
    "strings"
)

type OpenGraph struct {
    Title       string
    Description string
    Image       string
    Type        string
    URL         string
    Locale      string
}

type Twitter struct {
    Card  string
    Image string
}

// Alternate is one hreflang link.
type Alternate struct {
    Href     string
    Hreflang string
}

type Meta struct {
    Title       string
    Description string
    Canonical   string
    OG          OpenGraph
    Twitter     Twitter
    Alternates  []Alternate
    JSONLD      []string
}

// LocalizedURL returns base with the hl query set to lang. A relative or
// empty base yields a root-relative URL.
func LocalizedURL(base, lang string) string {
    u, err := url.Parse(strings.TrimRight(base, "/") + "/")
    if err != nil {
        u = &url.URL{Path: "/"}
    }
    q := u.Query()
    q.Set("hl", lang)
    u.RawQuery = q.Encode()
    return u.String()
}

// Alternates lists one hreflang link per locale plus x-default on fallback.
func Alternates(base string, locales []string, fallback string) []Alternate {
    out := make([]Alternate, 0, len(locales)+1)
    for _, l := range locales {
        out = append(out, Alternate{Href: LocalizedURL(base, l), Hreflang: l})
    }
    if fallback != "" {
        out = append(out, Alternate{Href: strings.TrimRight(base, "/") + "/", Hreflang: "x-default"})
    }
    return out
}

// ogLocale maps a language code onto the og:locale territory form.
func ogLocale(lang string) string {
    switch lang {
    case "es":
        return "es_CO"
    case "en":
        return "en_US"
    }
    return lang
}

// Build assembles page metadata for lang.
func Build(title, description, base, lang string, locales []string, fallback string) Meta {
    canonical := LocalizedURL(base, lang)
    image := ""
    if base != "" {
        image = strings.TrimRight(base, "/") + "/assets/img/medellin.svg"
    }
    return Meta{
        Title:       title,
        Description: description,
        Canonical:   canonical,
        OG: OpenGraph{
            Title:       title,
            Description: description,
            Image:       image,
            Type:        "article",
            URL:         canonical,
            Locale:      ogLocale(lang),
        },
        Twitter:    Twitter{Card: "summary_large_image", Image: image},
        Alternates: Alternates(base, locales, fallback),
    }
}
