package i18n

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"

    "golang.org/x/text/language"
    "gopkg.in/yaml.v3"
)

// ErrUnsupportedLocale is returned when a locale code has no dictionary.
var ErrUnsupportedLocale = errors.New("i18n: unsupported locale")

// Bundle holds one flattened dictionary per locale: locale -> key path -> string.
type Bundle struct {
    dict      map[string]map[string]string
    fallback  string
    supported map[string]struct{}
}

// Load reads <dir>/<lang>.yaml for every supported locale. Nested mappings
// are flattened into dotted key paths, e.g. "pollutionSources.details.Other".
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
    b := &Bundle{
        dict:      map[string]map[string]string{},
        fallback:  fallback,
        supported: map[string]struct{}{},
    }
    if len(supported) == 0 {
        supported = []string{"en", "es"}
    }
    for _, l := range supported {
        l = strings.ToLower(strings.TrimSpace(l))
        path := filepath.Join(dir, l+".yaml")
        raw, err := os.ReadFile(path)
        if err != nil {
            // allow missing file for non-default locales
            if l == fallback {
                return nil, fmt.Errorf("load locale %s: %w", l, err)
            }
            continue
        }
        m, err := parseDictionary(raw)
        if err != nil {
            return nil, fmt.Errorf("parse locale %s: %w", l, err)
        }
        b.supported[l] = struct{}{}
        b.dict[l] = m
    }
    if _, ok := b.dict[fallback]; !ok {
        return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
    }
    return b, nil
}

func parseDictionary(raw []byte) (map[string]string, error) {
    var doc yaml.Node
    if err := yaml.Unmarshal(raw, &doc); err != nil {
        return nil, err
    }
    out := map[string]string{}
    if len(doc.Content) == 0 {
        return out, nil
    }
    if err := flatten("", doc.Content[0], out); err != nil {
        return nil, err
    }
    return out, nil
}

func flatten(prefix string, n *yaml.Node, out map[string]string) error {
    switch n.Kind {
    case yaml.MappingNode:
        for i := 0; i+1 < len(n.Content); i += 2 {
            key := n.Content[i].Value
            if prefix != "" {
                key = prefix + "." + key
            }
            if err := flatten(key, n.Content[i+1], out); err != nil {
                return err
            }
        }
    case yaml.ScalarNode:
        if prefix == "" {
            return errors.New("scalar at document root")
        }
        out[prefix] = n.Value
    case yaml.AliasNode:
        return flatten(prefix, n.Alias, out)
    default:
        return fmt.Errorf("unsupported node at %q (line %d)", prefix, n.Line)
    }
    return nil
}

// Supported lists loaded locales in sorted order.
func (b *Bundle) Supported() []string {
    out := make([]string, 0, len(b.supported))
    for k := range b.supported {
        out = append(out, k)
    }
    sort.Strings(out)
    return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a dictionary.
func (b *Bundle) IsSupported(lang string) bool {
    _, ok := b.supported[lang]
    return ok
}

// Lookup returns the string for key in lang without any fallback.
func (b *Bundle) Lookup(lang, key string) (string, bool) {
    m, ok := b.dict[lang]
    if !ok {
        return "", false
    }
    v, ok := m[key]
    return v, ok
}

// T returns translation for key in lang, falling back to the default locale
// and finally to a visible placeholder.
func (b *Bundle) T(lang, key string) string {
    if lang != "" {
        if v, ok := b.Lookup(lang, key); ok {
            return v
        }
    }
    if v, ok := b.Lookup(b.fallback, key); ok {
        return v
    }
    return Missing(key)
}

// Missing renders the placeholder shown for an undefined key path.
func Missing(key string) string { return "[[" + key + "]]" }

// MissingKeys reports, per locale, the keys absent from that locale's dictionary.
// Locales with every key present are omitted.
func (b *Bundle) MissingKeys(keys []string) map[string][]string {
    out := map[string][]string{}
    for _, lang := range b.Supported() {
        for _, k := range keys {
            if _, ok := b.Lookup(lang, k); !ok {
                out[lang] = append(out[lang], k)
            }
        }
    }
    return out
}

// Resolve chooses best language from Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
    tags, _, err := language.ParseAcceptLanguage(acceptLang)
    if err != nil {
        return b.fallback
    }
    for _, tag := range tags {
        base, _ := tag.Base()
        if lang := base.String(); b.IsSupported(lang) {
            return lang
        }
    }
    return b.fallback
}
