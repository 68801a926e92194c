package seo

import (
    "encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
    b, err := json.Marshal(v)
    if err != nil {
        return ""
    }
    return string(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, inLanguage string) map[string]any {
    m := map[string]any{
        "@context": "https://schema.org",
        "@type":    "WebSite",
        "name":     name,
    }
    if url != "" { m["url"] = url }
    if inLanguage != "" { m["inLanguage"] = inLanguage }
    return m
}

// Variable describes one measured quantity of a Dataset.
type Variable struct {
    Name     string
    UnitText string
}

// Dataset returns a schema.org Dataset payload for the published readings.
// distributionURL points at the JSON API, when served.
func Dataset(name, description, url, distributionURL, inLanguage string, vars []Variable) map[string]any {
    m := map[string]any{
        "@context":    "https://schema.org",
        "@type":       "Dataset",
        "name":        name,
        "description": description,
        "inLanguage":  inLanguage,
        "spatialCoverage": map[string]any{
            "@type": "Place",
            "name":  "Medellín, Colombia",
        },
    }
    if url != "" { m["url"] = url }
    if len(vars) > 0 {
        vm := make([]map[string]any, 0, len(vars))
        for _, v := range vars {
            pv := map[string]any{"@type": "PropertyValue", "name": v.Name}
            if v.UnitText != "" { pv["unitText"] = v.UnitText }
            vm = append(vm, pv)
        }
        m["variableMeasured"] = vm
    }
    if distributionURL != "" {
        m["distribution"] = map[string]any{
            "@type":          "DataDownload",
            "encodingFormat": "application/json",
            "contentUrl":     distributionURL,
        }
    }
    return m
}
