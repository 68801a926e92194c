package format

import (
    "strings"

    "golang.org/x/text/language"
    "golang.org/x/text/message"
)

func printer(lang string) *message.Printer {
    tag, err := language.Parse(strings.ToLower(strings.TrimSpace(lang)))
    if err != nil {
        tag = language.English
    }
    return message.NewPrinter(tag)
}

// Number formats n with the locale's digit grouping.
// Example: Number(12345, "es") => "12.345"
func Number(n int, lang string) string {
    return printer(lang).Sprintf("%d", n)
}

// Percent formats a whole percentage. Spanish separates the sign with a space.
// Example: Percent(45, "es") => "45 %"
func Percent(p int, lang string) string {
    switch strings.ToLower(lang) {
    case "es":
        return Number(p, lang) + " %"
    default:
        return Number(p, lang) + "%"
    }
}

// Concentration formats a PM2.5 reading in micrograms per cubic metre.
func Concentration(v int, lang string) string {
    return Number(v, lang) + " μg/m³"
}
