package format

import "testing"

func TestPercent(t *testing.T) {
    cases := []struct {
        p    int
        lang string
        want string
    }{
        {45, "en", "45%"},
        {45, "es", "45 %"},
        {100, "", "100%"},
    }
    for _, c := range cases {
        if got := Percent(c.p, c.lang); got != c.want {
            t.Fatalf("Percent(%d, %q) = %q, want %q", c.p, c.lang, got, c.want)
        }
    }
}

func TestNumberGrouping(t *testing.T) {
    if got := Number(12345, "en"); got != "12,345" {
        t.Fatalf("en grouping: got %q", got)
    }
    if got := Number(12345, "es"); got != "12.345" {
        t.Fatalf("es grouping: got %q", got)
    }
}

func TestConcentration(t *testing.T) {
    if got := Concentration(22, "en"); got != "22 μg/m³" {
        t.Fatalf("got %q", got)
    }
}
