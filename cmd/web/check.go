package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"finitefield.org/aire-web/internal/i18n"
	"finitefield.org/aire-web/internal/story"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every referenced key exists in every locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		b, err := loadBundle(cfg)
		if err != nil {
			return err
		}
		missing := missingKeys(b, story.Medellin())
		if len(missing) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d locales complete\n", len(b.Supported()))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), describeMissing(missing))
		return fmt.Errorf("%d locale(s) have missing keys", len(missing))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// referencedKeys are the content keys plus the chrome strings the layout uses.
func referencedKeys(b *i18n.Bundle, c *story.Content) []string {
	keys := c.Keys()
	for _, l := range b.Supported() {
		keys = append(keys, "languages."+l)
	}
	return keys
}

func missingKeys(b *i18n.Bundle, c *story.Content) map[string][]string {
	return b.MissingKeys(referencedKeys(b, c))
}

func describeMissing(missing map[string][]string) string {
	langs := make([]string, 0, len(missing))
	for l := range missing {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	var sb strings.Builder
	for _, l := range langs {
		fmt.Fprintf(&sb, "%s: missing %d key(s)\n", l, len(missing[l]))
		for _, k := range missing[l] {
			fmt.Fprintf(&sb, "  %s\n", k)
		}
	}
	return sb.String()
}
