package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
)

type options struct {
	LocalesDir  string
	MarkdownOut string
	JSONOut     string
	Check       bool
}

type report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []localeStatus `json:"locales"`
}

type localeStatus struct {
	Locale                string            `json:"locale"`
	BaseKeys              int               `json:"base_keys"`
	Translated            int               `json:"translated"`
	Completion            float64           `json:"completion"`
	Namespaces            []namespaceStatus `json:"namespaces"`
	MissingKeys           []string          `json:"missing_keys"`
	ExtraKeys             []string          `json:"extra_keys"`
	PlaceholderMismatches []string          `json:"placeholder_mismatches"`
}

type namespaceStatus struct {
	Namespace  string  `json:"namespace"`
	BaseKeys   int     `json:"base_keys"`
	Translated int     `json:"translated"`
	Completion float64 `json:"completion"`
}

func loadBundle(localesDir string) (*catalog.Bundle, error) {
	if strings.TrimSpace(localesDir) == "" {
		return catalog.LoadEmbedded()
	}
	return catalog.LoadFromFS(os.DirFS(localesDir))
}

func buildReport(bundle *catalog.Bundle) report {
	baseNamespaces := bundle.Namespaces(catalog.BaseLocale)
	baseKeys := bundle.Len()

	rep := report{BaseLocale: catalog.BaseLocale}
	for _, locale := range catalog.SupportedLocales() {
		missing := nonNil(bundle.MissingKeys(locale))
		translated := baseKeys - len(missing)
		status := localeStatus{
			Locale:                locale,
			BaseKeys:              baseKeys,
			Translated:            translated,
			Completion:            percent(translated, baseKeys),
			MissingKeys:           missing,
			ExtraKeys:             nonNil(bundle.ExtraKeys(locale)),
			PlaceholderMismatches: nonNil(bundle.PlaceholderMismatches(locale)),
		}
		for _, namespace := range baseNamespaces {
			base := bundle.NamespaceMessages(catalog.BaseLocale, namespace)
			target := bundle.NamespaceMessages(locale, namespace)
			present := 0
			for key := range base {
				if _, ok := target[key]; ok {
					present++
				}
			}
			status.Namespaces = append(status.Namespaces, namespaceStatus{
				Namespace:  namespace,
				BaseKeys:   len(base),
				Translated: present,
				Completion: percent(present, len(base)),
			})
		}
		rep.Locales = append(rep.Locales, status)
	}
	return rep
}

func writeJSON(path string, rep report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderMarkdown(rep report) string {
	var b strings.Builder
	b.WriteString("# Locale Status\n\n")
	fmt.Fprintf(&b, "Base locale: `%s`.\n\n", rep.BaseLocale)
	b.WriteString("| Locale | Base Keys | Translated | Extra | Placeholder Mismatches | Completion |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %d | %.1f%% |\n",
			locale.Locale, locale.BaseKeys, locale.Translated, len(locale.ExtraKeys), len(locale.PlaceholderMismatches), locale.Completion)
	}

	for _, locale := range rep.Locales {
		if len(locale.MissingKeys)+len(locale.ExtraKeys)+len(locale.PlaceholderMismatches) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## `%s`\n", locale.Locale)
		writeKeyList(&b, "Missing Keys", locale.MissingKeys)
		writeKeyList(&b, "Extra Keys", locale.ExtraKeys)
		writeKeyList(&b, "Placeholder Mismatches", locale.PlaceholderMismatches)
	}
	return b.String()
}

func writeKeyList(b *strings.Builder, title string, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, key := range keys {
		fmt.Fprintf(b, "- `%s`\n", key)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
