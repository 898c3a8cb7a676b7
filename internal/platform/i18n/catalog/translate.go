package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/message"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// Translate resolves key ("namespace:name") in locale and substitutes every
// {{param}} placeholder. Integer parameters are formatted for the locale.
func (b *Bundle) Translate(locale, key string, params map[string]any) (string, error) {
	catalog, err := b.catalog(locale)
	if err != nil {
		return "", err
	}
	template, ok := catalog.Messages[strings.TrimSpace(key)]
	if !ok {
		return "", apperrors.WithMetadata(
			apperrors.CodeMissingLocaleKey,
			fmt.Sprintf("locale %s has no message %q", catalog.Locale, key),
			map[string]string{"locale": catalog.Locale, "key": key},
		)
	}

	printer := message.NewPrinter(catalog.Tag)
	missing := ""
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := params[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return formatParam(printer, value)
	})
	if missing != "" {
		return "", apperrors.WithMetadata(
			apperrors.CodeMissingPlaceholder,
			fmt.Sprintf("message %q in locale %s needs parameter %q", key, catalog.Locale, missing),
			map[string]string{"locale": catalog.Locale, "key": key, "param": missing},
		)
	}
	return out, nil
}

// FormatNumber formats value with the digit grouping of locale.
func (b *Bundle) FormatNumber(locale string, value int64) (string, error) {
	catalog, err := b.catalog(locale)
	if err != nil {
		return "", err
	}
	return message.NewPrinter(catalog.Tag).Sprintf("%d", value), nil
}

func (b *Bundle) catalog(locale string) (*LocaleCatalog, error) {
	trimmed := strings.TrimSpace(locale)
	if b != nil {
		if catalog, ok := b.locales[trimmed]; ok && catalog != nil {
			return catalog, nil
		}
	}
	return nil, apperrors.WithMetadata(
		apperrors.CodeUnsupportedLocale,
		fmt.Sprintf("locale %q is not loaded", locale),
		map[string]string{"locale": locale},
	)
}

func formatParam(printer *message.Printer, value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return printer.Sprintf("%d", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Placeholders returns the sorted, distinct placeholder names of template.
func Placeholders(template string) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		names = append(names, match[1])
	}
	sort.Strings(names)
	return names
}
