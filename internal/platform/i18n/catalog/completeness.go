package catalog

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

// MissingKeys returns the base locale keys that locale does not define.
func (b *Bundle) MissingKeys(locale string) []string {
	return missingKeys(b.LocaleMessages(BaseLocale), b.LocaleMessages(locale))
}

// ExtraKeys returns the keys locale defines that the base locale does not.
func (b *Bundle) ExtraKeys(locale string) []string {
	return missingKeys(b.LocaleMessages(locale), b.LocaleMessages(BaseLocale))
}

// PlaceholderMismatches returns the shared keys whose placeholders differ from
// the base locale.
func (b *Bundle) PlaceholderMismatches(locale string) []string {
	base := b.LocaleMessages(BaseLocale)
	target := b.LocaleMessages(locale)
	var mismatched []string
	for key, baseValue := range base {
		value, ok := target[key]
		if !ok {
			continue
		}
		if strings.Join(Placeholders(baseValue), ",") != strings.Join(Placeholders(value), ",") {
			mismatched = append(mismatched, key)
		}
	}
	sort.Strings(mismatched)
	return mismatched
}

// CheckComplete verifies that every supported locale is loaded, defines exactly
// the base locale keys, and uses the same placeholders.
func (b *Bundle) CheckComplete() error {
	for _, locale := range SupportedLocales() {
		if !b.HasLocale(locale) {
			return incomplete(locale, "locale is not loaded", nil)
		}
		if missing := b.MissingKeys(locale); len(missing) > 0 {
			return incomplete(locale, "missing keys", missing)
		}
		if extra := b.ExtraKeys(locale); len(extra) > 0 {
			return incomplete(locale, "unexpected keys", extra)
		}
		if mismatched := b.PlaceholderMismatches(locale); len(mismatched) > 0 {
			return incomplete(locale, "placeholder mismatch", mismatched)
		}
	}
	return nil
}

func incomplete(locale, reason string, keys []string) error {
	message := fmt.Sprintf("locale %s: %s", locale, reason)
	if len(keys) > 0 {
		message += ": " + strings.Join(keys, ", ")
	}
	return apperrors.WithMetadata(apperrors.CodeIncompleteLocale, message, map[string]string{
		"locale": locale,
		"keys":   strings.Join(keys, ","),
	})
}

func missingKeys(reference, candidate map[string]string) []string {
	var out []string
	for key := range reference {
		if _, ok := candidate[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
