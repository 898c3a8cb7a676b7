// Package prtitle checks pull request titles against the contribution
// conventions.
package prtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// TitlePattern is the required title shape: prefix(scope): subject.
const TitlePattern = `^[a-zA-Z]+(\([a-zA-Z]+\))?: .+`

var titleRegexp = regexp.MustCompile(TitlePattern)

// Prefixes lists the allowed title prefixes.
var Prefixes = []string{"ability", "balance", "bug", "docs", "feature", "item", "localize", "move", "other"}

// LocaleScopes lists the scopes allowed after the localize prefix.
var LocaleScopes = []string{"es", "fr", "de", "it", "zh_CN", "zh_TW", "pt_BR", "ko"}

const localizePrefix = "localize"

var (
	// ErrFormat reports a title that does not match TitlePattern.
	ErrFormat = errors.New("title does not match the required format")
	// ErrPrefix reports a prefix outside Prefixes.
	ErrPrefix = errors.New("title prefix is not allowed")
	// ErrScope reports a localize scope outside LocaleScopes.
	ErrScope = errors.New("title locale scope is not allowed")
)

// Title is a title split into its parts.
type Title struct {
	Prefix  string
	Scope   string
	Subject string
}

// Parse splits title. It fails with ErrFormat when the title does not match
// TitlePattern.
func Parse(title string) (Title, error) {
	if !titleRegexp.MatchString(title) {
		return Title{}, fmt.Errorf("%w: %q must match %s", ErrFormat, title, TitlePattern)
	}
	head, subject, _ := strings.Cut(title, ": ")
	prefix, scope, hasScope := strings.Cut(head, "(")
	if hasScope {
		scope = strings.TrimSuffix(scope, ")")
	}
	return Title{Prefix: prefix, Scope: scope, Subject: subject}, nil
}

// CheckTitle validates the format first, then the prefix, then the locale
// scope of localize titles.
func CheckTitle(title string) error {
	parsed, err := Parse(title)
	if err != nil {
		return err
	}
	if !contains(Prefixes, parsed.Prefix) {
		return fmt.Errorf("%w: %q is not one of %s", ErrPrefix, parsed.Prefix, strings.Join(Prefixes, ", "))
	}
	if parsed.Prefix == localizePrefix && !contains(LocaleScopes, parsed.Scope) {
		return fmt.Errorf("%w: %q is not one of %s", ErrScope, parsed.Scope, strings.Join(LocaleScopes, ", "))
	}
	return nil
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
