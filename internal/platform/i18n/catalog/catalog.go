// Package catalog loads the locale bundles and resolves translated text.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// BaseLocale is the reference locale every other locale must match.
	BaseLocale = "en"

	// keySeparator splits "namespace:key" message keys.
	keySeparator = ":"
)

// supportedLocales lists every locale code with its language tag. The base
// locale comes first so the matcher falls back to it.
var supportedLocales = []struct {
	code string
	tag  language.Tag
}{
	{code: "en", tag: language.English},
	{code: "es", tag: language.Spanish},
	{code: "fr", tag: language.French},
	{code: "de", tag: language.German},
	{code: "it", tag: language.Italian},
	{code: "zh_CN", tag: language.SimplifiedChinese},
	{code: "zh_TW", tag: language.TraditionalChinese},
	{code: "pt_BR", tag: language.BrazilianPortuguese},
	{code: "ko", tag: language.Korean},
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, locale := range supportedLocales {
		tags[i] = locale.tag
	}
	return language.NewMatcher(tags)
}()

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// LocaleCatalog stores all messages for one locale, grouped by namespace.
type LocaleCatalog struct {
	Locale     string
	Tag        language.Tag
	Namespaces map[string]map[string]string
	// Messages is keyed by "namespace:key".
	Messages map[string]string
}

// Bundle contains all locale catalogs.
type Bundle struct {
	locales map[string]*LocaleCatalog
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads locales/<code>/<namespace>.yaml files from catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for _, filePath := range paths {
		data, err := fs.ReadFile(catalogFS, filePath)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", filePath, err)
		}
		parsed, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", filePath, err)
		}
		if err := bundle.addFile(filePath, parsed); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func parseCatalogFile(data []byte) (catalogFile, error) {
	var out catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&out); err != nil {
		return catalogFile{}, err
	}
	if strings.TrimSpace(out.Locale) == "" {
		return catalogFile{}, fmt.Errorf("missing locale")
	}
	if strings.TrimSpace(out.Namespace) == "" {
		return catalogFile{}, fmt.Errorf("missing namespace")
	}
	if len(out.Messages) == 0 {
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func (b *Bundle) addFile(filePath string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(filePath))
	namespaceFromPath := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))

	locale := strings.TrimSpace(file.Locale)
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", filePath, locale, localeFromPath)
	}
	tag, ok := tagFor(locale)
	if !ok {
		return fmt.Errorf("catalog %s: locale %q is not supported", filePath, locale)
	}

	namespace := strings.TrimSpace(file.Namespace)
	if namespace != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", filePath, namespace, namespaceFromPath)
	}
	if strings.Contains(namespace, keySeparator) {
		return fmt.Errorf("catalog %s: namespace %q cannot contain %q", filePath, namespace, keySeparator)
	}

	localeCatalog, ok := b.locales[locale]
	if !ok {
		localeCatalog = &LocaleCatalog{
			Locale:     locale,
			Tag:        tag,
			Namespaces: map[string]map[string]string{},
			Messages:   map[string]string{},
		}
		b.locales[locale] = localeCatalog
	}
	if _, exists := localeCatalog.Namespaces[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for locale %q", filePath, namespace, locale)
	}

	namespaceMessages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", filePath)
		}
		if strings.Contains(trimmedKey, keySeparator) {
			return fmt.Errorf("catalog %s: key %q cannot contain %q", filePath, trimmedKey, keySeparator)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("catalog %s: key %q has an empty message", filePath, trimmedKey)
		}
		if _, exists := namespaceMessages[trimmedKey]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q", filePath, trimmedKey)
		}
		namespaceMessages[trimmedKey] = value
		localeCatalog.Messages[namespace+keySeparator+trimmedKey] = value
	}
	localeCatalog.Namespaces[namespace] = namespaceMessages
	return nil
}

func tagFor(locale string) (language.Tag, bool) {
	for _, supported := range supportedLocales {
		if supported.code == locale {
			return supported.tag, true
		}
	}
	return language.Und, false
}

// SupportedLocales returns every supported locale code, base locale first.
func SupportedLocales() []string {
	out := make([]string, len(supportedLocales))
	for i, locale := range supportedLocales {
		out[i] = locale.code
	}
	return out
}

// Match negotiates the best supported locale for the given preferences. Each
// preference may be a locale code or an Accept-Language header value. The base
// locale is returned when nothing matches.
func Match(preferences ...string) string {
	var desired []language.Tag
	for _, preference := range preferences {
		normalized := strings.ReplaceAll(strings.TrimSpace(preference), "_", "-")
		if normalized == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(normalized)
		if err != nil {
			continue
		}
		desired = append(desired, tags...)
	}
	if len(desired) == 0 {
		return BaseLocale
	}
	_, index, confidence := matcher.Match(desired...)
	if confidence == language.No {
		return BaseLocale
	}
	return supportedLocales[index].code
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all loaded locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// LocaleMessages returns a copy of the "namespace:key" messages of locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return map[string]string{}
	}
	return copyMap(catalog.Messages)
}

// Message returns one message template. There is no fallback to the base
// locale.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return "", false
	}
	value, exists := catalog.Messages[strings.TrimSpace(key)]
	return value, exists
}

// HasKey reports whether key is defined in the base locale.
func (b *Bundle) HasKey(key string) bool {
	_, ok := b.Message(BaseLocale, key)
	return ok
}

// Len returns the number of base locale keys.
func (b *Bundle) Len() int {
	return len(b.LocaleMessages(BaseLocale))
}

// Namespaces returns sorted namespace names for a locale.
func (b *Bundle) Namespaces(locale string) []string {
	if b == nil {
		return nil
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return nil
	}
	out := make([]string, 0, len(catalog.Namespaces))
	for namespace := range catalog.Namespaces {
		out = append(out, namespace)
	}
	sort.Strings(out)
	return out
}

// NamespaceMessages returns an exact namespace message map copy for a locale.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	if b == nil {
		return map[string]string{}
	}
	catalog, ok := b.locales[strings.TrimSpace(locale)]
	if !ok || catalog == nil {
		return map[string]string{}
	}
	messages, ok := catalog.Namespaces[strings.TrimSpace(namespace)]
	if !ok {
		return map[string]string{}
	}
	return copyMap(messages)
}

func copyMap(source map[string]string) map[string]string {
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}
