// Package prompt renders the instructions sent to the completion model:
// the personal analysis, the two-person compatibility reading and the HTML
// translation request.
package prompt

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var localesYAML []byte

// Headings are the eight analysis section titles.
type Headings struct {
	Intro      string `yaml:"intro"`
	Numerology string `yaml:"numerology"`
	Zodiac     string `yaml:"zodiac"`
	Moon       string `yaml:"moon"`
	Love       string `yaml:"love"`
	Career     string `yaml:"career"`
	Health     string `yaml:"health"`
	Destiny    string `yaml:"destiny"`
}

// CompatibilityHeadings are the four compatibility section titles.
type CompatibilityHeadings struct {
	Synergy    string `yaml:"synergy"`
	Numerology string `yaml:"numerology"`
	Zodiac     string `yaml:"zodiac"`
	Advice     string `yaml:"advice"`
}

// Locale is one row of the localization table.
type Locale struct {
	Code          string                `yaml:"-"`
	Name          string                `yaml:"name"`
	Headings      Headings              `yaml:"headings"`
	KeyInsight    string                `yaml:"keyInsight"`
	Compatibility CompatibilityHeadings `yaml:"compatibility"`
	Partners      [2]string             `yaml:"partners"`
}

// Catalog maps language codes to locales, with an explicit default entry
// used for every code it does not list.
type Catalog struct {
	defaultCode string
	locales     map[string]Locale
}

// LoadCatalog parses a localization table and checks that every entry is
// complete and that the default entry exists.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file struct {
		Default string            `yaml:"default"`
		Locales map[string]Locale `yaml:"locales"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locales: %w", err)
	}

	c := &Catalog{
		defaultCode: strings.ToLower(file.Default),
		locales:     make(map[string]Locale, len(file.Locales)),
	}
	for code, loc := range file.Locales {
		code = strings.ToLower(code)
		loc.Code = code
		if err := loc.validate(); err != nil {
			return nil, fmt.Errorf("locale %q: %w", code, err)
		}
		c.locales[code] = loc
	}

	if _, ok := c.locales[c.defaultCode]; !ok {
		return nil, fmt.Errorf("default locale %q is not defined", file.Default)
	}
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded localization table.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(localesYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// Resolve returns the locale for code. Region subtags and case are ignored
// ("uk-UA", "EN"); unknown or malformed codes get the default locale.
func (c *Catalog) Resolve(code string) Locale {
	if loc, ok := c.locales[baseLanguage(code)]; ok {
		return loc
	}
	return c.locales[c.defaultCode]
}

// Default returns the fallback locale.
func (c *Catalog) Default() Locale {
	return c.locales[c.defaultCode]
}

// Codes lists the supported language codes in sorted order.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.locales))
	for code := range c.locales {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func baseLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

func (l Locale) validate() error {
	if l.Name == "" {
		return fmt.Errorf("name is required")
	}
	h := l.Headings
	for key, v := range map[string]string{
		"intro": h.Intro, "numerology": h.Numerology, "zodiac": h.Zodiac, "moon": h.Moon,
		"love": h.Love, "career": h.Career, "health": h.Health, "destiny": h.Destiny,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("heading %s is required", key)
		}
	}
	ch := l.Compatibility
	for key, v := range map[string]string{
		"synergy": ch.Synergy, "numerology": ch.Numerology, "zodiac": ch.Zodiac, "advice": ch.Advice,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("compatibility heading %s is required", key)
		}
	}
	if l.KeyInsight == "" {
		return fmt.Errorf("keyInsight is required")
	}
	if l.Partners[0] == "" || l.Partners[1] == "" {
		return fmt.Errorf("two partner labels are required")
	}
	return nil
}
