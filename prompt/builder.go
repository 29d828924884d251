package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/foreteller/foreteller/astro"
	"github.com/foreteller/foreteller/facts"
	"github.com/foreteller/foreteller/numerology"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	unknownTime  = "unknown time"
	unknownPlace = "unknown place"
)

// Subject is the personal metadata embedded in a prompt. Gender is
// expected to be already normalized to "male" or "female".
type Subject struct {
	Date   string
	Time   string
	Place  string
	Gender string
}

// AnalysisRequest carries everything a personal report prompt needs.
type AnalysisRequest struct {
	Subject Subject
	Facts   facts.Derived
	Hints   []string
	Locale  Locale
	Mode    Mode
}

// Partner is one side of a compatibility reading.
type Partner struct {
	Subject Subject
	Facts   facts.Derived
}

// CompatibilityRequest carries both partners of a compatibility prompt.
type CompatibilityRequest struct {
	Partners [2]Partner
	Locale   Locale
	Mode     Mode
}

// Builder renders prompts from the embedded templates. It holds no
// mutable state and is safe for concurrent use.
type Builder struct {
	catalog   *Catalog
	templates *template.Template
}

// NewBuilder parses the embedded templates.
func NewBuilder(catalog *Catalog) (*Builder, error) {
	tmpl, err := template.New("prompt").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return &Builder{catalog: catalog, templates: tmpl}, nil
}

// NewDefaultBuilder is NewBuilder over the embedded localization table.
func NewDefaultBuilder() (*Builder, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewBuilder(catalog)
}

// Catalog returns the localization table the builder was created with.
func (b *Builder) Catalog() *Catalog { return b.catalog }

type analysisView struct {
	subjectView
	Digits   []DigitReading
	Hints    []string
	Meta     numerology.WorkingNumbers
	Locale   Locale
	Concise  bool
	WordBand string
}

type subjectView struct {
	Gender string
	Date   string
	Time   string
	Place  string
	Zodiac string
	Animal string
	Moon   astro.Phase
}

type partnerView struct {
	subjectView
	Label  string
	Digits []DigitReading
	Rows   [3][3]string
}

type compatibilityView struct {
	Partners [2]partnerView
	Locale   Locale
	Concise  bool
	WordBand string
}

type translationView struct {
	Text   string
	Locale Locale
}

// BuildAnalysis renders the personal report prompt.
func (b *Builder) BuildAnalysis(req AnalysisRequest) (string, error) {
	view := analysisView{
		subjectView: newSubjectView(req.Subject, req.Facts),
		Digits:      ReadDigits(req.Facts.Pythagoras.Square),
		Hints:       req.Hints,
		Meta:        req.Facts.Pythagoras.Meta,
		Locale:      req.Locale,
		Concise:     req.Mode == Concise,
		WordBand:    req.Mode.WordBand(),
	}
	return b.render("analysis.tmpl", view)
}

// BuildCompatibility renders the two-person prompt, including both grids
// as HTML tables for the model to reproduce.
func (b *Builder) BuildCompatibility(req CompatibilityRequest) (string, error) {
	view := compatibilityView{
		Locale:   req.Locale,
		Concise:  req.Mode == Concise,
		WordBand: req.Mode.WordBand(),
	}
	for i, p := range req.Partners {
		view.Partners[i] = partnerView{
			subjectView: newSubjectView(p.Subject, p.Facts),
			Label:       req.Locale.Partners[i],
			Digits:      ReadDigits(p.Facts.Pythagoras.Square),
			Rows:        gridRows(p.Facts.Pythagoras.Square),
		}
	}
	return b.render("compatibility.tmpl", view)
}

// BuildTranslation renders a request to translate html into the locale's
// language with every tag kept verbatim.
func (b *Builder) BuildTranslation(html string, loc Locale) (string, error) {
	return b.render("translate.tmpl", translationView{Text: html, Locale: loc})
}

func (b *Builder) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func newSubjectView(s Subject, d facts.Derived) subjectView {
	v := subjectView{
		Gender: s.Gender,
		Date:   s.Date,
		Time:   s.Time,
		Place:  s.Place,
		Zodiac: d.Zodiac,
		Animal: d.ChineseZodiac,
		Moon:   d.Moon,
	}
	if strings.TrimSpace(v.Time) == "" {
		v.Time = unknownTime
	}
	if strings.TrimSpace(v.Place) == "" {
		v.Place = unknownPlace
	}
	return v
}

func gridRows(sq numerology.Square) [3][3]string {
	var rows [3][3]string
	for r, row := range numerology.Layout {
		for c, digit := range row {
			rows[r][c] = sq.Cell(digit)
		}
	}
	return rows
}
