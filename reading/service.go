// Package reading orchestrates a request: it validates input, derives the
// facts, renders the prompt, calls the completion service and records a
// redacted log entry.
package reading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foreteller/foreteller/completion"
	"github.com/foreteller/foreteller/facts"
	"github.com/foreteller/foreteller/insights"
	"github.com/foreteller/foreteller/internal/logger"
	"github.com/foreteller/foreteller/normalize"
	"github.com/foreteller/foreteller/prompt"
	"github.com/foreteller/foreteller/reportlog"
)

var (
	ErrDateRequired          = errors.New("date is required")
	ErrPartnerDateRequired   = errors.New("both partners need a date")
	ErrTextRequired          = errors.New("text is required")
	ErrCompletionUnavailable = errors.New("completion service is not configured")
	ErrCompletionFailed      = errors.New("completion request failed")
)

// Options configures a Service. Completer and Reports may be nil.
type Options struct {
	Completer completion.Completer
	Reports   reportlog.Store
	Mode      prompt.Mode
}

// Service is safe for concurrent use.
type Service struct {
	builder   *prompt.Builder
	engine    *insights.Engine
	completer completion.Completer
	reports   reportlog.Store
	mode      prompt.Mode
}

// NewService wires a service from its parts.
func NewService(builder *prompt.Builder, engine *insights.Engine, opts Options) *Service {
	mode := opts.Mode
	if mode == "" {
		mode = prompt.Detailed
	}
	return &Service{
		builder:   builder,
		engine:    engine,
		completer: opts.Completer,
		reports:   opts.Reports,
		mode:      mode,
	}
}

// NewDefaultService uses the embedded localization table and rule set.
func NewDefaultService(opts Options) (*Service, error) {
	builder, err := prompt.NewDefaultBuilder()
	if err != nil {
		return nil, err
	}
	engine, err := insights.NewDefaultEngine()
	if err != nil {
		return nil, err
	}
	return NewService(builder, engine, opts), nil
}

// CompletionConfigured reports whether narrative generation is available.
func (s *Service) CompletionConfigured() bool {
	return s.completer != nil
}

// Analyze computes the facts for one person and, when a completer is
// configured, the narrative report. A completion failure is reported inside
// AIAnalysis and does not fail the call.
func (s *Service) Analyze(ctx context.Context, in BirthInput) (*AnalysisResult, error) {
	if strings.TrimSpace(in.Date) == "" {
		return nil, ErrDateRequired
	}
	start := time.Now()

	locale := s.builder.Catalog().Resolve(firstNonEmpty(in.Language, defaultLanguage))
	mode := s.resolveMode(in.Mode)
	profile := s.profile(in, locale.Code)

	result := &AnalysisResult{Profile: profile}
	entry := &reportlog.Entry{
		Kind:          reportlog.KindAnalyze,
		Language:      locale.Code,
		Mode:          mode.String(),
		Zodiac:        profile.Zodiac,
		ChineseZodiac: profile.ChineseZodiac,
		MoonPhase:     profile.Moon.Name,
		Degraded:      profile.Degraded(),
		AIStatus:      reportlog.AISkipped,
	}

	if profile.Degraded() {
		logger.Debug("facts degraded", "zodiac", profile.Outcomes.Zodiac.String(),
			"chineseZodiac", profile.Outcomes.ChineseZodiac.String(),
			"pythagoras", profile.Outcomes.Pythagoras.String(),
			"moon", profile.Outcomes.Moon.String())
	}

	if s.completer != nil {
		text, err := s.builder.BuildAnalysis(prompt.AnalysisRequest{
			Subject: subjectOf(profile.Input),
			Facts:   profile.Derived,
			Hints:   s.hints(profile.Derived),
			Locale:  locale,
			Mode:    mode,
		})
		if err != nil {
			return nil, fmt.Errorf("build analysis prompt: %w", err)
		}
		result.AIAnalysis, entry.AIStatus = s.complete(ctx, "analyze", text)
	}

	entry.DurationMs = time.Since(start).Milliseconds()
	s.record(ctx, entry)
	return result, nil
}

// Compatibility reads two people together with a single completion call.
func (s *Service) Compatibility(ctx context.Context, in CompatibilityInput) (*CompatibilityResult, error) {
	if strings.TrimSpace(in.Partner1.Date) == "" || strings.TrimSpace(in.Partner2.Date) == "" {
		return nil, ErrPartnerDateRequired
	}
	start := time.Now()

	locale := s.builder.Catalog().Resolve(firstNonEmpty(in.Language, in.Partner1.Language, defaultLanguage))
	mode := s.resolveMode(firstNonEmpty(in.Mode, in.Partner1.Mode))

	p1 := s.profile(in.Partner1, locale.Code)
	p2 := s.profile(in.Partner2, locale.Code)

	result := &CompatibilityResult{Partner1: p1, Partner2: p2, Language: locale.Code}
	entry := &reportlog.Entry{
		Kind:          reportlog.KindCompatibility,
		Language:      locale.Code,
		Mode:          mode.String(),
		Zodiac:        p1.Zodiac + " + " + p2.Zodiac,
		ChineseZodiac: p1.ChineseZodiac + " + " + p2.ChineseZodiac,
		MoonPhase:     p1.Moon.Name + " + " + p2.Moon.Name,
		Degraded:      p1.Degraded() || p2.Degraded(),
		AIStatus:      reportlog.AISkipped,
	}

	if s.completer != nil {
		text, err := s.builder.BuildCompatibility(prompt.CompatibilityRequest{
			Partners: [2]prompt.Partner{
				{Subject: subjectOf(p1.Input), Facts: p1.Derived},
				{Subject: subjectOf(p2.Input), Facts: p2.Derived},
			},
			Locale: locale,
			Mode:   mode,
		})
		if err != nil {
			return nil, fmt.Errorf("build compatibility prompt: %w", err)
		}
		result.AICompatibility, entry.AIStatus = s.complete(ctx, "compatibility", text)
	}

	entry.DurationMs = time.Since(start).Milliseconds()
	s.record(ctx, entry)
	return result, nil
}

// Translate asks the completion service to translate html into
// targetLang. Unlike Analyze, a completion failure is returned as an error
// wrapping ErrCompletionFailed.
func (s *Service) Translate(ctx context.Context, html, targetLang string) (*TranslationResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrTextRequired
	}
	if s.completer == nil {
		return nil, ErrCompletionUnavailable
	}
	start := time.Now()

	locale := s.builder.Catalog().Resolve(firstNonEmpty(targetLang, defaultLanguage))
	entry := &reportlog.Entry{
		Kind:     reportlog.KindTranslate,
		Language: locale.Code,
		Mode:     s.mode.String(),
		AIStatus: reportlog.AIOK,
	}

	text, err := s.builder.BuildTranslation(html, locale)
	if err != nil {
		return nil, fmt.Errorf("build translation prompt: %w", err)
	}

	out, err := s.completer.Complete(ctx, text)
	entry.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		logger.Error("translation failed", "language", locale.Code, "error", err)
		entry.AIStatus = reportlog.AIFailed
		s.record(ctx, entry)
		return nil, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	s.record(ctx, entry)
	return &TranslationResult{TranslatedText: normalize.Clean(out), Language: locale.Code}, nil
}

func (s *Service) profile(in BirthInput, language string) Profile {
	date := strings.TrimSpace(in.Date)
	clock := strings.TrimSpace(in.Time)
	return Profile{
		Derived: facts.Derive(date, clock),
		Input: EchoedInput{
			Date:     date,
			Time:     clock,
			Place:    strings.TrimSpace(in.Place),
			Gender:   normalizeGender(in.Gender),
			Language: language,
		},
	}
}

// resolveMode falls back to the service default for empty or unknown
// values.
func (s *Service) resolveMode(raw string) prompt.Mode {
	if strings.TrimSpace(raw) == "" {
		return s.mode
	}
	mode, err := prompt.ParseMode(raw)
	if err != nil {
		logger.Debug("ignoring unknown report mode", "mode", raw)
		return s.mode
	}
	return mode
}

func (s *Service) hints(d facts.Derived) []string {
	if s.engine == nil {
		return nil
	}
	hints, err := s.engine.Hints(d)
	if err != nil {
		logger.Warn("insight evaluation failed", "error", err)
		return nil
	}
	return hints
}

// complete makes the single completion attempt for the analysis paths and
// turns a failure into the inline error text.
func (s *Service) complete(ctx context.Context, op, text string) (*string, reportlog.AIStatus) {
	out, err := s.completer.Complete(ctx, text)
	if err != nil {
		logger.WarnCompletion()
		logger.Error("AI API error", "op", op, "error", err)
		msg := fmt.Sprintf("AI Error: %s. Please check API credentials.", err.Error())
		return &msg, reportlog.AIFailed
	}
	cleaned := normalize.Clean(out)
	return &cleaned, reportlog.AIOK
}

func (s *Service) record(ctx context.Context, e *reportlog.Entry) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Record(context.WithoutCancel(ctx), e); err != nil {
		logger.WarnReportLog()
		logger.Warn("failed to record report entry", "kind", string(e.Kind), "error", err)
	}
}

func subjectOf(in EchoedInput) prompt.Subject {
	return prompt.Subject{
		Date:   in.Date,
		Time:   in.Time,
		Place:  in.Place,
		Gender: in.Gender,
	}
}
