package reading

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/foreteller/foreteller/internal/logger"
	"github.com/foreteller/foreteller/prompt"
	"github.com/foreteller/foreteller/reportlog"
)

// fakeCompleter records prompts and returns a canned reply.
type fakeCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	return f.reply, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type failingStore struct{}

func (failingStore) Record(context.Context, *reportlog.Entry) error {
	return errors.New("disk full")
}

func (failingStore) Recent(context.Context, int) ([]*reportlog.Entry, error) {
	return nil, nil
}

func newTestService(t *testing.T, c *fakeCompleter, store reportlog.Store) *Service {
	t.Helper()
	opts := Options{Reports: store, Mode: prompt.Detailed}
	if c != nil {
		opts.Completer = c
	}
	svc, err := NewDefaultService(opts)
	if err != nil {
		t.Fatalf("NewDefaultService() failed: %v", err)
	}
	return svc
}

func TestAnalyzeRequiresDate(t *testing.T) {
	c := &fakeCompleter{reply: "ok"}
	store := reportlog.NewInMemoryStore(10)
	svc := newTestService(t, c, store)

	for _, date := range []string{"", "   "} {
		_, err := svc.Analyze(context.Background(), BirthInput{Date: date, Language: "en"})
		if !errors.Is(err, ErrDateRequired) {
			t.Errorf("Analyze(date=%q) error = %v, want ErrDateRequired", date, err)
		}
	}

	if c.calls() != 0 {
		t.Errorf("completer was called %d times for an invalid request", c.calls())
	}
	if store.Len() != 0 {
		t.Error("rejected requests should not be recorded")
	}
}

func TestAnalyzeWithoutCompleter(t *testing.T) {
	store := reportlog.NewInMemoryStore(10)
	svc := newTestService(t, nil, store)

	res, err := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15"})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if res.AIAnalysis != nil {
		t.Errorf("AIAnalysis = %q, want nil", *res.AIAnalysis)
	}
	if res.Zodiac != "Taurus" || res.ChineseZodiac != "Horse" {
		t.Errorf("facts = %s/%s, want Taurus/Horse", res.Zodiac, res.ChineseZodiac)
	}
	if res.Pythagoras.Meta.FirstNum != 30 {
		t.Errorf("firstNum = %d, want 30", res.Pythagoras.Meta.FirstNum)
	}
	if res.Input.Language != "uk" || res.Input.Gender != "male" {
		t.Errorf("defaults not applied: %+v", res.Input)
	}

	entries, _ := store.Recent(context.Background(), 1)
	if len(entries) != 1 || entries[0].AIStatus != reportlog.AISkipped || entries[0].Kind != reportlog.KindAnalyze {
		t.Errorf("unexpected report entry: %+v", entries)
	}
}

func TestAnalyzeNormalizesCompletion(t *testing.T) {
	c := &fakeCompleter{reply: "### Title\n**Bold** text"}
	svc := newTestService(t, c, nil)

	res, err := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15", Language: "en", Gender: "female"})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if res.AIAnalysis == nil || *res.AIAnalysis != "<h3>Title</h3>\n<strong>Bold</strong> text" {
		t.Errorf("AIAnalysis = %v", res.AIAnalysis)
	}
	if c.calls() != 1 {
		t.Fatalf("expected exactly one completion call, got %d", c.calls())
	}

	p := c.prompts[0]
	for _, want := range []string{"female born on 1990-05-15", "Language: English.", "WESTERN ZODIAC SIGN: Taurus"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}

func TestAnalyzeInlinesCompletionError(t *testing.T) {
	c := &fakeCompleter{err: errors.New("request failed with status code 401")}
	store := reportlog.NewInMemoryStore(10)
	svc := newTestService(t, c, store)

	before := logger.Snapshot()
	res, err := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15"})
	if err != nil {
		t.Fatalf("a completion failure must not fail the request: %v", err)
	}
	after := logger.Snapshot()

	if got := after.CompletionFailures - before.CompletionFailures; got != 1 {
		t.Errorf("completionFailures delta = %d, want 1", got)
	}
	if got := after.Errors - before.Errors; got != 1 {
		t.Errorf("errors delta = %d, want 1", got)
	}
	if got := after.Warnings - before.Warnings; got != 0 {
		t.Errorf("warnings delta = %d, want 0", got)
	}

	want := "AI Error: request failed with status code 401. Please check API credentials."
	if res.AIAnalysis == nil || *res.AIAnalysis != want {
		t.Errorf("AIAnalysis = %v, want %q", res.AIAnalysis, want)
	}
	if res.Zodiac != "Taurus" {
		t.Error("facts should still be returned")
	}
	if c.calls() != 1 {
		t.Errorf("expected a single attempt, got %d", c.calls())
	}

	entries, _ := store.Recent(context.Background(), 1)
	if entries[0].AIStatus != reportlog.AIFailed {
		t.Errorf("AIStatus = %q, want failed", entries[0].AIStatus)
	}
}

func TestAnalyzeLanguageAndGender(t *testing.T) {
	testCases := []struct {
		language   string
		gender     string
		wantLang   string
		wantGender string
		wantName   string
	}{
		{"", "", "uk", "male", "Ukrainian"},
		{"en", "FEMALE", "en", "female", "English"},
		{"de-AT", "male", "de", "male", "German"},
		{"it", "other", "ru", "male", "Russian"},
	}

	for _, tc := range testCases {
		t.Run(tc.language+"/"+tc.gender, func(t *testing.T) {
			c := &fakeCompleter{reply: "<p>x</p>"}
			svc := newTestService(t, c, nil)

			res, err := svc.Analyze(context.Background(), BirthInput{Date: "1985-12-01", Language: tc.language, Gender: tc.gender})
			if err != nil {
				t.Fatalf("Analyze() failed: %v", err)
			}
			if res.Input.Language != tc.wantLang {
				t.Errorf("language = %q, want %q", res.Input.Language, tc.wantLang)
			}
			if res.Input.Gender != tc.wantGender {
				t.Errorf("gender = %q, want %q", res.Input.Gender, tc.wantGender)
			}
			if !strings.Contains(c.prompts[0], "Language: "+tc.wantName+".") {
				t.Errorf("prompt should target %s", tc.wantName)
			}
		})
	}
}

func TestAnalyzeModeSelection(t *testing.T) {
	c := &fakeCompleter{reply: "<p>x</p>"}
	svc := newTestService(t, c, nil)

	svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15", Language: "en", Mode: "concise"})
	svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15", Language: "en", Mode: "unknown"})

	if !strings.Contains(c.prompts[0], "500-700 words") {
		t.Error("concise request should render the concise prompt")
	}
	if !strings.Contains(c.prompts[1], "800-1200 words") {
		t.Error("unknown mode should fall back to the service default")
	}
}

func TestAnalyzeDegradedDate(t *testing.T) {
	svc := newTestService(t, nil, nil)

	res, err := svc.Analyze(context.Background(), BirthInput{Date: "not-a-date"})
	if err != nil {
		t.Fatalf("unparseable dates degrade instead of failing: %v", err)
	}
	if !res.Degraded() {
		t.Error("result should be marked degraded")
	}
	if res.Zodiac != "Unknown" || res.Pythagoras.Square.Total() != 0 {
		t.Errorf("unexpected degraded facts: %+v", res.Derived)
	}
}

func TestAnalyzeReportLogFailureIsIgnored(t *testing.T) {
	svc := newTestService(t, nil, failingStore{})

	if _, err := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15"}); err != nil {
		t.Errorf("a report log failure must not fail the request: %v", err)
	}
}

func TestAnalysisResultJSON(t *testing.T) {
	svc := newTestService(t, nil, nil)
	res, _ := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15", Time: "10:00", Place: "Lviv"})

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	for _, key := range []string{"zodiac", "chineseZodiac", "pythagoras", "moon", "aiAnalysis", "input"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if decoded["aiAnalysis"] != nil {
		t.Error("aiAnalysis should be null")
	}
	input := decoded["input"].(map[string]any)
	if input["place"] != "Lviv" || input["language"] != "uk" {
		t.Errorf("unexpected input echo: %v", input)
	}
	if _, ok := decoded["Outcomes"]; ok {
		t.Error("outcomes should not be serialized")
	}
}

func TestCompatibility(t *testing.T) {
	c := &fakeCompleter{reply: "**Great** match"}
	store := reportlog.NewInMemoryStore(10)
	svc := newTestService(t, c, store)

	res, err := svc.Compatibility(context.Background(), CompatibilityInput{
		Partner1: BirthInput{Date: "1990-05-15", Language: "en"},
		Partner2: BirthInput{Date: "1990-03-05", Gender: "female"},
	})
	if err != nil {
		t.Fatalf("Compatibility() failed: %v", err)
	}

	if c.calls() != 1 {
		t.Errorf("expected one combined completion call, got %d", c.calls())
	}
	if res.Language != "en" {
		t.Errorf("language = %q, want partner1's en", res.Language)
	}
	if res.Partner1.Zodiac != "Taurus" || res.Partner2.Zodiac != "Pisces" {
		t.Errorf("zodiacs = %s/%s", res.Partner1.Zodiac, res.Partner2.Zodiac)
	}
	if res.AICompatibility == nil || *res.AICompatibility != "<strong>Great</strong> match" {
		t.Errorf("AICompatibility = %v", res.AICompatibility)
	}
	if !strings.Contains(c.prompts[0], "<caption>Partner 2</caption>") {
		t.Error("prompt should carry both grids")
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	for _, key := range []string{"p1", "p2", "aiCompatibility", "language"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if p2, ok := decoded["p2"].(map[string]any); !ok || p2["pythagoras"] == nil {
		t.Errorf("p2 should carry the partner's facts: %v", decoded["p2"])
	}

	entries, _ := store.Recent(context.Background(), 1)
	if entries[0].Kind != reportlog.KindCompatibility || entries[0].Zodiac != "Taurus + Pisces" {
		t.Errorf("unexpected report entry: %+v", entries[0])
	}
}

func TestCompatibilityRequiresBothDates(t *testing.T) {
	c := &fakeCompleter{reply: "x"}
	svc := newTestService(t, c, nil)

	for _, in := range []CompatibilityInput{
		{Partner1: BirthInput{Date: "1990-05-15"}},
		{Partner2: BirthInput{Date: "1990-05-15"}},
	} {
		if _, err := svc.Compatibility(context.Background(), in); !errors.Is(err, ErrPartnerDateRequired) {
			t.Errorf("Compatibility() error = %v, want ErrPartnerDateRequired", err)
		}
	}
	if c.calls() != 0 {
		t.Error("completer should not be called")
	}
}

func TestCompatibilityInlinesError(t *testing.T) {
	c := &fakeCompleter{err: errors.New("timeout")}
	svc := newTestService(t, c, nil)

	res, err := svc.Compatibility(context.Background(), CompatibilityInput{
		Partner1: BirthInput{Date: "1990-05-15"},
		Partner2: BirthInput{Date: "1990-03-05"},
		Language: "fr",
	})
	if err != nil {
		t.Fatalf("Compatibility() failed: %v", err)
	}
	if res.AICompatibility == nil || !strings.HasPrefix(*res.AICompatibility, "AI Error: timeout.") {
		t.Errorf("AICompatibility = %v", res.AICompatibility)
	}
	if res.Language != "fr" {
		t.Errorf("top-level language should win, got %q", res.Language)
	}
}

func TestTranslate(t *testing.T) {
	c := &fakeCompleter{reply: "<p>**Hallo**</p>"}
	store := reportlog.NewInMemoryStore(10)
	svc := newTestService(t, c, store)

	res, err := svc.Translate(context.Background(), "<p>Hello</p>", "de")
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	if res.TranslatedText != "<p><strong>Hallo</strong></p>" || res.Language != "de" {
		t.Errorf("Translate() = %+v", res)
	}
	if !strings.Contains(c.prompts[0], "<p>Hello</p>") {
		t.Error("prompt should carry the html")
	}

	entries, _ := store.Recent(context.Background(), 1)
	if entries[0].Kind != reportlog.KindTranslate || entries[0].AIStatus != reportlog.AIOK {
		t.Errorf("unexpected report entry: %+v", entries[0])
	}
}

func TestTranslateErrors(t *testing.T) {
	ctx := context.Background()

	withCompleter := newTestService(t, &fakeCompleter{reply: "x"}, nil)
	if _, err := withCompleter.Translate(ctx, "  ", "en"); !errors.Is(err, ErrTextRequired) {
		t.Errorf("empty text error = %v, want ErrTextRequired", err)
	}

	without := newTestService(t, nil, nil)
	if _, err := without.Translate(ctx, "<p>x</p>", "en"); !errors.Is(err, ErrCompletionUnavailable) {
		t.Errorf("no completer error = %v, want ErrCompletionUnavailable", err)
	}

	cause := errors.New("connection refused")
	failing := newTestService(t, &fakeCompleter{err: cause}, nil)
	_, err := failing.Translate(ctx, "<p>x</p>", "en")
	if !errors.Is(err, ErrCompletionFailed) || !errors.Is(err, cause) {
		t.Errorf("failure error = %v, want ErrCompletionFailed wrapping the cause", err)
	}
}

func TestConcurrentAnalyze(t *testing.T) {
	c := &fakeCompleter{reply: "<p>x</p>"}
	store := reportlog.NewInMemoryStore(100)
	svc := newTestService(t, c, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Analyze(context.Background(), BirthInput{Date: "1990-05-15"}); err != nil {
				t.Errorf("Analyze() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if c.calls() != 20 || store.Len() != 20 {
		t.Errorf("calls = %d, entries = %d, want 20/20", c.calls(), store.Len())
	}
}
