// Package normalize cleans markdown artifacts out of model output so it can
// be rendered as an HTML fragment.
package normalize

import "regexp"

type rewrite struct {
	re   *regexp.Regexp
	with string
}

// Order matters: emphasis must be converted before stray "**" is stripped.
var rewrites = []rewrite{
	{regexp.MustCompile(`\*\*([^*\n]+?)\*\*`), "<strong>$1</strong>"},
	{regexp.MustCompile(`\*([^*\n]+)\*`), "<em>$1</em>"},
	{regexp.MustCompile(`(?m)^### (.*)$`), "<h3>$1</h3>"},
	{regexp.MustCompile(`(?m)^## (.*)$`), "<h2>$1</h2>"},
	{regexp.MustCompile(`(?m)^# (.*)$`), "<h1>$1</h1>"},
	{regexp.MustCompile(`\*\*`), ""},
	{regexp.MustCompile(`(?m)^- `), "• "},
	{regexp.MustCompile(`\{\s*"1"\s*:[^}]*\}`), ""},
	{regexp.MustCompile(`\[\s*"1"\s*:[^\]]*\]`), ""},
}

// Clean applies the rewrite sequence to s. Empty input is returned as is.
func Clean(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rewrites {
		s = r.re.ReplaceAllString(s, r.with)
	}
	return s
}
