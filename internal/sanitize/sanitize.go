// Package sanitize scrubs untrusted free text before it is used in prompts,
// logs, or responses. The pipeline is ordered: each step assumes the earlier
// ones already ran, escaping happens before the pattern-blocking passes, and
// truncation is last so a replacement is never cut mid-marker.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

type Options struct {
	AllowHTML      bool
	MaxLength      int // 0 means no limit
	RemoveNewlines bool
}

const (
	blockedMarker     = "[BLOCKED]"
	blockedURLMarker  = "[BLOCKED_URL]"
	blockedPathMarker = "[BLOCKED_PATH]"
	apiKeyMarker      = "[API_KEY_REMOVED]"
)

var (
	// Control characters except tab, newline and carriage return. CR survives
	// here because the newline-normalization step handles it.
	controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)

	sqlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
		regexp.MustCompile(`(?i)\bselect\s+[\w*,\s]+\s+from\b`),
		regexp.MustCompile(`(?i)\binsert\s+into\b`),
		regexp.MustCompile(`(?i)\bdelete\s+from\b`),
		regexp.MustCompile(`(?i)\bdrop\s+(table|database|index)\b`),
		regexp.MustCompile(`(?i)\btruncate\s+table\b`),
		regexp.MustCompile(`(?i)\bupdate\s+\w+\s+set\b`),
		regexp.MustCompile(`(?i)\bexec(ute)?\s+xp_\w+`),
		regexp.MustCompile(`(?i)'\s*or\s*'?\d+'?\s*=\s*'?\d+`),
		regexp.MustCompile(`(?i);\s*--`),
	}

	shellPatterns = []*regexp.Regexp{
		regexp.MustCompile("`[^`]*`"),
		regexp.MustCompile(`\$\([^)]*\)`),
		regexp.MustCompile(`(?i)\brm\s+-[rf]+\b`),
		regexp.MustCompile(`(?i)\b(wget|curl)\s+https?://\S+`),
		regexp.MustCompile(`(?i)\b(chmod|chown)\s+\d+\b`),
		regexp.MustCompile(`(?i)\bsudo\s+\w+`),
		regexp.MustCompile(`(?i)\|\s*(sh|bash|zsh|nc|python\d?)\b`),
		regexp.MustCompile(`(?i)\b(cat|head|tail)\s+/etc/\S+`),
		regexp.MustCompile(`&&\s*(rm|mv|cp|kill)\b`),
	}

	jsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)javascript\s*:`),
		regexp.MustCompile(`(?i)\bon(load|error|click|mouse\w+|focus|blur|submit|change|key\w+)\s*=`),
		regexp.MustCompile(`(?i)\beval\s*\(`),
		regexp.MustCompile(`(?i)\bnew\s+Function\s*\(`),
		regexp.MustCompile(`(?i)\bdocument\.(cookie|write|location)`),
		regexp.MustCompile(`(?i)\bwindow\.(location|open)\b`),
		regexp.MustCompile(`(?i)\bset(timeout|interval)\s*\(`),
	}

	dangerousURLRe = regexp.MustCompile(`(?i)\b(data|vbscript):[^\s]+`)

	newlineNormRe   = regexp.MustCompile(`\r\n?`)
	anyNewlineRe    = regexp.MustCompile(`[\r\n]+`)
	multiSpaceRe    = regexp.MustCompile(` {3,}`)
	zeroWidthRe     = regexp.MustCompile("[\u200B\u200C\u200D\u2060\uFEFF\u00AD]")
	pathTraversalRe = regexp.MustCompile(`\.\.[/\\]`)

	bearerTokenRe = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`)
	secretKeyRe   = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}\b`)
	longTokenRe   = regexp.MustCompile(`[A-Za-z0-9_-]{40,}`)

	// Entities the escaper below emits. Normalizing them back first keeps the
	// whole pipeline stable under repeated application.
	entityNormalizer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&#34;", `"`,
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Sanitize runs the full scrubbing pipeline over input. It never fails; the
// worst case is an empty string.
func Sanitize(input string, opts Options) string {
	s := controlRe.ReplaceAllString(input, "")

	if !opts.AllowHTML {
		s = entityNormalizer.Replace(s)
		s = scriptBlockRe.ReplaceAllString(s, "")
		s = styleBlockRe.ReplaceAllString(s, "")
		s = tagRe.ReplaceAllString(s, "")
		s = html.EscapeString(s)
	}

	for _, re := range sqlPatterns {
		s = re.ReplaceAllString(s, blockedMarker)
	}
	for _, re := range shellPatterns {
		s = re.ReplaceAllString(s, blockedMarker)
	}
	for _, re := range jsPatterns {
		s = re.ReplaceAllString(s, blockedMarker)
	}
	s = dangerousURLRe.ReplaceAllString(s, blockedURLMarker)

	if opts.RemoveNewlines {
		s = anyNewlineRe.ReplaceAllString(s, " ")
	} else {
		s = newlineNormRe.ReplaceAllString(s, "\n")
	}

	s = multiSpaceRe.ReplaceAllString(s, "  ")
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = pathTraversalRe.ReplaceAllString(s, blockedPathMarker)

	s = bearerTokenRe.ReplaceAllString(s, apiKeyMarker)
	s = secretKeyRe.ReplaceAllString(s, apiKeyMarker)
	s = longTokenRe.ReplaceAllStringFunc(s, func(m string) string {
		return apiKeyMarker
	})

	s = strings.TrimSpace(s)
	if opts.MaxLength > 0 {
		runes := []rune(s)
		if len(runes) > opts.MaxLength {
			s = string(runes[:opts.MaxLength])
		}
	}
	return s
}

var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script\b`),
	regexp.MustCompile(`(?i)\bon(load|error|click|mouseover|focus|submit)\s*=`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\b(union\s+select|drop\s+table|insert\s+into|delete\s+from)\b`),
	regexp.MustCompile("[;|`]\\s*(rm|wget|curl|sh|bash)\\b"),
	regexp.MustCompile(`\$\([^)]*\)`),
	regexp.MustCompile(`\.\.[/\\]`),
}

// IsInputSafe is a read-only heuristic: it reports whether input looks free
// of the injection patterns the sanitizer targets. It is deliberately looser
// than Sanitize and never modifies the input.
func IsInputSafe(input string) bool {
	for _, re := range unsafePatterns {
		if re.MatchString(input) {
			return false
		}
	}
	return true
}
