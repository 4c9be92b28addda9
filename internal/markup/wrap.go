package markup

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultFlags replaces every match.
const DefaultFlags = "g"

// MatchTimeout bounds a single substitution. A pattern that runs longer fails open.
const MatchTimeout = 250 * time.Millisecond

// ErrInvalidFlags is returned for unknown or repeated flag letters.
var ErrInvalidFlags = errors.New("invalid pattern flags")

// Wrapper is the text placed around each match.
type Wrapper struct {
	Before string
	After  string
}

// Annotator applies wrappers and annotation specs, logging failures to its logger.
type Annotator struct {
	logger *slog.Logger
}

// NewAnnotator creates an Annotator. Pass nil logger for slog.Default().
func NewAnnotator(logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{logger: logger.With("component", "markup")}
}

// Wrap surrounds occurrences of pattern in text with w.Before and w.After.
//
// flags is a set of letters: g (all matches, otherwise only the first), i, m, s
// and u (accepted, no effect). An empty flags string means DefaultFlags; pass "u"
// alone to wrap only the first match. On any failure the original text is returned.
func (a *Annotator) Wrap(text, pattern string, w Wrapper, flags string) string {
	out, err := substitute(text, pattern, w, flags)
	if err != nil {
		a.logger.Warn("pattern substitution failed",
			"pattern", pattern,
			"flags", flags,
			"error", err)
		return text
	}
	return out
}

// Wrap is Annotator.Wrap using slog.Default().
func Wrap(text, pattern string, w Wrapper, flags string) string {
	return NewAnnotator(nil).Wrap(text, pattern, w, flags)
}

// Escape quotes every regular expression metacharacter in s.
func Escape(s string) string {
	return regexp2.Escape(s)
}

// CheckPattern reports whether pattern and flags would compile.
func CheckPattern(pattern, flags string) error {
	_, _, err := compile(pattern, flags)
	return err
}

// substitute is the failing core of Wrap. On error the returned text is the input.
func substitute(text, pattern string, w Wrapper, flags string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = text, fmt.Errorf("matcher panic: %v", r)
		}
	}()

	re, global, err := compile(pattern, flags)
	if err != nil {
		return text, err
	}

	count := 1
	if global {
		count = -1
	}
	out, err = re.ReplaceFunc(text, func(m regexp2.Match) string {
		return w.Before + m.String() + w.After
	}, -1, count)
	if err != nil {
		return text, fmt.Errorf("match %q: %w", pattern, err)
	}
	return out, nil
}

// compile builds the ECMAScript matcher for pattern. It reports whether the g flag was set.
func compile(pattern, flags string) (*regexp2.Regexp, bool, error) {
	if flags == "" {
		flags = DefaultFlags
	}

	global := false
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for i, f := range flags {
		if strings.ContainsRune(flags[:i], f) {
			return nil, false, fmt.Errorf("%w: duplicate %q in %q", ErrInvalidFlags, f, flags)
		}
		switch f {
		case 'g':
			global = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
		default:
			return nil, false, fmt.Errorf("%w: unsupported %q in %q", ErrInvalidFlags, f, flags)
		}
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, false, fmt.Errorf("compile %q: %w", pattern, err)
	}
	re.MatchTimeout = MatchTimeout
	return re, global, nil
}
