// Package latex prepares record text for inclusion in LaTeX source.
package latex

import (
	"strings"
)

// Markup is text that already carries LaTeX commands. The sanitizer never
// escapes it.
type Markup string

var (
	escaper = strings.NewReplacer(
		`&`, `\&`,
		`%`, `\%`,
		`$`, `\$`,
		`#`, `\#`,
		`_`, `\_`,
		`{`, `\{`,
		`}`, `\}`,
		`~`, `\textasciitilde{}`,
		`^`, `\^{}`,
		`\`, `\textbackslash{}`,
	)

	// longer sequences first so \textbackslash{} is not read as \t + \{ ...
	unescaper = strings.NewReplacer(
		`\textbackslash{}`, `\`,
		`\textasciitilde{}`, `~`,
		`\^{}`, `^`,
		`\&`, `&`,
		`\%`, `%`,
		`\$`, `$`,
		`\#`, `#`,
		`\_`, `_`,
		`\{`, `{`,
		`\}`, `}`,
	)
)

// DefaultMarkupMarkers are substrings that mark a bullet as pre-formatted.
var DefaultMarkupMarkers = []string{`\textbf{`, `\textit{`, `\emph{`, `\underline{`, `\href{`, `\%`}

// DefaultBulletKeys name the record fields whose strings may carry markup.
var DefaultBulletKeys = []string{"bullets"}

// Escape maps every reserved character to its canonical LaTeX form in a
// single pass, so replacements are never escaped again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Normalize undoes canonical escapes that may already be present.
func Normalize(s string) string {
	return unescaper.Replace(s)
}

// EscapeText normalizes and then escapes s. EscapeText(EscapeText(s)) ==
// EscapeText(s).
func EscapeText(s string) string {
	return Escape(Normalize(s))
}

// Sanitizer escapes every string leaf of a record, except pre-formatted
// strings inside bullet fields.
type Sanitizer struct {
	markers    []string
	bulletKeys map[string]struct{}
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithMarkupMarkers replaces the substrings that identify pre-formatted
// bullets.
func WithMarkupMarkers(markers ...string) Option {
	return func(s *Sanitizer) {
		if len(markers) > 0 {
			s.markers = markers
		}
	}
}

// WithBulletKeys replaces the field names treated as bullet lists.
func WithBulletKeys(keys ...string) Option {
	return func(s *Sanitizer) {
		if len(keys) == 0 {
			return
		}
		s.bulletKeys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			s.bulletKeys[k] = struct{}{}
		}
	}
}

// NewSanitizer creates a Sanitizer with the default markers and bullet keys.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{}
	WithMarkupMarkers(DefaultMarkupMarkers...)(s)
	WithBulletKeys(DefaultBulletKeys...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsMarkup reports whether str contains a recognized markup sequence.
func (s *Sanitizer) IsMarkup(str string) bool {
	for _, m := range s.markers {
		if strings.Contains(str, m) {
			return true
		}
	}
	return false
}

// SanitizeRecord returns an escaped copy of record. The input is not
// modified.
func (s *Sanitizer) SanitizeRecord(record map[string]interface{}) map[string]interface{} {
	if record == nil {
		return nil
	}
	out, _ := s.walk(record, false).(map[string]interface{})
	return out
}

// Sanitize returns an escaped copy of any record value.
func (s *Sanitizer) Sanitize(v interface{}) interface{} {
	return s.walk(v, false)
}

func (s *Sanitizer) walk(v interface{}, inBullets bool) interface{} {
	switch t := v.(type) {
	case Markup:
		return t
	case string:
		if inBullets && s.IsMarkup(t) {
			return t
		}
		return EscapeText(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = s.walk(val, inBullets || s.isBulletKey(k))
		}
		return out
	case map[string]string:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = s.walk(val, inBullets || s.isBulletKey(k))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = s.walk(item, inBullets)
		}
		return out
	case []string:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = s.walk(item, inBullets)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = s.walk(item, inBullets)
		}
		return out
	}
	return v
}

func (s *Sanitizer) isBulletKey(k string) bool {
	_, ok := s.bulletKeys[k]
	return ok
}
