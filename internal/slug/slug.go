// Package slug derives short unique codes from human-readable names.
package slug

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	_maxLength = 24
	_separator = '-'
)

var _stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes name into an upper-case code: diacritics stripped, runs of
// non-alphanumerics collapsed to a single separator, separators trimmed from
// both ends, capped at the maximum length.
func Make(name string) string {
	stripped, _, err := transform.String(_stripMarks, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))

	pendingSep := false
	for _, r := range strings.ToUpper(stripped) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(_separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}

		pendingSep = true
	}

	code := b.String()
	if len(code) > _maxLength {
		code = strings.Trim(code[:_maxLength], string(_separator))
	}

	return code
}

// ExistsFunc reports whether a code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// ErrEmpty is returned when a name yields no code characters at all.
var ErrEmpty = errors.New("name has no usable code characters")

// Unique probes exists with the base code and, while taken, retries with an
// incrementing numeric suffix. Best effort only: the storage layer's unique
// constraint on the code column is the real guarantee under concurrency.
func Unique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := Make(name)
	if base == "" {
		return "", ErrEmpty
	}

	code := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}

		code = base + string(_separator) + strconv.Itoa(n)
	}
}
