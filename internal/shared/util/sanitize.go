package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxStemRunes = 64

// ErrEmptyStem is returned when nothing usable is left of a file name.
var ErrEmptyStem = errors.New("file name has no usable characters")

// FileStem reduces an uploaded file name to a single safe path segment: the
// last path element without its extension, with anything other than letters,
// digits, '-', '_' and '.' turned into '_'. Runs of '_' collapse and the result
// is capped at 64 runes.
func FileStem(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	var b strings.Builder
	n := 0
	lastUnderscore := false
	for _, r := range name {
		if n == maxStemRunes {
			break
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '_') {
			r = '_'
		}
		if r == '_' && lastUnderscore {
			continue
		}
		lastUnderscore = r == '_'
		b.WriteRune(r)
		n++
	}

	stem := strings.Trim(b.String(), "._")
	if stem == "" {
		return "", ErrEmptyStem
	}
	return stem, nil
}
