package minutes

import (
	"errors"

	"minutes-backend/internal/extract"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrEmptyTranscript marks an extraction that produced no text after stripping.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// IsAbsent reports whether err means no transcript could be obtained from the upload.
func IsAbsent(err error) bool {
	return errors.Is(err, extract.ErrUnsupported) || errors.Is(err, ErrEmptyTranscript)
}
