package minutes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillPlacesTranscriptUnderDiscussionSummary(t *testing.T) {
	got, err := Fill("We discussed Q3 budget.")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(got, "\nMinutes of Meeting (MoM)\n========================\n"))
	require.True(t, strings.HasSuffix(got, "Prepared By: __________\nApproved By: __________\n"))
	require.Contains(t, got, "Discussion Summary:\n-------------------\nWe discussed Q3 budget.\n\nKey Decisions:\n")
	require.Contains(t, got, "| Example     | John Doe           | DD/MM/YY |\n")
	require.Equal(t, 1, strings.Count(got, "We discussed Q3 budget."))
}

func TestFillStripsSurroundingWhitespace(t *testing.T) {
	got, err := Fill("\n\t  Budget approved.\nNext review Friday.  \n\n")
	require.NoError(t, err)
	require.Contains(t, got, "-------------------\nBudget approved.\nNext review Friday.\n\nKey Decisions:")
}

func TestFillIsDeterministicAndOnlySummaryVaries(t *testing.T) {
	a, err := Fill("alpha transcript")
	require.NoError(t, err)
	again, err := Fill("alpha transcript")
	require.NoError(t, err)
	require.Equal(t, a, again)

	b, err := Fill("bravo <b>&</b> 50% {done}")
	require.NoError(t, err)
	require.Equal(t,
		strings.Replace(a, "alpha transcript", "", 1),
		strings.Replace(b, "bravo <b>&</b> 50% {done}", "", 1),
	)
}

func TestFillRejectsEmptyTranscript(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		_, err := Fill(in)
		require.ErrorIs(t, err, ErrEmptyTranscript)
		require.True(t, IsAbsent(err))
	}
}
