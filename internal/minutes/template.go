package minutes

import "strings"

const templateHead = `
Minutes of Meeting (MoM)
========================

Date: __________
Meeting Title: __________
Participants: __________

Agenda:
-------
- [List agenda items here]

Discussion Summary:
-------------------
`

const templateTail = `

Key Decisions:
--------------
- Decision 1
- Decision 2

Action Items:
-------------
| Action Item | Responsible Person | Due Date |
|-------------|-------------------|----------|
| Example     | John Doe           | DD/MM/YY |

Next Steps:
-----------
- Step 1
- Step 2

Meeting Closed at: __________

Prepared By: __________
Approved By: __________
`

// Fill places the stripped transcript under "Discussion Summary" of the fixed
// Minutes of Meeting template. Every other section is a static placeholder.
func Fill(transcript string) (string, error) {
	body := strings.TrimSpace(transcript)
	if body == "" {
		return "", ErrEmptyTranscript
	}
	var b strings.Builder
	b.Grow(len(templateHead) + len(body) + len(templateTail))
	b.WriteString(templateHead)
	b.WriteString(body)
	b.WriteString(templateTail)
	return b.String(), nil
}
