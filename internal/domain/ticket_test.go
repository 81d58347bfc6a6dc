package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGrade(t *testing.T) {
	cases := map[string]TicketGrade{
		"LOW":     TicketGradeLow,
		"MIDDLE":  TicketGradeMiddle,
		"HIGH":    TicketGradeHigh,
		"URGENT":  TicketGradeUrgent,
		"S":       TicketGradeUrgent,
		"A":       TicketGradeUrgent,
		"High":    TicketGradeUrgent,
		"긴급":      TicketGradeUrgent,
		"Normal":  TicketGradeMiddle,
		"Low":     TicketGradeMiddle,
		"보통":      TicketGradeMiddle,
		"":        TicketGradeMiddle,
		"someday": TicketGradeMiddle,
	}
	for raw, want := range cases {
		got := NormalizeGrade(raw)
		assert.Equal(t, want, got, "raw=%q", raw)
		assert.Equal(t, got, NormalizeGrade(string(got)), "normalization must be idempotent for %q", raw)
	}
}

func TestTicketGradeValid(t *testing.T) {
	assert.True(t, TicketGradeHigh.Valid())
	assert.False(t, TicketGrade("").Valid())
	assert.False(t, TicketGrade("High").Valid())
}

func TestNormalizeDeadline(t *testing.T) {
	assert.Equal(t, Deadline("2025-12-31"), NormalizeDeadline("2025-12-31"))
	assert.Equal(t, Deadline("2025-12-31"), NormalizeDeadline(" 2025-12-31 "))
	assert.Equal(t, Deadline(""), NormalizeDeadline("2025-13-01"))
	assert.Equal(t, Deadline(""), NormalizeDeadline("2025-02-30"))
	assert.Equal(t, Deadline(""), NormalizeDeadline("2025-1-5"))
	assert.Equal(t, Deadline(""), NormalizeDeadline("next friday"))
	assert.Equal(t, Deadline(""), NormalizeDeadline(""))
}

func TestTicketUnmarshalAppliesInvariants(t *testing.T) {
	raw := `{
		"title": "배너 제작",
		"grade": "S",
		"deadline": "2025-02-30",
		"receivers": ["a@x.com", " a@x.com ", "", "b@x.com"],
		"completion_rate": 140
	}`
	var tk Ticket
	require.NoError(t, json.Unmarshal([]byte(raw), &tk))

	assert.Equal(t, "배너 제작", tk.Title)
	assert.Equal(t, TicketGradeUrgent, tk.Grade)
	assert.False(t, tk.Deadline.Present())
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, tk.Receivers)
	assert.Equal(t, 100, tk.CompletionRate)
}

func TestTicketUnmarshalDefaults(t *testing.T) {
	var tk Ticket
	require.NoError(t, json.Unmarshal([]byte(`{"grade": null, "deadline": null}`), &tk))
	assert.Equal(t, TicketGradeMiddle, tk.Grade)
	assert.Equal(t, Deadline(""), tk.Deadline)
	assert.NotNil(t, tk.Receivers)
	assert.Empty(t, tk.Receivers)
}

func TestTicketMarshalAbsentDeadlineIsNull(t *testing.T) {
	out, err := json.Marshal(NewTicket())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"deadline":null`)
	assert.Contains(t, string(out), `"grade":"MIDDLE"`)
	assert.Contains(t, string(out), `"receivers":[]`)
}

func TestTicketCopiesDoNotShareReceivers(t *testing.T) {
	orig := NewTicket().WithReceivers([]string{"a@x.com"})
	clone := orig.Clone()
	clone.Receivers[0] = "mutated@x.com"
	assert.Equal(t, "a@x.com", orig.Receivers[0])

	updated := orig.WithReceivers([]string{"b@x.com"})
	assert.Equal(t, []string{"a@x.com"}, orig.Receivers)
	assert.Equal(t, []string{"b@x.com"}, updated.Receivers)
}

func TestWithCompletionRateClamps(t *testing.T) {
	assert.Equal(t, 0, NewTicket().WithCompletionRate(-5).CompletionRate)
	assert.Equal(t, 100, NewTicket().WithCompletionRate(250).CompletionRate)
	assert.Equal(t, 40, NewTicket().WithCompletionRate(40).CompletionRate)
}
