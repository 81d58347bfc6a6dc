package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TicketGrade enumerates work urgency.
type TicketGrade string

const (
	TicketGradeLow    TicketGrade = "LOW"
	TicketGradeMiddle TicketGrade = "MIDDLE"
	TicketGradeHigh   TicketGrade = "HIGH"
	TicketGradeUrgent TicketGrade = "URGENT"
)

// DeadlineLayout is the only accepted deadline format.
const DeadlineLayout = "2006-01-02"

// gradeSynonyms maps informal grades to canonical values.
var gradeSynonyms = map[string]TicketGrade{
	"S":      TicketGradeUrgent,
	"A":      TicketGradeUrgent,
	"Urgent": TicketGradeUrgent,
	"High":   TicketGradeUrgent,
	"긴급":     TicketGradeUrgent,
	"Normal": TicketGradeMiddle,
	"Low":    TicketGradeMiddle,
	"Medium": TicketGradeMiddle,
	"B":      TicketGradeMiddle,
	"C":      TicketGradeMiddle,
	"보통":     TicketGradeMiddle,
}

// NormalizeGrade maps any raw grade to one of the four canonical values.
// Unknown input falls back to MIDDLE.
func NormalizeGrade(raw string) TicketGrade {
	switch g := TicketGrade(raw); g {
	case TicketGradeLow, TicketGradeMiddle, TicketGradeHigh, TicketGradeUrgent:
		return g
	}
	if g, ok := gradeSynonyms[raw]; ok {
		return g
	}
	return TicketGradeMiddle
}

// Valid reports whether g is canonical.
func (g TicketGrade) Valid() bool {
	return NormalizeGrade(string(g)) == g && g != ""
}

// UnmarshalJSON normalizes on decode so a raw user string never survives.
func (g *TicketGrade) UnmarshalJSON(data []byte) error {
	var raw string
	if bytes.Equal(data, []byte("null")) {
		*g = TicketGradeMiddle
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*g = TicketGradeMiddle
		return nil
	}
	*g = NormalizeGrade(raw)
	return nil
}

// Deadline is a calendar date in DeadlineLayout, or empty when absent.
type Deadline string

// NormalizeDeadline returns the deadline when raw is a valid calendar
// date and the empty (absent) deadline otherwise.
func NormalizeDeadline(raw string) Deadline {
	raw = strings.TrimSpace(raw)
	if len(raw) != len(DeadlineLayout) {
		return ""
	}
	if _, err := time.Parse(DeadlineLayout, raw); err != nil {
		return ""
	}
	return Deadline(raw)
}

// Present reports whether a deadline is set.
func (d Deadline) Present() bool { return d != "" }

// MarshalJSON emits null for an absent deadline.
func (d Deadline) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON never fails: invalid dates become absent.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = ""
		return nil
	}
	*d = NormalizeDeadline(raw)
	return nil
}

// Ticket is the work request being assembled by the conversation. It is
// handled as a value: use Clone and the With helpers instead of mutating
// a ticket owned by someone else.
type Ticket struct {
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Purpose        string      `json:"purpose"`
	Requirement    string      `json:"requirement"`
	Deadline       Deadline    `json:"deadline"`
	Grade          TicketGrade `json:"grade"`
	Receivers      []string    `json:"receivers"`
	CompletionRate int         `json:"completion_rate"`
}

// NewTicket returns an empty ticket with default grade.
func NewTicket() Ticket {
	return Ticket{Grade: TicketGradeMiddle, Receivers: []string{}}
}

// UnmarshalJSON applies defaults and normalization.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	decoded := plain(NewTicket())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = Ticket(decoded).Normalize()
	return nil
}

// Normalize returns a copy with every invariant applied.
func (t Ticket) Normalize() Ticket {
	out := t.Clone()
	out.Grade = NormalizeGrade(string(out.Grade))
	out.Deadline = NormalizeDeadline(string(out.Deadline))
	out.Receivers = dedupeReceivers(out.Receivers)
	out.CompletionRate = clampRate(out.CompletionRate)
	return out
}

// Clone deep-copies the ticket.
func (t Ticket) Clone() Ticket {
	out := t
	out.Receivers = append([]string{}, t.Receivers...)
	return out
}

// WithReceivers returns a copy carrying the given receivers.
func (t Ticket) WithReceivers(receivers []string) Ticket {
	out := t.Clone()
	out.Receivers = dedupeReceivers(receivers)
	return out
}

// WithCompletionRate returns a copy with the rate clamped to 0..100.
func (t Ticket) WithCompletionRate(rate int) Ticket {
	out := t.Clone()
	out.CompletionRate = clampRate(rate)
	return out
}

func dedupeReceivers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func clampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
