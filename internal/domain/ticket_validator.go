package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TicketField identifies a required ticket slot.
type TicketField string

const (
	FieldTitle       TicketField = "title"
	FieldContent     TicketField = "content"
	FieldRequirement TicketField = "requirement"
	FieldDeadline    TicketField = "deadline"
	FieldGrade       TicketField = "grade"
	FieldReceivers   TicketField = "receivers"
)

// fieldOrder is the fixed order in which missing fields are reported.
var fieldOrder = []TicketField{
	FieldTitle,
	FieldContent,
	FieldRequirement,
	FieldDeadline,
	FieldGrade,
	FieldReceivers,
}

var fieldLabels = map[TicketField]string{
	FieldTitle:       "제목(Title)",
	FieldContent:     "요약(Content)",
	FieldRequirement: "상세내용(Requirement)",
	FieldDeadline:    "마감일(Deadline)",
	FieldGrade:       "중요도(Grade)",
	FieldReceivers:   "담당자(Receiver)",
}

// Label returns the human-readable name used in missing-field lists.
func (f TicketField) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// DefaultMinTextLength is the minimum rune length of text fields.
const DefaultMinTextLength = 2

// TicketPolicy decides which fields are required and how long text must be.
type TicketPolicy struct {
	MinTextLength int
	Required      map[TicketField]bool
}

// Verdict is the validator's answer for one ticket.
type Verdict struct {
	Complete bool
	Missing  []string
}

// DefaultTicketPolicy requires all six fields with the default length.
func DefaultTicketPolicy() TicketPolicy {
	required := make(map[TicketField]bool, len(fieldOrder))
	for _, f := range fieldOrder {
		required[f] = true
	}
	return TicketPolicy{MinTextLength: DefaultMinTextLength, Required: required}
}

// ParseTicketPolicy builds a policy from a comma-separated field list.
// An empty list means every field is required.
func ParseTicketPolicy(minLength int, fields string) (TicketPolicy, error) {
	policy := DefaultTicketPolicy()
	if minLength > 0 {
		policy.MinTextLength = minLength
	}
	if strings.TrimSpace(fields) == "" {
		return policy, nil
	}
	policy.Required = map[TicketField]bool{}
	for _, part := range strings.Split(fields, ",") {
		f := TicketField(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if _, ok := fieldLabels[f]; !ok {
			return TicketPolicy{}, fmt.Errorf("unknown ticket field %q", f)
		}
		policy.Required[f] = true
	}
	return policy, nil
}

// Validate computes the missing-field set in fixed order. It has no
// side effects and ignores CompletionRate.
func (p TicketPolicy) Validate(t Ticket) Verdict {
	minLen := p.MinTextLength
	if minLen <= 0 {
		minLen = DefaultMinTextLength
	}
	missing := make([]string, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		if !p.Required[f] {
			continue
		}
		if !fieldSatisfied(t, f, minLen) {
			missing = append(missing, f.Label())
		}
	}
	return Verdict{Complete: len(missing) == 0, Missing: missing}
}

func fieldSatisfied(t Ticket, f TicketField, minLen int) bool {
	switch f {
	case FieldTitle:
		return utf8.RuneCountInString(t.Title) >= minLen
	case FieldContent:
		return utf8.RuneCountInString(t.Content) >= minLen
	case FieldRequirement:
		return utf8.RuneCountInString(t.Requirement) >= minLen
	case FieldDeadline:
		return t.Deadline.Present()
	case FieldGrade:
		return t.Grade.Valid()
	case FieldReceivers:
		return len(t.Receivers) > 0
	}
	return true
}
