package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeTicket() Ticket {
	return Ticket{
		Title:       "서버 점검",
		Content:     "결제 서버 응답 지연",
		Requirement: "원인 분석 후 조치",
		Deadline:    "2025-12-31",
		Grade:       TicketGradeHigh,
		Receivers:   []string{"dev@x.com"},
	}
}

func TestValidateCompleteTicket(t *testing.T) {
	v := DefaultTicketPolicy().Validate(completeTicket())
	assert.True(t, v.Complete)
	assert.Empty(t, v.Missing)
}

func TestValidateEmptyTicketListsEveryFieldInOrder(t *testing.T) {
	tk := NewTicket()
	tk.Grade = ""
	v := DefaultTicketPolicy().Validate(tk)
	assert.False(t, v.Complete)
	assert.Equal(t, []string{
		"제목(Title)",
		"요약(Content)",
		"상세내용(Requirement)",
		"마감일(Deadline)",
		"중요도(Grade)",
		"담당자(Receiver)",
	}, v.Missing)
}

func TestValidateOnlyDeadlineMissing(t *testing.T) {
	tk := completeTicket()
	tk.Deadline = ""
	v := DefaultTicketPolicy().Validate(tk)
	assert.False(t, v.Complete)
	assert.Equal(t, []string{"마감일(Deadline)"}, v.Missing)
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	tk := completeTicket()
	tk.Title = "점"
	assert.Equal(t, []string{"제목(Title)"}, DefaultTicketPolicy().Validate(tk).Missing)

	tk.Title = "점검"
	assert.True(t, DefaultTicketPolicy().Validate(tk).Complete)
}

func TestValidateIgnoresCompletionRate(t *testing.T) {
	tk := completeTicket()
	tk.CompletionRate = 0
	assert.True(t, DefaultTicketPolicy().Validate(tk).Complete)

	tk = NewTicket()
	tk.CompletionRate = 100
	assert.False(t, DefaultTicketPolicy().Validate(tk).Complete)
}

func TestParseTicketPolicy(t *testing.T) {
	p, err := ParseTicketPolicy(0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultMinTextLength, p.MinTextLength)
	assert.Len(t, p.Required, 6)

	p, err = ParseTicketPolicy(5, " Title , receivers,")
	require.NoError(t, err)
	assert.Equal(t, 5, p.MinTextLength)
	assert.Equal(t, map[TicketField]bool{FieldTitle: true, FieldReceivers: true}, p.Required)

	tk := NewTicket()
	tk.Title = "짧은제목"
	assert.Equal(t, []string{"제목(Title)", "담당자(Receiver)"}, p.Validate(tk).Missing)

	_, err = ParseTicketPolicy(2, "title,budget")
	require.Error(t, err)
}
