package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDepartmentKey(t *testing.T) {
	key, ok := ParseDepartmentKey(" hr ")
	assert.True(t, ok)
	assert.Equal(t, DepartmentHR, key)

	_, ok = ParseDepartmentKey("LEGAL")
	assert.False(t, ok)
}

func TestFindDepartmentKey(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		withLabels bool
		want       DepartmentKey
		found      bool
	}{
		{"bare key", "DEVELOPMENT", false, DepartmentDevelopment, true},
		{"key in sentence", "The answer is finance.", false, DepartmentFinance, true},
		{"earliest wins", "SALES or DESIGN", false, DepartmentSales, true},
		{"part of longer word", "HRM DESIGNER", false, "", false},
		{"label ignored without flag", "기획 단계인가요?", false, "", false},
		{"label matched", "예산을 책정하는 단계(기획)인가요, 집행하는 단계(재무)인가요?", true, DepartmentPlanning, true},
		{"key before label", "FINANCE 아니면 기획", true, DepartmentFinance, true},
		{"nothing", "잘 모르겠어요", true, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindDepartmentKey(tt.text, tt.withLabels)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveState(t *testing.T) {
	policy := DefaultTicketPolicy()
	assert.Equal(t, StateRouting, DeriveState("", completeTicket(), policy))
	assert.Equal(t, StateAssignee, DeriveState(DepartmentHR, NewTicket(), policy))

	incomplete := NewTicket().WithReceivers([]string{"a@x.com"})
	assert.Equal(t, StateInterview, DeriveState(DepartmentHR, incomplete, policy))
	assert.Equal(t, StateReady, DeriveState(DepartmentHR, completeTicket(), policy))
}
