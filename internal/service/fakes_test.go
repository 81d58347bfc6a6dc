package service

import (
	"context"
	"sync"
	"time"

	"github.com/workdesk-labs/work-mediator/internal/domain"
	"github.com/workdesk-labs/work-mediator/internal/llm"
)

type generateCall struct {
	messages []llm.Message
	mode     llm.Mode
}

// fakeGenerator replays scripted replies in order.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	panicOn bool
	calls   []generateCall
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Close() error { return nil }

func (f *fakeGenerator) Generate(_ context.Context, prompt llm.Prompt, mode llm.Mode) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{messages: prompt.Messages(), mode: mode})
	if f.panicOn {
		panic("generator exploded")
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeGenerator) lastInstruction() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	msgs := f.calls[len(f.calls)-1].messages
	return msgs[len(msgs)-1].Content
}

type fakeRetriever struct {
	snippets []string
	err      error
	queries  []string
	depts    []domain.DepartmentKey
}

func (f *fakeRetriever) Retrieve(_ context.Context, dept domain.DepartmentKey, query string, _ int) ([]string, error) {
	f.queries = append(f.queries, query)
	f.depts = append(f.depts, dept)
	return f.snippets, f.err
}

type fakeMembers struct {
	byName map[string]string
	byDept map[domain.DepartmentKey][]string
	err    error
	names  []string
	depts  []domain.DepartmentKey
}

func (f *fakeMembers) FindEmailByName(_ context.Context, name string) (string, bool, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return "", false, f.err
	}
	email, ok := f.byName[name]
	return email, ok, nil
}

func (f *fakeMembers) FindEmailsByDepartment(_ context.Context, dept domain.DepartmentKey) ([]string, error) {
	f.depts = append(f.depts, dept)
	if f.err != nil {
		return nil, f.err
	}
	return f.byDept[dept], nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

func completeTicket() domain.Ticket {
	return domain.Ticket{
		Title:       "서버 점검",
		Content:     "결제 서버 응답 지연",
		Requirement: "원인 분석 후 조치",
		Deadline:    "2025-12-31",
		Grade:       domain.TicketGradeHigh,
		Receivers:   []string{"dev@x.com"},
	}
}
