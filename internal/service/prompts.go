package service

import (
	"fmt"
	"strings"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

const (
	questionMarker = "QUESTION:"
	unknownMarker  = "UNKNOWN"

	// guidelineKeywords steer retrieval towards checklists and scenarios.
	guidelineKeywords = "업무 가이드라인 필수 체크리스트 시나리오"
	noGuidelineText   = "관련된 상세 가이드라인을 찾지 못했습니다. 육하원칙(5W1H)에 따라 상세히 작성해주세요."
)

// User-facing messages.
const (
	msgAmbiguousIntent = "죄송합니다. 말씀하신 내용만으로는 어느 부서 업무인지 파악하기 어렵습니다. 조금 더 구체적으로 말씀해 주시겠어요?"
	msgRouted          = "네, 말씀하신 내용은 **[%s]** 부서 업무로 확인됩니다.\n\n혹시 해당 부서에 지정해서 요청하실 **담당자**분이 계신가요?\n(없으시면 '없음'이라고 말씀해 주세요.)"
	msgDeptReceivers   = "네, 특정 담당자가 지정되지 않아 **[%s]** 부서원 전체(%d명)에게 티켓을 발송합니다."
	msgDeptEmpty       = "현재 **[%s]** 부서에 등록된 사원이 없습니다. 관리자에게 문의해 주세요."
	msgAssigneeFound   = "네, 담당자 **%s**님(ID: %s)을 지정했습니다."
	msgAssigneeMissing = "죄송합니다. 말씀하신 담당자 **'%s'**님을 시스템에서 찾을 수 없습니다.\n정확한 성함을 다시 말씀해 주시거나, 담당자가 없으면 '없음'이라고 해주세요."
	msgAssigneeBlank   = "담당자 성함을 확인하지 못했습니다.\n요청하실 담당자의 성함을 말씀해 주시거나, 담당자가 없으면 '없음'이라고 해주세요."
	msgDescribeTask    = "\n\n이제 요청하실 업무 내용을 구체적으로 말씀해 주세요."
	msgSubmitSuffix    = "\n\n✅ **필수 정보가 모두 확인되었습니다. 우측의 [업무 티켓 전송] 버튼을 눌러주세요.**"
	msgApology         = "죄송합니다. 시스템 처리 중 오류가 발생했습니다. 다시 말씀해 주시겠어요?"
	msgFailure         = "죄송합니다. 요청을 처리하는 중 문제가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

func routingInstruction(userInput string, questionAsked bool) string {
	var sb strings.Builder
	sb.WriteString("당신은 기업 내부 업무 분류 전문가입니다.\n")
	sb.WriteString("사용자의 입력과 이전 대화 내역을 함께 분석하여 요청을 받을 [수신 부서]를 하나 고르십시오.\n\n")
	sb.WriteString("[부서별 업무 R&R]\n")
	for _, d := range domain.Departments {
		fmt.Fprintf(&sb, "- %s(%s): %s\n", d.Label, d.Key, d.Description)
	}
	sb.WriteString("\n[판단 규칙]\n")
	sb.WriteString("1. 명확한 경우: 괄호 안의 영문 부서 KEY 하나만 출력하십시오. (예: DEVELOPMENT)\n")
	sb.WriteString("2. 여러 부서에 걸쳐 모호한 경우: 부서를 가려낼 구체적인 질문을 하나 만들고 \"" + questionMarker + " \"로 시작해 출력하십시오.\n")
	sb.WriteString("   예: \"" + questionMarker + " 예산을 책정하시는 단계(기획)인가요, 아니면 비용을 집행하시는 단계(재무)인가요?\"\n")
	sb.WriteString("3. 어느 부서와도 관련이 없으면 " + unknownMarker + " 만 출력하십시오.\n")
	sb.WriteString("4. 이전 대화에서 이미 질문을 했고 사용자가 답했다면 다시 질문하지 말고, 가장 가능성이 높은 부서 하나를 반드시 고르십시오.\n")
	if questionAsked {
		sb.WriteString("\n[중요] 이번 대화에서는 이미 확인 질문을 했습니다. 질문하지 말고 부서 KEY 하나만 출력하십시오.\n")
	}
	sb.WriteString("\n====================\n[USER INPUT]\n")
	sb.WriteString(userInput)
	return sb.String()
}

func assigneeInstruction(userInput string) string {
	return fmt.Sprintf(`사용자의 입력에서 담당자 이름을 추출하십시오.
입력: "%s"
[규칙] 이름 또는 직급이 있으면 그 단어 하나만 그대로 출력하고, 없으면 "Team_Common"을 출력하십시오. 다른 말은 덧붙이지 마십시오.`, userInput)
}

func guidelineQuery(dept domain.DepartmentKey, userInput string) string {
	return fmt.Sprintf("[%s] %s %s", dept, userInput, guidelineKeywords)
}

func formatGuidelines(snippets []string) string {
	if len(snippets) == 0 {
		return noGuidelineText
	}
	lines := make([]string, len(snippets))
	for i, s := range snippets {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n\n")
}

func missingInstruction(missing []string) string {
	if len(missing) == 0 {
		return "모든 필수 정보가 입력되었습니다. 티켓 내용을 최종 정리하고 사용자가 확인할 수 있게 하십시오."
	}
	return fmt.Sprintf("현재 %s 정보가 누락되었습니다. 사용자에게 이 내용을 반드시 질문하십시오.", strings.Join(missing, ", "))
}

// reasoningFormat documents the JSON object the interview expects back.
const reasoningFormat = `{
  "analysis": "사용자 입력 분석 및 의도 파악 (사용자에게 보이지 않음)",
  "updated_ticket": {
    "title": "요청 제목",
    "content": "요청 요약",
    "purpose": "배경/목적",
    "requirement": "상세 요구사항",
    "deadline": "YYYY-MM-DD 또는 null",
    "grade": "LOW | MIDDLE | HIGH | URGENT",
    "receivers": ["기존 담당자 이메일 유지"],
    "completion_rate": 0
  },
  "response_to_user": "사용자에게 보낼 응답 (질문은 구체적으로)"
}`

type interviewPromptData struct {
	Dept       domain.DepartmentKey
	Guidelines string
	Today      string
	TicketJSON string
	UserInput  string
	Missing    string
}

func interviewInstruction(d interviewPromptData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### 역할 ###\n당신은 [%s] 부서의 업무 티켓 작성 전문가입니다. 사용자와 대화하여 티켓 정보를 완성하십시오.\n\n", d.Dept)
	fmt.Fprintf(&sb, "### 누락된 정보 ###\n%s\n\n", d.Missing)
	sb.WriteString("### 행동 지침 ###\n")
	sb.WriteString("1. 누락된 정보가 있다면 가장 먼저 질문하십시오.\n")
	sb.WriteString("2. \"다음주 금요일\" 같은 표현은 현재 날짜를 기준으로 YYYY-MM-DD로 변환하십시오.\n")
	sb.WriteString("3. 중요도(grade)는 사용자 표현에 따라 LOW/MIDDLE/HIGH/URGENT 중 하나로 추론하고, 정리할 때 현재 중요도를 안내하십시오.\n")
	sb.WriteString("4. 기존 티켓 값은 사용자가 바꾸지 않는 한 유지하고, receivers는 절대 비우지 마십시오.\n")
	sb.WriteString("5. 응답은 항상 질문형으로 끝내십시오.\n\n")
	fmt.Fprintf(&sb, "### 참고 가이드라인 ###\n%s\n\n", d.Guidelines)
	fmt.Fprintf(&sb, "### 현재 날짜 ###\n%s\n\n", d.Today)
	fmt.Fprintf(&sb, "### 출력 형식 ###\n반드시 아래 형태의 JSON 객체 하나만 출력하십시오. 다른 말은 덧붙이지 마십시오.\n%s\n\n", reasoningFormat)
	sb.WriteString("====================\n")
	fmt.Fprintf(&sb, "[현재 티켓 상태 (JSON)]\n%s\n\n", d.TicketJSON)
	fmt.Fprintf(&sb, "[사용자 입력]\n%s\n\n", d.UserInput)
	fmt.Fprintf(&sb, "위 정보를 바탕으로 티켓을 업데이트하고 사용자에게 보낼 응답을 작성하십시오.\n누락 정보 확인: %s", d.Missing)
	return sb.String()
}
