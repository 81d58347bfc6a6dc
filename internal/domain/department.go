package domain

import "strings"

// DepartmentKey is a member of the closed routing taxonomy.
type DepartmentKey string

const (
	DepartmentDevelopment DepartmentKey = "DEVELOPMENT"
	DepartmentDesign      DepartmentKey = "DESIGN"
	DepartmentSales       DepartmentKey = "SALES"
	DepartmentHR          DepartmentKey = "HR"
	DepartmentFinance     DepartmentKey = "FINANCE"
	DepartmentPlanning    DepartmentKey = "PLANNING"
)

// Department describes a routing target and its responsibilities.
type Department struct {
	Key         DepartmentKey
	Label       string
	Description string
}

// Departments is the routing taxonomy in prompt order.
var Departments = []Department{
	{DepartmentDevelopment, "개발", "사내 IT 시스템(ERP, 그룹웨어) 관리, 서버/네트워크 장애 처리, 정보 보안, 기능 개발, PC 지급, DB 백업"},
	{DepartmentDesign, "디자인", "배너/이미지 제작, 브랜딩(로고, 명함), UI/UX 디자인, 영상 편집, 현수막 디자인"},
	{DepartmentSales, "영업", "고객사 발굴/계약, 제품 제안, 견적서 발행, 파트너 관리, 매출 관리"},
	{DepartmentHR, "인사", "채용, 근태(휴가/연차), 급여/4대보험, 증명서 발급, 복지, 조직문화"},
	{DepartmentFinance, "재무", "비용 집행(송금), 법인카드 정산, 세금계산서, 재무제표, 예산 관리, 연말정산"},
	{DepartmentPlanning, "기획", "예산 '수립/책정', 사업 기획, 마케팅 전략, 시장 분석, 일정 관리, 계약 검토 요청"},
}

// ParseDepartmentKey matches s against the taxonomy keys, ignoring case
// and surrounding whitespace.
func ParseDepartmentKey(s string) (DepartmentKey, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, d := range Departments {
		if string(d.Key) == s {
			return d.Key, true
		}
	}
	return "", false
}

// FindDepartmentKey returns the taxonomy key that appears earliest in
// text. Keys are matched as whole words; Korean labels are matched too
// when withLabels is set.
func FindDepartmentKey(text string, withLabels bool) (DepartmentKey, bool) {
	upper := strings.ToUpper(text)
	best := -1
	var found DepartmentKey
	for _, d := range Departments {
		if idx := indexWord(upper, string(d.Key)); idx >= 0 && (best < 0 || idx < best) {
			best, found = idx, d.Key
		}
		if !withLabels {
			continue
		}
		if idx := strings.Index(text, d.Label); idx >= 0 && (best < 0 || idx < best) {
			best, found = idx, d.Key
		}
	}
	return found, best >= 0
}

// indexWord finds word in s where it is not part of a longer ASCII word.
func indexWord(s, word string) int {
	offset := 0
	for {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(word)
		if !isWordByte(s, start-1) && !isWordByte(s, end) {
			return start
		}
		offset = end
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
