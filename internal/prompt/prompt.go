// Package prompt builds the instruction pair sent to the generation
// provider. Building is pure string assembly: no I/O, no clock access (the
// day stamp is passed in), and no failure modes: absent attributes degrade
// to explicit placeholder markers instead of being omitted, so the content
// block always has the same shape for a given category.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-fortune-backend/internal/domain"
)

// Prompt is the role/behavior preamble plus the request-specific content
// block. The remote client concatenates the two with a blank line into a
// single user-role message; the pair is kept separate so audit logs can
// record what was sent without the static preamble.
type Prompt struct {
	Instructions string
	Content      string
}

// instructions is the stable behavior preamble: warm tone, hedged phrasing,
// no absolute guarantees, actionable tip at the end.
const instructions = `당신은 한국어로 대답하는 친절한 운세 상담가입니다.
- 3~5문장 정도로 간단하고 밝게 말하세요.
- 의료/법률/투자에 대한 구체 보장은 피하고, "도움이 될 수 있어요" 같은 완곡한 표현을 쓰세요.
- 공포 마케팅 금지.
- 마지막에 오늘 실천 팁 1~2개를 덧붙이세요.
- 존댓말을 사용하세요.`

// categoryLabels maps categories to the human-readable label interpolated
// into the content block.
var categoryLabels = map[string]string{
	domain.CategoryToday:  "오늘의 운세",
	domain.CategoryName:   "이름으로 보는 나는?",
	domain.CategorySaju:   "사주",
	domain.CategoryCompat: "커플 궁합",
	domain.CategoryLove:   "연애운",
	domain.CategoryMoney:  "금전운",
	domain.CategoryHealth: "건강운",
	domain.CategoryWork:   "직장운",
}

// Placeholder markers for absent optional attributes.
const (
	markerPrivate = "비공개"
	markerUnknown = "모름"
)

// Build assembles the prompt for a validated request. today is the calendar
// day stamp (YYYY-MM-DD) computed in the request's timezone by the caller.
func Build(req domain.FortuneRequest, today string) Prompt {
	category := req.Category
	if category == "" {
		category = domain.CategoryToday
	}
	label, ok := categoryLabels[category]
	if !ok {
		label = category
	}

	var b strings.Builder
	fmt.Fprintf(&b, "오늘 날짜: %s\n", today)
	fmt.Fprintf(&b, "시간대: %s\n", orDefault(req.Timezone, "Asia/Seoul"))
	fmt.Fprintf(&b, "카테고리: %s\n\n", label)

	switch category {
	case domain.CategoryName:
		fmt.Fprintf(&b, "이름: %s\n\n", orDefault(req.Name, "이름 "+markerPrivate))
		b.WriteString("요청:\n")
		b.WriteString("- 이름의 어감/운세적 상징을 중심으로 성향/강점/주의점 요약\n")
		b.WriteString("- 오늘 하루에 어울리는 짧은 행동 팁 1~2개")

	case domain.CategoryCompat:
		var a, p domain.Person
		if req.Couple != nil {
			a, p = req.Couple.A, req.Couple.B
		}
		b.WriteString("[사람 A]\n")
		writePerson(&b, a)
		b.WriteString("\n[사람 B]\n")
		writePerson(&b, p)
		b.WriteString("\n요청:\n")
		b.WriteString("- 두 사람의 기본 성향 궁합 요약(동성/이성 여부 가정 없이 중립)\n")
		b.WriteString("- 오늘 데이트/대화 팁 1~2개\n")
		b.WriteString("- 단정적 예언/보장 금지")

	default: // today / saju / follow-up topics (1인)
		writePerson(&b, req.Person)
		b.WriteString("\n요청:\n")
		b.WriteString("- 전체적인 하루 기운 요약\n")
		if category == domain.CategorySaju {
			b.WriteString("- 선택 카테고리 포인트(사주 관점도 언급 가능)\n")
		} else {
			b.WriteString("- 선택 카테고리 포인트\n")
		}
		b.WriteString("- 오늘 실천 팁 1~2개\n")
		b.WriteString("- 단정적 표현 금지")
	}

	return Prompt{Instructions: instructions, Content: b.String()}
}

// writePerson appends one participant's attribute block, substituting
// placeholder markers for anything absent.
func writePerson(b *strings.Builder, p domain.Person) {
	fmt.Fprintf(b, "이름: %s\n", orDefault(p.Name, markerPrivate))
	fmt.Fprintf(b, "생년월일: %s\n", orDefault(p.Birthdate, markerUnknown))
	fmt.Fprintf(b, "달력: %s\n", orDefault(p.Calendar, "solar"))
	fmt.Fprintf(b, "출생시: %s\n", orDefault(p.BirthTime, "unknown"))
	fmt.Fprintf(b, "성별: %s\n", orDefault(p.Gender, "unknown"))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
