// Package local – pre-authored template pools.
//
// Each category owns a finite ordered collection of templates; order only
// matters as the substrate for the seeded shuffle. Placeholders use the
// {name} vocabulary consumed by fillTemplate. Editing a pool changes its
// size, which resets every device's persisted order for that category.
package local

import "github.com/tbourn/go-fortune-backend/internal/domain"

var todayPool = []string{
	"{name}님, {today} {weekday}요일의 기운이 차분하게 흐르고 있어요. 서두르지 않아도 될 일은 잠시 미뤄두고, 지금 눈앞의 한 가지에 집중해 보세요. 점심 이후에 좋은 소식이 닿을 수 있어요.",
	"오늘의 {name}님은 평소보다 직감이 또렷한 날이에요. 망설이던 연락이 있다면 가볍게 먼저 건네 보세요. 저녁에는 따뜻한 차 한 잔으로 하루를 정리하면 좋아요.",
	"{animal}띠인 {name}님에게 오늘은 작은 정리가 큰 여유를 만드는 날이에요. 책상 위든 마음속이든 하나만 비워 보세요. 걷는 시간이 길수록 좋은 생각이 따라와요.",
	"{today}의 흐름은 완만한 오르막이에요. 오전의 답답함은 오후에 자연스럽게 풀릴 수 있으니 조급해하지 않으셔도 돼요. 가까운 사람의 한마디가 힌트가 되어줄 거예요.",
	"{name}님, 오늘은 받은 만큼 돌려주는 날이에요. 사소한 호의에도 고맙다는 말을 아끼지 마세요. 그 말이 내일의 기회로 돌아올 수 있어요.",
	"기대보다 담담하게 흘러가는 하루일 수 있어요. 그래도 {weekday}요일 저녁 무렵, 마음이 놓이는 순간이 한 번은 찾아와요. 무리한 약속은 하나쯤 줄여 보세요.",
	"오늘은 몸의 신호에 귀 기울이면 좋은 날이에요. 찌뿌둥하다면 점심에 10분만 걸어 보세요. 작은 움직임이 오후의 집중력을 살려줄 거예요.",
	"{name}님의 {today}는 주고받는 대화 속에 운이 숨어 있어요. 회의든 수다든 한 번 더 귀 기울여 보세요. 뜻밖의 아이디어가 내 것이 될 수 있어요.",
}

var namePool = []string{
	"{name}이라는 이름에는 부드럽지만 단단한 울림이 있어요. 처음은 조용해도 끝은 분명하게 맺는 분이에요. 오늘은 미뤄둔 일 하나를 마무리해 보세요.",
	"{name}님의 이름은 주변을 편안하게 하는 기운을 담고 있어요. 사람들 사이의 다리 역할을 할 때 빛이 나요. 오늘은 누군가의 이야기를 끝까지 들어 보세요.",
	"이름의 어감으로 보면 {name}님은 호기심이 많고 배움이 빠른 편이에요. 다만 시작한 일이 여러 갈래로 흩어지기 쉬우니, 오늘은 한 가지만 정해서 끝내 보세요.",
	"{name}님의 이름에는 앞으로 나아가는 힘이 느껴져요. 결정이 필요한 순간에 머뭇거림이 가장 큰 적이에요. 오늘은 작은 결정 하나를 빠르게 내려 보세요.",
	"{name}이라는 이름은 섬세한 관찰력을 닮았어요. 남들이 놓치는 부분을 먼저 보는 분이에요. 그 눈썰미를 오늘은 나 자신을 돌보는 데 써 보세요.",
	"이름의 울림으로 보면 {name}님은 신뢰를 쌓는 데 강점이 있어요. 약속을 지키는 모습이 곧 운이 되어 돌아와요. 오늘의 약속 하나를 평소보다 정성껏 지켜 보세요.",
}

var sajuPool = []string{
	"{calendar} {birthdate} 생의 {name}님은 흐름을 읽는 눈이 좋은 사주예요. 큰 결정은 혼자 품기보다 믿을 만한 사람과 한 번 더 검토하면 좋아요. 오늘은 재정 관련 메모를 정리해 보세요.",
	"{name}님의 사주에는 느리게 데워지는 화로 같은 꾸준함이 있어요. 단기 성과보다 누적이 답이에요. 오늘 10분이라도 쌓는 시간을 만들어 보세요.",
	"{animal}띠 {name}님은 사람 운이 받쳐주는 흐름이에요. 좋은 인연은 가까운 자리에서 시작되는 경우가 많아요. 오늘 만나는 사람에게 평소보다 한 번 더 웃어 보세요.",
	"사주의 결로 보면 {name}님은 변화 앞에서 강해지는 분이에요. 낯선 제안이 오면 겁내기보다 조건을 차분히 살펴 보세요. 저녁에는 일찍 쉬는 편이 기운 보충에 좋아요.",
	"{name}님({age}세)의 올해 흐름은 중반 이후가 더 단단해요. 지금은 씨앗을 고르는 시기라 생각하시면 마음이 편해요. 오늘은 배우고 싶은 것 하나를 적어 보세요.",
	"타고난 기운으로 보면 {name}님은 말보다 글에서 힘이 나오는 편이에요. 중요한 이야기는 메시지로 정리해 전하면 오해가 줄어요. 자기 전 세 줄 일기를 권해요.",
}

var compatPool = []string{
	"{aName}님과 {bName}님의 오늘 궁합 점수는 {compatScore}점이에요. 서로 속도가 조금 다를 뿐 방향은 닮아 있어요. 오늘은 상대의 템포에 한 번 맞춰 보세요.",
	"{aName}님과 {bName}님은 말하지 않아도 통하는 순간이 많은 조합이에요. 점수로 보면 {compatScore}점! 다만 침묵이 길어지면 오해가 생길 수 있으니, 사소한 것도 소리 내어 말해 보세요.",
	"오늘의 두 분 궁합은 {compatScore}점이에요. {aName}님의 계획력과 {bName}님의 유연함이 맞물리면 꽤 든든한 팀이 돼요. 저녁 산책 데이트가 잘 어울리는 날이에요.",
	"{compatScore}점의 흐름이에요. 서로의 다른 점이 오늘은 오히려 매력으로 보일 수 있어요. {aName}님이 먼저 작은 칭찬을 건네면 분위기가 한층 부드러워져요.",
	"{aName}님과 {bName}님, 오늘은 함께 새로운 걸 시도하기 좋은 {compatScore}점의 날이에요. 메뉴든 길이든 평소와 다른 선택을 해 보세요. 웃을 일이 하나 늘어나요.",
	"두 분의 오늘 점수는 {compatScore}점. 기대치를 조금만 내려놓으면 만족은 오히려 커져요. 고마웠던 일 한 가지씩을 서로 말해 보는 걸 추천해요.",
}

var lovePool = []string{
	"{name}님의 연애 기운은 오늘 잔잔하게 차오르는 중이에요. 화려한 이벤트보다 짧고 다정한 연락이 효과가 커요. 먼저 안부를 물어 보세요.",
	"오늘은 마음을 꾸미지 않을수록 매력이 사는 날이에요. 솔직한 한마디가 긴 설명보다 힘이 세요. 다만 늦은 밤의 감정적인 메시지는 아침으로 미뤄 보세요.",
	"설레는 신호가 가까운 곳에서 올 수 있어요. 평소 자주 가던 곳에서 시선을 한 번 더 들어 보세요. 웃는 얼굴이 오늘의 가장 좋은 운이에요.",
	"연인과의 사이라면 오늘은 듣는 날이에요. 조언보다 공감이 먼저예요. 혼자라면 나를 돌보는 시간이 다음 인연을 당겨줘요.",
	"오래 고민한 관계가 있다면 오늘은 결론보다 정리가 좋아요. 마음을 글로 적어 보면 답의 윤곽이 보여요. 서두르지 않으셔도 괜찮아요.",
	"{weekday}요일의 연애운은 가벼운 약속에서 피어나요. 부담 없는 차 한 잔 제안이 좋은 흐름을 만들어요. 향이 좋은 하루 되세요.",
}

var moneyPool = []string{
	"{name}님의 금전운은 오늘 새는 곳을 막는 데서 좋아져요. 구독이나 자동결제 내역을 한 번 훑어 보세요. 작은 정리가 생각보다 큰 여유를 만들어요.",
	"오늘은 큰 지출보다 작은 투자에 운이 있어요. 배움이나 도구처럼 나에게 남는 소비를 골라 보세요. 충동구매는 장바구니에 하루 재워 두세요.",
	"돈 이야기는 오늘 명확할수록 좋아요. 빌려준 것, 나눠 낼 것은 부드럽지만 분명하게 정리해 보세요. 미뤄둔 정산 하나를 끝내면 마음도 가벼워져요.",
	"뜻밖의 할인이나 환급처럼 소소한 행운이 있을 수 있는 날이에요. 놓친 포인트나 쿠폰을 확인해 보세요. 얻은 만큼 조금은 저축으로 돌려 보세요.",
	"오늘의 금전 흐름은 계획표 위에서 안정돼요. 이번 달 남은 예산을 한 줄로 적어 보세요. 숫자가 보이면 불안은 줄어요.",
	"수입을 키우는 아이디어가 스치는 날이에요. 흘려보내지 말고 메모해 두세요. 당장 결실이 없어도 씨앗은 남아요.",
}

var healthPool = []string{
	"{name}님, 오늘 몸의 키워드는 '순환'이에요. 한 시간에 한 번 일어나 어깨를 크게 돌려 보세요. 따뜻한 물을 자주 마시면 컨디션이 올라와요.",
	"수면의 질이 운의 질이 되는 날이에요. 오늘 밤은 화면을 평소보다 30분 일찍 내려놓아 보세요. 아침이 달라져요.",
	"오늘은 무리한 운동보다 가벼운 스트레칭이 몸에 맞아요. 목과 허리를 살살 풀어 주세요. 점심 후 10분 산책이면 충분해요.",
	"먹는 것이 기분을 만드는 날이에요. 따뜻한 국물이나 제철 채소를 한 가지 더해 보세요. 카페인은 오후 한 잔까지만 권해요.",
	"긴장이 어깨에 쌓이기 쉬운 흐름이에요. 심호흡 세 번, 생각보다 효과가 커요. 잠들기 전 가벼운 족욕도 잘 어울리는 날이에요.",
	"오늘의 건강운은 '미루지 않기'에서 와요. 미뤄둔 검진 예약이나 약 챙기기를 오늘 해 보세요. 작은 실천이 큰 안심이 돼요.",
}

var workPool = []string{
	"{name}님의 일 운은 오늘 오전에 몰려 있어요. 가장 무거운 일을 첫 두 시간 안에 밀어붙여 보세요. 오후는 가볍게 마무리하는 흐름이 좋아요.",
	"협업에 운이 붙는 날이에요. 혼자 끙끙대던 일을 한 번 공유해 보세요. 생각보다 빨리 풀릴 수 있어요.",
	"오늘은 완벽보다 완료가 먼저예요. 80점짜리 초안을 먼저 내놓고 다듬어 보세요. 피드백이 좋은 방향을 알려줄 거예요.",
	"작은 인정이 들어오는 흐름이에요. 겸손도 좋지만 오늘은 감사히 받으세요. 그 기운이 다음 기회를 부릅니다.",
	"집중이 끊기기 쉬운 날이니 알림을 잠시 꺼 보세요. 25분 몰입, 5분 휴식 리듬이 잘 맞아요. 퇴근 전 내일의 첫 할 일을 적어 두면 아침이 수월해요.",
	"새로운 제안이나 공고가 눈에 띄면 지나치지 마세요. 당장 지원하지 않아도 저장해 둘 가치가 있어요. 경력의 씨앗은 이런 날 심어져요.",
}

// Pools returns the category-to-pool mapping used by the generator.
// The map is freshly built per call so callers can safely swap entries
// (tests seed smaller pools).
func Pools() map[string][]string {
	return map[string][]string{
		domain.CategoryToday:  todayPool,
		domain.CategoryName:   namePool,
		domain.CategorySaju:   sajuPool,
		domain.CategoryCompat: compatPool,
		domain.CategoryLove:   lovePool,
		domain.CategoryMoney:  moneyPool,
		domain.CategoryHealth: healthPool,
		domain.CategoryWork:   workPool,
	}
}
