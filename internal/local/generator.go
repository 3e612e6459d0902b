// Package local – the offline selection algorithm.
package local

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-fortune-backend/internal/domain"
)

// ErrDailyLimit is returned when a device has already been served the
// requested category today. The used-index set is not touched in that case.
var ErrDailyLimit = errors.New("fortune already served today for this category")

// DailyLimitMessage is the polite client-facing explanation for ErrDailyLimit.
const DailyLimitMessage = "오늘은 이 카테고리를 이미 보셨어요. 내일 다시 보거나 다른 카테고리를 선택해 주세요."

// SelectionState is the persisted shuffle progress for one device+category:
// the permutation generated for a pool of PoolSize entries and the indices
// already served. It round-trips through the StateStore unchanged.
type SelectionState struct {
	PoolSize int   `json:"poolSize"`
	Order    []int `json:"order"`
	Used     []int `json:"used"`
}

// StateStore persists selection progress and daily-served flags. The
// generator only needs these four operations, so alternative storage engines
// (sqlite here, on-device key/value elsewhere) can back it without touching
// the selection algorithm.
type StateStore interface {
	// Selection returns the stored state for device+category, or nil when
	// none exists yet.
	Selection(ctx context.Context, deviceID, category string) (*SelectionState, error)
	// SaveSelection upserts the state for device+category.
	SaveSelection(ctx context.Context, deviceID, category string, st SelectionState) error
	// ServedToday reports whether device+category was already served on day.
	ServedToday(ctx context.Context, deviceID, category, day string) (bool, error)
	// MarkServed records that device+category was served on day.
	MarkServed(ctx context.Context, deviceID, category, day string) error
}

// Pick is one successful local selection.
type Pick struct {
	Text  string
	Index int
	Date  string
}

// Generator selects fortunes from the template pools without any network
// dependency. Safe for concurrent use as long as Store is.
type Generator struct {
	Store StateStore
	// Pools overrides the built-in template pools (tests use small ones).
	Pools map[string][]string
	// Now is the clock seam; defaults to time.Now.
	Now func() time.Time
	// DefaultLocation is applied when the request has no usable timezone.
	DefaultLocation *time.Location
}

// NewGenerator constructs a Generator over the built-in pools.
func NewGenerator(store StateStore, defaultLoc *time.Location) *Generator {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Generator{Store: store, Pools: Pools(), Now: time.Now, DefaultLocation: defaultLoc}
}

// Generate picks the next unseen template for the device and category,
// substitutes variables, and returns the rendered text.
//
// Guarantees: within one shuffle cycle no template repeats until the whole
// pool has been served; one pick per device+category per calendar day (in
// the request's timezone); the persisted order is regenerated and progress
// reset when the pool size changes.
func (g *Generator) Generate(ctx context.Context, req domain.FortuneRequest, deviceID string) (*Pick, error) {
	tr := otel.Tracer("local/Generator")
	ctx, span := tr.Start(ctx, "Generate")
	defer span.End()

	category := req.Category
	if category == "" {
		category = domain.CategoryToday
	}
	pool, ok := g.Pools[category]
	if !ok {
		pool = g.Pools[domain.CategoryToday]
	}
	if deviceID == "" {
		deviceID = "anon"
	}

	loc := g.location(req.Timezone)
	now := g.Now()
	day := dayStamp(now, loc)

	// One serving per device+category+day. A store read failure counts as
	// "not served": availability beats strict limiting here.
	if served, err := g.Store.ServedToday(ctx, deviceID, category, day); err == nil && served {
		return nil, ErrDailyLimit
	}

	// baseKey seeds the shuffle; its exact form is part of the persisted
	// contract (changing it reshuffles every device).
	baseKey := fmt.Sprintf("fortune.v4:%s:%s", deviceID, category)

	st, err := g.Store.Selection(ctx, deviceID, category)
	if err != nil {
		st = nil
	}
	if st == nil || st.PoolSize != len(pool) || len(st.Order) != len(pool) {
		st = &SelectionState{
			PoolSize: len(pool),
			Order:    seededOrder(len(pool), baseKey),
			Used:     []int{},
		}
	}

	pick := g.nextIndex(st)
	st.Used = append(st.Used, pick)

	if err := g.Store.SaveSelection(ctx, deviceID, category, *st); err != nil {
		return nil, err
	}
	if err := g.Store.MarkServed(ctx, deviceID, category, day); err != nil {
		return nil, err
	}

	vars := g.templateVars(req, now, loc, day)
	text := sanitize(fillTemplate(pool[pick], vars))

	span.SetAttributes(
		attribute.String("fortune.category", category),
		attribute.Int("fortune.pool_index", pick),
	)
	return &Pick{Text: text, Index: pick, Date: day}, nil
}

// nextIndex returns the first index in the persisted order not yet used.
// When the pool is exhausted the cycle restarts: progress is cleared and the
// walk resumes from the start of the same persisted order.
func (g *Generator) nextIndex(st *SelectionState) int {
	used := make(map[int]bool, len(st.Used))
	for _, u := range st.Used {
		used[u] = true
	}
	for _, idx := range st.Order {
		if !used[idx] {
			return idx
		}
	}
	st.Used = st.Used[:0]
	return st.Order[0]
}

// location resolves the request timezone, falling back to the default.
func (g *Generator) location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return g.DefaultLocation
}

// templateVars derives the substitution variables for one request.
func (g *Generator) templateVars(req domain.FortuneRequest, now time.Time, loc *time.Location, day string) map[string]string {
	vars := map[string]string{
		"name":      orDefault(req.Name, "손님"),
		"birthdate": req.Birthdate,
		"age":       "",
		"gender":    genderLabel(req.Gender),
		"calendar":  calendarLabel(req.Calendar),
		"today":     day,
		"weekday":   weekdayLetter(now, loc),
		"animal":    yearAnimal(req.Birthdate),
	}
	if age, ok := ageFrom(req.Birthdate, now, loc); ok {
		vars["age"] = strconv.Itoa(age)
	}
	if req.Category == domain.CategoryCompat && req.Couple != nil {
		aName := orDefault(req.Couple.A.Name, "A")
		bName := orDefault(req.Couple.B.Name, "B")
		vars["aName"] = aName
		vars["bName"] = bName
		vars["compatScore"] = strconv.Itoa(compatScore(
			aName, req.Couple.A.Birthdate, bName, req.Couple.B.Birthdate))
	}
	return vars
}

// compatScore derives a stable score in [70, 95] from the couple's
// normalized identity, so the same couple always scores the same.
func compatScore(aName, aBirth, bName, bBirth string) int {
	seed := fmt.Sprintf("%s|%s|%s|%s", aName, aBirth, bName, bBirth)
	rnd := mulberry32{state: djb2(seed)}
	return 70 + int(rnd.next()*26)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
