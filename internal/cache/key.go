// Package cache – canonical cache-key derivation.
//
// Keys follow one fully normalized scheme:
//
//	fortune:v3:<device>:<day>:<category>:<discriminant…>
//
// Every variable segment is trimmed, case-folded, and percent-encoded before
// joining, so cosmetic differences in casing or whitespace never cause a
// cache miss and segment values can never collide with the ':' separator.
package cache

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-fortune-backend/internal/domain"
)

// keyNamespace versions the key scheme; bump it when the payload shape or
// discriminant composition changes so stale entries age out on their own.
const keyNamespace = "fortune:v3"

var fold = cases.Fold()

// Key derives the cache key for a request. deviceID and day are supplied by
// the caller (day already computed in the request's timezone); the
// category-specific discriminant fields come from the request itself:
//
//   - name and the follow-up topics key on the (folded) name
//   - today/saju key on birthdate plus timezone
//   - compat keys on both participants' normalized name+birthdate
//
// Two requests that differ only in letter case or surrounding whitespace of
// any discriminant field produce the same key.
func Key(deviceID, day, category string, req domain.FortuneRequest) string {
	if deviceID = strings.TrimSpace(deviceID); deviceID == "" {
		deviceID = "anon"
	}

	segs := []string{keyNamespace, seg(deviceID), seg(day), seg(category)}
	switch category {
	case domain.CategoryToday, domain.CategorySaju:
		segs = append(segs, seg(req.Birthdate), seg(req.Timezone))
	case domain.CategoryCompat:
		var a, b domain.Person
		if req.Couple != nil {
			a, b = req.Couple.A, req.Couple.B
		}
		segs = append(segs, seg(a.Name), seg(a.Birthdate), seg(b.Name), seg(b.Birthdate))
	default: // name and follow-up topics
		segs = append(segs, seg(req.Name), seg(req.Birthdate))
	}
	return strings.Join(segs, ":")
}

// seg normalizes one key segment: trim, full case fold, percent-encode.
func seg(v string) string {
	return url.QueryEscape(fold.String(strings.TrimSpace(v)))
}
