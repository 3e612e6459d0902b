// Package domain defines the request, response, and persistence models for
// the fortune service. Request/response types are plain JSON structs shared
// by the HTTP layer and the services; persistence types are mapped with GORM.
package domain

// Fortune categories accepted by the API. The follow-up categories
// (love/money/health/work) exist for the quick-reply flow and follow the
// same validation rules as "name" (no birthdate needed).
const (
	CategoryToday  = "today"
	CategoryName   = "name"
	CategorySaju   = "saju"
	CategoryCompat = "compat"
	CategoryLove   = "love"
	CategoryMoney  = "money"
	CategoryHealth = "health"
	CategoryWork   = "work"
)

// KnownCategories maps every accepted category to whether it requires a
// birthdate (per side, for compat).
var KnownCategories = map[string]bool{
	CategoryToday:  true,
	CategorySaju:   true,
	CategoryCompat: true,
	CategoryName:   false,
	CategoryLove:   false,
	CategoryMoney:  false,
	CategoryHealth: false,
	CategoryWork:   false,
}

// Person carries the identifying attributes of one participant.
// All fields are optional at the transport level; category-specific
// requirements are enforced by the service layer.
type Person struct {
	Name      string `json:"name,omitempty"      example:"김민지"`
	Birthdate string `json:"birthdate,omitempty" example:"1990-01-01"` // YYYY-MM-DD
	Calendar  string `json:"calendar,omitempty"  example:"solar"`      // solar | lunar
	BirthTime string `json:"birthTime,omitempty" example:"10:08"`      // HH:MM or "unknown"
	Gender    string `json:"gender,omitempty"    example:"female"`     // male | female | other | unknown
}

// Couple groups the two participants of a compatibility reading.
type Couple struct {
	A Person `json:"a"`
	B Person `json:"b"`
}

// FortuneRequest is the inbound payload for a fortune reading. It embeds the
// single-person attributes at the top level (today/name/saju and follow-ups)
// and carries a Couple sub-record for compat.
type FortuneRequest struct {
	Category string  `json:"category,omitempty" example:"today"`
	Timezone string  `json:"timezone,omitempty" example:"Asia/Seoul"`
	Person           // name/birthdate/calendar/birthTime/gender
	Couple   *Couple `json:"couple,omitempty"`
}

// FortuneResponse is the outward payload. Field order and names are part of
// the public contract; cached responses are replayed byte-identical, so this
// struct is serialized once and stored verbatim.
type FortuneResponse struct {
	Date      string  `json:"date"                example:"2025-11-11"`
	Category  string  `json:"category"            example:"today"`
	Name      string  `json:"name,omitempty"`
	Birthdate string  `json:"birthdate,omitempty"`
	Calendar  string  `json:"calendar,omitempty"`
	BirthTime string  `json:"birthTime,omitempty"`
	Gender    string  `json:"gender,omitempty"`
	Couple    *Couple `json:"couple,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
	Fortune   string  `json:"fortune"`
	// PromptVersion tags which prompt revision produced the text, so cached
	// payloads remain attributable after prompt changes.
	PromptVersion string `json:"promptVersion" example:"v3-gemini"`
	// Error carries diagnostic detail (fallback cause) and is populated only
	// when the service runs with DEBUG enabled.
	Error string `json:"error,omitempty"`
}
