// Package local – template variable derivation and cosmetic sanitization.
package local

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// zodiacAnimals indexes the twelve-year cycle; 1900 was a Rat year, so the
// offset below anchors at year 4 (the traditional cycle start).
var zodiacAnimals = []string{"쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양", "원숭이", "닭", "개", "돼지"}

// weekdayLetters maps time.Weekday (Sunday = 0) to the one-letter Korean form.
var weekdayLetters = []string{"일", "월", "화", "수", "목", "금", "토"}

var birthdateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dayStamp formats now as YYYY-MM-DD in loc.
func dayStamp(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("2006-01-02")
}

// weekdayLetter returns the single-letter Korean weekday for now in loc.
func weekdayLetter(now time.Time, loc *time.Location) string {
	return weekdayLetters[int(now.In(loc).Weekday())]
}

// ageFrom computes the completed age at now for a YYYY-MM-DD birthdate.
// ok is false when the birthdate does not parse.
func ageFrom(birthdate string, now time.Time, loc *time.Location) (int, bool) {
	if !birthdateRE.MatchString(birthdate) {
		return 0, false
	}
	b, err := time.ParseInLocation("2006-01-02", birthdate, loc)
	if err != nil {
		return 0, false
	}
	today := now.In(loc)
	age := today.Year() - b.Year()
	if today.Month() < b.Month() || (today.Month() == b.Month() && today.Day() < b.Day()) {
		age--
	}
	return age, true
}

// yearAnimal returns the zodiac animal for the birth year (year mod 12,
// anchored so that e.g. 1996 is a Rat year). Empty when the date is invalid.
func yearAnimal(birthdate string) string {
	if !birthdateRE.MatchString(birthdate) {
		return ""
	}
	var y int
	fmt.Sscanf(birthdate[:4], "%d", &y)
	// Go's % keeps the dividend's sign, so years before 4 need the shift
	// back into [0,12).
	return zodiacAnimals[((y-4)%12+12)%12]
}

// genderLabel normalizes a free-form gender value to its display label.
func genderLabel(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "":
		return "비공개"
	case "남", "남자", "m", "male":
		return "남"
	case "여", "여자", "f", "female":
		return "여"
	default:
		return "기타"
	}
}

// calendarLabel maps the calendar system to its display label; anything that
// is not recognizably lunar counts as solar.
func calendarLabel(cal string) string {
	if cal == "음력" || strings.Contains(strings.ToLower(cal), "lunar") {
		return "음력"
	}
	return "양력"
}

var (
	dashRE       = regexp.MustCompile(`[—–ㅡ]`)
	multiSpaceRE = regexp.MustCompile(`\s{2,}`)
	hyphenRE     = regexp.MustCompile(`\s*-\s*`)
)

// sanitize cleans up awkward characters in rendered text: long dashes become
// spaces, runs of whitespace collapse, and hyphens get readable spacing.
func sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = dashRE.ReplaceAllString(s, " ")
	s = multiSpaceRE.ReplaceAllString(s, " ")
	s = hyphenRE.ReplaceAllString(s, " - ")
	return strings.TrimSpace(s)
}

// fillTemplate substitutes {placeholder} occurrences with vars values;
// unknown placeholders are left untouched.
func fillTemplate(tpl string, vars map[string]string) string {
	out := tpl
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
