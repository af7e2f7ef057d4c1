package analyzer

import (
	"regexp"
	"strings"

	"github.com/harborview/maya/pkg"
)

// roomTypes maps lowercased markers to canonical room names.
var roomTypes = []struct {
	Marker    string
	Canonical string
}{
	// generic markers first so the more specific ones overwrite
	{"suite", "Harbor Suite"},
	{"harbor view", "Harbor Suite"},
	{"standard", "Standard Queen"},
	{"queen", "Standard Queen"},
	{"deluxe", "Deluxe King"},
	{"king", "Deluxe King"},
	{"family", "Family Room"},
	{"executive", "Executive Suite"},
}

// datePhrases maps relative-date phrases to canonical time preferences.
var datePhrases = []struct {
	Marker string
	Value  string
}{
	{"tonight", "immediate"},
	{"today", "immediate"},
	{"right now", "immediate"},
	{"asap", "immediate"},
	{"tomorrow", "tomorrow"},
	{"this weekend", "weekend"},
	{"weekend", "weekend"},
	{"next week", "next_week"},
	{"next month", "next_month"},
}

var (
	guestCountRe   = regexp.MustCompile(`(\d+)\s*(?:guests?|people|persons?|adults?)`)
	priceRangeRe   = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	durationRe     = regexp.MustCompile(`(\d+)\s*(?:nights?|days?)`)
	confirmYesRe   = regexp.MustCompile(`\b(?:yes|yeah|yep|sure|confirm|absolutely|okay|ok)\b`)
	confirmNoRe    = regexp.MustCompile(`\b(?:no|nope|cancel|nevermind)\b`)
)

// ExtractEntities applies the ordered rule list against the lowercased
// text. Every matching rule fires; a later rule overwrites an earlier one
// on the same kind. The extraction is pure, so re-running it on the same
// input yields the same map.
func (a *Analyzer) ExtractEntities(text string) map[pkg.EntityKind]string {
	lowered := strings.ToLower(text)
	entities := make(map[pkg.EntityKind]string)

	for _, rt := range roomTypes {
		if strings.Contains(lowered, rt.Marker) {
			entities[pkg.EntityRoomType] = rt.Canonical
		}
	}

	for _, dp := range datePhrases {
		if strings.Contains(lowered, dp.Marker) {
			entities[pkg.EntityTimePreference] = dp.Value
		}
	}

	if m := guestCountRe.FindStringSubmatch(lowered); m != nil {
		entities[pkg.EntityGuestCount] = m[1]
	}

	if m := priceRangeRe.FindStringSubmatch(lowered); m != nil {
		entities[pkg.EntityPriceRange] = m[1] + "-" + m[2]
	}

	if m := durationRe.FindStringSubmatch(lowered); m != nil {
		entities[pkg.EntityDuration] = m[1]
	}

	if confirmYesRe.MatchString(lowered) {
		entities[pkg.EntityConfirmation] = "yes"
	}
	if confirmNoRe.MatchString(lowered) {
		entities[pkg.EntityConfirmation] = "no"
	}

	return entities
}
