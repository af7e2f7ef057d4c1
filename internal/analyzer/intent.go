package analyzer

import (
	"strings"

	"github.com/harborview/maya/pkg"
)

// intentRule binds an intent tag to its keyword list. Rules are scored by
// summed keyword length so that specific phrases ("do you have") outweigh
// a pile of short generic hits.
type intentRule struct {
	Tag      pkg.IntentTag
	Keywords []string
}

// intentRules is scanned in declaration order; on a score tie the earlier
// declared intent wins. Reordering this slice changes tie-break results.
var intentRules = []intentRule{
	{pkg.IntentBookingImmediate, []string{
		"book now", "reserve now", "tonight", "right now", "immediately",
		"check in today", "walk in", "as soon as possible",
	}},
	{pkg.IntentBookingFuture, []string{
		"book", "reserve", "reservation", "next week", "next month",
		"planning", "in advance", "upcoming trip", "for later",
	}},
	{pkg.IntentRoomInquiry, []string{
		"room", "suite", "amenities", "tell me about", "what kind of",
		"bed", "view", "balcony", "smoking",
	}},
	{pkg.IntentRoomComparison, []string{
		"compare", "difference", "versus", "which one", "better",
		"or the", "what's the difference",
	}},
	{pkg.IntentPricingInquiry, []string{
		"price", "cost", "rate", "how much", "expensive", "cheap",
		"budget", "fee", "discount", "deal",
	}},
	{pkg.IntentAvailabilityCheck, []string{
		"available", "availability", "vacancy", "vacancies",
		"do you have", "any rooms", "free rooms", "still open",
	}},
	{pkg.IntentGreeting, []string{
		"hello", "hi", "hey", "good morning", "good afternoon",
		"good evening", "greetings",
	}},
	{pkg.IntentComplaint, []string{
		"complaint", "problem", "issue", "terrible", "awful",
		"disappointed", "not working", "dirty", "broken", "unacceptable",
	}},
	{pkg.IntentCompliment, []string{
		"thank", "great", "excellent", "amazing", "wonderful",
		"love it", "perfect", "awesome",
	}},
	{pkg.IntentGeneralFollowUp, []string{
		"what about", "what else", "anything else", "also", "more about",
		"and the", "one more",
	}},
	{pkg.IntentGeneralInquiry, []string{
		"question", "information", "help", "wondering",
	}},
}

// ClassifyIntent scores every known intent against the lowercased text and
// returns the argmax. Score per intent is the sum of len(keyword)*2 over
// keywords found as substrings, which deliberately favors longer, more
// specific phrases over keyword count. All-zero scores degrade to
// general_inquiry.
func (a *Analyzer) ClassifyIntent(text string) pkg.IntentTag {
	lowered := strings.ToLower(text)

	best := pkg.IntentGeneralInquiry
	bestScore := 0
	for _, rule := range intentRules {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				score += len(kw) * 2
			}
		}
		// strict > keeps first-declared-wins on ties
		if score > bestScore {
			best = rule.Tag
			bestScore = score
		}
	}

	return best
}
