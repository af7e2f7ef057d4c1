package strategy

import (
	"strings"

	"github.com/harborview/maya/pkg"
)

// Select maps an analysis result plus memory context to a response
// strategy. It is a pure function so the selector can be exercised in
// isolation from storage and generation.
//
// Rules fire in fixed precedence; each rule only sets fields no earlier
// rule has claimed, so e.g. negative sentiment plus high complexity keeps
// the empathetic tone while still getting the detailed structure.
func Select(analysis pkg.AnalysisResult, mc pkg.MemoryContext) pkg.Strategy {
	var s pkg.Strategy

	// 1. negative sentiment
	if analysis.Sentiment == pkg.SentimentNegative {
		s.Tone = pkg.ToneEmpathetic
		s.Approach = pkg.ApproachProblemSolving
	}

	// 2. confused or ambiguous utterance
	if isAmbiguous(analysis) {
		if s.Approach == "" {
			s.Approach = pkg.ApproachClarifying
		}
		s.FollowUp = true
	}

	// 3. high complexity
	if analysis.Complexity >= 0.7 {
		if s.Structure == "" {
			s.Structure = pkg.StructureStepByStep
		}
		if s.Approach == "" {
			s.Approach = pkg.ApproachComprehensive
		}
	}

	// 4. positive sentiment
	if analysis.Sentiment == pkg.SentimentPositive && s.Tone == "" {
		s.Tone = pkg.ToneEnthusiastic
	}

	// 5. defaults
	if s.Tone == "" {
		s.Tone = pkg.ToneHelpful
	}
	if s.Structure == "" {
		s.Structure = pkg.StructureSimple
	}
	if s.Approach == "" {
		s.Approach = pkg.ApproachDirect
	}

	return s
}

var vaguePronouns = []string{"it", "that", "this", "those", "them"}

// isAmbiguous flags entity-poor, very short, or pronoun-heavy utterances
// that most likely need a clarifying question. Greetings are short by
// nature and are not ambiguous.
func isAmbiguous(analysis pkg.AnalysisResult) bool {
	if analysis.Intent == pkg.IntentGreeting || analysis.Intent == pkg.IntentCompliment {
		return false
	}

	words := strings.Fields(strings.ToLower(analysis.Raw))
	if len(words) > 0 && len(words) < 3 && len(analysis.Entities) == 0 {
		return true
	}

	if analysis.Intent == pkg.IntentGeneralFollowUp && len(analysis.Entities) == 0 {
		for _, word := range words {
			for _, pronoun := range vaguePronouns {
				if word == pronoun {
					return true
				}
			}
		}
	}

	return false
}
