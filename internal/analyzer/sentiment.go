package analyzer

import (
	"strings"

	"github.com/harborview/maya/pkg"
)

var positiveWords = []string{
	"excellent", "perfect", "love", "great", "amazing", "wonderful",
	"fantastic", "awesome", "beautiful", "good", "nice", "thank",
	"happy", "best", "pleased", "lovely",
}

var negativeWords = []string{
	"terrible", "awful", "problem", "bad", "horrible", "disappointed",
	"worst", "dirty", "rude", "issue", "wrong", "complaint", "angry",
	"broken", "noisy", "unacceptable",
}

// ClassifySentiment counts occurrences of the fixed positive and negative
// lexicons. Positive needs a strict majority; ties (including 0-0) are
// neutral.
func (a *Analyzer) ClassifySentiment(text string) pkg.SentimentLabel {
	lowered := strings.ToLower(text)

	positive := 0
	for _, w := range positiveWords {
		positive += strings.Count(lowered, w)
	}
	negative := 0
	for _, w := range negativeWords {
		negative += strings.Count(lowered, w)
	}

	switch {
	case positive > negative:
		return pkg.SentimentPositive
	case negative > positive:
		return pkg.SentimentNegative
	default:
		return pkg.SentimentNeutral
	}
}
