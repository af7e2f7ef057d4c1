package analyzer

import (
	"time"

	"github.com/harborview/maya/pkg"
)

// Analyzer turns a raw utterance into a classified intent, a sentiment
// label, extracted entities and a complexity estimate. It is stateless;
// all session state lives in the memory store.
type Analyzer struct{}

// New creates a new lexical analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the full lexical pass over one utterance. It never fails:
// an utterance nothing matches comes back as general_inquiry / neutral
// with no entities.
func (a *Analyzer) Analyze(text string) pkg.AnalysisResult {
	intent := a.ClassifyIntent(text)
	sentiment := a.ClassifySentiment(text)
	entities := a.ExtractEntities(text)

	return pkg.AnalysisResult{
		Raw:        text,
		Intent:     intent,
		Sentiment:  sentiment,
		Entities:   entities,
		Complexity: a.EstimateComplexity(intent, sentiment, entities),
		Timestamp:  time.Now(),
	}
}

// complexityBase holds the base complexity per intent class.
var complexityBase = map[pkg.IntentTag]float64{
	pkg.IntentGreeting:          0.1,
	pkg.IntentCompliment:        0.2,
	pkg.IntentGeneralInquiry:    0.3,
	pkg.IntentGeneralFollowUp:   0.3,
	pkg.IntentRoomInquiry:       0.4,
	pkg.IntentPricingInquiry:    0.4,
	pkg.IntentAvailabilityCheck: 0.4,
	pkg.IntentBookingImmediate:  0.5,
	pkg.IntentBookingFuture:     0.5,
	pkg.IntentComplaint:         0.6,
	pkg.IntentRoomComparison:    0.7,
}

// EstimateComplexity combines the intent's base value with sentiment and
// entity adjustments: +0.2 for negative, -0.1 for positive, +0.1 per
// extracted entity, clamped to [0,1].
func (a *Analyzer) EstimateComplexity(intent pkg.IntentTag, sentiment pkg.SentimentLabel, entities map[pkg.EntityKind]string) float64 {
	c, ok := complexityBase[intent]
	if !ok {
		c = 0.3
	}

	switch sentiment {
	case pkg.SentimentNegative:
		c += 0.2
	case pkg.SentimentPositive:
		c -= 0.1
	}

	c += 0.1 * float64(len(entities))

	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}
