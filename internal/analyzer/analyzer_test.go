package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/maya/pkg"
)

func TestClassifyIntentPerFamily(t *testing.T) {
	a := New()

	cases := []struct {
		text string
		want pkg.IntentTag
	}{
		{"I want to book now, tonight if possible", pkg.IntentBookingImmediate},
		{"planning a reservation for next month", pkg.IntentBookingFuture},
		{"tell me about the amenities and the balcony", pkg.IntentRoomInquiry},
		{"what's the difference between them, which one is better", pkg.IntentRoomComparison},
		{"how much does it cost, any discount", pkg.IntentPricingInquiry},
		{"do you have any rooms, what's the availability", pkg.IntentAvailabilityCheck},
		{"good morning, greetings", pkg.IntentGreeting},
		{"this is unacceptable, the shower is broken and dirty", pkg.IntentComplaint},
		{"thank you, the stay was wonderful, love it", pkg.IntentCompliment},
		{"what about breakfast, anything else included", pkg.IntentGeneralFollowUp},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, a.ClassifyIntent(tc.text), "text: %q", tc.text)
	}
}

func TestClassifyIntentNoMatchDefaults(t *testing.T) {
	a := New()
	assert.Equal(t, pkg.IntentGeneralInquiry, a.ClassifyIntent("zzz qqq"))
	assert.Equal(t, pkg.IntentGeneralInquiry, a.ClassifyIntent(""))
}

func TestClassifySentiment(t *testing.T) {
	a := New()

	assert.Equal(t, pkg.SentimentPositive, a.ClassifySentiment("excellent, perfect, love it"))
	assert.Equal(t, pkg.SentimentNegative, a.ClassifySentiment("terrible, awful problem"))
	assert.Equal(t, pkg.SentimentNeutral, a.ClassifySentiment(""))
	// one of each cancels out
	assert.Equal(t, pkg.SentimentNeutral, a.ClassifySentiment("great but noisy"))
}

func TestExtractEntities(t *testing.T) {
	a := New()

	entities := a.ExtractEntities("a deluxe room for 2 guests this weekend, budget 100-200, staying 3 nights, yes please")

	assert.Equal(t, "Deluxe King", entities[pkg.EntityRoomType])
	assert.Equal(t, "weekend", entities[pkg.EntityTimePreference])
	assert.Equal(t, "2", entities[pkg.EntityGuestCount])
	assert.Equal(t, "100-200", entities[pkg.EntityPriceRange])
	assert.Equal(t, "3", entities[pkg.EntityDuration])
	assert.Equal(t, "yes", entities[pkg.EntityConfirmation])
}

func TestExtractEntitiesIdempotent(t *testing.T) {
	a := New()
	text := "executive suite for 4 people tomorrow"

	first := a.ExtractEntities(text)
	second := a.ExtractEntities(text)

	require.Equal(t, first, second)
	assert.Equal(t, "Executive Suite", first[pkg.EntityRoomType])
	assert.Equal(t, "tomorrow", first[pkg.EntityTimePreference])
}

func TestExtractEntitiesTonightMapsToImmediate(t *testing.T) {
	a := New()
	entities := a.ExtractEntities("do you have any rooms available tonight")
	assert.Equal(t, "immediate", entities[pkg.EntityTimePreference])
}

func TestExtractEntitiesEmpty(t *testing.T) {
	a := New()
	assert.Empty(t, a.ExtractEntities("hmm"))
}

func TestEstimateComplexityBounds(t *testing.T) {
	a := New()

	intents := []pkg.IntentTag{
		pkg.IntentGreeting, pkg.IntentBookingImmediate, pkg.IntentRoomComparison,
		pkg.IntentComplaint, pkg.IntentGeneralInquiry, pkg.IntentTag("unknown"),
	}
	sentiments := []pkg.SentimentLabel{
		pkg.SentimentPositive, pkg.SentimentNegative, pkg.SentimentNeutral,
	}

	entities := map[pkg.EntityKind]string{}
	for i := 0; i <= len(allEntityKinds); i++ {
		for _, intent := range intents {
			for _, sentiment := range sentiments {
				c := a.EstimateComplexity(intent, sentiment, entities)
				require.GreaterOrEqual(t, c, 0.0)
				require.LessOrEqual(t, c, 1.0)
			}
		}
		if i < len(allEntityKinds) {
			entities[allEntityKinds[i]] = "x"
		}
	}
}

var allEntityKinds = []pkg.EntityKind{
	pkg.EntityRoomType, pkg.EntityTimePreference, pkg.EntityGuestCount,
	pkg.EntityPriceRange, pkg.EntityDuration, pkg.EntityConfirmation,
}

func TestAnalyzeNeverFails(t *testing.T) {
	a := New()

	for _, text := range []string{"", "   ", "!!!", "zzz", "hi"} {
		result := a.Analyze(text)
		assert.NotEmpty(t, result.Intent)
		assert.NotEmpty(t, result.Sentiment)
		assert.NotNil(t, result.Entities)
		assert.GreaterOrEqual(t, result.Complexity, 0.0)
		assert.LessOrEqual(t, result.Complexity, 1.0)
	}
}

func TestAnalyzeGreeting(t *testing.T) {
	a := New()
	result := a.Analyze("hi")
	assert.Equal(t, pkg.IntentGreeting, result.Intent)
	assert.Equal(t, pkg.SentimentNeutral, result.Sentiment)
}
