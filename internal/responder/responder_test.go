package responder

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/maya/internal/provider"
	"github.com/harborview/maya/pkg"
)

func testSnapshot(t *testing.T) provider.Snapshot {
	t.Helper()
	return provider.FetchSnapshot(context.Background(), provider.NewStaticProvider())
}

func newTestGenerator(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)), DefaultPersonality)
}

func defaultStrategy() pkg.Strategy {
	return pkg.Strategy{Tone: pkg.ToneHelpful, Structure: pkg.StructureSimple, Approach: pkg.ApproachDirect}
}

func TestGreetingReplyIsOneOfTheVariants(t *testing.T) {
	g := newTestGenerator(1)
	analysis := pkg.AnalysisResult{Raw: "hi", Intent: pkg.IntentGreeting, Sentiment: pkg.SentimentNeutral, Entities: map[pkg.EntityKind]string{}}

	// randomization is intentional: assert set membership, not one string
	for seed := int64(0); seed < 8; seed++ {
		g = newTestGenerator(seed)
		result := g.Generate(analysis, defaultStrategy(), pkg.MemoryContext{}, testSnapshot(t), "")

		matched := false
		for _, variant := range templates[familyGreeting] {
			if result.Reply == "<p>"+variant+"</p>" {
				matched = true
				break
			}
		}
		require.True(t, matched, "reply %q is not a greeting variant", result.Reply)
		assert.Empty(t, result.FollowUps, "greeting must not append follow-up questions")
	}
}

func TestAvailabilityReplyStatesAvailability(t *testing.T) {
	g := newTestGenerator(42)
	analysis := pkg.AnalysisResult{
		Raw:       "do you have any rooms available tonight",
		Intent:    pkg.IntentAvailabilityCheck,
		Sentiment: pkg.SentimentNeutral,
		Entities:  map[pkg.EntityKind]string{pkg.EntityTimePreference: "immediate"},
	}

	result := g.Generate(analysis, defaultStrategy(), pkg.MemoryContext{}, testSnapshot(t), "")

	assert.Contains(t, strings.ToLower(result.Reply), "availab")
	assert.NotEmpty(t, result.QuickActions)
}

func TestEmpathyPrefixOnNegativeTone(t *testing.T) {
	g := newTestGenerator(7)
	analysis := pkg.AnalysisResult{
		Raw:       "the wifi never works in my room",
		Intent:    pkg.IntentRoomInquiry,
		Sentiment: pkg.SentimentNegative,
		Entities:  map[pkg.EntityKind]string{},
	}
	strat := pkg.Strategy{Tone: pkg.ToneEmpathetic, Structure: pkg.StructureSimple, Approach: pkg.ApproachProblemSolving}

	result := g.Generate(analysis, strat, pkg.MemoryContext{}, testSnapshot(t), "")

	prefixed := false
	for _, prefix := range empathyPrefixes {
		if strings.Contains(result.Reply, prefix) {
			prefixed = true
			break
		}
	}
	assert.True(t, prefixed, "expected an empathy prefix in %q", result.Reply)
}

func TestEnthusiasmSuffixAppended(t *testing.T) {
	g := newTestGenerator(3)
	analysis := pkg.AnalysisResult{
		Raw:       "the harbor suite looks wonderful, can I book it",
		Intent:    pkg.IntentBookingFuture,
		Sentiment: pkg.SentimentPositive,
		Entities:  map[pkg.EntityKind]string{pkg.EntityRoomType: "Harbor Suite"},
	}
	strat := pkg.Strategy{Tone: pkg.ToneEnthusiastic, Structure: pkg.StructureSimple, Approach: pkg.ApproachDirect}

	result := g.Generate(analysis, strat, pkg.MemoryContext{}, testSnapshot(t), "")

	suffixed := false
	for _, suffix := range enthusiasmSuffixes {
		if strings.Contains(result.Reply, strings.TrimSuffix(suffix, "!")) {
			suffixed = true
			break
		}
	}
	assert.True(t, suffixed, "expected an enthusiasm suffix in %q", result.Reply)
}

func TestClarifyingQuestionAppended(t *testing.T) {
	g := newTestGenerator(9)
	analysis := pkg.AnalysisResult{
		Raw:       "rooms?",
		Intent:    pkg.IntentRoomInquiry,
		Sentiment: pkg.SentimentNeutral,
		Entities:  map[pkg.EntityKind]string{},
	}
	strat := pkg.Strategy{Tone: pkg.ToneHelpful, Structure: pkg.StructureSimple, Approach: pkg.ApproachClarifying, FollowUp: true}

	result := g.Generate(analysis, strat, pkg.MemoryContext{}, testSnapshot(t), "")
	assert.Contains(t, result.Reply, clarifyingQuestions[familyRoomInfo])
}

func TestKnowledgeBaseResponseOverridesTemplate(t *testing.T) {
	g := newTestGenerator(5)
	analysis := pkg.AnalysisResult{
		Raw:       "do you allow pets",
		Intent:    pkg.IntentGeneralInquiry,
		Sentiment: pkg.SentimentNeutral,
		Entities:  map[pkg.EntityKind]string{},
	}

	kb := "Pets up to 15kg are welcome for a small nightly fee."
	result := g.Generate(analysis, defaultStrategy(), pkg.MemoryContext{}, testSnapshot(t), kb)

	assert.Contains(t, result.Reply, kb)
}

func TestFollowUpsForMissingEntities(t *testing.T) {
	analysis := pkg.AnalysisResult{
		Raw:       "I want to book a room",
		Intent:    pkg.IntentBookingFuture,
		Sentiment: pkg.SentimentNeutral,
		Entities:  map[pkg.EntityKind]string{},
	}

	questions := FollowUps(analysis, pkg.MemoryContext{})
	require.Len(t, questions, 2, "follow-ups are capped at two")

	// known preferences suppress the corresponding question
	mc := pkg.MemoryContext{Preferences: pkg.Preferences{GuestCount: "2", RoomType: "Deluxe King"}}
	questions = FollowUps(analysis, mc)
	require.Len(t, questions, 1)
	assert.Equal(t, followUpQuestions[pkg.EntityTimePreference], questions[0])
}

func TestNumberSentences(t *testing.T) {
	numbered := numberSentences("First we check dates. Then we pick a room. Then you confirm.")
	assert.Equal(t, "1. First we check dates.<br>2. Then we pick a room.<br>3. Then you confirm.", numbered)

	// single sentences are left alone
	assert.Equal(t, "Just one thing", numberSentences("Just one thing"))
}

func TestFallbackSnapshotIsMarked(t *testing.T) {
	g := newTestGenerator(11)
	analysis := pkg.AnalysisResult{
		Raw:       "how much are the rooms",
		Intent:    pkg.IntentPricingInquiry,
		Sentiment: pkg.SentimentNeutral,
		Entities:  map[pkg.EntityKind]string{},
	}

	snapshot := testSnapshot(t)
	snapshot.Live = false
	result := g.Generate(analysis, defaultStrategy(), pkg.MemoryContext{}, snapshot, "")

	assert.Contains(t, result.Reply, "standard details")
}
