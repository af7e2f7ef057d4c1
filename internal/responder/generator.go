package responder

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/harborview/maya/internal/provider"
	"github.com/harborview/maya/pkg"
)

// Personality modulates phrasing. Mood shifts how warm prefixes read,
// energy controls how much emphasis an enthusiastic reply gets.
type Personality struct {
	Mood   float64 `yaml:"mood"`   // 0 flat .. 1 warm
	Energy float64 `yaml:"energy"` // 0 calm .. 1 excited
}

// DefaultPersonality is Maya's baseline disposition.
var DefaultPersonality = Personality{Mood: 0.7, Energy: 0.6}

// Result is a generated reply plus its widget suggestions.
type Result struct {
	Reply        string            `json:"reply"`
	QuickActions []pkg.QuickAction `json:"quick_actions"`
	FollowUps    []string          `json:"follow_ups"`
}

// Generator composes replies from template families. The random source is
// injectable so tests can pin the variant choice; production seeds from
// the clock.
type Generator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	personality Personality
}

// New creates a generator. A nil rng gets a time-seeded source.
func New(rng *rand.Rand, personality Personality) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, personality: personality}
}

func (g *Generator) pick(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return variants[g.rng.Intn(len(variants))]
}

// Generate composes the reply for one turn. kbResponse, when non-empty,
// is a knowledge-base template that replaces the family base text.
// snapshot supplies the room data section; it is never nil in practice
// because FetchSnapshot degrades to static data.
func (g *Generator) Generate(analysis pkg.AnalysisResult, strat pkg.Strategy, mc pkg.MemoryContext, snapshot provider.Snapshot, kbResponse string) Result {
	fam, ok := familyFor[analysis.Intent]
	if !ok {
		fam = familyFallback
	}

	base := kbResponse
	if base == "" {
		base = g.pick(templates[fam])
	}

	if strat.Structure == pkg.StructureStepByStep {
		base = numberSentences(base)
	}

	var b strings.Builder
	b.WriteString("<p>")
	if strat.Tone == pkg.ToneEmpathetic && fam != familyEmpathy {
		b.WriteString(g.pick(empathyPrefixes))
		b.WriteString(" ")
	}
	b.WriteString(base)
	if strat.Tone == pkg.ToneEnthusiastic && g.personality.Mood >= 0.3 {
		b.WriteString(" ")
		suffix := g.pick(enthusiasmSuffixes)
		if g.personality.Energy > 0.7 {
			suffix = strings.TrimSuffix(suffix, "!") + "!!"
		}
		b.WriteString(suffix)
	}
	b.WriteString("</p>")

	if data := dataSection(fam, snapshot, mc); data != "" {
		b.WriteString(data)
	}

	if strat.Approach == pkg.ApproachClarifying {
		question, ok := clarifyingQuestions[fam]
		if !ok {
			question = clarifyingQuestions[familyFallback]
		}
		b.WriteString("<p>")
		b.WriteString(question)
		b.WriteString("</p>")
	}

	return Result{
		Reply:        b.String(),
		QuickActions: QuickActions(analysis.Intent),
		FollowUps:    FollowUps(analysis, mc),
	}
}

// dataSection renders the room data block appropriate for the family.
func dataSection(fam family, snapshot provider.Snapshot, mc pkg.MemoryContext) string {
	var lines []string

	switch fam {
	case familyPricing:
		for _, rate := range snapshot.Rates {
			lines = append(lines, fmt.Sprintf("<strong>%s</strong> — %.0f %s/night", rate.RoomName, rate.Nightly, rate.Currency))
		}
	case familyAvailability, familyBooking:
		for _, avail := range snapshot.Availability {
			if avail.Remaining <= 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("<strong>%s</strong> — %d available", avail.RoomName, avail.Remaining))
		}
	case familyRoomInfo, familyComparison:
		for _, room := range snapshot.Rooms {
			lines = append(lines, fmt.Sprintf("<strong>%s</strong> (up to %d guests) — %s", room.Name, room.MaxGuests, room.Features))
		}
	default:
		return ""
	}

	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(strings.Join(lines, "<br>"))
	b.WriteString("</p>")
	if !snapshot.Live {
		b.WriteString("<p><em>Live data is unavailable right now, so these are our standard details.</em></p>")
	}
	return b.String()
}

// numberSentences rewrites the base text as a numbered list of its
// sentences.
func numberSentences(text string) string {
	parts := strings.Split(text, ". ")
	if len(parts) < 2 {
		return text
	}

	var b strings.Builder
	for i, part := range parts {
		part = strings.TrimSuffix(strings.TrimSpace(part), ".")
		if part == "" {
			continue
		}
		if i > 0 {
			b.WriteString("<br>")
		}
		fmt.Fprintf(&b, "%d. %s.", i+1, part)
	}
	return b.String()
}
