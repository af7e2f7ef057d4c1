package memory

import (
	"context"
	"strings"
	"time"

	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/pkg"
)

// Record keys used by the engine. Preferences come from entity extraction,
// the booking stage from the intent-driven stage machine.
const (
	keyRoomType   = "pref_room_type"
	keyBudget     = "pref_budget"
	keyGuestCount = "pref_guest_count"
	keyDuration   = "pref_duration"
	keyStage      = "booking_stage"
)

const (
	journeyWindow = 5
	topicWindow   = time.Hour
	contextTurns  = 20
)

// Manager ties the record store and the turn log together and derives the
// aggregated MemoryContext the strategy selector consumes. A store failure
// never fails the turn: the session is treated as new.
type Manager struct {
	store         Store
	turns         TurnLog
	activeHorizon time.Duration
}

// NewManager creates a memory manager. activeHorizon bounds which records
// contribute to context derivation (older ones are ignored until swept).
func NewManager(store Store, turns TurnLog, activeHorizon time.Duration) *Manager {
	return &Manager{
		store:         store,
		turns:         turns,
		activeHorizon: activeHorizon,
	}
}

// Remember stores a fact for the session, last write wins.
func (m *Manager) Remember(ctx context.Context, sessionID, key, value string, importance pkg.Importance) {
	if err := m.store.Put(ctx, sessionID, key, value, importance); err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Str("key", key).Msg("memory write failed")
	}
}

// Recall returns the remembered value for the key, if any.
func (m *Manager) Recall(ctx context.Context, sessionID, key string) (string, bool) {
	record, err := m.store.Get(ctx, sessionID, key)
	if err != nil {
		if err != ErrNotFound {
			logger.Warn().Err(err).Str("session", sessionID).Str("key", key).Msg("memory read failed")
		}
		return "", false
	}
	return record.Value, true
}

// RecordAnalysis folds one analyzed utterance into session memory:
// extracted entities become preference records and the booking stage may
// advance. The stage machine never regresses.
func (m *Manager) RecordAnalysis(ctx context.Context, sessionID string, analysis pkg.AnalysisResult) {
	prefImportance := pkg.ImportanceMedium
	switch analysis.Intent {
	case pkg.IntentBookingImmediate, pkg.IntentBookingFuture:
		prefImportance = pkg.ImportanceHigh
	}

	if v, ok := analysis.Entities[pkg.EntityRoomType]; ok {
		m.Remember(ctx, sessionID, keyRoomType, v, prefImportance)
	}
	if v, ok := analysis.Entities[pkg.EntityPriceRange]; ok {
		m.Remember(ctx, sessionID, keyBudget, v, prefImportance)
	}
	if v, ok := analysis.Entities[pkg.EntityGuestCount]; ok {
		m.Remember(ctx, sessionID, keyGuestCount, v, prefImportance)
	}
	if v, ok := analysis.Entities[pkg.EntityDuration]; ok {
		m.Remember(ctx, sessionID, keyDuration, v, prefImportance)
	}

	candidate := stageFor(analysis)
	current := pkg.StageBrowsing
	if v, ok := m.Recall(ctx, sessionID, keyStage); ok {
		current = pkg.BookingStage(v)
	}
	if stageRank(candidate) > stageRank(current) {
		m.Remember(ctx, sessionID, keyStage, string(candidate), pkg.ImportanceHigh)
	}
}

// LogTurn appends the turn and returns its assigned index, -1 on failure.
func (m *Manager) LogTurn(ctx context.Context, turn pkg.ConversationTurn) int {
	idx, err := m.turns.Append(ctx, turn)
	if err != nil {
		logger.Warn().Err(err).Str("session", turn.SessionID).Msg("turn log append failed")
		return -1
	}
	return idx
}

// Context derives the aggregated view for the session. Any storage error
// degrades to an empty, brand-new-session context.
func (m *Manager) Context(ctx context.Context, sessionID string) pkg.MemoryContext {
	mc := pkg.MemoryContext{
		BookingStage:    pkg.StageBrowsing,
		StyleTally:      make(map[string]int),
		RecurringTopics: make(map[string]int),
	}

	records, err := m.store.GetAll(ctx, sessionID, m.activeHorizon)
	if err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("context derivation: store unavailable, treating session as new")
		records = nil
	}
	for _, record := range records {
		switch record.Key {
		case keyRoomType:
			mc.Preferences.RoomType = record.Value
		case keyBudget:
			mc.Preferences.Budget = record.Value
		case keyGuestCount:
			mc.Preferences.GuestCount = record.Value
		case keyDuration:
			mc.Preferences.Duration = record.Value
		case keyStage:
			mc.BookingStage = pkg.BookingStage(record.Value)
		}
	}

	turns, err := m.turns.Recent(ctx, sessionID, contextTurns)
	if err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("context derivation: turn log unavailable")
		return mc
	}

	for _, turn := range turns {
		if turn.TurnIndex+1 > mc.TurnCount {
			mc.TurnCount = turn.TurnIndex + 1
		}
		for _, style := range classifyStyle(turn.Utterance) {
			mc.StyleTally[style]++
		}
	}
	mc.CommunicationStyle = dominantStyle(mc.StyleTally)

	// emotional journey: last 5 sentiment states, oldest first
	start := len(turns) - journeyWindow
	if start < 0 {
		start = 0
	}
	for _, turn := range turns[start:] {
		mc.EmotionalJourney = append(mc.EmotionalJourney, turn.Analysis.Sentiment)
	}

	// recurring topics: mentioned more than once within the trailing hour
	cutoff := time.Now().Add(-topicWindow)
	counts := make(map[string]int)
	for _, turn := range turns {
		if turn.CreatedAt.Before(cutoff) {
			continue
		}
		if topic := topicFor(turn.Analysis.Intent); topic != "" {
			counts[topic]++
		}
	}
	for topic, count := range counts {
		if count > 1 {
			mc.RecurringTopics[topic] = count
		}
	}

	return mc
}

// StartSweeper runs the periodic permanent-removal sweep until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context, interval, olderThan time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := m.store.Sweep(ctx, olderThan)
				if err != nil {
					logger.Warn().Err(err).Msg("memory sweep failed")
					continue
				}
				if removed > 0 {
					logger.Info().Int("removed", removed).Msg("memory sweep completed")
				}
			}
		}
	}()
}

func stageRank(stage pkg.BookingStage) int {
	switch stage {
	case pkg.StageResearching:
		return 1
	case pkg.StageCheckingDates:
		return 2
	case pkg.StageReadyToBook:
		return 3
	default:
		return 0
	}
}

// stageFor maps an analyzed utterance to the furthest stage it justifies.
func stageFor(analysis pkg.AnalysisResult) pkg.BookingStage {
	if analysis.Intent == pkg.IntentBookingImmediate || analysis.Entities[pkg.EntityConfirmation] == "yes" {
		return pkg.StageReadyToBook
	}
	if analysis.Intent == pkg.IntentAvailabilityCheck || analysis.Entities[pkg.EntityTimePreference] != "" {
		return pkg.StageCheckingDates
	}
	switch analysis.Intent {
	case pkg.IntentRoomInquiry, pkg.IntentRoomComparison, pkg.IntentPricingInquiry, pkg.IntentBookingFuture:
		return pkg.StageResearching
	}
	return pkg.StageBrowsing
}

var formalMarkers = []string{"please", "would you", "could you", "thank you", "good morning", "good afternoon", "good evening"}
var casualMarkers = []string{"hey", "yeah", "cool", "gonna", "wanna", "btw"}

// classifyStyle applies lightweight textual heuristics; an utterance can
// count toward more than one style.
func classifyStyle(utterance string) []string {
	lowered := strings.ToLower(utterance)
	words := len(strings.Fields(lowered))

	var styles []string
	for _, marker := range formalMarkers {
		if strings.Contains(lowered, marker) {
			styles = append(styles, "formal")
			break
		}
	}
	for _, marker := range casualMarkers {
		if strings.Contains(lowered, marker) {
			styles = append(styles, "casual")
			break
		}
	}
	if words > 15 {
		styles = append(styles, "detailed")
	} else if words > 0 && words <= 4 {
		styles = append(styles, "direct")
	}
	return styles
}

var styleOrder = []string{"formal", "casual", "direct", "detailed"}

func dominantStyle(tally map[string]int) string {
	best := ""
	bestCount := 0
	for _, style := range styleOrder {
		if tally[style] > bestCount {
			best = style
			bestCount = tally[style]
		}
	}
	return best
}

func topicFor(intent pkg.IntentTag) string {
	switch intent {
	case pkg.IntentBookingImmediate, pkg.IntentBookingFuture:
		return "booking"
	case pkg.IntentPricingInquiry:
		return "pricing"
	case pkg.IntentRoomInquiry, pkg.IntentRoomComparison:
		return "rooms"
	case pkg.IntentAvailabilityCheck:
		return "availability"
	case pkg.IntentComplaint:
		return "service"
	default:
		return ""
	}
}
