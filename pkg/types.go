package pkg

import (
	"time"
)

// Core types for the Maya dialogue engine.

// IntentTag identifies the classified purpose of a user utterance.
type IntentTag string

const (
	IntentBookingImmediate  IntentTag = "booking_immediate"
	IntentBookingFuture     IntentTag = "booking_future"
	IntentRoomInquiry       IntentTag = "room_inquiry"
	IntentRoomComparison    IntentTag = "room_comparison"
	IntentPricingInquiry    IntentTag = "pricing_inquiry"
	IntentAvailabilityCheck IntentTag = "availability_check"
	IntentGreeting          IntentTag = "greeting"
	IntentComplaint         IntentTag = "complaint"
	IntentCompliment        IntentTag = "compliment"
	IntentGeneralFollowUp   IntentTag = "general_follow_up"
	IntentGeneralInquiry    IntentTag = "general_inquiry"
)

// SentimentLabel is the detected sentiment of an utterance.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// EntityKind identifies the type of a structured value extracted from text.
type EntityKind string

const (
	EntityRoomType       EntityKind = "room_type"
	EntityTimePreference EntityKind = "time_preference"
	EntityGuestCount     EntityKind = "guest_count"
	EntityPriceRange     EntityKind = "price_range"
	EntityDuration       EntityKind = "duration"
	EntityConfirmation   EntityKind = "confirmation"
)

// AnalysisResult contains structured output from lexical analysis.
// Produced fresh per utterance and carried on the turn log.
type AnalysisResult struct {
	Raw        string                `json:"raw"`
	Intent     IntentTag             `json:"intent"`
	Sentiment  SentimentLabel        `json:"sentiment"`
	Entities   map[EntityKind]string `json:"entities"`
	Complexity float64               `json:"complexity"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Strategy tone values.
const (
	ToneEmpathetic   = "empathetic"
	ToneEnthusiastic = "enthusiastic"
	ToneHelpful      = "helpful"
)

// Strategy structure values.
const (
	StructureSimple     = "simple"
	StructureStepByStep = "step_by_step"
)

// Strategy approach values.
const (
	ApproachProblemSolving = "problem_solving"
	ApproachClarifying     = "clarifying"
	ApproachComprehensive  = "comprehensive"
	ApproachDirect         = "direct"
)

// Strategy is the tone/structure/approach chosen for a reply before any
// text is generated.
type Strategy struct {
	Tone      string `json:"tone"`
	Structure string `json:"structure"`
	Approach  string `json:"approach"`
	FollowUp  bool   `json:"follow_up"`
}

// Importance tags a memory record for context derivation.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// MemoryRecord is a single key/value fact remembered for a session.
// Last write wins per key; AccessCount increments on every recall.
type MemoryRecord struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Importance  Importance `json:"importance"`
	CreatedAt   time.Time  `json:"created_at"`
	AccessCount int        `json:"access_count"`
}

// BookingStage is the advance-only booking progress machine.
type BookingStage string

const (
	StageBrowsing      BookingStage = "browsing"
	StageResearching   BookingStage = "researching"
	StageCheckingDates BookingStage = "checking_dates"
	StageReadyToBook   BookingStage = "ready_to_book"
)

// Preferences aggregates what the guest has told us so far.
type Preferences struct {
	RoomType   string `json:"room_type,omitempty"`
	Budget     string `json:"budget,omitempty"`
	GuestCount string `json:"guest_count,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// MemoryContext is the aggregated view derived from a session's records
// and turn log. An empty context is valid for a brand-new session.
type MemoryContext struct {
	Preferences        Preferences      `json:"preferences"`
	EmotionalJourney   []SentimentLabel `json:"emotional_journey"`
	BookingStage       BookingStage     `json:"booking_stage"`
	CommunicationStyle string           `json:"communication_style"`
	StyleTally         map[string]int   `json:"style_tally"`
	RecurringTopics    map[string]int   `json:"recurring_topics"`
	TurnCount          int              `json:"turn_count"`
}

// ConversationTurn is one entry in the append-only per-session turn log.
type ConversationTurn struct {
	SessionID string         `json:"session_id"`
	TurnIndex int            `json:"turn_index"`
	Utterance string         `json:"utterance"`
	Analysis  AnalysisResult `json:"analysis"`
	Reply     string         `json:"reply"`
	Strategy  Strategy       `json:"strategy"`
	CreatedAt time.Time      `json:"created_at"`
}

// KnowledgeEntry is one keyword-indexed reply template. Priority is
// bounded in [0,100] and mutated only by the reinforcement loop.
type KnowledgeEntry struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Keywords   []string `json:"keywords"`
	Response   string   `json:"response"`
	Priority   int      `json:"priority"`
	UsageCount int      `json:"usage_count"`
}

// Satisfaction is the explicit user verdict on a reply.
type Satisfaction string

const (
	SatisfactionHelpful   Satisfaction = "helpful"
	SatisfactionNeutral   Satisfaction = "neutral"
	SatisfactionUnhelpful Satisfaction = "unhelpful"
)

// FeedbackRecord is an append-only feedback log entry.
type FeedbackRecord struct {
	Query        string       `json:"query"`
	Response     string       `json:"response"`
	Satisfaction Satisfaction `json:"satisfaction"`
	CreatedAt    time.Time    `json:"created_at"`
}

// QuickAction is a suggested widget action attached to a reply.
type QuickAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Room describes one sellable room category.
type Room struct {
	Name      string  `json:"name"`
	BaseRate  float64 `json:"base_rate"`
	MaxGuests int     `json:"max_guests"`
	Features  string  `json:"features"`
}

// RateInfo is a nightly rate snapshot for a room category.
type RateInfo struct {
	RoomName string  `json:"room_name"`
	Nightly  float64 `json:"nightly"`
	Currency string  `json:"currency"`
}

// AvailabilityInfo is a rooms-left snapshot for a room category.
type AvailabilityInfo struct {
	RoomName  string `json:"room_name"`
	Remaining int    `json:"remaining"`
}
