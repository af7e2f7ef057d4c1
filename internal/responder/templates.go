package responder

import (
	"github.com/harborview/maya/pkg"
)

// family identifies a template family; one is chosen per intent.
type family string

const (
	familyGreeting     family = "greeting"
	familyBooking      family = "booking"
	familyPricing      family = "pricing"
	familyComparison   family = "comparison"
	familyAvailability family = "availability"
	familyRoomInfo     family = "room_info"
	familyEmpathy      family = "empathy"
	familyEnthusiasm   family = "enthusiasm"
	familyFallback     family = "fallback"
)

// familyFor maps each intent tag to its template family.
var familyFor = map[pkg.IntentTag]family{
	pkg.IntentGreeting:          familyGreeting,
	pkg.IntentBookingImmediate:  familyBooking,
	pkg.IntentBookingFuture:     familyBooking,
	pkg.IntentPricingInquiry:    familyPricing,
	pkg.IntentRoomComparison:    familyComparison,
	pkg.IntentAvailabilityCheck: familyAvailability,
	pkg.IntentRoomInquiry:       familyRoomInfo,
	pkg.IntentComplaint:         familyEmpathy,
	pkg.IntentCompliment:        familyEnthusiasm,
	pkg.IntentGeneralFollowUp:   familyFallback,
	pkg.IntentGeneralInquiry:    familyFallback,
}

// Canned variations per family. The variant is picked uniformly at random
// on purpose so repeated questions don't read robotic; callers that need
// determinism inject a seeded random source.
var templates = map[family][]string{
	familyGreeting: {
		"Hello! Welcome to Harborview Hotel. I'm Maya, your virtual concierge. How can I help you today?",
		"Hi there! I'm Maya from Harborview Hotel. What can I do for you?",
		"Welcome to Harborview Hotel! I'm Maya. Ask me anything about our rooms, rates or availability.",
	},
	familyBooking: {
		"Wonderful, let's get your stay arranged. I can walk you through our rooms and lock in a reservation.",
		"I'd be glad to help you book a room at Harborview. Let me pull up what we have.",
		"Great choice! Booking with us is quick. Here's what I can offer for your stay.",
	},
	familyPricing: {
		"Here's an overview of our current nightly rates.",
		"Our rates vary by room category and season. These are tonight's prices.",
		"Happy to talk numbers. Current pricing below.",
	},
	familyComparison: {
		"Good question. Here's how those rooms stack up against each other.",
		"Let me lay the options side by side for you.",
		"Each of our rooms has its own character. A quick comparison:",
	},
	familyAvailability: {
		"Let me check what's available for you. Here's the current picture.",
		"Here's our live availability right now.",
		"We do have rooms available. Current openings:",
	},
	familyRoomInfo: {
		"Here's what you should know about our rooms.",
		"Our rooms range from the cozy Standard Queen to the Harbor Suite with a full bay view.",
		"Happy to describe the rooms. A quick tour:",
	},
	familyEmpathy: {
		"I'm really sorry to hear that. Let's get this sorted out for you right away.",
		"That's not the experience we want you to have. I'll help fix this.",
		"My apologies. Thank you for telling us. Here's what I can do.",
	},
	familyEnthusiasm: {
		"Thank you so much, that truly makes our day!",
		"We're delighted you enjoyed it! Comments like yours mean a lot to the team.",
		"That's wonderful to hear, thank you!",
	},
	familyFallback: {
		"I can help with rooms, rates, availability and reservations at Harborview Hotel.",
		"I'm not entirely sure I caught that, but I can tell you about our rooms, prices or availability.",
		"Let me help with that. I know our rooms, rates and availability best.",
	},
}

// empathyPrefixes are prepended when the strategy calls for an empathetic
// tone on a non-complaint template.
var empathyPrefixes = []string{
	"I understand this can be frustrating.",
	"I hear you, and I want to make this right.",
	"Thanks for your patience.",
}

// enthusiasmSuffixes are appended for an enthusiastic tone.
var enthusiasmSuffixes = []string{
	"We'd love to host you!",
	"It's going to be a great stay!",
	"You've picked a great time to visit!",
}

// clarifyingQuestions close a reply when the approach is clarifying.
var clarifyingQuestions = map[family]string{
	familyBooking:      "Could you tell me which dates you have in mind?",
	familyPricing:      "Which room category were you curious about?",
	familyComparison:   "Which two rooms would you like me to compare?",
	familyAvailability: "Which dates should I check for you?",
	familyRoomInfo:     "Is there a particular room type you'd like to hear about?",
	familyFallback:     "Could you tell me a bit more about what you're looking for?",
}
