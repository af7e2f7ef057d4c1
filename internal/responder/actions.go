package responder

import (
	"github.com/harborview/maya/pkg"
)

// quickActionsFor maps intents to up to four suggested widget actions.
var quickActionsFor = map[pkg.IntentTag][]pkg.QuickAction{
	pkg.IntentGreeting: {
		{Label: "View rooms", Action: "view_rooms"},
		{Label: "Check availability", Action: "check_availability"},
		{Label: "See rates", Action: "view_pricing"},
	},
	pkg.IntentBookingImmediate: {
		{Label: "Book now", Action: "start_booking"},
		{Label: "Check availability", Action: "check_availability"},
		{Label: "Call reception", Action: "call_hotel"},
	},
	pkg.IntentBookingFuture: {
		{Label: "Start booking", Action: "start_booking"},
		{Label: "View rooms", Action: "view_rooms"},
		{Label: "See rates", Action: "view_pricing"},
	},
	pkg.IntentPricingInquiry: {
		{Label: "See all rates", Action: "view_pricing"},
		{Label: "Book now", Action: "start_booking"},
		{Label: "Current offers", Action: "view_offers"},
	},
	pkg.IntentRoomComparison: {
		{Label: "View rooms", Action: "view_rooms"},
		{Label: "See rates", Action: "view_pricing"},
	},
	pkg.IntentAvailabilityCheck: {
		{Label: "Book now", Action: "start_booking"},
		{Label: "View rooms", Action: "view_rooms"},
		{Label: "See rates", Action: "view_pricing"},
	},
	pkg.IntentRoomInquiry: {
		{Label: "View rooms", Action: "view_rooms"},
		{Label: "Check availability", Action: "check_availability"},
	},
	pkg.IntentComplaint: {
		{Label: "Talk to a human", Action: "contact_staff"},
		{Label: "Call reception", Action: "call_hotel"},
	},
	pkg.IntentCompliment: {
		{Label: "Leave a review", Action: "leave_review"},
	},
}

// expectedEntities lists which entities a reply for an intent ideally has;
// missing ones become follow-up questions, capped at two.
var expectedEntities = map[pkg.IntentTag][]pkg.EntityKind{
	pkg.IntentBookingImmediate:  {pkg.EntityGuestCount, pkg.EntityRoomType},
	pkg.IntentBookingFuture:     {pkg.EntityTimePreference, pkg.EntityGuestCount, pkg.EntityRoomType},
	pkg.IntentAvailabilityCheck: {pkg.EntityTimePreference, pkg.EntityGuestCount},
	pkg.IntentPricingInquiry:    {pkg.EntityRoomType},
	pkg.IntentRoomComparison:    {pkg.EntityRoomType},
}

var followUpQuestions = map[pkg.EntityKind]string{
	pkg.EntityGuestCount:     "How many guests will be staying?",
	pkg.EntityRoomType:       "Do you have a room type in mind?",
	pkg.EntityTimePreference: "When are you planning to stay?",
	pkg.EntityDuration:       "How many nights are you thinking of?",
	pkg.EntityPriceRange:     "Do you have a budget in mind?",
}

// QuickActions returns the suggested actions for an intent (may be empty).
func QuickActions(intent pkg.IntentTag) []pkg.QuickAction {
	return quickActionsFor[intent]
}

// FollowUps returns up to two questions covering entities the user has
// not supplied yet, either in this utterance or earlier in the session.
func FollowUps(analysis pkg.AnalysisResult, mc pkg.MemoryContext) []string {
	expected := expectedEntities[analysis.Intent]
	if len(expected) == 0 {
		return nil
	}

	var questions []string
	for _, kind := range expected {
		if _, ok := analysis.Entities[kind]; ok {
			continue
		}
		if knownFromMemory(kind, mc) {
			continue
		}
		if q, ok := followUpQuestions[kind]; ok {
			questions = append(questions, q)
		}
		if len(questions) == 2 {
			break
		}
	}
	return questions
}

func knownFromMemory(kind pkg.EntityKind, mc pkg.MemoryContext) bool {
	switch kind {
	case pkg.EntityRoomType:
		return mc.Preferences.RoomType != ""
	case pkg.EntityGuestCount:
		return mc.Preferences.GuestCount != ""
	case pkg.EntityDuration:
		return mc.Preferences.Duration != ""
	case pkg.EntityPriceRange:
		return mc.Preferences.Budget != ""
	}
	return false
}
