package provider

import (
	"context"

	"github.com/harborview/maya/pkg"
)

// StaticProvider serves the canned fallback data set used when the live
// collaborator is unavailable. The numbers are deliberately round so a
// reader of the reply can tell them from live data.
type StaticProvider struct {
	rooms        []pkg.Room
	rates        []pkg.RateInfo
	availability []pkg.AvailabilityInfo
}

// NewStaticProvider creates the fallback provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		rooms: []pkg.Room{
			{Name: "Standard Queen", BaseRate: 120, MaxGuests: 2, Features: "queen bed, city view, free wifi"},
			{Name: "Deluxe King", BaseRate: 180, MaxGuests: 2, Features: "king bed, partial harbor view, workspace"},
			{Name: "Family Room", BaseRate: 220, MaxGuests: 4, Features: "two queen beds, kitchenette"},
			{Name: "Executive Suite", BaseRate: 300, MaxGuests: 3, Features: "separate living area, lounge access"},
			{Name: "Harbor Suite", BaseRate: 400, MaxGuests: 4, Features: "full bay view, balcony, soaking tub"},
		},
		rates: []pkg.RateInfo{
			{RoomName: "Standard Queen", Nightly: 120, Currency: "USD"},
			{RoomName: "Deluxe King", Nightly: 180, Currency: "USD"},
			{RoomName: "Family Room", Nightly: 220, Currency: "USD"},
			{RoomName: "Executive Suite", Nightly: 300, Currency: "USD"},
			{RoomName: "Harbor Suite", Nightly: 400, Currency: "USD"},
		},
		availability: []pkg.AvailabilityInfo{
			{RoomName: "Standard Queen", Remaining: 5},
			{RoomName: "Deluxe King", Remaining: 3},
			{RoomName: "Family Room", Remaining: 2},
			{RoomName: "Executive Suite", Remaining: 1},
			{RoomName: "Harbor Suite", Remaining: 1},
		},
	}
}

func (s *StaticProvider) Rooms(ctx context.Context) ([]pkg.Room, error) {
	return s.rooms, nil
}

func (s *StaticProvider) Pricing(ctx context.Context) ([]pkg.RateInfo, error) {
	return s.rates, nil
}

func (s *StaticProvider) Availability(ctx context.Context) ([]pkg.AvailabilityInfo, error) {
	return s.availability, nil
}
