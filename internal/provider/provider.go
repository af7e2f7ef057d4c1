package provider

import (
	"context"

	"github.com/harborview/maya/pkg"
)

// Snapshot is one coherent view of rooms, rates and availability. Live
// reports whether the data came from the live collaborator or from the
// canned fallback set.
type Snapshot struct {
	Rooms        []pkg.Room             `json:"rooms"`
	Rates        []pkg.RateInfo         `json:"rates"`
	Availability []pkg.AvailabilityInfo `json:"availability"`
	Live         bool                   `json:"live"`
}

// RoomDataProvider supplies room, pricing and availability data. The
// dialogue engine treats it as a black box and must tolerate failure.
type RoomDataProvider interface {
	Rooms(ctx context.Context) ([]pkg.Room, error)
	Pricing(ctx context.Context) ([]pkg.RateInfo, error)
	Availability(ctx context.Context) ([]pkg.AvailabilityInfo, error)
}

// FetchSnapshot gathers a full snapshot from the provider, falling back
// to static data for any piece that fails. Never returns an error.
func FetchSnapshot(ctx context.Context, p RoomDataProvider) Snapshot {
	static := NewStaticProvider()
	snapshot := Snapshot{Live: true}

	// A deployment running without a live collaborator serves the canned
	// set directly; that is still not live data.
	if _, canned := p.(*StaticProvider); canned {
		snapshot.Live = false
	}

	rooms, err := p.Rooms(ctx)
	if err != nil || len(rooms) == 0 {
		rooms, _ = static.Rooms(ctx)
		snapshot.Live = false
	}
	snapshot.Rooms = rooms

	rates, err := p.Pricing(ctx)
	if err != nil || len(rates) == 0 {
		rates, _ = static.Pricing(ctx)
		snapshot.Live = false
	}
	snapshot.Rates = rates

	availability, err := p.Availability(ctx)
	if err != nil || len(availability) == 0 {
		availability, _ = static.Availability(ctx)
		snapshot.Live = false
	}
	snapshot.Availability = availability

	return snapshot
}
