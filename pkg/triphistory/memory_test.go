package triphistory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"github.com/schoolfleet/schoolfleet/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the mongo implementations'
// semantics, including the conditional advance update.

type memoryVehicleRepo struct {
	vehicles map[primitive.ObjectID]*fleet.Vehicle
}

func (r *memoryVehicleRepo) Get(_ context.Context, id primitive.ObjectID) (*fleet.Vehicle, error) {
	return r.vehicles[id], nil
}

type memoryDriverRepo struct {
	drivers map[primitive.ObjectID]*fleet.Driver
}

func (r *memoryDriverRepo) Get(_ context.Context, id primitive.ObjectID) (*fleet.Driver, error) {
	return r.drivers[id], nil
}

type memoryRouteRepo struct {
	routes map[primitive.ObjectID]*fleet.Route
}

func (r *memoryRouteRepo) Get(_ context.Context, id primitive.ObjectID) (*fleet.Route, error) {
	return r.routes[id], nil
}

type memoryTripRepo struct {
	trips map[primitive.ObjectID]*fleet.TripHistory

	// Number of ApplyAdvance calls to fail as lost races
	conflicts int
}

func newMemoryTripRepo() *memoryTripRepo {
	return &memoryTripRepo{trips: map[primitive.ObjectID]*fleet.TripHistory{}}
}

func cloneTrip(trip *fleet.TripHistory) *fleet.TripHistory {
	clone := *trip
	clone.Stops = make([]fleet.TripStop, len(trip.Stops))
	copy(clone.Stops, trip.Stops)
	clone.Vehicle = nil
	clone.Driver = nil
	clone.Route = nil

	return &clone
}

func (r *memoryTripRepo) Insert(_ context.Context, trip *fleet.TripHistory) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()

	stored := cloneTrip(trip)
	stored.ID = id
	r.trips[id] = stored

	return id, nil
}

func (r *memoryTripRepo) Get(_ context.Context, id primitive.ObjectID) (*fleet.TripHistory, error) {
	trip := r.trips[id]
	if trip == nil {
		return nil, nil
	}

	return cloneTrip(trip), nil
}

func (r *memoryTripRepo) ApplyAdvance(_ context.Context, id primitive.ObjectID, advance repository.TripAdvance) (bool, error) {
	if r.conflicts > 0 {
		r.conflicts--
		return false, nil
	}

	trip := r.trips[id]
	if trip == nil {
		return false, nil
	}

	if trip.Stops[advance.Index].Reached != advance.Expected {
		return false, nil
	}

	arrival := advance.ArrivalTime
	trip.Stops[advance.Index].Reached = fleet.StopStatusReached
	trip.Stops[advance.Index].ArrivalTime = &arrival

	for _, change := range advance.Changes {
		trip.Stops[change.Index].Reached = change.Status
	}

	if advance.Completed {
		trip.Completed = true
	}
	trip.ModificationDateTime = time.Now()

	return true, nil
}

func (r *memoryTripRepo) Find(_ context.Context, filter repository.TripFilter, page int64, limit int64) ([]fleet.TripHistory, int64, error) {
	var matched []*fleet.TripHistory

	for _, trip := range r.trips {
		if filter.VehicleRef != nil && trip.VehicleRef != *filter.VehicleRef {
			continue
		}
		if filter.DriverRef != nil && trip.DriverRef != *filter.DriverRef {
			continue
		}
		if filter.RouteRef != nil && trip.RouteRef != *filter.RouteRef {
			continue
		}
		if filter.DateFrom != nil && trip.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && trip.Date.After(*filter.DateTo) {
			continue
		}
		if filter.StopName != "" && !tripHasStopName(trip, filter.StopName) {
			continue
		}

		matched = append(matched, trip)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}

		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	total := int64(len(matched))

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	trips := make([]fleet.TripHistory, 0, end-start)
	for _, trip := range matched[start:end] {
		trips = append(trips, *cloneTrip(trip))
	}

	return trips, total, nil
}

func tripHasStopName(trip *fleet.TripHistory, name string) bool {
	for _, stop := range trip.Stops {
		if strings.Contains(strings.ToLower(stop.Name), strings.ToLower(name)) {
			return true
		}
	}

	return false
}

func (r *memoryTripRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	if _, present := r.trips[id]; !present {
		return false, nil
	}

	delete(r.trips, id)

	return true, nil
}

type recordingPublisher struct {
	events []fleet.TripEvent
}

func (p *recordingPublisher) Publish(event fleet.TripEvent) error {
	p.events = append(p.events, event)
	return nil
}
