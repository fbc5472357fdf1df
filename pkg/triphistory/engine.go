package triphistory

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"github.com/schoolfleet/schoolfleet/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

// EventPublisher receives trip progress events. May be nil when no event
// transport is configured.
type EventPublisher interface {
	Publish(event fleet.TripEvent) error
}

// Engine owns the trip history state machine. All operations take the
// caller explicitly and evaluate authorization against the trip's vehicle
// within the same call as the mutation.
type Engine struct {
	Vehicles repository.VehicleRepository
	Drivers  repository.DriverRepository
	Routes   repository.RouteRepository
	Trips    repository.TripHistoryRepository

	Events EventPublisher
}

func NewEngine(vehicles repository.VehicleRepository, drivers repository.DriverRepository, routes repository.RouteRepository, trips repository.TripHistoryRepository) *Engine {
	return &Engine{
		Vehicles: vehicles,
		Drivers:  drivers,
		Routes:   routes,
		Trips:    trips,
	}
}

// Lost advance races are retried a few times before giving up.
const advanceMaxRetries = 4

var errAdvanceConflict = errors.New("trip was modified concurrently")

// CreateTrip snapshots the route's stops into a new trip history for the
// given date. The lowest-sequence stop starts as Next, the rest Pending.
func (e *Engine) CreateTrip(ctx context.Context, caller fleet.Caller, vehicleID primitive.ObjectID, driverID primitive.ObjectID, routeID primitive.ObjectID, date time.Time) (*fleet.TripHistory, error) {
	vehicle, err := e.Vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, notFound("Could not find Vehicle matching Vehicle Identifier")
	}

	if !Authorized(caller, vehicle) {
		return nil, forbidden("Caller is not permitted to record trips for this Vehicle")
	}

	route, err := e.Routes.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, notFound("Could not find Route matching Route Identifier")
	}
	if len(route.Stops) == 0 {
		return nil, badRequest("Route has no stops to traverse")
	}

	now := time.Now()
	trip := &fleet.TripHistory{
		VehicleRef: vehicleID,
		DriverRef:  driverID,
		RouteRef:   routeID,
		Date:       date,
		Stops:      snapshotStops(route.Stops),
		Completed:  false,

		CreationDateTime:     now,
		ModificationDateTime: now,
	}

	id, err := e.Trips.Insert(ctx, trip)
	if err != nil {
		return nil, err
	}
	trip.ID = id

	e.populate(ctx, trip)

	return trip, nil
}

// snapshotStops copies the route's stops in ascending sequence order into
// independent trip stop records.
func snapshotStops(routeStops []fleet.RouteStop) []fleet.TripStop {
	ordered := make([]fleet.RouteStop, len(routeStops))
	copy(ordered, routeStops)
	slices.SortStableFunc(ordered, func(a, b fleet.RouteStop) int {
		return a.Sequence - b.Sequence
	})

	var stops []fleet.TripStop
	copier.Copy(&stops, &ordered)

	for i := range stops {
		if i == 0 {
			stops[i].Reached = fleet.StopStatusNext
		} else {
			stops[i].Reached = fleet.StopStatusPending
		}
	}

	return stops
}

// AdvanceToStop marks the named stop as reached on the trip. The write is
// conditional on the stop's status being unchanged since it was read; a
// lost race is re-read and retried with backoff.
func (e *Engine) AdvanceToStop(ctx context.Context, caller fleet.Caller, tripID primitive.ObjectID, stopName string) (*fleet.TripHistory, error) {
	var trip *fleet.TripHistory

	operation := func() error {
		var err error
		trip, err = e.advanceOnce(ctx, caller, tripID, stopName)
		if err != nil && !errors.Is(err, errAdvanceConflict) {
			return backoff.Permanent(err)
		}

		return err
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), advanceMaxRetries))
	if err != nil {
		return nil, err
	}

	return trip, nil
}

func (e *Engine) advanceOnce(ctx context.Context, caller fleet.Caller, tripID primitive.ObjectID, stopName string) (*fleet.TripHistory, error) {
	trip, err := e.Trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, notFound("Could not find Trip History matching Identifier")
	}

	vehicle, err := e.Vehicles.Get(ctx, trip.VehicleRef)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, notFound("Could not find Vehicle matching Trip History")
	}

	if !Authorized(caller, vehicle) {
		return nil, forbidden("Caller is not permitted to record trips for this Vehicle")
	}

	result, err := AdvanceStops(trip.Stops, stopName, time.Now())
	if err != nil {
		return nil, err
	}

	if result.AlreadyReached {
		// Retried request, nothing to change
		e.populate(ctx, trip)
		return trip, nil
	}

	matched, err := e.Trips.ApplyAdvance(ctx, trip.ID, repository.TripAdvance{
		Index:       result.Index,
		Expected:    result.Previous,
		ArrivalTime: result.ArrivalTime,
		Changes:     result.Changes,
		Completed:   result.Completed,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errAdvanceConflict
	}

	trip.Stops = result.Stops
	if result.Completed {
		trip.Completed = true
	}
	trip.ModificationDateTime = time.Now()

	e.publishAdvance(trip, stopName, result.Completed)
	e.populate(ctx, trip)

	return trip, nil
}

func (e *Engine) publishAdvance(trip *fleet.TripHistory, stopName string, completed bool) {
	if e.Events == nil {
		return
	}

	eventType := fleet.TripEventTypeStopReached
	if completed {
		eventType = fleet.TripEventTypeTripCompleted
	}

	event := fleet.TripEvent{
		Type:             eventType,
		TripHistoryRef:   trip.ID,
		VehicleRef:       trip.VehicleRef,
		StopName:         stopName,
		CreationDateTime: time.Now(),
	}

	// Best effort only, progress events never fail the mutation
	if err := e.Events.Publish(event); err != nil {
		log.Error().Err(err).Str("trip", trip.ID.Hex()).Msg("Failed to publish trip event")
	}
}

// GetTrip returns a single trip history with its references resolved.
func (e *Engine) GetTrip(ctx context.Context, tripID primitive.ObjectID) (*fleet.TripHistory, error) {
	trip, err := e.Trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, notFound("Could not find Trip History matching Identifier")
	}

	e.populate(ctx, trip)

	return trip, nil
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

// QueryTrips returns a page of trip histories matching the filter, newest
// date first, with references resolved for display.
func (e *Engine) QueryTrips(ctx context.Context, filter repository.TripFilter, page int64, limit int64) ([]fleet.TripHistory, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	trips, total, err := e.Trips.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, nil, err
	}

	for i := range trips {
		e.populate(ctx, &trips[i])
	}

	pagination := &Pagination{
		Total: total,
		Page:  page,
		Pages: int64(math.Ceil(float64(total) / float64(limit))),
	}

	return trips, pagination, nil
}

// DeleteTrip removes a trip history record. This is a plain record
// operation, not part of the state machine.
func (e *Engine) DeleteTrip(ctx context.Context, caller fleet.Caller, tripID primitive.ObjectID) error {
	trip, err := e.Trips.Get(ctx, tripID)
	if err != nil {
		return err
	}
	if trip == nil {
		return notFound("Could not find Trip History matching Identifier")
	}

	vehicle, err := e.Vehicles.Get(ctx, trip.VehicleRef)
	if err != nil {
		return err
	}
	if vehicle != nil && !Authorized(caller, vehicle) {
		return forbidden("Caller is not permitted to record trips for this Vehicle")
	}

	deleted, err := e.Trips.Delete(ctx, tripID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Could not find Trip History matching Identifier")
	}

	return nil
}

// populate resolves vehicle, driver and route references for display.
// Lookup failures leave the reference unresolved rather than failing the
// request.
func (e *Engine) populate(ctx context.Context, trip *fleet.TripHistory) {
	if vehicle, err := e.Vehicles.Get(ctx, trip.VehicleRef); err == nil && vehicle != nil {
		trip.Vehicle = vehicle
	}

	if driver, err := e.Drivers.Get(ctx, trip.DriverRef); err == nil && driver != nil {
		trip.Driver = driver
	}

	if route, err := e.Routes.Get(ctx, trip.RouteRef); err == nil && route != nil {
		trip.Route = route
	}
}
