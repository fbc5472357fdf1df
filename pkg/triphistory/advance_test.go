package triphistory

import (
	"errors"
	"testing"
	"time"

	"github.com/schoolfleet/schoolfleet/pkg/fleet"
)

func threeStopTrip() []fleet.TripStop {
	return []fleet.TripStop{
		{Name: "A", Latitude: 51.50, Longitude: -0.12, Reached: fleet.StopStatusNext},
		{Name: "B", Latitude: 51.51, Longitude: -0.13, Reached: fleet.StopStatusPending},
		{Name: "C", Latitude: 51.52, Longitude: -0.14, Reached: fleet.StopStatusPending},
	}
}

func assertStatuses(t *testing.T, stops []fleet.TripStop, want []fleet.StopStatus) {
	t.Helper()

	if len(stops) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(stops))
	}

	for i, status := range want {
		if stops[i].Reached != status {
			t.Errorf("stop %q status = %q, want %q", stops[i].Name, stops[i].Reached, status)
		}
	}
}

func countNext(stops []fleet.TripStop) int {
	count := 0
	for _, stop := range stops {
		if stop.Reached == fleet.StopStatusNext {
			count++
		}
	}

	return count
}

func TestAdvanceStopsFullLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)
	stops := threeStopTrip()

	// Advance A
	result, err := AdvanceStops(stops, "A", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatuses(t, result.Stops, []fleet.StopStatus{
		fleet.StopStatusReached, fleet.StopStatusNext, fleet.StopStatusPending,
	})
	if result.Completed {
		t.Error("trip should not be completed after first stop")
	}
	if result.Stops[0].ArrivalTime == nil || !result.Stops[0].ArrivalTime.Equal(now) {
		t.Errorf("stop A arrival time = %v, want %v", result.Stops[0].ArrivalTime, now)
	}

	// Advance B
	result, err = AdvanceStops(result.Stops, "B", now.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatuses(t, result.Stops, []fleet.StopStatus{
		fleet.StopStatusLeft, fleet.StopStatusReached, fleet.StopStatusNext,
	})
	if result.Completed {
		t.Error("trip should not be completed after second stop")
	}

	// Advance C
	result, err = AdvanceStops(result.Stops, "C", now.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatuses(t, result.Stops, []fleet.StopStatus{
		fleet.StopStatusLeft, fleet.StopStatusLeft, fleet.StopStatusReached,
	})
	if !result.Completed {
		t.Error("trip should be completed after final stop")
	}
	if countNext(result.Stops) != 0 {
		t.Error("completed trip should have no Next stop")
	}
}

func TestAdvanceStopsSequentialInvariant(t *testing.T) {
	now := time.Now()
	stops := threeStopTrip()

	for _, name := range []string{"A", "B", "C"} {
		result, err := AdvanceStops(stops, name, now)
		if err != nil {
			t.Fatalf("advance %q: %v", name, err)
		}

		nextCount := countNext(result.Stops)
		if result.Completed {
			if nextCount != 0 {
				t.Errorf("after %q: completed trip has %d Next stops", name, nextCount)
			}
		} else if nextCount != 1 {
			t.Errorf("after %q: expected exactly one Next stop, got %d", name, nextCount)
		}

		stops = result.Stops
	}
}

func TestAdvanceStopsMonotonicProgress(t *testing.T) {
	now := time.Now()
	stops := threeStopTrip()

	for _, name := range []string{"A", "B", "C"} {
		result, err := AdvanceStops(stops, name, now)
		if err != nil {
			t.Fatalf("advance %q: %v", name, err)
		}

		for i := range stops {
			before := stops[i].Reached.ProgressRank()
			after := result.Stops[i].Reached.ProgressRank()
			if after < before {
				t.Errorf("advance %q: stop %q progress rank went backwards (%d -> %d)", name, stops[i].Name, before, after)
			}
		}

		stops = result.Stops
	}
}

func TestAdvanceStopsSingleStopRoute(t *testing.T) {
	stops := []fleet.TripStop{
		{Name: "Only", Reached: fleet.StopStatusNext},
	}

	result, err := AdvanceStops(stops, "Only", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Completed {
		t.Error("single stop route should complete on first advance")
	}
	if result.Stops[0].Reached != fleet.StopStatusReached {
		t.Errorf("stop status = %q, want Reached", result.Stops[0].Reached)
	}
}

func TestAdvanceStopsUnknownStop(t *testing.T) {
	_, err := AdvanceStops(threeStopTrip(), "Nowhere", time.Now())

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvanceStopsAlreadyReachedIsNoOp(t *testing.T) {
	now := time.Now()
	stops := threeStopTrip()

	first, err := AdvanceStops(stops, "A", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A client retry re-submits the same stop
	second, err := AdvanceStops(first.Stops, "A", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.AlreadyReached {
		t.Error("expected AlreadyReached for a re-submitted stop")
	}
	assertStatuses(t, second.Stops, []fleet.StopStatus{
		fleet.StopStatusReached, fleet.StopStatusNext, fleet.StopStatusPending,
	})
	if !second.Stops[0].ArrivalTime.Equal(now) {
		t.Errorf("retry must not overwrite the original arrival time")
	}
}

func TestAdvanceStopsDuplicateNamesFirstMatchWins(t *testing.T) {
	stops := []fleet.TripStop{
		{Name: "Main St", Reached: fleet.StopStatusNext},
		{Name: "Church Rd", Reached: fleet.StopStatusPending},
		{Name: "Main St", Reached: fleet.StopStatusPending},
	}

	result, err := AdvanceStops(stops, "Main St", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Index != 0 {
		t.Errorf("expected first matching stop (index 0), got index %d", result.Index)
	}
	if result.Stops[2].Reached != fleet.StopStatusPending {
		t.Errorf("later duplicate should be untouched, got %q", result.Stops[2].Reached)
	}
}

func TestAdvanceStopsOutOfOrderIsPermitted(t *testing.T) {
	// Advancing a stop that is not currently Next is accepted, matching
	// the behaviour existing clients rely on when a driver skips past a
	// stop without marking it.
	result, err := AdvanceStops(threeStopTrip(), "B", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertStatuses(t, result.Stops, []fleet.StopStatus{
		fleet.StopStatusLeft, fleet.StopStatusReached, fleet.StopStatusNext,
	})
	if result.Previous != fleet.StopStatusPending {
		t.Errorf("previous status = %q, want Pending", result.Previous)
	}
}

func TestAdvanceStopsDoesNotMutateInput(t *testing.T) {
	stops := threeStopTrip()

	_, err := AdvanceStops(stops, "A", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertStatuses(t, stops, []fleet.StopStatus{
		fleet.StopStatusNext, fleet.StopStatusPending, fleet.StopStatusPending,
	})
}

func TestAdvanceStopsReportsNeighbourChanges(t *testing.T) {
	stops := threeStopTrip()
	first, _ := AdvanceStops(stops, "A", time.Now())

	result, err := AdvanceStops(first.Stops, "B", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Changes) != 2 {
		t.Fatalf("expected 2 neighbour changes, got %d", len(result.Changes))
	}

	if result.Changes[0].Index != 0 || result.Changes[0].Status != fleet.StopStatusLeft {
		t.Errorf("first change = %+v, want index 0 -> Left", result.Changes[0])
	}
	if result.Changes[1].Index != 2 || result.Changes[1].Status != fleet.StopStatusNext {
		t.Errorf("second change = %+v, want index 2 -> Next", result.Changes[1])
	}
}
