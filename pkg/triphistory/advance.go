package triphistory

import (
	"time"

	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"github.com/schoolfleet/schoolfleet/pkg/repository"
)

// AdvanceResult is the outcome of one stop transition, computed without
// touching the store so the persistence write can be conditional.
type AdvanceResult struct {
	// Full stop list after the transition
	Stops []fleet.TripStop

	// Target stop index and its status before the transition
	Index    int
	Previous fleet.StopStatus

	// Neighbour transitions applied alongside the target
	Changes []repository.StopChange

	Completed   bool
	ArrivalTime time.Time

	// The target stop had already been reached. Stops are returned
	// unchanged and nothing needs persisting.
	AlreadyReached bool
}

// AdvanceStops marks the named stop as reached at the given time and
// returns the resulting stop list. The previous stop is marked Left and
// the following stop becomes Next; reaching the final stop completes the
// trip. Stop names are matched exactly; when duplicates exist the first
// match in list order wins.
//
// Re-advancing a stop that is already Reached or Left is accepted as a
// no-op so that client retries cannot corrupt the progression.
func AdvanceStops(stops []fleet.TripStop, stopName string, now time.Time) (*AdvanceResult, error) {
	index := -1
	for i, stop := range stops {
		if stop.Name == stopName {
			index = i
			break
		}
	}

	if index == -1 {
		return nil, notFound("Could not find Stop matching Stop Name %q", stopName)
	}

	updated := make([]fleet.TripStop, len(stops))
	copy(updated, stops)

	result := &AdvanceResult{
		Stops:       updated,
		Index:       index,
		Previous:    stops[index].Reached,
		ArrivalTime: now,
	}

	if result.Previous == fleet.StopStatusReached || result.Previous == fleet.StopStatusLeft {
		result.AlreadyReached = true
		return result, nil
	}

	updated[index].Reached = fleet.StopStatusReached
	updated[index].ArrivalTime = &now

	if index > 0 {
		updated[index-1].Reached = fleet.StopStatusLeft
		result.Changes = append(result.Changes, repository.StopChange{
			Index:  index - 1,
			Status: fleet.StopStatusLeft,
		})
	}

	if index < len(updated)-1 {
		updated[index+1].Reached = fleet.StopStatusNext
		result.Changes = append(result.Changes, repository.StopChange{
			Index:  index + 1,
			Status: fleet.StopStatusNext,
		})
	} else {
		result.Completed = true
	}

	return result, nil
}
