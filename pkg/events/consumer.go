package events

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/schoolfleet/schoolfleet/pkg/database"
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
)

// BatchConsumer archives trip events into the trip_events collection.
type BatchConsumer struct {
	id int
}

func NewBatchConsumer(id int) *BatchConsumer {
	return &BatchConsumer{id: id}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	var records []interface{}

	for _, payload := range payloads {
		var event fleet.TripEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode trip event")
			continue
		}

		log.Debug().Msg(pretty.Sprint(event))

		records = append(records, event)
	}

	if len(records) > 0 {
		tripEventsCollection := database.GetCollection("trip_events")
		if _, err := tripEventsCollection.InsertMany(context.Background(), records); err != nil {
			log.Error().Err(err).Msg("Failed to archive trip events")

			if rejectErrors := batch.Reject(); len(rejectErrors) > 0 {
				for _, err := range rejectErrors {
					log.Error().Err(err).Msg("Failed to reject trip event batch")
				}
			}

			return
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack trip event batch")
		}
	}
}
