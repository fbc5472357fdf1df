package api

import (
	"github.com/rs/zerolog/log"
	"github.com/schoolfleet/schoolfleet/pkg/database"
	"github.com/schoolfleet/schoolfleet/pkg/events"
	"github.com/schoolfleet/schoolfleet/pkg/redis_client"
	"github.com/schoolfleet/schoolfleet/pkg/repository"
	"github.com/schoolfleet/schoolfleet/pkg/triphistory"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the trip tracking web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					engine := triphistory.NewEngine(
						repository.NewMongoVehicleRepository(),
						repository.NewMongoDriverRepository(),
						repository.NewMongoRouteRepository(),
						repository.NewMongoTripHistoryRepository(),
					)

					// Trip events are best effort, run without them if
					// the queue is unavailable
					if err := redis_client.Connect(); err == nil {
						publisher, err := events.NewPublisher()
						if err != nil {
							log.Error().Err(err).Msg("Failed to open trip events queue")
						} else {
							engine.Events = publisher
						}
					} else {
						log.Error().Err(err).Msg("Failed to connect to redis, trip events disabled")
					}

					return SetupServer(c.String("listen"), engine)
				},
			},
		},
	}
}
