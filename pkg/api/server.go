package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/schoolfleet/schoolfleet/pkg/api/routes"
	"github.com/schoolfleet/schoolfleet/pkg/triphistory"
)

func SetupServer(listen string, engine *triphistory.Engine) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.VehicleHistoryRouter(webApp.Group("/vehicle-history", RequireCaller()), engine)

	return webApp.Listen(listen)
}
