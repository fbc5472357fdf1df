package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/schoolfleet/schoolfleet/pkg/fleet"
	"github.com/schoolfleet/schoolfleet/pkg/repository"
	"github.com/schoolfleet/schoolfleet/pkg/triphistory"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateFormat = "2006-01-02"

func VehicleHistoryRouter(router fiber.Router, engine *triphistory.Engine) {
	handlers := &vehicleHistoryRoutes{engine: engine}

	router.Post("/", handlers.createTrip)
	router.Put("/", handlers.advanceStop)
	router.Get("/", handlers.listTrips)
	router.Delete("/:identifier", handlers.deleteTrip)
}

type vehicleHistoryRoutes struct {
	engine *triphistory.Engine
}

func (h *vehicleHistoryRoutes) createTrip(c *fiber.Ctx) error {
	var requestBody struct {
		VehicleID string `json:"vehicleId"`
		DriverID  string `json:"driverId"`
		RouteID   string `json:"routeId"`
		Date      string `json:"date"`
	}
	c.BodyParser(&requestBody)

	vehicleID, err := primitive.ObjectIDFromHex(requestBody.VehicleID)
	if err != nil {
		return badRequest(c, "Invalid Vehicle Identifier")
	}

	driverID, err := primitive.ObjectIDFromHex(requestBody.DriverID)
	if err != nil {
		return badRequest(c, "Invalid Driver Identifier")
	}

	routeID, err := primitive.ObjectIDFromHex(requestBody.RouteID)
	if err != nil {
		return badRequest(c, "Invalid Route Identifier")
	}

	date, err := time.Parse(dateFormat, requestBody.Date)
	if err != nil {
		return badRequest(c, "Date must be formatted YYYY-MM-DD")
	}

	trip, err := h.engine.CreateTrip(c.Context(), callerFromContext(c), vehicleID, driverID, routeID, date)
	if err != nil {
		return domainError(c, err)
	}

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    shapeTrip(trip),
	})
}

func (h *vehicleHistoryRoutes) advanceStop(c *fiber.Ctx) error {
	var requestBody struct {
		HistoryID string `json:"historyId"`
		StopName  string `json:"stopName"`
	}
	c.BodyParser(&requestBody)

	if requestBody.StopName == "" {
		return badRequest(c, "A Stop Name must be supplied")
	}

	tripID, err := primitive.ObjectIDFromHex(requestBody.HistoryID)
	if err != nil {
		return badRequest(c, "Invalid Trip History Identifier")
	}

	trip, err := h.engine.AdvanceToStop(c.Context(), callerFromContext(c), tripID, requestBody.StopName)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    shapeTrip(trip),
	})
}

func (h *vehicleHistoryRoutes) listTrips(c *fiber.Ctx) error {
	// An id filter short-circuits everything else
	if id := c.Query("id"); id != "" {
		tripID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return badRequest(c, "Invalid Trip History Identifier")
		}

		trip, err := h.engine.GetTrip(c.Context(), tripID)
		if err != nil {
			return domainError(c, err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    shapeTrip(trip),
		})
	}

	filter := repository.TripFilter{
		StopName: c.Query("stopName"),
	}

	if value := c.Query("vehicle"); value != "" {
		ref, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return badRequest(c, "Invalid Vehicle Identifier")
		}
		filter.VehicleRef = &ref
	}

	if value := c.Query("driver"); value != "" {
		ref, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return badRequest(c, "Invalid Driver Identifier")
		}
		filter.DriverRef = &ref
	}

	if value := c.Query("route"); value != "" {
		ref, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return badRequest(c, "Invalid Route Identifier")
		}
		filter.RouteRef = &ref
	}

	if value := c.Query("startDate"); value != "" {
		from, err := time.Parse(dateFormat, value)
		if err != nil {
			return badRequest(c, "startDate must be formatted YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}

	if value := c.Query("endDate"); value != "" {
		to, err := time.Parse(dateFormat, value)
		if err != nil {
			return badRequest(c, "endDate must be formatted YYYY-MM-DD")
		}
		filter.DateTo = &to
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))

	trips, pagination, err := h.engine.QueryTrips(c.Context(), filter, page, limit)
	if err != nil {
		return domainError(c, err)
	}

	shaped := make([]interface{}, 0, len(trips))
	for i := range trips {
		shaped = append(shaped, shapeTrip(&trips[i]))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       shaped,
		"pagination": pagination,
	})
}

func (h *vehicleHistoryRoutes) deleteTrip(c *fiber.Ctx) error {
	tripID, err := primitive.ObjectIDFromHex(c.Params("identifier"))
	if err != nil {
		return badRequest(c, "Invalid Trip History Identifier")
	}

	if err := h.engine.DeleteTrip(c.Context(), callerFromContext(c), tripID); err != nil {
		return domainError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func callerFromContext(c *fiber.Ctx) fleet.Caller {
	caller, _ := c.Locals("caller").(fleet.Caller)
	return caller
}

// shapeTrip reduces a trip history to its public representation.
func shapeTrip(trip *fleet.TripHistory) interface{} {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, trip)

	if err != nil {
		log.Error().Err(err).Msg("Could not reduce Trip History")
		return trip
	}

	return reduced
}

func badRequest(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, triphistory.ErrNotFound):
		c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, triphistory.ErrForbidden):
		c.SendStatus(fiber.StatusForbidden)
	case errors.Is(err, triphistory.ErrBadRequest):
		c.SendStatus(fiber.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Trip History request failed")
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
