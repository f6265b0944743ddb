package routes

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, reg *Registry) {
	if r == nil || reg == nil {
		return
	}

	users := r.Group("/users")

	if reg.context != nil {
		reg.context.RegisterRoutes(users)
	}
	if reg.recommendation != nil {
		reg.recommendation.RegisterRoutes(users)
	}
	if reg.progress != nil {
		reg.progress.RegisterRoutes(users)
	}
	if reg.events != nil {
		users.Get("/:user_id/events", reg.events.HandleEventsWS)
	}
}
