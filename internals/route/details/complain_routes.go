package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	complainController "schoolhub_backend/internals/features/complains/controller"
)

func ComplainRoutes(api fiber.Router, mdb *mongo.Database) {
	ctl := complainController.NewComplainController(mdb)

	api.Post("/ComplainCreate", ctl.Create)
	api.Get("/ComplainList/:id", ctl.List)
}
