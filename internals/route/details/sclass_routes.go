package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	classController "schoolhub_backend/internals/features/classes/controller"
)

func SclassRoutes(api fiber.Router, mdb *mongo.Database, db *gorm.DB) {
	ctl := classController.NewSclassController(mdb, db)

	api.Post("/SclassCreate", ctl.Create)
	api.Get("/SclassList/:id", ctl.List)
	api.Get("/Sclass/Students/:id", ctl.GetStudents)
	api.Get("/Sclass/Teachers/:id", ctl.GetTeachers)
	api.Get("/Sclass/:id", ctl.GetDetail)
	api.Delete("/Sclasses/:id", ctl.DeleteAll)
	api.Delete("/Sclass/:id", ctl.Delete)
}
