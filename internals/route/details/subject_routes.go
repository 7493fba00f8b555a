package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	subjectController "schoolhub_backend/internals/features/subjects/controller"
)

func SubjectRoutes(api fiber.Router, mdb *mongo.Database, db *gorm.DB) {
	ctl := subjectController.NewSubjectController(mdb, db)

	api.Post("/SubjectCreate", ctl.Create)
	api.Get("/AllSubjects/:id", ctl.AllSubjects)
	api.Get("/ClassSubjects/:id", ctl.ClassSubjects)
	api.Get("/FreeSubjectList/:id", ctl.FreeSubjects)
	api.Get("/Subject/:id", ctl.GetDetail)
	api.Delete("/Subject/:id", ctl.Delete)
	api.Delete("/Subjects/:id", ctl.DeleteAll)
	api.Delete("/SubjectsClass/:id", ctl.DeleteByClass)
}
