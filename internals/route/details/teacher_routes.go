package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	teacherController "schoolhub_backend/internals/features/teachers/controller"
)

func TeacherRoutes(api fiber.Router, mdb *mongo.Database, db *gorm.DB) {
	ctl := teacherController.NewTeacherController(mdb, db)

	api.Post("/TeacherReg", ctl.Register)
	api.Post("/TeacherLogin", ctl.Login)

	api.Get("/Teachers/:id", ctl.GetTeachers)
	api.Get("/Teacher/:id", ctl.GetDetail)

	api.Put("/TeacherSubject", ctl.UpdateSubject)
	api.Post("/TeacherAttendance/:id", ctl.Attendance)

	api.Delete("/Teachers/:id", ctl.DeleteAll)
	api.Delete("/TeachersClass/:id", ctl.DeleteByClass)
	api.Delete("/Teacher/:id", ctl.Delete)
}
