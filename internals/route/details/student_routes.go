package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	studentController "schoolhub_backend/internals/features/students/controller"
)

func StudentRoutes(api fiber.Router, mdb *mongo.Database, db *gorm.DB) {
	ctl := studentController.NewStudentController(mdb, db)

	api.Post("/StudentReg", ctl.Register)
	api.Post("/StudentLogin", ctl.Login)

	api.Get("/Students/:id", ctl.GetStudents)
	api.Get("/Student/:id", ctl.GetDetail)
	api.Put("/Student/:id", ctl.Update)

	api.Put("/UpdateExamResult/:id", ctl.UpdateExamResult)
	api.Put("/StudentAttendance/:id", ctl.Attendance)

	api.Put("/RemoveAllStudentsSubAtten/:id", ctl.ClearAllBySubject)
	api.Put("/RemoveAllStudentsAtten/:id", ctl.ClearAll)
	api.Put("/RemoveStudentSubAtten/:id", ctl.RemoveBySubject)
	api.Put("/RemoveStudentAtten/:id", ctl.Remove)

	api.Delete("/Students/:id", ctl.DeleteAll)
	api.Delete("/StudentsClass/:id", ctl.DeleteByClass)
	api.Delete("/Student/:id", ctl.Delete)
}
