package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	adminController "schoolhub_backend/internals/features/admins/controller"
)

func AdminRoutes(api fiber.Router, mdb *mongo.Database, db *gorm.DB) {
	ctl := adminController.NewAdminController(mdb, db)

	api.Post("/AdminReg", ctl.Register)
	api.Post("/AdminLogin", ctl.Login)
	api.Get("/Admin/:id", ctl.GetDetail)
	api.Get("/Admin", ctl.GetAll)
}
