package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	noticeController "schoolhub_backend/internals/features/notices/controller"
)

func NoticeRoutes(api fiber.Router, mdb *mongo.Database) {
	ctl := noticeController.NewNoticeController(mdb)

	api.Post("/NoticeCreate", ctl.Create)
	api.Get("/NoticeList/:id", ctl.List)
	api.Put("/Notice/:id", ctl.Update)
	api.Delete("/Notices/:id", ctl.DeleteAll)
	api.Delete("/Notice/:id", ctl.Delete)
}
