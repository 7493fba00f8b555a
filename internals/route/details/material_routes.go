package details

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	materialController "schoolhub_backend/internals/features/materials/controller"
	helper "schoolhub_backend/internals/helpers"
	ossSvc "schoolhub_backend/internals/helpers/oss"
)

func MaterialRoutes(api fiber.Router, mdb *mongo.Database, oss *ossSvc.Service) {
	if oss == nil {
		// bucket credentials absent; keep the paths mounted so clients get
		// a clear answer instead of a 404
		unavailable := func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusServiceUnavailable, "Material storage is not configured")
		}
		api.Post("/materials/upload", unavailable)
		api.Get("/materials/:subjectId/:sclassId", unavailable)
		api.Get("/materials/:sclassId", unavailable)
		api.Delete("/materials/:id", unavailable)
		return
	}

	ctl := materialController.NewMaterialController(mdb, oss)

	api.Post("/materials/upload", ctl.Upload)
	api.Get("/materials/:subjectId/:sclassId", ctl.GetBySubjectAndClass)
	api.Get("/materials/:sclassId", ctl.GetByClass)
	api.Delete("/materials/:id", ctl.Delete)
}
