package details

import (
	"github.com/gofiber/fiber/v2"

	utilsController "schoolhub_backend/internals/features/utils/controller"
)

func UtilsRoutes(api fiber.Router) {
	ctl := utilsController.NewQueryController()

	api.Get("/api/query", ctl.Query)
}
