package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"schoolhub_backend/internals/features/doubts/hub"
	ossSvc "schoolhub_backend/internals/helpers/oss"
	"schoolhub_backend/internals/route/details"
)

// SetupRoutes mounts every feature. The original frontend calls everything at
// the root path, so there is no /api/v1 prefix to hide behind.
func SetupRoutes(app *fiber.App, mdb *mongo.Database, db *gorm.DB, chatHub *hub.Hub, oss *ossSvc.Service) {
	log.Println("📌 Registering routes...")

	details.AdminRoutes(app, mdb, db)
	details.StudentRoutes(app, mdb, db)
	details.TeacherRoutes(app, mdb, db)
	details.SclassRoutes(app, mdb, db)
	details.SubjectRoutes(app, mdb, db)
	details.NoticeRoutes(app, mdb)
	details.ComplainRoutes(app, mdb)
	details.DoubtRoutes(app, mdb, chatHub)
	details.MaterialRoutes(app, mdb, oss)
	details.UtilsRoutes(app)

	details.ChatSocketRoute(app, mdb, chatHub)

	log.Println("✅ Routes ready")
}
