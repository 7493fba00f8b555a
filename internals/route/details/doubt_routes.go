package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.mongodb.org/mongo-driver/mongo"

	doubtController "schoolhub_backend/internals/features/doubts/controller"
	"schoolhub_backend/internals/features/doubts/hub"
)

func DoubtRoutes(api fiber.Router, mdb *mongo.Database, h *hub.Hub) {
	ctl := doubtController.NewDoubtController(mdb, h)

	api.Post("/doubt/add", ctl.Create)
	api.Get("/doubt/get", ctl.GetDoubts)
	api.Get("/doubt/conversation/:senderId/:receiverId", ctl.GetConversation)

	// legacy aliases kept for older clients
	api.Post("/create-doubt", ctl.Create)
	api.Get("/get-doubts", ctl.GetDoubts)
	api.Get("/conversation/:senderId/:receiverId", ctl.GetConversation)
}

// ChatSocketRoute upgrades /ws/chat; non-websocket requests get 426.
func ChatSocketRoute(app *fiber.App, mdb *mongo.Database, h *hub.Hub) {
	ctl := doubtController.NewDoubtController(mdb, h)

	app.Use("/ws/chat", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(ctl.ChatSocket))
}
