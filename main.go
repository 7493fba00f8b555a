package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	database "schoolhub_backend/internals/databases"
	"schoolhub_backend/internals/features/doubts/hub"
	ossSvc "schoolhub_backend/internals/helpers/oss"
	"schoolhub_backend/internals/middlewares"
	"schoolhub_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := database.ConnectMongo(ctx); err != nil {
		log.Fatalf("❌ MongoDB unreachable: %v", err)
	}
	if err := database.ConnectMySQL(); err != nil {
		log.Fatalf("❌ MySQL unreachable: %v", err)
	}
	database.TunePool()
	if err := database.Migrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "schoolhub_backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		BodyLimit:   25 * 1024 * 1024, // material uploads
	})

	middlewares.SetupMiddlewares(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		hctx, hcancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer hcancel()
		if err := database.Ping(hctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded", "error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	chatHub := hub.New()

	oss, err := ossSvc.NewServiceFromEnv("materials")
	if err != nil {
		log.Printf("⚠️ Material storage disabled: %v", err)
		oss = nil
	}

	route.SetupRoutes(app, database.Mongo, database.MySQL, chatHub, oss)

	port := configs.GetEnv("PORT", "5000")

	go func() {
		log.Printf("🚀 Server listening on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown err: %v", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	database.Close(closeCtx)
	log.Println("👋 Bye")
}
