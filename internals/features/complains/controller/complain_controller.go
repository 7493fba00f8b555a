package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	complainModel "schoolhub_backend/internals/features/complains/model"
	helper "schoolhub_backend/internals/helpers"
)

type ComplainController struct {
	Mongo *mongo.Database
}

func NewComplainController(mdb *mongo.Database) *ComplainController {
	return &ComplainController{Mongo: mdb}
}

func (ctl *ComplainController) col() *mongo.Collection {
	return ctl.Mongo.Collection(complainModel.ComplainModel{}.CollectionName())
}

// POST /ComplainCreate
func (ctl *ComplainController) Create(c *fiber.Ctx) error {
	var complain complainModel.ComplainModel
	if err := c.BodyParser(&complain); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if complain.Complaint == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Complaint is required")
	}

	res, err := ctl.col().InsertOne(c.Context(), complain)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create complain", err)
	}
	complain.ID = res.InsertedID.(primitive.ObjectID)
	return c.Status(fiber.StatusOK).JSON(complain)
}

// GET /ComplainList/:id (school)
func (ctl *ComplainController) List(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch complains", err)
	}

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{"school": schoolOID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch complains", err)
	}
	var complains []complainModel.ComplainModel
	if err := cur.All(ctx, &complains); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch complains", err)
	}
	if len(complains) == 0 {
		return helper.Message(c, "No complains found")
	}
	return c.Status(fiber.StatusOK).JSON(complains)
}
