package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	noticeModel "schoolhub_backend/internals/features/notices/model"
	helper "schoolhub_backend/internals/helpers"
)

type NoticeController struct {
	Mongo *mongo.Database
}

func NewNoticeController(mdb *mongo.Database) *NoticeController {
	return &NoticeController{Mongo: mdb}
}

func (ctl *NoticeController) col() *mongo.Collection {
	return ctl.Mongo.Collection(noticeModel.NoticeModel{}.CollectionName())
}

// POST /NoticeCreate
func (ctl *NoticeController) Create(c *fiber.Ctx) error {
	var notice noticeModel.NoticeModel
	if err := c.BodyParser(&notice); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if notice.Title == "" || notice.Details == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Title and details are required")
	}

	res, err := ctl.col().InsertOne(c.Context(), notice)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create notice", err)
	}
	notice.ID = res.InsertedID.(primitive.ObjectID)
	return c.Status(fiber.StatusOK).JSON(notice)
}

// GET /NoticeList/:id (school)
func (ctl *NoticeController) List(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch notices", err)
	}

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{"school": schoolOID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch notices", err)
	}
	var notices []noticeModel.NoticeModel
	if err := cur.All(ctx, &notices); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch notices", err)
	}
	if len(notices) == 0 {
		return helper.Message(c, "No notices found")
	}
	return c.Status(fiber.StatusOK).JSON(notices)
}

// PUT /Notice/:id
func (ctl *NoticeController) Update(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update notice", err)
	}
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	delete(body, "_id")

	ctx := c.Context()
	var notice noticeModel.NoticeModel
	if err := ctl.col().FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": body},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&notice); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Notice not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update notice", err)
	}
	return c.Status(fiber.StatusOK).JSON(notice)
}

// DELETE /Notice/:id
func (ctl *NoticeController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete notice", err)
	}

	var notice noticeModel.NoticeModel
	if err := ctl.col().FindOneAndDelete(c.Context(), bson.M{"_id": oid}).Decode(&notice); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Notice not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete notice", err)
	}
	return c.Status(fiber.StatusOK).JSON(notice)
}

// DELETE /Notices/:id (school)
func (ctl *NoticeController) DeleteAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete notices", err)
	}

	res, err := ctl.col().DeleteMany(c.Context(), bson.M{"school": schoolOID})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete notices", err)
	}
	if res.DeletedCount == 0 {
		return helper.Message(c, "No notices found to delete")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deletedCount": res.DeletedCount})
}
