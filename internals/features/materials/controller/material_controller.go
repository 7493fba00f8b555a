package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	materialModel "schoolhub_backend/internals/features/materials/model"
	helper "schoolhub_backend/internals/helpers"
	ossSvc "schoolhub_backend/internals/helpers/oss"
)

type MaterialController struct {
	Mongo *mongo.Database
	OSS   *ossSvc.Service
}

func NewMaterialController(mdb *mongo.Database, oss *ossSvc.Service) *MaterialController {
	return &MaterialController{Mongo: mdb, OSS: oss}
}

func (ctl *MaterialController) col() *mongo.Collection {
	return ctl.Mongo.Collection(materialModel.MaterialModel{}.CollectionName())
}

/* =========================================================
   UPLOAD
   POST /materials/upload (multipart)
   ========================================================= */
func (ctl *MaterialController) Upload(c *fiber.Ctx) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	teacherID := c.FormValue("teacherId")
	subjectID := c.FormValue("subjectId")
	sclassID := c.FormValue("sclassId")

	if title == "" || teacherID == "" || subjectID == "" || sclassID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Title, teacher, subject and class are required")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "File is required")
	}

	ctx := c.Context()

	fileURL, err := ctl.OSS.UploadFormFile(ctx, fh)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to upload material", err)
	}

	now := time.Now().UTC()
	material := materialModel.MaterialModel{
		Title:       title,
		Description: description,
		FileURL:     fileURL,
		TeacherID:   teacherID,
		SubjectID:   subjectID,
		SclassID:    sclassID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := ctl.col().InsertOne(ctx, material)
	if err != nil {
		// the object is orphaned if this fails; reclaim it
		if derr := ctl.OSS.DeleteByURL(ctx, fileURL); derr != nil {
			log.Printf("[WARN] orphaned upload not reclaimed: %v", derr)
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to upload material", err)
	}
	material.ID = res.InsertedID.(primitive.ObjectID)
	return c.Status(fiber.StatusCreated).JSON(material)
}

/* =========================================================
   LIST BY CLASS
   GET /materials/:sclassId
   ========================================================= */
func (ctl *MaterialController) GetByClass(c *fiber.Ctx) error {
	sclassID := c.Params("sclassId")
	if _, err := primitive.ObjectIDFromHex(sclassID); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid class ID")
	}

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{"sclassId": sclassID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch materials", err)
	}
	var materials []materialModel.MaterialModel
	if err := cur.All(ctx, &materials); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch materials", err)
	}
	return c.Status(fiber.StatusOK).JSON(materials)
}

/* =========================================================
   LIST BY SUBJECT AND CLASS
   GET /materials/:subjectId/:sclassId
   ========================================================= */
func (ctl *MaterialController) GetBySubjectAndClass(c *fiber.Ctx) error {
	subjectID := c.Params("subjectId")
	sclassID := c.Params("sclassId")

	ctx := c.Context()
	cur, err := ctl.col().Find(ctx, bson.M{
		"subjectId": subjectID,
		"sclassId":  sclassID,
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch materials", err)
	}
	var materials []materialModel.MaterialModel
	if err := cur.All(ctx, &materials); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch materials", err)
	}
	if len(materials) == 0 {
		return helper.Error(c, fiber.StatusNotFound, "No materials found for this subject and class")
	}
	return c.Status(fiber.StatusOK).JSON(materials)
}

/* =========================================================
   DELETE
   DELETE /materials/:id
   ========================================================= */
func (ctl *MaterialController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Material not found")
	}

	ctx := c.Context()

	var material materialModel.MaterialModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&material); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Material not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete material", err)
	}

	// the object goes first; a dangling URL on a kept document is worse
	// than a lost object on a deleted one
	if err := ctl.OSS.DeleteByURL(ctx, material.FileURL); err != nil {
		log.Printf("[WARN] stored file not removed for material %s: %v", oid.Hex(), err)
	}

	if _, err := ctl.col().DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete material", err)
	}

	return helper.Message(c, "Material deleted successfully")
}
