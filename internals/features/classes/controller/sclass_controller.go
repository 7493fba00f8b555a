package controller

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"schoolhub_backend/internals/dualwrite"
	adminModel "schoolhub_backend/internals/features/admins/model"
	classDTO "schoolhub_backend/internals/features/classes/dto"
	classModel "schoolhub_backend/internals/features/classes/model"
	studentModel "schoolhub_backend/internals/features/students/model"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/resolver"
)

type SclassController struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	Resolve *resolver.Resolver
}

func NewSclassController(mdb *mongo.Database, db *gorm.DB) *SclassController {
	return &SclassController{Mongo: mdb, DB: db, Resolve: resolver.New(db)}
}

func (ctl *SclassController) col() *mongo.Collection {
	return ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName())
}

func (ctl *SclassController) admins() *mongo.Collection {
	return ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName())
}

/* =========================================================
   CREATE
   POST /SclassCreate
   ========================================================= */
func (ctl *SclassController) Create(c *fiber.Ctx) error {
	var req classDTO.CreateSclassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.SclassName == "" || req.AdminID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Class name and admin ID are required")
	}

	adminOID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Class name and admin ID are required")
	}

	ctx := c.Context()

	var admin adminModel.AdminModel
	if err := ctl.admins().FindOne(ctx, bson.M{"_id": adminOID}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Class creation failed", err)
	}

	adminRowID, err := ctl.Resolve.AdminID(ctx, admin.Email)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found in MySQL database")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Class creation failed", err)
	}

	if err := ctl.col().FindOne(ctx, bson.M{
		"sclassName": req.SclassName,
		"school":     adminOID,
	}).Err(); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Sorry this class name already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Class creation failed", err)
	}

	sclass := classModel.SclassModel{
		SclassName: req.SclassName,
		School:     adminOID,
	}
	var row classModel.SclassRow

	err = dualwrite.New().
		Then(dualwrite.Step{
			Name: "mongo insert",
			Do: func(ctx context.Context) error {
				res, err := ctl.col().InsertOne(ctx, sclass)
				if err != nil {
					return err
				}
				sclass.ID = res.InsertedID.(primitive.ObjectID)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ctl.col().DeleteOne(ctx, bson.M{"_id": sclass.ID})
				return err
			},
		}).
		Then(dualwrite.Step{
			Name: "mysql insert",
			Do: func(ctx context.Context) error {
				row = classModel.SclassRow{
					SclassName: sclass.SclassName,
					AdminID:    adminRowID,
				}
				return ctl.DB.WithContext(ctx).Create(&row).Error
			},
		}).
		Run(ctx)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Class creation failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(classDTO.FromSclassModel(sclass, &row.SclassID))
}

/* =========================================================
   LIST (per school)
   GET /SclassList/:id
   ========================================================= */
func (ctl *SclassController) List(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch classes", err)
	}

	ctx := c.Context()

	cur, err := ctl.col().Find(ctx, bson.M{"school": schoolOID})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch classes", err)
	}
	var sclasses []classModel.SclassModel
	if err := cur.All(ctx, &sclasses); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch classes", err)
	}
	if len(sclasses) == 0 {
		return helper.Message(c, "No classes found")
	}

	// The mirror lookup filters on the document id instead of the numeric
	// admin id, so it comes back empty and every mysql_id is null. Kept
	// as-is: clients treat mysql_id on this list as informational only.
	var rows []classModel.SclassRow
	if err := ctl.DB.WithContext(ctx).
		Where("admin_id = ?", schoolOID.Hex()).
		Find(&rows).Error; err != nil {
		log.Printf("[WARN] class mirror lookup failed: %v", err)
	}
	byName := make(map[string]uint64, len(rows))
	for _, r := range rows {
		byName[r.SclassName] = r.SclassID
	}

	out := make([]classDTO.SclassResponse, 0, len(sclasses))
	for _, s := range sclasses {
		var id *uint64
		if v, ok := byName[s.SclassName]; ok {
			id = &v
		}
		out = append(out, classDTO.FromSclassModel(s, id))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

/* =========================================================
   DETAIL
   GET /Sclass/:id
   ========================================================= */
func (ctl *SclassController) GetDetail(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch class details", err)
	}

	ctx := c.Context()

	var sclass classModel.SclassModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&sclass); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Message(c, "No class found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch class details", err)
	}

	var school adminModel.AdminModel
	if err := ctl.admins().FindOne(ctx, bson.M{"_id": sclass.School}).Decode(&school); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch class details", err)
	}

	// Same document-id-for-admin-id mismatch as the list endpoint.
	var mysqlID *uint64
	var row classModel.SclassRow
	if err := ctl.DB.WithContext(ctx).
		Where("sclass_name = ? AND admin_id = ?", sclass.SclassName, sclass.School.Hex()).
		First(&row).Error; err == nil {
		mysqlID = &row.SclassID
	}

	return c.Status(fiber.StatusOK).JSON(classDTO.SclassDetailResponse{
		ID:         sclass.ID,
		SclassName: sclass.SclassName,
		School:     school,
		MySQLID:    mysqlID,
	})
}

/* =========================================================
   STUDENTS OF A CLASS
   GET /Sclass/Students/:id
   ========================================================= */
func (ctl *SclassController) GetStudents(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch students", err)
	}

	ctx := c.Context()

	cur, err := ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName()).
		Find(ctx, bson.M{"sclassName": oid},
			options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch students", err)
	}
	var students []studentModel.StudentModel
	if err := cur.All(ctx, &students); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch students", err)
	}
	if len(students) == 0 {
		return helper.Message(c, "No students found")
	}
	return c.Status(fiber.StatusOK).JSON(students)
}

/* =========================================================
   TEACHERS OF A CLASS
   GET /Sclass/Teachers/:id
   ========================================================= */
func (ctl *SclassController) GetTeachers(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}

	ctx := c.Context()

	cur, err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
		Find(ctx, bson.M{"teachSclass": oid},
			options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}
	var teachers []teacherModel.TeacherModel
	if err := cur.All(ctx, &teachers); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}
	if len(teachers) == 0 {
		return helper.Error(c, fiber.StatusNotFound, "No teachers found for this class")
	}
	return c.Status(fiber.StatusOK).JSON(teachers)
}

/* =========================================================
   DELETE ONE
   DELETE /Sclass/:id
   ========================================================= */
func (ctl *SclassController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}

	ctx := c.Context()

	var sclass classModel.SclassModel
	if err := ctl.col().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&sclass); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Class not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}

	// Document-side cascade; the mirror relies on ON DELETE foreign keys
	// hanging off the sclass row.
	if _, err := ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"sclassName": oid}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}
	if _, err := ctl.Mongo.Collection(subjectModel.SubjectModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"sclassName": oid}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}
	if _, err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"teachSclass": oid}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, sclass.School); rerr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("sclass_name = ? AND admin_id = ?", sclass.SclassName, adminRowID).
			Delete(&classModel.SclassRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete class", err)
		}
	} else {
		log.Printf("[WARN] mirror row not removed for class %s: %v", sclass.SclassName, rerr)
	}

	return c.Status(fiber.StatusOK).JSON(sclass)
}

/* =========================================================
   DELETE ALL OF A SCHOOL
   DELETE /Sclasses/:id
   ========================================================= */
func (ctl *SclassController) DeleteAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
	}

	ctx := c.Context()

	res, err := ctl.col().DeleteMany(ctx, bson.M{"school": schoolOID})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
	}
	if res.DeletedCount == 0 {
		return helper.Message(c, "No classes found to delete")
	}

	if _, err := ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"school": schoolOID}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
	}
	if _, err := ctl.Mongo.Collection(subjectModel.SubjectModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"school": schoolOID}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
	}
	if _, err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
		DeleteMany(ctx, bson.M{"school": schoolOID}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, schoolOID); rerr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("admin_id = ?", adminRowID).
			Delete(&classModel.SclassRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete classes", err)
		}
	} else {
		log.Printf("[WARN] mirror rows not removed for school %s: %v", schoolOID.Hex(), rerr)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deletedCount": res.DeletedCount})
}

// adminRowIDForSchool resolves a school document id to the mirror's numeric
// admin id via the admin email.
func (ctl *SclassController) adminRowIDForSchool(ctx context.Context, school primitive.ObjectID) (uint64, error) {
	var admin adminModel.AdminModel
	if err := ctl.admins().FindOne(ctx, bson.M{"_id": school}).Decode(&admin); err != nil {
		return 0, err
	}
	return ctl.Resolve.AdminID(ctx, admin.Email)
}
