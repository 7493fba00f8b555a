package controller

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"schoolhub_backend/internals/dualwrite"
	adminModel "schoolhub_backend/internals/features/admins/model"
	classModel "schoolhub_backend/internals/features/classes/model"
	studentModel "schoolhub_backend/internals/features/students/model"
	subjectDTO "schoolhub_backend/internals/features/subjects/dto"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/resolver"
)

type SubjectController struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	Resolve *resolver.Resolver
}

func NewSubjectController(mdb *mongo.Database, db *gorm.DB) *SubjectController {
	return &SubjectController{Mongo: mdb, DB: db, Resolve: resolver.New(db)}
}

func (ctl *SubjectController) col() *mongo.Collection {
	return ctl.Mongo.Collection(subjectModel.SubjectModel{}.CollectionName())
}

/* =========================================================
   CREATE (batch)
   POST /SubjectCreate
   ========================================================= */
func (ctl *SubjectController) Create(c *fiber.Ctx) error {
	var req subjectDTO.CreateSubjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.Subjects) == 0 || req.AdminID == "" || req.SclassName == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Subjects, admin ID and class are required")
	}

	adminOID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create subjects", err)
	}
	sclassOID, err := primitive.ObjectIDFromHex(req.SclassName)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create subjects", err)
	}

	ctx := c.Context()

	// Only the first code is checked before the batch insert; the composite
	// unique index on the mirror is the real guard.
	if err := ctl.col().FindOne(ctx, bson.M{
		"subCode": req.Subjects[0].SubCode,
		"school":  adminOID,
	}).Err(); err == nil {
		return helper.Message(c, "Sorry this subcode must be unique as it already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create subjects", err)
	}

	adminRowID, sclassRowID, err := ctl.resolveScope(ctx, adminOID, sclassOID)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Admin or class not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create subjects", err)
	}

	subjects := make([]subjectModel.SubjectModel, 0, len(req.Subjects))
	for _, in := range req.Subjects {
		subjects = append(subjects, subjectModel.SubjectModel{
			SubName:    in.SubName,
			SubCode:    in.SubCode,
			Sessions:   in.Sessions,
			SclassName: sclassOID,
			School:     adminOID,
		})
	}

	var insertedIDs []interface{}
	err = dualwrite.New().
		Then(dualwrite.Step{
			Name: "mongo insert many",
			Do: func(ctx context.Context) error {
				docs := make([]interface{}, len(subjects))
				for i := range subjects {
					docs[i] = subjects[i]
				}
				res, err := ctl.col().InsertMany(ctx, docs)
				if err != nil {
					return err
				}
				insertedIDs = res.InsertedIDs
				for i, id := range res.InsertedIDs {
					subjects[i].ID = id.(primitive.ObjectID)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ctl.col().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": insertedIDs}})
				return err
			},
		}).
		Then(dualwrite.Step{
			Name: "mysql insert many",
			Do: func(ctx context.Context) error {
				rows := make([]subjectModel.SubjectRow, 0, len(subjects))
				for _, s := range subjects {
					rows = append(rows, subjectModel.SubjectRow{
						SubName:  s.SubName,
						SubCode:  s.SubCode,
						Sessions: s.Sessions,
						SclassID: sclassRowID,
						AdminID:  adminRowID,
					})
				}
				return ctl.DB.WithContext(ctx).Create(&rows).Error
			},
		}).
		Run(ctx)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to create subjects", err)
	}

	return c.Status(fiber.StatusOK).JSON(subjects)
}

/* =========================================================
   LISTS
   GET /AllSubjects/:id  GET /ClassSubjects/:id  GET /FreeSubjectList/:id
   ========================================================= */
func (ctl *SubjectController) AllSubjects(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
	}

	ctx := c.Context()
	subjects, err := ctl.findSubjects(ctx, bson.M{"school": schoolOID})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
	}
	if len(subjects) == 0 {
		return helper.Message(c, "No subjects found")
	}

	// Mirror rows are scoped to the school's numeric admin id; sub_code is
	// only unique per school, so an unscoped read could borrow another
	// school's subject_id for a shared code.
	var rows []subjectModel.SubjectRow
	var adminRowID uint64
	if id, rerr := ctl.adminRowIDForSchool(ctx, schoolOID); rerr == nil {
		adminRowID = id
		if err := ctl.DB.WithContext(ctx).
			Where("admin_id = ?", adminRowID).
			Find(&rows).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
		}
	} else {
		log.Printf("[WARN] subject mirror not scoped for school %s: %v", schoolOID.Hex(), rerr)
	}

	return c.Status(fiber.StatusOK).JSON(mergeSubjects(subjects, mirrorIndex(rows, adminRowID)))
}

func (ctl *SubjectController) ClassSubjects(c *fiber.Ctx) error {
	return ctl.listByClass(c, false)
}

// FreeSubjects lists subjects with no teacher in either store.
func (ctl *SubjectController) FreeSubjects(c *fiber.Ctx) error {
	return ctl.listByClass(c, true)
}

func (ctl *SubjectController) listByClass(c *fiber.Ctx, freeOnly bool) error {
	sclassOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
	}

	filter := bson.M{"sclassName": sclassOID}
	if freeOnly {
		filter["teacher"] = bson.M{"$exists": false}
	}

	ctx := c.Context()
	subjects, err := ctl.findSubjects(ctx, filter)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
	}
	if len(subjects) == 0 {
		return helper.Message(c, "No subjects found")
	}

	// Scope the mirror read to the class row resolved through the class's
	// own school, same reason as AllSubjects.
	var rows []subjectModel.SubjectRow
	var adminRowID uint64
	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": sclassOID}).Decode(&sclass); err == nil {
		if id, rerr := ctl.adminRowIDForSchool(ctx, sclass.School); rerr == nil {
			adminRowID = id
			if sclassRowID, rerr := ctl.Resolve.SclassID(ctx, sclass.SclassName, adminRowID); rerr == nil {
				q := ctl.DB.WithContext(ctx).
					Where("admin_id = ? AND sclass_id = ?", adminRowID, sclassRowID)
				if freeOnly {
					q = q.Where("teacher_id IS NULL")
				}
				if err := q.Find(&rows).Error; err != nil {
					return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subjects", err)
				}
			}
		}
	}
	if adminRowID == 0 {
		log.Printf("[WARN] subject mirror not scoped for class %s", sclassOID.Hex())
	}

	return c.Status(fiber.StatusOK).JSON(mergeSubjects(subjects, mirrorIndex(rows, adminRowID)))
}

func (ctl *SubjectController) findSubjects(ctx context.Context, filter bson.M) ([]subjectModel.SubjectModel, error) {
	cur, err := ctl.col().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var subjects []subjectModel.SubjectModel
	if err := cur.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// mirrorIndex maps sub_code to the mirror's subject_id, keeping only rows
// that belong to the given admin so a code shared across schools never
// resolves to another school's row.
func mirrorIndex(rows []subjectModel.SubjectRow, adminRowID uint64) map[string]uint64 {
	byCode := make(map[string]uint64, len(rows))
	for _, r := range rows {
		if r.AdminID == adminRowID {
			byCode[r.SubCode] = r.SubjectID
		}
	}
	return byCode
}

func mergeSubjects(subjects []subjectModel.SubjectModel, byCode map[string]uint64) []subjectDTO.SubjectResponse {
	out := make([]subjectDTO.SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		var id *uint64
		if v, ok := byCode[s.SubCode]; ok {
			id = &v
		}
		out = append(out, subjectDTO.FromSubjectModel(s, id))
	}
	return out
}

/* =========================================================
   DETAIL
   GET /Subject/:id
   ========================================================= */
func (ctl *SubjectController) GetDetail(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subject", err)
	}

	ctx := c.Context()

	var subject subjectModel.SubjectModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&subject); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "No subject found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch subject", err)
	}

	detail := subjectDTO.SubjectDetailResponse{
		ID:       subject.ID,
		SubName:  subject.SubName,
		SubCode:  subject.SubCode,
		Sessions: subject.Sessions,
		School:   subject.School,
	}

	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": subject.SclassName}).Decode(&sclass); err == nil {
		detail.SclassName = &subjectDTO.SclassRef{ID: sclass.ID, SclassName: sclass.SclassName}
	}
	if subject.Teacher != nil {
		var teacher teacherModel.TeacherModel
		if err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
			FindOne(ctx, bson.M{"_id": *subject.Teacher}).Decode(&teacher); err == nil {
			detail.Teacher = &subjectDTO.TeacherRef{ID: teacher.ID, Name: teacher.Name}
		}
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, subject.School); rerr == nil {
		if id, rerr := ctl.Resolve.SubjectID(ctx, subject.SubCode, adminRowID); rerr == nil {
			detail.MySQLID = &id
		}
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

/* =========================================================
   DELETE ONE
   DELETE /Subject/:id
   ========================================================= */
func (ctl *SubjectController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}

	ctx := c.Context()

	var subject subjectModel.SubjectModel
	if err := ctl.col().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&subject); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}

	if err := ctl.detachAndPrune(ctx, bson.M{"teachSubject": oid}, bson.M{
		"$or": []bson.M{
			{"examResult.subName": oid},
			{"attendance.subName": oid},
		},
	}, oid); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, subject.School); rerr == nil {
		if subjectRowID, rerr := ctl.Resolve.SubjectID(ctx, subject.SubCode, adminRowID); rerr == nil {
			if err := ctl.DB.WithContext(ctx).Model(&teacherModel.TeacherRow{}).
				Where("subject_id = ?", subjectRowID).
				Update("subject_id", nil).Error; err != nil {
				return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
			}
			if err := ctl.DB.WithContext(ctx).
				Delete(&subjectModel.SubjectRow{}, subjectRowID).Error; err != nil {
				return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(subject)
}

/* =========================================================
   DELETE MANY
   DELETE /Subjects/:id (school)  DELETE /SubjectsClass/:id (class)
   ========================================================= */
func (ctl *SubjectController) DeleteAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"school": schoolOID}, schoolOID, "")
}

func (ctl *SubjectController) DeleteByClass(c *fiber.Ctx) error {
	sclassOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}

	ctx := c.Context()
	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": sclassOID}).Decode(&sclass); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Class not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"sclassName": sclassOID}, sclass.School, sclass.SclassName)
}

func (ctl *SubjectController) deleteMany(c *fiber.Ctx, filter bson.M, school primitive.ObjectID, sclassName string) error {
	ctx := c.Context()

	res, err := ctl.col().DeleteMany(ctx, filter)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}
	if res.DeletedCount == 0 {
		return helper.Message(c, "No subjects found to delete")
	}

	// Bulk path wipes the embedded arrays outright rather than pulling
	// individual entries.
	if _, err := ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName()).
		UpdateMany(ctx, bson.M{"school": school},
			bson.M{"$set": bson.M{"examResult": []bson.M{}, "attendance": []bson.M{}}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}
	if _, err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
		UpdateMany(ctx, bson.M{"school": school},
			bson.M{"$unset": bson.M{"teachSubject": ""}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, school); rerr == nil {
		if err := ctl.DB.WithContext(ctx).Model(&teacherModel.TeacherRow{}).
			Where("admin_id = ?", adminRowID).
			Update("subject_id", nil).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
		}
		q := ctl.DB.WithContext(ctx).Where("admin_id = ?", adminRowID)
		if sclassName != "" {
			if sclassRowID, rerr := ctl.Resolve.SclassID(ctx, sclassName, adminRowID); rerr == nil {
				q = q.Where("sclass_id = ?", sclassRowID)
			}
		}
		if err := q.Delete(&subjectModel.SubjectRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete subject(s)", err)
		}
	} else {
		log.Printf("[WARN] mirror subjects not removed for school %s: %v", school.Hex(), rerr)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deletedCount": res.DeletedCount})
}

// detachAndPrune unsets the teacher back-reference and pulls the subject's
// entries from every student's embedded arrays.
func (ctl *SubjectController) detachAndPrune(ctx context.Context, teacherFilter, studentFilter bson.M, sub primitive.ObjectID) error {
	if _, err := ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName()).
		UpdateMany(ctx, teacherFilter, bson.M{"$unset": bson.M{"teachSubject": ""}}); err != nil {
		return err
	}
	_, err := ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName()).
		UpdateMany(ctx, studentFilter, bson.M{"$pull": bson.M{
			"examResult": bson.M{"subName": sub},
			"attendance": bson.M{"subName": sub},
		}})
	return err
}

func (ctl *SubjectController) resolveScope(ctx context.Context, adminOID, sclassOID primitive.ObjectID) (adminRowID, sclassRowID uint64, err error) {
	var admin adminModel.AdminModel
	if err = ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": adminOID}).Decode(&admin); err != nil {
		return 0, 0, err
	}
	if adminRowID, err = ctl.Resolve.AdminID(ctx, admin.Email); err != nil {
		return 0, 0, err
	}

	var sclass classModel.SclassModel
	if err = ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": sclassOID}).Decode(&sclass); err != nil {
		return 0, 0, err
	}
	if sclassRowID, err = ctl.Resolve.SclassID(ctx, sclass.SclassName, adminRowID); err != nil {
		return 0, 0, err
	}
	return adminRowID, sclassRowID, nil
}

func (ctl *SubjectController) adminRowIDForSchool(ctx context.Context, school primitive.ObjectID) (uint64, error) {
	var admin adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": school}).Decode(&admin); err != nil {
		return 0, err
	}
	return ctl.Resolve.AdminID(ctx, admin.Email)
}
