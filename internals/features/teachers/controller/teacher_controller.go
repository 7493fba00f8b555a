package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/dualwrite"
	adminModel "schoolhub_backend/internals/features/admins/model"
	classModel "schoolhub_backend/internals/features/classes/model"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	teacherDTO "schoolhub_backend/internals/features/teachers/dto"
	teacherModel "schoolhub_backend/internals/features/teachers/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/resolver"
)

type TeacherController struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	Resolve *resolver.Resolver
}

func NewTeacherController(mdb *mongo.Database, db *gorm.DB) *TeacherController {
	return &TeacherController{Mongo: mdb, DB: db, Resolve: resolver.New(db)}
}

func (ctl *TeacherController) col() *mongo.Collection {
	return ctl.Mongo.Collection(teacherModel.TeacherModel{}.CollectionName())
}

func (ctl *TeacherController) subjects() *mongo.Collection {
	return ctl.Mongo.Collection(subjectModel.SubjectModel{}.CollectionName())
}

/* =========================================================
   REGISTER
   POST /TeacherReg
   ========================================================= */
func (ctl *TeacherController) Register(c *fiber.Ctx) error {
	var req teacherDTO.RegisterTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Name, email, and password are required")
	}
	if err := helper.ValidateStruct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	schoolOID, err := primitive.ObjectIDFromHex(req.School)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "School not found")
	}

	ctx := c.Context()

	var school adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": schoolOID}).Decode(&school); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "School not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}
	adminRowID, err := ctl.Resolve.AdminID(ctx, school.Email)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found in MySQL database")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}

	var subjectOID *primitive.ObjectID
	var subjectRowID *uint64
	if req.TeachSubject != "" {
		oid, perr := primitive.ObjectIDFromHex(req.TeachSubject)
		if perr != nil {
			return helper.Error(c, fiber.StatusNotFound, "Subject not found")
		}
		var subject subjectModel.SubjectModel
		if err := ctl.subjects().FindOne(ctx, bson.M{"_id": oid}).Decode(&subject); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return helper.Error(c, fiber.StatusNotFound, "Subject not found")
			}
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
		}
		id, rerr := ctl.Resolve.SubjectID(ctx, subject.SubCode, adminRowID)
		if rerr != nil {
			if errors.Is(rerr, resolver.ErrNotFound) {
				return helper.Error(c, fiber.StatusNotFound, "Subject not found in MySQL database")
			}
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", rerr)
		}
		subjectOID = &oid
		subjectRowID = &id
	}

	var sclassOID *primitive.ObjectID
	var sclassRowID *uint64
	if req.TeachSclass != "" {
		oid, perr := primitive.ObjectIDFromHex(req.TeachSclass)
		if perr != nil {
			return helper.Error(c, fiber.StatusNotFound, "Class not found")
		}
		var sclass classModel.SclassModel
		if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
			FindOne(ctx, bson.M{"_id": oid}).Decode(&sclass); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return helper.Error(c, fiber.StatusNotFound, "Class not found")
			}
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
		}
		id, rerr := ctl.Resolve.SclassID(ctx, sclass.SclassName, adminRowID)
		if rerr != nil {
			if errors.Is(rerr, resolver.ErrNotFound) {
				return helper.Error(c, fiber.StatusNotFound, "Class not found in MySQL database")
			}
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", rerr)
		}
		sclassOID = &oid
		sclassRowID = &id
	}

	// Duplicate email is checked against both stores.
	if err := ctl.col().FindOne(ctx, bson.M{"email": req.Email}).Err(); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}
	if _, err := ctl.Resolve.TeacherID(ctx, req.Email); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, resolver.ErrNotFound) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}

	hashed, err := helper.HashPassword(req.Password)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}

	role := req.Role
	if role == "" {
		role = "Teacher"
	}
	teacher := teacherModel.TeacherModel{
		Name:         req.Name,
		Email:        req.Email,
		Password:     hashed,
		Role:         role,
		School:       schoolOID,
		TeachSubject: subjectOID,
		TeachSclass:  sclassOID,
		Attendance:   []teacherModel.TeacherAttendanceEntry{},
	}
	var row teacherModel.TeacherRow

	err = dualwrite.New().
		Then(dualwrite.Step{
			Name: "mongo insert",
			Do: func(ctx context.Context) error {
				res, err := ctl.col().InsertOne(ctx, teacher)
				if err != nil {
					return err
				}
				teacher.ID = res.InsertedID.(primitive.ObjectID)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ctl.col().DeleteOne(ctx, bson.M{"_id": teacher.ID})
				return err
			},
		}).
		Then(dualwrite.Step{
			Name: "mysql insert",
			Do: func(ctx context.Context) error {
				row = teacherModel.TeacherRow{
					Name:      teacher.Name,
					Email:     teacher.Email,
					Password:  teacher.Password,
					Role:      teacher.Role,
					AdminID:   adminRowID,
					SubjectID: subjectRowID,
					SclassID:  sclassRowID,
				}
				return ctl.DB.WithContext(ctx).Create(&row).Error
			},
		}).
		Run(ctx)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Internal server error during teacher registration", err)
	}

	// Claim the subject in both stores once the teacher exists.
	if subjectOID != nil {
		if _, err := ctl.subjects().UpdateOne(ctx, bson.M{"_id": *subjectOID},
			bson.M{"$set": bson.M{"teacher": teacher.ID}}); err != nil {
			log.Printf("[WARN] subject back-reference not set: %v", err)
		}
		if err := ctl.DB.WithContext(ctx).Model(&subjectModel.SubjectRow{}).
			Where("subject_id = ?", *subjectRowID).
			Update("teacher_id", row.TeacherID).Error; err != nil {
			log.Printf("[WARN] subject mirror back-reference not set: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(teacherDTO.FromTeacherModel(teacher, &row.TeacherID))
}

/* =========================================================
   LOGIN
   POST /TeacherLogin
   ========================================================= */
func (ctl *TeacherController) Login(c *fiber.Ctx) error {
	var req teacherDTO.LoginTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Context()

	var teacher teacherModel.TeacherModel
	mongoErr := ctl.col().FindOne(ctx, bson.M{"email": req.Email}).Decode(&teacher)

	mysqlID, sqlErr := ctl.Resolve.TeacherID(ctx, req.Email)

	if errors.Is(mongoErr, mongo.ErrNoDocuments) || errors.Is(sqlErr, resolver.ErrNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "Teacher not found")
	}
	if mongoErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", mongoErr)
	}
	if sqlErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", sqlErr)
	}

	if !helper.CheckPassword(teacher.Password, req.Password) {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid password")
	}

	token, err := helper.SignToken(teacher.ID.Hex())
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", err)
	}

	resp := teacherDTO.LoginTeacherResponse{
		ID:      teacher.ID,
		Name:    teacher.Name,
		Email:   teacher.Email,
		Role:    teacher.Role,
		Token:   token,
		MySQLID: &mysqlID,
	}
	ctl.expandRefs(ctx, teacher, &resp)

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (ctl *TeacherController) expandRefs(ctx context.Context, teacher teacherModel.TeacherModel, resp *teacherDTO.LoginTeacherResponse) {
	var school adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": teacher.School}).Decode(&school); err == nil {
		resp.School = &teacherDTO.SchoolRef{ID: school.ID, SchoolName: school.SchoolName}
	}
	if teacher.TeachSubject != nil {
		var subject subjectModel.SubjectModel
		if err := ctl.subjects().FindOne(ctx, bson.M{"_id": *teacher.TeachSubject}).Decode(&subject); err == nil {
			resp.TeachSubject = &teacherDTO.SubjectRef{ID: subject.ID, SubName: subject.SubName, Sessions: subject.Sessions}
		}
	}
	if teacher.TeachSclass != nil {
		var sclass classModel.SclassModel
		if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
			FindOne(ctx, bson.M{"_id": *teacher.TeachSclass}).Decode(&sclass); err == nil {
			resp.TeachSclass = &teacherDTO.SclassRef{ID: sclass.ID, SclassName: sclass.SclassName}
		}
	}
}

/* =========================================================
   LIST (per school)
   GET /Teachers/:id
   ========================================================= */
func (ctl *TeacherController) GetTeachers(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}

	ctx := c.Context()

	cur, err := ctl.col().Find(ctx, bson.M{"school": schoolOID},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}
	var teachers []teacherModel.TeacherModel
	if err := cur.All(ctx, &teachers); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teachers", err)
	}
	if len(teachers) == 0 {
		return helper.Message(c, "No teachers found")
	}

	out := make([]teacherDTO.TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		var id *uint64
		if v, err := ctl.Resolve.TeacherID(ctx, t.Email); err == nil {
			id = &v
		}
		out = append(out, teacherDTO.FromTeacherModel(t, id))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

/* =========================================================
   DETAIL
   GET /Teacher/:id
   ========================================================= */
func (ctl *TeacherController) GetDetail(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teacher", err)
	}

	ctx := c.Context()

	var teacher teacherModel.TeacherModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&teacher); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Message(c, "No teacher found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch teacher", err)
	}

	var id *uint64
	if v, err := ctl.Resolve.TeacherID(ctx, teacher.Email); err == nil {
		id = &v
	}
	return c.Status(fiber.StatusOK).JSON(teacherDTO.FromTeacherModel(teacher, id))
}

/* =========================================================
   REASSIGN SUBJECT
   PUT /TeacherSubject
   ========================================================= */
func (ctl *TeacherController) UpdateSubject(c *fiber.Ctx) error {
	var req teacherDTO.UpdateTeacherSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	teacherOID, err := primitive.ObjectIDFromHex(req.TeacherID)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Teacher not found")
	}
	subjectOID, err := primitive.ObjectIDFromHex(req.TeachSubject)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Subject not found")
	}

	ctx := c.Context()

	var teacher teacherModel.TeacherModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": teacherOID}).Decode(&teacher); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Teacher not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
	}
	var subject subjectModel.SubjectModel
	if err := ctl.subjects().FindOne(ctx, bson.M{"_id": subjectOID}).Decode(&subject); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
	}

	// Four writes, same assignment, both directions, both stores.
	// Re-running with the same pair is a no-op.
	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": teacherOID},
		bson.M{"$set": bson.M{"teachSubject": subjectOID}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
	}
	if _, err := ctl.subjects().UpdateOne(ctx, bson.M{"_id": subjectOID},
		bson.M{"$set": bson.M{"teacher": teacherOID}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
	}

	teacherRowID, terr := ctl.Resolve.TeacherID(ctx, teacher.Email)
	subjectRowID, serr := ctl.Resolve.SubjectIDByCode(ctx, subject.SubCode)
	if terr == nil && serr == nil {
		if err := ctl.DB.WithContext(ctx).Model(&teacherModel.TeacherRow{}).
			Where("teacher_id = ?", teacherRowID).
			Update("subject_id", subjectRowID).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
		}
		if err := ctl.DB.WithContext(ctx).Model(&subjectModel.SubjectRow{}).
			Where("subject_id = ?", subjectRowID).
			Update("teacher_id", teacherRowID).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update teacher subject", err)
		}
	} else {
		log.Printf("[WARN] mirror reassignment skipped: teacher=%v subject=%v", terr, serr)
	}

	teacher.TeachSubject = &subjectOID
	return c.Status(fiber.StatusOK).JSON(teacherDTO.FromTeacherModel(teacher, nil))
}

/* =========================================================
   DELETE
   DELETE /Teacher/:id  /Teachers/:id (school)  /TeachersClass/:id (class)
   ========================================================= */
func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}

	ctx := c.Context()

	var teacher teacherModel.TeacherModel
	if err := ctl.col().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&teacher); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Teacher not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}

	if _, err := ctl.subjects().UpdateMany(ctx, bson.M{"teacher": oid},
		bson.M{"$unset": bson.M{"teacher": ""}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}

	if teacherRowID, rerr := ctl.Resolve.TeacherID(ctx, teacher.Email); rerr == nil {
		if err := ctl.DB.WithContext(ctx).Model(&subjectModel.SubjectRow{}).
			Where("teacher_id = ?", teacherRowID).
			Update("teacher_id", nil).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
		}
		if err := ctl.DB.WithContext(ctx).
			Delete(&teacherModel.TeacherRow{}, teacherRowID).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
		}
	} else {
		log.Printf("[WARN] mirror row not removed for teacher %s: %v", teacher.Email, rerr)
	}

	return c.Status(fiber.StatusOK).JSON(teacher)
}

// DeleteAll and DeleteByClass only touch the document store; the mirror
// rows linger until the school is cleaned up wholesale.
func (ctl *TeacherController) DeleteAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"school": schoolOID})
}

func (ctl *TeacherController) DeleteByClass(c *fiber.Ctx) error {
	sclassOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"teachSclass": sclassOID})
}

func (ctl *TeacherController) deleteMany(c *fiber.Ctx, filter bson.M) error {
	ctx := c.Context()

	res, err := ctl.col().DeleteMany(ctx, filter)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete teacher(s)", err)
	}
	if res.DeletedCount == 0 {
		return helper.Message(c, "No teachers found to delete")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deletedCount": res.DeletedCount})
}

/* =========================================================
   ATTENDANCE
   POST /TeacherAttendance/:id
   ========================================================= */
func (ctl *TeacherController) Attendance(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.Message(c, "Teacher not found")
	}
	var req teacherDTO.TeacherAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Context()

	var teacher teacherModel.TeacherModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&teacher); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Message(c, "Teacher not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}

	teacher.Attendance = teacherModel.UpsertTeacherAttendance(teacher.Attendance, req.Date, req.Status)
	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"attendance": teacher.Attendance}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}

	if teacherRowID, rerr := ctl.Resolve.TeacherID(ctx, teacher.Email); rerr == nil {
		row := teacherModel.TeacherAttendanceRow{
			TeacherID: teacherRowID,
			Date:      req.Date.UTC().Truncate(24 * time.Hour),
			Status:    req.Status,
		}
		if err := ctl.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teacher_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": req.Status}),
		}).Create(&row).Error; err != nil {
			log.Printf("[WARN] attendance mirror upsert failed: %v", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(teacherDTO.FromTeacherModel(teacher, nil))
}
