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
	studentDTO "schoolhub_backend/internals/features/students/dto"
	studentModel "schoolhub_backend/internals/features/students/model"
	subjectModel "schoolhub_backend/internals/features/subjects/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/resolver"
)

type StudentController struct {
	Mongo   *mongo.Database
	DB      *gorm.DB
	Resolve *resolver.Resolver
}

func NewStudentController(mdb *mongo.Database, db *gorm.DB) *StudentController {
	return &StudentController{Mongo: mdb, DB: db, Resolve: resolver.New(db)}
}

func (ctl *StudentController) col() *mongo.Collection {
	return ctl.Mongo.Collection(studentModel.StudentModel{}.CollectionName())
}

func (ctl *StudentController) subjects() *mongo.Collection {
	return ctl.Mongo.Collection(subjectModel.SubjectModel{}.CollectionName())
}

/* =========================================================
   REGISTER
   POST /StudentReg
   ========================================================= */
func (ctl *StudentController) Register(c *fiber.Ctx) error {
	var req studentDTO.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.RollNum == 0 || req.Password == "" || req.SclassName == "" || req.AdminID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "All fields are required")
	}

	adminOID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}
	sclassOID, err := primitive.ObjectIDFromHex(req.SclassName)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	ctx := c.Context()

	var admin adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": adminOID}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}
	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": sclassOID}).Decode(&sclass); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Class not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	adminRowID, err := ctl.Resolve.AdminID(ctx, admin.Email)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Admin not found in MySQL database")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}
	sclassRowID, err := ctl.Resolve.SclassID(ctx, sclass.SclassName, adminRowID)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Class not found in MySQL database")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	// Duplicate roll number is checked against both stores.
	if err := ctl.col().FindOne(ctx, bson.M{
		"rollNum":    req.RollNum,
		"school":     adminOID,
		"sclassName": sclassOID,
	}).Err(); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Roll Number already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}
	if _, err := ctl.Resolve.StudentID(ctx, req.RollNum, req.Name); err == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Roll Number already exists")
	} else if !errors.Is(err, resolver.ErrNotFound) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	hashed, err := helper.HashPassword(req.Password)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	student := studentModel.StudentModel{
		Name:       req.Name,
		RollNum:    req.RollNum,
		Password:   hashed,
		Role:       "Student",
		School:     adminOID,
		SclassName: sclassOID,
		Attendance: []studentModel.AttendanceEntry{},
		ExamResult: []studentModel.ExamResultEntry{},
	}
	var row studentModel.StudentRow

	err = dualwrite.New().
		Then(dualwrite.Step{
			Name: "mongo insert",
			Do: func(ctx context.Context) error {
				res, err := ctl.col().InsertOne(ctx, student)
				if err != nil {
					return err
				}
				student.ID = res.InsertedID.(primitive.ObjectID)
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := ctl.col().DeleteOne(ctx, bson.M{"_id": student.ID})
				return err
			},
		}).
		Then(dualwrite.Step{
			Name: "mysql insert",
			Do: func(ctx context.Context) error {
				row = studentModel.StudentRow{
					Name:     student.Name,
					RollNum:  student.RollNum,
					Password: student.Password,
					AdminID:  adminRowID,
					SclassID: sclassRowID,
				}
				return ctl.DB.WithContext(ctx).Create(&row).Error
			},
		}).
		Run(ctx)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to register student", err)
	}

	return c.Status(fiber.StatusCreated).JSON(studentDTO.FromStudentModel(student, &row.StudentID))
}

/* =========================================================
   LOGIN
   POST /StudentLogin
   ========================================================= */
func (ctl *StudentController) Login(c *fiber.Ctx) error {
	var req studentDTO.LoginStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	mongoErr := ctl.col().FindOne(ctx, bson.M{
		"rollNum": req.RollNum,
		"name":    req.StudentName,
	}).Decode(&student)

	mysqlID, sqlErr := ctl.Resolve.StudentID(ctx, req.RollNum, req.StudentName)

	if errors.Is(mongoErr, mongo.ErrNoDocuments) || errors.Is(sqlErr, resolver.ErrNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}
	if mongoErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", mongoErr)
	}
	if sqlErr != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Login failed", sqlErr)
	}

	if !helper.CheckPassword(student.Password, req.Password) {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid password")
	}

	resp := studentDTO.LoginStudentResponse{
		ID:      student.ID,
		Name:    student.Name,
		RollNum: student.RollNum,
		Role:    student.Role,
		MySQLID: &mysqlID,
	}
	var school adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": student.School}).Decode(&school); err == nil {
		resp.School = &studentDTO.SchoolRef{ID: school.ID, SchoolName: school.SchoolName}
	}
	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": student.SclassName}).Decode(&sclass); err == nil {
		resp.SclassName = &studentDTO.SclassRef{ID: sclass.ID, SclassName: sclass.SclassName}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

/* =========================================================
   LIST (per school)
   GET /Students/:id
   ========================================================= */
func (ctl *StudentController) GetStudents(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch students", err)
	}

	ctx := c.Context()

	cur, err := ctl.col().Find(ctx, bson.M{"school": schoolOID},
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

	out := make([]studentDTO.StudentResponse, 0, len(students))
	for _, s := range students {
		var id *uint64
		if v, err := ctl.Resolve.StudentID(ctx, s.RollNum, s.Name); err == nil {
			id = &v
		}
		out = append(out, studentDTO.FromStudentModel(s, id))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

/* =========================================================
   DETAIL
   GET /Student/:id
   ========================================================= */
func (ctl *StudentController) GetDetail(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch student", err)
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Message(c, "No student found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to fetch student", err)
	}

	detail := studentDTO.StudentDetailResponse{
		ID:         student.ID,
		Name:       student.Name,
		RollNum:    student.RollNum,
		Role:       student.Role,
		Attendance: []studentDTO.AttendanceDetail{},
		ExamResult: []studentDTO.ExamResultDetail{},
	}

	var school adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": student.School}).Decode(&school); err == nil {
		detail.School = &studentDTO.SchoolRef{ID: school.ID, SchoolName: school.SchoolName}
	}
	var sclass classModel.SclassModel
	if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": student.SclassName}).Decode(&sclass); err == nil {
		detail.SclassName = &studentDTO.SclassRef{ID: sclass.ID, SclassName: sclass.SclassName}
	}

	subRefs := ctl.subjectRefs(ctx, student)
	for _, a := range student.Attendance {
		detail.Attendance = append(detail.Attendance, studentDTO.AttendanceDetail{
			Date:    a.Date,
			Status:  a.Status,
			SubName: subRefs[a.SubName],
		})
	}
	for _, e := range student.ExamResult {
		ref := subRefs[e.SubName]
		if ref != nil {
			// exam rows carry the name only, not the sessions count
			ref = &studentDTO.SubjectRef{ID: ref.ID, SubName: ref.SubName}
		}
		detail.ExamResult = append(detail.ExamResult, studentDTO.ExamResultDetail{
			SubName:       ref,
			MarksObtained: e.MarksObtained,
		})
	}

	if id, err := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name); err == nil {
		detail.MySQLID = &id
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

// subjectRefs loads every subject referenced by the embedded arrays in one
// query.
func (ctl *StudentController) subjectRefs(ctx context.Context, student studentModel.StudentModel) map[primitive.ObjectID]*studentDTO.SubjectRef {
	ids := make([]primitive.ObjectID, 0, len(student.Attendance)+len(student.ExamResult))
	seen := make(map[primitive.ObjectID]bool)
	for _, a := range student.Attendance {
		if !seen[a.SubName] {
			seen[a.SubName] = true
			ids = append(ids, a.SubName)
		}
	}
	for _, e := range student.ExamResult {
		if !seen[e.SubName] {
			seen[e.SubName] = true
			ids = append(ids, e.SubName)
		}
	}

	refs := make(map[primitive.ObjectID]*studentDTO.SubjectRef, len(ids))
	if len(ids) == 0 {
		return refs
	}
	cur, err := ctl.subjects().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("[WARN] subject lookup failed: %v", err)
		return refs
	}
	var subs []subjectModel.SubjectModel
	if err := cur.All(ctx, &subs); err != nil {
		log.Printf("[WARN] subject decode failed: %v", err)
		return refs
	}
	for _, s := range subs {
		refs[s.ID] = &studentDTO.SubjectRef{ID: s.ID, SubName: s.SubName, Sessions: s.Sessions}
	}
	return refs
}

/* =========================================================
   UPDATE
   PUT /Student/:id
   ========================================================= */
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}
	var req studentDTO.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}

	// The mirror row must be located by the OLD natural key before the
	// document changes it.
	mysqlID, err := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name)
	if err != nil && !errors.Is(err, resolver.ErrNotFound) {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}
	hasRow := err == nil

	set := bson.M{}
	rowUpdates := map[string]interface{}{}

	if req.Name != nil {
		set["name"] = *req.Name
		rowUpdates["name"] = *req.Name
		student.Name = *req.Name
	}
	if req.RollNum != nil {
		set["rollNum"] = *req.RollNum
		rowUpdates["roll_num"] = *req.RollNum
		student.RollNum = *req.RollNum
	}
	if req.Password != nil && *req.Password != "" {
		hashed, herr := helper.HashPassword(*req.Password)
		if herr != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", herr)
		}
		set["password"] = hashed
		rowUpdates["password"] = hashed
		student.Password = hashed
	}
	if req.SclassName != nil {
		sclassOID, perr := primitive.ObjectIDFromHex(*req.SclassName)
		if perr != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", perr)
		}
		var sclass classModel.SclassModel
		if err := ctl.Mongo.Collection(classModel.SclassModel{}.CollectionName()).
			FindOne(ctx, bson.M{"_id": sclassOID}).Decode(&sclass); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return helper.Error(c, fiber.StatusNotFound, "Class not found")
			}
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
		}
		set["sclassName"] = sclassOID
		student.SclassName = sclassOID

		if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, student.School); rerr == nil {
			if sclassRowID, rerr := ctl.Resolve.SclassID(ctx, sclass.SclassName, adminRowID); rerr == nil {
				rowUpdates["sclass_id"] = sclassRowID
			}
		}
	}

	if len(set) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "No fields to update")
	}

	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
	}
	if hasRow && len(rowUpdates) > 0 {
		if err := ctl.DB.WithContext(ctx).Model(&studentModel.StudentRow{}).
			Where("student_id = ?", mysqlID).
			Updates(rowUpdates).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update student", err)
		}
	}

	var idPtr *uint64
	if hasRow {
		idPtr = &mysqlID
	}
	return c.Status(fiber.StatusOK).JSON(studentDTO.FromStudentModel(student, idPtr))
}

/* =========================================================
   EXAM RESULT
   PUT /UpdateExamResult/:id
   ========================================================= */
func (ctl *StudentController) UpdateExamResult(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update exam result", err)
	}
	var req studentDTO.ExamResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	subOID, err := primitive.ObjectIDFromHex(req.SubName)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update exam result", err)
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update exam result", err)
	}

	student.ExamResult = studentModel.UpsertExamResult(student.ExamResult, subOID, req.MarksObtained)
	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"examResult": student.ExamResult}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to update exam result", err)
	}

	if err := ctl.mirrorExamResult(ctx, student, subOID, req.MarksObtained); err != nil {
		log.Printf("[WARN] exam result mirror upsert skipped: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(studentDTO.FromStudentModel(student, nil))
}

func (ctl *StudentController) mirrorExamResult(ctx context.Context, student studentModel.StudentModel, subOID primitive.ObjectID, marks int) error {
	studentRowID, err := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name)
	if err != nil {
		return err
	}
	subjectRowID, err := ctl.subjectRowID(ctx, subOID)
	if err != nil {
		return err
	}
	row := studentModel.ExamResultRow{
		StudentID:     studentRowID,
		SubjectID:     subjectRowID,
		MarksObtained: marks,
	}
	return ctl.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"marks_obtained": marks}),
	}).Create(&row).Error
}

/* =========================================================
   ATTENDANCE
   PUT /StudentAttendance/:id
   ========================================================= */
func (ctl *StudentController) Attendance(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}
	var req studentDTO.AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	subOID, err := primitive.ObjectIDFromHex(req.SubName)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}
	var subject subjectModel.SubjectModel
	if err := ctl.subjects().FindOne(ctx, bson.M{"_id": subOID}).Decode(&subject); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Subject not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}

	updated, capped := studentModel.UpsertAttendance(student.Attendance, subOID, req.Date, req.Status, subject.Sessions)
	if capped {
		return helper.Message(c, "Maximum attendance limit reached")
	}
	student.Attendance = updated

	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"attendance": student.Attendance}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to record attendance", err)
	}

	if err := ctl.mirrorAttendance(ctx, student, subject, req); err != nil {
		log.Printf("[WARN] attendance mirror upsert skipped: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(studentDTO.FromStudentModel(student, nil))
}

func (ctl *StudentController) mirrorAttendance(ctx context.Context, student studentModel.StudentModel, subject subjectModel.SubjectModel, req studentDTO.AttendanceRequest) error {
	studentRowID, err := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name)
	if err != nil {
		return err
	}
	subjectRowID, err := ctl.Resolve.SubjectIDByCode(ctx, subject.SubCode)
	if err != nil {
		return err
	}
	row := studentModel.StudentAttendanceRow{
		StudentID: studentRowID,
		SubjectID: subjectRowID,
		Date:      req.Date.UTC().Truncate(24 * time.Hour),
		Status:    req.Status,
	}
	return ctl.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": req.Status}),
	}).Create(&row).Error
}

/* =========================================================
   ATTENDANCE CLEANUP
   ========================================================= */

// ClearAllBySubject wipes one subject's attendance for every student.
// PUT /RemoveAllStudentsSubAtten/:id (subject id)
func (ctl *StudentController) ClearAllBySubject(c *fiber.Ctx) error {
	subOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	ctx := c.Context()

	res, err := ctl.col().UpdateMany(ctx,
		bson.M{"attendance.subName": subOID},
		bson.M{"$pull": bson.M{"attendance": bson.M{"subName": subOID}}})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	if subjectRowID, rerr := ctl.subjectRowID(ctx, subOID); rerr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("subject_id = ?", subjectRowID).
			Delete(&studentModel.StudentAttendanceRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
		}
	} else {
		log.Printf("[WARN] mirror attendance not cleared for subject %s: %v", subOID.Hex(), rerr)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"modifiedCount": res.ModifiedCount})
}

// ClearAll wipes attendance for every student of a school.
// PUT /RemoveAllStudentsAtten/:id (school id)
func (ctl *StudentController) ClearAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	ctx := c.Context()

	res, err := ctl.col().UpdateMany(ctx,
		bson.M{"school": schoolOID},
		bson.M{"$set": bson.M{"attendance": []bson.M{}}})
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	if adminRowID, rerr := ctl.adminRowIDForSchool(ctx, schoolOID); rerr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("student_id IN (?)", ctl.DB.Model(&studentModel.StudentRow{}).
				Select("student_id").Where("admin_id = ?", adminRowID)).
			Delete(&studentModel.StudentAttendanceRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
		}
	} else {
		log.Printf("[WARN] mirror attendance not cleared for school %s: %v", schoolOID.Hex(), rerr)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"modifiedCount": res.ModifiedCount})
}

// RemoveBySubject removes one student's attendance for one subject.
// PUT /RemoveStudentSubAtten/:id (student id, subId in body)
func (ctl *StudentController) RemoveBySubject(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}
	var body struct {
		SubID string `json:"subId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	subOID, err := primitive.ObjectIDFromHex(body.SubID)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Student or subject not found")
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student or subject not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}
	if err := ctl.subjects().FindOne(ctx, bson.M{"_id": subOID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student or subject not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"attendance": bson.M{"subName": subOID}}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	studentRowID, serr := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name)
	subjectRowID, suberr := ctl.subjectRowID(ctx, subOID)
	if serr == nil && suberr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("student_id = ? AND subject_id = ?", studentRowID, subjectRowID).
			Delete(&studentModel.StudentAttendanceRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
		}
	}

	return helper.Message(c, "Attendance removed")
}

// Remove wipes one student's whole attendance array.
// PUT /RemoveStudentAtten/:id
func (ctl *StudentController) Remove(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	if _, err := ctl.col().UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"attendance": []bson.M{}}}); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
	}

	if studentRowID, rerr := ctl.Resolve.StudentID(ctx, student.RollNum, student.Name); rerr == nil {
		if err := ctl.DB.WithContext(ctx).
			Where("student_id = ?", studentRowID).
			Delete(&studentModel.StudentAttendanceRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to clear attendance", err)
		}
	}

	return helper.Message(c, "Attendance removed")
}

/* =========================================================
   DELETE
   DELETE /Student/:id  /Students/:id (school)  /StudentsClass/:id (class)
   ========================================================= */
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}

	ctx := c.Context()

	var student studentModel.StudentModel
	if err := ctl.col().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}

	// attendance and exam rows go with the student row via foreign keys
	if err := ctl.DB.WithContext(ctx).
		Where("roll_num = ? AND name = ?", student.RollNum, student.Name).
		Delete(&studentModel.StudentRow{}).Error; err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}

	return c.Status(fiber.StatusOK).JSON(student)
}

func (ctl *StudentController) DeleteAll(c *fiber.Ctx) error {
	schoolOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"school": schoolOID})
}

func (ctl *StudentController) DeleteByClass(c *fiber.Ctx) error {
	sclassOID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}
	return ctl.deleteMany(c, bson.M{"sclassName": sclassOID})
}

func (ctl *StudentController) deleteMany(c *fiber.Ctx, filter bson.M) error {
	ctx := c.Context()

	// Collect natural keys first so the mirror rows can still be found
	// after the documents are gone.
	cur, err := ctl.col().Find(ctx, filter)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}
	var students []studentModel.StudentModel
	if err := cur.All(ctx, &students); err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}
	if len(students) == 0 {
		return helper.Message(c, "No students found to delete")
	}

	res, err := ctl.col().DeleteMany(ctx, filter)
	if err != nil {
		return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
	}

	for _, s := range students {
		if err := ctl.DB.WithContext(ctx).
			Where("roll_num = ? AND name = ?", s.RollNum, s.Name).
			Delete(&studentModel.StudentRow{}).Error; err != nil {
			return helper.ErrorWith(c, fiber.StatusInternalServerError, "Failed to delete student(s)", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deletedCount": res.DeletedCount})
}

/* ========================================================= */

func (ctl *StudentController) subjectRowID(ctx context.Context, subOID primitive.ObjectID) (uint64, error) {
	var subject subjectModel.SubjectModel
	if err := ctl.subjects().FindOne(ctx, bson.M{"_id": subOID}).Decode(&subject); err != nil {
		return 0, err
	}
	return ctl.Resolve.SubjectIDByCode(ctx, subject.SubCode)
}

func (ctl *StudentController) adminRowIDForSchool(ctx context.Context, school primitive.ObjectID) (uint64, error) {
	var admin adminModel.AdminModel
	if err := ctl.Mongo.Collection(adminModel.AdminModel{}.CollectionName()).
		FindOne(ctx, bson.M{"_id": school}).Decode(&admin); err != nil {
		return 0, err
	}
	return ctl.Resolve.AdminID(ctx, admin.Email)
}
